package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/school-lms/internal/models"
)

// AssignmentRepository defines persistence operations for assignment definitions.
type AssignmentRepository interface {
	Create(ctx context.Context, definition *models.AssignmentDefinition) error
	Update(ctx context.Context, definition *models.AssignmentDefinition) error
	GetByID(ctx context.Context, id uint) (models.AssignmentDefinition, error)
	ListByCourse(ctx context.Context, courseID uint) ([]models.AssignmentDefinition, error)
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
	TitleExists(ctx context.Context, courseID uint, title string, excludeID uint) (bool, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates a GORM-backed repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, definition *models.AssignmentDefinition) error {
	return r.db.WithContext(ctx).Create(definition).Error
}

func (r *assignmentRepository) Update(ctx context.Context, definition *models.AssignmentDefinition) error {
	return r.db.WithContext(ctx).Save(definition).Error
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.AssignmentDefinition, error) {
	var definition models.AssignmentDefinition
	if err := r.db.WithContext(ctx).First(&definition, id).Error; err != nil {
		return models.AssignmentDefinition{}, err
	}
	return definition, nil
}

func (r *assignmentRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.AssignmentDefinition, error) {
	var definitions []models.AssignmentDefinition
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("due_date ASC, id ASC").
		Find(&definitions).Error; err != nil {
		return nil, err
	}
	return definitions, nil
}

func (r *assignmentRepository) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AssignmentDefinition{}).Where("course_id = ?", courseID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *assignmentRepository) TitleExists(ctx context.Context, courseID uint, title string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.AssignmentDefinition{}).
		Where("course_id = ? AND title = ?", courseID, title)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
