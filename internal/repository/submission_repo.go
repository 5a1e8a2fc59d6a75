package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/school-lms/internal/models"
)

// SubmissionRepository defines data operations for assignment submissions.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.AssignmentSubmission) error
	Update(ctx context.Context, submission *models.AssignmentSubmission) error
	GetByID(ctx context.Context, id uint) (models.AssignmentSubmission, error)
	ListByStudent(ctx context.Context, student string) ([]models.AssignmentSubmission, error)
	ListUngradedByStudent(ctx context.Context, student string) ([]models.AssignmentSubmission, error)
	ListByTeacher(ctx context.Context, teacher string) ([]models.AssignmentSubmission, error)
	CountByCourseAndStudent(ctx context.Context, courseID uint, student string) (int64, error)
	CountWithDefinitionDueOnOrAfter(ctx context.Context, student, date string) (int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.AssignmentSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.AssignmentSubmission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.AssignmentSubmission, error) {
	var submission models.AssignmentSubmission
	if err := r.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return models.AssignmentSubmission{}, err
	}
	return submission, nil
}

func (r *submissionRepository) ListByStudent(ctx context.Context, student string) ([]models.AssignmentSubmission, error) {
	var submissions []models.AssignmentSubmission
	if err := r.db.WithContext(ctx).Where("student = ?", student).Order("id ASC").Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) ListUngradedByStudent(ctx context.Context, student string) ([]models.AssignmentSubmission, error) {
	var submissions []models.AssignmentSubmission
	if err := r.db.WithContext(ctx).
		Where("student = ? AND grade IS NULL", student).
		Order("id ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) ListByTeacher(ctx context.Context, teacher string) ([]models.AssignmentSubmission, error) {
	owned := r.db.WithContext(ctx).Model(&models.Course{}).Select("id").Where("teacher = ?", teacher)

	var submissions []models.AssignmentSubmission
	if err := r.db.WithContext(ctx).
		Where("course_id IN (?)", owned).
		Order("id ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) CountByCourseAndStudent(ctx context.Context, courseID uint, student string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AssignmentSubmission{}).
		Where("course_id = ? AND student = ?", courseID, student).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountWithDefinitionDueOnOrAfter counts the student's submissions whose definition is due on or after date (YYYY-MM-DD).
func (r *submissionRepository) CountWithDefinitionDueOnOrAfter(ctx context.Context, student, date string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AssignmentSubmission{}).
		Joins("JOIN assignment_definitions ON assignment_definitions.id = assignment_submissions.definition_id").
		Where("assignment_submissions.student = ?", student).
		Where("assignment_definitions.due_date >= ?", date).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
