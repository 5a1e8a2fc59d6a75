package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/school-lms/internal/models"
)

// CourseRepository persists courses and their enrollments.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (models.Course, error)
	ListByTeacher(ctx context.Context, teacher string) ([]models.Course, error)
	ListEnrolled(ctx context.Context, student string) ([]models.Course, error)
	ListAvailable(ctx context.Context, student string) ([]models.Course, error)
	Enroll(ctx context.Context, enrollment *models.Enrollment) error
	IsEnrolled(ctx context.Context, courseID uint, student string) (bool, error)
	ListStudents(ctx context.Context, courseID uint) ([]string, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository constructs a GORM-backed course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (r *courseRepository) ListByTeacher(ctx context.Context, teacher string) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).Where("teacher = ?", teacher).Order("id ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) ListEnrolled(ctx context.Context, student string) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).
		Where("id IN (?)", r.enrolledCourseIDs(ctx, student)).
		Order("id ASC").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) ListAvailable(ctx context.Context, student string) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).
		Where("id NOT IN (?)", r.enrolledCourseIDs(ctx, student)).
		Order("id ASC").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) enrolledCourseIDs(ctx context.Context, student string) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Enrollment{}).Select("course_id").Where("student = ?", student)
}

func (r *courseRepository) Enroll(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *courseRepository) IsEnrolled(ctx context.Context, courseID uint, student string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ? AND student = ?", courseID, student).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *courseRepository) ListStudents(ctx context.Context, courseID uint) ([]string, error) {
	var students []string
	if err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Order("student ASC").
		Pluck("student", &students).Error; err != nil {
		return nil, err
	}
	return students, nil
}
