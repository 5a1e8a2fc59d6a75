package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/school-lms/internal/models"
)

// QuizRepository persists quizzes and their write-once submissions.
type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	GetByID(ctx context.Context, id uint) (models.Quiz, error)
	ListByCourse(ctx context.Context, courseID uint) ([]models.Quiz, error)
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
	ListUnattempted(ctx context.Context, student string, courseID *uint) ([]models.Quiz, error)
	CreateSubmission(ctx context.Context, submission *models.QuizSubmission) error
	HasSubmission(ctx context.Context, quizID uint, student string) (bool, error)
	CountSubmissions(ctx context.Context, student string) (int64, error)
	CountAttemptedInCourse(ctx context.Context, courseID uint, student string) (int64, error)
}

type quizRepository struct {
	db *gorm.DB
}

// NewQuizRepository constructs a GORM-backed quiz repository.
func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	return r.db.WithContext(ctx).Create(quiz).Error
}

func (r *quizRepository) GetByID(ctx context.Context, id uint) (models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.WithContext(ctx).First(&quiz, id).Error; err != nil {
		return models.Quiz{}, err
	}
	return quiz, nil
}

func (r *quizRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	if err := r.db.WithContext(ctx).Where("course_id = ?", courseID).Order("due_date ASC, id ASC").Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepository) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Quiz{}).Where("course_id = ?", courseID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListUnattempted returns quizzes of the student's enrolled courses that have no submission from the student yet.
func (r *quizRepository) ListUnattempted(ctx context.Context, student string, courseID *uint) ([]models.Quiz, error) {
	enrolled := r.db.WithContext(ctx).Model(&models.Enrollment{}).Select("course_id").Where("student = ?", student)
	attempted := r.db.WithContext(ctx).Model(&models.QuizSubmission{}).Select("quiz_id").Where("student = ?", student)

	query := r.db.WithContext(ctx).
		Where("course_id IN (?)", enrolled).
		Where("id NOT IN (?)", attempted)
	if courseID != nil {
		query = query.Where("course_id = ?", *courseID)
	}

	var quizzes []models.Quiz
	if err := query.Order("due_date ASC, id ASC").Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepository) CreateSubmission(ctx context.Context, submission *models.QuizSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *quizRepository) HasSubmission(ctx context.Context, quizID uint, student string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.QuizSubmission{}).
		Where("quiz_id = ? AND student = ?", quizID, student).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *quizRepository) CountSubmissions(ctx context.Context, student string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.QuizSubmission{}).Where("student = ?", student).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *quizRepository) CountAttemptedInCourse(ctx context.Context, courseID uint, student string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.QuizSubmission{}).
		Joins("JOIN quizzes ON quizzes.id = quiz_submissions.quiz_id").
		Where("quizzes.course_id = ? AND quiz_submissions.student = ?", courseID, student).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
