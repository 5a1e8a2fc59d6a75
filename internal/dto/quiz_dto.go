package dto

import "github.com/noah-isme/school-lms/internal/models"

// QuizCreateRequest describes a single-question quiz with four options.
type QuizCreateRequest struct {
	CourseID      uint     `json:"course_id" validate:"required"`
	Title         string   `json:"title" validate:"required,max=255"`
	DueDate       string   `json:"due_date" validate:"required,datetime=2006-01-02"`
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"len=4,dive,required"`
	CorrectOption int      `json:"correct_option" validate:"min=0,max=3"`
}

// QuizResponse is the student-facing view of a quiz; the correct option is never exposed.
type QuizResponse struct {
	ID       uint     `json:"id"`
	CourseID uint     `json:"course_id"`
	Title    string   `json:"title"`
	DueDate  string   `json:"due_date"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuizAttemptResult reports the outcome of answering a quiz.
type QuizAttemptResult struct {
	QuizID uint        `json:"quiz_id"`
	Score  int         `json:"score"`
	Award  AwardResult `json:"award"`
}

// NewQuizResponse converts a model into a DTO.
func NewQuizResponse(model models.Quiz) QuizResponse {
	options := make([]string, len(model.Options))
	copy(options, model.Options)
	return QuizResponse{
		ID:       model.ID,
		CourseID: model.CourseID,
		Title:    model.Title,
		DueDate:  model.DueDate,
		Question: model.Question,
		Options:  options,
	}
}

// NewQuizResponseSlice converts a slice of models into DTOs.
func NewQuizResponseSlice(quizzes []models.Quiz) []QuizResponse {
	responses := make([]QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, NewQuizResponse(quiz))
	}
	return responses
}
