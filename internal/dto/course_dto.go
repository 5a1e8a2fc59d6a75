package dto

import "github.com/noah-isme/school-lms/internal/models"

// CourseCreateRequest describes a new course owned by the calling teacher.
type CourseCreateRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=5000"`
}

// CourseDescriptionRequest replaces the description of an existing course.
type CourseDescriptionRequest struct {
	Description string `json:"description" validate:"max=5000"`
}

// CourseResponse is the list view of a course.
type CourseResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Teacher     string `json:"teacher"`
	Description string `json:"description"`
}

// NewCourseResponse converts a model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	return CourseResponse{
		ID:          model.ID,
		Name:        model.Name,
		Teacher:     model.Teacher,
		Description: model.Description,
	}
}

// NewCourseResponseSlice converts a slice of models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}
	return responses
}

// EnrollResult is returned after a successful enrollment.
type EnrollResult struct {
	Course CourseResponse `json:"course"`
	Award  AwardResult    `json:"award"`
}
