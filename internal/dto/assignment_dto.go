package dto

import (
	"github.com/noah-isme/school-lms/internal/models"
)

// AssignmentDefinitionRequest describes a new or edited assignment definition.
type AssignmentDefinitionRequest struct {
	CourseID    uint   `json:"course_id" validate:"required"`
	Title       string `json:"title" validate:"required,max=255"`
	DueDate     string `json:"due_date" validate:"required,datetime=2006-01-02"`
	Description string `json:"description" validate:"required"`
}

// AssignmentDefinitionUpdateRequest replaces every editable field of a definition.
type AssignmentDefinitionUpdateRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	DueDate     string `json:"due_date" validate:"required,datetime=2006-01-02"`
	Description string `json:"description" validate:"required"`
}

// AssignmentDefinitionResponse is the view of a definition shown to teachers and students.
type AssignmentDefinitionResponse struct {
	ID          uint   `json:"id"`
	CourseID    uint   `json:"course_id"`
	Title       string `json:"title"`
	DueDate     string `json:"due_date"`
	Description string `json:"description"`
	Label       string `json:"label"`
}

// NewAssignmentDefinitionResponse converts a model into a DTO.
func NewAssignmentDefinitionResponse(model models.AssignmentDefinition) AssignmentDefinitionResponse {
	return AssignmentDefinitionResponse{
		ID:          model.ID,
		CourseID:    model.CourseID,
		Title:       model.Title,
		DueDate:     model.DueDate,
		Description: model.Description,
		Label:       model.Label(),
	}
}

// NewAssignmentDefinitionResponseSlice converts a slice of models into DTOs.
func NewAssignmentDefinitionResponseSlice(definitions []models.AssignmentDefinition) []AssignmentDefinitionResponse {
	responses := make([]AssignmentDefinitionResponse, 0, len(definitions))
	for _, definition := range definitions {
		responses = append(responses, NewAssignmentDefinitionResponse(definition))
	}

	return responses
}
