package dto

import (
	"time"

	"github.com/noah-isme/school-lms/internal/models"
)

// SubmissionCreateRequest identifies the definition a student hands in against and the local file to copy.
type SubmissionCreateRequest struct {
	CourseID     uint   `json:"course_id" validate:"required"`
	DefinitionID uint   `json:"definition_id" validate:"required"`
	SourcePath   string `json:"source_path" validate:"required"`
}

// GradeRequest captures a free-text grade.
type GradeRequest struct {
	Grade string `json:"grade" validate:"required,max=32"`
}

// CommentRequest captures teacher feedback on a submission.
type CommentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// SubmissionResponse is the view of a stored submission.
type SubmissionResponse struct {
	ID           uint      `json:"id"`
	CourseID     uint      `json:"course_id"`
	DefinitionID uint      `json:"definition_id"`
	Student      string    `json:"student"`
	FilePath     string    `json:"file_path"`
	FileType     string    `json:"file_type"`
	Grade        string    `json:"grade"`
	Graded       bool      `json:"graded"`
	DueDate      string    `json:"due_date"`
	Description  string    `json:"description"`
	Comment      string    `json:"comment"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// SubmitResult is returned to a student after a successful hand-in.
type SubmitResult struct {
	Submission SubmissionResponse `json:"submission"`
	Award      AwardResult        `json:"award"`
}

// PreviewKind classifies stored files for previewing.
type PreviewKind string

const (
	PreviewImage PreviewKind = "image"
	PreviewPDF   PreviewKind = "pdf"
	PreviewText  PreviewKind = "text"
	PreviewOther PreviewKind = "other"
)

// PreviewResponse describes how a stored submission can be shown. Content is set for text files only.
type PreviewResponse struct {
	SubmissionID uint        `json:"submission_id"`
	Kind         PreviewKind `json:"kind"`
	MimeType     string      `json:"mime_type"`
	Content      string      `json:"content,omitempty"`
}

// NewSubmissionResponse converts a model into a DTO.
func NewSubmissionResponse(model models.AssignmentSubmission) SubmissionResponse {
	response := SubmissionResponse{
		ID:           model.ID,
		CourseID:     model.CourseID,
		DefinitionID: model.DefinitionID,
		Student:      model.Student,
		FilePath:     model.FilePath,
		FileType:     model.FileType,
		Graded:       model.IsGraded(),
		DueDate:      model.DueDate,
		Description:  model.Description,
		SubmittedAt:  model.CreatedAt,
	}
	if model.Grade != nil {
		response.Grade = *model.Grade
	}
	if model.Comment != nil {
		response.Comment = *model.Comment
	}
	return response
}

// NewSubmissionResponseSlice converts a slice of models into DTOs.
func NewSubmissionResponseSlice(submissions []models.AssignmentSubmission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}
	return responses
}
