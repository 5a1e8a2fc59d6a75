package dto

import (
	"time"

	"github.com/noah-isme/school-lms/internal/models"
)

// MessageRequest is a direct message to another user.
type MessageRequest struct {
	Receiver string `json:"receiver" validate:"required,max=64"`
	Body     string `json:"body" validate:"required,max=2000"`
}

// ChatPostRequest is a message posted to a course chat.
type ChatPostRequest struct {
	CourseID uint   `json:"course_id" validate:"required"`
	Body     string `json:"body" validate:"required,max=2000"`
}

// NotificationResponse is the view of a notification.
type NotificationResponse struct {
	ID        uint      `json:"id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageResponse is the view of a direct message or chat line.
type MessageResponse struct {
	ID        uint      `json:"id"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver,omitempty"`
	CourseID  uint      `json:"course_id,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotificationResponse converts a model into a DTO.
func NewNotificationResponse(model models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        model.ID,
		Message:   model.Message,
		Read:      model.Read,
		CreatedAt: model.CreatedAt,
	}
}

// NewMessageResponse converts a direct message into a DTO.
func NewMessageResponse(model models.Message) MessageResponse {
	return MessageResponse{
		ID:        model.ID,
		Sender:    model.Sender,
		Receiver:  model.Receiver,
		Body:      model.Body,
		CreatedAt: model.CreatedAt,
	}
}

// NewChatMessageResponse converts a chat message into a DTO.
func NewChatMessageResponse(model models.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:        model.ID,
		Sender:    model.Sender,
		CourseID:  model.CourseID,
		Body:      model.Body,
		CreatedAt: model.CreatedAt,
	}
}
