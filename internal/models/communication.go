package models

import "time"

// Notification is an in-app message for a single user.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;not null;index:idx_notifications_username" json:"username"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Read      bool      `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is a direct message between two users.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Sender    string    `gorm:"size:64;not null;index" json:"sender"`
	Receiver  string    `gorm:"size:64;not null;index:idx_messages_receiver" json:"receiver"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessage is posted to a course-wide chat room.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;index:idx_chat_course" json:"course_id"`
	Sender    string    `gorm:"size:64;not null" json:"sender"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
