package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog captures auditable events triggered by administrators and teachers.
type ActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	Actor      string            `gorm:"size:64;not null;index" json:"actor"`
	ActorRole  string            `gorm:"size:16;not null" json:"actor_role"`
	Action     string            `gorm:"size:64;not null" json:"action"`
	EntityType string            `gorm:"size:64;not null" json:"entity_type"`
	EntityID   string            `gorm:"size:64" json:"entity_id"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
}

// All lists every persisted record in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&Enrollment{},
		&AssignmentDefinition{},
		&AssignmentSubmission{},
		&Quiz{},
		&QuizSubmission{},
		&Notification{},
		&Message{},
		&ChatMessage{},
		&PointsEntry{},
		&Badge{},
		&ActivityLog{},
	}
}
