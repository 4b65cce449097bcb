package models

import "time"

// Chat senders.
const (
	SenderStudent   = "student"
	SenderAssistant = "assistant"
)

// ChatMessage is one entry in a student's append-only conversation log.
// Messages are created around every exchange and never updated or deleted.
type ChatMessage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StudentID  uint      `gorm:"index;not null" json:"student_id"`
	Sender     string    `gorm:"size:16;not null" json:"sender"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	Attachment string    `gorm:"size:512" json:"attachment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Notification represents an onboarding event surfaced to a student.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"index;not null" json:"student_id"`
	Type      string    `gorm:"size:64" json:"type"`
	Message   string    `gorm:"type:text" json:"message"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
