package models

import "time"

// Student roles understood by the role gate.
const (
	RoleStudent = "student"
	RoleStaff   = "staff"
	RoleAdmin   = "admin"
)

// Student represents an admitted student going through onboarding.
type Student struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Branch    string    `gorm:"size:128" json:"branch"`
	Year      string    `gorm:"size:32" json:"year"`
	Role      string    `gorm:"size:32;default:student" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
