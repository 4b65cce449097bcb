package dto

import "time"

// AdminStudentRow is one roster entry with onboarding summary fields.
type AdminStudentRow struct {
	StudentID          uint      `json:"student_id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Branch             string    `json:"branch"`
	Year               string    `json:"year"`
	ProgressPercentage int       `json:"progress_percentage"`
	DocumentsPending   int       `json:"documents_pending"`
	FeeStatus          string    `json:"fee_status"`
	HostelStatus       string    `json:"hostel_status"`
	LMSStatus          string    `json:"lms_status"`
	CreatedAt          time.Time `json:"created_at"`
}

// AdminAnalyticsResponse aggregates onboarding counters for the dashboard.
type AdminAnalyticsResponse struct {
	TotalStudents       int64 `json:"total_students"`
	CompletedOnboarding int64 `json:"completed_onboarding"`
	PendingDocuments    int64 `json:"pending_documents"`
	FeeUnpaidCount      int64 `json:"fee_unpaid_count"`
	HostelPendingCount  int64 `json:"hostel_pending_count"`
	CacheHit            bool  `json:"cache_hit,omitempty"`
}

// EnrollStudentRequest creates a student identity with a fresh onboarding
// profile.
type EnrollStudentRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=128"`
	Email  string `json:"email" validate:"required,email"`
	Branch string `json:"branch" validate:"required,max=64"`
	Year   string `json:"year" validate:"required,max=16"`
}

// EnrollStudentResponse reports the created identity and fee account.
type EnrollStudentResponse struct {
	StudentID    uint   `json:"student_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	FeeTotal     int64  `json:"fee_total"`
	FeeStatus    string `json:"fee_status"`
	HostelStatus string `json:"hostel_status"`
	LMSStatus    string `json:"lms_status"`
}

// HostelApplicationRow is one entry in the admin review queue.
type HostelApplicationRow struct {
	StudentID uint           `json:"student_id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Branch    string         `json:"branch"`
	Year      string         `json:"year"`
	Hostel    HostelResponse `json:"hostel"`
}
