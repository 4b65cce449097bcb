package dto

import "github.com/noah-isme/onboard-go-api/internal/models"

// HostelApplyRequest is a student's hostel application.
type HostelApplyRequest struct {
	Gender   string `json:"gender" validate:"required,oneof=male female other"`
	RoomType string `json:"room_type" validate:"required,oneof=single double triple dormitory"`
}

// HostelDecisionRequest is an admin adjudication of a pending application.
type HostelDecisionRequest struct {
	Status          string `json:"status" validate:"required,oneof=approved rejected"`
	RejectionReason string `json:"rejection_reason" validate:"omitempty,max=512"`
}

// HostelResponse is the serialized hostel application state.
type HostelResponse struct {
	Status          string `json:"status"`
	Gender          string `json:"gender,omitempty"`
	RoomType        string `json:"room_type,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// NewHostelResponse converts the embedded model into a DTO.
func NewHostelResponse(hostel models.HostelApplication) HostelResponse {
	return HostelResponse{
		Status:          string(hostel.Status),
		Gender:          hostel.Gender,
		RoomType:        hostel.RoomType,
		RejectionReason: hostel.RejectionReason,
	}
}

// RegisterSubjectsRequest replaces the registered subject set.
type RegisterSubjectsRequest struct {
	Subjects []string `json:"subjects" validate:"required,min=1,max=16,dive,min=1,max=128"`
}

// LMSResponse is the serialized learning-system state.
type LMSResponse struct {
	Status   string   `json:"status"`
	Subjects []string `json:"subjects"`
}

// ModuleProgress is one line of the per-module breakdown.
type ModuleProgress struct {
	Module   string `json:"module"`
	Complete bool   `json:"complete"`
	Summary  string `json:"summary"`
}

// ProgressResponse is the aggregated onboarding progress for a student.
type ProgressResponse struct {
	Percentage int              `json:"percentage"`
	Modules    []ModuleProgress `json:"modules"`
}
