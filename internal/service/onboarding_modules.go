package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/noah-isme/onboard-go-api/internal/dto"
	"github.com/noah-isme/onboard-go-api/internal/models"
)

// OnboardingModule is one unit of the onboarding workflow. The aggregator and
// the assistant iterate the module set polymorphically, so adding a module
// means adding one implementation here rather than touching every consumer.
type OnboardingModule interface {
	Name() string
	Complete() bool
	Summarize() string
}

// ProfileModules builds the module set from a profile snapshot, in the order
// they are presented to students.
func ProfileModules(profile models.StudentProfile) []OnboardingModule {
	return []OnboardingModule{
		documentsModule{records: profile.Documents},
		feeModule{fee: profile.Fee},
		hostelModule{hostel: profile.Hostel},
		lmsModule{lms: profile.LMS},
	}
}

// ComputeProgress recomputes the completion score from scratch. It is a pure
// function with no side effects; callers persist the cached percentage.
func ComputeProgress(profile models.StudentProfile) dto.ProgressResponse {
	modules := ProfileModules(profile)
	step := 100 / len(modules)

	completed := 0
	breakdown := make([]dto.ModuleProgress, 0, len(modules))
	for _, module := range modules {
		complete := module.Complete()
		if complete {
			completed++
		}
		breakdown = append(breakdown, dto.ModuleProgress{
			Module:   module.Name(),
			Complete: complete,
			Summary:  module.Summarize(),
		})
	}

	percentage := step * completed
	if completed == len(modules) {
		percentage = 100
	}

	return dto.ProgressResponse{Percentage: percentage, Modules: breakdown}
}

type documentsModule struct {
	records []models.DocumentRecord
}

func (m documentsModule) Name() string { return "documents" }

func (m documentsModule) Complete() bool {
	active := 0
	for _, record := range m.records {
		if !record.Active() {
			continue
		}
		active++
		if record.Status != models.DocumentApproved {
			return false
		}
	}
	return active > 0
}

func (m documentsModule) Summarize() string {
	if len(m.records) == 0 {
		return "No documents uploaded yet."
	}

	counts := map[models.DocumentStatus]int{}
	for _, record := range m.records {
		counts[record.Status]++
	}

	parts := make([]string, 0, len(counts))
	for _, status := range []models.DocumentStatus{
		models.DocumentApproved,
		models.DocumentSubmitted,
		models.DocumentUploaded,
		models.DocumentPending,
		models.DocumentRejected,
	} {
		if count := counts[status]; count > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", count, status))
		}
	}

	return "Documents: " + strings.Join(parts, ", ") + "."
}

type feeModule struct {
	fee models.FeeAccount
}

func (m feeModule) Name() string { return "fee" }

func (m feeModule) Complete() bool {
	return m.fee.DeriveStatus() == models.FeePaid
}

func (m feeModule) Summarize() string {
	switch m.fee.DeriveStatus() {
	case models.FeePaid:
		return fmt.Sprintf("Fees fully paid (total ₹%d).", m.fee.TotalAmount)
	case models.FeePartial:
		return fmt.Sprintf("Paid ₹%d of ₹%d; ₹%d remaining.", m.fee.PaidAmount, m.fee.TotalAmount, m.fee.Remaining())
	default:
		return fmt.Sprintf("Fees unpaid; ₹%d due.", m.fee.Remaining())
	}
}

type hostelModule struct {
	hostel models.HostelApplication
}

func (m hostelModule) Name() string { return "hostel" }

func (m hostelModule) Complete() bool {
	return m.hostel.Status == models.HostelApproved
}

func (m hostelModule) Summarize() string {
	switch m.hostel.Status {
	case models.HostelApproved:
		return fmt.Sprintf("Hostel room allocated (%s).", m.hostel.RoomType)
	case models.HostelPending:
		return "Hostel application under review."
	case models.HostelRejected:
		reason := m.hostel.RejectionReason
		if reason == "" {
			reason = "no reason recorded"
		}
		return "Hostel application rejected: " + reason
	default:
		return "Hostel not applied for yet."
	}
}

type lmsModule struct {
	lms models.LMSAccount
}

func (m lmsModule) Name() string { return "lms" }

func (m lmsModule) Complete() bool {
	return m.lms.Status == models.LMSActive
}

func (m lmsModule) Summarize() string {
	if m.lms.Status != models.LMSActive {
		return "Learning system not activated."
	}

	subjects := DecodeSubjects(m.lms.Subjects)
	if len(subjects) == 0 {
		return "Learning system active; no subjects registered."
	}
	return fmt.Sprintf("Learning system active with %d registered subjects.", len(subjects))
}

// DecodeSubjects unpacks the JSON-encoded subject list; malformed or empty
// payloads decode to nil.
func DecodeSubjects(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}

	var subjects []string
	if err := json.Unmarshal(raw, &subjects); err != nil {
		return nil
	}
	return subjects
}
