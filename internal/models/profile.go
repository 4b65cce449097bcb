package models

import (
	"time"

	"gorm.io/datatypes"
)

// DocumentType is the closed set of document kinds the classifier can emit.
type DocumentType string

// Canonical document slots plus the catch-all Other.
const (
	DocTenthMarksheet       DocumentType = "10th Marksheet"
	DocTwelfthMarksheet     DocumentType = "12th Marksheet"
	DocDiplomaMarksheet     DocumentType = "Diploma Marksheet"
	DocAadhaarCard          DocumentType = "Aadhaar Card"
	DocPANCard              DocumentType = "PAN Card"
	DocTransferCertificate  DocumentType = "Transfer Certificate"
	DocCasteCertificate     DocumentType = "Caste Certificate"
	DocIncomeCertificate    DocumentType = "Income Certificate"
	DocMigrationCertificate DocumentType = "Migration Certificate"
	DocPassportPhoto        DocumentType = "Passport Photo"
	DocSignature            DocumentType = "Signature"
	DocOther                DocumentType = "Other"
)

// KnownDocumentTypes lists every slot the classifier prompt enumerates.
var KnownDocumentTypes = []DocumentType{
	DocTenthMarksheet,
	DocTwelfthMarksheet,
	DocDiplomaMarksheet,
	DocAadhaarCard,
	DocPANCard,
	DocTransferCertificate,
	DocCasteCertificate,
	DocIncomeCertificate,
	DocMigrationCertificate,
	DocPassportPhoto,
	DocSignature,
}

// DocumentStatus tracks a single document slot through review.
type DocumentStatus string

const (
	DocumentPending   DocumentStatus = "pending"
	DocumentUploaded  DocumentStatus = "uploaded"
	DocumentSubmitted DocumentStatus = "submitted"
	DocumentApproved  DocumentStatus = "approved"
	DocumentRejected  DocumentStatus = "rejected"
)

// FeeStatus derives from paid versus total amount.
type FeeStatus string

const (
	FeeUnpaid  FeeStatus = "unpaid"
	FeePartial FeeStatus = "partial"
	FeePaid    FeeStatus = "paid"
)

// HostelStatus tracks the hostel application lifecycle.
type HostelStatus string

const (
	HostelNotApplied HostelStatus = "not_applied"
	HostelPending    HostelStatus = "pending"
	HostelApproved   HostelStatus = "approved"
	HostelRejected   HostelStatus = "rejected"
)

// LMSStatus marks whether the learning system account is live.
type LMSStatus string

const (
	LMSInactive LMSStatus = "inactive"
	LMSActive   LMSStatus = "active"
)

// StudentProfile is the single authoritative onboarding record per student.
// All mutation goes through the services; handlers never write fields directly.
type StudentProfile struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	StudentID          uint              `gorm:"uniqueIndex;not null" json:"student_id"`
	Documents          []DocumentRecord  `gorm:"foreignKey:ProfileID" json:"documents"`
	Fee                FeeAccount        `gorm:"embedded;embeddedPrefix:fee_" json:"fee"`
	Payments           []FeePayment      `gorm:"foreignKey:ProfileID" json:"payments"`
	Hostel             HostelApplication `gorm:"embedded;embeddedPrefix:hostel_" json:"hostel"`
	LMS                LMSAccount        `gorm:"embedded;embeddedPrefix:lms_" json:"lms"`
	ProgressPercentage int               `gorm:"not null;default:0" json:"progress_percentage"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// DocumentRecord is one canonical document slot. At most one record per type
// may be active (pending/uploaded/submitted/approved) at a time; a new
// classification for an active type replaces the record instead of duplicating.
type DocumentRecord struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	ProfileID       uint           `gorm:"index;not null" json:"profile_id"`
	Type            DocumentType   `gorm:"size:64;not null" json:"type"`
	FilePath        string         `gorm:"size:512" json:"file_path"`
	OriginalName    string         `gorm:"size:255" json:"original_name"`
	Status          DocumentStatus `gorm:"size:32;not null;default:pending" json:"status"`
	RejectionReason string         `gorm:"size:512" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Active reports whether the record occupies its document slot.
func (d DocumentRecord) Active() bool {
	return d.Status != DocumentRejected
}

// FeeAccount holds the ledger totals in rupees. History lives in FeePayment rows.
type FeeAccount struct {
	TotalAmount   int64     `gorm:"not null;default:0" json:"total_amount"`
	PaidAmount    int64     `gorm:"not null;default:0" json:"paid_amount"`
	Status        FeeStatus `gorm:"size:16;not null;default:unpaid" json:"status"`
	TransactionID string    `gorm:"size:128" json:"transaction_id,omitempty"`
	OrderID       string    `gorm:"size:128" json:"order_id,omitempty"`
	Signature     string    `gorm:"size:256" json:"signature,omitempty"`
}

// Remaining returns the outstanding balance, never negative.
func (f FeeAccount) Remaining() int64 {
	if remaining := f.TotalAmount - f.PaidAmount; remaining > 0 {
		return remaining
	}
	return 0
}

// DeriveStatus recomputes the fee status from the amount invariant.
func (f FeeAccount) DeriveStatus() FeeStatus {
	switch {
	case f.TotalAmount > 0 && f.PaidAmount >= f.TotalAmount:
		return FeePaid
	case f.PaidAmount > 0:
		return FeePartial
	default:
		return FeeUnpaid
	}
}

// FeePayment is one verified payment. Rows are append-only; the composite
// unique index backs the idempotency guard against duplicate verification calls.
type FeePayment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProfileID     uint      `gorm:"index;not null" json:"profile_id"`
	Amount        int64     `gorm:"not null" json:"amount"`
	TransactionID string    `gorm:"size:128;not null;uniqueIndex:idx_payment_order_txn" json:"transaction_id"`
	OrderID       string    `gorm:"size:128;not null;uniqueIndex:idx_payment_order_txn" json:"order_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// HostelApplication embeds the hostel lifecycle in the profile.
// RejectionReason is present only while status is rejected.
type HostelApplication struct {
	Status          HostelStatus `gorm:"size:32;not null;default:not_applied" json:"status"`
	Gender          string       `gorm:"size:16" json:"gender,omitempty"`
	RoomType        string       `gorm:"size:32" json:"room_type,omitempty"`
	RejectionReason string       `gorm:"size:512" json:"rejection_reason,omitempty"`
}

// LMSAccount embeds learning-system activation state in the profile.
type LMSAccount struct {
	Status   LMSStatus      `gorm:"size:16;not null;default:inactive" json:"status"`
	Subjects datatypes.JSON `gorm:"type:json" json:"subjects,omitempty"`
}
