package dto

import (
	"time"

	"github.com/noah-isme/onboard-go-api/internal/models"
)

// Mapping outcomes for a classified upload.
const (
	MappingAppended      = "appended"
	MappingReplaced      = "replaced"
	MappingLowConfidence = "low_confidence"
	MappingFailed        = "failed"
)

// ClassificationResult echoes the classifier's structured answer.
type ClassificationResult struct {
	DocumentType string  `json:"document_type"`
	Confidence   float64 `json:"confidence"`
}

// DocumentUploadResult describes what happened to one uploaded file.
type DocumentUploadResult struct {
	FileName       string               `json:"file_name"`
	Classification ClassificationResult `json:"classification"`
	Outcome        string               `json:"outcome"`
	Mapped         bool                 `json:"mapped"`
	FileURL        string               `json:"file_url,omitempty"`
	Message        string               `json:"message"`
}

// DocumentBatchResult accumulates per-file results for a multi-file upload.
type DocumentBatchResult struct {
	Results []DocumentUploadResult `json:"results"`
	Mapped  int                    `json:"mapped"`
}

// DocumentResponse is the serialized representation of one document slot.
type DocumentResponse struct {
	ID              uint      `json:"id"`
	Type            string    `json:"type"`
	OriginalName    string    `json:"original_name"`
	FileURL         string    `json:"file_url,omitempty"`
	Status          string    `json:"status"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewDocumentResponse converts a model into a DTO.
func NewDocumentResponse(record models.DocumentRecord) DocumentResponse {
	return DocumentResponse{
		ID:              record.ID,
		Type:            string(record.Type),
		OriginalName:    record.OriginalName,
		FileURL:         record.FilePath,
		Status:          string(record.Status),
		RejectionReason: record.RejectionReason,
		UpdatedAt:       record.UpdatedAt,
	}
}

// NewDocumentResponseSlice converts a slice of models into DTOs.
func NewDocumentResponseSlice(records []models.DocumentRecord) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(records))
	for _, record := range records {
		out = append(out, NewDocumentResponse(record))
	}
	return out
}
