package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/onboard-go-api/internal/dto"
	"github.com/noah-isme/onboard-go-api/internal/models"
	"github.com/noah-isme/onboard-go-api/internal/observability"
	"github.com/noah-isme/onboard-go-api/internal/repository"
	"github.com/noah-isme/onboard-go-api/pkg/ai"
)

var (
	// ErrNoFile indicates the upload request carried no file.
	ErrNoFile = errors.New("file is required")
	// ErrUploadTooLarge indicates the payload exceeded the configured limit.
	ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUploadTypeNotAllowed indicates the MIME type is not permitted.
	ErrUploadTypeNotAllowed = errors.New("file type not allowed")
)

const classifierFallbackMessage = "Sorry, I encountered an error processing your document."

// FileStorage abstracts the document store: upload bytes for a retrievable
// URL, delete by that URL when a re-upload supersedes the file.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
	Delete(ctx context.Context, storedURL string) error
}

// DocumentService classifies uploads and maps them into canonical document
// slots on the student profile.
type DocumentService interface {
	Upload(ctx context.Context, studentID uint, file *multipart.FileHeader) (dto.DocumentUploadResult, error)
	UploadBatch(ctx context.Context, studentID uint, files []*multipart.FileHeader) (dto.DocumentBatchResult, error)
	List(ctx context.Context, studentID uint) ([]dto.DocumentResponse, error)
}

type documentService struct {
	profiles   repository.ProfileRepository
	chat       repository.ChatRepository
	classifier ai.Classifier
	storage    FileStorage
	minScore   float64
	maxSize    int64
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewDocumentService constructs a document service. minScore is the
// confidence threshold below which classifications are reported back for
// manual follow-up instead of mutating the profile.
func NewDocumentService(
	profiles repository.ProfileRepository,
	chat repository.ChatRepository,
	classifier ai.Classifier,
	storage FileStorage,
	minScore float64,
	maxSizeMB int,
	logger zerolog.Logger,
) DocumentService {
	if minScore <= 0 {
		minScore = 70
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}

	return &documentService{
		profiles:   profiles,
		chat:       chat,
		classifier: classifier,
		storage:    storage,
		minScore:   minScore,
		maxSize:    int64(maxSizeMB) * 1024 * 1024,
		logger:     logger.With().Str("component", "document_service").Logger(),
		tracer:     otel.Tracer("github.com/noah-isme/onboard-go-api/internal/service/document"),
	}
}

func (s *documentService) Upload(ctx context.Context, studentID uint, file *multipart.FileHeader) (dto.DocumentUploadResult, error) {
	if file == nil {
		return dto.DocumentUploadResult{}, ErrNoFile
	}

	batch, err := s.UploadBatch(ctx, studentID, []*multipart.FileHeader{file})
	if len(batch.Results) == 0 {
		return dto.DocumentUploadResult{}, err
	}
	return batch.Results[0], err
}

// UploadBatch classifies and maps each file independently and persists the
// profile once after the batch, so a failure on a later file never rolls back
// earlier mappings.
func (s *documentService) UploadBatch(ctx context.Context, studentID uint, files []*multipart.FileHeader) (dto.DocumentBatchResult, error) {
	ctx, span := s.tracer.Start(ctx, "document.upload_batch", trace.WithAttributes(
		attribute.Int("document.batch_size", len(files)),
	))
	defer span.End()

	if len(files) == 0 {
		return dto.DocumentBatchResult{}, ErrNoFile
	}

	profile, err := s.profiles.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DocumentBatchResult{}, ErrProfileNotFound
		}
		return dto.DocumentBatchResult{}, err
	}

	result := dto.DocumentBatchResult{}
	var replies []string
	var failure error

	for _, file := range files {
		fileResult, mutated, err := s.processFile(ctx, &profile, file)
		if err != nil {
			failure = errors.Join(failure, err)
			fileResult = dto.DocumentUploadResult{
				FileName: file.Filename,
				Outcome:  dto.MappingFailed,
				Message:  classifierFallbackMessage,
			}
		}
		s.logInbound(ctx, studentID, file.Filename, fileResult.FileURL)
		if mutated {
			result.Mapped++
		}

		result.Results = append(result.Results, fileResult)
		replies = append(replies, fileResult.Message)
	}

	// Profile mutations are persisted before any assistant reply is written,
	// even when a later file in the batch failed.
	if result.Mapped > 0 {
		progress := ComputeProgress(profile)
		profile.ProgressPercentage = progress.Percentage
		observability.ProgressValues().WithLabelValues("document_upload").Observe(float64(progress.Percentage))

		if err := s.profiles.Save(ctx, &profile); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "persistence failed")
			return result, err
		}
	}

	for _, reply := range replies {
		s.logAssistant(ctx, studentID, reply)
	}

	if failure != nil {
		span.RecordError(failure)
		span.SetStatus(codes.Error, "classification failed")
		return result, failure
	}

	span.SetAttributes(attribute.Int("document.mapped", result.Mapped))
	return result, nil
}

func (s *documentService) List(ctx context.Context, studentID uint) ([]dto.DocumentResponse, error) {
	profile, err := s.profiles.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return dto.NewDocumentResponseSlice(profile.Documents), nil
}

// processFile runs one file through read → classify → map. Mutations land on
// the in-memory profile; the caller persists once per batch.
func (s *documentService) processFile(ctx context.Context, profile *models.StudentProfile, file *multipart.FileHeader) (dto.DocumentUploadResult, bool, error) {
	payload, mime, err := s.readUpload(file)
	if err != nil {
		return dto.DocumentUploadResult{}, false, err
	}

	classification, err := s.classifier.Classify(ctx, ai.Document{Data: payload, MimeType: mime})
	if err != nil {
		observability.Classifications().WithLabelValues(dto.MappingFailed).Inc()
		return dto.DocumentUploadResult{}, false, err
	}

	result := dto.DocumentUploadResult{
		FileName: file.Filename,
		Classification: dto.ClassificationResult{
			DocumentType: classification.DocumentType,
			Confidence:   classification.Confidence,
		},
	}

	if classification.Confidence < s.minScore || classification.DocumentType == string(models.DocOther) {
		result.Outcome = dto.MappingLowConfidence
		result.Message = fmt.Sprintf(
			"We are not confident about this document (detected: %s, confidence: %.0f%%). Please upload again or confirm the document type manually.",
			classification.DocumentType, classification.Confidence,
		)
		observability.Classifications().WithLabelValues(dto.MappingLowConfidence).Inc()
		return result, false, nil
	}

	storedURL, err := s.storage.Upload(ctx, file.Filename, bytes.NewReader(payload))
	if err != nil {
		return dto.DocumentUploadResult{}, false, err
	}

	docType := models.DocumentType(classification.DocumentType)
	outcome := dto.MappingAppended

	if existing := findActiveSlot(profile.Documents, docType); existing != nil {
		// Deletion of the superseded file is best-effort: a missing file must
		// not fail the upload.
		if existing.FilePath != "" {
			if err := s.storage.Delete(ctx, existing.FilePath); err != nil {
				s.logger.Warn().Err(err).Str("file", existing.FilePath).Msg("failed to delete superseded document file")
			}
		}
		existing.FilePath = storedURL
		existing.OriginalName = file.Filename
		existing.Status = models.DocumentUploaded
		outcome = dto.MappingReplaced
	} else {
		profile.Documents = append(profile.Documents, models.DocumentRecord{
			ProfileID:    profile.ID,
			Type:         docType,
			FilePath:     storedURL,
			OriginalName: file.Filename,
			Status:       models.DocumentUploaded,
		})
	}

	result.Outcome = outcome
	result.Mapped = true
	result.FileURL = storedURL
	result.Message = fmt.Sprintf("Document detected as %s (%.0f%% confidence). Uploaded successfully.",
		classification.DocumentType, classification.Confidence)
	observability.Classifications().WithLabelValues(outcome).Inc()

	return result, true, nil
}

func (s *documentService) readUpload(file *multipart.FileHeader) ([]byte, string, error) {
	if file == nil {
		return nil, "", ErrNoFile
	}

	if file.Size > s.maxSize {
		observability.UploadRejections().WithLabelValues("size").Inc()
		return nil, "", ErrUploadTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		return nil, "", err
	}
	if int64(buf.Len()) > s.maxSize {
		observability.UploadRejections().WithLabelValues("size").Inc()
		return nil, "", ErrUploadTooLarge
	}

	mime := mimetype.Detect(buf.Bytes()).String()
	if !isAllowedDocumentMime(mime) {
		observability.UploadRejections().WithLabelValues("type").Inc()
		return nil, "", ErrUploadTypeNotAllowed
	}

	return buf.Bytes(), mime, nil
}

// logInbound records the student's upload in the conversation, with the
// stored file URL attached once the upload landed.
func (s *documentService) logInbound(ctx context.Context, studentID uint, message, attachment string) {
	entry := models.ChatMessage{StudentID: studentID, Sender: models.SenderStudent, Message: message, Attachment: attachment}
	if err := s.chat.Save(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist inbound chat message")
	}
}

func (s *documentService) logAssistant(ctx context.Context, studentID uint, message string) {
	entry := models.ChatMessage{StudentID: studentID, Sender: models.SenderAssistant, Message: message}
	if err := s.chat.Save(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist assistant chat message")
	}
}

// findActiveSlot returns the replaceable record for the type: one still in
// pending or uploaded. Submitted/approved records are under review and a new
// upload of the same type is rejected at review time instead.
func findActiveSlot(records []models.DocumentRecord, docType models.DocumentType) *models.DocumentRecord {
	for i := range records {
		record := &records[i]
		if record.Type != docType {
			continue
		}
		if record.Status == models.DocumentPending || record.Status == models.DocumentUploaded {
			return record
		}
	}
	return nil
}

func isAllowedDocumentMime(mime string) bool {
	lower := strings.ToLower(strings.TrimSpace(mime))
	if strings.HasPrefix(lower, "image/") {
		return true
	}
	return lower == "application/pdf"
}
