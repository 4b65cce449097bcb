package handler

import (
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/onboard-go-api/internal/service"
	"github.com/noah-isme/onboard-go-api/internal/utils"
)

// DocumentHandler serves document upload and listing for the signed-in student.
type DocumentHandler struct {
	service service.DocumentService
	logger  zerolog.Logger
}

// NewDocumentHandler constructs a document handler.
func NewDocumentHandler(service service.DocumentService, logger zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		logger:  logger.With().Str("component", "document_handler").Logger(),
	}
}

// Register wires document routes.
func (h *DocumentHandler) Register(router fiber.Router) {
	router.Post("/upload", h.upload)
	router.Get("", h.list)
}

func (h *DocumentHandler) upload(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	files := collectUploadFiles(c)
	if len(files) == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "at least one file is required")
	}

	result, err := h.service.UploadBatch(c.Context(), studentID, files)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrUploadTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, service.ErrUploadTypeNotAllowed), errors.Is(err, service.ErrNoFile):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("student_id", studentID).Msg("document upload failed")
			// Genuinely partial batches still carry per-file outcomes worth
			// returning; a batch where nothing mapped is a plain failure.
			if result.Mapped > 0 {
				return utils.SendSuccessWithStatus(c, fiber.StatusMultiStatus, "some documents failed to process", result)
			}
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return utils.SendSuccess(c, "documents processed", result)
}

func (h *DocumentHandler) list(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	documents, err := h.service.List(c.Context(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("student_id", studentID).Msg("failed to list documents")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list documents")
	}

	return utils.SendSuccess(c, "documents retrieved", documents)
}

// collectUploadFiles accepts either a repeated "files" field or a single
// "file" field so both multi-select and single-file clients work.
func collectUploadFiles(c *fiber.Ctx) []*multipart.FileHeader {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		if files := form.File["files"]; len(files) > 0 {
			return files
		}
	}
	if file, err := c.FormFile("file"); err == nil && file != nil {
		return []*multipart.FileHeader{file}
	}
	return nil
}
