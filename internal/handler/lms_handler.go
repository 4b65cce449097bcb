package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/onboard-go-api/internal/dto"
	"github.com/noah-isme/onboard-go-api/internal/service"
	"github.com/noah-isme/onboard-go-api/internal/utils"
)

// LMSHandler serves learning-system activation and subject registration.
type LMSHandler struct {
	service service.LMSService
	logger  zerolog.Logger
}

// NewLMSHandler constructs an LMS handler.
func NewLMSHandler(service service.LMSService, logger zerolog.Logger) *LMSHandler {
	return &LMSHandler{
		service: service,
		logger:  logger.With().Str("component", "lms_handler").Logger(),
	}
}

// Register wires LMS routes.
func (h *LMSHandler) Register(router fiber.Router) {
	router.Post("/activate", h.activate)
	router.Post("/subjects", h.registerSubjects)
	router.Get("", h.get)
}

func (h *LMSHandler) activate(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	lms, err := h.service.Activate(c.Context(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("student_id", studentID).Msg("lms activation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "lms activation failed")
	}

	return utils.SendSuccess(c, "lms activated", lms)
}

func (h *LMSHandler) registerSubjects(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var req dto.RegisterSubjectsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	lms, err := h.service.RegisterSubjects(c.Context(), studentID, req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrProfileNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("student_id", studentID).Msg("subject registration failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "subject registration failed")
		}
	}

	return utils.SendSuccess(c, "subjects registered", lms)
}

func (h *LMSHandler) get(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	lms, err := h.service.Get(c.Context(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("student_id", studentID).Msg("failed to load lms status")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load lms status")
	}

	return utils.SendSuccess(c, "lms status retrieved", lms)
}
