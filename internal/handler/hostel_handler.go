package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/onboard-go-api/internal/dto"
	"github.com/noah-isme/onboard-go-api/internal/service"
	"github.com/noah-isme/onboard-go-api/internal/utils"
)

// HostelHandler serves hostel application routes for the signed-in student.
type HostelHandler struct {
	service service.HostelService
	logger  zerolog.Logger
}

// NewHostelHandler constructs a hostel handler.
func NewHostelHandler(service service.HostelService, logger zerolog.Logger) *HostelHandler {
	return &HostelHandler{
		service: service,
		logger:  logger.With().Str("component", "hostel_handler").Logger(),
	}
}

// Register wires hostel routes.
func (h *HostelHandler) Register(router fiber.Router) {
	router.Post("/apply", h.apply)
	router.Get("", h.get)
}

func (h *HostelHandler) apply(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var req dto.HostelApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	hostel, err := h.service.Apply(c.Context(), studentID, req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidTransition):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrProfileNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("student_id", studentID).Msg("hostel application failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "hostel application failed")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "hostel application submitted", hostel)
}

func (h *HostelHandler) get(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	hostel, err := h.service.Get(c.Context(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("student_id", studentID).Msg("failed to load hostel status")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load hostel status")
	}

	return utils.SendSuccess(c, "hostel status retrieved", hostel)
}
