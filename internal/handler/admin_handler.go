package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/onboard-go-api/internal/dto"
	"github.com/noah-isme/onboard-go-api/internal/service"
	"github.com/noah-isme/onboard-go-api/internal/utils"
)

// AdminHandler serves the staff roster, analytics and hostel review queue.
type AdminHandler struct {
	service service.AdminService
	logger  zerolog.Logger
}

// NewAdminHandler constructs an admin handler.
func NewAdminHandler(service service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register wires admin routes.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Post("/students", h.enroll)
	router.Get("/students", h.students)
	router.Get("/analytics", h.analytics)
	router.Get("/hostel-applications", h.hostelApplications)
	router.Put("/hostel-applications/:studentId", h.decideHostel)
}

func (h *AdminHandler) enroll(c *fiber.Ctx) error {
	var req dto.EnrollStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	created, err := h.service.EnrollStudent(c.Context(), req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmailTaken):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("student enrollment failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "student enrollment failed")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student enrolled", created)
}

func (h *AdminHandler) students(c *fiber.Ctx) error {
	rows, err := h.service.ListStudents(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list students")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list students")
	}

	return utils.SendSuccess(c, "students retrieved", rows)
}

func (h *AdminHandler) analytics(c *fiber.Ctx) error {
	analytics, err := h.service.Analytics(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute analytics")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute analytics")
	}

	return utils.SendSuccess(c, "analytics retrieved", analytics)
}

func (h *AdminHandler) hostelApplications(c *fiber.Ctx) error {
	rows, err := h.service.HostelApplications(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list hostel applications")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list hostel applications")
	}

	return utils.SendSuccess(c, "hostel applications retrieved", rows)
}

func (h *AdminHandler) decideHostel(c *fiber.Ctx) error {
	studentID, err := parsePathUint(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "student id must be a number")
	}

	var req dto.HostelDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	hostel, svcErr := h.service.DecideHostel(c.Context(), studentID, req)
	if svcErr != nil {
		switch {
		case isValidationError(svcErr):
			return utils.SendError(c, fiber.StatusBadRequest, svcErr.Error())
		case errors.Is(svcErr, service.ErrInvalidTransition):
			return utils.SendError(c, fiber.StatusConflict, svcErr.Error())
		case errors.Is(svcErr, service.ErrProfileNotFound):
			return utils.SendError(c, fiber.StatusNotFound, svcErr.Error())
		default:
			requestLogger(h.logger, c).Error().Err(svcErr).Uint("student_id", studentID).Msg("hostel decision failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "hostel decision failed")
		}
	}

	return utils.SendSuccess(c, "hostel application updated", hostel)
}
