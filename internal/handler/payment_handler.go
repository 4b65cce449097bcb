package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/onboard-go-api/internal/dto"
	"github.com/noah-isme/onboard-go-api/internal/service"
	"github.com/noah-isme/onboard-go-api/internal/utils"
)

// PaymentHandler serves fee order creation, verification and the fee summary.
type PaymentHandler struct {
	service service.PaymentService
	logger  zerolog.Logger
}

// NewPaymentHandler constructs a payment handler.
func NewPaymentHandler(service service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger.With().Str("component", "payment_handler").Logger(),
	}
}

// Register wires payment routes.
func (h *PaymentHandler) Register(router fiber.Router) {
	router.Post("/create-order", h.createOrder)
	router.Post("/verify", h.verify)
	router.Get("/summary", h.summary)
}

func (h *PaymentHandler) createOrder(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.service.CreateOrder(c.Context(), studentID, req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrProfileNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrGateway):
			requestLogger(h.logger, c).Error().Err(err).Uint("student_id", studentID).Msg("order creation failed at gateway")
			return utils.SendError(c, fiber.StatusBadGateway, "payment gateway unavailable")
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("student_id", studentID).Msg("order creation failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "order creation failed")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "order created", order)
}

func (h *PaymentHandler) verify(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var req dto.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.VerifyPayment(c.Context(), studentID, req)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSignatureMismatch):
			return utils.SendError(c, fiber.StatusBadRequest, "payment verification failed")
		case errors.Is(err, service.ErrProfileNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrGateway):
			requestLogger(h.logger, c).Error().Err(err).Uint("student_id", studentID).Msg("payment verification failed at gateway")
			return utils.SendError(c, fiber.StatusBadGateway, "payment gateway unavailable")
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("student_id", studentID).Msg("payment verification failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "payment verification failed")
		}
	}

	return utils.SendSuccess(c, "payment verified", result)
}

func (h *PaymentHandler) summary(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	summary, err := h.service.Summary(c.Context(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("student_id", studentID).Msg("failed to load fee summary")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load fee summary")
	}

	return utils.SendSuccess(c, "fee summary retrieved", summary)
}
