package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/onboard-go-api/internal/dto"
	"github.com/noah-isme/onboard-go-api/internal/service"
	"github.com/noah-isme/onboard-go-api/internal/utils"
)

// ChatHandler serves the onboarding assistant conversation.
type ChatHandler struct {
	service service.AssistantService
	logger  zerolog.Logger
}

// NewChatHandler constructs a chat handler.
func NewChatHandler(service service.AssistantService, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  logger.With().Str("component", "chat_handler").Logger(),
	}
}

// Register wires chat routes.
func (h *ChatHandler) Register(router fiber.Router) {
	router.Post("/text", h.text)
	router.Get("/history", h.history)
}

func (h *ChatHandler) text(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var req dto.ChatTextRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "message is required")
	}

	reply, err := h.service.Respond(c.Context(), studentID, req)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("student_id", studentID).Msg("assistant reply failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "assistant reply failed")
	}

	return utils.SendSuccess(c, "reply generated", reply)
}

func (h *ChatHandler) history(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "limit must be a number")
	}

	messages, svcErr := h.service.History(c.Context(), studentID, limit)
	if svcErr != nil {
		if errors.Is(svcErr, service.ErrProfileNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, svcErr.Error())
		}
		requestLogger(h.logger, c).Error().Err(svcErr).Uint("student_id", studentID).Msg("failed to load chat history")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load chat history")
	}

	return utils.SendSuccess(c, "history retrieved", messages)
}
