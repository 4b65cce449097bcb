package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/onboard-go-api/internal/dto"
	"github.com/noah-isme/onboard-go-api/internal/handler"
)

type mockAssistantService struct {
	reply      dto.ChatMessageResponse
	replyErr   error
	history    []dto.ChatMessageResponse
	historyErr error
	gotLimit   int
	calls      int
}

func (m *mockAssistantService) Respond(_ context.Context, _ uint, _ dto.ChatTextRequest) (dto.ChatMessageResponse, error) {
	m.calls++
	return m.reply, m.replyErr
}

func (m *mockAssistantService) History(_ context.Context, _ uint, limit int) ([]dto.ChatMessageResponse, error) {
	m.gotLimit = limit
	return m.history, m.historyErr
}

func TestChatHandler_Text(t *testing.T) {
	svc := &mockAssistantService{
		reply: dto.ChatMessageResponse{ID: 2, Sender: "assistant", Message: "Your fee balance is ₹50000."},
	}
	app := fiber.New()
	handler.NewChatHandler(svc, zerolog.Nop()).Register(authedGroup(app, "/api/v1/chat", 7))

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/chat/text", dto.ChatTextRequest{Message: "fee status"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                    `json:"success"`
		Data    dto.ChatMessageResponse `json:"data"`
		Message string                  `json:"message"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Equal(t, "reply generated", response.Message)
	require.Equal(t, "assistant", response.Data.Sender)
}

func TestChatHandler_TextRejectsBlankMessage(t *testing.T) {
	svc := &mockAssistantService{}
	app := fiber.New()
	handler.NewChatHandler(svc, zerolog.Nop()).Register(authedGroup(app, "/api/v1/chat", 7))

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/chat/text", dto.ChatTextRequest{Message: "   "}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Zero(t, svc.calls, "blank messages must not reach the assistant")
}

func TestChatHandler_History(t *testing.T) {
	svc := &mockAssistantService{
		history: []dto.ChatMessageResponse{
			{ID: 1, Sender: "student", Message: "fee status"},
			{ID: 2, Sender: "assistant", Message: "Your fee balance is ₹50000."},
		},
	}
	app := fiber.New()
	handler.NewChatHandler(svc, zerolog.Nop()).Register(authedGroup(app, "/api/v1/chat", 7))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/chat/history?limit=50", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 50, svc.gotLimit)

	var response struct {
		Success bool                      `json:"success"`
		Data    []dto.ChatMessageResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Len(t, response.Data, 2)
}

func TestChatHandler_HistoryRejectsBadLimit(t *testing.T) {
	svc := &mockAssistantService{}
	app := fiber.New()
	handler.NewChatHandler(svc, zerolog.Nop()).Register(authedGroup(app, "/api/v1/chat", 7))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/chat/history?limit=abc", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
