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
	"github.com/noah-isme/onboard-go-api/internal/service"
)

type mockAdminService struct {
	enrolled     dto.EnrollStudentResponse
	enrollErr    error
	students     []dto.AdminStudentRow
	studentsErr  error
	analytics    dto.AdminAnalyticsResponse
	analyticsErr error
	applications []dto.HostelApplicationRow
	appsErr      error
	decided      dto.HostelResponse
	decideErr    error
	gotStudentID uint
	gotDecision  dto.HostelDecisionRequest
}

func (m *mockAdminService) EnrollStudent(_ context.Context, _ dto.EnrollStudentRequest) (dto.EnrollStudentResponse, error) {
	return m.enrolled, m.enrollErr
}

func (m *mockAdminService) ListStudents(_ context.Context) ([]dto.AdminStudentRow, error) {
	return m.students, m.studentsErr
}

func (m *mockAdminService) Analytics(_ context.Context) (dto.AdminAnalyticsResponse, error) {
	return m.analytics, m.analyticsErr
}

func (m *mockAdminService) HostelApplications(_ context.Context) ([]dto.HostelApplicationRow, error) {
	return m.applications, m.appsErr
}

func (m *mockAdminService) DecideHostel(_ context.Context, studentID uint, req dto.HostelDecisionRequest) (dto.HostelResponse, error) {
	m.gotStudentID = studentID
	m.gotDecision = req
	return m.decided, m.decideErr
}

func TestAdminHandler_EnrollStudent(t *testing.T) {
	svc := &mockAdminService{
		enrolled: dto.EnrollStudentResponse{
			StudentID:    7,
			Name:         "Asha Verma",
			Email:        "asha@example.com",
			FeeTotal:     50000,
			FeeStatus:    "unpaid",
			HostelStatus: "not_applied",
			LMSStatus:    "inactive",
		},
	}
	app := fiber.New()
	handler.NewAdminHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/admin"))

	payload := dto.EnrollStudentRequest{Name: "Asha Verma", Email: "asha@example.com", Branch: "CSE", Year: "1"}
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/admin/students", payload))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Success bool                      `json:"success"`
		Data    dto.EnrollStudentResponse `json:"data"`
		Message string                    `json:"message"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Equal(t, "student enrolled", response.Message)
	require.Equal(t, int64(50000), response.Data.FeeTotal)
}

func TestAdminHandler_EnrollDuplicateEmail(t *testing.T) {
	svc := &mockAdminService{enrollErr: service.ErrEmailTaken}
	app := fiber.New()
	handler.NewAdminHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/admin"))

	payload := dto.EnrollStudentRequest{Name: "Asha Verma", Email: "asha@example.com", Branch: "CSE", Year: "1"}
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/admin/students", payload))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestAdminHandler_ListStudents(t *testing.T) {
	svc := &mockAdminService{
		students: []dto.AdminStudentRow{
			{StudentID: 7, Name: "Asha Verma", ProgressPercentage: 75, DocumentsPending: 1, FeeStatus: "paid"},
		},
	}
	app := fiber.New()
	handler.NewAdminHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/admin"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/students", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                  `json:"success"`
		Data    []dto.AdminStudentRow `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Len(t, response.Data, 1)
	require.Equal(t, 75, response.Data[0].ProgressPercentage)
}

func TestAdminHandler_Analytics(t *testing.T) {
	svc := &mockAdminService{
		analytics: dto.AdminAnalyticsResponse{
			TotalStudents:       120,
			CompletedOnboarding: 30,
			PendingDocuments:    45,
			FeeUnpaidCount:      60,
			HostelPendingCount:  12,
		},
	}
	app := fiber.New()
	handler.NewAdminHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/admin"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/analytics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                       `json:"success"`
		Data    dto.AdminAnalyticsResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, int64(120), response.Data.TotalStudents)
}

func TestAdminHandler_DecideHostel(t *testing.T) {
	svc := &mockAdminService{decided: dto.HostelResponse{Status: "approved", RoomType: "double"}}
	app := fiber.New()
	handler.NewAdminHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/admin"))

	payload := dto.HostelDecisionRequest{Status: "approved"}
	resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/v1/admin/hostel-applications/7", payload))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(7), svc.gotStudentID)
	require.Equal(t, "approved", svc.gotDecision.Status)
}

func TestAdminHandler_DecideHostelErrors(t *testing.T) {
	cases := []struct {
		name       string
		target     string
		err        error
		statusCode int
	}{
		{name: "bad id", target: "/api/v1/admin/hostel-applications/abc", statusCode: fiber.StatusBadRequest},
		{name: "not pending", target: "/api/v1/admin/hostel-applications/7", err: service.ErrInvalidTransition, statusCode: fiber.StatusConflict},
		{name: "missing profile", target: "/api/v1/admin/hostel-applications/7", err: service.ErrProfileNotFound, statusCode: fiber.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockAdminService{decideErr: tc.err}
			app := fiber.New()
			handler.NewAdminHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/admin"))

			payload := dto.HostelDecisionRequest{Status: "rejected"}
			resp, err := app.Test(jsonRequest(t, http.MethodPut, tc.target, payload))
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)
		})
	}
}

func TestAdminHandler_HostelApplications(t *testing.T) {
	svc := &mockAdminService{
		applications: []dto.HostelApplicationRow{
			{StudentID: 7, Name: "Asha Verma", Hostel: dto.HostelResponse{Status: "pending", RoomType: "double"}},
		},
	}
	app := fiber.New()
	handler.NewAdminHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/admin"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/hostel-applications", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                       `json:"success"`
		Data    []dto.HostelApplicationRow `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Len(t, response.Data, 1)
	require.Equal(t, "pending", response.Data[0].Hostel.Status)
}
