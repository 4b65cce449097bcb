package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/onboard-go-api/internal/dto"
	"github.com/noah-isme/onboard-go-api/internal/handler"
)

type stubPaymentService struct {
	summary dto.FeeSummary
}

func (s stubPaymentService) CreateOrder(context.Context, uint, dto.CreateOrderRequest) (dto.OrderResponse, error) {
	return dto.OrderResponse{}, nil
}

func (s stubPaymentService) VerifyPayment(context.Context, uint, dto.VerifyPaymentRequest) (dto.VerifyPaymentResult, error) {
	return dto.VerifyPaymentResult{}, nil
}

func (s stubPaymentService) Summary(context.Context, uint) (dto.FeeSummary, error) {
	return s.summary, nil
}

func compileSchema(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()

	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", name))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)
	return schema
}

func validateResponse(t *testing.T, schema *jsonschema.Schema, resp *http.Response) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}

func TestFeeSummaryContract(t *testing.T) {
	schema := compileSchema(t, "fee_summary.schema.json")

	now := time.Now().UTC()
	svc := stubPaymentService{
		summary: dto.FeeSummary{
			TotalAmount: 50000,
			PaidAmount:  20000,
			Remaining:   30000,
			Status:      "partial",
			History: []dto.PaymentEntry{
				{Amount: 20000, TransactionID: "pay_1", OrderID: "order_abc", Date: now},
			},
		},
	}

	app := fiber.New()
	group := app.Group("/api/v1/payment", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(7))
		return c.Next()
	})
	handler.NewPaymentHandler(svc, zerolog.Nop()).Register(group)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/payment/summary", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	validateResponse(t, schema, resp)
}
