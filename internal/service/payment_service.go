package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
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
	"github.com/noah-isme/onboard-go-api/pkg/razorpay"
)

// PaymentGateway is the slice of the Razorpay client the ledger needs.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req razorpay.OrderRequest) (razorpay.Order, error)
	FetchOrder(ctx context.Context, orderID string) (razorpay.Order, error)
}

// PaymentService reconciles gateway callbacks into the fee ledger.
type PaymentService interface {
	CreateOrder(ctx context.Context, studentID uint, req dto.CreateOrderRequest) (dto.OrderResponse, error)
	VerifyPayment(ctx context.Context, studentID uint, req dto.VerifyPaymentRequest) (dto.VerifyPaymentResult, error)
	Summary(ctx context.Context, studentID uint) (dto.FeeSummary, error)
}

type paymentService struct {
	profiles  repository.ProfileRepository
	students  repository.StudentRepository
	chat      repository.ChatRepository
	gateway   PaymentGateway
	keySecret string
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewPaymentService constructs the fee ledger service. keySecret is the
// shared gateway secret used for local signature verification.
func NewPaymentService(
	profiles repository.ProfileRepository,
	students repository.StudentRepository,
	chat repository.ChatRepository,
	gateway PaymentGateway,
	keySecret string,
	validate *validator.Validate,
	logger zerolog.Logger,
) PaymentService {
	return &paymentService{
		profiles:  profiles,
		students:  students,
		chat:      chat,
		gateway:   gateway,
		keySecret: keySecret,
		validator: validate,
		logger:    logger.With().Str("component", "payment_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/onboard-go-api/internal/service/payment"),
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, studentID uint, req dto.CreateOrderRequest) (dto.OrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "payment.create_order", trace.WithAttributes(
		attribute.Int64("payment.amount", req.Amount),
	))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return dto.OrderResponse{}, err
	}

	studentName := ""
	if student, err := s.students.GetByID(ctx, studentID); err == nil {
		studentName = student.Name
	}

	order, err := s.gateway.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:   req.Amount * 100, // rupees to paise
		Currency: "INR",
		Receipt:  fmt.Sprintf("receipt_order_%s", uuid.NewString()),
		Notes: map[string]string{
			"student_id":   fmt.Sprintf("%d", studentID),
			"student_name": studentName,
			"purpose":      "Tuition Fee Payment",
		},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "gateway order creation failed")
		s.logger.Error().Err(err).Uint("student_id", studentID).Msg("razorpay order creation failed")
		return dto.OrderResponse{}, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	span.SetAttributes(attribute.String("payment.order_id", order.ID))

	return dto.OrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
		Status:   order.Status,
	}, nil
}

// VerifyPayment recomputes the callback signature locally, then applies the
// order's canonical amount to the ledger exactly once per (orderId, paymentId)
// pair. Retried or duplicated callbacks return the current ledger state
// without a second mutation.
func (s *paymentService) VerifyPayment(ctx context.Context, studentID uint, req dto.VerifyPaymentRequest) (dto.VerifyPaymentResult, error) {
	ctx, span := s.tracer.Start(ctx, "payment.verify", trace.WithAttributes(
		attribute.String("payment.order_id", req.OrderID),
		attribute.String("payment.payment_id", req.PaymentID),
	))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return dto.VerifyPaymentResult{}, err
	}

	if !razorpay.VerifySignature(req.OrderID, req.PaymentID, s.keySecret, req.Signature) {
		observability.PaymentVerifications().WithLabelValues("signature_mismatch").Inc()
		span.SetStatus(codes.Error, "signature mismatch")
		// Both signatures are logged for the audit trail; this is a
		// potential tamper attempt, never silently accepted.
		s.logger.Error().
			Str("order_id", req.OrderID).
			Str("payment_id", req.PaymentID).
			Str("expected_signature", razorpay.ExpectedSignature(req.OrderID, req.PaymentID, s.keySecret)).
			Str("received_signature", req.Signature).
			Msg("payment signature verification failed")
		return dto.VerifyPaymentResult{}, ErrSignatureMismatch
	}

	profile, err := s.profiles.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.VerifyPaymentResult{}, ErrProfileNotFound
		}
		return dto.VerifyPaymentResult{}, err
	}

	// Idempotency guard: a webhook and a client-side verification racing on
	// the same payment must not double-count.
	recorded, err := s.profiles.HasPayment(ctx, profile.ID, req.OrderID, req.PaymentID)
	if err != nil {
		return dto.VerifyPaymentResult{}, err
	}
	if recorded {
		observability.PaymentVerifications().WithLabelValues("duplicate").Inc()
		span.SetAttributes(attribute.Bool("payment.duplicate", true))
		s.logger.Info().
			Str("order_id", req.OrderID).
			Str("payment_id", req.PaymentID).
			Msg("payment already recorded, skipping")
		return dto.VerifyPaymentResult{
			PaymentID:       req.PaymentID,
			PaidAmount:      profile.Fee.PaidAmount,
			Remaining:       profile.Fee.Remaining(),
			Status:          string(profile.Fee.Status),
			AlreadyRecorded: true,
		}, nil
	}

	// The amount comes from the gateway's order record, never from the client.
	order, err := s.gateway.FetchOrder(ctx, req.OrderID)
	if err != nil {
		observability.PaymentVerifications().WithLabelValues("gateway_error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "order fetch failed")
		return dto.VerifyPaymentResult{}, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	amount := order.Amount / 100 // paise to rupees

	payment := models.FeePayment{
		ProfileID:     profile.ID,
		Amount:        amount,
		TransactionID: req.PaymentID,
		OrderID:       req.OrderID,
	}
	profile.Fee.PaidAmount += amount
	profile.Fee.Status = profile.Fee.DeriveStatus()
	profile.Fee.TransactionID = req.PaymentID
	profile.Fee.OrderID = req.OrderID
	profile.Fee.Signature = req.Signature

	progress := ComputeProgress(profile)
	profile.ProgressPercentage = progress.Percentage
	observability.ProgressValues().WithLabelValues("payment").Observe(float64(progress.Percentage))

	// History row and ledger totals land together or not at all, so a
	// failed write stays retryable.
	if err := s.profiles.ApplyPayment(ctx, &profile, &payment); err != nil {
		observability.PaymentVerifications().WithLabelValues("persist_error").Inc()
		span.RecordError(err)
		return dto.VerifyPaymentResult{}, err
	}

	observability.PaymentVerifications().WithLabelValues("applied").Inc()
	span.SetAttributes(
		attribute.Int64("payment.amount", amount),
		attribute.Int64("payment.remaining", profile.Fee.Remaining()),
	)
	s.logger.Info().
		Str("order_id", req.OrderID).
		Str("payment_id", req.PaymentID).
		Int64("amount", amount).
		Int64("remaining", profile.Fee.Remaining()).
		Msg("payment verified and applied")

	s.logChat(ctx, studentID, fmt.Sprintf("Payment of ₹%d received. %s", amount, remainingLine(profile.Fee)))

	return dto.VerifyPaymentResult{
		PaymentID:  req.PaymentID,
		Amount:     amount,
		PaidAmount: profile.Fee.PaidAmount,
		Remaining:  profile.Fee.Remaining(),
		Status:     string(profile.Fee.Status),
	}, nil
}

func (s *paymentService) Summary(ctx context.Context, studentID uint) (dto.FeeSummary, error) {
	profile, err := s.profiles.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeeSummary{}, ErrProfileNotFound
		}
		return dto.FeeSummary{}, err
	}

	return dto.NewFeeSummary(profile), nil
}

func (s *paymentService) logChat(ctx context.Context, studentID uint, message string) {
	entry := models.ChatMessage{StudentID: studentID, Sender: models.SenderAssistant, Message: message}
	if err := s.chat.Save(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist payment chat message")
	}
}

func remainingLine(fee models.FeeAccount) string {
	if remaining := fee.Remaining(); remaining > 0 {
		return fmt.Sprintf("₹%d remaining.", remaining)
	}
	return "Your fees are fully paid."
}
