package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/onboard-go-api/internal/dto"
	"github.com/noah-isme/onboard-go-api/internal/models"
	"github.com/noah-isme/onboard-go-api/internal/repository"
)

// NotificationService records onboarding events for students. Delivery to
// clients is a poll of the list endpoint; NATS carries the event to any other
// interested node, fire-and-forget.
type NotificationService interface {
	Publish(ctx context.Context, studentID uint, eventType, message string) error
	List(ctx context.Context, studentID uint, limit, offset int) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id, studentID uint) (dto.NotificationResponse, error)
}

type notificationService struct {
	repo        repository.NotificationRepository
	nats        *nats.Conn
	natsSubject string
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	nodeID      string
}

type notificationEvent struct {
	Source       string                   `json:"source"`
	Notification dto.NotificationResponse `json:"notification"`
	StudentID    uint                     `json:"student_id"`
	SentAt       time.Time                `json:"sent_at"`
}

// NewNotificationService constructs a notification service. natsConn may be
// nil when the deployment runs a single node.
func NewNotificationService(repo repository.NotificationRepository, natsConn *nats.Conn, subjectBase string, logger zerolog.Logger) NotificationService {
	subject := ""
	if subjectBase != "" {
		subject = strings.ReplaceAll(subjectBase, ":", ".") + ".notifications"
	}

	return &notificationService{
		repo:        repo,
		nats:        natsConn,
		natsSubject: subject,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "notification_service").Logger(),
		nodeID:      uuid.NewString(),
	}
}

func (s *notificationService) Publish(ctx context.Context, studentID uint, eventType, message string) error {
	notification := models.Notification{
		StudentID: studentID,
		Type:      strings.TrimSpace(eventType),
		Message:   strings.TrimSpace(s.sanitizer.Sanitize(message)),
	}

	if err := s.repo.Create(ctx, &notification); err != nil {
		return err
	}

	s.broadcast(notification)

	return nil
}

func (s *notificationService) List(ctx context.Context, studentID uint, limit, offset int) ([]dto.NotificationResponse, error) {
	notifications, err := s.repo.ListByStudent(ctx, studentID, limit, offset)
	if err != nil {
		return nil, err
	}

	return dto.NewNotificationResponseSlice(notifications), nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, studentID uint) (dto.NotificationResponse, error) {
	notification, err := s.repo.MarkRead(ctx, id, studentID)
	if err != nil {
		return dto.NotificationResponse{}, err
	}

	return dto.NewNotificationResponse(notification), nil
}

func (s *notificationService) broadcast(notification models.Notification) {
	if s.nats == nil || s.natsSubject == "" {
		return
	}

	event := notificationEvent{
		Source:       s.nodeID,
		Notification: dto.NewNotificationResponse(notification),
		StudentID:    notification.StudentID,
		SentAt:       time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode notification event")
		return
	}

	if err := s.nats.Publish(s.natsSubject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish notification event")
	}
}
