package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/onboard-go-api/internal/dto"
	"github.com/noah-isme/onboard-go-api/internal/models"
	"github.com/noah-isme/onboard-go-api/internal/observability"
	"github.com/noah-isme/onboard-go-api/internal/repository"
)

const defaultRejectionReason = "Application rejected by admin"

// HostelService runs the hostel application lifecycle:
// not_applied → pending → approved|rejected, with rejected re-opening to
// pending on re-application. Adjudication is restricted to staff actors at
// the routing layer.
type HostelService interface {
	Apply(ctx context.Context, studentID uint, req dto.HostelApplyRequest) (dto.HostelResponse, error)
	Decide(ctx context.Context, studentID uint, req dto.HostelDecisionRequest) (dto.HostelResponse, error)
	Get(ctx context.Context, studentID uint) (dto.HostelResponse, error)
}

type hostelService struct {
	profiles      repository.ProfileRepository
	notifications NotificationService
	validator     *validator.Validate
	logger        zerolog.Logger
}

// NewHostelService constructs the hostel workflow service.
func NewHostelService(profiles repository.ProfileRepository, notifications NotificationService, validate *validator.Validate, logger zerolog.Logger) HostelService {
	return &hostelService{
		profiles:      profiles,
		notifications: notifications,
		validator:     validate,
		logger:        logger.With().Str("component", "hostel_service").Logger(),
	}
}

func (s *hostelService) Apply(ctx context.Context, studentID uint, req dto.HostelApplyRequest) (dto.HostelResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.HostelResponse{}, err
	}

	profile, err := s.loadProfile(ctx, studentID)
	if err != nil {
		return dto.HostelResponse{}, err
	}

	switch profile.Hostel.Status {
	case models.HostelNotApplied, models.HostelRejected:
		// re-application from rejected re-opens the cycle
	default:
		return dto.HostelResponse{}, fmt.Errorf("%w: cannot apply while %s", ErrInvalidTransition, profile.Hostel.Status)
	}

	profile.Hostel = models.HostelApplication{
		Status:   models.HostelPending,
		Gender:   req.Gender,
		RoomType: req.RoomType,
	}

	if err := s.persist(ctx, &profile, "hostel_apply"); err != nil {
		return dto.HostelResponse{}, err
	}

	s.logger.Info().Uint("student_id", studentID).Str("room_type", req.RoomType).Msg("hostel application submitted")

	return dto.NewHostelResponse(profile.Hostel), nil
}

func (s *hostelService) Decide(ctx context.Context, studentID uint, req dto.HostelDecisionRequest) (dto.HostelResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.HostelResponse{}, err
	}

	profile, err := s.loadProfile(ctx, studentID)
	if err != nil {
		return dto.HostelResponse{}, err
	}

	if profile.Hostel.Status != models.HostelPending {
		return dto.HostelResponse{}, fmt.Errorf("%w: no pending application to adjudicate", ErrInvalidTransition)
	}

	switch models.HostelStatus(req.Status) {
	case models.HostelApproved:
		profile.Hostel.Status = models.HostelApproved
		profile.Hostel.RejectionReason = ""
	case models.HostelRejected:
		reason := req.RejectionReason
		if reason == "" {
			reason = defaultRejectionReason
		}
		profile.Hostel.Status = models.HostelRejected
		profile.Hostel.RejectionReason = reason
	default:
		return dto.HostelResponse{}, fmt.Errorf("%w: status must be approved or rejected", ErrInvalidTransition)
	}

	if err := s.persist(ctx, &profile, "hostel_decision"); err != nil {
		return dto.HostelResponse{}, err
	}

	s.notify(ctx, studentID, profile.Hostel)

	s.logger.Info().
		Uint("student_id", studentID).
		Str("status", string(profile.Hostel.Status)).
		Msg("hostel application adjudicated")

	return dto.NewHostelResponse(profile.Hostel), nil
}

func (s *hostelService) Get(ctx context.Context, studentID uint) (dto.HostelResponse, error) {
	profile, err := s.loadProfile(ctx, studentID)
	if err != nil {
		return dto.HostelResponse{}, err
	}

	return dto.NewHostelResponse(profile.Hostel), nil
}

func (s *hostelService) loadProfile(ctx context.Context, studentID uint) (models.StudentProfile, error) {
	profile, err := s.profiles.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.StudentProfile{}, ErrProfileNotFound
		}
		return models.StudentProfile{}, err
	}
	return profile, nil
}

func (s *hostelService) persist(ctx context.Context, profile *models.StudentProfile, trigger string) error {
	progress := ComputeProgress(*profile)
	profile.ProgressPercentage = progress.Percentage
	observability.ProgressValues().WithLabelValues(trigger).Observe(float64(progress.Percentage))

	return s.profiles.Save(ctx, profile)
}

func (s *hostelService) notify(ctx context.Context, studentID uint, hostel models.HostelApplication) {
	if s.notifications == nil {
		return
	}

	message := "Your hostel application has been approved."
	if hostel.Status == models.HostelRejected {
		message = "Your hostel application was rejected. Reason: " + hostel.RejectionReason
	}

	if err := s.notifications.Publish(ctx, studentID, "hostel", message); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish hostel notification")
	}
}
