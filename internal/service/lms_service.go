package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/onboard-go-api/internal/dto"
	"github.com/noah-isme/onboard-go-api/internal/models"
	"github.com/noah-isme/onboard-go-api/internal/observability"
	"github.com/noah-isme/onboard-go-api/internal/repository"
)

// LMSService activates learning-system accounts and registers subjects.
type LMSService interface {
	Activate(ctx context.Context, studentID uint) (dto.LMSResponse, error)
	RegisterSubjects(ctx context.Context, studentID uint, req dto.RegisterSubjectsRequest) (dto.LMSResponse, error)
	Get(ctx context.Context, studentID uint) (dto.LMSResponse, error)
}

type lmsService struct {
	profiles  repository.ProfileRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewLMSService constructs the learning-system service.
func NewLMSService(profiles repository.ProfileRepository, validate *validator.Validate, logger zerolog.Logger) LMSService {
	return &lmsService{
		profiles:  profiles,
		validator: validate,
		logger:    logger.With().Str("component", "lms_service").Logger(),
	}
}

func (s *lmsService) Activate(ctx context.Context, studentID uint) (dto.LMSResponse, error) {
	profile, err := s.loadProfile(ctx, studentID)
	if err != nil {
		return dto.LMSResponse{}, err
	}

	if profile.LMS.Status != models.LMSActive {
		profile.LMS.Status = models.LMSActive
		if err := s.persist(ctx, &profile); err != nil {
			return dto.LMSResponse{}, err
		}
		s.logger.Info().Uint("student_id", studentID).Msg("lms account activated")
	}

	return s.response(profile), nil
}

// RegisterSubjects replaces the registered subject set. Registration implies
// activation.
func (s *lmsService) RegisterSubjects(ctx context.Context, studentID uint, req dto.RegisterSubjectsRequest) (dto.LMSResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LMSResponse{}, err
	}

	profile, err := s.loadProfile(ctx, studentID)
	if err != nil {
		return dto.LMSResponse{}, err
	}

	subjects := dedupeSubjects(req.Subjects)
	encoded, err := json.Marshal(subjects)
	if err != nil {
		return dto.LMSResponse{}, err
	}

	profile.LMS.Status = models.LMSActive
	profile.LMS.Subjects = encoded

	if err := s.persist(ctx, &profile); err != nil {
		return dto.LMSResponse{}, err
	}

	s.logger.Info().Uint("student_id", studentID).Int("subjects", len(subjects)).Msg("lms subjects registered")

	return s.response(profile), nil
}

func (s *lmsService) Get(ctx context.Context, studentID uint) (dto.LMSResponse, error) {
	profile, err := s.loadProfile(ctx, studentID)
	if err != nil {
		return dto.LMSResponse{}, err
	}

	return s.response(profile), nil
}

func (s *lmsService) loadProfile(ctx context.Context, studentID uint) (models.StudentProfile, error) {
	profile, err := s.profiles.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.StudentProfile{}, ErrProfileNotFound
		}
		return models.StudentProfile{}, err
	}
	return profile, nil
}

func (s *lmsService) persist(ctx context.Context, profile *models.StudentProfile) error {
	progress := ComputeProgress(*profile)
	profile.ProgressPercentage = progress.Percentage
	observability.ProgressValues().WithLabelValues("lms").Observe(float64(progress.Percentage))

	return s.profiles.Save(ctx, profile)
}

func (s *lmsService) response(profile models.StudentProfile) dto.LMSResponse {
	subjects := DecodeSubjects(profile.LMS.Subjects)
	if subjects == nil {
		subjects = []string{}
	}

	return dto.LMSResponse{
		Status:   string(profile.LMS.Status),
		Subjects: subjects,
	}
}

func dedupeSubjects(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	subjects := make([]string, 0, len(raw))
	for _, subject := range raw {
		trimmed := strings.TrimSpace(subject)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		subjects = append(subjects, trimmed)
	}

	sort.Strings(subjects)
	return subjects
}
