package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/onboard-go-api/internal/dto"
	"github.com/noah-isme/onboard-go-api/internal/repository"
)

// ProgressService reports aggregated onboarding progress. The percentage is
// always recomputed from the module states, never read from the cached
// column, so direct-mutation bugs cannot cause drift on the read path.
type ProgressService interface {
	Get(ctx context.Context, studentID uint) (dto.ProgressResponse, error)
}

type progressService struct {
	profiles repository.ProfileRepository
	logger   zerolog.Logger
}

// NewProgressService constructs the progress aggregator service.
func NewProgressService(profiles repository.ProfileRepository, logger zerolog.Logger) ProgressService {
	return &progressService{
		profiles: profiles,
		logger:   logger.With().Str("component", "progress_service").Logger(),
	}
}

func (s *progressService) Get(ctx context.Context, studentID uint) (dto.ProgressResponse, error) {
	profile, err := s.profiles.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProgressResponse{}, ErrProfileNotFound
		}
		return dto.ProgressResponse{}, err
	}

	return ComputeProgress(profile), nil
}
