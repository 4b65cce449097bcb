package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/noah-isme/onboard-go-api/internal/dto"
	"github.com/noah-isme/onboard-go-api/internal/models"
	"github.com/noah-isme/onboard-go-api/internal/repository"
)

// AdminService serves the staff review surface: roster, analytics, the
// hostel application queue and student enrollment.
type AdminService interface {
	EnrollStudent(ctx context.Context, req dto.EnrollStudentRequest) (dto.EnrollStudentResponse, error)
	ListStudents(ctx context.Context) ([]dto.AdminStudentRow, error)
	Analytics(ctx context.Context) (dto.AdminAnalyticsResponse, error)
	HostelApplications(ctx context.Context) ([]dto.HostelApplicationRow, error)
	DecideHostel(ctx context.Context, studentID uint, req dto.HostelDecisionRequest) (dto.HostelResponse, error)
}

type adminService struct {
	repo      repository.AdminRepository
	students  repository.StudentRepository
	profiles  repository.ProfileRepository
	hostel    HostelService
	cache     *redis.Client
	cacheTTL  time.Duration
	feeTotal  int64
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAdminService constructs the admin service. cache may be nil; analytics
// then recompute on every call. feeTotal is the rupee amount charged to every
// newly enrolled student.
func NewAdminService(
	repo repository.AdminRepository,
	students repository.StudentRepository,
	profiles repository.ProfileRepository,
	hostel HostelService,
	cache *redis.Client,
	ttl time.Duration,
	feeTotal int64,
	validate *validator.Validate,
	logger zerolog.Logger,
) AdminService {
	return &adminService{
		repo:      repo,
		students:  students,
		profiles:  profiles,
		hostel:    hostel,
		cache:     cache,
		cacheTTL:  ttl,
		feeTotal:  feeTotal,
		validator: validate,
		logger:    logger.With().Str("component", "admin_service").Logger(),
	}
}

func (s *adminService) EnrollStudent(ctx context.Context, req dto.EnrollStudentRequest) (dto.EnrollStudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.EnrollStudentResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.students.GetByEmail(ctx, email); err == nil {
		return dto.EnrollStudentResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.EnrollStudentResponse{}, err
	}

	student := models.Student{
		Name:   strings.TrimSpace(req.Name),
		Email:  email,
		Branch: strings.TrimSpace(req.Branch),
		Year:   strings.TrimSpace(req.Year),
		Role:   models.RoleStudent,
	}
	if err := s.students.Create(ctx, &student); err != nil {
		return dto.EnrollStudentResponse{}, err
	}

	profile := models.StudentProfile{
		StudentID: student.ID,
		Fee: models.FeeAccount{
			TotalAmount: s.feeTotal,
			Status:      models.FeeUnpaid,
		},
		Hostel: models.HostelApplication{Status: models.HostelNotApplied},
		LMS:    models.LMSAccount{Status: models.LMSInactive},
	}
	if err := s.profiles.Create(ctx, &profile); err != nil {
		return dto.EnrollStudentResponse{}, err
	}

	s.logger.Info().
		Uint("student_id", student.ID).
		Int64("fee_total", s.feeTotal).
		Msg("student enrolled")

	return dto.EnrollStudentResponse{
		StudentID:    student.ID,
		Name:         student.Name,
		Email:        student.Email,
		FeeTotal:     profile.Fee.TotalAmount,
		FeeStatus:    string(profile.Fee.Status),
		HostelStatus: string(profile.Hostel.Status),
		LMSStatus:    string(profile.LMS.Status),
	}, nil
}

func (s *adminService) ListStudents(ctx context.Context) ([]dto.AdminStudentRow, error) {
	rows, err := s.repo.ListStudentsWithProfiles(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AdminStudentRow, 0, len(rows))
	for _, row := range rows {
		pending := 0
		for _, record := range row.Profile.Documents {
			if record.Status == models.DocumentPending || record.Status == models.DocumentUploaded {
				pending++
			}
		}

		out = append(out, dto.AdminStudentRow{
			StudentID:          row.Profile.StudentID,
			Name:               row.Student.Name,
			Email:              row.Student.Email,
			Branch:             row.Student.Branch,
			Year:               row.Student.Year,
			ProgressPercentage: row.Profile.ProgressPercentage,
			DocumentsPending:   pending,
			FeeStatus:          string(row.Profile.Fee.Status),
			HostelStatus:       string(row.Profile.Hostel.Status),
			LMSStatus:          string(row.Profile.LMS.Status),
			CreatedAt:          row.Profile.CreatedAt,
		})
	}

	return out, nil
}

func (s *adminService) Analytics(ctx context.Context) (dto.AdminAnalyticsResponse, error) {
	const cacheKey = "analytics:onboarding"
	tracer := otel.Tracer("github.com/noah-isme/onboard-go-api/internal/service/admin")
	ctx, span := tracer.Start(ctx, "admin.analytics")
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.AdminAnalyticsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("analytics.cache_hit", true))
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read analytics cache")
			span.RecordError(err)
		}
	}

	var response dto.AdminAnalyticsResponse
	var err error

	if response.TotalStudents, err = s.repo.CountStudents(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_students_failed")
		return dto.AdminAnalyticsResponse{}, err
	}
	if response.CompletedOnboarding, err = s.repo.CountCompletedOnboarding(ctx); err != nil {
		span.RecordError(err)
		return dto.AdminAnalyticsResponse{}, err
	}
	if response.PendingDocuments, err = s.repo.CountPendingDocuments(ctx); err != nil {
		span.RecordError(err)
		return dto.AdminAnalyticsResponse{}, err
	}
	if response.FeeUnpaidCount, err = s.repo.CountFeeByStatus(ctx, models.FeeUnpaid); err != nil {
		span.RecordError(err)
		return dto.AdminAnalyticsResponse{}, err
	}
	if response.HostelPendingCount, err = s.repo.CountHostelByStatus(ctx, models.HostelPending); err != nil {
		span.RecordError(err)
		return dto.AdminAnalyticsResponse{}, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store analytics cache")
				span.RecordError(err)
			}
		}
	}

	return response, nil
}

func (s *adminService) HostelApplications(ctx context.Context) ([]dto.HostelApplicationRow, error) {
	rows, err := s.repo.ListHostelApplicants(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.HostelApplicationRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.HostelApplicationRow{
			StudentID: row.Profile.StudentID,
			Name:      row.Student.Name,
			Email:     row.Student.Email,
			Branch:    row.Student.Branch,
			Year:      row.Student.Year,
			Hostel:    dto.NewHostelResponse(row.Profile.Hostel),
		})
	}

	return out, nil
}

func (s *adminService) DecideHostel(ctx context.Context, studentID uint, req dto.HostelDecisionRequest) (dto.HostelResponse, error) {
	return s.hostel.Decide(ctx, studentID, req)
}
