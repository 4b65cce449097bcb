package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/onboard-go-api/internal/dto"
	"github.com/noah-isme/onboard-go-api/internal/models"
)

func newLMSFixture() (*profileRepoStub, LMSService) {
	profiles := &profileRepoStub{profile: baselineProfile()}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewLMSService(profiles, validate, zerolog.Nop())
	return profiles, svc
}

func TestLMSActivate(t *testing.T) {
	profiles, svc := newLMSFixture()

	resp, err := svc.Activate(context.Background(), 7)
	require.NoError(t, err)

	require.Equal(t, string(models.LMSActive), resp.Status)
	require.Empty(t, resp.Subjects)
	require.Equal(t, 1, profiles.saves)
}

func TestLMSActivateIsIdempotent(t *testing.T) {
	profiles, svc := newLMSFixture()

	_, err := svc.Activate(context.Background(), 7)
	require.NoError(t, err)
	_, err = svc.Activate(context.Background(), 7)
	require.NoError(t, err)

	require.Equal(t, 1, profiles.saves)
}

func TestLMSRegisterSubjectsDedupesAndSorts(t *testing.T) {
	profiles, svc := newLMSFixture()

	resp, err := svc.RegisterSubjects(context.Background(), 7, dto.RegisterSubjectsRequest{
		Subjects: []string{"Physics", " Mathematics ", "physics", "Chemistry"},
	})
	require.NoError(t, err)

	require.Equal(t, []string{"Chemistry", "Mathematics", "Physics"}, resp.Subjects)
	require.Equal(t, string(models.LMSActive), resp.Status)
	require.Equal(t, models.LMSActive, profiles.profile.LMS.Status)
}

func TestLMSRegisterSubjectsReplacesExistingSet(t *testing.T) {
	_, svc := newLMSFixture()

	_, err := svc.RegisterSubjects(context.Background(), 7, dto.RegisterSubjectsRequest{
		Subjects: []string{"Physics"},
	})
	require.NoError(t, err)

	resp, err := svc.RegisterSubjects(context.Background(), 7, dto.RegisterSubjectsRequest{
		Subjects: []string{"Biology"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Biology"}, resp.Subjects)
}

func TestLMSRegisterSubjectsRequiresAtLeastOne(t *testing.T) {
	profiles, svc := newLMSFixture()

	_, err := svc.RegisterSubjects(context.Background(), 7, dto.RegisterSubjectsRequest{})
	require.Error(t, err)
	require.Zero(t, profiles.saves)
}

func TestLMSGetMissingProfile(t *testing.T) {
	profiles, svc := newLMSFixture()
	profiles.missing = true

	_, err := svc.Get(context.Background(), 7)
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProgressServiceRecomputesInsteadOfTrustingCache(t *testing.T) {
	profiles := &profileRepoStub{profile: baselineProfile()}
	profiles.profile.Fee.PaidAmount = 50000
	profiles.profile.ProgressPercentage = 99 // stale cache

	svc := NewProgressService(profiles, zerolog.Nop())
	progress, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)

	require.Equal(t, 25, progress.Percentage)
	require.Len(t, progress.Modules, 4)
}
