package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/onboard-go-api/internal/models"
)

// StudentWithProfile joins a student identity with its onboarding record.
type StudentWithProfile struct {
	Student models.Student
	Profile models.StudentProfile
}

// AdminRepository serves the roster, analytics counters and the hostel queue.
type AdminRepository interface {
	ListStudentsWithProfiles(ctx context.Context) ([]StudentWithProfile, error)
	CountStudents(ctx context.Context) (int64, error)
	CountCompletedOnboarding(ctx context.Context) (int64, error)
	CountPendingDocuments(ctx context.Context) (int64, error)
	CountFeeByStatus(ctx context.Context, status models.FeeStatus) (int64, error)
	CountHostelByStatus(ctx context.Context, status models.HostelStatus) (int64, error)
	ListHostelApplicants(ctx context.Context) ([]StudentWithProfile, error)
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository constructs an admin repository backed by GORM.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) ListStudentsWithProfiles(ctx context.Context) ([]StudentWithProfile, error) {
	var profiles []models.StudentProfile
	err := r.db.WithContext(ctx).
		Preload("Documents").
		Order("created_at DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	return r.joinStudents(ctx, profiles)
}

func (r *adminRepository) CountStudents(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("role = ?", models.RoleStudent).
		Count(&count).Error
	return count, err
}

func (r *adminRepository) CountCompletedOnboarding(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Where("progress_percentage >= ?", 100).
		Count(&count).Error
	return count, err
}

func (r *adminRepository) CountPendingDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DocumentRecord{}).
		Where("status = ?", models.DocumentPending).
		Count(&count).Error
	return count, err
}

func (r *adminRepository) CountFeeByStatus(ctx context.Context, status models.FeeStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Where("fee_status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *adminRepository) CountHostelByStatus(ctx context.Context, status models.HostelStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Where("hostel_status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *adminRepository) ListHostelApplicants(ctx context.Context) ([]StudentWithProfile, error) {
	var profiles []models.StudentProfile
	err := r.db.WithContext(ctx).
		Where("hostel_status <> ?", models.HostelNotApplied).
		Order("updated_at DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	return r.joinStudents(ctx, profiles)
}

func (r *adminRepository) joinStudents(ctx context.Context, profiles []models.StudentProfile) ([]StudentWithProfile, error) {
	if len(profiles) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(profiles))
	for _, profile := range profiles {
		ids = append(ids, profile.StudentID)
	}

	var students []models.Student
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&students).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Student, len(students))
	for _, student := range students {
		byID[student.ID] = student
	}

	rows := make([]StudentWithProfile, 0, len(profiles))
	for _, profile := range profiles {
		rows = append(rows, StudentWithProfile{
			Student: byID[profile.StudentID],
			Profile: profile,
		})
	}

	return rows, nil
}
