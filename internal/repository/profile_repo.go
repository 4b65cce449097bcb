package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/onboard-go-api/internal/models"
)

// ProfileRepository provides access to the authoritative onboarding records.
// It is the only write path to StudentProfile; presentation code never
// touches profile fields directly.
type ProfileRepository interface {
	GetByStudentID(ctx context.Context, studentID uint) (models.StudentProfile, error)
	Create(ctx context.Context, profile *models.StudentProfile) error
	Save(ctx context.Context, profile *models.StudentProfile) error
	ApplyPayment(ctx context.Context, profile *models.StudentProfile, payment *models.FeePayment) error
	HasPayment(ctx context.Context, profileID uint, orderID, transactionID string) (bool, error)
	ListAll(ctx context.Context) ([]models.StudentProfile, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository constructs a profile repository backed by GORM.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByStudentID(ctx context.Context, studentID uint) (models.StudentProfile, error) {
	var profile models.StudentProfile
	err := r.db.WithContext(ctx).
		Preload("Documents").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("student_id = ?", studentID).
		First(&profile).Error
	if err != nil {
		return models.StudentProfile{}, err
	}

	return profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.StudentProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) Save(ctx context.Context, profile *models.StudentProfile) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(profile).Error
}

// ApplyPayment records the history row and the updated ledger totals in a
// single transaction, so a failed write leaves no payment the idempotency
// guard would later treat as settled.
func (r *profileRepository) ApplyPayment(ctx context.Context, profile *models.StudentProfile, payment *models.FeePayment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		return tx.Session(&gorm.Session{FullSaveAssociations: true}).
			Save(profile).Error
	})
}

func (r *profileRepository) HasPayment(ctx context.Context, profileID uint, orderID, transactionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FeePayment{}).
		Where("profile_id = ? AND order_id = ? AND transaction_id = ?", profileID, orderID, transactionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *profileRepository) ListAll(ctx context.Context) ([]models.StudentProfile, error) {
	var profiles []models.StudentProfile
	err := r.db.WithContext(ctx).
		Preload("Documents").
		Order("created_at DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	return profiles, nil
}
