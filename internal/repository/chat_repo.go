package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/onboard-go-api/internal/models"
)

// ChatRepository persists the append-only per-student conversation log.
type ChatRepository interface {
	Save(ctx context.Context, message *models.ChatMessage) error
	ListByStudent(ctx context.Context, studentID uint, limit int) ([]models.ChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository constructs a chat repository backed by GORM.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Save(ctx context.Context, message *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *chatRepository) ListByStudent(ctx context.Context, studentID uint, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}

	var messages []models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	return messages, nil
}
