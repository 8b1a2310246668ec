package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/omondivictor/chirpnet/models"
	"gorm.io/gorm"
)

type GormMessageStore struct {
	db *gorm.DB
}

func NewMessageStore(db *gorm.DB) *GormMessageStore {
	return &GormMessageStore{db: db}
}

func (s *GormMessageStore) Append(ctx context.Context, msg *models.Message) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

func (s *GormMessageStore) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}
