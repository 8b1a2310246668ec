package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/omondivictor/chirpnet/models"
	"gorm.io/gorm"
)

type GormConversationStore struct {
	db *gorm.DB
}

func NewConversationStore(db *gorm.DB) *GormConversationStore {
	return &GormConversationStore{db: db}
}

func (s *GormConversationStore) FindByPair(ctx context.Context, a, b uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.WithContext(ctx).
		Preload("Participants").
		Where("pair_key = ?", models.PairKey(a, b)).
		First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

func (s *GormConversationStore) Create(ctx context.Context, conv *models.Conversation) error {
	// Omit the participant rows themselves so Create only writes the
	// conversation and its join entries.
	err := s.db.WithContext(ctx).Omit("Participants.*").Create(conv).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicatePair
	}
	return err
}

func (s *GormConversationStore) UpdateLastMessage(ctx context.Context, id uuid.UUID, last models.LastMessage) error {
	return s.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_message_text":      last.Text,
			"last_message_sender_id": last.SenderID,
			"updated_at":             time.Now(),
		}).Error
}

func (s *GormConversationStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := s.db.WithContext(ctx).
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id AND cp.user_id = ?", userID).
		Preload("Participants").
		Order("conversations.updated_at DESC").
		Find(&convs).Error
	return convs, err
}
