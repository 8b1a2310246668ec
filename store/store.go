package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/omondivictor/chirpnet/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicatePair = errors.New("conversation already exists for pair")
)

type ConversationStore interface {
	// FindByPair resolves the conversation for an unordered participant
	// pair, with participants preloaded.
	FindByPair(ctx context.Context, a, b uuid.UUID) (*models.Conversation, error)
	// Create inserts a new conversation and its participant links.
	// Returns ErrDuplicatePair when the pair already has one, so the
	// loser of a first-send race can retry the find path.
	Create(ctx context.Context, conv *models.Conversation) error
	// UpdateLastMessage rewrites the denormalized summary and advances
	// updated_at.
	UpdateLastMessage(ctx context.Context, id uuid.UUID, last models.LastMessage) error
	// ListForUser returns every conversation the user participates in,
	// most recently active first, with participants preloaded.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error)
}

type MessageStore interface {
	Append(ctx context.Context, msg *models.Message) error
	// ListByConversation returns the full log, newest first.
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error)
}

type UserStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
}
