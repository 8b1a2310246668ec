package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/omondivictor/chirpnet/models"
	"github.com/omondivictor/chirpnet/store"
	"github.com/samber/lo"
)

var (
	ErrEmptyMessage         = errors.New("message body is required")
	ErrSelfMessage          = errors.New("cannot send a message to yourself")
	ErrUnknownReceiver      = errors.New("user not found")
	ErrConversationNotFound = errors.New("conversation not found")
)

// persistenceTimeout bounds every store round trip so a stalled
// database surfaces as an error instead of a hung request.
const persistenceTimeout = 10 * time.Second

// Notifier is the push-delivery side of the realtime gateway.
type Notifier interface {
	NotifyNewMessage(userID uuid.UUID, msg *models.Message)
}

// ConversationSummary is a conversation as seen by one participant:
// only the other side appears in the participant list.
type ConversationSummary struct {
	ID           uuid.UUID          `json:"id"`
	Participants []models.Profile   `json:"participants"`
	LastMessage  models.LastMessage `json:"last_message"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type MessagingService struct {
	conversations store.ConversationStore
	messages      store.MessageStore
	users         store.UserStore
	notifier      Notifier
}

func NewMessagingService(conversations store.ConversationStore, messages store.MessageStore, users store.UserStore, notifier Notifier) *MessagingService {
	return &MessagingService{
		conversations: conversations,
		messages:      messages,
		users:         users,
		notifier:      notifier,
	}
}

// SendMessage appends a message to the pair's conversation, creating
// the conversation on first contact, then notifies the receiver if
// they are online. The push happens strictly after persistence: a
// recipient must never see an event for a message that a get-messages
// call could not yet read.
func (s *MessagingService) SendMessage(ctx context.Context, senderID, receiverID uuid.UUID, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	if senderID == receiverID {
		return nil, ErrSelfMessage
	}

	ctx, cancel := context.WithTimeout(ctx, persistenceTimeout)
	defer cancel()

	if _, err := s.users.Get(ctx, receiverID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnknownReceiver
		}
		return nil, err
	}

	last := models.LastMessage{Text: text, SenderID: senderID}
	conv, err := s.findOrCreateConversation(ctx, senderID, receiverID, last)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Text:           text,
	}
	if err := s.messages.Append(ctx, msg); err != nil {
		return nil, err
	}

	// Rewrite the summary on the find path too, not only on create.
	if err := s.conversations.UpdateLastMessage(ctx, conv.ID, last); err != nil {
		return nil, err
	}

	s.notifier.NotifyNewMessage(receiverID, msg)
	return msg, nil
}

func (s *MessagingService) findOrCreateConversation(ctx context.Context, a, b uuid.UUID, last models.LastMessage) (*models.Conversation, error) {
	conv, err := s.conversations.FindByPair(ctx, a, b)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	conv = &models.Conversation{
		PairKey:      models.PairKey(a, b),
		Participants: []*models.User{{ID: a}, {ID: b}},
		LastMessage:  last,
	}
	err = s.conversations.Create(ctx, conv)
	if err == nil {
		return conv, nil
	}
	if errors.Is(err, store.ErrDuplicatePair) {
		// Lost the first-contact race; the winner's row exists now.
		return s.conversations.FindByPair(ctx, a, b)
	}
	return nil, err
}

// GetMessages returns the full log for the requester's conversation
// with the other user, newest first.
func (s *MessagingService) GetMessages(ctx context.Context, requesterID, otherUserID uuid.UUID) ([]models.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, persistenceTimeout)
	defer cancel()

	conv, err := s.conversations.FindByPair(ctx, requesterID, otherUserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return s.messages.ListByConversation(ctx, conv.ID)
}

// ListConversations returns the requester's conversations, most
// recently active first, with the requester stripped from each
// participant list.
func (s *MessagingService) ListConversations(ctx context.Context, requesterID uuid.UUID) ([]ConversationSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, persistenceTimeout)
	defer cancel()

	convs, err := s.conversations.ListForUser(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	return lo.Map(convs, func(conv models.Conversation, _ int) ConversationSummary {
		others := lo.Filter(conv.Participants, func(u *models.User, _ int) bool {
			return u.ID != requesterID
		})
		return ConversationSummary{
			ID: conv.ID,
			Participants: lo.Map(others, func(u *models.User, _ int) models.Profile {
				return u.Profile()
			}),
			LastMessage: conv.LastMessage,
			CreatedAt:   conv.CreatedAt,
			UpdatedAt:   conv.UpdatedAt,
		}
	}), nil
}
