package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LastMessage is the denormalized summary kept on the conversation so
// listings never have to join against the message log.
type LastMessage struct {
	Text     string    `gorm:"size:2000" json:"text"`
	SenderID uuid.UUID `gorm:"type:uuid" json:"sender_id"`
}

type Conversation struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`

	// PairKey is the participant pair in normalized order. The unique
	// index is what stops two racing first-sends from creating two
	// conversations for the same pair.
	PairKey string `gorm:"size:80;not null;uniqueIndex" json:"-"`

	Participants []*User     `gorm:"many2many:conversation_participants;" json:"participants"`
	LastMessage  LastMessage `gorm:"embedded;embeddedPrefix:last_message_" json:"last_message"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PairKey normalizes an unordered participant pair to a stable string,
// so lookups match no matter which side is the sender.
func PairKey(a, b uuid.UUID) string {
	if b.String() < a.String() {
		a, b = b, a
	}
	return fmt.Sprintf("%s:%s", a, b)
}
