package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultProfilePhoto = "https://res.cloudinary.com/dh8qtzbu9/image/upload/v1750691347/emptyProfile_lbc9lp.png"

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	Email        string    `gorm:"size:255;not null;unique" json:"email"`
	Password     string    `gorm:"not null" json:"-"`
	ProfilePhoto string    `gorm:"size:255" json:"profile_photo"`
	Bio          string    `gorm:"type:text" json:"bio"`

	Conversations []*Conversation `gorm:"many2many:conversation_participants;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile is the public subset other users may see, attached to
// conversation listings as "the other side".
type Profile struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	ProfilePhoto string    `json:"profile_photo"`
}

func (u *User) Profile() Profile {
	return Profile{ID: u.ID, FullName: u.FullName, ProfilePhoto: u.ProfilePhoto}
}
