// Package model defines database models
package model

import (
	"strings"
	"time"
)

const DefaultAbout = "Hey there! I'm new here."

var ValidGenders = []string{"male", "female", "other"}

type User struct {
	ID        string `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"not null" json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`

	// Argon2id PHC string. Never serialized, the plaintext is never stored
	PasswordHash string `gorm:"not null" json:"-"`

	Age    *int   `json:"age,omitempty"`
	Gender string `json:"gender,omitempty"`

	// Public URL into the media bucket. Required at registration
	AvatarURL string `gorm:"not null" json:"avatar"`

	About  string      `json:"about"`
	Skills StringSlice `gorm:"type:text" json:"skills"`

	// Holds the single currently valid refresh token. Issuing a new one
	// replaces it, which is what invalidates the old session
	RefreshToken *string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Normalize trims and lowercases the identity fields. Called explicitly
// by the register handler before persistence instead of hiding it in a
// gorm hook
func (u *User) Normalize() {
	u.FirstName = strings.ToLower(strings.TrimSpace(u.FirstName))
	u.LastName = strings.ToLower(strings.TrimSpace(u.LastName))
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
}

// NameRef is the minimal projection used when resolving the parties of
// a connection request
type NameRef struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (u *User) NameRef() NameRef {
	return NameRef{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
