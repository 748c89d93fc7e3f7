package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role names recognized by the system.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered author.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:30;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string    `json:"role" gorm:"size:20;not null;default:'user';index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Posts []Post `json:"posts,omitempty" gorm:"foreignKey:AuthorID"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// PublicUser is the projection of a user safe to embed in responses,
// used when resolving post author references.
type PublicUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// TableName points the projection at the users table so it can be
// preloaded as a post's author.
func (PublicUser) TableName() string {
	return "users"
}

// Public returns the external projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
