package entity

import (
	"time"

	"github.com/google/uuid"
)

// Credential is a local identity provider account. Subject is the identity
// token carried by issued bearer tokens and later stored on User.TokenIdentifier.
type Credential struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Subject      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"subject"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	FullName     string    `gorm:"type:varchar(255);not null" json:"full_name"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Credential) TableName() string {
	return "credentials"
}

// Identity returns the caller identity asserted by tokens issued for this credential.
func (c *Credential) Identity() Identity {
	return Identity{
		Subject: c.Subject,
		Name:    c.FullName,
		Email:   c.Email,
	}
}
