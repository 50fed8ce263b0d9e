package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session ties a browser to a signed-in user. The Google OAuth credential
// needed to reach the user's drive space is stored alongside, sealed with
// the session secret before it touches the database.
type Session struct {
	ID        string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	Token  string `gorm:"uniqueIndex;not null;type:varchar(128)" json:"-"`

	// Sealed Google OAuth tokens. Never exposed over JSON.
	AccessTokenSealed  string    `gorm:"type:text;not null" json:"-"`
	RefreshTokenSealed string    `gorm:"type:text" json:"-"`
	TokenExpiry        time.Time `json:"-"`

	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	IPAddress string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent string    `gorm:"type:text" json:"user_agent"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates UUID
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Session model
func (Session) TableName() string {
	return "sessions"
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
