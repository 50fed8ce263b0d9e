package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"lawyer_app_go/config"
	"lawyer_app_go/models"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// DefaultSessionDuration is how long a login stays valid without re-auth.
const DefaultSessionDuration = 7 * 24 * time.Hour

// GenerateSessionToken creates a cryptographically secure random token
// for session identification.
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// sealingKey derives the 32-byte AEAD key from the session secret. Tokens
// sealed under one secret cannot be opened after the secret rotates; the
// user logs in again.
func sealingKey(cfg *config.Config) [32]byte {
	return sha256.Sum256([]byte(cfg.SessionSecret))
}

// sealToken encrypts a Google OAuth token value for storage at rest. The
// random nonce is prepended to the ciphertext and the whole blob is
// base64-encoded.
func sealToken(cfg *config.Config, plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	key := sealingKey(cfg)
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return "", fmt.Errorf("failed to initialize token cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// openToken decrypts a sealed token value.
func openToken(cfg *config.Config, sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	blob, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("failed to decode sealed token: %w", err)
	}
	key := sealingKey(cfg)
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return "", fmt.Errorf("failed to initialize token cipher: %w", err)
	}
	if len(blob) < aead.NonceSize() {
		return "", errors.New("sealed token too short")
	}
	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to open sealed token: %w", err)
	}
	return string(plaintext), nil
}

// CreateSession creates a new session for a user after a successful Google
// login, sealing the OAuth tokens before they touch the database.
func CreateSession(db *gorm.DB, cfg *config.Config, userID string, token *oauth2.Token, ipAddress, userAgent string) (*models.Session, error) {
	sessionToken, err := GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	accessSealed, err := sealToken(cfg, token.AccessToken)
	if err != nil {
		return nil, err
	}
	refreshSealed, err := sealToken(cfg, token.RefreshToken)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		UserID:             userID,
		Token:              sessionToken,
		AccessTokenSealed:  accessSealed,
		RefreshTokenSealed: refreshSealed,
		TokenExpiry:        token.Expiry,
		ExpiresAt:          time.Now().Add(DefaultSessionDuration),
		IPAddress:          ipAddress,
		UserAgent:          userAgent,
	}

	if err := db.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// SessionToken reconstructs the Google OAuth token stored on a session.
func SessionToken(cfg *config.Config, session *models.Session) (*oauth2.Token, error) {
	access, err := openToken(cfg, session.AccessTokenSealed)
	if err != nil {
		return nil, err
	}
	refresh, err := openToken(cfg, session.RefreshTokenSealed)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		Expiry:       session.TokenExpiry,
	}, nil
}

// UpdateSessionToken re-seals a refreshed Google token onto an existing
// session row. A refresh response without a refresh token keeps the stored
// one.
func UpdateSessionToken(db *gorm.DB, cfg *config.Config, sessionID string, token *oauth2.Token) error {
	accessSealed, err := sealToken(cfg, token.AccessToken)
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"access_token_sealed": accessSealed,
		"token_expiry":        token.Expiry,
	}
	if token.RefreshToken != "" {
		refreshSealed, err := sealToken(cfg, token.RefreshToken)
		if err != nil {
			return err
		}
		updates["refresh_token_sealed"] = refreshSealed
	}
	if err := db.Model(&models.Session{}).Where("id = ?", sessionID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update session token: %w", err)
	}
	return nil
}

// ValidateSession checks a session token and returns the session with its
// user loaded. Expired sessions are deleted on sight.
func ValidateSession(db *gorm.DB, token string) (*models.Session, error) {
	var session models.Session
	err := db.Preload("User").Where("token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid session")
		}
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}

	if session.IsExpired() {
		db.Delete(&session)
		return nil, errors.New("session expired")
	}

	if !session.User.IsActive {
		return nil, errors.New("user account is inactive")
	}

	return &session, nil
}

// DeleteSession removes a session (logout).
func DeleteSession(db *gorm.DB, token string) error {
	result := db.Where("token = ?", token).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	return nil
}

// CleanupExpiredSessions removes all expired sessions. Run periodically.
func CleanupExpiredSessions(db *gorm.DB) (int64, error) {
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to cleanup expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
