package services

import (
	"context"
	"fmt"
	"log"

	"lawyer_app_go/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

// OAuthConfig builds the Google OAuth2 config. The drive.file scope grants
// access only to files this app creates, not the user's whole Drive.
func OAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Endpoint:     google.Endpoint,
		Scopes: []string{
			"openid",
			"email",
			"profile",
			"https://www.googleapis.com/auth/drive.file",
		},
	}
}

// GoogleUser is the identity returned by the userinfo endpoint after a
// successful OAuth exchange.
type GoogleUser struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

// FetchGoogleUser retrieves the authenticated user's profile.
func FetchGoogleUser(ctx context.Context, ts oauth2.TokenSource) (*GoogleUser, error) {
	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	if info.Id == "" || info.Email == "" {
		return nil, fmt.Errorf("incomplete user info from Google")
	}
	return &GoogleUser{
		ID:      info.Id,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}

// persistingTokenSource wraps the library token source so that refreshed
// access tokens are re-sealed onto the session row. Persistence failures
// are logged but do not fail the request; the refreshed token is still
// valid for the call in flight.
type persistingTokenSource struct {
	base      oauth2.TokenSource
	db        *gorm.DB
	cfg       *config.Config
	sessionID string
	last      string
}

// SessionTokenSource returns a token source backed by the sealed tokens on
// a session, refreshing through Google and writing refreshed tokens back.
func SessionTokenSource(ctx context.Context, db *gorm.DB, cfg *config.Config, sessionID string, token *oauth2.Token) oauth2.TokenSource {
	base := OAuthConfig(cfg).TokenSource(ctx, token)
	return &persistingTokenSource{
		base:      base,
		db:        db,
		cfg:       cfg,
		sessionID: sessionID,
		last:      token.AccessToken,
	}
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := p.base.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if token.AccessToken != p.last {
		p.last = token.AccessToken
		if updateErr := UpdateSessionToken(p.db, p.cfg, p.sessionID, token); updateErr != nil {
			log.Printf("[WARNING] Failed to persist refreshed token for session %s: %v", p.sessionID, updateErr)
		}
	}
	return token, nil
}
