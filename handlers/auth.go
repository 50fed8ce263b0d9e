package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"lawyer_app_go/config"
	"lawyer_app_go/db"
	"lawyer_app_go/middleware"
	"lawyer_app_go/models"
	"lawyer_app_go/services"

	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const oauthStateCookieName = "oauth_state"

// GoogleLoginHandler starts the OAuth flow. The random state round-trips
// through a short-lived cookie to bind the callback to this browser.
func GoogleLoginHandler(c echo.Context) error {
	cfg := c.Get("config").(*config.Config)

	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start login")
	}
	state := hex.EncodeToString(stateBytes)

	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   cfg.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	})

	// AccessTypeOffline requests a refresh token so Drive access outlives
	// the first hour.
	url := services.OAuthConfig(cfg).AuthCodeURL(state, oauth2.AccessTypeOffline)
	return c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallbackHandler completes the OAuth flow: verifies state,
// exchanges the code, upserts the user and opens a session.
func GoogleCallbackHandler(c echo.Context) error {
	cfg := c.Get("config").(*config.Config)
	ctx := c.Request().Context()

	stateCookie, err := c.Cookie(oauthStateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != c.QueryParam("state") {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid OAuth state")
	}

	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing authorization code")
	}

	oauthCfg := services.OAuthConfig(cfg)
	token, err := oauthCfg.Exchange(ctx, code)
	if err != nil {
		log.Printf("[WARNING] OAuth code exchange failed: %v", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Google sign-in failed")
	}

	googleUser, err := services.FetchGoogleUser(ctx, oauthCfg.TokenSource(ctx, token))
	if err != nil {
		log.Printf("[WARNING] Failed to fetch Google profile: %v", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Google sign-in failed")
	}

	user, err := upsertUser(db.DB, googleUser)
	if err != nil {
		log.Printf("[CRITICAL] Failed to upsert user %s: %v", googleUser.Email, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to sign in")
	}

	session, err := services.CreateSession(db.DB, cfg, user.ID, token, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		log.Printf("[CRITICAL] Failed to create session for %s: %v", user.Email, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to sign in")
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(services.DefaultSessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	})

	services.LogAuditEvent(db.DB, services.AuditContext{
		UserID:    user.ID,
		UserEmail: user.Email,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}, models.AuditActionLogin, models.ResourceTypeCaseBook, "", 0, "Signed in with Google")

	return c.Redirect(http.StatusSeeOther, cfg.AppURL)
}

// upsertUser finds the user matching a Google identity or creates one,
// refreshing the profile fields on every login.
func upsertUser(gdb *gorm.DB, gu *services.GoogleUser) (*models.User, error) {
	now := time.Now()

	var user models.User
	err := gdb.Where("google_id = ?", gu.ID).First(&user).Error
	switch {
	case err == nil:
		user.Email = gu.Email
		user.Name = gu.Name
		user.Picture = gu.Picture
		user.LastLoginAt = &now
		if err := gdb.Save(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			GoogleID:    gu.ID,
			Email:       gu.Email,
			Name:        gu.Name,
			Picture:     gu.Picture,
			IsActive:    true,
			LastLoginAt: &now,
		}
		if err := gdb.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return &user, nil
	default:
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
}

// LogoutHandler deletes the session and clears the cookie.
func LogoutHandler(c echo.Context) error {
	session := middleware.GetCurrentSession(c)
	if session != nil {
		if err := services.DeleteSession(db.DB, session.Token); err != nil {
			log.Printf("[WARNING] Failed to delete session: %v", err)
		}
		auditCtx := middleware.GetAuditContext(c)
		services.LogAuditEvent(db.DB, auditCtx, models.AuditActionLogout, models.ResourceTypeCaseBook, "", 0, "Signed out")
	}
	middleware.ClearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// GetCurrentUserHandler returns the authenticated user's profile.
func GetCurrentUserHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":      user.ID,
		"email":   user.Email,
		"name":    user.Name,
		"picture": user.Picture,
	})
}
