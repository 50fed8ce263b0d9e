package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"lawyer_app_go/config"
	"lawyer_app_go/db"
	"lawyer_app_go/middleware"
	"lawyer_app_go/models"
	"lawyer_app_go/services"

	"github.com/labstack/echo/v4"
)

// newDocumentStore builds the store for the authenticated request. A
// package variable so handler tests can substitute an in-memory store.
var newDocumentStore = func(c echo.Context) (services.DocumentStore, error) {
	cfg := c.Get("config").(*config.Config)
	user := middleware.GetCurrentUser(c)
	session := middleware.GetCurrentSession(c)
	if user == nil || session == nil {
		return nil, services.ErrUnauthorized
	}

	ctx := c.Request().Context()
	token, err := services.SessionToken(cfg, session)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrUnauthorized, err)
	}
	ts := services.SessionTokenSource(ctx, db.DB, cfg, session.ID, token)
	return services.NewDocumentStore(ctx, cfg, user, ts)
}

// LoadCasesHandler returns the user's whole case book. A user who has
// never saved gets an empty array, not an error.
func LoadCasesHandler(c echo.Context) error {
	store, err := newDocumentStore(c)
	if err != nil {
		return caseStoreError(c, "Failed to load cases from Google Drive", err)
	}

	cases, err := services.LoadCases(c.Request().Context(), store)
	if err != nil {
		return caseStoreError(c, "Failed to load cases from Google Drive", err)
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionLoad, models.ResourceTypeCaseBook, "", len(cases), "Case book loaded")

	return c.JSON(http.StatusOK, cases)
}

// SaveCasesHandler overwrites the stored case book with the posted list.
func SaveCasesHandler(c echo.Context) error {
	var cases []models.Case
	if err := c.Bind(&cases); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid case data",
			"error":   err.Error(),
		})
	}
	if cases == nil {
		cases = []models.Case{}
	}

	store, err := newDocumentStore(c)
	if err != nil {
		return caseStoreError(c, "Failed to save cases to Google Drive", err)
	}

	fileID, err := services.SaveCases(c.Request().Context(), store, cases)
	if err != nil {
		var provisionErr *services.StorageProvisioningError
		if errors.As(err, &provisionErr) {
			log.Printf("[CRITICAL] Storage provisioning failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"message": "Error managing Google Drive folder",
				"error":   err.Error(),
			})
		}
		return caseStoreError(c, "Failed to save cases to Google Drive", err)
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionSave, models.ResourceTypeCaseBook, fileID, len(cases), "Case book saved")

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Cases saved successfully",
		"fileId":  fileID,
	})
}

// caseStoreError maps storage failures onto the API's error contract.
func caseStoreError(c echo.Context, message string, err error) error {
	if errors.Is(err, services.ErrUnauthorized) {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"message": "Google Drive authorization required",
		})
	}
	log.Printf("[WARNING] %s: %v", message, err)
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"message": message,
		"error":   err.Error(),
	})
}
