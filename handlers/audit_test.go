package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"lawyer_app_go/middleware"
	"lawyer_app_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedAuditLog(t *testing.T, testDB *gorm.DB, userID string, action models.AuditAction, caseCount int) {
	t.Helper()
	entry := models.AuditLog{
		UserID:       &userID,
		UserEmail:    "adv@example.com",
		ResourceType: models.ResourceTypeCaseBook,
		Action:       action,
		CaseCount:    caseCount,
	}
	assert.NoError(t, testDB.Create(&entry).Error)
}

func TestListAuditLogsHandler(t *testing.T) {
	testDB := setupTestDB(t)
	seedAuditLog(t, testDB, "user-1", models.AuditActionLoad, 0)
	seedAuditLog(t, testDB, "user-1", models.AuditActionSave, 3)
	seedAuditLog(t, testDB, "user-2", models.AuditActionSave, 9)

	_, c, rec := setupEcho(http.MethodGet, "/api/audit", nil)
	c.Set(middleware.ContextKeyUser, &models.User{ID: "user-1", Email: "adv@example.com"})

	err := ListAuditLogsHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Logs  []models.AuditLog `json:"logs"`
		Total int64             `json:"total"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// Only the signed-in user's history, never another account's.
	assert.Equal(t, int64(2), resp.Total)
	for _, entry := range resp.Logs {
		assert.Equal(t, "user-1", *entry.UserID)
	}
}

func TestListAuditLogsHandlerActionFilter(t *testing.T) {
	testDB := setupTestDB(t)
	seedAuditLog(t, testDB, "user-1", models.AuditActionLoad, 0)
	seedAuditLog(t, testDB, "user-1", models.AuditActionSave, 3)

	_, c, rec := setupEcho(http.MethodGet, "/api/audit?action=SAVE", nil)
	c.Set(middleware.ContextKeyUser, &models.User{ID: "user-1"})

	err := ListAuditLogsHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Logs  []models.AuditLog `json:"logs"`
		Total int64             `json:"total"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Total)
	assert.Equal(t, models.AuditActionSave, resp.Logs[0].Action)
	assert.Equal(t, 3, resp.Logs[0].CaseCount)
}

func TestListAuditLogsHandlerRequiresUser(t *testing.T) {
	setupTestDB(t)

	_, c, _ := setupEcho(http.MethodGet, "/api/audit", nil)

	err := ListAuditLogsHandler(c)
	assert.Error(t, err)
}
