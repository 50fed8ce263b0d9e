package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"lawyer_app_go/middleware"
	"lawyer_app_go/models"
	"lawyer_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// stubStore is an in-memory DocumentStore for handler tests.
type stubStore struct {
	content  []byte
	found    bool
	loadErr  error
	saveErr  error
	saved    []byte
	saveID   string
	saveHits int
}

func (s *stubStore) Load(ctx context.Context) ([]byte, bool, error) {
	return s.content, s.found, s.loadErr
}

func (s *stubStore) Save(ctx context.Context, content []byte) (string, error) {
	s.saveHits++
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.saved = content
	return s.saveID, nil
}

func withStubStore(t *testing.T, store services.DocumentStore, err error) {
	t.Helper()
	orig := newDocumentStore
	newDocumentStore = func(c echo.Context) (services.DocumentStore, error) {
		return store, err
	}
	t.Cleanup(func() { newDocumentStore = orig })
}

func setAuthenticated(c echo.Context) {
	c.Set(middleware.ContextKeyUser, &models.User{ID: "user-1", Email: "adv@example.com", IsActive: true})
	c.Set(middleware.ContextKeySession, &models.Session{ID: "sess-1", UserID: "user-1"})
}

func TestLoadCasesHandlerFirstTimeUser(t *testing.T) {
	setupTestDB(t)
	store := &stubStore{found: false}
	withStubStore(t, store, nil)

	_, c, rec := setupEcho(http.MethodGet, "/api/cases/load", nil)
	setAuthenticated(c)

	err := LoadCasesHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestLoadCasesHandlerReturnsStoredCases(t *testing.T) {
	setupTestDB(t)
	stored := []models.Case{
		{
			ID:        "case-1",
			CaseTitle: "Sharma vs Verma",
			Quotation: 50000,
		},
	}
	content, err := json.Marshal(stored)
	assert.NoError(t, err)

	store := &stubStore{content: content, found: true}
	withStubStore(t, store, nil)

	_, c, rec := setupEcho(http.MethodGet, "/api/cases/load", nil)
	setAuthenticated(c)

	err = LoadCasesHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got []models.Case
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 1)
	assert.Equal(t, "Sharma vs Verma", got[0].CaseTitle)
	// Balance is recomputed on load, never trusted from storage.
	assert.Equal(t, 50000.0, got[0].BalanceRemaining)
	assert.NotNil(t, got[0].Installments)
}

func TestLoadCasesHandlerUnauthorized(t *testing.T) {
	setupTestDB(t)
	withStubStore(t, nil, services.ErrUnauthorized)

	_, c, rec := setupEcho(http.MethodGet, "/api/cases/load", nil)

	err := LoadCasesHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSaveCasesHandlerPersistsBook(t *testing.T) {
	setupTestDB(t)
	store := &stubStore{saveID: "file-123"}
	withStubStore(t, store, nil)

	body := `[{"id":"case-1","caseTitle":"Sharma vs Verma","quotation":50000,"invoiceAmount":10000}]`
	_, c, rec := setupEcho(http.MethodPost, "/api/cases/save", strings.NewReader(body))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	setAuthenticated(c)

	err := SaveCasesHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "file-123", resp["fileId"])

	// The stored document is the normalized book, pretty-printed.
	var saved []models.Case
	assert.NoError(t, json.Unmarshal(store.saved, &saved))
	assert.Len(t, saved, 1)
	assert.Equal(t, 40000.0, saved[0].BalanceRemaining)
	assert.Contains(t, string(store.saved), "\n  ")
}

func TestSaveCasesHandlerRejectsBadBody(t *testing.T) {
	setupTestDB(t)
	store := &stubStore{}
	withStubStore(t, store, nil)

	_, c, rec := setupEcho(http.MethodPost, "/api/cases/save", strings.NewReader("{not json"))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	setAuthenticated(c)

	err := SaveCasesHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, store.saveHits)
}

func TestSaveCasesHandlerProvisioningFailure(t *testing.T) {
	setupTestDB(t)
	store := &stubStore{saveErr: &services.StorageProvisioningError{Err: errors.New("folder create failed")}}
	withStubStore(t, store, nil)

	_, c, rec := setupEcho(http.MethodPost, "/api/cases/save", strings.NewReader("[]"))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	setAuthenticated(c)

	err := SaveCasesHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error managing Google Drive folder")
}

func TestSaveCasesHandlerEmptyBookIsValid(t *testing.T) {
	setupTestDB(t)
	store := &stubStore{saveID: "file-123"}
	withStubStore(t, store, nil)

	_, c, rec := setupEcho(http.MethodPost, "/api/cases/save", strings.NewReader("[]"))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	setAuthenticated(c)

	err := SaveCasesHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, store.saveHits)
}
