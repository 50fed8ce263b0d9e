package handlers

import (
	"fmt"
	"net/http"
	"net/mail"

	"lawyer_app_go/config"
	"lawyer_app_go/db"
	"lawyer_app_go/middleware"
	"lawyer_app_go/models"
	"lawyer_app_go/services"

	"github.com/labstack/echo/v4"
)

// findCaseByID loads the book and picks out one case.
func findCaseByID(c echo.Context, caseID string) (*models.Case, error) {
	store, err := newDocumentStore(c)
	if err != nil {
		return nil, err
	}
	cases, err := services.LoadCases(c.Request().Context(), store)
	if err != nil {
		return nil, err
	}
	for i := range cases {
		if cases[i].ID == caseID {
			return &cases[i], nil
		}
	}
	return nil, nil
}

// StatementPDFHandler renders a single case as a PDF statement.
func StatementPDFHandler(c echo.Context) error {
	caseID := c.Param("id")

	target, err := findCaseByID(c, caseID)
	if err != nil {
		return caseStoreError(c, "Failed to load case for statement", err)
	}
	if target == nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"message": "Case not found",
		})
	}

	html, err := services.BuildStatementHTML(*target)
	if err != nil {
		return caseStoreError(c, "Failed to build statement", err)
	}
	pdf, err := services.GenerateStatementPDF(html)
	if err != nil {
		return caseStoreError(c, "Failed to render statement PDF", err)
	}

	filename := fmt.Sprintf("statement_%s.pdf", caseID)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// emailStatementRequest is the optional body for the email endpoint; the
// recipient defaults to the signed-in user.
type emailStatementRequest struct {
	To string `json:"to"`
}

// EmailStatementHandler sends a case statement PDF to the user (or a
// recipient they name).
func EmailStatementHandler(c echo.Context) error {
	cfg := c.Get("config").(*config.Config)
	user := middleware.GetCurrentUser(c)
	caseID := c.Param("id")

	var req emailStatementRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid request body",
		})
	}
	recipient := req.To
	if recipient == "" && user != nil {
		recipient = user.Email
	}
	if _, err := mail.ParseAddress(recipient); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid recipient address",
		})
	}

	target, err := findCaseByID(c, caseID)
	if err != nil {
		return caseStoreError(c, "Failed to load case for statement", err)
	}
	if target == nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"message": "Case not found",
		})
	}

	html, err := services.BuildStatementHTML(*target)
	if err != nil {
		return caseStoreError(c, "Failed to build statement", err)
	}
	pdf, err := services.GenerateStatementPDF(html)
	if err != nil {
		return caseStoreError(c, "Failed to render statement PDF", err)
	}

	email := services.BuildStatementEmail(recipient, *target, pdf)
	services.SendEmailAsync(cfg, email)

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionEmail, models.ResourceTypeCaseBook, target.ID, 1,
		fmt.Sprintf("Statement emailed to %s", recipient))

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Statement email queued",
	})
}
