package handlers

import (
	"fmt"
	"net/http"
	"time"

	"lawyer_app_go/db"
	"lawyer_app_go/middleware"
	"lawyer_app_go/models"
	"lawyer_app_go/services"

	"github.com/labstack/echo/v4"
)

// ExportCasesHandler streams the case book as an Excel workbook. The
// export reads from the remote store so it reflects the last save, not
// whatever the client currently holds.
func ExportCasesHandler(c echo.Context) error {
	store, err := newDocumentStore(c)
	if err != nil {
		return caseStoreError(c, "Failed to load cases for export", err)
	}

	cases, err := services.LoadCases(c.Request().Context(), store)
	if err != nil {
		return caseStoreError(c, "Failed to load cases for export", err)
	}

	buf, err := services.ExportCasesWorkbook(cases)
	if err != nil {
		return caseStoreError(c, "Failed to build export workbook", err)
	}

	auditCtx := middleware.GetAuditContext(c)
	services.LogAuditEvent(db.DB, auditCtx, models.AuditActionExport, models.ResourceTypeCaseBook, "", len(cases), "Case book exported")

	filename := fmt.Sprintf("cases_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
