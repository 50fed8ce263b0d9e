package handlers

import (
	"net/http"
	"strconv"

	"lawyer_app_go/db"
	"lawyer_app_go/middleware"
	"lawyer_app_go/services"

	"github.com/labstack/echo/v4"
)

const (
	defaultAuditPageSize = 50
	maxAuditPageSize     = 200
)

// ListAuditLogsHandler returns the signed-in user's operation history,
// newest first. Supports ?action=SAVE filtering and page/pageSize
// pagination.
func ListAuditLogsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.QueryParam("pageSize"))
	if err != nil || pageSize < 1 {
		pageSize = defaultAuditPageSize
	}
	if pageSize > maxAuditPageSize {
		pageSize = maxAuditPageSize
	}

	filters := services.AuditLogFilters{
		UserID: user.ID,
		Action: c.QueryParam("action"),
	}

	logs, total, err := services.GetUserAuditLogs(db.DB, filters, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Failed to load audit history",
			"error":   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"logs":     logs,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}
