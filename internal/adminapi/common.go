package adminapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/mesworks/prodorder/internal/app"
	"github.com/mesworks/prodorder/internal/orders"
	"github.com/mesworks/prodorder/internal/webserver"
	"gorm.io/gorm"
)

// RegisterRoutes registers every admin API route group.
func RegisterRoutes() {
	registerAuthRoutes()
	registerOrderRoutes()
	registerLogRoutes()
	registerProductRoutes()
	registerResourceRoutes()
	registerDashboardRoutes()
	registerExportRoutes()
	registerSchedulerRoutes()
}

// GetAppContext returns the application context injected by the web server.
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(webserver.AppContextKey).(app.AppContext)
}

// GetDB returns the request database handle.
func GetDB(c echo.Context) *gorm.DB {
	return GetAppContext(c).DB()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	body := echo.Map{"code": code, "message": message}
	if detail != nil {
		body["detail"] = detail
	}
	return c.JSON(status, body)
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, echo.Map{
		"data":     rows,
		"total":    total,
		"page":     page,
		"per_page": pageSize,
	})
}

// failFromError maps a service error kind onto an HTTP response.
func failFromError(c echo.Context, err error) error {
	switch orders.KindOf(err) {
	case orders.KindInvalidArgument:
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case orders.KindNotFound:
		return fail(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case orders.KindConflict:
		return fail(c, http.StatusConflict, "CONFLICT", err.Error(), nil)
	case orders.KindUnavailable:
		return fail(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Service temporarily unavailable", nil)
	default:
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
}

func handleValidationError(c echo.Context, err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		details := make([]string, 0, len(verrs))
		for _, verr := range verrs {
			details = append(details, verr.Field()+" failed on "+verr.Tag())
		}
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Request validation failed", details)
	}
	return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Request validation failed", err.Error())
}

func parsePagination(c echo.Context) (int, int) {
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize := 20
	if ps, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
