package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mesworks/prodorder/internal/domain"
	"github.com/mesworks/prodorder/internal/orders"
	"github.com/mesworks/prodorder/internal/webserver"
)

type logCreatePayload struct {
	ProductionOrderID int64  `json:"production_order_id,string" validate:"required,gt=0"`
	ResourceID        *int64 `json:"resource_id,string" validate:"omitempty,gt=0"`
	Quantity          int    `json:"quantity" validate:"required,gt=0"`
}

func registerLogRoutes() {
	webserver.ApiGET("/production/logs", listLogs)
	webserver.ApiGET("/production/logs/order/:id", listLogsByOrder)
	webserver.ApiGET("/production/logs/:id", getLog)
	webserver.ApiPOST("/production/logs", createLog)
}

func listLogs(c echo.Context) error {
	page, pageSize := parsePagination(c)
	db := GetDB(c)

	query := db.Model(&domain.ProductionLog{})
	if v := c.QueryParam("production_order_id"); v != "" {
		orderID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid production_order_id", nil)
		}
		query = query.Where("production_order_id = ?", orderID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
	var rows []domain.ProductionLog
	if err := query.Order("timestamp desc").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
	return paged(c, rows, total, page, pageSize)
}

// listLogsByOrder answers 404 when the order has no logs yet so the caller
// can distinguish an idle order from a bad request.
func listLogsByOrder(c echo.Context) error {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid order id", nil)
	}
	rows, err := GetAppContext(c).LogService().ListByOrder(c.Request().Context(), orderID)
	if err != nil {
		return failFromError(c, err)
	}
	if len(rows) == 0 {
		return fail(c, http.StatusNotFound, "NOT_FOUND",
			"no production logs found for order "+strconv.FormatInt(orderID, 10), nil)
	}
	return ok(c, rows)
}

func getLog(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid log id", nil)
	}
	log, err := GetAppContext(c).LogService().Get(c.Request().Context(), id)
	if err != nil {
		return failFromError(c, err)
	}
	return ok(c, log)
}

func createLog(c echo.Context) error {
	var form logCreatePayload
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid log payload", nil)
	}
	if err := c.Validate(&form); err != nil {
		return handleValidationError(c, err)
	}

	log, err := GetAppContext(c).LogService().Append(c.Request().Context(), orders.AppendLogInput{
		ProductionOrderID: form.ProductionOrderID,
		ResourceID:        form.ResourceID,
		Quantity:          form.Quantity,
	})
	if err != nil {
		return failFromError(c, err)
	}
	return c.JSON(http.StatusCreated, log)
}
