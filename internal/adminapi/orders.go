package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/mesworks/prodorder/internal/domain"
	"github.com/mesworks/prodorder/internal/orders"
	"github.com/mesworks/prodorder/internal/webserver"
	"github.com/mesworks/prodorder/pkg/metrics"
)

type orderCreatePayload struct {
	OrderNumber     string `json:"order_number" validate:"required,min=1,max=64"`
	ProductCode     string `json:"product_code" validate:"required,min=1,max=64"`
	QuantityPlanned int    `json:"quantity_planned" validate:"required,gt=0"`
	Status          string `json:"status" validate:"omitempty,max=32"`
	StartDate       string `json:"start_date" validate:"omitempty"`
}

type orderUpdatePayload struct {
	OrderNumber *string `json:"order_number" validate:"omitempty,max=64"`
	ProductCode *string `json:"product_code" validate:"omitempty,max=64"`
	Status      *string `json:"status" validate:"omitempty,max=32"`
	StartDate   *string `json:"start_date" validate:"omitempty"`
	EndDate     *string `json:"end_date" validate:"omitempty"`
}

func registerOrderRoutes() {
	webserver.ApiGET("/production/orders", listOrders)
	webserver.ApiGET("/production/orders/statuses", listOrderStatuses)
	webserver.ApiGET("/production/orders/status/:status", listOrdersByStatus)
	webserver.ApiGET("/production/orders/:id", getOrder)
	webserver.ApiPOST("/production/orders", createOrder)
	webserver.ApiPATCH("/production/orders/:id", updateOrder)
	webserver.ApiDELETE("/production/orders/:id", deleteOrder)
}

// listOrders serves the paged admin grid with optional keyword and status
// filters. Reads bypass the service layer, mutations never do.
func listOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)
	db := GetDB(c)

	query := db.Model(&domain.ProductionOrder{})
	if keyword := strings.TrimSpace(c.QueryParam("keyword")); keyword != "" {
		like := "LIKE"
		if strings.EqualFold(db.Name(), "postgres") {
			like = "ILIKE"
		}
		query = query.Where("order_number "+like+" ? OR product_code "+like+" ?",
			"%"+keyword+"%", "%"+keyword+"%")
	}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		parsed, pok := domain.ParseOrderStatus(status)
		if !pok {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "status "+status+" is not recognized", nil)
		}
		query = query.Where("status = ?", parsed.StoredName())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
	var rows []domain.ProductionOrder
	if err := query.Order("id desc").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
	return paged(c, rows, total, page, pageSize)
}

func listOrderStatuses(c echo.Context) error {
	return ok(c, GetAppContext(c).OrderService().Statuses())
}

func listOrdersByStatus(c echo.Context) error {
	rows, err := GetAppContext(c).OrderService().ListByStatus(c.Request().Context(), c.Param("status"))
	if err != nil {
		return failFromError(c, err)
	}
	if len(rows) == 0 {
		return fail(c, http.StatusNotFound, "NOT_FOUND",
			"no production orders with status "+c.Param("status"), nil)
	}
	return ok(c, rows)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid order id", nil)
	}
	order, err := GetAppContext(c).OrderService().Get(c.Request().Context(), id)
	if err != nil {
		return failFromError(c, err)
	}
	return ok(c, order)
}

func createOrder(c echo.Context) error {
	var form orderCreatePayload
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid order payload", nil)
	}
	if err := c.Validate(&form); err != nil {
		return handleValidationError(c, err)
	}

	in := orders.CreateOrderInput{
		OrderNumber:     form.OrderNumber,
		ProductCode:     form.ProductCode,
		QuantityPlanned: form.QuantityPlanned,
		Status:          normalizeStatus(form.Status),
	}
	if form.StartDate != "" {
		start, perr := dateparse.ParseAny(form.StartDate)
		if perr != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "unparseable start_date "+form.StartDate, nil)
		}
		in.StartDate = start
	}

	order, err := GetAppContext(c).OrderService().Create(c.Request().Context(), in)
	if err != nil {
		return failFromError(c, err)
	}
	metrics.CounterInc(metrics.MetricOrderCreated)
	return c.JSON(http.StatusCreated, order)
}

func updateOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid order id", nil)
	}
	var form orderUpdatePayload
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid order payload", nil)
	}
	if err := c.Validate(&form); err != nil {
		return handleValidationError(c, err)
	}

	in := orders.UpdateOrderInput{
		OrderNumber: form.OrderNumber,
		ProductCode: form.ProductCode,
	}
	if form.Status != nil {
		status := normalizeStatus(*form.Status)
		in.Status = &status
	}
	if form.StartDate != nil && *form.StartDate != "" {
		start, perr := parseDateField("start_date", *form.StartDate)
		if perr != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", perr.Error(), nil)
		}
		in.StartDate = start
	}
	if form.EndDate != nil && *form.EndDate != "" {
		end, perr := parseDateField("end_date", *form.EndDate)
		if perr != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", perr.Error(), nil)
		}
		in.EndDate = end
	}

	order, err := GetAppContext(c).OrderService().Update(c.Request().Context(), id, in)
	if err != nil {
		return failFromError(c, err)
	}
	return ok(c, order)
}

func deleteOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid order id", nil)
	}
	if err := GetAppContext(c).OrderService().Delete(c.Request().Context(), id); err != nil {
		return failFromError(c, err)
	}
	return ok(c, echo.Map{"deleted": id})
}

// normalizeStatus maps case-insensitive input onto the stored status name.
// Unrecognized input passes through so the service reports the full error.
func normalizeStatus(value string) domain.OrderStatus {
	if parsed, pok := domain.ParseOrderStatus(value); pok {
		return parsed
	}
	return domain.OrderStatus(value)
}

func parseDateField(name, value string) (*time.Time, error) {
	t, err := dateparse.ParseAny(value)
	if err != nil {
		return nil, fmt.Errorf("unparseable %s %q", name, value)
	}
	return &t, nil
}
