package adminapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/mesworks/prodorder/internal/domain"
	"github.com/mesworks/prodorder/internal/webserver"
)

// orderExportRow flattens a production order for CSV and XLSX export.
type orderExportRow struct {
	ID               int64  `csv:"id"`
	OrderNumber      string `csv:"order_number"`
	ProductCode      string `csv:"product_code"`
	QuantityPlanned  int    `csv:"quantity_planned"`
	QuantityProduced int    `csv:"quantity_produced"`
	Status           string `csv:"status"`
	StartDate        string `csv:"start_date"`
	EndDate          string `csv:"end_date"`
}

type logExportRow struct {
	ID                int64  `csv:"id"`
	ProductionOrderID int64  `csv:"production_order_id"`
	ResourceID        string `csv:"resource_id"`
	Quantity          int    `csv:"quantity"`
	Timestamp         string `csv:"timestamp"`
}

func registerExportRoutes() {
	webserver.ApiGET("/export/orders", exportOrders)
	webserver.ApiGET("/export/logs", exportLogs)
}

func exportOrders(c echo.Context) error {
	var orders []domain.ProductionOrder
	if err := GetDB(c).Order("id").Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}

	rows := make([]orderExportRow, 0, len(orders))
	for _, o := range orders {
		row := orderExportRow{
			ID:               o.ID,
			OrderNumber:      o.OrderNumber,
			ProductCode:      o.ProductCode,
			QuantityPlanned:  o.QuantityPlanned,
			QuantityProduced: o.QuantityProduced,
			Status:           string(o.Status),
			StartDate:        o.StartDate.Format("2006-01-02"),
		}
		if o.EndDate != nil {
			row.EndDate = o.EndDate.Format("2006-01-02")
		}
		rows = append(rows, row)
	}

	if c.QueryParam("format") == "xlsx" {
		return writeXlsx(c, "production_orders", orderSheet(rows))
	}
	return writeCsv(c, "production_orders", &rows)
}

func exportLogs(c echo.Context) error {
	var logs []domain.ProductionLog
	if err := GetDB(c).Order("id").Find(&logs).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}

	rows := make([]logExportRow, 0, len(logs))
	for _, l := range logs {
		row := logExportRow{
			ID:                l.ID,
			ProductionOrderID: l.ProductionOrderID,
			Quantity:          l.Quantity,
			Timestamp:         l.Timestamp.Format(time.RFC3339),
		}
		if l.ResourceID != nil {
			row.ResourceID = strconv.FormatInt(*l.ResourceID, 10)
		}
		rows = append(rows, row)
	}

	if c.QueryParam("format") == "xlsx" {
		return writeXlsx(c, "production_logs", logSheet(rows))
	}
	return writeCsv(c, "production_logs", &rows)
}

func writeCsv(c echo.Context, name string, rows interface{}) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s.csv", name))
	c.Response().WriteHeader(http.StatusOK)
	return gocsv.Marshal(rows, c.Response())
}

func writeXlsx(c echo.Context, name string, cells [][]interface{}) error {
	xlsx := excelize.NewFile()
	for r, row := range cells {
		for col, value := range row {
			axis := excelize.ToAlphaString(col) + strconv.Itoa(r+1)
			xlsx.SetCellValue("Sheet1", axis, value)
		}
	}
	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s.xlsx", name))
	c.Response().WriteHeader(http.StatusOK)
	return xlsx.Write(c.Response())
}

func orderSheet(rows []orderExportRow) [][]interface{} {
	cells := [][]interface{}{
		{"id", "order_number", "product_code", "quantity_planned", "quantity_produced", "status", "start_date", "end_date"},
	}
	for _, r := range rows {
		cells = append(cells, []interface{}{
			r.ID, r.OrderNumber, r.ProductCode, r.QuantityPlanned, r.QuantityProduced, r.Status, r.StartDate, r.EndDate,
		})
	}
	return cells
}

func logSheet(rows []logExportRow) [][]interface{} {
	cells := [][]interface{}{
		{"id", "production_order_id", "resource_id", "quantity", "timestamp"},
	}
	for _, r := range rows {
		cells = append(cells, []interface{}{
			r.ID, r.ProductionOrderID, r.ResourceID, r.Quantity, r.Timestamp,
		})
	}
	return cells
}
