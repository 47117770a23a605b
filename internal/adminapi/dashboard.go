package adminapi

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mesworks/prodorder/internal/domain"
	"github.com/mesworks/prodorder/internal/webserver"
	"github.com/mesworks/prodorder/pkg/metrics"
	"github.com/montanaflynn/stats"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

func registerDashboardRoutes() {
	webserver.ApiGET("/dashboard/production", productionDashboard)
	webserver.ApiGET("/dashboard/metrics/:name", metricSeries)
	webserver.ApiGET("/system/status", systemStatus)
}

// productionDashboard aggregates order and log figures for the admin
// landing page.
func productionDashboard(c echo.Context) error {
	db := GetDB(c)

	byStatus := map[string]int64{}
	for _, status := range domain.OrderStatusNames() {
		var n int64
		db.Model(&domain.ProductionOrder{}).Where("status = ?", status).Count(&n)
		byStatus[status] = n
	}

	var totals struct {
		Planned  int64
		Produced int64
	}
	db.Model(&domain.ProductionOrder{}).
		Select("COALESCE(SUM(quantity_planned),0) AS planned, COALESCE(SUM(quantity_produced),0) AS produced").
		Scan(&totals)

	var quantities []float64
	db.Model(&domain.ProductionLog{}).Pluck("quantity", &quantities)

	logStats := echo.Map{"count": len(quantities)}
	if len(quantities) > 0 {
		mean, _ := stats.Mean(quantities)
		median, _ := stats.Median(quantities)
		max, _ := stats.Max(quantities)
		p95, _ := stats.Percentile(quantities, 95)
		logStats["mean"] = mean
		logStats["median"] = median
		logStats["max"] = max
		logStats["p95"] = p95
	}

	return ok(c, echo.Map{
		"orders_by_status": byStatus,
		"quantity_planned": totals.Planned,
		"quantity_output":  totals.Produced,
		"log_stats":        logStats,
	})
}

// metricSeries returns raw time-series points from the embedded metrics
// store for charting.
func metricSeries(c echo.Context) error {
	name := c.Param("name")
	end := time.Now().Unix()
	start := end - 86400
	points := metrics.Select(name, start, end)
	return ok(c, echo.Map{"name": name, "points": points})
}

func systemStatus(c echo.Context) error {
	result := echo.Map{"time": time.Now()}
	if percents, err := cpu.Percent(time.Millisecond*200, false); err == nil && len(percents) > 0 {
		result["cpu_percent"] = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		result["mem_percent"] = vm.UsedPercent
		result["mem_total"] = vm.Total
	}
	if uptime, err := host.Uptime(); err == nil {
		result["uptime_sec"] = uptime
	}
	return ok(c, result)
}
