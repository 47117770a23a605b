package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mesworks/prodorder/internal/domain"
	"github.com/mesworks/prodorder/internal/webserver"
	"github.com/mesworks/prodorder/pkg/common"
)

type schedulerUpdatePayload struct {
	Interval int    `json:"interval" validate:"omitempty,gt=0"`
	Status   string `json:"status" validate:"omitempty,oneof=enabled disabled"`
	Remark   string `json:"remark" validate:"omitempty,max=255"`
}

func registerSchedulerRoutes() {
	webserver.ApiGET("/system/schedulers", listSchedulers)
	webserver.ApiPUT("/system/schedulers/:id", updateScheduler)
	webserver.ApiPOST("/system/schedulers/:id/run", runScheduler)
}

func listSchedulers(c echo.Context) error {
	var rows []domain.SysScheduler
	if err := GetDB(c).Order("id").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
	return ok(c, rows)
}

func updateScheduler(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid scheduler id", nil)
	}
	var form schedulerUpdatePayload
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid scheduler payload", nil)
	}
	if err := c.Validate(&form); err != nil {
		return handleValidationError(c, err)
	}

	db := GetDB(c)
	var sched domain.SysScheduler
	if err := db.First(&sched, id).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "scheduler not found", nil)
	}

	values := map[string]interface{}{}
	if form.Interval > 0 {
		values["interval"] = form.Interval
	}
	if form.Status != "" {
		status := common.DISABLED
		if form.Status == "enabled" {
			status = common.ENABLED
		}
		values["status"] = status
	}
	if form.Remark != "" {
		values["remark"] = form.Remark
	}
	if len(values) > 0 {
		if err := db.Model(&sched).Updates(values).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		}
	}
	return ok(c, sched)
}

// runScheduler triggers a task immediately, outside its normal interval.
func runScheduler(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid scheduler id", nil)
	}
	if err := GetAppContext(c).RunSchedulerNow(id); err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	}
	return ok(c, echo.Map{"triggered": id})
}
