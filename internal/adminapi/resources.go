package adminapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mesworks/prodorder/internal/domain"
	"github.com/mesworks/prodorder/internal/webserver"
	"gorm.io/gorm"
)

type resourcePayload struct {
	Code        string `json:"code" validate:"required,min=1,max=64"`
	Description string `json:"description" validate:"omitempty,max=255"`
	Status      string `json:"status" validate:"omitempty,max=32"`
}

func registerResourceRoutes() {
	webserver.ApiGET("/catalog/resources", listResources)
	webserver.ApiGET("/catalog/resources/:id", getResource)
	webserver.ApiPOST("/catalog/resources", createResource)
	webserver.ApiPUT("/catalog/resources/:id", updateResource)
	webserver.ApiDELETE("/catalog/resources/:id", deleteResource)
}

func listResources(c echo.Context) error {
	page, pageSize := parsePagination(c)
	db := GetDB(c)

	query := db.Model(&domain.Resource{})
	if keyword := strings.TrimSpace(c.QueryParam("keyword")); keyword != "" {
		like := "LIKE"
		if strings.EqualFold(db.Name(), "postgres") {
			like = "ILIKE"
		}
		query = query.Where("code "+like+" ? OR description "+like+" ?",
			"%"+keyword+"%", "%"+keyword+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
	var rows []domain.Resource
	if err := query.Order("code").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
	return paged(c, rows, total, page, pageSize)
}

func getResource(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid resource id", nil)
	}
	var resource domain.Resource
	if err := GetDB(c).First(&resource, id).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	}
	return ok(c, resource)
}

func createResource(c echo.Context) error {
	var form resourcePayload
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid resource payload", nil)
	}
	if err := c.Validate(&form); err != nil {
		return handleValidationError(c, err)
	}
	status, err := resourceStatus(form.Status)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	db := GetDB(c)
	var count int64
	db.Model(&domain.Resource{}).Where("code = ?", form.Code).Count(&count)
	if count > 0 {
		return fail(c, http.StatusConflict, "CONFLICT", "resource code "+form.Code+" already exists", nil)
	}

	resource := domain.Resource{Code: form.Code, Description: form.Description, Status: status}
	if err := db.Create(&resource).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
	return c.JSON(http.StatusCreated, resource)
}

func updateResource(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid resource id", nil)
	}
	var form resourcePayload
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid resource payload", nil)
	}
	if err := c.Validate(&form); err != nil {
		return handleValidationError(c, err)
	}
	status, err := resourceStatus(form.Status)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	db := GetDB(c)
	var resource domain.Resource
	if err := db.First(&resource, id).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	}
	var count int64
	db.Model(&domain.Resource{}).Where("code = ? AND id <> ?", form.Code, id).Count(&count)
	if count > 0 {
		return fail(c, http.StatusConflict, "CONFLICT", "resource code "+form.Code+" already exists", nil)
	}

	resource.Code = form.Code
	resource.Description = form.Description
	resource.Status = status
	if err := db.Save(&resource).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
	return ok(c, resource)
}

// deleteResource detaches the resource from its production logs before
// removing it. History stays, attribution goes.
func deleteResource(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid resource id", nil)
	}

	db := GetDB(c)
	var resource domain.Resource
	if err := db.First(&resource, id).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.ProductionLog{}).
			Where("resource_id = ?", id).
			Update("resource_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Resource{}, id).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
	return ok(c, echo.Map{"deleted": id})
}

func resourceStatus(value string) (domain.ResourceStatus, error) {
	if value == "" {
		return domain.ResourceAvailable, nil
	}
	status := domain.ResourceStatus(value)
	if !status.Valid() {
		return "", fmt.Errorf("resource status %q is not recognized", value)
	}
	return status, nil
}
