package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mesworks/prodorder/internal/domain"
	"github.com/mesworks/prodorder/internal/webserver"
)

type productPayload struct {
	Code        string `json:"code" validate:"required,min=1,max=64"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

func registerProductRoutes() {
	webserver.ApiGET("/catalog/products", listProducts)
	webserver.ApiGET("/catalog/products/:id", getProduct)
	webserver.ApiPOST("/catalog/products", createProduct)
	webserver.ApiPUT("/catalog/products/:id", updateProduct)
	webserver.ApiDELETE("/catalog/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	db := GetDB(c)

	query := db.Model(&domain.Product{})
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
	var rows []domain.Product
	if err := query.Order("code").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid product id", nil)
	}
	var product domain.Product
	if err := GetDB(c).First(&product, id).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
	}
	return ok(c, product)
}

func createProduct(c echo.Context) error {
	var form productPayload
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid product payload", nil)
	}
	if err := c.Validate(&form); err != nil {
		return handleValidationError(c, err)
	}

	db := GetDB(c)
	var count int64
	db.Model(&domain.Product{}).Where("code = ?", form.Code).Count(&count)
	if count > 0 {
		return fail(c, http.StatusConflict, "CONFLICT", "product code "+form.Code+" already exists", nil)
	}

	product := domain.Product{Code: form.Code, Description: form.Description}
	if err := db.Create(&product).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
	return c.JSON(http.StatusCreated, product)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid product id", nil)
	}
	var form productPayload
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid product payload", nil)
	}
	if err := c.Validate(&form); err != nil {
		return handleValidationError(c, err)
	}

	db := GetDB(c)
	var product domain.Product
	if err := db.First(&product, id).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
	}
	var count int64
	db.Model(&domain.Product{}).Where("code = ? AND id <> ?", form.Code, id).Count(&count)
	if count > 0 {
		return fail(c, http.StatusConflict, "CONFLICT", "product code "+form.Code+" already exists", nil)
	}

	product.Code = form.Code
	product.Description = form.Description
	if err := db.Save(&product).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
	return ok(c, product)
}

// deleteProduct refuses to remove a product that production orders still
// reference.
func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid product id", nil)
	}

	db := GetDB(c)
	var product domain.Product
	if err := db.First(&product, id).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
	}
	var refs int64
	db.Model(&domain.ProductionOrder{}).Where("product_code = ?", product.Code).Count(&refs)
	if refs > 0 {
		return fail(c, http.StatusConflict, "CONFLICT",
			"product is referenced by existing production orders", nil)
	}

	if err := db.Delete(&domain.Product{}, id).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
	return ok(c, echo.Map{"deleted": id})
}
