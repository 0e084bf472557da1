package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/udonggeum-storefront/internal/app/service"
	apperrors "github.com/ikkim/udonggeum-storefront/internal/errors"
	"github.com/ikkim/udonggeum-storefront/internal/middleware"
)

const maxHydrateIDs = 50

type ProductController struct {
	catalogService service.CatalogService
}

func NewProductController(catalogService service.CatalogService) *ProductController {
	return &ProductController{
		catalogService: catalogService,
	}
}

// GetProducts hydrates a comma separated list of ids, skipping unknown ones
// GET /api/v1/products?ids=a,b,c
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var ids []string
	for _, id := range strings.Split(c.Query("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "ids query parameter is required")
		return
	}
	if len(ids) > maxHydrateIDs {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "too many ids")
		return
	}

	products, err := ctrl.catalogService.Hydrate(c.Request.Context(), ids)
	if err != nil {
		log.Error("Failed to hydrate products", err, map[string]interface{}{
			"count": len(ids),
		})
		apperrors.ParseAndRespond(c, err, "fetch products")
		return
	}

	log.Info("Products hydrated", map[string]interface{}{
		"requested": len(ids),
		"found":     len(products),
	})

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProductByID returns one hydrated product
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	product, err := ctrl.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		log.Warn("Failed to fetch product", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		apperrors.ParseAndRespond(c, err, "fetch the product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}
