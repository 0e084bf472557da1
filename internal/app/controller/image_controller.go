package controller

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/udonggeum-storefront/internal/app/model"
	"github.com/ikkim/udonggeum-storefront/internal/app/service"
	"github.com/ikkim/udonggeum-storefront/internal/asset"
	apperrors "github.com/ikkim/udonggeum-storefront/internal/errors"
	"github.com/ikkim/udonggeum-storefront/internal/middleware"
)

type ImageController struct {
	catalogService service.CatalogService
}

func NewImageController(catalogService service.CatalogService) *ImageController {
	return &ImageController{catalogService: catalogService}
}

// ProductRefRequest is any subset of the product fields the resolver can use.
type ProductRefRequest struct {
	ImageURL      string              `json:"image_url"`
	ImageFilename string              `json:"image_filename"`
	Category      string              `json:"category"`
	SKU           string              `json:"sku"`
	Name          string              `json:"name"`
	Title         string              `json:"title"`
	Gallery       []model.AssetHandle `json:"gallery"`
}

// ResolveImageRequest carries a hint that is a string, a number (local asset
// handle) or absent.
type ResolveImageRequest struct {
	Hint    json.RawMessage    `json:"hint"`
	Product *ProductRefRequest `json:"product"`
}

// ResolveImage runs the asset fallback chain
// POST /api/v1/images/resolve
func (ctrl *ImageController) ResolveImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ResolveImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid resolve image request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithValidationError(c, map[string]string{"request": err.Error()})
		return
	}

	hint, ok := parseHint(req.Hint)
	if !ok {
		apperrors.RespondWithValidationError(c, map[string]string{
			"hint": "must be a string, an integer or null",
		})
		return
	}

	var ref *model.ProductRef
	if req.Product != nil {
		ref = &model.ProductRef{
			ImageURL:      req.Product.ImageURL,
			ImageFilename: req.Product.ImageFilename,
			Category:      req.Product.Category,
			SKU:           req.Product.SKU,
			Name:          req.Product.Name,
			Title:         req.Product.Title,
			Gallery:       req.Product.Gallery,
		}
	}

	image := ctrl.catalogService.ResolveImage(hint, ref)
	log.Debug("Image resolved", map[string]interface{}{
		"image": image.String(),
	})

	c.JSON(http.StatusOK, gin.H{
		"image": image,
	})
}

func parseHint(raw json.RawMessage) (asset.Hint, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return asset.NoHint, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return asset.TextHint(s), true
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return asset.HandleHint(model.AssetHandle(n)), true
	}
	return asset.NoHint, false
}
