package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/udonggeum-storefront/internal/app/model"
	"github.com/ikkim/udonggeum-storefront/internal/app/service"
	apperrors "github.com/ikkim/udonggeum-storefront/internal/errors"
	"github.com/ikkim/udonggeum-storefront/internal/events"
	"github.com/ikkim/udonggeum-storefront/internal/middleware"
)

type CartController struct {
	cartService    service.CartService
	catalogService service.CatalogService
	events         *events.Channel
}

func NewCartController(
	cartService service.CartService,
	catalogService service.CatalogService,
	channel *events.Channel,
) *CartController {
	return &CartController{
		cartService:    cartService,
		catalogService: catalogService,
		events:         channel,
	}
}

// AddToCartRequest adds quantity (default 1) of a product. When product is
// omitted the record is fetched from the commerce backend by id.
type AddToCartRequest struct {
	ID       string                 `json:"id" binding:"required"`
	Quantity *int                   `json:"quantity" binding:"omitempty,gt=0"`
	Product  *model.ProductSnapshot `json:"product"`
}

type UpdateCartRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

type OpenCartRequest struct {
	Source string `json:"source"`
}

// CartChangedEvent is the payload published on cartChanged.
type CartChangedEvent struct {
	TotalCount int `json:"total_count"`
	LineCount  int `json:"line_count"`
}

// GetCart returns the cart lines with resolved images
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	ctrl.respondWithCart(c, http.StatusOK)
}

// AddToCart merges a product into the cart
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithValidationError(c, map[string]string{"request": err.Error()})
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	var product model.ProductSnapshot
	if req.Product != nil {
		product = *req.Product
	} else {
		hydrated, err := ctrl.catalogService.GetProduct(c.Request.Context(), req.ID)
		if err != nil {
			log.Warn("Failed to hydrate product for cart", map[string]interface{}{
				"product_id": req.ID,
				"error":      err.Error(),
			})
			apperrors.ParseAndRespond(c, err, "load the product")
			return
		}
		product = hydrated.Product
	}

	if err := ctrl.cartService.Add(req.ID, product, quantity); err != nil {
		apperrors.ParseAndRespond(c, err, "add to cart")
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"product_id": req.ID,
		"quantity":   quantity,
	})
	ctrl.publishChanged()
	ctrl.respondWithCart(c, http.StatusCreated)
}

// UpdateCartItem applies a quantity delta; reaching zero removes the line
// PATCH /api/v1/cart/:id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		apperrors.RespondWithValidationError(c, map[string]string{"delta": err.Error()})
		return
	}

	if ctrl.cartService.UpdateQuantity(id, *req.Delta) {
		log.Info("Cart item updated", map[string]interface{}{
			"product_id": id,
			"delta":      *req.Delta,
		})
		ctrl.publishChanged()
	}
	ctrl.respondWithCart(c, http.StatusOK)
}

// RemoveFromCart deletes a line; unknown ids are ignored
// DELETE /api/v1/cart/:id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	if ctrl.cartService.Remove(id) {
		log.Info("Cart item removed", map[string]interface{}{
			"product_id": id,
		})
		ctrl.publishChanged()
	}
	ctrl.respondWithCart(c, http.StatusOK)
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	ctrl.cartService.Clear()
	ctrl.publishChanged()
	ctrl.respondWithCart(c, http.StatusOK)
}

// GetCount returns the total quantity across lines
// GET /api/v1/cart/count
func (ctrl *CartController) GetCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"total_count": ctrl.cartService.TotalCount(),
	})
}

// OpenCart asks every cart panel to open
// POST /api/v1/cart/open
func (ctrl *CartController) OpenCart(c *gin.Context) {
	var req OpenCartRequest
	// The body is optional
	_ = c.ShouldBindJSON(&req)

	ctrl.events.Publish(events.TopicCartOpen, req)
	c.JSON(http.StatusAccepted, gin.H{
		"topic": events.TopicCartOpen,
	})
}

func (ctrl *CartController) publishChanged() {
	lines := ctrl.cartService.Lines()
	ctrl.events.Publish(events.TopicCartChanged, changedEvent(lines))
}

// changedEvent derives both counts from one copy of the lines.
func changedEvent(lines model.CartLines) CartChangedEvent {
	return CartChangedEvent{
		TotalCount: lines.TotalCount(),
		LineCount:  len(lines),
	}
}

func (ctrl *CartController) respondWithCart(c *gin.Context, status int) {
	lines := ctrl.cartService.Lines()
	c.JSON(status, gin.H{
		"lines":       ctrl.catalogService.DecorateLines(lines),
		"line_count":  len(lines),
		"total_count": lines.TotalCount(),
		"total_price": lines.TotalPrice(),
	})
}
