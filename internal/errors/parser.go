package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/udonggeum-storefront/internal/app/service"
	"github.com/ikkim/udonggeum-storefront/pkg/commerce"
)

// ErrorInfo is the public face of an internal error.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// ParseError maps a service or client error to a status, code and message that
// are safe to show. Unknown errors become a generic 500 mentioning context.
func ParseError(err error, context string) ErrorInfo {
	switch {
	case err == nil:
		return ErrorInfo{http.StatusInternalServerError, InternalServerError, "Unknown error while trying to " + context}
	case errors.Is(err, service.ErrInvalidCartLine):
		return ErrorInfo{http.StatusBadRequest, CartInvalidLine, "A cart line needs a product id and a quantity of at least 1"}
	case errors.Is(err, service.ErrInvalidProduct), errors.Is(err, commerce.ErrInvalidProductID):
		return ErrorInfo{http.StatusBadRequest, ValidationInvalidID, "Invalid product id"}
	case errors.Is(err, service.ErrProductNotFound), errors.Is(err, commerce.ErrProductNotFound):
		return ErrorInfo{http.StatusNotFound, ProductNotFound, "Product not found"}
	case errors.Is(err, commerce.ErrNetworkError),
		errors.Is(err, commerce.ErrUnauthorized),
		errors.Is(err, commerce.ErrUnexpectedResponse):
		return ErrorInfo{http.StatusBadGateway, InternalExternalAPI, "The product catalog is unavailable, please try again later"}
	default:
		return ErrorInfo{http.StatusInternalServerError, InternalServerError, "Failed to " + context + ", please try again later"}
	}
}

// ParseAndRespond parses err and writes the matching error response.
func ParseAndRespond(c *gin.Context, err error, context string) {
	info := ParseError(err, context)
	RespondWithError(c, info.Status, info.Code, info.Message)
}
