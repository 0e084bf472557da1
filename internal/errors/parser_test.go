package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ikkim/udonggeum-storefront/internal/app/service"
	"github.com/ikkim/udonggeum-storefront/pkg/commerce"
	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{service.ErrInvalidCartLine, http.StatusBadRequest, CartInvalidLine},
		{service.ErrProductNotFound, http.StatusNotFound, ProductNotFound},
		{fmt.Errorf("failed to fetch product: %w", commerce.ErrNetworkError), http.StatusBadGateway, InternalExternalAPI},
		{fmt.Errorf("boom"), http.StatusInternalServerError, InternalServerError},
		{nil, http.StatusInternalServerError, InternalServerError},
	}
	for _, tc := range cases {
		info := ParseError(tc.err, "load product")
		assert.Equal(t, tc.status, info.Status, "%v", tc.err)
		assert.Equal(t, tc.code, info.Code, "%v", tc.err)
		assert.NotEmpty(t, info.Message)
	}
}
