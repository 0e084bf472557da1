package controller

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProductControllerTest() *gin.Engine {
	controller := NewProductController(newTestCatalog())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/products", controller.GetProducts)
	router.GET("/products/:id", controller.GetProductByID)
	return router
}

func TestProductController_GetProductByID(t *testing.T) {
	router := setupProductControllerTest()

	w := doJSON(router, http.MethodGet, "/products/pad", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Product struct {
			ID      string                 `json:"id"`
			Product map[string]interface{} `json:"product"`
			Image   map[string]interface{} `json:"image"`
		} `json:"product"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pad", resp.Product.ID)
	assert.Equal(t, "Brake Pad", resp.Product.Product["name"])
	assert.Equal(t, float64(1), resp.Product.Image["local"])
}

func TestProductController_GetProductByID_NotFound(t *testing.T) {
	router := setupProductControllerTest()

	w := doJSON(router, http.MethodGet, "/products/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"PRODUCT_NOT_FOUND","message":"Product not found"}`, w.Body.String())
}

func TestProductController_GetProducts(t *testing.T) {
	router := setupProductControllerTest()

	w := doJSON(router, http.MethodGet, "/products?ids=pad,ghost,,pad", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)

	w = doJSON(router, http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
