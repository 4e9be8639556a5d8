package handlers

import (
	"net/http"

	"github.com/andresuchdata/storeops/backend-go/internal/repository"
	"github.com/andresuchdata/storeops/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type StoreHandler struct {
	service *service.StoreService
}

func NewStoreHandler(service *service.StoreService) *StoreHandler {
	return &StoreHandler{service: service}
}

// GetStores returns all stores that hold inventory
func (h *StoreHandler) GetStores(c *gin.Context) {
	stores, err := h.service.GetStores(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stores"})
		return
	}

	c.JSON(http.StatusOK, stores)
}

// GetProductForecast returns one product's forecast series at a store
func (h *StoreHandler) GetProductForecast(c *gin.Context) {
	storeID := repository.NormalizeID(c.Param("store"))
	productID := repository.NormalizeID(c.Param("product"))
	if storeID == "" || productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "store and product are required"})
		return
	}

	result, err := h.service.GetProductForecast(c.Request.Context(), storeID, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch forecast", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
