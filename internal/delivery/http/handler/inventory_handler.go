package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/usecase/inventory"
	"marketplace-backend/pkg/utils"
)

type InventoryHandler struct {
	service *inventory.Service
}

func NewInventoryHandler(service *inventory.Service) *InventoryHandler {
	return &InventoryHandler{service: service}
}

func (h *InventoryHandler) RegisterSellerRoutes(router *gin.RouterGroup) {
	inv := router.Group("/inventory")
	{
		inv.PUT("/products/:id/stock", h.UpdateStock)
		inv.POST("/stock/bulk", h.BulkUpdateStock)
		inv.GET("/products/:id/history", h.StockHistory)
		inv.GET("/low-stock", h.LowStock)
	}
}

func (h *InventoryHandler) UpdateStock(c *gin.Context) {
	sellerID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	productID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req inventory.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.UpdateStock(c.Request.Context(), sellerID, productID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Stock updated successfully", resp)
}

func (h *InventoryHandler) BulkUpdateStock(c *gin.Context) {
	sellerID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req inventory.BulkUpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.BulkUpdateStock(c.Request.Context(), sellerID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Bulk stock update completed", resp)
}

func (h *InventoryHandler) StockHistory(c *gin.Context) {
	sellerID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	productID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	resp, err := h.service.StockHistory(c.Request.Context(), sellerID, productID, limit)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Stock history retrieved successfully", resp)
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	sellerID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	threshold, _ := strconv.Atoi(c.DefaultQuery("threshold", "0"))

	resp, err := h.service.LowStock(c.Request.Context(), sellerID, threshold)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Low stock products retrieved", resp)
}
