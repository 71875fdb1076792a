package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/usecase/shop"
	"marketplace-backend/pkg/utils"
)

type ShopHandler struct {
	service *shop.Service
}

func NewShopHandler(service *shop.Service) *ShopHandler {
	return &ShopHandler{service: service}
}

func (h *ShopHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/shops/:id", h.GetShop)
}

func (h *ShopHandler) RegisterSellerRoutes(router *gin.RouterGroup) {
	shops := router.Group("/shop")
	{
		shops.POST("", h.CreateShop)
		shops.GET("", h.GetMyShop)
		shops.PUT("", h.UpdateShop)
		shops.GET("/followers", h.Followers)
	}
}

func (h *ShopHandler) RegisterBuyerRoutes(router *gin.RouterGroup) {
	router.POST("/shops/:id/follow", h.FollowShop)
	router.DELETE("/shops/:id/follow", h.UnfollowShop)
}

func (h *ShopHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	shops := router.Group("/shops")
	{
		shops.GET("", h.AdminListShops)
		shops.PUT("/:id", h.AdminUpdateShop)
		shops.DELETE("/:id", h.AdminDeleteShop)
	}
}

func (h *ShopHandler) CreateShop(c *gin.Context) {
	sellerID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req shop.CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.CreateShop(c.Request.Context(), sellerID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Shop created successfully", resp)
}

func (h *ShopHandler) GetMyShop(c *gin.Context) {
	sellerID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp, err := h.service.GetMyShop(c.Request.Context(), sellerID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shop retrieved successfully", resp)
}

func (h *ShopHandler) GetShop(c *gin.Context) {
	shopID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid shop ID")
		return
	}

	resp, err := h.service.GetShop(c.Request.Context(), shopID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shop retrieved successfully", resp)
}

func (h *ShopHandler) UpdateShop(c *gin.Context) {
	sellerID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req shop.UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.UpdateShop(c.Request.Context(), sellerID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shop updated successfully", resp)
}

func (h *ShopHandler) AdminListShops(c *gin.Context) {
	var req shop.ListShopsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	resp, err := h.service.AdminListShops(c.Request.Context(), &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shops retrieved successfully", resp)
}

func (h *ShopHandler) AdminUpdateShop(c *gin.Context) {
	shopID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid shop ID")
		return
	}

	var req shop.UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.AdminUpdateShop(c.Request.Context(), shopID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shop updated successfully", resp)
}

func (h *ShopHandler) AdminDeleteShop(c *gin.Context) {
	shopID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid shop ID")
		return
	}

	if err := h.service.AdminDeleteShop(c.Request.Context(), shopID); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shop deleted successfully", nil)
}

func (h *ShopHandler) FollowShop(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	shopID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid shop ID")
		return
	}

	resp, err := h.service.FollowShop(c.Request.Context(), userID, shopID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Shop followed", resp)
}

func (h *ShopHandler) UnfollowShop(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	shopID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid shop ID")
		return
	}

	resp, err := h.service.UnfollowShop(c.Request.Context(), userID, shopID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shop unfollowed", resp)
}

func (h *ShopHandler) Followers(c *gin.Context) {
	sellerID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp, err := h.service.Followers(c.Request.Context(), sellerID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Followers retrieved successfully", resp)
}
