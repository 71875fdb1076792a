package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainSubscription "marketplace-backend/internal/domain/subscription"
	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/usecase/subscription"
	"marketplace-backend/pkg/utils"
)

type SubscriptionHandler struct {
	service *subscription.Service
}

func NewSubscriptionHandler(service *subscription.Service) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

func (h *SubscriptionHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	subs := router.Group("/subscriptions")
	{
		subs.POST("/toggle", h.Toggle)
		subs.GET("/:type/:target_id", h.Status)
		subs.GET("/:type/:target_id/history", h.History)
	}
}

func (h *SubscriptionHandler) Toggle(c *gin.Context) {
	adminID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req subscription.ToggleSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.Toggle(c.Request.Context(), adminID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	message := "Subscription deactivated"
	if resp.Activated {
		message = "Subscription activated"
	}
	utils.SuccessResponse(c, http.StatusOK, message, resp)
}

func (h *SubscriptionHandler) Status(c *gin.Context) {
	subType := domainSubscription.Type(c.Param("type"))
	targetID, err := parseUintParam(c, "target_id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid target ID")
		return
	}

	resp, err := h.service.Status(c.Request.Context(), subType, targetID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription status retrieved", resp)
}

func (h *SubscriptionHandler) History(c *gin.Context) {
	subType := domainSubscription.Type(c.Param("type"))
	targetID, err := parseUintParam(c, "target_id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid target ID")
		return
	}

	resp, err := h.service.History(c.Request.Context(), subType, targetID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription history retrieved", resp)
}
