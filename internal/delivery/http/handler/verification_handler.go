package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainShop "marketplace-backend/internal/domain/shop"
	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/usecase/verification"
	"marketplace-backend/pkg/utils"
)

type VerificationHandler struct {
	service *verification.Service
}

func NewVerificationHandler(service *verification.Service) *VerificationHandler {
	return &VerificationHandler{service: service}
}

func (h *VerificationHandler) RegisterSellerRoutes(router *gin.RouterGroup) {
	v := router.Group("/shop/verification")
	{
		v.POST("/otp", h.RequestOTP)
		v.POST("/otp/verify", h.VerifyOTP)
		v.POST("/request", h.RequestVerification)
		v.GET("/status", h.Status)
	}
}

func (h *VerificationHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	v := router.Group("/shops")
	{
		v.GET("/pending-review", h.PendingReview)
		v.POST("/:id/verify", h.Verify)
		v.POST("/:id/reject", h.Reject)
		v.POST("/:id/suspend", h.Suspend)
		v.POST("/:id/under-review", h.UnderReview)
		v.PUT("/:id/notes", h.UpdateNotes)
		v.POST("/bulk-verify", h.BulkVerify)
	}
}

func (h *VerificationHandler) RequestOTP(c *gin.Context) {
	sellerID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req verification.RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.RequestOTP(c.Request.Context(), sellerID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "OTP issued", resp)
}

func (h *VerificationHandler) VerifyOTP(c *gin.Context) {
	sellerID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req verification.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.VerifyOTP(c.Request.Context(), sellerID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Contact verified", resp)
}

func (h *VerificationHandler) RequestVerification(c *gin.Context) {
	sellerID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp, err := h.service.RequestVerification(c.Request.Context(), sellerID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Verification requested", resp)
}

func (h *VerificationHandler) Status(c *gin.Context) {
	sellerID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp, err := h.service.Status(c.Request.Context(), sellerID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Verification status retrieved", resp)
}

func (h *VerificationHandler) PendingReview(c *gin.Context) {
	status := domainShop.VerificationStatus(c.DefaultQuery("status", string(domainShop.StatusPending)))

	resp, err := h.service.PendingReview(c.Request.Context(), status)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shops retrieved successfully", resp)
}

func (h *VerificationHandler) Verify(c *gin.Context) {
	adminID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	shopID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid shop ID")
		return
	}

	resp, err := h.service.AdminVerify(c.Request.Context(), adminID, shopID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shop verified", resp)
}

func (h *VerificationHandler) Reject(c *gin.Context) {
	adminID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	shopID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid shop ID")
		return
	}

	var req verification.RejectShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.AdminReject(c.Request.Context(), adminID, shopID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shop rejected", resp)
}

func (h *VerificationHandler) Suspend(c *gin.Context) {
	adminID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	shopID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid shop ID")
		return
	}

	resp, err := h.service.AdminSuspend(c.Request.Context(), adminID, shopID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shop suspended", resp)
}

func (h *VerificationHandler) UnderReview(c *gin.Context) {
	adminID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	shopID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid shop ID")
		return
	}

	resp, err := h.service.AdminUnderReview(c.Request.Context(), adminID, shopID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Shop moved to review", resp)
}

func (h *VerificationHandler) UpdateNotes(c *gin.Context) {
	adminID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	shopID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid shop ID")
		return
	}

	var req verification.UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.UpdateNotes(c.Request.Context(), adminID, shopID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Notes updated", resp)
}

func (h *VerificationHandler) BulkVerify(c *gin.Context) {
	adminID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req verification.BulkVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.BulkVerify(c.Request.Context(), adminID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Bulk verification completed", resp)
}
