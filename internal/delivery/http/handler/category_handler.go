package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-backend/internal/usecase/category"
	"marketplace-backend/pkg/utils"
)

type CategoryHandler struct {
	service *category.Service
}

func NewCategoryHandler(service *category.Service) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	categories := router.Group("/categories")
	{
		categories.GET("", h.GetTrunks)
		categories.GET("/:id", h.GetCategory)
		categories.GET("/:id/branches", h.GetBranches)
		categories.GET("/:id/leaves", h.GetLeaves)
		categories.GET("/:id/leaf-descendants", h.GetLeafDescendants)
		categories.GET("/:id/products", h.GetAllProducts)
	}
}

func (h *CategoryHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	categories := router.Group("/categories")
	{
		categories.POST("", h.CreateCategory)
		categories.PUT("/:id", h.UpdateCategory)
		categories.DELETE("/:id", h.DeleteCategory)
		categories.POST("/bulk", h.BulkUpdate)
	}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req category.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Category created successfully", resp)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid category ID")
		return
	}

	resp, err := h.service.GetCategory(c.Request.Context(), categoryID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Category retrieved successfully", resp)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var req category.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.UpdateCategory(c.Request.Context(), categoryID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Category updated successfully", resp)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid category ID")
		return
	}

	resp, err := h.service.DeleteCategory(c.Request.Context(), categoryID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	message := "Category deleted successfully"
	if resp.Deactivated {
		message = "Category deactivated (products still attached)"
	}
	utils.SuccessResponse(c, http.StatusOK, message, resp)
}

func (h *CategoryHandler) GetTrunks(c *gin.Context) {
	resp, err := h.service.GetTrunks(c.Request.Context())
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Categories retrieved successfully", resp)
}

func (h *CategoryHandler) GetBranches(c *gin.Context) {
	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid category ID")
		return
	}

	resp, err := h.service.GetBranches(c.Request.Context(), categoryID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Branches retrieved successfully", resp)
}

func (h *CategoryHandler) GetLeaves(c *gin.Context) {
	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid category ID")
		return
	}

	resp, err := h.service.GetLeaves(c.Request.Context(), categoryID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Leaves retrieved successfully", resp)
}

func (h *CategoryHandler) GetLeafDescendants(c *gin.Context) {
	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid category ID")
		return
	}

	resp, err := h.service.GetLeafDescendants(c.Request.Context(), categoryID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Leaf categories retrieved successfully", resp)
}

func (h *CategoryHandler) GetAllProducts(c *gin.Context) {
	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid category ID")
		return
	}

	resp, err := h.service.GetAllProducts(c.Request.Context(), categoryID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Products retrieved successfully", resp)
}

func (h *CategoryHandler) BulkUpdate(c *gin.Context) {
	var req category.BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.BulkUpdate(c.Request.Context(), &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Bulk operation completed", resp)
}
