package product

import (
	"context"
	"time"

	"go.uber.org/zap"

	domainCategory "marketplace-backend/internal/domain/category"
	domainProduct "marketplace-backend/internal/domain/product"
	domainShop "marketplace-backend/internal/domain/shop"
	domainUser "marketplace-backend/internal/domain/user"
	"marketplace-backend/internal/logger"
	appErrors "marketplace-backend/pkg/errors"
	"marketplace-backend/pkg/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service implements product listing management for sellers and the
// public browse surface for buyers.
type Service struct {
	productRepo  domainProduct.Repository
	categoryRepo domainCategory.Repository
	shopRepo     domainShop.Repository
	userRepo     domainUser.Repository
	historyRepo  domainUser.BrowsingHistoryRepository
}

func NewService(
	productRepo domainProduct.Repository,
	categoryRepo domainCategory.Repository,
	shopRepo domainShop.Repository,
	userRepo domainUser.Repository,
	historyRepo domainUser.BrowsingHistoryRepository,
) *Service {
	return &Service{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		shopRepo:     shopRepo,
		userRepo:     userRepo,
		historyRepo:  historyRepo,
	}
}

// CreateProduct lists a new product in the seller's shop. The category
// must be an active leaf; listings never attach to trunks or branches.
func (s *Service) CreateProduct(ctx context.Context, sellerID uint, req *CreateProductRequest) (*ProductResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	shop, err := s.sellerShop(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	if err := s.checkLeafCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &domainProduct.Product{
		Name:        utils.SanitizeString(req.Name),
		Type:        utils.SanitizeString(req.Type),
		Description: sanitizeOptional(req.Description),
		Tags:        sanitizeOptional(req.Tags),
		Price:       req.Price,
		Stock:       req.Stock,
		Images:      req.Images,
		IsActive:    true,
		ShopID:      shop.ID,
		CategoryID:  req.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	logger.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.Uint("shop_id", shop.ID),
		zap.Uint("category_id", req.CategoryID),
		zap.String("event", "product_created"),
	)

	return ToProductResponse(product), nil
}

// UpdateProduct edits one of the seller's listings. Stock is excluded;
// stock mutations go through the inventory ledger only.
func (s *Service) UpdateProduct(ctx context.Context, sellerID, productID uint, req *UpdateProductRequest) (*ProductResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	shop, err := s.sellerShop(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByIDForShop(ctx, productID, shop.ID)
	if err != nil {
		return nil, appErrors.NotFound("Product not found in your shop")
	}

	if err := s.applyProductUpdate(ctx, product, req); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return ToProductResponse(product), nil
}

// applyProductUpdate writes the requested fields onto the product. A
// category change is rechecked against the active-leaf rule.
func (s *Service) applyProductUpdate(ctx context.Context, product *domainProduct.Product, req *UpdateProductRequest) error {
	if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
		if err := s.checkLeafCategory(ctx, *req.CategoryID); err != nil {
			return err
		}
		product.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		product.Name = utils.SanitizeString(*req.Name)
	}
	if req.Type != nil {
		product.Type = utils.SanitizeString(*req.Type)
	}
	if req.Description != nil {
		product.Description = sanitizeOptional(req.Description)
	}
	if req.Tags != nil {
		product.Tags = sanitizeOptional(req.Tags)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return appErrors.Validation(domainProduct.ErrNegativePrice.Error())
		}
		product.Price = *req.Price
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	product.UpdatedAt = time.Now()
	return nil
}

// DeleteProduct removes one of the seller's listings.
func (s *Service) DeleteProduct(ctx context.Context, sellerID, productID uint) error {
	shop, err := s.sellerShop(ctx, sellerID)
	if err != nil {
		return err
	}

	if _, err := s.productRepo.GetByIDForShop(ctx, productID, shop.ID); err != nil {
		return appErrors.NotFound("Product not found in your shop")
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}

	logger.Info("Product deleted",
		zap.Uint("product_id", productID),
		zap.Uint("shop_id", shop.ID),
		zap.String("event", "product_deleted"),
	)
	return nil
}

// GetProduct returns one product. When a buyer is identified, the view is
// recorded as a browsing event; tracking failures never fail the read.
func (s *Service) GetProduct(ctx context.Context, viewerID *uint, productID uint) (*ProductResponse, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, appErrors.NotFound("Product not found")
	}

	if viewerID != nil {
		event := &domainUser.BrowsingEvent{
			UserID:          *viewerID,
			ProductID:       &product.ID,
			CategoryID:      &product.CategoryID,
			ShopID:          &product.ShopID,
			InteractionType: "view",
			ViewedAt:        time.Now(),
		}
		if err := s.historyRepo.Track(ctx, event); err != nil {
			logger.Warn("Failed to track browsing event",
				zap.Uint("user_id", *viewerID),
				zap.Uint("product_id", product.ID),
				zap.Error(err),
			)
		}
	}

	return ToProductResponse(product), nil
}

// ListProducts is the public browse surface: active products filtered by
// category, shop, text search and stock state, paginated.
func (s *Service) ListProducts(ctx context.Context, req *ListProductsRequest) (*ProductListResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := &domainProduct.Filter{
		ShopID:     req.ShopID,
		Search:     utils.SanitizeString(req.Search),
		InStock:    req.InStock,
		ActiveOnly: true,
		Page:       page,
		PageSize:   pageSize,
	}
	if req.CategoryID != nil {
		filter.CategoryIDs = []uint{*req.CategoryID}
	}

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	response := &ProductListResponse{
		Products: make([]*ProductResponse, len(products)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i, p := range products {
		response.Products[i] = ToProductResponse(p)
	}
	return response, nil
}

// MyProducts lists the seller's own listings, inactive ones included.
func (s *Service) MyProducts(ctx context.Context, sellerID uint, page, pageSize int) (*ProductListResponse, error) {
	shop, err := s.sellerShop(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	products, total, err := s.productRepo.List(ctx, &domainProduct.Filter{
		ShopID:   &shop.ID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, err
	}

	response := &ProductListResponse{
		Products: make([]*ProductResponse, len(products)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i, p := range products {
		response.Products[i] = ToProductResponse(p)
	}
	return response, nil
}

// AdminListProducts is the moderation view over all listings, inactive
// ones included, any shop.
func (s *Service) AdminListProducts(ctx context.Context, req *AdminListProductsRequest) (*ProductListResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := &domainProduct.Filter{
		ShopID:   req.ShopID,
		Search:   utils.SanitizeString(req.Search),
		Page:     page,
		PageSize: pageSize,
	}
	if req.CategoryID != nil {
		filter.CategoryIDs = []uint{*req.CategoryID}
	}

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	response := &ProductListResponse{
		Products: make([]*ProductResponse, len(products)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i, p := range products {
		response.Products[i] = ToProductResponse(p)
	}
	return response, nil
}

// AdminUpdateProduct edits any listing by ID, bypassing the ownership
// guard. The same field rules apply as for the owner.
func (s *Service) AdminUpdateProduct(ctx context.Context, productID uint, req *UpdateProductRequest) (*ProductResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, appErrors.NotFound("Product not found")
	}

	if err := s.applyProductUpdate(ctx, product, req); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	logger.Info("Product updated by admin",
		zap.Uint("product_id", product.ID),
		zap.String("event", "product_admin_updated"),
	)

	return ToProductResponse(product), nil
}

// AdminDeleteProduct removes any listing by ID.
func (s *Service) AdminDeleteProduct(ctx context.Context, productID uint) error {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return appErrors.NotFound("Product not found")
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}

	logger.Info("Product deleted by admin",
		zap.Uint("product_id", productID),
		zap.String("event", "product_admin_deleted"),
	)
	return nil
}

func (s *Service) checkLeafCategory(ctx context.Context, categoryID uint) error {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return appErrors.NotFound("Category not found")
	}
	if !category.IsLeaf() {
		return appErrors.Validation(domainCategory.ErrNotLeaf.Error())
	}
	if !category.IsActive {
		return appErrors.Validation("Category is not active")
	}
	return nil
}

func (s *Service) sellerShop(ctx context.Context, sellerID uint) (*domainShop.Shop, error) {
	seller, err := s.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		return nil, appErrors.NotFound("Seller not found")
	}
	if seller.Role != domainUser.RoleSeller {
		return nil, appErrors.Forbidden("Caller is not a seller")
	}

	shop, err := s.shopRepo.GetByOwnerID(ctx, sellerID)
	if err != nil {
		return nil, appErrors.NotFound("Shop not found for this seller")
	}
	return shop, nil
}

func sanitizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	clean := utils.SanitizeText(*value)
	if clean == "" {
		return nil
	}
	return &clean
}
