package inventory

import (
	"context"
	"time"

	"go.uber.org/zap"

	domainProduct "marketplace-backend/internal/domain/product"
	domainShop "marketplace-backend/internal/domain/shop"
	domainUser "marketplace-backend/internal/domain/user"
	"marketplace-backend/internal/logger"
	"marketplace-backend/internal/metrics"
	appErrors "marketplace-backend/pkg/errors"
	"marketplace-backend/pkg/utils"
)

const defaultHistoryLimit = 50

// Service implements the inventory ledger: every stock mutation goes
// through here so the audit trail stays complete.
type Service struct {
	productRepo domainProduct.Repository
	shopRepo    domainShop.Repository
	userRepo    domainUser.Repository
}

func NewService(
	productRepo domainProduct.Repository,
	shopRepo domainShop.Repository,
	userRepo domainUser.Repository,
) *Service {
	return &Service{
		productRepo: productRepo,
		shopRepo:    shopRepo,
		userRepo:    userRepo,
	}
}

// UpdateStock applies a single absolute-or-delta stock mutation to one of
// the seller's products, writing the audit row in the same transaction.
func (s *Service) UpdateStock(ctx context.Context, sellerID, productID uint, req *UpdateStockRequest) (*StockUpdateResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	shop, err := s.sellerShop(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	update, product, err := s.prepareUpdate(ctx, shop.ID, sellerID, productID, req.Stock, req.StockChange, req.Reason)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.ApplyStockUpdates(ctx, []*domainProduct.StockUpdate{update}); err != nil {
		return nil, err
	}
	metrics.RecordStockUpdate(update.StockChange)

	logger.Info("Stock updated",
		zap.Uint("product_id", productID),
		zap.Int("old_stock", update.OldStock),
		zap.Int("new_stock", update.NewStock),
		zap.Int("change", update.StockChange),
		zap.String("event", "stock_updated"),
	)

	resp := toStockUpdateResponse(update, product.Name)
	return &resp, nil
}

// BulkUpdateStock validates every item first, then commits the valid ones
// in a single transaction. Invalid items are reported per item and never
// block the rest of the batch.
func (s *Service) BulkUpdateStock(ctx context.Context, sellerID uint, req *BulkUpdateStockRequest) (*BulkUpdateStockResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	shop, err := s.sellerShop(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	response := &BulkUpdateStockResponse{
		Results: []StockUpdateResponse{},
		Errors:  []BulkStockError{},
	}

	var prepared []*domainProduct.StockUpdate
	var names []string
	for _, item := range req.Updates {
		update, product, err := s.prepareUpdate(ctx, shop.ID, sellerID, item.ProductID, item.Stock, item.StockChange, item.Reason)
		if err != nil {
			response.Failed++
			response.Errors = append(response.Errors, BulkStockError{ProductID: item.ProductID, Error: err.Error()})
			continue
		}
		prepared = append(prepared, update)
		names = append(names, product.Name)
	}

	if len(prepared) > 0 {
		if err := s.productRepo.ApplyStockUpdates(ctx, prepared); err != nil {
			return nil, err
		}
		for i, update := range prepared {
			metrics.RecordStockUpdate(update.StockChange)
			response.Processed++
			response.Results = append(response.Results, toStockUpdateResponse(update, names[i]))
		}
	}

	logger.Info("Bulk stock update completed",
		zap.Uint("shop_id", shop.ID),
		zap.Int("processed", response.Processed),
		zap.Int("failed", response.Failed),
		zap.String("event", "bulk_stock_completed"),
	)

	return response, nil
}

// StockHistory returns the audit trail for one of the seller's products,
// most recent first.
func (s *Service) StockHistory(ctx context.Context, sellerID, productID uint, limit int) (*StockHistoryResponse, error) {
	shop, err := s.sellerShop(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByIDForShop(ctx, productID, shop.ID)
	if err != nil {
		return nil, appErrors.NotFound("Product not found in your shop")
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	updates, err := s.productRepo.ListStockUpdates(ctx, productID, limit)
	if err != nil {
		return nil, err
	}

	history := &StockHistoryResponse{
		ProductID: productID,
		Updates:   make([]StockUpdateResponse, len(updates)),
	}
	for i, u := range updates {
		history.Updates[i] = toStockUpdateResponse(u, product.Name)
	}
	return history, nil
}

// LowStock lists the seller's active products at or below the threshold.
func (s *Service) LowStock(ctx context.Context, sellerID uint, threshold int) (*LowStockResponse, error) {
	shop, err := s.sellerShop(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	if threshold <= 0 {
		threshold = domainProduct.DefaultLowStockThreshold
	}

	low := true
	products, _, err := s.productRepo.List(ctx, &domainProduct.Filter{
		ShopID:            &shop.ID,
		LowStock:          &low,
		LowStockThreshold: threshold,
		ActiveOnly:        true,
	})
	if err != nil {
		return nil, err
	}

	response := &LowStockResponse{
		Threshold: threshold,
		Products:  make([]LowStockProduct, len(products)),
	}
	for i, p := range products {
		response.Products[i] = LowStockProduct{ProductID: p.ID, Name: p.Name, Stock: p.Stock}
	}
	return response, nil
}

// prepareUpdate resolves the product under the shop's ownership, computes
// the normalized (newStock, change) pair and builds the audit row. No
// state is written here.
func (s *Service) prepareUpdate(ctx context.Context, shopID, sellerID, productID uint, absolute, delta *int, reason *string) (*domainProduct.StockUpdate, *domainProduct.Product, error) {
	product, err := s.productRepo.GetByIDForShop(ctx, productID, shopID)
	if err != nil {
		return nil, nil, appErrors.NotFound("Product not found in your shop")
	}

	newStock, change, ok := domainProduct.ComputeStockChange(product.Stock, domainProduct.StockRequest{
		Absolute: absolute,
		Delta:    delta,
	})
	if !ok {
		return nil, nil, appErrors.Validation("Provide exactly one of stock or stock_change")
	}

	auditReason := domainProduct.InferReason(change)
	if reason != nil && *reason != "" {
		auditReason = utils.SanitizeText(*reason)
	}

	update := &domainProduct.StockUpdate{
		ProductID:   product.ID,
		OldStock:    product.Stock,
		NewStock:    newStock,
		StockChange: change,
		UpdatedBy:   sellerID,
		Reason:      &auditReason,
		UpdatedAt:   time.Now(),
	}
	return update, product, nil
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
