package category

import (
	"context"
	"time"

	"go.uber.org/zap"

	domainCategory "marketplace-backend/internal/domain/category"
	domainProduct "marketplace-backend/internal/domain/product"
	"marketplace-backend/internal/logger"
	appErrors "marketplace-backend/pkg/errors"
	"marketplace-backend/pkg/utils"
)

// Service implements category tree use cases
type Service struct {
	categoryRepo domainCategory.Repository
	productRepo  domainProduct.Repository
}

func NewService(categoryRepo domainCategory.Repository, productRepo domainProduct.Repository) *Service {
	return &Service{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

func (s *Service) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*CategoryResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	level := domainCategory.Level(req.Level)
	if !level.Valid() {
		return nil, appErrors.Validation("Invalid category level")
	}

	if _, err := validateParent(ctx, s.categoryRepo, level, req.ParentID); err != nil {
		return nil, err
	}

	exists, err := s.categoryRepo.ExistsByName(ctx, req.Name, req.ParentID, level)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, appErrors.Conflict(domainCategory.ErrDuplicateName.Error())
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	category := &domainCategory.Category{
		Name:        req.Name,
		Level:       level,
		ParentID:    req.ParentID,
		Description: req.Description,
		IsActive:    isActive,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	logger.Info("Category created",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name),
		zap.String("level", level.String()),
		zap.String("event", "category_created"),
	)

	return ToCategoryResponse(category), nil
}

func (s *Service) GetCategory(ctx context.Context, categoryID uint) (*CategoryResponse, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, appErrors.NotFound("Category not found")
	}
	return ToCategoryResponse(category), nil
}

func (s *Service) UpdateCategory(ctx context.Context, categoryID uint, req *UpdateCategoryRequest) (*CategoryResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, appErrors.NotFound("Category not found")
	}

	if req.Level != nil {
		newLevel := domainCategory.Level(*req.Level)
		if !newLevel.Valid() {
			return nil, appErrors.Validation("Invalid category level")
		}
		if newLevel != category.Level {
			hasChildren, err := s.categoryRepo.HasChildren(ctx, categoryID)
			if err != nil {
				return nil, err
			}
			if hasChildren {
				return nil, appErrors.Conflict("Cannot change level of category with children")
			}
			category.Level = newLevel
		}
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = req.Description
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.UpdatedAt = time.Now()

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return ToCategoryResponse(category), nil
}

// DeleteCategory removes a category. Categories with children are
// protected; categories still owning products are soft-deactivated
// instead of removed, so listings never lose their taxonomy node.
func (s *Service) DeleteCategory(ctx context.Context, categoryID uint) (*DeleteCategoryResponse, error) {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return nil, appErrors.NotFound("Category not found")
	}

	hasChildren, err := s.categoryRepo.HasChildren(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if hasChildren {
		return nil, appErrors.Conflict("Cannot delete category with subcategories")
	}

	productCount, err := s.categoryRepo.CountProducts(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if productCount > 0 {
		if err := s.categoryRepo.Deactivate(ctx, categoryID); err != nil {
			return nil, err
		}
		logger.Info("Category deactivated instead of deleted",
			zap.Uint("category_id", categoryID),
			zap.Int64("product_count", productCount),
			zap.String("event", "category_deactivated"),
		)
		return &DeleteCategoryResponse{CategoryID: categoryID, Deactivated: true}, nil
	}

	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		return nil, err
	}

	logger.Info("Category deleted",
		zap.Uint("category_id", categoryID),
		zap.String("event", "category_deleted"),
	)

	return &DeleteCategoryResponse{CategoryID: categoryID, Deactivated: false}, nil
}

// GetTrunks returns the active top-level categories.
func (s *Service) GetTrunks(ctx context.Context) ([]*CategoryResponse, error) {
	trunks, err := s.categoryRepo.ListTrunks(ctx, true)
	if err != nil {
		return nil, err
	}
	return toResponses(trunks), nil
}

// GetBranches returns the branches under a trunk.
func (s *Service) GetBranches(ctx context.Context, trunkID uint) ([]*CategoryResponse, error) {
	return s.childrenOf(ctx, trunkID, domainCategory.LevelTrunk)
}

// GetLeaves returns the leaves under a branch.
func (s *Service) GetLeaves(ctx context.Context, branchID uint) ([]*CategoryResponse, error) {
	return s.childrenOf(ctx, branchID, domainCategory.LevelBranch)
}

func (s *Service) childrenOf(ctx context.Context, categoryID uint, expectedLevel domainCategory.Level) ([]*CategoryResponse, error) {
	parent, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, appErrors.NotFound("Category not found")
	}
	if parent.Level != expectedLevel {
		return nil, appErrors.Validation("Category is not a " + expectedLevel.String())
	}

	children, err := s.categoryRepo.ListByParent(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return toResponses(children), nil
}

// GetLeafDescendants collects the leaf nodes under a category. A leaf
// returns itself. The walk is bounded by the fixed three-level depth.
func (s *Service) GetLeafDescendants(ctx context.Context, categoryID uint) ([]*CategoryResponse, error) {
	leaves, err := s.leafDescendants(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return toResponses(leaves), nil
}

func (s *Service) leafDescendants(ctx context.Context, categoryID uint) ([]*domainCategory.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, appErrors.NotFound("Category not found")
	}

	if category.IsLeaf() {
		return []*domainCategory.Category{category}, nil
	}

	var leaves []*domainCategory.Category
	frontier := []*domainCategory.Category{category}
	for len(frontier) > 0 {
		next := frontier[:0:0]
		for _, node := range frontier {
			children, err := s.categoryRepo.ListByParent(ctx, node.ID)
			if err != nil {
				return nil, err
			}
			for _, child := range children {
				if child.IsLeaf() {
					leaves = append(leaves, child)
				} else {
					next = append(next, child)
				}
			}
		}
		frontier = next
	}

	return leaves, nil
}

// GetAllProducts unions the products across a category's leaf
// descendants, or the category's own products when it is already a leaf.
func (s *Service) GetAllProducts(ctx context.Context, categoryID uint) ([]*domainProduct.Product, error) {
	leaves, err := s.leafDescendants(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	leafIDs := make([]uint, len(leaves))
	for i, leaf := range leaves {
		leafIDs[i] = leaf.ID
	}
	if len(leafIDs) == 0 {
		return []*domainProduct.Product{}, nil
	}

	products, _, err := s.productRepo.List(ctx, &domainProduct.Filter{
		CategoryIDs: leafIDs,
		ActiveOnly:  true,
	})
	return products, err
}

// BulkUpdate applies an operation to each category independently. Item
// failures are collected and do not block the rest of the batch.
func (s *Service) BulkUpdate(ctx context.Context, req *BulkUpdateRequest) (*BulkUpdateResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	response := &BulkUpdateResponse{
		Results: []BulkResult{},
		Errors:  []BulkError{},
	}

	for _, categoryID := range req.CategoryIDs {
		result, err := s.applyBulkOperation(ctx, categoryID, req)
		if err != nil {
			response.Failed++
			response.Errors = append(response.Errors, BulkError{CategoryID: categoryID, Error: err.Error()})
			continue
		}
		response.Processed++
		response.Results = append(response.Results, *result)
	}

	logger.Info("Bulk category operation completed",
		zap.String("operation", req.Operation),
		zap.Int("processed", response.Processed),
		zap.Int("failed", response.Failed),
		zap.String("event", "bulk_category_completed"),
	)

	return response, nil
}

func (s *Service) applyBulkOperation(ctx context.Context, categoryID uint, req *BulkUpdateRequest) (*BulkResult, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, appErrors.NotFound("Category not found")
	}

	switch req.Operation {
	case "activate":
		category.IsActive = true
		category.UpdatedAt = time.Now()
		if err := s.categoryRepo.Update(ctx, category); err != nil {
			return nil, err
		}
		return &BulkResult{CategoryID: categoryID, Action: "activated"}, nil

	case "deactivate":
		count, err := s.categoryRepo.CountProducts(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, appErrors.Conflict("Cannot deactivate category with products")
		}
		category.IsActive = false
		category.UpdatedAt = time.Now()
		if err := s.categoryRepo.Update(ctx, category); err != nil {
			return nil, err
		}
		return &BulkResult{CategoryID: categoryID, Action: "deactivated"}, nil

	case "delete":
		hasChildren, err := s.categoryRepo.HasChildren(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		if hasChildren {
			return nil, appErrors.Conflict("Cannot delete category with subcategories")
		}
		count, err := s.categoryRepo.CountProducts(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, appErrors.Conflict("Cannot delete category with products")
		}
		if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
			return nil, err
		}
		return &BulkResult{CategoryID: categoryID, Action: "deleted"}, nil

	case "move":
		if req.NewParentID == nil {
			return nil, appErrors.Validation("new_parent_id required for move operation")
		}
		if category.Level == domainCategory.LevelTrunk {
			return nil, appErrors.Validation(domainCategory.ErrTrunkImmovable.Error())
		}
		if _, err := validateParent(ctx, s.categoryRepo, category.Level, req.NewParentID); err != nil {
			return nil, err
		}
		category.ParentID = req.NewParentID
		category.UpdatedAt = time.Now()
		if err := s.categoryRepo.Update(ctx, category); err != nil {
			return nil, err
		}
		return &BulkResult{CategoryID: categoryID, Action: "moved", NewParentID: req.NewParentID}, nil

	default:
		return nil, appErrors.Validation("Invalid operation")
	}
}

func toResponses(categories []*domainCategory.Category) []*CategoryResponse {
	responses := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		responses[i] = ToCategoryResponse(c)
	}
	return responses
}
