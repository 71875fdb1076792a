package product_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainCategory "marketplace-backend/internal/domain/category"
	domainProduct "marketplace-backend/internal/domain/product"
	domainShop "marketplace-backend/internal/domain/shop"
	domainUser "marketplace-backend/internal/domain/user"
	"marketplace-backend/internal/usecase/product"
	appErrors "marketplace-backend/pkg/errors"
)

// In-memory fakes

type fakeUserRepo struct {
	users map[uint]*domainUser.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domainUser.User) error { return nil }
func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (*domainUser.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domainUser.ErrUserNotFound
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domainUser.User, error) {
	return nil, domainUser.ErrUserNotFound
}
func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domainUser.User, error) {
	return nil, domainUser.ErrUserNotFound
}
func (f *fakeUserRepo) Update(ctx context.Context, u *domainUser.User) error  { return nil }
func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uint) error    { return nil }
func (f *fakeUserRepo) SetPremium(ctx context.Context, id uint, p bool) error { return nil }
func (f *fakeUserRepo) List(ctx context.Context) ([]*domainUser.User, error)  { return nil, nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id uint) error             { return nil }

type fakeShopRepo struct {
	shops map[uint]*domainShop.Shop
}

func (f *fakeShopRepo) Create(ctx context.Context, s *domainShop.Shop) error { return nil }
func (f *fakeShopRepo) GetByID(ctx context.Context, id uint) (*domainShop.Shop, error) {
	if s, ok := f.shops[id]; ok {
		return s, nil
	}
	return nil, domainShop.ErrShopNotFound
}
func (f *fakeShopRepo) GetByOwnerID(ctx context.Context, ownerID uint) (*domainShop.Shop, error) {
	for _, s := range f.shops {
		if s.OwnerID == ownerID {
			return s, nil
		}
	}
	return nil, domainShop.ErrShopNotFound
}
func (f *fakeShopRepo) Update(ctx context.Context, s *domainShop.Shop) error             { return nil }
func (f *fakeShopRepo) UpdateVerification(ctx context.Context, s *domainShop.Shop) error { return nil }
func (f *fakeShopRepo) SetContactVerified(ctx context.Context, shopID uint, otpType domainShop.OTPType) error {
	return nil
}
func (f *fakeShopRepo) SetPromoted(ctx context.Context, shopID uint, promoted bool) error {
	return nil
}
func (f *fakeShopRepo) ListByVerificationStatus(ctx context.Context, status domainShop.VerificationStatus) ([]*domainShop.Shop, error) {
	return nil, nil
}
func (f *fakeShopRepo) List(ctx context.Context, filter *domainShop.Filter) ([]*domainShop.Shop, int64, error) {
	return nil, 0, nil
}
func (f *fakeShopRepo) Deactivate(ctx context.Context, shopID uint) error { return nil }
func (f *fakeShopRepo) Delete(ctx context.Context, shopID uint) error     { return nil }

type fakeCategoryRepo struct {
	categories map[uint]*domainCategory.Category
}

func (f *fakeCategoryRepo) Create(ctx context.Context, c *domainCategory.Category) error { return nil }
func (f *fakeCategoryRepo) GetByID(ctx context.Context, id uint) (*domainCategory.Category, error) {
	if c, ok := f.categories[id]; ok {
		return c, nil
	}
	return nil, domainCategory.ErrCategoryNotFound
}
func (f *fakeCategoryRepo) Update(ctx context.Context, c *domainCategory.Category) error { return nil }
func (f *fakeCategoryRepo) Delete(ctx context.Context, id uint) error                    { return nil }
func (f *fakeCategoryRepo) Deactivate(ctx context.Context, id uint) error                { return nil }
func (f *fakeCategoryRepo) ListTrunks(ctx context.Context, activeOnly bool) ([]*domainCategory.Category, error) {
	return nil, nil
}
func (f *fakeCategoryRepo) ListByParent(ctx context.Context, parentID uint) ([]*domainCategory.Category, error) {
	return nil, nil
}
func (f *fakeCategoryRepo) HasChildren(ctx context.Context, id uint) (bool, error) {
	return false, nil
}
func (f *fakeCategoryRepo) CountProducts(ctx context.Context, id uint) (int64, error) {
	return 0, nil
}
func (f *fakeCategoryRepo) ExistsByName(ctx context.Context, name string, parentID *uint, level domainCategory.Level) (bool, error) {
	return false, nil
}

type fakeProductRepo struct {
	products map[uint]*domainProduct.Product
	nextID   uint
}

func (f *fakeProductRepo) Create(ctx context.Context, p *domainProduct.Product) error {
	f.nextID++
	p.ID = f.nextID
	f.products[p.ID] = p
	return nil
}
func (f *fakeProductRepo) GetByID(ctx context.Context, id uint) (*domainProduct.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, domainProduct.ErrProductNotFound
}
func (f *fakeProductRepo) GetByIDForShop(ctx context.Context, productID, shopID uint) (*domainProduct.Product, error) {
	p, ok := f.products[productID]
	if !ok || p.ShopID != shopID {
		return nil, domainProduct.ErrNotOwnedByShop
	}
	return p, nil
}
func (f *fakeProductRepo) Update(ctx context.Context, p *domainProduct.Product) error {
	f.products[p.ID] = p
	return nil
}
func (f *fakeProductRepo) Delete(ctx context.Context, id uint) error {
	delete(f.products, id)
	return nil
}
func (f *fakeProductRepo) List(ctx context.Context, filter *domainProduct.Filter) ([]*domainProduct.Product, int64, error) {
	var out []*domainProduct.Product
	for _, p := range f.products {
		if filter.ShopID != nil && p.ShopID != *filter.ShopID {
			continue
		}
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		if len(filter.CategoryIDs) > 0 {
			match := false
			for _, id := range filter.CategoryIDs {
				if p.CategoryID == id {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		if filter.InStock != nil && *filter.InStock && p.Stock <= 0 {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}
func (f *fakeProductRepo) ApplyStockUpdates(ctx context.Context, updates []*domainProduct.StockUpdate) error {
	return nil
}
func (f *fakeProductRepo) ListStockUpdates(ctx context.Context, productID uint, limit int) ([]*domainProduct.StockUpdate, error) {
	return nil, nil
}

type fakeHistoryRepo struct {
	events []*domainUser.BrowsingEvent
	fail   bool
}

func (f *fakeHistoryRepo) Track(ctx context.Context, event *domainUser.BrowsingEvent) error {
	if f.fail {
		return errors.New("history store unavailable")
	}
	f.events = append(f.events, event)
	return nil
}
func (f *fakeHistoryRepo) ListRecent(ctx context.Context, userID uint, since time.Time, limit int) ([]*domainUser.BrowsingEvent, error) {
	return nil, nil
}

func uintPtr(v uint) *uint        { return &v }
func floatPtr(v float64) *float64 { return &v }

func newFixture() (*product.Service, *fakeProductRepo, *fakeHistoryRepo) {
	users := &fakeUserRepo{users: map[uint]*domainUser.User{
		1: {ID: 1, Role: domainUser.RoleSeller, Status: domainUser.StatusActive},
		2: {ID: 2, Role: domainUser.RoleBuyer, Status: domainUser.StatusActive},
	}}
	shops := &fakeShopRepo{shops: map[uint]*domainShop.Shop{
		10: {ID: 10, Name: "Test Shop", OwnerID: 1, IsActive: true},
	}}
	categories := &fakeCategoryRepo{categories: map[uint]*domainCategory.Category{
		1: {ID: 1, Name: "Electronics", Level: domainCategory.LevelTrunk, IsActive: true},
		3: {ID: 3, Name: "Smartphones", Level: domainCategory.LevelLeaf, ParentID: uintPtr(2), IsActive: true},
		4: {ID: 4, Name: "Retired Leaf", Level: domainCategory.LevelLeaf, ParentID: uintPtr(2), IsActive: false},
	}}
	products := &fakeProductRepo{products: map[uint]*domainProduct.Product{}}
	history := &fakeHistoryRepo{}
	return product.NewService(products, categories, shops, users, history), products, history
}

func TestCreateProduct_RequiresActiveLeafCategory(t *testing.T) {
	svc, _, _ := newFixture()

	resp, err := svc.CreateProduct(context.Background(), 1, &product.CreateProductRequest{
		Name:       "Phone A",
		Type:       "electronics",
		Price:      199.99,
		Stock:      5,
		CategoryID: 3,
	})
	require.NoError(t, err)
	assert.True(t, resp.IsActive)
	assert.False(t, resp.OutOfStock)

	// Trunk category rejected.
	_, err = svc.CreateProduct(context.Background(), 1, &product.CreateProductRequest{
		Name:       "Phone B",
		Type:       "electronics",
		CategoryID: 1,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))

	// Inactive leaf rejected.
	_, err = svc.CreateProduct(context.Background(), 1, &product.CreateProductRequest{
		Name:       "Phone C",
		Type:       "electronics",
		CategoryID: 4,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
}

func TestCreateProduct_BuyerForbidden(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.CreateProduct(context.Background(), 2, &product.CreateProductRequest{
		Name:       "Phone A",
		Type:       "electronics",
		CategoryID: 3,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeForbidden, appErrors.CodeOf(err))
}

func TestUpdateProduct_NegativePriceRejected(t *testing.T) {
	svc, repo, _ := newFixture()
	repo.products[100] = &domainProduct.Product{ID: 100, Name: "Phone", ShopID: 10, CategoryID: 3, Price: 100, IsActive: true}

	_, err := svc.UpdateProduct(context.Background(), 1, 100, &product.UpdateProductRequest{
		Price: floatPtr(-5),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
}

func TestUpdateProduct_CategoryChangeRechecked(t *testing.T) {
	svc, repo, _ := newFixture()
	repo.products[100] = &domainProduct.Product{ID: 100, Name: "Phone", ShopID: 10, CategoryID: 3, IsActive: true}

	_, err := svc.UpdateProduct(context.Background(), 1, 100, &product.UpdateProductRequest{
		CategoryID: uintPtr(1),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
	assert.Equal(t, uint(3), repo.products[100].CategoryID)
}

func TestGetProduct_TracksBuyerView(t *testing.T) {
	svc, repo, history := newFixture()
	repo.products[100] = &domainProduct.Product{ID: 100, Name: "Phone", ShopID: 10, CategoryID: 3, IsActive: true}

	viewerID := uint(2)
	_, err := svc.GetProduct(context.Background(), &viewerID, 100)
	require.NoError(t, err)
	require.Len(t, history.events, 1)
	assert.Equal(t, "view", history.events[0].InteractionType)
	assert.Equal(t, uint(2), history.events[0].UserID)

	// Anonymous views are not tracked.
	_, err = svc.GetProduct(context.Background(), nil, 100)
	require.NoError(t, err)
	assert.Len(t, history.events, 1)
}

func TestGetProduct_TrackingFailureDoesNotFailRead(t *testing.T) {
	svc, repo, history := newFixture()
	repo.products[100] = &domainProduct.Product{ID: 100, Name: "Phone", ShopID: 10, CategoryID: 3, IsActive: true}
	history.fail = true

	viewerID := uint(2)
	resp, err := svc.GetProduct(context.Background(), &viewerID, 100)
	require.NoError(t, err)
	assert.Equal(t, uint(100), resp.ID)
}

func TestListProducts_ActiveOnlyAndFilters(t *testing.T) {
	svc, repo, _ := newFixture()
	repo.products[100] = &domainProduct.Product{ID: 100, Name: "Phone A", ShopID: 10, CategoryID: 3, Stock: 5, IsActive: true}
	repo.products[101] = &domainProduct.Product{ID: 101, Name: "Phone B", ShopID: 10, CategoryID: 3, Stock: 0, IsActive: true}
	repo.products[102] = &domainProduct.Product{ID: 102, Name: "Hidden", ShopID: 10, CategoryID: 3, Stock: 5, IsActive: false}

	resp, err := svc.ListProducts(context.Background(), &product.ListProductsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total, "inactive products hidden from browse")
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PageSize)

	inStock := true
	resp, err = svc.ListProducts(context.Background(), &product.ListProductsRequest{InStock: &inStock})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	assert.True(t, resp.Products[0].OutOfStock == false)
}

func TestMyProducts_IncludesInactive(t *testing.T) {
	svc, repo, _ := newFixture()
	repo.products[100] = &domainProduct.Product{ID: 100, Name: "Phone A", ShopID: 10, CategoryID: 3, IsActive: true}
	repo.products[102] = &domainProduct.Product{ID: 102, Name: "Hidden", ShopID: 10, CategoryID: 3, IsActive: false}

	resp, err := svc.MyProducts(context.Background(), 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
}

func TestDeleteProduct_OwnershipEnforced(t *testing.T) {
	svc, repo, _ := newFixture()
	repo.products[200] = &domainProduct.Product{ID: 200, Name: "Foreign", ShopID: 99, CategoryID: 3, IsActive: true}

	err := svc.DeleteProduct(context.Background(), 1, 200)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeNotFound, appErrors.CodeOf(err))
	assert.Contains(t, repo.products, uint(200))
}

func TestAdminListProducts_SeesAllShopsAndInactive(t *testing.T) {
	svc, repo, _ := newFixture()
	repo.products[100] = &domainProduct.Product{ID: 100, Name: "Phone A", ShopID: 10, CategoryID: 3, IsActive: true}
	repo.products[102] = &domainProduct.Product{ID: 102, Name: "Hidden", ShopID: 10, CategoryID: 3, IsActive: false}
	repo.products[200] = &domainProduct.Product{ID: 200, Name: "Foreign", ShopID: 99, CategoryID: 3, IsActive: true}

	resp, err := svc.AdminListProducts(context.Background(), &product.AdminListProductsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total, "moderation view includes inactive and foreign listings")

	resp, err = svc.AdminListProducts(context.Background(), &product.AdminListProductsRequest{ShopID: uintPtr(99)})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Total)
	assert.Equal(t, uint(200), resp.Products[0].ID)
}

func TestAdminUpdateProduct_AnyShop(t *testing.T) {
	svc, repo, _ := newFixture()
	repo.products[200] = &domainProduct.Product{ID: 200, Name: "Foreign", ShopID: 99, CategoryID: 3, IsActive: true}

	inactive := false
	resp, err := svc.AdminUpdateProduct(context.Background(), 200, &product.UpdateProductRequest{
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	// The active-leaf rule binds admins too.
	_, err = svc.AdminUpdateProduct(context.Background(), 200, &product.UpdateProductRequest{
		CategoryID: uintPtr(1),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))

	_, err = svc.AdminUpdateProduct(context.Background(), 999, &product.UpdateProductRequest{IsActive: &inactive})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeNotFound, appErrors.CodeOf(err))
}

func TestAdminDeleteProduct_AnyShop(t *testing.T) {
	svc, repo, _ := newFixture()
	repo.products[200] = &domainProduct.Product{ID: 200, Name: "Foreign", ShopID: 99, CategoryID: 3, IsActive: true}

	err := svc.AdminDeleteProduct(context.Background(), 200)
	require.NoError(t, err)
	assert.NotContains(t, repo.products, uint(200))

	err = svc.AdminDeleteProduct(context.Background(), 200)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeNotFound, appErrors.CodeOf(err))
}
