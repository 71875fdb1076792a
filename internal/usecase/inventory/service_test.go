package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainProduct "marketplace-backend/internal/domain/product"
	domainShop "marketplace-backend/internal/domain/shop"
	domainUser "marketplace-backend/internal/domain/user"
	"marketplace-backend/internal/usecase/inventory"
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

type fakeProductRepo struct {
	products map[uint]*domainProduct.Product
	audit    []*domainProduct.StockUpdate
	nextID   uint
}

func (f *fakeProductRepo) Create(ctx context.Context, p *domainProduct.Product) error { return nil }
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
func (f *fakeProductRepo) Update(ctx context.Context, p *domainProduct.Product) error { return nil }
func (f *fakeProductRepo) Delete(ctx context.Context, id uint) error                  { return nil }
func (f *fakeProductRepo) List(ctx context.Context, filter *domainProduct.Filter) ([]*domainProduct.Product, int64, error) {
	var out []*domainProduct.Product
	for _, p := range f.products {
		if filter.ShopID != nil && p.ShopID != *filter.ShopID {
			continue
		}
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		if filter.LowStock != nil && *filter.LowStock && !p.IsLowStock(filter.LowStockThreshold) {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}
func (f *fakeProductRepo) ApplyStockUpdates(ctx context.Context, updates []*domainProduct.StockUpdate) error {
	for _, u := range updates {
		p, ok := f.products[u.ProductID]
		if !ok {
			return domainProduct.ErrProductNotFound
		}
		p.Stock = u.NewStock
		f.nextID++
		u.ID = f.nextID
		f.audit = append(f.audit, u)
	}
	return nil
}
func (f *fakeProductRepo) ListStockUpdates(ctx context.Context, productID uint, limit int) ([]*domainProduct.StockUpdate, error) {
	var out []*domainProduct.StockUpdate
	for i := len(f.audit) - 1; i >= 0 && len(out) < limit; i-- {
		if f.audit[i].ProductID == productID {
			out = append(out, f.audit[i])
		}
	}
	return out, nil
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func newFixture() (*inventory.Service, *fakeProductRepo) {
	users := &fakeUserRepo{users: map[uint]*domainUser.User{
		1: {ID: 1, Role: domainUser.RoleSeller, Status: domainUser.StatusActive},
		2: {ID: 2, Role: domainUser.RoleBuyer, Status: domainUser.StatusActive},
	}}
	shops := &fakeShopRepo{shops: map[uint]*domainShop.Shop{
		10: {ID: 10, Name: "Test Shop", OwnerID: 1, IsActive: true},
		20: {ID: 20, Name: "Other Shop", OwnerID: 3, IsActive: true},
	}}
	products := &fakeProductRepo{products: map[uint]*domainProduct.Product{
		100: {ID: 100, Name: "Maize Flour", ShopID: 10, Stock: 5, IsActive: true},
		101: {ID: 101, Name: "Rice", ShopID: 10, Stock: 40, IsActive: true},
		200: {ID: 200, Name: "Foreign", ShopID: 20, Stock: 8, IsActive: true},
	}}
	return inventory.NewService(products, shops, users), products
}

func TestUpdateStock_AbsoluteValue(t *testing.T) {
	svc, products := newFixture()

	resp, err := svc.UpdateStock(context.Background(), 1, 100, &inventory.UpdateStockRequest{Stock: intPtr(12)})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.OldStock)
	assert.Equal(t, 12, resp.NewStock)
	assert.Equal(t, 7, resp.StockChange)
	assert.Equal(t, "restocked", resp.Reason)
	assert.Equal(t, 12, products.products[100].Stock)
	require.Len(t, products.audit, 1)
}

func TestUpdateStock_NegativeDeltaClampedToZero(t *testing.T) {
	svc, products := newFixture()

	resp, err := svc.UpdateStock(context.Background(), 1, 100, &inventory.UpdateStockRequest{StockChange: intPtr(-12)})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.OldStock)
	assert.Equal(t, 0, resp.NewStock)
	assert.Equal(t, -5, resp.StockChange, "recorded change reflects the clamp")
	assert.Equal(t, "goods sold", resp.Reason)
	assert.Equal(t, 0, products.products[100].Stock)
}

func TestUpdateStock_BothStockAndChangeRejected(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.UpdateStock(context.Background(), 1, 100, &inventory.UpdateStockRequest{
		Stock:       intPtr(3),
		StockChange: intPtr(1),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
}

func TestUpdateStock_NeitherFieldRejected(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.UpdateStock(context.Background(), 1, 100, &inventory.UpdateStockRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
}

func TestUpdateStock_ForeignProductNotFound(t *testing.T) {
	svc, products := newFixture()

	_, err := svc.UpdateStock(context.Background(), 1, 200, &inventory.UpdateStockRequest{Stock: intPtr(3)})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeNotFound, appErrors.CodeOf(err))
	assert.Equal(t, 8, products.products[200].Stock, "foreign product untouched")
}

func TestUpdateStock_NonSellerForbidden(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.UpdateStock(context.Background(), 2, 100, &inventory.UpdateStockRequest{Stock: intPtr(3)})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeForbidden, appErrors.CodeOf(err))
}

func TestUpdateStock_ExplicitReasonOverridesInference(t *testing.T) {
	svc, _ := newFixture()

	resp, err := svc.UpdateStock(context.Background(), 1, 100, &inventory.UpdateStockRequest{
		StockChange: intPtr(5),
		Reason:      strPtr("  supplier delivery  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "supplier delivery", resp.Reason)
}

func TestBulkUpdateStock_PartialFailure(t *testing.T) {
	svc, products := newFixture()

	resp, err := svc.BulkUpdateStock(context.Background(), 1, &inventory.BulkUpdateStockRequest{
		Updates: []inventory.BulkStockItem{
			{ProductID: 100, Stock: intPtr(30)},
			{ProductID: 999, Stock: intPtr(10)},
			{ProductID: 101, StockChange: intPtr(-15)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Processed)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, uint(999), resp.Errors[0].ProductID)

	// Valid items committed despite the bad one.
	assert.Equal(t, 30, products.products[100].Stock)
	assert.Equal(t, 25, products.products[101].Stock)
	assert.Len(t, products.audit, 2)
}

func TestStockHistory_MostRecentFirst(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.UpdateStock(context.Background(), 1, 100, &inventory.UpdateStockRequest{Stock: intPtr(20)})
	require.NoError(t, err)
	_, err = svc.UpdateStock(context.Background(), 1, 100, &inventory.UpdateStockRequest{StockChange: intPtr(-3)})
	require.NoError(t, err)

	history, err := svc.StockHistory(context.Background(), 1, 100, 0)
	require.NoError(t, err)
	require.Len(t, history.Updates, 2)
	assert.Equal(t, -3, history.Updates[0].StockChange)
	assert.Equal(t, 15, history.Updates[1].StockChange)
}

func TestStockHistory_ForeignProductNotFound(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.StockHistory(context.Background(), 1, 200, 10)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeNotFound, appErrors.CodeOf(err))
}

func TestLowStock_UsesThreshold(t *testing.T) {
	svc, _ := newFixture()

	resp, err := svc.LowStock(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, domainProduct.DefaultLowStockThreshold, resp.Threshold)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, uint(100), resp.Products[0].ProductID)
}
