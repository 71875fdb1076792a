package shop_test

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainShop "marketplace-backend/internal/domain/shop"
	domainUser "marketplace-backend/internal/domain/user"
	"marketplace-backend/internal/usecase/shop"
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
	shops  map[uint]*domainShop.Shop
	nextID uint
}

func (f *fakeShopRepo) Create(ctx context.Context, s *domainShop.Shop) error {
	for _, existing := range f.shops {
		if existing.OwnerID == s.OwnerID {
			return domainShop.ErrShopAlreadyExists
		}
	}
	f.nextID++
	s.ID = f.nextID
	f.shops[s.ID] = s
	return nil
}
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
func (f *fakeShopRepo) Update(ctx context.Context, s *domainShop.Shop) error {
	f.shops[s.ID] = s
	return nil
}
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
	var out []*domainShop.Shop
	for _, s := range f.shops {
		if filter.Status != nil && s.VerificationStatus != *filter.Status {
			continue
		}
		if filter.IsActive != nil && s.IsActive != *filter.IsActive {
			continue
		}
		if filter.Region != "" && (s.Region == nil || *s.Region != filter.Region) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}
func (f *fakeShopRepo) Deactivate(ctx context.Context, shopID uint) error { return nil }
func (f *fakeShopRepo) Delete(ctx context.Context, shopID uint) error {
	if _, ok := f.shops[shopID]; !ok {
		return domainShop.ErrShopNotFound
	}
	delete(f.shops, shopID)
	return nil
}

type fakeFollowRepo struct {
	follows []*domainShop.ShopFollow
	nextID  uint
}

func (f *fakeFollowRepo) Create(ctx context.Context, follow *domainShop.ShopFollow) error {
	for _, existing := range f.follows {
		if existing.UserID == follow.UserID && existing.ShopID == follow.ShopID {
			return domainShop.ErrAlreadyFollowing
		}
	}
	f.nextID++
	follow.ID = f.nextID
	f.follows = append(f.follows, follow)
	return nil
}
func (f *fakeFollowRepo) Delete(ctx context.Context, userID, shopID uint) error {
	for i, existing := range f.follows {
		if existing.UserID == userID && existing.ShopID == shopID {
			f.follows = append(f.follows[:i], f.follows[i+1:]...)
			return nil
		}
	}
	return domainShop.ErrFollowNotFound
}
func (f *fakeFollowRepo) ListByShop(ctx context.Context, shopID uint) ([]*domainShop.ShopFollow, error) {
	var out []*domainShop.ShopFollow
	for _, follow := range f.follows {
		if follow.ShopID == shopID {
			out = append(out, follow)
		}
	}
	return out, nil
}
func (f *fakeFollowRepo) CountByShop(ctx context.Context, shopID uint) (int64, error) {
	out, _ := f.ListByShop(ctx, shopID)
	return int64(len(out)), nil
}

func strPtr(s string) *string { return &s }

func newFixture() (*shop.Service, *fakeShopRepo, *fakeFollowRepo) {
	users := &fakeUserRepo{users: map[uint]*domainUser.User{
		1: {ID: 1, Role: domainUser.RoleSeller, Status: domainUser.StatusActive},
		2: {ID: 2, Role: domainUser.RoleBuyer, Status: domainUser.StatusActive},
		3: {ID: 3, Role: domainUser.RoleBuyer, Status: domainUser.StatusActive},
	}}
	shops := &fakeShopRepo{shops: map[uint]*domainShop.Shop{}}
	follows := &fakeFollowRepo{}
	return shop.NewService(shops, follows, users), shops, follows
}

func seedShop(t *testing.T, svc *shop.Service) *shop.ShopResponse {
	t.Helper()
	created, err := svc.CreateShop(context.Background(), 1, &shop.CreateShopRequest{
		Name:  "Mama Ntilie",
		Phone: strPtr("+255712345678"),
		Email: strPtr("shop@example.com"),
	})
	require.NoError(t, err)
	return created
}

func TestCreateShop_OnePerSeller(t *testing.T) {
	svc, _, _ := newFixture()

	created := seedShop(t, svc)
	assert.Equal(t, "pending", created.VerificationStatus)
	assert.True(t, created.IsActive)

	_, err := svc.CreateShop(context.Background(), 1, &shop.CreateShopRequest{Name: "Second Shop"})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeConflict, appErrors.CodeOf(err))
}

func TestCreateShop_BuyerForbidden(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.CreateShop(context.Background(), 2, &shop.CreateShopRequest{Name: "Buyer Shop"})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeForbidden, appErrors.CodeOf(err))
}

func TestUpdateShop_ContactChangeResetsVerifiedFlag(t *testing.T) {
	svc, shops, _ := newFixture()

	created := seedShop(t, svc)
	shops.shops[created.ID].PhoneVerified = true
	shops.shops[created.ID].EmailVerified = true

	// Changing the phone clears only the phone proof.
	updated, err := svc.UpdateShop(context.Background(), 1, &shop.UpdateShopRequest{
		Phone: strPtr("+255798765432"),
	})
	require.NoError(t, err)
	assert.False(t, updated.PhoneVerified)
	assert.True(t, updated.EmailVerified)

	// Resubmitting the same email keeps its proof.
	updated, err = svc.UpdateShop(context.Background(), 1, &shop.UpdateShopRequest{
		Email: strPtr("shop@example.com"),
	})
	require.NoError(t, err)
	assert.True(t, updated.EmailVerified)

	// A different email clears it.
	updated, err = svc.UpdateShop(context.Background(), 1, &shop.UpdateShopRequest{
		Email: strPtr("new@example.com"),
	})
	require.NoError(t, err)
	assert.False(t, updated.EmailVerified)
}

func TestFollowShop_DuplicateConflict(t *testing.T) {
	svc, _, _ := newFixture()
	created := seedShop(t, svc)

	resp, err := svc.FollowShop(context.Background(), 2, created.ID)
	require.NoError(t, err)
	assert.True(t, resp.Following)

	_, err = svc.FollowShop(context.Background(), 2, created.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeConflict, appErrors.CodeOf(err))
}

func TestUnfollowShop_NotFollowing(t *testing.T) {
	svc, _, _ := newFixture()
	created := seedShop(t, svc)

	_, err := svc.UnfollowShop(context.Background(), 2, created.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeNotFound, appErrors.CodeOf(err))

	_, err = svc.FollowShop(context.Background(), 2, created.ID)
	require.NoError(t, err)
	resp, err := svc.UnfollowShop(context.Background(), 2, created.ID)
	require.NoError(t, err)
	assert.False(t, resp.Following)
}

func TestFollowers_OwnerView(t *testing.T) {
	svc, _, _ := newFixture()
	created := seedShop(t, svc)

	before := time.Now()
	_, err := svc.FollowShop(context.Background(), 2, created.ID)
	require.NoError(t, err)
	_, err = svc.FollowShop(context.Background(), 3, created.ID)
	require.NoError(t, err)

	followers, err := svc.Followers(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, created.ID, followers.ShopID)
	assert.Equal(t, int64(2), followers.Count)
	require.Len(t, followers.Followers, 2)
	assert.False(t, followers.Followers[0].FollowedAt.Before(before))
}

func TestFollowShop_UnknownShop(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.FollowShop(context.Background(), 2, 999)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeNotFound, appErrors.CodeOf(err))
}

func TestAdminListShops_IncludesInactiveAndFilters(t *testing.T) {
	svc, shops, _ := newFixture()
	seedShop(t, svc)
	shops.shops[50] = &domainShop.Shop{
		ID:                 50,
		Name:               "Dormant Stall",
		OwnerID:            4,
		IsActive:           false,
		VerificationStatus: domainShop.StatusRejected,
	}

	resp, err := svc.AdminListShops(context.Background(), &shop.ListShopsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total, "moderation view includes inactive shops")

	inactive := false
	resp, err = svc.AdminListShops(context.Background(), &shop.ListShopsRequest{IsActive: &inactive})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Total)
	assert.Equal(t, "Dormant Stall", resp.Shops[0].Name)

	resp, err = svc.AdminListShops(context.Background(), &shop.ListShopsRequest{Status: "rejected"})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Total)
	assert.Equal(t, uint(50), resp.Shops[0].ID)
}

func TestAdminUpdateShop_ContactResetStillApplies(t *testing.T) {
	svc, shops, _ := newFixture()
	created := seedShop(t, svc)
	shops.shops[created.ID].PhoneVerified = true

	updated, err := svc.AdminUpdateShop(context.Background(), created.ID, &shop.UpdateShopRequest{
		Name:  strPtr("Renamed by Moderation"),
		Phone: strPtr("+255700000000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed by Moderation", updated.Name)
	assert.False(t, updated.PhoneVerified, "changed phone must be proven again")

	_, err = svc.AdminUpdateShop(context.Background(), 999, &shop.UpdateShopRequest{Name: strPtr("Ghost")})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeNotFound, appErrors.CodeOf(err))
}

func TestAdminDeleteShop_RemovesShop(t *testing.T) {
	svc, shops, _ := newFixture()
	created := seedShop(t, svc)

	err := svc.AdminDeleteShop(context.Background(), created.ID)
	require.NoError(t, err)
	assert.NotContains(t, shops.shops, created.ID)

	err = svc.AdminDeleteShop(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeNotFound, appErrors.CodeOf(err))
}
