package verification_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-backend/internal/config"
	domainShop "marketplace-backend/internal/domain/shop"
	domainUser "marketplace-backend/internal/domain/user"
	"marketplace-backend/internal/usecase/verification"
	appErrors "marketplace-backend/pkg/errors"
	"marketplace-backend/pkg/utils"
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
func (f *fakeUserRepo) Update(ctx context.Context, u *domainUser.User) error       { return nil }
func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uint) error         { return nil }
func (f *fakeUserRepo) SetPremium(ctx context.Context, id uint, p bool) error      { return nil }
func (f *fakeUserRepo) List(ctx context.Context) ([]*domainUser.User, error)       { return nil, nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id uint) error                  { return nil }

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
func (f *fakeShopRepo) Update(ctx context.Context, s *domainShop.Shop) error { return nil }
func (f *fakeShopRepo) UpdateVerification(ctx context.Context, s *domainShop.Shop) error {
	f.shops[s.ID] = s
	return nil
}
func (f *fakeShopRepo) SetContactVerified(ctx context.Context, shopID uint, otpType domainShop.OTPType) error {
	s, ok := f.shops[shopID]
	if !ok {
		return domainShop.ErrShopNotFound
	}
	if otpType == domainShop.OTPPhone {
		s.PhoneVerified = true
	} else {
		s.EmailVerified = true
	}
	return nil
}
func (f *fakeShopRepo) SetPromoted(ctx context.Context, shopID uint, promoted bool) error {
	return nil
}
func (f *fakeShopRepo) ListByVerificationStatus(ctx context.Context, status domainShop.VerificationStatus) ([]*domainShop.Shop, error) {
	var out []*domainShop.Shop
	for _, s := range f.shops {
		if s.VerificationStatus == status {
			out = append(out, s)
		}
	}
	return out, nil
}
func (f *fakeShopRepo) List(ctx context.Context, filter *domainShop.Filter) ([]*domainShop.Shop, int64, error) {
	return nil, 0, nil
}
func (f *fakeShopRepo) Deactivate(ctx context.Context, shopID uint) error { return nil }
func (f *fakeShopRepo) Delete(ctx context.Context, shopID uint) error     { return nil }

type fakeOTPRepo struct {
	otps   map[uint]*domainShop.VerificationOTP
	nextID uint
}

func (f *fakeOTPRepo) CreateSuperseding(ctx context.Context, otp *domainShop.VerificationOTP) error {
	for _, o := range f.otps {
		if o.ShopID == otp.ShopID && o.OTPType == otp.OTPType && !o.IsUsed {
			o.IsUsed = true
		}
	}
	f.nextID++
	otp.ID = f.nextID
	otp.CreatedAt = time.Now()
	f.otps[otp.ID] = otp
	return nil
}
func (f *fakeOTPRepo) GetActive(ctx context.Context, shopID uint, otpType domainShop.OTPType) (*domainShop.VerificationOTP, error) {
	var latest *domainShop.VerificationOTP
	for _, o := range f.otps {
		if o.ShopID == shopID && o.OTPType == otpType && !o.IsUsed {
			if latest == nil || o.CreatedAt.After(latest.CreatedAt) {
				latest = o
			}
		}
	}
	if latest == nil {
		return nil, domainShop.ErrNoActiveOTP
	}
	return latest, nil
}
func (f *fakeOTPRepo) MarkUsed(ctx context.Context, otpID uint) error {
	o, ok := f.otps[otpID]
	if !ok || o.IsUsed {
		return domainShop.ErrOTPUsed
	}
	o.IsUsed = true
	return nil
}

func strPtr(s string) *string { return &s }

func newFixture() (*verification.Service, *fakeShopRepo, *fakeOTPRepo) {
	users := &fakeUserRepo{users: map[uint]*domainUser.User{
		1: {ID: 1, Role: domainUser.RoleSeller, Status: domainUser.StatusActive},
		9: {ID: 9, Role: domainUser.RoleAdmin, Status: domainUser.StatusActive},
		5: {ID: 5, Role: domainUser.RoleBuyer, Status: domainUser.StatusActive},
	}}
	shops := &fakeShopRepo{shops: map[uint]*domainShop.Shop{
		10: {
			ID:                 10,
			Name:               "Test Shop",
			OwnerID:            1,
			IsActive:           true,
			Phone:              strPtr("+255712345678"),
			Email:              strPtr("shop@example.com"),
			VerificationStatus: domainShop.StatusPending,
		},
	}}
	otps := &fakeOTPRepo{otps: map[uint]*domainShop.VerificationOTP{}}

	cfg := &config.Config{OTP: config.OTPConfig{ExpiryMinutes: 15}}
	return verification.NewService(shops, otps, users, cfg), shops, otps
}

func TestRequestOTP_IssuesFreshCode(t *testing.T) {
	svc, _, otps := newFixture()

	resp, err := svc.RequestOTP(context.Background(), 1, &verification.RequestOTPRequest{Type: domainShop.OTPPhone})
	require.NoError(t, err)
	assert.Len(t, resp.OTP, 6)
	assert.Equal(t, 15, resp.ExpiresInMinutes)
	assert.Equal(t, "****5678", resp.Contact)

	// A second request supersedes the first.
	resp2, err := svc.RequestOTP(context.Background(), 1, &verification.RequestOTPRequest{Type: domainShop.OTPPhone})
	require.NoError(t, err)

	active, err := otps.GetActive(context.Background(), 10, domainShop.OTPPhone)
	require.NoError(t, err)
	assert.True(t, utils.CheckOTP(active.OTPHash, resp2.OTP))
}

func TestRequestOTP_RejectsNonSeller(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.RequestOTP(context.Background(), 5, &verification.RequestOTPRequest{Type: domainShop.OTPPhone})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeForbidden, appErrors.CodeOf(err))
}

func TestRequestOTP_ConflictWhenAlreadyVerified(t *testing.T) {
	svc, shops, _ := newFixture()
	shops.shops[10].PhoneVerified = true

	_, err := svc.RequestOTP(context.Background(), 1, &verification.RequestOTPRequest{Type: domainShop.OTPPhone})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeConflict, appErrors.CodeOf(err))
}

func TestVerifyOTP_SuccessMarksContactVerified(t *testing.T) {
	svc, shops, _ := newFixture()

	issued, err := svc.RequestOTP(context.Background(), 1, &verification.RequestOTPRequest{Type: domainShop.OTPEmail})
	require.NoError(t, err)

	resp, err := svc.VerifyOTP(context.Background(), 1, &verification.VerifyOTPRequest{
		Type: domainShop.OTPEmail,
		Code: issued.OTP,
	})
	require.NoError(t, err)
	assert.True(t, resp.Verified)
	assert.True(t, shops.shops[10].EmailVerified)
}

func TestVerifyOTP_MismatchDoesNotConsumeCode(t *testing.T) {
	svc, shops, otps := newFixture()

	issued, err := svc.RequestOTP(context.Background(), 1, &verification.RequestOTPRequest{Type: domainShop.OTPPhone})
	require.NoError(t, err)

	wrong := "000000"
	if issued.OTP == wrong {
		wrong = "000001"
	}
	_, err = svc.VerifyOTP(context.Background(), 1, &verification.VerifyOTPRequest{
		Type: domainShop.OTPPhone,
		Code: wrong,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
	assert.False(t, shops.shops[10].PhoneVerified)

	// The right code still works afterwards.
	active, err := otps.GetActive(context.Background(), 10, domainShop.OTPPhone)
	require.NoError(t, err)
	assert.False(t, active.IsUsed)
}

func TestVerifyOTP_ExpiredCode(t *testing.T) {
	svc, _, otps := newFixture()

	issued, err := svc.RequestOTP(context.Background(), 1, &verification.RequestOTPRequest{Type: domainShop.OTPPhone})
	require.NoError(t, err)

	active, err := otps.GetActive(context.Background(), 10, domainShop.OTPPhone)
	require.NoError(t, err)
	active.ExpiresAt = time.Now().Add(-time.Minute)

	_, err = svc.VerifyOTP(context.Background(), 1, &verification.VerifyOTPRequest{
		Type: domainShop.OTPPhone,
		Code: issued.OTP,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodePrecondition, appErrors.CodeOf(err))
}

func TestRequestVerification_RequiresBothContacts(t *testing.T) {
	svc, shops, _ := newFixture()
	shops.shops[10].PhoneVerified = true

	_, err := svc.RequestVerification(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodePrecondition, appErrors.CodeOf(err))

	shops.shops[10].EmailVerified = true
	resp, err := svc.RequestVerification(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domainShop.StatusPending, resp.VerificationStatus)
	assert.NotNil(t, resp.VerificationRequestedAt)
}

func TestRequestVerification_ConflictWhenVerified(t *testing.T) {
	svc, shops, _ := newFixture()
	shops.shops[10].PhoneVerified = true
	shops.shops[10].EmailVerified = true
	shops.shops[10].VerificationStatus = domainShop.StatusVerified

	_, err := svc.RequestVerification(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeConflict, appErrors.CodeOf(err))
}

func TestAdminVerify_SetsAuditFields(t *testing.T) {
	svc, shops, _ := newFixture()

	resp, err := svc.AdminVerify(context.Background(), 9, 10)
	require.NoError(t, err)
	assert.Equal(t, domainShop.StatusVerified, resp.VerificationStatus)
	assert.NotNil(t, resp.VerifiedAt)
	require.NotNil(t, resp.VerifiedBy)
	assert.Equal(t, uint(9), *resp.VerifiedBy)
	assert.Nil(t, shops.shops[10].RejectionReason)
}

func TestAdminVerify_RejectsNonAdmin(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.AdminVerify(context.Background(), 1, 10)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeForbidden, appErrors.CodeOf(err))
}

func TestAdminReject_RequiresReasonAndClearsVerification(t *testing.T) {
	svc, shops, _ := newFixture()

	_, err := svc.AdminReject(context.Background(), 9, 10, &verification.RejectShopRequest{Reason: "   "})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))

	// Verify first, then reject: audit fields must be cleared.
	_, err = svc.AdminVerify(context.Background(), 9, 10)
	require.NoError(t, err)

	resp, err := svc.AdminReject(context.Background(), 9, 10, &verification.RejectShopRequest{Reason: "missing documents"})
	require.NoError(t, err)
	assert.Equal(t, domainShop.StatusRejected, resp.VerificationStatus)
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, "missing documents", *resp.RejectionReason)
	assert.Nil(t, shops.shops[10].VerifiedAt)
	assert.Nil(t, shops.shops[10].VerifiedBy)
}

func TestBulkVerify_CollectsPerItemErrors(t *testing.T) {
	svc, shops, _ := newFixture()
	shops.shops[11] = &domainShop.Shop{ID: 11, Name: "Other", OwnerID: 2, VerificationStatus: domainShop.StatusPending}

	resp, err := svc.BulkVerify(context.Background(), 9, &verification.BulkVerifyRequest{
		Action:  "verify",
		ShopIDs: []uint{10, 999, 11},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Processed)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, uint(999), resp.Errors[0].ShopID)
	assert.Equal(t, domainShop.StatusVerified, shops.shops[10].VerificationStatus)
	assert.Equal(t, domainShop.StatusVerified, shops.shops[11].VerificationStatus)
}

func TestAdminUnderReview_ClearsAuditFields(t *testing.T) {
	svc, shops, _ := newFixture()

	_, err := svc.AdminVerify(context.Background(), 9, 10)
	require.NoError(t, err)
	require.NotNil(t, shops.shops[10].VerifiedAt)

	resp, err := svc.AdminUnderReview(context.Background(), 9, 10)
	require.NoError(t, err)
	assert.Equal(t, domainShop.StatusUnderReview, resp.VerificationStatus)
	assert.Nil(t, resp.VerifiedAt)
	assert.Nil(t, resp.VerifiedBy)
	assert.Nil(t, shops.shops[10].VerifiedAt)
	assert.Nil(t, shops.shops[10].VerifiedBy)
}

func TestBulkVerify_UnderReviewClearsAuditFields(t *testing.T) {
	svc, shops, _ := newFixture()

	_, err := svc.AdminVerify(context.Background(), 9, 10)
	require.NoError(t, err)

	resp, err := svc.BulkVerify(context.Background(), 9, &verification.BulkVerifyRequest{
		Action:  "under_review",
		ShopIDs: []uint{10},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Processed)
	assert.Equal(t, domainShop.StatusUnderReview, shops.shops[10].VerificationStatus)
	assert.Nil(t, shops.shops[10].VerifiedAt)
	assert.Nil(t, shops.shops[10].VerifiedBy)
	assert.Nil(t, shops.shops[10].RejectionReason)
}

func TestStatus_RejectedShopCanRequestAgain(t *testing.T) {
	svc, shops, _ := newFixture()
	shops.shops[10].PhoneVerified = true
	shops.shops[10].EmailVerified = true

	_, err := svc.AdminReject(context.Background(), 9, 10, &verification.RejectShopRequest{Reason: "blurry documents"})
	require.NoError(t, err)

	status, err := svc.Status(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, status.CanRequestVerification)

	resp, err := svc.RequestVerification(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domainShop.StatusPending, resp.VerificationStatus)
}

func TestBulkVerify_RejectRequiresReason(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.BulkVerify(context.Background(), 9, &verification.BulkVerifyRequest{
		Action:  "reject",
		ShopIDs: []uint{10},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeValidation, appErrors.CodeOf(err))
}
