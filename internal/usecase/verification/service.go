package verification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"marketplace-backend/internal/config"
	domainShop "marketplace-backend/internal/domain/shop"
	domainUser "marketplace-backend/internal/domain/user"
	"marketplace-backend/internal/logger"
	"marketplace-backend/internal/metrics"
	appErrors "marketplace-backend/pkg/errors"
	"marketplace-backend/pkg/utils"
)

// Service implements the shop verification workflow: the OTP contact
// proofs and the admin-moderated status transitions they gate.
type Service struct {
	shopRepo domainShop.Repository
	otpRepo  domainShop.OTPRepository
	userRepo domainUser.Repository
	config   *config.Config
}

func NewService(
	shopRepo domainShop.Repository,
	otpRepo domainShop.OTPRepository,
	userRepo domainUser.Repository,
	cfg *config.Config,
) *Service {
	return &Service{
		shopRepo: shopRepo,
		otpRepo:  otpRepo,
		userRepo: userRepo,
		config:   cfg,
	}
}

func (s *Service) otpExpiry() time.Duration {
	minutes := s.config.OTP.ExpiryMinutes
	if minutes <= 0 {
		minutes = 15
	}
	return time.Duration(minutes) * time.Minute
}

// RequestOTP generates a fresh contact-verification code for the seller's
// shop, superseding any prior unused code for the same channel.
func (s *Service) RequestOTP(ctx context.Context, sellerID uint, req *RequestOTPRequest) (*OTPResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	shop, err := s.sellerShop(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	contact, verified, err := contactFor(shop, req.Type)
	if err != nil {
		return nil, err
	}
	if verified {
		return nil, appErrors.Conflict(fmt.Sprintf("%s is already verified", req.Type))
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashOTP(code)
	if err != nil {
		return nil, fmt.Errorf("failed to hash otp: %w", err)
	}

	otp := &domainShop.VerificationOTP{
		ShopID:       shop.ID,
		OTPHash:      hash,
		OTPType:      req.Type,
		ContactValue: contact,
		ExpiresAt:    time.Now().Add(s.otpExpiry()),
	}
	if err := s.otpRepo.CreateSuperseding(ctx, otp); err != nil {
		return nil, err
	}

	logger.Info("OTP issued",
		zap.Uint("shop_id", shop.ID),
		zap.String("otp_type", string(req.Type)),
		zap.String("event", "otp_issued"),
	)

	// The plaintext code is returned for development only; production
	// deployments must deliver it out of band.
	return &OTPResponse{
		OTP:              code,
		ExpiresInMinutes: int(s.otpExpiry().Minutes()),
		Contact:          maskContact(contact, req.Type),
	}, nil
}

// VerifyOTP checks the submitted code against the active OTP for the
// channel and, on success, marks the shop contact as verified.
func (s *Service) VerifyOTP(ctx context.Context, sellerID uint, req *VerifyOTPRequest) (*VerifyOTPResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	shop, err := s.sellerShop(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	otp, err := s.otpRepo.GetActive(ctx, shop.ID, req.Type)
	if err != nil {
		return nil, appErrors.NotFound("No active OTP found. Please request a new one.")
	}

	// Failure paths return a typed reason without mutating state.
	switch {
	case otp.IsUsed:
		return nil, appErrors.Conflict(domainShop.ErrOTPUsed.Error())
	case otp.IsExpired():
		return nil, appErrors.Precondition(domainShop.ErrOTPExpired.Error())
	case !utils.CheckOTP(otp.OTPHash, req.Code):
		return nil, appErrors.Validation(domainShop.ErrOTPMismatch.Error())
	}

	if err := s.otpRepo.MarkUsed(ctx, otp.ID); err != nil {
		return nil, err
	}
	if err := s.shopRepo.SetContactVerified(ctx, shop.ID, req.Type); err != nil {
		return nil, err
	}

	logger.Info("Shop contact verified",
		zap.Uint("shop_id", shop.ID),
		zap.String("otp_type", string(req.Type)),
		zap.String("event", "contact_verified"),
	)

	return &VerifyOTPResponse{Verified: true, Type: req.Type}, nil
}

// RequestVerification submits the shop for admin review. Both contact
// channels must be proven first.
func (s *Service) RequestVerification(ctx context.Context, sellerID uint) (*ShopVerificationResponse, error) {
	shop, err := s.sellerShop(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	if !shop.PhoneVerified {
		return nil, appErrors.Precondition("Phone must be verified before requesting shop verification")
	}
	if !shop.EmailVerified {
		return nil, appErrors.Precondition("Email must be verified before requesting shop verification")
	}
	if shop.VerificationStatus == domainShop.StatusVerified {
		return nil, appErrors.Conflict("Shop is already verified")
	}
	if shop.VerificationStatus == domainShop.StatusUnderReview {
		return nil, appErrors.Conflict("Shop verification is already under review")
	}

	now := time.Now()
	shop.VerificationStatus = domainShop.StatusPending
	shop.VerificationRequestedAt = &now
	if err := s.shopRepo.UpdateVerification(ctx, shop); err != nil {
		return nil, err
	}

	logger.Info("Shop verification requested",
		zap.Uint("shop_id", shop.ID),
		zap.Uint("seller_id", sellerID),
		zap.String("event", "verification_requested"),
	)

	return ToVerificationResponse(shop), nil
}

// Status returns the seller-facing verification summary for their shop.
func (s *Service) Status(ctx context.Context, sellerID uint) (*ShopVerificationResponse, error) {
	shop, err := s.sellerShop(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return ToVerificationResponse(shop), nil
}

// AdminVerify approves the shop's verification.
func (s *Service) AdminVerify(ctx context.Context, adminID, shopID uint) (*ShopVerificationResponse, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, appErrors.NotFound("Shop not found")
	}

	s.applyVerify(shop, adminID)
	if err := s.shopRepo.UpdateVerification(ctx, shop); err != nil {
		return nil, err
	}

	s.logTransition(shop, domainShop.StatusVerified, adminID)
	return ToVerificationResponse(shop), nil
}

// AdminReject rejects the shop's verification with a mandatory reason.
func (s *Service) AdminReject(ctx context.Context, adminID, shopID uint, req *RejectShopRequest) (*ShopVerificationResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, appErrors.Validation("Rejection reason is required")
	}
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, appErrors.NotFound("Shop not found")
	}

	s.applyReject(shop, reason)
	if err := s.shopRepo.UpdateVerification(ctx, shop); err != nil {
		return nil, err
	}

	s.logTransition(shop, domainShop.StatusRejected, adminID)
	return ToVerificationResponse(shop), nil
}

// AdminSuspend suspends the shop. Applied from any state, matching the
// moderation tooling; the canonical flow only reaches it from VERIFIED.
func (s *Service) AdminSuspend(ctx context.Context, adminID, shopID uint) (*ShopVerificationResponse, error) {
	return s.adminSetStatus(ctx, adminID, shopID, domainShop.StatusSuspended)
}

// AdminUnderReview pulls the shop back for re-review from any state.
func (s *Service) AdminUnderReview(ctx context.Context, adminID, shopID uint) (*ShopVerificationResponse, error) {
	return s.adminSetStatus(ctx, adminID, shopID, domainShop.StatusUnderReview)
}

// UpdateNotes sets the admin-only verification notes on a shop.
func (s *Service) UpdateNotes(ctx context.Context, adminID, shopID uint, req *UpdateNotesRequest) (*ShopVerificationResponse, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, appErrors.NotFound("Shop not found")
	}

	notes := utils.SanitizeText(req.Notes)
	if notes == "" {
		shop.VerificationNotes = nil
	} else {
		shop.VerificationNotes = &notes
	}
	if err := s.shopRepo.UpdateVerification(ctx, shop); err != nil {
		return nil, err
	}

	return ToVerificationResponse(shop), nil
}

// PendingReview lists shops waiting on the given moderation queue.
func (s *Service) PendingReview(ctx context.Context, status domainShop.VerificationStatus) ([]*ShopVerificationResponse, error) {
	if status != domainShop.StatusPending && status != domainShop.StatusUnderReview {
		status = domainShop.StatusPending
	}

	shops, err := s.shopRepo.ListByVerificationStatus(ctx, status)
	if err != nil {
		return nil, err
	}

	responses := make([]*ShopVerificationResponse, len(shops))
	for i, sh := range shops {
		responses[i] = ToVerificationResponse(sh)
	}
	return responses, nil
}

// BulkVerify applies a verification action to each shop independently.
// Item failures are collected and do not block the rest of the batch.
func (s *Service) BulkVerify(ctx context.Context, adminID uint, req *BulkVerifyRequest) (*BulkVerifyResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	reason := strings.TrimSpace(req.RejectionReason)
	if req.Action == "reject" && reason == "" {
		return nil, appErrors.Validation("rejection_reason is required for reject action")
	}
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	response := &BulkVerifyResponse{
		Results: []BulkResult{},
		Errors:  []BulkError{},
	}

	for _, shopID := range req.ShopIDs {
		shop, err := s.shopRepo.GetByID(ctx, shopID)
		if err != nil {
			response.Failed++
			response.Errors = append(response.Errors, BulkError{ShopID: shopID, Error: "Shop not found"})
			continue
		}

		switch req.Action {
		case "verify":
			s.applyVerify(shop, adminID)
		case "reject":
			s.applyReject(shop, reason)
		case "under_review":
			s.applyUnderReview(shop)
		}

		if err := s.shopRepo.UpdateVerification(ctx, shop); err != nil {
			response.Failed++
			response.Errors = append(response.Errors, BulkError{ShopID: shopID, Error: err.Error()})
			continue
		}

		response.Processed++
		response.Results = append(response.Results, BulkResult{ShopID: shopID, Action: req.Action})
	}

	logger.Info("Bulk shop verification completed",
		zap.String("action", req.Action),
		zap.Int("processed", response.Processed),
		zap.Int("failed", response.Failed),
		zap.String("event", "bulk_verification_completed"),
	)

	return response, nil
}

func (s *Service) adminSetStatus(ctx context.Context, adminID, shopID uint, status domainShop.VerificationStatus) (*ShopVerificationResponse, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, appErrors.NotFound("Shop not found")
	}

	if status == domainShop.StatusUnderReview {
		s.applyUnderReview(shop)
	} else {
		shop.VerificationStatus = status
	}
	if err := s.shopRepo.UpdateVerification(ctx, shop); err != nil {
		return nil, err
	}

	s.logTransition(shop, status, adminID)
	return ToVerificationResponse(shop), nil
}

func (s *Service) applyVerify(shop *domainShop.Shop, adminID uint) {
	now := time.Now()
	shop.VerificationStatus = domainShop.StatusVerified
	shop.VerifiedAt = &now
	shop.VerifiedBy = &adminID
	shop.RejectionReason = nil
}

func (s *Service) applyReject(shop *domainShop.Shop, reason string) {
	shop.VerificationStatus = domainShop.StatusRejected
	shop.RejectionReason = &reason
	shop.VerifiedAt = nil
	shop.VerifiedBy = nil
}

// The audit pair records the decision that produced VERIFIED, so any
// re-entry into review drops it along with a stale rejection reason.
func (s *Service) applyUnderReview(shop *domainShop.Shop) {
	shop.VerificationStatus = domainShop.StatusUnderReview
	shop.VerifiedAt = nil
	shop.VerifiedBy = nil
	shop.RejectionReason = nil
}

func (s *Service) logTransition(shop *domainShop.Shop, next domainShop.VerificationStatus, adminID uint) {
	metrics.RecordVerificationTransition(string(next))
	fields := []zap.Field{
		zap.Uint("shop_id", shop.ID),
		zap.String("new_status", string(next)),
		zap.Uint("admin_id", adminID),
		zap.String("event", "verification_status_changed"),
	}
	logger.Info("Shop verification status changed", fields...)
}

func (s *Service) requireAdmin(ctx context.Context, adminID uint) error {
	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return appErrors.NotFound("Admin not found")
	}
	if admin.Role != domainUser.RoleAdmin {
		return appErrors.Forbidden("Caller is not an admin")
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

func contactFor(shop *domainShop.Shop, otpType domainShop.OTPType) (value string, verified bool, err error) {
	switch otpType {
	case domainShop.OTPPhone:
		if shop.Phone == nil || *shop.Phone == "" {
			return "", false, appErrors.Precondition("Shop phone number is not set")
		}
		return *shop.Phone, shop.PhoneVerified, nil
	case domainShop.OTPEmail:
		if shop.Email == nil || *shop.Email == "" {
			return "", false, appErrors.Precondition("Shop email is not set")
		}
		return *shop.Email, shop.EmailVerified, nil
	default:
		return "", false, appErrors.Validation("OTP type must be phone or email")
	}
}

// maskContact hides most of the contact value in responses. Phone numbers
// keep the last 4 digits, emails keep the domain.
func maskContact(contact string, otpType domainShop.OTPType) string {
	if otpType == domainShop.OTPPhone {
		if len(contact) <= 4 {
			return contact
		}
		return "****" + contact[len(contact)-4:]
	}

	at := strings.IndexByte(contact, '@')
	if at <= 1 {
		return contact
	}
	return contact[:1] + "***" + contact[at:]
}
