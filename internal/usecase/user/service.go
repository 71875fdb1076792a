package user

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"marketplace-backend/internal/config"
	domainUser "marketplace-backend/internal/domain/user"
	"marketplace-backend/internal/logger"
	appErrors "marketplace-backend/pkg/errors"
	"marketplace-backend/pkg/utils"
)

const (
	emailTokenExpiry    = 24 * time.Hour
	passwordTokenExpiry = 1 * time.Hour
)

// Service implements account management: registration, session tokens,
// single-use email and password-reset tokens, and admin moderation.
type Service struct {
	userRepo  domainUser.Repository
	tokenRepo domainUser.AuthTokenRepository
	revoked   domainUser.RevocationStore
	config    *config.Config
}

func NewService(
	userRepo domainUser.Repository,
	tokenRepo domainUser.AuthTokenRepository,
	revoked domainUser.RevocationStore,
	cfg *config.Config,
) *Service {
	return &Service{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		revoked:   revoked,
		config:    cfg,
	}
}

// Register creates a new buyer or seller account. Admin accounts are
// provisioned out of band, never through this endpoint.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.Validation(err.Error())
	}

	email := utils.SanitizeEmail(req.Email)
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, appErrors.Conflict("Email is already registered")
	}
	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, appErrors.Conflict("Username is already taken")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domainUser.User{
		Username:     utils.SanitizeString(req.Username),
		Email:        email,
		PasswordHash: hash,
		Role:         domainUser.Role(req.Role),
		Status:       domainUser.StatusActive,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Location:     req.Location,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	logger.Info("User registered",
		zap.Uint("user_id", user.ID),
		zap.String("role", req.Role),
		zap.String("event", "user_registered"),
	)

	return &AuthResponse{User: ToUserResponse(user), Tokens: tokens}, nil
}

// Login authenticates by email and password and issues a session pair.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid email or password", nil)
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid email or password", nil)
	}
	if !user.IsActive() {
		return nil, appErrors.Forbidden("Account is not active")
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn("Failed to update last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	logger.Info("User logged in",
		zap.Uint("user_id", user.ID),
		zap.String("event", "user_login"),
	)

	return &AuthResponse{User: ToUserResponse(user), Tokens: tokens}, nil
}

// Refresh rotates a session: the presented refresh token is revoked and a
// fresh pair issued, so a stolen refresh token stops working after one use.
func (s *Service) Refresh(ctx context.Context, req *RefreshRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	claims, err := utils.ValidateToken(req.RefreshToken, s.config.JWT.Secret)
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid refresh token", nil)
	}
	revoked, err := s.revoked.IsRevoked(ctx, req.RefreshToken)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, appErrors.Forbidden("Refresh token has been revoked")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, appErrors.NotFound("User not found")
	}
	if !user.IsActive() {
		return nil, appErrors.Forbidden("Account is not active")
	}

	if err := s.revoked.Revoke(ctx, req.RefreshToken, s.remainingTTL(claims)); err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: ToUserResponse(user), Tokens: tokens}, nil
}

// Logout revokes the presented tokens until their natural expiry.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	for _, token := range []string{accessToken, refreshToken} {
		if token == "" {
			continue
		}
		claims, err := utils.ValidateToken(token, s.config.JWT.Secret)
		if err != nil {
			continue
		}
		if err := s.revoked.Revoke(ctx, token, s.remainingTTL(claims)); err != nil {
			return err
		}
	}
	return nil
}

// Profile returns the caller's own account.
func (s *Service) Profile(ctx context.Context, userID uint) (*UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, appErrors.NotFound("User not found")
	}
	return ToUserResponse(user), nil
}

// UpdateProfile edits the caller's own account fields.
func (s *Service) UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, appErrors.NotFound("User not found")
	}

	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	if req.Phone != nil {
		phone := utils.SanitizePhone(*req.Phone)
		user.Phone = &phone
	}
	if req.Location != nil {
		user.Location = req.Location
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *Service) ChangePassword(ctx context.Context, userID uint, req *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return appErrors.NotFound("User not found")
	}
	if !utils.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return appErrors.NewAppError(appErrors.CodeValidation, "Current password is incorrect", nil)
	}
	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		return appErrors.Validation(err.Error())
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	return s.userRepo.Update(ctx, user)
}

// ForgotPassword issues a single-use reset token. The response is the
// same whether or not the email exists, so accounts cannot be enumerated.
func (s *Service) ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) (*TokenResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	expiresAt := time.Now().Add(passwordTokenExpiry)
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		return &TokenResponse{ExpiresAt: expiresAt}, nil
	}

	token, err := s.issueAuthToken(ctx, user.ID, domainUser.TokenPasswordReset, passwordTokenExpiry)
	if err != nil {
		return nil, err
	}

	logger.Info("Password reset requested",
		zap.Uint("user_id", user.ID),
		zap.String("event", "password_reset_requested"),
	)

	// The token is returned for development only; production delivers it
	// by email.
	return &TokenResponse{Token: token, ExpiresAt: expiresAt}, nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *Service) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	token, err := s.consumeAuthToken(ctx, req.Token, domainUser.TokenPasswordReset)
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		return appErrors.NotFound("User not found")
	}
	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		return appErrors.Validation(err.Error())
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	logger.Info("Password reset completed",
		zap.Uint("user_id", user.ID),
		zap.String("event", "password_reset_completed"),
	)
	return nil
}

// RequestEmailVerification issues a single-use email verification token.
func (s *Service) RequestEmailVerification(ctx context.Context, userID uint) (*TokenResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, appErrors.NotFound("User not found")
	}

	token, err := s.issueAuthToken(ctx, user.ID, domainUser.TokenEmailVerification, emailTokenExpiry)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{Token: token, ExpiresAt: time.Now().Add(emailTokenExpiry)}, nil
}

// VerifyEmail consumes a verification token and activates the account if
// it was pending.
func (s *Service) VerifyEmail(ctx context.Context, req *VerifyEmailRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	token, err := s.consumeAuthToken(ctx, req.Token, domainUser.TokenEmailVerification)
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		return appErrors.NotFound("User not found")
	}
	if user.Status == domainUser.StatusPendingVerification {
		user.Status = domainUser.StatusActive
		user.UpdatedAt = time.Now()
		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}
	}
	return nil
}

// ListUsers is the admin account overview.
func (s *Service) ListUsers(ctx context.Context) ([]*UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*UserResponse, len(users))
	for i, u := range users {
		responses[i] = ToUserResponse(u)
	}
	return responses, nil
}

// SetStatus is the admin moderation switch for an account.
func (s *Service) SetStatus(ctx context.Context, userID uint, req *SetStatusRequest) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, appErrors.NotFound("User not found")
	}

	user.Status = domainUser.Status(req.Status)
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User status changed",
		zap.Uint("user_id", userID),
		zap.String("status", req.Status),
		zap.String("event", "user_status_changed"),
	)
	return ToUserResponse(user), nil
}

func (s *Service) issueTokens(user *domainUser.User) (*utils.TokenPair, error) {
	return utils.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.config.JWT.Secret,
		s.config.JWT.ExpiryHours,
		s.config.JWT.RefreshExpiryHours,
	)
}

func (s *Service) remainingTTL(claims *utils.Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return time.Duration(s.config.JWT.RefreshExpiryHours) * time.Hour
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 0 {
		ttl = 0
	}
	return ttl
}

func (s *Service) issueAuthToken(ctx context.Context, userID uint, tokenType domainUser.TokenType, expiry time.Duration) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	value := hex.EncodeToString(raw)

	token := &domainUser.AuthToken{
		UserID:    userID,
		Token:     value,
		TokenType: tokenType,
		ExpiresAt: time.Now().Add(expiry),
		CreatedAt: time.Now(),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return "", err
	}
	return value, nil
}

func (s *Service) consumeAuthToken(ctx context.Context, value string, tokenType domainUser.TokenType) (*domainUser.AuthToken, error) {
	token, err := s.tokenRepo.GetByToken(ctx, value, tokenType)
	if err != nil {
		return nil, appErrors.NotFound("Invalid or unknown token")
	}
	if token.IsUsed {
		return nil, appErrors.Conflict(domainUser.ErrTokenUsed.Error())
	}
	if token.IsExpired() {
		return nil, appErrors.Precondition(domainUser.ErrTokenExpired.Error())
	}
	if err := s.tokenRepo.MarkUsed(ctx, token.ID); err != nil {
		return nil, err
	}
	return token, nil
}
