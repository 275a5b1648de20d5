// Package services implements the HTTP-facing business logic. Each service
// is a struct with injected dependencies and a Routes() method mounted by
// the bootstrap.
package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/nosregor/learning-platform/internal/cache"
	apierrors "github.com/nosregor/learning-platform/internal/errors"
	"github.com/nosregor/learning-platform/internal/events"
	"github.com/nosregor/learning-platform/internal/handlers"
	"github.com/nosregor/learning-platform/internal/helpers"
	"github.com/nosregor/learning-platform/internal/middlewares"
	"github.com/nosregor/learning-platform/internal/models"
	"github.com/nosregor/learning-platform/internal/sms"
	"github.com/nosregor/learning-platform/internal/tokens"
	"github.com/nosregor/learning-platform/internal/verification"

	"github.com/alexedwards/argon2id"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthService owns registration, the two-step login flow, token refresh,
// the password change flow and the profile endpoints.
type AuthService struct {
	DB         *gorm.DB
	Codes      *verification.Codes
	Pending    *tokens.PendingTokens
	AuthConfig models.AuthConfig
	Sender     sms.ISender
	Publisher  events.IPublisher
}

func NewAuthService(
	db *gorm.DB,
	store cache.ICodeStore,
	authConfig models.AuthConfig,
	sender sms.ISender,
	publisher events.IPublisher,
) AuthService {
	return AuthService{
		DB:         db,
		Codes:      verification.NewCodes(store),
		Pending:    tokens.NewPendingTokens(store),
		AuthConfig: authConfig,
		Sender:     sender,
		Publisher:  publisher,
	}
}

func (s AuthService) Routes() chi.Router {
	router := chi.NewRouter()
	router.With(middlewares.Validate[models.RegisterBody]).
		Post("/register", handlers.CreateHandler(s.Register))
	router.With(middlewares.Validate[models.AuthLoginBody]).
		Post("/login", handlers.CreateHandler(s.Login))
	router.With(middlewares.Validate[models.Verify2FABody]).
		Post("/verify-2fa", handlers.CreateHandler(s.VerifyTwoFactor))
	router.With(middlewares.Validate[models.AuthRefreshBody]).
		Post("/refresh", handlers.CreateHandler(s.Refresh))
	router.Post("/request-password-change", handlers.GetHandler(s.RequestPasswordChange))
	router.With(middlewares.Validate[models.ChangePasswordBody]).
		Post("/change-password", handlers.CreateHandler(s.ChangePassword))
	router.Get("/profile", handlers.GetHandler(s.GetProfile))
	router.With(middlewares.Validate[models.UpdateProfileBody]).
		Patch("/profile", handlers.CreateHandler(s.UpdateProfile))
	return router
}

func (s AuthService) publishAudit(logger *zap.Logger, action string, user models.User) {
	event := events.NewAuditEvent(action, user.ID.String(), user.Email)
	if err := events.PublishAudit(s.Publisher, event); err != nil {
		logger.Error("Failed to publish audit event",
			zap.String("action", action), zap.Error(err))
	}
}

// Register creates a new user account. The account is usable immediately,
// phone number possession is proven at first login.
func (s AuthService) Register(
	logger *zap.Logger,
	_ models.UserClaims,
	_ uuid.UUIDs,
	body models.RegisterBody,
) (models.RegisterResponse, error) {
	var existing models.User
	result := s.DB.Where("email = ?", body.Email).Limit(1).Find(&existing)
	if result.Error != nil {
		return models.RegisterResponse{}, result.Error
	}
	if result.RowsAffected > 0 {
		return models.RegisterResponse{},
			apierrors.NewAPIError(http.StatusConflict, apierrors.ErrEmailTaken)
	}

	hash, err := helpers.CreateHash(body.Password)
	if err != nil {
		return models.RegisterResponse{}, err
	}

	user := models.User{
		Name:           body.Name,
		Email:          body.Email,
		MobileNumber:   body.MobileNumber,
		HashedPassword: hash,
		Role:           models.RoleStudent,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return models.RegisterResponse{}, err
	}

	logger.Info("User registered", zap.String("user_id", user.ID.String()))
	s.publishAudit(logger, events.UserRegistered, user)

	return models.RegisterResponse{
		Message: "Registration successful",
		User:    user.ToResponse(),
	}, nil
}

// Login validates the credentials and, on success, issues a verification
// code over SMS together with a pending token. No session exists until the
// code is verified. If the SMS cannot be delivered the code is revoked
// again so the user is not left with a live code they never received.
func (s AuthService) Login(
	logger *zap.Logger,
	_ models.UserClaims,
	_ uuid.UUIDs,
	body models.AuthLoginBody,
) (models.AuthLoginResponse, error) {
	ctx := context.Background()

	var user models.User
	result := s.DB.Where("email = ?", body.Email).Limit(1).Find(&user)
	if result.Error != nil {
		return models.AuthLoginResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.AuthLoginResponse{},
			apierrors.NewAPIError(http.StatusUnauthorized, apierrors.ErrInvalidCredentials)
	}

	match, err := argon2id.ComparePasswordAndHash(body.Password, user.HashedPassword)
	if err != nil || !match {
		return models.AuthLoginResponse{},
			apierrors.NewAPIError(http.StatusUnauthorized, apierrors.ErrInvalidCredentials)
	}

	code, err := helpers.GenerateCode()
	if err != nil {
		return models.AuthLoginResponse{}, err
	}
	if err := s.Codes.IssueTwoFactorCode(ctx, user.ID.String(), code); err != nil {
		logger.Error("Failed to store verification code", zap.Error(err))
		return models.AuthLoginResponse{},
			apierrors.NewAPIError(http.StatusBadGateway, apierrors.ErrVerificationUnavailable)
	}

	if err := s.Sender.SendVerificationCode(ctx, user, code); err != nil {
		logger.Error("Failed to deliver verification code", zap.Error(err))
		if revokeErr := s.Codes.RevokeTwoFactorCode(ctx, user.ID.String()); revokeErr != nil {
			logger.Error("Failed to revoke undelivered code", zap.Error(revokeErr))
		}
		var apiErr *apierrors.APIError
		if errors.As(err, &apiErr) {
			return models.AuthLoginResponse{}, apiErr
		}
		return models.AuthLoginResponse{},
			apierrors.NewAPIError(http.StatusBadGateway, apierrors.ErrSMSDeliveryFailed)
	}

	pendingToken, err := s.Pending.IssueAuth(ctx, user.ID.String())
	if err != nil {
		logger.Error("Failed to issue pending token", zap.Error(err))
		return models.AuthLoginResponse{},
			apierrors.NewAPIError(http.StatusBadGateway, apierrors.ErrVerificationUnavailable)
	}

	logger.Info("Verification code sent", zap.String("user_id", user.ID.String()))
	s.publishAudit(logger, events.LoginCodeIssued, user)

	return models.AuthLoginResponse{
		Message:         "Verification code sent",
		Pending2FAToken: pendingToken,
	}, nil
}

// VerifyTwoFactor completes the login: it resolves the pending token,
// consumes the verification code and mints the access and refresh tokens.
func (s AuthService) VerifyTwoFactor(
	logger *zap.Logger,
	_ models.UserClaims,
	_ uuid.UUIDs,
	body models.Verify2FABody,
) (models.Verify2FAResponse, error) {
	ctx := context.Background()

	userID, ok, err := s.Pending.ResolveAuth(ctx, body.Pending2FAToken)
	if err != nil {
		logger.Error("Failed to resolve pending token", zap.Error(err))
		return models.Verify2FAResponse{},
			apierrors.NewAPIError(http.StatusBadGateway, apierrors.ErrVerificationUnavailable)
	}
	if !ok {
		return models.Verify2FAResponse{},
			apierrors.NewAPIError(http.StatusUnauthorized, apierrors.ErrInvalidToken)
	}

	valid, err := s.Codes.VerifyTwoFactorCode(ctx, userID, body.Code)
	if err != nil {
		logger.Error("Failed to verify code", zap.Error(err))
		return models.Verify2FAResponse{},
			apierrors.NewAPIError(http.StatusBadGateway, apierrors.ErrVerificationUnavailable)
	}
	if !valid {
		left, _ := s.Codes.TwoFactorAttemptsLeft(ctx, userID)
		logger.Warn("Verification failed",
			zap.String("user_id", userID), zap.Int("attempts_left", left))
		return models.Verify2FAResponse{},
			apierrors.NewAPIError(http.StatusUnauthorized, apierrors.ErrInvalidCode)
	}

	var user models.User
	result := s.DB.Where("id = ?", userID).Limit(1).Find(&user)
	if result.Error != nil {
		return models.Verify2FAResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Verify2FAResponse{},
			apierrors.NewAPIError(http.StatusUnauthorized, apierrors.ErrInvalidToken)
	}

	// The code is already consumed, so a replayed pending token cannot
	// complete anyway. A failed invalidation is therefore only logged.
	if err := s.Pending.InvalidateAuth(ctx, body.Pending2FAToken); err != nil {
		logger.Warn("Failed to invalidate pending token", zap.Error(err))
	}

	accessToken, err := helpers.NewAccessToken(
		s.AuthConfig.JWTSecret, &user, s.AuthConfig.AccessTokenExpiry)
	if err != nil {
		logger.Error("Failed to generate access token", zap.Error(err))
		return models.Verify2FAResponse{}, apierrors.ErrGenerateAccessTokenFailed
	}
	refreshToken, err := helpers.NewRefreshToken(
		s.AuthConfig.JWTSecret, &user, s.AuthConfig.RefreshTokenExpiry)
	if err != nil {
		logger.Error("Failed to generate refresh token", zap.Error(err))
		return models.Verify2FAResponse{}, apierrors.ErrGenerateRefreshTokenFailed
	}

	logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	s.publishAudit(logger, events.UserLoggedIn, user)

	return models.Verify2FAResponse{
		Message:      "Login successful",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.ToResponse(),
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s AuthService) Refresh(
	logger *zap.Logger,
	_ models.UserClaims,
	_ uuid.UUIDs,
	body models.AuthRefreshBody,
) (models.AuthRefreshResponse, error) {
	claims, err := helpers.ParseRefreshToken(s.AuthConfig.JWTSecret, body.RefreshToken)
	if err != nil {
		return models.AuthRefreshResponse{},
			apierrors.NewAPIError(http.StatusUnauthorized, apierrors.ErrInvalidToken)
	}

	var user models.User
	result := s.DB.Where("id = ?", claims.UserID).Limit(1).Find(&user)
	if result.Error != nil {
		return models.AuthRefreshResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.AuthRefreshResponse{},
			apierrors.NewAPIError(http.StatusUnauthorized, apierrors.ErrInvalidToken)
	}

	accessToken, err := helpers.NewAccessToken(
		s.AuthConfig.JWTSecret, &user, s.AuthConfig.AccessTokenExpiry)
	if err != nil {
		logger.Error("Failed to generate access token", zap.Error(err))
		return models.AuthRefreshResponse{}, apierrors.ErrGenerateAccessTokenFailed
	}

	return models.AuthRefreshResponse{AccessToken: accessToken}, nil
}

// GetProfile returns the authenticated user's profile.
func (s AuthService) GetProfile(
	_ *zap.Logger,
	claims models.UserClaims,
	_ uuid.UUIDs,
) (models.UserResponse, error) {
	var user models.User
	result := s.DB.Where("id = ?", claims.UserID).Limit(1).Find(&user)
	if result.Error != nil {
		return models.UserResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.UserResponse{},
			apierrors.NewAPIError(http.StatusUnauthorized, apierrors.ErrInvalidToken)
	}
	return user.ToResponse(), nil
}

// UpdateProfile changes the name and/or email of the authenticated user.
func (s AuthService) UpdateProfile(
	logger *zap.Logger,
	claims models.UserClaims,
	_ uuid.UUIDs,
	body models.UpdateProfileBody,
) (models.UserResponse, error) {
	var user models.User
	result := s.DB.Where("id = ?", claims.UserID).Limit(1).Find(&user)
	if result.Error != nil {
		return models.UserResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.UserResponse{},
			apierrors.NewAPIError(http.StatusUnauthorized, apierrors.ErrInvalidToken)
	}

	if body.Email != "" && body.Email != user.Email {
		var existing models.User
		taken := s.DB.Where("email = ?", body.Email).Limit(1).Find(&existing)
		if taken.Error != nil {
			return models.UserResponse{}, taken.Error
		}
		if taken.RowsAffected > 0 {
			return models.UserResponse{},
				apierrors.NewAPIError(http.StatusConflict, apierrors.ErrEmailTaken)
		}
		user.Email = body.Email
	}
	if body.Name != "" {
		user.Name = body.Name
	}

	if err := s.DB.Save(&user).Error; err != nil {
		return models.UserResponse{}, err
	}

	logger.Info("Profile updated", zap.String("user_id", user.ID.String()))
	return user.ToResponse(), nil
}
