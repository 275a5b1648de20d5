package services

import (
	"context"
	"errors"
	"net/http"

	apierrors "github.com/nosregor/learning-platform/internal/errors"
	"github.com/nosregor/learning-platform/internal/events"
	"github.com/nosregor/learning-platform/internal/helpers"
	"github.com/nosregor/learning-platform/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestPasswordChange starts the password change flow for the
// authenticated user: a fresh code goes out over SMS and the caller
// receives an opaque token binding the follow-up request to this user.
func (s AuthService) RequestPasswordChange(
	logger *zap.Logger,
	claims models.UserClaims,
	_ uuid.UUIDs,
) (models.PasswordChangeRequestResponse, error) {
	ctx := context.Background()

	var user models.User
	result := s.DB.Where("id = ?", claims.UserID).Limit(1).Find(&user)
	if result.Error != nil {
		return models.PasswordChangeRequestResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.PasswordChangeRequestResponse{},
			apierrors.NewAPIError(http.StatusUnauthorized, apierrors.ErrInvalidToken)
	}

	code, err := helpers.GenerateCode()
	if err != nil {
		return models.PasswordChangeRequestResponse{}, err
	}
	if err := s.Codes.IssuePasswordChangeCode(ctx, user.ID.String(), code); err != nil {
		logger.Error("Failed to store password change code", zap.Error(err))
		return models.PasswordChangeRequestResponse{},
			apierrors.NewAPIError(http.StatusBadGateway, apierrors.ErrVerificationUnavailable)
	}

	if err := s.Sender.SendPasswordChangeCode(ctx, user, code); err != nil {
		logger.Error("Failed to deliver password change code", zap.Error(err))
		if revokeErr := s.Codes.RevokePasswordChangeCode(ctx, user.ID.String()); revokeErr != nil {
			logger.Error("Failed to revoke undelivered code", zap.Error(revokeErr))
		}
		var apiErr *apierrors.APIError
		if errors.As(err, &apiErr) {
			return models.PasswordChangeRequestResponse{}, apiErr
		}
		return models.PasswordChangeRequestResponse{},
			apierrors.NewAPIError(http.StatusBadGateway, apierrors.ErrSMSDeliveryFailed)
	}

	changeToken, err := s.Pending.IssuePasswordChange(ctx, user.ID.String())
	if err != nil {
		logger.Error("Failed to issue password change token", zap.Error(err))
		return models.PasswordChangeRequestResponse{},
			apierrors.NewAPIError(http.StatusBadGateway, apierrors.ErrVerificationUnavailable)
	}

	logger.Info("Password change code sent", zap.String("user_id", user.ID.String()))

	return models.PasswordChangeRequestResponse{
		Message:             "Verification code sent",
		PasswordChangeToken: changeToken,
	}, nil
}

// ChangePassword completes the flow: the token identifies the user, the
// code proves phone possession, and only then is the new password hashed
// and persisted.
func (s AuthService) ChangePassword(
	logger *zap.Logger,
	_ models.UserClaims,
	_ uuid.UUIDs,
	body models.ChangePasswordBody,
) (models.MessageResponse, error) {
	ctx := context.Background()

	userID, ok, err := s.Pending.ResolvePasswordChange(ctx, body.PasswordChangeToken)
	if err != nil {
		logger.Error("Failed to resolve password change token", zap.Error(err))
		return models.MessageResponse{},
			apierrors.NewAPIError(http.StatusBadGateway, apierrors.ErrVerificationUnavailable)
	}
	if !ok {
		return models.MessageResponse{},
			apierrors.NewAPIError(http.StatusUnauthorized, apierrors.ErrInvalidToken)
	}

	valid, err := s.Codes.VerifyPasswordChangeCode(ctx, userID, body.Code)
	if err != nil {
		logger.Error("Failed to verify password change code", zap.Error(err))
		return models.MessageResponse{},
			apierrors.NewAPIError(http.StatusBadGateway, apierrors.ErrVerificationUnavailable)
	}
	if !valid {
		logger.Warn("Password change code rejected", zap.String("user_id", userID))
		return models.MessageResponse{},
			apierrors.NewAPIError(http.StatusUnauthorized, apierrors.ErrInvalidCode)
	}

	var user models.User
	result := s.DB.Where("id = ?", userID).Limit(1).Find(&user)
	if result.Error != nil {
		return models.MessageResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.MessageResponse{},
			apierrors.NewAPIError(http.StatusUnauthorized, apierrors.ErrInvalidToken)
	}

	hash, err := helpers.CreateHash(body.NewPassword)
	if err != nil {
		return models.MessageResponse{}, err
	}
	if err := s.DB.Model(&user).Update("hashed_password", hash).Error; err != nil {
		return models.MessageResponse{}, err
	}

	if err := s.Pending.InvalidatePasswordChange(ctx, body.PasswordChangeToken); err != nil {
		logger.Warn("Failed to invalidate password change token", zap.Error(err))
	}

	logger.Info("Password changed", zap.String("user_id", user.ID.String()))
	s.publishAudit(logger, events.PasswordChanged, user)

	return models.MessageResponse{Message: "Password changed successfully"}, nil
}
