package sms

import (
	"context"
	"fmt"

	"github.com/nosregor/learning-platform/internal/models"
)

// ISender delivers verification codes to a user. Implementations must send
// the message templates verbatim; clients display matching copy.
type ISender interface {
	SendVerificationCode(ctx context.Context, user models.User, code string) error
	SendPasswordChangeCode(ctx context.Context, user models.User, code string) error
}

func verificationMessage(product, code string) string {
	return fmt.Sprintf(
		"Your %s verification code is: %s. This code expires in 5 minutes.",
		product, code,
	)
}

func passwordChangeMessage(product, code string) string {
	return fmt.Sprintf(
		"Your %s password change code is: %s. This code expires in 5 minutes.",
		product, code,
	)
}
