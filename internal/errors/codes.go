package apierrors

// HTTP 401 Unauthorized.
const (
	// ErrInvalidCredentials is returned on email/password mismatch without
	// revealing whether the email exists.
	ErrInvalidCredentials = "INVALID_CREDENTIALS"
	// ErrInvalidToken covers missing, malformed, and expired pending or
	// password-change tokens.
	ErrInvalidToken = "INVALID_TOKEN"
	// ErrInvalidCode covers code mismatch, expiry, and attempt exhaustion.
	ErrInvalidCode = "INVALID_CODE"
)

// HTTP 409 Conflict.
const (
	ErrEmailTaken = "EMAIL_TAKEN"
)

// HTTP 502 Bad Gateway.
const (
	// ErrSMSDeliveryFailed means the SMS provider rejected the send after
	// the transport-level retries were exhausted.
	ErrSMSDeliveryFailed = "SMS_DELIVERY_FAILED"
	// ErrVerificationUnavailable means the verification code backend could
	// not be reached.
	ErrVerificationUnavailable = "VERIFICATION_UNAVAILABLE"
)

// HTTP 500 Internal Server Error.
const (
	ErrMisconfiguredSMS = "MISCONFIGURED_SMS"
)
