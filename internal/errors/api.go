package apierrors

import "fmt"

// APIError is an error that maps directly to an HTTP response:
// a status code plus a stable machine-readable error code.
type APIError struct {
	Status int
	Code   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Code)
}

func NewAPIError(status int, code string) *APIError {
	return &APIError{Status: status, Code: code}
}

var (
	ErrGenerateAccessTokenFailed  = NewAPIError(500, "GENERATE_ACCESS_TOKEN_FAILED")
	ErrGenerateRefreshTokenFailed = NewAPIError(500, "GENERATE_REFRESH_TOKEN_FAILED")
)
