package models

type RegisterBody struct {
	Name         string `json:"name"          validate:"required,min=2,max=100"`
	Email        string `json:"email"         validate:"required,email,max=254"`
	MobileNumber string `json:"mobile_number" validate:"required,e164"`
	Password     string `json:"password"      validate:"required,min=8,max=128"`
}

type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type AuthLoginBody struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

// AuthLoginResponse carries the pending token only. The verification code
// travels over SMS and is never part of an HTTP response.
type AuthLoginResponse struct {
	Message         string `json:"message"`
	Pending2FAToken string `json:"pending_2fa_token"`
}

type Verify2FABody struct {
	Pending2FAToken string `json:"pending_2fa_token" validate:"required,max=128"`
	Code            string `json:"code"              validate:"required,len=6,numeric"`
}

type Verify2FAResponse struct {
	Message      string       `json:"message"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type AuthRefreshBody struct {
	RefreshToken string `json:"refresh_token" validate:"required,max=2048"`
}

type AuthRefreshResponse struct {
	AccessToken string `json:"access_token"`
}

type PasswordChangeRequestResponse struct {
	Message             string `json:"message"`
	PasswordChangeToken string `json:"password_change_token"`
}

type ChangePasswordBody struct {
	PasswordChangeToken string `json:"password_change_token" validate:"required,max=128"`
	Code                string `json:"code"                  validate:"required,len=6,numeric"`
	NewPassword         string `json:"new_password"          validate:"required,min=8,max=128"`
}

type UpdateProfileBody struct {
	Name  string `json:"name"  validate:"omitempty,min=2,max=100"`
	Email string `json:"email" validate:"omitempty,email,max=254"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
