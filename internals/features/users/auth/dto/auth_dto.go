package dto

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Role         string `json:"role"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RequestOTPRequest struct {
	Purpose string `json:"purpose" validate:"required,oneof=verify_email reset_password"`
}

type VerifyOTPRequest struct {
	Purpose string `json:"purpose" validate:"required,oneof=verify_email reset_password"`
	Code    string `json:"code" validate:"required,len=6,numeric"`
}
