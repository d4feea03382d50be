package dto

// CheckoutRequest represents a checkout initiation request
type CheckoutRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	CPF   string `json:"cpf"`
	Phone string `json:"phone"`
}

// CheckoutResponse carries the hosted checkout redirect target
type CheckoutResponse struct {
	URL string `json:"url"`
}

// SetPasswordRequest represents a credential claim request
type SetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// SetPasswordResponse is returned on a successful claim
type SetPasswordResponse struct {
	OK        bool   `json:"ok"`
	RequestID string `json:"requestId"`
}

// ForgotPasswordRequest represents a password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// LoginRequest represents a portal login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents a successful portal login
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int      `json:"expires_in"`
	User        UserInfo `json:"user"`
}

// UserInfo represents user information in response
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ProfileResponse represents the student profile document
type ProfileResponse struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	CPF             string `json:"cpf"`
	Phone           string `json:"phone"`
	IsActive        bool   `json:"is_active"`
	PurchasedCourse bool   `json:"purchased_course"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// WebhookResponse acknowledges a payment processor event
type WebhookResponse struct {
	Received bool `json:"received"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}
