package identity

import "time"

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=200"`
}

// LoginResult is a signed access token for the librarian
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username"`
}

// LogoutInput identifies the token being revoked
type LogoutInput struct {
	Username  string
	TokenJTI  string
	ExpiresAt time.Time
}

// CurrentUserResult describes the authenticated librarian
type CurrentUserResult struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
