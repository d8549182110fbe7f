package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64" comment:"用户名"`
	Password string `json:"password" validate:"required,max=128" comment:"密码"`
}

type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
	Username    string `json:"username"`
}
