package dto

// ── autenticação ──

// LoginRequest credenciais
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=128"`
}

// RefreshRequest renovação do token de acesso
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest troca da própria senha
type ChangePasswordRequest struct {
	SenhaAtual  string `json:"senha_atual" binding:"required"`
	NovaSenha   string `json:"nova_senha"  binding:"required,max=128"`
	Confirmacao string `json:"confirmacao" binding:"required"`
}

// TokenResponse par de tokens
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // segundos
	User         UserResponse `json:"user"`
}
