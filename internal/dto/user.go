package dto

// ── usuários ──

// CreateUserRequest cadastro de usuário
type CreateUserRequest struct {
	Username   string          `json:"username"   binding:"required,min=3,max=100"`
	Nome       string          `json:"nome"       binding:"omitempty,max=150"`
	Senha      string          `json:"senha"      binding:"required,max=128"`
	Role       string          `json:"role"       binding:"required,oneof=user admin"`
	Permissoes map[string]bool `json:"permissoes"`
}

// UpdateUserRequest alteração parcial; campos nulos ficam como estão.
// Permissoes substitui o mapa de sobreposição inteiro quando presente.
type UpdateUserRequest struct {
	Nome         *string         `json:"nome"          binding:"omitempty,max=150"`
	Role         *string         `json:"role"          binding:"omitempty,oneof=user admin"`
	Ativo        *bool           `json:"ativo"`
	Permissoes   map[string]bool `json:"permissoes"`
	ResetarSenha bool            `json:"resetar_senha"`
}

// UserResponse usuário sem hash de senha
type UserResponse struct {
	ID            int64           `json:"id"`
	Username      string          `json:"username"`
	Nome          string          `json:"nome"`
	Role          string          `json:"role"`
	Ativo         bool            `json:"ativo"`
	Permissoes    map[string]bool `json:"permissoes"`              // efetivas
	Sobreposicoes map[string]bool `json:"sobreposicoes,omitempty"` // gravadas
	Concedidas    []string        `json:"concedidas"`
	CreatedAt     string          `json:"created_at,omitempty"`
}
