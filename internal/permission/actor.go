package permission

// Actor usuário que executa a operação, com permissões já resolvidas.
// É passado explicitamente a cada operação do núcleo.
type Actor struct {
	UserID   int64
	Username string
	Name     string
	Role     string
	Perms    Set
}

// NewActor resolve as permissões efetivas do usuário.
func NewActor(userID int64, username, name, role string, overrides map[string]bool) Actor {
	return Actor{
		UserID:   userID,
		Username: username,
		Name:     name,
		Role:     role,
		Perms:    EffectivePermissions(role, overrides),
	}
}

// Label nome gravado como responsável e na auditoria.
func (a Actor) Label() string {
	if a.Username != "" {
		return a.Username
	}
	return a.Name
}

// IsAdmin papel admin.
func (a Actor) IsAdmin() bool { return a.Role == "admin" }
