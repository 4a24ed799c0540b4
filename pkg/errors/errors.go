package errors

import (
	"errors"
	"fmt"
)

// Tipos de erro do domínio. Os erros de cada serviço embrulham um destes
// com %w, e a camada HTTP decide o status com errors.Is.
var (
	// ErrValidation entrada inválida ou faltando
	ErrValidation = errors.New("dados inválidos")
	// ErrPermissionDenied usuário sem permissão para a ação
	ErrPermissionDenied = errors.New("permissão negada")
	// ErrNotFound registro inexistente
	ErrNotFound = errors.New("registro não encontrado")
	// ErrStorage falha de banco ou armazenamento
	ErrStorage = errors.New("falha de armazenamento")
	// ErrConflict violação de unicidade
	ErrConflict = errors.New("registro já existe")
)

// New cria um erro de domínio do tipo kind com mensagem própria.
func New(kind error, msg string) error {
	return &domainError{kind: kind, msg: msg}
}

// Storage embrulha uma falha de persistência preservando a causa.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

// Kind devolve o tipo de domínio do erro, ou nil quando não houver.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrPermissionDenied, ErrNotFound, ErrConflict, ErrStorage} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string { return e.msg }

func (e *domainError) Unwrap() error { return e.kind }
