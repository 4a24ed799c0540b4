package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/repository"
	pkgerrors "acompanhamento-obras/pkg/errors"
)

// ── erros compartilhados ──

var (
	ErrReasonRequired       = pkgerrors.New(pkgerrors.ErrValidation, "motivo obrigatório")
	ErrInvalidDate          = pkgerrors.New(pkgerrors.ErrValidation, "data inválida, use AAAA-MM-DD")
	ErrPhaseRequired        = pkgerrors.New(pkgerrors.ErrValidation, "etapa obrigatória")
	ErrConfirmationRequired = pkgerrors.New(pkgerrors.ErrValidation, "digite EXCLUIR para confirmar a exclusão")

	ErrProjectNotFound = pkgerrors.New(pkgerrors.ErrNotFound, "obra não encontrada")
	ErrPhaseNotFound   = pkgerrors.New(pkgerrors.ErrNotFound, "etapa não encontrada")
	ErrHouseNotFound   = pkgerrors.New(pkgerrors.ErrNotFound, "casa não encontrada")
	ErrServiceNotFound = pkgerrors.New(pkgerrors.ErrNotFound, "serviço não encontrado")
)

// confirmationTokens palavras aceitas para confirmar exclusão em cascata
var confirmationTokens = []string{"EXCLUIR", "DELETE"}

func confirmed(token string) bool {
	token = strings.TrimSpace(token)
	for _, t := range confirmationTokens {
		if strings.EqualFold(token, t) {
			return true
		}
	}
	return false
}

// ── transação ──

// withTx executa fn numa transação; sem conexão real (dublês de teste)
// fn recebe o próprio agregado.
func withTx(ctx context.Context, repo *repository.Repository, logger *zap.Logger, fn func(r *repository.Repository) error) (err error) {
	tx, err := repo.BeginTx(ctx)
	if err != nil {
		logger.Error("falha ao abrir transação", zap.Error(err))
		return pkgerrors.Storage(err)
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	if err := fn(repo.WithTx(tx)); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			logger.Error("falha ao confirmar transação", zap.Error(err))
			return pkgerrors.Storage(err)
		}
	}
	return nil
}

// lookupErr traduz registro inexistente para notFound e embrulha o resto como falha de armazenamento.
func lookupErr(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return pkgerrors.Storage(err)
}

// lookupLogged como lookupErr, registrando no log as falhas que não são "não encontrado".
func lookupLogged(logger *zap.Logger, err, notFound error, entity string, id int64) error {
	mapped := lookupErr(err, notFound)
	if mapped != notFound {
		logger.Error("falha ao consultar "+entity, zap.Int64("id", id), zap.Error(err))
	}
	return mapped
}

// writeErr conflito de unicidade vira conflict; o resto é falha de armazenamento.
func writeErr(err, conflict error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) && conflict != nil {
		return conflict
	}
	return pkgerrors.Storage(err)
}

// ── datas ──

var dateLayouts = []string{dto.DateLayout, "02/01/2006"}

// parseDate aceita AAAA-MM-DD ou DD/MM/AAAA
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// parseOptionalDate vazio resulta em nil
func parseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dto.DateLayout)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dto.DateTimeLayout)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func int64Ptr(v int64) *int64 { return &v }
