package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"acompanhamento-obras/internal/model"
	"acompanhamento-obras/internal/permission"
	"acompanhamento-obras/internal/repository"
	pkgerrors "acompanhamento-obras/pkg/errors"
)

// Ações gravadas na auditoria
const (
	AuditActivatePhase    = "ativar_frente"
	AuditDeactivatePhase  = "desativar_frente"
	AuditStartServices    = "iniciar_servicos_multiplos"
	AuditFinishService    = "finalizar_servico"
	AuditVoidLaunch       = "anular_lancamento"
	AuditEditServiceState = "editar_estado_servico"
	AuditDeactivateHouse  = "desativar_casa"
	AuditCreateProject    = "criar_obra"
	AuditDeleteProject    = "excluir_obra"
	AuditCreatePhase      = "criar_etapa"
	AuditDeletePhase      = "excluir_etapa"
	AuditCreateService    = "criar_servico"
	AuditDeleteService    = "excluir_servico"
	AuditCreateHouse      = "criar_casa"
	AuditDeleteHouse      = "excluir_casa"
	AuditSetQuantity      = "definir_quantidade"
	AuditImportServices   = "importar_servicos"
	AuditImportHouses     = "importar_casas"
	AuditChangePassword   = "alterar_senha"
	AuditCreateUser       = "criar_usuario"
	AuditUpdateUser       = "alterar_usuario"
	AuditPermissionDenied = "acesso_negado"
)

// auditTarget ids opcionais do registro
type auditTarget struct {
	ObraID    *int64
	CasaID    *int64
	ServicoID *int64
}

// auditor grava a auditoria sem nunca propagar falha para a operação principal.
type auditor struct {
	repo         *repository.Repository
	logger       *zap.Logger
	auditDenials bool
}

func newAuditor(repo *repository.Repository, logger *zap.Logger, auditDenials bool) *auditor {
	return &auditor{repo: repo, logger: logger, auditDenials: auditDenials}
}

func (a *auditor) record(ctx context.Context, actor permission.Actor, acao string, target auditTarget, detalhes interface{}) {
	entry := &model.AuditEntry{
		Timestamp: time.Now().UTC(),
		Usuario:   actor.Label(),
		Acao:      acao,
		ObraID:    target.ObraID,
		CasaID:    target.CasaID,
		ServicoID: target.ServicoID,
	}
	if detalhes != nil {
		raw, err := json.Marshal(detalhes)
		if err != nil {
			a.logger.Warn("falha ao serializar detalhes da auditoria", zap.String("acao", acao), zap.Error(err))
		} else {
			entry.Detalhes = datatypes.JSON(raw)
		}
	}
	if err := a.repo.Audit.Create(ctx, entry); err != nil {
		a.logger.Warn("falha ao gravar auditoria",
			zap.String("acao", acao),
			zap.String("usuario", entry.Usuario),
			zap.Error(err),
		)
	}
}

// requireEdit barra o ator sem a permissão de edição da ação.
func (a *auditor) requireEdit(ctx context.Context, actor permission.Actor, action, operation string) error {
	if actor.Perms.CanEdit(action) {
		return nil
	}
	return a.deny(ctx, actor, action, operation)
}

// requireView barra o ator que não pode ver a tela.
func (a *auditor) requireView(ctx context.Context, actor permission.Actor, feature, operation string) error {
	if actor.Perms.CanView(feature) {
		return nil
	}
	return a.deny(ctx, actor, feature, operation)
}

func (a *auditor) deny(ctx context.Context, actor permission.Actor, needed, operation string) error {
	if a.auditDenials {
		a.record(ctx, actor, AuditPermissionDenied, auditTarget{}, map[string]string{
			"operacao":  operation,
			"permissao": needed,
		})
	}
	a.logger.Info("permissão negada",
		zap.String("usuario", actor.Label()),
		zap.String("operacao", operation),
		zap.String("permissao", needed),
	)
	return pkgerrors.New(pkgerrors.ErrPermissionDenied, "permissão negada para "+operation)
}
