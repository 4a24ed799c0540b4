package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"acompanhamento-obras/internal/model"
)

// AuditFilter filtros do leitor de auditoria. PageSize 0 devolve tudo.
type AuditFilter struct {
	Usuario  string
	Acao     string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// AuditRepository acesso à tabela auditoria (somente inserção e leitura)
type AuditRepository interface {
	Create(ctx context.Context, e *model.AuditEntry) error
	List(ctx context.Context, f AuditFilter) ([]model.AuditEntry, int64, error)
	DistinctUsers(ctx context.Context) ([]string, error)
	DistinctActions(ctx context.Context) ([]string, error)
}

type auditRepo struct {
	db *gorm.DB
}

// NewAuditRepo cria AuditRepository
func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db: db}
}

func (r *auditRepo) Create(ctx context.Context, e *model.AuditEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *auditRepo) List(ctx context.Context, f AuditFilter) ([]model.AuditEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.AuditEntry{})
	if f.Usuario != "" {
		q = q.Where("usuario = ?", f.Usuario)
	}
	if f.Acao != "" {
		q = q.Where("acao = ?", f.Acao)
	}
	if f.From != nil {
		q = q.Where("ts >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("ts < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.AuditEntry
	q = q.Order("ts DESC, id DESC")
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * f.PageSize).Limit(f.PageSize)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *auditRepo) DistinctUsers(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).Model(&model.AuditEntry{}).
		Distinct("usuario").Order("usuario ASC").Pluck("usuario", &out).Error
	return out, err
}

func (r *auditRepo) DistinctActions(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).Model(&model.AuditEntry{}).
		Distinct("acao").Order("acao ASC").Pluck("acao", &out).Error
	return out, err
}
