package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"acompanhamento-obras/internal/model"
)

// LaunchFilter filtros do histórico de lançamentos
type LaunchFilter struct {
	CasaID        int64
	ServicoID     *int64
	IncludeVoided bool
	// OnlyWithNotes restringe a lançamentos com observações preenchidas
	OnlyWithNotes bool
}

// LaunchRepository acesso à tabela lancamentos. Não há exclusão individual:
// correção é anulação.
type LaunchRepository interface {
	Create(ctx context.Context, l *model.Launch) error
	// LastActive lançamento não anulado mais recente do par (casa, serviço)
	LastActive(ctx context.Context, casaID, servicoID int64) (*model.Launch, error)
	// Void anula o lançamento; gorm.ErrRecordNotFound se já anulado ou inexistente
	Void(ctx context.Context, id int64, by string, at time.Time, reason string) error
	List(ctx context.Context, f LaunchFilter) ([]model.Launch, error)
	DeleteByServices(ctx context.Context, servicoIDs []int64) (int64, error)
	DeleteByHouses(ctx context.Context, casaIDs []int64) (int64, error)
}

type launchRepo struct {
	db *gorm.DB
}

// NewLaunchRepo cria LaunchRepository
func NewLaunchRepo(db *gorm.DB) LaunchRepository {
	return &launchRepo{db: db}
}

func (r *launchRepo) Create(ctx context.Context, l *model.Launch) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *launchRepo) LastActive(ctx context.Context, casaID, servicoID int64) (*model.Launch, error) {
	var l model.Launch
	err := r.db.WithContext(ctx).
		Where("casa_id = ? AND servico_id = ? AND anulado = ?", casaID, servicoID, false).
		Order("created_at DESC, id DESC").
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *launchRepo) Void(ctx context.Context, id int64, by string, at time.Time, reason string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Launch{}).
		Where("id = ? AND anulado = ?", id, false).
		Updates(map[string]interface{}{
			"anulado":         true,
			"anulado_por":     by,
			"anulado_em":      at,
			"anulacao_motivo": reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *launchRepo) List(ctx context.Context, f LaunchFilter) ([]model.Launch, error) {
	var list []model.Launch
	q := r.db.WithContext(ctx).Where("casa_id = ?", f.CasaID)
	if f.ServicoID != nil {
		q = q.Where("servico_id = ?", *f.ServicoID)
	}
	if !f.IncludeVoided {
		q = q.Where("anulado = ?", false)
	}
	if f.OnlyWithNotes {
		q = q.Where("observacoes <> ''")
	}
	err := q.Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *launchRepo) DeleteByServices(ctx context.Context, servicoIDs []int64) (int64, error) {
	if len(servicoIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("servico_id IN ?", servicoIDs).Delete(&model.Launch{})
	return res.RowsAffected, res.Error
}

func (r *launchRepo) DeleteByHouses(ctx context.Context, casaIDs []int64) (int64, error) {
	if len(casaIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("casa_id IN ?", casaIDs).Delete(&model.Launch{})
	return res.RowsAffected, res.Error
}
