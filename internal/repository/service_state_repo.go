package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"acompanhamento-obras/internal/model"
)

// ServiceStateRepository acesso à tabela estado_servicos
type ServiceStateRepository interface {
	Get(ctx context.Context, casaID, servicoID int64) (*model.ServiceState, error)
	// ListByHouse estados da casa; servicoIDs vazio devolve todos
	ListByHouse(ctx context.Context, casaID int64, servicoIDs []int64) ([]model.ServiceState, error)
	ListByHouses(ctx context.Context, casaIDs []int64) ([]model.ServiceState, error)
	// SeedNotStarted insere "Não iniciado" só onde ainda não há linha
	SeedNotStarted(ctx context.Context, casaID int64, servicoIDs []int64) (int64, error)
	// Upsert chave (casa_id, servico_id), sobrescreve todos os campos
	Upsert(ctx context.Context, st *model.ServiceState) error
	DeleteByServices(ctx context.Context, servicoIDs []int64) (int64, error)
	DeleteByHouses(ctx context.Context, casaIDs []int64) (int64, error)
}

type serviceStateRepo struct {
	db *gorm.DB
}

// NewServiceStateRepo cria ServiceStateRepository
func NewServiceStateRepo(db *gorm.DB) ServiceStateRepository {
	return &serviceStateRepo{db: db}
}

func (r *serviceStateRepo) Get(ctx context.Context, casaID, servicoID int64) (*model.ServiceState, error) {
	var st model.ServiceState
	err := r.db.WithContext(ctx).
		Where("casa_id = ? AND servico_id = ?", casaID, servicoID).
		First(&st).Error
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *serviceStateRepo) ListByHouse(ctx context.Context, casaID int64, servicoIDs []int64) ([]model.ServiceState, error) {
	var list []model.ServiceState
	q := r.db.WithContext(ctx).Where("casa_id = ?", casaID)
	if len(servicoIDs) > 0 {
		q = q.Where("servico_id IN ?", servicoIDs)
	}
	err := q.Order("servico_id ASC").Find(&list).Error
	return list, err
}

func (r *serviceStateRepo) ListByHouses(ctx context.Context, casaIDs []int64) ([]model.ServiceState, error) {
	var list []model.ServiceState
	if len(casaIDs) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("casa_id IN ?", casaIDs).Find(&list).Error
	return list, err
}

func (r *serviceStateRepo) SeedNotStarted(ctx context.Context, casaID int64, servicoIDs []int64) (int64, error) {
	if len(servicoIDs) == 0 {
		return 0, nil
	}
	rows := make([]model.ServiceState, 0, len(servicoIDs))
	for _, id := range servicoIDs {
		rows = append(rows, model.ServiceState{CasaID: casaID, ServicoID: id, Status: model.StatusNotStarted})
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "casa_id"}, {Name: "servico_id"}},
			DoNothing: true,
		}).
		Create(&rows)
	return res.RowsAffected, res.Error
}

func (r *serviceStateRepo) Upsert(ctx context.Context, st *model.ServiceState) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "casa_id"}, {Name: "servico_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "executor", "data_inicio", "data_fim", "updated_at"}),
		}).
		Create(st).Error
}

func (r *serviceStateRepo) DeleteByServices(ctx context.Context, servicoIDs []int64) (int64, error) {
	if len(servicoIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("servico_id IN ?", servicoIDs).Delete(&model.ServiceState{})
	return res.RowsAffected, res.Error
}

func (r *serviceStateRepo) DeleteByHouses(ctx context.Context, casaIDs []int64) (int64, error) {
	if len(casaIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("casa_id IN ?", casaIDs).Delete(&model.ServiceState{})
	return res.RowsAffected, res.Error
}
