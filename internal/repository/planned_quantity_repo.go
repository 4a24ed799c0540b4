package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"acompanhamento-obras/internal/model"
)

// PlannedQuantityRepository acesso à tabela quantidades_planejadas
type PlannedQuantityRepository interface {
	// Upsert chave (servico_id, cod_tipologia)
	Upsert(ctx context.Context, q *model.PlannedQuantity) error
	ListByProject(ctx context.Context, obraID int64) ([]model.PlannedQuantity, error)
	DeleteByServices(ctx context.Context, servicoIDs []int64) (int64, error)
	DeleteByProject(ctx context.Context, obraID int64) (int64, error)
}

type plannedQuantityRepo struct {
	db *gorm.DB
}

// NewPlannedQuantityRepo cria PlannedQuantityRepository
func NewPlannedQuantityRepo(db *gorm.DB) PlannedQuantityRepository {
	return &plannedQuantityRepo{db: db}
}

func (r *plannedQuantityRepo) Upsert(ctx context.Context, q *model.PlannedQuantity) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "servico_id"}, {Name: "cod_tipologia"}},
			DoUpdates: clause.AssignmentColumns([]string{"obra_id", "quantidade", "unidade", "updated_at"}),
		}).
		Create(q).Error
}

func (r *plannedQuantityRepo) ListByProject(ctx context.Context, obraID int64) ([]model.PlannedQuantity, error) {
	var list []model.PlannedQuantity
	err := r.db.WithContext(ctx).
		Where("obra_id = ?", obraID).
		Order("servico_id ASC, cod_tipologia ASC").
		Find(&list).Error
	return list, err
}

func (r *plannedQuantityRepo) DeleteByServices(ctx context.Context, servicoIDs []int64) (int64, error) {
	if len(servicoIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("servico_id IN ?", servicoIDs).Delete(&model.PlannedQuantity{})
	return res.RowsAffected, res.Error
}

func (r *plannedQuantityRepo) DeleteByProject(ctx context.Context, obraID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("obra_id = ?", obraID).Delete(&model.PlannedQuantity{})
	return res.RowsAffected, res.Error
}
