package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"acompanhamento-obras/internal/model"
)

// ActivationRepository acesso à tabela casa_ativacoes
type ActivationRepository interface {
	Get(ctx context.Context, casaID int64, etapa string) (*model.Activation, error)
	ListByHouse(ctx context.Context, casaID int64) ([]model.Activation, error)
	ListByHouses(ctx context.Context, casaIDs []int64) ([]model.Activation, error)
	// Upsert chave (casa_id, etapa)
	Upsert(ctx context.Context, a *model.Activation) error
	// DeleteByPhase ativações da etapa em todas as casas da obra
	DeleteByPhase(ctx context.Context, obraID int64, etapa string) (int64, error)
	DeleteByHouses(ctx context.Context, casaIDs []int64) (int64, error)
}

type activationRepo struct {
	db *gorm.DB
}

// NewActivationRepo cria ActivationRepository
func NewActivationRepo(db *gorm.DB) ActivationRepository {
	return &activationRepo{db: db}
}

func (r *activationRepo) Get(ctx context.Context, casaID int64, etapa string) (*model.Activation, error) {
	var a model.Activation
	err := r.db.WithContext(ctx).
		Where("casa_id = ? AND etapa = ?", casaID, etapa).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *activationRepo) ListByHouse(ctx context.Context, casaID int64) ([]model.Activation, error) {
	var list []model.Activation
	err := r.db.WithContext(ctx).
		Where("casa_id = ?", casaID).
		Order("etapa ASC").
		Find(&list).Error
	return list, err
}

func (r *activationRepo) ListByHouses(ctx context.Context, casaIDs []int64) ([]model.Activation, error) {
	var list []model.Activation
	if len(casaIDs) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).
		Where("casa_id IN ?", casaIDs).
		Find(&list).Error
	return list, err
}

func (r *activationRepo) Upsert(ctx context.Context, a *model.Activation) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "casa_id"}, {Name: "etapa"}},
			DoUpdates: clause.AssignmentColumns([]string{"ativa", "ativa_em", "ativa_por", "updated_at"}),
		}).
		Create(a).Error
}

func (r *activationRepo) DeleteByPhase(ctx context.Context, obraID int64, etapa string) (int64, error) {
	houses := r.db.Model(&model.House{}).Select("id").Where("obra_id = ?", obraID)
	res := r.db.WithContext(ctx).
		Where("etapa = ? AND casa_id IN (?)", etapa, houses).
		Delete(&model.Activation{})
	return res.RowsAffected, res.Error
}

func (r *activationRepo) DeleteByHouses(ctx context.Context, casaIDs []int64) (int64, error) {
	if len(casaIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("casa_id IN ?", casaIDs).Delete(&model.Activation{})
	return res.RowsAffected, res.Error
}
