package repository

import (
	"context"

	"gorm.io/gorm"

	"acompanhamento-obras/internal/model"
)

// PhaseRepository acesso à tabela etapas
type PhaseRepository interface {
	Create(ctx context.Context, p *model.Phase) error
	GetByID(ctx context.Context, id int64) (*model.Phase, error)
	GetByName(ctx context.Context, obraID int64, nome string) (*model.Phase, error)
	ListByProject(ctx context.Context, obraID int64) ([]model.Phase, error)
	Delete(ctx context.Context, id int64) (int64, error)
	DeleteByProject(ctx context.Context, obraID int64) (int64, error)
}

type phaseRepo struct {
	db *gorm.DB
}

// NewPhaseRepo cria PhaseRepository
func NewPhaseRepo(db *gorm.DB) PhaseRepository {
	return &phaseRepo{db: db}
}

func (r *phaseRepo) Create(ctx context.Context, p *model.Phase) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *phaseRepo) GetByID(ctx context.Context, id int64) (*model.Phase, error) {
	var p model.Phase
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *phaseRepo) GetByName(ctx context.Context, obraID int64, nome string) (*model.Phase, error) {
	var p model.Phase
	err := r.db.WithContext(ctx).
		Where("obra_id = ? AND nome = ?", obraID, nome).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *phaseRepo) ListByProject(ctx context.Context, obraID int64) ([]model.Phase, error) {
	var list []model.Phase
	err := r.db.WithContext(ctx).
		Where("obra_id = ?", obraID).
		Order("nome ASC").
		Find(&list).Error
	return list, err
}

func (r *phaseRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Phase{})
	return res.RowsAffected, res.Error
}

func (r *phaseRepo) DeleteByProject(ctx context.Context, obraID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("obra_id = ?", obraID).Delete(&model.Phase{})
	return res.RowsAffected, res.Error
}
