package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"acompanhamento-obras/internal/model"
)

// ServiceRepository acesso à tabela servicos
//
// Consultas por obra incluem as linhas legadas com obra_id nulo, que valem
// para qualquer obra com o mesmo rótulo de etapa. Exclusões em cascata só
// alcançam serviços da própria obra.
type ServiceRepository interface {
	Create(ctx context.Context, s *model.Service) error
	GetByID(ctx context.Context, id int64) (*model.Service, error)
	// ListByPhase serviços da etapa; etapa "Todas" devolve todos os da obra
	ListByPhase(ctx context.Context, obraID int64, etapa string) ([]model.Service, error)
	// DistinctPhases rótulos de etapa distintos usados pelos serviços da obra
	DistinctPhases(ctx context.Context, obraID int64) ([]string, error)
	// OwnedIDsByPhase ids dos serviços da etapa cujo obra_id é a própria obra
	OwnedIDsByPhase(ctx context.Context, obraID int64, etapa string) ([]int64, error)
	OwnedIDsByProject(ctx context.Context, obraID int64) ([]int64, error)
	// UpsertBatch chave (nome, etapa, obra_id)
	UpsertBatch(ctx context.Context, services []model.Service) (int64, error)
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
	// UnlinkPhases zera etapa_id dos serviços que ainda apontam para as etapas
	UnlinkPhases(ctx context.Context, etapaIDs []int64) (int64, error)
}

type serviceRepo struct {
	db *gorm.DB
}

// NewServiceRepo cria ServiceRepository
func NewServiceRepo(db *gorm.DB) ServiceRepository {
	return &serviceRepo{db: db}
}

func (r *serviceRepo) Create(ctx context.Context, s *model.Service) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *serviceRepo) GetByID(ctx context.Context, id int64) (*model.Service, error) {
	var s model.Service
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *serviceRepo) scoped(ctx context.Context, obraID int64) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Service{}).
		Where("obra_id = ? OR obra_id IS NULL", obraID)
}

func (r *serviceRepo) ListByPhase(ctx context.Context, obraID int64, etapa string) ([]model.Service, error) {
	var list []model.Service
	q := r.scoped(ctx, obraID)
	if etapa != model.AllPhases {
		q = q.Where("etapa = ?", etapa)
	}
	err := q.Order("etapa ASC, nome ASC").Find(&list).Error
	return list, err
}

func (r *serviceRepo) DistinctPhases(ctx context.Context, obraID int64) ([]string, error) {
	var labels []string
	err := r.scoped(ctx, obraID).
		Distinct("etapa").
		Order("etapa ASC").
		Pluck("etapa", &labels).Error
	return labels, err
}

func (r *serviceRepo) OwnedIDsByPhase(ctx context.Context, obraID int64, etapa string) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.Service{}).
		Where("obra_id = ? AND etapa = ?", obraID, etapa).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *serviceRepo) OwnedIDsByProject(ctx context.Context, obraID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.Service{}).
		Where("obra_id = ?", obraID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *serviceRepo) UpsertBatch(ctx context.Context, services []model.Service) (int64, error) {
	if len(services) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "nome"}, {Name: "etapa"}, {Name: "obra_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"etapa_id"}),
		}).
		Create(&services)
	return res.RowsAffected, res.Error
}

func (r *serviceRepo) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Service{})
	return res.RowsAffected, res.Error
}

func (r *serviceRepo) UnlinkPhases(ctx context.Context, etapaIDs []int64) (int64, error) {
	if len(etapaIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.Service{}).
		Where("etapa_id IN ?", etapaIDs).
		Update("etapa_id", nil)
	return res.RowsAffected, res.Error
}
