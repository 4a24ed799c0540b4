package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"acompanhamento-obras/internal/model"
)

// HouseRepository acesso à tabela casas
type HouseRepository interface {
	Create(ctx context.Context, h *model.House) error
	GetByID(ctx context.Context, id int64) (*model.House, error)
	GetByLote(ctx context.Context, obraID int64, lote string) (*model.House, error)
	ListByProject(ctx context.Context, obraID int64) ([]model.House, error)
	IDsByProject(ctx context.Context, obraID int64) ([]int64, error)
	SetLegacyActive(ctx context.Context, id int64, ativa bool) error
	// UpsertBatch insere ou atualiza a tipologia pela chave (obra_id, lote)
	UpsertBatch(ctx context.Context, houses []model.House) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	DeleteByProject(ctx context.Context, obraID int64) (int64, error)
}

type houseRepo struct {
	db *gorm.DB
}

// NewHouseRepo cria HouseRepository
func NewHouseRepo(db *gorm.DB) HouseRepository {
	return &houseRepo{db: db}
}

func (r *houseRepo) Create(ctx context.Context, h *model.House) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *houseRepo) GetByID(ctx context.Context, id int64) (*model.House, error) {
	var h model.House
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&h).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *houseRepo) GetByLote(ctx context.Context, obraID int64, lote string) (*model.House, error) {
	var h model.House
	err := r.db.WithContext(ctx).
		Where("obra_id = ? AND lote = ?", obraID, lote).
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *houseRepo) ListByProject(ctx context.Context, obraID int64) ([]model.House, error) {
	var list []model.House
	err := r.db.WithContext(ctx).
		Where("obra_id = ?", obraID).
		Order("lote ASC").
		Find(&list).Error
	return list, err
}

func (r *houseRepo) IDsByProject(ctx context.Context, obraID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.House{}).
		Where("obra_id = ?", obraID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *houseRepo) SetLegacyActive(ctx context.Context, id int64, ativa bool) error {
	return r.db.WithContext(ctx).
		Model(&model.House{}).
		Where("id = ?", id).
		Update("ativa", ativa).Error
}

func (r *houseRepo) UpsertBatch(ctx context.Context, houses []model.House) (int64, error) {
	if len(houses) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "obra_id"}, {Name: "lote"}},
			DoUpdates: clause.AssignmentColumns([]string{"cod_tipologia", "tipologia", "updated_at"}),
		}).
		Create(&houses)
	return res.RowsAffected, res.Error
}

func (r *houseRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.House{})
	return res.RowsAffected, res.Error
}

func (r *houseRepo) DeleteByProject(ctx context.Context, obraID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("obra_id = ?", obraID).Delete(&model.House{})
	return res.RowsAffected, res.Error
}
