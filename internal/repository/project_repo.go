package repository

import (
	"context"

	"gorm.io/gorm"

	"acompanhamento-obras/internal/model"
)

// ProjectRepository acesso à tabela obras
type ProjectRepository interface {
	Create(ctx context.Context, p *model.Project) error
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	GetByName(ctx context.Context, nome string) (*model.Project, error)
	List(ctx context.Context) ([]model.Project, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type projectRepo struct {
	db *gorm.DB
}

// NewProjectRepo cria ProjectRepository
func NewProjectRepo(db *gorm.DB) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *projectRepo) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) GetByName(ctx context.Context, nome string) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Where("nome = ?", nome).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) List(ctx context.Context) ([]model.Project, error) {
	var list []model.Project
	err := r.db.WithContext(ctx).Order("nome ASC").Find(&list).Error
	return list, err
}

func (r *projectRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Project{})
	return res.RowsAffected, res.Error
}
