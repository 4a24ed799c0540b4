package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository agrega os repositórios de todas as tabelas
type Repository struct {
	db *gorm.DB

	Project         ProjectRepository
	Phase           PhaseRepository
	House           HouseRepository
	Service         ServiceRepository
	Activation      ActivationRepository
	ServiceState    ServiceStateRepository
	Launch          LaunchRepository
	Audit           AuditRepository
	User            UserRepository
	PlannedQuantity PlannedQuantityRepository
}

// NewRepository monta o agregado sobre a conexão (ou transação) informada
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:              db,
		Project:         NewProjectRepo(db),
		Phase:           NewPhaseRepo(db),
		House:           NewHouseRepo(db),
		Service:         NewServiceRepo(db),
		Activation:      NewActivationRepo(db),
		ServiceState:    NewServiceStateRepo(db),
		Launch:          NewLaunchRepo(db),
		Audit:           NewAuditRepo(db),
		User:            NewUserRepo(db),
		PlannedQuantity: NewPlannedQuantityRepo(db),
	}
}

// BeginTx abre uma transação. Sem conexão (agregado montado com dublês de
// teste) devolve nil, e WithTx(nil) mantém o próprio agregado.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx agregado cujos repositórios escrevem na transação tx
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
