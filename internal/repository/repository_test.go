package repository_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"acompanhamento-obras/internal/model"
	"acompanhamento-obras/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

// newTestRepo banco SQLite em memória, isolado por teste
func newTestRepo(t *testing.T) (*repository.Repository, *gorm.DB) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return repository.NewRepository(db), db
}

func int64Ptr(v int64) *int64 { return &v }

func day(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

type seed struct {
	obra    *model.Project
	outra   *model.Project
	casa    *model.House
	chap    *model.Service // Reboco, da obra
	embo    *model.Service // Reboco, da obra
	legado  *model.Service // Reboco, obra_id nulo
	pintura *model.Service // Pintura, da outra obra
}

// seedProject duas obras, uma casa, serviços próprios, legado e de outra obra
func seedProject(t *testing.T, repo *repository.Repository) seed {
	t.Helper()
	ctx := context.Background()

	s := seed{
		obra:  &model.Project{Nome: "Residencial Aurora"},
		outra: &model.Project{Nome: "Jardim Primavera"},
	}
	require.NoError(t, repo.Project.Create(ctx, s.obra))
	require.NoError(t, repo.Project.Create(ctx, s.outra))

	s.casa = &model.House{ObraID: s.obra.ID, Lote: "QD 01 LT 01", CodTipologia: "T1"}
	require.NoError(t, repo.House.Create(ctx, s.casa))

	s.chap = &model.Service{Nome: "Chapisco", Etapa: "Reboco", ObraID: int64Ptr(s.obra.ID)}
	s.embo = &model.Service{Nome: "Emboço", Etapa: "Reboco", ObraID: int64Ptr(s.obra.ID)}
	s.legado = &model.Service{Nome: "Reboco externo", Etapa: "Reboco"}
	s.pintura = &model.Service{Nome: "Selador", Etapa: "Pintura", ObraID: int64Ptr(s.outra.ID)}
	for _, svc := range []*model.Service{s.chap, s.embo, s.legado, s.pintura} {
		require.NoError(t, repo.Service.Create(ctx, svc))
	}
	return s
}

// ═══════════════════════════════════════════════════════════
// ServiceRepository
// ═══════════════════════════════════════════════════════════

func TestServiceRepo_ListByPhase_IncludesLegacyRows(t *testing.T) {
	repo, _ := newTestRepo(t)
	s := seedProject(t, repo)
	ctx := context.Background()

	list, err := repo.Service.ListByPhase(ctx, s.obra.ID, "Reboco")
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, svc := range list {
		names = append(names, svc.Nome)
	}
	assert.ElementsMatch(t, []string{"Chapisco", "Emboço", "Reboco externo"}, names)

	all, err := repo.Service.ListByPhase(ctx, s.obra.ID, model.AllPhases)
	require.NoError(t, err)
	assert.Len(t, all, 3, "serviço de outra obra não entra")

	phases, err := repo.Service.DistinctPhases(ctx, s.outra.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pintura", "Reboco"}, phases)
}

func TestServiceRepo_OwnedIDs_ExcludeLegacy(t *testing.T) {
	repo, _ := newTestRepo(t)
	s := seedProject(t, repo)
	ctx := context.Background()

	ids, err := repo.Service.OwnedIDsByPhase(ctx, s.obra.ID, "Reboco")
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{s.chap.ID, s.embo.ID}, ids)

	ids, err = repo.Service.OwnedIDsByProject(ctx, s.outra.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{s.pintura.ID}, ids)
}

func TestServiceRepo_UpsertBatch_Idempotent(t *testing.T) {
	repo, db := newTestRepo(t)
	s := seedProject(t, repo)
	ctx := context.Background()

	phase := &model.Phase{ObraID: s.obra.ID, Nome: "Reboco"}
	require.NoError(t, repo.Phase.Create(ctx, phase))

	rows := []model.Service{
		{Nome: "Chapisco", Etapa: "Reboco", ObraID: int64Ptr(s.obra.ID), EtapaID: int64Ptr(phase.ID)},
		{Nome: "Massa única", Etapa: "Reboco", ObraID: int64Ptr(s.obra.ID), EtapaID: int64Ptr(phase.ID)},
	}
	_, err := repo.Service.UpsertBatch(ctx, rows)
	require.NoError(t, err)

	again := []model.Service{
		{Nome: "Chapisco", Etapa: "Reboco", ObraID: int64Ptr(s.obra.ID), EtapaID: int64Ptr(phase.ID)},
		{Nome: "Massa única", Etapa: "Reboco", ObraID: int64Ptr(s.obra.ID), EtapaID: int64Ptr(phase.ID)},
	}
	_, err = repo.Service.UpsertBatch(ctx, again)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Service{}).Where("obra_id = ?", s.obra.ID).Count(&count).Error)
	assert.Equal(t, int64(3), count, "Chapisco, Emboço e Massa única")

	chap, err := repo.Service.GetByID(ctx, s.chap.ID)
	require.NoError(t, err)
	require.NotNil(t, chap.EtapaID)
	assert.Equal(t, phase.ID, *chap.EtapaID, "conflito atualiza o vínculo com a etapa")
}

// ═══════════════════════════════════════════════════════════
// ServiceStateRepository
// ═══════════════════════════════════════════════════════════

func TestServiceStateRepo_SeedDoesNotOverwrite(t *testing.T) {
	repo, _ := newTestRepo(t)
	s := seedProject(t, repo)
	ctx := context.Background()

	require.NoError(t, repo.ServiceState.Upsert(ctx, &model.ServiceState{
		CasaID: s.casa.ID, ServicoID: s.chap.ID, Status: model.StatusInProgress,
		Executor: "Equipe A", DataInicio: day("2026-03-02"),
	}))

	_, err := repo.ServiceState.SeedNotStarted(ctx, s.casa.ID, []int64{s.chap.ID, s.embo.ID})
	require.NoError(t, err)

	chap, err := repo.ServiceState.Get(ctx, s.casa.ID, s.chap.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, chap.Status)
	assert.Equal(t, "Equipe A", chap.Executor)

	embo, err := repo.ServiceState.Get(ctx, s.casa.ID, s.embo.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNotStarted, embo.Status)

	list, err := repo.ServiceState.ListByHouse(ctx, s.casa.ID, nil)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestServiceStateRepo_UpsertOverwrites(t *testing.T) {
	repo, _ := newTestRepo(t)
	s := seedProject(t, repo)
	ctx := context.Background()

	require.NoError(t, repo.ServiceState.Upsert(ctx, &model.ServiceState{
		CasaID: s.casa.ID, ServicoID: s.chap.ID, Status: model.StatusInProgress,
		Executor: "Equipe A", DataInicio: day("2026-03-02"),
	}))
	require.NoError(t, repo.ServiceState.Upsert(ctx, &model.ServiceState{
		CasaID: s.casa.ID, ServicoID: s.chap.ID, Status: model.StatusDone,
		Executor: "Equipe B", DataInicio: day("2026-03-02"), DataFim: day("2026-03-09"),
	}))

	st, err := repo.ServiceState.Get(ctx, s.casa.ID, s.chap.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDone, st.Status)
	assert.Equal(t, "Equipe B", st.Executor)
	require.NotNil(t, st.DataFim)
	assert.Equal(t, "2026-03-09", st.DataFim.Format("2006-01-02"))

	n, err := repo.ServiceState.DeleteByServices(ctx, []int64{s.chap.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

// ═══════════════════════════════════════════════════════════
// LaunchRepository
// ═══════════════════════════════════════════════════════════

func TestLaunchRepo_LastActiveAndVoid(t *testing.T) {
	repo, _ := newTestRepo(t)
	s := seedProject(t, repo)
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	start := &model.Launch{
		ObraID: s.obra.ID, CasaID: s.casa.ID, ServicoID: s.chap.ID,
		Responsavel: "joao", Status: model.StatusInProgress, CreatedAt: base,
	}
	finish := &model.Launch{
		ObraID: s.obra.ID, CasaID: s.casa.ID, ServicoID: s.chap.ID,
		Responsavel: "joao", Status: model.StatusDone, Observacoes: "ok", CreatedAt: base.Add(time.Hour),
	}
	require.NoError(t, repo.Launch.Create(ctx, start))
	require.NoError(t, repo.Launch.Create(ctx, finish))

	last, err := repo.Launch.LastActive(ctx, s.casa.ID, s.chap.ID)
	require.NoError(t, err)
	assert.Equal(t, finish.ID, last.ID)

	require.NoError(t, repo.Launch.Void(ctx, finish.ID, "admin", base.Add(2*time.Hour), "lançado errado"))
	assert.ErrorIs(t, repo.Launch.Void(ctx, finish.ID, "admin", base, "de novo"), gorm.ErrRecordNotFound)

	last, err = repo.Launch.LastActive(ctx, s.casa.ID, s.chap.ID)
	require.NoError(t, err)
	assert.Equal(t, start.ID, last.ID, "anulado não conta como último")

	require.NoError(t, repo.Launch.Void(ctx, start.ID, "admin", base, "sem início"))
	_, err = repo.Launch.LastActive(ctx, s.casa.ID, s.chap.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLaunchRepo_ListFilters(t *testing.T) {
	repo, _ := newTestRepo(t)
	s := seedProject(t, repo)
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	launches := []*model.Launch{
		{ObraID: s.obra.ID, CasaID: s.casa.ID, ServicoID: s.chap.ID, Responsavel: "joao", Status: model.StatusInProgress, Observacoes: "início", CreatedAt: base},
		{ObraID: s.obra.ID, CasaID: s.casa.ID, ServicoID: s.embo.ID, Responsavel: "joao", Status: model.StatusInProgress, CreatedAt: base.Add(time.Minute)},
		{ObraID: s.obra.ID, CasaID: s.casa.ID, ServicoID: s.chap.ID, Responsavel: "joao", Status: model.StatusDone, Observacoes: "fim", CreatedAt: base.Add(time.Hour)},
	}
	for _, l := range launches {
		require.NoError(t, repo.Launch.Create(ctx, l))
	}
	require.NoError(t, repo.Launch.Void(ctx, launches[2].ID, "admin", base, "erro"))

	active, err := repo.Launch.List(ctx, repository.LaunchFilter{CasaID: s.casa.ID})
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, launches[1].ID, active[0].ID, "mais recente primeiro")

	all, err := repo.Launch.List(ctx, repository.LaunchFilter{CasaID: s.casa.ID, IncludeVoided: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyChap, err := repo.Launch.List(ctx, repository.LaunchFilter{CasaID: s.casa.ID, ServicoID: int64Ptr(s.chap.ID), IncludeVoided: true})
	require.NoError(t, err)
	assert.Len(t, onlyChap, 2)

	notes, err := repo.Launch.List(ctx, repository.LaunchFilter{CasaID: s.casa.ID, OnlyWithNotes: true})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "início", notes[0].Observacoes)
}

// ═══════════════════════════════════════════════════════════
// Activation / House
// ═══════════════════════════════════════════════════════════

func TestActivationRepo_UpsertAndDeleteByPhase(t *testing.T) {
	repo, _ := newTestRepo(t)
	s := seedProject(t, repo)
	ctx := context.Background()

	other := &model.House{ObraID: s.outra.ID, Lote: "QD 09 LT 09"}
	require.NoError(t, repo.House.Create(ctx, other))

	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Activation.Upsert(ctx, &model.Activation{CasaID: s.casa.ID, Etapa: "Reboco", Ativa: true, AtivaEm: &now, AtivaPor: "admin"}))
	require.NoError(t, repo.Activation.Upsert(ctx, &model.Activation{CasaID: other.ID, Etapa: "Reboco", Ativa: true, AtivaEm: &now, AtivaPor: "admin"}))

	// desligar mantém a linha
	require.NoError(t, repo.Activation.Upsert(ctx, &model.Activation{CasaID: s.casa.ID, Etapa: "Reboco", Ativa: false, AtivaPor: "maria"}))
	a, err := repo.Activation.Get(ctx, s.casa.ID, "Reboco")
	require.NoError(t, err)
	assert.False(t, a.Ativa)
	assert.Equal(t, "maria", a.AtivaPor)

	n, err := repo.Activation.DeleteByPhase(ctx, s.obra.ID, "Reboco")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "só a casa da própria obra")

	_, err = repo.Activation.Get(ctx, other.ID, "Reboco")
	assert.NoError(t, err)
}

func TestHouseRepo_UpsertBatchAndLegacyFlag(t *testing.T) {
	repo, _ := newTestRepo(t)
	s := seedProject(t, repo)
	ctx := context.Background()

	_, err := repo.House.UpsertBatch(ctx, []model.House{
		{ObraID: s.obra.ID, Lote: "QD 01 LT 01", CodTipologia: "T2", Tipologia: "Sobrado"},
		{ObraID: s.obra.ID, Lote: "QD 01 LT 02", CodTipologia: "T1", Tipologia: "Térrea"},
	})
	require.NoError(t, err)

	list, err := repo.House.ListByProject(ctx, s.obra.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	h, err := repo.House.GetByLote(ctx, s.obra.ID, "QD 01 LT 01")
	require.NoError(t, err)
	assert.Equal(t, s.casa.ID, h.ID)
	assert.Equal(t, "T2", h.CodTipologia)

	require.NoError(t, repo.House.SetLegacyActive(ctx, s.casa.ID, true))
	h, err = repo.House.GetByID(ctx, s.casa.ID)
	require.NoError(t, err)
	assert.True(t, h.Ativa)

	n, err := repo.House.DeleteByProject(ctx, s.obra.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

// ═══════════════════════════════════════════════════════════
// Audit / PlannedQuantity / User
// ═══════════════════════════════════════════════════════════

func TestAuditRepo_ListFiltersAndPages(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	entries := []model.AuditEntry{
		{Timestamp: base, Usuario: "joao", Acao: "ativar_casa", Detalhes: datatypes.JSON(`{"etapa":"Reboco"}`)},
		{Timestamp: base.Add(24 * time.Hour), Usuario: "joao", Acao: "iniciar_servico"},
		{Timestamp: base.Add(48 * time.Hour), Usuario: "maria", Acao: "iniciar_servico"},
		{Timestamp: base.Add(72 * time.Hour), Usuario: "joao", Acao: "finalizar_servico"},
	}
	for i := range entries {
		require.NoError(t, repo.Audit.Create(ctx, &entries[i]))
	}

	list, total, err := repo.Audit.List(ctx, repository.AuditFilter{Usuario: "joao", Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 2)
	assert.Equal(t, "finalizar_servico", list[0].Acao, "mais recente primeiro")

	from := base.Add(24 * time.Hour)
	to := base.Add(72 * time.Hour)
	list, total, err = repo.Audit.List(ctx, repository.AuditFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	users, err := repo.Audit.DistinctUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"joao", "maria"}, users)

	actions, err := repo.Audit.DistinctActions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ativar_casa", "finalizar_servico", "iniciar_servico"}, actions)
}

func TestPlannedQuantityRepo_Upsert(t *testing.T) {
	repo, _ := newTestRepo(t)
	s := seedProject(t, repo)
	ctx := context.Background()

	require.NoError(t, repo.PlannedQuantity.Upsert(ctx, &model.PlannedQuantity{
		ObraID: s.obra.ID, ServicoID: s.chap.ID, CodTipologia: "T1", Quantidade: decimal.RequireFromString("12.5"), Unidade: "m2",
	}))
	require.NoError(t, repo.PlannedQuantity.Upsert(ctx, &model.PlannedQuantity{
		ObraID: s.obra.ID, ServicoID: s.chap.ID, CodTipologia: "T1", Quantidade: decimal.RequireFromString("14"), Unidade: "m2",
	}))

	list, err := repo.PlannedQuantity.ListByProject(ctx, s.obra.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Quantidade.Equal(decimal.NewFromInt(14)), "obtido %s", list[0].Quantidade)

	n, err := repo.PlannedQuantity.DeleteByServices(ctx, []int64{s.chap.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUserRepo_CRUD(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	n, err := repo.User.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	u := &model.User{Username: "joao", Nome: "João", SenhaHash: "hash", Role: model.RoleUser, Ativo: true,
		Permissoes: datatypes.JSON(`{"ver_logs":true}`)}
	require.NoError(t, repo.User.Create(ctx, u))

	err = repo.User.Create(ctx, &model.User{Username: "joao", SenhaHash: "x", Role: model.RoleUser, Ativo: true})
	assert.Error(t, err, "username é único")

	got, err := repo.User.GetByUsername(ctx, "joao")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ver_logs":true}`, string(got.Permissoes))

	got.Ativo = false
	got.Role = model.RoleAdmin
	require.NoError(t, repo.User.Update(ctx, got))

	reloaded, err := repo.User.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Ativo)
	assert.Equal(t, model.RoleAdmin, reloaded.Role)

	_, err = repo.User.GetByUsername(ctx, "ninguem")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// ═══════════════════════════════════════════════════════════
// Transações
// ═══════════════════════════════════════════════════════════

func TestRepository_WithTxRollback(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NotNil(t, tx)

	txRepo := repo.WithTx(tx)
	require.NoError(t, txRepo.Project.Create(ctx, &model.Project{Nome: "Obra descartada"}))
	require.NoError(t, tx.Rollback().Error)

	list, err := repo.Project.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRepository_NilDBFallsBackToSelf(t *testing.T) {
	repo := &repository.Repository{}

	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)
	assert.Nil(t, tx)
	assert.Same(t, repo, repo.WithTx(nil))
}

func TestServiceRepo_UnlinkPhases(t *testing.T) {
	repo, _ := newTestRepo(t)
	s := seedProject(t, repo)
	ctx := context.Background()

	phase := &model.Phase{ObraID: s.obra.ID, Nome: "Reboco"}
	require.NoError(t, repo.Phase.Create(ctx, phase))
	linked := &model.Service{Nome: "Tela", Etapa: "Reboco", EtapaID: int64Ptr(phase.ID)}
	require.NoError(t, repo.Service.Create(ctx, linked))

	n, err := repo.Service.UnlinkPhases(ctx, []int64{phase.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.Service.GetByID(ctx, linked.ID)
	require.NoError(t, err)
	assert.Nil(t, got.EtapaID)

	n, err = repo.Service.UnlinkPhases(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
