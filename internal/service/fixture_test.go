package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"acompanhamento-obras/config"
	"acompanhamento-obras/internal/model"
	"acompanhamento-obras/internal/permission"
	"acompanhamento-obras/internal/repository"
	"acompanhamento-obras/pkg/jwt"
	"acompanhamento-obras/pkg/storage"
)

// obraFixture obra "Berlin", casa "QD 3 LT 15" e a etapa "Reboco" com
// os serviços "Chapisco" e "Reboco Interno"
type obraFixture struct {
	svc      *Service
	repo     *repository.Repository
	store    *memStore
	project  *model.Project
	house    *model.House
	chapisco *model.Service
	reboco   *model.Service
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:         "segredo-de-teste-para-tokens-2026",
			AccessTokenTTL:    15 * time.Minute,
			RefreshTokenTTL:   24 * time.Hour,
			DefaultPassword:   "123456",
			SeedAdminUsername: "admin",
		},
		Import:  config.ImportConfig{ChunkSize: 2, MaxRows: 100},
		Feature: config.FeatureConfig{StrictTransitions: true, AuditDenials: true},
	}
}

func newObraFixture(t *testing.T) *obraFixture {
	return newObraFixtureWith(t, testConfig(), nil, nil)
}

func newObraFixtureWith(t *testing.T, cfg *config.Config, blacklist TokenBlacklist, uploader storage.Uploader) *obraFixture {
	t.Helper()
	ctx := context.Background()
	repo, store := newMockRepository()

	f := &obraFixture{
		svc:   NewService(cfg, repo, jwt.NewManager(&cfg.Auth), blacklist, uploader, zap.NewNop()),
		repo:  repo,
		store: store,
	}

	f.project = &model.Project{Nome: "Berlin"}
	if err := repo.Project.Create(ctx, f.project); err != nil {
		t.Fatalf("criar obra: %v", err)
	}
	f.house = &model.House{ObraID: f.project.ID, Lote: "QD 3 LT 15", CodTipologia: "T1"}
	if err := repo.House.Create(ctx, f.house); err != nil {
		t.Fatalf("criar casa: %v", err)
	}
	f.chapisco = f.addService(t, "Chapisco", "Reboco")
	f.reboco = f.addService(t, "Reboco Interno", "Reboco")
	return f
}

func (f *obraFixture) addService(t *testing.T, nome, etapa string) *model.Service {
	t.Helper()
	svc := &model.Service{Nome: nome, Etapa: etapa, ObraID: int64Ptr(f.project.ID)}
	if err := f.repo.Service.Create(context.Background(), svc); err != nil {
		t.Fatalf("criar serviço %s: %v", nome, err)
	}
	return svc
}

func (f *obraFixture) addHouse(t *testing.T, lote string) *model.House {
	t.Helper()
	h := &model.House{ObraID: f.project.ID, Lote: lote}
	if err := f.repo.House.Create(context.Background(), h); err != nil {
		t.Fatalf("criar casa %s: %v", lote, err)
	}
	return h
}

// state estado gravado do par (casa, serviço), ou nil
func (f *obraFixture) state(casaID, servicoID int64) *model.ServiceState {
	st, err := f.repo.ServiceState.Get(context.Background(), casaID, servicoID)
	if err != nil {
		return nil
	}
	return st
}

func (f *obraFixture) launchesOf(casaID, servicoID int64) []model.Launch {
	var out []model.Launch
	for _, l := range f.store.launches {
		if l.CasaID == casaID && l.ServicoID == servicoID {
			out = append(out, *l)
		}
	}
	return out
}

// ── atores ──

func operatorActor() permission.Actor {
	return permission.NewActor(101, "joao", "João", model.RoleUser, nil)
}

func adminActor() permission.Actor {
	return permission.NewActor(100, "admin", "Administrador", model.RoleAdmin, nil)
}

func readOnlyActor() permission.Actor {
	return permission.NewActor(102, "visitante", "Visitante", model.RoleUser, map[string]bool{permission.EditLaunches: false})
}

func boolPtr(v bool) *bool { return &v }
