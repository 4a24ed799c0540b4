package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/model"
	pkgerrors "acompanhamento-obras/pkg/errors"
)

// busyFixture casa ativa com os dois serviços iniciados, um concluído e
// um quantitativo cadastrado
func busyFixture(t *testing.T) *obraFixture {
	t.Helper()
	f := startedChapisco(t)
	ctx := context.Background()
	if _, err := f.svc.Launch.StartServices(ctx, f.house.ID, startReq("Reboco Interno"), operatorActor()); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Launch.FinishService(ctx, f.house.ID, finishReq(f.chapisco.ID, "2026-03-05"), nil, operatorActor()); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Catalog.SetPlannedQuantity(ctx, f.project.ID, &dto.PlannedQuantityRequest{ServicoID: f.chapisco.ID, Quantidade: "12,5", Unidade: "m2"}, adminActor()); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestCatalogService_CreateProject(t *testing.T) {
	f := newObraFixture(t)
	ctx := context.Background()

	p, err := f.svc.Catalog.CreateProject(ctx, &dto.CreateProjectRequest{Nome: "  Paris "}, adminActor())
	if err != nil {
		t.Fatalf("CreateProject falhou: %v", err)
	}
	if p.Nome != "Paris" || p.ID == 0 {
		t.Errorf("obra inesperada: %+v", p)
	}

	_, err = f.svc.Catalog.CreateProject(ctx, &dto.CreateProjectRequest{Nome: "Berlin"}, adminActor())
	if !errors.Is(err, ErrProjectExists) || !errors.Is(err, pkgerrors.ErrConflict) {
		t.Errorf("esperado conflito, obtido %v", err)
	}
	_, err = f.svc.Catalog.CreateProject(ctx, &dto.CreateProjectRequest{Nome: "Roma"}, operatorActor())
	if !errors.Is(err, pkgerrors.ErrPermissionDenied) {
		t.Errorf("operador não cadastra obra: %v", err)
	}

	list, err := f.svc.Catalog.ListProjects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Nome != "Berlin" || list[1].Nome != "Paris" {
		t.Errorf("lista inesperada: %+v", list)
	}
}

func TestCatalogService_DeleteProject_Cascade(t *testing.T) {
	f := busyFixture(t)
	ctx := context.Background()

	_, err := f.svc.Catalog.DeleteProject(ctx, f.project.ID, &dto.DeleteRequest{Confirmacao: "sim"}, adminActor())
	if !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("esperado ErrConfirmationRequired, obtido %v", err)
	}
	if len(f.store.launches) == 0 {
		t.Fatal("nada deveria ter sido removido sem confirmação")
	}

	res, err := f.svc.Catalog.DeleteProject(ctx, f.project.ID, &dto.DeleteRequest{Confirmacao: "excluir"}, adminActor())
	if err != nil {
		t.Fatalf("DeleteProject falhou: %v", err)
	}
	want := map[string]int64{
		tableLaunches:    3,
		tableStates:      2,
		tableActivations: 1,
		tableQuantities:  1,
		tableHouses:      1,
		tablePhases:      0,
		tableServices:    2,
		tableProjects:    1,
	}
	if !reflect.DeepEqual(res.Removidos, want) {
		t.Errorf("contagem inesperada:\n obtido %v\n esperado %v", res.Removidos, want)
	}
	if len(f.store.projects)+len(f.store.houses)+len(f.store.services)+len(f.store.launches)+len(f.store.states) != 0 {
		t.Error("restaram linhas da obra")
	}
}

func TestCatalogService_DeleteProject_KeepsLegacyServices(t *testing.T) {
	f := newObraFixture(t)
	ctx := context.Background()
	legacy := &model.Service{Nome: "Limpeza", Etapa: "Final"}
	if err := f.repo.Service.Create(ctx, legacy); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.Catalog.DeleteProject(ctx, f.project.ID, &dto.DeleteRequest{Confirmacao: "EXCLUIR"}, adminActor()); err != nil {
		t.Fatal(err)
	}
	if _, ok := f.store.services[legacy.ID]; !ok {
		t.Error("serviço legado não pertence à obra e deveria permanecer")
	}
}

func TestCatalogService_Phases(t *testing.T) {
	f := newObraFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Catalog.CreatePhase(ctx, f.project.ID, &dto.CreatePhaseRequest{Nome: "Pintura"}, adminActor()); err != nil {
		t.Fatalf("CreatePhase falhou: %v", err)
	}
	_, err := f.svc.Catalog.CreatePhase(ctx, f.project.ID, &dto.CreatePhaseRequest{Nome: "Pintura"}, adminActor())
	if !errors.Is(err, ErrPhaseExists) {
		t.Errorf("esperado ErrPhaseExists, obtido %v", err)
	}
	_, err = f.svc.Catalog.CreatePhase(ctx, f.project.ID, &dto.CreatePhaseRequest{Nome: model.AllPhases}, adminActor())
	if !errors.Is(err, ErrReservedPhase) {
		t.Errorf("esperado ErrReservedPhase, obtido %v", err)
	}

	list, err := f.svc.Catalog.ListPhases(ctx, f.project.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Cadastradas) != 1 || list.Cadastradas[0].Nome != "Pintura" {
		t.Errorf("cadastradas inesperadas: %+v", list.Cadastradas)
	}
	if !reflect.DeepEqual(list.Efetivas, []string{"Pintura", "Reboco"}) {
		t.Errorf("efetivas inesperadas: %v", list.Efetivas)
	}
}

func TestCatalogService_CreateService_LinksRegisteredPhase(t *testing.T) {
	f := newObraFixture(t)
	ctx := context.Background()
	phase, err := f.svc.Catalog.CreatePhase(ctx, f.project.ID, &dto.CreatePhaseRequest{Nome: "Pintura"}, adminActor())
	if err != nil {
		t.Fatal(err)
	}

	svc, err := f.svc.Catalog.CreateService(ctx, f.project.ID, &dto.CreateServiceRequest{Nome: "Massa corrida", Etapa: "Pintura"}, adminActor())
	if err != nil {
		t.Fatalf("CreateService falhou: %v", err)
	}
	if svc.EtapaID == nil || *svc.EtapaID != phase.ID || svc.Legado {
		t.Errorf("serviço inesperado: %+v", svc)
	}

	free, err := f.svc.Catalog.CreateService(ctx, f.project.ID, &dto.CreateServiceRequest{Nome: "Rufo", Etapa: "Cobertura"}, adminActor())
	if err != nil {
		t.Fatal(err)
	}
	if free.EtapaID != nil {
		t.Errorf("etapa livre não tem cadastro: %+v", free)
	}

	_, err = f.svc.Catalog.CreateService(ctx, f.project.ID, &dto.CreateServiceRequest{Nome: "Chapisco", Etapa: "Reboco"}, adminActor())
	if !errors.Is(err, ErrServiceExists) {
		t.Errorf("esperado ErrServiceExists, obtido %v", err)
	}

	reboco, err := f.svc.Catalog.ListServices(ctx, f.project.ID, &dto.ServiceListRequest{Etapa: "Reboco"})
	if err != nil {
		t.Fatal(err)
	}
	if len(reboco) != 2 {
		t.Errorf("esperado 2 serviços em Reboco, obtido %d", len(reboco))
	}
}

func TestCatalogService_DeletePhase(t *testing.T) {
	f := busyFixture(t)
	ctx := context.Background()
	pintura := f.addService(t, "Pintura Externa", "Pintura")

	res, err := f.svc.Catalog.DeletePhase(ctx, f.project.ID, &dto.DeletePhaseRequest{Etapa: "Reboco", Confirmacao: "DELETE"}, adminActor())
	if err != nil {
		t.Fatalf("DeletePhase falhou: %v", err)
	}
	if res.Removidos[tableServices] != 2 || res.Removidos[tableLaunches] != 3 || res.Removidos[tableActivations] != 1 {
		t.Errorf("contagem inesperada: %v", res.Removidos)
	}
	if _, ok := f.store.services[pintura.ID]; !ok {
		t.Error("serviço de outra etapa não pode ser removido")
	}
	if _, ok := f.store.houses[f.house.ID]; !ok {
		t.Error("casas não são removidas com a etapa")
	}

	_, err = f.svc.Catalog.DeletePhase(ctx, f.project.ID, &dto.DeletePhaseRequest{Etapa: "Reboco", Confirmacao: "EXCLUIR"}, adminActor())
	if !errors.Is(err, ErrPhaseHasNoRecord) {
		t.Errorf("esperado ErrPhaseHasNoRecord, obtido %v", err)
	}
}

func TestCatalogService_DeleteService(t *testing.T) {
	f := busyFixture(t)
	ctx := context.Background()

	res, err := f.svc.Catalog.DeleteService(ctx, f.chapisco.ID, &dto.DeleteRequest{Confirmacao: "EXCLUIR"}, adminActor())
	if err != nil {
		t.Fatalf("DeleteService falhou: %v", err)
	}
	want := map[string]int64{tableLaunches: 2, tableStates: 1, tableQuantities: 1, tableServices: 1}
	if !reflect.DeepEqual(res.Removidos, want) {
		t.Errorf("contagem inesperada: %v", res.Removidos)
	}
	if f.state(f.house.ID, f.reboco.ID) == nil {
		t.Error("estado do outro serviço deveria permanecer")
	}
}

func TestCatalogService_Houses(t *testing.T) {
	f := busyFixture(t)
	ctx := context.Background()

	h, err := f.svc.Catalog.CreateHouse(ctx, f.project.ID, &dto.CreateHouseRequest{Lote: "QD 4 LT 1", CodTipologia: "T2"}, adminActor())
	if err != nil {
		t.Fatalf("CreateHouse falhou: %v", err)
	}
	_, err = f.svc.Catalog.CreateHouse(ctx, f.project.ID, &dto.CreateHouseRequest{Lote: "QD 3 LT 15"}, adminActor())
	if !errors.Is(err, ErrHouseExists) {
		t.Errorf("esperado ErrHouseExists, obtido %v", err)
	}

	houses, err := f.svc.Catalog.ListHouses(ctx, f.project.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(houses) != 2 {
		t.Errorf("esperado 2 casas, obtido %d", len(houses))
	}

	res, err := f.svc.Catalog.DeleteHouse(ctx, f.house.ID, &dto.DeleteRequest{Confirmacao: "EXCLUIR"}, adminActor())
	if err != nil {
		t.Fatalf("DeleteHouse falhou: %v", err)
	}
	want := map[string]int64{tableLaunches: 3, tableStates: 2, tableActivations: 1, tableHouses: 1}
	if !reflect.DeepEqual(res.Removidos, want) {
		t.Errorf("contagem inesperada: %v", res.Removidos)
	}
	if _, ok := f.store.houses[h.ID]; !ok {
		t.Error("outra casa não pode ser removida")
	}
}

func TestCatalogService_PlannedQuantity(t *testing.T) {
	f := newObraFixture(t)
	ctx := context.Background()

	q, err := f.svc.Catalog.SetPlannedQuantity(ctx, f.project.ID, &dto.PlannedQuantityRequest{ServicoID: f.reboco.ID, CodTipologia: "T1", Quantidade: "48,75", Unidade: "m2"}, adminActor())
	if err != nil {
		t.Fatalf("SetPlannedQuantity falhou: %v", err)
	}
	if q.Quantidade != "48.75" {
		t.Errorf("quantidade esperada 48.75, obtida %s", q.Quantidade)
	}

	if _, err := f.svc.Catalog.SetPlannedQuantity(ctx, f.project.ID, &dto.PlannedQuantityRequest{ServicoID: f.reboco.ID, CodTipologia: "T1", Quantidade: "50"}, adminActor()); err != nil {
		t.Fatal(err)
	}
	list, err := f.svc.Catalog.ListPlannedQuantities(ctx, f.project.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Quantidade != "50" {
		t.Errorf("regravar deveria substituir: %+v", list)
	}

	for _, bad := range []string{"-1", "abc", ""} {
		_, err := f.svc.Catalog.SetPlannedQuantity(ctx, f.project.ID, &dto.PlannedQuantityRequest{ServicoID: f.reboco.ID, Quantidade: bad}, adminActor())
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("%q: esperado ErrInvalidQuantity, obtido %v", bad, err)
		}
	}
}
