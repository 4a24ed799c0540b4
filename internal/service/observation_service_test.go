package service

import (
	"context"
	"strings"
	"testing"

	"acompanhamento-obras/internal/dto"
)

func TestObservationService_List(t *testing.T) {
	f := newObraFixture(t)
	ctx := context.Background()
	f.addService(t, "Pintura Externa", "Pintura")
	activate(t, f, f.house.ID, "Reboco")
	activate(t, f, f.house.ID, "Pintura")

	if _, err := f.svc.Launch.StartServices(ctx, f.house.ID, startReq("Chapisco"), operatorActor()); err != nil {
		t.Fatal(err)
	}
	silent := startReq("Reboco Interno")
	silent.Observacoes = ""
	if _, err := f.svc.Launch.StartServices(ctx, f.house.ID, silent, operatorActor()); err != nil {
		t.Fatal(err)
	}
	finish := finishReq(f.chapisco.ID, "2026-03-09")
	finish.Observacoes = "faltou tela na junta"
	if _, err := f.svc.Launch.FinishService(ctx, f.house.ID, finish, nil, operatorActor()); err != nil {
		t.Fatal(err)
	}
	pintura := &dto.StartServicesRequest{Etapa: "Pintura", Servicos: []string{"Pintura Externa"}, Executor: "Equipe C", DataInicio: "2026-03-10", Observacoes: "cor definida pelo cliente"}
	if _, err := f.svc.Launch.StartServices(ctx, f.house.ID, pintura, operatorActor()); err != nil {
		t.Fatal(err)
	}

	all, err := f.svc.Observation.List(ctx, f.house.ID, &dto.ObservationRequest{})
	if err != nil {
		t.Fatalf("List falhou: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("esperado 3 observações, obtido %d", len(all))
	}

	reboco, err := f.svc.Observation.List(ctx, f.house.ID, &dto.ObservationRequest{Etapa: "Reboco"})
	if err != nil {
		t.Fatal(err)
	}
	if len(reboco) != 2 {
		t.Fatalf("esperado 2 observações em Reboco, obtido %d", len(reboco))
	}
	for _, o := range reboco {
		if o.Servico != "Chapisco" {
			t.Errorf("observação inesperada: %+v", o)
		}
		if o.Observacoes == "faltou tela na junta" && o.Data != "2026-03-09" {
			t.Errorf("conclusão deveria usar a data de conclusão: %+v", o)
		}
		if o.Observacoes == "início conforme cronograma" && o.Data != "2026-03-02" {
			t.Errorf("início deveria usar a data de início: %+v", o)
		}
	}

	if _, err := f.svc.Correction.VoidLastLaunch(ctx, f.house.ID, &dto.VoidLaunchRequest{ServicoID: f.chapisco.ID, Motivo: "refazer"}, adminActor()); err != nil {
		t.Fatal(err)
	}
	reboco, err = f.svc.Observation.List(ctx, f.house.ID, &dto.ObservationRequest{Etapa: "Reboco"})
	if err != nil {
		t.Fatal(err)
	}
	if len(reboco) != 1 {
		t.Errorf("observação anulada não deveria aparecer: %+v", reboco)
	}
}

func TestObservationService_Export(t *testing.T) {
	f := startedChapisco(t)

	buf, filename, err := f.svc.Observation.Export(context.Background(), f.house.ID, &dto.ObservationRequest{Formato: "csv"})
	if err != nil {
		t.Fatalf("Export falhou: %v", err)
	}
	if filename != "observacoes_QD_3_LT_15.csv" {
		t.Errorf("nome inesperado: %s", filename)
	}
	if !strings.Contains(buf.String(), "início conforme cronograma") {
		t.Errorf("observação ausente do arquivo: %q", buf.String())
	}
}
