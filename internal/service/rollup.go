package service

import (
	"context"
	"math"
	"strings"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/model"
	"acompanhamento-obras/internal/repository"
)

// StateCounts contagem dos serviços de uma casa dentro do filtro de etapa
type StateCounts struct {
	Total      int
	Done       int
	InProgress int
}

// CountStates conta, entre os serviços do filtro, quantos estão concluídos
// e em execução segundo statusByService (servico_id → status). Serviço sem
// estado gravado conta como não iniciado.
func CountStates(services []model.Service, statusByService map[int64]string) StateCounts {
	c := StateCounts{Total: len(services)}
	for _, svc := range services {
		switch statusByService[svc.ID] {
		case model.StatusDone:
			c.Done++
		case model.StatusInProgress:
			c.InProgress++
		}
	}
	return c
}

// ClassifyHouse rótulo da casa: inativa é sempre "Não iniciado"; ativa com
// todos os serviços concluídos é "Concluído"; qualquer outro caso ativo,
// inclusive sem serviços, é "Em execução".
func ClassifyHouse(active bool, c StateCounts) string {
	if !active {
		return model.StatusNotStarted
	}
	if c.Total > 0 && c.Done == c.Total {
		return model.StatusDone
	}
	return model.StatusInProgress
}

// ProgressPercent 100 × (concluídos + em execução) / total, com uma casa
// decimal; zero quando não há serviços.
func ProgressPercent(c StateCounts) float64 {
	if c.Total == 0 {
		return 0
	}
	pct := 100 * float64(c.Done+c.InProgress) / float64(c.Total)
	return math.Round(pct*10) / 10
}

// resolveActivation decide se a casa participa do filtro de etapa.
//
// Etapa específica: a linha de casa_ativacoes da etapa vence quando existe;
// sem linha, vale o flag legado da casa. Filtro "Todas": ativa se qualquer
// linha estiver ativa; o flag legado só é consultado quando a casa não tem
// nenhuma linha de ativação.
func resolveActivation(house *model.House, rows []model.Activation, etapa string) (bool, string, *model.Activation) {
	if etapa == model.AllPhases {
		for i := range rows {
			if rows[i].Ativa {
				return true, dto.ActivationSourcePhase, &rows[i]
			}
		}
		if len(rows) > 0 {
			return false, dto.ActivationSourcePhase, nil
		}
		return legacyActivation(house)
	}

	for i := range rows {
		if rows[i].Etapa == etapa {
			return rows[i].Ativa, dto.ActivationSourcePhase, &rows[i]
		}
	}
	return legacyActivation(house)
}

func legacyActivation(house *model.House) (bool, string, *model.Activation) {
	if house.Ativa {
		return true, dto.ActivationSourceLegacy, nil
	}
	return false, dto.ActivationSourceNone, nil
}

// effectiveServices conjunto de serviços do filtro de etapa. Uma linha legada
// (obra_id nulo) com o mesmo nome e etapa de um serviço da obra fica oculta
// por ele. A ordem de entrada é preservada.
func effectiveServices(services []model.Service, obraID int64) []model.Service {
	type key struct{ nome, etapa string }
	owned := make(map[key]bool, len(services))
	for _, svc := range services {
		if svc.ObraID != nil && *svc.ObraID == obraID {
			owned[key{strings.TrimSpace(svc.Nome), svc.Etapa}] = true
		}
	}
	out := make([]model.Service, 0, len(services))
	for _, svc := range services {
		if svc.ObraID == nil && owned[key{strings.TrimSpace(svc.Nome), svc.Etapa}] {
			continue
		}
		out = append(out, svc)
	}
	return out
}

// phaseServices serviços efetivos da etapa na obra. Ativação, candidatos de
// lançamento e o painel usam todos este mesmo conjunto.
func phaseServices(ctx context.Context, repo *repository.Repository, obraID int64, etapa string) ([]model.Service, error) {
	list, err := repo.Service.ListByPhase(ctx, obraID, etapa)
	if err != nil {
		return nil, err
	}
	return effectiveServices(list, obraID), nil
}
