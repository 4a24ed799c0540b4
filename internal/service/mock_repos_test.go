package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"acompanhamento-obras/internal/model"
	"acompanhamento-obras/internal/repository"
)

// memStore banco em memória compartilhado pelos dublês de repositório
type memStore struct {
	seq         int64
	projects    map[int64]*model.Project
	phases      map[int64]*model.Phase
	houses      map[int64]*model.House
	services    map[int64]*model.Service
	activations map[int64]*model.Activation
	states      map[int64]*model.ServiceState
	launches    map[int64]*model.Launch
	audit       []model.AuditEntry
	users       map[int64]*model.User
	quantities  map[int64]*model.PlannedQuantity

	// auditErr simula falha ao gravar auditoria
	auditErr error
}

func newMemStore() *memStore {
	return &memStore{
		projects:    map[int64]*model.Project{},
		phases:      map[int64]*model.Phase{},
		houses:      map[int64]*model.House{},
		services:    map[int64]*model.Service{},
		activations: map[int64]*model.Activation{},
		states:      map[int64]*model.ServiceState{},
		launches:    map[int64]*model.Launch{},
		users:       map[int64]*model.User{},
		quantities:  map[int64]*model.PlannedQuantity{},
	}
}

func (s *memStore) nextID() int64 {
	s.seq++
	return s.seq
}

// newMockRepository agregado sem conexão: BeginTx devolve nil e as
// "transações" escrevem direto no memStore
func newMockRepository() (*repository.Repository, *memStore) {
	s := newMemStore()
	return &repository.Repository{
		Project:         &mockProjectRepo{s},
		Phase:           &mockPhaseRepo{s},
		House:           &mockHouseRepo{s},
		Service:         &mockServiceRepo{s},
		Activation:      &mockActivationRepo{s},
		ServiceState:    &mockServiceStateRepo{s},
		Launch:          &mockLaunchRepo{s},
		Audit:           &mockAuditRepo{s},
		User:            &mockUserRepo{s},
		PlannedQuantity: &mockPlannedQuantityRepo{s},
	}, s
}

func inIDs(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// ── Mock ProjectRepository ──

type mockProjectRepo struct{ s *memStore }

func (m *mockProjectRepo) Create(_ context.Context, p *model.Project) error {
	for _, existing := range m.s.projects {
		if existing.Nome == p.Nome {
			return gorm.ErrDuplicatedKey
		}
	}
	p.ID = m.s.nextID()
	p.CreatedAt = time.Now()
	cp := *p
	m.s.projects[p.ID] = &cp
	return nil
}

func (m *mockProjectRepo) GetByID(_ context.Context, id int64) (*model.Project, error) {
	if p, ok := m.s.projects[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProjectRepo) GetByName(_ context.Context, nome string) (*model.Project, error) {
	for _, p := range m.s.projects {
		if p.Nome == nome {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProjectRepo) List(_ context.Context) ([]model.Project, error) {
	var out []model.Project
	for _, p := range m.s.projects {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, nil
}

func (m *mockProjectRepo) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := m.s.projects[id]; !ok {
		return 0, nil
	}
	delete(m.s.projects, id)
	return 1, nil
}

// ── Mock PhaseRepository ──

type mockPhaseRepo struct{ s *memStore }

func (m *mockPhaseRepo) Create(_ context.Context, p *model.Phase) error {
	for _, existing := range m.s.phases {
		if existing.ObraID == p.ObraID && existing.Nome == p.Nome {
			return gorm.ErrDuplicatedKey
		}
	}
	p.ID = m.s.nextID()
	cp := *p
	m.s.phases[p.ID] = &cp
	return nil
}

func (m *mockPhaseRepo) GetByID(_ context.Context, id int64) (*model.Phase, error) {
	if p, ok := m.s.phases[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPhaseRepo) GetByName(_ context.Context, obraID int64, nome string) (*model.Phase, error) {
	for _, p := range m.s.phases {
		if p.ObraID == obraID && p.Nome == nome {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPhaseRepo) ListByProject(_ context.Context, obraID int64) ([]model.Phase, error) {
	var out []model.Phase
	for _, p := range m.s.phases {
		if p.ObraID == obraID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, nil
}

func (m *mockPhaseRepo) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := m.s.phases[id]; !ok {
		return 0, nil
	}
	delete(m.s.phases, id)
	return 1, nil
}

func (m *mockPhaseRepo) DeleteByProject(_ context.Context, obraID int64) (int64, error) {
	var n int64
	for id, p := range m.s.phases {
		if p.ObraID == obraID {
			delete(m.s.phases, id)
			n++
		}
	}
	return n, nil
}

// ── Mock HouseRepository ──

type mockHouseRepo struct{ s *memStore }

func (m *mockHouseRepo) Create(_ context.Context, h *model.House) error {
	for _, existing := range m.s.houses {
		if existing.ObraID == h.ObraID && existing.Lote == h.Lote {
			return gorm.ErrDuplicatedKey
		}
	}
	h.ID = m.s.nextID()
	cp := *h
	m.s.houses[h.ID] = &cp
	return nil
}

func (m *mockHouseRepo) GetByID(_ context.Context, id int64) (*model.House, error) {
	if h, ok := m.s.houses[id]; ok {
		cp := *h
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHouseRepo) GetByLote(_ context.Context, obraID int64, lote string) (*model.House, error) {
	for _, h := range m.s.houses {
		if h.ObraID == obraID && h.Lote == lote {
			cp := *h
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHouseRepo) ListByProject(_ context.Context, obraID int64) ([]model.House, error) {
	var out []model.House
	for _, h := range m.s.houses {
		if h.ObraID == obraID {
			out = append(out, *h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lote < out[j].Lote })
	return out, nil
}

func (m *mockHouseRepo) IDsByProject(_ context.Context, obraID int64) ([]int64, error) {
	var ids []int64
	for id, h := range m.s.houses {
		if h.ObraID == obraID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *mockHouseRepo) SetLegacyActive(_ context.Context, id int64, ativa bool) error {
	if h, ok := m.s.houses[id]; ok {
		h.Ativa = ativa
	}
	return nil
}

func (m *mockHouseRepo) UpsertBatch(_ context.Context, houses []model.House) (int64, error) {
	for _, h := range houses {
		updated := false
		for _, existing := range m.s.houses {
			if existing.ObraID == h.ObraID && existing.Lote == h.Lote {
				existing.CodTipologia = h.CodTipologia
				existing.Tipologia = h.Tipologia
				updated = true
				break
			}
		}
		if !updated {
			cp := h
			cp.ID = m.s.nextID()
			m.s.houses[cp.ID] = &cp
		}
	}
	return int64(len(houses)), nil
}

func (m *mockHouseRepo) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := m.s.houses[id]; !ok {
		return 0, nil
	}
	delete(m.s.houses, id)
	return 1, nil
}

func (m *mockHouseRepo) DeleteByProject(_ context.Context, obraID int64) (int64, error) {
	var n int64
	for id, h := range m.s.houses {
		if h.ObraID == obraID {
			delete(m.s.houses, id)
			n++
		}
	}
	return n, nil
}

// ── Mock ServiceRepository ──

type mockServiceRepo struct{ s *memStore }

func sameObra(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (m *mockServiceRepo) Create(_ context.Context, svc *model.Service) error {
	for _, existing := range m.s.services {
		if existing.Nome == svc.Nome && existing.Etapa == svc.Etapa && sameObra(existing.ObraID, svc.ObraID) {
			return gorm.ErrDuplicatedKey
		}
	}
	svc.ID = m.s.nextID()
	cp := *svc
	m.s.services[svc.ID] = &cp
	return nil
}

func (m *mockServiceRepo) GetByID(_ context.Context, id int64) (*model.Service, error) {
	if svc, ok := m.s.services[id]; ok {
		cp := *svc
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockServiceRepo) ListByPhase(_ context.Context, obraID int64, etapa string) ([]model.Service, error) {
	var out []model.Service
	for _, svc := range m.s.services {
		if svc.ObraID != nil && *svc.ObraID != obraID {
			continue
		}
		if etapa != model.AllPhases && svc.Etapa != etapa {
			continue
		}
		out = append(out, *svc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Etapa != out[j].Etapa {
			return out[i].Etapa < out[j].Etapa
		}
		return out[i].Nome < out[j].Nome
	})
	return out, nil
}

func (m *mockServiceRepo) DistinctPhases(_ context.Context, obraID int64) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, svc := range m.s.services {
		if svc.ObraID != nil && *svc.ObraID != obraID {
			continue
		}
		if !seen[svc.Etapa] {
			seen[svc.Etapa] = true
			out = append(out, svc.Etapa)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *mockServiceRepo) OwnedIDsByPhase(_ context.Context, obraID int64, etapa string) ([]int64, error) {
	var ids []int64
	for id, svc := range m.s.services {
		if svc.ObraID != nil && *svc.ObraID == obraID && svc.Etapa == etapa {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *mockServiceRepo) OwnedIDsByProject(_ context.Context, obraID int64) ([]int64, error) {
	var ids []int64
	for id, svc := range m.s.services {
		if svc.ObraID != nil && *svc.ObraID == obraID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *mockServiceRepo) UpsertBatch(_ context.Context, services []model.Service) (int64, error) {
	for _, svc := range services {
		updated := false
		for _, existing := range m.s.services {
			if existing.Nome == svc.Nome && existing.Etapa == svc.Etapa && sameObra(existing.ObraID, svc.ObraID) {
				existing.EtapaID = svc.EtapaID
				updated = true
				break
			}
		}
		if !updated {
			cp := svc
			cp.ID = m.s.nextID()
			m.s.services[cp.ID] = &cp
		}
	}
	return int64(len(services)), nil
}

func (m *mockServiceRepo) DeleteByIDs(_ context.Context, ids []int64) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := m.s.services[id]; ok {
			delete(m.s.services, id)
			n++
		}
	}
	return n, nil
}

func (m *mockServiceRepo) UnlinkPhases(_ context.Context, etapaIDs []int64) (int64, error) {
	var n int64
	for _, svc := range m.s.services {
		if svc.EtapaID != nil && inIDs(etapaIDs, *svc.EtapaID) {
			svc.EtapaID = nil
			n++
		}
	}
	return n, nil
}

// ── Mock ActivationRepository ──

type mockActivationRepo struct{ s *memStore }

func (m *mockActivationRepo) Get(_ context.Context, casaID int64, etapa string) (*model.Activation, error) {
	for _, a := range m.s.activations {
		if a.CasaID == casaID && a.Etapa == etapa {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockActivationRepo) ListByHouse(_ context.Context, casaID int64) ([]model.Activation, error) {
	var out []model.Activation
	for _, a := range m.s.activations {
		if a.CasaID == casaID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Etapa < out[j].Etapa })
	return out, nil
}

func (m *mockActivationRepo) ListByHouses(_ context.Context, casaIDs []int64) ([]model.Activation, error) {
	var out []model.Activation
	for _, a := range m.s.activations {
		if inIDs(casaIDs, a.CasaID) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockActivationRepo) Upsert(_ context.Context, a *model.Activation) error {
	for _, existing := range m.s.activations {
		if existing.CasaID == a.CasaID && existing.Etapa == a.Etapa {
			existing.Ativa = a.Ativa
			existing.AtivaEm = a.AtivaEm
			existing.AtivaPor = a.AtivaPor
			existing.UpdatedAt = time.Now()
			a.ID = existing.ID
			return nil
		}
	}
	a.ID = m.s.nextID()
	a.UpdatedAt = time.Now()
	cp := *a
	m.s.activations[a.ID] = &cp
	return nil
}

func (m *mockActivationRepo) DeleteByPhase(_ context.Context, obraID int64, etapa string) (int64, error) {
	var n int64
	for id, a := range m.s.activations {
		h, ok := m.s.houses[a.CasaID]
		if ok && h.ObraID == obraID && a.Etapa == etapa {
			delete(m.s.activations, id)
			n++
		}
	}
	return n, nil
}

func (m *mockActivationRepo) DeleteByHouses(_ context.Context, casaIDs []int64) (int64, error) {
	var n int64
	for id, a := range m.s.activations {
		if inIDs(casaIDs, a.CasaID) {
			delete(m.s.activations, id)
			n++
		}
	}
	return n, nil
}

// ── Mock ServiceStateRepository ──

type mockServiceStateRepo struct{ s *memStore }

func (m *mockServiceStateRepo) find(casaID, servicoID int64) *model.ServiceState {
	for _, st := range m.s.states {
		if st.CasaID == casaID && st.ServicoID == servicoID {
			return st
		}
	}
	return nil
}

func (m *mockServiceStateRepo) Get(_ context.Context, casaID, servicoID int64) (*model.ServiceState, error) {
	if st := m.find(casaID, servicoID); st != nil {
		cp := *st
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockServiceStateRepo) ListByHouse(_ context.Context, casaID int64, servicoIDs []int64) ([]model.ServiceState, error) {
	var out []model.ServiceState
	for _, st := range m.s.states {
		if st.CasaID != casaID {
			continue
		}
		if len(servicoIDs) > 0 && !inIDs(servicoIDs, st.ServicoID) {
			continue
		}
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ServicoID < out[j].ServicoID })
	return out, nil
}

func (m *mockServiceStateRepo) ListByHouses(_ context.Context, casaIDs []int64) ([]model.ServiceState, error) {
	var out []model.ServiceState
	for _, st := range m.s.states {
		if inIDs(casaIDs, st.CasaID) {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (m *mockServiceStateRepo) SeedNotStarted(_ context.Context, casaID int64, servicoIDs []int64) (int64, error) {
	var n int64
	for _, id := range servicoIDs {
		if m.find(casaID, id) != nil {
			continue
		}
		st := &model.ServiceState{ID: m.s.nextID(), CasaID: casaID, ServicoID: id, Status: model.StatusNotStarted, UpdatedAt: time.Now()}
		m.s.states[st.ID] = st
		n++
	}
	return n, nil
}

func (m *mockServiceStateRepo) Upsert(_ context.Context, st *model.ServiceState) error {
	if existing := m.find(st.CasaID, st.ServicoID); existing != nil {
		existing.Status = st.Status
		existing.Executor = st.Executor
		existing.DataInicio = st.DataInicio
		existing.DataFim = st.DataFim
		existing.UpdatedAt = time.Now()
		st.ID = existing.ID
		return nil
	}
	st.ID = m.s.nextID()
	st.UpdatedAt = time.Now()
	cp := *st
	m.s.states[st.ID] = &cp
	return nil
}

func (m *mockServiceStateRepo) DeleteByServices(_ context.Context, servicoIDs []int64) (int64, error) {
	var n int64
	for id, st := range m.s.states {
		if inIDs(servicoIDs, st.ServicoID) {
			delete(m.s.states, id)
			n++
		}
	}
	return n, nil
}

func (m *mockServiceStateRepo) DeleteByHouses(_ context.Context, casaIDs []int64) (int64, error) {
	var n int64
	for id, st := range m.s.states {
		if inIDs(casaIDs, st.CasaID) {
			delete(m.s.states, id)
			n++
		}
	}
	return n, nil
}

// ── Mock LaunchRepository ──

type mockLaunchRepo struct{ s *memStore }

func (m *mockLaunchRepo) Create(_ context.Context, l *model.Launch) error {
	l.ID = m.s.nextID()
	l.CreatedAt = time.Now()
	cp := *l
	m.s.launches[l.ID] = &cp
	return nil
}

func (m *mockLaunchRepo) LastActive(_ context.Context, casaID, servicoID int64) (*model.Launch, error) {
	var last *model.Launch
	for _, l := range m.s.launches {
		if l.CasaID != casaID || l.ServicoID != servicoID || l.Anulado {
			continue
		}
		if last == nil || l.ID > last.ID {
			last = l
		}
	}
	if last == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *last
	return &cp, nil
}

func (m *mockLaunchRepo) Void(_ context.Context, id int64, by string, at time.Time, reason string) error {
	l, ok := m.s.launches[id]
	if !ok || l.Anulado {
		return gorm.ErrRecordNotFound
	}
	l.Anulado = true
	l.AnuladoPor = by
	l.AnuladoEm = &at
	l.AnulacaoMotivo = reason
	return nil
}

func (m *mockLaunchRepo) List(_ context.Context, f repository.LaunchFilter) ([]model.Launch, error) {
	var out []model.Launch
	for _, l := range m.s.launches {
		if l.CasaID != f.CasaID {
			continue
		}
		if f.ServicoID != nil && l.ServicoID != *f.ServicoID {
			continue
		}
		if !f.IncludeVoided && l.Anulado {
			continue
		}
		if f.OnlyWithNotes && l.Observacoes == "" {
			continue
		}
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockLaunchRepo) DeleteByServices(_ context.Context, servicoIDs []int64) (int64, error) {
	var n int64
	for id, l := range m.s.launches {
		if inIDs(servicoIDs, l.ServicoID) {
			delete(m.s.launches, id)
			n++
		}
	}
	return n, nil
}

func (m *mockLaunchRepo) DeleteByHouses(_ context.Context, casaIDs []int64) (int64, error) {
	var n int64
	for id, l := range m.s.launches {
		if inIDs(casaIDs, l.CasaID) {
			delete(m.s.launches, id)
			n++
		}
	}
	return n, nil
}

// ── Mock AuditRepository ──

type mockAuditRepo struct{ s *memStore }

func (m *mockAuditRepo) Create(_ context.Context, e *model.AuditEntry) error {
	if m.s.auditErr != nil {
		return m.s.auditErr
	}
	e.ID = m.s.nextID()
	m.s.audit = append(m.s.audit, *e)
	return nil
}

func (m *mockAuditRepo) List(_ context.Context, f repository.AuditFilter) ([]model.AuditEntry, int64, error) {
	var matched []model.AuditEntry
	for i := len(m.s.audit) - 1; i >= 0; i-- {
		e := m.s.audit[i]
		if f.Usuario != "" && e.Usuario != f.Usuario {
			continue
		}
		if f.Acao != "" && e.Acao != f.Acao {
			continue
		}
		if f.From != nil && e.Timestamp.Before(*f.From) {
			continue
		}
		if f.To != nil && !e.Timestamp.Before(*f.To) {
			continue
		}
		matched = append(matched, e)
	}
	total := int64(len(matched))
	if f.PageSize > 0 {
		start := (max(f.Page, 1) - 1) * f.PageSize
		if start >= len(matched) {
			return nil, total, nil
		}
		matched = matched[start:min(start+f.PageSize, len(matched))]
	}
	return matched, total, nil
}

func (m *mockAuditRepo) DistinctUsers(_ context.Context) ([]string, error) {
	return m.distinct(func(e model.AuditEntry) string { return e.Usuario }), nil
}

func (m *mockAuditRepo) DistinctActions(_ context.Context) ([]string, error) {
	return m.distinct(func(e model.AuditEntry) string { return e.Acao }), nil
}

func (m *mockAuditRepo) distinct(field func(model.AuditEntry) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range m.s.audit {
		if v := field(e); !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// actions ações gravadas, na ordem
func (s *memStore) actions() []string {
	out := make([]string, 0, len(s.audit))
	for _, e := range s.audit {
		out = append(out, e.Acao)
	}
	return out
}

// ── Mock UserRepository ──

type mockUserRepo struct{ s *memStore }

func (m *mockUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range m.s.users {
		if existing.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	u.ID = m.s.nextID()
	u.CreatedAt = time.Now()
	cp := *u
	m.s.users[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := m.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range m.s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *mockUserRepo) Update(_ context.Context, u *model.User) error {
	if _, ok := m.s.users[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *u
	m.s.users[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.s.users)), nil
}

// ── Mock PlannedQuantityRepository ──

type mockPlannedQuantityRepo struct{ s *memStore }

func (m *mockPlannedQuantityRepo) Upsert(_ context.Context, q *model.PlannedQuantity) error {
	for _, existing := range m.s.quantities {
		if existing.ServicoID == q.ServicoID && existing.CodTipologia == q.CodTipologia {
			existing.ObraID = q.ObraID
			existing.Quantidade = q.Quantidade
			existing.Unidade = q.Unidade
			q.ID = existing.ID
			return nil
		}
	}
	q.ID = m.s.nextID()
	cp := *q
	m.s.quantities[q.ID] = &cp
	return nil
}

func (m *mockPlannedQuantityRepo) ListByProject(_ context.Context, obraID int64) ([]model.PlannedQuantity, error) {
	var out []model.PlannedQuantity
	for _, q := range m.s.quantities {
		if q.ObraID == obraID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockPlannedQuantityRepo) DeleteByServices(_ context.Context, servicoIDs []int64) (int64, error) {
	var n int64
	for id, q := range m.s.quantities {
		if inIDs(servicoIDs, q.ServicoID) {
			delete(m.s.quantities, id)
			n++
		}
	}
	return n, nil
}

func (m *mockPlannedQuantityRepo) DeleteByProject(_ context.Context, obraID int64) (int64, error) {
	var n int64
	for id, q := range m.s.quantities {
		if q.ObraID == obraID {
			delete(m.s.quantities, id)
			n++
		}
	}
	return n, nil
}
