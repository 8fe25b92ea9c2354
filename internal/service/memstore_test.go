package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"farmacia/internal/model"
	"farmacia/internal/repository"
)

// ── In-memory repositories ───────────────────────────────────────────────────
// memStore emulates the store constraints the services rely on: unique
// category names, the FK from medicamentos to tipos_medicamento (RESTRICT on
// delete) and not-found on missing ids.

type memStore struct {
	mu       sync.Mutex
	tipos    map[int64]*model.TipoMedicamento
	meds     map[int64]*model.Medicamento
	nextTipo int64
	nextMed  int64
	reloj    time.Time
}

func newMemStore() *memStore {
	return &memStore{
		tipos: make(map[int64]*model.TipoMedicamento),
		meds:  make(map[int64]*model.Medicamento),
		reloj: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing timestamps so ordering by created_at is stable.
func (s *memStore) tick() time.Time {
	s.reloj = s.reloj.Add(time.Second)
	return s.reloj
}

func (s *memStore) tipoRepo() *memTipoRepo { return &memTipoRepo{s} }
func (s *memStore) medRepo() *memMedRepo   { return &memMedRepo{s} }

type memTipoRepo struct{ s *memStore }

func (r *memTipoRepo) Crear(_ context.Context, t *model.TipoMedicamento) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existente := range r.s.tipos {
		if existente.Nombre == t.Nombre {
			return repository.ErrDuplicado
		}
	}
	r.s.nextTipo++
	t.ID = r.s.nextTipo
	t.CreatedAt = r.s.tick()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	r.s.tipos[t.ID] = &cp
	return nil
}

func (r *memTipoRepo) Listar(_ context.Context) ([]model.TipoMedicamento, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]model.TipoMedicamento, 0, len(r.s.tipos))
	for id := range r.s.tipos {
		list = append(list, r.s.tipoConMedicamentos(id))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *memTipoRepo) ObtenerPorID(_ context.Context, id int64) (*model.TipoMedicamento, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tipos[id]; !ok {
		return nil, repository.ErrNoEncontrado
	}
	t := r.s.tipoConMedicamentos(id)
	return &t, nil
}

func (r *memTipoRepo) Existe(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.tipos[id]
	return ok, nil
}

func (r *memTipoRepo) Actualizar(_ context.Context, t *model.TipoMedicamento) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	actual, ok := r.s.tipos[t.ID]
	if !ok {
		return repository.ErrNoEncontrado
	}
	for id, otro := range r.s.tipos {
		if id != t.ID && otro.Nombre == t.Nombre {
			return repository.ErrDuplicado
		}
	}
	actual.Nombre = t.Nombre
	actual.Descripcion = t.Descripcion
	actual.UpdatedAt = r.s.tick()
	return nil
}

func (r *memTipoRepo) ContarMedicamentos(_ context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.contar(id), nil
}

func (r *memTipoRepo) Eliminar(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tipos[id]; !ok {
		return repository.ErrNoEncontrado
	}
	if r.s.contar(id) > 0 {
		return repository.ErrReferencia
	}
	delete(r.s.tipos, id)
	return nil
}

type memMedRepo struct{ s *memStore }

func (r *memMedRepo) Crear(_ context.Context, m *model.Medicamento) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tipos[m.TipoMedicamentoID]; !ok {
		return repository.ErrReferencia
	}
	r.s.nextMed++
	m.ID = r.s.nextMed
	m.CreatedAt = r.s.tick()
	m.UpdatedAt = m.CreatedAt
	cp := *m
	cp.TipoMedicamento = nil
	r.s.meds[m.ID] = &cp
	return nil
}

func (r *memMedRepo) Listar(_ context.Context) ([]model.Medicamento, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := make([]model.Medicamento, 0, len(r.s.meds))
	for id := range r.s.meds {
		list = append(list, r.s.medConTipo(id))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *memMedRepo) ObtenerPorID(_ context.Context, id int64) (*model.Medicamento, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.meds[id]; !ok {
		return nil, repository.ErrNoEncontrado
	}
	m := r.s.medConTipo(id)
	return &m, nil
}

func (r *memMedRepo) Actualizar(_ context.Context, m *model.Medicamento) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	actual, ok := r.s.meds[m.ID]
	if !ok {
		return repository.ErrNoEncontrado
	}
	if _, ok := r.s.tipos[m.TipoMedicamentoID]; !ok {
		return repository.ErrReferencia
	}
	creado := actual.CreatedAt
	*actual = *m
	actual.TipoMedicamento = nil
	actual.CreatedAt = creado
	actual.UpdatedAt = r.s.tick()
	return nil
}

func (r *memMedRepo) Eliminar(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.meds[id]; !ok {
		return repository.ErrNoEncontrado
	}
	delete(r.s.meds, id)
	return nil
}

func (r *memMedRepo) ListarAlertas(_ context.Context, stockMax int, hasta time.Time) ([]model.Medicamento, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []model.Medicamento
	for id, m := range r.s.meds {
		if m.Stock <= stockMax || !m.FechaVencimiento.After(hasta) {
			list = append(list, r.s.medConTipo(id))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].FechaVencimiento.Before(list[j].FechaVencimiento) })
	return list, nil
}

// Callers hold s.mu.

func (s *memStore) contar(tipoID int64) int64 {
	var n int64
	for _, m := range s.meds {
		if m.TipoMedicamentoID == tipoID {
			n++
		}
	}
	return n
}

func (s *memStore) tipoConMedicamentos(id int64) model.TipoMedicamento {
	t := *s.tipos[id]
	t.Medicamentos = nil
	for _, m := range s.meds {
		if m.TipoMedicamentoID == id {
			t.Medicamentos = append(t.Medicamentos, *m)
		}
	}
	sort.Slice(t.Medicamentos, func(i, j int) bool {
		return t.Medicamentos[i].CreatedAt.After(t.Medicamentos[j].CreatedAt)
	})
	return t
}

func (s *memStore) medConTipo(id int64) model.Medicamento {
	m := *s.meds[id]
	if t, ok := s.tipos[m.TipoMedicamentoID]; ok {
		cp := *t
		m.TipoMedicamento = &cp
	}
	return m
}

var (
	_ repository.TipoMedicamentoRepository = (*memTipoRepo)(nil)
	_ repository.MedicamentoRepository     = (*memMedRepo)(nil)
)
