package service

import (
	"context"
	"sort"

	"gencontrol/internal/catalog"
	"gencontrol/internal/models"
	"gencontrol/internal/repository"
)

// fakeAuditRepo is an in-memory repository.AuditRepo.
type fakeAuditRepo struct {
	appended []models.AuditRecord
	history  []models.AuditRecord

	appendErr error
	listErr   error
	lastErr   error

	lastFilter repository.AuditFilter
	listCalls  int
}

func (f *fakeAuditRepo) Append(ctx context.Context, a models.AuditRecord) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, a)
	return nil
}

func (f *fakeAuditRepo) List(ctx context.Context, flt repository.AuditFilter) ([]models.AuditRecord, error) {
	f.listCalls++
	f.lastFilter = flt
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := append([]models.AuditRecord(nil), f.history...)
	if flt.Limit > 0 && len(out) > flt.Limit {
		out = out[:flt.Limit]
	}
	return out, nil
}

func (f *fakeAuditRepo) LastForEquipment(ctx context.Context, equipmentID string) (*models.AuditRecord, error) {
	if f.lastErr != nil {
		return nil, f.lastErr
	}
	for _, a := range f.history {
		if a.EquipmentID == equipmentID {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

// fakeEquipmentRepo is an in-memory repository.EquipmentRepo.
type fakeEquipmentRepo struct {
	items     map[string]models.Equipment
	createErr error
	getErr    error
}

func newFakeEquipmentRepo(eqs ...models.Equipment) *fakeEquipmentRepo {
	f := &fakeEquipmentRepo{items: map[string]models.Equipment{}}
	for _, e := range eqs {
		f.items[e.EquipmentID] = e
	}
	return f
}

func (f *fakeEquipmentRepo) Create(ctx context.Context, e models.Equipment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.items[e.EquipmentID] = e
	return nil
}

func (f *fakeEquipmentRepo) GetByID(ctx context.Context, id string) (*models.Equipment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	e, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (f *fakeEquipmentRepo) List(ctx context.Context) ([]models.Equipment, error) {
	out := make([]models.Equipment, 0, len(f.items))
	for _, e := range f.items {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EquipmentID < out[j].EquipmentID })
	return out, nil
}

// fakeOverrides serves fixed learned overrides keyed by equipment and scenario.
type fakeOverrides struct {
	items map[string]models.LoadOverride
	err   error
}

func (f *fakeOverrides) GetOverride(ctx context.Context, equipmentID string, sc catalog.ScenarioCode) (*models.LoadOverride, error) {
	if f.err != nil {
		return nil, f.err
	}
	o, ok := f.items[equipmentID+"/"+string(sc)]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

// fakeOverrideRepo is a minimal repository.OverrideRepo.
type fakeOverrideRepo struct {
	active  []models.LoadOverride
	listErr error
}

func (f *fakeOverrideRepo) Get(ctx context.Context, equipmentID, scenarioCode string) (*models.LoadOverride, error) {
	return nil, nil
}
func (f *fakeOverrideRepo) UpsertOverrides(ctx context.Context, overrides []models.LoadOverride) error {
	return nil
}
func (f *fakeOverrideRepo) ListActive(ctx context.Context) ([]models.LoadOverride, error) {
	return f.active, f.listErr
}
