package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"gencontrol/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var overrideCols = []string{
	"equipment_id", "scenario_code", "load_min", "load_typ", "load_max",
	"learned_from_n_samples", "confidence_score", "last_updated", "is_active",
}

func sampleOverrides() []models.LoadOverride {
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []models.LoadOverride{
		{EquipmentID: "GE-01", ScenarioCode: "GE_HOSPITAL", LearnedLoadMin: 0.64, LearnedLoadTyp: 0.8, LearnedLoadMax: 0.96, Samples: 6, Confidence: 0.9, LastUpdated: ts, IsActive: true},
		{EquipmentID: "TRK-1", ScenarioCode: "TRUCK_HIGHWAY", LearnedLoadMin: 0.48, LearnedLoadTyp: 0.6, LearnedLoadMax: 0.72, Samples: 9, Confidence: 0.9, LastUpdated: ts, IsActive: true},
	}
}

func TestUpsertOverrides_CommitsBatch(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewOverrideSQLite(db)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO equipment_load_overrides"))
	for _, o := range sampleOverrides() {
		prep.ExpectExec().
			WithArgs(o.EquipmentID, o.ScenarioCode, o.LearnedLoadMin, o.LearnedLoadTyp, o.LearnedLoadMax,
				o.Samples, o.Confidence, o.LastUpdated, true).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	if err := repo.UpsertOverrides(ctx(t), sampleOverrides()); err != nil {
		t.Fatalf("UpsertOverrides: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestUpsertOverrides_RollsBackOnFailure(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewOverrideSQLite(db)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta("ON CONFLICT(equipment_id, scenario_code) DO UPDATE"))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	if err := repo.UpsertOverrides(ctx(t), sampleOverrides()); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestUpsertOverrides_BeginError(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewOverrideSQLite(db)

	mock.ExpectBegin().WillReturnError(errors.New("busy"))

	if err := repo.UpsertOverrides(ctx(t), sampleOverrides()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestOverrideGet_FoundAndMissing(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewOverrideSQLite(db)

	ts := time.Date(2026, 2, 2, 2, 2, 2, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE equipment_id = ? AND scenario_code = ? AND is_active = 1")).
		WithArgs("GE-01", "GE_HOSPITAL").
		WillReturnRows(sqlmock.NewRows(overrideCols).AddRow("GE-01", "GE_HOSPITAL", 0.64, 0.8, 0.96, 6, 0.9, ts, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM equipment_load_overrides")).
		WithArgs("GE-02", "GE_HOSPITAL").
		WillReturnRows(sqlmock.NewRows(overrideCols))

	o, err := repo.Get(ctx(t), "GE-01", "GE_HOSPITAL")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if o == nil || o.LearnedLoadTyp != 0.8 || o.Samples != 6 || !o.IsActive || !o.LastUpdated.Equal(ts) {
		t.Fatalf("unexpected override: %+v", o)
	}

	o, err = repo.Get(ctx(t), "GE-02", "GE_HOSPITAL")
	if err != nil {
		t.Fatalf("Get missing: %v", err)
	}
	if o != nil {
		t.Fatalf("want nil, got %+v", o)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestOverrideListActive(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	repo := NewOverrideSQLite(db)

	ts := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE is_active = 1 ORDER BY equipment_id, scenario_code")).
		WillReturnRows(sqlmock.NewRows(overrideCols).
			AddRow("A", "TP_CRANE", 0.2, 0.25, 0.3, 5, 0.9, ts, true).
			AddRow("B", "TP_CRANE", 0.4, 0.5, 0.6, 7, 0.9, ts, true))

	got, err := repo.ListActive(ctx(t))
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(got) != 2 || got[1].EquipmentID != "B" {
		t.Fatalf("unexpected overrides: %+v", got)
	}
}
