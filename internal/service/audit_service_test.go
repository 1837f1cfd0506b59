package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"gencontrol/internal/analytics"
	"gencontrol/internal/apperrors"
	"gencontrol/internal/models"
	"gencontrol/internal/physics"
)

var auditNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

// Perkins 1104 calibration (40 kW, 11.8 L/h) and (80 kW, 22.6 L/h): 0.27 L/kWh + 1.0 L/h.
func perkinsRate(loadPct float64) float64 {
	base := 0.27*80*loadPct/100 + 1.0
	return base * physics.CorrectionFactor(physics.Reference()) * physics.DefaultAgingFactor
}

func approxEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func perkinsGE() models.Equipment {
	return models.Equipment{EquipmentID: "GE-01", Name: "Site A genset", ProfileCode: "PERKINS_1104_100", PowerKW: 80}
}

type auditFixture struct {
	audits    *fakeAuditRepo
	equip     *fakeEquipmentRepo
	overrides *fakeOverrides
	svc       *AuditService
}

func newAuditFixture() *auditFixture {
	f := &auditFixture{
		audits:    &fakeAuditRepo{},
		equip:     newFakeEquipmentRepo(perkinsGE()),
		overrides: &fakeOverrides{items: map[string]models.LoadOverride{}},
	}
	f.svc = NewAuditService(f.audits, f.equip, f.overrides, analytics.NewDetector(analytics.Thresholds{}), nil, Options{
		DefaultAmbient: physics.Reference(),
		Now:            fixedClock(auditNow),
	})
	return f
}

func baseAudit(fuel float64) AuditParams {
	return AuditParams{
		EquipmentID:   "GE-01",
		ScenarioCode:  "ge_office_ac",
		IndexStart:    1200,
		IndexEnd:      1210,
		FuelDeclaredL: fuel,
		CreatedBy:     "site-chief",
	}
}

func TestAuditService_RunAudit_CatalogLoadNormal(t *testing.T) {
	f := newAuditFixture()
	expected := perkinsRate(40) * 10

	res, err := f.svc.RunAudit(context.Background(), baseAudit(expected))
	if err != nil {
		t.Fatalf("RunAudit returned error: %v", err)
	}

	rec := res.Record
	if rec.Verdict != models.VerdictNormal {
		t.Fatalf("expected NORMAL, got %s", rec.Verdict)
	}
	if rec.LoadSource != models.LoadSourceCatalog {
		t.Fatalf("expected CATALOG load source, got %s", rec.LoadSource)
	}
	if !approxEqual(res.LoadPct, 40) || !approxEqual(res.Hours, 10) {
		t.Fatalf("unexpected load %.3f or hours %.3f", res.LoadPct, res.Hours)
	}
	if !approxEqual(rec.EstimatedTyp, expected) {
		t.Fatalf("estimated %.6f, want %.6f", rec.EstimatedTyp, expected)
	}
	if !approxEqual(rec.EstimatedMin, expected*0.9) || !approxEqual(rec.EstimatedMax, expected*1.1) {
		t.Fatalf("unexpected band [%.3f, %.3f]", rec.EstimatedMin, rec.EstimatedMax)
	}
	if rec.UncertaintyPct != 10 || rec.ConfidencePct != 50 {
		t.Fatalf("unexpected uncertainty %.1f or confidence %d", rec.UncertaintyPct, rec.ConfidencePct)
	}
	if !approxEqual(rec.DeviationPct, 0) {
		t.Fatalf("expected zero deviation, got %.6f", rec.DeviationPct)
	}
	if rec.ScenarioCode != "GE_OFFICE_AC" || rec.EquipmentType != "PERKINS_1104_100" || rec.EquipmentName != "Site A genset" {
		t.Fatalf("unexpected identity fields: %+v", rec)
	}
	if rec.CreatedBy != "site-chief" || !rec.Timestamp.Equal(auditNow) || rec.AuditID == "" {
		t.Fatalf("unexpected provenance: %+v", rec)
	}
	if !res.Persisted || len(f.audits.appended) != 1 {
		t.Fatalf("expected one persisted audit, got %d", len(f.audits.appended))
	}
	if f.audits.lastFilter.EquipmentID != "GE-01" || f.audits.lastFilter.Limit != 20 {
		t.Fatalf("unexpected history filter: %+v", f.audits.lastFilter)
	}
}

func TestAuditService_RunAudit_ColdModeFlagsGrossExcess(t *testing.T) {
	f := newAuditFixture()
	expected := perkinsRate(40) * 10

	res, err := f.svc.RunAudit(context.Background(), baseAudit(expected*1.5))
	if err != nil {
		t.Fatalf("RunAudit returned error: %v", err)
	}
	if res.Record.Verdict != models.VerdictAnomalie || res.Anomaly.Severity != analytics.SeverityCritical {
		t.Fatalf("expected critical ANOMALIE, got %s/%s", res.Record.Verdict, res.Anomaly.Severity)
	}
	if !approxEqual(res.Record.DeviationPct, 50) {
		t.Fatalf("expected +50%% deviation, got %.6f", res.Record.DeviationPct)
	}
	if res.Record.ConfidencePct != 90 {
		t.Fatalf("expected confidence 90, got %d", res.Record.ConfidencePct)
	}
	if len(res.Anomaly.Recommendations) == 0 {
		t.Fatalf("expected recommendations for an excess")
	}
}

func TestAuditService_RunAudit_UsesEquipmentHistory(t *testing.T) {
	f := newAuditFixture()
	f.audits.history = []models.AuditRecord{
		{EquipmentID: "GE-01", DeviationPct: 1},
		{EquipmentID: "GE-01", DeviationPct: 2},
		{EquipmentID: "GE-01", DeviationPct: 3},
	}
	expected := perkinsRate(40) * 10

	res, err := f.svc.RunAudit(context.Background(), baseAudit(expected*1.5))
	if err != nil {
		t.Fatalf("RunAudit returned error: %v", err)
	}
	// mean 2, std 1 -> z = 48
	if !approxEqual(res.Record.ZScore, 48) {
		t.Fatalf("expected z 48, got %.6f", res.Record.ZScore)
	}
	if res.Anomaly.HistoricalMean == nil || !approxEqual(*res.Anomaly.HistoricalMean, 2) {
		t.Fatalf("expected historical mean 2")
	}
}

func TestAuditService_RunAudit_LoadPrecedence(t *testing.T) {
	learned := models.LoadOverride{EquipmentID: "GE-01", ScenarioCode: "GE_OFFICE_AC", LearnedLoadTyp: 0.55, IsActive: true}

	t.Run("learned beats catalog", func(t *testing.T) {
		f := newAuditFixture()
		f.overrides.items["GE-01/GE_OFFICE_AC"] = learned

		res, err := f.svc.RunAudit(context.Background(), baseAudit(100))
		if err != nil {
			t.Fatalf("RunAudit returned error: %v", err)
		}
		if res.Record.LoadSource != models.LoadSourceLearned || !approxEqual(res.LoadPct, 55) {
			t.Fatalf("expected LEARNED at 55%%, got %s at %.3f", res.Record.LoadSource, res.LoadPct)
		}
		if !approxEqual(res.Record.EstimatedTyp, perkinsRate(55)*10) {
			t.Fatalf("estimate does not use the learned load")
		}
	})

	t.Run("manual beats learned", func(t *testing.T) {
		f := newAuditFixture()
		f.overrides.items["GE-01/GE_OFFICE_AC"] = learned
		manual := 70.0
		p := baseAudit(100)
		p.LoadPct = &manual

		res, err := f.svc.RunAudit(context.Background(), p)
		if err != nil {
			t.Fatalf("RunAudit returned error: %v", err)
		}
		if res.Record.LoadSource != models.LoadSourceManual || !approxEqual(res.LoadPct, 70) {
			t.Fatalf("expected MANUAL at 70%%, got %s at %.3f", res.Record.LoadSource, res.LoadPct)
		}
	})

	t.Run("override lookup failure aborts", func(t *testing.T) {
		f := newAuditFixture()
		f.overrides.err = apperrors.New(apperrors.ErrPersistence, "learning.get_override", errors.New("db down"))

		_, err := f.svc.RunAudit(context.Background(), baseAudit(100))
		if !errors.Is(err, apperrors.ErrPersistence) {
			t.Fatalf("expected ErrPersistence, got %v", err)
		}
		if len(f.audits.appended) != 0 {
			t.Fatalf("nothing should be persisted")
		}
	})
}

func TestAuditService_RunAudit_AmbientOverride(t *testing.T) {
	f := newAuditFixture()
	p := baseAudit(100)
	p.Ambient = &physics.Ambient{AltitudeM: 2000, TemperatureC: 25}

	res, err := f.svc.RunAudit(context.Background(), p)
	if err != nil {
		t.Fatalf("RunAudit returned error: %v", err)
	}
	want := physics.CorrectionFactor(*p.Ambient)
	if !approxEqual(res.Prediction.CorrectionFactor, want) {
		t.Fatalf("correction %.6f, want %.6f", res.Prediction.CorrectionFactor, want)
	}
}

func TestAuditService_RunAudit_DryRunDoesNotPersist(t *testing.T) {
	f := newAuditFixture()
	p := baseAudit(100)
	p.DryRun = true

	res, err := f.svc.RunAudit(context.Background(), p)
	if err != nil {
		t.Fatalf("RunAudit returned error: %v", err)
	}
	if res.Persisted || len(f.audits.appended) != 0 {
		t.Fatalf("dry run must not persist")
	}
}

func TestAuditService_RunAudit_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AuditParams)
		want   error
	}{
		{"zero span", func(p *AuditParams) { p.IndexEnd = p.IndexStart }, apperrors.ErrInvalidInput},
		{"negative span", func(p *AuditParams) { p.IndexEnd = p.IndexStart - 1 }, apperrors.ErrInvalidInput},
		{"negative fuel", func(p *AuditParams) { p.FuelDeclaredL = -1 }, apperrors.ErrInvalidInput},
		{"nan index", func(p *AuditParams) { p.IndexStart = math.NaN() }, apperrors.ErrInvalidInput},
		{"missing equipment id", func(p *AuditParams) { p.EquipmentID = "" }, apperrors.ErrInvalidInput},
		{"unknown scenario", func(p *AuditParams) { p.ScenarioCode = "MOON_LANDING" }, apperrors.ErrUnknownScenario},
		{"unknown equipment", func(p *AuditParams) { p.EquipmentID = "GE-99" }, apperrors.ErrNotFound},
		{"scenario of another category", func(p *AuditParams) { p.ScenarioCode = "TRUCK_HIGHWAY" }, apperrors.ErrInvalidInput},
		{"negative manual load", func(p *AuditParams) { v := -5.0; p.LoadPct = &v }, apperrors.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuditFixture()
			p := baseAudit(100)
			tt.mutate(&p)

			_, err := f.svc.RunAudit(context.Background(), p)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(f.audits.appended) != 0 {
				t.Fatalf("rejected audit must not be persisted")
			}
		})
	}
}

func TestAuditService_RunAudit_ZeroPowerEquipment(t *testing.T) {
	f := newAuditFixture()
	f.equip.items["GE-00"] = models.Equipment{EquipmentID: "GE-00", Name: "broken", ProfileCode: "GENERIC_GE", PowerKW: 0}
	p := baseAudit(100)
	p.EquipmentID = "GE-00"

	_, err := f.svc.RunAudit(context.Background(), p)
	if !errors.Is(err, apperrors.ErrInsufficientCalibrationData) {
		t.Fatalf("expected ErrInsufficientCalibrationData, got %v", err)
	}
}

func TestAuditService_RunAudit_ErrorsCarryContext(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(f *auditFixture, p *AuditParams)
		kind   error
		equip  string
		scCode string
	}{
		{
			name:   "unknown scenario",
			setup:  func(_ *auditFixture, p *AuditParams) { p.ScenarioCode = "MOON_LANDING" },
			kind:   apperrors.ErrUnknownScenario,
			equip:  "GE-01",
			scCode: "MOON_LANDING",
		},
		{
			name: "uncalibrated zero power",
			setup: func(f *auditFixture, p *AuditParams) {
				f.equip.items["GE-00"] = models.Equipment{EquipmentID: "GE-00", Name: "broken", ProfileCode: "GENERIC_GE", PowerKW: 0}
				p.EquipmentID = "GE-00"
			},
			kind:   apperrors.ErrInsufficientCalibrationData,
			equip:  "GE-00",
			scCode: "GE_OFFICE_AC",
		},
		{
			name: "corrupt history",
			setup: func(f *auditFixture, _ *AuditParams) {
				f.audits.history = []models.AuditRecord{{EquipmentID: "GE-01", DeviationPct: math.NaN()}}
			},
			kind:   apperrors.ErrInvalidInput,
			equip:  "GE-01",
			scCode: "GE_OFFICE_AC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuditFixture()
			p := baseAudit(100)
			tt.setup(f, &p)

			_, err := f.svc.RunAudit(context.Background(), p)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
			var e *apperrors.Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *apperrors.Error, got %T", err)
			}
			if e.EquipmentID != tt.equip || e.Scenario != tt.scCode {
				t.Fatalf("context = (%q, %q), want (%q, %q)", e.EquipmentID, e.Scenario, tt.equip, tt.scCode)
			}
		})
	}
}

func TestAuditService_RunAudit_PersistenceFailures(t *testing.T) {
	t.Run("append", func(t *testing.T) {
		f := newAuditFixture()
		f.audits.appendErr = errors.New("disk full")
		_, err := f.svc.RunAudit(context.Background(), baseAudit(100))
		if !errors.Is(err, apperrors.ErrPersistence) {
			t.Fatalf("expected ErrPersistence, got %v", err)
		}
	})
	t.Run("history", func(t *testing.T) {
		f := newAuditFixture()
		f.audits.listErr = errors.New("locked")
		_, err := f.svc.RunAudit(context.Background(), baseAudit(100))
		if !errors.Is(err, apperrors.ErrPersistence) {
			t.Fatalf("expected ErrPersistence, got %v", err)
		}
	})
	t.Run("equipment lookup", func(t *testing.T) {
		f := newAuditFixture()
		f.equip.getErr = errors.New("locked")
		_, err := f.svc.RunAudit(context.Background(), baseAudit(100))
		if !errors.Is(err, apperrors.ErrPersistence) {
			t.Fatalf("expected ErrPersistence, got %v", err)
		}
	})
}

func TestNormalizeAndValidateFilter(t *testing.T) {
	got, err := normalizeAndValidateFilter(AuditFilter{EquipmentID: " GE-01 ", ScenarioCode: "ge_hospital", Verdict: " suspect "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.EquipmentID != "GE-01" || got.ScenarioCode != "GE_HOSPITAL" || got.Verdict != models.VerdictSuspect {
		t.Fatalf("unexpected normalization: %+v", got)
	}
	if got.Limit != defaultListLimit {
		t.Fatalf("expected default limit %d, got %d", defaultListLimit, got.Limit)
	}

	got, err = normalizeAndValidateFilter(AuditFilter{Limit: 5000})
	if err != nil || got.Limit != maxListLimit {
		t.Fatalf("expected limit capped to %d, got %d (err %v)", maxListLimit, got.Limit, err)
	}

	if _, err := normalizeAndValidateFilter(AuditFilter{Verdict: "MAYBE"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad verdict, got %v", err)
	}
	if _, err := normalizeAndValidateFilter(AuditFilter{Limit: -1}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative limit, got %v", err)
	}
}

func TestAuditService_ListAudits(t *testing.T) {
	f := newAuditFixture()
	f.audits.history = []models.AuditRecord{{AuditID: "a1"}, {AuditID: "a2"}}

	recs, err := f.svc.ListAudits(context.Background(), AuditFilter{Verdict: "normal", Limit: 1})
	if err != nil {
		t.Fatalf("ListAudits returned error: %v", err)
	}
	if len(recs) != 1 || recs[0].AuditID != "a1" {
		t.Fatalf("unexpected records: %+v", recs)
	}
	if f.audits.lastFilter.Verdict != models.VerdictNormal {
		t.Fatalf("verdict not normalized: %q", f.audits.lastFilter.Verdict)
	}

	f.audits.listErr = errors.New("boom")
	if _, err := f.svc.ListAudits(context.Background(), AuditFilter{}); !errors.Is(err, apperrors.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}
