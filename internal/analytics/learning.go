package analytics

import (
	"context"
	"sort"
	"time"

	"gencontrol/internal/apperrors"
	"gencontrol/internal/catalog"
	"gencontrol/internal/models"

	"gonum.org/v1/gonum/stat"
)

const (
	minLearnedLoad    = 0.05
	maxLearnedLoad    = 1.0
	learnedBandLow    = 0.8
	learnedBandHigh   = 1.2
	learnedConfidence = 0.9

	// DefaultMinSamples is the production group size below which nothing is learned.
	DefaultMinSamples = 5
)

// OverrideStore persists learned load factors.
type OverrideStore interface {
	Get(ctx context.Context, equipmentID, scenarioCode string) (*models.LoadOverride, error)
	// UpsertOverrides writes all overrides atomically, replacing existing keys.
	UpsertOverrides(ctx context.Context, overrides []models.LoadOverride) error
}

// LearningStats reports a relearn batch.
type LearningStats struct {
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// LearningEngine learns per-equipment load factors from NORMAL audits.
type LearningEngine struct {
	store OverrideStore
	now   func() time.Time
}

// NewLearningEngine builds an engine over store. A nil clock uses time.Now.
func NewLearningEngine(store OverrideStore, now func() time.Time) *LearningEngine {
	if now == nil {
		now = time.Now
	}
	return &LearningEngine{store: store, now: now}
}

// GetOverride returns the active override for the pair, or nil.
func (e *LearningEngine) GetOverride(ctx context.Context, equipmentID string, scenario catalog.ScenarioCode) (*models.LoadOverride, error) {
	o, err := e.store.Get(ctx, equipmentID, string(scenario))
	if err != nil {
		return nil, apperrors.New(apperrors.ErrPersistence, "learning.get_override", err).
			WithEquipment(equipmentID, string(scenario))
	}
	if o == nil || !o.IsActive {
		return nil, nil
	}
	return o, nil
}

type groupKey struct {
	equipmentID  string
	scenarioCode string
}

// Learn computes overrides from history without touching the store.
// Only NORMAL audits count; groups smaller than minSamples, groups without
// a positive estimate and groups on unknown scenarios yield nothing.
func (e *LearningEngine) Learn(history []models.AuditRecord, minSamples int) []models.LoadOverride {
	if minSamples < 1 {
		minSamples = 1
	}

	groups := make(map[groupKey][]models.AuditRecord)
	for _, a := range history {
		if a.Verdict != models.VerdictNormal {
			continue
		}
		k := groupKey{a.EquipmentID, a.ScenarioCode}
		groups[k] = append(groups[k], a)
	}

	keys := make([]groupKey, 0, len(groups))
	for k, g := range groups {
		if len(g) >= minSamples {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].equipmentID != keys[j].equipmentID {
			return keys[i].equipmentID < keys[j].equipmentID
		}
		return keys[i].scenarioCode < keys[j].scenarioCode
	})

	now := e.now().UTC()
	out := make([]models.LoadOverride, 0, len(keys))
	for _, k := range keys {
		base, ok := catalog.Scenario(catalog.ScenarioCode(k.scenarioCode))
		if !ok {
			continue
		}
		ratio, ok := meanRatio(groups[k])
		if !ok {
			continue
		}

		typ := clampLoad(base.LoadTyp * ratio)
		out = append(out, models.LoadOverride{
			EquipmentID:    k.equipmentID,
			ScenarioCode:   k.scenarioCode,
			LearnedLoadMin: typ * learnedBandLow,
			LearnedLoadTyp: typ,
			LearnedLoadMax: typ * learnedBandHigh,
			Samples:        len(groups[k]),
			Confidence:     learnedConfidence,
			LastUpdated:    now,
			IsActive:       true,
		})
	}
	return out
}

// Relearn learns from history and upserts the result in one store call.
// A store failure commits nothing and is reported as one failed batch.
func (e *LearningEngine) Relearn(ctx context.Context, history []models.AuditRecord, minSamples int) (LearningStats, error) {
	overrides := e.Learn(history, minSamples)
	if len(overrides) == 0 {
		return LearningStats{}, nil
	}
	if err := e.store.UpsertOverrides(ctx, overrides); err != nil {
		return LearningStats{Failed: 1}, apperrors.New(apperrors.ErrPersistence, "learning.relearn", err)
	}
	return LearningStats{Successful: len(overrides)}, nil
}

// meanRatio averages declared/estimated over audits with a positive estimate.
func meanRatio(audits []models.AuditRecord) (float64, bool) {
	ratios := make([]float64, 0, len(audits))
	for _, a := range audits {
		if a.EstimatedTyp <= 0 || !isFinite(a.FuelDeclaredL) || !isFinite(a.EstimatedTyp) {
			continue
		}
		ratios = append(ratios, a.FuelDeclaredL/a.EstimatedTyp)
	}
	if len(ratios) == 0 {
		return 0, false
	}
	return stat.Mean(ratios, nil), true
}

func clampLoad(v float64) float64 {
	if v < minLearnedLoad {
		return minLearnedLoad
	}
	if v > maxLearnedLoad {
		return maxLearnedLoad
	}
	return v
}
