package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gencontrol/internal/analytics"
	"gencontrol/internal/apperrors"
	"gencontrol/internal/catalog"
	"gencontrol/internal/logger"
	"gencontrol/internal/models"
	"gencontrol/internal/physics"
	"gencontrol/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultHistoryLimit = 20

	// Estimated band around the typical fuel quantity.
	estimateBandLow       = 0.9
	estimateBandHigh      = 1.1
	estimateUncertaintyPc = 10.0
)

// overrideSource looks up learned load factors.
type overrideSource interface {
	GetOverride(ctx context.Context, equipmentID string, scenario catalog.ScenarioCode) (*models.LoadOverride, error)
}

// classifier grades a deviation against history.
type classifier interface {
	Classify(deviationPct float64, history []float64) (analytics.AnomalyResult, error)
}

type AuditService struct {
	audits     repository.AuditRepo
	equipments repository.EquipmentRepo
	overrides  overrideSource
	detector   classifier
	log        *logger.Logger

	physics      physics.Options
	historyLimit int
	ambient      physics.Ambient
	now          func() time.Time
}

func NewAuditService(
	audits repository.AuditRepo,
	equipments repository.EquipmentRepo,
	overrides overrideSource,
	detector classifier,
	log *logger.Logger,
	opts Options,
) *AuditService {
	opts = opts.withDefaults()
	if log == nil {
		log = logger.Nop()
	}
	return &AuditService{
		audits:       audits,
		equipments:   equipments,
		overrides:    overrides,
		detector:     detector,
		log:          log,
		physics:      opts.Physics,
		historyLimit: opts.HistoryLimit,
		ambient:      opts.DefaultAmbient,
		now:          opts.Now,
	}
}

// RunAudit predicts the fuel the equipment should have burnt over the
// hour-meter span, classifies the declared quantity and appends the record.
func (s *AuditService) RunAudit(ctx context.Context, p AuditParams) (AuditResult, error) {
	const op = "audit.run"

	hours, err := validateAudit(p)
	if err != nil {
		return AuditResult{}, apperrors.New(apperrors.ErrInvalidInput, op, err).WithEquipment(p.EquipmentID, p.ScenarioCode)
	}

	code, err := catalog.ParseScenarioCode(p.ScenarioCode)
	if err != nil {
		return AuditResult{}, apperrors.Annotate(err, op, p.EquipmentID, p.ScenarioCode)
	}
	scenario, _ := catalog.Scenario(code)

	eq, err := s.equipments.GetByID(ctx, p.EquipmentID)
	if err != nil {
		return AuditResult{}, apperrors.Persistence(op, err)
	}
	if eq == nil {
		return AuditResult{}, apperrors.New(apperrors.ErrNotFound, op, fmt.Errorf("equipment %q", p.EquipmentID))
	}

	profile, ok := catalog.Engine(catalog.ProfileCode(eq.ProfileCode))
	if !ok {
		return AuditResult{}, apperrors.New(apperrors.ErrUnknownProfile, op, fmt.Errorf("profile %q", eq.ProfileCode)).
			WithEquipment(eq.EquipmentID, string(code))
	}
	if !scenario.Applies(profile.Category) {
		err := fmt.Errorf("scenario %s does not apply to %s equipment", code, profile.Category)
		return AuditResult{}, apperrors.New(apperrors.ErrInvalidInput, op, err).WithEquipment(eq.EquipmentID, string(code))
	}

	model, err := physics.FromReference(profile, eq.PowerKW, s.physics)
	if err != nil {
		return AuditResult{}, apperrors.Annotate(err, op, eq.EquipmentID, string(code))
	}

	loadPct, source, err := s.resolveLoad(ctx, eq.EquipmentID, scenario, p.LoadPct)
	if err != nil {
		return AuditResult{}, err
	}

	ambient := s.ambient
	if p.Ambient != nil {
		ambient = *p.Ambient
	}
	pred, err := model.Predict(loadPct, &ambient)
	if err != nil {
		return AuditResult{}, apperrors.New(apperrors.ErrInvalidInput, op, err).WithEquipment(eq.EquipmentID, string(code))
	}

	estimated := pred.ConsumptionLH * hours
	var deviation float64
	if estimated > 0 {
		deviation = (p.FuelDeclaredL - estimated) / estimated * 100
	}

	history, err := s.history(ctx, eq.EquipmentID)
	if err != nil {
		return AuditResult{}, err
	}
	anomaly, err := s.detector.Classify(deviation, history)
	if err != nil {
		return AuditResult{}, apperrors.Annotate(err, op, eq.EquipmentID, string(code))
	}

	rec := models.AuditRecord{
		AuditID:        uuid.NewString(),
		Timestamp:      s.now().UTC(),
		CreatedBy:      p.CreatedBy,
		EquipmentID:    eq.EquipmentID,
		EquipmentType:  eq.ProfileCode,
		EquipmentName:  eq.Name,
		ScenarioCode:   string(code),
		IndexStart:     p.IndexStart,
		IndexEnd:       p.IndexEnd,
		PowerKW:        eq.PowerKW,
		FuelDeclaredL:  p.FuelDeclaredL,
		EstimatedMin:   estimated * estimateBandLow,
		EstimatedTyp:   estimated,
		EstimatedMax:   estimated * estimateBandHigh,
		UncertaintyPct: estimateUncertaintyPc,
		DeviationPct:   deviation,
		ZScore:         anomaly.ZScore,
		Verdict:        anomaly.Verdict,
		ConfidencePct:  int(math.Round(anomaly.Confidence * 100)),
		LoadSource:     source,
	}

	res := AuditResult{
		Record:     rec,
		Anomaly:    anomaly,
		Prediction: pred,
		Hours:      hours,
		LoadPct:    loadPct,
	}
	if p.DryRun {
		return res, nil
	}

	if err := s.audits.Append(ctx, rec); err != nil {
		return AuditResult{}, apperrors.Persistence("audit.append", err)
	}
	res.Persisted = true

	if rec.Verdict != models.VerdictNormal {
		s.log.Warnw("audit_flagged",
			"audit_id", rec.AuditID,
			"equipment_id", rec.EquipmentID,
			"scenario", rec.ScenarioCode,
			"verdict", rec.Verdict,
			"severity", anomaly.Severity,
			"deviation_pct", rec.DeviationPct,
		)
	} else {
		s.log.Infow("audit_recorded", "audit_id", rec.AuditID, "equipment_id", rec.EquipmentID, "deviation_pct", rec.DeviationPct)
	}
	return res, nil
}

// resolveLoad picks the load percentage: manual entry, then learned override, then catalog.
func (s *AuditService) resolveLoad(ctx context.Context, equipmentID string, sc catalog.LoadScenario, manual *float64) (float64, models.LoadSource, error) {
	if manual != nil {
		if !isFinite(*manual) || *manual < 0 {
			return 0, "", apperrors.New(apperrors.ErrInvalidInput, "audit.load", fmt.Errorf("load %v %%", *manual))
		}
		return *manual, models.LoadSourceManual, nil
	}

	o, err := s.overrides.GetOverride(ctx, equipmentID, sc.Code)
	if err != nil {
		return 0, "", err
	}
	if o != nil {
		return o.LearnedLoadTyp * 100, models.LoadSourceLearned, nil
	}
	return sc.LoadTyp * 100, models.LoadSourceCatalog, nil
}

// history returns the most recent deviations of the equipment.
func (s *AuditService) history(ctx context.Context, equipmentID string) ([]float64, error) {
	recs, err := s.audits.List(ctx, repository.AuditFilter{EquipmentID: equipmentID, Limit: s.historyLimit})
	if err != nil {
		return nil, apperrors.Persistence("audit.history", err)
	}
	out := make([]float64, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.DeviationPct)
	}
	return out, nil
}

var (
	errMissingEquipment = errors.New("equipment_id is required")
	errInvalidIndexes   = errors.New("hour-meter indexes must be finite")
	errNonPositiveSpan  = errors.New("index_end must be greater than index_start")
	errInvalidFuel      = errors.New("fuel_declared_l must be a finite value >= 0")
)

func validateAudit(p AuditParams) (float64, error) {
	if p.EquipmentID == "" {
		return 0, errMissingEquipment
	}
	if !isFinite(p.IndexStart) || !isFinite(p.IndexEnd) {
		return 0, errInvalidIndexes
	}
	hours := p.IndexEnd - p.IndexStart
	if hours <= 0 {
		return 0, errNonPositiveSpan
	}
	if !isFinite(p.FuelDeclaredL) || p.FuelDeclaredL < 0 {
		return 0, errInvalidFuel
	}
	return hours, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
