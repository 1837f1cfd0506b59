package analytics

import (
	"fmt"
	"math"

	"gencontrol/internal/apperrors"
	"gencontrol/internal/models"

	"gonum.org/v1/gonum/stat"
)

// Severity grades a non-normal verdict.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// MinHistory is the number of past deviations needed for Z-score mode.
const MinHistory = 3

const (
	defaultZCritical      = 3.0
	defaultZWarning       = 2.0
	defaultGrossDeviation = 30.0
	defaultColdCritical   = 25.0
	defaultColdWarning    = 15.0

	minStd = 1e-10

	// Deviations within ±recommendationBand % do not point to a cause.
	recommendationBand = 5.0
)

var (
	recsTheft = []string{
		"Check fuel traceability records",
		"Inspect the tank filler cap",
		"Interview the driver or operator",
	}
	recsLeak = []string{
		"Inspect the tank for leaks",
		"Check injector seals",
		"Check the fuel return circuit",
	}
	recsCalibration = []string{
		"Check meter calibration (abnormal under-consumption)",
	}
)

// Thresholds configures the detector. Zero fields take the defaults.
type Thresholds struct {
	ZCritical      float64
	ZWarning       float64
	GrossDeviation float64 // percent
	ColdCritical   float64 // percent
	ColdWarning    float64 // percent
}

func (t Thresholds) withDefaults() Thresholds {
	if t.ZCritical == 0 {
		t.ZCritical = defaultZCritical
	}
	if t.ZWarning == 0 {
		t.ZWarning = defaultZWarning
	}
	if t.GrossDeviation == 0 {
		t.GrossDeviation = defaultGrossDeviation
	}
	if t.ColdCritical == 0 {
		t.ColdCritical = defaultColdCritical
	}
	if t.ColdWarning == 0 {
		t.ColdWarning = defaultColdWarning
	}
	return t
}

// AnomalyResult is the classification of one deviation.
type AnomalyResult struct {
	Verdict           models.Verdict     `json:"verdict"`
	ZScore            float64            `json:"z_score"`
	DeviationPct      float64            `json:"deviation_pct"`
	Confidence        float64            `json:"confidence"`
	Severity          Severity           `json:"severity"`
	Recommendations   []string           `json:"recommendations"`
	ThresholdExceeded map[string]float64 `json:"threshold_exceeded"`
	HistoricalMean    *float64           `json:"historical_mean,omitempty"`
	HistoricalStd     *float64           `json:"historical_std,omitempty"`
}

// Detector classifies fuel deviations. It holds no state between calls.
type Detector struct {
	th Thresholds
}

// NewDetector returns a detector using th, defaults filling zero fields.
func NewDetector(th Thresholds) *Detector {
	return &Detector{th: th.withDefaults()}
}

// Classify grades deviationPct (declared vs predicted, in %) against the
// equipment's past deviations.
func (d *Detector) Classify(deviationPct float64, history []float64) (AnomalyResult, error) {
	if !isFinite(deviationPct) {
		return AnomalyResult{}, fmt.Errorf("%w: deviation %v %%", apperrors.ErrInvalidInput, deviationPct)
	}
	for i, h := range history {
		if !isFinite(h) {
			return AnomalyResult{}, fmt.Errorf("%w: history[%d] = %v", apperrors.ErrInvalidInput, i, h)
		}
	}

	res := AnomalyResult{
		Verdict:           models.VerdictNormal,
		DeviationPct:      deviationPct,
		Confidence:        0.5,
		Severity:          SeverityLow,
		Recommendations:   []string{},
		ThresholdExceeded: map[string]float64{},
	}
	absDev := math.Abs(deviationPct)

	if len(history) >= MinHistory {
		mean, std := meanStd(history)
		res.HistoricalMean, res.HistoricalStd = &mean, &std
		res.ZScore = (deviationPct - mean) / std
		absZ := math.Abs(res.ZScore)

		switch {
		case absZ > d.th.ZCritical:
			res.set(models.VerdictAnomalie, SeverityCritical, 0.95)
			res.ThresholdExceeded["z_critical"] = d.th.ZCritical
		case absZ > d.th.ZWarning:
			res.set(models.VerdictSuspect, SeverityHigh, 0.80)
			res.ThresholdExceeded["z_warning"] = d.th.ZWarning
		case absDev > d.th.GrossDeviation:
			// A steady drift can hide inside the history's spread.
			res.set(models.VerdictAnomalie, SeverityHigh, 0.70)
			res.ThresholdExceeded["gross_deviation_pct"] = d.th.GrossDeviation
		}
	} else {
		switch {
		case absDev > d.th.ColdCritical:
			res.set(models.VerdictAnomalie, SeverityCritical, 0.90)
			res.ThresholdExceeded["cold_critical_pct"] = d.th.ColdCritical
		case absDev > d.th.ColdWarning:
			res.set(models.VerdictSuspect, SeverityMedium, 0.60)
			res.ThresholdExceeded["cold_warning_pct"] = d.th.ColdWarning
		}
	}

	if res.Verdict != models.VerdictNormal {
		res.Recommendations = recommend(deviationPct)
	}
	return res, nil
}

func (r *AnomalyResult) set(v models.Verdict, s Severity, confidence float64) {
	r.Verdict, r.Severity, r.Confidence = v, s, confidence
}

func recommend(deviationPct float64) []string {
	switch {
	case deviationPct < -recommendationBand:
		return append([]string(nil), recsCalibration...)
	case deviationPct > recommendationBand:
		out := make([]string, 0, len(recsTheft)+len(recsLeak))
		out = append(out, recsTheft...)
		return append(out, recsLeak...)
	}
	return []string{}
}

// meanStd returns the sample mean and the n-1 standard deviation,
// substituting 1 for a degenerate spread.
func meanStd(xs []float64) (mean, std float64) {
	mean, std = stat.MeanStdDev(xs, nil)
	if std < minStd {
		std = 1.0
	}
	return mean, std
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
