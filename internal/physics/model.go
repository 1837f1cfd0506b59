package physics

import (
	"fmt"
	"math"

	"gencontrol/internal/apperrors"
	"gencontrol/internal/catalog"

	"gonum.org/v1/gonum/stat"
)

const (
	// MinConsumptionLH is the technical floor of any predicted rate.
	MinConsumptionLH = 2.0
	// DefaultAgingFactor accounts for fleet wear in the operating region.
	DefaultAgingFactor = 1.05

	maxLoadPct = 110.0

	// Generic Willans line for uncalibrated engines: 0.24 L/h per rated kW at
	// full load, 8 % of it spent on friction and idle losses.
	genericFullLoadLPerKWh = 0.24
	genericInterceptShare  = 0.08
)

// Options are operator-tunable prediction parameters.
type Options struct {
	AgingFactor float64
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options { return Options{AgingFactor: DefaultAgingFactor} }

// Model is a Willans line: fuel rate = A·power + B.
type Model struct {
	A              float64 `json:"slope_l_per_kwh"`
	B              float64 `json:"intercept_l_per_h"`
	NominalPowerKW float64 `json:"nominal_power_kw"`
	Calibrated     bool    `json:"calibrated"`

	aging float64
}

// Prediction is one predicted fuel rate.
type Prediction struct {
	LoadPct          float64 `json:"load_pct"`
	BaseLH           float64 `json:"base_l_h"`
	CorrectionFactor float64 `json:"correction_factor"`
	AgingFactor      float64 `json:"aging_factor"`
	ConsumptionLH    float64 `json:"consumption_l_h"`
}

// FromReference derives a model for an engine of declaredPowerKW from profile.
func FromReference(profile catalog.EngineProfile, declaredPowerKW float64, opts Options) (*Model, error) {
	const op = "physics.FromReference"

	if !isFinite(declaredPowerKW) || declaredPowerKW <= 0 {
		cause := fmt.Errorf("%w: declared power %v kW", apperrors.ErrInvalidInput, declaredPowerKW)
		return nil, apperrors.New(apperrors.ErrInsufficientCalibrationData, op, cause)
	}
	aging := opts.AgingFactor
	if aging == 0 {
		aging = DefaultAgingFactor
	}
	if !isFinite(aging) || aging < 0 {
		return nil, apperrors.New(apperrors.ErrInvalidInput, op, fmt.Errorf("aging factor %v", aging))
	}

	a, b, err := fitLine(profile.Calibration)
	if err != nil {
		a, b = genericLine(declaredPowerKW)
		return &Model{A: a, B: b, NominalPowerKW: declaredPowerKW, aging: aging}, nil
	}

	if ref := profile.RatedPowerKW; ref != nil && *ref > 0 && *ref != declaredPowerKW {
		b *= declaredPowerKW / *ref
	}
	return &Model{A: a, B: b, NominalPowerKW: declaredPowerKW, Calibrated: true, aging: aging}, nil
}

// genericLine passes through (P, 0.24·P) with an intercept of 8 % of that.
func genericLine(powerKW float64) (a, b float64) {
	maxLH := powerKW * genericFullLoadLPerKWh
	b = maxLH * genericInterceptShare
	a = (maxLH - b) / powerKW
	return a, b
}

// fitLine is an ordinary least-squares fit of fuel against power.
func fitLine(points []catalog.CalibrationPoint) (a, b float64, err error) {
	if distinctPowers(points) < 2 {
		return 0, 0, apperrors.ErrInsufficientCalibrationData
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.PowerKW, p.FuelLPerH
	}
	b, a = stat.LinearRegression(xs, ys, nil, false)
	return a, b, nil
}

func distinctPowers(points []catalog.CalibrationPoint) int {
	seen := make(map[float64]struct{}, len(points))
	for _, p := range points {
		if isFinite(p.PowerKW) && isFinite(p.FuelLPerH) {
			seen[p.PowerKW] = struct{}{}
		}
	}
	return len(seen)
}

// AgingFactor returns the wear multiplier applied by Predict.
func (m *Model) AgingFactor() float64 { return m.aging }

// Predict returns the expected fuel rate at loadPct percent of nominal power.
// A nil ambient skips the atmospheric correction.
func (m *Model) Predict(loadPct float64, ambient *Ambient) (Prediction, error) {
	if !isFinite(loadPct) {
		return Prediction{}, fmt.Errorf("%w: load %v %%", apperrors.ErrInvalidInput, loadPct)
	}
	load := clamp(loadPct, 0, maxLoadPct)

	base := m.A*(m.NominalPowerKW*load/100) + m.B
	if base < MinConsumptionLH {
		base = MinConsumptionLH
	}

	correction := 1.0
	if ambient != nil {
		if err := ambient.validate(); err != nil {
			return Prediction{}, err
		}
		correction = CorrectionFactor(*ambient)
	}

	// Cold sites correct below 1, so the floor holds on the final rate too.
	consumption := base * correction * m.aging
	if consumption < MinConsumptionLH {
		consumption = MinConsumptionLH
	}

	return Prediction{
		LoadPct:          load,
		BaseLH:           base,
		CorrectionFactor: correction,
		AgingFactor:      m.aging,
		ConsumptionLH:    consumption,
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
