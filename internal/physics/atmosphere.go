package physics

import (
	"fmt"
	"math"

	"gencontrol/internal/apperrors"
)

// Reference conditions of ISO 15550.
const (
	refTempK        = 298.15
	refDryPressure  = 100.0 // kPa
	seaLevelKPa     = 101.325
	fuelDeliveryQC  = 45.0 // mg/(cycle·l), typical turbo diesel
	minDryPressure  = 0.1
	maxCorrection   = 1.5
	minCorrection   = 1 / maxCorrection
	vapourTempMinC  = -50.0
	vapourTempMaxC  = 100.0
	engineFactorMin = 0.2
	engineFactorMax = 1.2
)

// Ambient describes site conditions during the audited period.
type Ambient struct {
	AltitudeM    float64 `json:"altitude_m"`
	TemperatureC float64 `json:"temperature_c"`
}

// Reference returns ISO reference conditions at sea level.
func Reference() Ambient { return Ambient{AltitudeM: 0, TemperatureC: 25} }

func (a Ambient) validate() error {
	if math.IsNaN(a.AltitudeM) || math.IsInf(a.AltitudeM, 0) ||
		math.IsNaN(a.TemperatureC) || math.IsInf(a.TemperatureC, 0) {
		return fmt.Errorf("%w: ambient %+v", apperrors.ErrInvalidInput, a)
	}
	if a.TemperatureC <= -273.15 {
		return fmt.Errorf("%w: temperature %.2f below absolute zero", apperrors.ErrInvalidInput, a.TemperatureC)
	}
	return nil
}

// PressureKPa is the standard-atmosphere barometric pressure at the site altitude.
// Below sea level the sea-level value is used.
func (a Ambient) PressureKPa() float64 {
	if a.AltitudeM < 0 {
		return seaLevelKPa
	}
	base := 1 - 2.25577e-5*a.AltitudeM
	if base <= 0 {
		return 0
	}
	return seaLevelKPa * math.Pow(base, 5.25588)
}

// saturationVapourKPa uses the Magnus form of ISO 15550 annex C.
func saturationVapourKPa(tempC float64) float64 {
	t := math.Max(vapourTempMinC, math.Min(vapourTempMaxC, tempC))
	return 0.61094 * math.Exp(17.625*t/(t+243.04))
}

// powerAlpha is the ISO 15550 ratio of available to reference power.
func powerAlpha(a Ambient) float64 {
	tAirK := a.TemperatureC + 273.15

	pDry := a.PressureKPa() - saturationVapourKPa(a.TemperatureC)
	if pDry <= 0 {
		pDry = minDryPressure
	}

	fa := math.Pow(pDry/refDryPressure, 0.7) * math.Pow(refTempK/tAirK, 1.2)
	fm := math.Max(engineFactorMin, math.Min(engineFactorMax, 0.036*(fuelDeliveryQC-1.14)))
	return math.Pow(fa, fm)
}

// CorrectionFactor is the fuel multiplier needed to hold the same load under a:
// the engine derates by alpha, so it burns 1/alpha more. Clamped to [1/1.5, 1.5].
func CorrectionFactor(a Ambient) float64 {
	alpha := powerAlpha(a)
	if alpha <= 0 || math.IsNaN(alpha) {
		return maxCorrection
	}
	c := 1 / alpha
	return math.Max(minCorrection, math.Min(maxCorrection, c))
}
