package catalog

import (
	"fmt"
	"sort"
	"strings"

	"gencontrol/internal/apperrors"
)

// ProfileCode identifies an EngineProfile.
type ProfileCode string

const (
	ProfileGenericGE    ProfileCode = "GENERIC_GE"
	ProfileGenericTruck ProfileCode = "GENERIC_TRUCK"
	ProfileGenericOther ProfileCode = "GENERIC_ISO_DIESEL"
)

// CalibrationPoint is one manufacturer fuel-rate measurement.
type CalibrationPoint struct {
	PowerKW   float64 `json:"power_kw"`
	FuelLPerH float64 `json:"fuel_l_per_h"`
}

// EngineProfile is a reference engine. A nil RatedPowerKW means the operator
// enters the power by hand and the model falls back to the generic heuristic.
type EngineProfile struct {
	Code          ProfileCode        `json:"code"`
	Name          string             `json:"name"`
	Category      Category           `json:"category"`
	RatedPowerKW  *float64           `json:"rated_power_kw"`
	DisplayRating *float64           `json:"display_rating,omitempty"`
	Calibration   []CalibrationPoint `json:"calibration_points,omitempty"`
}

// IsGeneric reports whether the profile carries no manufacturer data.
func (p EngineProfile) IsGeneric() bool { return p.RatedPowerKW == nil }

func kw(v float64) *float64 { return &v }

func calibrated(code ProfileCode, name string, cat Category, ratedKW, display float64, half, full float64) EngineProfile {
	return EngineProfile{
		Code:          code,
		Name:          name,
		Category:      cat,
		RatedPowerKW:  kw(ratedKW),
		DisplayRating: kw(display),
		Calibration: []CalibrationPoint{
			{PowerKW: ratedKW / 2, FuelLPerH: half},
			{PowerKW: ratedKW, FuelLPerH: full},
		},
	}
}

var engines = map[ProfileCode]EngineProfile{
	ProfileGenericGE:    {Code: ProfileGenericGE, Name: "Generic generator (manual power)", Category: CategoryGE},
	"PERKINS_1104_100":  calibrated("PERKINS_1104_100", "Perkins 1104C-44TAG2 (100 kVA)", CategoryGE, 80, 100, 11.8, 22.6),
	"PERKINS_1106_200":  calibrated("PERKINS_1106_200", "Perkins 1106A-70TAG3 (200 kVA)", CategoryGE, 160, 200, 20.6, 41.6),
	"BAUDOUIN_6M21_400": calibrated("BAUDOUIN_6M21_400", "Baudouin 6M21G440/5 (400 kVA)", CategoryGE, 320, 400, 42.1, 84.6),
	"CUMMINS_KTA19_450": calibrated("CUMMINS_KTA19_450", "Cummins KTA19-G3 (450 kVA)", CategoryGE, 360, 450, 49.0, 97.0),
	"CAT_C15_500":       calibrated("CAT_C15_500", "Caterpillar C15 ACERT (500 kVA)", CategoryGE, 400, 500, 53.0, 104.0),

	ProfileGenericTruck:   {Code: ProfileGenericTruck, Name: "Generic truck (manual power)", Category: CategoryTruck},
	"SINOTRUK_HOWO_371":   calibrated("SINOTRUK_HOWO_371", "Sinotruk HOWO 371 (Weichai WD615)", CategoryTruck, 273, 371, 31.5, 68.5),
	"MERCEDES_ACTROS_V6":  calibrated("MERCEDES_ACTROS_V6", "Mercedes Actros 2044 (OM501 LA)", CategoryTruck, 320, 435, 34.2, 76.0),
	"VOLVO_D13_FMX":       calibrated("VOLVO_D13_FMX", "Volvo FMX 440 (D13)", CategoryTruck, 324, 440, 33.0, 71.5),
	"RENAULT_KERAX_DXI11": calibrated("RENAULT_KERAX_DXI11", "Renault Kerax 380 DXi", CategoryTruck, 280, 380, 29.5, 65.8),

	ProfileGenericOther: {Code: ProfileGenericOther, Name: "Generic machine (manual power)", Category: CategoryOther},
}

// Engine looks a profile up by code.
func Engine(code ProfileCode) (EngineProfile, bool) {
	p, ok := engines[code]
	return p, ok
}

// ParseProfileCode validates s against the catalog.
func ParseProfileCode(s string) (ProfileCode, error) {
	code := ProfileCode(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := engines[code]; !ok {
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownProfile, s)
	}
	return code, nil
}

// EnginesFor lists the profiles of category c, generic profile first.
// An empty result falls back to the generic ISO diesel profile.
func EnginesFor(c Category) []EngineProfile {
	out := make([]EngineProfile, 0, len(engines))
	for _, p := range engines {
		if p.Category == c {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []EngineProfile{engines[ProfileGenericOther]}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsGeneric() != out[j].IsGeneric() {
			return out[i].IsGeneric()
		}
		return out[i].Code < out[j].Code
	})
	return out
}
