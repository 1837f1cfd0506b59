package catalog

import (
	"fmt"
	"sort"
	"strings"

	"gencontrol/internal/apperrors"
)

// Category groups equipment and the scenarios that apply to it.
type Category string

const (
	CategoryGE    Category = "GE"
	CategoryTruck Category = "TRUCK"
	CategoryTP    Category = "TP"
	CategoryOther Category = "OTHER"
)

// ParseCategory normalizes s and validates it.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case CategoryGE, CategoryTruck, CategoryTP, CategoryOther:
		return c, nil
	}
	return "", fmt.Errorf("%w: category %q", apperrors.ErrInvalidInput, s)
}

// scenarioCategory maps an equipment category to the scenario family it uses.
// OTHER equipment has no scenarios of its own and borrows the TP ones.
func (c Category) scenarioCategory() Category {
	if c == CategoryOther {
		return CategoryTP
	}
	return c
}

// ToKW converts a nameplate rating in the category's display unit to kW:
// kVA for GE (cos phi 0.8), metric horsepower for TRUCK, kW otherwise.
func (c Category) ToKW(rating float64) float64 {
	switch c {
	case CategoryGE:
		return rating * 0.8
	case CategoryTruck:
		return rating / 1.36
	default:
		return rating
	}
}

// DisplayUnit is the unit operators read on the nameplate.
func (c Category) DisplayUnit() string {
	switch c {
	case CategoryGE:
		return "kVA"
	case CategoryTruck:
		return "CV"
	default:
		return "kW"
	}
}

// ScenarioCode identifies a LoadScenario.
type ScenarioCode string

// LoadScenario is a reference operating profile. Load values are fractions of rated power.
type LoadScenario struct {
	Code             ScenarioCode `json:"code"`
	Category         Category     `json:"category"`
	Description      string       `json:"description"`
	LoadMin          float64      `json:"load_min"`
	LoadTyp          float64      `json:"load_typ"`
	LoadMax          float64      `json:"load_max"`
	PowerRangeKW     [2]float64   `json:"power_range_kw"`
	TypicalDurationH float64      `json:"typical_duration_h"`
}

var scenarios = map[ScenarioCode]LoadScenario{
	"GE_OFFICE_AC":      {"GE_OFFICE_AC", CategoryGE, "Offices with air conditioning", 0.30, 0.40, 0.50, [2]float64{20, 500}, 8},
	"GE_HOSPITAL":       {"GE_HOSPITAL", CategoryGE, "Hospital, critical load", 0.60, 0.75, 0.85, [2]float64{100, 2000}, 24},
	"GE_INDUSTRY_HEAVY": {"GE_INDUSTRY_HEAVY", CategoryGE, "Continuous heavy industry", 0.75, 0.85, 0.95, [2]float64{500, 10000}, 24},

	"TRUCK_CITY_DELIVERY": {"TRUCK_CITY_DELIVERY", CategoryTruck, "Urban delivery / concrete mixer", 0.15, 0.25, 0.35, [2]float64{150, 450}, 6},
	"TRUCK_HIGHWAY":       {"TRUCK_HIGHWAY", CategoryTruck, "Loaded highway", 0.60, 0.70, 0.80, [2]float64{300, 600}, 4},
	"TRUCK_MOUNTAIN":      {"TRUCK_MOUNTAIN", CategoryTruck, "Mountain road / heavy load", 0.75, 0.85, 0.95, [2]float64{350, 650}, 3},
	"TRUCK_OFFROAD":       {"TRUCK_OFFROAD", CategoryTruck, "Off-road mining", 0.80, 0.90, 1.05, [2]float64{400, 800}, 8},

	"TP_EXCAVATION": {"TP_EXCAVATION", CategoryTP, "Intensive excavation", 0.60, 0.75, 0.85, [2]float64{100, 500}, 6},
	"TP_CRANE":      {"TP_CRANE", CategoryTP, "Lifting crane (intermittent)", 0.20, 0.30, 0.45, [2]float64{50, 300}, 8},
}

// Scenario looks a scenario up by code.
func Scenario(code ScenarioCode) (LoadScenario, bool) {
	s, ok := scenarios[code]
	return s, ok
}

// ParseScenarioCode validates s against the catalog.
func ParseScenarioCode(s string) (ScenarioCode, error) {
	code := ScenarioCode(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := scenarios[code]; !ok {
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownScenario, s)
	}
	return code, nil
}

// ScenariosFor returns the scenarios usable by equipment of category c, sorted by code.
func ScenariosFor(c Category) []LoadScenario {
	want := c.scenarioCategory()
	out := make([]LoadScenario, 0, len(scenarios))
	for _, s := range scenarios {
		if s.Category == want {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Applies reports whether scenario s can be declared for equipment of category c.
func (s LoadScenario) Applies(c Category) bool {
	return s.Category == c.scenarioCategory()
}

// LoadBand describes the operating regime of a load percentage.
func LoadBand(loadPct float64) string {
	switch {
	case loadPct <= 10:
		return "IDLE"
	case loadPct <= 25:
		return "STATIONARY_PTO"
	case loadPct <= 45:
		return "MIXED_ROAD"
	case loadPct <= 65:
		return "SUSTAINED_TRACTION"
	case loadPct <= 85:
		return "MOUNTAIN_HEAVY"
	default:
		return "EXTREME"
	}
}
