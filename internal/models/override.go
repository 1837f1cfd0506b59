package models

import "time"

// LoadOverride is a learned load factor for one equipment+scenario pair.
type LoadOverride struct {
	EquipmentID    string    `json:"equipment_id"`
	ScenarioCode   string    `json:"scenario_code"`
	LearnedLoadMin float64   `json:"learned_load_min"`
	LearnedLoadTyp float64   `json:"learned_load_typ"`
	LearnedLoadMax float64   `json:"learned_load_max"`
	Samples        int       `json:"samples"`
	Confidence     float64   `json:"confidence"`
	LastUpdated    time.Time `json:"last_updated"`
	IsActive       bool      `json:"is_active"`
}
