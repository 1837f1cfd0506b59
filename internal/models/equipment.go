package models

import "time"

// Equipment is a registered machine bound to an engine profile.
type Equipment struct {
	EquipmentID string    `json:"equipment_id"`
	Name        string    `json:"name"`
	ProfileCode string    `json:"profile_code"`
	PowerKW     float64   `json:"power_kw"`
	CreatedAt   time.Time `json:"created_at"`
}
