package service

import (
	"gencontrol/internal/analytics"
	"gencontrol/internal/models"
	"gencontrol/internal/physics"
)

// PredictParams asks for the fuel rate of a profile at a given load.
type PredictParams struct {
	ProfileCode     string
	DeclaredPowerKW float64
	LoadPct         float64
	// Ambient nil means no atmospheric correction.
	Ambient *physics.Ambient
}

// PredictResult is a prediction together with the line it came from.
type PredictResult struct {
	physics.Prediction
	Model    physics.Model `json:"model"`
	LoadBand string        `json:"load_band"`
}

// AuditParams describes one field report to audit.
type AuditParams struct {
	EquipmentID   string
	ScenarioCode  string
	IndexStart    float64
	IndexEnd      float64
	FuelDeclaredL float64
	// LoadPct overrides both learned and catalog loads when set (percent of rated power).
	LoadPct *float64
	// Ambient nil uses the configured site default.
	Ambient   *physics.Ambient
	CreatedBy string
	// DryRun classifies without persisting.
	DryRun bool
}

// AuditResult is the persisted record plus the detector's explanation.
type AuditResult struct {
	Record     models.AuditRecord      `json:"record"`
	Anomaly    analytics.AnomalyResult `json:"anomaly"`
	Prediction physics.Prediction      `json:"prediction"`
	Hours      float64                 `json:"hours"`
	LoadPct    float64                 `json:"load_pct"`
	Persisted  bool                    `json:"persisted"`
}

// AuditFilter narrows an audit listing.
type AuditFilter struct {
	EquipmentID  string
	ScenarioCode string
	Verdict      string
	Limit        int
}

// RegisterParams describes new equipment. Rating is read in the category's
// nameplate unit and ignored when the profile has a fixed rated power.
type RegisterParams struct {
	EquipmentID string
	Name        string
	ProfileCode string
	Rating      float64
}
