package models

import "time"

// Verdict is the outcome of an anomaly classification.
type Verdict string

const (
	VerdictNormal   Verdict = "NORMAL"
	VerdictSuspect  Verdict = "SUSPECT"
	VerdictAnomalie Verdict = "ANOMALIE"
)

// LoadSource tells which load factor fed the prediction.
type LoadSource string

const (
	LoadSourceManual  LoadSource = "MANUAL"
	LoadSourceLearned LoadSource = "LEARNED"
	LoadSourceCatalog LoadSource = "CATALOG"
)

// AuditRecord is one completed fuel audit. Records are append-only.
type AuditRecord struct {
	AuditID        string     `json:"audit_id"`
	Timestamp      time.Time  `json:"timestamp"`
	CreatedBy      string     `json:"created_by"`
	EquipmentID    string     `json:"equipment_id"`
	EquipmentType  string     `json:"equipment_type"` // engine profile code
	EquipmentName  string     `json:"equipment_name"`
	ScenarioCode   string     `json:"scenario_code"`
	IndexStart     float64    `json:"index_start"` // hour meter
	IndexEnd       float64    `json:"index_end"`
	PowerKW        float64    `json:"power_kw"`
	FuelDeclaredL  float64    `json:"fuel_declared_l"`
	EstimatedMin   float64    `json:"estimated_min"`
	EstimatedTyp   float64    `json:"estimated_typ"`
	EstimatedMax   float64    `json:"estimated_max"`
	UncertaintyPct float64    `json:"uncertainty_pct"`
	DeviationPct   float64    `json:"deviation_pct"`
	ZScore         float64    `json:"z_score"`
	Verdict        Verdict    `json:"verdict"`
	ConfidencePct  int        `json:"confidence_pct"`
	LoadSource     LoadSource `json:"load_source,omitempty"`
}

// Hours is the hour-meter span of the audit.
func (a AuditRecord) Hours() float64 { return a.IndexEnd - a.IndexStart }
