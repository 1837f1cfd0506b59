package repository

import (
	"context"
	"database/sql"

	"gencontrol/internal/models"
)

// AuditFilter narrows an audit listing. Zero fields do not filter.
type AuditFilter struct {
	EquipmentID  string
	ScenarioCode string
	Verdict      models.Verdict
	Limit        int
}

type AuditRepo interface {
	Append(ctx context.Context, a models.AuditRecord) error
	// List returns matching audits, newest first.
	List(ctx context.Context, f AuditFilter) ([]models.AuditRecord, error)
	LastForEquipment(ctx context.Context, equipmentID string) (*models.AuditRecord, error)
}

type OverrideRepo interface {
	Get(ctx context.Context, equipmentID, scenarioCode string) (*models.LoadOverride, error)
	UpsertOverrides(ctx context.Context, overrides []models.LoadOverride) error
	ListActive(ctx context.Context) ([]models.LoadOverride, error)
}

type EquipmentRepo interface {
	Create(ctx context.Context, e models.Equipment) error
	GetByID(ctx context.Context, equipmentID string) (*models.Equipment, error)
	List(ctx context.Context) ([]models.Equipment, error)
}

type Repository struct {
	Audits     AuditRepo
	Overrides  OverrideRepo
	Equipments EquipmentRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Audits:     NewAuditSQLite(db),
		Overrides:  NewOverrideSQLite(db),
		Equipments: NewEquipmentSQLite(db),
	}
}
