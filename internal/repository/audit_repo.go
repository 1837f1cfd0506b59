package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gencontrol/internal/models"

	"github.com/google/uuid"
)

type AuditSQLite struct {
	db *sql.DB
}

func NewAuditSQLite(db *sql.DB) *AuditSQLite { return &AuditSQLite{db: db} }

var _ AuditRepo = (*AuditSQLite)(nil)

const (
	auditColumns = `audit_uuid, timestamp, created_by, equipment_id, materiel_type, materiel_name,
		scenario_code, index_start, index_end, power_kw, fuel_declared_l,
		estimated_min, estimated_typ, estimated_max, uncertainty_pct,
		deviation_pct, z_score, verdict, confidence_pct, load_source`

	insertAuditSQL = `INSERT INTO audits (` + auditColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectAuditsSQL = `SELECT ` + auditColumns + ` FROM audits`
)

// Append inserts a new audit. If AuditID or Timestamp are empty, they're set.
func (r *AuditSQLite) Append(ctx context.Context, a models.AuditRecord) error {
	if a.AuditID == "" {
		a.AuditID = uuid.NewString()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	} else {
		a.Timestamp = a.Timestamp.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertAuditSQL,
		a.AuditID,
		a.Timestamp,
		a.CreatedBy,
		a.EquipmentID,
		a.EquipmentType,
		a.EquipmentName,
		a.ScenarioCode,
		a.IndexStart,
		a.IndexEnd,
		a.PowerKW,
		a.FuelDeclaredL,
		a.EstimatedMin,
		a.EstimatedTyp,
		a.EstimatedMax,
		a.UncertaintyPct,
		a.DeviationPct,
		a.ZScore,
		string(a.Verdict),
		a.ConfidencePct,
		string(a.LoadSource),
	)
	if err != nil {
		return fmt.Errorf("insert audit for %q: %w", a.EquipmentID, err)
	}
	return nil
}

// List returns audits filtered by equipment, scenario and/or verdict, newest first.
func (r *AuditSQLite) List(ctx context.Context, f AuditFilter) ([]models.AuditRecord, error) {
	var (
		conds []string
		args  []any
	)

	if eq := strings.TrimSpace(f.EquipmentID); eq != "" {
		conds = append(conds, "equipment_id = ?")
		args = append(args, eq)
	}
	if sc := strings.ToUpper(strings.TrimSpace(f.ScenarioCode)); sc != "" {
		conds = append(conds, "scenario_code = ?")
		args = append(args, sc)
	}
	if v := strings.ToUpper(strings.TrimSpace(string(f.Verdict))); v != "" {
		conds = append(conds, "verdict = ?")
		args = append(args, v)
	}

	q := selectAuditsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY timestamp DESC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query audits: %w", err)
	}
	defer rows.Close()

	out := make([]models.AuditRecord, 0, 32)
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audits: %w", err)
	}
	return out, nil
}

// LastForEquipment returns the most recent audit of the equipment. Returns (nil, nil) if none.
func (r *AuditSQLite) LastForEquipment(ctx context.Context, equipmentID string) (*models.AuditRecord, error) {
	row := r.db.QueryRowContext(ctx, selectAuditsSQL+" WHERE equipment_id = ? ORDER BY timestamp DESC LIMIT 1", equipmentID)
	a, err := scanAudit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAudit(s rowScanner) (models.AuditRecord, error) {
	var (
		a                         models.AuditRecord
		createdBy, typ, name, src sql.NullString
		verdict                   string
	)
	err := s.Scan(
		&a.AuditID,
		&a.Timestamp,
		&createdBy,
		&a.EquipmentID,
		&typ,
		&name,
		&a.ScenarioCode,
		&a.IndexStart,
		&a.IndexEnd,
		&a.PowerKW,
		&a.FuelDeclaredL,
		&a.EstimatedMin,
		&a.EstimatedTyp,
		&a.EstimatedMax,
		&a.UncertaintyPct,
		&a.DeviationPct,
		&a.ZScore,
		&verdict,
		&a.ConfidencePct,
		&src,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, err
		}
		return a, fmt.Errorf("scan audit: %w", err)
	}
	a.Timestamp = a.Timestamp.UTC()
	a.CreatedBy = createdBy.String
	a.EquipmentType = typ.String
	a.EquipmentName = name.String
	a.Verdict = models.Verdict(verdict)
	a.LoadSource = models.LoadSource(src.String)
	return a, nil
}
