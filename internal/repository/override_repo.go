package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gencontrol/internal/models"
)

type OverrideSQLite struct {
	db *sql.DB
}

func NewOverrideSQLite(db *sql.DB) *OverrideSQLite {
	return &OverrideSQLite{db: db}
}

var _ OverrideRepo = (*OverrideSQLite)(nil)

const (
	upsertOverrideSQL = `
		INSERT INTO equipment_load_overrides
			(equipment_id, scenario_code, load_min, load_typ, load_max,
			 learned_from_n_samples, confidence_score, last_updated, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(equipment_id, scenario_code) DO UPDATE SET
			load_min=excluded.load_min,
			load_typ=excluded.load_typ,
			load_max=excluded.load_max,
			learned_from_n_samples=excluded.learned_from_n_samples,
			confidence_score=excluded.confidence_score,
			last_updated=excluded.last_updated,
			is_active=excluded.is_active
	`

	overrideColumns = `equipment_id, scenario_code, load_min, load_typ, load_max,
		learned_from_n_samples, confidence_score, last_updated, is_active`

	selectOverrideSQL = `SELECT ` + overrideColumns + ` FROM equipment_load_overrides
		WHERE equipment_id = ? AND scenario_code = ? AND is_active = 1`

	selectActiveOverridesSQL = `SELECT ` + overrideColumns + ` FROM equipment_load_overrides
		WHERE is_active = 1 ORDER BY equipment_id, scenario_code`
)

// UpsertOverrides writes every override in one transaction; any failure rolls back all of them.
func (r *OverrideSQLite) UpsertOverrides(ctx context.Context, overrides []models.LoadOverride) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin override batch: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, upsertOverrideSQL)
	if err != nil {
		return fmt.Errorf("prepare override upsert: %w", err)
	}
	defer stmt.Close()

	for _, o := range overrides {
		ts := o.LastUpdated
		if ts.IsZero() {
			ts = time.Now().UTC()
		} else {
			ts = ts.UTC()
		}
		if _, err := stmt.ExecContext(ctx,
			o.EquipmentID,
			o.ScenarioCode,
			o.LearnedLoadMin,
			o.LearnedLoadTyp,
			o.LearnedLoadMax,
			o.Samples,
			o.Confidence,
			ts,
			o.IsActive,
		); err != nil {
			return fmt.Errorf("upsert override %s/%s: %w", o.EquipmentID, o.ScenarioCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit override batch: %w", err)
	}
	return nil
}

// Get fetches the active override for the key. Returns (nil, nil) if not found.
func (r *OverrideSQLite) Get(ctx context.Context, equipmentID, scenarioCode string) (*models.LoadOverride, error) {
	o, err := scanOverride(r.db.QueryRowContext(ctx, selectOverrideSQL, equipmentID, scenarioCode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

// ListActive returns all active overrides ordered by key.
func (r *OverrideSQLite) ListActive(ctx context.Context) ([]models.LoadOverride, error) {
	rows, err := r.db.QueryContext(ctx, selectActiveOverridesSQL)
	if err != nil {
		return nil, fmt.Errorf("query overrides: %w", err)
	}
	defer rows.Close()

	var out []models.LoadOverride
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overrides: %w", err)
	}
	return out, nil
}

func scanOverride(s rowScanner) (models.LoadOverride, error) {
	var o models.LoadOverride
	err := s.Scan(
		&o.EquipmentID,
		&o.ScenarioCode,
		&o.LearnedLoadMin,
		&o.LearnedLoadTyp,
		&o.LearnedLoadMax,
		&o.Samples,
		&o.Confidence,
		&o.LastUpdated,
		&o.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return o, err
		}
		return o, fmt.Errorf("scan override: %w", err)
	}
	o.LastUpdated = o.LastUpdated.UTC()
	return o, nil
}
