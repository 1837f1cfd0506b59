package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gencontrol/internal/models"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrDuplicate reports an insert that hit an existing primary key.
var ErrDuplicate = errors.New("already exists")

func isConstraintViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}

type EquipmentSQLite struct {
	db *sql.DB
}

func NewEquipmentSQLite(db *sql.DB) *EquipmentSQLite {
	return &EquipmentSQLite{db: db}
}

// Ensure implementation of EquipmentRepo interface at compile time.
var _ EquipmentRepo = (*EquipmentSQLite)(nil)

const (
	insertEquipmentSQL = `INSERT INTO equipment (equipment_id, equipment_name, profile_base, power_kw, created_at) VALUES (?, ?, ?, ?, ?)`
	selectEquipmentSQL = `SELECT equipment_id, equipment_name, profile_base, power_kw, created_at FROM equipment`
)

// Create inserts a new equipment row. An existing id yields ErrDuplicate.
func (r *EquipmentSQLite) Create(ctx context.Context, e models.Equipment) error {
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	if _, err := r.db.ExecContext(ctx, insertEquipmentSQL, e.EquipmentID, e.Name, e.ProfileCode, e.PowerKW, created.UTC()); err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("insert equipment %q: %w", e.EquipmentID, ErrDuplicate)
		}
		return fmt.Errorf("insert equipment %q: %w", e.EquipmentID, err)
	}
	return nil
}

// GetByID fetches equipment by id. Returns (nil, nil) if not found.
func (r *EquipmentSQLite) GetByID(ctx context.Context, equipmentID string) (*models.Equipment, error) {
	var e models.Equipment
	err := r.db.QueryRowContext(ctx, selectEquipmentSQL+` WHERE equipment_id = ?`, equipmentID).
		Scan(&e.EquipmentID, &e.Name, &e.ProfileCode, &e.PowerKW, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select equipment %q: %w", equipmentID, err)
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return &e, nil
}

// List returns all equipment, newest first.
func (r *EquipmentSQLite) List(ctx context.Context) ([]models.Equipment, error) {
	rows, err := r.db.QueryContext(ctx, selectEquipmentSQL+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query equipment: %w", err)
	}
	defer rows.Close()

	out := make([]models.Equipment, 0, 16)
	for rows.Next() {
		var e models.Equipment
		if err := rows.Scan(&e.EquipmentID, &e.Name, &e.ProfileCode, &e.PowerKW, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate equipment: %w", err)
	}
	return out, nil
}
