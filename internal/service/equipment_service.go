package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gencontrol/internal/apperrors"
	"gencontrol/internal/catalog"
	"gencontrol/internal/models"
	"gencontrol/internal/repository"
)

type EquipmentService struct {
	equipments repository.EquipmentRepo
	audits     repository.AuditRepo
	now        func() time.Time
}

func NewEquipmentService(equipments repository.EquipmentRepo, audits repository.AuditRepo, now func() time.Time) *EquipmentService {
	if now == nil {
		now = time.Now
	}
	return &EquipmentService{equipments: equipments, audits: audits, now: now}
}

// Register binds new equipment to an engine profile. A profile with a fixed
// rated power wins over the declared rating; otherwise the rating is read in
// the category's nameplate unit and converted to kW.
func (s *EquipmentService) Register(ctx context.Context, p RegisterParams) (models.Equipment, error) {
	const op = "equipment.register"

	id := strings.TrimSpace(p.EquipmentID)
	name := strings.TrimSpace(p.Name)
	if id == "" || name == "" {
		return models.Equipment{}, apperrors.New(apperrors.ErrInvalidInput, op, fmt.Errorf("equipment_id and name are required"))
	}

	code, err := catalog.ParseProfileCode(p.ProfileCode)
	if err != nil {
		return models.Equipment{}, err
	}
	profile, _ := catalog.Engine(code)

	var powerKW float64
	if profile.RatedPowerKW != nil {
		powerKW = *profile.RatedPowerKW
	} else {
		if !isFinite(p.Rating) || p.Rating <= 0 {
			err := fmt.Errorf("profile %s needs a positive rating in %s", code, profile.Category.DisplayUnit())
			return models.Equipment{}, apperrors.New(apperrors.ErrInvalidInput, op, err).WithEquipment(id, "")
		}
		powerKW = profile.Category.ToKW(p.Rating)
	}

	existing, err := s.equipments.GetByID(ctx, id)
	if err != nil {
		return models.Equipment{}, apperrors.Persistence(op, err)
	}
	if existing != nil {
		return models.Equipment{}, apperrors.New(apperrors.ErrInvalidInput, op, fmt.Errorf("equipment %q already registered", id))
	}

	eq := models.Equipment{
		EquipmentID: id,
		Name:        name,
		ProfileCode: string(code),
		PowerKW:     powerKW,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.equipments.Create(ctx, eq); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.Equipment{}, apperrors.New(apperrors.ErrInvalidInput, op, fmt.Errorf("equipment %q already registered", id))
		}
		return models.Equipment{}, apperrors.Persistence(op, err)
	}
	return eq, nil
}

func (s *EquipmentService) Get(ctx context.Context, equipmentID string) (models.Equipment, error) {
	eq, err := s.equipments.GetByID(ctx, equipmentID)
	if err != nil {
		return models.Equipment{}, apperrors.Persistence("equipment.get", err)
	}
	if eq == nil {
		return models.Equipment{}, apperrors.New(apperrors.ErrNotFound, "equipment.get", fmt.Errorf("equipment %q", equipmentID))
	}
	return *eq, nil
}

func (s *EquipmentService) List(ctx context.Context) ([]models.Equipment, error) {
	out, err := s.equipments.List(ctx)
	if err != nil {
		return nil, apperrors.Persistence("equipment.list", err)
	}
	return out, nil
}

// NextIndex returns the index_end of the latest audit, or 0 for a fresh machine.
func (s *EquipmentService) NextIndex(ctx context.Context, equipmentID string) (float64, error) {
	if _, err := s.Get(ctx, equipmentID); err != nil {
		return 0, err
	}
	last, err := s.audits.LastForEquipment(ctx, equipmentID)
	if err != nil {
		return 0, apperrors.Persistence("equipment.next_index", err)
	}
	if last == nil {
		return 0, nil
	}
	return last.IndexEnd, nil
}
