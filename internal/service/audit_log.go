package service

import (
	"context"
	"fmt"
	"strings"

	"gencontrol/internal/apperrors"
	"gencontrol/internal/models"
	"gencontrol/internal/repository"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// normalizeCode trims spaces and uppercases a code filter.
func normalizeCode(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters for the repository.
func normalizeAndValidateFilter(f AuditFilter) (repository.AuditFilter, error) {
	out := repository.AuditFilter{
		EquipmentID:  strings.TrimSpace(f.EquipmentID),
		ScenarioCode: normalizeCode(f.ScenarioCode),
		Verdict:      models.Verdict(normalizeCode(f.Verdict)),
		Limit:        f.Limit,
	}

	switch out.Verdict {
	case "", models.VerdictNormal, models.VerdictSuspect, models.VerdictAnomalie:
	default:
		return repository.AuditFilter{}, fmt.Errorf("%w: verdict %q", apperrors.ErrInvalidInput, f.Verdict)
	}

	switch {
	case out.Limit < 0:
		return repository.AuditFilter{}, fmt.Errorf("%w: limit %d", apperrors.ErrInvalidInput, f.Limit)
	case out.Limit == 0:
		out.Limit = defaultListLimit
	case out.Limit > maxListLimit:
		out.Limit = maxListLimit
	}
	return out, nil
}

// ListAudits returns matching audits, newest first.
func (s *AuditService) ListAudits(ctx context.Context, f AuditFilter) ([]models.AuditRecord, error) {
	rf, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	recs, err := s.audits.List(ctx, rf)
	if err != nil {
		return nil, apperrors.Persistence("audit.list", err)
	}
	return recs, nil
}
