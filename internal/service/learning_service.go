package service

import (
	"context"
	"sync"
	"time"

	"gencontrol/internal/analytics"
	"gencontrol/internal/apperrors"
	"gencontrol/internal/logger"
	"gencontrol/internal/models"
	"gencontrol/internal/repository"
)

// relearner computes and stores overrides from audit history.
type relearner interface {
	Relearn(ctx context.Context, history []models.AuditRecord, minSamples int) (analytics.LearningStats, error)
}

// LearningService runs relearn batches on demand and on a schedule.
// Batches never overlap.
type LearningService struct {
	engine     relearner
	audits     repository.AuditRepo
	overrides  repository.OverrideRepo
	log        *logger.Logger
	minSamples int

	mu sync.Mutex
}

func NewLearningService(
	engine relearner,
	audits repository.AuditRepo,
	overrides repository.OverrideRepo,
	log *logger.Logger,
	minSamples int,
) *LearningService {
	if log == nil {
		log = logger.Nop()
	}
	if minSamples < 1 {
		minSamples = analytics.DefaultMinSamples
	}
	return &LearningService{
		engine:     engine,
		audits:     audits,
		overrides:  overrides,
		log:        log,
		minSamples: minSamples,
	}
}

// Relearn recomputes every override from the full NORMAL audit history.
// minSamples <= 0 uses the configured value.
func (s *LearningService) Relearn(ctx context.Context, minSamples int) (analytics.LearningStats, error) {
	if minSamples <= 0 {
		minSamples = s.minSamples
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.audits.List(ctx, repository.AuditFilter{Verdict: models.VerdictNormal})
	if err != nil {
		s.log.Errorw("relearn_batch_failed", "stage", "history", "err", err)
		return analytics.LearningStats{Failed: 1}, apperrors.Persistence("learning.history", err)
	}

	stats, err := s.engine.Relearn(ctx, history, minSamples)
	if err != nil {
		s.log.Errorw("relearn_batch_failed", "err", err, "audits", len(history), "min_samples", minSamples)
		return stats, err
	}
	s.log.Infow("relearn_batch_done",
		"audits", len(history),
		"min_samples", minSamples,
		"successful", stats.Successful,
		"failed", stats.Failed,
	)
	return stats, nil
}

// Overrides lists the active learned load factors.
func (s *LearningService) Overrides(ctx context.Context) ([]models.LoadOverride, error) {
	out, err := s.overrides.ListActive(ctx)
	if err != nil {
		return nil, apperrors.Persistence("learning.overrides", err)
	}
	return out, nil
}

// Run relearns every interval until ctx is canceled. A non-positive interval returns at once.
func (s *LearningService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			// Failures are logged by Relearn; the next tick retries.
			_, _ = s.Relearn(ctx, 0)
		}
	}
}
