package service

import (
	"context"
	"time"

	"gencontrol/internal/analytics"
	"gencontrol/internal/logger"
	"gencontrol/internal/models"
	"gencontrol/internal/physics"
	"gencontrol/internal/repository"
)

// Authorization issues and checks operator bearer tokens.
type Authorization interface {
	// Enabled is false when no signing key is configured; requests then run as AnonymousOperator.
	Enabled() bool
	IssueToken(operator string) (string, error)
	ParseToken(accessToken string) (string, error)
}

// Prediction exposes the consumption model.
type Prediction interface {
	Predict(ctx context.Context, p PredictParams) (PredictResult, error)
}

// Detection exposes the anomaly detector on its own.
type Detection interface {
	Detect(ctx context.Context, deviationPct float64, history []float64) (analytics.AnomalyResult, error)
}

// Audit runs and lists fuel audits.
type Audit interface {
	RunAudit(ctx context.Context, p AuditParams) (AuditResult, error)
	ListAudits(ctx context.Context, f AuditFilter) ([]models.AuditRecord, error)
}

// Learning recomputes and exposes learned load factors.
type Learning interface {
	Relearn(ctx context.Context, minSamples int) (analytics.LearningStats, error)
	Overrides(ctx context.Context) ([]models.LoadOverride, error)
}

// Scheduler runs periodic relearn batches until ctx is canceled.
type Scheduler interface {
	Run(ctx context.Context, interval time.Duration)
}

// Equipment manages the registered fleet.
type Equipment interface {
	Register(ctx context.Context, p RegisterParams) (models.Equipment, error)
	Get(ctx context.Context, equipmentID string) (models.Equipment, error)
	List(ctx context.Context) ([]models.Equipment, error)
	// NextIndex is the hour-meter value the next audit should start from.
	NextIndex(ctx context.Context, equipmentID string) (float64, error)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Prediction
	Detection
	Audit
	Learning
	Scheduler
	Equipment
}

// Options carries the tunables read from config.
type Options struct {
	Physics      physics.Options
	Thresholds   analytics.Thresholds
	HistoryLimit int
	// DefaultAmbient applies to audits that carry no site conditions.
	DefaultAmbient physics.Ambient
	MinSamples     int
	SigningKey     string
	TokenTTL       time.Duration
	// Now is the clock; nil uses time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Physics.AgingFactor == 0 {
		o.Physics = physics.DefaultOptions()
	}
	if o.HistoryLimit == 0 {
		o.HistoryLimit = defaultHistoryLimit
	}
	if o.MinSamples < 1 {
		o.MinSamples = analytics.DefaultMinSamples
	}
	if o.TokenTTL <= 0 {
		o.TokenTTL = defaultTokenTTL
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, log *logger.Logger, opts Options) *Service {
	opts = opts.withDefaults()
	if log == nil {
		log = logger.Nop()
	}

	detector := analytics.NewDetector(opts.Thresholds)
	engine := analytics.NewLearningEngine(repos.Overrides, opts.Now)
	learning := NewLearningService(engine, repos.Audits, repos.Overrides, log, opts.MinSamples)

	return &Service{
		Authorization: NewAuthService(opts.SigningKey, opts.TokenTTL, opts.Now),
		Prediction:    NewPredictionService(opts.Physics),
		Detection:     NewDetectionService(detector),
		Audit:         NewAuditService(repos.Audits, repos.Equipments, engine, detector, log, opts),
		Learning:      learning,
		Scheduler:     learning,
		Equipment:     NewEquipmentService(repos.Equipments, repos.Audits, opts.Now),
	}
}
