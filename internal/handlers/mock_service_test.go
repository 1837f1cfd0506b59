package handlers

import (
	"context"
	"net/http"
	"sync"

	"gencontrol/internal/analytics"
	"gencontrol/internal/models"
	"gencontrol/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	disabled bool
	parseOp  string
	parseErr error

	lastParseToken string
}

func (m *mockAuth) Enabled() bool { return !m.disabled }
func (m *mockAuth) IssueToken(operator string) (string, error) {
	return "token-for-" + operator, nil
}
func (m *mockAuth) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	return m.parseOp, m.parseErr
}

type mockPrediction struct {
	resp service.PredictResult
	err  error
	last service.PredictParams
}

func (m *mockPrediction) Predict(ctx context.Context, p service.PredictParams) (service.PredictResult, error) {
	m.last = p
	return m.resp, m.err
}

type mockDetection struct {
	resp        analytics.AnomalyResult
	err         error
	lastDev     float64
	lastHistory []float64
}

func (m *mockDetection) Detect(ctx context.Context, deviationPct float64, history []float64) (analytics.AnomalyResult, error) {
	m.lastDev = deviationPct
	m.lastHistory = history
	return m.resp, m.err
}

type mockAudit struct {
	runResp service.AuditResult
	runErr  error
	lastRun service.AuditParams

	// listFn, when set, answers ListAudits; otherwise listResp/listErr are returned.
	listFn     func(call int) ([]models.AuditRecord, error)
	listResp   []models.AuditRecord
	listErr    error
	lastFilter service.AuditFilter

	mu        sync.Mutex
	listCalls int
}

func (m *mockAudit) RunAudit(ctx context.Context, p service.AuditParams) (service.AuditResult, error) {
	m.lastRun = p
	return m.runResp, m.runErr
}
func (m *mockAudit) ListAudits(ctx context.Context, f service.AuditFilter) ([]models.AuditRecord, error) {
	m.mu.Lock()
	m.listCalls++
	call := m.listCalls
	m.lastFilter = f
	m.mu.Unlock()
	if m.listFn != nil {
		return m.listFn(call)
	}
	return m.listResp, m.listErr
}

type mockLearning struct {
	stats          analytics.LearningStats
	relearnErr     error
	lastMinSamples int
	relearnCalls   int

	overrides    []models.LoadOverride
	overridesErr error
}

func (m *mockLearning) Relearn(ctx context.Context, minSamples int) (analytics.LearningStats, error) {
	m.relearnCalls++
	m.lastMinSamples = minSamples
	return m.stats, m.relearnErr
}
func (m *mockLearning) Overrides(ctx context.Context) ([]models.LoadOverride, error) {
	return m.overrides, m.overridesErr
}

type mockEquipment struct {
	registered   models.Equipment
	registerErr  error
	lastRegister service.RegisterParams

	items  map[string]models.Equipment
	getErr error
	next   float64
}

func (m *mockEquipment) Register(ctx context.Context, p service.RegisterParams) (models.Equipment, error) {
	m.lastRegister = p
	return m.registered, m.registerErr
}
func (m *mockEquipment) Get(ctx context.Context, id string) (models.Equipment, error) {
	if m.getErr != nil {
		return models.Equipment{}, m.getErr
	}
	return m.items[id], nil
}
func (m *mockEquipment) List(ctx context.Context) ([]models.Equipment, error) {
	out := make([]models.Equipment, 0, len(m.items))
	for _, e := range m.items {
		out = append(out, e)
	}
	return out, nil
}
func (m *mockEquipment) NextIndex(ctx context.Context, id string) (float64, error) {
	if m.getErr != nil {
		return 0, m.getErr
	}
	return m.next, nil
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	if s.Authorization == nil {
		s.Authorization = &mockAuth{parseOp: "tester"}
	}
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
