package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gencontrol/internal/apperrors"
	"gencontrol/internal/models"
	"gencontrol/internal/service"

	"github.com/gin-gonic/gin"
)

// doRequest sends body (if any) with a valid bearer token.
func doRequest(r *gin.Engine, method, url, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRunAudit_ForwardsParamsAndOperator(t *testing.T) {
	au := &mockAudit{runResp: service.AuditResult{
		Record:    models.AuditRecord{AuditID: "a-1", Verdict: models.VerdictSuspect},
		Persisted: true,
	}}
	r := newTestRouter(&service.Service{Audit: au})

	body := `{"equipment_id":"GE-01","scenario_code":"GE_HOSPITAL","index_start":1200,"index_end":1224,
		"fuel_declared_l":610,"load_pct":70,"temperature_c":41,"dry_run":true}`
	w := doRequest(r, http.MethodPost, "/api/v1/audits", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	p := au.lastRun
	if p.EquipmentID != "GE-01" || p.ScenarioCode != "GE_HOSPITAL" || p.IndexStart != 1200 || p.IndexEnd != 1224 || p.FuelDeclaredL != 610 {
		t.Fatalf("unexpected params: %+v", p)
	}
	if p.LoadPct == nil || *p.LoadPct != 70 || !p.DryRun {
		t.Fatalf("manual load or dry run not forwarded: %+v", p)
	}
	if p.Ambient == nil || p.Ambient.TemperatureC != 41 || p.Ambient.AltitudeM != 0 {
		t.Fatalf("unexpected ambient: %+v", p.Ambient)
	}
	if p.CreatedBy != "tester" {
		t.Fatalf("expected created_by from token, got %q", p.CreatedBy)
	}

	var resp service.AuditResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Record.AuditID != "a-1" || resp.Record.Verdict != models.VerdictSuspect || !resp.Persisted {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestRunAudit_NoAmbientLeavesDefault(t *testing.T) {
	au := &mockAudit{}
	r := newTestRouter(&service.Service{Audit: au})

	w := doRequest(r, http.MethodPost, "/api/v1/audits",
		`{"equipment_id":"GE-01","scenario_code":"GE_HOSPITAL","index_start":0,"index_end":10,"fuel_declared_l":0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if au.lastRun.Ambient != nil || au.lastRun.LoadPct != nil {
		t.Fatalf("expected nil ambient and load, got %+v", au.lastRun)
	}
}

func TestRunAudit_BadBody(t *testing.T) {
	au := &mockAudit{}
	r := newTestRouter(&service.Service{Audit: au})

	cases := []string{
		`{"scenario_code":"GE_HOSPITAL","index_start":0,"index_end":10,"fuel_declared_l":5}`,
		`{"equipment_id":"GE-01","scenario_code":"GE_HOSPITAL","index_end":10,"fuel_declared_l":5}`,
		`not json`,
	}
	for _, body := range cases {
		w := doRequest(r, http.MethodPost, "/api/v1/audits", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, w.Code)
		}
	}
	if au.lastRun.EquipmentID != "" {
		t.Fatalf("service must not be called on bad body")
	}
}

func TestRunAudit_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{apperrors.New(apperrors.ErrInvalidInput, "audit.run", errors.New("index_end must be greater than index_start")), http.StatusBadRequest},
		{fmt.Errorf("%w: %q", apperrors.ErrUnknownScenario, "X"), http.StatusBadRequest},
		{apperrors.New(apperrors.ErrInsufficientCalibrationData, "physics", nil), http.StatusBadRequest},
		{apperrors.New(apperrors.ErrNotFound, "audit.run", errors.New("equipment")), http.StatusNotFound},
		{apperrors.Persistence("audit.append", errors.New("disk full")), http.StatusInternalServerError},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		au := &mockAudit{runErr: tc.err}
		r := newTestRouter(&service.Service{Audit: au})

		w := doRequest(r, http.MethodPost, "/api/v1/audits",
			`{"equipment_id":"GE-01","scenario_code":"GE_HOSPITAL","index_start":0,"index_end":10,"fuel_declared_l":5}`)
		if w.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, w.Code)
		}
		if tc.code == http.StatusInternalServerError && strings.Contains(w.Body.String(), "disk full") {
			t.Fatalf("server errors must not leak details: %s", w.Body.String())
		}
	}
}

func TestListAudits_QueryAndErrors(t *testing.T) {
	au := &mockAudit{listResp: []models.AuditRecord{{AuditID: "a-1"}, {AuditID: "a-2"}}}
	r := newTestRouter(&service.Service{Audit: au})

	w := doRequest(r, http.MethodGet, "/api/v1/audits?equipment_id=GE-01&scenario=ge_hospital&verdict=anomalie&limit=5", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	want := service.AuditFilter{EquipmentID: "GE-01", ScenarioCode: "ge_hospital", Verdict: "anomalie", Limit: 5}
	if au.lastFilter != want {
		t.Fatalf("filter got %+v, want %+v", au.lastFilter, want)
	}
	var resp struct {
		Count  int                  `json:"count"`
		Audits []models.AuditRecord `json:"audits"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 2 || len(resp.Audits) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	if w := doRequest(r, http.MethodGet, "/api/v1/audits?limit=abc", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", w.Code)
	}

	au.listErr = fmt.Errorf("%w: verdict", apperrors.ErrInvalidInput)
	if w := doRequest(r, http.MethodGet, "/api/v1/audits?verdict=maybe", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid filter, got %d", w.Code)
	}
}

func TestAPI_RequiresToken(t *testing.T) {
	r := newTestRouter(&service.Service{Audit: &mockAudit{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/audits", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health response %d %s", w.Code, w.Body.String())
	}
}
