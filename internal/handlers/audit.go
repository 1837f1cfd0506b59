package handlers

import (
	"net/http"
	"strconv"

	"gencontrol/internal/service"

	"github.com/gin-gonic/gin"
)

// AuditRequest is the payload of POST /api/v1/audits.
type AuditRequest struct {
	EquipmentID   string   `json:"equipment_id" binding:"required" example:"GE-01"`
	ScenarioCode  string   `json:"scenario_code" binding:"required" example:"GE_HOSPITAL"`
	IndexStart    *float64 `json:"index_start" binding:"required" example:"1200"`
	IndexEnd      *float64 `json:"index_end" binding:"required" example:"1224"`
	FuelDeclaredL *float64 `json:"fuel_declared_l" binding:"required" example:"610"`
	// Manual load in percent of rated power; overrides learned and catalog loads.
	LoadPct *float64 `json:"load_pct,omitempty" example:"70"`
	DryRun  bool     `json:"dry_run,omitempty"`
	ambientRequest
}

// @Summary      Run a fuel audit
// @Description  Predicts the fuel for the hour-meter span, classifies the declared quantity and stores the audit unless dry_run is set.
// @Tags         audits
// @Accept       json
// @Produce      json
// @Param        body  body      AuditRequest  true  "Field report"
// @Success      200   {object}  service.AuditResult
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/audits [post]
// @Security     BearerAuth
func (h *Handler) runAudit(c *gin.Context) {
	var req AuditRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	res, err := h.services.RunAudit(c.Request.Context(), service.AuditParams{
		EquipmentID:   req.EquipmentID,
		ScenarioCode:  req.ScenarioCode,
		IndexStart:    *req.IndexStart,
		IndexEnd:      *req.IndexEnd,
		FuelDeclaredL: *req.FuelDeclaredL,
		LoadPct:       req.LoadPct,
		Ambient:       req.toAmbient(),
		CreatedBy:     c.GetString(operatorCtx),
		DryRun:        req.DryRun,
	})
	if err != nil {
		h.respondError(c, "audit_run_failed", err, "equipment_id", req.EquipmentID, "scenario", req.ScenarioCode)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      List audits
// @Description  Newest first. Filters are exact matches.
// @Tags         audits
// @Produce      json
// @Param        equipment_id  query  string  false  "Equipment id"
// @Param        scenario      query  string  false  "Scenario code"
// @Param        verdict       query  string  false  "Verdict"  Enums(NORMAL,SUSPECT,ANOMALIE)
// @Param        limit         query  int     false  "Max rows (default 100, max 1000)"
// @Success      200  {object}  map[string]interface{}  "count, audits"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/audits [get]
// @Security     BearerAuth
func (h *Handler) listAudits(c *gin.Context) {
	f := service.AuditFilter{
		EquipmentID:  c.Query("equipment_id"),
		ScenarioCode: c.Query("scenario"),
		Verdict:      c.Query("verdict"),
	}
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit'; use a non-negative integer"})
			return
		}
		f.Limit = n
	}

	audits, err := h.services.ListAudits(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, "audits_list_failed", err, "filter", f)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(audits),
		"audits": audits,
	})
}
