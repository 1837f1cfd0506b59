package handlers

import (
	"net/http"

	"gencontrol/internal/physics"
	"gencontrol/internal/service"

	"github.com/gin-gonic/gin"
)

// ambientRequest carries optional site conditions. A missing field takes the
// standard reference value.
type ambientRequest struct {
	AltitudeM    *float64 `json:"altitude_m,omitempty" example:"1200"`
	TemperatureC *float64 `json:"temperature_c,omitempty" example:"38"`
}

func (a ambientRequest) toAmbient() *physics.Ambient {
	if a.AltitudeM == nil && a.TemperatureC == nil {
		return nil
	}
	amb := physics.Reference()
	if a.AltitudeM != nil {
		amb.AltitudeM = *a.AltitudeM
	}
	if a.TemperatureC != nil {
		amb.TemperatureC = *a.TemperatureC
	}
	return &amb
}

// PredictRequest is the payload of POST /api/v1/predict.
type PredictRequest struct {
	ProfileCode string   `json:"profile_code" binding:"required" example:"PERKINS_1104_100"`
	PowerKW     float64  `json:"power_kw" example:"80"`
	LoadPct     *float64 `json:"load_pct" binding:"required" example:"75"`
	ambientRequest
}

// DetectRequest is the payload of POST /api/v1/detect.
type DetectRequest struct {
	DeviationPct *float64  `json:"deviation_pct" binding:"required" example:"18.5"`
	History      []float64 `json:"history"`
}

// @Summary      Predict fuel rate
// @Description  Fuel rate of an engine profile at a load, with optional ISO 15550 site correction.
// @Tags         engine
// @Accept       json
// @Produce      json
// @Param        body  body      PredictRequest  true  "Prediction input"
// @Success      200   {object}  service.PredictResult
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/predict [post]
// @Security     BearerAuth
func (h *Handler) predict(c *gin.Context) {
	var req PredictRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	res, err := h.services.Predict(c.Request.Context(), service.PredictParams{
		ProfileCode:     req.ProfileCode,
		DeclaredPowerKW: req.PowerKW,
		LoadPct:         *req.LoadPct,
		Ambient:         req.toAmbient(),
	})
	if err != nil {
		h.respondError(c, "predict_failed", err, "profile", req.ProfileCode)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Classify a deviation
// @Description  Z-score classification against the given history, fixed thresholds below 3 points.
// @Tags         engine
// @Accept       json
// @Produce      json
// @Param        body  body      DetectRequest  true  "Deviation and history"
// @Success      200   {object}  analytics.AnomalyResult
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/detect [post]
// @Security     BearerAuth
func (h *Handler) detect(c *gin.Context) {
	var req DetectRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	res, err := h.services.Detect(c.Request.Context(), *req.DeviationPct, req.History)
	if err != nil {
		h.respondError(c, "detect_failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
