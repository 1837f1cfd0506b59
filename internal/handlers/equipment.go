package handlers

import (
	"net/http"

	"gencontrol/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterEquipmentRequest is the payload of POST /api/v1/equipment.
type RegisterEquipmentRequest struct {
	EquipmentID string `json:"equipment_id" binding:"required" example:"TRK-07"`
	Name        string `json:"name" binding:"required" example:"Howo tipper 07"`
	ProfileCode string `json:"profile_code" binding:"required" example:"GENERIC_TRUCK"`
	// Nameplate rating in kVA (GE), CV (TRUCK) or kW; ignored for profiles with a fixed rating.
	Rating float64 `json:"rating,omitempty" example:"380"`
}

// @Summary      Register equipment
// @Tags         equipment
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterEquipmentRequest  true  "Equipment"
// @Success      201   {object}  models.Equipment
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/equipment [post]
// @Security     BearerAuth
func (h *Handler) registerEquipment(c *gin.Context) {
	var req RegisterEquipmentRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	eq, err := h.services.Register(c.Request.Context(), service.RegisterParams{
		EquipmentID: req.EquipmentID,
		Name:        req.Name,
		ProfileCode: req.ProfileCode,
		Rating:      req.Rating,
	})
	if err != nil {
		h.respondError(c, "equipment_register_failed", err, "equipment_id", req.EquipmentID, "profile", req.ProfileCode)
		return
	}
	c.JSON(http.StatusCreated, eq)
}

// @Summary      List equipment
// @Tags         equipment
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, equipment"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/equipment [get]
// @Security     BearerAuth
func (h *Handler) listEquipment(c *gin.Context) {
	out, err := h.services.Equipment.List(c.Request.Context())
	if err != nil {
		h.respondError(c, "equipment_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     len(out),
		"equipment": out,
	})
}

// @Summary      Get equipment
// @Tags         equipment
// @Produce      json
// @Param        id   path      string  true  "Equipment id"
// @Success      200  {object}  models.Equipment
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/equipment/{id} [get]
// @Security     BearerAuth
func (h *Handler) getEquipment(c *gin.Context) {
	id := c.Param("id")
	eq, err := h.services.Equipment.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "equipment_get_failed", err, "equipment_id", id)
		return
	}
	c.JSON(http.StatusOK, eq)
}

// @Summary      Suggested start index
// @Description  The hour-meter reading the next audit should start from: end index of the latest audit, 0 if none.
// @Tags         equipment
// @Produce      json
// @Param        id   path      string  true  "Equipment id"
// @Success      200  {object}  map[string]interface{}  "equipment_id, next_index"
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/equipment/{id}/next-index [get]
// @Security     BearerAuth
func (h *Handler) nextIndex(c *gin.Context) {
	id := c.Param("id")
	next, err := h.services.NextIndex(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "equipment_next_index_failed", err, "equipment_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"equipment_id": id,
		"next_index":   next,
	})
}
