package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// @Summary      Relearn load factors
// @Description  Recomputes every learned load factor from NORMAL audits in one batch.
// @Tags         learning
// @Produce      json
// @Param        min_samples  query  int  false  "Minimum NORMAL audits per equipment and scenario (default from config)"
// @Success      200  {object}  analytics.LearningStats
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/learning/relearn [post]
// @Security     BearerAuth
func (h *Handler) relearn(c *gin.Context) {
	minSamples := 0
	if s := c.Query("min_samples"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'min_samples'; use a positive integer"})
			return
		}
		minSamples = n
	}

	stats, err := h.services.Relearn(c.Request.Context(), minSamples)
	if err != nil {
		h.respondError(c, "relearn_failed", err, "min_samples", minSamples, "failed", stats.Failed)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary      List learned load factors
// @Tags         learning
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, overrides"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/learning/overrides [get]
// @Security     BearerAuth
func (h *Handler) listOverrides(c *gin.Context) {
	out, err := h.services.Overrides(c.Request.Context())
	if err != nil {
		h.respondError(c, "overrides_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     len(out),
		"overrides": out,
	})
}
