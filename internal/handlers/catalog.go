package handlers

import (
	"net/http"

	"gencontrol/internal/catalog"

	"github.com/gin-gonic/gin"
)

var (
	scenarioFamilies = []catalog.Category{catalog.CategoryGE, catalog.CategoryTruck, catalog.CategoryTP}
	engineFamilies   = []catalog.Category{catalog.CategoryGE, catalog.CategoryTruck, catalog.CategoryOther}
)

// parseCategoryQuery returns the requested categories or all of them when ?category= is absent.
func parseCategoryQuery(c *gin.Context, all []catalog.Category) ([]catalog.Category, bool) {
	s := c.Query("category")
	if s == "" {
		return all, true
	}
	cat, err := catalog.ParseCategory(s)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return []catalog.Category{cat}, true
}

// @Summary      List load scenarios
// @Description  OTHER equipment uses the TP scenarios.
// @Tags         catalog
// @Produce      json
// @Param        category  query  string  false  "Equipment category"  Enums(GE,TRUCK,TP,OTHER)
// @Success      200  {object}  map[string]interface{}  "count, scenarios"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/catalog/scenarios [get]
// @Security     BearerAuth
func (h *Handler) listScenarios(c *gin.Context) {
	cats, ok := parseCategoryQuery(c, scenarioFamilies)
	if !ok {
		return
	}
	out := []catalog.LoadScenario{}
	for _, cat := range cats {
		out = append(out, catalog.ScenariosFor(cat)...)
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     len(out),
		"scenarios": out,
	})
}

// @Summary      List engine profiles
// @Description  Generic profiles come first; a category without profiles falls back to the generic ISO diesel.
// @Tags         catalog
// @Produce      json
// @Param        category  query  string  false  "Equipment category"  Enums(GE,TRUCK,TP,OTHER)
// @Success      200  {object}  map[string]interface{}  "count, unit, engines"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/catalog/engines [get]
// @Security     BearerAuth
func (h *Handler) listEngines(c *gin.Context) {
	cats, ok := parseCategoryQuery(c, engineFamilies)
	if !ok {
		return
	}
	out := []catalog.EngineProfile{}
	for _, cat := range cats {
		out = append(out, catalog.EnginesFor(cat)...)
	}
	resp := gin.H{
		"count":   len(out),
		"engines": out,
	}
	if len(cats) == 1 {
		resp["unit"] = cats[0].DisplayUnit()
	}
	c.JSON(http.StatusOK, resp)
}
