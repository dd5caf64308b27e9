package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"university-browser-backend/internal/browser"
)

// GetHealth handles GET /api/health. When the database mirror is enabled it compares the
// mirrored per-province counts with the in-memory dataset.
func (h *Handler) GetHealth(c *gin.Context) {
	resp := gin.H{
		"status":  "ok",
		"records": h.dataset.Len(),
	}
	if h.store == nil {
		resp["database"] = gin.H{"enabled": false}
		c.JSON(http.StatusOK, resp)
		return
	}

	counts, err := h.store.CountByProvince(c.Request.Context())
	if err != nil {
		log.Printf("Error reading mirror counts: %v", err)
		resp["status"] = "degraded"
		resp["database"] = gin.H{"enabled": true, "error": "failed to read mirror"}
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	mirrored := make(map[string]int64, len(counts))
	var total int64
	for _, pc := range counts {
		mirrored[pc.Province] = pc.Total
		total += pc.Total
	}
	consistent := total == int64(h.dataset.Len())
	for _, pc := range browser.ComputeProvinceCounts(h.dataset.Records()) {
		if mirrored[pc.Value] != int64(pc.Count) {
			consistent = false
		}
	}

	resp["database"] = gin.H{
		"enabled":    true,
		"mirrored":   total,
		"consistent": consistent,
	}
	c.JSON(http.StatusOK, resp)
}
