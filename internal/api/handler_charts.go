package api

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"university-browser-backend/internal/chart"
)

// GetChart handles GET /api/charts/:kind for kind province, sector or timeline.
func (h *Handler) GetChart(c *gin.Context) {
	format := c.DefaultQuery("format", chart.FormatPNG)
	if format != chart.FormatPNG && format != chart.FormatSVG {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "format must be png or svg"})
		return
	}

	sel, ok := h.bindSelection(c)
	if !ok {
		return
	}
	view := h.dataset.Query(sel)

	var (
		w   io.WriterTo
		err error
	)
	switch c.Param("kind") {
	case "province":
		w, err = h.charts.ProvinceBar(view.Provinces, format)
	case "sector":
		w, err = h.charts.SectorPie(view.Sectors, format)
	case "timeline":
		w, err = h.charts.Timeline(view.Timeline, format)
	default:
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown chart"})
		return
	}
	if err != nil {
		log.Printf("Error rendering %s chart: %v", c.Param("kind"), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to render chart"})
		return
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", chart.ContentType(format))
	if _, err := w.WriteTo(c.Writer); err != nil {
		log.Printf("Error writing %s chart: %v", c.Param("kind"), err)
	}
}
