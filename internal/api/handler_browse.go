package api

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"university-browser-backend/internal/browser"
	"university-browser-backend/internal/model"
)

// universityRow is one line of the university browser table.
type universityRow struct {
	Name              string `json:"name"`
	City              string `json:"city"`
	Province          string `json:"province"`
	Sector            string `json:"sector"`
	CharteredBy       string `json:"chartered_by"`
	Website           string `json:"website"`
	WebsiteHTML       string `json:"website_html"`
	DistanceEducation string `json:"distance_education"`
	EstablishedYear   *int   `json:"established_year"`
}

func newUniversityRow(u model.University) universityRow {
	row := universityRow{
		Name:              u.Name,
		City:              u.City,
		Province:          u.Province,
		Sector:            u.Sector,
		CharteredBy:       u.CharteredBy,
		Website:           u.Website,
		WebsiteHTML:       websiteLink(u.Website),
		DistanceEducation: u.DistanceEducation,
	}
	if year, ok := u.EstablishedYear(); ok {
		row.EstablishedYear = &year
	}
	return row
}

// websiteLink renders url as an anchor opening in a new tab.
func websiteLink(url string) string {
	if url == "" {
		return ""
	}
	escaped := template.HTMLEscapeString(url)
	return "<a href='" + escaped + "' target='_blank'>" + escaped + "</a>"
}

// GetFilters handles GET /api/filters. Cities are restricted to the given province.
func (h *Handler) GetFilters(c *gin.Context) {
	province := c.DefaultQuery("province", browser.All)
	if err := h.dataset.Validate(browser.Selection{Province: province}); err != nil {
		abortInvalid(c, err)
		return
	}
	c.JSON(http.StatusOK, h.dataset.Options(province))
}

// GetUniversities handles GET /api/universities.
func (h *Handler) GetUniversities(c *gin.Context) {
	sel, ok := h.bindSelection(c)
	if !ok {
		return
	}

	filtered := browser.ApplyFilters(h.dataset.Records(), sel)
	rows := make([]universityRow, 0, len(filtered))
	for _, u := range filtered {
		rows = append(rows, newUniversityRow(u))
	}
	c.JSON(http.StatusOK, gin.H{
		"selection":    sel,
		"total":        len(rows),
		"universities": rows,
	})
}

type summaryResponse struct {
	Total                  int      `json:"total"`
	PublicCount            int      `json:"public_count"`
	PrivateCount           int      `json:"private_count"`
	DistanceEducationCount int      `json:"distance_education_count"`
	DistanceEducationLabel string   `json:"distance_education_label"`
	DistanceEducationNames []string `json:"distance_education_names"`
}

func newSummaryResponse(s browser.Summary) summaryResponse {
	return summaryResponse{
		Total:                  s.Total,
		PublicCount:            s.PublicCount,
		PrivateCount:           s.PrivateCount,
		DistanceEducationCount: s.DistanceEducation.Count,
		DistanceEducationLabel: s.DistanceEducation.Label(),
		DistanceEducationNames: s.DistanceEducation.Names,
	}
}

// GetSummary handles GET /api/summary.
func (h *Handler) GetSummary(c *gin.Context) {
	sel, ok := h.bindSelection(c)
	if !ok {
		return
	}
	summary := browser.ComputeSummary(browser.ApplyFilters(h.dataset.Records(), sel))
	c.JSON(http.StatusOK, newSummaryResponse(summary))
}

// GetInsights handles GET /api/insights: the three chart series as data.
func (h *Handler) GetInsights(c *gin.Context) {
	sel, ok := h.bindSelection(c)
	if !ok {
		return
	}
	view := h.dataset.Query(sel)
	c.JSON(http.StatusOK, gin.H{
		"selection": view.Selection,
		"provinces": view.Provinces,
		"sectors":   view.Sectors,
		"timeline":  view.Timeline,
	})
}
