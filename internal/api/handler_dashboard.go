package api

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"university-browser-backend/internal/browser"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// dashboardTemplate parses the embedded HTML page.
func dashboardTemplate() *template.Template {
	return template.Must(template.New("").ParseFS(templatesFS, "templates/*.tmpl"))
}

// GetDashboard handles GET /, the HTML page combining filters, metrics, charts and the table.
func (h *Handler) GetDashboard(c *gin.Context) {
	var sel browser.Selection
	if err := c.ShouldBindQuery(&sel); err != nil {
		abortInvalid(c, err)
		return
	}
	sel = sel.Normalize()

	err := h.dataset.Validate(sel)
	if errors.Is(err, browser.ErrUnknownCity) {
		// A city left over from another province falls back to All, like the city picker does.
		sel.City = browser.All
		err = h.dataset.Validate(sel)
	}
	if err != nil {
		abortInvalid(c, err)
		return
	}
	view := h.dataset.Query(sel)

	rows := make([]universityRow, 0, len(view.Rows))
	for _, u := range view.Rows {
		rows = append(rows, newUniversityRow(u))
	}

	chartQuery := url.Values{}
	chartQuery.Set("province", sel.Province)
	chartQuery.Set("city", sel.City)
	chartQuery.Set("sector", sel.Sector)

	c.HTML(http.StatusOK, "dashboard.tmpl", gin.H{
		"Selection":  sel,
		"Options":    h.dataset.Options(sel.Province),
		"Summary":    newSummaryResponse(view.Summary),
		"Rows":       rows,
		"ChartQuery": template.URL(chartQuery.Encode()),
		"All":        browser.All,
	})
}
