package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"university-browser-backend/internal/browser"
	"university-browser-backend/internal/chart"
	"university-browser-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	dataset *browser.Dataset
	charts  *chart.Renderer
	store   store.Store // nil when the database mirror is disabled
}

// NewHandler creates a new API handler.
func NewHandler(ds *browser.Dataset, charts *chart.Renderer, s store.Store) *Handler {
	return &Handler{
		dataset: ds,
		charts:  charts,
		store:   s,
	}
}

// bindSelection reads province, city and sector from the query string and checks them
// against the values present in the dataset. On failure it writes a 400 and returns false.
func (h *Handler) bindSelection(c *gin.Context) (browser.Selection, bool) {
	var sel browser.Selection
	if err := c.ShouldBindQuery(&sel); err != nil {
		abortInvalid(c, err)
		return sel, false
	}
	sel = sel.Normalize()
	if err := h.dataset.Validate(sel); err != nil {
		abortInvalid(c, err)
		return sel, false
	}
	return sel, true
}

func abortInvalid(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":  "invalid selection",
		"fields": formatSelectionErrors(err),
	})
}

// formatSelectionErrors maps a binding or domain error to a per-field message.
func formatSelectionErrors(err error) map[string]string {
	fields := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			field := strings.ToLower(e.Field())
			switch e.Tag() {
			case "oneof":
				fields[field] = fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(e.Param(), " ", ", "))
			default:
				fields[field] = fmt.Sprintf("%s is invalid", field)
			}
		}
		return fields
	}

	switch {
	case errors.Is(err, browser.ErrUnknownProvince):
		fields["province"] = err.Error()
	case errors.Is(err, browser.ErrUnknownCity):
		fields["city"] = err.Error()
	case errors.Is(err, browser.ErrUnknownSector):
		fields["sector"] = err.Error()
	default:
		fields["query"] = err.Error()
	}
	return fields
}
