package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"university-browser-backend/config"
	"university-browser-backend/internal/browser"
	"university-browser-backend/internal/chart"
	"university-browser-backend/internal/model"
	"university-browser-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func year(y int) *time.Time {
	t := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &t
}

func testRecords() []model.University {
	return []model.University{
		{Row: 1, Name: "University of the Punjab", City: "Lahore", Province: "Punjab", Sector: "Public", CharteredBy: "Government of Punjab", Website: "https://pu.edu.pk", DistanceEducation: "No", EstablishedSince: year(1882)},
		{Row: 2, Name: "LUMS", City: "Lahore", Province: "Punjab", Sector: "Private", CharteredBy: "Federal Government", Website: "https://lums.edu.pk", DistanceEducation: "No", EstablishedSince: year(1984)},
		{Row: 3, Name: "Allama Iqbal Open University", City: "Islamabad", Province: "Federal", Sector: "Public", Website: "https://aiou.edu.pk", DistanceEducation: "Yes", EstablishedSince: year(1974)},
		{Row: 4, Name: "University of Karachi", City: "Karachi", Province: "Sindh", Sector: "Public", Website: "https://uok.edu.pk", DistanceEducation: "No", EstablishedRaw: "not-a-date"},
		{Row: 5, Name: "Virtual University", City: "Lahore", Province: "Punjab", Sector: "Public", Website: "https://vu.edu.pk", DistanceEducation: "Yes", EstablishedSince: year(2002)},
	}
}

func setupRouter(s store.Store) *gin.Engine {
	cfg := &config.ServerConfig{RateLimitPerSec: 1000, RateLimitBurst: 1000, CacheTTL: time.Minute}
	return NewRouter(cfg, browser.NewDataset(testRecords()), chart.NewRenderer(3, 2), s)
}

func get(r *gin.Engine, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestGetFilters(t *testing.T) {
	router := setupRouter(nil)

	w := get(router, "/api/filters")
	require.Equal(t, http.StatusOK, w.Code)
	var all browser.Options
	decode(t, w, &all)
	assert.Equal(t, []string{"All", "Federal", "Punjab", "Sindh"}, all.Provinces)
	assert.Equal(t, []string{"All", "Public", "Private"}, all.Sectors)
	assert.Equal(t, []string{"All", "Islamabad", "Karachi", "Lahore"}, all.Cities)

	w = get(router, "/api/filters?province=Punjab")
	require.Equal(t, http.StatusOK, w.Code)
	var punjab browser.Options
	decode(t, w, &punjab)
	assert.Equal(t, []string{"All", "Lahore"}, punjab.Cities)

	w = get(router, "/api/filters?province=Gilgit")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUniversities(t *testing.T) {
	router := setupRouter(nil)

	w := get(router, "/api/universities?province=Punjab&sector=Public")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total        int             `json:"total"`
		Universities []universityRow `json:"universities"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Universities, 2)
	assert.Equal(t, "University of the Punjab", resp.Universities[0].Name)
	assert.Equal(t, "Virtual University", resp.Universities[1].Name)
	assert.Equal(t, "<a href='https://pu.edu.pk' target='_blank'>https://pu.edu.pk</a>", resp.Universities[0].WebsiteHTML)
	require.NotNil(t, resp.Universities[0].EstablishedYear)
	assert.Equal(t, 1882, *resp.Universities[0].EstablishedYear)

	w = get(router, "/api/universities?province=Sindh&sector=Private")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, 0, resp.Total)
	assert.Empty(t, resp.Universities)
}

func TestGetSummary(t *testing.T) {
	router := setupRouter(nil)

	testCases := []struct {
		name     string
		url      string
		expected summaryResponse
	}{
		{
			name: "All",
			url:  "/api/summary",
			expected: summaryResponse{
				Total: 5, PublicCount: 4, PrivateCount: 1,
				DistanceEducationCount: 2, DistanceEducationLabel: "2 Universities",
				DistanceEducationNames: []string{"Allama Iqbal Open University", "Virtual University"},
			},
		},
		{
			name: "Single distance education name",
			url:  "/api/summary?province=Federal",
			expected: summaryResponse{
				Total: 1, PublicCount: 1,
				DistanceEducationCount: 1, DistanceEducationLabel: "Allama Iqbal Open University",
				DistanceEducationNames: []string{"Allama Iqbal Open University"},
			},
		},
		{
			name: "Empty result",
			url:  "/api/summary?province=Sindh&sector=Private",
			expected: summaryResponse{
				DistanceEducationLabel: "0 Universities",
				DistanceEducationNames: []string{},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := get(router, tc.url)
			require.Equal(t, http.StatusOK, w.Code)
			var got summaryResponse
			decode(t, w, &got)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestGetInsights(t *testing.T) {
	router := setupRouter(nil)

	w := get(router, "/api/insights")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Provinces []browser.CategoryCount `json:"provinces"`
		Sectors   []browser.CategoryCount `json:"sectors"`
		Timeline  []browser.YearCount     `json:"timeline"`
	}
	decode(t, w, &resp)
	assert.Equal(t, []browser.CategoryCount{{Value: "Punjab", Count: 3}, {Value: "Federal", Count: 1}, {Value: "Sindh", Count: 1}}, resp.Provinces)
	assert.Equal(t, []browser.CategoryCount{{Value: "Public", Count: 4}, {Value: "Private", Count: 1}}, resp.Sectors)
	assert.Equal(t, []browser.YearCount{{Year: 1882, Count: 1}, {Year: 1974, Count: 1}, {Year: 1984, Count: 1}, {Year: 2002, Count: 1}}, resp.Timeline)
}

func TestInvalidSelection(t *testing.T) {
	router := setupRouter(nil)

	testCases := []struct {
		name  string
		url   string
		field string
	}{
		{name: "Sector outside enum", url: "/api/summary?sector=Semi", field: "sector"},
		{name: "Unknown province", url: "/api/universities?province=Gilgit", field: "province"},
		{name: "City outside province", url: "/api/insights?province=Sindh&city=Lahore", field: "city"},
		{name: "Chart with unknown city", url: "/api/charts/province?city=Atlantis", field: "city"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := get(router, tc.url)
			require.Equal(t, http.StatusBadRequest, w.Code)
			var resp struct {
				Error  string            `json:"error"`
				Fields map[string]string `json:"fields"`
			}
			decode(t, w, &resp)
			assert.Equal(t, "invalid selection", resp.Error)
			assert.Contains(t, resp.Fields, tc.field)
		})
	}
}

func TestGetChart(t *testing.T) {
	router := setupRouter(nil)

	for _, kind := range []string{"province", "sector", "timeline"} {
		t.Run(kind, func(t *testing.T) {
			w := get(router, "/api/charts/"+kind+"?province=Punjab")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
			_, err := png.Decode(w.Body)
			assert.NoError(t, err)

			w = get(router, "/api/charts/"+kind+"?format=svg")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
			assert.Contains(t, w.Body.String(), "<svg")
		})
	}

	assert.Equal(t, http.StatusNotFound, get(router, "/api/charts/radar").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/charts/province?format=gif").Code)

	w := get(router, "/api/charts/sector?province=Sindh&sector=Private")
	assert.Equal(t, http.StatusOK, w.Code, "empty selections still render")
}

func TestGetDashboard(t *testing.T) {
	router := setupRouter(nil)

	w := get(router, "/?province=Punjab")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "All Pakistan Universities")
	assert.Contains(t, body, `<a href="https://lums.edu.pk" target="_blank">https://lums.edu.pk</a>`)
	assert.NotContains(t, body, "University of Karachi")
	assert.Contains(t, body, "/api/charts/province?city=All&amp;province=Punjab&amp;sector=All")

	w = get(router, "/?province=Sindh&sector=Private")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No universities match the selected filters.")

	assert.Equal(t, http.StatusBadRequest, get(router, "/?province=Gilgit").Code)
}

func TestGetHealth_NoDatabase(t *testing.T) {
	w := get(setupRouter(nil), "/api/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","records":5,"database":{"enabled":false}}`, w.Body.String())
}

func TestGetHealth_Mirror(t *testing.T) {
	testDB, err := gorm.Open(sqlite.Open("file:api_health?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()
	require.NoError(t, testDB.AutoMigrate(&model.University{}))

	s := store.NewGormStore(testDB)
	require.NoError(t, s.ReplaceUniversities(context.Background(), testRecords()))

	w := get(setupRouter(s), "/api/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","records":5,"database":{"enabled":true,"mirrored":5,"consistent":true}}`, w.Body.String())

	require.NoError(t, s.ReplaceUniversities(context.Background(), testRecords()[:2]))
	w = get(setupRouter(s), "/api/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","records":5,"database":{"enabled":true,"mirrored":2,"consistent":false}}`, w.Body.String())
}

type failingStore struct {
	store.Store
}

func (failingStore) CountByProvince(ctx context.Context) ([]store.ProvinceCount, error) {
	return nil, errors.New("connection refused")
}

func TestGetHealth_MirrorError(t *testing.T) {
	w := get(setupRouter(failingStore{}), "/api/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
}

func TestFormatSelectionErrors_Fallback(t *testing.T) {
	fields := formatSelectionErrors(fmt.Errorf("bad query"))
	assert.Equal(t, map[string]string{"query": "bad query"}, fields)
}

func TestResponsesAreCached(t *testing.T) {
	router := setupRouter(nil)

	first := get(router, "/api/summary?sector=Public&province=Punjab")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := get(router, "/api/summary?province=Punjab&sector=Public")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())

	health := get(router, "/api/health")
	assert.Empty(t, health.Header().Get("X-Cache"))
}

func TestGetDashboard_StaleCityFallsBackToAll(t *testing.T) {
	router := setupRouter(nil)

	w := get(router, "/?province=Sindh&city=Lahore")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "University of Karachi")
	assert.NotContains(t, body, "lums.edu.pk")
	assert.Contains(t, body, "/api/charts/province?city=All&amp;province=Sindh&amp;sector=All")

	assert.Equal(t, http.StatusBadRequest, get(router, "/api/universities?province=Sindh&city=Lahore").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/?province=Sindh&city=Atlantis&sector=Semi").Code)
}

func TestDashboardInteractions_DefaultRateLimit(t *testing.T) {
	cfg := config.Default()
	router := NewRouter(&cfg.Server, browser.NewDataset(testRecords()), chart.NewRenderer(3, 2), nil)

	for _, query := range []string{"province=All&city=All&sector=All", "province=Punjab&city=All&sector=All", "province=Punjab&city=Lahore&sector=Public"} {
		paths := []string{
			"/?" + query,
			"/api/charts/province?" + query,
			"/api/charts/sector?" + query,
			"/api/charts/timeline?" + query,
		}
		for _, path := range paths {
			assert.Equal(t, http.StatusOK, get(router, path).Code, path)
		}
	}
}
