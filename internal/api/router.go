package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"university-browser-backend/config"
	"university-browser-backend/internal/browser"
	"university-browser-backend/internal/chart"
	"university-browser-backend/internal/mw"
	"university-browser-backend/internal/store"
)

// NewRouter creates and configures a new Gin router. s may be nil.
func NewRouter(cfg *config.ServerConfig, ds *browser.Dataset, charts *chart.Renderer, s store.Store) *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(dashboardTemplate())

	handler := NewHandler(ds, charts, s)

	perSec, burst := cfg.RateLimitPerSec, cfg.RateLimitBurst
	if perSec <= 0 || burst <= 0 {
		perSec, burst = defaultRatePerSec, defaultRateBurst
	}
	rateLimiter := mw.RateLimiter(rate.Limit(perSec), burst, cfg.RequestIPHeader)

	// The dataset never changes after startup, so any successful GET can be replayed.
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	r.GET("/", rateLimiter, caching, handler.GetDashboard)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/filters", caching, handler.GetFilters)
		api.GET("/universities", caching, handler.GetUniversities)
		api.GET("/summary", caching, handler.GetSummary)
		api.GET("/insights", caching, handler.GetInsights)
		api.GET("/charts/:kind", caching, handler.GetChart)

		api.GET("/health", handler.GetHealth)
	}

	return r
}

// Fallbacks for a zero ServerConfig.
const (
	defaultRatePerSec = 10
	defaultRateBurst  = 20
	defaultCacheTTL   = 5 * time.Minute
)
