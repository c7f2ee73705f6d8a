// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/payalnyahorobets-create/ppynlnya/internal/api/handlers"
	"github.com/payalnyahorobets-create/ppynlnya/internal/api/middleware"
	"github.com/payalnyahorobets-create/ppynlnya/internal/service"
	"github.com/payalnyahorobets-create/ppynlnya/internal/snapshot"
)

// NewRouter wires the record-shaped API surface around the analysis service.
// The snapshot store may be nil when persistence is disabled.
func NewRouter(svc *service.Analysis, store snapshot.Store, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	apiGroup := router.Group("/api/v1")

	h := handlers.NewAnalysisHandler(svc, store)

	importGroup := apiGroup.Group("/import")
	{
		importGroup.POST("/nomenclature", h.ImportNomenclature)
		importGroup.POST("/categories", h.ImportCategoryIDs)
		importGroup.POST("/first-sales", h.ImportFirstSales)
		importGroup.POST("/shelf-dates", h.ImportShelfDates)
		importGroup.POST("/sales/:month", h.ImportMonthSales)
	}

	reportGroup := apiGroup.Group("/reports")
	{
		reportGroup.GET("/metrics", h.GetMetrics)
		reportGroup.GET("/abc", h.GetAbcXyz)
		reportGroup.GET("/months", h.GetMonthSummary)
	}

	apiGroup.GET("/settings", h.GetSettings)
	apiGroup.PUT("/settings", h.UpdateSettings)

	apiGroup.GET("/attributes", h.GetAttributes)
	apiGroup.POST("/attributes", h.AddAttribute)
	apiGroup.PUT("/attributes", h.ReplaceAttributes)

	stateGroup := apiGroup.Group("/state")
	{
		stateGroup.GET("", h.ExportState)
		stateGroup.PUT("", h.RestoreState)
		stateGroup.POST("/persist", h.PersistState)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
