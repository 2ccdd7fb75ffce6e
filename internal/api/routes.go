package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/codyseavey/tcg-explorer/internal/api/handlers"
	"github.com/codyseavey/tcg-explorer/internal/config"
)

// Services bundles what the HTTP layer reads from.
type Services struct {
	Cards     handlers.CardReader
	Valuer    handlers.SetValuer
	Assistant handlers.Asker
}

func SetupRouter(cfg config.Config, svc Services, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(recovery(logger), requestLogger(logger), requestMetrics())

	frontendPath := cfg.Server.FrontendDistPath
	serveFrontend := frontendPath != "" && dirExists(frontendPath)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowOrigins
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	corsConfig.AllowCredentials = false
	router.Use(cors.New(corsConfig))

	cardHandler := handlers.NewCardHandler(svc.Cards)
	setHandler := handlers.NewSetHandler(svc.Cards, svc.Valuer)
	askHandler := handlers.NewAskHandler(svc.Assistant)

	api := router.Group("/api")
	{
		sets := api.Group("/sets")
		{
			sets.GET("", setHandler.ListSets)
			sets.GET("/:id/cards", setHandler.GetSetCards)
			sets.GET("/:id/valuation", setHandler.GetSetValuation)
		}

		cards := api.Group("/cards")
		{
			cards.GET("/search", cardHandler.SearchCards)
		}

		api.POST("/ask", askHandler.Ask)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if serveFrontend {
		indexPath := filepath.Join(frontendPath, "index.html")

		router.Static("/assets", filepath.Join(frontendPath, "assets"))
		router.StaticFile("/vite.svg", filepath.Join(frontendPath, "vite.svg"))

		router.GET("/", func(c *gin.Context) {
			c.File(indexPath)
		})

		// SPA fallback - serve index.html for all non-API routes
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.File(indexPath)
		})
	} else {
		router.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		})
	}

	return router
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
