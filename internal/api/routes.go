package api

import (
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quizgen/internal/api/handlers"
	"quizgen/internal/web"
)

// SessionName is the cookie that carries the browser session.
const SessionName = "quizgen_session"

// NewRouter builds the gin engine with middleware, templates and routes.
func NewRouter(handler *handlers.Handler, store sessions.Store, logger *zap.Logger) (*gin.Engine, error) {
	router := gin.New()
	router.Use(RequestID(), RequestLogger(logger), Recovery(logger))
	router.Use(sessions.Sessions(SessionName, store))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	SetupRoutes(router, handler)
	return router, nil
}

// SetupRoutes sets up the routes
func SetupRoutes(router *gin.Engine, handler *handlers.Handler) {
	router.GET("/health", handler.HandleHealth)

	// --- Upload UI ---
	router.GET("/", handler.HandleIndex)
	router.POST("/generate", handler.HandleGenerate)
	router.GET("/download/:filename", handler.HandleDownload)

	// --- API Routes ---
	api := router.Group("/api")
	{
		api.POST("/generate", handler.HandleGenerate) // Same as /generate, always answers JSON
		api.GET("/history", handler.HandleHistory)
	}
}
