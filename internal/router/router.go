package router

import (
	"net/http"
	"time"

	"github.com/contoso/university/internal/config"
	"github.com/contoso/university/internal/handler"
	"github.com/contoso/university/internal/middleware"
	"github.com/contoso/university/internal/response"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Home   *handler.HomeHandler
	Course *handler.CourseHandler
	WS     *handler.WSHandler
}

// Guards are the request-scoped collaborators the middlewares need.
type Guards struct {
	Sessions    middleware.SessionOpener
	AntiForgery middleware.TokenValidator
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, guards Guards, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", middleware.AntiForgeryHeader, "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Location"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Home ───────────────────────────────────────────────────────
	router.GET("/", handlers.Home.Index)
	router.GET("/contact", handlers.Home.Contact)

	about := router.Group("/about")
	about.Use(middleware.SessionScope(guards.Sessions, log))
	{
		about.GET("", handlers.Home.About)
		about.GET("/export", handlers.Home.ExportAbout)
	}

	// ─── 2. Courses (DB session + anti-forgery on POST) ────────────────
	courses := router.Group("/courses")
	courses.Use(
		middleware.CacheControl("no-store"),
		middleware.RequireAntiForgery(guards.AntiForgery, log),
		middleware.SessionScope(guards.Sessions, log),
	)
	{
		courses.GET("", handlers.Course.List)

		courses.GET("/details", handlers.Course.MissingID)
		courses.GET("/details/:id", handlers.Course.Details)

		courses.GET("/create", handlers.Course.NewForm)
		courses.POST("/create", handlers.Course.Create)

		courses.GET("/edit", handlers.Course.MissingID)
		courses.POST("/edit", handlers.Course.MissingID)
		courses.GET("/edit/:id", handlers.Course.EditForm)
		courses.POST("/edit/:id", handlers.Course.Apply)

		courses.GET("/delete", handlers.Course.MissingID)
		courses.POST("/delete", handlers.Course.MissingID)
		courses.GET("/delete/:id", handlers.Course.DeleteConfirm)
		courses.POST("/delete/:id", handlers.Course.Delete)

		courses.GET("/update-credits", handlers.Course.UpdateCreditsForm)
		courses.POST("/update-credits", handlers.Course.UpdateCredits)
	}

	// ─── 3. WebSocket ──────────────────────────────────────────────────
	// No session scope: the feed is long-lived and never touches PostgreSQL.
	router.GET("/ws/courses", handlers.WS.CourseActivityStream)

	return router
}
