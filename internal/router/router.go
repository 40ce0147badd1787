package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/seatpredictor-backend/internal/config"
	"github.com/stemsi/seatpredictor-backend/internal/handler"
	"github.com/stemsi/seatpredictor-backend/internal/middleware"
	"github.com/stemsi/seatpredictor-backend/internal/response"
	"github.com/stemsi/seatpredictor-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Allotment *handler.AllotmentHandler
	Upload    *handler.UploadHandler
	Taxonomy  *handler.TaxonomyHandler
	Tracker   *handler.TrackerHandler
	Auth      *handler.AuthHandler
	Email     *handler.EmailHandler
	System    *handler.SystemHandler
}

// Guards carries the authentication dependencies shared by route groups.
type Guards struct {
	Auth    *service.AuthService
	Admins  middleware.Authenticator
	Limiter *middleware.RateLimiter
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(guards Guards, handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// Django-style routes end in a slash; serve both spellings without a
	// redirect that would drop POST bodies.
	router.RedirectTrailingSlash = false

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
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	// Health checks.
	router.GET("/health", handlers.System.Health)
	router.GET("/health/ready", handlers.System.Ready)

	staffJWT := middleware.RequireStaffJWT(guards.Auth)
	limited := guards.Limiter.Middleware()

	// ─── 1. Public API (Rate Limited) ──────────────────────────────────
	api := router.Group("/api")
	{
		both(api, http.MethodPost, "/allotment_tracker", limited, handlers.Allotment.Query)
		both(api, http.MethodPost, "/send-results-email", limited, handlers.Email.SendResults)
		both(api, http.MethodGet, "/group-categories",
			middleware.CacheControl(cfg.TaxonomyCacheTTL), handlers.Taxonomy.ListGroups)

		// Staff-only data loading.
		both(api, http.MethodPost, "/upload-excel", staffJWT, handlers.Upload.UploadExcel)
		both(api, http.MethodPost, "/admin/group-dropdown", staffJWT, handlers.Taxonomy.UploadGroups)
	}

	// ─── 2. Account Auth (Public, Rate Limited) ────────────────────────
	auth := router.Group("/api/admin")
	auth.Use(limited)
	{
		both(auth, http.MethodPost, "/register", handlers.Auth.Register)
		both(auth, http.MethodPost, "/login", handlers.Auth.Login)
		both(auth, http.MethodPost, "/refresh", handlers.Auth.Refresh)
		both(auth, http.MethodPost, "/logout", handlers.Auth.Logout)
	}

	// ─── 3. Admin Console ──────────────────────────────────────────────
	admin := router.Group("/admin")
	{
		both(admin, http.MethodPost, "/year-update", staffJWT, handlers.Allotment.UpdateYear)

		leads := admin.Group("/user-data")
		leads.Use(limited, middleware.RequireStaff(guards.Auth, guards.Admins))
		{
			both(leads, http.MethodGet, "", handlers.Tracker.ListLeads)
			both(leads, http.MethodGet, "/stats", handlers.Tracker.Stats)
		}
	}

	return router
}

// both registers path with and without a trailing slash.
func both(g *gin.RouterGroup, method, path string, h ...gin.HandlerFunc) {
	g.Handle(method, path+"/", h...)
	g.Handle(method, path, h...)
}
