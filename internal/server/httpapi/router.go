// Package httpapi builds the gin engine: routes, middleware and the
// translation between HTTP and the service layer.
package httpapi

import (
	"database/sql"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/calcledger/internal/logging"
	"github.com/dmitrijs2005/calcledger/internal/server/config"
	"github.com/dmitrijs2005/calcledger/internal/server/services"
)

type handlers struct {
	db           *sql.DB
	users        *services.UserService
	calculations *services.CalculationService
}

// NewRouter assembles the engine. Templates and static files are optional;
// with an empty TemplatesGlob the web pages are simply not registered,
// which keeps handler tests free of filesystem fixtures.
func NewRouter(cfg *config.Config, logger logging.Logger, db *sql.DB,
	users *services.UserService, calculations *services.CalculationService) *gin.Engine {

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(cfg.AllowedOrigins))
	r.Use(requestid.New())
	r.Use(requestLogger(logger))
	r.Use(securityHeaders())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	h := &handlers{db: db, users: users, calculations: calculations}

	r.GET("/health", h.health)
	r.GET("/health/db", h.healthDB)

	authGroup := r.Group("/auth")
	authGroup.POST("/register", h.register)
	authGroup.POST("/login", h.login)
	authGroup.POST("/token", h.tokenForm)
	authGroup.POST("/refresh", h.refresh)
	authGroup.GET("/me", h.requireAuth(), h.me)

	calcGroup := r.Group("/calculations", h.requireAuth())
	calcGroup.POST("", h.createCalculation)
	calcGroup.GET("", h.listCalculations)
	calcGroup.GET("/:id", h.getCalculation)
	calcGroup.PUT("/:id", h.updateCalculation)
	calcGroup.DELETE("/:id", h.deleteCalculation)

	if cfg.TemplatesGlob != "" {
		r.LoadHTMLGlob(cfg.TemplatesGlob)
		r.GET("/", h.indexPage)
		r.GET("/login", h.loginPage)
		r.GET("/register", h.registerPage)
		r.GET("/dashboard", h.dashboardPage)
		r.GET("/dashboard/view/:id", h.viewCalculationPage)
		r.GET("/dashboard/edit/:id", h.editCalculationPage)
	}
	if cfg.StaticDir != "" {
		r.Static("/static", cfg.StaticDir)
	}

	return r
}
