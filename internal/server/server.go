package server

import (
	"fmt"
	"net/http"
	"time"

	"leetcoders.uz/directory/internal/backend"
	"leetcoders.uz/directory/internal/config"
	"leetcoders.uz/directory/internal/middleware"
	inflight "leetcoders.uz/directory/internal/service"
	"leetcoders.uz/directory/pkg/validator"

	countryHttp "leetcoders.uz/directory/internal/modules/country/delivery/http"

	directoryHttp "leetcoders.uz/directory/internal/modules/directory/delivery/http"
	directoryService "leetcoders.uz/directory/internal/modules/directory/service"

	registrationHttp "leetcoders.uz/directory/internal/modules/registration/delivery/http"
	registrationService "leetcoders.uz/directory/internal/modules/registration/service"

	"leetcoders.uz/directory/internal/modules/page"
	pageHttp "leetcoders.uz/directory/internal/modules/page/delivery/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	engine      *gin.Engine
	redisClient *redis.Client
}

// NewServer wires the modules against the backend at cfg.BackendBaseURL.
// redisClient may be nil, in which case the in-flight guard is process local.
func NewServer(cfg *config.Config, client backend.Client, redisClient *redis.Client) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.RegisterBindings()

	tmpl, err := page.LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	guard := inflight.NewInflightGuard(redisClient, cfg.InflightTTL)

	directorySvc := directoryService.NewDirectoryService(client, guard)
	directoryHandler := directoryHttp.NewDirectoryHandler(directorySvc)

	registrationSvc := registrationService.NewRegistrationService(client, guard)
	registrationHandler := registrationHttp.NewRegistrationHandler(registrationSvc)

	countryHandler := countryHttp.NewCountryHandler()

	pageHandler := pageHttp.NewPageHandler(directorySvc, registrationSvc, cfg.DonationURL)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/health"},
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	visitor := middleware.NewVisitorMiddleware(cfg.IsProduction())

	// Page routes
	site := router.Group("")
	site.Use(visitor.Identify())
	{
		site.GET("/", pageHandler.Index)
		site.GET("/search", pageHandler.Search)
		site.POST("/add-user", pageHandler.AddUser)
	}

	api := router.Group("/api/v1")
	api.Use(visitor.Identify())
	{
		api.GET("/countries", countryHandler.GetCountries)
		api.GET("/users", directoryHandler.SearchUsers)
		api.POST("/users", registrationHandler.AddUser)
	}

	return &Server{
		engine:      router,
		redisClient: redisClient,
	}, nil
}

// Handler exposes the router for an http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Close releases the Redis connection, if any.
func (s *Server) Close() error {
	if s.redisClient == nil {
		return nil
	}
	return s.redisClient.Close()
}

// setupCORS is a no-op without allowed origins; the page itself is same-origin.
func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		return
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
