package app

import (
	"context"
	"net/http"
	"time"

	"Tasker/internal/auth"
	"Tasker/internal/cache"
	"Tasker/internal/config"
	"Tasker/internal/handlers"
	"Tasker/internal/metrics"
	"Tasker/internal/middleware"
	"Tasker/internal/response"
	"Tasker/internal/service"
	"Tasker/internal/validation"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Deps is everything the router needs. Redis may be nil.
type Deps struct {
	Config config.Config
	Log    *logrus.Logger
	Store  Store
	Redis  *redis.Client
}

// NewRouter builds the engine with middleware and all routes registered.
func NewRouter(d Deps) (*gin.Engine, error) {
	if err := validation.RegisterGin(); err != nil {
		return nil, err
	}
	if d.Config.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(metrics.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.HTTP.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Cookie"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: !allowsAnyOrigin(d.Config.HTTP.CORSOrigins),
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimit(d.Config.HTTP.RateLimit, d.Config.HTTP.RateBurst))

	Setup(r, d)
	return r, nil
}

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, d Deps) {
	cfg := d.Config
	expose := !cfg.App.IsProduction()

	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg, d.Store, d.Redis, d.Log, expose))
	r.GET("/version", versionHandler(cfg))
	r.GET("/metrics", metrics.Handler())
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	var (
		sessions  *auth.Store
		taskCache *cache.TaskCache
	)
	if d.Redis != nil {
		sessions = auth.NewStore(d.Redis, cfg.Auth.SessionTTL.Duration())
		taskCache = cache.NewTaskCache(d.Redis, cfg.Redis.CacheTTL.Duration())
	}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTTTL.Duration())

	userSvc := service.NewUserService(d.Store.Users)
	authHandler := handlers.NewAuthHandler(sessions, tokens, userSvc, d.Log, expose, cfg.App.IsProduction())
	registerAuthRoutes(api, authHandler)

	protected := api.Group("", auth.RequireAuth(tokens, sessions, d.Log))

	taskSvc := service.NewTaskService(d.Store.Tasks, taskCache, d.Log)
	registerTaskRoutes(protected, handlers.NewTaskHandler(taskSvc, d.Log, expose))

	analyticsSvc := service.NewAnalyticsService(d.Store.Tasks, taskCache, d.Log)
	registerAnalyticsRoutes(protected, handlers.NewAnalyticsHandler(analyticsSvc, d.Log, expose))

	r.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "Route not found")
	})
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.OK(c, http.StatusOK, "", gin.H{
			"service": "Tasker API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"openapi": "/swagger-doc.json",
			"health":  "/health",
			"metrics": "/metrics",
			"api":     "/api/v1",
		})
	}
}

// healthHandler reports each backend as "ok" or, when it fails, with the
// error text outside production and "unavailable" in production.
func healthHandler(cfg config.Config, store Store, rdb *redis.Client, log logrus.FieldLogger, expose bool) gin.HandlerFunc {
	status := func(name string, err error) string {
		if err == nil {
			return "ok"
		}
		log.WithError(err).WithField("check", name).Warn("health check failed")
		if expose {
			return err.Error()
		}
		return "unavailable"
	}
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		storeErr := store.Ping(ctx)
		checks := gin.H{"store": status("store", storeErr)}
		healthy := storeErr == nil
		if rdb != nil {
			err := rdb.Ping(ctx).Err()
			checks["redis"] = status("redis", err)
			healthy = healthy && err == nil
		}

		data := gin.H{"env": cfg.App.Env, "driver": cfg.Store.Driver, "checks": checks}
		if !healthy {
			c.JSON(http.StatusServiceUnavailable, response.Envelope{Success: false, Message: "Service unavailable", Data: data})
			return
		}
		response.OK(c, http.StatusOK, "", data)
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.OK(c, http.StatusOK, "", gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			response.Internal(c, "Error reading API docs", err, true)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.GET("/tasks", h.List)
	api.POST("/tasks", h.Create)
	api.GET("/tasks/:id", h.GetByID)
	api.PUT("/tasks/:id", h.Update)
	api.DELETE("/tasks/:id", h.Delete)
	api.PATCH("/tasks/:id/rate", h.Rate)
}

func registerAnalyticsRoutes(api *gin.RouterGroup, h *handlers.AnalyticsHandler) {
	api.GET("/analytics/task-counts", h.TaskCounts)
	api.GET("/analytics/average-ratings", h.AverageRatings)
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/logout", h.Logout)
}
