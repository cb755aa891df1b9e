package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/softjobs/softjobs-backend/internal/auth"
	"github.com/softjobs/softjobs-backend/internal/cache"
	"github.com/softjobs/softjobs-backend/internal/config"
	"github.com/softjobs/softjobs-backend/internal/http/handlers"
	"github.com/softjobs/softjobs-backend/internal/http/middlewares"
	"github.com/softjobs/softjobs-backend/internal/observability"
	"github.com/softjobs/softjobs-backend/internal/repo/postgres"
	"github.com/softjobs/softjobs-backend/internal/service"
)

const profileCacheTTL = 30 * time.Second

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(otelgin.Middleware("softjobs-api"))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(1 << 20))

	// metrics

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)
	r.Use(prom.GinHandleMiddleware())
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	// wire up the auth core

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL())

	var profiles cache.ProfileCache

	if cfg.RedisAddr != "" {
		profiles = cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, profileCacheTTL)
	} else {
		profiles = cache.NewLocal(profileCacheTTL)
	}

	usersRepo := postgres.NewUsersRepo(pool, prom)
	authService := service.NewAuth(usersRepo, jwtManager, profiles)
	usersHandler := handlers.NewUsersHandler(authService, log)

	authMw := middlewares.NewAuthMiddleware(jwtManager)

	// Routes

	r.GET("/", handlers.Root)
	r.POST("/usuarios", usersHandler.Register)
	r.POST("/login", usersHandler.Login)
	r.GET("/usuarios", authMw.RequireAuth(), usersHandler.Profile)

	r.NoRoute(func(ctx *gin.Context) {
		handlers.RespondError(ctx, 404, "route_not_found", "Route not found", nil)
	})

	return r
}
