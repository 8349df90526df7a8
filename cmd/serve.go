package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/arboriq/arboriq-api/api/v1"
	"github.com/arboriq/arboriq-api/config"
	"github.com/arboriq/arboriq-api/database"
	"github.com/arboriq/arboriq-api/lib/redis"
	"github.com/arboriq/arboriq-api/middleware"
	"github.com/arboriq/arboriq-api/repositories"
	"github.com/arboriq/arboriq-api/services"
	"github.com/arboriq/arboriq-api/telemetry"
	"github.com/arboriq/arboriq-api/validation"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	shutdownTimeout = 15 * time.Second
	alertStreamLen  = 10000
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.UsesDefaultSecret() {
		log.Warn("JWT_SECRET is not set, using the development default")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		Endpoint:       cfg.OTLPEndpoint,
		Insecure:       true,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	db, err := database.Open(cfg, log)
	if err != nil {
		return err
	}
	defer database.Close(db)

	var publisher services.Publisher
	if cfg.RedisAddr != "" {
		client, err := redis.NewClient(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			MaxLen:   alertStreamLen,
		})
		if err != nil {
			log.Warn("Redis unavailable, risk alert events will not be published", zap.Error(err))
		} else {
			defer client.Close()
			publisher = client
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, log, db, publisher),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("ArborIQ API listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newRouter wires repositories, services and controllers onto a gin engine
func newRouter(cfg *config.Config, log *zap.Logger, db *gorm.DB, publisher services.Publisher) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	validation.Setup()

	treeRepo := repositories.NewTreeRepository(db)
	userRepo := repositories.NewUserRepository(db)
	alertRepo := repositories.NewRiskAlertRepository(db)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiresIn, log)
	alertService := services.NewRiskAlertService(alertRepo, publisher, cfg.RiskAlertThreshold, log)
	treeService := services.NewTreeService(treeRepo, alertService, log)
	exportService := services.NewExportService(treeService)

	opts := v1.Options{Log: log, Production: cfg.IsProduction()}
	health := v1.NewHealthController(cfg.Environment)

	engine := gin.New()
	engine.Use(middleware.Recovery(log, cfg.IsProduction()))
	engine.Use(otelgin.Middleware(serviceName))
	engine.Use(middleware.RequestLogger(log), middleware.Metrics())
	engine.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	v1.RegisterHealth(engine, health)

	api := engine.Group("/api/v1", middleware.Timeout(cfg.DBAcquireTimeout))
	v1.RegisterRoutes(api, v1.NewGuards(authService, log, cfg.LoginRateLimit), v1.Controllers{
		Health:     health,
		Auth:       v1.NewAuthController(authService, opts),
		Trees:      v1.NewTreeController(treeService, exportService, opts),
		RiskAlerts: v1.NewRiskAlertController(alertService, opts),
	})

	engine.NoRoute(middleware.NotFound())
	return engine
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
