package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/connect-service/internal/catalog"
	"github.com/prperemyshlev/connect-service/internal/config"
	"github.com/prperemyshlev/connect-service/internal/handler"
	"github.com/prperemyshlev/connect-service/internal/mailer"
	"github.com/prperemyshlev/connect-service/internal/repository"
	"github.com/prperemyshlev/connect-service/internal/service"
	"github.com/prperemyshlev/connect-service/internal/utils"
	"github.com/prperemyshlev/connect-service/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const (
	serviceName     = "connect-service"
	shutdownTimeout = 5 * time.Second
)

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

type routeDeps struct {
	auth     *handler.AuthHandler
	accounts *handler.AccountHandler
	stores   *handler.StoreHandler
	service  service.AuthService
	limiter  service.Limiter
	errors   *handler.ErrorResponder
	logger   *zap.Logger
	health   *HealthChecker
	metrics  http.Handler
}

func NewApp(infra Infrastructure, cfg *config.Config) (*App, error) {
	logger := infra.Logger()

	if err := infra.Postgres().Migrate(); err != nil {
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	if err := handler.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	plans, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	metrics, err := observability.NewAuthMetrics(infra.MeterProvider().Meter(serviceName))
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	recoveryMailer, err := mailer.NewRecoveryMailer(mailer.NewSMTPSender(cfg.Email), cfg.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create recovery mailer: %w", err)
	}

	repos := repository.NewRepositories(infra.Postgres())
	tx := repository.NewTransactor(infra.Postgres())

	tokens := utils.NewTokenManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiresIn.Duration,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
	)

	authService := service.NewAuthService(repos, tx, tokens, plans, metrics, logger, service.AuthOptions{
		BCryptCost:     cfg.Security.BCryptCost,
		SessionTimeout: cfg.Session.Timeout.Duration,
	})
	recoveryService := service.NewRecoveryService(
		repos,
		tx,
		recoveryMailer,
		metrics,
		logger,
		cfg.Recovery.Timeout.Duration,
		cfg.Security.BCryptCost,
	)

	accountService := service.NewAccountService(repos, tx, logger, cfg.Security.BCryptCost)
	storeService := service.NewStoreService(repos, tx, plans, logger)

	errs := handler.NewErrorResponder(logger, cfg.IsDevelopment())
	authHandler := handler.NewAuthHandler(authService, recoveryService, errs, logger, cfg.IsDevelopment())

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := newRouter(cfg, logger, errs)
	if err != nil {
		return nil, err
	}

	setupRoutes(router, cfg, routeDeps{
		auth:     authHandler,
		accounts: handler.NewAccountHandler(accountService, errs),
		stores:   handler.NewStoreHandler(storeService, errs),
		service:  authService,
		limiter:  service.NewRateLimiter(infra.Redis()),
		errors:   errs,
		logger:   logger,
		health:   NewHealthChecker(infra),
		metrics:  infra.MetricsHandler(),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func newRouter(cfg *config.Config, logger *zap.Logger, errs *handler.ErrorResponder) (*gin.Engine, error) {
	router := gin.New()
	// client IPs come from the peer address unless it is a listed proxy
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	router.Use(errs.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(handler.LoggerMiddleware(logger, "/health", "/metrics"))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))
	return router, nil
}

func setupRoutes(router *gin.Engine, cfg *config.Config, deps routeDeps) {
	router.GET("/metrics", observability.PrometheusHandler(deps.metrics))
	router.GET("/health", deps.health.Handler)

	limit := func() gin.HandlerFunc {
		return handler.RateLimitMiddleware(
			deps.limiter,
			cfg.Security.RateLimitRequests,
			cfg.Security.RateLimitWindow.Duration,
			handler.IPBasedKey,
			deps.logger,
		)
	}
	authenticated := handler.AuthMiddleware(deps.service, deps.errors)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/sign-up", limit(), deps.auth.SignUp)
			auth.POST("/sign-in", limit(), deps.auth.SignIn)
			auth.GET("/recover/:identifier", limit(), deps.auth.Recover)
			auth.GET("/validate-code/:code", limit(), deps.auth.ValidateCode)
			auth.POST("/reset-password", limit(), deps.auth.ResetPassword)
			auth.GET("/validate-session", authenticated, deps.auth.ValidateSession)
			auth.POST("/logout", authenticated, deps.auth.Logout)
			auth.GET("/me", authenticated, deps.auth.Me)
		}

		account := api.Group("/account", authenticated)
		{
			account.GET("/detail-profile", deps.accounts.DetailProfile)
			account.PUT("/update-profile", deps.accounts.UpdateProfile)
			account.PUT("/update-email", deps.accounts.UpdateEmail)
			account.PUT("/update-password", deps.accounts.UpdatePassword)
		}

		store := api.Group("/store", authenticated)
		{
			store.GET("/sectors", deps.stores.Sectors)
			store.GET("/detail-store", deps.stores.DetailStore)
			store.PUT("/update-store", deps.stores.UpdateStore)
			store.PUT("/update-sector", deps.stores.UpdateSector)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
			zap.String("env", a.config.Env),
		)

		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// stop accepting requests before the pools they use are closed
	if err := a.server.Shutdown(ctx); err != nil {
		a.infra.Logger().Error("HTTP shutdown failed", zap.Error(err))
		return errors.Join(err, a.infra.Shutdown(ctx))
	}

	if err := a.infra.Shutdown(ctx); err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
