package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hpenglish/course-portal/internal/config"
	"github.com/hpenglish/course-portal/internal/handler"
	"github.com/hpenglish/course-portal/internal/identity"
	"github.com/hpenglish/course-portal/internal/repository"
	"github.com/hpenglish/course-portal/internal/service"
	"github.com/hpenglish/course-portal/internal/utils"
	"github.com/hpenglish/course-portal/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	provisioner := identity.NewPostgresProvisioner(repos.Account, cfg.Security.BCryptCost)

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry.Duration)

	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)

	checkoutService := service.NewCheckoutService(
		provisioner,
		infra.Payments(),
		cfg.Stripe,
		cfg.Checkout,
		cfg.App.BaseURL,
		infra.Logger(),
	)

	webhookService := service.NewWebhookService(
		infra.Payments(),
		repos.Payment,
		repos.Token,
		provisioner,
		infra.Mailer(),
		cfg.Checkout.ClaimTokenTTL.Duration,
		cfg.App.BaseURL,
		infra.Logger(),
	)

	claimService := service.NewClaimService(
		repos.Token,
		provisioner,
		infra.Mailer(),
		cfg.Checkout.ClaimTokenTTL.Duration,
		cfg.App.BaseURL,
		infra.Logger(),
	)

	authService := service.NewAuthService(provisioner, jwtManager)

	checkoutHandler := handler.NewCheckoutHandler(checkoutService, infra.Logger())
	webhookHandler := handler.NewWebhookHandler(webhookService, infra.Logger())
	claimHandler := handler.NewClaimHandler(claimService, infra.Logger())
	authHandler := handler.NewAuthHandler(authService)

	router := gin.Default()
	router.Use(otelgin.Middleware("course-portal"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, checkoutHandler, webhookHandler, claimHandler, authHandler, authService, rateLimiter, healthChecker, infra.MetricsHandler())

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
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	checkoutHandler *handler.CheckoutHandler,
	webhookHandler *handler.WebhookHandler,
	claimHandler *handler.ClaimHandler,
	authHandler *handler.AuthHandler,
	authService service.AuthService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	limit := handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey)

	api := router.Group("/api/v1")
	{
		checkout := api.Group("/checkout")
		{
			checkout.POST("/session", limit, checkoutHandler.CreateSession)
		}

		stripe := api.Group("/stripe")
		{
			// Signature verification authenticates the caller, no rate limit.
			stripe.POST("/webhook", webhookHandler.HandleEvent)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/set-password", limit, claimHandler.SetPassword)
			auth.POST("/forgot-password", limit, claimHandler.ForgotPassword)
			auth.POST("/login", limit, authHandler.Login)
			auth.GET("/me", handler.AuthMiddleware(authService), authHandler.GetMe)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
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

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
