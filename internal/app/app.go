package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kickoffhq/kickoff-client/internal/api"
	"github.com/kickoffhq/kickoff-client/internal/config"
	"github.com/kickoffhq/kickoff-client/internal/domain"
	"github.com/kickoffhq/kickoff-client/internal/handler"
	"github.com/kickoffhq/kickoff-client/internal/httpclient"
	"github.com/kickoffhq/kickoff-client/internal/session"
	"github.com/kickoffhq/kickoff-client/internal/store"
	"github.com/kickoffhq/kickoff-client/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

// App wires the request pipeline, the session manager and the entity stores
// together, and serves the local watch endpoints.
type App struct {
	infra  Infrastructure
	config *config.Config

	client        *httpclient.Client
	apis          *api.APIs
	session       *session.Manager
	posts         *store.PostStore
	applications  *store.ApplicationStore
	notifications *store.NotificationStore

	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	logger := infra.Logger()

	metrics, err := httpclient.NewMetrics()
	if err != nil {
		logger.Warn("pipeline metrics disabled", zap.Error(err))
		metrics = nil
	}

	var limiter *rate.Limiter
	if cfg.HTTP.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst)
	}

	client := httpclient.NewClient(
		infra.CredStore(),
		cfg.Services.AuthURL+"/api/auth/token/refresh",
		cfg.HTTP.Timeout.Duration,
		limiter,
		logger,
		metrics,
	)

	apis := api.NewAPIs(client, cfg.Services)
	sessionManager := session.NewManager(infra.CredStore(), client, apis.Auth, apis.Users, logger)

	posts := store.NewPostStore(apis.Recruit, logger)
	applications := store.NewApplicationStore(apis.Recruit, apis.Users, apis.Notifications, logger)
	notifications := store.NewNotificationStore(apis.Notifications, logger)

	sessionHandler := handler.NewSessionHandler(sessionManager)
	notificationHandler := handler.NewNotificationHandler(notifications)
	healthChecker := NewHealthChecker(infra)

	router := gin.Default()
	router.Use(otelgin.Middleware("kickoff-client"))
	router.Use(handler.LoggerMiddleware(logger))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, sessionHandler, notificationHandler, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         cfg.Watch.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Watch.ReadTimeout.Duration,
		WriteTimeout: cfg.Watch.WriteTimeout.Duration,
	}

	return &App{
		infra:         infra,
		config:        cfg,
		client:        client,
		apis:          apis,
		session:       sessionManager,
		posts:         posts,
		applications:  applications,
		notifications: notifications,
		router:        router,
		server:        srv,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Session() *session.Manager {
	return a.session
}

func (a *App) APIs() *api.APIs {
	return a.apis
}

func (a *App) Posts() *store.PostStore {
	return a.posts
}

func (a *App) Applications() *store.ApplicationStore {
	return a.applications
}

func (a *App) Notifications() *store.NotificationStore {
	return a.notifications
}

func setupRoutes(
	router *gin.Engine,
	sessionHandler *handler.SessionHandler,
	notificationHandler *handler.NotificationHandler,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)
	router.GET("/oauth/callback", sessionHandler.Callback)
	router.GET("/session", sessionHandler.Status)

	api := router.Group("/api")
	{
		notifications := api.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
		}
	}
}

// Run restores the persisted session, starts the notification poll loop and
// serves the watch endpoints until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.session.Restore(ctx)
	if a.session.IsLoggedIn() {
		a.refreshStores(ctx)
	}

	pollCtx, stopPolling := context.WithCancel(ctx)
	defer stopPolling()
	go a.pollNotifications(pollCtx)

	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Watch server starting",
			zap.String("addr", a.config.Watch.Address()),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Watch server failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Watch mode stopped by context")
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

// refreshStores does the initial fill after a session becomes available.
func (a *App) refreshStores(ctx context.Context) {
	for _, category := range domain.Categories {
		a.posts.Load(ctx, category, 0, 20)
	}

	user := a.session.User()
	if user == nil {
		return
	}
	if profileID := a.session.ProfileID(); profileID != 0 {
		a.notifications.Load(ctx, profileID)
		a.applications.Refresh(ctx, user.ID, profileID)
	}
}

// pollNotifications periodically pulls the inbox and feeds new entries into
// the store. Add deduplicates by id, so entries read locally between polls
// keep their state.
func (a *App) pollNotifications(ctx context.Context) {
	ticker := time.NewTicker(a.config.Watch.PollInterval.Duration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		profileID := a.session.ProfileID()
		if profileID == 0 {
			continue
		}

		incoming, err := a.apis.Notifications.List(ctx, profileID)
		if err != nil {
			a.infra.Logger().Warn("notification poll failed", zap.Error(err))
			continue
		}
		for _, n := range incoming {
			a.notifications.Add(n)
		}
	}
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Shutting down...")

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

	a.infra.Logger().Info("Exited cleanly")
	return nil
}
