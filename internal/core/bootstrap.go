package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nosregor/learning-platform/internal/cache"
	"github.com/nosregor/learning-platform/internal/events"
	m "github.com/nosregor/learning-platform/internal/middlewares"
	"github.com/nosregor/learning-platform/internal/models"
	"github.com/nosregor/learning-platform/internal/services"
	"github.com/nosregor/learning-platform/internal/sms"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StartHTTPServer assembles the router and serves until ctx is
// cancelled, then drains in-flight requests.
func StartHTTPServer(
	ctx context.Context,
	config models.Configuration,
	db *gorm.DB,
	store cache.ICodeStore,
	sender sms.ISender,
	publisher events.IPublisher,
) {
	r := chi.NewRouter()

	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(m.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.App.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authConfig := config.App.GetAuthConfig()

	r.Route("/api", func(apiRouter chi.Router) {
		apiRouter.Use(m.Authenticate(authConfig.JWTSecret))

		apiRouter.Mount("/v1/auth", services.NewAuthService(
			db,
			store,
			authConfig,
			sender,
			publisher,
		).Routes())
	})

	zap.L().Info("HTTP server starting", zap.Int("port", config.App.Port))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.App.Port),
		Handler:      otelhttp.NewHandler(r, "http.server"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("Failed to shut down HTTP server", zap.Error(err))
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.L().Error("Failed to start the app", zap.Error(err))
	}
}
