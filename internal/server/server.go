// Пакет server — HTTP-сервер каталога с graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	apihandlers "github.com/yuriy-komolov/product-categories/internal/api/handlers"
	"github.com/yuriy-komolov/product-categories/internal/api/middleware"
	"github.com/yuriy-komolov/product-categories/internal/config"
	uihandlers "github.com/yuriy-komolov/product-categories/internal/ui/handlers"
	"github.com/yuriy-komolov/product-categories/internal/ui/i18n"
	"github.com/yuriy-komolov/product-categories/internal/ui/pages"
	"github.com/yuriy-komolov/product-categories/internal/ui/static"
)

// Handlers — обработчики, подключаемые к роутеру.
type Handlers struct {
	Health *apihandlers.HealthHandler
	API    *apihandlers.CatalogHandler
	UI     *uihandlers.CatalogHandler
	// Validator — валидация запросов /api/v1/* по OpenAPI документу (может быть nil)
	Validator func(http.Handler) http.Handler
	Bundle    *i18n.Bundle
}

// Server — HTTP-сервер каталога.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с маршрутами и middleware.
func New(cfg *config.Config, logger *slog.Logger, h Handlers) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(cfg, logger, h),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает chi-роутер: страница каталога, htmx-фрагмент,
// статика, JSON API и служебные endpoints.
func NewRouter(cfg *config.Config, logger *slog.Logger, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))
	router.Use(chimiddleware.Recoverer)

	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Get("/metrics", h.Health.GetMetrics)

	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.FileSystem())))

	router.Group(func(r chi.Router) {
		r.Use(i18n.Middleware(h.Bundle, cfg.DefaultLang))
		r.Get(pages.PagePath, h.UI.HandlePage)
		r.Get(pages.TablePartialPath, h.UI.HandleTablePartial)
		r.Post("/set-language", uihandlers.HandleSetLanguage)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if h.Validator != nil {
			r.Use(h.Validator)
		}
		r.NotFound(h.API.NotFound)
		r.Get("/products", h.API.ListProducts)
		r.Get("/users", h.API.ListUsers)
		r.Get("/categories", h.API.ListCategories)
		r.Post("/catalog/reload", h.API.ReloadCatalog)
		r.Get("/openapi.yaml", h.API.GetOpenAPI)
	})

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM)
// или отмены ctx, после чего выполняет graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case <-ctx.Done():
		s.logger.Info("Контекст сервера отменён")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
