// Точка входа product-categories — страница каталога товаров с фильтрами
// по названию и владельцу категории.
// Загружает конфигурацию, выбирает источник каталога (встроенные данные
// или PostgreSQL с миграциями), загружает каталог, поднимает страницу,
// JSON API и служебные endpoints, выполняет graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	apihandlers "github.com/yuriy-komolov/product-categories/internal/api/handlers"
	"github.com/yuriy-komolov/product-categories/internal/api/middleware"
	"github.com/yuriy-komolov/product-categories/internal/api/openapi"
	"github.com/yuriy-komolov/product-categories/internal/config"
	"github.com/yuriy-komolov/product-categories/internal/database"
	"github.com/yuriy-komolov/product-categories/internal/repository"
	"github.com/yuriy-komolov/product-categories/internal/server"
	"github.com/yuriy-komolov/product-categories/internal/service"
	uihandlers "github.com/yuriy-komolov/product-categories/internal/ui/handlers"
	"github.com/yuriy-komolov/product-categories/internal/ui/i18n"
)

func main() {
	// 1. Конфигурация
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Логирование
	logger := config.SetupLogger(cfg)
	logger.Info("product-categories запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("catalog_source", cfg.CatalogSource),
	)

	ctx := context.Background()

	// 3. Источник каталога
	var (
		source    repository.DatasetSource
		pgChecker apihandlers.ReadinessChecker
		dephealth *service.DephealthService
	)

	switch cfg.CatalogSource {
	case config.SourcePostgres:
		logger.Info("Применение миграций БД...")
		if err := database.Migrate(cfg, logger); err != nil {
			logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
			os.Exit(1)
		}

		pool, err := database.Connect(ctx, cfg, logger)
		if err != nil {
			logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		if stats, err := database.Stats(ctx, pool); err == nil {
			logger.Info("Таблицы каталога в PostgreSQL", slog.String("rows", stats.String()))
		}

		source = repository.NewPostgresSource(pool)
		pgChecker = database.NewReadinessChecker(pool)

		// Адаптер pgxpool → *sql.DB: topologymetrics проверяет БД через тот же пул
		pgDB := stdlib.OpenDBFromPool(pool)
		defer pgDB.Close()

		dephealth, err = service.NewDephealthService(service.DephealthConfig{
			ServiceID:     "product-categories",
			Group:         cfg.DephealthGroup,
			DB:            pgDB,
			URL:           cfg.DatabaseURL(),
			CheckInterval: cfg.DephealthCheckInterval,
		}, logger)
		if err != nil {
			logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
				slog.String("error", err.Error()),
			)
			dephealth = nil
		}
	default:
		source = repository.NewFixtureSource()
	}

	// 4. Сервис каталога и кэш видимых коллекций
	cache := service.NewCacheService(cfg.CacheSize, cfg.CacheTTL)
	catalogSvc := service.NewCatalogService(source, cache, cfg.ReloadInterval, logger)

	if err := catalogSvc.Load(ctx); err != nil {
		logger.Error("Ошибка загрузки каталога", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. i18n
	bundle, err := i18n.Load(cfg.DefaultLang, logger)
	if err != nil {
		logger.Error("Ошибка загрузки переводов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 6. OpenAPI документ и валидация JSON API
	doc, err := openapi.Load(ctx)
	if err != nil {
		logger.Error("Ошибка загрузки OpenAPI документа", slog.String("error", err.Error()))
		os.Exit(1)
	}
	validator, err := middleware.OpenAPIValidator(doc, logger)
	if err != nil {
		logger.Error("Ошибка создания валидатора OpenAPI", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 7. Фоновые задачи
	catalogSvc.Start(ctx)
	if dephealth != nil {
		if err := dephealth.Start(ctx); err != nil {
			logger.Warn("Ошибка запуска topologymetrics", slog.String("error", err.Error()))
			dephealth = nil
		}
	}

	// 8. HTTP-сервер
	srv := server.New(cfg, logger, server.Handlers{
		Health:    apihandlers.NewHealthHandler(catalogSvc, pgChecker),
		API:       apihandlers.NewCatalogHandler(catalogSvc, logger),
		UI:        uihandlers.NewCatalogHandler(catalogSvc, logger),
		Validator: validator,
		Bundle:    bundle,
	})

	runErr := srv.Run(ctx)

	// 9. Остановка фоновых задач
	catalogSvc.Stop()
	if dephealth != nil {
		dephealth.Stop()
	}

	if runErr != nil {
		logger.Error("Сервер завершился с ошибкой", slog.String("error", runErr.Error()))
		os.Exit(1)
	}

	logger.Info("product-categories остановлен")
}
