package database

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/yuriy-komolov/product-categories/internal/config"
	"github.com/yuriy-komolov/product-categories/internal/repository"
)

// setupTestDB запускает PostgreSQL в Docker-контейнере через testcontainers
// и возвращает конфигурацию для подключения к нему.
func setupTestDB(t *testing.T) *config.Config {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("catalog_test"),
		postgres.WithUsername("catalog"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}

	t.Setenv("PC_CATALOG_SOURCE", "postgres")
	t.Setenv("PC_DB_HOST", host)
	t.Setenv("PC_DB_PORT", port.Port())
	t.Setenv("PC_DB_NAME", "catalog_test")
	t.Setenv("PC_DB_USER", "catalog")
	t.Setenv("PC_DB_PASSWORD", "test-password")
	t.Setenv("PC_DB_SSL_MODE", "disable")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	return cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// TestMigrateAndLoad применяет миграции дважды и читает сид через PostgreSQL-источник.
func TestMigrateAndLoad(t *testing.T) {
	cfg := setupTestDB(t)
	logger := testLogger()

	if err := Migrate(cfg, logger); err != nil {
		t.Fatalf("Migrate() вернул ошибку: %v", err)
	}
	// Повторное применение — без ошибки (ErrNoChange)
	if err := Migrate(cfg, logger); err != nil {
		t.Fatalf("Повторный Migrate() вернул ошибку: %v", err)
	}

	ctx := context.Background()
	pool, err := Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Connect() вернул ошибку: %v", err)
	}
	defer pool.Close()

	ds, err := repository.NewPostgresSource(pool).LoadDataset(ctx)
	if err != nil {
		t.Fatalf("LoadDataset() вернул ошибку: %v", err)
	}
	if len(ds.Users) != 4 || len(ds.Categories) != 5 || len(ds.Products) != 12 {
		t.Errorf("неожиданные размеры коллекций: %d/%d/%d", len(ds.Users), len(ds.Categories), len(ds.Products))
	}
	if ds.Products[0].Name != "Milk" {
		t.Errorf("первый товар = %q, ожидается Milk (порядок по position)", ds.Products[0].Name)
	}

	status, msg := NewReadinessChecker(pool).CheckReady()
	if status != "ok" || msg != "пользователей: 4, категорий: 5, товаров: 12" {
		t.Errorf("CheckReady() = %q (%s), ожидается ok с размерами сида", status, msg)
	}
}
