// Пакет config — загрузка и валидация конфигурации Product Categories
// из переменных окружения (и опционального .env файла).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Источники базовых коллекций.
const (
	// SourceFixtures — встроенные в бинарник JSON-фикстуры
	SourceFixtures = "fixtures"
	// SourcePostgres — таблицы users/categories/products в PostgreSQL
	SourcePostgres = "postgres"
)

// Config содержит все параметры конфигурации сервиса.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- Каталог ---

	// Источник базовых коллекций: fixtures или postgres
	CatalogSource string
	// Максимальное количество закэшированных результатов фильтрации
	CacheSize int
	// Время жизни результата фильтрации в кэше
	CacheTTL time.Duration
	// Интервал перезагрузки базовых коллекций (0 — отключено)
	ReloadInterval time.Duration

	// --- PostgreSQL (только для CatalogSource=postgres) ---

	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- topologymetrics ---

	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration
	// Имя группы в метриках зависимостей
	DephealthGroup string

	// --- UI ---

	// Язык интерфейса по умолчанию (en, ru)
	DefaultLang string

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// значения и возвращает Config или ошибку.
// Перед чтением окружения подгружается .env файл (PC_ENV_FILE, по умолчанию .env),
// уже заданные переменные окружения им не перекрываются.
func Load() (*Config, error) {
	if err := loadEnvFile(getEnvDefault("PC_ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	cfg := &Config{}
	var err error

	// --- Сервер ---

	// PC_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("PC_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("PC_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PC_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// PC_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("PC_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("PC_LOG_LEVEL: %w", err)
	}

	// PC_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("PC_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("PC_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- Каталог ---

	cfg.CatalogSource = getEnvDefault("PC_CATALOG_SOURCE", SourceFixtures)
	if cfg.CatalogSource != SourceFixtures && cfg.CatalogSource != SourcePostgres {
		return nil, fmt.Errorf("PC_CATALOG_SOURCE: недопустимое значение %q, допустимые: fixtures, postgres", cfg.CatalogSource)
	}

	cfg.CacheSize, err = getEnvInt("PC_CACHE_SIZE", 256)
	if err != nil {
		return nil, fmt.Errorf("PC_CACHE_SIZE: %w", err)
	}
	if cfg.CacheSize < 1 {
		return nil, fmt.Errorf("PC_CACHE_SIZE: значение %d должно быть положительным", cfg.CacheSize)
	}

	cfg.CacheTTL, err = getEnvDuration("PC_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("PC_CACHE_TTL: %w", err)
	}

	// PC_RELOAD_INTERVAL — 0 отключает периодическую перезагрузку
	cfg.ReloadInterval, err = getEnvDuration("PC_RELOAD_INTERVAL", 0)
	if err != nil {
		return nil, fmt.Errorf("PC_RELOAD_INTERVAL: %w", err)
	}
	if cfg.ReloadInterval < 0 {
		return nil, fmt.Errorf("PC_RELOAD_INTERVAL: отрицательная длительность %s", cfg.ReloadInterval)
	}

	// --- PostgreSQL ---

	if cfg.CatalogSource == SourcePostgres {
		if err := loadDB(cfg); err != nil {
			return nil, err
		}
	}

	// --- topologymetrics ---

	cfg.DephealthCheckInterval, err = getEnvDuration("PC_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PC_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}
	cfg.DephealthGroup = getEnvDefault("PC_DEPHEALTH_GROUP", "product-categories")

	// --- UI ---

	cfg.DefaultLang = getEnvDefault("PC_DEFAULT_LANG", "en")
	if cfg.DefaultLang != "en" && cfg.DefaultLang != "ru" {
		return nil, fmt.Errorf("PC_DEFAULT_LANG: недопустимое значение %q, допустимые: en, ru", cfg.DefaultLang)
	}

	// --- Graceful shutdown ---

	cfg.ShutdownTimeout, err = getEnvDuration("PC_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PC_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// loadDB читает параметры подключения к PostgreSQL.
func loadDB(cfg *Config) error {
	var err error

	if cfg.DBHost, err = getEnvRequired("PC_DB_HOST"); err != nil {
		return err
	}

	cfg.DBPort, err = getEnvInt("PC_DB_PORT", 5432)
	if err != nil {
		return fmt.Errorf("PC_DB_PORT: %w", err)
	}

	if cfg.DBName, err = getEnvRequired("PC_DB_NAME"); err != nil {
		return err
	}
	if cfg.DBUser, err = getEnvRequired("PC_DB_USER"); err != nil {
		return err
	}
	if cfg.DBPassword, err = getEnvRequired("PC_DB_PASSWORD"); err != nil {
		return err
	}

	cfg.DBSSLMode = getEnvDefault("PC_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return fmt.Errorf("PC_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}
	return nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL для pgxpool.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL подключения к PostgreSQL (для лейблов topologymetrics).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%d/%s", c.DBHost, c.DBPort, c.DBName)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// loadEnvFile подгружает переменные из .env файла. Отсутствие файла — не ошибка.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("PC_ENV_FILE: ошибка чтения %s: %w", path, err)
	}
	return nil
}

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
