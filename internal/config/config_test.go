package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setEnvs устанавливает переменные окружения на время теста.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

// postgresEnvs возвращает минимальный набор переменных для источника postgres.
func postgresEnvs() map[string]string {
	return map[string]string{
		"PC_CATALOG_SOURCE": "postgres",
		"PC_DB_HOST":        "localhost",
		"PC_DB_NAME":        "catalog",
		"PC_DB_USER":        "catalog",
		"PC_DB_PASSWORD":    "secret",
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, ожидается 8080", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, ожидается Info", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, ожидается json", cfg.LogFormat)
	}
	if cfg.CatalogSource != SourceFixtures {
		t.Errorf("CatalogSource = %q, ожидается fixtures", cfg.CatalogSource)
	}
	if cfg.CacheSize != 256 {
		t.Errorf("CacheSize = %d, ожидается 256", cfg.CacheSize)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, ожидается 5m", cfg.CacheTTL)
	}
	if cfg.ReloadInterval != 0 {
		t.Errorf("ReloadInterval = %v, ожидается 0", cfg.ReloadInterval)
	}
	if cfg.DefaultLang != "en" {
		t.Errorf("DefaultLang = %q, ожидается en", cfg.DefaultLang)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, ожидается 5s", cfg.ShutdownTimeout)
	}
	// Для fixtures параметры БД не требуются
	if cfg.DBHost != "" {
		t.Errorf("DBHost = %q, ожидается пустая строка", cfg.DBHost)
	}
}

func TestLoad_Postgres(t *testing.T) {
	setEnvs(t, postgresEnvs())
	t.Setenv("PC_DB_PORT", "6432")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}
	if cfg.DBPort != 6432 {
		t.Errorf("DBPort = %d, ожидается 6432", cfg.DBPort)
	}
	if cfg.DBSSLMode != "disable" {
		t.Errorf("DBSSLMode = %q, ожидается disable", cfg.DBSSLMode)
	}

	wantDSN := "host=localhost port=6432 dbname=catalog user=catalog password=secret sslmode=disable"
	if got := cfg.DatabaseDSN(); got != wantDSN {
		t.Errorf("DatabaseDSN() = %q, ожидается %q", got, wantDSN)
	}
	if got := cfg.DatabaseURL(); got != "postgres://localhost:6432/catalog" {
		t.Errorf("DatabaseURL() = %q", got)
	}
}

func TestLoad_PostgresMissingRequired(t *testing.T) {
	required := []string{"PC_DB_HOST", "PC_DB_NAME", "PC_DB_USER", "PC_DB_PASSWORD"}

	for _, key := range required {
		t.Run(key, func(t *testing.T) {
			envs := postgresEnvs()
			delete(envs, key)
			setEnvs(t, envs)
			t.Setenv(key, "")

			if _, err := Load(); err == nil {
				t.Errorf("ожидалась ошибка при отсутствии %s", key)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"порт вне диапазона", "PC_PORT", "70000"},
		{"порт не число", "PC_PORT", "abc"},
		{"уровень логов", "PC_LOG_LEVEL", "verbose"},
		{"формат логов", "PC_LOG_FORMAT", "xml"},
		{"источник каталога", "PC_CATALOG_SOURCE", "mysql"},
		{"размер кэша", "PC_CACHE_SIZE", "0"},
		{"TTL кэша", "PC_CACHE_TTL", "5 minutes"},
		{"интервал перезагрузки", "PC_RELOAD_INTERVAL", "-1m"},
		{"язык", "PC_DEFAULT_LANG", "de"},
		{"таймаут shutdown", "PC_SHUTDOWN_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("%s=%q: ожидалась ошибка", tt.key, tt.val)
			}
		})
	}
}

func TestLoad_InvalidSSLMode(t *testing.T) {
	setEnvs(t, postgresEnvs())
	t.Setenv("PC_DB_SSL_MODE", "prefer")

	if _, err := Load(); err == nil {
		t.Error("ожидалась ошибка для PC_DB_SSL_MODE=prefer")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "PC_CACHE_SIZE=32\nPC_LOG_FORMAT=text\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("ошибка записи .env: %v", err)
	}
	t.Setenv("PC_ENV_FILE", path)

	// Переменная из окружения имеет приоритет над .env
	t.Setenv("PC_LOG_FORMAT", "json")

	// godotenv выставляет переменные процесса — убираем после теста
	os.Unsetenv("PC_CACHE_SIZE")
	t.Cleanup(func() { os.Unsetenv("PC_CACHE_SIZE") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}
	if cfg.CacheSize != 32 {
		t.Errorf("CacheSize = %d, ожидается 32 (из .env)", cfg.CacheSize)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, ожидается json (окружение важнее .env)", cfg.LogFormat)
	}
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	t.Setenv("PC_ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))

	if _, err := Load(); err != nil {
		t.Fatalf("отсутствующий .env не должен быть ошибкой: %v", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := parseLogLevel(tt.input)
		if err != nil {
			t.Errorf("parseLogLevel(%q): неожиданная ошибка %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, ожидается %v", tt.input, got, tt.want)
		}
	}
}
