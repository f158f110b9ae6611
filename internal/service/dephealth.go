// dephealth.go — мониторинг БД каталога через topologymetrics SDK.
//
// Зависимость одна — PostgreSQL с таблицами каталога (только при
// PC_CATALOG_SOURCE=postgres). Проверка идёт через пул соединений источника,
// метрики app_dependency_health и app_dependency_latency_seconds отдаются на /metrics.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"
	"github.com/prometheus/client_golang/prometheus"
)

// CatalogDBDependency — имя зависимости в графе topologymetrics.
const CatalogDBDependency = "catalog-postgresql"

// DephealthConfig — параметры мониторинга БД каталога.
type DephealthConfig struct {
	// ServiceID — имя вершины графа текущего приложения
	ServiceID string
	// Group — группа в метриках (PC_DEPHEALTH_GROUP)
	Group string
	// DB — *sql.DB поверх пула источника (stdlib.OpenDBFromPool)
	DB *sql.DB
	// URL — адрес PostgreSQL для лейблов, не для подключения
	URL           string
	CheckInterval time.Duration
	// Registerer — nil означает глобальный Prometheus registry
	Registerer prometheus.Registerer
}

// DephealthService — периодическая проверка БД каталога.
type DephealthService struct {
	dh       *dephealth.DepHealth
	interval time.Duration
	logger   *slog.Logger
}

// NewDephealthService регистрирует БД каталога как некритичную зависимость:
// после первой загрузки страница обслуживается из снимка в памяти,
// а недоступная БД ломает только перезагрузку каталога.
func NewDephealthService(cfg DephealthConfig, logger *slog.Logger) (*DephealthService, error) {
	if cfg.DB == nil {
		return nil, errors.New("dephealth: не задано подключение к БД каталога")
	}

	opts := []dephealth.Option{
		dephealth.WithLogger(logger),
		dephealth.AddDependency(CatalogDBDependency, dephealth.TypePostgres,
			pgcheck.New(pgcheck.WithDB(cfg.DB)),
			dephealth.FromURL(cfg.URL),
			dephealth.CheckInterval(cfg.CheckInterval),
			dephealth.Critical(false),
		),
	}
	if cfg.Registerer != nil {
		opts = append(opts, dephealth.WithRegisterer(cfg.Registerer))
	}

	dh, err := dephealth.New(cfg.ServiceID, cfg.Group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:       dh,
		interval: cfg.CheckInterval,
		logger:   logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает периодическую проверку.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг БД каталога запущен",
		slog.String("dependency", CatalogDBDependency),
		slog.Duration("interval", ds.interval),
	)
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг БД каталога остановлен")
}
