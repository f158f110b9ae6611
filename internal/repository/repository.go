// Пакет repository — источники базовых коллекций каталога.
// Встроенные фикстуры или таблицы PostgreSQL (чистый SQL через pgx, без ORM).
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yuriy-komolov/product-categories/internal/domain/model"
)

// ErrSourceUnavailable — источник базовых коллекций недоступен.
var ErrSourceUnavailable = errors.New("источник каталога недоступен")

// DatasetSource — источник трёх базовых коллекций.
type DatasetSource interface {
	// Name возвращает имя источника для логов и метрик.
	Name() string
	// LoadDataset загружает пользователей, категории и товары в порядке хранения.
	LoadDataset(ctx context.Context) (model.Dataset, error)
}

// DBTX — интерфейс для выполнения SQL-запросов.
// Реализуется как *pgxpool.Pool, так и pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
