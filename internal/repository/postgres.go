package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yuriy-komolov/product-categories/internal/domain/model"
)

// postgresSource — источник на таблицах users, categories, products.
// Порядок строк — по столбцу position (порядок вставки исходных коллекций).
type postgresSource struct {
	db DBTX
}

// NewPostgresSource создаёт источник поверх пула или транзакции.
func NewPostgresSource(db DBTX) DatasetSource {
	return &postgresSource{db: db}
}

func (s *postgresSource) Name() string { return "postgres" }

// LoadDataset читает три коллекции. Любая ошибка оборачивается в ErrSourceUnavailable.
func (s *postgresSource) LoadDataset(ctx context.Context) (model.Dataset, error) {
	var ds model.Dataset
	var err error

	ds.Users, err = queryAll(ctx, s.db,
		`SELECT id, name, sex FROM users ORDER BY position, id`,
		func(row pgx.CollectableRow) (model.User, error) {
			var u model.User
			var sex string
			if err := row.Scan(&u.ID, &u.Name, &sex); err != nil {
				return model.User{}, err
			}
			u.Sex = model.Sex(sex)
			return u, nil
		})
	if err != nil {
		return model.Dataset{}, fmt.Errorf("%w: пользователи: %w", ErrSourceUnavailable, err)
	}

	ds.Categories, err = queryAll(ctx, s.db,
		`SELECT id, title, icon, owner_id FROM categories ORDER BY position, id`,
		func(row pgx.CollectableRow) (model.Category, error) {
			var c model.Category
			err := row.Scan(&c.ID, &c.Title, &c.Icon, &c.OwnerID)
			return c, err
		})
	if err != nil {
		return model.Dataset{}, fmt.Errorf("%w: категории: %w", ErrSourceUnavailable, err)
	}

	ds.Products, err = queryAll(ctx, s.db,
		`SELECT id, name, category_id FROM products ORDER BY position, id`,
		func(row pgx.CollectableRow) (model.Product, error) {
			var p model.Product
			err := row.Scan(&p.ID, &p.Name, &p.CategoryID)
			return p, err
		})
	if err != nil {
		return model.Dataset{}, fmt.Errorf("%w: товары: %w", ErrSourceUnavailable, err)
	}

	return ds, nil
}

// queryAll выполняет запрос и собирает все строки через scan.
func queryAll[T any](ctx context.Context, db DBTX, sql string, scan pgx.RowToFunc[T]) ([]T, error) {
	rows, err := db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	items, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
