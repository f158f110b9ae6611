package repository

import (
	"context"
	"fmt"

	"github.com/yuriy-komolov/product-categories/internal/domain/model"
	"github.com/yuriy-komolov/product-categories/internal/fixtures"
)

// fixtureSource — источник на встроенных JSON-фикстурах.
type fixtureSource struct{}

// NewFixtureSource создаёт источник на встроенных фикстурах.
func NewFixtureSource() DatasetSource {
	return fixtureSource{}
}

func (fixtureSource) Name() string { return "fixtures" }

// LoadDataset разбирает встроенные фикстуры.
func (fixtureSource) LoadDataset(_ context.Context) (model.Dataset, error) {
	ds, err := fixtures.Load()
	if err != nil {
		return model.Dataset{}, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return ds, nil
}
