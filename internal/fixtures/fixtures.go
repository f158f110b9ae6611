// Пакет fixtures — встроенные базовые коллекции (пользователи, категории, товары).
// JSON-файлы встраиваются в бинарник через go:embed и разбираются при старте.
package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/yuriy-komolov/product-categories/internal/domain/model"
)

//go:embed data/*.json
var dataFS embed.FS

// Load разбирает встроенные фикстуры и возвращает Dataset.
func Load() (model.Dataset, error) {
	var ds model.Dataset

	if err := decode("data/users.json", &ds.Users); err != nil {
		return model.Dataset{}, err
	}
	if err := decode("data/categories.json", &ds.Categories); err != nil {
		return model.Dataset{}, err
	}
	if err := decode("data/products.json", &ds.Products); err != nil {
		return model.Dataset{}, err
	}

	return ds, nil
}

// decode читает и разбирает один JSON-файл из встроенной ФС.
func decode(path string, dest any) error {
	data, err := dataFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("fixtures: не удалось прочитать %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("fixtures: ошибка парсинга %s: %w", path, err)
	}
	return nil
}
