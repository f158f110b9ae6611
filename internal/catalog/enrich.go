// Пакет catalog — производная коллекция товаров и её фильтрация.
//
// Enrich соединяет товары с категориями и владельцами категорий (best-effort join),
// Filter вычисляет видимое подмножество для текущего состояния фильтров.
// Обе функции чистые: не изменяют входные данные и сохраняют порядок товаров.
package catalog

import "github.com/yuriy-komolov/product-categories/internal/domain/model"

// Enrich возвращает по одной EnrichedProduct на каждый товар в исходном порядке.
// Для товара ищется первая категория с совпадающим ID, для категории — первый
// пользователь с ID владельца. Неразрешённая ссылка даёт nil, а не ошибку.
func Enrich(ds model.Dataset) []model.EnrichedProduct {
	categories := make(map[int]*model.Category, len(ds.Categories))
	for i := range ds.Categories {
		c := &ds.Categories[i]
		if _, ok := categories[c.ID]; !ok {
			categories[c.ID] = c
		}
	}

	users := make(map[int]*model.User, len(ds.Users))
	for i := range ds.Users {
		u := &ds.Users[i]
		if _, ok := users[u.ID]; !ok {
			users[u.ID] = u
		}
	}

	result := make([]model.EnrichedProduct, 0, len(ds.Products))
	for _, p := range ds.Products {
		item := model.EnrichedProduct{Product: p}

		if c, ok := categories[p.CategoryID]; ok {
			category := *c
			item.Category = &category

			if u, ok := users[c.OwnerID]; ok {
				user := *u
				item.User = &user
			}
		}

		result = append(result, item)
	}

	return result
}
