package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/yuriy-komolov/product-categories/internal/domain/filter"
	"github.com/yuriy-komolov/product-categories/internal/domain/model"
)

// Filter возвращает упорядоченное подмножество товаров, для которых выполняются
// одновременно текстовый предикат и предикат владельца.
// Результат — новый срез; пустой результат не является ошибкой.
func Filter(items []model.EnrichedProduct, state filter.State) []model.EnrichedProduct {
	state = state.Normalize()
	search := newSearchMatcher(state.Search)

	result := make([]model.EnrichedProduct, 0, len(items))
	for _, item := range items {
		if search.matches(item) && MatchesUser(item, state.User) {
			result = append(result, item)
		}
	}
	return result
}

// searchMatcher — текстовый предикат: название товара содержит строку поиска
// без учёта регистра. Пустая строка поиска подходит любому товару.
// Caser не разделяется между горутинами, поэтому matcher создаётся на каждый Filter.
type searchMatcher struct {
	folder cases.Caser
	needle string
}

func newSearchMatcher(search string) *searchMatcher {
	folder := cases.Fold()
	return &searchMatcher{folder: folder, needle: folder.String(search)}
}

func (m *searchMatcher) matches(item model.EnrichedProduct) bool {
	return m.needle == "" || strings.Contains(m.folder.String(item.Name), m.needle)
}

// MatchesUser — предикат владельца: AllUsers пропускает всё, иначе имя
// разрешённого владельца должно точно совпадать. Товар без владельца
// конкретному имени не соответствует.
func MatchesUser(item model.EnrichedProduct, user string) bool {
	if user == filter.AllUsers || user == "" {
		return true
	}
	name, ok := item.OwnerName()
	return ok && name == user
}
