// Пакет pages — страница каталога и её фрагменты.
//
// view.go — модели представления: состояние фильтров и видимая коллекция,
// подготовленные к выводу (ссылки переходов, классы, подписи).
package pages

import (
	"net/url"

	"github.com/a-h/templ"

	"github.com/yuriy-komolov/product-categories/internal/domain/filter"
	"github.com/yuriy-komolov/product-categories/internal/domain/model"
	"github.com/yuriy-komolov/product-categories/internal/service"
	"github.com/yuriy-komolov/product-categories/internal/ui/i18n"
)

// Пути страницы и фрагмента таблицы.
const (
	PagePath         = "/"
	TablePartialPath = "/partials/product-table"
)

// UserTab — вкладка выбора владельца.
type UserTab struct {
	// Label — имя пользователя; пусто для вкладки «Все»
	Label  string
	Href   string
	Active bool
}

// Class возвращает классы вкладки.
func (t UserTab) Class() string {
	return templ.Classes(templ.KV("is-active", t.Active)).String()
}

// LangButton — кнопка переключения языка.
type LangButton struct {
	Code   string
	Active bool
}

// Class возвращает классы кнопки языка.
func (b LangButton) Class() string {
	return templ.Classes(templ.KV("is-active", b.Active)).String()
}

// ProductRow — строка таблицы товаров.
type ProductRow struct {
	ID   int
	Name string
	// Category — "icon - title"; HasCategory=false, если категория не разрешилась
	Category    string
	HasCategory bool
	// Owner — имя владельца категории, пусто если не разрешился
	Owner string
	Male  bool
}

// OwnerClass возвращает цвет имени владельца: has-text-link для "m",
// has-text-danger для "f" и для отсутствующего владельца.
func (r ProductRow) OwnerClass() string {
	return templ.Classes(
		templ.KV("has-text-link", r.Male),
		templ.KV("has-text-danger", !r.Male),
	).String()
}

// ProductTableData — данные таблицы товаров.
type ProductTableData struct {
	Rows  []ProductRow
	Total int
}

// Shown — количество видимых товаров.
func (d ProductTableData) Shown() int {
	return len(d.Rows)
}

// Empty сообщает, что ни один товар не прошёл фильтры.
func (d ProductTableData) Empty() bool {
	return len(d.Rows) == 0
}

// ProductPageData — данные страницы каталога.
type ProductPageData struct {
	Lang  string
	State filter.State
	Tabs  []UserTab
	// Categories — названия категорий для кнопок (не фильтруют)
	Categories []string
	// ClearSearchHref пуст, если строка поиска пуста: кнопка очистки не выводится
	ClearSearchHref string
	ResetHref       string
	Languages       []LangButton
	Table           ProductTableData

	// oob — фрагменты вне таблицы выводятся с hx-swap-oob (ответ на htmx-запрос)
	oob bool
}

// OOB сообщает, выводятся ли фрагменты для out-of-band замены.
func (d ProductPageData) OOB() bool {
	return d.oob
}

func (d ProductPageData) swapOOB() ProductPageData {
	d.oob = true
	return d
}

// NewProductPageData собирает данные страницы из видимой коллекции.
// users и categories — базовые коллекции в исходном порядке.
func NewProductPageData(view *service.View, users []model.User, categories []model.Category, lang string) ProductPageData {
	state := view.State.Normalize()

	data := ProductPageData{
		Lang:       lang,
		State:      state,
		Tabs:       userTabs(state, users),
		Categories: make([]string, 0, len(categories)),
		ResetHref:  actionHref(state, filter.ActionResetAll),
		Languages: []LangButton{
			{Code: i18n.LangEnglish, Active: lang == i18n.LangEnglish},
			{Code: i18n.LangRussian, Active: lang == i18n.LangRussian},
		},
		Table: ProductTableData{
			Rows:  make([]ProductRow, 0, len(view.Items)),
			Total: view.Total,
		},
	}

	if state.HasSearch() {
		data.ClearSearchHref = actionHref(state, filter.ActionClearSearch)
	}

	for _, c := range categories {
		data.Categories = append(data.Categories, c.Title)
	}

	for _, item := range view.Items {
		row := ProductRow{ID: item.ID, Name: item.Name}
		row.Category, row.HasCategory = item.CategoryLabel()
		row.Owner, _ = item.OwnerName()
		row.Male = item.User.IsMale()
		data.Table.Rows = append(data.Table.Rows, row)
	}

	return data
}

// userTabs строит вкладку «Все» и по вкладке на пользователя.
// Каждая ссылка несёт следующее состояние: строка поиска сохраняется.
func userTabs(state filter.State, users []model.User) []UserTab {
	tabs := make([]UserTab, 0, len(users)+1)
	tabs = append(tabs, UserTab{
		Href:   PageURL(filter.Reduce(state, filter.ClearUser())),
		Active: state.AllUsersSelected(),
	})
	for _, u := range users {
		tabs = append(tabs, UserTab{
			Label:  u.Name,
			Href:   PageURL(filter.Reduce(state, filter.SelectUser(u.Name))),
			Active: !state.AllUsersSelected() && state.User == u.Name,
		})
	}
	return tabs
}

// actionHref — ссылка на страницу с текущим состоянием и действием.
func actionHref(state filter.State, action filter.ActionKind) string {
	values := state.Values()
	values.Set(filter.ParamAction, string(action))
	return PagePath + "?" + values.Encode()
}

// PageURL возвращает канонический адрес страницы для состояния (для HX-Push-Url).
func PageURL(state filter.State) string {
	return (&url.URL{Path: PagePath, RawQuery: state.Encode()}).String()
}
