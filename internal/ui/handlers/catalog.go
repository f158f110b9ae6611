// Пакет handlers — HTTP-обработчики страницы каталога.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/yuriy-komolov/product-categories/internal/domain/filter"
	"github.com/yuriy-komolov/product-categories/internal/domain/model"
	"github.com/yuriy-komolov/product-categories/internal/service"
	"github.com/yuriy-komolov/product-categories/internal/ui/i18n"
	"github.com/yuriy-komolov/product-categories/internal/ui/pages"
)

// Catalog — операции каталога, нужные странице.
type Catalog interface {
	Dispatch(ctx context.Context, state filter.State, action filter.Action) (*service.View, error)
	Visible(ctx context.Context, state filter.State) (*service.View, error)
	Users() []model.User
	Categories() []model.Category
}

// CatalogHandler — обработчик страницы каталога и её htmx-фрагмента.
type CatalogHandler struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewCatalogHandler создаёт обработчик страницы каталога.
func NewCatalogHandler(catalog Catalog, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger.With(slog.String("component", "ui.catalog")),
	}
}

// HandlePage обрабатывает GET / — полная страница.
// Query: q, user, action (clear-search, clear-user, reset).
func (h *CatalogHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	data, ok := h.buildData(w, r)
	if !ok {
		return
	}
	// После действия адрес в браузере заменяется на адрес нового состояния
	if r.URL.Query().Has(filter.ParamAction) {
		w.Header().Set("HX-Replace-Url", pages.PageURL(data.State))
	}
	h.render(w, r, pages.ProductPage(data))
}

// HandleTablePartial обрабатывает GET /partials/product-table — фрагмент для htmx.
// Адрес страницы в новом состоянии возвращается в HX-Push-Url.
func (h *CatalogHandler) HandleTablePartial(w http.ResponseWriter, r *http.Request) {
	data, ok := h.buildData(w, r)
	if !ok {
		return
	}
	w.Header().Set("HX-Push-Url", pages.PageURL(data.State))
	h.render(w, r, pages.ProductTable(data))
}

// buildData восстанавливает состояние из запроса, применяет действие
// и вычисляет видимую коллекцию. При ошибке ответ уже записан.
func (h *CatalogHandler) buildData(w http.ResponseWriter, r *http.Request) (pages.ProductPageData, bool) {
	query := r.URL.Query()
	state := filter.FromQuery(query)

	action, hasAction, err := filter.ParseAction(query.Get(filter.ParamAction))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return pages.ProductPageData{}, false
	}

	var view *service.View
	if hasAction {
		view, err = h.catalog.Dispatch(r.Context(), state, action)
	} else {
		view, err = h.catalog.Visible(r.Context(), state)
	}
	if err != nil {
		if errors.Is(err, service.ErrNotLoaded) {
			http.Error(w, "Каталог ещё не загружен", http.StatusServiceUnavailable)
			return pages.ProductPageData{}, false
		}
		h.logger.Error("Ошибка вычисления видимой коллекции",
			slog.String("error", err.Error()),
		)
		http.Error(w, "Внутренняя ошибка", http.StatusInternalServerError)
		return pages.ProductPageData{}, false
	}

	lang := i18n.LangFromContext(r.Context())
	return pages.NewProductPageData(view, h.catalog.Users(), h.catalog.Categories(), lang), true
}

func (h *CatalogHandler) render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		h.logger.Error("Ошибка рендеринга страницы каталога",
			slog.String("error", err.Error()),
		)
		http.Error(w, "Ошибка рендеринга страницы", http.StatusInternalServerError)
	}
}
