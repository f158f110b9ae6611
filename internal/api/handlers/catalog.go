// catalog.go — JSON API каталога: видимая коллекция, базовые коллекции, перезагрузка.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/oapi-codegen/runtime"

	apierrors "github.com/yuriy-komolov/product-categories/internal/api/errors"
	"github.com/yuriy-komolov/product-categories/internal/api/openapi"
	"github.com/yuriy-komolov/product-categories/internal/domain/filter"
	"github.com/yuriy-komolov/product-categories/internal/domain/model"
	"github.com/yuriy-komolov/product-categories/internal/repository"
	"github.com/yuriy-komolov/product-categories/internal/service"
)

// Catalog — операции каталога, используемые JSON API.
type Catalog interface {
	Visible(ctx context.Context, state filter.State) (*service.View, error)
	Users() []model.User
	Categories() []model.Category
	Reload(ctx context.Context) (*service.ReloadResult, error)
}

// CatalogHandler — обработчик /api/v1/*.
type CatalogHandler struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewCatalogHandler создаёт обработчик JSON API каталога.
func NewCatalogHandler(catalog Catalog, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger.With(slog.String("component", "catalog_api")),
	}
}

// ListProductsParams — параметры GET /api/v1/products.
type ListProductsParams struct {
	// Q — подстрока названия товара
	Q *string `form:"q,omitempty" json:"q,omitempty"`
	// User — имя владельца или "all"
	User *string `form:"user,omitempty" json:"user,omitempty"`
}

// State преобразует параметры запроса в состояние фильтров.
func (p ListProductsParams) State() filter.State {
	var search, user string
	if p.Q != nil {
		search = *p.Q
	}
	if p.User != nil {
		user = *p.User
	}
	return filter.New(search, user)
}

type productListResponse struct {
	Total    int                     `json:"total"`
	Matched  int                     `json:"matched"`
	Filters  filter.State            `json:"filters"`
	Products []model.EnrichedProduct `json:"products"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
}

// ListProducts — GET /api/v1/products?q=&user=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var params ListProductsParams
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, filter.ParamSearch, query, &params.Q); err != nil {
		apierrors.ValidationError(w, "Некорректный параметр q: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, filter.ParamUser, query, &params.User); err != nil {
		apierrors.ValidationError(w, "Некорректный параметр user: "+err.Error())
		return
	}

	view, err := h.catalog.Visible(r.Context(), params.State())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, productListResponse{
		Total:    view.Total,
		Matched:  len(view.Items),
		Filters:  view.State,
		Products: view.Items,
	})
}

// ListUsers — GET /api/v1/users
func (h *CatalogHandler) ListUsers(w http.ResponseWriter, _ *http.Request) {
	users := h.catalog.Users()
	if users == nil {
		apierrors.NotReady(w, service.ErrNotLoaded.Error())
		return
	}
	writeJSON(w, http.StatusOK, listResponse[model.User]{Items: users})
}

// ListCategories — GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, _ *http.Request) {
	categories := h.catalog.Categories()
	if categories == nil {
		apierrors.NotReady(w, service.ErrNotLoaded.Error())
		return
	}
	writeJSON(w, http.StatusOK, listResponse[model.Category]{Items: categories})
}

// ReloadCatalog — POST /api/v1/catalog/reload
func (h *CatalogHandler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalog.Reload(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.logger.Info("Каталог перезагружен по запросу",
		slog.Int("products", result.Products),
	)
	writeJSON(w, http.StatusOK, result)
}

// GetOpenAPI — GET /api/v1/openapi.yaml
func (h *CatalogHandler) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openapi.Document())
}

// NotFound — ответ для неизвестных путей /api/v1/*.
func (h *CatalogHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	apierrors.NotFound(w, "Ресурс не найден: "+r.URL.Path)
}

// writeServiceError переводит ошибку сервиса в ответ API.
func (h *CatalogHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotLoaded):
		apierrors.NotReady(w, err.Error())
	case errors.Is(err, repository.ErrSourceUnavailable):
		h.logger.Error("Источник каталога недоступен", slog.String("error", err.Error()))
		apierrors.SourceUnavailable(w, "Источник каталога недоступен")
	default:
		h.logger.Error("Внутренняя ошибка каталога", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Внутренняя ошибка")
	}
}
