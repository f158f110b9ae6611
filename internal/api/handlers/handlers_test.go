package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yuriy-komolov/product-categories/internal/domain/model"
	"github.com/yuriy-komolov/product-categories/internal/repository"
	"github.com/yuriy-komolov/product-categories/internal/service"
)

// mockChecker — заглушка ReadinessChecker.
type mockChecker struct {
	status  string
	message string
}

func (m mockChecker) CheckReady() (string, string) { return m.status, m.message }

// switchSource — источник, который можно перевести в состояние ошибки.
type switchSource struct {
	fail bool
}

func (s *switchSource) Name() string { return "switch" }

func (s *switchSource) LoadDataset(ctx context.Context) (model.Dataset, error) {
	if s.fail {
		return model.Dataset{}, fmt.Errorf("%w: соединение отклонено", repository.ErrSourceUnavailable)
	}
	return repository.NewFixtureSource().LoadDataset(ctx)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(t *testing.T, loaded bool) (*CatalogHandler, *switchSource) {
	t.Helper()
	src := &switchSource{}
	svc := service.NewCatalogService(src, nil, 0, discardLogger())
	if loaded {
		if err := svc.Load(context.Background()); err != nil {
			t.Fatalf("ошибка загрузки каталога: %v", err)
		}
	}
	return NewCatalogHandler(svc, discardLogger()), src
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("ошибка декодирования ответа: %v", err)
	}
	return v
}

func TestListProducts(t *testing.T) {
	h, _ := newTestHandler(t, true)

	tests := []struct {
		name      string
		query     string
		wantNames []string
		wantUser  string
	}{
		{"без фильтров", "", nil, "all"},
		{"поиск и владелец", "?q=ap&user=Roma", []string{"Laptop"}, "Roma"},
		{"регистр не важен", "?q=AP&user=Anna", []string{"Apple", "Apricot"}, "Anna"},
		{"явный all", "?q=be&user=all", []string{"Beer"}, "all"},
		{"неизвестный владелец", "?user=Nobody", []string{}, "Nobody"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ListProducts(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products"+tt.query, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("статус = %d, тело: %s", rec.Code, rec.Body.String())
			}
			resp := decode[productListResponse](t, rec)

			if resp.Total != 12 {
				t.Errorf("total = %d, ожидается 12", resp.Total)
			}
			if resp.Filters.User != tt.wantUser {
				t.Errorf("filters.user = %q, ожидается %q", resp.Filters.User, tt.wantUser)
			}
			if resp.Matched != len(resp.Products) {
				t.Errorf("matched = %d, products = %d", resp.Matched, len(resp.Products))
			}
			if tt.wantNames == nil {
				if len(resp.Products) != 12 {
					t.Errorf("ожидается 12 товаров, получено %d", len(resp.Products))
				}
				return
			}

			got := make([]string, 0, len(resp.Products))
			for _, p := range resp.Products {
				got = append(got, p.Name)
			}
			if strings.Join(got, ",") != strings.Join(tt.wantNames, ",") {
				t.Errorf("товары = %v, ожидается %v", got, tt.wantNames)
			}
		})
	}
}

func TestListProducts_ResolvedReferences(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rec := httptest.NewRecorder()
	h.ListProducts(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?q=milk", nil))
	resp := decode[productListResponse](t, rec)

	if len(resp.Products) != 1 {
		t.Fatalf("ожидается 1 товар, получено %d", len(resp.Products))
	}
	milk := resp.Products[0]
	if milk.Category == nil || milk.Category.Title != "Drinks" {
		t.Errorf("категория = %+v, ожидается Drinks", milk.Category)
	}
	if milk.User == nil || milk.User.Name != "Roma" {
		t.Errorf("владелец = %+v, ожидается Roma", milk.User)
	}
}

func TestListProducts_RepeatedParam(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rec := httptest.NewRecorder()
	h.ListProducts(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?q=a&q=b", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("статус = %d, ожидается 400", rec.Code)
	}
}

func TestListProducts_NotLoaded(t *testing.T) {
	h, _ := newTestHandler(t, false)

	rec := httptest.NewRecorder()
	h.ListProducts(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("статус = %d, ожидается 503", rec.Code)
	}
}

func TestListUsersAndCategories(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rec := httptest.NewRecorder()
	h.ListUsers(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
	users := decode[listResponse[model.User]](t, rec)
	if len(users.Items) != 4 || users.Items[0].Name != "Roma" {
		t.Errorf("пользователи = %+v", users.Items)
	}

	rec = httptest.NewRecorder()
	h.ListCategories(rec, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	categories := decode[listResponse[model.Category]](t, rec)
	if len(categories.Items) != 5 || categories.Items[0].Title != "Grocery" {
		t.Errorf("категории = %+v", categories.Items)
	}
}

func TestListUsers_NotLoaded(t *testing.T) {
	h, _ := newTestHandler(t, false)

	rec := httptest.NewRecorder()
	h.ListUsers(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("статус = %d, ожидается 503", rec.Code)
	}
}

func TestReloadCatalog(t *testing.T) {
	h, src := newTestHandler(t, true)

	rec := httptest.NewRecorder()
	h.ReloadCatalog(rec, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d, тело: %s", rec.Code, rec.Body.String())
	}
	result := decode[service.ReloadResult](t, rec)
	if result.Source != "switch" || result.Products != 12 || result.Users != 4 {
		t.Errorf("результат = %+v", result)
	}

	src.fail = true
	rec = httptest.NewRecorder()
	h.ReloadCatalog(rec, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("статус = %d, ожидается 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "SOURCE_UNAVAILABLE") {
		t.Errorf("тело = %s", rec.Body.String())
	}
}

func TestGetOpenAPI(t *testing.T) {
	h, _ := newTestHandler(t, false)

	rec := httptest.NewRecorder()
	h.GetOpenAPI(rec, httptest.NewRequest(http.MethodGet, "/api/v1/openapi.yaml", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "openapi: 3") {
		t.Errorf("тело не похоже на OpenAPI документ")
	}
}

func TestNotFound(t *testing.T) {
	h, _ := newTestHandler(t, false)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/api/v1/missing", nil))
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "NOT_FOUND") {
		t.Errorf("статус = %d, тело = %s", rec.Code, rec.Body.String())
	}
}

func TestHealthLive(t *testing.T) {
	h := NewHealthHandler(nil, nil)
	rec := httptest.NewRecorder()
	h.HealthLive(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидается 200", rec.Code)
	}
	resp := decode[healthLiveResponse](t, rec)
	if resp.Status != "ok" || resp.Service != serviceName {
		t.Errorf("ответ = %+v", resp)
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name       string
		catalog    ReadinessChecker
		pg         ReadinessChecker
		wantStatus string
		wantCode   int
		wantPG     bool
	}{
		{"fixtures ok", mockChecker{"ok", ""}, nil, "ok", http.StatusOK, false},
		{"каталог не загружен", mockChecker{"fail", "нет"}, nil, "fail", http.StatusServiceUnavailable, false},
		{"postgres ok", mockChecker{"ok", ""}, mockChecker{"ok", ""}, "ok", http.StatusOK, true},
		{"postgres degraded", mockChecker{"ok", ""}, mockChecker{"degraded", "медленно"}, "degraded", http.StatusOK, true},
		{"postgres fail", mockChecker{"ok", ""}, mockChecker{"fail", "down"}, "fail", http.StatusServiceUnavailable, true},
		{"checker nil", nil, nil, "fail", http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.catalog, tt.pg)
			rec := httptest.NewRecorder()
			h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("код = %d, ожидается %d", rec.Code, tt.wantCode)
			}
			resp := decode[healthReadyResponse](t, rec)
			if resp.Status != tt.wantStatus {
				t.Errorf("status = %q, ожидается %q", resp.Status, tt.wantStatus)
			}
			if (resp.Checks.PostgreSQL != nil) != tt.wantPG {
				t.Errorf("наличие проверки postgresql = %v, ожидается %v", resp.Checks.PostgreSQL != nil, tt.wantPG)
			}
		})
	}
}

func TestGetMetrics(t *testing.T) {
	h := NewHealthHandler(nil, nil)
	rec := httptest.NewRecorder()
	h.GetMetrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("статус = %d, ожидается 200", rec.Code)
	}
}

func TestOverallStatus(t *testing.T) {
	tests := []struct {
		statuses []string
		want     string
	}{
		{[]string{"ok"}, "ok"},
		{[]string{"ok", "degraded"}, "degraded"},
		{[]string{"degraded", "fail"}, "fail"},
		{nil, "ok"},
	}
	for _, tt := range tests {
		if got := overallStatus(tt.statuses...); got != tt.want {
			t.Errorf("overallStatus(%v) = %q, ожидается %q", tt.statuses, got, tt.want)
		}
	}
}
