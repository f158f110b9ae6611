package openapi

import (
	"context"
	"testing"
)

func TestLoad(t *testing.T) {
	doc, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	for _, path := range []string{
		"/api/v1/products",
		"/api/v1/users",
		"/api/v1/categories",
		"/api/v1/catalog/reload",
		"/api/v1/openapi.yaml",
	} {
		if doc.Paths.Find(path) == nil {
			t.Errorf("путь %s отсутствует в документе", path)
		}
	}
}

func TestDocument_NotEmpty(t *testing.T) {
	if len(Document()) == 0 {
		t.Fatal("встроенный документ пуст")
	}
}
