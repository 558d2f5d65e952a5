package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/vivicarm/AppIventario/internal/docstore"
	"github.com/vivicarm/AppIventario/internal/domain"
)

func TestDocumentLifecycle(t *testing.T) {
	databaseURL := os.Getenv("INVENTARIO_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set INVENTARIO_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	collection := fmt.Sprintf("productos_it_%d", time.Now().UnixNano())
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1`, collection)
	})

	p := domain.Product{
		ID:        "prod-it-1",
		Name:      "Producto IT",
		SalePrice: 25.5,
		Stock:     3,
		Images:    []string{"https://example.com/p.jpg"},
	}

	if err := s.Create(ctx, collection, p.ID, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Create(ctx, collection, p.ID, p); !errors.Is(err, docstore.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists on duplicate create, got %v", err)
	}

	var got domain.Product
	if err := s.Get(ctx, collection, p.ID, &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != p.Name || got.SalePrice != p.SalePrice {
		t.Fatalf("round-trip mismatch: %+v", got)
	}

	got.Stock = 7
	if err := s.Update(ctx, collection, p.ID, got); err != nil {
		t.Fatalf("update: %v", err)
	}

	raw, err := s.List(ctx, collection)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("expected 1 document, got %d", len(raw))
	}

	if err := s.Delete(ctx, collection, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, collection, p.ID); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
