package memory

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/vivicarm/AppIventario/internal/domain"
)

// NewSeeded returns a store pre-filled with demo categories and products for
// running the harness without a DATABASE_URL. Never used in production.
func NewSeeded() *Store {
	s := New()
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339)

	bebidas := domain.Category{
		ID:          uuid.NewString(),
		Name:        "Bebidas",
		Description: "Bebidas frías y calientes",
	}
	abarrotes := domain.Category{
		ID:          uuid.NewString(),
		Name:        "Abarrotes",
		Description: "Productos de despensa",
	}
	for _, c := range []domain.Category{bebidas, abarrotes} {
		if err := s.Create(ctx, domain.CollectionCategories, c.ID, c); err != nil {
			log.Fatalf("[memory-store] failed to seed category %s: %v", c.Name, err)
		}
	}

	products := []domain.Product{
		{Name: "Agua Mineral 600ml", CostPrice: 1.2, SalePrice: 2.5, Stock: 48, CategoryID: bebidas.ID},
		{Name: "Café Molido 250g", CostPrice: 6.0, SalePrice: 9.9, PromoPrice: 8.5, Stock: 20, CategoryID: bebidas.ID},
		{Name: "Arroz 1kg", CostPrice: 2.8, SalePrice: 4.2, Stock: 35, CategoryID: abarrotes.ID},
		{Name: "Azúcar 1kg", CostPrice: 2.1, SalePrice: 3.6, Stock: 40, CategoryID: abarrotes.ID},
	}
	for _, p := range products {
		p.ID = uuid.NewString()
		p.CreatedAt = now
		if err := s.Create(ctx, domain.CollectionProducts, p.ID, p); err != nil {
			log.Fatalf("[memory-store] failed to seed product %s: %v", p.Name, err)
		}
	}

	return s
}
