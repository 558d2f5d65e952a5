package cart

import (
	"context"
	"math"
	"testing"

	"github.com/vivicarm/AppIventario/internal/domain"
	"github.com/vivicarm/AppIventario/internal/kv"
)

func producto(id string, name string, price float64) domain.Product {
	return domain.Product{
		ID:        id,
		Name:      name,
		SalePrice: price,
		Stock:     10,
		Images:    []string{"mem://productos/" + id + ".jpg"},
		CreatedAt: "2024-05-01T10:00:00Z",
	}
}

func checkAggregates(t *testing.T, m *Manager) {
	t.Helper()
	items := 0
	price := 0.0
	for _, line := range m.Lines() {
		items += line.Quantity
		price += line.Subtotal()
	}
	if m.TotalItems() != items {
		t.Fatalf("totalItems %d does not match sum of quantities %d", m.TotalItems(), items)
	}
	if math.Abs(m.TotalPrice()-price) > 1e-9 {
		t.Fatalf("totalPrice %f does not match sum of subtotals %f", m.TotalPrice(), price)
	}
}

func TestAddItemMergesQuantities(t *testing.T) {
	m := NewManager(nil)
	p := producto("p1", "Agua", 2.5)

	m.AddItem(p, 2)
	m.AddItem(p, 3)

	lines := m.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(lines))
	}
	if lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", lines[0].Quantity)
	}
	checkAggregates(t, m)
}

func TestSetQuantityZeroEqualsRemove(t *testing.T) {
	m := NewManager(nil)
	p := producto("p1", "Agua", 2.5)

	m.AddItem(p, 2)
	m.SetQuantity("p1", 0)

	if m.Contains("p1") {
		t.Fatalf("expected product removed after SetQuantity 0")
	}
	if len(m.Lines()) != 0 {
		t.Fatalf("expected empty cart")
	}
	checkAggregates(t, m)
}

func TestSetQuantityAbsentProductIsNoop(t *testing.T) {
	m := NewManager(nil)
	m.AddItem(producto("p1", "Agua", 2.5), 1)

	m.SetQuantity("missing", 4)

	if len(m.Lines()) != 1 || m.QuantityOf("p1") != 1 {
		t.Fatalf("expected cart unchanged, got %+v", m.Lines())
	}
}

func TestAggregatesAcrossMutationSequence(t *testing.T) {
	m := NewManager(nil)
	a := producto("a", "Agua", 2.5)
	b := producto("b", "Café", 9.9)
	c := producto("c", "Arroz", 4.2)

	m.AddItem(a, 1)
	checkAggregates(t, m)
	m.AddItem(b, 3)
	checkAggregates(t, m)
	m.AddItem(c, 2)
	checkAggregates(t, m)
	m.SetQuantity("b", 1)
	checkAggregates(t, m)
	m.RemoveItem("a")
	checkAggregates(t, m)
	m.AddItem(c, 4)
	checkAggregates(t, m)
	m.Clear()
	checkAggregates(t, m)

	if m.TotalItems() != 0 || m.TotalPrice() != 0 {
		t.Fatalf("expected zero totals after clear, got %d / %f", m.TotalItems(), m.TotalPrice())
	}
}

func TestScenarioAddTwiceThenRemove(t *testing.T) {
	m := NewManager(nil)
	a := producto("a", "Agua", 2.5)

	m.AddItem(a, 1)
	if m.TotalItems() != 1 {
		t.Fatalf("expected 1 item, got %d", m.TotalItems())
	}
	if m.TotalPrice() != a.SalePrice {
		t.Fatalf("expected total %f, got %f", a.SalePrice, m.TotalPrice())
	}

	m.AddItem(a, 1)
	if m.QuantityOf("a") != 2 || m.TotalItems() != 2 {
		t.Fatalf("expected quantity 2 after second add, got %d", m.QuantityOf("a"))
	}

	m.SetQuantity("a", 0)
	if m.TotalItems() != 0 || len(m.Lines()) != 0 {
		t.Fatalf("expected empty cart after SetQuantity 0")
	}
}

func TestMutationsPersistThroughStore(t *testing.T) {
	slots := kv.NewMemory()
	store := NewStore(slots, "")
	m := NewManager(store)

	m.AddItem(producto("p1", "Agua", 2.5), 2)
	m.AddItem(producto("p2", "Café", 9.9), 1)
	m.Flush()

	restored := NewManager(store)
	restored.Restore(context.Background())

	if restored.TotalItems() != 3 {
		t.Fatalf("expected 3 items after restore, got %d", restored.TotalItems())
	}
	if restored.QuantityOf("p1") != 2 || restored.QuantityOf("p2") != 1 {
		t.Fatalf("unexpected restored quantities: %+v", restored.Lines())
	}
}

func TestPersistFailureKeepsInMemoryState(t *testing.T) {
	store := NewStore(failingKV{}, "")
	m := NewManager(store)

	m.AddItem(producto("p1", "Agua", 2.5), 2)
	m.Flush()

	if m.TotalItems() != 2 {
		t.Fatalf("expected in-memory cart to survive persist failure, got %d items", m.TotalItems())
	}
}
