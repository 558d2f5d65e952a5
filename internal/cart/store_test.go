package cart

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/vivicarm/AppIventario/internal/domain"
	"github.com/vivicarm/AppIventario/internal/kv"
)

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("slot unavailable")
}

func (failingKV) Set(context.Context, string, string) error {
	return errors.New("slot unavailable")
}

func (failingKV) Delete(context.Context, string) error {
	return errors.New("slot unavailable")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemory(), "")

	lines := []domain.CartLine{
		{Product: producto("p1", "Agua Mineral", 2.5), Quantity: 2},
		{Product: producto("p2", "Café Molido", 9.9), Quantity: 1},
		{Product: producto("p3", "Arroz", 4.2), Quantity: 4},
	}
	lines[1].Product.PromoPrice = 8.5
	lines[1].Product.Description = "250g"
	lines[2].Product.CategoryID = "cat-abarrotes"

	if err := store.Save(ctx, lines); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := store.Load(ctx)
	if !reflect.DeepEqual(got, lines) {
		t.Fatalf("round-trip mismatch:\n got %+v\nwant %+v", got, lines)
	}
}

func TestLoadMissingSlotReturnsEmptyCart(t *testing.T) {
	store := NewStore(kv.NewMemory(), "")
	if got := store.Load(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty cart for missing slot, got %+v", got)
	}
}

func TestLoadCorruptPayloadReturnsEmptyCart(t *testing.T) {
	ctx := context.Background()
	slots := kv.NewMemory()
	store := NewStore(slots, "")

	for _, payload := range []string{
		"{not json",
		`[{"producto": {"idProduct": "p1"}, "cantidad": 0}]`,
		`[{"producto": {"idProduct": ""}, "cantidad": 2}]`,
	} {
		if err := slots.Set(ctx, DefaultSlot, payload); err != nil {
			t.Fatalf("seed slot: %v", err)
		}
		if got := store.Load(ctx); len(got) != 0 {
			t.Fatalf("expected empty cart for payload %q, got %+v", payload, got)
		}
	}
}

func TestLoadKVErrorReturnsEmptyCart(t *testing.T) {
	store := NewStore(failingKV{}, "")
	if got := store.Load(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty cart on kv error, got %+v", got)
	}
}
