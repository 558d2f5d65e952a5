package cart

import (
	"context"
	"encoding/json"

	"github.com/vivicarm/AppIventario/internal/domain"
	"github.com/vivicarm/AppIventario/internal/kv"
)

// DefaultSlot is the key-value slot the cart is persisted under.
const DefaultSlot = "carrito_items"

// Store serializes the cart to a JSON array of {producto, cantidad} objects
// in a single named slot. Loading is fail-safe: a missing slot or any parse
// error yields an empty cart, never an error.
type Store struct {
	kv   kv.Store
	slot string
}

func NewStore(kvs kv.Store, slot string) *Store {
	if slot == "" {
		slot = DefaultSlot
	}
	return &Store{kv: kvs, slot: slot}
}

func (s *Store) Save(ctx context.Context, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.slot, string(payload))
}

func (s *Store) Load(ctx context.Context) []domain.CartLine {
	val, ok, err := s.kv.Get(ctx, s.slot)
	if err != nil || !ok {
		return nil
	}

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(val), &lines); err != nil {
		return nil
	}
	for _, line := range lines {
		if line.Product.ID == "" || line.Quantity < 1 {
			return nil
		}
	}
	return lines
}
