// Package cart owns the in-memory shopping cart for the lifetime of the
// process and persists it opportunistically to a local key-value slot.
// The in-memory state is ground truth; a failed persist is logged and
// swallowed.
package cart

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/vivicarm/AppIventario/internal/domain"
)

const persistTimeout = 5 * time.Second

// Manager maintains the authoritative cart and its derived aggregates.
// All methods are safe for concurrent use; each mutation recomputes the
// totals synchronously and schedules a best-effort persist.
type Manager struct {
	mu         sync.Mutex
	lines      []domain.CartLine
	totalItems int
	totalPrice float64

	store    *Store // nil disables persistence
	persists sync.WaitGroup

	// Persists run concurrently; the sequence number keeps a stale
	// snapshot from overwriting a newer one in the slot.
	seq          uint64 // guarded by mu
	persistMu    sync.Mutex
	persistedSeq uint64 // guarded by persistMu
}

func NewManager(store *Store) *Manager {
	return &Manager{store: store}
}

// Restore loads the persisted cart into memory. Intended to run once at
// startup; a missing or corrupt slot yields an empty cart.
func (m *Manager) Restore(ctx context.Context) {
	if m.store == nil {
		return
	}
	lines := m.store.Load(ctx)

	m.mu.Lock()
	m.lines = lines
	m.recomputeLocked()
	m.mu.Unlock()
}

// AddItem merges the quantity into an existing line for the same product or
// appends a new line. Quantities below 1 are treated as 1.
func (m *Manager) AddItem(p domain.Product, qty int) {
	if qty < 1 {
		qty = 1
	}

	m.mu.Lock()
	merged := false
	for i := range m.lines {
		if m.lines[i].Product.ID == p.ID {
			m.lines[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		m.lines = append(m.lines, domain.CartLine{Product: p, Quantity: qty})
	}
	m.recomputeLocked()
	seq, snapshot := m.stagePersistLocked()
	m.mu.Unlock()

	m.persistAsync(seq, snapshot)
}

// RemoveItem deletes the line for productID. No-op if absent.
func (m *Manager) RemoveItem(productID string) {
	m.mu.Lock()
	kept := m.lines[:0]
	for _, line := range m.lines {
		if line.Product.ID != productID {
			kept = append(kept, line)
		}
	}
	m.lines = kept
	m.recomputeLocked()
	seq, snapshot := m.stagePersistLocked()
	m.mu.Unlock()

	m.persistAsync(seq, snapshot)
}

// SetQuantity replaces the quantity of an existing line. A quantity of zero
// or less removes the line; an absent product is a no-op.
func (m *Manager) SetQuantity(productID string, qty int) {
	if qty <= 0 {
		m.RemoveItem(productID)
		return
	}

	m.mu.Lock()
	changed := false
	for i := range m.lines {
		if m.lines[i].Product.ID == productID {
			m.lines[i].Quantity = qty
			changed = true
			break
		}
	}
	if !changed {
		m.mu.Unlock()
		return
	}
	m.recomputeLocked()
	seq, snapshot := m.stagePersistLocked()
	m.mu.Unlock()

	m.persistAsync(seq, snapshot)
}

func (m *Manager) Clear() {
	m.mu.Lock()
	m.lines = nil
	m.recomputeLocked()
	seq, snapshot := m.stagePersistLocked()
	m.mu.Unlock()

	m.persistAsync(seq, snapshot)
}

func (m *Manager) Contains(productID string) bool {
	return m.QuantityOf(productID) > 0
}

// QuantityOf returns the quantity in the cart, 0 if the product is absent.
func (m *Manager) QuantityOf(productID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, line := range m.lines {
		if line.Product.ID == productID {
			return line.Quantity
		}
	}
	return 0
}

func (m *Manager) Lines() []domain.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyLinesLocked()
}

func (m *Manager) TotalItems() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalItems
}

func (m *Manager) TotalPrice() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalPrice
}

// Summary is a consistent snapshot of the cart and its totals, the data the
// cart screen renders.
type Summary struct {
	Lines      []domain.CartLine
	TotalItems int
	TotalPrice float64
}

func (m *Manager) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Summary{
		Lines:      m.copyLinesLocked(),
		TotalItems: m.totalItems,
		TotalPrice: m.totalPrice,
	}
}

// Flush waits for in-flight persists. Called on shutdown and in tests.
func (m *Manager) Flush() {
	m.persists.Wait()
}

func (m *Manager) recomputeLocked() {
	items := 0
	price := 0.0
	for _, line := range m.lines {
		items += line.Quantity
		price += line.Subtotal()
	}
	m.totalItems = items
	m.totalPrice = price
}

func (m *Manager) copyLinesLocked() []domain.CartLine {
	return append([]domain.CartLine(nil), m.lines...)
}

func (m *Manager) stagePersistLocked() (uint64, []domain.CartLine) {
	m.seq++
	return m.seq, m.copyLinesLocked()
}

func (m *Manager) persistAsync(seq uint64, lines []domain.CartLine) {
	if m.store == nil {
		return
	}
	m.persists.Add(1)
	go func() {
		defer m.persists.Done()

		m.persistMu.Lock()
		defer m.persistMu.Unlock()
		if seq <= m.persistedSeq {
			// A newer snapshot already reached the slot.
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := m.store.Save(ctx, lines); err != nil {
			log.Printf("[cart] WARN: failed to persist cart: %v", err)
			return
		}
		m.persistedSeq = seq
	}()
}
