// Package docstore defines the contract for the remote document backend.
// Collections hold JSON records keyed by a string identifier. Every call is
// assumed network-bound, fallible and slow; callers never retry — a failed
// write is surfaced once and reconciled by the view-state layer.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
)

// Closed error taxonomy for the backend boundary. Callers match these with
// errors.Is instead of inspecting backend error text.
var (
	ErrInvalidID        = errors.New("invalid document id")
	ErrNotFound         = errors.New("document not found")
	ErrAlreadyExists    = errors.New("document already exists")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnavailable      = errors.New("backend unavailable")
)

type Store interface {
	// Create stores a new document. An empty id is rejected; an existing id
	// returns ErrAlreadyExists.
	Create(ctx context.Context, collection string, id string, doc any) error
	Get(ctx context.Context, collection string, id string, out any) error
	List(ctx context.Context, collection string) ([]json.RawMessage, error)
	// Update overwrites an existing document; missing ids return ErrNotFound.
	Update(ctx context.Context, collection string, id string, doc any) error
	Delete(ctx context.Context, collection string, id string) error
}

// DecodeAll unmarshals a listed collection into typed records.
func DecodeAll[T any](raw []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
