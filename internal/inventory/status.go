package inventory

import (
	"errors"
	"log"
	"sync"

	"github.com/vivicarm/AppIventario/internal/blobstore"
	"github.com/vivicarm/AppIventario/internal/docstore"
	"github.com/vivicarm/AppIventario/internal/domain"
)

// status carries the transient user-facing strings a screen shows after an
// operation: a message and a connection state. Both survive until the UI
// acknowledges them.
type status struct {
	mu      sync.Mutex
	message string
	conn    string
}

func (s *status) set(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

func (s *status) fail(err error) {
	s.mu.Lock()
	s.message = userMessage(err)
	s.conn = connState(err)
	s.mu.Unlock()
}

func (s *status) Snapshot() (message string, conn string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message, s.conn
}

// Acknowledge clears both strings; called by the UI after showing them.
func (s *status) Acknowledge() {
	s.mu.Lock()
	s.message = ""
	s.conn = ""
	s.mu.Unlock()
}

// userMessage maps the closed backend error set to display text. Matching is
// by sentinel, never by substring of backend error text.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return err.Error()
	case errors.Is(err, docstore.ErrPermissionDenied):
		return "No tienes permisos para realizar esta acción."
	case errors.Is(err, docstore.ErrNotFound):
		return "El registro ya no existe en el servidor."
	case errors.Is(err, docstore.ErrAlreadyExists):
		return "Ya existe un registro con ese identificador."
	case errors.Is(err, docstore.ErrUnavailable):
		return "Sin conexión con el servidor. Inténtalo de nuevo."
	case errors.Is(err, blobstore.ErrNotFound), errors.Is(err, blobstore.ErrInvalidPath):
		return "La imagen no existe o no se pudo subir correctamente."
	default:
		return "Ocurrió un error inesperado."
	}
}

// Blob cleanup is best-effort everywhere: a leaked blob is preferable to
// failing the user's mutation.
func logBlobDeleteFailure(url string, err error) {
	log.Printf("[inventory] WARN: failed to delete blob %s: %v", url, err)
}

func connState(err error) string {
	if errors.Is(err, docstore.ErrUnavailable) {
		return "sin conexión"
	}
	if errors.Is(err, domain.ErrValidation) {
		return ""
	}
	return "error remoto"
}
