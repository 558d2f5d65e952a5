// Package profile manages the signed-in user's profile document.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vivicarm/AppIventario/internal/auth"
	"github.com/vivicarm/AppIventario/internal/docstore"
	"github.com/vivicarm/AppIventario/internal/domain"
)

var ErrNotSignedIn = errors.New("no user is signed in")

type Manager struct {
	docs docstore.Store
	auth *auth.Service
}

func NewManager(docs docstore.Store, authSvc *auth.Service) *Manager {
	return &Manager{docs: docs, auth: authSvc}
}

// Register creates the credential record and the initial profile document in
// one step, the sign-up flow of the app. The profile never carries the
// password.
func (m *Manager) Register(ctx context.Context, user domain.User, password string) (domain.User, error) {
	if strings.TrimSpace(user.Name) == "" {
		return domain.User{}, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrValidation)
	}

	userID, err := m.auth.SignUp(ctx, user.Email, password)
	if err != nil {
		return domain.User{}, err
	}

	user.ID = userID
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := m.docs.Create(ctx, domain.CollectionUsers, userID, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Load fetches the current user's profile document.
func (m *Manager) Load(ctx context.Context) (domain.User, error) {
	userID, ok := m.auth.CurrentUser()
	if !ok {
		return domain.User{}, ErrNotSignedIn
	}

	var user domain.User
	if err := m.docs.Get(ctx, domain.CollectionUsers, userID, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Save overwrites the current user's profile document.
func (m *Manager) Save(ctx context.Context, user domain.User) error {
	userID, ok := m.auth.CurrentUser()
	if !ok {
		return ErrNotSignedIn
	}
	if strings.TrimSpace(user.Name) == "" {
		return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrValidation)
	}

	user.ID = userID
	return m.docs.Update(ctx, domain.CollectionUsers, userID, user)
}

// Greeting builds the display string for the home screen header.
func Greeting(user domain.User) string {
	name := strings.TrimSpace(strings.TrimSpace(user.Name) + " " + strings.TrimSpace(user.Surname))
	if name == "" {
		return "Hola"
	}
	return "Hola, " + name
}
