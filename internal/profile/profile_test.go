package profile

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vivicarm/AppIventario/internal/auth"
	"github.com/vivicarm/AppIventario/internal/docstore/memory"
	"github.com/vivicarm/AppIventario/internal/domain"
)

func newFixture() (*Manager, *auth.Service, *memory.Store) {
	docs := memory.New()
	authSvc := auth.New(docs, "unit-test-secret-0123456789abcdef", time.Hour)
	return NewManager(docs, authSvc), authSvc, docs
}

func TestRegisterCreatesProfileWithoutPassword(t *testing.T) {
	ctx := context.Background()
	m, _, docs := newFixture()

	user, err := m.Register(ctx, domain.User{
		Name:    "Vivi",
		Surname: "Carmona",
		Gender:  "F",
		Email:   "Vivi@Example.com",
	}, "secreto123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected assigned user id")
	}
	if user.Email != "vivi@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}

	raw, err := docs.List(ctx, domain.CollectionUsers)
	if err != nil {
		t.Fatalf("list profiles: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("expected one profile document, got %d", len(raw))
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw[0], &fields); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	for key := range fields {
		if strings.Contains(strings.ToLower(key), "pass") || strings.Contains(key, "contrase") {
			t.Fatalf("profile document must not carry password fields, found %q", key)
		}
	}
}

func TestRegisterRequiresName(t *testing.T) {
	m, _, _ := newFixture()
	_, err := m.Register(context.Background(), domain.User{Email: "vivi@example.com"}, "secreto123")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoadAndSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	m, authSvc, _ := newFixture()

	registered, err := m.Register(ctx, domain.User{Name: "Vivi", Email: "vivi@example.com"}, "secreto123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := authSvc.SignIn(ctx, "vivi@example.com", "secreto123"); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	loaded, err := m.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ID != registered.ID || loaded.Name != "Vivi" {
		t.Fatalf("unexpected profile: %+v", loaded)
	}

	loaded.Surname = "Carmona"
	if err := m.Save(ctx, loaded); err != nil {
		t.Fatalf("save: %v", err)
	}

	again, err := m.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Surname != "Carmona" {
		t.Fatalf("expected saved surname, got %q", again.Surname)
	}
}

func TestLoadWithoutSession(t *testing.T) {
	m, _, _ := newFixture()
	if _, err := m.Load(context.Background()); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
	if err := m.Save(context.Background(), domain.User{Name: "Vivi"}); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("expected ErrNotSignedIn on save, got %v", err)
	}
}

func TestGreeting(t *testing.T) {
	cases := []struct {
		user domain.User
		want string
	}{
		{domain.User{Name: "Vivi", Surname: "Carmona"}, "Hola, Vivi Carmona"},
		{domain.User{Name: "Vivi"}, "Hola, Vivi"},
		{domain.User{}, "Hola"},
	}
	for _, tc := range cases {
		if got := Greeting(tc.user); got != tc.want {
			t.Fatalf("Greeting(%+v) = %q, want %q", tc.user, got, tc.want)
		}
	}
}
