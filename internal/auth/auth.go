// Package auth adapts the remote authentication backend: sign-up, sign-in,
// sign-out and current-user lookup. Credentials live in their own document
// collection as bcrypt hashes and are never written into profile documents.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vivicarm/AppIventario/internal/docstore"
	"github.com/vivicarm/AppIventario/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidEmail       = errors.New("invalid email address")
)

// credentialRecord is the persisted shape inside the credentials collection,
// keyed by normalized email.
type credentialRecord struct {
	UserID       string `json:"idUser"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	CreatedAt    string `json:"fechaCreacion"`
}

type sessionClaims struct {
	jwtlib.RegisteredClaims
	Email string `json:"email"`
}

// Service signs users in and out and tracks the current session token in
// memory, the way the mobile client holds one signed-in user per process.
type Service struct {
	docs     docstore.Store
	secret   []byte
	tokenTTL time.Duration

	mu    sync.RWMutex
	token string
}

func New(docs docstore.Store, secret string, tokenTTL time.Duration) *Service {
	if secret == "" {
		secret = "dev-change-me"
	}
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}
	return &Service{
		docs:     docs,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// SignUp registers a credential record and returns the new user identifier.
func (s *Service) SignUp(ctx context.Context, email string, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", ErrInvalidEmail
	}
	if len(strings.TrimSpace(password)) < 6 {
		return "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	rec := credentialRecord{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.docs.Create(ctx, domain.CollectionCredentials, email, rec); err != nil {
		if errors.Is(err, docstore.ErrAlreadyExists) {
			return "", ErrEmailTaken
		}
		return "", err
	}
	return rec.UserID, nil
}

// SignIn verifies the password and opens a session for the process.
func (s *Service) SignIn(ctx context.Context, email string, password string) error {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return ErrInvalidCredentials
	}

	var rec credentialRecord
	if err := s.docs.Get(ctx, domain.CollectionCredentials, email, &rec); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}

	token, err := s.sign(rec.UserID, email)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *Service) SignOut() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

// CurrentUser returns the signed-in user identifier, or false when no valid
// session exists (signed out or token expired).
func (s *Service) CurrentUser() (string, bool) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return "", false
	}

	claims := &sessionClaims{}
	parsed, err := jwtlib.ParseWithClaims(token, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return "", false
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}

func (s *Service) sign(userID string, email string) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwtlib.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwtlib.NewNumericDate(time.Now().UTC().Add(s.tokenTTL)),
			Issuer:    "appinventario",
		},
		Email: email,
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func normalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") || strings.ContainsAny(email, " \t\r\n") {
		return ""
	}
	return email
}
