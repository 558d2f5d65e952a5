package main

import "testing"

func TestValidateAuthSecretRejectsShortValues(t *testing.T) {
	if err := validateAuthSecret("short"); err == nil {
		t.Fatalf("expected short AUTH_SECRET to be rejected")
	}
}

func TestValidateAuthSecretAcceptsStrongValues(t *testing.T) {
	if err := validateAuthSecret("0123456789abcdef0123456789abcdef"); err != nil {
		t.Fatalf("expected strong secret to pass, got %v", err)
	}
}
