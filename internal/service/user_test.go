package service

import (
	"errors"
	"testing"
)

func TestCreateUserIssuesCredentials(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "create@test.com")

	if user.ID == 0 {
		t.Fatal("user ID should not be zero after create")
	}
	if user.UUID == "" {
		t.Fatal("user uuid missing")
	}
	if len(user.Token) != 32 {
		t.Fatalf("token = %q, want 32 hex chars", user.Token)
	}
	if user.Password == "secret123" {
		t.Fatal("password stored in plaintext")
	}
}

func TestAuthenticate(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "auth@test.com")

	got, err := Authenticate("auth@test.com", "secret123")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("resolved user %d, want %d", got.ID, user.ID)
	}

	if _, err := Authenticate("auth@test.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := Authenticate("nobody@test.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestFindUserByToken(t *testing.T) {
	cleanTables(t)
	user := createTestUser(t, "token@test.com")

	got, err := FindUserByToken(user.Token)
	if err != nil {
		t.Fatalf("FindUserByToken failed: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("resolved user %d, want %d", got.ID, user.ID)
	}

	if _, err := FindUserByToken("deadbeefdeadbeefdeadbeefdeadbeef"); err == nil {
		t.Fatal("unknown token must not resolve")
	}
}

func TestIsEmailExist(t *testing.T) {
	cleanTables(t)
	createTestUser(t, "exists@test.com")

	if !IsEmailExist("exists@test.com") {
		t.Fatal("registered email reported as free")
	}
	if IsEmailExist("free@test.com") {
		t.Fatal("free email reported as taken")
	}
}
