package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopstack/commerce-api/internal/core/domain"
	"github.com/shopstack/commerce-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

func TestUserService_Create_HashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, discardLogger)

	id, err := svc.Create(context.Background(), ports.CreateUserInput{
		Username: "alice1",
		Password: "pass1",
		FullName: "Alice",
		Role:     domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty id")
	}

	stored := repo.users["alice1"]
	if stored.PasswordHash == "pass1" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestUserService_Create_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	repo.addUser("alice1", "pass1", domain.RoleUser)
	svc := NewUserService(repo, discardLogger)

	_, err := svc.Create(context.Background(), ports.CreateUserInput{
		Username: "alice1",
		Password: "other",
		FullName: "Alice",
		Role:     domain.RoleUser,
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Create_AdminRequiresAdminCaller(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, discardLogger)

	input := ports.CreateUserInput{
		Username: "boss1",
		Password: "pass1",
		FullName: "Boss",
		Role:     domain.RoleAdmin,
	}

	// Anonymous caller.
	if _, err := svc.Create(context.Background(), input); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for anonymous caller, got %v", err)
	}

	// Regular user caller.
	input.Caller = &domain.Identity{Username: "pleb1", Role: domain.RoleUser}
	if _, err := svc.Create(context.Background(), input); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for user caller, got %v", err)
	}

	// Admin caller.
	input.Caller = &domain.Identity{Username: "root1", Role: domain.RoleAdmin}
	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("expected admin caller to succeed, got %v", err)
	}
}

func TestUserService_Update_HashesNewPassword(t *testing.T) {
	repo := newStubUserRepo()
	u := repo.addUser("alice1", "pass1", domain.RoleUser)
	svc := NewUserService(repo, discardLogger)

	newPassword := "fresh5"
	if err := svc.Update(context.Background(), u.ID, ports.UpdateUserInput{Password: &newPassword}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	stored := repo.users["alice1"]
	if stored.PasswordHash == newPassword {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(newPassword)); err != nil {
		t.Fatalf("stored hash does not match new password: %v", err)
	}
}

func TestUserService_Update_RejectsUnknownRole(t *testing.T) {
	repo := newStubUserRepo()
	u := repo.addUser("alice1", "pass1", domain.RoleUser)
	svc := NewUserService(repo, discardLogger)

	bad := "superuser"
	err := svc.Update(context.Background(), u.ID, ports.UpdateUserInput{Role: &bad})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if repo.users["alice1"].Role != domain.RoleUser {
		t.Fatal("role must be unchanged after rejected update")
	}
}

func TestUserService_Delete_NotFound(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), discardLogger)

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_List_OmitsPasswordHashes(t *testing.T) {
	repo := newStubUserRepo()
	repo.addUser("alice1", "pass1", domain.RoleUser)
	repo.addUser("admin1", "pass2", domain.RoleAdmin)
	svc := NewUserService(repo, discardLogger)

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Fatalf("user %s leaked password hash", u.Username)
		}
	}
}
