package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/calmly/calmly-backend/internal/types"
)

func TestUserRepoCreateAssignsID(t *testing.T) {
	repo := NewUserRepo(testDB(t), testLogger(t))
	ctx := context.Background()

	user := &types.User{Name: "Ada", Email: "ada@example.com", Password: "hashed"}
	if err := repo.Create(ctx, nil, user); err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Fatalf("expected generated id, got nil uuid")
	}

	got, err := repo.GetByID(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got == nil || got.Email != "ada@example.com" {
		t.Fatalf("get by id: want ada@example.com, got %+v", got)
	}
}

func TestUserRepoGetByEmailMissing(t *testing.T) {
	repo := NewUserRepo(testDB(t), testLogger(t))

	got, err := repo.GetByEmail(context.Background(), nil, "nobody@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing user, got %+v", got)
	}
}

func TestUserRepoEmailExists(t *testing.T) {
	repo := NewUserRepo(testDB(t), testLogger(t))
	ctx := context.Background()

	if err := repo.Create(ctx, nil, &types.User{Name: "Ada", Email: "ada@example.com", Password: "x"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	exists, err := repo.EmailExists(ctx, nil, "ada@example.com")
	if err != nil {
		t.Fatalf("email exists: %v", err)
	}
	if !exists {
		t.Fatalf("want exists=true for known email")
	}
	exists, err = repo.EmailExists(ctx, nil, "other@example.com")
	if err != nil {
		t.Fatalf("email exists: %v", err)
	}
	if exists {
		t.Fatalf("want exists=false for unknown email")
	}
}

func TestUserRepoDelete(t *testing.T) {
	repo := NewUserRepo(testDB(t), testLogger(t))
	ctx := context.Background()

	user := &types.User{Name: "Ada", Email: "ada@example.com", Password: "x"}
	if err := repo.Create(ctx, nil, user); err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := repo.Delete(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatalf("want deleted=true")
	}
	deleted, err = repo.Delete(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if deleted {
		t.Fatalf("want deleted=false for missing row")
	}
}
