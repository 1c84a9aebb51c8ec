package service

import (
	"context"
	"errors"
	"testing"

	"neuropharm-backend/internal/domain/apperr"
	"neuropharm-backend/internal/domain/entity"
	"neuropharm-backend/internal/repository"
	"neuropharm-backend/internal/testutil"

	"github.com/google/uuid"
)

func TestUserDirectoryLookup(t *testing.T) {
	db := testutil.NewDB(t)
	directory := NewUserDirectory(db, testutil.Logger(), repository.NewUserRepository())
	doctor := testutil.SeedUser(t, db, entity.RoleDoctor, "doctor")

	user, err := directory.Lookup(context.Background(), doctor.ID)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if user.Email != doctor.Email || user.Role != entity.RoleDoctor {
		t.Fatalf("got %+v", user)
	}

	_, err = directory.Lookup(context.Background(), uuid.New())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown id: got %v, want not found", err)
	}
}
