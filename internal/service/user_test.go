package service

import (
	"errors"
	"testing"

	"github.com/homely-dev/homely/internal/models"
)

func TestUserCreateMakesStarterDefaultSpace(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(db)

	user, err := svc.Create("maria", "maria@test.com", "longenough")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.DefaultSpaceID == nil {
		t.Fatal("no default space assigned")
	}

	var space models.Space
	if err := db.First(&space, "uid = ?", *user.DefaultSpaceID).Error; err != nil {
		t.Fatalf("starter space missing: %v", err)
	}
	if space.OwnerID != user.UID {
		t.Fatal("starter space not owned by the new user")
	}
}

func TestUserCreateRejectsShortPassword(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(db)

	_, err := svc.Create("maria", "maria@test.com", "short")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestUpdateMeDefaultSpaceMustBeOwned(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(db)

	user, err := svc.Create("maria", "maria@test.com", "longenough")
	if err != nil {
		t.Fatal(err)
	}
	other := createTestUser(t, db, "other")
	foreign := createTestSpace(t, db, other, "theirs")

	id := foreign.UID.String()
	_, uerr := svc.UpdateMe(user.UID, UpdateUserRequest{DefaultSpace: &id})
	var verr *ValidationError
	if !errors.As(uerr, &verr) {
		t.Fatalf("err = %v, want ValidationError", uerr)
	}

	mine := createTestSpace(t, db, user.UID, "second")
	id = mine.UID.String()
	view, uerr := svc.UpdateMe(user.UID, UpdateUserRequest{DefaultSpace: &id})
	if uerr != nil {
		t.Fatalf("UpdateMe: %v", uerr)
	}
	if view.DefaultSpace != mine.UID.String() {
		t.Fatalf("default_space = %q, want %q", view.DefaultSpace, mine.UID)
	}
}

func TestMeIncludesSpaces(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(db)

	user, err := svc.Create("maria", "maria@test.com", "longenough")
	if err != nil {
		t.Fatal(err)
	}
	createTestSpace(t, db, user.UID, "second")

	view, err := svc.Me(user.UID)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if len(view.Spaces) != 2 {
		t.Fatalf("spaces = %d, want 2", len(view.Spaces))
	}
}
