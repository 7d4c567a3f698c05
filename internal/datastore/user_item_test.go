package datastore

import (
	"context"
	"testing"
	"time"
)

func TestClearRolesSkipsRowUpdatedSinceListing(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	item, err := GrantUserItem(ctx, db, "guild-1", "user-1", 10, nil, base)
	if err != nil {
		t.Fatal(err)
	}

	roleID := "role-old"
	expired := base.Add(-1 * time.Hour)
	if err := UpdateCurrentRole(ctx, db, item.ID, &roleID, nil, &expired, base); err != nil {
		t.Fatal(err)
	}

	listed, err := FindEffectExpired(ctx, db, base, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 effect-expired row, got %d", len(listed))
	}
	snapshot := listed[0]

	// a concurrent exchange commits after the listing
	freshRole := "role-new"
	freshExpiry := base.Add(48 * time.Hour)
	exchangedAt := base.Add(1 * time.Minute)
	if err := UpdateCurrentRole(ctx, db, item.ID, &freshRole, nil, &freshExpiry, exchangedAt); err != nil {
		t.Fatal(err)
	}

	ok, err := ClearRoles(ctx, db, snapshot.ID, snapshot.UpdatedAt, base.Add(2*time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("clear should not touch a row updated since it was listed")
	}

	current, err := FindUserItem(ctx, db, "guild-1", "user-1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if current.CurrentRoleID == nil || *current.CurrentRoleID != freshRole {
		t.Fatalf("fresh role should survive, got %v", current.CurrentRoleID)
	}
	if current.RoleExpiresAt == nil || !current.RoleExpiresAt.Equal(freshExpiry) {
		t.Fatalf("fresh role expiry should survive, got %v", current.RoleExpiresAt)
	}
}

func TestClearRolesIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	item, err := GrantUserItem(ctx, db, "guild-1", "user-1", 10, nil, base)
	if err != nil {
		t.Fatal(err)
	}

	roleID := "role-a"
	expired := base.Add(-1 * time.Hour)
	if err := UpdateCurrentRole(ctx, db, item.ID, &roleID, nil, &expired, base); err != nil {
		t.Fatal(err)
	}

	current, err := FindUserItem(ctx, db, "guild-1", "user-1", 10)
	if err != nil {
		t.Fatal(err)
	}

	ok, err := ClearRoles(ctx, db, current.ID, current.UpdatedAt, base.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("first clear should succeed")
	}

	cleared, err := FindUserItem(ctx, db, "guild-1", "user-1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if cleared.CurrentRoleID != nil || cleared.RoleExpiresAt != nil {
		t.Fatal("role fields should be nulled after clear")
	}

	ok, err = ClearRoles(ctx, db, current.ID, current.UpdatedAt, base.Add(2*time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("second clear of the same snapshot should match nothing")
	}
}
