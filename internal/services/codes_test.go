package services

import (
	"testing"

	"vestisen/internal/models"
)

func TestUniqueCodeShape(t *testing.T) {
	db := setupTestDB(t)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := UniqueCode(db, &models.User{})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 18 {
			t.Fatalf("expected 18 chars, got %q", code)
		}
		for _, r := range code {
			if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
				t.Fatalf("unexpected character %q in code %q", r, code)
			}
		}
		if seen[code] {
			t.Fatalf("duplicate code %q", code)
		}
		seen[code] = true
	}
}

func TestUniqueCodeAvoidsCollisions(t *testing.T) {
	db := setupTestDB(t)

	user := seedUser(t, db, "taken@test.sn", models.RoleUser, 0)
	for i := 0; i < 20; i++ {
		code, err := UniqueCode(db, &models.User{})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if code == user.Code {
			t.Fatalf("generated a code already in use")
		}
	}
}
