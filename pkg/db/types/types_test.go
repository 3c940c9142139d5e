package dbtypes

import (
	"testing"

	"github.com/casalia/realty-backend/pkg/enums"
)

func TestRoleArrayRoundTrip(t *testing.T) {
	roles := RoleArray{enums.UserRoleUser, enums.UserRoleAdmin}

	value, err := roles.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if value != "{USER,ADMIN}" {
		t.Fatalf("unexpected literal %q", value)
	}

	var scanned RoleArray
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(scanned) != 2 || scanned[0] != enums.UserRoleUser || scanned[1] != enums.UserRoleAdmin {
		t.Fatalf("unexpected roles %v", scanned)
	}
}

func TestRoleArrayScanRejectsUnknownRole(t *testing.T) {
	var scanned RoleArray
	if err := scanned.Scan("{OWNER}"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestRoleArrayScanNilAndEmpty(t *testing.T) {
	var scanned RoleArray
	if err := scanned.Scan(nil); err != nil {
		t.Fatalf("Scan nil: %v", err)
	}
	if len(scanned) != 0 {
		t.Fatalf("expected empty array")
	}
	if err := scanned.Scan("{}"); err != nil {
		t.Fatalf("Scan empty: %v", err)
	}
	if len(scanned) != 0 {
		t.Fatalf("expected empty array")
	}
}

func TestRoleArrayContains(t *testing.T) {
	roles := RoleArray{enums.UserRoleAdmin}
	if !roles.Contains(enums.UserRoleAdmin) {
		t.Fatalf("expected ADMIN present")
	}
	if roles.Contains(enums.UserRoleSuperAdmin) {
		t.Fatalf("SUPERADMIN should be absent")
	}
}

func TestStringArrayRoundTrip(t *testing.T) {
	imgs := StringArray{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}

	value, err := imgs.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var scanned StringArray
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(scanned) != 2 || scanned[0] != imgs[0] || scanned[1] != imgs[1] {
		t.Fatalf("unexpected values %v", scanned)
	}
}
