package model

import (
	"reflect"
	"testing"
)

func TestNewPermissionsDedupesInOrder(t *testing.T) {
	got := NewPermissions(PermissionUser, PermissionAdmin, PermissionUser, PermissionItemDelete, PermissionAdmin)
	want := Permissions{PermissionUser, PermissionAdmin, PermissionItemDelete}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NewPermissions() = %v, want %v", got, want)
	}
}

func TestPermissionsHasAny(t *testing.T) {
	tests := []struct {
		name string
		have Permissions
		want []Permission
		ok   bool
	}{
		{"empty set", nil, []Permission{PermissionAdmin}, false},
		{"exact match", Permissions{PermissionAdmin}, []Permission{PermissionAdmin}, true},
		{"one of many", Permissions{PermissionUser, PermissionItemDelete}, []Permission{PermissionAdmin, PermissionItemDelete}, true},
		{"no hierarchy", Permissions{PermissionAdmin}, []Permission{PermissionItemDelete}, false},
		{"nothing wanted", Permissions{PermissionAdmin}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.have.HasAny(tt.want...); got != tt.ok {
				t.Errorf("HasAny(%v) = %v, want %v", tt.want, got, tt.ok)
			}
		})
	}
}

func TestParsePermission(t *testing.T) {
	if p, ok := ParsePermission("ITEMDELETE"); !ok || p != PermissionItemDelete {
		t.Errorf("ParsePermission(ITEMDELETE) = %q, %v", p, ok)
	}
	if _, ok := ParsePermission("itemdelete"); ok {
		t.Error("ParsePermission should be case sensitive")
	}
	if _, ok := ParsePermission("SUPERUSER"); ok {
		t.Error("ParsePermission accepted an unknown label")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  User@Example.COM "); got != "user@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestSanitizedDropsSecrets(t *testing.T) {
	u := User{ID: "u1", Password: "hash", ResetToken: "tok", Permissions: Permissions{PermissionUser}}
	s := u.Sanitized()
	if s.Password != "" || s.ResetToken != "" || s.ResetTokenExpiry != nil {
		t.Errorf("Sanitized() kept secrets: %+v", s)
	}
	s.Permissions[0] = PermissionAdmin
	if u.Permissions[0] != PermissionUser {
		t.Error("Sanitized() shares the permissions slice with the receiver")
	}
}
