package authz

import (
	"errors"
	"testing"

	"github.com/sickfits/sickfits-go/internal/model"
)

func user(id string, perms ...model.Permission) *model.User {
	return &model.User{ID: id, Permissions: model.NewPermissions(perms...)}
}

func TestCanDeleteItem(t *testing.T) {
	item := &model.Item{ID: "item-1", UserID: "owner"}

	tests := []struct {
		name    string
		actor   *model.User
		wantErr error
	}{
		{"anonymous", nil, ErrUnauthenticated},
		{"owner without elevated permissions", user("owner", model.PermissionUser), nil},
		{"non-owner with ADMIN", user("other", model.PermissionUser, model.PermissionAdmin), nil},
		{"non-owner with ITEMDELETE", user("other", model.PermissionItemDelete), nil},
		{"non-owner with USER only", user("other", model.PermissionUser), ErrForbidden},
		{"non-owner with ITEMUPDATE only", user("other", model.PermissionItemUpdate), ErrForbidden},
		{"non-owner with PERMISSIONUPDATE only", user("other", model.PermissionPermissionUpdate), ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanDeleteItem(tt.actor, item)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CanDeleteItem() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCanUpdateItem(t *testing.T) {
	item := &model.Item{ID: "item-1", UserID: "owner"}

	tests := []struct {
		name    string
		actor   *model.User
		wantErr error
	}{
		{"anonymous", nil, ErrUnauthenticated},
		{"owner without elevated permissions", user("owner"), nil},
		{"non-owner with ADMIN", user("other", model.PermissionAdmin), nil},
		{"non-owner with ITEMDELETE", user("other", model.PermissionItemDelete), nil},
		{"non-owner with ITEMUPDATE", user("other", model.PermissionItemUpdate), nil},
		{"non-owner with USER only", user("other", model.PermissionUser), ErrForbidden},
		{"non-owner with ITEMCREATE only", user("other", model.PermissionItemCreate), ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanUpdateItem(tt.actor, item)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CanUpdateItem() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCanManagePermissions(t *testing.T) {
	tests := []struct {
		name    string
		actor   *model.User
		wantErr error
	}{
		{"anonymous", nil, ErrUnauthenticated},
		{"empty id", &model.User{Permissions: model.Permissions{model.PermissionAdmin}}, ErrUnauthenticated},
		{"ADMIN", user("a", model.PermissionAdmin), nil},
		{"PERMISSIONUPDATE", user("a", model.PermissionPermissionUpdate), nil},
		{"USER", user("a", model.PermissionUser), ErrForbidden},
		{"ITEMDELETE", user("a", model.PermissionItemDelete), ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanManagePermissions(tt.actor)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CanManagePermissions() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthorizeEmptyOwnerIsNotABypass(t *testing.T) {
	actor := &model.User{ID: "u1"}
	if err := Authorize(actor, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("Authorize() error = %v, want ErrForbidden", err)
	}
}
