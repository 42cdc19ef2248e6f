// Package authz holds the permission and ownership checks applied before
// items or permissions are changed. Every check is a pure function of
// already-loaded data.
package authz

import (
	"errors"

	"github.com/sickfits/sickfits-go/internal/model"
)

var (
	ErrUnauthenticated = errors.New("you must be signed in to do that")
	ErrForbidden       = errors.New("you don't have permission to do that")
)

var (
	ItemUpdaters       = []model.Permission{model.PermissionAdmin, model.PermissionItemDelete, model.PermissionItemUpdate}
	ItemDeleters       = []model.Permission{model.PermissionAdmin, model.PermissionItemDelete}
	PermissionUpdaters = []model.Permission{model.PermissionAdmin, model.PermissionPermissionUpdate}
)

// RequireUser fails with ErrUnauthenticated when there is no actor.
func RequireUser(actor *model.User) error {
	if actor == nil || actor.ID == "" {
		return ErrUnauthenticated
	}
	return nil
}

// Authorize allows actor when it owns the resource or holds any of anyOf.
// An empty ownerID means the resource has no owner bypass.
func Authorize(actor *model.User, ownerID string, anyOf ...model.Permission) error {
	if err := RequireUser(actor); err != nil {
		return err
	}
	if ownerID != "" && ownerID == actor.ID {
		return nil
	}
	if actor.Permissions.HasAny(anyOf...) {
		return nil
	}
	return ErrForbidden
}

// CanUpdateItem checks ownership or ADMIN/ITEMDELETE/ITEMUPDATE.
func CanUpdateItem(actor *model.User, item *model.Item) error {
	return Authorize(actor, item.UserID, ItemUpdaters...)
}

// CanDeleteItem checks ownership or ADMIN/ITEMDELETE.
func CanDeleteItem(actor *model.User, item *model.Item) error {
	return Authorize(actor, item.UserID, ItemDeleters...)
}

// CanManagePermissions checks ADMIN/PERMISSIONUPDATE. Nobody owns another user's permissions.
func CanManagePermissions(actor *model.User) error {
	return Authorize(actor, "", PermissionUpdaters...)
}
