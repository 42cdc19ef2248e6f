package model

// Permission is a capability label checked by exact set membership.
type Permission string

const (
	PermissionAdmin            Permission = "ADMIN"
	PermissionUser             Permission = "USER"
	PermissionItemCreate       Permission = "ITEMCREATE"
	PermissionItemUpdate       Permission = "ITEMUPDATE"
	PermissionItemDelete       Permission = "ITEMDELETE"
	PermissionPermissionUpdate Permission = "PERMISSIONUPDATE"
)

// AllPermissions lists every known permission in display order.
var AllPermissions = []Permission{
	PermissionAdmin,
	PermissionUser,
	PermissionItemCreate,
	PermissionItemUpdate,
	PermissionItemDelete,
	PermissionPermissionUpdate,
}

// ParsePermission returns the permission named by s, or false if s is not a known label.
func ParsePermission(s string) (Permission, bool) {
	for _, p := range AllPermissions {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Permissions is an ordered set of permission labels.
type Permissions []Permission

// NewPermissions builds a set from ps, keeping first-seen order and dropping duplicates.
func NewPermissions(ps ...Permission) Permissions {
	set := make(Permissions, 0, len(ps))
	for _, p := range ps {
		if !set.Has(p) {
			set = append(set, p)
		}
	}
	return set
}

// Has reports whether p is in the set.
func (ps Permissions) Has(p Permission) bool {
	for _, have := range ps {
		if have == p {
			return true
		}
	}
	return false
}

// HasAny reports whether the set intersects want.
func (ps Permissions) HasAny(want ...Permission) bool {
	for _, p := range want {
		if ps.Has(p) {
			return true
		}
	}
	return false
}

// Strings returns the labels as plain strings.
func (ps Permissions) Strings() []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}
