package graph

import (
	"context"
	"errors"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/sickfits/sickfits-go/internal/model"
	"github.com/sickfits/sickfits-go/internal/service"
)

type successMessage struct {
	message string
}

func (m *successMessage) Message() *string {
	return &m.message
}

type userResolver struct {
	u *model.User
}

func newUser(u *model.User) *userResolver {
	if u == nil {
		return nil
	}
	return &userResolver{u: u}
}

func (r *userResolver) ID() graphql.ID        { return graphql.ID(r.u.ID) }
func (r *userResolver) Name() string          { return r.u.Name }
func (r *userResolver) Email() string         { return r.u.Email }
func (r *userResolver) Permissions() []string { return r.u.Permissions.Strings() }

type itemResolver struct {
	it   model.Item
	root *Resolver
}

func (r *Resolver) newItem(it *model.Item) *itemResolver {
	if it == nil {
		return nil
	}
	return &itemResolver{it: *it, root: r}
}

func (r *itemResolver) ID() graphql.ID      { return graphql.ID(r.it.ID) }
func (r *itemResolver) Title() string       { return r.it.Title }
func (r *itemResolver) Description() string { return r.it.Description }
func (r *itemResolver) Price() int32        { return int32(r.it.Price) }

func (r *itemResolver) Image() *string      { return optional(r.it.Image) }
func (r *itemResolver) LargeImage() *string { return optional(r.it.LargeImage) }

func (r *itemResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.it.CreatedAt} }
func (r *itemResolver) UpdatedAt() graphql.Time { return graphql.Time{Time: r.it.UpdatedAt} }

// User resolves the owner. An owner that no longer exists resolves to null.
func (r *itemResolver) User(ctx context.Context) (*userResolver, error) {
	u, err := r.root.auth.GetUser(ctx, r.it.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return nil, nil
		}
		return nil, r.root.publicError(err)
	}
	return newUser(u), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
