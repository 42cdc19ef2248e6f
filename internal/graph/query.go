package graph

import (
	"context"
	"errors"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/sickfits/sickfits-go/internal/service"
	"github.com/sickfits/sickfits-go/internal/session"
)

// Me returns the signed-in user, or null.
func (r *Resolver) Me(ctx context.Context) *userResolver {
	return newUser(session.Actor(ctx))
}

func (r *Resolver) Users(ctx context.Context) ([]*userResolver, error) {
	users, err := r.auth.ListUsers(ctx, session.Actor(ctx))
	if err != nil {
		return nil, r.publicError(err)
	}

	out := make([]*userResolver, len(users))
	for i, u := range users {
		out[i] = newUser(u)
	}
	return out, nil
}

type itemsArgs struct {
	Skip  int32
	First int32
}

func (r *Resolver) Items(ctx context.Context, args itemsArgs) ([]*itemResolver, error) {
	items, err := r.items.ListItems(ctx, int(args.Skip), int(args.First))
	if err != nil {
		return nil, r.publicError(err)
	}

	out := make([]*itemResolver, len(items))
	for i := range items {
		out[i] = r.newItem(&items[i])
	}
	return out, nil
}

// Item returns null for an unknown ID.
func (r *Resolver) Item(ctx context.Context, args struct{ ID graphql.ID }) (*itemResolver, error) {
	it, err := r.items.GetItem(ctx, string(args.ID))
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			return nil, nil
		}
		return nil, r.publicError(err)
	}
	return r.newItem(it), nil
}

func (r *Resolver) ItemsCount(ctx context.Context) (int32, error) {
	n, err := r.items.CountItems(ctx)
	if err != nil {
		return 0, r.publicError(err)
	}
	return int32(n), nil
}
