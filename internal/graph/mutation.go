package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/sickfits/sickfits-go/internal/model"
	"github.com/sickfits/sickfits-go/internal/session"
)

type signupArgs struct {
	Email    string
	Password string
	Name     string
}

func (r *Resolver) Signup(ctx context.Context, args signupArgs) (*userResolver, error) {
	req, err := requestFrom(ctx)
	if err != nil {
		return nil, r.publicError(err)
	}

	resp, err := r.auth.Signup(ctx, model.SignupRequest{Email: args.Email, Password: args.Password, Name: args.Name})
	if err != nil {
		return nil, r.publicError(err)
	}

	req.SetToken(resp.Token, resp.User)
	return newUser(resp.User), nil
}

type signinArgs struct {
	Email    string
	Password string
}

func (r *Resolver) Signin(ctx context.Context, args signinArgs) (*userResolver, error) {
	req, err := requestFrom(ctx)
	if err != nil {
		return nil, r.publicError(err)
	}

	resp, err := r.auth.Signin(ctx, model.SigninRequest{Email: args.Email, Password: args.Password})
	if err != nil {
		return nil, r.publicError(err)
	}

	req.SetToken(resp.Token, resp.User)
	return newUser(resp.User), nil
}

// Signout clears the session cookie. Calling it without a session is fine.
func (r *Resolver) Signout(ctx context.Context) (*successMessage, error) {
	r.auth.Signout(session.Actor(ctx))
	if req, ok := session.FromContext(ctx); ok {
		req.Clear()
	}
	return &successMessage{message: "Goodbye!"}, nil
}

func (r *Resolver) RequestReset(ctx context.Context, args struct{ Email string }) (*successMessage, error) {
	if err := r.auth.RequestReset(ctx, args.Email); err != nil {
		return nil, r.publicError(err)
	}
	return &successMessage{message: "Thanks"}, nil
}

type resetPasswordArgs struct {
	ResetToken      string
	Password        string
	ConfirmPassword string
}

func (r *Resolver) ResetPassword(ctx context.Context, args resetPasswordArgs) (*userResolver, error) {
	req, err := requestFrom(ctx)
	if err != nil {
		return nil, r.publicError(err)
	}

	resp, err := r.auth.ResetPassword(ctx, model.ResetPasswordRequest{
		ResetToken:      args.ResetToken,
		Password:        args.Password,
		ConfirmPassword: args.ConfirmPassword,
	})
	if err != nil {
		return nil, r.publicError(err)
	}

	req.SetToken(resp.Token, resp.User)
	return newUser(resp.User), nil
}

type createItemArgs struct {
	Title       string
	Description string
	Price       int32
	Image       *string
	LargeImage  *string
}

func (r *Resolver) CreateItem(ctx context.Context, args createItemArgs) (*itemResolver, error) {
	it, err := r.items.CreateItem(ctx, session.Actor(ctx), model.CreateItemRequest{
		Title:       args.Title,
		Description: args.Description,
		Price:       int(args.Price),
		Image:       deref(args.Image),
		LargeImage:  deref(args.LargeImage),
	})
	if err != nil {
		return nil, r.publicError(err)
	}
	return r.newItem(it), nil
}

type updateItemArgs struct {
	ID          graphql.ID
	Title       *string
	Description *string
	Price       *int32
	Image       *string
	LargeImage  *string
}

func (r *Resolver) UpdateItem(ctx context.Context, args updateItemArgs) (*itemResolver, error) {
	req := model.UpdateItemRequest{
		Title:       args.Title,
		Description: args.Description,
		Image:       args.Image,
		LargeImage:  args.LargeImage,
	}
	if args.Price != nil {
		price := int(*args.Price)
		req.Price = &price
	}

	it, err := r.items.UpdateItem(ctx, session.Actor(ctx), string(args.ID), req)
	if err != nil {
		return nil, r.publicError(err)
	}
	return r.newItem(it), nil
}

func (r *Resolver) DeleteItem(ctx context.Context, args struct{ ID graphql.ID }) (*itemResolver, error) {
	it, err := r.items.DeleteItem(ctx, session.Actor(ctx), string(args.ID))
	if err != nil {
		return nil, r.publicError(err)
	}
	return r.newItem(it), nil
}

type updatePermissionsArgs struct {
	Permissions []string
	UserID      graphql.ID
}

func (r *Resolver) UpdatePermissions(ctx context.Context, args updatePermissionsArgs) (*userResolver, error) {
	u, err := r.auth.UpdatePermissions(ctx, session.Actor(ctx), string(args.UserID), args.Permissions)
	if err != nil {
		return nil, r.publicError(err)
	}
	return newUser(u), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
