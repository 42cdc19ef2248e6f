// Package graph exposes the storefront services as a GraphQL schema.
package graph

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/sickfits/sickfits-go/internal/service"
	"github.com/sickfits/sickfits-go/internal/session"
)

//go:embed schema.graphql
var schemaSDL string

// Resolver is the root resolver for both queries and mutations.
type Resolver struct {
	auth   *service.AuthService
	items  *service.ItemService
	logger *slog.Logger
}

// NewSchema parses the schema and binds it to the services.
func NewSchema(auth *service.AuthService, items *service.ItemService, logger *slog.Logger) (*graphql.Schema, error) {
	r := &Resolver{auth: auth, items: items, logger: logger}
	schema, err := graphql.ParseSchema(schemaSDL, r,
		graphql.MaxDepth(10),
		graphql.Logger(panicLogger{logger}),
	)
	if err != nil {
		return nil, fmt.Errorf("parse graphql schema: %w", err)
	}
	return schema, nil
}

type panicLogger struct {
	logger *slog.Logger
}

func (l panicLogger) LogPanic(_ context.Context, value interface{}) {
	l.logger.Error("graphql resolver panic", slog.Any("panic", value))
}

func requestFrom(ctx context.Context) (*session.Request, error) {
	req, ok := session.FromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("no session attached to request")
	}
	return req, nil
}
