package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/sickfits/sickfits-go/internal/session"
)

const maxBodyBytes = 1 << 20 // 1MB

type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// GraphQLHandler executes GraphQL operations posted as JSON.
type GraphQLHandler struct {
	schema *graphql.Schema
	secure bool
	logger *slog.Logger
}

// NewGraphQLHandler creates a new GraphQLHandler. secure marks cookies it
// sets when no session middleware ran ahead of it.
func NewGraphQLHandler(schema *graphql.Schema, secure bool, logger *slog.Logger) *GraphQLHandler {
	return &GraphQLHandler{schema: schema, secure: secure, logger: logger}
}

// ServeHTTP handles POST /graphql requests.
func (h *GraphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req graphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("query is required"))
		return
	}

	ctx := r.Context()
	if _, ok := session.FromContext(ctx); !ok {
		ctx = session.NewContext(ctx, session.NewRequest(w, nil, h.secure))
	}

	resp := h.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)
	if len(resp.Errors) > 0 {
		h.logger.Debug("graphql operation returned errors",
			slog.String("operation", req.OperationName),
			slog.Int("errors", len(resp.Errors)),
		)
	}

	writeJSON(w, http.StatusOK, resp)
}
