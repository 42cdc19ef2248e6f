package graph

import (
	"errors"
	"log/slog"

	"github.com/sickfits/sickfits-go/internal/authz"
	"github.com/sickfits/sickfits-go/internal/crypto"
	"github.com/sickfits/sickfits-go/internal/service"
)

const (
	CodeUnauthenticated       = "UNAUTHENTICATED"
	CodeForbidden             = "FORBIDDEN"
	CodeNotFound              = "NOT_FOUND"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodePasswordMismatch      = "PASSWORD_MISMATCH"
	CodeInvalidOrExpiredToken = "INVALID_OR_EXPIRED_TOKEN"
	CodeInvalidSignature      = "INVALID_SIGNATURE"
	CodeBadUserInput          = "BAD_USER_INPUT"
	CodeConflict              = "CONFLICT"
	CodeInternal              = "INTERNAL"
)

// codedError is a resolver error carrying extensions.code in the response.
type codedError struct {
	msg  string
	code string
}

func (e *codedError) Error() string { return e.msg }

func (e *codedError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

var errorCodes = []struct {
	target error
	code   string
}{
	{authz.ErrUnauthenticated, CodeUnauthenticated},
	{authz.ErrForbidden, CodeForbidden},
	{service.ErrUserNotFound, CodeNotFound},
	{service.ErrItemNotFound, CodeNotFound},
	{service.ErrInvalidCredentials, CodeInvalidCredentials},
	{service.ErrPasswordMismatch, CodePasswordMismatch},
	{service.ErrInvalidOrExpiredToken, CodeInvalidOrExpiredToken},
	{crypto.ErrInvalidSignature, CodeInvalidSignature},
	{service.ErrEmailTaken, CodeConflict},
	{service.ErrEmailRequired, CodeBadUserInput},
	{service.ErrInvalidEmail, CodeBadUserInput},
	{service.ErrPasswordRequired, CodeBadUserInput},
	{service.ErrNameRequired, CodeBadUserInput},
	{service.ErrUnknownPermission, CodeBadUserInput},
	{service.ErrTitleRequired, CodeBadUserInput},
	{service.ErrDescriptionRequired, CodeBadUserInput},
	{service.ErrInvalidPrice, CodeBadUserInput},
	{crypto.ErrPasswordTooLong, CodeBadUserInput},
}

// publicError maps known errors to a coded error with their own message.
// Anything else is logged and replaced with a generic message.
func (r *Resolver) publicError(err error) error {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.target) {
			return &codedError{msg: err.Error(), code: ec.code}
		}
	}
	r.logger.Error("graphql resolver failed", slog.String("error", err.Error()))
	return &codedError{msg: "internal server error", code: CodeInternal}
}
