package client

import (
	"context"

	"github.com/dmitrijs2005/chewallet/internal/client/models"
)

// Client is the wallet backend API as the stores see it. Every call shares
// one credential context. Non-2xx responses are returned as *APIError and
// network failures as *common.TransportError wrapping ErrUnavailable.
type Client interface {
	CheckAuth(ctx context.Context) (string, error)
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Register(ctx context.Context, payload models.RegisterPayload) (*models.AuthResult, error)
	ResetPassword(ctx context.Context, form models.PasswordReset) error
	// EndSession drops the credential context at once and returns the call
	// that asks the server to invalidate it.
	EndSession(ctx context.Context) func(ctx context.Context) error

	Me(ctx context.Context) (*models.Account, error)
	Profile(ctx context.Context) (*models.Profile, error)
	UpdateAlias(ctx context.Context, alias string) error

	Checkout(ctx context.Context, req models.DepositRequest) (*models.Checkout, error)
	Transfer(ctx context.Context, req models.TransferRequest) ([]byte, error)
	Transactions(ctx context.Context, page, size int) ([]byte, error)
	Transaction(ctx context.Context, id string) ([]byte, error)
}

type requestIDKey struct{}

// WithRequestID makes the next request carry id in its X-Request-ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id set by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}
