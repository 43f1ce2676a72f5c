package services

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/chewallet/internal/client/client"
	"github.com/dmitrijs2005/chewallet/internal/client/models"
	"github.com/dmitrijs2005/chewallet/internal/client/repositories/metadata"
	"github.com/stretchr/testify/require"
)

// fakeClient implements client.Client with canned results.
type fakeClient struct {
	mu    sync.Mutex
	calls map[string]int

	CheckAuthUser    string
	CheckAuthErr     error
	CheckAuthBlock   chan struct{}
	CheckAuthStarted chan struct{}

	LoginRes *models.AuthResult
	LoginErr error

	RegisterRes *models.AuthResult
	RegisterErr error

	ResetErr  error
	LastReset models.PasswordReset

	LogoutErr   error
	LogoutBlock chan struct{}

	MeRes *models.Account
	MeErr error

	ProfileRes *models.Profile
	ProfileErr error

	UpdateAliasErr error
	LastAlias      string

	CheckoutRes  *models.Checkout
	CheckoutErr  error
	LastCheckout models.DepositRequest

	TransferBody      []byte
	TransferErr       error
	TransferBlock     chan struct{}
	LastTransfer      models.TransferRequest
	LastTransferReqID string

	TransactionsBody  []byte
	TransactionsErr   error
	TransactionsBlock chan struct{}
	LastPage          int
	LastSize          int

	TransactionBody []byte
	TransactionErr  error
	LastTxID        string
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeClient) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) CheckAuth(ctx context.Context) (string, error) {
	f.hit("CheckAuth")
	if f.CheckAuthStarted != nil {
		f.CheckAuthStarted <- struct{}{}
	}
	if f.CheckAuthBlock != nil {
		<-f.CheckAuthBlock
	}
	return f.CheckAuthUser, f.CheckAuthErr
}

func (f *fakeClient) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	f.hit("Login")
	return f.LoginRes, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, payload models.RegisterPayload) (*models.AuthResult, error) {
	f.hit("Register")
	return f.RegisterRes, f.RegisterErr
}

func (f *fakeClient) ResetPassword(ctx context.Context, form models.PasswordReset) error {
	f.hit("ResetPassword")
	f.LastReset = form
	return f.ResetErr
}

func (f *fakeClient) EndSession(ctx context.Context) func(ctx context.Context) error {
	f.hit("EndSession")
	return func(ctx context.Context) error {
		if f.LogoutBlock != nil {
			<-f.LogoutBlock
		}
		f.hit("Logout")
		return f.LogoutErr
	}
}

func (f *fakeClient) Me(ctx context.Context) (*models.Account, error) {
	f.hit("Me")
	if f.MeErr != nil {
		return nil, f.MeErr
	}
	if f.MeRes == nil {
		return nil, nil
	}
	acc := *f.MeRes
	return &acc, nil
}

func (f *fakeClient) Profile(ctx context.Context) (*models.Profile, error) {
	f.hit("Profile")
	return f.ProfileRes, f.ProfileErr
}

func (f *fakeClient) UpdateAlias(ctx context.Context, alias string) error {
	f.hit("UpdateAlias")
	f.LastAlias = alias
	return f.UpdateAliasErr
}

func (f *fakeClient) Checkout(ctx context.Context, req models.DepositRequest) (*models.Checkout, error) {
	f.hit("Checkout")
	f.LastCheckout = req
	return f.CheckoutRes, f.CheckoutErr
}

func (f *fakeClient) Transfer(ctx context.Context, req models.TransferRequest) ([]byte, error) {
	f.hit("Transfer")
	if f.TransferBlock != nil {
		<-f.TransferBlock
	}
	f.mu.Lock()
	f.LastTransfer = req
	f.LastTransferReqID, _ = client.RequestIDFromContext(ctx)
	f.mu.Unlock()
	return f.TransferBody, f.TransferErr
}

func (f *fakeClient) Transactions(ctx context.Context, page, size int) ([]byte, error) {
	f.hit("Transactions")
	if f.TransactionsBlock != nil {
		<-f.TransactionsBlock
	}
	f.mu.Lock()
	f.LastPage, f.LastSize = page, size
	f.mu.Unlock()
	return f.TransactionsBody, f.TransactionsErr
}

func (f *fakeClient) Transaction(ctx context.Context, id string) ([]byte, error) {
	f.hit("Transaction")
	f.LastTxID = id
	return f.TransactionBody, f.TransactionErr
}

func newStateStore(t *testing.T) *metadata.Store {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return metadata.NewStore(db)
}

func apiErr(status int, body string) error {
	return &client.APIError{StatusCode: status, Body: []byte(body)}
}
