package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/chewallet/internal/client/models"
	"github.com/dmitrijs2005/chewallet/internal/client/services"
	"github.com/dmitrijs2005/chewallet/internal/logging"
	"github.com/shopspring/decimal"
)

type fakeSession struct {
	session models.Session
	hint    models.PersistedSession

	loginCreds  []models.Credentials
	loginErr    error
	registered  []models.RegisterPayload
	registerErr error
	resetArgs   []string
	resetErr    error
	checkResult models.Session
	checks      int
	logouts     int
	logoutErr   error
}

func (f *fakeSession) CheckAuth(context.Context) models.Session {
	f.checks++
	f.session = f.checkResult
	return f.session
}

func (f *fakeSession) Login(_ context.Context, creds models.Credentials) (*models.AuthResult, error) {
	f.loginCreds = append(f.loginCreds, creds)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.session.Authenticated = true
	f.session.Identity = creds.Username
	return &models.AuthResult{Username: creds.Username}, nil
}

func (f *fakeSession) Register(_ context.Context, p models.RegisterPayload) (*models.AuthResult, error) {
	f.registered = append(f.registered, p)
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.AuthResult{Username: p.Username}, nil
}

func (f *fakeSession) Logout(context.Context) <-chan error {
	f.logouts++
	f.session.Authenticated = false
	f.session.Identity = ""
	ch := make(chan error, 1)
	ch <- f.logoutErr
	close(ch)
	return ch
}

func (f *fakeSession) ResetPassword(_ context.Context, token, pw, confirm string) error {
	f.resetArgs = []string{token, pw, confirm}
	return f.resetErr
}

func (f *fakeSession) Snapshot() models.Session      { return f.session }
func (f *fakeSession) Hint() models.PersistedSession { return f.hint }

type fakeAccounts struct {
	account    *models.Account
	cached     *models.Account
	getUserErr error
	getUsers   int
	profile    *models.Profile
	profileErr error
	aliases    []string
	aliasErr   error
	resets     int
}

func (f *fakeAccounts) GetUser(context.Context) (*models.Account, error) {
	f.getUsers++
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	if f.account == nil {
		f.account = &models.Account{}
	}
	out := *f.account
	return &out, nil
}

func (f *fakeAccounts) Account() (models.Account, bool) {
	if f.account == nil {
		return models.Account{}, false
	}
	return *f.account, true
}

func (f *fakeAccounts) Cached() (models.Account, bool) {
	if f.cached == nil {
		return models.Account{}, false
	}
	return *f.cached, true
}

func (f *fakeAccounts) Status() services.AccountStatus { return services.AccountStatus{} }

func (f *fakeAccounts) UpdateAlias(_ context.Context, alias string) error {
	f.aliases = append(f.aliases, alias)
	return f.aliasErr
}

func (f *fakeAccounts) Profile(context.Context) (*models.Profile, error) {
	return f.profile, f.profileErr
}

func (f *fakeAccounts) Reset() {
	f.resets++
	f.account = nil
	f.cached = nil
}

type depositCall struct {
	destination string
	amount      decimal.Decimal
}

type fakePayments struct {
	deposits    []depositCall
	checkout    *models.Checkout
	depositErr  error
	transfers   []models.TransferForm
	outcome     *services.TransferOutcome
	transferErr error
	receiptIDs  []string
	receipt     *models.Receipt
	receiptErr  error
}

func (f *fakePayments) Deposit(_ context.Context, destination string, amount decimal.Decimal) (*models.Checkout, error) {
	f.deposits = append(f.deposits, depositCall{destination: destination, amount: amount})
	return f.checkout, f.depositErr
}

func (f *fakePayments) Transfer(_ context.Context, form *models.TransferForm) (*services.TransferOutcome, error) {
	f.transfers = append(f.transfers, *form)
	if f.transferErr != nil {
		return nil, f.transferErr
	}
	form.Reset()
	return f.outcome, nil
}

func (f *fakePayments) Receipt(_ context.Context, id string) (*models.Receipt, error) {
	f.receiptIDs = append(f.receiptIDs, id)
	return f.receipt, f.receiptErr
}

type fakePaginator struct {
	state  services.PageState
	calls  []string
	err    error
	resets int
}

func (f *fakePaginator) Load(context.Context) error {
	f.calls = append(f.calls, "load")
	return f.err
}

func (f *fakePaginator) Next(context.Context) error {
	f.calls = append(f.calls, "next")
	if f.err == nil {
		f.state.Page++
	}
	return f.err
}

func (f *fakePaginator) Prev(context.Context) error {
	f.calls = append(f.calls, "prev")
	if f.err == nil {
		f.state.Page--
	}
	return f.err
}

func (f *fakePaginator) GoTo(_ context.Context, page int) error {
	f.calls = append(f.calls, "goto")
	if f.err == nil {
		f.state.Page = page
	}
	return f.err
}

func (f *fakePaginator) State() services.PageState { return f.state }

func (f *fakePaginator) Reset() {
	f.resets++
	f.state = services.PageState{Page: 1}
}

type testApp struct {
	*App
	session   *fakeSession
	accounts  *fakeAccounts
	payments  *fakePayments
	movements *fakePaginator
	out       *bytes.Buffer
}

func newTestApp(input string) *testApp {
	ta := &testApp{
		session:   &fakeSession{},
		accounts:  &fakeAccounts{},
		payments:  &fakePayments{},
		movements: &fakePaginator{state: services.PageState{Page: 1}},
		out:       &bytes.Buffer{},
	}
	ta.App = &App{
		log:       logging.Nop(),
		session:   ta.session,
		accounts:  ta.accounts,
		payments:  ta.payments,
		movements: ta.movements,
		reader:    bufio.NewReader(strings.NewReader(input)),
		out:       ta.out,
	}
	return ta
}

// stubPasswords makes getPassword return the given secrets in order.
func stubPasswords(t *testing.T, secrets ...string) {
	t.Helper()
	orig := getPassword
	i := 0
	getPassword = func(string, io.Writer) ([]byte, error) {
		if i >= len(secrets) {
			return nil, io.EOF
		}
		s := secrets[i]
		i++
		return []byte(s), nil
	}
	t.Cleanup(func() { getPassword = orig })
}
