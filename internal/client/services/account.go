package services

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/chewallet/internal/client/client"
	"github.com/dmitrijs2005/chewallet/internal/client/models"
	"github.com/dmitrijs2005/chewallet/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/chewallet/internal/common"
	"github.com/dmitrijs2005/chewallet/internal/logging"
)

// AccountStatus carries the loading flags of the account store.
type AccountStatus struct {
	LoadingUser bool
	// Hydrated is true once the first GetUser of the process resolved,
	// successfully or not.
	Hydrated bool
}

// AccountStore owns the account snapshot. A failed fetch never discards a
// previously good snapshot.
type AccountStore interface {
	GetUser(ctx context.Context) (*models.Account, error)
	// Account returns the snapshot from the last successful fetch.
	Account() (models.Account, bool)
	// Cached returns the snapshot persisted by a previous process.
	Cached() (models.Account, bool)
	Status() AccountStatus

	UpdateAlias(ctx context.Context, alias string) error
	Profile(ctx context.Context) (*models.Profile, error)
	Reset()
}

type accountStore struct {
	client client.Client
	store  StateStore
	log    logging.Logger

	mu      sync.Mutex
	account *models.Account
	cached  *models.Account
	status  AccountStatus
}

func NewAccountStore(ctx context.Context, c client.Client, store StateStore, log logging.Logger) AccountStore {
	if log == nil {
		log = logging.Nop()
	}
	a := &accountStore{client: c, store: store, log: log.With("component", "account")}

	var cached models.Account
	ok, err := metadata.LoadJSON(ctx, store, metadata.KeyAccount, &cached)
	if err != nil {
		a.log.Warn(ctx, "load cached account", "error", err)
	}
	if ok {
		a.cached = &cached
	}
	return a
}

func (a *accountStore) GetUser(ctx context.Context) (*models.Account, error) {
	a.mu.Lock()
	a.status.LoadingUser = true
	a.mu.Unlock()

	acc, err := a.client.Me(ctx)

	a.mu.Lock()
	a.status.LoadingUser = false
	a.status.Hydrated = true
	if err == nil {
		a.account = acc
	}
	a.mu.Unlock()

	if err != nil {
		return nil, asPartial("get user", err)
	}

	if err := metadata.SaveJSON(ctx, a.store, metadata.KeyAccount, acc); err != nil {
		a.log.Warn(ctx, "persist account", "error", err)
	}
	out := *acc
	return &out, nil
}

func (a *accountStore) Account() (models.Account, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.account == nil {
		return models.Account{}, false
	}
	return *a.account, true
}

func (a *accountStore) Cached() (models.Account, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cached == nil {
		return models.Account{}, false
	}
	return *a.cached, true
}

func (a *accountStore) Status() AccountStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *accountStore) UpdateAlias(ctx context.Context, alias string) error {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return common.NewValidationError("alias", "alias cannot be empty")
	}
	if current, ok := a.Account(); ok && current.Alias == alias {
		return common.NewValidationError("alias", "the new alias must differ from the current one")
	}

	if err := a.client.UpdateAlias(ctx, alias); err != nil {
		return asValidation("update alias", err)
	}

	if _, err := a.GetUser(ctx); err != nil {
		a.log.Warn(ctx, "refresh after alias update", "error", err)
	}
	return nil
}

func (a *accountStore) Profile(ctx context.Context) (*models.Profile, error) {
	p, err := a.client.Profile(ctx)
	if err != nil {
		return nil, asPartial("get profile", err)
	}
	return p, nil
}

func (a *accountStore) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.account = nil
	a.cached = nil
}
