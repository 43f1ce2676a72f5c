package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/chewallet/internal/client/client"
	"github.com/dmitrijs2005/chewallet/internal/client/config"
	"github.com/dmitrijs2005/chewallet/internal/client/guard"
	"github.com/dmitrijs2005/chewallet/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/chewallet/internal/client/services"
	"github.com/dmitrijs2005/chewallet/internal/logging"
)

type App struct {
	log       logging.Logger
	db        *sql.DB
	timeout   time.Duration
	interval  time.Duration
	session   services.SessionStore
	accounts  services.AccountStore
	payments  services.Orchestrator
	movements services.Paginator
	reader    *bufio.Reader
	out       io.Writer

	// pending server-side logouts; Close waits for them
	logouts sync.WaitGroup
}

// NewApp opens the state database at c.StatePath, restores the cookies of
// the previous process and builds the stores around a single HTTP client.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	db, err := client.InitDatabase(ctx, c.StatePath)
	if err != nil {
		return nil, fmt.Errorf("init state database: %w", err)
	}

	store := metadata.NewStore(db)

	apiClient, err := client.NewHTTPClient(client.HTTPConfig{
		BaseURL:           c.BackendURL,
		Timeout:           c.RequestTimeout,
		RequestsPerSecond: c.RequestsPerSecond,
	}, store, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := apiClient.RestoreCookies(ctx); err != nil {
		log.Warn(ctx, "restore cookies", "error", err)
	}

	session := services.NewSessionStore(ctx, apiClient, store, log, c.RequestTimeout)
	accounts := services.NewAccountStore(ctx, apiClient, store, log)

	a := &App{
		log:       log,
		db:        db,
		timeout:   c.RequestTimeout,
		interval:  c.SessionCheckInterval,
		session:   session,
		accounts:  accounts,
		payments:  services.NewOrchestrator(apiClient, session, accounts, log),
		movements: services.NewPaginator(apiClient, c.PageSize, log),
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}
	return a, nil
}

// Run checks the session, starts the watcher and blocks in the REPL until
// the user leaves or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close waits for outstanding logouts and closes the state database.
func (a *App) Close() {
	a.logouts.Wait()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(context.Background(), "close state database", "error", err)
		}
	}
}

func (a *App) decision() guard.Decision {
	return guard.Decide(a.session.Snapshot())
}

// checkSession runs one authority check bounded by the request timeout.
// It reports whether an authenticated session was lost.
func (a *App) checkSession(ctx context.Context) bool {
	was := a.session.Snapshot().Authenticated

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	s := a.session.CheckAuth(ctx)

	if was && !s.Authenticated {
		a.accounts.Reset()
		a.movements.Reset()
		return true
	}
	return false
}

// loadAccount fetches the account snapshot once the session is allowed.
// A failure is logged; the stale cache stays in place.
func (a *App) loadAccount(ctx context.Context) {
	if a.decision() != guard.Allow {
		return
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	if _, err := a.accounts.GetUser(ctx); err != nil {
		a.log.Warn(ctx, "load account", "error", err)
	}
}

// StartSessionWatcher re-validates the session every interval until ctx is
// done. A non-positive interval disables it.
func (a *App) StartSessionWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if a.checkSession(ctx) {
				printlnFn("Your session has expired, please log in again")
			}
		case <-ctx.Done():
			return
		}
	}
}
