package cli

import (
	"bufio"
	"context"
	"fmt"

	"github.com/dmitrijs2005/chewallet/internal/client/guard"
	"github.com/dmitrijs2005/chewallet/internal/client/models"
)

// getStatus is the prompt suffix. Until the first session check resolves
// the persisted hint is shown, marked as unconfirmed.
func (a *App) getStatus() string {
	s := a.session.Snapshot()

	switch guard.Decide(s) {
	case guard.Allow:
		if s.Identity == "" {
			return " (signed in)"
		}
		return fmt.Sprintf(" (%s)", s.Identity)
	case guard.Pending:
		if h := a.session.Hint(); h.Authenticated && h.Identity != "" {
			return fmt.Sprintf(" (%s?)", h.Identity)
		}
		return " (checking)"
	}
	return ""
}

// Root validates the session, starts the background watcher and runs the
// REPL until the user leaves.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to CheWallet (type 'help' for commands)")

	if cached, ok := a.accounts.Cached(); ok && a.session.Hint().Authenticated {
		printlnFn("Last known balance:", models.FormatCurrency(cached.Balance))
	}

	a.checkSession(ctx)
	a.loadAccount(ctx)
	switch a.decision() {
	case guard.Allow:
		printlnFn("Session restored" + a.getStatus())
	case guard.RedirectToLogin:
		printlnFn("Please log in (type 'login') or create an account (type 'register')")
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartSessionWatcher(watchCtx, a.interval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}
