package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/chewallet/internal/client/client"
	"github.com/dmitrijs2005/chewallet/internal/client/guard"
	"github.com/dmitrijs2005/chewallet/internal/common"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL needs. The real App satisfies
// it; tests provide a lightweight stub.
type execIface interface {
	decision() guard.Decision
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ResetPassword(ctx context.Context, token string) error
	Me(ctx context.Context) error
	Profile(ctx context.Context) error
	Alias(ctx context.Context, alias string) error
	Deposit(ctx context.Context) error
	Transfer(ctx context.Context) error
	Movements(ctx context.Context, page int) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Receipt(ctx context.Context, id string) error
}

// protected commands run only when the guard allows them.
var protected = map[string]bool{
	"me":        true,
	"profile":   true,
	"alias":     true,
	"deposit":   true,
	"transfer":  true,
	"movements": true,
	"m":         true,
	"next":      true,
	"prev":      true,
	"receipt":   true,
	"logout":    true,
}

const (
	helpPublic    = "Available commands: register, login, reset <token>, exit"
	helpProtected = "Available commands: me, profile, alias <new alias>, deposit, transfer, (m)ovements [page], next, prev, receipt <id>, logout, exit"
)

// runREPL reads commands from scanner until EOF, "exit" or "quit". The
// first token selects the command; the rest are its arguments.
//
// Protected commands are gated by the route guard: while the session check
// is pending nothing runs, and an unauthenticated session is sent to
// login. Errors returned by handlers are rendered here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("wallet%s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if protected[cmd] {
			switch a.decision() {
			case guard.Pending:
				printlnFn("Still checking your session, try again in a moment")
				continue
			case guard.RedirectToLogin:
				printlnFn("Please log in first (type 'login')")
				continue
			}
		}

		var err error
		switch cmd {
		case "help":
			if a.decision() == guard.Allow {
				printlnFn(helpProtected)
			} else {
				printlnFn(helpPublic)
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "reset":
			if len(args) == 0 {
				printlnFn("Usage: reset <token>")
				continue
			}
			err = a.ResetPassword(ctx, args[0])

		case "me":
			err = a.Me(ctx)

		case "profile":
			err = a.Profile(ctx)

		case "alias":
			if len(args) == 0 {
				printlnFn("Usage: alias <new alias>")
				continue
			}
			err = a.Alias(ctx, args[0])

		case "deposit":
			err = a.Deposit(ctx)

		case "transfer":
			err = a.Transfer(ctx)

		case "m", "movements":
			page := 0
			if len(args) > 0 {
				n, convErr := strconv.Atoi(args[0])
				if convErr != nil || n < 1 {
					printlnFn("Usage: movements [page], pages start at 1")
					continue
				}
				page = n
			}
			err = a.Movements(ctx, page)

		case "next":
			err = a.Next(ctx)

		case "prev":
			err = a.Prev(ctx)

		case "receipt":
			if len(args) == 0 {
				printlnFn("Usage: receipt <id>")
				continue
			}
			err = a.Receipt(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			reportError(err)
		}
	}
}

// reportError prints every message carried by err, one per line.
func reportError(err error) {
	if errors.Is(err, client.ErrUnavailable) {
		printlnFn("Could not reach the wallet service, please try again later")
		return
	}
	for _, msg := range common.Messages(err) {
		printlnFn("Error:", msg)
	}
}
