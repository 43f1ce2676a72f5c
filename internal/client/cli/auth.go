package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/chewallet/internal/client/models"
)

// getSimpleText and getPassword point to the interactive input helpers and
// can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register walks through the registration form, validates it locally and
// creates the account. It does not log the user in.
func (a *App) Register(ctx context.Context) error {
	var p models.RegisterPayload

	fields := []struct {
		prompt string
		dst    *string
		secret bool
	}{
		{prompt: "Username", dst: &p.Username},
		{prompt: "First name", dst: &p.Name},
		{prompt: "Last name", dst: &p.Lastname},
		{prompt: "DNI", dst: &p.DNI},
		{prompt: "Email", dst: &p.Email},
		{prompt: "Birthdate (YYYY-MM-DD)", dst: &p.Birthdate},
		{prompt: "Phone", dst: &p.Phone},
		{prompt: "Password", dst: &p.Password, secret: true},
		{prompt: "Repeat password", dst: &p.RepeatPassword, secret: true},
	}

	for _, f := range fields {
		if f.secret {
			pw, err := getPassword(f.prompt, a.out)
			if err != nil {
				return err
			}
			*f.dst = string(pw)
			continue
		}
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	if err := p.Validate(); err != nil {
		return err
	}
	if _, err := a.session.Register(ctx, p); err != nil {
		return err
	}

	printlnFn("Account created, you can log in now")
	return nil
}

// Login prompts for credentials and authenticates. Empty fields are caught
// before any request is made. On success the account is fetched so that
// the first screen has a balance to show.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}

	creds := models.Credentials{Username: username, Password: string(password)}
	if err := creds.Validate(); err != nil {
		return err
	}

	res, err := a.session.Login(ctx, creds)
	if err != nil {
		return err
	}

	a.movements.Reset()
	printlnFn(fmt.Sprintf("Welcome, %s!", res.Username))

	acc, err := a.accounts.GetUser(ctx)
	if err != nil {
		a.log.Warn(ctx, "fetch account after login", "error", err)
		return nil
	}
	printlnFn("Balance:", models.FormatCurrency(acc.Balance))
	return nil
}

// Logout ends the session locally right away. The server is told in the
// background; Close waits for that call before the process exits.
func (a *App) Logout(ctx context.Context) error {
	done := a.session.Logout(ctx)
	a.accounts.Reset()
	a.movements.Reset()

	a.logouts.Add(1)
	go func() {
		defer a.logouts.Done()
		if err := <-done; err != nil {
			a.log.Debug(ctx, "server logout", "error", err)
		}
	}()

	printlnFn("Logged out")
	return nil
}

// ResetPassword sets a new password using the token from the reset link.
func (a *App) ResetPassword(ctx context.Context, token string) error {
	pw, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	confirm, err := getPassword("Repeat new password", a.out)
	if err != nil {
		return err
	}

	if err := a.session.ResetPassword(ctx, token, string(pw), string(confirm)); err != nil {
		return err
	}

	printlnFn("Password updated, log in with your new password")
	return nil
}
