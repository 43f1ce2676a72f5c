package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/chewallet/internal/client/models"
)

// Me fetches the account and prints it. When the fetch fails the last good
// snapshot, or the one cached by a previous run, is shown and marked stale.
func (a *App) Me(ctx context.Context) error {
	acc, err := a.accounts.GetUser(ctx)
	if err == nil {
		printLines(formatAccount(*acc))
		return nil
	}

	stale, ok := a.accounts.Account()
	if !ok {
		stale, ok = a.accounts.Cached()
	}
	if ok {
		printlnFn("Showing last known data:")
		printLines(formatAccount(stale))
	}
	return err
}

func (a *App) Profile(ctx context.Context) error {
	p, err := a.accounts.Profile(ctx)
	if err != nil {
		return err
	}
	printLines(formatProfile(*p))
	return nil
}

func (a *App) Alias(ctx context.Context, alias string) error {
	if err := a.accounts.UpdateAlias(ctx, alias); err != nil {
		return err
	}
	printlnFn("Alias updated to", alias)
	return nil
}

// ownCVU is the default destination for deposits.
func (a *App) ownCVU() string {
	if acc, ok := a.accounts.Account(); ok {
		return acc.CVU
	}
	if acc, ok := a.accounts.Cached(); ok {
		return acc.CVU
	}
	return ""
}

// Deposit creates a checkout for the external payment provider. The
// balance only changes once the provider confirms the payment.
func (a *App) Deposit(ctx context.Context) error {
	destination, err := GetTextOrDefault(a.reader, "Deposit to (alias or CVU)", a.ownCVU(), a.out)
	if err != nil {
		return err
	}
	amount, err := GetAmount(a.reader, "Amount", a.out)
	if err != nil {
		return err
	}

	checkout, err := a.payments.Deposit(ctx, destination, amount)
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Checkout created for %s", models.FormatCurrency(amount)))
	printlnFn("Payment reference:", checkout.PreferenceID)
	return nil
}

// Transfer fills the transfer form, submits it and prints the receipt.
func (a *App) Transfer(ctx context.Context) error {
	var form models.TransferForm

	destination, err := getSimpleText(a.reader, "Destination (alias or CVU)", a.out)
	if err != nil {
		return err
	}
	form.Destination = destination

	raw, err := getSimpleText(a.reader, "Amount", a.out)
	if err != nil {
		return err
	}
	form.SetAmountInput(raw)

	description, err := getSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}
	form.Description = description

	out, err := a.payments.Transfer(ctx, &form)
	if err != nil {
		return err
	}

	printlnFn("Transfer sent")
	printLines(formatReceipt(out.Receipt))
	if out.RefreshErr != nil {
		printlnFn("Your balance could not be refreshed, type 'me' to try again")
	}
	return nil
}

func (a *App) Receipt(ctx context.Context, id string) error {
	r, err := a.payments.Receipt(ctx, id)
	if err != nil {
		return err
	}
	printLines(formatReceipt(*r))
	return nil
}

// Movements loads page (1-based) of the history, or reloads the current
// page when page is 0.
func (a *App) Movements(ctx context.Context, page int) error {
	var err error
	if page > 0 {
		err = a.movements.GoTo(ctx, page)
	} else {
		err = a.movements.Load(ctx)
	}
	if err != nil {
		return err
	}
	printLines(formatPage(a.movements.State()))
	return nil
}

func (a *App) Next(ctx context.Context) error {
	if err := a.movements.Next(ctx); err != nil {
		return err
	}
	printLines(formatPage(a.movements.State()))
	return nil
}

func (a *App) Prev(ctx context.Context) error {
	if err := a.movements.Prev(ctx); err != nil {
		return err
	}
	printLines(formatPage(a.movements.State()))
	return nil
}
