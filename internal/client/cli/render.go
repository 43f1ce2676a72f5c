package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/chewallet/internal/client/models"
	"github.com/dmitrijs2005/chewallet/internal/client/services"
	"github.com/dmitrijs2005/chewallet/internal/common"
)

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return common.Placeholder
	}
	return s
}

// describeTransaction returns the label and the signed amount of a movement.
func describeTransaction(t models.Transaction) (string, string) {
	amount := models.FormatCurrency(t.Base().Amount)

	switch v := t.(type) {
	case models.TransferSent:
		return "Transfer to " + orPlaceholder(v.To.FullName()), "-" + amount
	case models.TransferReceived:
		return "Transfer from " + orPlaceholder(v.From.FullName()), "+" + amount
	case models.Deposit:
		return "Deposit", "+" + amount
	case models.Unrecognized:
		return fmt.Sprintf("Movement (%s)", orPlaceholder(v.Type)), amount
	default:
		panic(fmt.Sprintf("unhandled transaction variant %T", t))
	}
}

func formatTransaction(t models.Transaction) string {
	label, amount := describeTransaction(t)
	b := t.Base()
	return fmt.Sprintf("  %-10s %-25s %-36s %14s", orPlaceholder(b.ID), orPlaceholder(b.Date), label, amount)
}

func formatTransactions(items models.TransactionList) []string {
	if len(items) == 0 {
		return []string{"  No movements yet"}
	}
	out := make([]string, 0, len(items))
	for _, t := range items {
		out = append(out, formatTransaction(t))
	}
	return out
}

func formatAccount(acc models.Account) []string {
	lines := []string{
		"Holder:  " + orPlaceholder(models.Person{Name: acc.Name, LastName: acc.LastName}.FullName()),
		"Alias:   " + orPlaceholder(acc.Alias),
		"CVU:     " + orPlaceholder(acc.CVU),
		"Balance: " + models.FormatCurrency(acc.Balance),
		"Recent movements:",
	}
	return append(lines, formatTransactions(acc.RecentTransactions)...)
}

func formatProfile(p models.Profile) []string {
	return []string{
		"Name:     " + orPlaceholder(models.Person{Name: p.Name, LastName: p.LastName}.FullName()),
		"Username: " + orPlaceholder(p.Username),
		"DNI:      " + orPlaceholder(p.DNI),
		"Email:    " + orPlaceholder(p.Email),
		"Phone:    " + orPlaceholder(p.Phone),
		"CVU:      " + orPlaceholder(p.CVU),
		"Alias:    " + orPlaceholder(p.Alias),
	}
}

func formatReceipt(r models.Receipt) []string {
	return []string{
		"Operation:   " + orPlaceholder(r.OperationID),
		"Date:        " + orPlaceholder(r.Date),
		"Amount:      " + models.FormatCurrency(r.Amount),
		"From:        " + orPlaceholder(r.OriginName) + " " + orPlaceholder(r.OriginLastname),
		"From CVU:    " + orPlaceholder(r.OriginCVU),
		"To:          " + orPlaceholder(r.DestinationName) + " " + orPlaceholder(r.DestinationLastname),
		"To CVU:      " + orPlaceholder(r.DestinationCVU),
		"Description: " + orPlaceholder(r.Description),
	}
}

func formatPage(s services.PageState) []string {
	if s.Err != "" {
		return []string{"Error: " + s.Err}
	}

	lines := formatTransactions(s.Items)
	if s.Meta == nil {
		return lines
	}

	footer := fmt.Sprintf("Page %d of %d (%d movements)", s.Page, s.Meta.TotalPages, s.Meta.TotalElements)
	var nav []string
	if s.CanPrev() {
		nav = append(nav, "prev")
	}
	if s.CanNext() {
		nav = append(nav, "next")
	}
	if len(nav) > 0 {
		footer += ", type " + strings.Join(nav, " or ")
	}
	return append(lines, footer)
}

func printLines(lines []string) {
	for _, l := range lines {
		printlnFn(l)
	}
}
