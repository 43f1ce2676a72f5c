package models

import (
	"strings"

	"github.com/dmitrijs2005/chewallet/internal/common"
	"github.com/shopspring/decimal"
)

// TransferForm is the editable state of the transfer screen.
type TransferForm struct {
	Destination string
	Amount      decimal.Decimal
	Description string
}

// SetAmountInput replaces Amount with the value parsed from raw input.
func (f *TransferForm) SetAmountInput(raw string) {
	f.Amount = ParseAmount(raw)
}

// Validate reports every client-detectable problem at once.
func (f *TransferForm) Validate() error {
	var kv []string
	if strings.TrimSpace(f.Destination) == "" {
		kv = append(kv, "destination", "please enter the alias or CVU of the destination account")
	}
	if !f.Amount.IsPositive() {
		kv = append(kv, "amount", "enter an amount greater than 0")
	}
	if len(kv) > 0 {
		return common.NewValidationError(kv...)
	}
	return nil
}

// Reset clears the form after a successful submission.
func (f *TransferForm) Reset() {
	*f = TransferForm{Amount: decimal.Zero}
}

// TransferRequest is the body of POST /payments/transfer. Amount is sent as
// a JSON number.
type TransferRequest struct {
	AccountDestination string  `json:"accountDestination"`
	Amount             float64 `json:"amount"`
	Description        string  `json:"description"`
}

// DepositRequest is the body of POST /payments/checkout.
type DepositRequest struct {
	Destination string  `json:"destination"`
	Amount      float64 `json:"amount"`
}

// Checkout carries the payment-preference handle the external checkout
// widget needs. The client treats it as opaque.
type Checkout struct {
	PreferenceID string `json:"preferenceId"`
}

// AliasUpdate is the body of PUT /user/update.
type AliasUpdate struct {
	NewAlias string `json:"newAlias"`
}
