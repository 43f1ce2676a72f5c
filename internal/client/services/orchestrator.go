package services

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/chewallet/internal/client/client"
	"github.com/dmitrijs2005/chewallet/internal/client/models"
	"github.com/dmitrijs2005/chewallet/internal/common"
	"github.com/dmitrijs2005/chewallet/internal/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	nowFn        = time.Now
	newRequestID = uuid.NewString
)

// TransferOutcome is a successful transfer. RefreshErr reports a failed
// account refresh afterwards; it does not undo the transfer.
type TransferOutcome struct {
	Receipt    models.Receipt
	RefreshErr error
}

// Orchestrator runs the write flows of the wallet.
//
// Contract:
//   - Deposit returns the checkout handle and leaves the balance alone.
//   - Transfer validates locally before any network call, builds a receipt
//     on success, clears the form and refreshes the account.
//   - A second Deposit or Transfer while one is running fails with
//     ErrSubmissionInProgress.
type Orchestrator interface {
	Deposit(ctx context.Context, destination string, amount decimal.Decimal) (*models.Checkout, error)
	Transfer(ctx context.Context, form *models.TransferForm) (*TransferOutcome, error)
	Receipt(ctx context.Context, id string) (*models.Receipt, error)
}

type orchestrator struct {
	client   client.Client
	session  SessionStore
	accounts AccountStore
	log      logging.Logger

	submitting atomic.Bool
}

func NewOrchestrator(c client.Client, session SessionStore, accounts AccountStore, log logging.Logger) Orchestrator {
	if log == nil {
		log = logging.Nop()
	}
	return &orchestrator{
		client:   c,
		session:  session,
		accounts: accounts,
		log:      log.With("component", "orchestrator"),
	}
}

func (o *orchestrator) Deposit(ctx context.Context, destination string, amount decimal.Decimal) (*models.Checkout, error) {
	form := models.TransferForm{Destination: destination, Amount: amount}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	if !o.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInProgress
	}
	defer o.submitting.Store(false)

	req := models.DepositRequest{
		Destination: strings.TrimSpace(destination),
		Amount:      amount.InexactFloat64(),
	}
	checkout, err := o.client.Checkout(ctx, req)
	if err != nil {
		return nil, asPartial("deposit", err)
	}

	o.log.Info(ctx, "checkout created", "destination", req.Destination, "preference_id", checkout.PreferenceID)
	return checkout, nil
}

func (o *orchestrator) Transfer(ctx context.Context, form *models.TransferForm) (*TransferOutcome, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	if !o.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInProgress
	}
	defer o.submitting.Store(false)

	requestID := newRequestID()
	submittedAt := nowFn()
	destination := strings.TrimSpace(form.Destination)

	req := models.TransferRequest{
		AccountDestination: destination,
		Amount:             form.Amount.InexactFloat64(),
		Description:        form.Description,
	}

	body, err := o.client.Transfer(client.WithRequestID(ctx, requestID), req)
	if err != nil {
		return nil, asPartial("transfer", err)
	}

	fallback := o.transferFallback(requestID, destination, form, submittedAt)
	receipt := models.BuildReceipt(body, fallback)
	form.Reset()

	o.log.Info(ctx, "transfer done", "operation_id", receipt.OperationID, "request_id", requestID)

	out := &TransferOutcome{Receipt: receipt}
	if _, err := o.accounts.GetUser(ctx); err != nil {
		out.RefreshErr = err
	}
	return out, nil
}

// transferFallback is what the receipt shows for every field the transfer
// response leaves out.
func (o *orchestrator) transferFallback(requestID, destination string, form *models.TransferForm, at time.Time) models.Receipt {
	fb := models.Receipt{
		OperationID:         requestID,
		OriginName:          common.Placeholder,
		OriginLastname:      common.Placeholder,
		OriginCVU:           common.Placeholder,
		DestinationName:     common.Placeholder,
		DestinationLastname: common.Placeholder,
		DestinationCVU:      destination,
		Amount:              form.Amount,
		Date:                at.UTC().Format(time.RFC3339),
		Description:         form.Description,
	}

	acc, ok := o.accounts.Account()
	if !ok {
		acc, ok = o.accounts.Cached()
	}
	if ok {
		fb.OriginName = orPlaceholder(acc.Name)
		fb.OriginLastname = orPlaceholder(acc.LastName)
		fb.OriginCVU = orPlaceholder(acc.CVU)
	}
	if !ok || acc.Name == "" {
		if id := o.session.Snapshot().Identity; id != "" {
			fb.OriginName = id
		}
	}
	return fb
}

func orPlaceholder(s string) string {
	if s == "" {
		return common.Placeholder
	}
	return s
}

func (o *orchestrator) Receipt(ctx context.Context, id string) (*models.Receipt, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, common.NewValidationError("id", "transaction id is required")
	}

	body, err := o.client.Transaction(ctx, id)
	if err != nil {
		return nil, asPartial("get transaction", err)
	}

	r := models.BuildReceipt(body, models.DetailFallback(id, nowFn()))
	return &r, nil
}
