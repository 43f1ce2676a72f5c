package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindTransferSent     TransactionKind = "TRANSFER_SENT"
	KindTransferReceived TransactionKind = "TRANSFER_RECEIVED"
	KindDeposit          TransactionKind = "DEPOSIT"
	KindUnrecognized     TransactionKind = "UNRECOGNIZED"
)

// ParseKind maps the backend's type string onto a known kind. Matching is
// exact after case folding; anything else is KindUnrecognized.
func ParseKind(s string) TransactionKind {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRANSFER_SENT", "SENT":
		return KindTransferSent
	case "TRANSFER_RECEIVED", "RECEIVED":
		return KindTransferReceived
	case "DEPOSIT":
		return KindDeposit
	}
	return KindUnrecognized
}

// TransactionBase holds the fields every movement carries. Amount is a
// magnitude; direction is given by the variant.
type TransactionBase struct {
	ID     string
	Amount decimal.Decimal
	Date   string
}

// Transaction is a closed sum type. The concrete variants are TransferSent,
// TransferReceived, Deposit and Unrecognized.
type Transaction interface {
	Base() TransactionBase
	Kind() TransactionKind
	sealed()
}

type TransferSent struct {
	TransactionBase
	To Person
}

type TransferReceived struct {
	TransactionBase
	From Person
}

type Deposit struct {
	TransactionBase
}

// Unrecognized keeps a movement whose type the client does not know, so
// it can still be listed.
type Unrecognized struct {
	TransactionBase
	Type string
}

func (t TransferSent) Base() TransactionBase     { return t.TransactionBase }
func (t TransferReceived) Base() TransactionBase { return t.TransactionBase }
func (t Deposit) Base() TransactionBase          { return t.TransactionBase }
func (t Unrecognized) Base() TransactionBase     { return t.TransactionBase }

func (TransferSent) Kind() TransactionKind     { return KindTransferSent }
func (TransferReceived) Kind() TransactionKind { return KindTransferReceived }
func (Deposit) Kind() TransactionKind          { return KindDeposit }
func (Unrecognized) Kind() TransactionKind     { return KindUnrecognized }

func (TransferSent) sealed()     {}
func (TransferReceived) sealed() {}
func (Deposit) sealed()          {}
func (Unrecognized) sealed()     {}

// wireTransaction is the flat shape the backend sends for a movement.
// Field matching in encoding/json is case-insensitive, which also covers
// the DestinationLastName spelling used by /user/me.
type wireTransaction struct {
	ID                  json.RawMessage `json:"id,omitempty"`
	DestinationName     string          `json:"DestinationName,omitempty"`
	DestinationLastname string          `json:"DestinationLastname,omitempty"`
	OriginName          string          `json:"OriginName,omitempty"`
	OriginLastname      string          `json:"OriginLastname,omitempty"`
	Date                string          `json:"date"`
	Type                string          `json:"type"`
	Amount              decimal.Decimal `json:"amount"`
}

func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (w wireTransaction) toTransaction() Transaction {
	base := TransactionBase{
		ID:     rawID(w.ID),
		Amount: w.Amount.Abs(),
		Date:   w.Date,
	}

	switch ParseKind(w.Type) {
	case KindTransferSent:
		return TransferSent{TransactionBase: base, To: Person{Name: w.DestinationName, LastName: w.DestinationLastname}}
	case KindTransferReceived:
		return TransferReceived{TransactionBase: base, From: Person{Name: w.OriginName, LastName: w.OriginLastname}}
	case KindDeposit:
		return Deposit{TransactionBase: base}
	}
	return Unrecognized{TransactionBase: base, Type: w.Type}
}

func fromTransaction(t Transaction) (wireTransaction, error) {
	b := t.Base()
	w := wireTransaction{Date: b.Date, Amount: b.Amount, Type: string(t.Kind())}
	if b.ID != "" {
		id, err := json.Marshal(b.ID)
		if err != nil {
			return w, err
		}
		w.ID = id
	}

	switch v := t.(type) {
	case TransferSent:
		w.DestinationName, w.DestinationLastname = v.To.Name, v.To.LastName
	case TransferReceived:
		w.OriginName, w.OriginLastname = v.From.Name, v.From.LastName
	case Deposit:
	case Unrecognized:
		w.Type = v.Type
	default:
		return w, fmt.Errorf("unknown transaction variant %T", t)
	}
	return w, nil
}

// TransactionList decodes the backend's flat movement objects into the
// Transaction sum type.
type TransactionList []Transaction

func (l *TransactionList) UnmarshalJSON(data []byte) error {
	var wire []wireTransaction
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire == nil {
		*l = nil
		return nil
	}

	out := make(TransactionList, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toTransaction())
	}
	*l = out
	return nil
}

func (l TransactionList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("null"), nil
	}
	wire := make([]wireTransaction, 0, len(l))
	for _, t := range l {
		w, err := fromTransaction(t)
		if err != nil {
			return nil, err
		}
		wire = append(wire, w)
	}
	return json.Marshal(wire)
}
