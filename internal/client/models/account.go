package models

import "github.com/shopspring/decimal"

// Account is the snapshot returned by GET /user/me. It is replaced as a
// whole on every successful fetch.
type Account struct {
	Name               string          `json:"name"`
	LastName           string          `json:"lastname"`
	Alias              string          `json:"alias"`
	CVU                string          `json:"cvu"`
	Balance            decimal.Decimal `json:"balance"`
	RecentTransactions TransactionList `json:"recentTransactions"`
}

// Profile is the personal data returned by GET /user/details.
type Profile struct {
	Name     string `json:"name"`
	LastName string `json:"lastname"`
	Username string `json:"username"`
	DNI      string `json:"dni"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	CVU      string `json:"cvu"`
	Alias    string `json:"alias"`
}

// Person is a counterparty of a transfer.
type Person struct {
	Name     string
	LastName string
}

func (p Person) FullName() string {
	switch {
	case p.Name == "":
		return p.LastName
	case p.LastName == "":
		return p.Name
	}
	return p.Name + " " + p.LastName
}
