// Package models defines the client-side data model of the wallet: the
// session and its persisted projection, the account snapshot, the
// transaction history variants, receipts and pagination metadata.
//
// Money is carried as decimal.Decimal. ParseAmount and FormatCurrency
// implement the input and display rules for amounts typed by the user.
package models
