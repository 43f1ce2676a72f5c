// Package cli is the interactive CheWallet client.
//
// App wires configuration, the state database, the HTTP client and the
// stores, then runs a REPL. Commands that need an account (balance,
// transfers, movements, receipts) go through the route guard: nothing runs
// while the first session check is pending, and an unauthenticated session
// is pointed to login.
//
// The REPL is started via App.Run, which blocks until the user exits. A
// background watcher re-checks the session when SessionCheckInterval is set.
package cli
