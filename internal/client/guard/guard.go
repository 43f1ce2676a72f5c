// Package guard decides whether a protected command may run.
package guard

import "github.com/dmitrijs2005/chewallet/internal/client/models"

type Decision int

const (
	// Pending means the authority check has not resolved yet. Callers show
	// a loading affordance and neither run nor redirect.
	Pending Decision = iota
	RedirectToLogin
	Allow
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case RedirectToLogin:
		return "redirect-to-login"
	case Allow:
		return "allow"
	default:
		return "invalid"
	}
}

// Decide maps a session onto a guard decision. Checked is evaluated before
// Authenticated so that an unresolved session never redirects.
func Decide(s models.Session) Decision {
	if !s.Checked {
		return Pending
	}
	if !s.Authenticated {
		return RedirectToLogin
	}
	return Allow
}
