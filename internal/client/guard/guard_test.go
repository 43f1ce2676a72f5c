package guard

import (
	"testing"

	"github.com/dmitrijs2005/chewallet/internal/client/models"
	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		s    models.Session
		want Decision
	}{
		{"unchecked", models.Session{}, Pending},
		{"unchecked while loading", models.Session{Loading: true}, Pending},
		{"unchecked with stale hint", models.Session{Authenticated: true, Identity: "ana"}, Pending},
		{"checked anonymous", models.Session{Checked: true}, RedirectToLogin},
		{"checked authenticated", models.Session{Checked: true, Authenticated: true}, Allow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.s))
		})
	}
}

func TestDecide_NeverDecidesWhileUnchecked(t *testing.T) {
	for _, auth := range []bool{false, true} {
		for _, loading := range []bool{false, true} {
			s := models.Session{Authenticated: auth, Loading: loading, LastError: []string{"x"}}
			assert.Equal(t, Pending, Decide(s))
		}
	}
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "redirect-to-login", RedirectToLogin.String())
	assert.Equal(t, "invalid", Decision(9).String())
}
