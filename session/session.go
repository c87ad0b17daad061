// Package session holds the signed-in identity and API token of each browser.
//
// A single Store per process is the source of truth; handlers read the
// snapshot the session middleware placed in the request context and write
// only through Store, one atomic replace per mutation.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/techjourney/folio/models"
)

// ErrNotFound is returned by backends for unknown or expired references.
var ErrNotFound = errors.New("session not found")

// State is what a browser session knows about its user.
type State struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
}

// IsAuthenticated reports whether an access token is held.
func (s State) IsAuthenticated() bool {
	return s.AccessToken != ""
}

// IsAdmin reports whether the signed-in user may use the dashboard.
func (s State) IsAdmin() bool {
	return s.IsAuthenticated() && s.User != nil && s.User.IsAdmin()
}

func (s State) expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Backend persists session state under an opaque reference carried by the
// session cookie. Save returns the reference to store in the cookie; id based
// backends allocate one when ref is empty.
type Backend interface {
	Load(ctx context.Context, ref string) (State, error)
	Save(ctx context.Context, ref string, st State, ttl time.Duration) (string, error)
	Delete(ctx context.Context, ref string) error
}

type ctxKey struct{}

type snapshot struct {
	ref   string
	state State
}

// NewContext returns ctx carrying the session reference and state of the current request.
func NewContext(ctx context.Context, ref string, st State) context.Context {
	return context.WithValue(ctx, ctxKey{}, snapshot{ref: ref, state: st})
}

// FromContext returns the session of the current request.
func FromContext(ctx context.Context) (string, State) {
	s, _ := ctx.Value(ctxKey{}).(snapshot)
	return s.ref, s.state
}

// TokenFromContext returns the access token of the current request, if any.
func TokenFromContext(ctx context.Context) string {
	_, st := FromContext(ctx)
	return st.AccessToken
}
