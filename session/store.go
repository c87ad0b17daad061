package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/techjourney/folio/models"
	"github.com/techjourney/folio/utils"
)

// EventKind names a session transition.
type EventKind string

const (
	EventLogin   EventKind = "login"
	EventLogout  EventKind = "logout"
	EventUpdate  EventKind = "update"
	EventExpired EventKind = "expired"
)

// Event is published to subscribers after each transition.
type Event struct {
	Kind  EventKind
	Ref   string
	State State
}

// Options configure the session cookie and lifetime.
type Options struct {
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// Store is the process-wide session store.
type Store struct {
	backend Backend
	opts    Options
	now     func() time.Time

	mu   sync.RWMutex
	subs []func(Event)
}

// NewStore returns a Store persisting to backend.
func NewStore(backend Backend, opts Options) *Store {
	if opts.TTL <= 0 {
		opts.TTL = 7 * 24 * time.Hour
	}
	if opts.CookieName == "" {
		opts.CookieName = "folio_session"
	}
	return &Store{backend: backend, opts: opts, now: time.Now}
}

// Subscribe registers fn for every subsequent transition.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) publish(e Event) {
	s.mu.RLock()
	subs := s.subs
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(e)
	}
}

// Init restores the persisted state for ref. Unknown and expired sessions
// yield the anonymous state.
func (s *Store) Init(ctx context.Context, ref string) (State, error) {
	if ref == "" {
		return State{}, nil
	}
	st, err := s.backend.Load(ctx, ref)
	if errors.Is(err, ErrNotFound) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("load session: %w", err)
	}
	if st.expired(s.now()) {
		if err := s.backend.Delete(ctx, ref); err != nil {
			return State{}, fmt.Errorf("drop expired session: %w", err)
		}
		s.publish(Event{Kind: EventExpired, Ref: ref, State: st})
		return State{}, nil
	}
	return st, nil
}

// Login starts an authenticated session. The previous reference, if any, is
// discarded and a fresh one returned.
func (s *Store) Login(ctx context.Context, prevRef, token string, user models.User) (string, State, error) {
	now := s.now()
	ttl := s.opts.TTL
	st := State{User: &user, AccessToken: token, ExpiresAt: now.Add(ttl)}
	if exp, ok := utils.TokenExpiry(token); ok {
		if until := exp.Sub(now); until < ttl {
			ttl = until
			st.ExpiresAt = exp
		}
	}
	if ttl <= 0 {
		return "", State{}, utils.ErrTokenExpired
	}

	if prevRef != "" {
		if err := s.backend.Delete(ctx, prevRef); err != nil {
			return "", State{}, fmt.Errorf("drop previous session: %w", err)
		}
	}
	ref, err := s.backend.Save(ctx, "", st, ttl)
	if err != nil {
		return "", State{}, fmt.Errorf("save session: %w", err)
	}
	s.publish(Event{Kind: EventLogin, Ref: ref, State: st})
	return ref, st, nil
}

// Logout clears the session.
func (s *Store) Logout(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	if err := s.backend.Delete(ctx, ref); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.publish(Event{Kind: EventLogout, Ref: ref})
	return nil
}

// UpdateUser shallow-merges patch into the signed-in user and returns the
// reference to keep in the cookie.
func (s *Store) UpdateUser(ctx context.Context, ref string, patch models.UserPatch) (string, State, error) {
	st, err := s.Init(ctx, ref)
	if err != nil {
		return "", State{}, err
	}
	if !st.IsAuthenticated() || st.User == nil {
		return "", State{}, ErrNotFound
	}
	merged := st.User.Merge(patch)
	st.User = &merged

	ttl := st.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return "", State{}, ErrNotFound
	}
	newRef, err := s.backend.Save(ctx, ref, st, ttl)
	if err != nil {
		return "", State{}, fmt.Errorf("save session: %w", err)
	}
	s.publish(Event{Kind: EventUpdate, Ref: newRef, State: st})
	return newRef, st, nil
}

// ReadRef returns the session reference sent by the browser.
func (s *Store) ReadRef(r *http.Request) string {
	c, err := r.Cookie(s.opts.CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// WriteRef sets the session cookie.
func (s *Store) WriteRef(w http.ResponseWriter, ref string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    ref,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearRef removes the session cookie.
func (s *Store) ClearRef(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
