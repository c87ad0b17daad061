package controllers

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/techjourney/folio/api"
	"github.com/techjourney/folio/forms"
	"github.com/techjourney/folio/middleware"
	"github.com/techjourney/folio/session"
	"github.com/techjourney/folio/utils"
	"github.com/techjourney/folio/views"
)

// nonceField is the hidden input of guest forms, see the "nonce" partial.
const nonceField = "formNonce"

// ErrInFlight rejects a second submission of a form still being processed.
var ErrInFlight = errors.New("this form is already being submitted, please wait")

// Base carries what every screen needs.
type Base struct {
	API      *api.Client
	Sessions *session.Store
	inflight *Inflight
}

// NewBase returns a Base with its own submission guard.
func NewBase(client *api.Client, sessions *session.Store) *Base {
	return &Base{API: client, Sessions: sessions, inflight: NewInflight()}
}

// Inflight tracks form submissions currently waiting on the API, keyed by
// session and form.
type Inflight struct {
	m sync.Map
}

func NewInflight() *Inflight { return &Inflight{} }

// Acquire marks key as in flight. ok is false when it already was; otherwise
// release must be called once the submission finishes. An empty key is never
// tracked.
func (g *Inflight) Acquire(key string) (release func(), ok bool) {
	if key == "" {
		return func() {}, true
	}
	if _, loaded := g.m.LoadOrStore(key, struct{}{}); loaded {
		return nil, false
	}
	return func() { g.m.Delete(key) }, true
}

// submitKey identifies one form of one browser. Guests have no session, so
// their forms carry a nonce rendered with the page; a guest post without one
// is not tracked.
func submitKey(c *gin.Context) string {
	ref, _ := middleware.CurrentSession(c)
	if ref == "" {
		nonce := strings.TrimSpace(c.PostForm(nonceField))
		if nonce == "" {
			return ""
		}
		ref = "guest:" + nonce
	}
	return ref + " " + c.Request.Method + " " + c.Request.URL.Path
}

// cancelled reports whether the browser went away while the API answered.
// Results of such requests are dropped unrendered.
func cancelled(c *gin.Context) bool {
	if err := c.Request.Context().Err(); err != nil {
		utils.Sugar.Debugw("request cancelled, discarding result", "path", c.Request.URL.Path)
		c.Abort()
		return true
	}
	return false
}

// handleUnauthorized ends the local session after the API rejected the
// token and sends the browser to the login page. It reports whether err was
// an authorization failure.
func (b *Base) handleUnauthorized(c *gin.Context, err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}
	ref, _ := middleware.CurrentSession(c)
	// The client's unauthorized hook already dropped the stored record.
	utils.Sugar.Infow("session rejected by api", "path", c.Request.URL.Path)
	if ref != "" {
		b.Sessions.ClearRef(c.Writer)
	}
	middleware.SetSession(c, "", session.State{})
	utils.SetFlash(c, utils.FlashError, "Your session has expired. Please log in again.")
	next := ""
	if c.Request.Method == http.MethodGet {
		next = c.Request.URL.RequestURI()
	}
	c.Redirect(http.StatusSeeOther, middleware.LoginURL(next))
	c.Abort()
	return true
}

// forgetRejected drops the session when any of errs says the API rejected
// its token. It serves pages anonymous visitors may also see, so the page
// still renders, now signed out.
func (b *Base) forgetRejected(c *gin.Context, errs ...error) {
	for _, err := range errs {
		if !api.IsUnauthorized(err) {
			continue
		}
		if ref, _ := middleware.CurrentSession(c); ref != "" {
			b.Sessions.ClearRef(c.Writer)
			utils.Sugar.Infow("session rejected by api", "path", c.Request.URL.Path)
		}
		middleware.SetSession(c, "", session.State{})
		return
	}
}

// logAPIError records a failed API call with the route and error kind.
func logAPIError(c *gin.Context, what string, err error) {
	utils.Sugar.Warnw(what+" failed", "route", c.FullPath(), "kind", api.KindOf(err).String(), "error", err)
}

// bindForm binds the urlencoded body into f and runs its validation rules.
func bindForm(c *gin.Context, f any) (forms.Errors, error) {
	if err := c.ShouldBindWith(f, binding.Form); err != nil {
		return nil, err
	}
	return forms.Validate(f), nil
}

func isTrue(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func notFoundOr(c *gin.Context, b *Base, what string, err error) {
	if b.handleUnauthorized(c, err) {
		return
	}
	if api.IsNotFound(err) {
		views.NotFound(c)
		return
	}
	logAPIError(c, what, err)
	views.Error(c, http.StatusBadGateway, api.MessageOf(err))
}
