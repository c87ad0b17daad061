package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/techjourney/folio/session"
	"github.com/techjourney/folio/utils"
)

const (
	// ContextSessionRef is the gin key of the current session reference.
	ContextSessionRef = "session_ref"
	// ContextSessionState is the gin key of the current session snapshot.
	ContextSessionState = "session_state"
)

// Session loads the browser's session once per request and publishes the
// snapshot on both the gin context and the request context, where the API
// client finds the access token. A reference that no longer resolves to a
// signed-in session is cleared from the browser.
func Session(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := store.ReadRef(c.Request)
		st, err := store.Init(c.Request.Context(), ref)
		if err != nil {
			// Backend outage: serve anonymously but keep the cookie.
			utils.Sugar.Warnw("session load failed", "error", err)
			st = session.State{}
		} else if ref != "" && !st.IsAuthenticated() {
			store.ClearRef(c.Writer)
			ref = ""
		}
		SetSession(c, ref, st)
		c.Next()
	}
}

// SetSession replaces the snapshot of the current request, after login,
// logout or a profile update.
func SetSession(c *gin.Context, ref string, st session.State) {
	c.Set(ContextSessionRef, ref)
	c.Set(ContextSessionState, st)
	c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), ref, st))
}

// CurrentSession returns the snapshot loaded for this request.
func CurrentSession(c *gin.Context) (string, session.State) {
	return session.FromContext(c.Request.Context())
}

