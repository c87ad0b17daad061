package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/auth/login"

// RequireAdmin guards the dashboard. It is evaluated against the snapshot of
// every request, so a logout or an expired token takes effect on the next
// navigation.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		_, st := CurrentSession(c)
		if !st.IsAuthenticated() {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		if !st.IsAdmin() {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAuth lets any signed-in user through.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, st := CurrentSession(c)
		if !st.IsAuthenticated() {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireGuest keeps signed-in users off the login and register pages.
func RequireGuest() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, st := CurrentSession(c)
		if st.IsAuthenticated() {
			c.Redirect(http.StatusFound, HomeFor(st.IsAdmin()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// HomeFor is the landing page after sign-in.
func HomeFor(admin bool) string {
	if admin {
		return "/dashboard"
	}
	return "/auth/profile"
}

// LoginURL returns the login page that returns to next afterwards.
func LoginURL(next string) string {
	if !SafeNext(next) {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// SafeNext reports whether next is a local path safe to redirect to.
func SafeNext(next string) bool {
	return strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") && !strings.HasPrefix(next, LoginPath)
}
