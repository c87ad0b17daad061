package utils

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

const flashCookie = "folio_flash"

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// SetFlash stores a message for the next request.
func SetFlash(ctx *gin.Context, kind, message string) {
	v := url.Values{"k": {kind}, "m": {message}}
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     flashCookie,
		Value:    v.Encode(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns and clears the pending message, if any.
func PopFlash(ctx *gin.Context) *Flash {
	c, err := ctx.Request.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(ctx.Writer, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	v, err := url.ParseQuery(c.Value)
	if err != nil || v.Get("m") == "" {
		return nil
	}
	return &Flash{Kind: v.Get("k"), Message: v.Get("m")}
}
