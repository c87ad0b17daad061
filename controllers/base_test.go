package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techjourney/folio/api"
	"github.com/techjourney/folio/models"
	"github.com/techjourney/folio/session"
)

func formContext(t *testing.T, remoteAddr string, form url.Values) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodPost, "/about/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = remoteAddr
	c.Request = req
	return c
}

func TestSubmitKeyForGuestsUsesFormNonce(t *testing.T) {
	const sameNAT = "203.0.113.7:4000"

	assert.Empty(t, submitKey(formContext(t, sameNAT, url.Values{})))

	first := submitKey(formContext(t, sameNAT, url.Values{nonceField: {"n-1"}}))
	second := submitKey(formContext(t, sameNAT, url.Values{nonceField: {"n-2"}}))
	again := submitKey(formContext(t, "198.51.100.1:5000", url.Values{nonceField: {"n-1"}}))
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
	assert.Equal(t, first, again)
}

func TestSubmitKeyForSignedInUsesSessionRef(t *testing.T) {
	c := formContext(t, "203.0.113.7:4000", url.Values{nonceField: {"ignored"}})
	c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), "ref-1", session.State{}))
	assert.Equal(t, "ref-1 POST /about/contact", submitKey(c))
}

func TestInflightIgnoresEmptyKey(t *testing.T) {
	g := NewInflight()
	release, ok := g.Acquire("")
	require.True(t, ok)
	_, ok = g.Acquire("")
	assert.True(t, ok)
	release()
}

func TestCancelledRequestRendersNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cancel()
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	client := api.New(srv.URL)
	store := session.NewStore(session.NewMemoryBackend(time.Minute), session.Options{})
	list := &ListScreen[models.Post]{
		Base: NewBase(client, store), Section: "posts", Title: "Posts", Noun: "post", BaseURL: "/dashboard/posts",
		Resource: client.Posts(),
	}

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/posts", nil).WithContext(ctx)

	list.Index(c)
	assert.True(t, c.IsAborted())
	assert.False(t, c.Writer.Written())
	assert.Zero(t, w.Body.Len())
}

func TestForgetRejectedClearsSession(t *testing.T) {
	store := session.NewStore(session.NewMemoryBackend(time.Minute), session.Options{CookieName: "folio_session"})
	b := NewBase(api.New("http://127.0.0.1:1"), store)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request = req.WithContext(session.NewContext(req.Context(), "ref-1", session.State{AccessToken: "tok", User: &models.User{ID: "u1"}}))

	b.forgetRejected(c, nil, &api.Error{Kind: api.KindNotFound, Status: http.StatusNotFound})
	ref, _ := session.FromContext(c.Request.Context())
	assert.Equal(t, "ref-1", ref)

	b.forgetRejected(c, &api.Error{Kind: api.KindUnauthorized, Status: http.StatusUnauthorized})
	ref, st := session.FromContext(c.Request.Context())
	assert.Empty(t, ref)
	assert.False(t, st.IsAuthenticated())
	assert.Contains(t, w.Header().Get("Set-Cookie"), "folio_session=;")
}
