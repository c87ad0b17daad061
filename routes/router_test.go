package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techjourney/folio/config"
	"github.com/techjourney/folio/utils"
)

type apiCall struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]any
}

// fakeAPI answers the backend routes the screens under test use.
type fakeAPI struct {
	mu           sync.Mutex
	calls        []apiCall
	role         string
	unauthorized bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	call := apiCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Auth: r.Header.Get("Authorization")}
	if b, _ := io.ReadAll(r.Body); len(b) > 0 {
		_ = json.Unmarshal(b, &call.Body)
	}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	unauthorized, role := f.unauthorized, f.role
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	reply := func(status int, body string) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
	if unauthorized && r.URL.Path != "/auth/login" {
		reply(http.StatusUnauthorized, `{"success":false,"message":"Token expired"}`)
		return
	}

	switch r.Method + " " + r.URL.Path {
	case "POST /auth/login":
		if role == "" {
			role = "ADMIN"
		}
		reply(http.StatusOK, `{"success":true,"data":{"user":{"id":"u1","username":"ada","fullName":"Ada","email":"ada@example.com","role":"`+role+`"},"tokens":{"accessToken":"tok-admin"}}}`)
	case "GET /posts":
		reply(http.StatusOK, `{"success":true,"data":[
			{"id":"p1","title":"Hello World","slug":"hello-world","isPublished":true,"createdAt":"2024-01-02T00:00:00Z"},
			{"id":"p2","title":"Second Post","slug":"second-post","isPublished":false,"createdAt":"2024-02-02T00:00:00Z"}
		]}`)
	case "POST /posts":
		reply(http.StatusCreated, `{"success":true,"data":{"id":"p3"}}`)
	case "DELETE /posts/p1":
		reply(http.StatusOK, `{"success":true,"data":null}`)
	case "GET /categories":
		reply(http.StatusOK, `{"success":true,"data":[]}`)
	case "GET /posts/id/p1":
		reply(http.StatusOK, `{"success":true,"data":{"id":"p1","title":"Hello World","slug":"hello-world","excerpt":"Hi","content":"Body","tags":["go","web"],"isPublished":true}}`)
	case "PUT /posts/p1":
		reply(http.StatusOK, `{"success":true,"data":{"id":"p1"}}`)
	case "GET /projects":
		reply(http.StatusOK, `{"success":true,"data":[{"id":"pr1","title":"Folio","slug":"folio","status":"COMPLETED","techStack":["go"]}]}`)
	case "POST /projects":
		reply(http.StatusCreated, `{"success":true,"data":{"id":"pr2"}}`)
	case "PUT /projects/pr1/featured":
		reply(http.StatusOK, `{"success":true,"data":null}`)
	case "GET /timeline/id/m1":
		reply(http.StatusOK, `{"success":true,"data":{"id":"m1","title":"Joined Acme","description":"Backend work","type":"WORK","date":"2023-04-01T00:00:00Z","tags":[]}}`)
	case "GET /comments":
		reply(http.StatusOK, `{"success":true,"data":[{"id":"c1","authorName":"Grace","content":"Nice post","isApproved":false}]}`)
	case "PUT /comments/c1/approve":
		reply(http.StatusOK, `{"success":true,"data":null}`)
	case "GET /analytics/stats":
		reply(http.StatusOK, `{"success":true,"data":{"totalPosts":42,"publishedPosts":40,"totalProjects":7,"totalComments":13,"totalViews":9001}}`)
	default:
		reply(http.StatusNotFound, `{"success":false,"message":"Not found"}`)
	}
}

func (f *fakeAPI) find(method, path string) []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []apiCall
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeAPI) reject() {
	f.mu.Lock()
	f.unauthorized = true
	f.mu.Unlock()
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newApp(t *testing.T, opts ...func(*config.AppConfig)) (*browser, *fakeAPI) {
	t.Helper()
	backend := &fakeAPI{}
	apiSrv := httptest.NewServer(backend)
	t.Cleanup(apiSrv.Close)

	cfg := config.AppConfig{
		APIBaseURL:         apiSrv.URL,
		APITimeoutSec:      5,
		GinMode:            "test",
		GinPath:            filepath.Join(t.TempDir(), "gin.log"),
		SessionBackend:     "memory",
		SessionCookie:      "folio_session",
		SessionTTLHours:    1,
		RateLimitPerMinute: 1000,
		AllowedOrigins:     []string{"*"},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	store, err := NewSessionStore(ctx, cfg)
	require.NoError(t, err)
	app := httptest.NewServer(SetupRouter(cfg, store, NewAPIClient(cfg, store)))
	t.Cleanup(app.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: app.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, backend
}

func (b *browser) get(path string) (*http.Response, string) {
	b.t.Helper()
	res, err := b.client.Get(b.base + path)
	require.NoError(b.t, err)
	return res, readBody(b.t, res)
}

func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	res, err := b.client.PostForm(b.base+path, form)
	require.NoError(b.t, err)
	return res, readBody(b.t, res)
}

func (b *browser) login() {
	b.t.Helper()
	res, _ := b.post("/auth/login", url.Values{"email": {"ada@example.com"}, "password": {"secret"}})
	require.Equal(b.t, http.StatusSeeOther, res.StatusCode)
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(b)
}

func TestHealth(t *testing.T) {
	b, _ := newApp(t)
	res, body := b.get("/health")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"status":"ok"`)
}

func TestDashboardRequiresLogin(t *testing.T) {
	b, backend := newApp(t)

	res, _ := b.get("/dashboard/posts")
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, "/auth/login?next=%2Fdashboard%2Fposts", res.Header.Get("Location"))
	assert.Zero(t, backend.count())
}

func TestLoginListAndLogout(t *testing.T) {
	b, backend := newApp(t)

	res, _ := b.post("/auth/login", url.Values{"email": {"ada@example.com"}, "password": {"secret"}, "next": {"/dashboard/posts"}})
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/dashboard/posts", res.Header.Get("Location"))

	res, body := b.get("/dashboard/posts")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Hello World")
	assert.Contains(t, body, "Second Post")
	calls := backend.find("GET", "/posts")
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer tok-admin", calls[0].Auth)
	assert.Equal(t, "pageSize=100", calls[0].Query)

	res, _ = b.post("/auth/logout", nil)
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/", res.Header.Get("Location"))

	res, _ = b.get("/dashboard/posts")
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.True(t, strings.HasPrefix(res.Header.Get("Location"), "/auth/login"))
	assert.Len(t, backend.find("GET", "/posts"), 1)
}

func TestNonAdminIsSentHome(t *testing.T) {
	b, backend := newApp(t)
	backend.role = "USER"

	res, _ := b.post("/auth/login", url.Values{"email": {"ada@example.com"}, "password": {"secret"}})
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/auth/profile", res.Header.Get("Location"))

	res, _ = b.get("/dashboard")
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, "/", res.Header.Get("Location"))
}

func TestSearchNarrowsLocally(t *testing.T) {
	b, backend := newApp(t)
	b.login()

	res, body := b.get("/dashboard/posts?search=hello")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Hello World")
	assert.NotContains(t, body, "Second Post")
	assert.Equal(t, "pageSize=100", backend.find("GET", "/posts")[0].Query)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	b, backend := newApp(t)
	b.login()

	res, body := b.get("/dashboard/posts/p1/delete?label=Hello+World")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Hello World")
	assert.Empty(t, backend.find("DELETE", "/posts/p1"))

	res, _ = b.post("/dashboard/posts/p1/delete", url.Values{"confirm": {"no"}})
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Empty(t, backend.find("DELETE", "/posts/p1"))

	res, _ = b.post("/dashboard/posts/p1/delete", url.Values{"confirm": {"yes"}})
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/dashboard/posts", res.Header.Get("Location"))
	assert.Len(t, backend.find("DELETE", "/posts/p1"), 1)

	_, body = b.get("/dashboard/posts")
	assert.Contains(t, body, "Post deleted")
}

func TestInvalidFormNeverReachesAPI(t *testing.T) {
	b, backend := newApp(t)
	b.login()

	res, body := b.post("/dashboard/posts/new", url.Values{"title": {""}, "excerpt": {"x"}, "content": {"y"}})
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Contains(t, body, "Title")
	assert.Empty(t, backend.find("POST", "/posts"))
}

func TestCreatePost(t *testing.T) {
	b, backend := newApp(t)
	b.login()

	res, _ := b.post("/dashboard/posts/new", url.Values{
		"title":       {"My Post"},
		"excerpt":     {"Short"},
		"content":     {"Body"},
		"tags":        {"go, web"},
		"isPublished": {"true"},
	})
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/dashboard/posts", res.Header.Get("Location"))

	calls := backend.find("POST", "/posts")
	require.Len(t, calls, 1)
	assert.Equal(t, "my-post", calls[0].Body["slug"])
	assert.Equal(t, []any{"go", "web"}, calls[0].Body["tags"])
	assert.Equal(t, true, calls[0].Body["isPublished"])
}

func TestRejectedTokenEndsSession(t *testing.T) {
	b, backend := newApp(t)
	b.login()
	backend.reject()

	res, _ := b.get("/dashboard/posts")
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/auth/login?next=%2Fdashboard%2Fposts", res.Header.Get("Location"))

	before := backend.count()
	res, _ = b.get("/dashboard/projects")
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, before, backend.count())
}

func TestUnknownPostIsNotFound(t *testing.T) {
	b, _ := newApp(t)

	res, body := b.get("/blog/missing")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, body, "does not exist")

	res, _ = b.get("/no/such/page")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestGuestPagesRedirectSignedInUsers(t *testing.T) {
	b, _ := newApp(t)
	b.login()

	res, _ := b.get("/auth/login")
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, "/dashboard", res.Header.Get("Location"))
}

func TestRejectedTokenOnPublicPageEndsCookieSession(t *testing.T) {
	b, backend := newApp(t, func(cfg *config.AppConfig) {
		cfg.SessionBackend = "cookie"
		cfg.SessionSecret = "cookie-sealing-secret"
	})
	b.login()

	res, _ := b.get("/auth/profile")
	require.Equal(t, http.StatusOK, res.StatusCode)

	backend.reject()
	res, _ = b.get("/")
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = b.get("/auth/profile")
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.True(t, strings.HasPrefix(res.Header.Get("Location"), "/auth/login"))
}

func TestRejectedTokenOnPublicPageEndsMemorySession(t *testing.T) {
	b, backend := newApp(t)
	b.login()

	backend.reject()
	res, body := b.get("/blog")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotContains(t, body, "/auth/logout")

	res, _ = b.get("/dashboard")
	assert.Equal(t, http.StatusFound, res.StatusCode)
}

func TestEditFormIsFilledFromAPI(t *testing.T) {
	b, backend := newApp(t)
	b.login()

	res, body := b.get("/dashboard/posts/p1/edit")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, backend.find("GET", "/posts/id/p1"), 1)
	assert.Contains(t, body, `value="hello-world"`)
	assert.Contains(t, body, `value="go, web"`)

	res, body = b.get("/dashboard/timeline/m1/edit")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, backend.find("GET", "/timeline/id/m1"), 1)
	assert.Contains(t, body, `value="2023-04-01"`)
	assert.Contains(t, body, `value="Joined Acme"`)
}

func TestEditLoadFailureReturnsToList(t *testing.T) {
	b, _ := newApp(t)
	b.login()

	res, _ := b.get("/dashboard/posts/missing/edit")
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/dashboard/posts", res.Header.Get("Location"))

	_, body := b.get("/dashboard/posts")
	assert.Contains(t, body, "Failed to load post")
}

func TestToggles(t *testing.T) {
	b, backend := newApp(t)
	b.login()

	res, _ := b.post("/dashboard/posts/p1/publish", url.Values{"value": {"false"}})
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/dashboard/posts", res.Header.Get("Location"))
	calls := backend.find("PUT", "/posts/p1")
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]any{"isPublished": false}, calls[0].Body)

	res, _ = b.post("/dashboard/projects/pr1/featured", url.Values{"value": {"true"}})
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	calls = backend.find("PUT", "/projects/pr1/featured")
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]any{"isFeatured": true}, calls[0].Body)

	res, _ = b.post("/dashboard/comments/c1/approve", url.Values{"value": {"true"}})
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/dashboard/comments", res.Header.Get("Location"))
	assert.Len(t, backend.find("PUT", "/comments/c1/approve"), 1)

	_, body := b.get("/dashboard/comments")
	assert.Contains(t, body, "Comment approved")
	assert.Contains(t, body, "Grace")
}

func TestDashboardShowsStatsAndRecentPosts(t *testing.T) {
	b, backend := newApp(t)
	b.login()

	res, body := b.get("/dashboard")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "<span>42</span>")
	assert.Contains(t, body, "<span>9001</span>")
	assert.Contains(t, body, "Hello World")
	assert.Contains(t, body, "Nice post")
	assert.Equal(t, "pageSize=5", backend.find("GET", "/posts")[0].Query)
}

func TestSettingsSaveAppliesToBlog(t *testing.T) {
	old := utils.CurrentSettings()
	t.Cleanup(func() { utils.SaveSettings(old) })
	b, backend := newApp(t)
	b.login()

	res, _ := b.post("/dashboard/settings", url.Values{"siteName": {"Ada Writes"}, "postsPerPage": {"5"}})
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/dashboard/settings", res.Header.Get("Location"))

	res, body := b.get("/blog")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Ada Writes")
	calls := backend.find("GET", "/posts")
	require.NotEmpty(t, calls)
	q, err := url.ParseQuery(calls[len(calls)-1].Query)
	require.NoError(t, err)
	assert.Equal(t, "5", q.Get("pageSize"))

	res, body = b.post("/dashboard/settings", url.Values{"siteName": {"Ada Writes"}, "postsPerPage": {"500"}})
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Contains(t, body, "Posts per page")
	assert.Equal(t, 5, utils.CurrentSettings().PostsPerPage)
}

func TestCreateProjectSendsNullsAndLists(t *testing.T) {
	b, backend := newApp(t)
	b.login()

	res, _ := b.post("/dashboard/projects/new", url.Values{
		"title":          {"Folio"},
		"slug":           {"folio"},
		"description":    {"Portfolio site"},
		"techStack":      {"go, gin"},
		"status":         {"PLANNING"},
		"thumbnailImage": {""},
		"features":       {"a\nb"},
	})
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/dashboard/projects", res.Header.Get("Location"))

	calls := backend.find("POST", "/projects")
	require.Len(t, calls, 1)
	body := calls[0].Body
	v, ok := body["thumbnailImage"]
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, []any{"go", "gin"}, body["techStack"])
	assert.Equal(t, []any{"a", "b"}, body["features"])
	assert.Equal(t, "PLANNING", body["status"])
}

func TestGuestFormsCarryNonce(t *testing.T) {
	b, _ := newApp(t)
	for _, path := range []string{"/auth/login", "/auth/register"} {
		res, body := b.get(path)
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Contains(t, body, `name="formNonce"`, path)
	}
}
