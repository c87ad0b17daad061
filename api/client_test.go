package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techjourney/folio/models"
)

type recorded struct {
	method string
	path   string
	query  string
	auth   string
	body   map[string]any
}

func fakeAPI(t *testing.T, status int, response string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, auth: r.Header.Get("Authorization")}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			assert.NoError(t, json.Unmarshal(b, &rec.body))
		}
		calls = append(calls, rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestGetUnwrapsEnvelopeAndMeta(t *testing.T) {
	srv, calls := fakeAPI(t, http.StatusOK, `{"success":true,"data":[{"id":"p1","title":"Hello","tags":["go"]}],"meta":{"page":2,"pageSize":12,"total":13,"totalPages":2}}`)
	c := New(srv.URL + "/")

	posts, meta, err := c.Posts().List(context.Background(), url.Values{"page": {"2"}})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Hello", posts[0].Title)
	assert.Equal(t, []string{"go"}, posts[0].Tags)
	require.NotNil(t, meta)
	assert.Equal(t, 2, meta.TotalPages)
	assert.Equal(t, "/posts", (*calls)[0].path)
	assert.Equal(t, "page=2", (*calls)[0].query)
}

func TestBearerTokenFromContext(t *testing.T) {
	srv, calls := fakeAPI(t, http.StatusOK, `{"success":true,"data":{}}`)
	type key struct{}
	c := New(srv.URL, WithTokenSource(func(ctx context.Context) string {
		tok, _ := ctx.Value(key{}).(string)
		return tok
	}))

	_, err := c.Stats(context.WithValue(context.Background(), key{}, "tok-123"))
	require.NoError(t, err)
	_, err = c.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", (*calls)[0].auth)
	assert.Empty(t, (*calls)[1].auth)
}

func TestSuccessFalseIsServerError(t *testing.T) {
	srv, _ := fakeAPI(t, http.StatusOK, `{"success":false,"message":"Slug already exists"}`)
	c := New(srv.URL)

	_, err := c.Posts().Create(context.Background(), models.PostPayload{Title: "x"})
	require.Error(t, err)
	assert.Equal(t, KindServer, KindOf(err))
	assert.Equal(t, "Slug already exists", MessageOf(err))
}

func TestNotFound(t *testing.T) {
	srv, _ := fakeAPI(t, http.StatusNotFound, `{"success":false,"message":"Post not found"}`)
	c := New(srv.URL)

	_, err := c.PostBySlug(context.Background(), "missing")
	assert.True(t, IsNotFound(err))
}

func TestUnauthorizedInvokesHandler(t *testing.T) {
	srv, _ := fakeAPI(t, http.StatusUnauthorized, `{"success":false}`)
	called := 0
	c := New(srv.URL, WithUnauthorizedHandler(func(context.Context) { called++ }))

	err := c.Skills().Delete(context.Background(), "s1")
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, 1, called)
	assert.Equal(t, "Unauthorized", MessageOf(err))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(srv.URL)

	_, _, err := c.Skills().List(context.Background(), nil)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.Equal(t, "Unable to reach the server. Please try again.", MessageOf(err))
}

func TestEndpointsPaths(t *testing.T) {
	srv, calls := fakeAPI(t, http.StatusOK, `{"success":true,"data":null}`)
	c := New(srv.URL)
	ctx := context.Background()

	require.NoError(t, c.SetPostPublished(ctx, "p1", true))
	require.NoError(t, c.SetProjectFeatured(ctx, "pr1", false))
	require.NoError(t, c.ApproveComment(ctx, "c1"))
	_, err := c.Timeline().Get(ctx, "m1")
	require.NoError(t, err)
	_, err = c.Posts().Get(ctx, "p1")
	require.NoError(t, err)
	_, err = c.Learning().Update(ctx, "l1", models.LearningPayload{Title: "Go"})
	require.NoError(t, err)

	got := *calls
	assert.Equal(t, "PUT", got[0].method)
	assert.Equal(t, "/posts/p1", got[0].path)
	assert.Equal(t, map[string]any{"isPublished": true}, got[0].body)
	assert.Equal(t, "/projects/pr1/featured", got[1].path)
	assert.Equal(t, map[string]any{"isFeatured": false}, got[1].body)
	assert.Equal(t, "/comments/c1/approve", got[2].path)
	assert.Equal(t, "/timeline/id/m1", got[3].path)
	assert.Equal(t, "/posts/id/p1", got[4].path)
	assert.Equal(t, "PUT", got[5].method)
	assert.Equal(t, "/learning/l1", got[5].path)
}

func TestUpdateProfileReturnsPatch(t *testing.T) {
	srv, _ := fakeAPI(t, http.StatusOK, `{"success":true,"data":{"fullName":"Ada L","bio":"hi"}}`)
	c := New(srv.URL)

	patch, err := c.UpdateProfile(context.Background(), models.ProfilePayload{FullName: "Ada L"})
	require.NoError(t, err)
	merged := models.User{ID: "u1", FullName: "Ada", Role: "ADMIN"}.Merge(patch)
	assert.Equal(t, "Ada L", merged.FullName)
	assert.Equal(t, "hi", merged.Bio)
	assert.Equal(t, "ADMIN", merged.Role)
	assert.Equal(t, "u1", merged.ID)
}

func TestRouteOf(t *testing.T) {
	assert.Equal(t, "/posts", routeOf("/posts/id/42"))
	assert.Equal(t, "/analytics", routeOf("/analytics/stats"))
	assert.Equal(t, "/skills", routeOf("/skills"))
}
