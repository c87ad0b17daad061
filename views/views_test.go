package views

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techjourney/folio/utils"
)

func TestAllPagesParse(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	for _, name := range []string{
		"home", "about", "timeline", "learning",
		"blog/list", "blog/detail", "projects/list", "projects/detail",
		"auth/login", "auth/register", "auth/profile",
		"errors/error", "errors/not_found",
		"admin/dashboard", "admin/list", "admin/form", "admin/confirm", "admin/comments", "admin/settings",
	} {
		assert.True(t, r.Has(name), name)
	}
	assert.False(t, r.Has("layouts/site"))
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.HTMLRender = MustNew()
	return e
}

func TestNotFoundPage(t *testing.T) {
	e := newEngine()
	e.NoRoute(NotFound)

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "does not exist")
	assert.Contains(t, w.Body.String(), utils.CurrentSettings().SiteName)
}

func TestErrorPageShowsFlash(t *testing.T) {
	e := newEngine()
	e.GET("/boom", func(c *gin.Context) { Error(c, http.StatusBadGateway, "Upstream is down") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.AddCookie(&http.Cookie{Name: "folio_flash", Value: "k=success&m=Saved"})
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Upstream is down")
	assert.Contains(t, body, "Saved")
}

func TestConfirmPage(t *testing.T) {
	e := newEngine()
	e.GET("/dashboard/posts/:id/delete", func(c *gin.Context) {
		HTML(c, http.StatusOK, "admin/confirm", gin.H{"Title": "Delete post", "Section": "posts", "Noun": "post", "Label": "<b>Hi</b>", "Action": c.Request.URL.Path})
	})

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/posts/p1/delete", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `action="/dashboard/posts/p1/delete"`)
	assert.Contains(t, body, `value="yes"`)
	assert.Contains(t, body, "&lt;b&gt;Hi&lt;/b&gt;")
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "Mar 05, 2024", formatDate(d))
	assert.Equal(t, "Mar 05, 2024", formatDate(&d))
	assert.Equal(t, "Mar 05, 2024", formatDate("2024-03-05"))
	assert.Equal(t, "Mar 05, 2024", formatDate("2024-03-05T10:00:00Z"))
	assert.Equal(t, "soon", formatDate("soon"))
	assert.Equal(t, "", formatDate(time.Time{}))
	var nilTime *time.Time
	assert.Equal(t, "", formatDate(nilTime))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "band-expert", band(95))
	assert.Equal(t, "band-advanced", band(70))
	assert.Equal(t, "band-intermediate", band(50))
	assert.Equal(t, "band-beginner", band(10))
	assert.Equal(t, "héll…", truncate("héllo world", 4))
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "A", initial("ada"))
	assert.Equal(t, "?", initial(""))
	assert.Equal(t, []int{1, 2, 3}, seq(3))

	m, err := dict("F", 1, "E", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, m["F"])
	_, err = dict("odd")
	assert.Error(t, err)
}
