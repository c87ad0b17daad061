// Package views holds the embedded HTML templates and static assets and the
// gin renderer that serves them.
//
// Every page under templates/pages is parsed together with one layout and all
// partials. Pages under pages/admin use the admin layout, the rest the site
// layout. A page is addressed by its path without extension, e.g. "blog/list".
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/techjourney/folio/session"
	"github.com/techjourney/folio/utils"
)

//go:embed templates static
var files embed.FS

const (
	pagesDir    = "templates/pages"
	siteLayout  = "templates/layouts/site.html"
	adminLayout = "templates/layouts/admin.html"
	partialGlob = "templates/partials/*.html"
)

// Renderer implements gin's render.HTMLRender over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page. It fails on the first template error.
func New() (*Renderer, error) {
	r := &Renderer{pages: map[string]*template.Template{}}
	err := fs.WalkDir(files, pagesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".html" {
			return err
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, pagesDir+"/"), ".html")
		layout := siteLayout
		if strings.HasPrefix(name, "admin/") {
			layout = adminLayout
		}
		t, err := template.New(path.Base(layout)).Funcs(funcs).ParseFS(files, layout, partialGlob, p)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// MustNew is New for program start-up.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Instance returns the render for page name.
func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		panic(fmt.Sprintf("views: unknown page %q", name))
	}
	return render.HTML{Template: t, Name: "base", Data: data}
}

// Has reports whether page name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Static serves the embedded assets.
func Static() http.FileSystem {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Page adds the values every layout needs to data: the session snapshot, the
// pending flash message, the site settings and the request path.
func Page(c *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	_, st := session.FromContext(c.Request.Context())
	data["Session"] = st
	data["User"] = st.User
	data["Site"] = utils.CurrentSettings()
	data["Path"] = c.Request.URL.Path
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = utils.PopFlash(c)
	}
	return data
}

// HTML renders page name with status inside its layout.
func HTML(c *gin.Context, status int, name string, data gin.H) {
	c.HTML(status, name, Page(c, data))
}

// Error renders the generic error page and aborts the chain.
func Error(c *gin.Context, status int, message string) {
	HTML(c, status, "errors/error", gin.H{"Title": http.StatusText(status), "Status": status, "Message": message})
	c.Abort()
}

// NotFound renders the not-found page and aborts the chain.
func NotFound(c *gin.Context) {
	HTML(c, http.StatusNotFound, "errors/not_found", gin.H{"Title": "Not Found"})
	c.Abort()
}
