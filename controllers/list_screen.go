package controllers

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/techjourney/folio/api"
	"github.com/techjourney/folio/forms"
	"github.com/techjourney/folio/utils"
	"github.com/techjourney/folio/views"
)

// Filter narrows a list by one query parameter. Remote filters are passed to
// the API; local ones are applied with Match to the fetched collection.
type Filter[T any] struct {
	Param  string
	Label  string
	Remote bool
	Match  func(item T, value string) bool
	// Options turns the filter into a select. Static options win over
	// options derived from the fetched items.
	Static  []forms.Option
	Options func(items []T) []forms.Option
}

// Toggle flips a boolean of a row with POST {Base}/:id/{Name}.
type Toggle[T any] struct {
	Name  string
	Label func(T) string
	// Next is the value submitted by the row's button; nil hides the button.
	Next  func(T) *bool
	Apply func(c *gin.Context, id string, value bool) error
	Done  string
}

// Cell is one rendered table cell; Class renders it as a badge.
type Cell struct {
	Text  string
	Class string
}

// ListScreen is the admin table of one entity with search, filters, toggles
// and confirmed deletes.
type ListScreen[T any] struct {
	*Base
	Section  string
	Title    string
	Noun     string
	BaseURL  string
	Resource api.Resource[T]
	// Query is sent with every list call, e.g. pageSize=100.
	Query    url.Values
	Filters  []Filter[T]
	Columns  []string
	Cells    func(T) []Cell
	ID       func(T) string
	Label    func(T) string
	ViewURL  func(T) string
	Toggles  []Toggle[T]
	Editable bool
	NoCreate bool
	Empty    string
	Template string
}

// ListView is the template model of admin/list.
type ListView struct {
	Title    string
	BaseURL  string
	NewURL   string
	NewLabel string
	Filters  []FilterView
	Columns  []string
	Rows     []RowView
	Total    int
	Error    string
	Empty    string
}

type FilterView struct {
	Param   string
	Label   string
	Value   string
	Options []forms.Option
}

type RowView struct {
	Cells     []Cell
	Toggles   []ToggleView
	ViewURL   string
	EditURL   string
	DeleteURL string
}

type ToggleView struct {
	Action string
	Label  string
	Next   string
}

// Fetch loads the collection with remote filters applied, then narrows it
// with the local ones. all is the unfiltered result used for select options.
func (s *ListScreen[T]) Fetch(c *gin.Context) (items, all []T, values map[string]string, err error) {
	values = map[string]string{}
	query := url.Values{}
	for k, v := range s.Query {
		query[k] = append([]string(nil), v...)
	}
	for _, f := range s.Filters {
		v := strings.TrimSpace(c.Query(f.Param))
		values[f.Param] = v
		if f.Remote && v != "" {
			query.Set(f.Param, v)
		}
	}

	all, _, err = s.Resource.List(c.Request.Context(), query)
	if err != nil {
		return nil, nil, values, err
	}
	items = all
	for _, f := range s.Filters {
		v := values[f.Param]
		if f.Remote || v == "" || f.Match == nil {
			continue
		}
		kept := make([]T, 0, len(items))
		for _, it := range items {
			if f.Match(it, v) {
				kept = append(kept, it)
			}
		}
		items = kept
	}
	return items, all, values, nil
}

// Index renders the list.
func (s *ListScreen[T]) Index(c *gin.Context) {
	items, all, values, err := s.Fetch(c)
	if cancelled(c) {
		return
	}
	view := ListView{
		Title:   s.Title,
		BaseURL: s.BaseURL,
		Columns: s.Columns,
		Empty:   s.Empty,
	}
	if !s.NoCreate {
		view.NewURL = s.BaseURL + "/new"
		view.NewLabel = "New " + s.Noun
	}
	if err != nil {
		if s.handleUnauthorized(c, err) {
			return
		}
		logAPIError(c, "list "+s.Section, err)
		view.Error = api.MessageOf(err)
	}
	for _, f := range s.Filters {
		fv := FilterView{Param: f.Param, Label: f.Label, Value: values[f.Param], Options: f.Static}
		if fv.Options == nil && f.Options != nil {
			fv.Options = f.Options(all)
		}
		view.Filters = append(view.Filters, fv)
	}
	view.Total = len(all)
	for _, it := range items {
		view.Rows = append(view.Rows, s.row(it))
	}

	tmpl := s.Template
	if tmpl == "" {
		tmpl = "admin/list"
	}
	views.HTML(c, http.StatusOK, tmpl, gin.H{"Title": s.Title, "Section": s.Section, "List": view})
}

func (s *ListScreen[T]) row(it T) RowView {
	id := s.ID(it)
	r := RowView{
		Cells:     s.Cells(it),
		DeleteURL: fmt.Sprintf("%s/%s/delete?label=%s", s.BaseURL, url.PathEscape(id), url.QueryEscape(s.Label(it))),
	}
	if s.Editable {
		r.EditURL = fmt.Sprintf("%s/%s/edit", s.BaseURL, url.PathEscape(id))
	}
	if s.ViewURL != nil {
		r.ViewURL = s.ViewURL(it)
	}
	for _, t := range s.Toggles {
		next := t.Next(it)
		if next == nil {
			continue
		}
		r.Toggles = append(r.Toggles, ToggleView{
			Action: fmt.Sprintf("%s/%s/%s", s.BaseURL, url.PathEscape(id), t.Name),
			Label:  t.Label(it),
			Next:   fmt.Sprint(*next),
		})
	}
	return r
}

// ConfirmDelete asks before deleting. Nothing is fetched or changed.
func (s *ListScreen[T]) ConfirmDelete(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	label := strings.TrimSpace(c.Query("label"))
	if label == "" {
		label = "this " + s.Noun
	}
	views.HTML(c, http.StatusOK, "admin/confirm", gin.H{
		"Title":   "Delete " + s.Noun,
		"Section": s.Section,
		"Noun":    s.Noun,
		"Label":   label,
		"Action":  c.Request.URL.Path,
	})
}

// Delete removes the record only when the confirmation was answered yes.
func (s *ListScreen[T]) Delete(c *gin.Context) {
	if c.PostForm("confirm") != "yes" {
		utils.SeeOther(c, s.BaseURL)
		return
	}
	err := s.Resource.Delete(c.Request.Context(), c.Param("id"))
	if cancelled(c) {
		return
	}
	if err != nil {
		if s.handleUnauthorized(c, err) {
			return
		}
		logAPIError(c, "delete "+s.Section, err)
		utils.SetFlash(c, utils.FlashError, fmt.Sprintf("Failed to delete %s: %s", s.Noun, api.MessageOf(err)))
		utils.SeeOther(c, s.BaseURL)
		return
	}
	utils.SetFlash(c, utils.FlashSuccess, capitalize(s.Noun)+" deleted")
	utils.SeeOther(c, s.BaseURL)
}

// ToggleHandler returns the POST handler of toggle name.
func (s *ListScreen[T]) ToggleHandler(name string) gin.HandlerFunc {
	var toggle *Toggle[T]
	for i := range s.Toggles {
		if s.Toggles[i].Name == name {
			toggle = &s.Toggles[i]
		}
	}
	if toggle == nil {
		panic("controllers: unknown toggle " + name)
	}
	return func(c *gin.Context) {
		err := toggle.Apply(c, c.Param("id"), isTrue(c.PostForm("value")))
		if cancelled(c) {
			return
		}
		if err != nil {
			if s.handleUnauthorized(c, err) {
				return
			}
			logAPIError(c, name+" "+s.Section, err)
			utils.SetFlash(c, utils.FlashError, api.MessageOf(err))
		} else if toggle.Done != "" {
			utils.SetFlash(c, utils.FlashSuccess, toggle.Done)
		}
		utils.SeeOther(c, backTo(c, s.BaseURL))
	}
}

// backTo returns the local referring page, keeping list filters, or fallback.
func backTo(c *gin.Context, fallback string) string {
	ref, err := url.Parse(c.GetHeader("Referer"))
	if err != nil || ref.Host != c.Request.Host || !strings.HasPrefix(ref.Path, fallback) {
		return fallback
	}
	return ref.RequestURI()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// containsFold reports whether any of fields contains q, ignoring case.
func containsFold(q string, fields ...string) bool {
	q = strings.ToLower(q)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// distinct returns the sorted unique non-empty values of key over items.
func distinct[T any](items []T, key func(T) []string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, it := range items {
		for _, v := range key(it) {
			if _, ok := seen[v]; ok || v == "" {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func plainOptions(values []string) []forms.Option {
	opts := make([]forms.Option, 0, len(values))
	for _, v := range values {
		opts = append(opts, forms.Option{Value: v, Label: v})
	}
	return opts
}
