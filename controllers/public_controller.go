package controllers

import (
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/techjourney/folio/api"
	"github.com/techjourney/folio/forms"
	"github.com/techjourney/folio/models"
	"github.com/techjourney/folio/utils"
	"github.com/techjourney/folio/views"
)

// PublicController renders the reader facing pages.
type PublicController struct {
	*Base
}

func NewPublicController(b *Base) *PublicController {
	return &PublicController{Base: b}
}

// Pager links the pages of a remote paginated list.
type Pager struct {
	Page       int
	TotalPages int
	base       string
	query      url.Values
}

// URL returns the link to page n keeping the other query parameters.
func (p *Pager) URL(n int) string {
	q := url.Values{}
	for k, v := range p.query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(n))
	return p.base + "?" + q.Encode()
}

// Home shows featured projects and the latest posts.
func (p *PublicController) Home(c *gin.Context) {
	ctx := c.Request.Context()
	projects, _, projErr := p.API.Projects().List(ctx, nil)
	posts, _, postsErr := p.API.Posts().List(ctx, url.Values{"pageSize": {"3"}})
	if cancelled(c) {
		return
	}
	p.forgetRejected(c, projErr, postsErr)
	featured := []models.Project{}
	for _, pr := range projects {
		if pr.IsFeatured {
			featured = append(featured, pr)
		}
	}
	data := gin.H{"Title": "Home", "Featured": limit(featured, 3), "Posts": limit(posts, 3)}
	for _, err := range []error{projErr, postsErr} {
		if err != nil {
			logAPIError(c, "home", err)
			data["Error"] = api.MessageOf(err)
		}
	}
	views.HTML(c, http.StatusOK, "home", data)
}

// Blog lists posts. Paging, category and search are applied by the API.
func (p *PublicController) Blog(c *gin.Context) {
	ctx := c.Request.Context()
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	search := strings.TrimSpace(c.Query("search"))
	category := strings.TrimSpace(c.Query("category"))

	query := url.Values{
		"page":     {strconv.Itoa(page)},
		"pageSize": {strconv.Itoa(utils.CurrentSettings().PostsPerPage)},
	}
	filters := url.Values{}
	if category != "" {
		filters.Set("category", category)
	}
	if search != "" {
		filters.Set("search", search)
	}
	for k, v := range filters {
		query[k] = v
	}

	posts, meta, err := p.API.Posts().List(ctx, query)
	categories, catErr := p.API.Categories(ctx)
	if cancelled(c) {
		return
	}
	p.forgetRejected(c, err, catErr)
	data := gin.H{"Title": "Blog", "Posts": posts, "Categories": categories, "Search": search, "Category": category}
	if err != nil {
		logAPIError(c, "list posts", err)
		data["Error"] = api.MessageOf(err)
		data["Posts"] = nil
	}
	if catErr != nil {
		logAPIError(c, "list categories", catErr)
	}
	if meta != nil {
		data["Pager"] = &Pager{Page: meta.Page, TotalPages: meta.TotalPages, base: "/blog", query: filters}
	}
	views.HTML(c, http.StatusOK, "blog/list", data)
}

// Post shows one post with up to three others from its category.
func (p *PublicController) Post(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")
	post, err := p.API.PostBySlug(ctx, slug)
	if cancelled(c) {
		return
	}
	if err != nil {
		notFoundOr(c, p.Base, "load post", err)
		return
	}

	related := []models.Post{}
	if post.Category != nil && post.Category.Slug != "" {
		items, _, err := p.API.Posts().List(ctx, url.Values{"category": {post.Category.Slug}, "pageSize": {"4"}})
		if err != nil {
			logAPIError(c, "related posts", err)
			p.forgetRejected(c, err)
		}
		for _, it := range items {
			if it.Slug != post.Slug {
				related = append(related, it)
			}
		}
	}
	if cancelled(c) {
		return
	}
	views.HTML(c, http.StatusOK, "blog/detail", gin.H{"Title": post.Title, "Post": post, "Related": limit(related, 3)})
}

// Projects lists projects narrowed by search, status and technology.
func (p *PublicController) Projects(c *gin.Context) {
	all, _, err := p.API.Projects().List(c.Request.Context(), nil)
	if cancelled(c) {
		return
	}
	p.forgetRejected(c, err)
	search := strings.TrimSpace(c.Query("search"))
	status := c.Query("status")
	tech := c.Query("tech")

	items := []models.Project{}
	for _, pr := range all {
		if search != "" && !containsFold(search, pr.Title, pr.Description) {
			continue
		}
		if status != "" && pr.Status != status {
			continue
		}
		if tech != "" && !containsString(pr.TechStack, tech) {
			continue
		}
		items = append(items, pr)
	}

	data := gin.H{
		"Title":    "Projects",
		"Projects": items,
		"Search":   search,
		"Status":   status,
		"Tech":     tech,
		"Statuses": forms.EnumOptions(models.ProjectStatuses),
		"Techs":    distinct(all, func(pr models.Project) []string { return pr.TechStack }),
	}
	if err != nil {
		logAPIError(c, "list projects", err)
		data["Error"] = api.MessageOf(err)
	}
	views.HTML(c, http.StatusOK, "projects/list", data)
}

// Project shows one project.
func (p *PublicController) Project(c *gin.Context) {
	project, err := p.API.ProjectBySlug(c.Request.Context(), c.Param("slug"))
	if cancelled(c) {
		return
	}
	if err != nil {
		notFoundOr(c, p.Base, "load project", err)
		return
	}
	views.HTML(c, http.StatusOK, "projects/detail", gin.H{"Title": project.Title, "Project": project})
}

// YearGroup is the milestones of one calendar year.
type YearGroup struct {
	Year  int
	Items []models.Milestone
}

// GroupByYear groups milestones by year, newest year first, keeping the
// order of items within a year by date descending.
func GroupByYear(items []models.Milestone) []YearGroup {
	sorted := append([]models.Milestone(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, _ := models.ParseDate(sorted[i].Date)
		tj, _ := models.ParseDate(sorted[j].Date)
		return ti.After(tj)
	})
	groups := []YearGroup{}
	for _, m := range sorted {
		y := m.Year()
		if n := len(groups); n > 0 && groups[n-1].Year == y {
			groups[n-1].Items = append(groups[n-1].Items, m)
			continue
		}
		groups = append(groups, YearGroup{Year: y, Items: []models.Milestone{m}})
	}
	return groups
}

// Timeline shows milestones grouped by year with an optional type filter.
func (p *PublicController) Timeline(c *gin.Context) {
	all, _, err := p.API.Timeline().List(c.Request.Context(), nil)
	if cancelled(c) {
		return
	}
	p.forgetRejected(c, err)
	typ := c.Query("type")
	items := all
	if typ != "" {
		items = []models.Milestone{}
		for _, m := range all {
			if m.Type == typ {
				items = append(items, m)
			}
		}
	}
	data := gin.H{"Title": "Timeline", "Groups": GroupByYear(items), "Type": typ, "Types": forms.EnumOptions(models.MilestoneTypes)}
	if err != nil {
		logAPIError(c, "list timeline", err)
		data["Error"] = api.MessageOf(err)
	}
	views.HTML(c, http.StatusOK, "timeline", data)
}

// Learning shows the learning log with status and category filters.
func (p *PublicController) Learning(c *gin.Context) {
	all, _, err := p.API.Learning().List(c.Request.Context(), nil)
	if cancelled(c) {
		return
	}
	p.forgetRejected(c, err)
	status, category := c.Query("status"), c.Query("category")
	items := []models.LearningItem{}
	for _, l := range all {
		if (status == "" || l.Status == status) && (category == "" || l.Category == category) {
			items = append(items, l)
		}
	}
	data := gin.H{
		"Title":      "Learning",
		"Items":      items,
		"Status":     status,
		"Category":   category,
		"Statuses":   forms.EnumOptions(models.LearningStatuses),
		"Categories": distinct(all, func(l models.LearningItem) []string { return []string{l.Category} }),
	}
	if err != nil {
		logAPIError(c, "list learning", err)
		data["Error"] = api.MessageOf(err)
	}
	views.HTML(c, http.StatusOK, "learning", data)
}

func containsString(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}
