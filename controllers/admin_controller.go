package controllers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/techjourney/folio/forms"
	"github.com/techjourney/folio/models"
)

// Admin holds the dashboard screens of every entity.
//
// All admin lists fetch the whole collection once and narrow it here
// (search, category, status, type); only the public blog list filters on the
// API side.
type Admin struct {
	*Base
	Posts        *ListScreen[models.Post]
	PostForm     *FormScreen[forms.PostForm, models.Post]
	Projects     *ListScreen[models.Project]
	ProjectForm  *FormScreen[forms.ProjectForm, models.Project]
	Learning     *ListScreen[models.LearningItem]
	LearningForm *FormScreen[forms.LearningForm, models.LearningItem]
	Skills       *ListScreen[models.Skill]
	SkillForm    *FormScreen[forms.SkillForm, models.Skill]
	Timeline     *ListScreen[models.Milestone]
	TimelineForm *FormScreen[forms.MilestoneForm, models.Milestone]
	Comments     *ListScreen[models.Comment]
}

func boolPtr(b bool) *bool { return &b }

func bigList() url.Values { return url.Values{"pageSize": {"100"}} }

// NewAdmin configures the dashboard screens.
func NewAdmin(b *Base) *Admin {
	a := &Admin{Base: b}

	a.Posts = &ListScreen[models.Post]{
		Base: b, Section: "posts", Title: "Posts", Noun: "post", BaseURL: "/dashboard/posts",
		Resource: b.API.Posts(),
		Query:    bigList(),
		Filters: []Filter[models.Post]{
			{Param: "search", Label: "Search by title", Match: func(p models.Post, q string) bool { return containsFold(q, p.Title) }},
			{Param: "status", Label: "statuses", Static: []forms.Option{{Value: "published", Label: "Published"}, {Value: "draft", Label: "Draft"}},
				Match: func(p models.Post, v string) bool { return p.IsPublished == (v == "published") }},
		},
		Columns: []string{"Title", "Category", "Status", "Views", "Created"},
		Cells: func(p models.Post) []Cell {
			category := ""
			if p.Category != nil {
				category = p.Category.Name
			}
			status := Cell{Text: "Draft", Class: "status-draft"}
			if p.IsPublished {
				status = Cell{Text: "Published", Class: "status-published"}
			}
			return []Cell{{Text: p.Title}, {Text: category}, status, {Text: strconv.Itoa(p.Views)}, {Text: p.CreatedAt.Format("Jan 02, 2006")}}
		},
		ID:      func(p models.Post) string { return p.ID },
		Label:   func(p models.Post) string { return p.Title },
		ViewURL: func(p models.Post) string { return "/blog/" + p.Slug },
		Toggles: []Toggle[models.Post]{{
			Name: "publish",
			Label: func(p models.Post) string {
				if p.IsPublished {
					return "Unpublish"
				}
				return "Publish"
			},
			Next:  func(p models.Post) *bool { return boolPtr(!p.IsPublished) },
			Apply: func(c *gin.Context, id string, v bool) error { return b.API.SetPostPublished(c.Request.Context(), id, v) },
		}},
		Editable: true,
		Empty:    "No posts yet. Write your first one.",
	}
	a.PostForm = &FormScreen[forms.PostForm, models.Post]{
		Base: b, Section: "posts", Noun: "post", BaseURL: "/dashboard/posts",
		Resource: b.API.Posts(),
		Blank:    forms.NewPostForm,
		From:     forms.PostFormFrom,
		Payload:  func(f forms.PostForm) any { return f.Payload() },
		Fields:   a.postFields,
	}

	a.Projects = &ListScreen[models.Project]{
		Base: b, Section: "projects", Title: "Projects", Noun: "project", BaseURL: "/dashboard/projects",
		Resource: b.API.Projects(),
		Query:    bigList(),
		Filters: []Filter[models.Project]{
			{Param: "search", Label: "Search by title", Match: func(p models.Project, q string) bool { return containsFold(q, p.Title) }},
		},
		Columns: []string{"Title", "Status", "Tech", "Featured"},
		Cells: func(p models.Project) []Cell {
			featured := Cell{Text: "No"}
			if p.IsFeatured {
				featured = Cell{Text: "Featured", Class: "featured"}
			}
			return []Cell{{Text: p.Title}, {Text: forms.Humanize(p.Status), Class: statusClass(p.Status)}, {Text: strings.Join(p.TechStack, ", ")}, featured}
		},
		ID:      func(p models.Project) string { return p.ID },
		Label:   func(p models.Project) string { return p.Title },
		ViewURL: func(p models.Project) string { return "/projects/" + p.Slug },
		Toggles: []Toggle[models.Project]{{
			Name: "featured",
			Label: func(p models.Project) string {
				if p.IsFeatured {
					return "Unfeature"
				}
				return "Feature"
			},
			Next:  func(p models.Project) *bool { return boolPtr(!p.IsFeatured) },
			Apply: func(c *gin.Context, id string, v bool) error { return b.API.SetProjectFeatured(c.Request.Context(), id, v) },
		}},
		Editable: true,
		Empty:    "No projects yet.",
	}
	a.ProjectForm = &FormScreen[forms.ProjectForm, models.Project]{
		Base: b, Section: "projects", Noun: "project", BaseURL: "/dashboard/projects",
		Resource: b.API.Projects(),
		Blank:    forms.NewProjectForm,
		From:     forms.ProjectFormFrom,
		Payload:  func(f forms.ProjectForm) any { return f.Payload() },
		Fields:   func(*gin.Context, bool) []forms.Field { return projectFields },
	}

	a.Learning = &ListScreen[models.LearningItem]{
		Base: b, Section: "learning", Title: "Learning", Noun: "learning item", BaseURL: "/dashboard/learning",
		Resource: b.API.Learning(),
		Filters: []Filter[models.LearningItem]{
			{Param: "search", Label: "Search title or description", Match: func(l models.LearningItem, q string) bool {
				return containsFold(q, l.Title, l.Description)
			}},
			{Param: "category", Label: "categories", Match: func(l models.LearningItem, v string) bool { return l.Category == v },
				Options: func(items []models.LearningItem) []forms.Option {
					return plainOptions(distinct(items, func(l models.LearningItem) []string { return []string{l.Category} }))
				}},
		},
		Columns: []string{"Title", "Category", "Status", "Progress"},
		Cells: func(l models.LearningItem) []Cell {
			return []Cell{{Text: l.Title}, {Text: l.Category}, {Text: forms.Humanize(l.Status), Class: statusClass(l.Status)}, {Text: strconv.Itoa(l.Progress) + "%"}}
		},
		ID:       func(l models.LearningItem) string { return l.ID },
		Label:    func(l models.LearningItem) string { return l.Title },
		Editable: true,
		Empty:    "Nothing in the learning log yet.",
	}
	a.LearningForm = &FormScreen[forms.LearningForm, models.LearningItem]{
		Base: b, Section: "learning", Noun: "learning item", BaseURL: "/dashboard/learning",
		Resource: b.API.Learning(),
		Blank:    forms.NewLearningForm,
		From:     forms.LearningFormFrom,
		Payload:  func(f forms.LearningForm) any { return f.Payload() },
		Fields:   func(*gin.Context, bool) []forms.Field { return learningFields },
	}

	a.Skills = &ListScreen[models.Skill]{
		Base: b, Section: "skills", Title: "Skills", Noun: "skill", BaseURL: "/dashboard/skills",
		Resource: b.API.Skills(),
		Filters: []Filter[models.Skill]{
			{Param: "search", Label: "Search by name", Match: func(s models.Skill, q string) bool { return containsFold(q, s.Name) }},
			{Param: "category", Label: "categories", Match: func(s models.Skill, v string) bool { return s.Category == v },
				Options: func(items []models.Skill) []forms.Option {
					return plainOptions(distinct(items, func(s models.Skill) []string { return []string{s.Category} }))
				}},
		},
		Columns: []string{"Name", "Category", "Proficiency", "Years"},
		Cells: func(s models.Skill) []Cell {
			years := ""
			if s.YearsOfExperience != nil {
				years = strconv.FormatFloat(*s.YearsOfExperience, 'f', -1, 64)
			}
			return []Cell{{Text: s.Name}, {Text: s.Category}, {Text: strconv.Itoa(s.Proficiency) + "% " + s.Level(), Class: proficiencyClass(s.Proficiency)}, {Text: years}}
		},
		ID:       func(s models.Skill) string { return s.ID },
		Label:    func(s models.Skill) string { return s.Name },
		Editable: true,
		Empty:    "No skills yet.",
	}
	a.SkillForm = &FormScreen[forms.SkillForm, models.Skill]{
		Base: b, Section: "skills", Noun: "skill", BaseURL: "/dashboard/skills",
		Resource: b.API.Skills(),
		Blank:    forms.NewSkillForm,
		From:     forms.SkillFormFrom,
		Payload:  func(f forms.SkillForm) any { return f.Payload() },
		Fields:   func(*gin.Context, bool) []forms.Field { return skillFields },
	}

	a.Timeline = &ListScreen[models.Milestone]{
		Base: b, Section: "timeline", Title: "Timeline", Noun: "milestone", BaseURL: "/dashboard/timeline",
		Resource: b.API.Timeline(),
		Filters: []Filter[models.Milestone]{
			{Param: "search", Label: "Search", Match: func(m models.Milestone, q string) bool {
				return containsFold(q, m.Title, m.Description, forms.Deref(m.Company))
			}},
			{Param: "type", Label: "types", Static: forms.EnumOptions(models.MilestoneTypes), Match: func(m models.Milestone, v string) bool { return m.Type == v }},
		},
		Columns: []string{"Title", "Type", "Date", "Company"},
		Cells: func(m models.Milestone) []Cell {
			return []Cell{{Text: m.Title}, {Text: forms.Humanize(m.Type), Class: "type"}, {Text: formatISODate(m.Date)}, {Text: forms.Deref(m.Company)}}
		},
		ID:       func(m models.Milestone) string { return m.ID },
		Label:    func(m models.Milestone) string { return m.Title },
		Editable: true,
		Empty:    "No milestones yet.",
	}
	a.TimelineForm = &FormScreen[forms.MilestoneForm, models.Milestone]{
		Base: b, Section: "timeline", Noun: "milestone", BaseURL: "/dashboard/timeline",
		Resource: b.API.Timeline(),
		Blank:    forms.NewMilestoneForm,
		From:     forms.MilestoneFormFrom,
		Payload:  func(f forms.MilestoneForm) any { return f.Payload() },
		Fields:   func(*gin.Context, bool) []forms.Field { return milestoneFields },
	}

	a.Comments = &ListScreen[models.Comment]{
		Base: b, Section: "comments", Title: "Comments", Noun: "comment", BaseURL: "/dashboard/comments",
		Resource: b.API.Comments(),
		Query:    bigList(),
		Filters: []Filter[models.Comment]{
			{Param: "status", Label: "statuses", Match: func(cm models.Comment, v string) bool {
				switch v {
				case "pending":
					return !cm.IsApproved
				case "approved":
					return cm.IsApproved
				}
				return true
			}},
		},
		ID:    func(cm models.Comment) string { return cm.ID },
		Label: func(cm models.Comment) string { return "the comment by " + cm.AuthorName },
		Toggles: []Toggle[models.Comment]{{
			Name:  "approve",
			Label: func(models.Comment) string { return "Approve" },
			Next: func(cm models.Comment) *bool {
				if cm.IsApproved {
					return nil
				}
				return boolPtr(true)
			},
			Apply: func(c *gin.Context, id string, _ bool) error { return b.API.ApproveComment(c.Request.Context(), id) },
			Done:  "Comment approved",
		}},
		NoCreate: true,
	}
	return a
}

func statusClass(status string) string {
	return "status-" + strings.ReplaceAll(strings.ToLower(status), "_", "-")
}

func proficiencyClass(p int) string {
	switch {
	case p >= 90:
		return "status-completed"
	case p >= 70:
		return "status-in-progress"
	case p >= 50:
		return "status-on-hold"
	default:
		return "status-not-started"
	}
}

func formatISODate(s string) string {
	if t, ok := models.ParseDate(s); ok {
		return t.Format("Jan 02, 2006")
	}
	return s
}

// postFields offers the API categories in the category select. A failed
// category load leaves only "No category".
func (a *Admin) postFields(c *gin.Context, editing bool) []forms.Field {
	options := []forms.Option{{Value: "", Label: "No category"}}
	categories, err := a.API.Categories(c.Request.Context())
	if err != nil {
		logAPIError(c, "load categories", err)
	}
	for _, cat := range categories {
		options = append(options, forms.Option{Value: cat.ID, Label: cat.Name})
	}

	fields := []forms.Field{
		{Name: "title", Label: "Title", Kind: forms.Text, Required: true},
		{Name: "slug", Label: "Slug", Kind: forms.Text, Required: editing, Help: "Generated from the title when left empty."},
		{Name: "excerpt", Label: "Excerpt", Kind: forms.TextArea, Required: true, Rows: 3},
		{Name: "content", Label: "Content", Kind: forms.TextArea, Required: true, Rows: 18, Help: "Markdown is supported."},
		{Name: "coverImage", Label: "Cover image URL", Kind: forms.URL, Placeholder: "https://"},
		{Name: "categoryId", Label: "Category", Kind: forms.Select, Options: options},
		{Name: "tags", Label: "Tags", Kind: forms.Text, Placeholder: "react, typescript", Help: "Comma separated."},
		{Name: "isPublished", Label: "Published", Kind: forms.Checkbox},
	}
	if editing {
		fields[1].Help = ""
	}
	return fields
}

var projectFields = []forms.Field{
	{Name: "title", Label: "Title", Kind: forms.Text, Required: true},
	{Name: "slug", Label: "Slug", Kind: forms.Text, Required: true, Help: "Generated from the title when left empty."},
	{Name: "description", Label: "Description", Kind: forms.TextArea, Required: true, Rows: 3},
	{Name: "longDescription", Label: "Long description", Kind: forms.TextArea, Rows: 8, Help: "Markdown is supported."},
	{Name: "techStack", Label: "Tech stack", Kind: forms.Text, Required: true, Placeholder: "Go, PostgreSQL, Redis", Help: "Comma separated."},
	{Name: "status", Label: "Status", Kind: forms.Select, Required: true, Options: forms.EnumOptions(models.ProjectStatuses)},
	{Name: "isFeatured", Label: "Featured on the home page", Kind: forms.Checkbox},
	{Name: "thumbnailImage", Label: "Thumbnail image URL", Kind: forms.URL, Placeholder: "https://"},
	{Name: "demoUrl", Label: "Demo URL", Kind: forms.URL, Placeholder: "https://"},
	{Name: "githubUrl", Label: "GitHub URL", Kind: forms.URL, Placeholder: "https://github.com/"},
	{Name: "features", Label: "Features", Kind: forms.TextArea, Rows: 5, Help: "One per line."},
	{Name: "challenges", Label: "Challenges", Kind: forms.TextArea, Rows: 4},
	{Name: "learnings", Label: "Learnings", Kind: forms.TextArea, Rows: 4},
}

var learningFields = []forms.Field{
	{Name: "title", Label: "Title", Kind: forms.Text, Required: true},
	{Name: "description", Label: "Description", Kind: forms.TextArea, Required: true, Rows: 4},
	{Name: "category", Label: "Category", Kind: forms.Text, Required: true, Placeholder: "Backend"},
	{Name: "status", Label: "Status", Kind: forms.Select, Required: true, Options: forms.EnumOptions(models.LearningStatuses)},
	{Name: "progress", Label: "Progress (%)", Kind: forms.Number, Min: "0", Max: "100"},
	{Name: "resourceUrl", Label: "Resource URL", Kind: forms.URL, Placeholder: "https://"},
}

var skillFields = []forms.Field{
	{Name: "name", Label: "Name", Kind: forms.Text, Required: true},
	{Name: "category", Label: "Category", Kind: forms.Text, Required: true, Placeholder: "Frontend"},
	{Name: "proficiency", Label: "Proficiency (%)", Kind: forms.Number, Min: "0", Max: "100"},
	{Name: "yearsOfExperience", Label: "Years of experience", Kind: forms.Number, Min: "0"},
}

var milestoneFields = []forms.Field{
	{Name: "title", Label: "Title", Kind: forms.Text, Required: true},
	{Name: "description", Label: "Description", Kind: forms.TextArea, Required: true, Rows: 4},
	{Name: "type", Label: "Type", Kind: forms.Select, Required: true, Options: forms.EnumOptions(models.MilestoneTypes)},
	{Name: "date", Label: "Date", Kind: forms.Date, Required: true},
	{Name: "endDate", Label: "End date", Kind: forms.Date},
	{Name: "company", Label: "Company", Kind: forms.Text},
	{Name: "location", Label: "Location", Kind: forms.Text},
	{Name: "tags", Label: "Tags", Kind: forms.Text, Help: "Comma separated."},
}
