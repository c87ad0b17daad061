package forms

import (
	"strconv"
	"strings"

	"github.com/techjourney/folio/models"
)

// PostForm is the create/edit post schema. Slug is derived from the title on
// create and must be given when editing.
type PostForm struct {
	Title       string `form:"title" validate:"required" label:"Title"`
	Slug        string `form:"slug" validate:"required_if=Editing true" label:"Slug"`
	Excerpt     string `form:"excerpt" validate:"required" label:"Excerpt"`
	Content     string `form:"content" validate:"required" label:"Content"`
	CoverImage  string `form:"coverImage" validate:"omitempty,url" label:"Cover image"`
	CategoryID  string `form:"categoryId" label:"Category"`
	Tags        string `form:"tags" label:"Tags"`
	IsPublished bool   `form:"isPublished" label:"Published"`
	Editing     bool   `form:"-"`
}

func NewPostForm() PostForm { return PostForm{} }

func (f *PostForm) Normalize() {
	if !f.Editing && strings.TrimSpace(f.Slug) == "" {
		f.Slug = Slugify(f.Title)
	}
}

func (f PostForm) Payload() models.PostPayload {
	return models.PostPayload{
		Title:       f.Title,
		Slug:        f.Slug,
		Excerpt:     f.Excerpt,
		Content:     f.Content,
		CoverImage:  NullIfEmpty(f.CoverImage),
		CategoryID:  NullIfEmpty(f.CategoryID),
		Tags:        SplitList(f.Tags, ","),
		IsPublished: f.IsPublished,
	}
}

func PostFormFrom(p models.Post) PostForm {
	category := Deref(p.CategoryID)
	if category == "" && p.Category != nil {
		category = p.Category.ID
	}
	return PostForm{
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.Excerpt,
		Content:     p.Content,
		CoverImage:  Deref(p.CoverImage),
		CategoryID:  category,
		Tags:        JoinList(p.Tags, ", "),
		IsPublished: p.IsPublished,
		Editing:     true,
	}
}

// ProjectForm is the create/edit project schema.
type ProjectForm struct {
	Title           string `form:"title" validate:"required" label:"Title"`
	Slug            string `form:"slug" validate:"required" label:"Slug"`
	Description     string `form:"description" validate:"required" label:"Description"`
	LongDescription string `form:"longDescription" label:"Long description"`
	TechStack       string `form:"techStack" validate:"csvmin1" label:"Tech stack"`
	Status          string `form:"status" validate:"required,oneof=PLANNING IN_PROGRESS COMPLETED ON_HOLD" label:"Status"`
	IsFeatured      bool   `form:"isFeatured" label:"Featured"`
	ThumbnailImage  string `form:"thumbnailImage" validate:"omitempty,url" label:"Thumbnail image"`
	DemoURL         string `form:"demoUrl" validate:"omitempty,url" label:"Demo URL"`
	GithubURL       string `form:"githubUrl" validate:"omitempty,url" label:"GitHub URL"`
	Features        string `form:"features" label:"Features"`
	Challenges      string `form:"challenges" label:"Challenges"`
	Learnings       string `form:"learnings" label:"Learnings"`
}

func NewProjectForm() ProjectForm { return ProjectForm{Status: models.ProjectStatuses[0]} }

func (f *ProjectForm) Normalize() {
	if strings.TrimSpace(f.Slug) == "" {
		f.Slug = Slugify(f.Title)
	}
}

func (f ProjectForm) Payload() models.ProjectPayload {
	return models.ProjectPayload{
		Title:           f.Title,
		Slug:            f.Slug,
		Description:     f.Description,
		LongDescription: NullIfEmpty(f.LongDescription),
		TechStack:       SplitList(f.TechStack, ","),
		Status:          f.Status,
		IsFeatured:      f.IsFeatured,
		ThumbnailImage:  NullIfEmpty(f.ThumbnailImage),
		DemoURL:         NullIfEmpty(f.DemoURL),
		GithubURL:       NullIfEmpty(f.GithubURL),
		Features:        SplitList(f.Features, "\n"),
		Challenges:      NullIfEmpty(f.Challenges),
		Learnings:       NullIfEmpty(f.Learnings),
	}
}

func ProjectFormFrom(p models.Project) ProjectForm {
	return ProjectForm{
		Title:           p.Title,
		Slug:            p.Slug,
		Description:     p.Description,
		LongDescription: Deref(p.LongDescription),
		TechStack:       JoinList(p.TechStack, ", "),
		Status:          p.Status,
		IsFeatured:      p.IsFeatured,
		ThumbnailImage:  Deref(p.ThumbnailImage),
		DemoURL:         Deref(p.DemoURL),
		GithubURL:       Deref(p.GithubURL),
		Features:        JoinList(p.Features, "\n"),
		Challenges:      Deref(p.Challenges),
		Learnings:       Deref(p.Learnings),
	}
}

// LearningForm is the create/edit learning item schema.
type LearningForm struct {
	Title       string `form:"title" validate:"required" label:"Title"`
	Description string `form:"description" validate:"required" label:"Description"`
	Category    string `form:"category" validate:"required" label:"Category"`
	Status      string `form:"status" validate:"required,oneof=NOT_STARTED IN_PROGRESS COMPLETED ON_HOLD" label:"Status"`
	Progress    string `form:"progress" validate:"intrange=0-100" label:"Progress"`
	ResourceURL string `form:"resourceUrl" validate:"omitempty,url" label:"Resource URL"`
}

func NewLearningForm() LearningForm {
	return LearningForm{Status: models.LearningStatuses[0], Progress: "0"}
}

func (f LearningForm) Payload() models.LearningPayload {
	return models.LearningPayload{
		Title:       f.Title,
		Description: f.Description,
		Category:    f.Category,
		Status:      f.Status,
		Progress:    atoi(f.Progress),
		ResourceURL: NullIfEmpty(f.ResourceURL),
	}
}

func LearningFormFrom(l models.LearningItem) LearningForm {
	return LearningForm{
		Title:       l.Title,
		Description: l.Description,
		Category:    l.Category,
		Status:      l.Status,
		Progress:    strconv.Itoa(l.Progress),
		ResourceURL: Deref(l.ResourceURL),
	}
}

// SkillForm is the create/edit skill schema.
type SkillForm struct {
	Name              string `form:"name" validate:"required" label:"Name"`
	Category          string `form:"category" validate:"required" label:"Category"`
	Proficiency       string `form:"proficiency" validate:"intrange=0-100" label:"Proficiency"`
	YearsOfExperience string `form:"yearsOfExperience" validate:"nonneg" label:"Years of experience"`
}

func NewSkillForm() SkillForm { return SkillForm{Proficiency: "50"} }

func (f SkillForm) Payload() models.SkillPayload {
	return models.SkillPayload{
		Name:              f.Name,
		Category:          f.Category,
		Proficiency:       atoi(f.Proficiency),
		YearsOfExperience: floatOrNil(f.YearsOfExperience),
	}
}

func SkillFormFrom(s models.Skill) SkillForm {
	return SkillForm{
		Name:              s.Name,
		Category:          s.Category,
		Proficiency:       strconv.Itoa(s.Proficiency),
		YearsOfExperience: formatFloat(s.YearsOfExperience),
	}
}

// MilestoneForm is the create/edit timeline milestone schema.
type MilestoneForm struct {
	Title       string `form:"title" validate:"required" label:"Title"`
	Description string `form:"description" validate:"required" label:"Description"`
	Type        string `form:"type" validate:"required,oneof=EDUCATION WORK PROJECT ACHIEVEMENT OTHER" label:"Type"`
	Date        string `form:"date" validate:"required,datetime=2006-01-02" label:"Date"`
	EndDate     string `form:"endDate" validate:"omitempty,datetime=2006-01-02" label:"End date"`
	Company     string `form:"company" label:"Company"`
	Location    string `form:"location" label:"Location"`
	Tags        string `form:"tags" label:"Tags"`
}

func NewMilestoneForm() MilestoneForm { return MilestoneForm{Type: "WORK"} }

func (f MilestoneForm) Payload() models.MilestonePayload {
	return models.MilestonePayload{
		Title:       f.Title,
		Description: f.Description,
		Type:        f.Type,
		Date:        f.Date,
		EndDate:     NullIfEmpty(f.EndDate),
		Company:     NullIfEmpty(f.Company),
		Location:    NullIfEmpty(f.Location),
		Tags:        SplitList(f.Tags, ","),
	}
}

func MilestoneFormFrom(m models.Milestone) MilestoneForm {
	return MilestoneForm{
		Title:       m.Title,
		Description: m.Description,
		Type:        m.Type,
		Date:        dateOnly(m.Date),
		EndDate:     dateOnly(Deref(m.EndDate)),
		Company:     Deref(m.Company),
		Location:    Deref(m.Location),
		Tags:        JoinList(m.Tags, ", "),
	}
}

// SetEditing marks the form as editing an existing post.
func (f *PostForm) SetEditing(v bool) { f.Editing = v }
