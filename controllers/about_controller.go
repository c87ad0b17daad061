package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/techjourney/folio/api"
	"github.com/techjourney/folio/forms"
	"github.com/techjourney/folio/models"
	"github.com/techjourney/folio/utils"
	"github.com/techjourney/folio/views"
)

// AboutController renders the about page and delivers its contact form.
type AboutController struct {
	*Base
	captcha   bool
	contactTo string
	send      func(utils.Mail) error
}

func NewAboutController(b *Base, captcha bool, contactTo string) *AboutController {
	return &AboutController{Base: b, captcha: captcha, contactTo: contactTo, send: utils.SendMail}
}

// SkillGroup is the skills of one category.
type SkillGroup struct {
	Category string
	Skills   []models.Skill
}

// GroupSkills groups skills by category, categories in alphabetical order and
// skills by proficiency descending.
func GroupSkills(skills []models.Skill) []SkillGroup {
	byCat := map[string][]models.Skill{}
	for _, s := range skills {
		byCat[s.Category] = append(byCat[s.Category], s)
	}
	groups := make([]SkillGroup, 0, len(byCat))
	for cat, items := range byCat {
		sort.SliceStable(items, func(i, j int) bool { return items[i].Proficiency > items[j].Proficiency })
		groups = append(groups, SkillGroup{Category: cat, Skills: items})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Category < groups[j].Category })
	return groups
}

var contactFields = []forms.Field{
	{Name: "name", Label: "Name", Kind: forms.Text, Required: true},
	{Name: "email", Label: "Email", Kind: forms.Email, Required: true},
	{Name: "subject", Label: "Subject", Kind: forms.Text, Required: true},
	{Name: "message", Label: "Message", Kind: forms.TextArea, Required: true, Rows: 6},
}

func (a *AboutController) render(c *gin.Context, status int, f forms.ContactForm, errs forms.Errors, formErr string) {
	skills, _, err := a.API.Skills().List(c.Request.Context(), nil)
	if cancelled(c) {
		return
	}
	data := gin.H{
		"Title":       "About",
		"SkillGroups": GroupSkills(skills),
		"Fields":      contactFields,
		"Values":      forms.Values(&f),
		"Errors":      errs,
		"FormError":   formErr,
		"Captcha":     newCaptcha(a.captcha),
	}
	if err != nil {
		logAPIError(c, "list skills", err)
		data["Error"] = api.MessageOf(err)
	}
	views.HTML(c, status, "about", data)
}

// Show renders the about page.
func (a *AboutController) Show(c *gin.Context) {
	a.render(c, http.StatusOK, forms.ContactForm{}, nil, "")
}

// Contact sends the message by mail. Without SMTP settings the message is
// only logged.
func (a *AboutController) Contact(c *gin.Context) {
	var f forms.ContactForm
	errs, err := bindForm(c, &f)
	if err != nil || !errs.Empty() {
		a.render(c, http.StatusUnprocessableEntity, f, errs, "")
		return
	}
	if a.captcha && !utils.VerifyCaptcha(f.CaptchaID, f.CaptchaAnswer) {
		a.render(c, http.StatusUnprocessableEntity, f, nil, "The captcha answer was incorrect.")
		return
	}

	release, ok := a.inflight.Acquire(submitKey(c))
	if !ok {
		a.render(c, http.StatusConflict, f, nil, capitalize(ErrInFlight.Error())+".")
		return
	}
	err = utils.ErrMailDisabled
	if a.contactTo != "" {
		err = a.send(utils.Mail{
			To:      a.contactTo,
			ReplyTo: f.Email,
			Subject: fmt.Sprintf("[%s] %s", utils.CurrentSettings().SiteName, f.Subject),
			Body:    fmt.Sprintf("From: %s <%s>\n\n%s\n", f.Name, f.Email, f.Message),
		})
	}
	release()
	switch {
	case errors.Is(err, utils.ErrMailDisabled):
		utils.Sugar.Infow("contact message (mail disabled)", "name", f.Name, "email", f.Email, "subject", f.Subject, "message", f.Message)
	case err != nil:
		utils.Sugar.Errorw("send contact mail failed", "error", err)
		a.render(c, http.StatusBadGateway, f, nil, "Failed to send your message. Please try again later.")
		return
	}
	utils.SetFlash(c, utils.FlashSuccess, "Thanks for your message! I'll get back to you soon.")
	utils.SeeOther(c, "/about#contact")
}
