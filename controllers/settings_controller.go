package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techjourney/folio/forms"
	"github.com/techjourney/folio/utils"
	"github.com/techjourney/folio/views"
)

// SettingsController edits the runtime site settings seeded from config.
type SettingsController struct{}

func NewSettingsController() *SettingsController { return &SettingsController{} }

var settingsFields = []forms.Field{
	{Name: "siteName", Label: "Site name", Kind: forms.Text, Required: true},
	{Name: "siteDescription", Label: "Site description", Kind: forms.TextArea, Rows: 3},
	{Name: "postsPerPage", Label: "Posts per page", Kind: forms.Number, Min: "1", Max: "50"},
	{Name: "commentsEnabled", Label: "Enable comments", Kind: forms.Checkbox},
	{Name: "commentApproval", Label: "Require comment approval", Kind: forms.Checkbox},
}

func (s *SettingsController) render(c *gin.Context, status int, f forms.SettingsForm, errs forms.Errors) {
	views.HTML(c, status, "admin/settings", gin.H{
		"Title":   "Settings",
		"Section": "settings",
		"Fields":  settingsFields,
		"Values":  forms.Values(&f),
		"Errors":  errs,
	})
}

func (s *SettingsController) Show(c *gin.Context) {
	s.render(c, http.StatusOK, forms.SettingsFormFrom(utils.CurrentSettings()), nil)
}

func (s *SettingsController) Save(c *gin.Context) {
	var f forms.SettingsForm
	errs, err := bindForm(c, &f)
	if err != nil {
		errs = forms.Errors{"postsPerPage": "Posts per page must be a whole number between 1 and 50"}
	}
	if !errs.Empty() {
		s.render(c, http.StatusUnprocessableEntity, f, errs)
		return
	}
	utils.SaveSettings(f.Settings())
	utils.Sugar.Infow("site settings saved", "siteName", f.SiteName, "postsPerPage", f.PostsPerPage)
	utils.SetFlash(c, utils.FlashSuccess, "Settings saved")
	utils.SeeOther(c, "/dashboard/settings")
}
