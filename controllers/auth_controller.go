package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techjourney/folio/api"
	"github.com/techjourney/folio/forms"
	"github.com/techjourney/folio/middleware"
	"github.com/techjourney/folio/models"
	"github.com/techjourney/folio/session"
	"github.com/techjourney/folio/utils"
	"github.com/techjourney/folio/views"
)

// AuthController handles sign-in, sign-up, sign-out and the profile page.
type AuthController struct {
	*Base
	captcha bool
}

// NewAuthController creates an AuthController; captcha guards registration.
func NewAuthController(b *Base, captcha bool) *AuthController {
	return &AuthController{Base: b, captcha: captcha}
}

// Captcha is a challenge embedded in a form.
type Captcha struct {
	ID    string
	Image string
}

func newCaptcha(enabled bool) *Captcha {
	if !enabled {
		return nil
	}
	id, img, err := utils.GenerateCaptcha()
	if err != nil {
		utils.Sugar.Errorw("generate captcha failed", "error", err)
		return nil
	}
	return &Captcha{ID: id, Image: img}
}

// CaptchaJSON issues a fresh captcha for scripts that refresh the image.
func CaptchaJSON(ctx *gin.Context) {
	id, b64, err := utils.GenerateCaptcha()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to generate captcha")
		return
	}
	utils.Success(ctx, gin.H{"id": id, "image": b64})
}

var (
	loginFields = []forms.Field{
		{Name: "email", Label: "Email", Kind: forms.Email, Required: true, Placeholder: "you@example.com"},
		{Name: "password", Label: "Password", Kind: forms.Password, Required: true},
	}
	registerFields = []forms.Field{
		{Name: "fullName", Label: "Full name", Kind: forms.Text, Required: true},
		{Name: "username", Label: "Username", Kind: forms.Text, Required: true, Help: "Letters, numbers and underscores."},
		{Name: "email", Label: "Email", Kind: forms.Email, Required: true},
		{Name: "password", Label: "Password", Kind: forms.Password, Required: true, Help: "At least 6 characters."},
		{Name: "confirmPassword", Label: "Confirm password", Kind: forms.Password, Required: true},
	}
	profileFields = []forms.Field{
		{Name: "fullName", Label: "Full name", Kind: forms.Text, Required: true},
		{Name: "username", Label: "Username", Kind: forms.Text, Required: true},
		{Name: "email", Label: "Email", Kind: forms.Email, Required: true},
		{Name: "bio", Label: "Bio", Kind: forms.TextArea, Rows: 4},
		{Name: "location", Label: "Location", Kind: forms.Text},
		{Name: "website", Label: "Website", Kind: forms.URL, Placeholder: "https://"},
	}
	passwordFields = []forms.Field{
		{Name: "currentPassword", Label: "Current password", Kind: forms.Password, Required: true},
		{Name: "newPassword", Label: "New password", Kind: forms.Password, Required: true},
		{Name: "confirmPassword", Label: "Confirm new password", Kind: forms.Password, Required: true},
	}
)

func (a *AuthController) renderLogin(c *gin.Context, status int, f forms.LoginForm, errs forms.Errors, formErr string) {
	f.Password = ""
	views.HTML(c, status, "auth/login", gin.H{
		"Title":     "Log in",
		"Fields":    loginFields,
		"Values":    forms.Values(&f),
		"Errors":    errs,
		"FormError": formErr,
		"Next":      f.Next,
	})
}

// LoginPage renders the sign-in form.
func (a *AuthController) LoginPage(c *gin.Context) {
	a.renderLogin(c, http.StatusOK, forms.LoginForm{Next: c.Query("next")}, nil, "")
}

// Login signs in with the API and starts the session.
func (a *AuthController) Login(c *gin.Context) {
	var f forms.LoginForm
	errs, err := bindForm(c, &f)
	if err != nil || !errs.Empty() {
		a.renderLogin(c, http.StatusUnprocessableEntity, f, errs, "")
		return
	}
	release, ok := a.inflight.Acquire(submitKey(c))
	if !ok {
		a.renderLogin(c, http.StatusConflict, f, nil, capitalize(ErrInFlight.Error())+".")
		return
	}
	res, err := a.API.Login(c.Request.Context(), f.Payload())
	release()
	if cancelled(c) {
		return
	}
	if err != nil {
		msg := api.MessageOf(err)
		if api.IsUnauthorized(err) {
			msg = "Invalid email or password"
		}
		logAPIError(c, "login", err)
		a.renderLogin(c, http.StatusUnauthorized, f, nil, msg)
		return
	}
	if msg, ok := a.startSession(c, res); !ok {
		a.renderLogin(c, http.StatusBadGateway, f, nil, msg)
		return
	}
	next := middleware.HomeFor(res.User.IsAdmin())
	if middleware.SafeNext(f.Next) {
		next = f.Next
	}
	utils.SeeOther(c, next)
}

// startSession stores the API token for this browser. It returns the
// message to show when that fails.
func (a *AuthController) startSession(c *gin.Context, res models.AuthResult) (string, bool) {
	prev, _ := middleware.CurrentSession(c)
	ref, st, err := a.Sessions.Login(c.Request.Context(), prev, res.Tokens.AccessToken, res.User)
	if errors.Is(err, utils.ErrTokenExpired) {
		return "The server issued an expired session. Please try again.", false
	}
	if errors.Is(err, session.ErrStateTooLarge) {
		utils.Sugar.Warnw("session too large for cookie backend", "user", res.User.Username, "error", err)
		return "Your profile is too large for a cookie session. Please ask the site owner to switch to a server-side session store.", false
	}
	if err != nil {
		utils.Sugar.Errorw("start session failed", "error", err)
		return "Unable to start your session. Please try again.", false
	}
	a.Sessions.WriteRef(c.Writer, ref, st.ExpiresAt)
	middleware.SetSession(c, ref, st)
	utils.Sugar.Infow("signed in", "user", res.User.Username, "role", res.User.Role)
	return "", true
}

func (a *AuthController) renderRegister(c *gin.Context, status int, f forms.RegisterForm, errs forms.Errors, formErr string) {
	f.Password, f.ConfirmPassword = "", ""
	views.HTML(c, status, "auth/register", gin.H{
		"Title":     "Sign up",
		"Fields":    registerFields,
		"Values":    forms.Values(&f),
		"Errors":    errs,
		"FormError": formErr,
		"Captcha":   newCaptcha(a.captcha),
	})
}

// RegisterPage renders the sign-up form.
func (a *AuthController) RegisterPage(c *gin.Context) {
	a.renderRegister(c, http.StatusOK, forms.RegisterForm{}, nil, "")
}

// Register creates the account and signs it in. Admins land on the
// dashboard, everyone else on their profile.
func (a *AuthController) Register(c *gin.Context) {
	var f forms.RegisterForm
	errs, err := bindForm(c, &f)
	if err != nil || !errs.Empty() {
		a.renderRegister(c, http.StatusUnprocessableEntity, f, errs, "")
		return
	}
	if a.captcha && !utils.VerifyCaptcha(f.CaptchaID, f.CaptchaAnswer) {
		a.renderRegister(c, http.StatusUnprocessableEntity, f, nil, "The captcha answer was incorrect.")
		return
	}
	release, ok := a.inflight.Acquire(submitKey(c))
	if !ok {
		a.renderRegister(c, http.StatusConflict, f, nil, capitalize(ErrInFlight.Error())+".")
		return
	}
	res, err := a.API.Register(c.Request.Context(), f.Payload())
	release()
	if cancelled(c) {
		return
	}
	if err != nil {
		logAPIError(c, "register", err)
		a.renderRegister(c, http.StatusBadGateway, f, nil, api.MessageOf(err))
		return
	}
	if msg, ok := a.startSession(c, res); !ok {
		a.renderRegister(c, http.StatusBadGateway, f, nil, msg)
		return
	}
	utils.SetFlash(c, utils.FlashSuccess, "Welcome, "+res.User.FullName+"!")
	utils.SeeOther(c, middleware.HomeFor(res.User.IsAdmin()))
}

// Logout ends the session and returns home.
func (a *AuthController) Logout(c *gin.Context) {
	ref, _ := middleware.CurrentSession(c)
	if err := a.Sessions.Logout(c.Request.Context(), ref); err != nil {
		utils.Sugar.Errorw("logout failed", "error", err)
	}
	a.Sessions.ClearRef(c.Writer)
	middleware.SetSession(c, "", session.State{})
	utils.SetFlash(c, utils.FlashSuccess, "You have been logged out")
	utils.SeeOther(c, "/")
}

type profilePage struct {
	profile     forms.ProfileForm
	profileErrs forms.Errors
	profileErr  string
	passErrs    forms.Errors
	passErr     string
}

func (a *AuthController) renderProfile(c *gin.Context, status int, p profilePage) {
	c.Header("Cache-Control", "no-store")
	views.HTML(c, status, "auth/profile", gin.H{
		"Title":          "Profile",
		"ProfileFields":  profileFields,
		"ProfileValues":  forms.Values(&p.profile),
		"ProfileErrors":  p.profileErrs,
		"ProfileError":   p.profileErr,
		"PasswordFields": passwordFields,
		"PasswordErrors": p.passErrs,
		"PasswordError":  p.passErr,
	})
}

func currentProfile(c *gin.Context) forms.ProfileForm {
	_, st := middleware.CurrentSession(c)
	if st.User == nil {
		return forms.ProfileForm{}
	}
	return forms.ProfileFormFrom(*st.User)
}

// Profile shows the signed-in user's details and the password form.
func (a *AuthController) Profile(c *gin.Context) {
	a.renderProfile(c, http.StatusOK, profilePage{profile: currentProfile(c)})
}

// UpdateProfile saves the profile and merges the API's answer into the session.
func (a *AuthController) UpdateProfile(c *gin.Context) {
	var f forms.ProfileForm
	errs, err := bindForm(c, &f)
	if err != nil || !errs.Empty() {
		a.renderProfile(c, http.StatusUnprocessableEntity, profilePage{profile: f, profileErrs: errs})
		return
	}
	release, ok := a.inflight.Acquire(submitKey(c))
	if !ok {
		a.renderProfile(c, http.StatusConflict, profilePage{profile: f, profileErr: capitalize(ErrInFlight.Error()) + "."})
		return
	}
	patch, err := a.API.UpdateProfile(c.Request.Context(), f.Payload())
	release()
	if cancelled(c) {
		return
	}
	if err != nil {
		if a.handleUnauthorized(c, err) {
			return
		}
		logAPIError(c, "update profile", err)
		a.renderProfile(c, http.StatusBadGateway, profilePage{profile: f, profileErr: api.MessageOf(err)})
		return
	}

	ref, _ := middleware.CurrentSession(c)
	newRef, st, err := a.Sessions.UpdateUser(c.Request.Context(), ref, patch)
	if err != nil {
		utils.Sugar.Errorw("update session user failed", "error", err)
		a.renderProfile(c, http.StatusInternalServerError, profilePage{profile: f, profileErr: "Your profile was saved but the session could not be refreshed. Please log in again."})
		return
	}
	if newRef != ref {
		a.Sessions.WriteRef(c.Writer, newRef, st.ExpiresAt)
	}
	middleware.SetSession(c, newRef, st)
	utils.SetFlash(c, utils.FlashSuccess, "Profile updated")
	utils.SeeOther(c, "/auth/profile")
}

// ChangePassword updates the password through the API.
func (a *AuthController) ChangePassword(c *gin.Context) {
	var f forms.PasswordForm
	errs, err := bindForm(c, &f)
	if err != nil || !errs.Empty() {
		a.renderProfile(c, http.StatusUnprocessableEntity, profilePage{profile: currentProfile(c), passErrs: errs})
		return
	}
	release, ok := a.inflight.Acquire(submitKey(c))
	if !ok {
		a.renderProfile(c, http.StatusConflict, profilePage{profile: currentProfile(c), passErr: capitalize(ErrInFlight.Error()) + "."})
		return
	}
	err = a.API.ChangePassword(c.Request.Context(), f.Payload())
	release()
	if cancelled(c) {
		return
	}
	if err != nil {
		if a.handleUnauthorized(c, err) {
			return
		}
		logAPIError(c, "change password", err)
		a.renderProfile(c, http.StatusBadGateway, profilePage{profile: currentProfile(c), passErr: api.MessageOf(err)})
		return
	}
	utils.SetFlash(c, utils.FlashSuccess, "Password changed")
	utils.SeeOther(c, "/auth/profile")
}
