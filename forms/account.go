package forms

import "github.com/techjourney/folio/models"

// LoginForm is the sign-in schema.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email" label:"Email"`
	Password string `form:"password" validate:"required" label:"Password"`
	Next     string `form:"next"`
}

func (f LoginForm) Payload() models.Credentials {
	return models.Credentials{Email: f.Email, Password: f.Password}
}

// RegisterForm is the sign-up schema.
type RegisterForm struct {
	FullName        string `form:"fullName" validate:"required,min=2" label:"Full name"`
	Username        string `form:"username" validate:"required,min=3,username" label:"Username"`
	Email           string `form:"email" validate:"required,email" label:"Email"`
	Password        string `form:"password" validate:"required,min=6" label:"Password"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=Password" label:"Confirm password"`
	CaptchaID       string `form:"captchaId"`
	CaptchaAnswer   string `form:"captcha"`
}

func (f RegisterForm) Payload() models.Registration {
	return models.Registration{FullName: f.FullName, Username: f.Username, Email: f.Email, Password: f.Password}
}

// ProfileForm is the profile edit schema.
type ProfileForm struct {
	FullName string `form:"fullName" validate:"required,min=2" label:"Full name"`
	Username string `form:"username" validate:"required,min=3,username" label:"Username"`
	Email    string `form:"email" validate:"required,email" label:"Email"`
	Bio      string `form:"bio" label:"Bio"`
	Location string `form:"location" label:"Location"`
	Website  string `form:"website" validate:"omitempty,url" label:"Website"`
}

func (f ProfileForm) Payload() models.ProfilePayload {
	return models.ProfilePayload{
		FullName: f.FullName,
		Username: f.Username,
		Email:    f.Email,
		Bio:      NullIfEmpty(f.Bio),
		Location: NullIfEmpty(f.Location),
		Website:  NullIfEmpty(f.Website),
	}
}

func ProfileFormFrom(u models.User) ProfileForm {
	return ProfileForm{
		FullName: u.FullName,
		Username: u.Username,
		Email:    u.Email,
		Bio:      u.Bio,
		Location: u.Location,
		Website:  u.Website,
	}
}

// PasswordForm is the change-password schema.
type PasswordForm struct {
	CurrentPassword string `form:"currentPassword" validate:"required,min=6" label:"Current password"`
	NewPassword     string `form:"newPassword" validate:"required,min=6" label:"New password"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=NewPassword" label:"Confirm password"`
}

func (f PasswordForm) Payload() models.PasswordPayload {
	return models.PasswordPayload{CurrentPassword: f.CurrentPassword, NewPassword: f.NewPassword}
}

// ContactForm is the about page message schema.
type ContactForm struct {
	Name          string `form:"name" validate:"required,min=2" label:"Name"`
	Email         string `form:"email" validate:"required,email" label:"Email"`
	Subject       string `form:"subject" validate:"required" label:"Subject"`
	Message       string `form:"message" validate:"required,min=10" label:"Message"`
	CaptchaID     string `form:"captchaId"`
	CaptchaAnswer string `form:"captcha"`
}

// SettingsForm is the dashboard site settings schema.
type SettingsForm struct {
	SiteName        string `form:"siteName" validate:"required" label:"Site name"`
	SiteDescription string `form:"siteDescription" label:"Site description"`
	PostsPerPage    string `form:"postsPerPage" validate:"intrange=1-50" label:"Posts per page"`
	CommentsEnabled bool   `form:"commentsEnabled"`
	CommentApproval bool   `form:"commentApproval"`
}

func SettingsFormFrom(s models.SiteSettings) SettingsForm {
	return SettingsForm{
		SiteName:        s.SiteName,
		SiteDescription: s.SiteDescription,
		PostsPerPage:    itoa(s.PostsPerPage),
		CommentsEnabled: s.CommentsEnabled,
		CommentApproval: s.CommentApproval,
	}
}

func (f SettingsForm) Settings() models.SiteSettings {
	return models.SiteSettings{
		SiteName:        f.SiteName,
		SiteDescription: f.SiteDescription,
		PostsPerPage:    atoi(f.PostsPerPage),
		CommentsEnabled: f.CommentsEnabled,
		CommentApproval: f.CommentApproval,
	}
}
