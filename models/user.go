package models

import "time"

// RoleAdmin is the role allowed into the dashboard.
const RoleAdmin = "ADMIN"

// User is the authenticated identity returned by the API.
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Bio       string     `json:"bio,omitempty"`
	Location  string     `json:"location,omitempty"`
	Website   string     `json:"website,omitempty"`
	Avatar    string     `json:"avatar,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// IsAdmin reports whether the user may use the dashboard.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserPatch carries a partial user. Nil fields are left untouched by Merge.
type UserPatch struct {
	ID       *string `json:"id"`
	Username *string `json:"username"`
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
	Website  *string `json:"website"`
	Avatar   *string `json:"avatar"`
}

// Merge shallow-merges p into u.
func (u User) Merge(p UserPatch) User {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.ID, p.ID)
	set(&u.Username, p.Username)
	set(&u.FullName, p.FullName)
	set(&u.Email, p.Email)
	set(&u.Role, p.Role)
	set(&u.Bio, p.Bio)
	set(&u.Location, p.Location)
	set(&u.Website, p.Website)
	set(&u.Avatar, p.Avatar)
	return u
}

// AuthResult is the payload of login and register.
type AuthResult struct {
	User   User `json:"user"`
	Tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken,omitempty"`
	} `json:"tokens"`
}

// ProfilePayload is sent to PUT /auth/profile.
type ProfilePayload struct {
	FullName string  `json:"fullName"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
	Website  *string `json:"website"`
}

// PasswordPayload is sent to PUT /auth/change-password.
type PasswordPayload struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Credentials is sent to POST /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is sent to POST /auth/register.
type Registration struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
