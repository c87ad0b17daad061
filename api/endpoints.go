package api

import (
	"context"
	"net/url"

	"github.com/techjourney/folio/models"
)

// PostBySlug fetches a post for reading.
func (c *Client) PostBySlug(ctx context.Context, slug string) (models.Post, error) {
	var p models.Post
	_, err := c.Get(ctx, "/posts/"+url.PathEscape(slug), nil, &p)
	return p, err
}

// SetPostPublished publishes or unpublishes a post.
func (c *Client) SetPostPublished(ctx context.Context, id string, published bool) error {
	return c.Put(ctx, "/posts/"+url.PathEscape(id), map[string]bool{"isPublished": published}, nil)
}

// ProjectBySlug fetches a project by slug or id.
func (c *Client) ProjectBySlug(ctx context.Context, slug string) (models.Project, error) {
	return c.Projects().Get(ctx, slug)
}

// SetProjectFeatured features or unfeatures a project.
func (c *Client) SetProjectFeatured(ctx context.Context, id string, featured bool) error {
	return c.Put(ctx, "/projects/"+url.PathEscape(id)+"/featured", map[string]bool{"isFeatured": featured}, nil)
}

// ApproveComment marks a comment approved.
func (c *Client) ApproveComment(ctx context.Context, id string) error {
	return c.Put(ctx, "/comments/"+url.PathEscape(id)+"/approve", nil, nil)
}

// Categories lists post categories.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	_, err := c.Get(ctx, "/categories", nil, &cats)
	return cats, err
}

// Stats returns dashboard counters.
func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	var s models.Stats
	_, err := c.Get(ctx, "/analytics/stats", nil, &s)
	return s, err
}

// Login exchanges credentials for a token and user.
func (c *Client) Login(ctx context.Context, cred models.Credentials) (models.AuthResult, error) {
	var res models.AuthResult
	err := c.Post(ctx, "/auth/login", cred, &res)
	return res, err
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, reg models.Registration) (models.AuthResult, error) {
	var res models.AuthResult
	err := c.Post(ctx, "/auth/register", reg, &res)
	return res, err
}

// UpdateProfile saves the profile and returns the fields the API echoed back.
func (c *Client) UpdateProfile(ctx context.Context, p models.ProfilePayload) (models.UserPatch, error) {
	var patch models.UserPatch
	err := c.Put(ctx, "/auth/profile", p, &patch)
	return patch, err
}

// ChangePassword changes the signed-in user's password.
func (c *Client) ChangePassword(ctx context.Context, p models.PasswordPayload) error {
	return c.Put(ctx, "/auth/change-password", p, nil)
}
