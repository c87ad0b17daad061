package api

import (
	"context"
	"net/url"

	"github.com/techjourney/folio/models"
)

// Resource is typed CRUD access to one collection of the API.
type Resource[T any] struct {
	client  *Client
	path    string
	getPath string
}

// NewResource binds a collection path. getPath is the prefix used to fetch a
// single record by id; it defaults to path.
func NewResource[T any](c *Client, path, getPath string) Resource[T] {
	if getPath == "" {
		getPath = path
	}
	return Resource[T]{client: c, path: path, getPath: getPath}
}

// List fetches the collection.
func (r Resource[T]) List(ctx context.Context, query url.Values) ([]T, *Meta, error) {
	var items []T
	meta, err := r.client.Get(ctx, r.path, query, &items)
	return items, meta, err
}

// Get fetches one record by id.
func (r Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	_, err := r.client.Get(ctx, r.getPath+"/"+url.PathEscape(id), nil, &item)
	return item, err
}

// Create posts a new record.
func (r Resource[T]) Create(ctx context.Context, payload any) (T, error) {
	var item T
	err := r.client.Post(ctx, r.path, payload, &item)
	return item, err
}

// Update replaces the record with id.
func (r Resource[T]) Update(ctx context.Context, id string, payload any) (T, error) {
	var item T
	err := r.client.Put(ctx, r.path+"/"+url.PathEscape(id), payload, &item)
	return item, err
}

// Delete removes the record with id.
func (r Resource[T]) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, r.path+"/"+url.PathEscape(id))
}

// Posts are fetched for editing by id under /posts/id; /posts/{slug} serves readers.
func (c *Client) Posts() Resource[models.Post] {
	return NewResource[models.Post](c, "/posts", "/posts/id")
}

func (c *Client) Projects() Resource[models.Project] {
	return NewResource[models.Project](c, "/projects", "")
}

func (c *Client) Comments() Resource[models.Comment] {
	return NewResource[models.Comment](c, "/comments", "")
}

func (c *Client) Learning() Resource[models.LearningItem] {
	return NewResource[models.LearningItem](c, "/learning", "")
}

func (c *Client) Skills() Resource[models.Skill] {
	return NewResource[models.Skill](c, "/skills", "")
}

func (c *Client) Timeline() Resource[models.Milestone] {
	return NewResource[models.Milestone](c, "/timeline", "/timeline/id")
}
