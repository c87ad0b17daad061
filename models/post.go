package models

import "time"

// Post is a blog article.
type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	CoverImage  *string    `json:"coverImage"`
	Tags        []string   `json:"tags"`
	IsPublished bool       `json:"isPublished"`
	CategoryID  *string    `json:"categoryId"`
	Category    *Category  `json:"category,omitempty"`
	Views       int        `json:"views"`
	Likes       int        `json:"likes"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Category groups posts.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

// PostPayload is the body of POST /posts and PUT /posts/{id}.
type PostPayload struct {
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Excerpt     string   `json:"excerpt"`
	Content     string   `json:"content"`
	CoverImage  *string  `json:"coverImage"`
	CategoryID  *string  `json:"categoryId"`
	Tags        []string `json:"tags"`
	IsPublished bool     `json:"isPublished"`
}
