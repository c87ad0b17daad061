package models

import "time"

// Comment is a reader comment awaiting or past moderation.
type Comment struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	AuthorName  string    `json:"authorName"`
	AuthorEmail string    `json:"authorEmail"`
	IsApproved  bool      `json:"isApproved"`
	CreatedAt   time.Time `json:"createdAt"`
	Post        *struct {
		Title string `json:"title"`
		Slug  string `json:"slug"`
	} `json:"post,omitempty"`
}
