package models

import "time"

// Project statuses.
const (
	ProjectPlanning   = "PLANNING"
	ProjectInProgress = "IN_PROGRESS"
	ProjectCompleted  = "COMPLETED"
	ProjectOnHold     = "ON_HOLD"
)

// ProjectStatuses lists statuses in form order; the first is the default.
var ProjectStatuses = []string{ProjectPlanning, ProjectInProgress, ProjectCompleted, ProjectOnHold}

// Project is a portfolio entry.
type Project struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description"`
	LongDescription *string   `json:"longDescription"`
	TechStack       []string  `json:"techStack"`
	Status          string    `json:"status"`
	IsFeatured      bool      `json:"isFeatured"`
	ThumbnailImage  *string   `json:"thumbnailImage"`
	DemoURL         *string   `json:"demoUrl"`
	GithubURL       *string   `json:"githubUrl"`
	Features        []string  `json:"features"`
	Challenges      *string   `json:"challenges"`
	Learnings       *string   `json:"learnings"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ProjectPayload is the body of POST /projects and PUT /projects/{id}.
type ProjectPayload struct {
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	Description     string   `json:"description"`
	LongDescription *string  `json:"longDescription"`
	TechStack       []string `json:"techStack"`
	Status          string   `json:"status"`
	IsFeatured      bool     `json:"isFeatured"`
	ThumbnailImage  *string  `json:"thumbnailImage"`
	DemoURL         *string  `json:"demoUrl"`
	GithubURL       *string  `json:"githubUrl"`
	Features        []string `json:"features"`
	Challenges      *string  `json:"challenges"`
	Learnings       *string  `json:"learnings"`
}
