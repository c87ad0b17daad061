package models

// Stats is the payload of GET /analytics/stats.
type Stats struct {
	TotalPosts      int `json:"totalPosts"`
	PublishedPosts  int `json:"publishedPosts"`
	TotalProjects   int `json:"totalProjects"`
	TotalComments   int `json:"totalComments"`
	TotalViews      int `json:"totalViews"`
	TotalLearnings  int `json:"totalLearnings"`
	TotalSkills     int `json:"totalSkills"`
	TotalMilestones int `json:"totalMilestones"`
}

// SiteSettings are runtime-editable presentation settings.
type SiteSettings struct {
	SiteName        string
	SiteDescription string
	PostsPerPage    int
	CommentsEnabled bool
	CommentApproval bool
}
