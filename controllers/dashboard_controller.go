package controllers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/techjourney/folio/api"
	"github.com/techjourney/folio/models"
	"github.com/techjourney/folio/views"
)

// DashboardController serves the dashboard home and comment moderation.
type DashboardController struct {
	*Base
	comments *ListScreen[models.Comment]
}

func NewDashboardController(b *Base, comments *ListScreen[models.Comment]) *DashboardController {
	return &DashboardController{Base: b, comments: comments}
}

// Index shows site statistics with the latest posts and comments. Each
// panel fails on its own.
func (d *DashboardController) Index(c *gin.Context) {
	ctx := c.Request.Context()
	latest := url.Values{"pageSize": {"5"}}

	stats, statsErr := d.API.Stats(ctx)
	posts, _, postsErr := d.API.Posts().List(ctx, latest)
	comments, _, commentsErr := d.API.Comments().List(ctx, latest)
	if cancelled(c) {
		return
	}

	data := gin.H{"Title": "Dashboard", "Section": "dashboard", "Posts": limit(posts, 5), "Comments": limit(comments, 5)}
	for _, err := range []error{statsErr, postsErr, commentsErr} {
		if err == nil {
			continue
		}
		if d.handleUnauthorized(c, err) {
			return
		}
		logAPIError(c, "dashboard", err)
		data["Error"] = api.MessageOf(err)
	}
	if statsErr == nil {
		data["Stats"] = &stats
	}
	views.HTML(c, http.StatusOK, "admin/dashboard", data)
}

// Comments lists comments with the all/pending/approved filter and the
// number awaiting approval.
func (d *DashboardController) Comments(c *gin.Context) {
	items, all, values, err := d.comments.Fetch(c)
	if cancelled(c) {
		return
	}
	filter := values["status"]
	if filter != "pending" && filter != "approved" {
		filter = "all"
	}
	data := gin.H{"Title": "Comments", "Section": "comments", "Filter": filter, "Comments": items}
	if err != nil {
		if d.handleUnauthorized(c, err) {
			return
		}
		logAPIError(c, "list comments", err)
		data["Error"] = api.MessageOf(err)
	}
	pending := 0
	for _, cm := range all {
		if !cm.IsApproved {
			pending++
		}
	}
	data["PendingCount"] = pending
	views.HTML(c, http.StatusOK, "admin/comments", data)
}

func limit[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
