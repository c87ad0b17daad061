package utils

import (
	"sync"

	"github.com/techjourney/folio/config"
	"github.com/techjourney/folio/models"
)

var (
	settingsMu sync.RWMutex
	settings   = models.SiteSettings{SiteName: "TechJourney", PostsPerPage: 12, CommentsEnabled: true, CommentApproval: true}
)

// InitSettings seeds the runtime site settings from configuration.
func InitSettings(cfg config.AppConfig) {
	SaveSettings(models.SiteSettings{
		SiteName:        cfg.SiteName,
		SiteDescription: cfg.SiteDescription,
		PostsPerPage:    cfg.PostsPerPage,
		CommentsEnabled: true,
		CommentApproval: true,
	})
}

// CurrentSettings returns a copy of the site settings.
func CurrentSettings() models.SiteSettings {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settings
}

// SaveSettings replaces the site settings.
func SaveSettings(s models.SiteSettings) {
	if s.PostsPerPage <= 0 {
		s.PostsPerPage = 12
	}
	settingsMu.Lock()
	settings = s
	settingsMu.Unlock()
}
