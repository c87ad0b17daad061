package routes

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/techjourney/folio/api"
	"github.com/techjourney/folio/config"
	"github.com/techjourney/folio/controllers"
	"github.com/techjourney/folio/middleware"
	"github.com/techjourney/folio/models"
	"github.com/techjourney/folio/session"
	"github.com/techjourney/folio/utils"
	"github.com/techjourney/folio/views"
)

// NewSessionStore opens the configured session backend. Background work
// such as the sql sweeper stops when ctx is cancelled.
func NewSessionStore(ctx context.Context, cfg config.AppConfig) (*session.Store, error) {
	var backend session.Backend
	switch cfg.SessionBackend {
	case "redis":
		rc, err := utils.GetRedis()
		if err != nil {
			return nil, err
		}
		backend = session.NewRedisBackend(rc)
	case "sql":
		db, err := config.InitDatabase(&models.WebSession{})
		if err != nil {
			return nil, err
		}
		sqlBackend := session.NewSQLBackend(db)
		utils.StartPeriodic(ctx, "session sweep", 10*time.Minute, func(ctx context.Context) error {
			n, err := sqlBackend.Sweep(ctx)
			if n > 0 {
				utils.Sugar.Infof("swept %d expired sessions", n)
			}
			return err
		})
		backend = sqlBackend
	case "cookie":
		backend = session.NewCookieBackend(cfg.SessionSecret)
	case "memory", "":
		backend = session.NewMemoryBackend(10 * time.Minute)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}

	store := session.NewStore(backend, session.Options{
		TTL:        time.Duration(cfg.SessionTTLHours) * time.Hour,
		CookieName: cfg.SessionCookie,
		Secure:     cfg.CookieSecure,
	})
	store.Subscribe(middleware.CountSessionEvents)
	store.Subscribe(func(e session.Event) {
		user := ""
		if e.State.User != nil {
			user = e.State.User.Username
		}
		utils.Sugar.Debugw("session event", "kind", e.Kind, "user", user)
	})
	return store, nil
}

// NewAPIClient returns the API client for the current request's session. A
// 401 from the API ends that session.
func NewAPIClient(cfg config.AppConfig, store *session.Store) *api.Client {
	return api.New(cfg.APIBaseURL,
		api.WithTimeout(time.Duration(cfg.APITimeoutSec)*time.Second),
		api.WithTokenSource(session.TokenFromContext),
		api.WithUnauthorizedHandler(func(ctx context.Context) {
			ref, _ := session.FromContext(ctx)
			if err := store.Logout(ctx, ref); err != nil {
				utils.Sugar.Warnw("drop rejected session failed", "error", err)
			}
		}),
	)
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, store *session.Store, client *api.Client) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.HTMLRender = views.MustNew()

	renderPanic := func(c *gin.Context) { views.Error(c, http.StatusInternalServerError, "") }
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false, renderPanic))
	} else {
		r.Use(gin.CustomRecovery(func(c *gin.Context, _ any) { renderPanic(c) }))
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.Metrics())

	// Session free endpoints.
	r.StaticFS("/static", views.Static())
	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/captcha", controllers.CaptchaJSON)

	r.Use(middleware.Session(store))
	limit := middleware.RateLimit(cfg.RateLimitPerMinute)

	base := controllers.NewBase(client, store)
	public := controllers.NewPublicController(base)
	about := controllers.NewAboutController(base, cfg.CaptchaEnabled, cfg.ContactTo)
	auth := controllers.NewAuthController(base, cfg.CaptchaEnabled)
	admin := controllers.NewAdmin(base)
	dashboard := controllers.NewDashboardController(base, admin.Comments)
	settings := controllers.NewSettingsController()

	r.GET("/", public.Home)
	r.GET("/blog", public.Blog)
	r.GET("/blog/:slug", public.Post)
	r.GET("/projects", public.Projects)
	r.GET("/projects/:slug", public.Project)
	r.GET("/timeline", public.Timeline)
	r.GET("/learning", public.Learning)
	r.GET("/about", about.Show)
	r.POST("/about/contact", limit, about.Contact)

	authGroup := r.Group("/auth")
	authGroup.GET("/login", middleware.RequireGuest(), auth.LoginPage)
	authGroup.POST("/login", limit, middleware.RequireGuest(), auth.Login)
	authGroup.GET("/register", middleware.RequireGuest(), auth.RegisterPage)
	authGroup.POST("/register", limit, middleware.RequireGuest(), auth.Register)
	authGroup.POST("/logout", auth.Logout)
	authGroup.GET("/profile", middleware.RequireAuth(), auth.Profile)
	authGroup.POST("/profile", middleware.RequireAuth(), auth.UpdateProfile)
	authGroup.POST("/password", limit, middleware.RequireAuth(), auth.ChangePassword)

	dash := r.Group("/dashboard")
	dash.Use(middleware.RequireAdmin())
	dash.GET("", dashboard.Index)
	mountCRUD(dash, "/posts", admin.Posts, admin.PostForm)
	mountCRUD(dash, "/projects", admin.Projects, admin.ProjectForm)
	mountCRUD(dash, "/learning", admin.Learning, admin.LearningForm)
	mountCRUD(dash, "/skills", admin.Skills, admin.SkillForm)
	mountCRUD(dash, "/timeline", admin.Timeline, admin.TimelineForm)

	comments := dash.Group("/comments")
	comments.GET("", dashboard.Comments)
	comments.GET("/:id/delete", admin.Comments.ConfirmDelete)
	comments.POST("/:id/delete", admin.Comments.Delete)
	comments.POST("/:id/approve", admin.Comments.ToggleHandler("approve"))

	dash.GET("/settings", settings.Show)
	dash.POST("/settings", settings.Save)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/static/") {
			ctx.Status(http.StatusNotFound)
			return
		}
		views.NotFound(ctx)
	})

	return r
}

// mountCRUD registers the list, form, delete and toggle routes of one entity.
func mountCRUD[F any, T any](g *gin.RouterGroup, path string, list *controllers.ListScreen[T], form *controllers.FormScreen[F, T]) {
	sub := g.Group(path)
	sub.GET("", list.Index)
	sub.GET("/new", form.New)
	sub.POST("/new", form.Create)
	sub.GET("/:id/edit", form.Edit)
	sub.POST("/:id/edit", form.Update)
	sub.GET("/:id/delete", list.ConfirmDelete)
	sub.POST("/:id/delete", list.Delete)
	for _, t := range list.Toggles {
		sub.POST("/:id/"+t.Name, list.ToggleHandler(t.Name))
	}
}
