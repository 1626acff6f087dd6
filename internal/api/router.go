package api

import (
	"classfeedback/internal/auth"
	"classfeedback/internal/config"
	"classfeedback/internal/middleware"
	"classfeedback/internal/store"
	"classfeedback/internal/utils" // Cache helpers

	"github.com/gin-contrib/sessions"        // Cookie-backed sessions
	"github.com/gin-contrib/sessions/cookie" // Cookie session store
	"github.com/gin-gonic/gin"               // Gin web framework
	"gorm.io/gorm"                           // GORM ORM library
)

// NewRouter wires every route over explicitly passed handles: the gorm
// DB, the (possibly disabled) cache, and the configuration. Nothing is
// held in package-level state.
func NewRouter(gdb *gorm.DB, cache *utils.Cache, cfg *config.Config) *gin.Engine {
	r := gin.Default() // Gin router instance
	_ = r.SetTrustedProxies([]string{"127.0.0.1"})

	// Sessions ride in a cookie signed with the application secret.
	r.Use(sessions.Sessions("classfeedback_session", cookie.NewStore([]byte(cfg.SecretKey))))
	if cfg.TemplateGlob != "" {
		r.LoadHTMLGlob(cfg.TemplateGlob) // HTML templates
	}
	if cfg.StaticDir != "" {
		r.Static("/static", cfg.StaticDir) // Static assets
	}

	users := store.NewUserStore(gdb)
	feedback := store.NewFeedbackStore(gdb)
	flow := auth.NewFlow(users)

	// Public routes
	r.GET("/", SplashHandler())
	r.GET("/login", LoginPageHandler())
	r.POST("/login", LoginHandler(flow))
	r.GET("/set-password", SetPasswordPageHandler(users))
	r.POST("/set-password", SetPasswordHandler(flow))
	r.GET("/logout", LogoutHandler())

	// Routes requiring an authenticated session
	protected := r.Group("/", middleware.RequireLogin())
	protected.GET("/dashboard", DashboardHandler(users))
	protected.GET("/give-feedback", GiveFeedbackPageHandler(users, feedback, cache))
	protected.POST("/give-feedback", SubmitFeedbackHandler(feedback, cache))
	protected.GET("/view-feedback", ViewFeedbackHandler(users, feedback, cache))
	protected.GET("/download-given-pdf", DownloadGivenPDFHandler(users, feedback))
	protected.GET("/download-received-pdf", DownloadReceivedPDFHandler(users, feedback))

	// Maintenance routes (admin token only)
	admin := r.Group("/admin", middleware.AdminAuthMiddleware(cfg.SecretKey))
	admin.GET("/users", ListAllUsersHandler(users, cache))
	admin.POST("/users", AddUserHandler(users, cache))

	return r
}
