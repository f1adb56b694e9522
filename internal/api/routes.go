// Package api holds the gin handlers and the router serving the HTML site.
package api

import (
	"time" // Session lifetime

	"dorm_booking/internal/domain"     // Role enumeration
	"dorm_booking/internal/flash"      // Redirect messages
	"dorm_booking/internal/ledger"     // Room search
	"dorm_booking/internal/middleware" // Session and role gates
	"dorm_booking/internal/notify"     // Email templates
	"dorm_booking/internal/web"        // Embedded pages
	"dorm_booking/internal/workflow"   // Application lifecycle

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus/promhttp" // Metrics endpoint
	"github.com/redis/go-redis/v9"                            // Redis client
	"gorm.io/gorm"                                            // GORM ORM library
)

// Deps are the collaborators shared by every handler
type Deps struct {
	DB            *gorm.DB              // Users and direct lookups
	Redis         *redis.Client         // Revoked sessions, template cache
	Flash         *flash.Store          // Redirect messages
	Workflow      *workflow.Service     // Application lifecycle
	Ledger        *ledger.Ledger        // Room inventory
	Templates     *notify.TemplateStore // Status email templates
	JWTSecret     string                // Session token signing key
	SessionTTL    time.Duration         // Session lifetime
	SecureCookies bool                  // Set the Secure flag on the session cookie
	TrustedProxy  []string              // Proxies allowed to set client IP headers
}

// NewRouter builds the gin engine with every route registered
func NewRouter(d *Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.SessionMiddleware(d.JWTSecret, d.Redis))
	_ = r.SetTrustedProxies(d.TrustedProxy) // nil trusts no proxy
	r.SetHTMLTemplate(web.Templates())
	r.MaxMultipartMemory = 8 << 20 // Receipts above 8 MiB spill to disk

	// Public routes
	r.GET("/", IndexHandler(d))
	r.GET("/login", LoginPageHandler(d))
	r.POST("/login", LoginHandler(d))
	r.GET("/logout", LogoutHandler(d))
	r.GET("/create_account", CreateAccountPageHandler(d, false))
	r.POST("/create_account", CreateAccountHandler(d, false))
	r.GET("/forgot_password", ForgotPasswordHandler(d))
	r.POST("/forgot_password", ForgotPasswordHandler(d))

	// Any logged in user
	r.GET("/dashboard", middleware.RequireLogin(d.Flash), DashboardHandler(d))

	// Student routes
	student := r.Group("/")
	student.Use(middleware.RequireRole(d.DB, d.Flash, domain.RoleStudent))
	student.GET("/room_search", RoomSearchHandler(d))
	student.POST("/room_search", RoomSearchHandler(d))
	student.GET("/book_room/:room_id/:action", BookRoomHandler(d))
	student.POST("/book_room/:room_id/:action", BookRoomHandler(d))
	student.POST("/submit_application", SubmitApplicationHandler(d))
	student.GET("/edit_application/:room_id", EditApplicationPageHandler(d))
	student.POST("/edit_application/:room_id", EditApplicationHandler(d))
	student.GET("/view_booking", ViewBookingHandler(d))
	student.GET("/track_application", TrackApplicationHandler(d))
	student.POST("/track_application", TrackApplicationHandler(d))
	student.GET("/upload_receipt/:application_id", UploadReceiptPageHandler(d))
	student.POST("/upload_receipt/:application_id", UploadReceiptHandler(d))

	// Staff routes (Admin and IT)
	staff := r.Group("/")
	staff.Use(middleware.RequireRole(d.DB, d.Flash, domain.RoleAdmin, domain.RoleIT))
	staff.GET("/create_admin", CreateAccountPageHandler(d, true))
	staff.POST("/create_admin", CreateAccountHandler(d, true))
	staff.GET("/application_search", ApplicationSearchHandler(d))
	staff.POST("/application_search", ApplicationSearchHandler(d))
	staff.GET("/application_search/export", ExportApplicationsHandler(d))
	staff.GET("/approve_application/:application_id/:room_id", ApprovePageHandler(d))
	staff.POST("/approve_application/:application_id/:room_id", ApproveHandler(d))
	staff.GET("/create_email_template", EmailTemplatesHandler(d))
	staff.POST("/create_email_template", SaveEmailTemplateHandler(d))

	return r
}

// NewMetricsRouter serves the Prometheus scrape endpoint. It is mounted on a
// separate listener so the public site does not expose it.
func NewMetricsRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
