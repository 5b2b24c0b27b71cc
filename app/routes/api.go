package routes

import (
	"net/http"
	"time"

	"github.com/rpradhan/stockroom/app/controllers"
	"github.com/rpradhan/stockroom/app/models"
	"github.com/rpradhan/stockroom/config"
	"github.com/rpradhan/stockroom/pkg/metrics"
	"github.com/rpradhan/stockroom/pkg/middleware"
	"github.com/rpradhan/stockroom/pkg/rbac"
	"github.com/rpradhan/stockroom/pkg/reqid"
	"github.com/rpradhan/stockroom/pkg/response"
	"github.com/rpradhan/stockroom/pkg/router"
	"github.com/rpradhan/stockroom/pkg/ws"
	"gorm.io/gorm"
)

// Deps carries everything the route table mounts.
type Deps struct {
	Auth      *controllers.AuthController
	Users     *controllers.UserController
	Stocks    *controllers.StockController
	Suppliers *controllers.SupplierController
	Reports   *controllers.ReportController
	Dashboard *controllers.DashboardController
	GraphQL   http.HandlerFunc
	FeedHub   *ws.Hub
	DB        *gorm.DB
}

// RegisterAPI mounts the full HTTP surface.
func RegisterAPI(r *router.Router, d Deps) {
	cors := middleware.DefaultCORSOptions()
	cors.AllowedOrigins = config.CORSOrigins()

	r.Use(
		reqid.Middleware(),
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cors),
		metrics.Middleware(),
	)

	r.Get("/healthz", "healthz", healthz(d.DB))
	r.Handle("/metrics", metrics.Handler())

	api := r.Group("/api")

	// Login is rate limited to slow down credential stuffing.
	api.Post("/login", "auth.login", d.Auth.Login, middleware.RateLimit(10, time.Minute))
	api.Post("/refresh", "auth.refresh", d.Auth.Refresh, middleware.RateLimit(10, time.Minute))

	protected := api.Group("", middleware.AuthMiddleware)
	protected.Get("/me", "auth.me", d.Auth.Me)

	// Account management is admin only.
	admin := protected.Group("/users", rbac.HasRole(models.RoleAdmin))
	admin.Get("", "users.list", d.Users.List)
	admin.Post("", "users.create", d.Users.Create)
	admin.Get("/{id}", "users.show", d.Users.Show)
	admin.Put("/{id}", "users.update", d.Users.Update)
	admin.Delete("/{id}", "users.delete", d.Users.Delete)

	stocks := protected.Group("/stocks")
	stocks.Get("", "stocks.list", d.Stocks.List)
	stocks.Post("", "stocks.create", d.Stocks.Create)
	stocks.Get("/{id}", "stocks.show", d.Stocks.Show)
	stocks.Patch("/{id}", "stocks.patch", d.Stocks.Patch)
	stocks.Delete("/{id}", "stocks.delete", d.Stocks.Delete, rbac.HasRole(models.RoleAdmin))

	suppliers := protected.Group("/suppliers")
	suppliers.Get("", "suppliers.list", d.Suppliers.List)
	suppliers.Post("", "suppliers.create", d.Suppliers.Create)
	suppliers.Get("/{id}", "suppliers.show", d.Suppliers.Show)
	suppliers.Put("/{id}", "suppliers.update", d.Suppliers.Update)
	suppliers.Delete("/{id}", "suppliers.delete", d.Suppliers.Delete, rbac.HasRole(models.RoleAdmin))

	reports := protected.Group("/reports")
	reports.Get("", "reports.list", d.Reports.List)
	reports.Post("", "reports.create", d.Reports.Create)
	reports.Get("/{id}", "reports.show", d.Reports.Show)
	reports.Put("/{id}", "reports.update", d.Reports.Update)
	reports.Delete("/{id}", "reports.delete", d.Reports.Delete)
	reports.Post("/{id}/document", "reports.document", d.Reports.UploadDocument)

	protected.Get("/dashboard", "dashboard", d.Dashboard.Summary)
	protected.Post("/graphql", "graphql", d.GraphQL)

	protected.Get("/ws/feed", "ws.feed", func(w http.ResponseWriter, r *http.Request) {
		ws.Upgrade(w, r, d.FeedHub)
	})
}

// healthz reports liveness plus database reachability.
func healthz(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			response.Error(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}

		response.Success(w, map[string]string{"status": "ok"})
	}
}
