package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/work21/portal/internal/api/handler"
	"github.com/work21/portal/internal/api/middleware"
	"github.com/work21/portal/internal/core/domain"
	"github.com/work21/portal/internal/core/ports"
	_ "github.com/work21/portal/internal/docs"
	"github.com/work21/portal/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the router wires into handlers and middleware.
type Deps struct {
	Workspaces     ports.WorkspaceResolver
	Cookie         middleware.CookieConfig
	LoginLimiter   *middleware.IPRateLimiter
	AllowedOrigins []string
	// Readiness lists the dependencies probed by GET /health/ready.
	Readiness map[string]handlers.Pinger
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(middleware.Metrics())
	e.Use(echo.WrapMiddleware(cors.New(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{echo.HeaderContentType, echo.HeaderXRequestID},
		AllowCredentials: true,
	}).Handler))

	// --- Probes, metrics and docs (no browser session) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(d.Readiness).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Browser pages ---
	g := e.Group("", middleware.BrowserSession(d.Cookie, d.Workspaces, d.Log))

	authHandler := handler.NewAuthHandler()
	g.POST("/auth/login", authHandler.Login, d.LoginLimiter.Middleware())
	g.POST("/auth/register", authHandler.Register, d.LoginLimiter.Middleware())
	g.POST("/auth/logout", authHandler.Logout)

	sessionHandler := handler.NewSessionHandler(d.Log)
	g.GET("/session", sessionHandler.Get)
	g.POST("/session/refresh", sessionHandler.Refresh)

	themeHandler := handler.NewThemeHandler(d.Log)
	g.GET("/theme", themeHandler.Get)
	g.PUT("/theme", themeHandler.Put)

	// --- Pages behind login ---
	authed := g.Group("", middleware.RequireAuth())
	customer := middleware.RequireRole(domain.RoleCustomer, domain.RoleAdmin)
	student := middleware.RequireRole(domain.RoleStudent)

	profileHandler := handler.NewProfileHandler(d.Log)
	authed.GET("/profile", profileHandler.Get)
	authed.PATCH("/profile", profileHandler.Update)

	projects := handler.NewProjectHandler()
	authed.GET("/projects", projects.List)
	authed.POST("/projects", projects.Create, customer)
	authed.GET("/projects/:id", projects.Get)
	authed.PATCH("/projects/:id", projects.Update, customer)
	authed.POST("/projects/:id/publish", projects.Publish, customer)
	authed.POST("/projects/:id/complete", projects.Complete, customer)
	authed.POST("/projects/:id/assign", projects.Assign, customer)
	authed.POST("/projects/:id/request-review", projects.RequestReview, student)
	authed.GET("/projects/:id/tasks", projects.ListTasks)
	authed.POST("/projects/:id/tasks", projects.CreateTask)
	authed.PATCH("/projects/:id/tasks/:task_id", projects.UpdateTask)
	authed.DELETE("/projects/:id/tasks/:task_id", projects.DeleteTask)
	authed.GET("/projects/:id/applications", projects.ListApplications, customer)
	authed.POST("/projects/:id/apply", projects.Apply, student)

	users := handler.NewUserHandler()
	authed.GET("/students", users.ListStudents)
	authed.GET("/users/:id", users.Get)
	authed.GET("/users/:id/ratings", users.Ratings)
	authed.POST("/ratings", users.Rate)

	authed.POST("/estimator", handler.NewEstimatorHandler().Estimate)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
