package main

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/josh-kwaku/learning-backend/api"
	"github.com/josh-kwaku/learning-backend/internal/config"
	"github.com/josh-kwaku/learning-backend/internal/domain"
	"github.com/josh-kwaku/learning-backend/internal/handler"
	"github.com/josh-kwaku/learning-backend/internal/middleware"
	"github.com/josh-kwaku/learning-backend/internal/repository"
	"github.com/josh-kwaku/learning-backend/internal/service"
	"github.com/josh-kwaku/learning-backend/internal/service/course"
)

type middlewareFunc = func(http.Handler) http.Handler

func chain(h http.Handler, mws ...middlewareFunc) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func newRouter(cfg *config.Config, db *sql.DB, users *service.UserService, reg prometheus.Registerer) (http.Handler, error) {
	var metrics *course.Metrics
	if cfg.MetricsEnabled {
		metrics = course.NewMetrics(reg)
	}
	courses := course.NewService(
		repository.NewDB(db),
		repository.NewUserRepository(db),
		repository.NewCourseRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewCourseQueryRepository(db),
		metrics,
	)

	paging := handler.Paging{DefaultSize: cfg.DefaultPageSize, MaxSize: cfg.MaxPageSize}
	authH := handler.NewAuthHandler(users)
	userH := handler.NewUserHandler(users, paging)
	courseH := handler.NewCourseHandler(courses, paging)
	enrollH := handler.NewEnrollmentHandler(courses, paging)
	healthH := handler.NewHealthHandler(db, version)

	rateLimit, err := middleware.NewIPRateLimiter(cfg.AuthRateLimit)
	if err != nil {
		return nil, fmt.Errorf("newRouter: %w", err)
	}
	authed := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RequireRole(domain.UserRoleAdmin)

	mux := http.NewServeMux()
	public := func(pattern string, h http.HandlerFunc, mws ...middlewareFunc) {
		mux.Handle(pattern, chain(h, mws...))
	}
	private := func(pattern string, h http.HandlerFunc, mws ...middlewareFunc) {
		mux.Handle(pattern, chain(h, append([]middlewareFunc{authed}, mws...)...))
	}

	public("GET /health", healthH.Liveness)
	public("GET /health/ready", healthH.Readiness)
	public("GET /docs", handler.ServeDocs())
	public("GET /docs/openapi.yaml", handler.ServeSpec(api.OpenAPISpec))
	if cfg.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	public("POST /api/auth/signup", authH.Signup, rateLimit)
	public("POST /api/auth/login", authH.Login, rateLimit)

	private("GET /api/users/profile", userH.Profile)
	private("GET /api/users", userH.List, adminOnly)
	private("GET /api/users/{id}", userH.GetByID)
	private("DELETE /api/users/{id}", userH.Deactivate)

	private("POST /api/courses", courseH.Create)
	private("GET /api/courses", courseH.All)
	private("GET /api/courses/{id}", courseH.Get)
	private("PUT /api/courses/{id}", courseH.Update)
	private("DELETE /api/courses/{id}", courseH.Delete)
	private("POST /api/courses/{id}/join", courseH.Join)
	private("DELETE /api/courses/{id}/cancel", courseH.Cancel)
	private("GET /api/courses/my-courses", courseH.MyCourses)
	private("GET /api/courses/my-related-courses", courseH.MyRelated)
	private("GET /api/courses/live-courses", courseH.Live)
	private("GET /api/courses/month-courses", courseH.Month)
	private("GET /api/courses/date-range", courseH.Range)
	private("GET /api/courses/category/{category}", courseH.ByCategory)
	private("GET /api/courses/type/{type}", courseH.ByType)
	private("GET /api/courses/status/{status}", courseH.ByStatus)
	private("GET /api/courses/categories/top-5", courseH.TopCategories)
	private("GET /api/courses/overview-summary", courseH.Overview)

	private("GET /api/enrollments/me", enrollH.Mine)
	private("GET /api/enrollments/course/{id}", courseH.Enrollments)
	private("GET /api/enrollments/{id}", enrollH.Get)
	private("PATCH /api/enrollments/{id}/status", enrollH.UpdateStatus)

	var root http.Handler = mux
	if cfg.MetricsEnabled {
		root = middleware.NewHTTPMetrics(reg).Handler(root)
	}
	return chain(root,
		middleware.Tracing,
		middleware.Logging,
		middleware.Recovery,
		middleware.Secure(middleware.SecureOptions(cfg.IsDevelopment())),
	), nil
}
