package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/payalife/lms-backend/internal/api/handlers"
	"github.com/payalife/lms-backend/internal/config"
	"github.com/payalife/lms-backend/internal/metrics"
	"github.com/payalife/lms-backend/internal/middleware"
	"github.com/payalife/lms-backend/internal/models"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Courses     *handlers.CourseHandler
	Payment     *handlers.PaymentHandler
	Progress    *handlers.ProgressHandler
	Certificate *handlers.CertificateHandler
	Me          *handlers.MeHandler
	Instructor  *handlers.InstructorHandler
	Admin       *handlers.AdminHandler
}

func NewRouter(cfg config.Config, h Handlers, authMW *middleware.AuthMiddleware) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.BaseURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	r.Route("/api/v1", func(r chi.Router) {
		// auth
		r.Post("/auth/send-otp", h.Auth.SendOTP)
		r.Post("/auth/verify-otp", h.Auth.VerifyOTP)
		r.With(authMW.Auth).Post("/auth/logout", h.Auth.Logout)

		// public catalog
		r.Get("/categories", h.Courses.Categories)
		r.Get("/courses", h.Courses.List)
		r.With(authMW.OptionalAuth).Get("/courses/{slug}", h.Courses.GetBySlug)

		// gateway return; the browser arrives here unauthenticated
		r.Get("/payment/callback", h.Payment.Callback)

		// public certificate verification (QR target)
		r.Get("/certificates/{id}/verify", h.Certificate.Verify)

		// signed-in users
		r.Group(func(r chi.Router) {
			r.Use(authMW.Auth)

			r.Get("/me", h.Me.Get)
			r.Patch("/me", h.Me.Update)
			r.Post("/me/avatar", h.Me.UploadAvatar)
			r.Get("/my/courses", h.Me.Courses)
			r.Get("/my/certificates", h.Me.Certificates)

			r.Post("/courses/{slug}/enroll", h.Courses.Enroll)
			r.Post("/progress", h.Progress.Update)

			r.Get("/certificates/{id}", h.Certificate.Get)
			r.Get("/certificates/{id}/download", h.Certificate.Download)

			r.Post("/instructor/request", h.Instructor.RequestUpgrade)
		})

		// instructors and admins
		r.Group(func(r chi.Router) {
			r.Use(authMW.Auth, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin))

			r.Get("/instructor/courses", h.Instructor.MyCourses)
			r.Post("/instructor/courses", h.Instructor.CreateCourse)
			r.Patch("/instructor/courses/{id}", h.Instructor.UpdateCourse)
			r.Post("/instructor/courses/{id}/lessons", h.Instructor.AddLesson)
			r.Get("/instructor/sales", h.Instructor.Sales)
		})

		// admins only
		r.Group(func(r chi.Router) {
			r.Use(authMW.Auth, middleware.RequireRole(models.RoleAdmin))

			r.Get("/admin/stats", h.Admin.Stats)
			r.Get("/admin/instructor-requests", h.Admin.InstructorRequests)
			r.Patch("/admin/instructor-requests/{id}", h.Admin.ReviewInstructorRequest)
			r.Patch("/admin/courses/{id}/publish", h.Admin.SetCoursePublished)
			r.Post("/admin/categories", h.Admin.CreateCategory)
			r.Patch("/admin/categories/{id}", h.Admin.RenameCategory)
			r.Delete("/admin/categories/{id}", h.Admin.DeleteCategory)
		})
	})

	return r
}
