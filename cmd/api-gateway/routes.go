package main

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edulearn-api/internal/middleware"
	"github.com/noah-isme/edulearn-api/internal/models"
)

func registerRoutes(r *gin.Engine, prefix string, app *application) {
	paymentAudit := middleware.Audit(app.users, models.AuditActionPaymentVerify, "payments", app.logger)

	r.POST("/create-order", app.payment.CreateOrder)
	r.POST("/verify-payment", paymentAudit, app.payment.VerifyPayment)

	api := r.Group(prefix)

	public := api.Group("/public")
	public.GET("/health", app.operational.Health)
	public.GET("/ready", app.operational.Ready)
	public.GET("/metrics", app.operational.Prometheus)

	api.POST("/create-order", app.payment.CreateOrder)
	api.POST("/verify-payment", paymentAudit, app.payment.VerifyPayment)

	users := api.Group("/users")
	users.POST("/login", app.auth.Login)
	users.POST("/register", app.auth.Register)
	users.GET("/verify-token", app.auth.VerifyToken)
	users.GET("", app.user.List)
	users.GET("/:id", app.user.Get)
	users.PUT("/:id", app.user.Update)
	users.PUT("/:id/status", app.user.UpdateStatus)
	users.DELETE("/:id", app.user.Delete)

	courses := api.Group("/courses")
	courses.GET("", app.course.List)
	courses.GET("/:id", app.course.Get)
	courses.GET("/instructor/:instructorId", app.course.ListByInstructor)
	courses.GET("/category/:categoryId", app.course.ListByCategory)
	courses.GET("/status/:status", app.course.ListByStatus)
	courses.POST("", app.course.Create)
	courses.PUT("/:id", app.course.Update)
	courses.PUT("/:id/status", app.course.UpdateStatus)
	courses.DELETE("/:id", app.course.Delete)

	categories := api.Group("/categories")
	categories.GET("", app.category.List)
	categories.GET("/active", app.category.ListActive)
	categories.GET("/:id", app.category.Get)
	categories.POST("", app.category.Create)
	categories.PUT("/:id", app.category.Update)
	categories.PUT("/:id/status", app.category.UpdateStatus)
	categories.DELETE("/:id", app.category.Delete)

	enrollments := api.Group("/enrollments")
	enrollments.GET("", app.enrollment.List)
	enrollments.GET("/:id", app.enrollment.Get)
	enrollments.GET("/user/:userId", app.enrollment.ListByUser)
	enrollments.GET("/course/:courseId", app.enrollment.ListByCourse)
	enrollments.POST("", app.enrollment.Create)
	enrollments.PUT("/:id", app.enrollment.Update)
	enrollments.PUT("/:id/status", app.enrollment.UpdateStatus)
	enrollments.DELETE("/:id", app.enrollment.Delete)

	videos := api.Group("/videos")
	videos.GET("", app.video.List)
	videos.GET("/:id", app.video.Get)
	videos.GET("/course/:courseId", app.video.ListByCourse)
	videos.GET("/instructor/:instructorId", app.video.ListByInstructor)
	videos.POST("", app.video.Create)
	videos.PUT("/:id", app.video.Update)
	videos.DELETE("/:id", app.video.Delete)

	reports := api.Group("/reports")
	reports.GET("/enrollments", app.report.Enrollments)
	reports.GET("/users", app.report.Users)
	reports.GET("/courses", app.report.Courses)
	reports.GET("/revenue", app.report.Revenue)
	reports.GET("/system", middleware.RequireRoles(models.RoleAdmin), app.report.System)

	storefront := api.Group("/user")
	storefront.GET("/courses", app.course.List)
	storefront.GET("/courses/:pid", app.course.StorefrontGet)
	storefront.GET("/:kind", app.catalog.List)
	storefront.GET("/:kind/:pid", app.catalog.Get)

	admin := api.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
	admin.POST("/upload/:kind", app.catalog.Upload)
	admin.POST("/register", app.user.Create)
}
