package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/shikshya/shikshya-backend/internal/config"
	"github.com/shikshya/shikshya-backend/internal/handler"
	"github.com/shikshya/shikshya-backend/internal/middleware"
	"github.com/shikshya/shikshya-backend/internal/response"
	"github.com/shikshya/shikshya-backend/internal/service"
	"github.com/shikshya/shikshya-backend/internal/websocket"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Batch        *handler.BatchHandler
	Lecture      *handler.LectureHandler
	Resource     *handler.ResourceHandler
	Announcement *handler.AnnouncementHandler
	Quiz         *handler.QuizHandler
	Attempt      *handler.AttemptHandler
	Backoffice   *handler.BackofficeHandler
	Stream       *websocket.NotificationStream
}

// Setup builds the gin engine with all middleware and routes mounted.
func Setup(cfg *config.Config, logger zerolog.Logger, authSvc *service.AuthService, h Handlers) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(response.RequestIDMiddleware())
	r.Use(middleware.RequestLogger(logger))
	r.Use(corsMiddleware(cfg))
	r.Use(middleware.Brotli())

	// Uploaded study materials are served statically with a cache header.
	uploads := r.Group("/uploads", middleware.CacheControl(24*time.Hour))
	uploads.Static("/", cfg.UploadDir)

	loginLimiter := middleware.NewRateLimiter(1, 5)

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/student/register", h.Auth.RegisterStudent)
	auth.POST("/student/login", loginLimiter.Middleware(), h.Auth.LoginStudent)
	auth.POST("/teacher/login", loginLimiter.Middleware(), h.Auth.LoginTeacher)
	auth.POST("/admin/login", loginLimiter.Middleware(), h.Auth.LoginAdmin)

	student := api.Group("/student",
		middleware.RequireStudentJWT(authSvc),
		middleware.CheckSingleDeviceSession(authSvc))
	{
		student.GET("/me", h.Auth.Me)
		student.POST("/logout", h.Auth.LogoutStudent)
		student.GET("/batches", h.Batch.ListMineStudent)
		student.GET("/batches/available", h.Batch.ListAvailable)
		student.POST("/batches/:batchId/enroll", h.Batch.SelfEnroll)
		student.GET("/batches/:batchId/lectures", h.Lecture.ListStudent)
		student.GET("/batches/:batchId/resources", h.Resource.ListStudent)
		student.GET("/batches/:batchId/announcements", h.Announcement.ListStudent)
		student.GET("/batches/:batchId/quizzes", h.Attempt.ListQuizzes)

		student.GET("/dpp/:quizId", h.Attempt.Resolve)
		student.PUT("/dpp/:quizId/answers", h.Attempt.Autosave)
		student.POST("/dpp/:quizId/submit", h.Attempt.Submit)
		student.GET("/dpp/:quizId/review", h.Attempt.Review)
		student.GET("/submissions", h.Attempt.History)

		student.GET("/notifications", h.Announcement.ListNotifications)
		student.GET("/notifications/unread", h.Announcement.UnreadCount)
		student.POST("/notifications/:notificationId/read", h.Announcement.MarkNotificationRead)
		student.POST("/notifications/read-all", h.Announcement.MarkAllNotificationsRead)

		student.GET("/ws/notifications", h.Stream.Handle)
	}

	teacher := api.Group("/teacher", middleware.RequireTeacherJWT(authSvc))
	{
		teacher.GET("/batches", h.Batch.ListMineTeacher)
		teacher.GET("/batches/:batchId/lectures", h.Lecture.ListTeacher)
		teacher.POST("/batches/:batchId/lectures", h.Lecture.Create)
		teacher.PUT("/lectures/:lectureId", h.Lecture.Update)
		teacher.DELETE("/lectures/:lectureId", h.Lecture.Delete)

		teacher.GET("/batches/:batchId/resources", h.Resource.ListTeacher)
		teacher.POST("/batches/:batchId/resources", h.Resource.Upload)
		teacher.DELETE("/resources/:resourceId", h.Resource.Delete)

		teacher.GET("/batches/:batchId/announcements", h.Announcement.ListTeacher)
		teacher.POST("/batches/:batchId/announcements", h.Announcement.Create)

		teacher.GET("/batches/:batchId/quizzes", h.Quiz.List)
		teacher.POST("/quizzes", h.Quiz.Create)
		teacher.GET("/quizzes/:quizId", h.Quiz.Get)
		teacher.DELETE("/quizzes/:quizId", h.Quiz.Delete)
		teacher.GET("/quizzes/:quizId/results", h.Quiz.Results)
	}

	admin := api.Group("/admin", middleware.RequireAdminJWT(authSvc))
	{
		admin.GET("/batches", h.Batch.List)
		admin.POST("/batches", h.Batch.Create)
		admin.GET("/batches/:batchId", h.Batch.Get)
		admin.PUT("/batches/:batchId", h.Batch.Update)
		admin.DELETE("/batches/:batchId", h.Batch.Delete)
		admin.GET("/batches/:batchId/students", h.Batch.Roster)
		admin.POST("/batches/:batchId/students/:studentId", h.Batch.Enroll)
		admin.DELETE("/batches/:batchId/students/:studentId", h.Batch.Unenroll)

		admin.GET("/students", h.Backoffice.ListStudents)
		admin.GET("/students/:studentId", h.Backoffice.GetStudent)
		admin.PUT("/students/:studentId", h.Backoffice.UpdateStudent)
		admin.DELETE("/students/:studentId", h.Backoffice.DeleteStudent)
		admin.DELETE("/students/:studentId/session", h.Backoffice.ResetStudentSession)

		admin.GET("/teachers", h.Backoffice.ListTeachers)
		admin.POST("/teachers", h.Backoffice.CreateTeacher)
		admin.GET("/teachers/:teacherId", h.Backoffice.GetTeacher)
		admin.PUT("/teachers/:teacherId", h.Backoffice.UpdateTeacher)
		admin.DELETE("/teachers/:teacherId", h.Backoffice.DeleteTeacher)
	}

	return r
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	return cors.New(corsCfg)
}
