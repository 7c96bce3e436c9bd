package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shikshya/shikshya-backend/internal/config"
	"github.com/shikshya/shikshya-backend/internal/database"
	"github.com/shikshya/shikshya-backend/internal/handler"
	"github.com/shikshya/shikshya-backend/internal/logger"
	"github.com/shikshya/shikshya-backend/internal/repository"
	"github.com/shikshya/shikshya-backend/internal/router"
	"github.com/shikshya/shikshya-backend/internal/service"
	"github.com/shikshya/shikshya-backend/internal/validator"
	"github.com/shikshya/shikshya-backend/internal/websocket"
	"github.com/shikshya/shikshya-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	validator.Setup()

	// Repositories
	studentRepo := repository.NewStudentRepository(pool)
	teacherRepo := repository.NewTeacherRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	batchRepo := repository.NewBatchRepository(pool)
	lectureRepo := repository.NewLectureRepository(pool)
	resourceRepo := repository.NewResourceRepository(pool)
	announcementRepo := repository.NewAnnouncementRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)

	// Services
	authSvc := service.NewAuthService(studentRepo, teacherRepo, adminRepo, rdb, cfg, log)
	studentSvc := service.NewStudentService(studentRepo, cfg, log)
	teacherSvc := service.NewTeacherService(teacherRepo, cfg, log)
	batchSvc := service.NewBatchService(batchRepo, studentRepo, log)
	lectureSvc := service.NewLectureService(lectureRepo, batchSvc, log)
	resourceSvc := service.NewResourceService(resourceRepo, batchSvc, cfg, log)
	announcementSvc := service.NewAnnouncementService(announcementRepo, batchSvc, rdb, log)
	notificationSvc := service.NewNotificationService(notificationRepo, log)
	quizSvc := service.NewQuizService(quizRepo, submissionRepo, batchSvc, rdb, log)
	attemptSvc := service.NewAttemptService(quizRepo, submissionRepo, batchSvc, rdb, cfg, log)

	// Handlers
	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authSvc, studentSvc, log),
		Batch:        handler.NewBatchHandler(batchSvc, log),
		Lecture:      handler.NewLectureHandler(lectureSvc, log),
		Resource:     handler.NewResourceHandler(resourceSvc, log),
		Announcement: handler.NewAnnouncementHandler(announcementSvc, notificationSvc, log),
		Quiz:         handler.NewQuizHandler(quizSvc, log),
		Attempt:      handler.NewAttemptHandler(attemptSvc, quizSvc, log),
		Backoffice:   handler.NewBackofficeHandler(studentSvc, teacherSvc, authSvc, log),
		Stream:       websocket.NewNotificationStream(rdb, cfg, log),
	}

	engine := router.Setup(cfg, log, authSvc, handlers)

	// Fan-out worker shares the process with the API server.
	fanout := worker.NewNotificationWorker(rdb, studentRepo, notificationRepo, log)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		fanout.Run(ctx)
	}()

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: engine,
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("worker did not drain before deadline")
	}

	log.Info().Msg("bye")
}
