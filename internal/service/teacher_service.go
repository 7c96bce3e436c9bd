package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/shikshya/shikshya-backend/internal/config"
	"github.com/shikshya/shikshya-backend/internal/model"
	"github.com/shikshya/shikshya-backend/internal/repository"
)

// TeacherService handles back-office management of teacher accounts.
type TeacherService struct {
	teacherRepo *repository.TeacherRepository
	cfg         *config.Config
	logger      zerolog.Logger
}

// NewTeacherService creates a new TeacherService.
func NewTeacherService(teacherRepo *repository.TeacherRepository, cfg *config.Config, logger zerolog.Logger) *TeacherService {
	return &TeacherService{
		teacherRepo: teacherRepo,
		cfg:         cfg,
		logger:      logger.With().Str("service", "teacher").Logger(),
	}
}

// Create adds a new teacher account.
func (s *TeacherService) Create(ctx context.Context, req *model.CreateTeacherRequest) (*model.Teacher, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	teacher := &model.Teacher{
		Name:         req.Name,
		Email:        req.Email,
		Subject:      req.Subject,
		PasswordHash: string(hash),
	}
	if err := s.teacherRepo.Create(ctx, teacher); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create teacher: %w", err)
	}

	s.logger.Info().Int("teacher_id", teacher.ID).Msg("teacher created")
	return teacher, nil
}

// Get retrieves a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id int) (*model.Teacher, error) {
	teacher, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return teacher, nil
}

// Update modifies a teacher record.
func (s *TeacherService) Update(ctx context.Context, id int, req *model.UpdateTeacherRequest) (*model.Teacher, error) {
	teacher, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	teacher.Name = req.Name
	teacher.Email = req.Email
	teacher.Subject = req.Subject
	teacher.PasswordHash = ""
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		teacher.PasswordHash = string(hash)
	}

	if err := s.teacherRepo.Update(ctx, teacher); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update teacher: %w", err)
	}
	return s.teacherRepo.GetByID(ctx, id)
}

// Delete removes a teacher account.
func (s *TeacherService) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.teacherRepo.Delete(ctx, id)
}

// List retrieves all teachers.
func (s *TeacherService) List(ctx context.Context) ([]model.Teacher, error) {
	return s.teacherRepo.List(ctx)
}
