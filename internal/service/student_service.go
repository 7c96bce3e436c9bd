package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/shikshya/shikshya-backend/internal/config"
	"github.com/shikshya/shikshya-backend/internal/model"
	"github.com/shikshya/shikshya-backend/internal/repository"
)

// StudentService handles student registration and profile management.
type StudentService struct {
	studentRepo *repository.StudentRepository
	cfg         *config.Config
	logger      zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo *repository.StudentRepository, cfg *config.Config, logger zerolog.Logger) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		cfg:         cfg,
		logger:      logger.With().Str("service", "student").Logger(),
	}
}

// Register creates a new student account from a self-registration request.
func (s *StudentService) Register(ctx context.Context, req *model.RegisterStudentRequest) (*model.Student, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	student := &model.Student{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create student: %w", err)
	}

	s.logger.Info().Int("student_id", student.ID).Msg("student registered")
	return student, nil
}

// GetProfile retrieves a student by id.
func (s *StudentService) GetProfile(ctx context.Context, id int) (*model.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return student, nil
}

// Update modifies a student record. The password is re-hashed only when a
// new one is supplied.
func (s *StudentService) Update(ctx context.Context, id int, req *model.UpdateStudentRequest) (*model.Student, error) {
	student, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	student.Name = req.Name
	student.Email = req.Email
	student.Phone = req.Phone
	student.PasswordHash = ""
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		student.PasswordHash = string(hash)
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update student: %w", err)
	}
	return s.studentRepo.GetByID(ctx, id)
}

// Delete removes a student account.
func (s *StudentService) Delete(ctx context.Context, id int) error {
	if _, err := s.GetProfile(ctx, id); err != nil {
		return err
	}
	return s.studentRepo.Delete(ctx, id)
}

// List retrieves students with pagination and optional search.
func (s *StudentService) List(ctx context.Context, page, perPage int, search string) ([]model.Student, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.studentRepo.ListPaginated(ctx, perPage, (page-1)*perPage, search)
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
