package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/shikshya/shikshya-backend/internal/config"
	"github.com/shikshya/shikshya-backend/internal/model"
	"github.com/shikshya/shikshya-backend/internal/repository"
)

// Role values embedded in JWT claims.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Claims is the JWT payload for all three account kinds.
type Claims struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// AuthService handles authentication for students, teachers and admins.
// Student logins are pinned to a single device: each login overwrites the
// session JTI in Redis, so tokens from earlier devices stop validating.
type AuthService struct {
	studentRepo *repository.StudentRepository
	teacherRepo *repository.TeacherRepository
	adminRepo   *repository.AdminRepository
	redis       *redis.Client
	cfg         *config.Config
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	studentRepo *repository.StudentRepository,
	teacherRepo *repository.TeacherRepository,
	adminRepo *repository.AdminRepository,
	redisClient *redis.Client,
	cfg *config.Config,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		studentRepo: studentRepo,
		teacherRepo: teacherRepo,
		adminRepo:   adminRepo,
		redis:       redisClient,
		cfg:         cfg,
		logger:      logger.With().Str("service", "auth").Logger(),
	}
}

// LoginStudent authenticates a student and pins the new session JTI,
// displacing any session on another device.
func (s *AuthService) LoginStudent(ctx context.Context, req *model.StudentLoginRequest) (*model.StudentLoginResponse, error) {
	student, err := s.studentRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup student: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, jti, err := s.generateToken(student.ID, RoleStudent, student.Name)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	sessionKey := config.CacheKey.StudentSessionKey(student.ID)
	if err := s.redis.Set(ctx, sessionKey, jti, s.cfg.JWTExpiry).Err(); err != nil {
		return nil, fmt.Errorf("pin session: %w", err)
	}

	s.logger.Info().Int("student_id", student.ID).Msg("student logged in")
	return &model.StudentLoginResponse{Token: token, Student: *student}, nil
}

// LoginTeacher authenticates a teacher. Teacher sessions are not
// device-pinned.
func (s *AuthService) LoginTeacher(ctx context.Context, req *model.TeacherLoginRequest) (*model.TeacherLoginResponse, error) {
	teacher, err := s.teacherRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup teacher: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(teacher.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, _, err := s.generateToken(teacher.ID, RoleTeacher, teacher.Name)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info().Int("teacher_id", teacher.ID).Msg("teacher logged in")
	return &model.TeacherLoginResponse{Token: token, Teacher: *teacher}, nil
}

// LoginAdmin authenticates a super admin.
func (s *AuthService) LoginAdmin(ctx context.Context, req *model.AdminLoginRequest) (*model.AdminLoginResponse, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup admin: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, _, err := s.generateToken(admin.ID, RoleAdmin, admin.Name)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info().Int("admin_id", admin.ID).Msg("admin logged in")
	return &model.AdminLoginResponse{Token: token, Admin: *admin}, nil
}

// LogoutStudent releases the student's pinned session.
func (s *AuthService) LogoutStudent(ctx context.Context, studentID int) error {
	return s.redis.Del(ctx, config.CacheKey.StudentSessionKey(studentID)).Err()
}

// ResetStudentSession force-releases a student's pinned session so they
// can log in again from a new device. Admin use only.
func (s *AuthService) ResetStudentSession(ctx context.Context, studentID int) error {
	if err := s.redis.Del(ctx, config.CacheKey.StudentSessionKey(studentID)).Err(); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	s.logger.Info().Int("student_id", studentID).Msg("student session reset")
	return nil
}

// ValidateToken parses and verifies a JWT, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// CheckStudentSession verifies that a student token's JTI is still the
// pinned one. A mismatch means a later login displaced this session.
func (s *AuthService) CheckStudentSession(ctx context.Context, claims *Claims) error {
	pinned, err := s.redis.Get(ctx, config.CacheKey.StudentSessionKey(claims.UserID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("read pinned session: %w", err)
	}
	if pinned != claims.ID {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *AuthService) generateToken(userID int, role, name string) (token, jti string, err error) {
	jti = uuid.NewString()
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	return token, jti, err
}
