package model

import "time"

// Teacher represents a teaching-staff account. Teachers are created by a
// super admin, never self-registered.
type Teacher struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Subject      string    `json:"subject,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TeacherLoginRequest is the payload for teacher authentication.
type TeacherLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// TeacherLoginResponse is returned after successful teacher login.
type TeacherLoginResponse struct {
	Token   string  `json:"token"`
	Teacher Teacher `json:"teacher"`
}

// CreateTeacherRequest is the back-office payload for creating a teacher.
type CreateTeacherRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Subject  string `json:"subject" binding:"omitempty,max=100"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// UpdateTeacherRequest is the back-office payload for updating a teacher.
type UpdateTeacherRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Subject  string `json:"subject" binding:"omitempty,max=100"`
	Password string `json:"password" binding:"omitempty,min=6,max=128"`
}
