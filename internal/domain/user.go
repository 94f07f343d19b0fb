package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"developer-directory/pkg/utils"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity 令牌中携带的身份
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type SignupInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error // 邮箱冲突返回 ErrDuplicate
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}

var userMessages = map[string]string{
	"Name.required":     "Name is required",
	"Name.min":          "Name must be at least 2 characters",
	"Email.required":    "Email is required",
	"Name.max":          "Name cannot exceed 255 characters",
	"Email.email":       "Email must be a valid email address",
	"Email.max":         "Email cannot exceed 255 characters",
	"Password.required": "Password is required",
	"Password.min":      "Password must be at least 6 characters",
}

// ValidateSignup 就地 trim name/email，返回全部违规项
func ValidateSignup(in *SignupInput) []string {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	errs := structViolations(in, userMessages)
	if len(in.Password) > utils.MaxPasswordBytes {
		errs = append(errs, "Password cannot exceed 72 bytes")
	}
	return errs
}

func ValidateLogin(in *LoginInput) []string {
	in.Email = strings.TrimSpace(in.Email)
	return structViolations(in, userMessages)
}

func structViolations(v any, messages map[string]string) []string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if msg, ok := messages[fe.StructField()+"."+fe.Tag()]; ok {
			out = append(out, msg)
			continue
		}
		out = append(out, fe.Error())
	}
	return out
}
