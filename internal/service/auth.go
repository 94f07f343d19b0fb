package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"developer-directory/internal/apperr"
	"developer-directory/internal/core/auth"
	"developer-directory/internal/core/metrics"
	"developer-directory/internal/domain"
	"developer-directory/pkg/utils"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	msgInvalidToken       = "Token is invalid or expired"
)

// dummyHash 未知邮箱也做一次 bcrypt 比较，两条失败路径耗时相近
var dummyHash, _ = utils.HashPassword("developer-directory/dummy-password")

type AuthService struct {
	users domain.UserRepository
	jwt   *auth.JWTer
	log   *zap.Logger
}

func NewAuthService(users domain.UserRepository, jwt *auth.JWTer, l *zap.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwt, log: l}
}

func (s *AuthService) Signup(ctx context.Context, in domain.SignupInput) (*domain.AuthResult, error) {
	if errs := domain.ValidateSignup(&in); len(errs) > 0 {
		metrics.AuthAttempts.WithLabelValues("signup", "invalid").Inc()
		return nil, apperr.Validation(errs...)
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, s.internal("signup", "db error", err)
	}
	if existing != nil {
		metrics.AuthAttempts.WithLabelValues("signup", "conflict").Inc()
		return nil, apperr.Conflict("User with this email already exists")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, s.internal("signup", "hash password failed", err)
	}
	u := &domain.User{ID: utils.NewID(), Name: in.Name, Email: in.Email, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		// 并发注册：唯一索引兜底
		if errors.Is(err, domain.ErrDuplicate) {
			metrics.AuthAttempts.WithLabelValues("signup", "conflict").Inc()
			return nil, apperr.Conflict("User with this email already exists")
		}
		return nil, s.internal("signup", "create user failed", err)
	}

	res, err := s.issue(u)
	if err != nil {
		return nil, s.internal("signup", "issue token failed", err)
	}
	metrics.AuthAttempts.WithLabelValues("signup", "ok").Inc()
	s.log.Info("user registered", zap.String("user_id", u.ID))
	return res, nil
}

func (s *AuthService) Login(ctx context.Context, in domain.LoginInput) (*domain.AuthResult, error) {
	if errs := domain.ValidateLogin(&in); len(errs) > 0 {
		metrics.AuthAttempts.WithLabelValues("login", "invalid").Inc()
		return nil, apperr.Validation(errs...)
	}

	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, s.internal("login", "db error", err)
	}
	hash := dummyHash
	if u != nil {
		hash = u.PasswordHash
	}
	// 未知邮箱与密码错误返回同一提示，避免枚举账号
	if !utils.CheckPassword(in.Password, hash) || u == nil {
		metrics.AuthAttempts.WithLabelValues("login", "invalid").Inc()
		return nil, apperr.Auth(msgInvalidCredentials)
	}

	res, err := s.issue(u)
	if err != nil {
		return nil, s.internal("login", "issue token failed", err)
	}
	metrics.AuthAttempts.WithLabelValues("login", "ok").Inc()
	return res, nil
}

// Verify 满足 middleware.TokenVerifier
func (s *AuthService) Verify(token string) (domain.Identity, error) {
	c, err := s.jwt.Parse(token)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("verify", "invalid").Inc()
		return domain.Identity{}, apperr.Auth(msgInvalidToken)
	}
	return c.Identity(), nil
}

func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	id, err := s.Verify(token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, id.ID)
	if err != nil {
		return nil, s.internal("me", "db error", err)
	}
	if u == nil {
		return nil, apperr.NotFound("User not found")
	}
	return u, nil
}

func (s *AuthService) issue(u *domain.User) (*domain.AuthResult, error) {
	tok, err := s.jwt.Issue(domain.Identity{ID: u.ID, Email: u.Email})
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{Token: tok, User: *u}, nil
}

func (s *AuthService) internal(op, msg string, err error) error {
	metrics.AuthAttempts.WithLabelValues(op, "error").Inc()
	s.log.Error(msg, zap.String("op", op), zap.Error(err))
	return apperr.Internal(msg, err)
}
