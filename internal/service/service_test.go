package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"developer-directory/internal/core/auth"
	"developer-directory/internal/core/database"
	"developer-directory/internal/domain"
	"developer-directory/internal/feature/developer"
	"developer-directory/internal/feature/user"
	"developer-directory/internal/repo"
)

var errStore = errors.New("store down")

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, append(developer.Models(), &user.UserModel{})...))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newJWTer(now func() time.Time) *auth.JWTer {
	return &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: auth.DefaultTTL, Now: now}
}

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(repo.NewUserRepo(newTestDB(t)), newJWTer(nil), zap.NewNop())
}

func newDeveloperService(t *testing.T) *DeveloperService {
	t.Helper()
	return NewDeveloperService(repo.NewDeveloperRepo(newTestDB(t)), zap.NewNop())
}

// failingUsers 模拟存储故障
type failingUsers struct{}

func (failingUsers) Create(context.Context, *domain.User) error { return errStore }
func (failingUsers) FindByID(context.Context, string) (*domain.User, error) {
	return nil, errStore
}
func (failingUsers) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, errStore
}

type failingDevelopers struct{}

func (failingDevelopers) List(context.Context, domain.DeveloperFilter) ([]domain.Developer, int64, error) {
	return nil, 0, errStore
}
func (failingDevelopers) FindByID(context.Context, string) (*domain.Developer, error) {
	return nil, errStore
}
func (failingDevelopers) Create(context.Context, *domain.Developer) error { return errStore }
func (failingDevelopers) Update(context.Context, *domain.Developer) error { return errStore }
func (failingDevelopers) Delete(context.Context, string) error            { return errStore }
