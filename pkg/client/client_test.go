package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"developer-directory/internal/core/auth"
	"developer-directory/internal/core/database"
	"developer-directory/internal/feature/developer"
	"developer-directory/internal/feature/user"
	"developer-directory/internal/repo"
	"developer-directory/internal/service"
	"developer-directory/internal/transport/http/router"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, append(developer.Models(), &user.UserModel{})...))

	l := zap.NewNop()
	jwter := &auth.JWTer{Secret: []byte("test-secret")}
	srv := httptest.NewServer(router.NewAPIEngine(l, router.Deps{
		Auth:              service.NewAuthService(repo.NewUserRepo(db), jwter, l),
		Developers:        service.NewDeveloperService(repo.NewDeveloperRepo(db), l),
		CorsOrigin:        "*",
		ProtectDevelopers: true,
	}))
	t.Cleanup(func() {
		srv.Close()
		_ = database.Close(db)
	})
	return srv
}

func apiError(t *testing.T, err error) *APIError {
	t.Helper()
	var ae *APIError
	require.True(t, errors.As(err, &ae), "want *APIError, got %v", err)
	return ae
}

func TestClient_EndToEnd(t *testing.T) {
	srv := newServer(t)
	sess := NewMemorySession()
	c := New(srv.URL, sess, srv.Client())
	ctx := context.Background()

	res, err := c.Signup(ctx, "Al", "al@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, res.Token, sess.Token())

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "al@example.com", me.Email)

	d, err := c.CreateDeveloper(ctx, DeveloperPayload{Name: "Ada", Role: "Backend", TechStack: []string{"go", "rust"}, Experience: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "rust"}, d.TechStack)

	page, err := c.ListDevelopers(ctx, ListParams{Role: "Backend", Search: "go", Sort: "experience", Order: "desc", Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, d.ID, page.Data[0].ID)
	assert.Equal(t, 1, page.TotalPages)

	got, err := c.GetDeveloper(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)

	upd, err := c.UpdateDeveloper(ctx, d.ID, DeveloperPayload{Name: "Ada", Role: "Full-Stack", TechStack: []string{"go"}, Experience: 6})
	require.NoError(t, err)
	assert.Equal(t, "Full-Stack", upd.Role)

	require.NoError(t, c.DeleteDeveloper(ctx, d.ID))
	_, err = c.GetDeveloper(ctx, d.ID)
	ae := apiError(t, err)
	assert.Equal(t, http.StatusNotFound, ae.Status)
	assert.Equal(t, "Developer not found", ae.Message)

	require.NoError(t, c.Logout())
	assert.Empty(t, sess.Token())
}

func TestClient_ValidationMessage(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL, NewMemorySession(), srv.Client())
	ctx := context.Background()
	_, err := c.Signup(ctx, "Al", "al@example.com", "secret1")
	require.NoError(t, err)

	_, err = c.CreateDeveloper(ctx, DeveloperPayload{Name: "A", Role: "Backend", TechStack: []string{"go"}, Experience: 1})
	ae := apiError(t, err)
	assert.Equal(t, http.StatusBadRequest, ae.Status)
	assert.Equal(t, "Validation Error", ae.Message)
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	srv := newServer(t)
	sess := NewMemorySession()
	require.NoError(t, sess.Set("stale-token"))
	c := New(srv.URL, sess, srv.Client())

	_, err := c.ListDevelopers(context.Background(), ListParams{})
	ae := apiError(t, err)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
	assert.Empty(t, sess.Token())
}

func TestClient_FailedLoginKeepsSession(t *testing.T) {
	srv := newServer(t)
	sess := NewMemorySession()
	c := New(srv.URL, sess, srv.Client())
	ctx := context.Background()
	_, err := c.Signup(ctx, "Al", "al@example.com", "secret1")
	require.NoError(t, err)
	tok := sess.Token()

	_, err = c.Login(ctx, "al@example.com", "wrong-password")
	ae := apiError(t, err)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
	assert.Equal(t, "Invalid email or password", ae.Message)
	assert.Equal(t, tok, sess.Token())
}

func TestClient_EmptyErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, NewMemorySession(), srv.Client())
	err := c.DeleteDeveloper(context.Background(), "x")
	assert.Equal(t, "Failed to delete developer (502)", apiError(t, err).Message)
}

func TestFormatError(t *testing.T) {
	cases := []struct {
		name string
		body any
		want string
	}{
		{"no body", nil, "Oops (500)"},
		{"string", "plain text", "plain text"},
		{"message wins", map[string]any{"message": "m", "errors": []any{"a"}}, "m"},
		{"errors joined", map[string]any{"errors": []any{"a", "b"}}, "a, b"},
		{"empty errors", map[string]any{"errors": []any{}, "error": "e"}, "Oops (500)"},
		{"error field", map[string]any{"error": "e"}, "e"},
		{"whole body", map[string]any{"code": float64(7)}, `{"code":7}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatError(tc.body, "Oops", 500))
		})
	}
}

func TestFileSession_SharedAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	a := NewFileSession(path)
	b := NewFileSession(path)

	assert.Empty(t, a.Token())
	require.NoError(t, a.Set("tok-1"))
	assert.Equal(t, "tok-1", b.Token())

	require.NoError(t, b.Clear())
	assert.Empty(t, a.Token())
	require.NoError(t, a.Clear())
}

func TestClient_NonJSONSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL, NewMemorySession(), srv.Client())
	d, err := c.GetDeveloper(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, Developer{}, *d)

	page, err := c.ListDevelopers(context.Background(), ListParams{})
	require.NoError(t, err)
	require.NotNil(t, page)
}
