package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"developer-directory/internal/core/auth"
	"developer-directory/internal/domain"
	"developer-directory/internal/transport/http/ez"
)

func init() { gin.SetMode(gin.TestMode) }

type stubVerifier struct{ valid string }

func (s stubVerifier) Verify(tok string) (domain.Identity, error) {
	if tok != s.valid {
		return domain.Identity{}, errors.New("bad token")
	}
	return domain.Identity{ID: "u1", Email: "al@example.com"}, nil
}

func serve(r *gin.Engine, method, path string, hdr map[string]string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthJWT(t *testing.T) {
	r := gin.New()
	r.GET("/p", AuthJWT(stubVerifier{valid: "good"}), func(c *gin.Context) {
		id, ok := auth.IdentityFrom(c.Request.Context())
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"uid": c.GetString(ez.KeyUserID), "email": id.Email, "tok": c.GetString(ez.KeyToken)})
	})

	cases := []struct {
		name   string
		header string
		status int
		want   string
	}{
		{"absent", "", http.StatusUnauthorized, "No authentication token, access denied"},
		{"bearer without token", "Bearer ", http.StatusUnauthorized, "Token missing"},
		{"bad token", "Bearer nope", http.StatusUnauthorized, "Token is invalid or expired"},
		{"bearer", "Bearer good", http.StatusOK, `"uid":"u1"`},
		{"raw token", "good", http.StatusOK, `"tok":"good"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hdr := map[string]string{}
			if tc.header != "" {
				hdr["Authorization"] = tc.header
			}
			w := serve(r, http.MethodGet, "/p", hdr, "")
			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), tc.want)
		})
	}
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimitPerIP(1, 2), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, serve(r, http.MethodGet, "/x", nil, "").Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.POST("/x", MaxBodyBytes(8), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodPost, "/x", nil, "small").Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(r, http.MethodPost, "/x", nil, strings.Repeat("a", 64)).Code)
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/boom", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal Server Error"}`, w.Body.String())
	assert.Equal(t, 1, logs.Len())
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.GET("/slow", Timeout(10*time.Millisecond), func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	assert.Equal(t, http.StatusGatewayTimeout, serve(r, http.MethodGet, "/slow", nil, "").Code)
}

func TestRequestIDAndAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/x?password=hunter2&q=go", map[string]string{KeyRequestID: "rid-1"}, "")
	assert.Equal(t, "rid-1", w.Header().Get(KeyRequestID))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "rid-1", fields["rid"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	q, ok := fields["query"].(map[string][]string)
	require.True(t, ok)
	assert.Equal(t, []string{"****"}, q["password"])
	assert.Equal(t, []string{"go"}, q["q"])
}

func TestRequestID_RejectsGarbage(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/x", map[string]string{KeyRequestID: strings.Repeat("a", 100)}, "")
	rid := w.Header().Get(KeyRequestID)
	assert.Len(t, rid, 36)

	w = serve(r, http.MethodGet, "/x", nil, "")
	assert.NotEmpty(t, w.Header().Get(KeyRequestID))
}

func TestAccessLog_LevelsAndSkip(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := gin.New()
	r.Use(AccessLog(zap.New(core), "/health"))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	serve(r, http.MethodGet, "/health", nil, "")
	serve(r, http.MethodGet, "/missing", nil, "")
	serve(r, http.MethodGet, "/fail", nil, "")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
}

func TestConcurrencyLimit_Busy(t *testing.T) {
	hold := make(chan struct{})
	entered := make(chan struct{})
	r := gin.New()
	r.Use(ConcurrencyLimit(1, 20*time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		close(entered)
		<-hold
		c.Status(http.StatusOK)
	})
	r.GET("/fast", func(c *gin.Context) { c.Status(http.StatusOK) })

	done := make(chan int)
	go func() { done <- serve(r, http.MethodGet, "/slow", nil, "").Code }()
	<-entered

	w := serve(r, http.MethodGet, "/fast", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	close(hold)
	assert.Equal(t, http.StatusOK, <-done)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/fast", nil, "").Code)
}
