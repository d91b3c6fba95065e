package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"worker-finder/pkg/access"
	"worker-finder/pkg/config"
	"worker-finder/pkg/errutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret"

type storeMock struct {
	principals map[int64]*Principal
	err        error
}

func (s *storeMock) LoadPrincipal(ctx context.Context, userID int64) (*Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.principals[userID], nil
}

func sign(t *testing.T, userID int64, userType string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   userID,
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = testSecret

	enforcer, err := access.NewDefaultEnforcer()
	require.NoError(t, err)

	store := &storeMock{principals: map[int64]*Principal{
		1: {UserID: 1, UserType: access.RoleSeeker, IsActive: true},
		2: {UserID: 2, UserType: access.RoleWorker, IsActive: true},
		3: {UserID: 3, UserType: access.RoleWorker, IsActive: false},
	}}
	auth := NewAuthenticator(cfg, store, enforcer)

	r := gin.New()
	r.Use(Error(false))
	api := r.Group("/api", auth.Authenticate())
	ok := func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": p.UserID})
	}
	api.POST("/jobs", auth.Authorize(), ok)
	api.POST("/jobs/:jobId/apply", auth.Authorize(), ok)
	api.GET("/jobs/my/jobs", ok)
	return r
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func do(t *testing.T, r *gin.Engine, method, path, token string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body envelope
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body
}

func TestAuthenticate(t *testing.T) {
	r := newTestEngine(t)
	future := time.Now().Add(time.Hour)

	code, body := do(t, r, http.MethodGet, "/api/jobs/my/jobs", "")
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "Access denied. No token provided.", body.Message)

	code, body = do(t, r, http.MethodGet, "/api/jobs/my/jobs", "garbage")
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "Invalid token", body.Message)

	code, body = do(t, r, http.MethodGet, "/api/jobs/my/jobs", sign(t, 1, access.RoleSeeker, time.Now().Add(-time.Minute)))
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "Token expired. Please login again.", body.Message)

	code, body = do(t, r, http.MethodGet, "/api/jobs/my/jobs", sign(t, 99, access.RoleSeeker, future))
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "User not found", body.Message)

	code, body = do(t, r, http.MethodGet, "/api/jobs/my/jobs", sign(t, 3, access.RoleWorker, future))
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "Account is deactivated", body.Message)

	code, _ = do(t, r, http.MethodGet, "/api/jobs/my/jobs", sign(t, 1, access.RoleSeeker, future))
	require.Equal(t, http.StatusOK, code)
}

func TestAuthorize(t *testing.T) {
	r := newTestEngine(t)
	future := time.Now().Add(time.Hour)
	seeker := sign(t, 1, access.RoleSeeker, future)
	worker := sign(t, 2, access.RoleWorker, future)

	code, _ := do(t, r, http.MethodPost, "/api/jobs", seeker)
	require.Equal(t, http.StatusOK, code)

	code, body := do(t, r, http.MethodPost, "/api/jobs", worker)
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "Access denied. Seeker account required.", body.Message)

	code, _ = do(t, r, http.MethodPost, "/api/jobs/7/apply", worker)
	require.Equal(t, http.StatusOK, code)

	code, body = do(t, r, http.MethodPost, "/api/jobs/7/apply", seeker)
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "Access denied. Worker account required.", body.Message)
}

func TestErrorRendersInternalForPlainErrors(t *testing.T) {
	r := gin.New()
	r.Use(Error(true))
	r.GET("/boom", func(c *gin.Context) {
		c.Error(context.DeadlineExceeded)
	})
	r.GET("/missing", func(c *gin.Context) {
		c.Error(errutil.NotFound("Job not found", nil))
	})

	code, body := do(t, r, http.MethodGet, "/boom", "")
	require.Equal(t, http.StatusInternalServerError, code)
	require.Equal(t, "Internal server error", body.Message)
	require.False(t, body.Success)

	code, body = do(t, r, http.MethodGet, "/missing", "")
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "Job not found", body.Message)
}
