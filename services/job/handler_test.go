package job

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"worker-finder/pkg/access"
	"worker-finder/pkg/middleware"
	"worker-finder/pkg/money"
	"worker-finder/services/profile"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const handlerSecret = "handler-secret"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
	Error string `json:"error"`
}

func newRouter(t *testing.T, f *fixture) *gin.Engine {
	t.Helper()

	cfg := testConfig()
	cfg.Auth.JWTSecret = handlerSecret

	enforcer, err := access.NewDefaultEnforcer()
	require.NoError(t, err)
	auth := middleware.NewAuthenticator(cfg, profile.NewService(profile.ServiceParams{DB: f.db}), enforcer)

	r := gin.New()
	r.Use(middleware.Error(true))
	NewHandler(f.svc, auth, cfg).RegisterRoutes(r.Group("/api"))
	return r
}

func token(t *testing.T, userID int64, userType profile.UserType) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		UserID:   userID,
		UserType: string(userType),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err := tok.SignedString([]byte(handlerSecret))
	require.NoError(t, err)
	return s
}

func call(t *testing.T, r http.Handler, method, path, bearer string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestCreateJobEndpoint(t *testing.T) {
	f := newFixture(t, nil)
	r := newRouter(t, f)
	seeker := token(t, seekerID, profile.UserTypeSeeker)

	code, env := call(t, r, http.MethodPost, "/api/jobs", seeker, gin.H{
		"title":          "  Fix kitchen sink  ",
		"description":    "Leaking pipe under the sink",
		"budget":         500,
		"latitude":       12.97,
		"longitude":      77.59,
		"scheduled_date": "2026-11-02T09:00:00Z",
		"category_id":    f.category,
	})
	require.Equal(t, http.StatusCreated, code)
	require.True(t, env.Success)
	require.Equal(t, "Job posted successfully", env.Message)

	var data struct {
		JobID             string `json:"job_id"`
		Status            string `json:"status"`
		CommissionDetails struct {
			Commission float64 `json:"commission"`
			NetAmount  float64 `json:"netAmount"`
		} `json:"commission_details"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, "open", data.Status)
	require.Equal(t, 90.0, data.CommissionDetails.Commission)
	require.Equal(t, 375.0, data.CommissionDetails.NetAmount)

	id, err := strconv.ParseInt(data.JobID, 10, 64)
	require.NoError(t, err)
	j := f.job(t, id)
	require.Equal(t, "Fix kitchen sink", j.Title)
	require.NotNil(t, j.ScheduledDate)

	code, env = call(t, r, http.MethodPost, "/api/jobs", seeker, gin.H{
		"title":       "Rewire bedroom",
		"description": "Two sockets and a ceiling light",
		"budget":      "1200",
		"worker_id":   workerID,
	})
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, "Job created and assigned to worker", env.Message)
}

func TestCreateJobValidation(t *testing.T) {
	f := newFixture(t, nil)
	r := newRouter(t, f)

	code, env := call(t, r, http.MethodPost, "/api/jobs", token(t, seekerID, profile.UserTypeSeeker), gin.H{
		"title":          "Fix",
		"description":    "Leaking pipe under the sink",
		"budget":         50,
		"latitude":       120,
		"scheduled_date": "next tuesday",
	})
	require.Equal(t, http.StatusBadRequest, code)
	require.False(t, env.Success)
	require.Equal(t, "Validation failed", env.Message)

	got := map[string]string{}
	for _, e := range env.Errors {
		got[e.Field] = e.Message
	}
	require.Equal(t, map[string]string{
		"title":          "Title is required (5-255 characters)",
		"latitude":       "Valid latitude required",
		"scheduled_date": "Valid date required (ISO 8601 format)",
		"budget":         "Budget must be at least 100",
	}, got)
}

func TestAmountsOutOfRangeAreRejected(t *testing.T) {
	f := newFixture(t, nil)
	r := newRouter(t, f)
	seeker := token(t, seekerID, profile.UserTypeSeeker)

	for _, budget := range []any{"184467440737095626", 100000000000000, "10000000000.00"} {
		code, env := call(t, r, http.MethodPost, "/api/jobs", seeker, gin.H{
			"title":       "Fix kitchen sink",
			"description": "Leaking pipe under the sink",
			"budget":      budget,
		})
		require.Equal(t, http.StatusBadRequest, code, "budget %v", budget)
		require.Equal(t, "Validation failed", env.Message)
		require.Len(t, env.Errors, 1)
		require.Equal(t, "budget", env.Errors[0].Field)
		require.Equal(t, "Must be a valid amount no greater than 9999999999.99", env.Errors[0].Message)
	}

	var count int64
	require.NoError(t, f.db.Model(&Job{}).Count(&count).Error)
	require.Zero(t, count)

	j := f.insert(t, Job{Status: JobStatusOpen, Budget: money.FromUnits(500)})
	code, env := call(t, r, http.MethodPost, "/api/jobs/"+strconv.FormatInt(j.ID, 10)+"/apply",
		token(t, workerID, profile.UserTypeWorker),
		gin.H{"proposal_message": "I can fix this today, twenty years of plumbing.", "quoted_price": 100000000000000})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "quoted_price", env.Errors[0].Field)

	code, _ = call(t, r, http.MethodPost, "/api/jobs", seeker, gin.H{
		"title":       "Fix kitchen sink",
		"description": "Leaking pipe under the sink",
		"budget":      "9999999999.99",
	})
	require.Equal(t, http.StatusCreated, code)
}

func TestCreateJobRequiresSeeker(t *testing.T) {
	f := newFixture(t, nil)
	r := newRouter(t, f)

	code, env := call(t, r, http.MethodPost, "/api/jobs", token(t, workerID, profile.UserTypeWorker), gin.H{})
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "Access denied. Seeker account required.", env.Message)

	code, env = call(t, r, http.MethodPost, "/api/jobs", "", gin.H{})
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "Access denied. No token provided.", env.Message)
}

func TestApplyAndAcceptEndpoints(t *testing.T) {
	f := newFixture(t, nil)
	r := newRouter(t, f)
	j := f.insert(t, Job{Status: JobStatusOpen, Budget: money.FromUnits(500)})
	path := "/api/jobs/" + strconv.FormatInt(j.ID, 10)
	worker := token(t, workerID, profile.UserTypeWorker)
	seeker := token(t, seekerID, profile.UserTypeSeeker)
	proposal := gin.H{"proposal_message": "I can fix this today, twenty years of plumbing.", "quoted_price": 450}

	code, env := call(t, r, http.MethodPost, path+"/apply", seeker, proposal)
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "Access denied. Worker account required.", env.Message)

	code, env = call(t, r, http.MethodPost, path+"/apply", worker, gin.H{"proposal_message": "too short"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "proposal_message", env.Errors[0].Field)

	code, env = call(t, r, http.MethodPost, path+"/apply", worker, proposal)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, "Application submitted successfully", env.Message)

	var applied struct {
		ApplicationID string `json:"application_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &applied))

	code, env = call(t, r, http.MethodPost, path+"/apply", worker, proposal)
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "You have already applied for this job", env.Message)

	code, env = call(t, r, http.MethodGet, path+"/applications", seeker, nil)
	require.Equal(t, http.StatusOK, code)
	var apps []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &apps))
	require.Len(t, apps, 1)
	require.Equal(t, "Ravi", apps[0]["worker_name"])

	code, env = call(t, r, http.MethodPut, "/api/jobs/applications/"+applied.ApplicationID+"/accept", seeker, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Worker assigned successfully", env.Message)
	require.JSONEq(t, `{"job_id":"`+strconv.FormatInt(j.ID, 10)+`","worker_id":"2"}`, string(env.Data))
	require.Equal(t, money.FromUnits(450), f.job(t, j.ID).Budget)
}

func TestStatusAndCancelEndpoints(t *testing.T) {
	f := newFixture(t, nil)
	r := newRouter(t, f)
	seeker := token(t, seekerID, profile.UserTypeSeeker)
	worker := token(t, workerID, profile.UserTypeWorker)

	open := f.insert(t, Job{Status: JobStatusOpen, Budget: money.FromUnits(500)})
	openPath := "/api/jobs/" + strconv.FormatInt(open.ID, 10)

	code, env := call(t, r, http.MethodPut, openPath+"/status", seeker, gin.H{"status": "done"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Invalid status", env.Errors[0].Message)

	code, env = call(t, r, http.MethodPut, openPath+"/status", seeker, gin.H{"status": "in_progress"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Cannot change status from open to in_progress", env.Message)

	assigned := f.insert(t, Job{Status: JobStatusAssigned, WorkerID: ptr(workerID), Budget: money.FromUnits(500)})
	assignedPath := "/api/jobs/" + strconv.FormatInt(assigned.ID, 10)

	code, env = call(t, r, http.MethodPut, assignedPath+"/status", worker, gin.H{"status": "in_progress"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Job status updated to in_progress", env.Message)
	require.JSONEq(t, `{"job_id":"`+strconv.FormatInt(assigned.ID, 10)+`","status":"in_progress"}`, string(env.Data))

	code, _ = call(t, r, http.MethodPut, assignedPath+"/status", token(t, otherWorkerID, profile.UserTypeWorker), gin.H{"status": "completed"})
	require.Equal(t, http.StatusNotFound, code)

	code, env = call(t, r, http.MethodPut, openPath+"/cancel", seeker, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Job cancelled successfully", env.Message)
	require.Equal(t, JobStatusCancelled, f.job(t, open.ID).Status)
}

func TestPublicReadEndpoints(t *testing.T) {
	f := newFixture(t, nil)
	r := newRouter(t, f)
	near, _, _, nowhere := seedBoard(t, f)

	code, env := call(t, r, http.MethodGet, "/api/jobs/:"+strconv.FormatInt(near.ID, 10), "", nil)
	require.Equal(t, http.StatusOK, code)
	var v map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &v))
	require.Equal(t, strconv.FormatInt(near.ID, 10), v["id"])
	require.Equal(t, "Plumber", v["category_name"])

	code, env = call(t, r, http.MethodGet, "/api/jobs/abc", "", nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Invalid jobId parameter. Use numeric id (e.g. /api/jobs/23)", env.Message)

	code, _ = call(t, r, http.MethodGet, "/api/jobs/23", "", nil)
	require.Equal(t, http.StatusNotFound, code)

	code, env = call(t, r, http.MethodGet, "/api/jobs?latitude=12.9716&longitude=77.5946&radius=10&limit=5", "", nil)
	require.Equal(t, http.StatusOK, code)
	var board struct {
		Jobs []struct {
			ID       string  `json:"id"`
			Distance float64 `json:"distance"`
		} `json:"jobs"`
		Pagination struct {
			Limit int `json:"limit"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &board))
	require.Len(t, board.Jobs, 2)
	require.Equal(t, strconv.FormatInt(near.ID, 10), board.Jobs[0].ID)
	require.Equal(t, 5, board.Pagination.Limit)

	code, _ = call(t, r, http.MethodGet, "/api/jobs?status=bogus", "", nil)
	require.Equal(t, http.StatusBadRequest, code)

	code, env = call(t, r, http.MethodGet, "/api/jobs?latitude=12.97&longitude=77.59&page=92233720368547760&limit=100", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &board))
	require.Empty(t, board.Jobs)

	code, env = call(t, r, http.MethodGet, "/api/jobs/my/jobs", token(t, workerID, profile.UserTypeWorker), nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &board))
	require.Len(t, board.Jobs, 1)
	require.Equal(t, strconv.FormatInt(nowhere.ID, 10), board.Jobs[0].ID)
}

func TestListRejectsBadCoordinates(t *testing.T) {
	f := newFixture(t, nil)
	r := newRouter(t, f)

	cases := map[string][]string{
		"/api/jobs?latitude=91&longitude=77.59":              {"latitude"},
		"/api/jobs?latitude=12.97&longitude=-180.5":          {"longitude"},
		"/api/jobs?latitude=12.97&longitude=77.59&radius=-5": {"radius"},
		"/api/jobs?latitude=NaN&longitude=200&radius=NaN":    {"latitude", "longitude", "radius"},
	}
	for path, fields := range cases {
		code, env := call(t, r, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusBadRequest, code, path)
		require.Equal(t, "Validation failed", env.Message, path)

		got := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			got = append(got, e.Field)
		}
		require.Equal(t, fields, got, path)
	}

	code, _ := call(t, r, http.MethodGet, "/api/jobs?latitude=-90&longitude=180&radius=0", "", nil)
	require.Equal(t, http.StatusOK, code)
}
