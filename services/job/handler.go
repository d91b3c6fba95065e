package job

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"worker-finder/pkg/config"
	"worker-finder/pkg/db/pagination"
	"worker-finder/pkg/errutil"
	"worker-finder/pkg/geo"
	"worker-finder/pkg/httpapi"
	"worker-finder/pkg/middleware"
	"worker-finder/pkg/money"
	"worker-finder/pkg/validation"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc       *Service
	auth      *middleware.Authenticator
	minBudget float64
}

func NewHandler(svc *Service, auth *middleware.Authenticator, cfg *config.Config) *Handler {
	return &Handler{svc: svc, auth: auth, minBudget: cfg.Marketplace.MinBudget}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/jobs")
	g.GET("", h.List)
	g.GET("/:jobId", h.Get)

	authed := g.Group("", h.auth.Authenticate())
	authed.GET("/my/jobs", h.Mine)
	authed.PUT("/:jobId/status", h.UpdateStatus)
	authed.PUT("/:jobId/cancel", h.Cancel)

	role := authed.Group("", h.auth.Authorize())
	role.POST("", h.Create)
	role.GET("/:jobId/applications", h.Applications)
	role.PUT("/applications/:applicationId/accept", h.Accept)
	role.POST("/:jobId/apply", h.Apply)
}

type createJobRequest struct {
	Title         string        `json:"title" validate:"min=5,max=255" msg:"Title is required (5-255 characters)"`
	Description   string        `json:"description" validate:"min=10,max=2000" msg:"Description is required (10-2000 characters)"`
	Budget        *money.Amount `json:"budget"`
	Location      string        `json:"location" validate:"max=500" msg:"Location too long"`
	Latitude      *float64      `json:"latitude" validate:"omitempty,gte=-90,lte=90" msg:"Valid latitude required"`
	Longitude     *float64      `json:"longitude" validate:"omitempty,gte=-180,lte=180" msg:"Valid longitude required"`
	ScheduledDate *string       `json:"scheduled_date" validate:"omitempty,iso8601" msg:"Valid date required (ISO 8601 format)"`
	CategoryID    *int64        `json:"category_id" validate:"omitempty,gte=1" msg:"Valid category ID required"`
	WorkerID      *int64        `json:"worker_id" validate:"omitempty,gte=1" msg:"Valid worker ID required"`
}

type applyRequest struct {
	ProposalMessage string        `json:"proposal_message" validate:"min=20,max=1000" msg:"Proposal message is required (20-1000 characters)"`
	QuotedPrice     *money.Amount `json:"quoted_price"`
}

type statusRequest struct {
	Status          string `json:"status" validate:"oneof=assigned in_progress completed cancelled disputed" msg:"Invalid status"`
	CompletionNotes string `json:"completion_notes" validate:"max=1000" msg:"Completion notes too long"`
}

type statusResult struct {
	JobID  int64     `json:"job_id,string"`
	Status JobStatus `json:"status"`
}

type cancelRequest struct {
	CancellationReason string `json:"cancellation_reason" validate:"max=1000" msg:"Cancellation reason too long"`
}

type listQuery struct {
	pagination.Pagination
	Status     string   `form:"status"`
	CategoryID int64    `form:"category_id"`
	Latitude   *float64 `form:"latitude"`
	Longitude  *float64 `form:"longitude"`
	Radius     float64  `form:"radius"`
	MinBudget  string   `form:"min_budget"`
	MaxBudget  string   `form:"max_budget"`
}

type myJobsQuery struct {
	pagination.Pagination
	Status string `form:"status"`
}

// bindJSON decodes the body into req. An empty body decodes as {}.
func bindJSON(c *gin.Context, req any) error {
	err := c.ShouldBindJSON(req)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		msg := "Invalid value"
		if typeErr.Type == reflect.TypeOf(money.Amount(0)) {
			msg = "Must be a valid amount no greater than " + money.Max.String()
		}
		return validation.Failed(errutil.Detail{Field: typeErr.Field, Message: msg})
	}
	return errutil.BadRequest("Invalid request body", err)
}

func (h *Handler) checkAmount(field, label string, v *money.Amount, required bool) *errutil.Detail {
	if v == nil && !required {
		return nil
	}
	if v == nil || v.Float64() < h.minBudget {
		return &errutil.Detail{
			Field:   field,
			Message: fmt.Sprintf("%s must be at least %g", label, h.minBudget),
		}
	}
	if *v > money.Max {
		return &errutil.Detail{
			Field:   field,
			Message: fmt.Sprintf("%s must be at most %s", label, money.Max),
		}
	}
	return nil
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errutil.BadRequest(fmt.Sprintf("Invalid %s parameter", name), err)
	}
	return id, nil
}

func (h *Handler) Create(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	var req createJobRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Location = strings.TrimSpace(req.Location)

	details := validation.Struct(&req)
	if d := h.checkAmount("budget", "Budget", req.Budget, true); d != nil {
		details = append(details, *d)
	}
	if len(details) > 0 {
		c.Error(validation.Failed(details...))
		return
	}

	in := CreateInput{
		SeekerID:    principal.UserID,
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Budget:      *req.Budget,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		WorkerID:    req.WorkerID,
	}
	if req.ScheduledDate != nil {
		t, _ := validation.ParseTime(*req.ScheduledDate)
		in.ScheduledDate = &t
	}

	res, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		c.Error(err)
		return
	}

	msg := "Job posted successfully"
	if res.Status == JobStatusAssigned {
		msg = "Job created and assigned to worker"
	}
	httpapi.Created(c, msg, res)
}

func (h *Handler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.Error(errutil.BadRequest("Invalid query parameters", err))
		return
	}

	var details []errutil.Detail
	if q.Latitude != nil && !(geo.Point{Lat: *q.Latitude}).Valid() {
		details = append(details, errutil.Detail{Field: "latitude", Message: "Valid latitude required"})
	}
	if q.Longitude != nil && !(geo.Point{Lng: *q.Longitude}).Valid() {
		details = append(details, errutil.Detail{Field: "longitude", Message: "Valid longitude required"})
	}
	if !(q.Radius >= 0) || math.IsInf(q.Radius, 0) {
		details = append(details, errutil.Detail{Field: "radius", Message: "Radius must be a positive number of kilometres"})
	}
	if len(details) > 0 {
		c.Error(validation.Failed(details...))
		return
	}

	f := ListFilter{
		CategoryID: q.CategoryID,
		Latitude:   q.Latitude,
		Longitude:  q.Longitude,
		RadiusKm:   q.Radius,
		Pagination: q.Pagination,
	}

	if q.Status != "" {
		st, ok := ParseJobStatus(q.Status)
		if !ok {
			c.Error(errutil.BadRequest("Invalid status filter", nil))
			return
		}
		f.Status = st
	}

	for _, b := range []struct {
		raw string
		dst **money.Amount
	}{{q.MinBudget, &f.MinBudget}, {q.MaxBudget, &f.MaxBudget}} {
		if b.raw == "" {
			continue
		}
		v, err := money.Parse(b.raw)
		if err != nil {
			c.Error(errutil.BadRequest("Invalid budget filter", err))
			return
		}
		*b.dst = &v
	}

	res, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		c.Error(err)
		return
	}

	httpapi.OK(c, "", res)
}

func (h *Handler) Get(c *gin.Context) {
	raw := strings.TrimPrefix(c.Param("jobId"), ":")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.Error(errutil.BadRequest("Invalid jobId parameter. Use numeric id (e.g. /api/jobs/23)", err))
		return
	}

	job, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	httpapi.OK(c, "", job)
}

func (h *Handler) Apply(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	jobID, err := pathID(c, "jobId")
	if err != nil {
		c.Error(err)
		return
	}

	var req applyRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}
	req.ProposalMessage = strings.TrimSpace(req.ProposalMessage)

	details := validation.Struct(&req)
	if d := h.checkAmount("quoted_price", "Quoted price", req.QuotedPrice, false); d != nil {
		details = append(details, *d)
	}
	if len(details) > 0 {
		c.Error(validation.Failed(details...))
		return
	}

	res, err := h.svc.Apply(c.Request.Context(), ApplyInput{
		WorkerID:        principal.UserID,
		JobID:           jobID,
		ProposalMessage: req.ProposalMessage,
		QuotedPrice:     req.QuotedPrice,
	})
	if err != nil {
		c.Error(err)
		return
	}

	httpapi.Created(c, "Application submitted successfully", res)
}

func (h *Handler) Applications(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	jobID, err := pathID(c, "jobId")
	if err != nil {
		c.Error(err)
		return
	}

	apps, err := h.svc.Applications(c.Request.Context(), principal.UserID, jobID)
	if err != nil {
		c.Error(err)
		return
	}

	httpapi.OK(c, "", apps)
}

func (h *Handler) Accept(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	appID, err := pathID(c, "applicationId")
	if err != nil {
		c.Error(err)
		return
	}

	res, err := h.svc.Accept(c.Request.Context(), principal.UserID, appID)
	if err != nil {
		c.Error(err)
		return
	}

	httpapi.OK(c, "Worker assigned successfully", res)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	jobID, err := pathID(c, "jobId")
	if err != nil {
		c.Error(err)
		return
	}

	var req statusRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}
	req.CompletionNotes = strings.TrimSpace(req.CompletionNotes)

	if details := validation.Struct(&req); len(details) > 0 {
		c.Error(validation.Failed(details...))
		return
	}

	status, _ := ParseJobStatus(req.Status)
	if err := h.svc.UpdateStatus(c.Request.Context(), StatusInput{
		ActorID:         principal.UserID,
		JobID:           jobID,
		Status:          status,
		CompletionNotes: req.CompletionNotes,
	}); err != nil {
		c.Error(err)
		return
	}

	httpapi.OK(c, "Job status updated to "+req.Status, statusResult{JobID: jobID, Status: status})
}

func (h *Handler) Cancel(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	jobID, err := pathID(c, "jobId")
	if err != nil {
		c.Error(err)
		return
	}

	var req cancelRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}
	req.CancellationReason = strings.TrimSpace(req.CancellationReason)

	if details := validation.Struct(&req); len(details) > 0 {
		c.Error(validation.Failed(details...))
		return
	}

	if err := h.svc.Cancel(c.Request.Context(), principal.UserID, jobID, req.CancellationReason); err != nil {
		c.Error(err)
		return
	}

	httpapi.OK(c, "Job cancelled successfully", nil)
}

func (h *Handler) Mine(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	var q myJobsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.Error(errutil.BadRequest("Invalid query parameters", err))
		return
	}

	var status JobStatus
	if q.Status != "" {
		st, ok := ParseJobStatus(q.Status)
		if !ok {
			c.Error(errutil.BadRequest("Invalid status filter", nil))
			return
		}
		status = st
	}

	res, err := h.svc.Mine(c.Request.Context(), principal.UserID, principal.IsWorker(), status, q.Pagination)
	if err != nil {
		c.Error(err)
		return
	}

	httpapi.OK(c, "", res)
}
