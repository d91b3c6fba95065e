package notification

import (
	"strconv"

	"worker-finder/pkg/db/pagination"
	"worker-finder/pkg/errutil"
	"worker-finder/pkg/httpapi"
	"worker-finder/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc  *Service
	auth *middleware.Authenticator
}

func NewHandler(svc *Service, auth *middleware.Authenticator) *Handler {
	return &Handler{svc: svc, auth: auth}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/notifications", h.auth.Authenticate())
	g.GET("", h.List)
	g.PUT("/:notificationId/read", h.MarkRead)
}

type listQuery struct {
	pagination.Pagination
	Unread bool `form:"unread"`
}

func (h *Handler) List(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.Error(errutil.BadRequest("Invalid query parameters", err))
		return
	}

	res, err := h.svc.List(c.Request.Context(), principal.UserID, q.Unread, q.Pagination)
	if err != nil {
		c.Error(err)
		return
	}

	httpapi.OK(c, "", res)
}

func (h *Handler) MarkRead(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	id, err := strconv.ParseInt(c.Param("notificationId"), 10, 64)
	if err != nil || id <= 0 {
		c.Error(errutil.BadRequest("Invalid notificationId parameter", err))
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), principal.UserID, id); err != nil {
		c.Error(err)
		return
	}

	httpapi.OK(c, "Notification marked as read", nil)
}
