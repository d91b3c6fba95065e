package category

import (
	"worker-finder/pkg/errutil"
	"worker-finder/pkg/httpapi"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/categories", h.List)
}

func (h *Handler) List(c *gin.Context) {
	categories, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		c.Error(errutil.Internal("Failed to fetch categories", err))
		return
	}

	httpapi.OK(c, "", categories)
}
