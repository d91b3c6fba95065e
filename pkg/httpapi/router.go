package httpapi

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// Router is implemented by every service handler that exposes routes
// under /api.
type Router interface {
	RegisterRoutes(r *gin.RouterGroup)
}

// AsRouter annotates a handler constructor into the "routers" group.
func AsRouter(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(Router)),
		fx.ResultTags(`group:"routers"`),
	)
}
