package ginserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter assembles the control-plane routes. A nil metrics handler falls
// back to the default Prometheus registry.
func NewRouter(h *Handler, _ *zap.Logger, metrics http.Handler, middlewares ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.RedirectTrailingSlash = false
	r.RemoveExtraSlash = true

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.String(http.StatusMethodNotAllowed, "method not allowed")
	})

	r.GET("/ping", h.Ping)
	r.GET("/", h.Index)

	r.GET("/status", h.Status)
	r.GET("/status/stream", h.StatusStream)
	r.GET("/summary", h.Summary)
	r.GET("/deliveries", h.Deliveries)

	r.POST("/collection/start", h.StartCollection)
	r.POST("/collection/stop", h.StopCollection)
	r.POST("/collection/reset", h.ResetStatistics)

	r.GET("/budget", h.Budget)
	r.POST("/budget/begin", h.BudgetBegin)
	r.POST("/budget/end", h.BudgetEnd)

	r.POST("/lifecycle/background", h.Background)
	r.POST("/lifecycle/foreground", h.Foreground)

	if metrics == nil {
		metrics = promhttp.Handler()
	}
	r.GET("/metrics", gin.WrapH(metrics))

	return r
}
