package ginserver

import (
	"context"
	"html"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Root48/DataCollectionModule/internal/domain"
	"github.com/Root48/DataCollectionModule/internal/ports"
	"github.com/Root48/DataCollectionModule/internal/services/budget"
	"github.com/Root48/DataCollectionModule/internal/services/collection"
)

// Handler exposes HTTP endpoints for controlling and inspecting collection.
type Handler struct {
	orch    *collection.Orchestrator
	tracker *budget.Tracker
	journal ports.DeliveryJournal

	// run bounds started collection, which must outlive any single request.
	run context.Context
}

// NewHandler wires the collection services into a gin-compatible HTTP handler.
func NewHandler(run context.Context, orch *collection.Orchestrator, tracker *budget.Tracker, journal ports.DeliveryJournal) *Handler {
	if run == nil {
		run = context.Background()
	}
	return &Handler{run: run, orch: orch, tracker: tracker, journal: journal}
}

// Status handles `GET /status` with the currently published pipeline status.
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.Status())
}

// StatusStream handles `GET /status/stream`, pushing every status update to
// the client as a server-sent event. The current status arrives first.
func (h *Handler) StatusStream(c *gin.Context) {
	updates := make(chan domain.CollectionStatus, 16)
	detach := h.orch.ObserveStatus(c.Request.Context(), collection.StatusObserverFunc(
		func(_ context.Context, st domain.CollectionStatus) error {
			select {
			case updates <- st:
			default:
			}
			return nil
		}))
	defer detach()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(io.Writer) bool {
		select {
		case st := <-updates:
			c.SSEvent("status", st)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// Summary handles `GET /summary` with the aggregated delivery statistics.
func (h *Handler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.Summary())
}

// StartCollection handles `POST /collection/start`.
func (h *Handler) StartCollection(c *gin.Context) {
	h.orch.Start(h.run)
	c.JSON(http.StatusOK, h.orch.Status())
}

// StopCollection handles `POST /collection/stop`.
func (h *Handler) StopCollection(c *gin.Context) {
	h.orch.Stop(c.Request.Context())
	c.JSON(http.StatusOK, h.orch.Status())
}

// ResetStatistics handles `POST /collection/reset`, zeroing the counters.
func (h *Handler) ResetStatistics(c *gin.Context) {
	h.orch.Reset()
	c.JSON(http.StatusOK, h.orch.Summary())
}

// Deliveries handles `GET /deliveries?limit=N`, newest outcome first.
func (h *Handler) Deliveries(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.String(http.StatusBadRequest, "bad request")
			return
		}
		limit = n
	}
	recs, err := h.journal.Recent(c.Request.Context(), limit)
	if err != nil {
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	if recs == nil {
		recs = []domain.DeliveryRecord{}
	}
	c.JSON(http.StatusOK, recs)
}

// Budget handles `GET /budget` with the execution grant state.
func (h *Handler) Budget(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.Snapshot())
}

// BudgetBegin handles `POST /budget/begin`.
func (h *Handler) BudgetBegin(c *gin.Context) {
	h.tracker.Begin()
	c.JSON(http.StatusOK, h.tracker.Snapshot())
}

// BudgetEnd handles `POST /budget/end`.
func (h *Handler) BudgetEnd(c *gin.Context) {
	h.tracker.End()
	c.JSON(http.StatusOK, h.tracker.Snapshot())
}

// Background handles `POST /lifecycle/background`.
func (h *Handler) Background(c *gin.Context) {
	h.tracker.OnBackground()
	c.JSON(http.StatusOK, h.tracker.Snapshot())
}

// Foreground handles `POST /lifecycle/foreground`.
func (h *Handler) Foreground(c *gin.Context) {
	h.tracker.OnForeground()
	c.JSON(http.StatusOK, h.tracker.Snapshot())
}

// Ping proxies `GET /ping` to the journal health check.
func (h *Handler) Ping(c *gin.Context) {
	if err := h.journal.Ping(c.Request.Context()); err != nil {
		c.String(http.StatusInternalServerError, "journal ping error: %v", err)
		return
	}
	c.String(http.StatusOK, "ok")
}

// Index renders a basic HTML dashboard with status, counters, and the latest
// delivery outcomes.
func (h *Handler) Index(c *gin.Context) {
	st := h.orch.Status()
	sum := h.orch.Summary()
	recs, _ := h.journal.Recent(c.Request.Context(), 10)

	var sb strings.Builder
	sb.WriteString("<!doctype html><html><head><meta charset='utf-8'><title>power collector</title>")
	sb.WriteString("<style>body{font-family:system-ui,Arial,sans-serif}table{border-collapse:collapse}td,th{border:1px solid #ddd;padding:6px 10px}</style>")
	sb.WriteString("</head><body>")
	sb.WriteString("<h1>Power Collector</h1>")

	sb.WriteString("<h2>Status</h2><p>")
	sb.WriteString(string(st.Phase))
	if st.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(html.EscapeString(st.Message))
	}
	sb.WriteString("</p>")

	sb.WriteString("<h2>Summary</h2><table><tr><th>Delivered</th><th>Failed</th><th>Success rate</th></tr>")
	sb.WriteString("<tr><td>")
	sb.WriteString(strconv.FormatInt(sum.TotalDelivered, 10))
	sb.WriteString("</td><td>")
	sb.WriteString(strconv.FormatInt(sum.TotalFailed, 10))
	sb.WriteString("</td><td>")
	sb.WriteString(strconv.FormatFloat(sum.SuccessRate, 'f', 1, 64))
	sb.WriteString("%</td></tr></table>")

	sb.WriteString("<h2>Recent deliveries</h2><table><tr><th>Recorded</th><th>Level</th><th>State</th><th>Outcome</th></tr>")
	for _, r := range recs {
		sb.WriteString("<tr><td>")
		sb.WriteString(r.RecordedAt.Format(time.RFC3339))
		sb.WriteString("</td><td>")
		sb.WriteString(strconv.FormatFloat(r.Level, 'f', 2, 64))
		sb.WriteString("</td><td>")
		sb.WriteString(string(r.PowerState))
		sb.WriteString("</td><td>")
		if r.Delivered {
			sb.WriteString("delivered")
		} else {
			sb.WriteString(html.EscapeString(r.Detail))
		}
		sb.WriteString("</td></tr>")
	}
	sb.WriteString("</table>")

	sb.WriteString("</body></html>")

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(sb.String()))
}
