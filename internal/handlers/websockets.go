package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"gencontrol/internal/models"
	"gencontrol/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms

	// Audits scanned per poll; flagged ones beyond this between two polls are skipped.
	wsScanLimit = 200
	// Flagged audits sent on connect.
	wsSnapshotSize = 20
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{CheckOrigin: h.checkOrigin}
}

// checkOrigin accepts non-browser clients and the configured CORS origins.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.allowedOrigins) == 0 {
		return true
	}
	for _, o := range h.allowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

// @Summary      Flagged audit stream
// @Description  WebSocket. Sends a "snapshot" of recent SUSPECT/ANOMALIE audits, then one "audit" message per new one.
// @Tags         audits
// @Param        interval      query  string  false  "Poll interval (Go duration, max 10s)"
// @Param        interval_ms   query  int     false  "Poll interval in ms (max 10000)"
// @Param        access_token  query  string  false  "Bearer token for clients that cannot set headers"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := h.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	cur, err := h.sendSnapshot(ctx, conn)
	if err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendNewFlagged(ctx, conn, cur); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	interval := defaultInterval

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return interval
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// recentFlagged returns the flagged audits among the latest wsScanLimit, newest first.
func (h *Handler) recentFlagged(ctx context.Context) ([]models.AuditRecord, error) {
	recs, err := h.services.ListAudits(ctx, service.AuditFilter{Limit: wsScanLimit})
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_list_audits_failed", "err", err)
		}
		return nil, err
	}
	out := make([]models.AuditRecord, 0, len(recs))
	for _, r := range recs {
		if r.Verdict != models.VerdictNormal {
			out = append(out, r)
		}
	}
	return out, nil
}

// flaggedCursor remembers which flagged audits of the scan window were
// already sent. Audits are stamped before they are committed, so a newer
// timestamp does not mean a later insert; identity is tracked instead.
type flaggedCursor struct {
	sent map[string]struct{}
}

func newFlaggedCursor(known []models.AuditRecord) *flaggedCursor {
	c := &flaggedCursor{sent: make(map[string]struct{}, len(known))}
	for _, a := range known {
		c.sent[a.AuditID] = struct{}{}
	}
	return c
}

// next returns the audits of window (newest first) not sent yet, oldest
// first, and forgets ids that left the window.
func (c *flaggedCursor) next(window []models.AuditRecord) []models.AuditRecord {
	var out []models.AuditRecord
	keep := make(map[string]struct{}, len(window))
	for i := len(window) - 1; i >= 0; i-- {
		a := window[i]
		if _, ok := c.sent[a.AuditID]; !ok {
			out = append(out, a)
		}
		keep[a.AuditID] = struct{}{}
	}
	c.sent = keep
	return out
}

// Helper: sendSnapshot writes the latest flagged audits. Every flagged audit
// of the current window counts as sent.
func (h *Handler) sendSnapshot(ctx context.Context, conn *websocket.Conn) (*flaggedCursor, error) {
	flagged, err := h.recentFlagged(ctx)
	if err != nil {
		return nil, err
	}
	cur := newFlaggedCursor(flagged)
	if len(flagged) > wsSnapshotSize {
		flagged = flagged[:wsSnapshotSize]
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return cur, conn.WriteJSON(wsEnvelope{Type: "snapshot", Data: flagged})
}

// Helper: sendNewFlagged writes flagged audits not sent yet, oldest first.
func (h *Handler) sendNewFlagged(ctx context.Context, conn *websocket.Conn, cur *flaggedCursor) error {
	flagged, err := h.recentFlagged(ctx)
	if err != nil {
		return err
	}
	for _, a := range cur.next(flagged) {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(wsEnvelope{Type: "audit", Data: a}); err != nil {
			return err
		}
	}
	return nil
}
