package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"choropleth/core-go/internal/hover"
	"choropleth/core-go/internal/tooltip"
	"choropleth/core-go/internal/widget"
)

const (
	eventsWriteTimeout = 5 * time.Second
	eventsPongWait     = 60 * time.Second
	eventsPingInterval = 25 * time.Second
)

type eventMessage struct {
	Type      string         `json:"type"`
	Highlight *hover.State   `json:"highlight,omitempty"`
	Tooltip   *tooltip.View  `json:"tooltip,omitempty"`
	Change    *widget.Change `json:"change,omitempty"`
}

// handleEvents streams highlight changes. The first message is a snapshot of
// the current state; each later message is one change. A client that falls
// behind only receives the most recent pending change.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	if !h.ensureWidget(w) {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("events upgrade failed")
		return
	}
	defer conn.Close()

	h.metrics.AddEventSubscribers(1)
	defer h.metrics.AddEventSubscribers(-1)

	pending := make(chan widget.Change, 1)
	cancel := h.widget.Subscribe(func(ch widget.Change) {
		offerLatest(pending, ch)
	})
	defer cancel()

	state := h.widget.Highlight()
	view := h.widget.Tooltip()
	if err := writeEvent(conn, eventMessage{Type: "snapshot", Highlight: &state, Tooltip: &view}); err != nil {
		h.log.Debug().Err(err).Msg("events snapshot write failed")
		return
	}

	// The reader only services control frames and notices the close.
	done := make(chan struct{})
	_ = conn.SetReadDeadline(time.Now().Add(eventsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(eventsPongWait))
	})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(eventsPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case ch := <-pending:
			if err := writeEvent(conn, eventMessage{Type: "change", Change: &ch}); err != nil {
				h.log.Debug().Err(err).Msg("events write failed")
				return
			}
		case <-ping.C:
			deadline := time.Now().Add(eventsWriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

func writeEvent(conn *websocket.Conn, msg eventMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteTimeout))
	return conn.WriteJSON(msg)
}

// offerLatest replaces whatever is queued with ch. Senders are serialised by
// the map lock, so the drain-then-send cannot race another sender.
func offerLatest(q chan widget.Change, ch widget.Change) {
	select {
	case q <- ch:
		return
	default:
	}
	select {
	case <-q:
	default:
	}
	select {
	case q <- ch:
	default:
	}
}
