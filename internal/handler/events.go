package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"folio/internal/events"
	"folio/internal/httputil"
)

// keepAliveInterval is how often to send keep-alive comments so proxies
// don't time out an idle stream.
const keepAliveInterval = 15 * time.Second

// EventsHandler streams lifecycle events over Server-Sent Events
type EventsHandler struct {
	bus    *events.Bus
	logger *slog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(bus *events.Bus, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		bus:    bus,
		logger: logger,
	}
}

// Stream handles GET /api/events
// Each event is written as an SSE message with the event kind in the
// event field and the JSON payload in the data field.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.RespondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	clientID, eventChan := h.bus.Subscribe()
	defer h.bus.Unsubscribe(clientID)

	h.logger.Debug("SSE stream established", "client_id", clientID)

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug("SSE client disconnected", "client_id", clientID)
			return

		case ev, ok := <-eventChan:
			if !ok {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				h.logger.Error("failed to encode event",
					"client_id", clientID,
					"error", err,
				)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
			flusher.Flush()

		case <-ticker.C:
			// SSE comment lines are ignored by clients
			fmt.Fprintf(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}
