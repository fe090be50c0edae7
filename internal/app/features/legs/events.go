// internal/app/features/legs/events.go
package legs

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/automaatje/automaatje/internal/app/features/errors"
	"github.com/automaatje/automaatje/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// KeepAlive is how often an idle event stream sends a comment line.
var KeepAlive = 25 * time.Second

// ServeEvents handles GET .../events, a server-sent event stream with one
// "leg" event per snapshot. The first event is the current leg. Edits from
// this process and from other instances (via the change stream) both arrive
// here. The stream ends when the client goes away or after the stream timeout.
func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	t, ok := h.resolve(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		apperrors.Write(w, r, h.Log, fmt.Errorf("streaming unsupported by %T", w))
		return
	}

	updates, stop := t.store.Watch()
	defer stop()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Stream(), h.Log, "leg events")
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ping := time.NewTicker(KeepAlive)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case leg, open := <-updates:
			if !open {
				return
			}
			data, err := json.Marshal(leg)
			if err != nil {
				h.Log.Error("encode leg event", zap.Error(err))
				return
			}
			if _, err := fmt.Fprintf(w, "event: leg\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		case <-ping.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
