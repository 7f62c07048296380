package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/signalsfoundry/collision-sentinel/catalog"
	"github.com/signalsfoundry/collision-sentinel/core"
	"github.com/signalsfoundry/collision-sentinel/internal/logging"
)

// statusFor maps engine errors onto HTTP status codes. Unknown errors are
// internal failures; the taxonomy errors carry caller mistakes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidWindow):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrMisalignedTrajectories),
		errors.Is(err, core.ErrEmptyTrajectory):
		// Both indicate an internal sampling bug, not caller input.
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, log logging.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn(ctx, "encode response", logging.Err(err))
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, log logging.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error(ctx, "request failed", logging.Err(err))
	} else {
		log.Info(ctx, "request rejected", logging.Int("status", status), logging.Err(err))
	}
	writeJSON(ctx, w, log, status, map[string]string{"error": err.Error()})
}
