package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"budgetkoll/internal/core"
)

// clientIP extracts the caller's address, preferring proxy headers.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// parseToday reads the optional today query parameter (YYYY-MM-DD) that
// anchors the remaining-budget window. Defaults to the wall clock.
func parseToday(r *http.Request) (time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get("today"))
	if v == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", v)
}

func monthKey(r *http.Request) (core.MonthKey, error) {
	mk := core.MonthKey(r.PathValue("month"))
	return mk, mk.Validate()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps domain errors to status codes. Unknown errors are
// logged as 500s without leaking internals to the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrInvalidMonthKey),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrDailyTransferIncomplete),
		errors.Is(err, core.ErrGoalRange),
		errors.Is(err, core.ErrEmptyName):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrUnknownAccount):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrNotLockable),
		errors.Is(err, core.ErrMonthGap):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		writeJSON(w, status, errorBody{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
