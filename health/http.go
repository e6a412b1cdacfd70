package health

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/jonwraymond/callwatch/callsite"
	"github.com/jonwraymond/callwatch/logged"
)

// Response is the JSON body of Handler.
type Response struct {
	Status    string                   `json:"status"`
	Timestamp string                   `json:"timestamp"`
	Checks    map[string]CheckResponse `json:"checks,omitempty"`
}

// CheckResponse is the JSON form of one Result.
type CheckResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Handler serves the combined status of checkers. Unhealthy answers 503.
func Handler(checkers ...Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, results := Evaluate(r.Context(), checkers...)

		resp := Response{
			Status:    status.String(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    make(map[string]CheckResponse, len(results)),
		}
		for name, res := range results {
			resp.Checks[name] = CheckResponse{
				Status:  res.Status.String(),
				Message: res.Message,
				Details: res.Details,
			}
		}

		code := http.StatusOK
		if status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, resp)
	}
}

// SignatureStats is the JSON form of one signature's statistics.
type SignatureStats struct {
	Signature           string  `json:"signature"`
	Successes           int64   `json:"successes"`
	Exceptions          int64   `json:"exceptions"`
	AverageMillis       float64 `json:"averageMillis"`
	LastSuccess         string  `json:"lastSuccess,omitempty"`
	LastSuccessMillis   int64   `json:"lastSuccessMillis"`
	LastException       string  `json:"lastException,omitempty"`
	LastExceptionMillis int64   `json:"lastExceptionMillis"`
}

// StatsHandler serves every signature's statistics, sorted by signature.
func StatsHandler(stats *logged.StatsRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		out := []SignatureStats{}
		stats.Range(func(sig callsite.Signature, s logged.StatsSnapshot) bool {
			out = append(out, SignatureStats{
				Signature:           sig.String(),
				Successes:           s.Successes,
				Exceptions:          s.Exceptions,
				AverageMillis:       s.AverageMillis,
				LastSuccess:         timestamp(s.LastSuccess),
				LastSuccessMillis:   s.LastSuccessLatency.Milliseconds(),
				LastException:       timestamp(s.LastException),
				LastExceptionMillis: s.LastExceptionLatency.Milliseconds(),
			})
			return true
		})
		sort.Slice(out, func(i, j int) bool { return out[i].Signature < out[j].Signature })
		writeJSON(w, http.StatusOK, out)
	}
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// RegisterHandlers mounts /health and /stats on mux.
func RegisterHandlers(mux *http.ServeMux, stats *logged.StatsRegistry, checkers ...Checker) {
	mux.Handle("/health", Handler(checkers...))
	mux.Handle("/stats", StatsHandler(stats))
}
