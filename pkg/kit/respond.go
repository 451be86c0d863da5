package kit

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const genericServerMessage = "Something went wrong on the server."

type ErrorResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// HandlerFunc is an http.HandlerFunc that reports failures by returning them.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn so that every returned error goes through WriteError.
func Handle(log *zap.Logger, fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			WriteError(w, r, log, err)
		}
	}
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteText(w http.ResponseWriter, status int, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(s))
}

// WriteError maps err to a status and the error envelope. Unclassified
// errors become a generic 500; their text only goes to the log.
func WriteError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	resp := ErrorResponse{Message: genericServerMessage}
	status := http.StatusInternalServerError

	if e, ok := AsError(err); ok {
		status = e.Status
		resp.Message = e.Message
		if len(e.Details) > 0 {
			resp.Errors = e.Details
		}
	}

	if status >= http.StatusInternalServerError && log != nil {
		log.Error("request failed",
			zap.Error(err),
			zap.Int("status", status),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", chimw.GetReqID(r.Context())),
		)
	}

	WriteJSON(w, status, resp)
}
