package middleware

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	apperrors "github.com/justas-b/ecommerce-dashboard/internal/errors"
	"github.com/justas-b/ecommerce-dashboard/internal/infrastructure"
)

const problemContentType = "application/problem+json"

// writeProblem answers r with an RFC 7807 body. Middleware write problems
// directly because they run outside the handlers' ErrorHandler.
func writeProblem(w http.ResponseWriter, r *http.Request, status int, problemType, title, detail string) {
	problem := apperrors.NewProblemDetails(status, problemType, title, detail, r.URL.Path).
		WithExtension("trace_id", traceID(r))

	body, err := json.Marshal(problem)
	if err != nil {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(status)
	w.Write(body)
}

// traceID prefers the request id and falls back to the logging trace id
func traceID(r *http.Request) string {
	if id := chimw.GetReqID(r.Context()); id != "" {
		return id
	}
	return infrastructure.GetTraceID(r.Context())
}
