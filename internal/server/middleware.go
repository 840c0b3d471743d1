// internal/server/middleware.go

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/soyuz43/svninfo-go/internal/svn"
	"github.com/soyuz43/svninfo-go/internal/utils"
)

// maxRequestBytes caps a request body. Requests only carry a path and
// credentials.
const maxRequestBytes = 64 << 10

// requestError is a client mistake that never reached svn.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// JSONHandler creates a handler for JSON requests/responses with unified error handling
func JSONHandler[T any](logger *logrus.Entry, logic func(context.Context, T) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Method != http.MethodPost {
			writeError(w, logger, http.StatusMethodNotAllowed, errorResponse{Error: fmt.Sprintf("method %s not allowed", r.Method)})
			return
		}

		var req T
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, logger, http.StatusBadRequest, errorResponse{Error: "invalid request format"})
			return
		}

		response, err := logic(r.Context(), req)
		if err != nil {
			body := errorResponse{Error: err.Error()}
			if kind := svn.KindOf(err); kind != svn.KindUnknown {
				body.Kind = kind.String()
			}
			writeError(w, logger, statusFor(err), body)
			return
		}

		jsonResponse, err := utils.MarshalJSON(response)
		if err != nil {
			writeError(w, logger, http.StatusInternalServerError, errorResponse{Error: "failed to marshal response"})
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(jsonResponse))
	}
}

// statusFor maps an error to the HTTP status reported for it.
func statusFor(err error) int {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return http.StatusBadRequest
	}
	switch {
	case errors.Is(err, svn.ErrNotAWorkingCopy):
		return http.StatusBadRequest
	case errors.Is(err, svn.ErrFieldNotFound):
		return http.StatusNotFound
	case errors.Is(err, svn.ErrNumericParse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, svn.ErrToolNotFound):
		return http.StatusServiceUnavailable
	case errors.Is(err, svn.ErrToolExecutionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError handles error responses consistently
func writeError(w http.ResponseWriter, logger *logrus.Entry, code int, body errorResponse) {
	logger.WithFields(logrus.Fields{"status": code, "kind": body.Kind}).Warn(body.Error)
	w.WriteHeader(code)
	if jsonErr, err := utils.MarshalJSON(body); err == nil {
		_, _ = w.Write([]byte(jsonErr))
	}
}
