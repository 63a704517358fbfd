package response

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/campusdesk/students/infrastructure/service/logger"
	"github.com/campusdesk/students/pkg/apierror"
)

// Envelope is the body shape shared by every JSON endpoint
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Students   interface{} `json:"students,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
}

// WriteJSON writes v as the response body. Encoding errors are ignored since
// the status line has already been sent.
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func Success(w http.ResponseWriter, statusCode int, message string, students interface{}) {
	WriteJSON(w, statusCode, Envelope{
		Success:  true,
		Message:  message,
		Students: students,
	})
}

func Error(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, Envelope{
		Success: false,
		Message: message,
	})
}

// WriteError renders err through apierror.MapError. The cause is logged and
// never written to the client.
func WriteError(ctx context.Context, w http.ResponseWriter, log logger.Logger, err error) {
	apiErr := apierror.MapError(err)

	if log != nil {
		fields := map[string]interface{}{
			"code":   apiErr.Code,
			"status": apiErr.Status,
		}
		if apiErr.Status >= http.StatusInternalServerError {
			log.Error(ctx, apiErr.Message, apiErr.Cause, fields)
		} else if apiErr.Cause != nil {
			fields["cause"] = apiErr.Cause.Error()
			log.Debug(ctx, apiErr.Message, fields)
		}
	}

	Error(w, apiErr.Status, apiErr.Message)
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

func TooManyRequests(w http.ResponseWriter, message string) {
	Error(w, http.StatusTooManyRequests, message)
}

func InternalServerError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}
