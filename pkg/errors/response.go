package errors

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// ErrorBody is the uniform error response returned by every endpoint.
// Status carries the HTTP reason phrase, not the numeric code.
type ErrorBody struct {
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
}

// Render translates any error into the uniform error body. Structured
// errors map through their code; everything else becomes a 500 with a
// generic message so internals never leak to the caller.
func Render(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var e *Error
	if errors.As(err, &e) {
		status = e.HTTPStatusCode()
		message = e.Message
	} else {
		slog.Error("Unclassified error", "err", err, "path", r.URL.Path)
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorBody{
		Timestamp: time.Now(),
		Status:    http.StatusText(status),
		Message:   message,
	})
}
