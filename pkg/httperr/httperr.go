package httperr

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmehra2102/storefront/pkg/apperr"
)

const (
	CodeInternal   = "INTERNAL_ERROR"
	CodeBadRequest = "INVALID_REQUEST"
)

type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// Write renders err as a JSON error body. Coded errors keep their code and
// message; everything else is logged and reported as a generic internal error.
func Write(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var coded apperr.Coded
	if errors.As(err, &coded) && coded.HTTPStatus() < http.StatusInternalServerError {
		writeBody(w, coded.HTTPStatus(), coded.Code(), coded.Error())
		return
	}

	log.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"err", err,
	)
	if coded != nil {
		writeBody(w, coded.HTTPStatus(), coded.Code(), http.StatusText(coded.HTTPStatus()))
		return
	}
	writeBody(w, http.StatusInternalServerError, CodeInternal, "internal server error")
}

// BadRequest reports malformed input that never reached the service layer.
func BadRequest(w http.ResponseWriter, message string) {
	writeBody(w, http.StatusBadRequest, CodeBadRequest, message)
}

func WriteCode(w http.ResponseWriter, status int, code, message string) {
	writeBody(w, status, code, message)
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBody(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, Response{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	})
}
