package response

import (
	"encoding/json"
	"errors"
	"net/http"

	apperr "github.com/fixora/expense-tracker/domain/error"
)

type Envelope struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, status bool, message string, data interface{}) {
	write(w, statusCode, Envelope{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

func write(w http.ResponseWriter, statusCode int, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(envelope)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	WriteJSON(w, statusCode, true, message, data)
}

func Error(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, false, message, nil)
}

// FromError writes err with the status its code maps to. Causes and details
// of server-side errors are not exposed.
func FromError(w http.ResponseWriter, err error) {
	statusCode := apperr.GetHTTPStatusCode(err)

	var appErr *apperr.AppError
	if !errors.As(err, &appErr) || statusCode >= http.StatusInternalServerError {
		code := ""
		if appErr != nil {
			code = string(appErr.Code)
		}
		write(w, statusCode, Envelope{Message: http.StatusText(statusCode), Code: code})
		return
	}

	var data interface{}
	if appErr.Details != "" {
		data = map[string]string{"details": appErr.Details}
	}
	write(w, statusCode, Envelope{
		Message: appErr.Message,
		Code:    string(appErr.Code),
		Data:    data,
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// Unauthorized answers 401 with a Bearer challenge.
func Unauthorized(w http.ResponseWriter, err *apperr.AppError) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="expense-tracker"`)
	FromError(w, err)
}

func Forbidden(w http.ResponseWriter, err *apperr.AppError) {
	FromError(w, err)
}

func MethodNotAllowed(w http.ResponseWriter) {
	Error(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func InternalServerError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}
