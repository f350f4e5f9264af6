package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/fixora/expense-tracker/infrastructure/service/logger"
)

const CorrelationIDHeader = "X-Correlation-ID"

var correlationIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// CorrelationIDMiddleware ensures every request/response carries a correlation ID
// and makes it available to the logger through the request context.
func CorrelationIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := r.Header.Get(CorrelationIDHeader)
		if !correlationIDPattern.MatchString(cid) {
			cid = uuid.NewString()
		}
		w.Header().Set(CorrelationIDHeader, cid)
		next.ServeHTTP(w, r.WithContext(logger.WithCorrelationID(r.Context(), cid)))
	})
}
