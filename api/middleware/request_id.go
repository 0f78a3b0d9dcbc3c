package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/MOR6969/vape-bill/pkg/logger"
	"github.com/MOR6969/vape-bill/pkg/types"
)

const RequestIDHeader = "X-Request-Id"

// Client supplied ids are echoed only when they look like ids.
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,64}$`)

// RequestID tags the request context, the logger and the response with a correlation id.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if !requestIDPattern.MatchString(id) {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			ctx := types.WithRequestID(r.Context(), id)
			ctx = logg.WithRequestID(ctx, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
