package correlationid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// contextKey is the type of contextKeys used for correlation IDs.
type contextKey struct{}

func GetFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok
}

// Handler assigns every request a correlation ID, so that the per-service
// logout log lines of a single session teardown can be tied together.
func Handler(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = context.WithValue(ctx, contextKey{}, uuid.New().String())
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(fn)
}
