package binder

import (
	"context"
	"errors"
	"net/http"

	"github.com/goliatone/go-antispam/pkg/honeypot"
)

type contextKey struct{}

// NewContext returns a copy of ctx carrying result.
func NewContext(ctx context.Context, result honeypot.Result) context.Context {
	return context.WithValue(ctx, contextKey{}, result)
}

// FromContext returns the inspection result stored by the middleware.
func FromContext(ctx context.Context) (honeypot.Result, bool) {
	if ctx == nil {
		return honeypot.Result{}, false
	}
	result, ok := ctx.Value(contextKey{}).(honeypot.Result)
	return result, ok
}

// Middleware binds every request before next runs. Unreadable bodies get
// 400 (413 when too large); spam submissions get the reject status when the
// action is ActionReject.
func (b *Binder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result, err := b.Bind(r)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, ErrBodyTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			b.logger.Error("bind submission", "form", b.formLabel(), "path", r.URL.Path, "error", err)
			http.Error(w, http.StatusText(status), status)
			return
		}

		if result.HasSpam() && b.action == ActionReject {
			http.Error(w, http.StatusText(b.rejectStatus), b.rejectStatus)
			return
		}
		if b.action != ActionLog {
			r = r.WithContext(NewContext(r.Context(), result))
		}
		next.ServeHTTP(w, r)
	})
}
