package middlewares

import (
	"medblock-service/internal/pkg/exceptions"
	"medblock-service/internal/pkg/utils"
	"net/http"
)

// BodyLimit caps the request body at limitMB megabytes. A declared length
// over the cap is rejected before reading; an undeclared one fails on read.
func (m *Middlewares) BodyLimit(limitMB int) func(http.Handler) http.Handler {
	limit := int64(limitMB) << 20
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > limit {
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrRequestBodyTooLarge(nil, limitMB))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// DefaultBodyLimit applies the configured application-wide cap.
func (m *Middlewares) DefaultBodyLimit(next http.Handler) http.Handler {
	return m.BodyLimit(m.InternalConfig.App.RequestBodyLimitInMegabyte)(next)
}
