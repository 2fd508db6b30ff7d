package middleware

import (
	"mime"
	"net/http"

	"github.com/yieldwise/yieldwise/internal/api/models"
)

// ContentTypeJSON defaults the response Content-Type to application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}
		next.ServeHTTP(w, r)
	})
}

// RequireContentType rejects requests with a body whose media type is not
// one of allowed. Requests without a Content-Type header pass through.
func RequireContentType(allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !hasBody(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			mediaType, _, err := mime.ParseMediaType(ct)
			if err == nil {
				for _, a := range allowed {
					if mediaType == a {
						next.ServeHTTP(w, r)
						return
					}
				}
			}

			problem := models.NewUnsupportedMediaType(GetRequestID(r.Context()), "unsupported Content-Type "+ct)
			problem.Instance = r.URL.Path
			problem.Write(w)
		})
	}
}

// RequireJSON is RequireContentType for application/json bodies.
func RequireJSON(next http.Handler) http.Handler {
	return RequireContentType("application/json")(next)
}

func hasBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}
