package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"gifts-backend/pkg/utils"
)

// PanicRecovery converts handler panics into a 500 response so a single
// bad request cannot take the billing counter offline.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[Panic] %s %s: %v\n%s", r.Method, r.URL.Path, err, debug.Stack())
				utils.Error(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
