package middleware

import (
	"fmt"
	"log"
	"net/http"
)

// Recovery converts panics into a 500 with the error message in the
// success envelope. Nothing sensitive lives in this process, so exposing
// the message is tolerated.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("PANIC: %s %s: %v", r.Method, r.URL.Path, rec)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprintf(w, `{"success":false,"error":"%v"}`, rec)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
