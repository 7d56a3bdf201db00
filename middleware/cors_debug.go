package middleware

import (
	"log"
	"net/http"
)

func CORSDebugMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			log.Printf("[CORS Debug] %s %s from Origin: %s", r.Method, r.URL.Path, origin)
		}

		// For preflight requests
		if r.Method == http.MethodOptions {
			log.Printf("[CORS Debug] Handling preflight request")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, Origin")
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
