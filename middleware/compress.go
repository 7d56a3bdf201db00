package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// CompressMiddleware gzip-compresses responses when the client accepts it.
func CompressMiddleware(next http.Handler) http.Handler {
	return handlers.CompressHandler(next)
}
