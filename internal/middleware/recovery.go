package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recoverer is a middleware that recovers from panics.
// It logs the panic with its stack and hands the response to errorPage,
// or writes a plain 500 when errorPage is nil. http.ErrAbortHandler is
// re-panicked so the server can drop the connection.
func Recoverer(logger *slog.Logger, errorPage http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				logger.Error("panic_recovered",
					"request_id", GetRequestID(r.Context()),
					"path", r.URL.Path,
					"panic", rvr,
					"stack", string(debug.Stack()),
				)

				if errorPage != nil {
					errorPage(w, r)
					return
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
