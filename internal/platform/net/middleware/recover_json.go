package middleware

import (
	"net/http"
	"runtime/debug"

	perr "blockparty/internal/platform/errors"
	phttp "blockparty/internal/platform/net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// RecoverJSON converts panics into a JSON 500 envelope instead of chi's text dump
func RecoverJSON(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error().
						Interface("panic", rec).
						Str("request_id", chimw.GetReqID(r.Context())).
						Str("path", r.URL.Path).
						Bytes("stack", debug.Stack()).
						Msg("panic recovered")
					phttp.RespondError(w, r, perr.PanicErrf("internal server error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
