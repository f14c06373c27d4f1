package providers

import (
	"crypto/subtle"
	"net/http"

	"dmrmonitor/internal/structures"
)

const authRealm = `Basic realm="dmrmonitor"`

// BasicAuthMiddleware accepts or rejects a request at the boundary. It is a
// pass-through when website auth is disabled.
func BasicAuthMiddleware(conf *structures.Config, logger Logger, next http.Handler) http.Handler {
	if !conf.Website.Auth.Enabled {
		return next
	}
	wantUser := []byte(conf.Website.Auth.User)
	wantPass := []byte(conf.Website.Auth.Password)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		userOK := subtle.ConstantTimeCompare([]byte(user), wantUser) == 1
		passOK := subtle.ConstantTimeCompare([]byte(pass), wantPass) == 1
		if !ok || !userOK || !passOK {
			logger.Warnf(GetLogTypeByRequestType(r.Method), "Unauthorized request for %s from %s", r.URL.Path, r.RemoteAddr)
			w.Header().Set("WWW-Authenticate", authRealm)
			http.Error(w, "Authorization Required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
