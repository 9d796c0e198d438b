package main

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

const authRealm = "Password required."

// requirePassword gates every route but the health check behind basic auth.
// Any username is accepted; only the password is checked.
func requirePassword(cfg *Config, password string) (func(http.Handler) http.Handler, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == cfg.prefix+"/healthz" {
				next.ServeHTTP(w, r)

				return
			}

			_, given, ok := r.BasicAuth()
			if !ok || bcrypt.CompareHashAndPassword(hash, []byte(given)) != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="`+authRealm+`", charset="UTF-8"`)
				securityHeaders(cfg, w)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)

				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}

// redirectHTTPS sends plain http requests to the same URL over https.
func redirectHTTPS(cfg *Config, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isHTTPS(r) || r.URL.Path == cfg.prefix+"/healthz" {
			next.ServeHTTP(w, r)

			return
		}

		securityHeaders(cfg, w)
		http.Redirect(w, r, "https://"+r.Host+r.URL.RequestURI(), http.StatusMovedPermanently)
	})
}
