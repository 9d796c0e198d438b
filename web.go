package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	"github.com/Seednode/codespy/games/codes"
)

const (
	logDate string        = `2006-01-02T15:04:05.000-07:00`
	timeout time.Duration = 10 * time.Second
)

func securityHeaders(cfg *Config, w http.ResponseWriter) {
	w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
	w.Header().Set("Permissions-Policy", "geolocation=(), midi=(), sync-xhr=(), microphone=(), camera=(), magnetometer=(), gyroscope=(), fullscreen=(), payment=()")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'")

	if cfg.scheme() == "https" || cfg.forceHTTPS {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
	}
}

func realIP(r *http.Request) string {
	host, port, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// chi's RealIP middleware rewrites RemoteAddr to a bare address.
		host, port = r.RemoteAddr, ""
	}
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	} else if ip := r.Header.Get("X-Real-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	}
	if net.ParseIP(host) != nil && strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		return host + ":" + port
	}
	return host
}

func serveVersion(cfg *Config, log zerolog.Logger, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusOK)

		written, err := w.Write([]byte("codespy v" + releaseVersion + "\n"))
		if err != nil {
			errs <- err

			return
		}

		logServed(log, r, "Version page", written, startTime)
	}
}

// newRouter registers every route under cfg.prefix.
func newRouter(cfg *Config, log zerolog.Logger, engine *codes.Engine, errs chan<- error) *httprouter.Router {
	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		log.Error().
			Str("request", chimw.GetReqID(r.Context())).
			Interface("panic", i).
			Msg("ERROR: handler panicked")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusInternalServerError)

		io.WriteString(w, newPage(cfg, "Server Error", "An error has occurred. Please try again."))
	}

	mux.GET(cfg.prefix+"/", serveHomePage(cfg, log, errs))

	registerFavicons(cfg, mux, errs)

	mux.GET(cfg.prefix+"/healthz", serveHealthCheck(cfg, errs))

	mux.GET(cfg.prefix+"/robots.txt", serveRobots(cfg, errs))

	mux.GET(cfg.prefix+"/version", serveVersion(cfg, log, errs))

	mux.GET(cfg.prefix+"/assets/*asset", serveAssets(cfg, errs))

	if cfg.profile {
		registerProfileHandlers(cfg, mux)
	}

	registerCodesGame(cfg, "/codes", mux, engine, log, errs)

	return mux
}

func withSecurityHeaders(cfg *Config, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		securityHeaders(cfg, w)
		next.ServeHTTP(w, r)
	})
}

// newHandler wraps the router in the middleware every request passes through.
func newHandler(cfg *Config, log zerolog.Logger, engine *codes.Engine, errs chan<- error) (http.Handler, error) {
	h := withSecurityHeaders(cfg, newRouter(cfg, log, engine, errs))

	if cfg.password != "" {
		gate, err := requirePassword(cfg, cfg.password)
		if err != nil {
			return nil, err
		}
		h = gate(h)
	}

	if cfg.forceHTTPS {
		h = redirectHTTPS(cfg, h)
	}

	return chimw.RequestID(chimw.RealIP(h)), nil
}

// drainErrors logs write failures reported by handlers until ctx is done.
func drainErrors(ctx context.Context, log zerolog.Logger, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errs:
			log.Debug().Err(err).Msg("ERROR: write failed")
		}
	}
}

func ServePage(ctx context.Context, cfg *Config) error {
	var err error

	timeZone := os.Getenv("TZ")
	if timeZone != "" {
		time.Local, err = time.LoadLocation(timeZone)
		if err != nil {
			return err
		}
	}

	log := newLogger(cfg, nil)

	log.Info().Msgf("START: codespy v%s", releaseVersion)

	langs, err := codes.LoadLanguages(cfg.wordsDir)
	if err != nil {
		return fmt.Errorf("load word lists: %w", err)
	}

	log.Info().Strs("languages", langs.Names()).Msg("START: loaded word lists")

	store := codes.NewStore(langs, log, cfg.sessionTimeout)
	go store.Run(ctx)

	engine := codes.NewEngine(store, log, cfg.pollInterval)

	errs := make(chan error, 64)
	go drainErrors(ctx, log, errs)

	cfg.prefix = strings.TrimSuffix(cfg.prefix, "/")

	handler, err := newHandler(cfg, log, engine, errs)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           handler,
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
	}

	go func() {
		var err error
		log.Info().Msgf("SERVE: Listening on %s://%s%s/", cfg.scheme(), srv.Addr, cfg.prefix)
		if cfg.tlsKey != "" && cfg.tlsCert != "" {
			err = srv.ListenAndServeTLS(cfg.tlsCert, cfg.tlsKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("ERROR: server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	log.Info().Msg("STOP: shut down")

	return nil
}
