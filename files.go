/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func humanReadableSize(bytes int64) string {
	const unit int64 = 1000
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := unit, 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB",
		float64(bytes)/float64(div),
		"kMGTPE"[exp])
}

// logServed records a completed response at debug level.
func logServed(log zerolog.Logger, r *http.Request, what string, written int, start time.Time) {
	log.Debug().
		Str("request", chimw.GetReqID(r.Context())).
		Str("size", humanReadableSize(int64(written))).
		Str("remote", realIP(r)).
		Dur("took", time.Since(start).Round(time.Microsecond)).
		Msgf("SERVE: %s", what)
}
