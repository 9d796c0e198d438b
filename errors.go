/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Seednode/codespy/games/codes"
)

func newLogger(cfg *Config, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}

	level := zerolog.InfoLevel
	if cfg.verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: logDate, NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func newPage(cfg *Config, title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(getFavicon(cfg))
	htmlBody.WriteString(fmt.Sprintf(`<link rel="stylesheet" href="%s/assets/codes/app.css">`, cfg.prefix))
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body class=\"error\"><a href=\"%s/\">%s</a></body></html>", cfg.prefix, body))

	return htmlBody.String()
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Later bool   `json:"later,omitempty"`
}

// errorResponse turns err into a status and body. Game failures are shown to
// the player; anything else is logged and hidden behind a generic message.
func errorResponse(log zerolog.Logger, err error) (int, errorBody) {
	e, ok := codes.AsError(err)
	if !ok {
		log.Error().Err(err).Msg("ERROR: request failed")

		return http.StatusInternalServerError, errorBody{
			Error: "An error has occurred. Please try again.",
			Kind:  "internal",
		}
	}

	body := errorBody{Error: e.Error(), Kind: e.Kind.String()}
	if e.Kind == codes.KindInProgress {
		body.Error = "A round is in progress. Please come back once it ends."
		body.Later = true
	}

	return e.HTTPStatus(), body
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(v)
}

func writeError(log zerolog.Logger, w http.ResponseWriter, err error) error {
	status, body := errorResponse(log, err)

	return writeJSON(w, status, body)
}
