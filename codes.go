// codespy word game
//
// Two sides share a 5x5 grid of words. Each side holds a secret key marking
// words green, black or white, and the keys disagree. Players on one side
// give one-word hints; the other side guesses against the hinting side's key.
//
// Routes, all under --prefix:
//   - /codes                  redirects to a new random game
//   - /codes/:gameid          HTML client
//   - /codes/:gameid/play     POST an action, form or JSON
//   - /codes/:gameid/status   version of the game, for polling
//   - /codes/:gameid/board    board as seen by ?name=
//   - /codes/:gameid/ws       the same actions over a websocket
//   - /codes/:gameid/qr       PNG QR code for the game URL
//   - /languages              word lists games can be started with

package main

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"

	"github.com/Seednode/codespy/games/codes"
)

const (
	maxRequestBytes = 1 << 16

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Extra websocket actions that only read.
const (
	wsActionStatus = "status"
	wsActionBoard  = "board"
)

type playResult struct {
	Restarted bool `json:"restarted,omitempty"`
	Left      bool `json:"left,omitempty"`
}

type statusResult struct {
	Version int64 `json:"version"`
}

type languagesResult struct {
	Languages []string `json:"languages"`
}

// decodeRequest reads a play request from a JSON body or a form.
func decodeRequest(w http.ResponseWriter, r *http.Request) (codes.Request, error) {
	var req codes.Request

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, codes.InvalidParameter("body")
		}

		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return req, codes.InvalidParameter("body")
	}

	req.Name = r.PostFormValue("name")
	req.Action = r.PostFormValue("action")
	req.Side = r.PostFormValue("side")
	req.Language = r.PostFormValue("language")
	req.Hint = r.PostFormValue("hint")
	req.Word = r.PostFormValue("word")

	return req, nil
}

func servePlay(engine *codes.Engine, log zerolog.Logger, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		req, err := decodeRequest(w, r)
		if err == nil {
			req.Game = ps.ByName("gameid")
			err = play(engine, req, w)
		}
		if err != nil {
			if werr := writeError(log, w, err); werr != nil {
				errs <- werr
			}

			return
		}

		log.Debug().
			Str("request", chimw.GetReqID(r.Context())).
			Str("game", req.Game).
			Str("action", req.Action).
			Str("remote", realIP(r)).
			Dur("took", time.Since(startTime).Round(time.Microsecond)).
			Msg("SERVE: Play")
	}
}

func play(engine *codes.Engine, req codes.Request, w http.ResponseWriter) error {
	board, err := engine.Play(req)
	if err != nil {
		return err
	}

	switch req.Action {
	case codes.ActionRestart:
		return writeJSON(w, http.StatusOK, playResult{Restarted: true})
	case codes.ActionLeave:
		return writeJSON(w, http.StatusOK, playResult{Left: true})
	}

	return writeJSON(w, http.StatusOK, board)
}

func serveStatus(engine *codes.Engine, log zerolog.Logger, errs chan<- error) http.Handler {
	return chimw.NoCache(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps := httprouter.ParamsFromContext(r.Context())

		version, err := engine.Status(ps.ByName("gameid"))
		if err != nil {
			err = writeError(log, w, err)
		} else {
			err = writeJSON(w, http.StatusOK, statusResult{Version: version})
		}
		if err != nil {
			errs <- err
		}
	}))
}

func serveBoard(engine *codes.Engine, log zerolog.Logger, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		w.Header().Set("Cache-Control", "no-store")

		board, err := engine.Board(ps.ByName("gameid"), r.URL.Query().Get("name"))
		if err != nil {
			err = writeError(log, w, err)
		} else {
			err = writeJSON(w, http.StatusOK, board)
		}
		if err != nil {
			errs <- err
		}
	}
}

func serveLanguages(engine *codes.Engine, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		names := engine.Store().Languages().Names()

		if err := writeJSON(w, http.StatusOK, languagesResult{Languages: names}); err != nil {
			errs <- err
		}
	}
}

// wsRequest is one inbound websocket message. ID is echoed in the reply.
type wsRequest struct {
	ID string `json:"id,omitempty"`
	codes.Request
}

type wsReply struct {
	ID        string       `json:"id,omitempty"`
	Board     *codes.Board `json:"board,omitempty"`
	Version   *int64       `json:"version,omitempty"`
	Restarted bool         `json:"restarted,omitempty"`
	Left      bool         `json:"left,omitempty"`
	Error     string       `json:"error,omitempty"`
	Kind      string       `json:"kind,omitempty"`
	Later     bool         `json:"later,omitempty"`
}

type Client struct {
	conn   *websocket.Conn
	send   chan wsReply
	done   chan struct{}
	gameID string
	log    zerolog.Logger
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func serveWS(engine *codes.Engine, log zerolog.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Debug().Err(err).Str("remote", realIP(r)).Msg("ERROR: websocket upgrade failed")

			return
		}

		client := &Client{
			conn:   conn,
			send:   make(chan wsReply, 8),
			done:   make(chan struct{}),
			gameID: ps.ByName("gameid"),
			log:    log.With().Str("request", chimw.GetReqID(r.Context())).Logger(),
		}

		go client.writePump()
		client.readPump(engine)
	}
}

// answer runs one request and builds its reply.
func (c *Client) answer(engine *codes.Engine, msg wsRequest) wsReply {
	reply := wsReply{ID: msg.ID}

	req := msg.Request
	req.Game = c.gameID

	var err error
	switch req.Action {
	case wsActionStatus:
		var version int64
		version, err = engine.Status(req.Game)
		if err == nil {
			reply.Version = &version
		}
	case wsActionBoard:
		reply.Board, err = engine.Board(req.Game, req.Name)
	default:
		reply.Board, err = engine.Play(req)
		reply.Restarted = err == nil && req.Action == codes.ActionRestart
		reply.Left = err == nil && req.Action == codes.ActionLeave
	}

	if err != nil {
		_, body := errorResponse(c.log, err)
		reply.Board = nil
		reply.Error = body.Error
		reply.Kind = body.Kind
		reply.Later = body.Later
	}

	return reply
}

func (c *Client) readPump(engine *codes.Engine) {
	defer func() {
		close(c.send)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxRequestBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg wsRequest
		var reply wsReply

		err := c.conn.ReadJSON(&msg)
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.ErrUnexpectedEOF):
			e := codes.InvalidParameter("body")
			reply = wsReply{Error: e.Error(), Kind: e.Kind.String()}
		case err != nil:
			return
		default:
			reply = c.answer(engine, msg)
		}

		select {
		case c.send <- reply:
		case <-c.done:
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// qrHandler generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		scheme := "http"
		if isHTTPS(r) || cfg.forceHTTPS {
			scheme = "https"
		}

		// We are at /.../:gameid/qr; strip trailing "/qr" to get the game URL.
		path := strings.TrimSuffix(r.URL.Path, "/qr")

		url := scheme + "://" + r.Host + path

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)
		_, _ = w.Write(png)
	}
}

func serveIndex(cfg *Config, log zerolog.Logger, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		data, err := fs.ReadFile(assets, "assets/codes/index.html")
		if err != nil {
			panic(err)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		written, err := w.Write(data)
		if err != nil {
			errs <- err

			return
		}

		logServed(log, r, "Game page", written, startTime)
	}
}

// redirectNewGame handles GET /path by picking an unused game ID and
// redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, engine *codes.Engine, log zerolog.Logger, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID, err := engine.Store().NewID()
		if err != nil {
			if werr := writeError(log, w, err); werr != nil {
				errs <- werr
			}

			return
		}

		log.Debug().Str("game", gameID).Msg("GAMES: assigned new game id")
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

func registerCodesGame(cfg *Config, path string, mux *httprouter.Router, engine *codes.Engine, log zerolog.Logger, errs chan<- error) {
	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, engine, log, errs))

	mux.GET(cfg.prefix+path+"/:gameid", serveIndex(cfg, log, errs))

	mux.POST(cfg.prefix+path+"/:gameid/play", servePlay(engine, log, errs))

	mux.Handler(http.MethodGet, cfg.prefix+path+"/:gameid/status", serveStatus(engine, log, errs))

	mux.GET(cfg.prefix+path+"/:gameid/board", serveBoard(engine, log, errs))

	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWS(engine, log))

	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler(cfg))

	mux.GET(cfg.prefix+"/languages", serveLanguages(engine, errs))
}
