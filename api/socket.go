package api

import (
	"net/http"
	"time"

	"github.com/battlesnakeio/nol/store"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"
)

// SocketPollInterval is how often a socket checks for new turns of a game
// that is still running.
var SocketPollInterval = 250 * time.Millisecond

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// socket streams every recorded turn of a game as a JSON text message, in
// turn order, and keeps streaming new turns until the game ends.
func (s *Server) socket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	ctx := r.Context()

	if _, err := s.store.GetGame(ctx, id); err != nil {
		code := http.StatusInternalServerError
		if err == store.ErrNotFound {
			code = http.StatusNotFound
		}
		writeError(w, code, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).WithField("game", id).Warn("unable to upgrade socket")
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.WithError(err).Debug("failed to close socket")
		}
	}()

	// Reads are only needed to notice the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	logger := log.WithField("game", id)
	next := 0
	for {
		turns, err := s.store.ListTurns(ctx, id, defaultLimit, next)
		if err != nil {
			logger.WithError(err).Warn("unable to list turns")
			return
		}
		for _, t := range turns {
			if err := conn.WriteJSON(t); err != nil {
				logger.WithError(err).Debug("socket write failed")
				return
			}
		}
		next += len(turns)
		if len(turns) == defaultLimit {
			continue
		}

		g, err := s.store.GetGame(ctx, id)
		if err != nil {
			logger.WithError(err).Warn("unable to get game")
			return
		}
		if g.Ended && next >= g.Turns {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over")
			if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil {
				logger.WithError(err).Debug("failed to send close")
			}
			return
		}

		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case <-time.After(SocketPollInterval):
		}
	}
}
