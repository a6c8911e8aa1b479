package api

import (
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"strconv"
	"time"

	"github.com/battlesnakeio/nol/board"
	"github.com/battlesnakeio/nol/rules"
	"github.com/battlesnakeio/nol/store"
	"github.com/battlesnakeio/nol/version"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
)

const (
	// maxBodyBytes limits the size of a request body.
	maxBodyBytes = 1000000
	// recordTimeout bounds how long a move waits on the store.
	recordTimeout = 100 * time.Millisecond
	defaultLimit  = 100
)

// GameStatus is the response of GET /games/:id.
type GameStatus struct {
	Game  *store.Game   `json:"game"`
	Turns []*store.Turn `json:"turns"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func readBody(r *http.Request) ([]byte, error) {
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.WithError(err).Warn("failed to close request body")
		}
	}()
	// Limited read to 1mb of data.
	return ioutil.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
}

func (s *Server) index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, rules.InfoResponse{
		APIVersion: "1",
		Author:     s.info.Name,
		Color:      s.info.Color,
		Head:       s.info.Head,
		Tail:       s.info.Tail,
		Version:    version.Version,
	})
}

func (s *Server) ping(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) start(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	data, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req := rules.SnakeRequest{}
	if err := json.Unmarshal(data, &req); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "invalid start request"))
		return
	}

	if req.Game.ID != "" {
		if err := s.store.CreateGame(r.Context(), req.Game.ID); err != nil {
			log.WithError(err).WithField("game", req.Game.ID).Warn("unable to record game")
		}
	}
	log.WithField("game", req.Game.ID).Info("game started")

	writeJSON(w, http.StatusOK, rules.StartResponse{
		Name:     s.info.Name,
		Color:    s.info.Color,
		HeadType: s.info.Head,
		TailType: s.info.Tail,
		Taunt:    s.info.Taunt,
	})
}

// legacyProbe detects the pre-2018 payload, which has its snakes at the top
// level rather than under board.
type legacyProbe struct {
	Snakes json.RawMessage `json:"snakes"`
}

// moveRequest decodes either payload shape into a snapshot.
func (s *Server) moveRequest(data []byte) (gameID string, turn int, snap board.Snapshot, err error) {
	probe := legacyProbe{}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", 0, snap, errors.Wrap(err, "invalid move request")
	}

	if len(probe.Snakes) > 0 {
		req := rules.LegacyRequest{}
		if err := json.Unmarshal(data, &req); err != nil {
			return "", 0, snap, errors.Wrap(err, "invalid legacy move request")
		}
		snap, err = req.Snapshot(s.info.Name)
		return req.GameID, req.Turn, snap, err
	}

	req := rules.SnakeRequest{}
	if err := json.Unmarshal(data, &req); err != nil {
		return "", 0, snap, errors.Wrap(err, "invalid move request")
	}
	snap, err = req.Snapshot()
	return req.Game.ID, int(req.Turn), snap, err
}

func (s *Server) move(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, errors.New("too many move requests"))
		return
	}

	data, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	gameID, turn, snap, err := s.moveRequest(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	fields := log.Fields{"game": gameID, "turn": turn}
	if gameID == "" {
		fields["request"] = uuid.NewV4().String()
	}

	start := time.Now()
	d, err := s.engine.Evaluate(snap)
	if err != nil {
		log.WithError(err).WithFields(fields).Warn("rejected move request")
		writeError(w, http.StatusBadRequest, err)
		return
	}
	elapsed := time.Since(start)

	if gameID != "" {
		ctx, cancel := context.WithTimeout(r.Context(), recordTimeout)
		if err := s.store.PushTurn(ctx, gameID, store.NewTurn(gameID, turn, d, elapsed.Nanoseconds()/1000)); err != nil {
			log.WithError(err).WithFields(fields).Warn("unable to record turn")
		}
		cancel()
	}

	log.WithFields(fields).WithFields(log.Fields{
		"move":     d.Move.String(),
		"fallback": d.Fallback,
		"hungry":   d.Hungry,
		"elapsed":  elapsed,
	}).Info("move")

	writeJSON(w, http.StatusOK, rules.MoveResponse{Move: d.Move.String(), Shout: s.info.Taunt})
}

func (s *Server) end(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	data, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req := rules.SnakeRequest{}
	if err := json.Unmarshal(data, &req); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "invalid end request"))
		return
	}

	if req.Game.ID != "" {
		err := s.store.EndGame(r.Context(), req.Game.ID)
		if err != nil && err != store.ErrNotFound {
			log.WithError(err).WithField("game", req.Game.ID).Warn("unable to end game")
		}
	}
	log.WithField("game", req.Game.ID).Info("game ended")

	writeJSON(w, http.StatusOK, struct{}{})
}

func queryInt(r *http.Request, name string, defaults int) (int, error) {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaults, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", name)
	}
	return i, nil
}

func (s *Server) game(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	g, err := s.store.GetGame(r.Context(), id)
	if err == store.ErrNotFound {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	turns, err := s.store.ListTurns(r.Context(), id, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if turns == nil {
		turns = []*store.Turn{}
	}
	writeJSON(w, http.StatusOK, GameStatus{Game: g, Turns: turns})
}
