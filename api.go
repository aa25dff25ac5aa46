/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/Seednode/tictactoe/internal/arena"
	"github.com/julienschmidt/httprouter"
)

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(cfg *Config, w http.ResponseWriter, status int, v any, errs chan<- error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	securityHeaders(cfg, w)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		errs <- err
	}
}

// serveAPI runs apply on the hub for :gameid and replies with the resulting
// snapshot.
func serveAPI(cfg *Config, gm *GameManager, errs chan<- error, readOnly bool, apply func(httprouter.Params) func(*arena.Arena) error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		gameID := ps.ByName("gameid")
		if gameID == "" {
			writeJSON(cfg, w, http.StatusBadRequest, apiError{Error: "missing game id"}, errs)
			return
		}

		snapshot, err := gm.getHub(gameID).submit(apply(ps), readOnly)

		var verr *arena.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(cfg, w, http.StatusBadRequest, apiError{Error: verr.Error()}, errs)
			return
		case errors.Is(err, errGameClosed):
			writeJSON(cfg, w, http.StatusGone, apiError{Error: err.Error()}, errs)
			return
		case err != nil:
			writeJSON(cfg, w, http.StatusInternalServerError, apiError{Error: err.Error()}, errs)
			return
		}

		writeJSON(cfg, w, http.StatusOK, snapshot, errs)

		logf(cfg, "SERVE: %s %s for %s to %s in %s",
			r.Method,
			r.URL.Path,
			gameID,
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func stateAction(_ httprouter.Params) func(*arena.Arena) error {
	return func(*arena.Arena) error {
		return nil
	}
}

// addPlayerAction skips names already on the roster.
func addPlayerAction(ps httprouter.Params) func(*arena.Arena) error {
	name := strings.TrimSpace(ps.ByName("name"))

	return func(a *arena.Arena) error {
		if slices.Contains(a.Players(), name) {
			return nil
		}
		return a.AddPlayer(name)
	}
}

// deletePlayerAction ignores names that are not on the roster.
func deletePlayerAction(ps httprouter.Params) func(*arena.Arena) error {
	name := ps.ByName("name")

	return func(a *arena.Arena) error {
		if err := a.RemovePlayerNamed(name); err != nil && !errors.Is(err, arena.ErrNoSuchPlayer) {
			return err
		}
		return nil
	}
}

func recordWinnerAction(ps httprouter.Params) func(*arena.Arena) error {
	winner := ps.ByName("winner")

	return func(a *arena.Arena) error {
		a.RecordWinner(winner)
		return nil
	}
}

// registerAPI exposes the JSON endpoints for each game:
//   - GET    $path/:gameid/state
//   - POST   $path/:gameid/add_player/:name
//   - DELETE $path/:gameid/delete_player/:name
//   - POST   $path/:gameid/record_winner/:winner
func registerAPI(cfg *Config, path string, mux *httprouter.Router, m *metrics, gm *GameManager, errs chan<- error) {
	base := cfg.prefix + path + "/:gameid"

	mux.GET(base+"/state", m.instrument(path+"/:gameid/state", serveAPI(cfg, gm, errs, true, stateAction)))
	mux.POST(base+"/add_player/:name", m.instrument(path+"/:gameid/add_player", serveAPI(cfg, gm, errs, false, addPlayerAction)))
	mux.DELETE(base+"/delete_player/:name", m.instrument(path+"/:gameid/delete_player", serveAPI(cfg, gm, errs, false, deletePlayerAction)))
	mux.POST(base+"/record_winner/:winner", m.instrument(path+"/:gameid/record_winner", serveAPI(cfg, gm, errs, false, recordWinnerAction)))
}
