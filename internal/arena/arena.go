/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package arena holds the round-robin tic-tac-toe engine: the roster, the
// pairing rotation, the leaderboard and the match being played.
//
// An Arena is not safe for concurrent use. Callers serialize actions so that
// each one is applied to completion before the next.
package arena

import (
	"strings"
)

// Observer is notified about match lifecycle events.
type Observer interface {
	MatchStarted(p Pairing)
	MatchFinished(p Pairing, winner string)
	MatchAbandoned(p Pairing)
}

type Option func(*Arena)

// WithObserver registers o for match lifecycle events.
func WithObserver(o Observer) Option {
	return func(a *Arena) {
		a.observer = o
	}
}

// WithMaxPlayers caps the roster size. Zero means unlimited.
func WithMaxPlayers(n int) Option {
	return func(a *Arena) {
		a.maxPlayers = n
	}
}

// Arena owns every piece of game state and applies user actions to it.
type Arena struct {
	roster      Roster
	leaderboard *Leaderboard
	scheduler   Scheduler
	session     *Session
	observer    Observer
	maxPlayers  int
}

func New(opts ...Option) *Arena {
	a := &Arena{
		leaderboard: NewLeaderboard(),
	}
	a.session = NewSession(a)

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// RecordWin implements Recorder for the arena's own session.
func (a *Arena) RecordWin(winner string, participants []string) {
	a.leaderboard.RecordWin(winner, participants)

	if a.observer != nil {
		p, _ := a.session.Pairing()
		a.observer.MatchFinished(p, winner)
	}
}

func (a *Arena) AddPlayer(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("add player", ErrEmptyName)
	}

	if a.maxPlayers > 0 && a.roster.Len() >= a.maxPlayers {
		return invalid("add player", ErrTooManyPlayers)
	}

	a.roster.Append(name)
	a.leaderboard.Ensure(name)
	a.rosterChanged()

	return nil
}

// RenamePlayer renames the player at index i, carrying their wins over.
func (a *Arena) RenamePlayer(i int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("rename player", ErrEmptyName)
	}

	old, ok := a.roster.RenameAt(i, name)
	if !ok {
		return invalid("rename player", ErrNoSuchPlayer)
	}

	a.leaderboard.Rename(old, name)
	a.rosterChanged()

	return nil
}

// RemovePlayer deletes the player at index i along with their wins.
func (a *Arena) RemovePlayer(i int) error {
	name, ok := a.roster.RemoveAt(i)
	if !ok {
		return invalid("remove player", ErrNoSuchPlayer)
	}

	a.leaderboard.Remove(name)
	a.rosterChanged()

	return nil
}

// RemovePlayerNamed deletes the first roster entry called name.
func (a *Arena) RemovePlayerNamed(name string) error {
	i := a.roster.Index(name)
	if i < 0 {
		return invalid("remove player", ErrNoSuchPlayer)
	}

	return a.RemovePlayer(i)
}

// rosterChanged rebuilds the rotation and re-arms the session whenever the
// selected pairing moved. A match whose pairing survives continues.
func (a *Arena) rosterChanged() {
	names := a.roster.Names()
	for _, name := range names {
		a.leaderboard.Ensure(name)
	}

	before, hadBefore := a.session.Pairing()
	repaired := a.scheduler.RosterChanged(names)
	after, ok := a.scheduler.Current()

	if !repaired && ok == hadBefore && after == before {
		return
	}

	a.abandon()
	a.session.Abandon(after, ok)
}

func (a *Arena) abandon() {
	if a.session.Status() != StatusInProgress || a.observer == nil {
		return
	}

	p, _ := a.session.Pairing()
	a.observer.MatchAbandoned(p)
}

// Start begins the currently scheduled match.
func (a *Arena) Start() error {
	restarting := a.session.Status() == StatusInProgress

	if err := a.session.Start(a.roster.Contains); err != nil {
		return err
	}

	if a.observer != nil {
		p, _ := a.session.Pairing()
		if restarting {
			a.observer.MatchAbandoned(p)
		}
		a.observer.MatchStarted(p)
	}

	return nil
}

// Play places the active player's symbol. It reports whether the move was
// accepted.
func (a *Arena) Play(row, col int) bool {
	return a.session.Play(row, col)
}

// Reset clears the board and returns the current pairing to the armed state.
func (a *Arena) Reset() {
	a.abandon()
	a.session.Reset()
}

// NextMatch resets the board and moves the rotation to the next pairing.
func (a *Arena) NextMatch() {
	a.Reset()
	a.scheduler.Advance()
	a.session.Arm(a.scheduler.Current())
}

// RecordWinner credits name with a win without playing the board, then moves
// to the next match. Unknown names are not credited.
func (a *Arena) RecordWinner(name string) bool {
	_, credited := a.leaderboard.Wins(name)
	if credited {
		a.leaderboard.RecordWin(name, nil)

		if a.observer != nil {
			p, _ := a.session.Pairing()
			a.observer.MatchFinished(p, name)
		}
	}

	a.NextMatch()

	return credited
}

func (a *Arena) Players() []string {
	return a.roster.Names()
}

func (a *Arena) Leaderboard() *Leaderboard {
	return a.leaderboard
}

// Current returns the scheduled pairing, if any.
func (a *Arena) Current() (Pairing, bool) {
	return a.scheduler.Current()
}

func (a *Arena) Status() Status {
	return a.session.Status()
}

func (a *Arena) Winner() string {
	return a.session.Winner()
}

func (a *Arena) Turn() string {
	return a.session.Turn()
}

func (a *Arena) Board() Board {
	return a.session.Board()
}
