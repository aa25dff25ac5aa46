/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package arena

// Status is the lifecycle stage of a Session.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusArmed      Status = "armed"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

// Recorder receives the outcome of every finished match.
type Recorder interface {
	RecordWin(winner string, participants []string)
}

// Session plays out a single pairing on a 3x3 board.
type Session struct {
	board    Board
	pairing  Pairing
	armed    bool
	status   Status
	turn     int
	winner   string
	recorder Recorder
}

func NewSession(recorder Recorder) *Session {
	return &Session{
		status:   StatusIdle,
		recorder: recorder,
	}
}

// Arm selects the pairing to play next and clears the board. A zero
// pairing leaves the session idle.
func (s *Session) Arm(p Pairing, ok bool) {
	s.board = Board{}
	s.winner = ""
	s.turn = 0
	s.pairing = p
	s.armed = ok

	if ok {
		s.status = StatusArmed
	} else {
		s.status = StatusIdle
	}
}

// Abandon drops the current match without recording a result and arms the
// given pairing instead.
func (s *Session) Abandon(p Pairing, ok bool) {
	s.Arm(p, ok)
}

// Start begins the match. present reports whether a name is still on the
// roster. On failure the session is left as it was.
func (s *Session) Start(present func(string) bool) error {
	if !s.armed ||
		s.pairing.First == "" || s.pairing.Second == "" ||
		s.pairing.First == s.pairing.Second ||
		!present(s.pairing.First) || !present(s.pairing.Second) {
		return invalid("start", ErrNeedPlayers)
	}

	s.board = Board{}
	s.winner = ""
	s.turn = 0
	s.status = StatusInProgress

	return nil
}

// Play places the active player's symbol at (row, col). Moves outside an
// in-progress match, out of bounds, or onto an occupied cell are ignored and
// reported as false.
func (s *Session) Play(row, col int) bool {
	if s.status != StatusInProgress || !inBounds(row, col) || s.board[row][col] != Empty {
		return false
	}

	symbol := s.symbol()
	s.board[row][col] = symbol

	switch {
	case HasWon(s.board, symbol):
		s.winner = s.Turn()
		s.status = StatusFinished
		s.record(s.winner)
	case s.board.Full():
		s.status = StatusFinished
		s.record("")
	default:
		s.turn = 1 - s.turn
	}

	return true
}

// Reset clears the board and winner and re-arms the current pairing.
func (s *Session) Reset() {
	s.Arm(s.pairing, s.armed)
}

func (s *Session) record(winner string) {
	if s.recorder == nil {
		return
	}

	s.recorder.RecordWin(winner, s.pairing.Names())
}

func (s *Session) symbol() Symbol {
	if s.turn == 0 {
		return X
	}

	return O
}

// Turn returns the name of the player to move, or "" outside a match.
func (s *Session) Turn() string {
	if s.status != StatusInProgress {
		return ""
	}

	if s.turn == 0 {
		return s.pairing.First
	}

	return s.pairing.Second
}

func (s *Session) Board() Board {
	return s.board
}

func (s *Session) Pairing() (Pairing, bool) {
	return s.pairing, s.armed
}

func (s *Session) Status() Status {
	return s.status
}

func (s *Session) Winner() string {
	return s.winner
}
