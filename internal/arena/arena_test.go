/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package arena

import (
	"errors"
	"slices"
	"testing"
)

type fakeObserver struct {
	started   []Pairing
	finished  []string
	abandoned []Pairing
}

func (f *fakeObserver) MatchStarted(p Pairing) {
	f.started = append(f.started, p)
}

func (f *fakeObserver) MatchFinished(_ Pairing, winner string) {
	f.finished = append(f.finished, winner)
}

func (f *fakeObserver) MatchAbandoned(p Pairing) {
	f.abandoned = append(f.abandoned, p)
}

func newArena(t *testing.T, names ...string) *Arena {
	t.Helper()

	a := New()
	for _, name := range names {
		if err := a.AddPlayer(name); err != nil {
			t.Fatalf("adding %q: %v", name, err)
		}
	}

	return a
}

func play(t *testing.T, a *Arena, moves ...[2]int) {
	t.Helper()

	for _, m := range moves {
		if !a.Play(m[0], m[1]) {
			t.Fatalf("move %v rejected", m)
		}
	}
}

func TestAddTwoPlayers(t *testing.T) {
	a := newArena(t)

	if err := a.AddPlayer("Alice"); err != nil {
		t.Fatal(err)
	}
	if _, ok := a.Current(); ok {
		t.Fatal("one player must not be scheduled")
	}
	if a.Status() != StatusIdle {
		t.Fatalf("expected idle, got %s", a.Status())
	}

	if err := a.AddPlayer("Bob"); err != nil {
		t.Fatal(err)
	}

	snap := a.Snapshot()
	if !slices.Equal(snap.Pairings, []Pairing{{"Alice", "Bob"}}) {
		t.Fatalf("unexpected pairings %v", snap.Pairings)
	}
	if snap.Cursor != 0 {
		t.Fatalf("expected cursor 0, got %d", snap.Cursor)
	}
	if snap.Current == nil || *snap.Current != (Pairing{"Alice", "Bob"}) {
		t.Fatalf("unexpected current pairing %v", snap.Current)
	}
	if a.Status() != StatusArmed {
		t.Fatalf("expected armed, got %s", a.Status())
	}
}

func TestAddPlayerValidation(t *testing.T) {
	a := New(WithMaxPlayers(2))

	if err := a.AddPlayer("   "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}

	if err := a.AddPlayer("  Alice "); err != nil {
		t.Fatal(err)
	}
	if got := a.Players(); !slices.Equal(got, []string{"Alice"}) {
		t.Fatalf("expected trimmed name, got %v", got)
	}

	if err := a.AddPlayer("Bob"); err != nil {
		t.Fatal(err)
	}
	if err := a.AddPlayer("Carol"); !errors.Is(err, ErrTooManyPlayers) {
		t.Fatalf("expected ErrTooManyPlayers, got %v", err)
	}
}

func TestThreePlayerRotation(t *testing.T) {
	a := newArena(t, "Alice", "Bob", "Carol")

	want := []Pairing{{"Alice", "Bob"}, {"Alice", "Carol"}, {"Bob", "Carol"}}
	if got := a.Snapshot().Pairings; !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	for i := 1; i <= 3; i++ {
		a.NextMatch()

		got, _ := a.Current()
		if got != want[i%3] {
			t.Fatalf("step %d: expected %v, got %v", i, want[i%3], got)
		}
		if a.Status() != StatusArmed {
			t.Fatalf("step %d: expected armed, got %s", i, a.Status())
		}
	}
}

func TestMatchWinUpdatesLeaderboard(t *testing.T) {
	obs := &fakeObserver{}
	a := New(WithObserver(obs))
	for _, name := range []string{"Alice", "Bob"} {
		if err := a.AddPlayer(name); err != nil {
			t.Fatal(err)
		}
	}

	if wins, _ := a.Leaderboard().Wins("Alice"); wins != 0 {
		t.Fatalf("expected 0 wins, got %d", wins)
	}

	if err := a.Start(); err != nil {
		t.Fatal(err)
	}

	play(t, a, [2]int{0, 0}, [2]int{1, 0}, [2]int{0, 1}, [2]int{1, 1}, [2]int{0, 2})

	if !HasWon(a.Board(), X) {
		t.Fatal("expected row 0 to be won by X")
	}
	if a.Winner() != "Alice" {
		t.Fatalf("expected Alice to win, got %q", a.Winner())
	}
	if wins, _ := a.Leaderboard().Wins("Alice"); wins != 1 {
		t.Fatalf("expected 1 win, got %d", wins)
	}
	if wins, _ := a.Leaderboard().Wins("Bob"); wins != 0 {
		t.Fatalf("expected Bob to stay at 0, got %d", wins)
	}

	if len(obs.started) != 1 || !slices.Equal(obs.finished, []string{"Alice"}) {
		t.Fatalf("unexpected observer calls: %+v", obs)
	}
}

func TestStartNeedsTwoPlayers(t *testing.T) {
	a := newArena(t, "Alice")

	err := a.Start()
	if !errors.Is(err, ErrNeedPlayers) {
		t.Fatalf("expected ErrNeedPlayers, got %v", err)
	}
	if err.Error() != "start: need 2 valid players" {
		t.Fatalf("unexpected message %q", err)
	}
}

func TestDuplicateNamesCannotStart(t *testing.T) {
	a := newArena(t, "Alice", "Alice")

	if err := a.Start(); !errors.Is(err, ErrNeedPlayers) {
		t.Fatalf("expected ErrNeedPlayers, got %v", err)
	}
	if a.Status() != StatusArmed {
		t.Fatalf("expected armed, got %s", a.Status())
	}
}

func TestDeleteMidMatchRepairsRotation(t *testing.T) {
	obs := &fakeObserver{}
	a := New(WithObserver(obs))
	for _, name := range []string{"Alice", "Bob", "Carol", "Dave"} {
		if err := a.AddPlayer(name); err != nil {
			t.Fatal(err)
		}
	}

	a.NextMatch() // Alice vs Carol at cursor 1
	if err := a.Start(); err != nil {
		t.Fatal(err)
	}
	play(t, a, [2]int{0, 0}, [2]int{1, 1})

	if err := a.RemovePlayer(2); err != nil {
		t.Fatal(err)
	}

	snap := a.Snapshot()
	wantPairings := []Pairing{{"Alice", "Bob"}, {"Alice", "Dave"}, {"Bob", "Dave"}}
	if !slices.Equal(snap.Pairings, wantPairings) {
		t.Fatalf("expected %v, got %v", wantPairings, snap.Pairings)
	}

	// The repaired position is computed against the rebuilt list.
	if snap.Cursor != 2 {
		t.Fatalf("expected cursor 2, got %d", snap.Cursor)
	}
	if *snap.Current != (Pairing{"Bob", "Dave"}) {
		t.Fatalf("expected Bob vs Dave, got %v", *snap.Current)
	}
	if snap.Status != StatusArmed {
		t.Fatalf("expected armed, got %s", snap.Status)
	}
	if snap.Board != ([3][3]string{}) {
		t.Fatalf("expected a cleared board, got %v", snap.Board)
	}

	for _, s := range snap.Leaderboard {
		if s.Wins != 0 {
			t.Fatalf("expected no wins after abandoned match, got %v", snap.Leaderboard)
		}
	}
	if _, ok := a.Leaderboard().Wins("Carol"); ok {
		t.Fatal("expected Carol to be removed from the leaderboard")
	}

	if !slices.Equal(obs.abandoned, []Pairing{{"Alice", "Carol"}}) {
		t.Fatalf("expected abandoned Alice vs Carol, got %v", obs.abandoned)
	}
	if len(obs.finished) != 0 {
		t.Fatalf("expected no finished matches, got %v", obs.finished)
	}
}

func TestDeleteDownToOnePlayer(t *testing.T) {
	a := newArena(t, "Alice", "Bob")

	if err := a.Start(); err != nil {
		t.Fatal(err)
	}
	play(t, a, [2]int{0, 0})

	if err := a.RemovePlayerNamed("Bob"); err != nil {
		t.Fatal(err)
	}

	if _, ok := a.Current(); ok {
		t.Fatal("expected no current pairing")
	}
	if a.Status() != StatusIdle {
		t.Fatalf("expected idle, got %s", a.Status())
	}
	if a.Play(1, 1) {
		t.Fatal("expected moves to be ignored without a match")
	}
	if a.Snapshot().Cursor != -1 {
		t.Fatalf("expected cursor -1, got %d", a.Snapshot().Cursor)
	}
}

func TestAddPlayerKeepsMatchInProgress(t *testing.T) {
	a := newArena(t, "Alice", "Bob")

	if err := a.Start(); err != nil {
		t.Fatal(err)
	}
	play(t, a, [2]int{0, 0})

	if err := a.AddPlayer("Carol"); err != nil {
		t.Fatal(err)
	}

	if a.Status() != StatusInProgress {
		t.Fatalf("expected the match to continue, got %s", a.Status())
	}
	if a.Board()[0][0] != X {
		t.Fatal("expected the board to be kept")
	}
}

func TestAddPlayerMovesCursorBackToFirstPairing(t *testing.T) {
	a := newArena(t, "Alice", "Bob", "Carol")
	a.NextMatch()
	a.NextMatch()

	if err := a.Start(); err != nil {
		t.Fatal(err)
	}

	if err := a.AddPlayer("Dave"); err != nil {
		t.Fatal(err)
	}

	got, _ := a.Current()
	if got != (Pairing{"Alice", "Bob"}) {
		t.Fatalf("expected the rotation to restart, got %v", got)
	}
	if a.Status() != StatusArmed {
		t.Fatalf("expected the moved match to be re-armed, got %s", a.Status())
	}
}

func TestRenameKeepsWins(t *testing.T) {
	a := newArena(t, "Alice", "Bob", "Carol")
	for range 3 {
		a.Leaderboard().RecordWin("Alice", nil)
	}
	a.Leaderboard().RecordWin("Bob", nil)

	before := a.Snapshot().Leaderboard

	if err := a.RenamePlayer(0, " Alicia "); err != nil {
		t.Fatal(err)
	}

	if wins, ok := a.Leaderboard().Wins("Alicia"); !ok || wins != 3 {
		t.Fatalf("expected Alicia to have 3 wins, got %d (%v)", wins, ok)
	}
	if _, ok := a.Leaderboard().Wins("Alice"); ok {
		t.Fatal("expected no Alice entry")
	}

	after := a.Snapshot().Leaderboard
	if len(after) != len(before) {
		t.Fatalf("expected %d rows, got %d", len(before), len(after))
	}
	for i := range before {
		name := before[i].Name
		if name == "Alice" {
			name = "Alicia"
		}
		if after[i].Name != name || after[i].Wins != before[i].Wins {
			t.Fatalf("row %d: expected %v, got %v", i, before[i], after[i])
		}
	}

	if got := a.Players(); !slices.Equal(got, []string{"Alicia", "Bob", "Carol"}) {
		t.Fatalf("unexpected roster %v", got)
	}
}

func TestRenameValidation(t *testing.T) {
	a := newArena(t, "Alice")

	if err := a.RenamePlayer(0, ""); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := a.RenamePlayer(4, "Bob"); !errors.Is(err, ErrNoSuchPlayer) {
		t.Fatalf("expected ErrNoSuchPlayer, got %v", err)
	}
	if err := a.RemovePlayer(-1); !errors.Is(err, ErrNoSuchPlayer) {
		t.Fatalf("expected ErrNoSuchPlayer, got %v", err)
	}
	if err := a.RemovePlayerNamed("Zed"); !errors.Is(err, ErrNoSuchPlayer) {
		t.Fatalf("expected ErrNoSuchPlayer, got %v", err)
	}
}

func TestRemovingDuplicateKeepsEntry(t *testing.T) {
	a := newArena(t, "Alice", "Bob", "Alice")

	if err := a.RemovePlayer(2); err != nil {
		t.Fatal(err)
	}

	if _, ok := a.Leaderboard().Wins("Alice"); !ok {
		t.Fatal("every roster name must stay on the leaderboard")
	}
}

func TestRecordWinner(t *testing.T) {
	a := newArena(t, "Alice", "Bob", "Carol")

	if !a.RecordWinner("Bob") {
		t.Fatal("expected Bob to be credited")
	}
	if a.RecordWinner("Zed") {
		t.Fatal("expected unknown name to be ignored")
	}

	if wins, _ := a.Leaderboard().Wins("Bob"); wins != 1 {
		t.Fatalf("expected 1 win, got %d", wins)
	}
	if _, ok := a.Leaderboard().Wins("Zed"); ok {
		t.Fatal("expected no entry for an unknown winner")
	}

	got, _ := a.Current()
	if got != (Pairing{"Bob", "Carol"}) {
		t.Fatalf("expected two advances, got %v", got)
	}
}

func TestResetAbandonsWithoutResult(t *testing.T) {
	obs := &fakeObserver{}
	a := New(WithObserver(obs))
	for _, name := range []string{"Alice", "Bob"} {
		if err := a.AddPlayer(name); err != nil {
			t.Fatal(err)
		}
	}

	if err := a.Start(); err != nil {
		t.Fatal(err)
	}
	play(t, a, [2]int{2, 2})

	a.Reset()

	if a.Status() != StatusArmed || a.Board() != (Board{}) {
		t.Fatalf("expected a cleared armed session, got %s %v", a.Status(), a.Board())
	}
	if len(obs.abandoned) != 1 || len(obs.finished) != 0 {
		t.Fatalf("unexpected observer calls: %+v", obs)
	}
}
