/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package arena

// Snapshot is a read-only view of the whole arena, shaped for JSON clients.
type Snapshot struct {
	Players     []string     `json:"players"`
	Pairings    []Pairing    `json:"pairings"`
	Cursor      int          `json:"cursor"`
	Current     *Pairing     `json:"current,omitempty"`
	Status      Status       `json:"status"`
	Turn        string       `json:"turn,omitempty"`
	Winner      string       `json:"winner,omitempty"`
	Board       [3][3]string `json:"board"`
	Leaderboard []Standing   `json:"leaderboard"`
}

func (a *Arena) Snapshot() Snapshot {
	snap := Snapshot{
		Players:     append([]string{}, a.roster.Names()...),
		Pairings:    append([]Pairing{}, a.scheduler.Pairings()...),
		Cursor:      a.scheduler.Cursor(),
		Status:      a.session.Status(),
		Turn:        a.session.Turn(),
		Winner:      a.session.Winner(),
		Board:       a.session.Board().Strings(),
		Leaderboard: make([]Standing, 0, a.leaderboard.Len()),
	}

	if p, ok := a.scheduler.Current(); ok {
		snap.Current = &p
	}

	for s := range a.leaderboard.Ranked() {
		snap.Leaderboard = append(snap.Leaderboard, s)
	}

	return snap
}
