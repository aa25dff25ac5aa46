/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package arena

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

// Standing is a single leaderboard row.
type Standing struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// Leaderboard maps player names to their win counts.
type Leaderboard struct {
	wins map[string]int
}

func NewLeaderboard() *Leaderboard {
	return &Leaderboard{
		wins: make(map[string]int),
	}
}

// Ensure adds name with zero wins unless it is already present.
func (l *Leaderboard) Ensure(name string) {
	if _, ok := l.wins[name]; !ok {
		l.wins[name] = 0
	}
}

// RecordWin ensures every participant has an entry, then credits winner.
// An empty winner (draw or aborted match) only runs the ensure step.
func (l *Leaderboard) RecordWin(winner string, participants []string) {
	for _, p := range participants {
		l.Ensure(p)
	}

	if winner == "" {
		return
	}

	l.wins[winner]++
}

// Rename moves the count of oldName to newName, replacing whatever newName
// held. If oldName is unknown, newName starts at zero.
func (l *Leaderboard) Rename(oldName, newName string) {
	wins, ok := l.wins[oldName]
	if !ok {
		l.wins[newName] = 0

		return
	}

	delete(l.wins, oldName)
	l.wins[newName] = wins
}

func (l *Leaderboard) Remove(name string) {
	delete(l.wins, name)
}

// Wins returns the count for name and whether it is on the board.
func (l *Leaderboard) Wins(name string) (int, bool) {
	wins, ok := l.wins[name]

	return wins, ok
}

func (l *Leaderboard) Len() int {
	return len(l.wins)
}

// Ranked yields standings by wins descending, then name ascending.
// The order is computed when iteration starts.
func (l *Leaderboard) Ranked() iter.Seq[Standing] {
	return func(yield func(Standing) bool) {
		names := slices.Sorted(maps.Keys(l.wins))

		slices.SortStableFunc(names, func(a, b string) int {
			return cmp.Compare(l.wins[b], l.wins[a])
		})

		for _, name := range names {
			if !yield(Standing{Name: name, Wins: l.wins[name]}) {
				return
			}
		}
	}
}
