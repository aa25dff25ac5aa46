/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package arena

import "slices"

// Scheduler cycles through the round-robin pairings of the roster.
//
// The zero value is the no-roster state: no pairings and no current match.
type Scheduler struct {
	pairings []Pairing
	cursor   int
}

// RosterChanged rebuilds the pairing list from roster.
//
// Normally the cursor returns to the first pairing. If the pairing that was
// selected before the change references a name that is no longer in roster,
// the scheduler instead moves to the pairing after the previous cursor
// position in the rebuilt list, wrapping to zero, and reports the repair so
// the caller can abandon the match in progress. The rebuilt list is shorter
// than the old one, so the repaired position may skip or repeat pairs of the
// old rotation.
func (s *Scheduler) RosterChanged(roster []string) (repaired bool) {
	previous, hadPrevious := s.Current()
	previousCursor := s.cursor

	s.pairings = GeneratePairings(roster)
	s.cursor = 0

	if !hadPrevious {
		return false
	}

	if slices.Contains(roster, previous.First) && slices.Contains(roster, previous.Second) {
		return false
	}

	if len(s.pairings) > 0 {
		s.cursor = (previousCursor + 1) % len(s.pairings)
	}

	return true
}

// Advance moves to the next pairing, wrapping after the last one.
func (s *Scheduler) Advance() {
	if len(s.pairings) == 0 {
		return
	}

	s.cursor = (s.cursor + 1) % len(s.pairings)
}

// Current returns the selected pairing, if any.
func (s *Scheduler) Current() (Pairing, bool) {
	if s.cursor < 0 || s.cursor >= len(s.pairings) {
		return Pairing{}, false
	}

	return s.pairings[s.cursor], true
}

// Cursor returns the index of the selected pairing, or -1 when there is none.
func (s *Scheduler) Cursor() int {
	if len(s.pairings) == 0 {
		return -1
	}

	return s.cursor
}

// Pairings returns a copy of the full rotation.
func (s *Scheduler) Pairings() []Pairing {
	return slices.Clone(s.pairings)
}
