/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package arena

// Pairing is one scheduled match. First plays X, Second plays O.
type Pairing struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// Has reports whether name is one of the two players.
func (p Pairing) Has(name string) bool {
	return p.First == name || p.Second == name
}

// Names returns the pairing as a two-element slice.
func (p Pairing) Names() []string {
	return []string{p.First, p.Second}
}

// GeneratePairings returns every unordered pair of the roster, enumerated
// with i < j in roster order. Rosters with fewer than two players yield nil.
func GeneratePairings(roster []string) []Pairing {
	n := len(roster)
	if n < 2 {
		return nil
	}

	pairings := make([]Pairing, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairings = append(pairings, Pairing{First: roster[i], Second: roster[j]})
		}
	}

	return pairings
}
