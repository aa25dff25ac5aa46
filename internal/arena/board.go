/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package arena

// Symbol is the content of a single board cell.
type Symbol uint8

const (
	Empty Symbol = iota
	X
	O
)

func (s Symbol) String() string {
	switch s {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Board is a 3x3 grid indexed as [row][col].
type Board [3][3]Symbol

// lines holds every row, column and diagonal of the board.
var lines = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// HasWon reports whether all three cells of any line hold s.
func HasWon(b Board, s Symbol) bool {
	if s == Empty {
		return false
	}

	for _, line := range lines {
		if b[line[0][0]][line[0][1]] == s &&
			b[line[1][0]][line[1][1]] == s &&
			b[line[2][0]][line[2][1]] == s {
			return true
		}
	}

	return false
}

// Full reports whether no empty cell remains.
func (b Board) Full() bool {
	for r := range b {
		for c := range b[r] {
			if b[r][c] == Empty {
				return false
			}
		}
	}

	return true
}

func inBounds(row, col int) bool {
	return row >= 0 && row < 3 && col >= 0 && col < 3
}

// Strings renders the board for JSON views, with "" for empty cells.
func (b Board) Strings() [3][3]string {
	var out [3][3]string
	for r := range b {
		for c := range b[r] {
			out[r][c] = b[r][c].String()
		}
	}

	return out
}
