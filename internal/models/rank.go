package models

import "strings"

// DefaultRank is assigned when a join or promotion supplies no rank.
const DefaultRank = "Member"

// ProbationRank is the entry rank subject to the one-month reminder.
const ProbationRank = "Neophyte"

// RankOrder is the fixed rank hierarchy, highest authority first.
// Labels outside this list are valid but sort after all known ranks.
var RankOrder = []string{
	"Vanguard Supreme",
	"Phantom Leader",
	"Phantom Regent",
	"Night Council",
	"Black Sigil",
	"Honorary",
	"Spectre",
	"Revenant",
	"Vantage",
	"Dagger",
	"Neophyte",
}

// RankIndex returns the hierarchy position of a rank label,
// case-insensitively. Unknown ranks return len(RankOrder).
func RankIndex(rank string) int {
	for i, r := range RankOrder {
		if strings.EqualFold(r, rank) {
			return i
		}
	}
	return len(RankOrder)
}

// CompareRanks orders two rank labels by hierarchy position: negative
// when a outranks b, positive when b outranks a, zero when equal.
// Unknown ranks compare after every known rank.
func CompareRanks(a, b string) int {
	return RankIndex(a) - RankIndex(b)
}
