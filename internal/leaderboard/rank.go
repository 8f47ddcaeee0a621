package leaderboard

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

// AccuracyTieBand is the accuracy difference, in percentage points, under which two
// players are considered tied and ordered by spend instead.
const AccuracyTieBand = 0.1

// Compare orders a before b when it returns a negative number.
// Accuracy decides unless the two are within AccuracyTieBand, in which case the
// larger total amount wins.
func Compare(a, b MatchedUser) int {
	if math.Abs(a.Accuracy-b.Accuracy) > AccuracyTieBand {
		return cmp.Compare(b.Accuracy, a.Accuracy)
	}
	return cmp.Compare(b.TotalAmount, a.TotalAmount)
}

// Rank sorts users in place for display.
//
// Compare is not transitive across tie bands, so a plain sort could leave
// neighbours out of order. Users are first sorted by a strict key, which keeps
// the output deterministic, and then settled with an insertion pass using
// Compare so that every adjacent pair satisfies it.
func Rank(users []MatchedUser) {
	slices.SortStableFunc(users, func(a, b MatchedUser) int {
		if c := cmp.Compare(b.Accuracy, a.Accuracy); c != 0 {
			return c
		}
		if c := cmp.Compare(b.TotalAmount, a.TotalAmount); c != 0 {
			return c
		}
		if c := strings.Compare(a.MSISDN, b.MSISDN); c != 0 {
			return c
		}
		return strings.Compare(a.EventID, b.EventID)
	})

	for i := 1; i < len(users); i++ {
		for j := i; j > 0 && Compare(users[j], users[j-1]) < 0; j-- {
			users[j], users[j-1] = users[j-1], users[j]
		}
	}
}
