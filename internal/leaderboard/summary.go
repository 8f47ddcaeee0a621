package leaderboard

import "github.com/shopspring/decimal"

// Summary is the headline figures shown above a leaderboard.
type Summary struct {
	Players         int     `json:"players"`
	Revenue         float64 `json:"revenue"`
	Questions       int     `json:"questions"`
	AverageAccuracy float64 `json:"averageAccuracy"`
}

// Summarize reduces a leaderboard into its headline figures.
// Revenue is summed from each user's exact amount when it is set.
// The average accuracy of an empty leaderboard is 0.
func Summarize(users []MatchedUser) Summary {
	s := Summary{Players: len(users)}
	if len(users) == 0 {
		return s
	}

	revenue := decimal.Zero
	var accuracy float64
	for _, u := range users {
		revenue = revenue.Add(exactAmount(u))
		s.Questions += u.TotalQuestions
		accuracy += u.Accuracy
	}
	s.Revenue = revenue.InexactFloat64()
	s.AverageAccuracy = accuracy / float64(len(users))

	return s
}

func exactAmount(u MatchedUser) decimal.Decimal {
	if u.ExactAmount.IsZero() {
		return decimal.NewFromFloat(u.TotalAmount)
	}
	return u.ExactAmount
}
