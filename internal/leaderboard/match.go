package leaderboard

import "math"

// Match joins player groups to wallet aggregates through WalletID.
// Groups without a wallet are dropped. The result is not ranked.
func Match(wallets *Wallets, groups []PlayerGroup) []MatchedUser {
	users := make([]MatchedUser, 0, len(groups))
	for _, g := range groups {
		wallet := WalletID(g.MSISDN)
		agg, ok := wallets.Lookup(wallet)
		if !ok {
			continue
		}
		users = append(users, matchGroup(g, wallet, agg))
	}
	return users
}

func matchGroup(g PlayerGroup, wallet string, agg WalletAggregate) MatchedUser {
	var (
		right, questions int
		timeSum, timed   int
		serviceType      = NotAvailable
		lastActivity     = agg.LastActivity
	)

	for _, rec := range g.Records {
		right += ParseInt(rec.RightCount.String())
		questions += ParseInt(rec.QuestionCount.String())

		if t := ParseInt(rec.TimeTaken.String()); t > 0 {
			timeSum += t
			timed++
		}

		if st := rec.ServiceType.String(); st != "" && st != NotAvailable {
			serviceType = st
		}

		if created := rec.CreatedAt.String(); created > lastActivity {
			lastActivity = created
		}
	}

	return MatchedUser{
		MSISDN:            g.MSISDN,
		Wallet:            wallet,
		TotalAmount:       agg.TotalAmount.InexactFloat64(),
		TotalTransactions: agg.Transactions,
		RightAnswers:      right,
		TotalQuestions:    questions,
		Accuracy:          Accuracy(right, questions),
		TimeTaken:         meanRounded(timeSum, timed),
		LastActivity:      lastActivity,
		ServiceType:       serviceType,
		EventID:           g.EventID,
		ExactAmount:       agg.TotalAmount,
	}
}

// Accuracy is the percentage of questions answered correctly, or 0 without questions.
// It is not clamped when the source reports more right answers than questions.
func Accuracy(right, questions int) float64 {
	if questions <= 0 {
		return 0
	}
	return float64(right) / float64(questions) * 100
}

func meanRounded(sum, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}
