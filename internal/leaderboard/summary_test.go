package leaderboard

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSummarize(t *testing.T) {
	users := []MatchedUser{
		{TotalAmount: 100.5, TotalQuestions: 10, Accuracy: 70},
		{TotalAmount: 0.1, TotalQuestions: 20, Accuracy: 95},
		{TotalAmount: 0.2, TotalQuestions: 5, Accuracy: 40},
	}

	s := Summarize(users)

	if s.Players != 3 {
		t.Errorf("Players = %d, want 3", s.Players)
	}
	if s.Revenue != 100.8 {
		t.Errorf("Revenue = %v, want 100.8", s.Revenue)
	}
	if s.Questions != 35 {
		t.Errorf("Questions = %d, want 35", s.Questions)
	}
	if !almostEqual(s.AverageAccuracy, 205.0/3) {
		t.Errorf("AverageAccuracy = %v, want %v", s.AverageAccuracy, 205.0/3)
	}
}

func TestSummarize_ExactRevenue(t *testing.T) {
	txs := []TransactionRecord{
		{FromWallet: "01711000000", TransactionAmount: "0.1"},
		{FromWallet: "01822000000", TransactionAmount: "0.2"},
		{FromWallet: "01933000000", TransactionAmount: "1,000,000.07"},
	}
	plays := []PlayRecord{
		{MSISDN: "1711000000", RightCount: "1", QuestionCount: "1"},
		{MSISDN: "1822000000", RightCount: "1", QuestionCount: "1"},
		{MSISDN: "1933000000", RightCount: "1", QuestionCount: "1"},
	}

	users := BuildFlat(txs, plays)
	for _, u := range users {
		if u.ExactAmount.IsZero() {
			t.Errorf("%s: ExactAmount not set", u.MSISDN)
		}
	}

	s := Summarize(users)
	want, _ := decimal.RequireFromString("1000000.37").Float64()
	if s.Revenue != want {
		t.Errorf("Revenue = %v, want %v", s.Revenue, want)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s != (Summary{}) {
		t.Errorf("Summarize(nil) = %+v, want zero summary", s)
	}
}
