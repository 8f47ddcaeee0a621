package leaderboard

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAggregate(t *testing.T) {
	txs := []TransactionRecord{
		{Date: "2025-06-24 09:00:00", FromWallet: "01711000000", TransactionAmount: "100.50"},
		{Date: "2025-06-26 12:00:00", FromWallet: "01822000000", TransactionAmount: "1,000"},
		{Date: "2025-06-25 08:30:00", FromWallet: "01711000000", TransactionAmount: "20"},
		{Date: "2025-06-23 23:59:59", FromWallet: "01711000000", TransactionAmount: "0.25"},
	}

	wallets := Aggregate(txs)

	if wallets.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", wallets.Len())
	}

	agg, ok := wallets.Lookup("01711000000")
	if !ok {
		t.Fatal("expected aggregate for 01711000000")
	}
	if !agg.TotalAmount.Equal(decimal.RequireFromString("120.75")) {
		t.Errorf("TotalAmount = %s, want 120.75", agg.TotalAmount)
	}
	if agg.Transactions != 3 {
		t.Errorf("Transactions = %d, want 3", agg.Transactions)
	}
	if agg.LastActivity != "2025-06-25 08:30:00" {
		t.Errorf("LastActivity = %q, want the latest date", agg.LastActivity)
	}

	other, _ := wallets.Lookup("01822000000")
	if !other.TotalAmount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("TotalAmount = %s, want 1000", other.TotalAmount)
	}

	all := wallets.All()
	if len(all) != 2 || all[0].Wallet != "01711000000" || all[1].Wallet != "01822000000" {
		t.Errorf("All() order = %+v, want first-seen order", all)
	}
}

func TestAggregate_UnparseableAmountCountsAsZero(t *testing.T) {
	txs := []TransactionRecord{
		{Date: "2025-06-24", FromWallet: "01711000000", TransactionAmount: "50"},
		{Date: "2025-06-25", FromWallet: "01711000000", TransactionAmount: "n/a"},
		{Date: "2025-06-26", FromWallet: "01711000000", TransactionAmount: ""},
	}

	agg, ok := Aggregate(txs).Lookup("01711000000")
	if !ok {
		t.Fatal("expected aggregate")
	}
	if !agg.TotalAmount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("TotalAmount = %s, want 50", agg.TotalAmount)
	}
	if agg.Transactions != 3 {
		t.Errorf("Transactions = %d, want 3: unparseable amounts still count", agg.Transactions)
	}
	if agg.LastActivity != "2025-06-26" {
		t.Errorf("LastActivity = %q, want 2025-06-26", agg.LastActivity)
	}
}

func TestAggregate_Empty(t *testing.T) {
	wallets := Aggregate(nil)
	if wallets.Len() != 0 {
		t.Errorf("Len() = %d, want 0", wallets.Len())
	}
	if _, ok := wallets.Lookup("0"); ok {
		t.Error("Lookup on empty aggregate should miss")
	}
}
