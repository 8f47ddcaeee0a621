package leaderboard

// Wallets is the transaction dataset aggregated per paying wallet.
// It remembers the order in which wallets were first seen.
type Wallets struct {
	byID  map[string]*WalletAggregate
	order []string
}

// Aggregate groups transactions by source wallet, summing amounts and counting
// transactions. A transaction whose amount cannot be parsed adds nothing to the
// total but still counts as a transaction.
func Aggregate(txs []TransactionRecord) *Wallets {
	w := &Wallets{byID: make(map[string]*WalletAggregate)}

	for _, tx := range txs {
		id := tx.FromWallet.String()
		date := tx.Date.String()

		agg, ok := w.byID[id]
		if !ok {
			agg = &WalletAggregate{Wallet: id, LastActivity: date}
			w.byID[id] = agg
			w.order = append(w.order, id)
		}

		agg.TotalAmount = agg.TotalAmount.Add(ParseAmount(tx.TransactionAmount.String()))
		agg.Transactions++
		if date > agg.LastActivity {
			agg.LastActivity = date
		}
	}

	return w
}

// Lookup returns the aggregate for a wallet.
func (w *Wallets) Lookup(wallet string) (WalletAggregate, bool) {
	agg, ok := w.byID[wallet]
	if !ok {
		return WalletAggregate{}, false
	}
	return *agg, true
}

// Len returns the number of distinct wallets.
func (w *Wallets) Len() int {
	return len(w.order)
}

// All returns every aggregate in first-seen order.
func (w *Wallets) All() []WalletAggregate {
	out := make([]WalletAggregate, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, *w.byID[id])
	}
	return out
}
