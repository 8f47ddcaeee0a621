// Package leaderboard turns raw payment transactions and quiz play records into
// ranked leaderboards of players who both played and paid.
//
// Players and payers share no key. A player is linked to a wallet through
// WalletID, repeated records are aggregated per wallet and per player, and the
// matched players are ranked by accuracy with near-ties broken by spend.
// Everything here is pure: no I/O, no shared state between calls.
package leaderboard

// BuildFlat produces a single leaderboard over all play records.
func BuildFlat(txs []TransactionRecord, plays []PlayRecord) []MatchedUser {
	users := Match(Aggregate(txs), GroupByPlayer(plays))
	Rank(users)
	return users
}

// CategoryBoard holds one leaderboard per catalog category.
type CategoryBoard struct {
	Categories   Catalog                  `json:"categories"`
	Leaderboards map[string][]MatchedUser `json:"leaderboards"`
	TotalUsers   int                      `json:"totalUsers"`
}

// BuildByCategory produces one leaderboard per catalog category.
// Every category is present in the result, empty when nobody matched.
func BuildByCategory(txs []TransactionRecord, plays []PlayRecord, catalog Catalog) CategoryBoard {
	wallets := Aggregate(txs)
	groups := GroupByCategory(plays, catalog)

	board := CategoryBoard{
		Categories:   catalog,
		Leaderboards: make(map[string][]MatchedUser, len(catalog)),
	}
	for _, cat := range catalog {
		users := Match(wallets, groups[cat.ID])
		Rank(users)
		board.Leaderboards[cat.ID] = users
		board.TotalUsers += len(users)
	}

	return board
}

// Board returns the leaderboard of one category.
func (b CategoryBoard) Board(categoryID string) ([]MatchedUser, bool) {
	users, ok := b.Leaderboards[categoryID]
	return users, ok
}
