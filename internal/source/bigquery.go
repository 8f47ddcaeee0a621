package source

import (
	"context"

	"cloud.google.com/go/bigquery"

	infraBQ "github.com/dvloznov/quiz-leaderboard/internal/infra/bigquery"
	"github.com/dvloznov/quiz-leaderboard/internal/leaderboard"
)

// BigQueryFetcher reads datasets from BigQuery tables addressed as
// bq://project/dataset/table.
type BigQueryFetcher struct {
	// DefaultProject is used when the URI omits the project.
	DefaultProject string
}

// FetchTransactions implements Fetcher.
func (f BigQueryFetcher) FetchTransactions(ctx context.Context, uri string) ([]leaderboard.TransactionRecord, error) {
	ref, err := infraBQ.ParseTableURI(uri, f.DefaultProject)
	if err != nil {
		return nil, err
	}

	rows, err := infraBQ.ListTransactions(ctx, ref)
	if err != nil {
		return nil, err
	}

	txs := make([]leaderboard.TransactionRecord, 0, len(rows))
	for _, r := range rows {
		txs = append(txs, transactionFromRow(r))
	}
	return txs, nil
}

// FetchPlays implements Fetcher.
func (f BigQueryFetcher) FetchPlays(ctx context.Context, uri string) ([]leaderboard.PlayRecord, error) {
	ref, err := infraBQ.ParseTableURI(uri, f.DefaultProject)
	if err != nil {
		return nil, err
	}

	rows, err := infraBQ.ListPlays(ctx, ref)
	if err != nil {
		return nil, err
	}

	plays := make([]leaderboard.PlayRecord, 0, len(rows))
	for _, r := range rows {
		plays = append(plays, playFromRow(r))
	}
	return plays, nil
}

func transactionFromRow(r infraBQ.TransactionRow) leaderboard.TransactionRecord {
	return leaderboard.TransactionRecord{
		Date:                      text(r.Date),
		FromWallet:                text(r.FromWallet),
		ToWallet:                  text(r.ToWallet),
		TransactionType:           text(r.TransactionType),
		Channel:                   text(r.Channel),
		TransactionAmount:         text(r.TransactionAmount),
		AmountCredited:            text(r.AmountCredited),
		Charges:                   text(r.Charges),
		TransactionID:             text(r.TransactionID),
		TransactionReference:      text(r.TransactionReference),
		CouponAmount:              text(r.CouponAmount),
		AmountAfterCouponDiscount: text(r.AmountAfterCouponDiscount),
		CashbackAmount:            text(r.CashbackAmount),
		TransactionStatus:         text(r.TransactionStatus),
	}
}

func playFromRow(r infraBQ.PlayRow) leaderboard.PlayRecord {
	return leaderboard.PlayRecord{
		ID:             text(r.ID),
		MSISDN:         text(r.MSISDN),
		TimeTaken:      text(r.TimeTaken),
		RoundNumber:    text(r.RoundNumber),
		RightCount:     text(r.RightCount),
		EventID:        text(r.EventID),
		Date:           text(r.Date),
		CreatedAt:      text(r.CreatedAt),
		Sync:           text(r.Sync),
		UpdatedAt:      text(r.UpdatedAt),
		QuestionCount:  text(r.QuestionCount),
		RoundQuestions: text(r.RoundQuestions),
		PaymentStatus:  text(r.PaymentStatus),
		Amount:         text(r.Amount),
		Payer:          text(r.Payer),
		ServiceType:    text(r.ServiceType),
		PortalID:       text(r.PortalID),
	}
}

func text(s bigquery.NullString) leaderboard.Text {
	if !s.Valid {
		return ""
	}
	return leaderboard.Text(s.StringVal)
}
