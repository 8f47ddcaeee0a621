package bigquery

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// TableURIScheme prefixes table references such as bq://project/dataset/table.
const TableURIScheme = "bq://"

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// TableRef identifies a BigQuery table.
type TableRef struct {
	Project string
	Dataset string
	Table   string
}

// String returns the fully qualified, quoted table name.
func (t TableRef) String() string {
	return fmt.Sprintf("`%s.%s.%s`", t.Project, t.Dataset, t.Table)
}

// ParseTableURI parses bq://project/dataset/table.
// An empty project segment (bq:///dataset/table) falls back to defaultProject.
func ParseTableURI(uri, defaultProject string) (TableRef, error) {
	if !strings.HasPrefix(uri, TableURIScheme) {
		return TableRef{}, fmt.Errorf("invalid BigQuery URI: %s", uri)
	}

	parts := strings.Split(strings.TrimPrefix(uri, TableURIScheme), "/")
	if len(parts) != 3 {
		return TableRef{}, fmt.Errorf("invalid BigQuery URI (want bq://project/dataset/table): %s", uri)
	}

	ref := TableRef{Project: parts[0], Dataset: parts[1], Table: parts[2]}
	if ref.Project == "" {
		ref.Project = defaultProject
	}
	for _, id := range []string{ref.Project, ref.Dataset, ref.Table} {
		if !identifierPattern.MatchString(id) {
			return TableRef{}, fmt.Errorf("invalid BigQuery identifier %q in %s", id, uri)
		}
	}

	return ref, nil
}

// TransactionRow is one charging record as stored in BigQuery.
// Columns are cast to STRING by the query so that any column type loads.
type TransactionRow struct {
	Date                      bigquery.NullString `bigquery:"date"`
	FromWallet                bigquery.NullString `bigquery:"from_wallet"`
	ToWallet                  bigquery.NullString `bigquery:"to_wallet"`
	TransactionType           bigquery.NullString `bigquery:"transaction_type"`
	Channel                   bigquery.NullString `bigquery:"channel"`
	TransactionAmount         bigquery.NullString `bigquery:"transaction_amount"`
	AmountCredited            bigquery.NullString `bigquery:"amount_credited"`
	Charges                   bigquery.NullString `bigquery:"charges"`
	TransactionID             bigquery.NullString `bigquery:"transaction_ID"`
	TransactionReference      bigquery.NullString `bigquery:"transaction_reference"`
	CouponAmount              bigquery.NullString `bigquery:"coupon_amount"`
	AmountAfterCouponDiscount bigquery.NullString `bigquery:"amount_after_coupon_discount"`
	CashbackAmount            bigquery.NullString `bigquery:"cashback_amount"`
	TransactionStatus         bigquery.NullString `bigquery:"transaction_status"`
}

// PlayRow is one quiz round as stored in BigQuery.
type PlayRow struct {
	ID             bigquery.NullString `bigquery:"id"`
	MSISDN         bigquery.NullString `bigquery:"msisdn"`
	TimeTaken      bigquery.NullString `bigquery:"time_taken"`
	RoundNumber    bigquery.NullString `bigquery:"round_number"`
	RightCount     bigquery.NullString `bigquery:"right_count"`
	EventID        bigquery.NullString `bigquery:"event_id"`
	Date           bigquery.NullString `bigquery:"date"`
	CreatedAt      bigquery.NullString `bigquery:"created_at"`
	Sync           bigquery.NullString `bigquery:"sync"`
	UpdatedAt      bigquery.NullString `bigquery:"updated_at"`
	QuestionCount  bigquery.NullString `bigquery:"question_count"`
	RoundQuestions bigquery.NullString `bigquery:"round_questions"`
	PaymentStatus  bigquery.NullString `bigquery:"paymentStatus"`
	Amount         bigquery.NullString `bigquery:"amount"`
	Payer          bigquery.NullString `bigquery:"payer"`
	ServiceType    bigquery.NullString `bigquery:"serviceType"`
	PortalID       bigquery.NullString `bigquery:"portal_id"`
}

// TransactionColumns lists the charging table columns in table order.
var TransactionColumns = []string{
	"date", "from_wallet", "to_wallet", "transaction_type", "channel",
	"transaction_amount", "amount_credited", "charges", "transaction_ID",
	"transaction_reference", "coupon_amount", "amount_after_coupon_discount",
	"cashback_amount", "transaction_status",
}

// PlayColumns lists the player table columns in table order.
var PlayColumns = []string{
	"id", "msisdn", "time_taken", "round_number", "right_count", "event_id",
	"date", "created_at", "sync", "updated_at", "question_count",
	"round_questions", "paymentStatus", "amount", "payer", "serviceType",
	"portal_id",
}

// selectQuery reads every listed column of ref as STRING.
func selectQuery(ref TableRef, columns []string) string {
	casts := make([]string, len(columns))
	for i, col := range columns {
		casts[i] = fmt.Sprintf("CAST(%s AS STRING) AS %s", col, col)
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(casts, ", "), ref)
}

// ListTransactions reads every row of a charging table.
func ListTransactions(ctx context.Context, ref TableRef) ([]TransactionRow, error) {
	client, err := bigquery.NewClient(ctx, ref.Project)
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: bigquery client: %w", err)
	}
	defer client.Close()

	return ListTransactionsWithClient(ctx, client, ref)
}

// ListTransactionsWithClient reads every row of a charging table using the provided client.
func ListTransactionsWithClient(ctx context.Context, client *bigquery.Client, ref TableRef) ([]TransactionRow, error) {
	q := client.Query(selectQuery(ref, TransactionColumns))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: query read: %w", err)
	}

	var rows []TransactionRow
	for {
		var r TransactionRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListTransactions: iter next: %w", err)
		}
		rows = append(rows, r)
	}

	return rows, nil
}

// ListPlays reads every row of a player table.
func ListPlays(ctx context.Context, ref TableRef) ([]PlayRow, error) {
	client, err := bigquery.NewClient(ctx, ref.Project)
	if err != nil {
		return nil, fmt.Errorf("ListPlays: bigquery client: %w", err)
	}
	defer client.Close()

	return ListPlaysWithClient(ctx, client, ref)
}

// ListPlaysWithClient reads every row of a player table using the provided client.
func ListPlaysWithClient(ctx context.Context, client *bigquery.Client, ref TableRef) ([]PlayRow, error) {
	q := client.Query(selectQuery(ref, PlayColumns))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListPlays: query read: %w", err)
	}

	var rows []PlayRow
	for {
		var r PlayRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListPlays: iter next: %w", err)
		}
		rows = append(rows, r)
	}

	return rows, nil
}
