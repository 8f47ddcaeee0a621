package source

import (
	"context"
	"net/http"
	"strings"

	infraBQ "github.com/dvloznov/quiz-leaderboard/internal/infra/bigquery"
	"github.com/dvloznov/quiz-leaderboard/internal/leaderboard"
)

// Router dispatches each URI to the fetcher for its scheme:
// http(s)://, gs://, bq:// and, for anything else, the local filesystem.
type Router struct {
	HTTP     Fetcher
	GCS      Fetcher
	BigQuery Fetcher
	File     Fetcher
}

// NewRouter creates a router backed by the standard readers.
func NewRouter(client *http.Client, bigQueryProject string) *Router {
	return &Router{
		HTTP:     JSONFetcher{Reader: NewHTTPReader(client)},
		GCS:      JSONFetcher{Reader: GCSReader{}},
		BigQuery: BigQueryFetcher{DefaultProject: bigQueryProject},
		File:     JSONFetcher{Reader: FileReader{}},
	}
}

// FetchTransactions implements Fetcher.
func (r *Router) FetchTransactions(ctx context.Context, uri string) ([]leaderboard.TransactionRecord, error) {
	return r.fetcherFor(uri).FetchTransactions(ctx, uri)
}

// FetchPlays implements Fetcher.
func (r *Router) FetchPlays(ctx context.Context, uri string) ([]leaderboard.PlayRecord, error) {
	return r.fetcherFor(uri).FetchPlays(ctx, uri)
}

func (r *Router) fetcherFor(uri string) Fetcher {
	switch {
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return r.HTTP
	case strings.HasPrefix(uri, "gs://"):
		return r.GCS
	case strings.HasPrefix(uri, infraBQ.TableURIScheme):
		return r.BigQuery
	default:
		return r.File
	}
}

var _ Fetcher = (*Router)(nil)
var _ Fetcher = JSONFetcher{}
var _ Fetcher = BigQueryFetcher{}
