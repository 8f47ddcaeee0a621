// Package source retrieves the transaction and player datasets the leaderboard
// is built from.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/quiz-leaderboard/internal/leaderboard"
)

// ErrRetrieval marks any failure to retrieve or decode an input dataset.
var ErrRetrieval = errors.New("failed to fetch data")

// Fetcher retrieves one dataset from a URI.
type Fetcher interface {
	FetchTransactions(ctx context.Context, uri string) ([]leaderboard.TransactionRecord, error)
	FetchPlays(ctx context.Context, uri string) ([]leaderboard.PlayRecord, error)
}

// BlobReader returns the raw bytes stored behind a URI.
type BlobReader interface {
	ReadBlob(ctx context.Context, uri string) ([]byte, error)
}

// JSONFetcher decodes JSON arrays of records read through a BlobReader.
type JSONFetcher struct {
	Reader BlobReader
}

// FetchTransactions implements Fetcher.
func (f JSONFetcher) FetchTransactions(ctx context.Context, uri string) ([]leaderboard.TransactionRecord, error) {
	var txs []leaderboard.TransactionRecord
	if err := f.fetch(ctx, uri, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// FetchPlays implements Fetcher.
func (f JSONFetcher) FetchPlays(ctx context.Context, uri string) ([]leaderboard.PlayRecord, error) {
	var plays []leaderboard.PlayRecord
	if err := f.fetch(ctx, uri, &plays); err != nil {
		return nil, err
	}
	return plays, nil
}

func (f JSONFetcher) fetch(ctx context.Context, uri string, dst any) error {
	data, err := f.Reader.ReadBlob(ctx, uri)
	if err != nil {
		return err
	}
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", uri, err)
	}
	return nil
}

// Loader retrieves both datasets together.
type Loader struct {
	fetcher         Fetcher
	transactionsURI string
	playsURI        string
	timeout         time.Duration
}

// NewLoader creates a loader for the given dataset locations.
// A zero timeout leaves the caller's context deadline in charge.
func NewLoader(fetcher Fetcher, transactionsURI, playsURI string, timeout time.Duration) *Loader {
	return &Loader{
		fetcher:         fetcher,
		transactionsURI: transactionsURI,
		playsURI:        playsURI,
		timeout:         timeout,
	}
}

// Load fetches both datasets concurrently and returns once both are complete.
// Any failure cancels the other fetch and is reported as a single error
// wrapping ErrRetrieval; partial data is never returned.
func (l *Loader) Load(ctx context.Context) ([]leaderboard.TransactionRecord, []leaderboard.PlayRecord, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	var (
		txs   []leaderboard.TransactionRecord
		plays []leaderboard.PlayRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = l.fetcher.FetchTransactions(gctx, l.transactionsURI)
		if err != nil {
			return fmt.Errorf("transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		plays, err = l.fetcher.FetchPlays(gctx, l.playsURI)
		if err != nil {
			return fmt.Errorf("players: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	return txs, plays, nil
}
