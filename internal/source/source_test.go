package source

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dvloznov/quiz-leaderboard/internal/leaderboard"
)

// mockFetcher is a mock Fetcher for testing.
type mockFetcher struct {
	FetchTransactionsFunc func(ctx context.Context, uri string) ([]leaderboard.TransactionRecord, error)
	FetchPlaysFunc        func(ctx context.Context, uri string) ([]leaderboard.PlayRecord, error)
}

func (m *mockFetcher) FetchTransactions(ctx context.Context, uri string) ([]leaderboard.TransactionRecord, error) {
	if m.FetchTransactionsFunc != nil {
		return m.FetchTransactionsFunc(ctx, uri)
	}
	return nil, nil
}

func (m *mockFetcher) FetchPlays(ctx context.Context, uri string) ([]leaderboard.PlayRecord, error) {
	if m.FetchPlaysFunc != nil {
		return m.FetchPlaysFunc(ctx, uri)
	}
	return nil, nil
}

// mockBlobReader is a mock BlobReader for testing.
type mockBlobReader struct {
	ReadBlobFunc func(ctx context.Context, uri string) ([]byte, error)
}

func (m *mockBlobReader) ReadBlob(ctx context.Context, uri string) ([]byte, error) {
	return m.ReadBlobFunc(ctx, uri)
}

func TestLoader_Load(t *testing.T) {
	fetcher := &mockFetcher{
		FetchTransactionsFunc: func(ctx context.Context, uri string) ([]leaderboard.TransactionRecord, error) {
			if uri != "tx.json" {
				t.Errorf("transactions uri = %q", uri)
			}
			return []leaderboard.TransactionRecord{{FromWallet: "01711000000"}}, nil
		},
		FetchPlaysFunc: func(ctx context.Context, uri string) ([]leaderboard.PlayRecord, error) {
			if uri != "plays.json" {
				t.Errorf("plays uri = %q", uri)
			}
			return []leaderboard.PlayRecord{{MSISDN: "1711000000"}, {MSISDN: "1822000000"}}, nil
		},
	}

	txs, plays, err := NewLoader(fetcher, "tx.json", "plays.json", time.Second).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(txs) != 1 || len(plays) != 2 {
		t.Errorf("Load() = %d txs, %d plays, want 1, 2", len(txs), len(plays))
	}
}

func TestLoader_LoadFailure(t *testing.T) {
	boom := errors.New("503 Service Unavailable")

	tests := []struct {
		name    string
		fetcher *mockFetcher
		wantMsg string
	}{
		{
			name: "transactions fail",
			fetcher: &mockFetcher{
				FetchTransactionsFunc: func(ctx context.Context, uri string) ([]leaderboard.TransactionRecord, error) {
					return nil, boom
				},
			},
			wantMsg: "transactions",
		},
		{
			name: "players fail",
			fetcher: &mockFetcher{
				FetchPlaysFunc: func(ctx context.Context, uri string) ([]leaderboard.PlayRecord, error) {
					return nil, boom
				},
			},
			wantMsg: "players",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, plays, err := NewLoader(tt.fetcher, "a", "b", 0).Load(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrRetrieval) {
				t.Errorf("error %v should wrap ErrRetrieval", err)
			}
			if !errors.Is(err, boom) {
				t.Errorf("error %v should wrap the cause", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
			if txs != nil || plays != nil {
				t.Error("no partial data should be returned on failure")
			}
		})
	}
}

func TestLoader_FailureCancelsSibling(t *testing.T) {
	fetcher := &mockFetcher{
		FetchTransactionsFunc: func(ctx context.Context, uri string) ([]leaderboard.TransactionRecord, error) {
			return nil, errors.New("down")
		},
		FetchPlaysFunc: func(ctx context.Context, uri string) ([]leaderboard.PlayRecord, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(5 * time.Second):
				t.Error("players fetch was not cancelled")
				return nil, nil
			}
		},
	}

	_, _, err := NewLoader(fetcher, "a", "b", 0).Load(context.Background())
	if !errors.Is(err, ErrRetrieval) {
		t.Errorf("Load() error = %v, want ErrRetrieval", err)
	}
}

func TestLoader_Timeout(t *testing.T) {
	fetcher := &mockFetcher{
		FetchPlaysFunc: func(ctx context.Context, uri string) ([]leaderboard.PlayRecord, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	_, _, err := NewLoader(fetcher, "a", "b", 20*time.Millisecond).Load(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Load() error = %v, want deadline exceeded", err)
	}
}

func TestJSONFetcher(t *testing.T) {
	reader := &mockBlobReader{
		ReadBlobFunc: func(ctx context.Context, uri string) ([]byte, error) {
			switch uri {
			case "tx":
				return []byte(`[{"from_wallet":"01711000000","transaction_amount":"1,000.00","date":"2025-06-24"}]`), nil
			case "plays":
				return []byte(`[{"msisdn":"1711000000","right_count":4,"question_count":"5"}]`), nil
			default:
				return []byte(`{"not":"an array"}`), nil
			}
		},
	}
	f := JSONFetcher{Reader: reader}

	txs, err := f.FetchTransactions(context.Background(), "tx")
	if err != nil {
		t.Fatalf("FetchTransactions() error = %v", err)
	}
	if len(txs) != 1 || txs[0].TransactionAmount != "1,000.00" {
		t.Errorf("unexpected transactions: %+v", txs)
	}

	plays, err := f.FetchPlays(context.Background(), "plays")
	if err != nil {
		t.Fatalf("FetchPlays() error = %v", err)
	}
	if len(plays) != 1 || plays[0].RightCount != "4" {
		t.Errorf("unexpected plays: %+v", plays)
	}

	if _, err := f.FetchPlays(context.Background(), "broken"); err == nil {
		t.Error("expected decode error for a non-array payload")
	}
}

func TestJSONFetcher_ReadError(t *testing.T) {
	boom := errors.New("boom")
	f := JSONFetcher{Reader: &mockBlobReader{
		ReadBlobFunc: func(ctx context.Context, uri string) ([]byte, error) {
			return nil, boom
		},
	}}

	if _, err := f.FetchTransactions(context.Background(), "x"); !errors.Is(err, boom) {
		t.Errorf("FetchTransactions() error = %v, want %v", err, boom)
	}
}
