package gormrepository

import (
	"context"
	"testing"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

func TestNilStoreIsInert(t *testing.T) {
	var s *Store
	ctx := context.Background()
	inserted, err := s.InsertTrade(ctx, &models.Trade{})
	if err != nil || inserted {
		t.Fatalf("inserted=%v err=%v", inserted, err)
	}
	item, err := s.GetTradeByID(ctx, "u1", 1)
	if err != nil || item != nil {
		t.Fatalf("item=%v err=%v", item, err)
	}
	items, err := s.ListTrades(ctx, repository.ListTradesParams{UserID: "u1"})
	if err != nil || items != nil {
		t.Fatalf("items=%v err=%v", items, err)
	}
	if err := s.Ping(ctx); err == nil {
		t.Fatalf("expected ping error on nil store")
	}
}

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		in, fallback, want int
	}{
		{0, 200, 200},
		{-1, 50, 50},
		{10, 200, 10},
		{9999, 200, 500},
	}
	for _, tt := range tests {
		if got := normalizeLimit(tt.in, tt.fallback); got != tt.want {
			t.Fatalf("normalizeLimit(%d,%d)=%d want %d", tt.in, tt.fallback, got, tt.want)
		}
	}
}

func TestCleanStrings(t *testing.T) {
	got := cleanStrings([]string{" a", "", "b", "a ", "  "})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got=%v", got)
	}
}
