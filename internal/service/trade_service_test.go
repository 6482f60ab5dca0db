package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

func seedTrade(t *testing.T, repo *stubRepo, userID string) *models.Trade {
	t.Helper()
	item := &models.Trade{
		UserID:           userID,
		TradeAccount:     "main",
		Symbol:           "AAPL",
		Side:             "Sell",
		TimeOfFirstEntry: time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC),
		TimeOfLastExit:   time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC),
		AvgEntryPrice:    decimal.NewFromInt(100),
		TotalEntryQty:    decimal.NewFromInt(10),
		AvgExitPrice:     decimal.NewFromInt(90),
		TotalExitQty:     decimal.NewFromInt(10),
		PnL:              decimal.NewFromInt(100),
		Outcome:          "Profit",
	}
	if ok, err := repo.InsertTrade(context.Background(), item); err != nil || !ok {
		t.Fatalf("seed: ok=%v err=%v", ok, err)
	}
	return item
}

func TestTradeUpdateRecomputesSettlement(t *testing.T) {
	repo := newStubRepo()
	trade := seedTrade(t, repo, "u1")
	svc := &TradeService{Repo: repo}

	exit := decimal.NewFromInt(105)
	notes := "  chased the open  "
	updated, err := svc.Update(context.Background(), "u1", trade.ID, TradeUpdate{AvgExitPrice: &exit, Notes: &notes})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	// short: 10*100 - 10*105
	if updated.PnL.String() != "-50" || updated.Outcome != "Loss" {
		t.Fatalf("pnl=%s outcome=%s", updated.PnL, updated.Outcome)
	}
	if updated.TotalSell.String() != "1050" || updated.TotalBuy.String() != "1000" {
		t.Fatalf("buy=%s sell=%s", updated.TotalBuy, updated.TotalSell)
	}
	if updated.Notes == nil || *updated.Notes != "chased the open" {
		t.Fatalf("notes=%v", updated.Notes)
	}
	stored, _ := repo.GetTradeByID(context.Background(), "u1", trade.ID)
	if !stored.PnL.Equal(updated.PnL) {
		t.Fatalf("update not persisted")
	}
}

func TestTradeUpdateNotesKeepsSettlement(t *testing.T) {
	repo := newStubRepo()
	trade := seedTrade(t, repo, "u1")
	// Exact pnl was zero; the rounded stored averages would give a profit.
	trade.AvgEntryPrice = decimal.RequireFromString("100.0000000001")
	trade.AvgExitPrice = decimal.NewFromInt(100)
	trade.TotalBuy = decimal.RequireFromString("1000.000000001")
	trade.TotalSell = decimal.NewFromInt(1000)
	trade.PnL = decimal.Zero
	trade.Outcome = "Loss"
	if err := repo.UpdateTrade(context.Background(), trade); err != nil {
		t.Fatalf("seed update: %v", err)
	}
	svc := &TradeService{Repo: repo}

	notes := "flat scratch"
	updated, err := svc.Update(context.Background(), "u1", trade.ID, TradeUpdate{Notes: &notes})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !updated.PnL.IsZero() || updated.Outcome != "Loss" {
		t.Fatalf("pnl=%s outcome=%s want 0 Loss", updated.PnL, updated.Outcome)
	}
	if !updated.TotalBuy.Equal(trade.TotalBuy) {
		t.Fatalf("total buy changed to %s", updated.TotalBuy)
	}

	stop := decimal.NewFromInt(101)
	updated, err = svc.Update(context.Background(), "u1", trade.ID, TradeUpdate{StopLoss: &stop})
	if err != nil || !updated.PnL.IsZero() {
		t.Fatalf("stop edit: err=%v pnl=%s", err, updated.PnL)
	}
}

func TestTradeUpdateValidation(t *testing.T) {
	repo := newStubRepo()
	trade := seedTrade(t, repo, "u1")
	svc := &TradeService{Repo: repo}

	zero := decimal.Zero
	if _, err := svc.Update(context.Background(), "u1", trade.ID, TradeUpdate{TotalEntryQty: &zero}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err=%v want ErrInvalidArgument", err)
	}
	if _, err := svc.Update(context.Background(), "u2", trade.ID, TradeUpdate{}); !errors.Is(err, ErrTradeNotFound) {
		t.Fatalf("err=%v want ErrTradeNotFound", err)
	}

	stop := decimal.NewFromInt(101)
	updated, err := svc.Update(context.Background(), "u1", trade.ID, TradeUpdate{StopLoss: &stop})
	if err != nil || updated.StopLoss == nil {
		t.Fatalf("set stop: %v", err)
	}
	updated, err = svc.Update(context.Background(), "u1", trade.ID, TradeUpdate{StopLoss: &stop, ClearStopLoss: true})
	if err != nil || updated.StopLoss != nil {
		t.Fatalf("clear stop: err=%v stop=%v", err, updated.StopLoss)
	}
}

func TestTradeDeleteRemovesJournal(t *testing.T) {
	repo := newStubRepo()
	trade := seedTrade(t, repo, "u1")
	journals := &JournalService{Repo: repo}
	if _, err := journals.Save(context.Background(), "u1", trade.ID, "note", nil); err != nil {
		t.Fatalf("save journal: %v", err)
	}
	svc := &TradeService{Repo: repo}

	if err := svc.Delete(context.Background(), "u2", trade.ID); !errors.Is(err, ErrTradeNotFound) {
		t.Fatalf("other user delete: %v", err)
	}
	if len(repo.journals) != 1 {
		t.Fatalf("journal of another user's trade removed")
	}
	if err := svc.Delete(context.Background(), "u1", trade.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.trades) != 0 || len(repo.journals) != 0 {
		t.Fatalf("trades=%d journals=%d", len(repo.trades), len(repo.journals))
	}
	if err := svc.Delete(context.Background(), "u1", trade.ID); !errors.Is(err, ErrTradeNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestTradeListFilters(t *testing.T) {
	repo := newStubRepo()
	seedTrade(t, repo, "u1")
	seedTrade(t, repo, "u2")
	svc := &TradeService{Repo: repo}
	items, total, err := svc.List(context.Background(), repository.ListTradesParams{UserID: "u1"})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if total != 1 || len(items) != 1 || items[0].UserID != "u1" {
		t.Fatalf("total=%d items=%d", total, len(items))
	}
}

func TestSummarizeStats(t *testing.T) {
	avgR := decimal.RequireFromString("1.5")
	got := summarizeStats(repository.TradeStatsRow{
		Trades:      4,
		Wins:        3,
		Losses:      1,
		TotalPnL:    decimal.NewFromInt(250),
		GrossProfit: decimal.NewFromInt(300),
		GrossLoss:   decimal.NewFromInt(50),
		RTrades:     2,
		AvgR:        decimal.NullDecimal{Decimal: avgR, Valid: true},
	})
	if got.WinRate.String() != "0.75" || got.AvgWin.String() != "100" || got.AvgLoss.String() != "50" {
		t.Fatalf("win_rate=%s avg_win=%s avg_loss=%s", got.WinRate, got.AvgWin, got.AvgLoss)
	}
	if got.ProfitFactor == nil || got.ProfitFactor.String() != "6" {
		t.Fatalf("profit factor=%v", got.ProfitFactor)
	}
	if got.AvgR == nil || !got.AvgR.Equal(avgR) {
		t.Fatalf("avg r=%v", got.AvgR)
	}

	empty := summarizeStats(repository.TradeStatsRow{})
	if !empty.WinRate.IsZero() || empty.ProfitFactor != nil || empty.AvgR != nil {
		t.Fatalf("empty stats=%#v", empty)
	}
}

func TestJournalSaveNormalizesTags(t *testing.T) {
	repo := newStubRepo()
	trade := seedTrade(t, repo, "u1")
	svc := &JournalService{Repo: repo}

	if _, err := svc.Save(context.Background(), "u1", trade.ID, "   ", nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("blank content: %v", err)
	}
	if _, err := svc.Save(context.Background(), "u2", trade.ID, "note", nil); !errors.Is(err, ErrTradeNotFound) {
		t.Fatalf("foreign trade: %v", err)
	}

	item, err := svc.Save(context.Background(), "u1", trade.ID, "first", []string{"FOMO", " fomo ", "", "breakout"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	var tags []string
	if err := json.Unmarshal(item.Tags, &tags); err != nil {
		t.Fatalf("tags: %v", err)
	}
	if len(tags) != 2 || tags[0] != "fomo" || tags[1] != "breakout" {
		t.Fatalf("tags=%v", tags)
	}
	if item.TradeAccount != "main" {
		t.Fatalf("trade account=%q", item.TradeAccount)
	}

	item, err = svc.Save(context.Background(), "u1", trade.ID, "second", nil)
	if err != nil || item.Content != "second" || len(repo.journals) != 1 {
		t.Fatalf("replace: err=%v item=%#v", err, item)
	}

	if err := svc.Delete(context.Background(), "u1", trade.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), "u1", trade.ID); !errors.Is(err, ErrJournalNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
	if err := svc.Delete(context.Background(), "u1", trade.ID); !errors.Is(err, ErrJournalNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}
