package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

// stubRepo is an in-memory Repository for service tests.
type stubRepo struct {
	mu       sync.Mutex
	nextID   uint64
	trades   map[uint64]*models.Trade
	journals map[uint64]*models.TradeJournal
	batches  map[string]*models.ImportBatch
	settings map[string]*models.SystemSetting

	insertErr error
	stats     repository.TradeStatsRow
}

var _ repository.Repository = (*stubRepo)(nil)

func newStubRepo() *stubRepo {
	return &stubRepo{
		trades:   map[uint64]*models.Trade{},
		journals: map[uint64]*models.TradeJournal{},
		batches:  map[string]*models.ImportBatch{},
		settings: map[string]*models.SystemSetting{},
	}
}

func (r *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }
func (r *stubRepo) Ping(ctx context.Context) error                              { return nil }

func sameKey(a, b *models.Trade) bool {
	return a.UserID == b.UserID && a.TradeAccount == b.TradeAccount && a.Symbol == b.Symbol &&
		a.Side == b.Side && a.TimeOfFirstEntry.Equal(b.TimeOfFirstEntry) && a.TimeOfLastExit.Equal(b.TimeOfLastExit)
}

func (r *stubRepo) InsertTrade(ctx context.Context, item *models.Trade) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return false, r.insertErr
	}
	for _, t := range r.trades {
		if sameKey(t, item) {
			return false, nil
		}
	}
	r.nextID++
	item.ID = r.nextID
	cp := *item
	r.trades[item.ID] = &cp
	return true, nil
}

func (r *stubRepo) GetTradeByID(ctx context.Context, userID string, id uint64) (*models.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trades[id]
	if !ok || t.UserID != userID {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *stubRepo) filterTrades(params repository.ListTradesParams) []models.Trade {
	var out []models.Trade
	for _, t := range r.trades {
		if t.UserID != params.UserID {
			continue
		}
		if params.Symbol != nil && *params.Symbol != t.Symbol {
			continue
		}
		if params.TradeAccount != nil && *params.TradeAccount != t.TradeAccount {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubRepo) ListTrades(ctx context.Context, params repository.ListTradesParams) ([]models.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filterTrades(params), nil
}

func (r *stubRepo) CountTrades(ctx context.Context, params repository.ListTradesParams) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.filterTrades(params))), nil
}

func (r *stubRepo) UpdateTrade(ctx context.Context, item *models.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.trades[item.ID] = &cp
	return nil
}

func (r *stubRepo) DeleteTradeTx(ctx context.Context, tx *gorm.DB, userID string, id uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trades[id]
	if !ok || t.UserID != userID {
		return 0, nil
	}
	delete(r.trades, id)
	return 1, nil
}

func (r *stubRepo) TradeStats(ctx context.Context, params repository.ListTradesParams) (repository.TradeStatsRow, error) {
	return r.stats, nil
}

func (r *stubRepo) UpsertTradeJournal(ctx context.Context, item *models.TradeJournal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.journals[item.TradeID]; ok {
		existing.Content = item.Content
		existing.Tags = item.Tags
		return nil
	}
	r.nextID++
	item.ID = r.nextID
	cp := *item
	r.journals[item.TradeID] = &cp
	return nil
}

func (r *stubRepo) GetTradeJournalByTradeID(ctx context.Context, userID string, tradeID uint64) (*models.TradeJournal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.journals[tradeID]
	if !ok || j.UserID != userID {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (r *stubRepo) ListTradeJournals(ctx context.Context, params repository.ListTradeJournalParams) ([]models.TradeJournal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TradeJournal
	for _, j := range r.journals {
		if j.UserID == params.UserID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *stubRepo) CountTradeJournals(ctx context.Context, params repository.ListTradeJournalParams) (int64, error) {
	items, _ := r.ListTradeJournals(ctx, params)
	return int64(len(items)), nil
}

func (r *stubRepo) DeleteTradeJournalTx(ctx context.Context, tx *gorm.DB, userID string, tradeID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.journals[tradeID]
	if !ok || j.UserID != userID {
		return 0, nil
	}
	delete(r.journals, tradeID)
	return 1, nil
}

func (r *stubRepo) InsertImportBatch(ctx context.Context, item *models.ImportBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.batches[item.ID] = &cp
	return nil
}

func (r *stubRepo) GetImportBatch(ctx context.Context, userID string, id string) (*models.ImportBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.batches[id]
	if !ok || b.UserID != userID {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *stubRepo) ListImportBatches(ctx context.Context, params repository.ListImportBatchesParams) ([]models.ImportBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ImportBatch
	for _, b := range r.batches {
		if b.UserID == params.UserID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *stubRepo) CountImportBatches(ctx context.Context, params repository.ListImportBatchesParams) (int64, error) {
	items, _ := r.ListImportBatches(ctx, params)
	return int64(len(items)), nil
}

func (r *stubRepo) UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.settings[item.Key] = &cp
	return nil
}

func (r *stubRepo) GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[key]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *stubRepo) ListSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) ([]models.SystemSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.SystemSetting
	for k, s := range r.settings {
		if params.Prefix != nil && !strings.HasPrefix(k, *params.Prefix) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubRepo) CountSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) (int64, error) {
	items, _ := r.ListSystemSettings(ctx, params)
	return int64(len(items)), nil
}
