package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

type JournalService struct {
	Repo repository.Repository
}

// Save creates or replaces the journal entry of a trade owned by userID.
func (s *JournalService) Save(ctx context.Context, userID string, tradeID uint64, content string, tags []string) (*models.TradeJournal, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrTradeNotFound
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: journal content is empty", ErrInvalidArgument)
	}
	trade, err := s.Repo.GetTradeByID(ctx, userID, tradeID)
	if err != nil {
		return nil, err
	}
	if trade == nil {
		return nil, ErrTradeNotFound
	}
	tagsRaw, _ := json.Marshal(normalizeTags(tags))
	item := &models.TradeJournal{
		TradeID:      trade.ID,
		UserID:       trade.UserID,
		TradeAccount: trade.TradeAccount,
		Content:      content,
		Tags:         datatypes.JSON(tagsRaw),
	}
	if err := s.Repo.UpsertTradeJournal(ctx, item); err != nil {
		return nil, err
	}
	return s.Repo.GetTradeJournalByTradeID(ctx, userID, tradeID)
}

func (s *JournalService) Get(ctx context.Context, userID string, tradeID uint64) (*models.TradeJournal, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrJournalNotFound
	}
	item, err := s.Repo.GetTradeJournalByTradeID(ctx, userID, tradeID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrJournalNotFound
	}
	return item, nil
}

func (s *JournalService) List(ctx context.Context, params repository.ListTradeJournalParams) ([]models.TradeJournal, int64, error) {
	if s == nil || s.Repo == nil {
		return nil, 0, nil
	}
	items, err := s.Repo.ListTradeJournals(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountTradeJournals(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *JournalService) Delete(ctx context.Context, userID string, tradeID uint64) error {
	if s == nil || s.Repo == nil {
		return ErrJournalNotFound
	}
	return s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		n, err := s.Repo.DeleteTradeJournalTx(ctx, tx, userID, tradeID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrJournalNotFound
		}
		return nil
	})
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, raw := range tags {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
