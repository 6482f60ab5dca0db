package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"tradejournal/internal/config"
)

// InboxService imports History/Positions export pairs dropped into a
// directory. A pair is "<prefix>History<suffix>.csv" with a matching
// "<prefix>Positions<suffix>.csv".
type InboxService struct {
	Import *ImportService
	Flags  *SystemSettingsService
	Logger *zap.Logger
	Config config.InboxConfig

	Now func() time.Time
}

type inboxPair struct {
	History   string
	Positions string
}

type InboxRunResult struct {
	Pairs    int
	Imported int
	Failed   int
}

func (s *InboxService) log() *zap.Logger {
	if s == nil || s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *InboxService) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Run is the cron entry point.
func (s *InboxService) Run(ctx context.Context) {
	if s == nil || s.Import == nil {
		return
	}
	if !s.Flags.IsEnabled(ctx, FeatureInboxImport, true) {
		return
	}
	res, err := s.RunOnce(ctx)
	if err != nil {
		s.log().Warn("inbox scan failed", zap.String("dir", s.Config.Dir), zap.Error(err))
		return
	}
	if res.Pairs > 0 {
		s.log().Info("inbox scan finished",
			zap.Int("pairs", res.Pairs),
			zap.Int("imported", res.Imported),
			zap.Int("failed", res.Failed),
		)
	}
}

// RunOnce imports every complete pair currently in the inbox.
func (s *InboxService) RunOnce(ctx context.Context) (InboxRunResult, error) {
	var res InboxRunResult
	if strings.TrimSpace(s.Config.UserID) == "" {
		return res, fmt.Errorf("%w: inbox.user_id is empty", ErrInvalidArgument)
	}
	pairs, err := findPairs(s.Config.Dir)
	if err != nil {
		return res, err
	}
	res.Pairs = len(pairs)
	for _, p := range pairs {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		report, err := s.importPair(ctx, p)
		dest := s.Config.ProcessedDir
		// A partial import that saved nothing is a failed pair.
		if err != nil && (!errors.Is(err, ErrPartialImport) || report.TradesSaved == 0) {
			res.Failed++
			dest = filepath.Join(s.Config.ProcessedDir, "failed")
			s.log().Warn("inbox import failed", zap.String("history", p.History), zap.Error(err))
		} else {
			res.Imported++
		}
		if err := s.archive(p, dest); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (s *InboxService) importPair(ctx context.Context, p inboxPair) (ImportReport, error) {
	history, err := os.Open(p.History)
	if err != nil {
		return ImportReport{}, err
	}
	defer history.Close()
	positions, err := os.Open(p.Positions)
	if err != nil {
		return ImportReport{}, err
	}
	defer positions.Close()

	report, err := s.Import.Import(ctx, ImportRequest{
		UserID:       s.Config.UserID,
		TradeAccount: s.Config.TradeAccount,
		History:      history,
		Positions:    positions,
		Source:       ImportSourceInbox,
	})
	if err == nil || errors.Is(err, ErrPartialImport) {
		s.log().Info("inbox pair imported",
			zap.String("history", filepath.Base(p.History)),
			zap.String("batch_id", report.BatchID),
			zap.Int("trades_saved", report.TradesSaved),
		)
	}
	return report, err
}

func (s *InboxService) archive(p inboxPair, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	stamp := s.now().Format("20060102T150405")
	for _, path := range []string{p.History, p.Positions} {
		target := filepath.Join(dir, stamp+"_"+filepath.Base(path))
		if err := os.Rename(path, target); err != nil {
			return err
		}
	}
	return nil
}

func findPairs(dir string) ([]inboxPair, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("%w: inbox.dir is empty", ErrInvalidArgument)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	files := map[string]struct{}{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files[e.Name()] = struct{}{}
	}
	var out []inboxPair
	for name := range files {
		if !strings.EqualFold(filepath.Ext(name), ".csv") || !strings.Contains(name, "History") {
			continue
		}
		sibling := strings.Replace(name, "History", "Positions", 1)
		if _, ok := files[sibling]; !ok {
			continue
		}
		out = append(out, inboxPair{
			History:   filepath.Join(dir, name),
			Positions: filepath.Join(dir, sibling),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].History < out[j].History })
	return out, nil
}
