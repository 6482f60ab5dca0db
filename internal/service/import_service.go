package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"tradejournal/internal/models"
	"tradejournal/internal/orderhistory"
	"tradejournal/internal/reconstruct"
	"tradejournal/internal/repository"
)

const (
	ImportSourceUpload = "upload"
	ImportSourceInbox  = "inbox"

	ImportStatusCompleted = "completed"
	ImportStatusPartial   = "partial"
)

type ImportService struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Flags  *SystemSettingsService

	// Sink overrides the repository-backed sink.
	Sink TradeSink
	// Options are the reconstruction defaults; IncludeOpen is the fallback
	// when neither the request nor the feature switch decides.
	Options reconstruct.Options

	Now func() time.Time
}

type ImportRequest struct {
	UserID       string
	TradeAccount string
	History      io.Reader
	Positions    io.Reader
	IncludeOpen  *bool
	Source       string
}

type RowIssue struct {
	Table  string `json:"table"`
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type TradeFailure struct {
	Symbol           string    `json:"symbol"`
	Side             string    `json:"side"`
	TimeOfFirstEntry time.Time `json:"time_of_first_entry"`
	Error            string    `json:"error"`
}

type ImportReport struct {
	BatchID        string                     `json:"batch_id"`
	Status         string                     `json:"status"`
	HistoryRows    int                        `json:"history_rows"`
	PositionRows   int                        `json:"position_rows"`
	SkippedRows    int                        `json:"skipped_rows"`
	RowIssues      []RowIssue                 `json:"row_issues,omitempty"`
	TradesFound    int                        `json:"trades_found"`
	TradesSaved    int                        `json:"trades_saved"`
	Duplicates     int                        `json:"duplicates"`
	TradeIDs       []uint64                   `json:"trade_ids,omitempty"`
	OpenPositions  []reconstruct.OpenPosition `json:"open_positions,omitempty"`
	OpenSymbols    []string                   `json:"open_symbols,omitempty"`
	Reconciliation reconstruct.Reconciliation `json:"reconciliation"`
	Diagnostics    []string                   `json:"diagnostics,omitempty"`
	Failures       []TradeFailure             `json:"failures,omitempty"`
}

func (s *ImportService) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *ImportService) log() *zap.Logger {
	if s == nil || s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Import parses both exports, rebuilds trades and persists each one. A trade
// that fails to persist does not stop the others; the failures come back in
// the report and, joined, under ErrPartialImport.
func (s *ImportService) Import(ctx context.Context, req ImportRequest) (ImportReport, error) {
	if s == nil {
		return ImportReport{}, fmt.Errorf("%w: import service not configured", ErrInvalidArgument)
	}
	userID := strings.TrimSpace(req.UserID)
	account := strings.TrimSpace(req.TradeAccount)
	if userID == "" || account == "" {
		return ImportReport{}, fmt.Errorf("%w: user and trade account are required", ErrInvalidArgument)
	}
	if req.History == nil || req.Positions == nil {
		return ImportReport{}, fmt.Errorf("%w: history and positions tables are required", ErrInvalidArgument)
	}
	started := s.now()

	history, err := orderhistory.ParseTable(req.History)
	if err != nil {
		return ImportReport{}, fmt.Errorf("%w: history: %v", ErrInvalidArgument, err)
	}
	positions, err := orderhistory.ParsePositions(req.Positions)
	if err != nil {
		return ImportReport{}, fmt.Errorf("%w: positions: %v", ErrInvalidArgument, err)
	}
	if history.Empty() {
		return ImportReport{}, fmt.Errorf("history: %w", reconstruct.ErrEmptyInput)
	}
	if positions.Empty() {
		return ImportReport{}, fmt.Errorf("positions: %w", reconstruct.ErrEmptyInput)
	}

	opts := s.Options
	opts.IncludeOpen = s.includeOpen(ctx, req.IncludeOpen)
	opts.SkipRiskLevels = !s.Flags.IsEnabled(ctx, FeatureRiskInference, true)
	result, err := reconstruct.Reconstruct(history.Orders, opts)
	if err != nil {
		return ImportReport{}, err
	}

	report := ImportReport{
		BatchID:        uuid.NewString(),
		HistoryRows:    len(history.Orders),
		PositionRows:   len(positions.Orders),
		SkippedRows:    history.Skipped + positions.Skipped,
		RowIssues:      append(rowIssues("history", history.Errors), rowIssues("positions", positions.Errors)...),
		TradesFound:    len(result.Trades),
		OpenPositions:  result.OpenPositions,
		OpenSymbols:    result.OpenSymbols,
		Reconciliation: reconstruct.Reconcile(positions.Orders, result),
	}
	for _, e := range result.Errors {
		report.Diagnostics = append(report.Diagnostics, e.Error())
	}

	sink := s.Sink
	if sink == nil {
		sink = &RepositorySink{Repo: s.Repo, BatchID: report.BatchID}
	}
	var failures []error
	for _, trade := range result.Trades {
		id, err := sink.PersistTrade(ctx, trade, userID, account)
		switch {
		case errors.Is(err, ErrDuplicateTrade):
			report.Duplicates++
		case err != nil:
			failures = append(failures, fmt.Errorf("%s %s %s: %w",
				trade.Symbol, trade.Side, trade.TimeOfFirstEntry.Format(time.RFC3339), err))
			report.Failures = append(report.Failures, TradeFailure{
				Symbol:           trade.Symbol,
				Side:             string(trade.Side),
				TimeOfFirstEntry: trade.TimeOfFirstEntry,
				Error:            err.Error(),
			})
		default:
			report.TradesSaved++
			report.TradeIDs = append(report.TradeIDs, id)
		}
	}
	report.Status = ImportStatusCompleted
	if len(failures) > 0 {
		report.Status = ImportStatusPartial
	}

	if err := s.recordBatch(ctx, req, userID, account, started, report); err != nil {
		s.log().Warn("import batch record failed", zap.String("batch_id", report.BatchID), zap.Error(err))
	}

	s.log().Info("import finished",
		zap.String("batch_id", report.BatchID),
		zap.String("user_id", userID),
		zap.String("trade_account", account),
		zap.Int("history_rows", report.HistoryRows),
		zap.Int("skipped_rows", report.SkippedRows),
		zap.Int("trades_found", report.TradesFound),
		zap.Int("trades_saved", report.TradesSaved),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("failures", len(report.Failures)),
		zap.Strings("untraded_symbols", report.Reconciliation.UntradedSymbols),
	)

	if len(failures) > 0 {
		return report, fmt.Errorf("%w: %w", ErrPartialImport, errors.Join(failures...))
	}
	return report, nil
}

func (s *ImportService) includeOpen(ctx context.Context, requested *bool) bool {
	if requested != nil {
		return *requested
	}
	return s.Flags.IsEnabled(ctx, FeatureIncludeOpenPositions, s.Options.IncludeOpen)
}

func rowIssues(table string, errs []*orderhistory.RowError) []RowIssue {
	out := make([]RowIssue, 0, len(errs))
	for _, e := range errs {
		out = append(out, RowIssue{Table: table, Row: e.Row, Field: e.Field, Reason: e.Reason})
	}
	return out
}

func (s *ImportService) recordBatch(ctx context.Context, req ImportRequest, userID, account string, started time.Time, report ImportReport) error {
	if s.Repo == nil {
		return nil
	}
	diag, err := json.Marshal(map[string]any{
		"row_issues":     report.RowIssues,
		"diagnostics":    report.Diagnostics,
		"reconciliation": report.Reconciliation,
		"open_symbols":   report.OpenSymbols,
		"failures":       report.Failures,
	})
	if err != nil {
		return err
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = ImportSourceUpload
	}
	return s.Repo.InsertImportBatch(ctx, &models.ImportBatch{
		ID:            report.BatchID,
		UserID:        userID,
		TradeAccount:  account,
		Source:        source,
		Status:        report.Status,
		HistoryRows:   report.HistoryRows,
		PositionRows:  report.PositionRows,
		SkippedRows:   report.SkippedRows,
		TradesFound:   report.TradesFound,
		TradesSaved:   report.TradesSaved,
		Duplicates:    report.Duplicates,
		OpenPositions: len(report.OpenSymbols),
		Failures:      len(report.Failures),
		Diagnostics:   datatypes.JSON(diag),
		StartedAt:     started,
		FinishedAt:    s.now(),
	})
}

func (s *ImportService) GetBatch(ctx context.Context, userID, id string) (*models.ImportBatch, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrImportNotFound
	}
	item, err := s.Repo.GetImportBatch(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrImportNotFound
	}
	return item, nil
}

func (s *ImportService) ListBatches(ctx context.Context, params repository.ListImportBatchesParams) ([]models.ImportBatch, int64, error) {
	if s == nil || s.Repo == nil {
		return nil, 0, nil
	}
	items, err := s.Repo.ListImportBatches(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountImportBatches(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
