package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tradejournal/internal/config"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFindPairsMatchesSiblings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "acct_History_0301.csv"), "")
	writeFile(t, filepath.Join(dir, "acct_Positions_0301.csv"), "")
	writeFile(t, filepath.Join(dir, "lonely_History.csv"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")

	pairs, err := findPairs(dir)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(pairs) != 1 || filepath.Base(pairs[0].Positions) != "acct_Positions_0301.csv" {
		t.Fatalf("pairs=%#v", pairs)
	}

	pairs, err = findPairs(filepath.Join(dir, "missing"))
	if err != nil || len(pairs) != 0 {
		t.Fatalf("missing dir: pairs=%v err=%v", pairs, err)
	}
}

func TestInboxRunOnceImportsAndArchives(t *testing.T) {
	inbox := t.TempDir()
	processed := filepath.Join(t.TempDir(), "done")
	writeFile(t, filepath.Join(inbox, "History.csv"), sampleHistory)
	writeFile(t, filepath.Join(inbox, "Positions.csv"), samplePositions)
	writeFile(t, filepath.Join(inbox, "bad_History.csv"), csvHeader)
	writeFile(t, filepath.Join(inbox, "bad_Positions.csv"), samplePositions)

	repo := newStubRepo()
	fixed := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	svc := &InboxService{
		Import: newImportService(repo),
		Config: config.InboxConfig{Dir: inbox, ProcessedDir: processed, UserID: "u1", TradeAccount: "main"},
		Now:    func() time.Time { return fixed },
	}
	res, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if res.Pairs != 2 || res.Imported != 1 || res.Failed != 1 {
		t.Fatalf("res=%#v", res)
	}
	if len(repo.trades) != 1 {
		t.Fatalf("trades=%d", len(repo.trades))
	}
	for _, b := range repo.batches {
		if b.Source != ImportSourceInbox {
			t.Fatalf("source=%s", b.Source)
		}
	}
	if _, err := os.Stat(filepath.Join(processed, "20240302T080000_History.csv")); err != nil {
		t.Fatalf("history not archived: %v", err)
	}
	if _, err := os.Stat(filepath.Join(processed, "failed", "20240302T080000_bad_History.csv")); err != nil {
		t.Fatalf("failed pair not archived: %v", err)
	}
	left, _ := os.ReadDir(inbox)
	if len(left) != 0 {
		t.Fatalf("inbox not drained: %d entries", len(left))
	}
}

func TestInboxRunOnceNothingSavedIsFailed(t *testing.T) {
	inbox := t.TempDir()
	processed := filepath.Join(t.TempDir(), "done")
	writeFile(t, filepath.Join(inbox, "History.csv"), sampleHistory)
	writeFile(t, filepath.Join(inbox, "Positions.csv"), samplePositions)

	repo := newStubRepo()
	repo.insertErr = errors.New("db down")
	fixed := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	svc := &InboxService{
		Import: newImportService(repo),
		Config: config.InboxConfig{Dir: inbox, ProcessedDir: processed, UserID: "u1", TradeAccount: "main"},
		Now:    func() time.Time { return fixed },
	}
	res, err := svc.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if res.Imported != 0 || res.Failed != 1 {
		t.Fatalf("res=%#v", res)
	}
	if _, err := os.Stat(filepath.Join(processed, "failed", "20240302T080000_History.csv")); err != nil {
		t.Fatalf("pair not routed to failed: %v", err)
	}
}

func TestInboxRunOnceRequiresUser(t *testing.T) {
	svc := &InboxService{Import: newImportService(newStubRepo()), Config: config.InboxConfig{Dir: t.TempDir()}}
	if _, err := svc.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected error without inbox.user_id")
	}
}
