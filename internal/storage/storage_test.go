package storage

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hailam/chesscore/internal/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadAnalysis(t *testing.T) {
	s := openTestStore(t)

	rec := &AnalysisRecord{
		FEN:       "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		Depth:     6,
		Score:     25,
		BestMove:  "e2e4",
		PV:        []string{"e2e4", "e7e5", "g1f3"},
		Nodes:     48213,
		Duration:  120 * time.Millisecond,
		CreatedAt: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
	}
	testutil.AssertNoError(t, s.SaveAnalysis(rec))

	got, err := s.LoadAnalysis(rec.FEN, rec.Depth)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, rec)
}

func TestLoadAnalysisMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.LoadAnalysis("8/8/8/8/8/8/8/8 w - - 0 1", 4)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadAnalysis on empty store: err = %v, want ErrNotFound", err)
	}
}

func TestSaveAnalysisOverwritesSameKey(t *testing.T) {
	s := openTestStore(t)

	const fen = "4k3/8/8/8/8/8/8/4K2R w K - 0 1"
	first := &AnalysisRecord{FEN: fen, Depth: 4, Score: 100, BestMove: "h1h8",
		CreatedAt: time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)}
	second := &AnalysisRecord{FEN: fen, Depth: 4, Score: 150, BestMove: "e1g1",
		CreatedAt: time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)}

	testutil.AssertNoError(t, s.SaveAnalysis(first))
	testutil.AssertNoError(t, s.SaveAnalysis(second))

	got, err := s.LoadAnalysis(fen, 4)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, second)

	// A different depth is a different record.
	deeper := &AnalysisRecord{FEN: fen, Depth: 8, Score: 200, BestMove: "h1h8",
		CreatedAt: time.Date(2026, 8, 24, 11, 0, 0, 0, time.UTC)}
	testutil.AssertNoError(t, s.SaveAnalysis(deeper))

	got, err = s.LoadAnalysis(fen, 4)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, second)
}

func TestSaveAnalysisRequiresFEN(t *testing.T) {
	s := openTestStore(t)
	testutil.AssertError(t, s.SaveAnalysis(&AnalysisRecord{Depth: 4}))
}

func TestRecentAnalysesNewestFirstWithLimit(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := &AnalysisRecord{
			FEN:       fmt.Sprintf("position-%d", i),
			Depth:     4,
			Score:     i,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		testutil.AssertNoError(t, s.SaveAnalysis(rec))
	}

	recs, err := s.RecentAnalyses(3)
	testutil.AssertNoError(t, err)
	if len(recs) != 3 {
		t.Fatalf("RecentAnalyses(3) returned %d records", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].CreatedAt.After(recs[i-1].CreatedAt) {
			t.Errorf("records out of order: %v before %v", recs[i-1].CreatedAt, recs[i].CreatedAt)
		}
	}
	if recs[0].Score != 4 {
		t.Errorf("newest record score = %d, want 4", recs[0].Score)
	}

	all, err := s.RecentAnalyses(0)
	testutil.AssertNoError(t, err)
	if len(all) != 5 {
		t.Errorf("RecentAnalyses(0) returned %d records, want all 5", len(all))
	}
}

func TestBookLinesRoundTrip(t *testing.T) {
	s := openTestStore(t)

	lines, err := s.LoadBookLines()
	testutil.AssertNoError(t, err)
	if len(lines) != 0 {
		t.Fatalf("fresh store has %d book lines", len(lines))
	}

	testutil.AssertNoError(t, s.SaveBookLine("ruy-lopez", "e2e4 e7e5 g1f3 b8c6 f1b5"))
	testutil.AssertNoError(t, s.SaveBookLine("london", "d2d4 d7d5 g1f3 g8f6 c1f4"))

	lines, err = s.LoadBookLines()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, lines, []string{
		"d2d4 d7d5 g1f3 g8f6 c1f4",
		"e2e4 e7e5 g1f3 b8c6 f1b5",
	})

	testutil.AssertError(t, s.SaveBookLine("", "e2e4"))
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	testutil.AssertNoError(t, err)
	rec := &AnalysisRecord{FEN: "persisted", Depth: 2, Score: 1,
		CreatedAt: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)}
	testutil.AssertNoError(t, s.SaveAnalysis(rec))
	testutil.AssertNoError(t, s.Close())

	s, err = Open(dir)
	testutil.AssertNoError(t, err)
	defer s.Close()

	got, err := s.LoadAnalysis("persisted", 2)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, rec)
}
