package engine

import (
	"testing"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/book"
)

func mustParseFEN(t *testing.T, fen string) *board.GameState {
	t.Helper()
	gs, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return gs
}

func TestEvaluateStartingPositionIsBalanced(t *testing.T) {
	gs := board.NewGameState()
	if score := Evaluate(gs); score != 0 {
		t.Errorf("Evaluate(start) = %d, want 0", score)
	}
}

func TestEvaluateSideToMovePerspective(t *testing.T) {
	// White is a rook up; the score flips sign with the side to move.
	white := mustParseFEN(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	black := mustParseFEN(t, "4k3/8/8/8/8/8/8/R3K3 b - - 0 1")

	ws := Evaluate(white)
	bs := Evaluate(black)

	if ws <= 300 {
		t.Errorf("Evaluate from White = %d, want a rook-sized advantage", ws)
	}
	if bs != -ws {
		t.Errorf("Evaluate from Black = %d, want %d", bs, -ws)
	}
}

func TestSearchFindsMateInOne(t *testing.T) {
	gs := mustParseFEN(t, "7k/6pp/6Q1/8/8/2B5/8/6K1 w - - 0 1")

	e := NewEngine(20, 12, 1)
	best, info := e.Search(gs, SearchLimits{Depth: 3})

	if got := best.String(); got != "g6g7" {
		t.Errorf("best move = %s, want g6g7", got)
	}
	if info.Score <= MateScore-100 {
		t.Errorf("score = %d, want a mate score", info.Score)
	}
	t.Logf("Best move: %s (%s, %d nodes)", best, ScoreToString(info.Score), info.Nodes)
}

func TestGetBestMoveFindsMateInOne(t *testing.T) {
	gs := mustParseFEN(t, "7k/6pp/6Q1/8/8/2B5/8/6K1 w - - 0 1")

	e := NewEngine(20, 4, 1)
	m := e.GetBestMove(gs)
	if m == nil {
		t.Fatal("GetBestMove returned nil with legal moves available")
	}
	if got := m.String(); got != "g6g7" {
		t.Errorf("best move = %s, want g6g7", got)
	}
}

func TestGetBestMoveTakesHangingQueen(t *testing.T) {
	gs := mustParseFEN(t, "k7/8/8/3q4/4P3/8/8/7K w - - 0 1")

	e := NewEngine(10, 4, 1)
	m := e.GetBestMove(gs)
	if m == nil {
		t.Fatal("GetBestMove returned nil")
	}
	if got := m.String(); got != "e4d5" {
		t.Errorf("best move = %s, want e4d5", got)
	}
}

func TestQuiescenceAvoidsLosingExchange(t *testing.T) {
	// Qxd6 wins a rook but loses the queen to Rxd6; even at depth 1
	// quiescence must see the recapture.
	gs := mustParseFEN(t, "k2r4/8/3r4/8/8/8/3Q4/K7 w - - 0 1")

	e := NewEngine(20, 12, 1)
	best, _ := e.Search(gs, SearchLimits{Depth: 1})

	if best.String() == "d2d6" {
		t.Error("depth 1 search took the defended rook")
	}
}

func TestGetBestMoveReturnsNilWhenGameOver(t *testing.T) {
	// Back-rank mate, black to move.
	gs := mustParseFEN(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")

	e := NewEngine(10, 4, 1)
	if m := e.GetBestMove(gs); m != nil {
		t.Errorf("GetBestMove = %s on a mated position, want nil", m)
	}
}

func TestLowSkillPlaysLegalMoves(t *testing.T) {
	gs := board.NewGameState()
	legal := gs.GenerateLegalMoves()

	e := NewEngine(1, 4, 7)
	for i := 0; i < 20; i++ {
		m := e.GetBestMove(gs)
		if m == nil {
			t.Fatal("GetBestMove returned nil")
		}
		found := false
		for _, lm := range legal {
			if lm == *m {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("skill 1 picked illegal move %s", m)
		}
	}
}

func TestSameSeedSameMoves(t *testing.T) {
	for _, skill := range []int{1, 4, 8, 20} {
		a := NewEngine(skill, 4, 99)
		b := NewEngine(skill, 4, 99)

		gs1 := board.NewGameState()
		gs2 := board.NewGameState()
		for i := 0; i < 6; i++ {
			ma := a.GetBestMove(gs1)
			mb := b.GetBestMove(gs2)
			if ma == nil || mb == nil {
				t.Fatalf("skill %d: nil move at ply %d", skill, i)
			}
			if *ma != *mb {
				t.Fatalf("skill %d ply %d: engines with equal seeds diverged (%s vs %s)", skill, i, ma, mb)
			}
			gs1.ApplyMove(*ma)
			gs2.ApplyMove(*mb)
		}
	}
}

func TestSearchDeterministicAtFixedDepth(t *testing.T) {
	gs := mustParseFEN(t, "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3")

	e := NewEngine(20, 12, 1)
	m1, i1 := e.Search(gs, SearchLimits{Depth: 3})
	m2, i2 := e.Search(gs, SearchLimits{Depth: 3})

	if m1 != m2 || i1.Score != i2.Score {
		t.Errorf("repeated search diverged: %s (%d) vs %s (%d)", m1, i1.Score, m2, i2.Score)
	}
}

func TestNewEngineClampsArguments(t *testing.T) {
	e := NewEngine(100, 99, 1)
	if e.Skill() != MaxSkill {
		t.Errorf("Skill = %d, want %d", e.Skill(), MaxSkill)
	}
	if d := e.SearchDepth(); d > MaxDepth {
		t.Errorf("SearchDepth = %d, want <= %d", d, MaxDepth)
	}

	e = NewEngine(-3, 0, 1)
	if e.Skill() != MinSkill {
		t.Errorf("Skill = %d, want %d", e.Skill(), MinSkill)
	}
	if d := e.SearchDepth(); d != MinDepth {
		t.Errorf("SearchDepth = %d, want %d", d, MinDepth)
	}
}

func TestSearchDepthScalesWithSkill(t *testing.T) {
	cases := []struct {
		skill, maxDepth, want int
	}{
		{1, 12, 2},
		{6, 12, 5},
		{10, 12, 7},
		{20, 12, 12},
		{20, 6, 6},
	}
	for _, c := range cases {
		e := NewEngine(c.skill, c.maxDepth, 1)
		if d := e.SearchDepth(); d != c.want {
			t.Errorf("skill %d cap %d: SearchDepth = %d, want %d", c.skill, c.maxDepth, d, c.want)
		}
	}
}

func TestMoveTimeLimitStopsSearch(t *testing.T) {
	gs := board.NewGameState()

	e := NewEngine(20, 12, 1)
	start := time.Now()
	best, info := e.Search(gs, SearchLimits{Depth: 20, MoveTime: 150 * time.Millisecond})
	elapsed := time.Since(start)

	if best.IsZero() {
		t.Fatal("timed search returned no move")
	}
	if elapsed > 5*time.Second {
		t.Errorf("search ran %v past a 150ms budget", elapsed)
	}
	t.Logf("Reached depth %d in %v", info.Depth, elapsed)
}

func TestSearchReportsProgress(t *testing.T) {
	gs := board.NewGameState()

	e := NewEngine(20, 12, 1)
	var infos []SearchInfo
	e.OnInfo = func(si SearchInfo) { infos = append(infos, si) }

	best, _ := e.Search(gs, SearchLimits{Depth: 3})

	if len(infos) != 3 {
		t.Fatalf("got %d info callbacks, want 3", len(infos))
	}
	for i, si := range infos {
		if si.Depth != i+1 {
			t.Errorf("callback %d reports depth %d", i, si.Depth)
		}
		if len(si.PV) == 0 {
			t.Errorf("depth %d has empty PV", si.Depth)
		}
	}
	last := infos[len(infos)-1]
	if last.PV[0] != best {
		t.Errorf("PV starts with %s, best move is %s", last.PV[0], best)
	}
}

func TestBookMoveShortCircuitsSearch(t *testing.T) {
	gs := board.NewGameState()

	e := NewEngine(20, 12, 1)
	e.SetBook(book.Builtin())

	m := e.GetBestMove(gs)
	if m == nil {
		t.Fatal("GetBestMove returned nil")
	}
	switch m.String() {
	case "e2e4", "d2d4", "c2c4":
	default:
		t.Errorf("expected a book move, got %s", m)
	}
	if e.Nodes() != 0 {
		t.Errorf("searched %d nodes despite book hit", e.Nodes())
	}
}

func TestSetDifficultyAppliesPreset(t *testing.T) {
	e := NewEngine(1, 2, 1)
	e.SetDifficulty(Hard)
	if e.Skill() != DifficultySettings[Hard].Skill {
		t.Errorf("Skill = %d after Hard preset", e.Skill())
	}
}

func TestScoreToString(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{MateScore - 1, "Mate in 1"},
		{MateScore - 4, "Mate in 2"},
		{-(MateScore - 3), "Mated in 2"},
		{50, "0.50"},
		{5, "0.05"},
		{-150, "-1.50"},
		{230, "2.30"},
		{0, "0.00"},
	}
	for _, c := range cases {
		if got := ScoreToString(c.score); got != c.want {
			t.Errorf("ScoreToString(%d) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestOrderMovesPutsCapturesFirst(t *testing.T) {
	// The pawn and the knight can both take the queen, the knight can
	// take the rook, and everything else is quiet. Pawn takes queen
	// has the best victim/attacker balance.
	gs := mustParseFEN(t, "k7/8/2r5/3q4/1N2P3/8/8/7K w - - 0 1")

	moves := orderMoves(gs, gs.GenerateLegalMoves())
	if len(moves) == 0 {
		t.Fatal("no legal moves")
	}
	if got := moves[0].String(); got != "e4d5" {
		t.Errorf("first ordered move = %s, want e4d5 (pawn takes queen)", got)
	}

	second := moves[1]
	if second.Kind != board.Capture {
		t.Errorf("second ordered move = %s (%v), want the other capture", second, second.Kind)
	}
}
