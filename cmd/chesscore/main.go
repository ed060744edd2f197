// chesscore analyzes chess positions with the built-in engine, runs
// perft counts over the move generator, plays engine-vs-engine demo
// games and inspects the persistent analysis journal.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/book"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/pgn"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

var (
	fenFlag      = flag.String("fen", board.StartFEN, "position to analyze")
	skillFlag    = flag.Int("skill", engine.MaxSkill, "engine skill level (1-20)")
	depthFlag    = flag.Int("depth", 0, "search depth (0 = derive from skill)")
	moveTimeFlag = flag.Duration("movetime", 0, "time budget per search (0 = unlimited)")
	seedFlag     = flag.Int64("seed", 0, "random seed (0 = current time)")
	bookFlag     = flag.Bool("book", false, "consult the built-in opening book")
	perftFlag    = flag.Int("perft", 0, "run perft to this depth instead of analyzing")
	selfplayFlag = flag.Bool("selfplay", false, "play an engine-vs-engine demo game")
	engineFlag   = flag.String("engine", "", "external UCI engine binary to compare against")
	historyFlag  = flag.Int("history", 0, "print the N most recent journal entries and exit")
	saveFlag     = flag.Bool("save", false, "record the analysis in the journal")
)

var (
	heading  = color.New(color.FgCyan, color.Bold)
	moveText = color.New(color.FgGreen, color.Bold)
	scoreTxt = color.New(color.FgYellow)
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var err error
	switch {
	case *historyFlag > 0:
		err = showHistory(*historyFlag)
	case *perftFlag > 0:
		err = runPerft(*fenFlag, *perftFlag)
	case *selfplayFlag:
		err = runSelfplay(*fenFlag, *skillFlag, seed)
	default:
		err = analyze(*fenFlag, seed)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func newEngine(skill int, seed int64) *engine.Engine {
	e := engine.NewEngine(skill, engine.MaxDepth, seed)
	if *bookFlag {
		e.SetBook(book.Builtin())
	}
	return e
}

func analyze(fen string, seed int64) error {
	gs, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}

	fmt.Print(gs)
	heading.Printf("%s\n\n", game.GameStatus(gs))

	if game.IsGameOver(gs) {
		return nil
	}

	e := newEngine(*skillFlag, seed)
	e.OnInfo = func(si engine.SearchInfo) {
		fmt.Printf("depth %2d  score %7s  nodes %9d  time %8s  pv %s\n",
			si.Depth, engine.ScoreToString(si.Score), si.Nodes,
			si.Time.Round(time.Millisecond), pvString(gs, si.PV))
	}

	best, info := e.Search(gs, engine.SearchLimits{Depth: *depthFlag, MoveTime: *moveTimeFlag})
	if best.IsZero() {
		return fmt.Errorf("search produced no move")
	}

	fmt.Println()
	heading.Print("best move: ")
	moveText.Print(board.ToSAN(gs, best))
	fmt.Printf(" (%s)  ", best)
	scoreTxt.Println(engine.ScoreToString(info.Score))

	if *engineFlag != "" {
		if err := compareExternal(gs, best); err != nil {
			return err
		}
	}

	if *saveFlag {
		if err := saveAnalysis(gs, best, info); err != nil {
			return err
		}
		fmt.Println("analysis saved to journal")
	}
	return nil
}

// pvString renders a principal variation in SAN from the given position.
func pvString(gs *board.GameState, pv []board.Move) string {
	return strings.Join(board.MovesToSAN(gs, pv), " ")
}

// compareExternal asks an external UCI engine about the same position
// and prints its choice next to ours.
func compareExternal(gs *board.GameState, ours board.Move) error {
	client, err := uci.NewClient(*engineFlag)
	if err != nil {
		return err
	}
	defer client.Close()

	res, err := client.BestMove(gs.ToFEN(), uci.Limits{Depth: *depthFlag, MoveTime: *moveTimeFlag})
	if err != nil {
		return err
	}

	heading.Printf("\n%s: ", *engineFlag)
	moveText.Print(res.BestMove)
	if res.Mate != 0 {
		scoreTxt.Printf("  mate %d", res.Mate)
	} else {
		scoreTxt.Printf("  %+.2f", float64(res.ScoreCP)/100)
	}
	fmt.Printf("  depth %d\n", res.Depth)
	if res.BestMove == ours.String() {
		fmt.Println("engines agree")
	}
	return nil
}

func saveAnalysis(gs *board.GameState, best board.Move, info engine.SearchInfo) error {
	store, err := storage.OpenDefault()
	if err != nil {
		return err
	}
	defer store.Close()

	pv := make([]string, len(info.PV))
	for i, m := range info.PV {
		pv[i] = m.String()
	}
	return store.SaveAnalysis(&storage.AnalysisRecord{
		FEN:      gs.ToFEN(),
		Depth:    info.Depth,
		Score:    info.Score,
		BestMove: best.String(),
		PV:       pv,
		Nodes:    info.Nodes,
		Duration: info.Time,
	})
}

func showHistory(limit int) error {
	store, err := storage.OpenDefault()
	if err != nil {
		return err
	}
	defer store.Close()

	recs, err := store.RecentAnalyses(limit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("journal is empty")
		return nil
	}

	for _, rec := range recs {
		heading.Printf("%s  ", rec.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Printf("depth %-2d  ", rec.Depth)
		moveText.Printf("%-6s ", rec.BestMove)
		scoreTxt.Printf("%7s  ", engine.ScoreToString(rec.Score))
		fmt.Println(rec.FEN)
	}
	return nil
}

func runPerft(fen string, depth int) error {
	gs, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}

	heading.Printf("perft %s\n", fen)
	for d := 1; d <= depth; d++ {
		start := time.Now()
		nodes := board.Perft(gs, d)
		elapsed := time.Since(start)
		fmt.Printf("depth %2d  nodes %12d  time %8s\n", d, nodes, elapsed.Round(time.Millisecond))
	}
	return nil
}

// runSelfplay has the engine play both sides of a demo game. The two
// sides get different seeds so low-skill games do not mirror.
func runSelfplay(fen string, skill int, seed int64) error {
	gs, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}

	white := newEngine(skill, seed)
	black := newEngine(skill, seed+1)

	const maxPlies = 300
	for ply := 0; ply < maxPlies && !game.IsGameOver(gs); ply++ {
		e := white
		if gs.SideToMove == board.Black {
			e = black
		}
		m := e.GetBestMove(gs)
		if m == nil {
			break
		}
		san := board.ToSAN(gs, *m)
		if !game.TryPlayMove(gs, *m) {
			return fmt.Errorf("engine produced illegal move %s", m)
		}
		if gs.SideToMove == board.Black {
			fmt.Printf("%d. %s ", gs.FullMoveNumber, san)
		} else {
			fmt.Printf("%s\n", san)
		}
	}
	fmt.Println()

	heading.Printf("\n%s\n\n", game.GameStatus(gs))
	movetext, err := pgn.Movetext(gs)
	if err != nil {
		return err
	}
	fmt.Println(wrap(movetext, 80))
	return nil
}

// wrap breaks movetext into lines no longer than width at spaces.
func wrap(s string, width int) string {
	words := strings.Fields(s)
	var sb strings.Builder
	line := 0
	for i, w := range words {
		if i > 0 {
			if line+1+len(w) > width {
				sb.WriteByte('\n')
				line = 0
			} else {
				sb.WriteByte(' ')
				line++
			}
		}
		sb.WriteString(w)
		line += len(w)
	}
	return sb.String()
}
