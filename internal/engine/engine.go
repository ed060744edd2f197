package engine

import (
	"math/rand"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/book"
)

// Skill and depth bounds. Skill maps onto search depth as skill/2 + 2,
// so the weakest settings search two plies and the strongest twelve.
const (
	MinSkill = 1
	MaxSkill = 20

	MinDepth = 2
	MaxDepth = 12

	// At or below randomSkillCap every move is uniformly random; at or
	// below mixedSkillCap a random move is played part of the time.
	randomSkillCap    = 2
	mixedSkillCap     = 5
	mixedRandomChance = 0.40

	castleBonus = 25 // root bonus for castling at every skill level
)

// SearchInfo contains information about the current search.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	PV    []board.Move
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth    int           // Maximum depth (0 = derive from skill)
	MoveTime time.Duration // Time for this move (0 = no limit)
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // shallow and erratic
	Medium                   // club player
	Hard                     // full depth, no noise to speak of
)

// DifficultyPreset bundles the skill level and depth cap a difficulty
// stands for.
type DifficultyPreset struct {
	Skill    int
	MaxDepth int
}

// DifficultySettings maps difficulty to engine settings.
var DifficultySettings = map[Difficulty]DifficultyPreset{
	Easy:   {Skill: 3, MaxDepth: 4},
	Medium: {Skill: 10, MaxDepth: 6},
	Hard:   {Skill: 18, MaxDepth: 10},
}

// Engine is the chess AI engine. An Engine serves one search at a
// time; Stop may be called concurrently.
type Engine struct {
	skill    int
	maxDepth int
	rng      *rand.Rand
	searcher *Searcher
	book     *book.Book

	// OnInfo, when set, is called after every completed iteration of
	// an iterative deepening search.
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine with the given skill level, depth cap
// and random seed. Skill and depth are clamped to their bounds. Two
// engines built with the same arguments choose identical moves.
func NewEngine(skill, maxDepth int, seed int64) *Engine {
	return &Engine{
		skill:    clamp(skill, MinSkill, MaxSkill),
		maxDepth: clamp(maxDepth, MinDepth, MaxDepth),
		rng:      rand.New(rand.NewSource(seed)),
		searcher: NewSearcher(),
	}
}

// Skill returns the engine's skill level.
func (e *Engine) Skill() int {
	return e.skill
}

// SetSkill changes the skill level, clamped to the valid range.
func (e *Engine) SetSkill(skill int) {
	e.skill = clamp(skill, MinSkill, MaxSkill)
}

// SetDifficulty applies a difficulty preset.
func (e *Engine) SetDifficulty(d Difficulty) {
	if preset, ok := DifficultySettings[d]; ok {
		e.skill = clamp(preset.Skill, MinSkill, MaxSkill)
		e.maxDepth = clamp(preset.MaxDepth, MinDepth, MaxDepth)
	}
}

// SetBook gives the engine an opening book to consult before
// searching. A nil book disables book probes.
func (e *Engine) SetBook(b *book.Book) {
	e.book = b
}

// Stop stops the current search.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// Nodes returns the node count of the last search.
func (e *Engine) Nodes() uint64 {
	return e.searcher.Nodes()
}

// SearchDepth returns the depth the current skill level searches to.
func (e *Engine) SearchDepth() int {
	d := e.skill/2 + 2
	if d > e.maxDepth {
		d = e.maxDepth
	}
	return d
}

// GetBestMove picks a move for the side to move, or nil if there is
// none. Low skill levels play randomly some or all of the time; the
// rest search to the skill's depth with a root score jitter that
// shrinks to zero at maximum skill.
func (e *Engine) GetBestMove(gs *board.GameState) *board.Move {
	legal := gs.GenerateLegalMoves()
	if len(legal) == 0 {
		return nil
	}

	if e.book != nil {
		if m, ok := e.book.Probe(gs, e.rng); ok {
			return &m
		}
	}

	if e.skill <= randomSkillCap {
		m := legal[e.rng.Intn(len(legal))]
		return &m
	}
	if e.skill <= mixedSkillCap && e.rng.Float64() < mixedRandomChance {
		m := legal[e.rng.Intn(len(legal))]
		return &m
	}

	jitter := (MaxSkill - e.skill) * 2
	adjust := func(m board.Move) int {
		bonus := tacticalBonus(gs, m)
		if jitter > 0 {
			bonus += e.rng.Intn(2*jitter+1) - jitter
		}
		return bonus
	}

	e.searcher.Reset()
	e.searcher.SetRootHistory(gs.HistoryHashes())
	best, _ := e.searcher.SearchRoot(gs, e.SearchDepth(), adjust)
	if best.IsZero() {
		// Stopped before the first root move finished.
		return &legal[0]
	}
	return &best
}

// Search runs an iterative deepening search under the given limits
// and returns the best move with its final iteration's result. Unlike
// GetBestMove it never randomizes, so it doubles as the analysis
// entry point.
func (e *Engine) Search(gs *board.GameState, limits SearchLimits) (board.Move, SearchInfo) {
	startTime := time.Now()

	e.searcher.Reset()
	e.searcher.SetRootHistory(gs.HistoryHashes())

	var deadline time.Time
	if limits.MoveTime > 0 {
		deadline = startTime.Add(limits.MoveTime)
		e.searcher.SetDeadline(deadline)
	}

	maxDepth := limits.Depth
	if maxDepth <= 0 {
		maxDepth = e.SearchDepth()
	}

	adjust := func(m board.Move) int { return tacticalBonus(gs, m) }

	var bestMove board.Move
	var best SearchInfo
	for depth := 1; depth <= maxDepth; depth++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}

		move, score := e.searcher.SearchRoot(gs, depth, adjust)

		// An interrupted iteration explored only part of the root,
		// so its result is discarded in favor of the previous one.
		if e.searcher.Stopped() && depth > 1 {
			break
		}

		if !move.IsZero() {
			bestMove = move
			best = SearchInfo{
				Depth: depth,
				Score: score,
				Nodes: e.searcher.Nodes(),
				Time:  time.Since(startTime),
				PV:    e.searcher.GetPV(),
			}
			if e.OnInfo != nil {
				e.OnInfo(best)
			}
		}

		if abs(score) > MateScore-100 {
			break
		}

		// If more than half the time is gone the next iteration will
		// not finish either.
		if !deadline.IsZero() {
			elapsed := time.Since(startTime)
			if limits.MoveTime-elapsed < elapsed {
				break
			}
		}
	}

	return bestMove, best
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(gs *board.GameState) int {
	return Evaluate(gs)
}

// tacticalBonus nudges the root ordering toward captures, promotions
// and castling so that even weak settings take hanging material and
// develop their king.
func tacticalBonus(gs *board.GameState, m board.Move) int {
	switch m.Kind {
	case board.Capture:
		return board.PieceValue[gs.PieceAt(m.To).Type()] / 10
	case board.EnPassant:
		return board.PieceValue[board.Pawn] / 10
	case board.Promotion:
		bonus := board.PieceValue[m.Promotion] / 10
		if victim := gs.PieceAt(m.To); victim != board.NoPiece {
			bonus += board.PieceValue[victim.Type()] / 10
		}
		return bonus
	case board.CastleKingSide, board.CastleQueenSide:
		return castleBonus
	}
	return 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score > MateScore-100 {
		mateIn := (MateScore - score + 1) / 2
		return "Mate in " + itoa(mateIn)
	}
	if score < -MateScore+100 {
		mateIn := (MateScore + score + 1) / 2
		return "Mated in " + itoa(mateIn)
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	cp := itoa(centipawns)
	if centipawns < 10 {
		cp = "0" + cp
	}
	return sign + itoa(pawns) + "." + cp
}

// Simple integer to string (avoid fmt import)
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	s := ""
	for n > 0 {
		s = string('0'+byte(n%10)) + s
		n /= 10
	}
	return s
}
