package engine

import (
	"sync/atomic"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 64

	// Extra plies of capture-only search past the nominal depth.
	quiescenceDepth = 4
)

// PVTable stores the principal variation. Rows are indexed by ply and
// lengths are absolute end indexes into the row.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// Searcher performs the alpha-beta search. It is single threaded;
// only Stop may be called from another goroutine.
type Searcher struct {
	stopFlag atomic.Bool
	deadline time.Time
	nodes    uint64

	// Hashes of the positions played before the root followed by the
	// hashes along the current search path. A hash already present
	// when a node is entered scores the node as a draw by repetition.
	rootHashes []uint64
	pathHashes []uint64

	pv PVTable
}

// NewSearcher creates a new searcher.
func NewSearcher() *Searcher {
	return &Searcher{}
}

// Stop signals the search to stop. The search returns promptly with
// the best move found so far.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Reset prepares the searcher for a new search.
func (s *Searcher) Reset() {
	s.stopFlag.Store(false)
	s.deadline = time.Time{}
	s.nodes = 0
	s.rootHashes = s.rootHashes[:0]
	s.pathHashes = s.pathHashes[:0]
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Stopped reports whether the last search was cut short.
func (s *Searcher) Stopped() bool {
	return s.stopFlag.Load()
}

// SetRootHistory supplies the hashes of the positions played before
// the root so that repetitions spanning the root are detected. This
// should be called before SearchRoot with the game's history hashes.
func (s *Searcher) SetRootHistory(hashes []uint64) {
	s.rootHashes = append(s.rootHashes[:0], hashes...)
}

// SetDeadline makes the search stop itself once t passes. The zero
// time means no deadline.
func (s *Searcher) SetDeadline(t time.Time) {
	s.deadline = t
}

// GetPV returns the principal variation from the last search.
func (s *Searcher) GetPV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	copy(pv, s.pv.moves[0][:s.pv.length[0]])
	return pv
}

// SearchRoot searches every root move to the given depth and returns
// the best one with its score. adjust, if non-nil, is added to each
// root move's score before comparison; the engine uses it to fold in
// its tactical bonus and skill jitter without disturbing the tree
// below the root.
func (s *Searcher) SearchRoot(gs *board.GameState, depth int, adjust func(board.Move) int) (board.Move, int) {
	s.pv.length[0] = 0

	moves := orderMoves(gs, gs.GenerateLegalMoves())
	var best board.Move
	bestScore := -Infinity

	for _, m := range moves {
		bonus := 0
		if adjust != nil {
			bonus = adjust(m)
		}

		d := gs.ApplyMove(m)
		s.pathHashes = append(s.pathHashes, gs.Hash)
		score := -s.alphaBeta(gs, depth-1, 1, -Infinity, Infinity)
		s.pathHashes = s.pathHashes[:len(s.pathHashes)-1]
		gs.UnapplyMove(m, d)

		if s.stopFlag.Load() {
			break
		}

		// Mate scores are spaced one point per ply, so a bonus or
		// jitter would reorder them; decided lines stay untouched.
		if abs(score) < MateScore-MaxPly {
			score += bonus
		}

		if score > bestScore {
			bestScore = score
			best = m
			s.pv.moves[0][0] = m
			for j := 1; j < s.pv.length[1]; j++ {
				s.pv.moves[0][j] = s.pv.moves[1][j]
			}
			s.pv.length[0] = s.pv.length[1]
			if s.pv.length[0] < 1 {
				s.pv.length[0] = 1
			}
		}
	}
	return best, bestScore
}

func (s *Searcher) alphaBeta(gs *board.GameState, depth, ply, alpha, beta int) int {
	// pv.length[ply+1] is read below, hence MaxPly-1.
	if ply >= MaxPly-1 {
		return Evaluate(gs)
	}

	if s.nodes&4095 == 0 && s.pastDeadline() {
		s.stopFlag.Store(true)
	}
	if s.stopFlag.Load() {
		return 0
	}
	s.nodes++
	s.pv.length[ply] = ply

	if s.isDraw(gs) {
		return 0
	}

	if depth <= 0 {
		return s.quiescence(gs, ply, alpha, beta, quiescenceDepth)
	}

	moves := orderMoves(gs, gs.GenerateLegalMoves())
	if len(moves) == 0 {
		if gs.InCheck() {
			// Mates nearer the root score higher, so the engine
			// prefers the shortest mate and delays being mated.
			return -MateScore + ply
		}
		return 0 // stalemate
	}

	for _, m := range moves {
		d := gs.ApplyMove(m)
		s.pathHashes = append(s.pathHashes, gs.Hash)
		score := -s.alphaBeta(gs, depth-1, ply+1, -beta, -alpha)
		s.pathHashes = s.pathHashes[:len(s.pathHashes)-1]
		gs.UnapplyMove(m, d)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
			s.pv.moves[ply][ply] = m
			for j := ply + 1; j < s.pv.length[ply+1]; j++ {
				s.pv.moves[ply][j] = s.pv.moves[ply+1][j]
			}
			s.pv.length[ply] = s.pv.length[ply+1]
			if s.pv.length[ply] < ply+1 {
				s.pv.length[ply] = ply + 1
			}
		}
	}
	return alpha
}

// quiescence keeps searching captures until the position is quiet, so
// the evaluation is never taken in the middle of an exchange. A check
// at the first quiescence ply is answered with every legal move, not
// just captures.
func (s *Searcher) quiescence(gs *board.GameState, ply, alpha, beta, qdepth int) int {
	if s.stopFlag.Load() {
		return 0
	}
	s.nodes++

	standPat := Evaluate(gs)
	if qdepth <= 0 || ply >= MaxPly-1 {
		return standPat
	}

	inCheck := qdepth == quiescenceDepth && gs.InCheck()
	if !inCheck {
		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	var moves []board.Move
	if inCheck {
		moves = gs.GenerateLegalMoves()
		if len(moves) == 0 {
			return -MateScore + ply
		}
	} else {
		moves = gs.GenerateCaptures()
	}
	moves = orderMoves(gs, moves)

	for _, m := range moves {
		d := gs.ApplyMove(m)
		score := -s.quiescence(gs, ply+1, -beta, -alpha, qdepth-1)
		gs.UnapplyMove(m, d)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// isDraw checks for draw by repetition, the fifty-move rule and
// insufficient material at an interior node.
func (s *Searcher) isDraw(gs *board.GameState) bool {
	if gs.HalfMoveClock >= 100 {
		return true
	}
	if game.IsInsufficientMaterial(gs) {
		return true
	}

	// One earlier occurrence is enough: if the search can force the
	// position to recur it can force the threefold.
	count := 0
	for _, h := range s.rootHashes {
		if h == gs.Hash {
			count++
		}
	}
	for _, h := range s.pathHashes {
		if h == gs.Hash {
			count++
		}
	}
	return count >= 2
}

func (s *Searcher) pastDeadline() bool {
	return !s.deadline.IsZero() && time.Now().After(s.deadline)
}

// abs returns the absolute value of an integer.
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
