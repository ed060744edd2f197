package engine

import (
	"sort"

	"github.com/hailam/chesscore/internal/board"
)

// Move ordering scores. Captures use MVV-LVA (Most Valuable Victim -
// Least Valuable Attacker): score = victimValue*10 - attackerValue,
// so QxP sorts below PxQ. Promotions outrank ordinary captures and
// checking moves get a flat bump.
const (
	promotionScoreFactor = 10
	checkScore           = 500
)

type scoredMove struct {
	move  board.Move
	score int
}

// orderMoves sorts moves best first. The sort is stable, so moves the
// generator emitted earlier keep their relative order on equal scores
// and the result is reproducible.
func orderMoves(gs *board.GameState, moves []board.Move) []board.Move {
	if len(moves) < 2 {
		return moves
	}
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		scored[i] = scoredMove{move: m, score: scoreMove(gs, m)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	for i := range scored {
		moves[i] = scored[i].move
	}
	return moves
}

// scoreMove must be called before the move is applied; it reads the
// victim off the board.
func scoreMove(gs *board.GameState, m board.Move) int {
	score := 0
	switch m.Kind {
	case board.Capture:
		victim := gs.PieceAt(m.To).Type()
		attacker := gs.PieceAt(m.From).Type()
		score = board.PieceValue[victim]*10 - board.PieceValue[attacker]
	case board.EnPassant:
		score = board.PieceValue[board.Pawn] * 9
	case board.Promotion:
		score = board.PieceValue[m.Promotion] * promotionScoreFactor
		if victim := gs.PieceAt(m.To); victim != board.NoPiece {
			score += board.PieceValue[victim.Type()] * 10
		}
	}
	if givesCheck(gs, m) {
		score += checkScore
	}
	return score
}

func givesCheck(gs *board.GameState, m board.Move) bool {
	d := gs.ApplyMove(m)
	check := gs.InCheck()
	gs.UnapplyMove(m, d)
	return check
}
