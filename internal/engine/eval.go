// Package engine implements the chess AI search engine.
package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Evaluation weights
const (
	checkPenalty   = 50 // side whose king is attacked
	centerBonus    = 10 // per piece on d4, d5, e4 or e5
	mobilityWeight = 2  // per legal move of advantage

	// With this many non-king pieces or fewer the position is scored
	// as an endgame and the king is encouraged to centralize.
	endgameThreshold = 12
)

var centerSquares = [4]board.Square{board.D4, board.D5, board.E4, board.E5}

// Piece-Square Tables (PST) for positional evaluation.
// Tables are written rank 8 first, the way a diagram reads, so White
// looks them up through Square.Mirror and Black indexes directly.

// Pawn PST - encourages central control and advancement
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

// Knight PST - encourages central positioning
var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

// Bishop PST - encourages central diagonals
var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

// Rook PST - encourages 7th rank and open files
var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

// Queen PST - slight central preference
var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

// King PST (middlegame) - encourages castling
var kingMidgamePST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

// King PST (endgame) - king should be active
var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

// Evaluate scores the position in centipawns from the point of view of
// the side to move. It combines material, piece placement, center
// occupancy, a mobility differential and a penalty for the side whose
// king is in check.
func Evaluate(gs *board.GameState) int {
	endgame := gs.NonKingPieceCount() <= endgameThreshold

	score := 0
	for sq := board.A1; sq <= board.H8; sq++ {
		p := gs.PieceAt(sq)
		if p == board.NoPiece {
			continue
		}
		v := board.PieceValue[p.Type()]
		if p.Color() == board.White {
			score += v + pieceSquareBonus(p.Type(), sq.Mirror(), endgame)
		} else {
			score -= v + pieceSquareBonus(p.Type(), sq, endgame)
		}
	}

	for _, sq := range centerSquares {
		switch gs.PieceAt(sq).Color() {
		case board.White:
			score += centerBonus
		case board.Black:
			score -= centerBonus
		}
	}

	score += mobilityWeight * mobilityDifference(gs)

	if sideInCheck(gs, board.White) {
		score -= checkPenalty
	}
	if sideInCheck(gs, board.Black) {
		score += checkPenalty
	}

	if gs.SideToMove == board.Black {
		return -score
	}
	return score
}

func pieceSquareBonus(pt board.PieceType, sq board.Square, endgame bool) int {
	switch pt {
	case board.Pawn:
		return pawnPST[sq]
	case board.Knight:
		return knightPST[sq]
	case board.Bishop:
		return bishopPST[sq]
	case board.Rook:
		return rookPST[sq]
	case board.Queen:
		return queenPST[sq]
	case board.King:
		if endgame {
			return kingEndgamePST[sq]
		}
		return kingMidgamePST[sq]
	}
	return 0
}

// mobilityDifference counts White's legal moves minus Black's. The
// side to move is flipped temporarily to count the quiet side; both
// counts use the real legality filter, so the difference reflects
// pins and checks.
func mobilityDifference(gs *board.GameState) int {
	saved := gs.SideToMove

	gs.SideToMove = board.White
	white := len(gs.GenerateLegalMoves())
	gs.SideToMove = board.Black
	black := len(gs.GenerateLegalMoves())

	gs.SideToMove = saved
	return white - black
}

func sideInCheck(gs *board.GameState, c board.Color) bool {
	ksq := gs.KingSquare(c)
	return ksq.IsValid() && gs.IsSquareAttacked(ksq, c.Other())
}
