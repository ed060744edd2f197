package game

import (
	"fmt"

	"github.com/hailam/chesscore/internal/board"
)

// LegalMoves returns every legal move for the side to move.
func LegalMoves(gs *board.GameState) []board.Move {
	return gs.GenerateLegalMoves()
}

// LegalMovesFrom returns the legal moves originating at one square.
func LegalMovesFrom(gs *board.GameState, sq board.Square) []board.Move {
	if !sq.IsValid() {
		return nil
	}
	return gs.GenerateLegalMovesFrom(sq)
}

// MoveSpec names a requested move by its endpoints. Promotion is
// board.NoPieceType unless the request promotes.
type MoveSpec struct {
	From      board.Square
	To        board.Square
	Promotion board.PieceType
}

// TryPlay validates the move named by from, to and promo against the
// position, and if it is legal applies it and records it in the
// history. It returns the resolved move, or nil when the request names
// no legal move: empty origin, opponent's piece, unreachable target, or
// a move that would leave the king in check.
//
// A promotion move must name its promotion piece. A promotion piece
// supplied for a non-promotion move is silently ignored.
func TryPlay(gs *board.GameState, from, to board.Square, promo board.PieceType) *board.Move {
	if !from.IsValid() || !to.IsValid() {
		return nil
	}
	p := gs.PieceAt(from)
	if p == board.NoPiece || p.Color() != gs.SideToMove {
		return nil
	}

	for _, m := range gs.GenerateLegalMoves() {
		if m.From != from || m.To != to {
			continue
		}
		if m.Kind == board.Promotion && m.Promotion != promo {
			continue
		}
		d := gs.ApplyMove(m)
		gs.RecordMove(m, d)
		mv := m
		return &mv
	}
	return nil
}

// TryPlayMove plays an exact move value, which must equal one of the
// position's legal moves. It reports whether the move was played.
func TryPlayMove(gs *board.GameState, m board.Move) bool {
	for _, legal := range gs.GenerateLegalMoves() {
		if legal == m {
			d := gs.ApplyMove(m)
			gs.RecordMove(m, d)
			return true
		}
	}
	return false
}

// TryUndo takes back the most recently played move. It reports false
// when the history is empty.
func TryUndo(gs *board.GameState) bool {
	m, d, ok := gs.PopMove()
	if !ok {
		return false
	}
	gs.UnapplyMove(m, d)
	return true
}

// PlaySAN parses a move in algebraic notation and plays it.
func PlaySAN(gs *board.GameState, san string) (board.Move, error) {
	m, err := board.ParseSAN(gs, san)
	if err != nil {
		return board.Move{}, err
	}
	d := gs.ApplyMove(m)
	gs.RecordMove(m, d)
	return m, nil
}

// PlayUCI parses a move in coordinate notation and plays it.
func PlayUCI(gs *board.GameState, uci string) (board.Move, error) {
	m, err := board.MoveFromUCI(gs, uci)
	if err != nil {
		return board.Move{}, err
	}
	d := gs.ApplyMove(m)
	gs.RecordMove(m, d)
	return m, nil
}

// Replay builds a game by playing the given move specs from a starting
// FEN. It fails on the first illegal spec.
func Replay(startFEN string, specs []MoveSpec) (*board.GameState, error) {
	gs, err := board.ParseFEN(startFEN)
	if err != nil {
		return nil, err
	}
	for i, sp := range specs {
		if mv := TryPlay(gs, sp.From, sp.To, sp.Promotion); mv == nil {
			return nil, fmt.Errorf("illegal move %d: %s%s", i+1, sp.From, sp.To)
		}
	}
	return gs, nil
}
