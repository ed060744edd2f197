// Package game layers the rules of play on top of the board package:
// validated move entry with history, undo, and game status
// classification.
package game

import "github.com/hailam/chesscore/internal/board"

// Status classifies a position as a game result.
type Status int

const (
	InProgress Status = iota
	WhiteWins
	BlackWins
	DrawStalemate
	DrawInsufficientMaterial
	DrawFiftyMoveRule
	DrawRepetition
)

// String returns a readable status name.
func (s Status) String() string {
	switch s {
	case InProgress:
		return "in progress"
	case WhiteWins:
		return "white wins"
	case BlackWins:
		return "black wins"
	case DrawStalemate:
		return "draw by stalemate"
	case DrawInsufficientMaterial:
		return "draw by insufficient material"
	case DrawFiftyMoveRule:
		return "draw by fifty-move rule"
	case DrawRepetition:
		return "draw by threefold repetition"
	default:
		return "unknown"
	}
}

// IsDraw reports whether the status is any of the draw outcomes.
func (s Status) IsDraw() bool {
	switch s {
	case DrawStalemate, DrawInsufficientMaterial, DrawFiftyMoveRule, DrawRepetition:
		return true
	}
	return false
}

// IsGameOver reports whether the game has ended.
func (s Status) IsGameOver() bool {
	return s != InProgress
}

// ResultToken returns the PGN result token for the status.
func (s Status) ResultToken() string {
	switch s {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case InProgress:
		return "*"
	default:
		return "1/2-1/2"
	}
}

// AnalyzePosition classifies the position. The rules are ordered so
// that a position ending several ways reports the most permanent
// reason: insufficient material, then the fifty-move rule, then
// threefold repetition, and only then the legal-move count deciding
// between checkmate and stalemate.
func AnalyzePosition(gs *board.GameState) Status {
	if IsInsufficientMaterial(gs) {
		return DrawInsufficientMaterial
	}
	if gs.HalfMoveClock >= 100 {
		return DrawFiftyMoveRule
	}
	if gs.RepetitionCount() >= 3 {
		return DrawRepetition
	}
	if !gs.HasLegalMoves() {
		if gs.InCheck() {
			if gs.SideToMove == White {
				return BlackWins
			}
			return WhiteWins
		}
		return DrawStalemate
	}
	return InProgress
}

// DrawReason returns the draw classification of the position,
// reporting false when it is not drawn. Reasons follow the same
// precedence as AnalyzePosition.
func DrawReason(gs *board.GameState) (Status, bool) {
	st := AnalyzePosition(gs)
	return st, st.IsDraw()
}

// IsCheckmate reports whether the side to move is checkmated.
func IsCheckmate(gs *board.GameState) bool {
	return gs.InCheck() && !gs.HasLegalMoves()
}

// IsStalemate reports whether the side to move has no legal moves while
// not in check.
func IsStalemate(gs *board.GameState) bool {
	return !gs.InCheck() && !gs.HasLegalMoves()
}

// IsGameOver reports whether the position ends the game.
func IsGameOver(gs *board.GameState) bool {
	return AnalyzePosition(gs) != InProgress
}

// GameStatus renders the position's status for display: the result
// when the game is over, otherwise whose move it is and whether that
// side is in check. A derived view, never a source of truth.
func GameStatus(gs *board.GameState) string {
	switch AnalyzePosition(gs) {
	case WhiteWins:
		return "White wins by checkmate"
	case BlackWins:
		return "Black wins by checkmate"
	case DrawStalemate:
		return "Draw by stalemate"
	case DrawInsufficientMaterial:
		return "Draw by insufficient material"
	case DrawFiftyMoveRule:
		return "Draw by fifty-move rule"
	case DrawRepetition:
		return "Draw by threefold repetition"
	}
	if gs.InCheck() {
		return gs.SideToMove.String() + " is in check"
	}
	return gs.SideToMove.String() + " to move"
}

// IsInsufficientMaterial reports whether neither side can possibly
// deliver mate: bare kings, a lone minor piece, or one bishop each
// with both bishops on the same square color. Any pawn, rook or queen
// means mate remains possible.
func IsInsufficientMaterial(gs *board.GameState) bool {
	minors := [2]int{}
	knights := 0
	bishopParity := [2]int{-1, -1}
	bishops := [2]int{}

	for sq := board.A1; sq <= board.H8; sq++ {
		p := gs.PieceAt(sq)
		if p == board.NoPiece {
			continue
		}
		switch p.Type() {
		case board.Pawn, board.Rook, board.Queen:
			return false
		case board.Knight:
			minors[p.Color()]++
			knights++
		case board.Bishop:
			minors[p.Color()]++
			bishops[p.Color()]++
			bishopParity[p.Color()] = (sq.File() + sq.Rank()) % 2
		}
	}

	total := minors[board.White] + minors[board.Black]
	switch {
	case total == 0:
		return true // K vs K
	case total == 1:
		return true // K+minor vs K
	case knights == 0 && bishops[board.White] == 1 && bishops[board.Black] == 1:
		// KB vs KB is drawn only when the bishops share a square color.
		return bishopParity[board.White] == bishopParity[board.Black]
	}
	return false
}

// Color aliases so callers of this package rarely need to import board
// for simple result handling.
const (
	White = board.White
	Black = board.Black
)
