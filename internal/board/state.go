// Package board implements chess position representation and move
// generation on a 64-square mailbox array.
package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	if c == White {
		if kingSide {
			return cr&WhiteKingSideCastle != 0
		}
		return cr&WhiteQueenSideCastle != 0
	}
	if kingSide {
		return cr&BlackKingSideCastle != 0
	}
	return cr&BlackQueenSideCastle != 0
}

// NoEnPassantFile marks that no en passant capture is available.
const NoEnPassantFile = -1

type historyEntry struct {
	move  Move
	delta StateDelta
}

// GameState represents a complete chess position plus the move history
// that produced it. The en passant state is stored as a file only; the
// target rank is implied by the side to move.
//
// A GameState is owned by one goroutine at a time. Use Copy to hand an
// independent snapshot to another goroutine.
type GameState struct {
	// Squares holds the piece on each square, indexed by Square.
	Squares [64]Piece

	SideToMove     Color
	Castling       CastlingRights
	EnPassantFile  int
	HalfMoveClock  int
	FullMoveNumber int

	// Hash is the Zobrist hash of the position, maintained
	// incrementally by ApplyMove and UnapplyMove.
	Hash uint64

	startFEN string
	history  []historyEntry
}

// NewGameState returns the standard starting position.
func NewGameState() *GameState {
	gs, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return gs
}

// Copy returns a deep copy sharing nothing with the receiver, including
// the move history.
func (gs *GameState) Copy() *GameState {
	c := *gs
	c.history = make([]historyEntry, len(gs.history))
	copy(c.history, gs.history)
	return &c
}

// PieceAt returns the piece on the given square.
func (gs *GameState) PieceAt(sq Square) Piece {
	return gs.Squares[sq]
}

// IsEmpty returns true if the square is empty.
func (gs *GameState) IsEmpty(sq Square) bool {
	return gs.Squares[sq] == NoPiece
}

// KingSquare returns the square of the given color's king, or NoSquare
// if that king is missing.
func (gs *GameState) KingSquare(c Color) Square {
	king := NewPiece(King, c)
	for sq := A1; sq <= H8; sq++ {
		if gs.Squares[sq] == king {
			return sq
		}
	}
	return NoSquare
}

// EnPassantTarget returns the square a pawn of the side to move would
// land on by capturing en passant, or NoSquare if no capture is
// available.
func (gs *GameState) EnPassantTarget() Square {
	if gs.EnPassantFile == NoEnPassantFile {
		return NoSquare
	}
	if gs.SideToMove == White {
		return NewSquare(gs.EnPassantFile, 5)
	}
	return NewSquare(gs.EnPassantFile, 2)
}

// CountPiece returns how many of the given piece are on the board.
func (gs *GameState) CountPiece(p Piece) int {
	n := 0
	for sq := A1; sq <= H8; sq++ {
		if gs.Squares[sq] == p {
			n++
		}
	}
	return n
}

// NonKingPieceCount returns the number of pieces on the board excluding
// the two kings.
func (gs *GameState) NonKingPieceCount() int {
	n := 0
	for sq := A1; sq <= H8; sq++ {
		p := gs.Squares[sq]
		if p != NoPiece && p.Type() != King {
			n++
		}
	}
	return n
}

// RecordMove appends a move and its delta to the history. Callers pair
// it with ApplyMove; the arbiter is the usual caller.
func (gs *GameState) RecordMove(m Move, d StateDelta) {
	gs.history = append(gs.history, historyEntry{move: m, delta: d})
}

// PopMove removes and returns the most recent history entry. It does
// not touch the board; use UnapplyMove with the returned delta for that.
func (gs *GameState) PopMove() (Move, StateDelta, bool) {
	if len(gs.history) == 0 {
		return Move{}, StateDelta{}, false
	}
	e := gs.history[len(gs.history)-1]
	gs.history = gs.history[:len(gs.history)-1]
	return e.move, e.delta, true
}

// Moves returns the recorded move history in order.
func (gs *GameState) Moves() []Move {
	out := make([]Move, len(gs.history))
	for i, e := range gs.history {
		out[i] = e.move
	}
	return out
}

// LastMove returns the most recently recorded move.
func (gs *GameState) LastMove() (Move, bool) {
	if len(gs.history) == 0 {
		return Move{}, false
	}
	return gs.history[len(gs.history)-1].move, true
}

// HistoryLen returns the number of recorded moves.
func (gs *GameState) HistoryLen() int {
	return len(gs.history)
}

// StartingFEN returns the FEN the game began from, for replay and
// movetext export.
func (gs *GameState) StartingFEN() string {
	if gs.startFEN == "" {
		return StartFEN
	}
	return gs.startFEN
}

// RepetitionCount returns how many times the current position has
// occurred over the recorded history, counting the current occurrence.
// Positions match only when the full Zobrist hash matches, which folds
// in the side to move, castling rights and en passant file.
func (gs *GameState) RepetitionCount() int {
	count := 1
	for _, e := range gs.history {
		if e.delta.Hash == gs.Hash {
			count++
		}
	}
	return count
}

// HistoryHashes returns the Zobrist hashes of every position the game
// has passed through, oldest first, ending with the current position.
func (gs *GameState) HistoryHashes() []uint64 {
	out := make([]uint64, 0, len(gs.history)+1)
	for _, e := range gs.history {
		out = append(out, e.delta.Hash)
	}
	return append(out, gs.Hash)
}

// String returns a printable board diagram with position metadata.
func (gs *GameState) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := gs.Squares[NewSquare(file, rank)]
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", gs.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", gs.Castling)
	fmt.Fprintf(&sb, "En passant: %s\n", gs.EnPassantTarget())
	fmt.Fprintf(&sb, "Half-move clock: %d\n", gs.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", gs.FullMoveNumber)
	fmt.Fprintf(&sb, "Hash: %016x\n", gs.Hash)
	return sb.String()
}

// Validate checks basic position legality: exactly one king per side
// and no pawns on the back ranks.
func (gs *GameState) Validate() error {
	if n := gs.CountPiece(WhiteKing); n != 1 {
		return fmt.Errorf("white must have exactly one king, found %d", n)
	}
	if n := gs.CountPiece(BlackKing); n != 1 {
		return fmt.Errorf("black must have exactly one king, found %d", n)
	}
	for file := 0; file < 8; file++ {
		for _, rank := range [2]int{0, 7} {
			if gs.Squares[NewSquare(file, rank)].Type() == Pawn {
				return fmt.Errorf("pawn on invalid square %s", NewSquare(file, rank))
			}
		}
	}
	return nil
}

// Material returns the material balance in centipawns, positive when
// White is ahead.
func (gs *GameState) Material() int {
	score := 0
	for sq := A1; sq <= H8; sq++ {
		p := gs.Squares[sq]
		if p == NoPiece || p.Type() == King {
			continue
		}
		if p.Color() == White {
			score += p.Value()
		} else {
			score -= p.Value()
		}
	}
	return score
}
