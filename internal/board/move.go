package board

import "fmt"

// MoveKind classifies how a move changes the board.
type MoveKind uint8

const (
	Quiet MoveKind = iota
	Capture
	CastleKingSide
	CastleQueenSide
	EnPassant
	Promotion
)

// String returns the kind name.
func (k MoveKind) String() string {
	switch k {
	case Quiet:
		return "quiet"
	case Capture:
		return "capture"
	case CastleKingSide:
		return "castle-kingside"
	case CastleQueenSide:
		return "castle-queenside"
	case EnPassant:
		return "en-passant"
	case Promotion:
		return "promotion"
	default:
		return "unknown"
	}
}

// Move records a single chess move. Promotion is NoPieceType except for
// promotion moves, so two Moves are the same move exactly when their
// four fields are equal and plain == works as move identity.
// A promotion that also captures still has kind Promotion; the captured
// piece is recorded in the StateDelta when the move is applied.
type Move struct {
	From      Square
	To        Square
	Kind      MoveKind
	Promotion PieceType
}

// NewMove creates a quiet move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to, Kind: Quiet, Promotion: NoPieceType}
}

// NewCapture creates a capturing move.
func NewCapture(from, to Square) Move {
	return Move{From: from, To: to, Kind: Capture, Promotion: NoPieceType}
}

// NewPromotion creates a promotion move (capturing or not).
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move{From: from, To: to, Kind: Promotion, Promotion: promo}
}

// NewEnPassant creates an en passant capture.
func NewEnPassant(from, to Square) Move {
	return Move{From: from, To: to, Kind: EnPassant, Promotion: NoPieceType}
}

// NewCastle creates a castling move given the king's from and to squares.
func NewCastle(from, to Square) Move {
	kind := CastleKingSide
	if to.File() < from.File() {
		kind = CastleQueenSide
	}
	return Move{From: from, To: to, Kind: kind, Promotion: NoPieceType}
}

// IsCastle reports whether the move is a castling move of either side.
func (m Move) IsCastle() bool {
	return m.Kind == CastleKingSide || m.Kind == CastleQueenSide
}

// IsZero reports whether the move is the zero value rather than a real move.
func (m Move) IsZero() bool {
	return m.From == m.To
}

// String returns the coordinate notation of the move (e.g. "e2e4",
// "e7e8q"). Castling prints as the king's two-square move.
func (m Move) String() string {
	if m.IsZero() {
		return "0000"
	}

	s := m.From.String() + m.To.String()
	if m.Kind == Promotion {
		s += string(m.Promotion.Char())
	}
	return s
}

// ParseUCIMove splits a coordinate-notation move string into its raw
// parts without consulting a position. The returned promotion is
// NoPieceType when the string has no promotion suffix.
func ParseUCIMove(s string) (from, to Square, promo PieceType, err error) {
	if len(s) != 4 && len(s) != 5 {
		return NoSquare, NoSquare, NoPieceType, fmt.Errorf("invalid move string: %s", s)
	}

	from, err = ParseSquare(s[0:2])
	if err != nil {
		return NoSquare, NoSquare, NoPieceType, err
	}
	to, err = ParseSquare(s[2:4])
	if err != nil {
		return NoSquare, NoSquare, NoPieceType, err
	}

	promo = NoPieceType
	if len(s) == 5 {
		promo = PromotionFromChar(s[4])
		if promo == NoPieceType {
			return NoSquare, NoSquare, NoPieceType, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
	}
	return from, to, promo, nil
}

// MoveFromUCI resolves a coordinate-notation move string against the
// legal moves of the given state, so castling and en passant come back
// with the right kind. It returns an error if the string is malformed
// or names no legal move.
func MoveFromUCI(gs *GameState, s string) (Move, error) {
	from, to, promo, err := ParseUCIMove(s)
	if err != nil {
		return Move{}, err
	}

	for _, m := range gs.GenerateLegalMoves() {
		if m.From != from || m.To != to {
			continue
		}
		if m.Kind == Promotion {
			if m.Promotion == promo {
				return m, nil
			}
			continue
		}
		if promo == NoPieceType {
			return m, nil
		}
	}
	return Move{}, fmt.Errorf("illegal move: %s", s)
}

// StateDelta captures everything ApplyMove destroys, so UnapplyMove can
// restore the position exactly.
type StateDelta struct {
	Captured      Piece
	Castling      CastlingRights
	EnPassantFile int
	HalfMoveClock int
	Hash          uint64
}
