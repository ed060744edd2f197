package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a GameState. The half-move
// clock and full-move number fields are optional and default to 0 and 1.
// The position is checked for basic legality: each side needs exactly
// one king and no pawns may sit on the back ranks.
func ParseFEN(fen string) (*GameState, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	gs := &GameState{
		EnPassantFile:  NoEnPassantFile,
		FullMoveNumber: 1,
	}

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(gs, parts[0]); err != nil {
		return nil, err
	}

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		gs.SideToMove = White
	case "b":
		gs.SideToMove = Black
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	// Parse castling rights (field 2)
	if err := parseCastlingRights(gs, parts[2]); err != nil {
		return nil, err
	}

	// Parse en passant square (field 3); only the file is kept, the
	// rank is implied by the side to move.
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		gs.EnPassantFile = sq.File()
	}

	// Parse half-move clock (field 4, optional)
	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, fmt.Errorf("invalid half-move clock: %s", parts[4])
		}
		gs.HalfMoveClock = hmc
	}

	// Parse full-move number (field 5, optional)
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return nil, fmt.Errorf("invalid full-move number: %s", parts[5])
		}
		gs.FullMoveNumber = fmn
	}

	if err := gs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid FEN: %w", err)
	}

	gs.Hash = gs.ComputeHash()
	gs.startFEN = gs.ToFEN()

	return gs, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(gs *GameState, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
			} else {
				piece := PieceFromChar(byte(c))
				if piece == NoPiece {
					return fmt.Errorf("invalid piece character: %c", c)
				}
				gs.Squares[NewSquare(file, rank)] = piece
				file++
			}
		}

		if file != 8 {
			return fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(gs *GameState, castling string) error {
	if castling == "-" {
		gs.Castling = NoCastling
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			gs.Castling |= WhiteKingSideCastle
		case 'Q':
			gs.Castling |= WhiteQueenSideCastle
		case 'k':
			gs.Castling |= BlackKingSideCastle
		case 'q':
			gs.Castling |= BlackQueenSideCastle
		default:
			return fmt.Errorf("invalid castling character: %c", c)
		}
	}

	return nil
}

// ToFEN returns the FEN representation of the position.
func (gs *GameState) ToFEN() string {
	var sb strings.Builder

	// Piece placement
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := gs.Squares[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
			} else {
				if empty > 0 {
					sb.WriteString(strconv.Itoa(empty))
					empty = 0
				}
				sb.WriteString(piece.String())
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if gs.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	// Castling rights
	sb.WriteByte(' ')
	sb.WriteString(gs.Castling.String())

	// En passant target square
	sb.WriteByte(' ')
	sb.WriteString(gs.EnPassantTarget().String())

	// Half-move clock and full-move number
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(gs.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(gs.FullMoveNumber))

	return sb.String()
}

// ComputeHash computes the Zobrist hash for the position from scratch.
// ApplyMove keeps the hash current incrementally; this is the reference
// the incremental updates must agree with.
func (gs *GameState) ComputeHash() uint64 {
	var hash uint64

	for sq := A1; sq <= H8; sq++ {
		if p := gs.Squares[sq]; p != NoPiece {
			hash ^= pieceKey(p, sq)
		}
	}

	if gs.SideToMove == Black {
		hash ^= zobristSideToMove
	}

	hash ^= zobristCastling[gs.Castling]

	if gs.EnPassantFile != NoEnPassantFile {
		hash ^= zobristEnPassant[gs.EnPassantFile]
	}

	return hash
}
