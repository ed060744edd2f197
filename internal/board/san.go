package board

import (
	"fmt"
	"strings"
)

// ToSAN converts a move to Standard Algebraic Notation in the context
// of the given position. The move must be legal there.
func ToSAN(gs *GameState, m Move) string {
	var sb strings.Builder

	switch m.Kind {
	case CastleKingSide:
		sb.WriteString("O-O")
	case CastleQueenSide:
		sb.WriteString("O-O-O")
	default:
		piece := gs.PieceAt(m.From)
		pt := piece.Type()

		isCapture := m.Kind == Capture || m.Kind == EnPassant ||
			(m.Kind == Promotion && gs.PieceAt(m.To) != NoPiece)

		if pt == Pawn {
			if isCapture {
				sb.WriteByte(byte('a' + m.From.File()))
			}
		} else {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(disambiguation(gs, m, pt))
		}

		if isCapture {
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())

		if m.Kind == Promotion {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[m.Promotion])
		}
	}

	// Check and mate suffixes come from the position after the move.
	next := gs.Copy()
	next.ApplyMove(m)
	if next.InCheck() {
		if next.HasLegalMoves() {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}

	return sb.String()
}

// disambiguation returns the minimal from-square hint needed when other
// pieces of the same type could also reach the destination.
func disambiguation(gs *GameState, m Move, pt PieceType) string {
	sameFile := false
	sameRank := false
	ambiguous := false

	for _, other := range gs.GenerateLegalMoves() {
		if other.From == m.From || other.To != m.To {
			continue
		}
		if gs.PieceAt(other.From).Type() != pt {
			continue
		}
		ambiguous = true
		if other.From.File() == m.From.File() {
			sameFile = true
		}
		if other.From.Rank() == m.From.Rank() {
			sameRank = true
		}
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(byte('a' + m.From.File()))
	case !sameRank:
		return string(byte('1' + m.From.Rank()))
	default:
		return m.From.String()
	}
}

// ParseSAN parses a move in Standard Algebraic Notation against the
// given position. Suffixes like +, # and ! are ignored; the move is
// matched against the legal moves, so an unparseable or illegal string
// yields an error.
func ParseSAN(gs *GameState, san string) (Move, error) {
	s := strings.TrimRight(san, "+#!?")
	if s == "" {
		return Move{}, fmt.Errorf("empty SAN string")
	}

	legal := gs.GenerateLegalMoves()

	// Castling first; "0-0" is tolerated alongside the standard "O-O".
	switch s {
	case "O-O", "0-0":
		for _, m := range legal {
			if m.Kind == CastleKingSide {
				return m, nil
			}
		}
		return Move{}, fmt.Errorf("illegal move: %s", san)
	case "O-O-O", "0-0-0":
		for _, m := range legal {
			if m.Kind == CastleQueenSide {
				return m, nil
			}
		}
		return Move{}, fmt.Errorf("illegal move: %s", san)
	}

	// Promotion suffix.
	promo := NoPieceType
	if i := strings.IndexByte(s, '='); i >= 0 {
		if i+1 >= len(s) {
			return Move{}, fmt.Errorf("invalid SAN: %s", san)
		}
		promo = PromotionFromChar(s[i+1])
		if promo == NoPieceType {
			return Move{}, fmt.Errorf("invalid promotion in SAN: %s", san)
		}
		s = s[:i]
	}

	// Leading piece letter; its absence means a pawn move.
	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		switch s[0] {
		case 'N':
			pt = Knight
		case 'B':
			pt = Bishop
		case 'R':
			pt = Rook
		case 'Q':
			pt = Queen
		case 'K':
			pt = King
		default:
			return Move{}, fmt.Errorf("invalid SAN: %s", san)
		}
		s = s[1:]
	}

	s = strings.Replace(s, "x", "", 1)
	if len(s) < 2 {
		return Move{}, fmt.Errorf("invalid SAN: %s", san)
	}

	to, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return Move{}, fmt.Errorf("invalid SAN: %s", san)
	}

	// Whatever remains is disambiguation: a file, a rank, or both.
	fromFile, fromRank := -1, -1
	for _, c := range s[:len(s)-2] {
		switch {
		case c >= 'a' && c <= 'h':
			fromFile = int(c - 'a')
		case c >= '1' && c <= '8':
			fromRank = int(c - '1')
		default:
			return Move{}, fmt.Errorf("invalid SAN: %s", san)
		}
	}

	for _, m := range legal {
		if m.To != to {
			continue
		}
		if gs.PieceAt(m.From).Type() != pt {
			continue
		}
		if fromFile >= 0 && m.From.File() != fromFile {
			continue
		}
		if fromRank >= 0 && m.From.Rank() != fromRank {
			continue
		}
		if m.Kind == Promotion {
			if m.Promotion != promo {
				continue
			}
		} else if promo != NoPieceType {
			continue
		}
		return m, nil
	}

	return Move{}, fmt.Errorf("illegal move: %s", san)
}

// MovesToSAN converts a move sequence starting at the given position
// into SAN strings. The position is not modified.
func MovesToSAN(gs *GameState, moves []Move) []string {
	replay := gs.Copy()
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, ToSAN(replay, m))
		replay.ApplyMove(m)
	}
	return out
}
