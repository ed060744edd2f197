package board

// Board step offsets in the rank-major square numbering. A step of +8
// is one rank up, +1 one file right.
var (
	knightOffsets = [8]int{-17, -15, -10, -6, 6, 10, 15, 17}
	kingOffsets   = [8]int{-9, -8, -7, -1, 1, 7, 8, 9}
	bishopDirs    = [4]int{-9, -7, 7, 9}
	rookDirs      = [4]int{-8, -1, 1, 8}
)

// step returns the square reached from sq by the given offset, or
// NoSquare when the step would leave the board. The file-distance guard
// catches horizontal wrap-around, where the raw index stays in range
// but the square jumps to the other edge of the board.
func step(sq Square, offset int) Square {
	to := int(sq) + offset
	if to < 0 || to > 63 {
		return NoSquare
	}
	fileDiff := to&7 - sq.File()
	if fileDiff < -2 || fileDiff > 2 {
		return NoSquare
	}
	return Square(to)
}

// IsSquareAttacked reports whether the given square is attacked by any
// piece of the given color. Occupied squares block sliding attacks;
// the piece on sq itself does not matter.
func (gs *GameState) IsSquareAttacked(sq Square, by Color) bool {
	// Pawn attacks run toward the pawn's forward diagonals, so the
	// attacking pawn sits one rank behind sq from its own point of view.
	if by == White {
		for _, off := range [2]int{-7, -9} {
			if from := step(sq, off); from != NoSquare && gs.Squares[from] == WhitePawn {
				return true
			}
		}
	} else {
		for _, off := range [2]int{7, 9} {
			if from := step(sq, off); from != NoSquare && gs.Squares[from] == BlackPawn {
				return true
			}
		}
	}

	knight := NewPiece(Knight, by)
	for _, off := range knightOffsets {
		if from := step(sq, off); from != NoSquare && gs.Squares[from] == knight {
			return true
		}
	}

	king := NewPiece(King, by)
	for _, off := range kingOffsets {
		if from := step(sq, off); from != NoSquare && gs.Squares[from] == king {
			return true
		}
	}

	bishop := NewPiece(Bishop, by)
	queen := NewPiece(Queen, by)
	for _, dir := range bishopDirs {
		for from := step(sq, dir); from != NoSquare; from = step(from, dir) {
			p := gs.Squares[from]
			if p == NoPiece {
				continue
			}
			if p == bishop || p == queen {
				return true
			}
			break
		}
	}

	rook := NewPiece(Rook, by)
	for _, dir := range rookDirs {
		for from := step(sq, dir); from != NoSquare; from = step(from, dir) {
			p := gs.Squares[from]
			if p == NoPiece {
				continue
			}
			if p == rook || p == queen {
				return true
			}
			break
		}
	}

	return false
}

// InCheck reports whether the side to move is in check.
func (gs *GameState) InCheck() bool {
	return gs.kingAttacked(gs.SideToMove)
}

// kingAttacked reports whether the given color's king is attacked.
// A missing king counts as not attacked so that malformed positions
// fail soft instead of crashing.
func (gs *GameState) kingAttacked(c Color) bool {
	ksq := gs.KingSquare(c)
	if !ksq.IsValid() {
		return false
	}
	return gs.IsSquareAttacked(ksq, c.Other())
}
