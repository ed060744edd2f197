package board

// Polyglot-style hashing, kept separate from the internal Zobrist keys
// so book files can be regenerated without disturbing repetition
// detection. The key layout follows the Polyglot piece ordering; the
// keys themselves come from a fixed-seed PRNG, so books probed against
// this hash must be built with the same keys.
var (
	polyglotPieces     [12][64]uint64 // [piece_kind][square]
	polyglotCastling   [4]uint64      // [KQkq]
	polyglotEnPassant  [8]uint64      // [file]
	polyglotSideToMove uint64
)

func init() {
	initPolyglotKeys()
}

// Polyglot piece ordering: bp, bN, bB, bR, bQ, bK, wp, wN, wB, wR, wQ, wK
var polyglotKind = [2][6]int{
	{6, 7, 8, 9, 10, 11}, // White pieces: p=6, N=7, B=8, R=9, Q=10, K=11
	{0, 1, 2, 3, 4, 5},   // Black pieces: p=0, N=1, B=2, R=3, Q=4, K=5
}

// PolyglotHash computes the Polyglot book key for the position.
func (gs *GameState) PolyglotHash() uint64 {
	var hash uint64

	for sq := A1; sq <= H8; sq++ {
		p := gs.Squares[sq]
		if p == NoPiece {
			continue
		}
		hash ^= polyglotPieces[polyglotKind[p.Color()][p.Type()]][sq]
	}

	if gs.Castling&WhiteKingSideCastle != 0 {
		hash ^= polyglotCastling[0]
	}
	if gs.Castling&WhiteQueenSideCastle != 0 {
		hash ^= polyglotCastling[1]
	}
	if gs.Castling&BlackKingSideCastle != 0 {
		hash ^= polyglotCastling[2]
	}
	if gs.Castling&BlackQueenSideCastle != 0 {
		hash ^= polyglotCastling[3]
	}

	// The en passant file counts only when a pawn of the side to move
	// actually stands ready to capture, which is how Polyglot defines it.
	if file := gs.EnPassantFile; file != NoEnPassantFile {
		pawnRank := 4
		pawn := WhitePawn
		if gs.SideToMove == Black {
			pawnRank = 3
			pawn = BlackPawn
		}
		canCapture := false
		if file > 0 && gs.Squares[NewSquare(file-1, pawnRank)] == pawn {
			canCapture = true
		}
		if file < 7 && gs.Squares[NewSquare(file+1, pawnRank)] == pawn {
			canCapture = true
		}
		if canCapture {
			hash ^= polyglotEnPassant[file]
		}
	}

	if gs.SideToMove == White {
		hash ^= polyglotSideToMove
	}

	return hash
}

func initPolyglotKeys() {
	var s uint64 = 0x37b4a4b3f0d1c0d0

	rng := func() uint64 {
		s ^= s >> 12
		s ^= s << 25
		s ^= s >> 27
		return s * 0x2545F4914F6CDD1D
	}

	for piece := 0; piece < 12; piece++ {
		for sq := 0; sq < 64; sq++ {
			polyglotPieces[piece][sq] = rng()
		}
	}

	for i := 0; i < 4; i++ {
		polyglotCastling[i] = rng()
	}

	for i := 0; i < 8; i++ {
		polyglotEnPassant[i] = rng()
	}

	polyglotSideToMove = rng()
}
