package board

// GeneratePseudoLegalMoves generates all moves for the side to move
// without checking whether they leave the king in check.
func (gs *GameState) GeneratePseudoLegalMoves() []Move {
	moves := make([]Move, 0, 48)
	us := gs.SideToMove

	for sq := A1; sq <= H8; sq++ {
		p := gs.Squares[sq]
		if p == NoPiece || p.Color() != us {
			continue
		}
		switch p.Type() {
		case Pawn:
			moves = gs.pawnMoves(moves, sq)
		case Knight:
			moves = gs.leaperMoves(moves, sq, knightOffsets[:])
		case Bishop:
			moves = gs.sliderMoves(moves, sq, bishopDirs[:])
		case Rook:
			moves = gs.sliderMoves(moves, sq, rookDirs[:])
		case Queen:
			moves = gs.sliderMoves(moves, sq, bishopDirs[:])
			moves = gs.sliderMoves(moves, sq, rookDirs[:])
		case King:
			moves = gs.leaperMoves(moves, sq, kingOffsets[:])
			moves = gs.castleMoves(moves, sq)
		}
	}

	return moves
}

// GenerateLegalMoves generates all legal moves for the side to move.
// Each pseudo-legal move is applied, tested for leaving the mover's
// king attacked, and unapplied.
func (gs *GameState) GenerateLegalMoves() []Move {
	pseudo := gs.GeneratePseudoLegalMoves()
	us := gs.SideToMove

	legal := pseudo[:0]
	for _, m := range pseudo {
		d := gs.ApplyMove(m)
		if !gs.kingAttacked(us) {
			legal = append(legal, m)
		}
		gs.UnapplyMove(m, d)
	}
	return legal
}

// GenerateLegalMovesFrom generates the legal moves whose origin is the
// given square. Interactive callers use it to highlight the reachable
// destinations of a picked-up piece.
func (gs *GameState) GenerateLegalMovesFrom(sq Square) []Move {
	all := gs.GenerateLegalMoves()
	from := all[:0]
	for _, m := range all {
		if m.From == sq {
			from = append(from, m)
		}
	}
	return from
}

// GenerateCaptures generates the legal captures and promotions, the
// move set quiescence search explores.
func (gs *GameState) GenerateCaptures() []Move {
	legal := gs.GenerateLegalMoves()
	caps := legal[:0]
	for _, m := range legal {
		switch m.Kind {
		case Capture, EnPassant, Promotion:
			caps = append(caps, m)
		}
	}
	return caps
}

// HasLegalMoves reports whether the side to move has at least one legal
// move. It stops at the first one instead of generating them all.
func (gs *GameState) HasLegalMoves() bool {
	us := gs.SideToMove
	for _, m := range gs.GeneratePseudoLegalMoves() {
		d := gs.ApplyMove(m)
		ok := !gs.kingAttacked(us)
		gs.UnapplyMove(m, d)
		if ok {
			return true
		}
	}
	return false
}

func (gs *GameState) leaperMoves(moves []Move, sq Square, offsets []int) []Move {
	us := gs.SideToMove
	for _, off := range offsets {
		to := step(sq, off)
		if to == NoSquare {
			continue
		}
		target := gs.Squares[to]
		if target == NoPiece {
			moves = append(moves, NewMove(sq, to))
		} else if target.Color() != us {
			moves = append(moves, NewCapture(sq, to))
		}
	}
	return moves
}

func (gs *GameState) sliderMoves(moves []Move, sq Square, dirs []int) []Move {
	us := gs.SideToMove
	for _, dir := range dirs {
		for to := step(sq, dir); to != NoSquare; to = step(to, dir) {
			target := gs.Squares[to]
			if target == NoPiece {
				moves = append(moves, NewMove(sq, to))
				continue
			}
			if target.Color() != us {
				moves = append(moves, NewCapture(sq, to))
			}
			break
		}
	}
	return moves
}

func (gs *GameState) pawnMoves(moves []Move, sq Square) []Move {
	us := gs.SideToMove
	dir := 8
	startRank, promoRank := 1, 7
	if us == Black {
		dir = -8
		startRank, promoRank = 6, 0
	}

	// Pushes. A straight push cannot wrap files, so only the board edge
	// check in step matters here.
	if one := step(sq, dir); one != NoSquare && gs.Squares[one] == NoPiece {
		if one.Rank() == promoRank {
			moves = gs.addPromotions(moves, sq, one)
		} else {
			moves = append(moves, NewMove(sq, one))
		}
		if sq.Rank() == startRank {
			if two := step(one, dir); two != NoSquare && gs.Squares[two] == NoPiece {
				moves = append(moves, NewMove(sq, two))
			}
		}
	}

	// Diagonal captures, including en passant onto the target square.
	ep := gs.EnPassantTarget()
	for _, d := range [2]int{dir - 1, dir + 1} {
		to := step(sq, d)
		if to == NoSquare {
			continue
		}
		if to == ep {
			moves = append(moves, NewEnPassant(sq, to))
			continue
		}
		target := gs.Squares[to]
		if target == NoPiece || target.Color() == us {
			continue
		}
		if to.Rank() == promoRank {
			moves = gs.addPromotions(moves, sq, to)
		} else {
			moves = append(moves, NewCapture(sq, to))
		}
	}

	return moves
}

func (gs *GameState) addPromotions(moves []Move, from, to Square) []Move {
	for _, pt := range PromotionOrder {
		moves = append(moves, NewPromotion(from, to, pt))
	}
	return moves
}

// castleMoves emits castling when rights remain, the squares between
// king and rook are empty, and neither the king's square nor the
// squares it crosses are attacked. Rights are trusted: there is no
// check that the rook is actually home. Positions that lie about their
// castling rights get garbage out.
func (gs *GameState) castleMoves(moves []Move, sq Square) []Move {
	us := gs.SideToMove
	them := us.Other()

	if us == White && sq == E1 {
		if gs.Castling.CanCastle(White, true) &&
			gs.IsEmpty(F1) && gs.IsEmpty(G1) &&
			!gs.IsSquareAttacked(E1, them) && !gs.IsSquareAttacked(F1, them) && !gs.IsSquareAttacked(G1, them) {
			moves = append(moves, NewCastle(E1, G1))
		}
		if gs.Castling.CanCastle(White, false) &&
			gs.IsEmpty(D1) && gs.IsEmpty(C1) && gs.IsEmpty(B1) &&
			!gs.IsSquareAttacked(E1, them) && !gs.IsSquareAttacked(D1, them) && !gs.IsSquareAttacked(C1, them) {
			moves = append(moves, NewCastle(E1, C1))
		}
	} else if us == Black && sq == E8 {
		if gs.Castling.CanCastle(Black, true) &&
			gs.IsEmpty(F8) && gs.IsEmpty(G8) &&
			!gs.IsSquareAttacked(E8, them) && !gs.IsSquareAttacked(F8, them) && !gs.IsSquareAttacked(G8, them) {
			moves = append(moves, NewCastle(E8, G8))
		}
		if gs.Castling.CanCastle(Black, false) &&
			gs.IsEmpty(D8) && gs.IsEmpty(C8) && gs.IsEmpty(B8) &&
			!gs.IsSquareAttacked(E8, them) && !gs.IsSquareAttacked(D8, them) && !gs.IsSquareAttacked(C8, them) {
			moves = append(moves, NewCastle(E8, C8))
		}
	}

	return moves
}

// liftPiece removes and returns the piece on sq, updating the hash.
func (gs *GameState) liftPiece(sq Square) Piece {
	p := gs.Squares[sq]
	if p != NoPiece {
		gs.Squares[sq] = NoPiece
		gs.Hash ^= pieceKey(p, sq)
	}
	return p
}

// dropPiece places a piece on sq, updating the hash. The square must be
// empty.
func (gs *GameState) dropPiece(p Piece, sq Square) {
	if p == NoPiece {
		return
	}
	gs.Squares[sq] = p
	gs.Hash ^= pieceKey(p, sq)
}

// ApplyMove plays a move on the board and returns the delta needed to
// take it back. It does not validate the move and does not touch the
// move history; the arbiter layers both on top.
//
// The Zobrist hash is maintained incrementally and agrees with
// ComputeHash afterwards.
func (gs *GameState) ApplyMove(m Move) StateDelta {
	d := StateDelta{
		Castling:      gs.Castling,
		EnPassantFile: gs.EnPassantFile,
		HalfMoveClock: gs.HalfMoveClock,
		Hash:          gs.Hash,
	}
	us := gs.SideToMove

	// Side, castling and en passant state are hashed out up front; the
	// new castling and en passant values are hashed back in once known.
	gs.Hash ^= zobristSideToMove
	gs.Hash ^= zobristCastling[gs.Castling]
	if gs.EnPassantFile != NoEnPassantFile {
		gs.Hash ^= zobristEnPassant[gs.EnPassantFile]
	}
	gs.EnPassantFile = NoEnPassantFile

	// Remove the captured piece, if any. En passant is the one case
	// where the victim is not on the destination square.
	switch m.Kind {
	case Capture, Promotion:
		d.Captured = gs.liftPiece(m.To)
	case EnPassant:
		d.Captured = gs.liftPiece(epVictimSquare(m.To, us))
	}

	// Move the piece, swapping in the promoted piece at the destination.
	moving := gs.liftPiece(m.From)
	if m.Kind == Promotion {
		gs.dropPiece(NewPiece(m.Promotion, us), m.To)
	} else {
		gs.dropPiece(moving, m.To)
	}

	// Castling also hops the rook.
	switch m.Kind {
	case CastleKingSide:
		rank := m.From.Rank()
		gs.dropPiece(gs.liftPiece(NewSquare(7, rank)), NewSquare(5, rank))
	case CastleQueenSide:
		rank := m.From.Rank()
		gs.dropPiece(gs.liftPiece(NewSquare(0, rank)), NewSquare(3, rank))
	}

	// Revoke castling rights on king moves and on any move touching a
	// rook's home corner, whether the rook leaves or is captured there.
	if moving.Type() == King {
		if us == White {
			gs.Castling &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			gs.Castling &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}
	if m.From == A1 || m.To == A1 {
		gs.Castling &^= WhiteQueenSideCastle
	}
	if m.From == H1 || m.To == H1 {
		gs.Castling &^= WhiteKingSideCastle
	}
	if m.From == A8 || m.To == A8 {
		gs.Castling &^= BlackQueenSideCastle
	}
	if m.From == H8 || m.To == H8 {
		gs.Castling &^= BlackKingSideCastle
	}
	gs.Hash ^= zobristCastling[gs.Castling]

	// Half-move clock resets on pawn moves and captures.
	if moving.Type() == Pawn || d.Captured != NoPiece {
		gs.HalfMoveClock = 0
	} else {
		gs.HalfMoveClock++
	}

	if us == Black {
		gs.FullMoveNumber++
	}

	// A double pawn push opens the en passant file for one ply.
	if moving.Type() == Pawn {
		if diff := int(m.To) - int(m.From); diff == 16 || diff == -16 {
			gs.EnPassantFile = m.From.File()
			gs.Hash ^= zobristEnPassant[gs.EnPassantFile]
		}
	}

	gs.SideToMove = us.Other()
	return d
}

// UnapplyMove restores the position as it was before ApplyMove(m)
// returned the given delta. Moves must be unapplied in reverse order of
// application.
func (gs *GameState) UnapplyMove(m Move, d StateDelta) {
	us := gs.SideToMove.Other() // the side that made the move
	gs.SideToMove = us

	placed := gs.Squares[m.To]
	gs.Squares[m.To] = NoPiece
	if m.Kind == Promotion {
		placed = NewPiece(Pawn, us)
	}
	gs.Squares[m.From] = placed

	switch m.Kind {
	case Capture, Promotion:
		if d.Captured != NoPiece {
			gs.Squares[m.To] = d.Captured
		}
	case EnPassant:
		gs.Squares[epVictimSquare(m.To, us)] = d.Captured
	case CastleKingSide:
		rank := m.From.Rank()
		gs.Squares[NewSquare(7, rank)] = gs.Squares[NewSquare(5, rank)]
		gs.Squares[NewSquare(5, rank)] = NoPiece
	case CastleQueenSide:
		rank := m.From.Rank()
		gs.Squares[NewSquare(0, rank)] = gs.Squares[NewSquare(3, rank)]
		gs.Squares[NewSquare(3, rank)] = NoPiece
	}

	gs.Castling = d.Castling
	gs.EnPassantFile = d.EnPassantFile
	gs.HalfMoveClock = d.HalfMoveClock
	gs.Hash = d.Hash
	if us == Black {
		gs.FullMoveNumber--
	}
}

// epVictimSquare returns the square of the pawn captured en passant
// when a pawn of the given color lands on the target square.
func epVictimSquare(target Square, mover Color) Square {
	if mover == White {
		return target - 8
	}
	return target + 8
}
