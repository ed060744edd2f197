package board

// Perft counts the leaf nodes of the legal move tree to the given
// depth. It is the standard cross-check for move generator and
// make/unmake correctness.
func Perft(gs *GameState, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := gs.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		d := gs.ApplyMove(m)
		nodes += Perft(gs, depth-1)
		gs.UnapplyMove(m, d)
	}
	return nodes
}

// Divide returns the perft count below each root move, which narrows a
// perft mismatch down to the offending move.
func Divide(gs *GameState, depth int) map[string]uint64 {
	out := make(map[string]uint64)
	for _, m := range gs.GenerateLegalMoves() {
		d := gs.ApplyMove(m)
		out[m.String()] = Perft(gs, depth-1)
		gs.UnapplyMove(m, d)
	}
	return out
}
