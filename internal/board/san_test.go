package board

import (
	"strings"
	"testing"
)

func TestToSAN(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		uci  string
		want string
	}{
		{"pawn push", StartFEN, "e2e4", "e4"},
		{"knight development", StartFEN, "g1f3", "Nf3"},
		{"pawn capture", "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2", "e4d5", "exd5"},
		{"piece capture", "rnb1kbnr/ppp1pppp/8/3q4/8/2N5/PPPP1PPP/R1BQKBNR w KQkq - 0 3", "c3d5", "Nxd5"},
		{"kingside castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"queenside castle", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", "O-O-O"},
		{"en passant", "k7/8/8/3pP3/8/8/8/7K w - d6 0 2", "e5d6", "exd6"},
		{"promotion", "4k3/1P6/8/8/8/8/8/4K3 w - - 0 1", "b7b8q", "b8=Q+"},
		{"capture promotion", "r3k3/1P6/8/8/8/8/8/4K3 w - - 0 1", "b7a8n", "bxa8=N"},
		{"check", "4k3/8/8/8/8/8/8/4KQ2 w - - 0 1", "f1f8", "Qf8+"},
		{"mate", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "a1a8", "Ra8#"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gs := mustParseFEN(t, tc.fen)
			m, err := MoveFromUCI(gs, tc.uci)
			if err != nil {
				t.Fatalf("MoveFromUCI(%s): %v", tc.uci, err)
			}
			if got := ToSAN(gs, m); got != tc.want {
				t.Errorf("ToSAN(%s) = %q, want %q", tc.uci, got, tc.want)
			}
		})
	}
}

func TestToSANDisambiguation(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		uci  string
		want string
	}{
		// Knights on b1 and f3 can both reach d2: file disambiguation.
		{"by file", "4k3/8/8/8/8/5N2/8/1N2K3 w - - 0 1", "b1d2", "Nbd2"},
		// Rooks on a1 and a5 can both reach a3: rank disambiguation.
		{"by rank", "4k3/8/8/R7/8/8/8/R3K3 w - - 0 1", "a1a3", "R1a3"},
		// Four queens converge on b2, so neither file nor rank alone
		// identifies the mover and the full square is needed.
		{"by square", "4k3/8/8/8/8/Q1Q5/8/Q1Q1K3 w - - 0 1", "a1b2", "Qa1b2"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gs := mustParseFEN(t, tc.fen)
			m, err := MoveFromUCI(gs, tc.uci)
			if err != nil {
				t.Fatalf("MoveFromUCI(%s): %v", tc.uci, err)
			}
			if got := ToSAN(gs, m); got != tc.want {
				t.Errorf("ToSAN(%s) = %q, want %q", tc.uci, got, tc.want)
			}
		})
	}
}

func TestParseSAN(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		san  string
		uci  string
	}{
		{"pawn push", StartFEN, "e4", "e2e4"},
		{"knight", StartFEN, "Nf3", "g1f3"},
		{"capture", "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2", "exd5", "e4d5"},
		{"castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "O-O", "e1g1"},
		{"castle zeros", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "0-0-0", "e1c1"},
		{"promotion", "4k3/1P6/8/8/8/8/8/4K3 w - - 0 1", "b8=Q", "b7b8q"},
		{"with check suffix", "4k3/8/8/8/8/8/8/4KQ2 w - - 0 1", "Qf8+", "f1f8"},
		{"disambiguated", "4k3/8/8/8/8/5N2/8/1N2K3 w - - 0 1", "Nbd2", "b1d2"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gs := mustParseFEN(t, tc.fen)
			m, err := ParseSAN(gs, tc.san)
			if err != nil {
				t.Fatalf("ParseSAN(%s): %v", tc.san, err)
			}
			if m.String() != tc.uci {
				t.Errorf("ParseSAN(%s) = %v, want %s", tc.san, m, tc.uci)
			}
		})
	}
}

func TestParseSANErrors(t *testing.T) {
	gs := NewGameState()

	bad := []string{"", "e5", "Nd4", "O-O", "Qh5", "e9", "xx", "e8=K"}
	for _, san := range bad {
		if _, err := ParseSAN(gs, san); err == nil {
			t.Errorf("ParseSAN(%q) succeeded, want error", san)
		}
	}
}

func TestSANRoundTrip(t *testing.T) {
	// Every legal move in a busy middlegame position must survive
	// SAN encode/decode.
	gs := mustParseFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")

	for _, m := range gs.GenerateLegalMoves() {
		san := ToSAN(gs, m)
		back, err := ParseSAN(gs, san)
		if err != nil {
			t.Errorf("ParseSAN(%q) for %v: %v", san, m, err)
			continue
		}
		if back != m {
			t.Errorf("round trip %v -> %q -> %v", m, san, back)
		}
	}
}

func TestMovesToSANFoolsMate(t *testing.T) {
	gs := NewGameState()

	var moves []Move
	for _, uci := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		m, err := MoveFromUCI(gs, uci)
		if err != nil {
			t.Fatalf("%s: %v", uci, err)
		}
		moves = append(moves, m)
		gs.ApplyMove(m)
	}

	start := NewGameState()
	got := strings.Join(MovesToSAN(start, moves), " ")
	want := "f3 e5 g4 Qh4#"
	if got != want {
		t.Errorf("MovesToSAN = %q, want %q", got, want)
	}
}
