// Package book implements opening books: a built-in starter table
// keyed by exact FEN and imported Polyglot books keyed by the
// Polyglot hash.
package book

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/hailam/chesscore/internal/board"
)

// BookEntry represents a single book entry.
type BookEntry struct {
	Move   board.Move
	Weight uint16
}

// Book represents an opening book. Positions reached while still in
// book resolve to a weighted random choice among the stored replies.
type Book struct {
	// lines is the built-in starter table, keyed by exact FEN. Moves
	// in here were resolved against the position when the line was
	// added, so they carry their final kinds.
	lines map[string][]BookEntry

	// entries holds imported Polyglot entries. Moves in here are raw
	// from/to/promotion triples; kinds are resolved when probing.
	entries map[uint64][]BookEntry
}

// New creates an empty book.
func New() *Book {
	return &Book{
		lines:   make(map[string][]BookEntry),
		entries: make(map[uint64][]BookEntry),
	}
}

// Builtin returns the built-in starter book, a handful of mainstream
// opening lines replayed from the starting position.
func Builtin() *Book {
	b := New()
	for _, line := range builtinLines {
		if err := b.AddLine(line); err != nil {
			panic("book: bad builtin line: " + err.Error())
		}
	}
	return b
}

// builtinLines are mainline openings in coordinate notation, each
// starting from the standard position. Shared prefixes merge, so the
// first moves carry the most weight.
var builtinLines = []string{
	// Ruy Lopez
	"e2e4 e7e5 g1f3 b8c6 f1b5 a7a6 b5a4 g8f6 e1g1 f8e7 f1e1 b7b5 a4b3 d7d6",
	// Italian
	"e2e4 e7e5 g1f3 b8c6 f1c4 f8c5 c2c3 g8f6 d2d3 d7d6",
	// Scotch
	"e2e4 e7e5 g1f3 b8c6 d2d4 e5d4 f3d4 g8f6 b1c3 f8b4",
	// Sicilian Najdorf
	"e2e4 c7c5 g1f3 d7d6 d2d4 c5d4 f3d4 g8f6 b1c3 a7a6",
	// French
	"e2e4 e7e6 d2d4 d7d5 b1c3 g8f6 c1g5 f8e7 e4e5 f6d7",
	// Caro-Kann
	"e2e4 c7c6 d2d4 d7d5 b1c3 d5e4 c3e4 c8f5 e4g3 f5g6",
	// Scandinavian
	"e2e4 d7d5 e4d5 d8d5 b1c3 d5a5 d2d4 g8f6 g1f3 c8f5",
	// Pirc
	"e2e4 d7d6 d2d4 g8f6 b1c3 g7g6 f2f4 f8g7 g1f3 e8g8",
	// Queen's Gambit Declined
	"d2d4 d7d5 c2c4 e7e6 b1c3 g8f6 c1g5 f8e7 e2e3 e8g8",
	// Queen's Gambit Accepted
	"d2d4 d7d5 c2c4 d5c4 g1f3 g8f6 e2e3 e7e6 f1c4 c7c5",
	// Slav
	"d2d4 d7d5 c2c4 c7c6 g1f3 g8f6 b1c3 d5c4 a2a4 c8f5",
	// King's Indian
	"d2d4 g8f6 c2c4 g7g6 b1c3 f8g7 e2e4 d7d6 g1f3 e8g8",
	// Nimzo-Indian
	"d2d4 g8f6 c2c4 e7e6 b1c3 f8b4 e2e3 e8g8 f1d3 d7d5",
	// London
	"d2d4 d7d5 g1f3 g8f6 c1f4 c7c5 e2e3 b8c6 c2c3 e7e6",
	// English
	"c2c4 e7e5 b1c3 g8f6 g1f3 b8c6 g2g3 d7d5 c4d5 f6d5",
}

// AddLine replays a space-separated line of coordinate moves from the
// starting position and records each position's reply.
func (b *Book) AddLine(line string) error {
	gs := board.NewGameState()
	for i, uci := range strings.Fields(line) {
		m, err := board.MoveFromUCI(gs, uci)
		if err != nil {
			return fmt.Errorf("move %d (%s): %w", i+1, uci, err)
		}
		b.addReply(gs.ToFEN(), m)
		gs.ApplyMove(m)
	}
	return nil
}

func (b *Book) addReply(fen string, m board.Move) {
	for i, e := range b.lines[fen] {
		if e.Move == m {
			b.lines[fen][i].Weight++
			return
		}
	}
	b.lines[fen] = append(b.lines[fen], BookEntry{Move: m, Weight: 1})
}

// LoadPolyglot loads a Polyglot format opening book from a file.
func LoadPolyglot(filename string) (*Book, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	b, err := LoadPolyglotReader(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return b, nil
}

// LoadPolyglotReader loads a Polyglot format book from a reader.
//
// Entries are 16 bytes: position key, move and weight big-endian,
// followed by four bytes of learn data which are ignored.
func LoadPolyglotReader(r io.Reader) (*Book, error) {
	b := New()

	var entry [16]byte
	for {
		_, err := io.ReadFull(r, entry[:])
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("truncated book entry")
		}
		if err != nil {
			return nil, err
		}

		key := binary.BigEndian.Uint64(entry[0:8])
		moveData := binary.BigEndian.Uint16(entry[8:10])
		weight := binary.BigEndian.Uint16(entry[10:12])

		b.entries[key] = append(b.entries[key], BookEntry{
			Move:   decodePolyglotMove(moveData),
			Weight: weight,
		})
	}

	return b, nil
}

// decodePolyglotMove converts a Polyglot move encoding to a Move.
// Bits 0-5 are the to square, 6-11 the from square and 12-14 the
// promotion piece (0=none, 1=knight, 2=bishop, 3=rook, 4=queen).
func decodePolyglotMove(data uint16) board.Move {
	to := board.NewSquare(int(data&7), int((data>>3)&7))
	from := board.NewSquare(int((data>>6)&7), int((data>>9)&7))
	promo := (data >> 12) & 7

	// Polyglot encodes castling as king-takes-rook; convert to the
	// king's real destination.
	switch {
	case from == board.E1 && to == board.H1:
		to = board.G1
	case from == board.E1 && to == board.A1:
		to = board.C1
	case from == board.E8 && to == board.H8:
		to = board.G8
	case from == board.E8 && to == board.A8:
		to = board.C8
	}

	if promo >= 1 && promo <= 4 {
		promoTypes := [5]board.PieceType{0, board.Knight, board.Bishop, board.Rook, board.Queen}
		return board.NewPromotion(from, to, promoTypes[promo])
	}
	return board.NewMove(from, to)
}

// Probe looks up the position and returns a weighted random book
// move. The starter table is consulted first by exact FEN, then the
// Polyglot entries by hash. Returned moves are always legal in the
// position; a book move that is not resolves to a miss.
func (b *Book) Probe(gs *board.GameState, rng *rand.Rand) (board.Move, bool) {
	if b == nil {
		return board.Move{}, false
	}

	if entries := b.lines[gs.ToFEN()]; len(entries) > 0 {
		return pickWeighted(entries, rng), true
	}

	verified := b.verifiedEntries(gs)
	if len(verified) == 0 {
		return board.Move{}, false
	}
	return pickWeighted(verified, rng), true
}

// ProbeAll returns every legal book move for the position, heaviest
// weight first.
func (b *Book) ProbeAll(gs *board.GameState) []BookEntry {
	if b == nil {
		return nil
	}
	if entries := b.lines[gs.ToFEN()]; len(entries) > 0 {
		result := make([]BookEntry, len(entries))
		copy(result, entries)
		sortByWeight(result)
		return result
	}
	return b.verifiedEntries(gs)
}

// verifiedEntries resolves the raw Polyglot entries for the position
// against the legal moves, dropping any that do not match.
func (b *Book) verifiedEntries(gs *board.GameState) []BookEntry {
	raw, ok := b.entries[gs.PolyglotHash()]
	if !ok {
		return nil
	}
	legal := gs.GenerateLegalMoves()

	var verified []BookEntry
	for _, e := range raw {
		if m, ok := resolveMove(legal, e.Move); ok {
			verified = append(verified, BookEntry{Move: m, Weight: e.Weight})
		}
	}
	sortByWeight(verified)
	return verified
}

// resolveMove finds the legal move matching a raw from/to/promotion
// triple, picking up its real kind (capture, castle, en passant).
func resolveMove(legal []board.Move, m board.Move) (board.Move, bool) {
	for _, lm := range legal {
		if lm.From != m.From || lm.To != m.To {
			continue
		}
		if lm.Kind == board.Promotion {
			if lm.Promotion == m.Promotion {
				return lm, true
			}
			continue
		}
		if m.Promotion == board.NoPieceType {
			return lm, true
		}
	}
	return board.Move{}, false
}

func sortByWeight(entries []BookEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Weight > entries[j].Weight
	})
}

func pickWeighted(entries []BookEntry, rng *rand.Rand) board.Move {
	total := 0
	for _, e := range entries {
		total += int(e.Weight)
	}
	if total == 0 {
		return entries[0].Move
	}

	r := rng.Intn(total)
	for _, e := range entries {
		r -= int(e.Weight)
		if r < 0 {
			return e.Move
		}
	}
	return entries[0].Move
}

// Size returns the number of unique positions in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.lines) + len(b.entries)
}
