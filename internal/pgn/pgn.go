// Package pgn converts between played games and PGN movetext.
package pgn

import (
	"fmt"
	"strings"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
)

// Movetext renders the game's recorded moves as numbered movetext
// ending with the result token, e.g. "1. f3 e5 2. g4 Qh4# 0-1".
func Movetext(gs *board.GameState) (string, error) {
	start, err := board.ParseFEN(gs.StartingFEN())
	if err != nil {
		return "", fmt.Errorf("bad starting position: %w", err)
	}

	sans := board.MovesToSAN(start, gs.Moves())

	var sb strings.Builder
	num := start.FullMoveNumber
	side := start.SideToMove
	for i, san := range sans {
		if side == board.White {
			fmt.Fprintf(&sb, "%d. ", num)
		} else if i == 0 {
			fmt.Fprintf(&sb, "%d... ", num)
		}
		sb.WriteString(san)
		sb.WriteByte(' ')
		if side == board.Black {
			num++
		}
		side = side.Other()
	}
	sb.WriteString(game.AnalyzePosition(gs).ResultToken())
	return sb.String(), nil
}

// Replay parses PGN text and plays the moves out through the rules,
// returning the final state with its full history. A FEN tag sets the
// starting position; all other tags, comments, NAGs and variations
// are tolerated and skipped. Parsing stops at the first result token.
func Replay(text string) (*board.GameState, error) {
	fen, body := splitTags(text)

	var gs *board.GameState
	if fen == "" {
		gs = board.NewGameState()
	} else {
		var err error
		gs, err = board.ParseFEN(fen)
		if err != nil {
			return nil, fmt.Errorf("FEN tag: %w", err)
		}
	}

	for _, tok := range strings.Fields(stripNonMoves(body)) {
		if isResult(tok) {
			break
		}
		san, ok := sanToken(tok)
		if !ok {
			continue
		}
		if _, err := game.PlaySAN(gs, san); err != nil {
			return nil, fmt.Errorf("move %d: %w", gs.HistoryLen()+1, err)
		}
	}
	return gs, nil
}

// splitTags separates the tag pair section from the movetext and
// extracts the FEN tag's value if present.
func splitTags(text string) (fen, body string) {
	var sb strings.Builder
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			inner := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
			if strings.HasPrefix(inner, "FEN") {
				fen = strings.Trim(strings.TrimSpace(strings.TrimPrefix(inner, "FEN")), `"`)
			}
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return fen, sb.String()
}

// stripNonMoves removes brace comments, rest-of-line comments and
// parenthesized variations (which may nest) from movetext.
func stripNonMoves(body string) string {
	var sb strings.Builder
	depth := 0
	inBrace := false
	inLine := false
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case inBrace:
			if c == '}' {
				inBrace = false
			}
		case inLine:
			if c == '\n' {
				inLine = false
			}
		case c == '{':
			inBrace = true
			sb.WriteByte(' ')
		case c == ';':
			inLine = true
			sb.WriteByte(' ')
		case c == '(':
			depth++
			sb.WriteByte(' ')
		case c == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func isResult(tok string) bool {
	switch tok {
	case "1-0", "0-1", "1/2-1/2", "*":
		return true
	}
	return false
}

// sanToken strips move numbers and glued dots ("1.", "3...", "1.e4")
// and rejects NAGs, returning the bare SAN if any remains.
func sanToken(tok string) (string, bool) {
	if i := strings.IndexByte(tok, '.'); i >= 0 && isDigits(tok[:i]) {
		tok = tok[strings.LastIndexByte(tok, '.')+1:]
	}
	if tok == "" || tok[0] == '$' || isDigits(tok) {
		return "", false
	}
	return tok, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
