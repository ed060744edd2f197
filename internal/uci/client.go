// Package uci drives an external UCI engine process, used as an
// alternative move source to the built-in engine. The process is given
// a position by FEN and asked for a best move within a depth or time
// budget; moves cross the boundary in coordinate notation.
package uci

import (
	"fmt"
	"time"

	"github.com/notnil/chess"
	"github.com/notnil/chess/uci"
)

// Limits bounds a single best-move request. Zero values leave that
// axis unbounded, so at least one of Depth and MoveTime should be set.
type Limits struct {
	Depth    int
	MoveTime time.Duration
}

// Result is the engine's answer. ScoreCP is the evaluation in
// centipawns from the engine's point of view; Mate, when non-zero, is
// the signed distance to mate and takes precedence over ScoreCP.
type Result struct {
	BestMove string
	Depth    int
	ScoreCP  int
	Mate     int
	PV       []string
}

// Client wraps a UCI engine process such as Stockfish.
type Client struct {
	eng *uci.Engine
}

// NewClient starts the engine binary at path and runs the UCI
// handshake. An empty path means "stockfish", resolved on PATH.
func NewClient(path string) (*Client, error) {
	if path == "" {
		path = "stockfish"
	}

	eng, err := uci.New(path)
	if err != nil {
		return nil, fmt.Errorf("start uci engine %s: %w", path, err)
	}
	if err := eng.Run(uci.CmdUCI, uci.CmdIsReady, uci.CmdUCINewGame); err != nil {
		eng.Close()
		return nil, fmt.Errorf("uci handshake with %s: %w", path, err)
	}
	return &Client{eng: eng}, nil
}

// BestMove sets the position from a FEN string and requests the best
// move within the given limits, blocking until the engine reports it.
func (c *Client) BestMove(fen string, limits Limits) (Result, error) {
	fenOpt, err := chess.FEN(fen)
	if err != nil {
		return Result{}, fmt.Errorf("bad position: %w", err)
	}
	game := chess.NewGame(fenOpt, chess.UseNotation(chess.UCINotation{}))

	cmdGo := uci.CmdGo{Depth: limits.Depth, MoveTime: limits.MoveTime}
	if err := c.eng.Run(uci.CmdPosition{Position: game.Position()}, cmdGo); err != nil {
		return Result{}, fmt.Errorf("uci search: %w", err)
	}

	sr := c.eng.SearchResults()
	if sr.BestMove == nil {
		return Result{}, fmt.Errorf("engine returned no move for %s", fen)
	}

	res := Result{
		BestMove: sr.BestMove.String(),
		Depth:    sr.Info.Depth,
		ScoreCP:  sr.Info.Score.CP,
		Mate:     sr.Info.Score.Mate,
	}
	for _, m := range sr.Info.PV {
		res.PV = append(res.PV, m.String())
	}
	return res, nil
}

// Close shuts down the engine process.
func (c *Client) Close() error {
	if c.eng == nil {
		return nil
	}
	return c.eng.Close()
}
