package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/tictactoe"
)

const usage = `commands:
  0-8       play the cell (row-major, 0 is top left)
  r [X|O]   restart the round, X starts unless O is given
  reset     reset scores and restart
  q         quit`

// Console is a hot-seat game: both players share one terminal and one controller.
type Console struct {
	logger     *slog.Logger
	controller *tictactoe.Controller
	in         io.Reader
	out        io.Writer
}

func New(logger *slog.Logger, controller *tictactoe.Controller, in io.Reader, out io.Writer) *Console {
	return &Console{
		logger:     logger.With("component", "console"),
		controller: controller,
		in:         in,
		out:        out,
	}
}

// Run - reads commands until q, end of input or ctx is canceled.
func (that *Console) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")

	scanner := bufio.NewScanner(that.in)

	that.printf("%s\n\n", usage)
	that.render()

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}

		quit, err := that.execute(strings.TrimSpace(scanner.Text()))
		if err != nil {
			that.printf("error: %v\n", err)
		}

		if quit {
			log.Debug("console closed by player")
			return nil
		}

		that.render()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

func (that *Console) execute(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch command := strings.ToLower(fields[0]); command {
	case "q", "quit", "exit":
		return true, nil
	case "help", "?":
		that.printf("%s\n", usage)
		return false, nil
	case "reset":
		that.controller.ResetScoresAndRestart()
		return false, nil
	case "r", "restart":
		starting := entity.PlayerX
		if len(fields) > 1 {
			player, err := entity.ParsePlayer(strings.ToUpper(fields[1]))
			if err != nil {
				return false, err
			}

			starting = player
		}

		that.controller.RestartRound(starting)

		return false, nil
	default:
		index, err := strconv.Atoi(command)
		if err != nil {
			return false, fmt.Errorf("unknown command %q, type help", command)
		}

		accepted, err := that.controller.ApplyMove(index)
		if errors.Is(err, apperror.ErrInvalidCell) {
			return false, fmt.Errorf("%w: use 0-8", err)
		}

		if err != nil {
			return false, err
		}

		if !accepted {
			that.printf("move not accepted\n")
		}

		return false, nil
	}
}

func (that *Console) render() {
	session := that.controller.Snapshot()

	that.printf("\n%s\n%s\n%s\n> ",
		session.Board.String(),
		FormatStatus(tictactoe.ComputeStatus(session.Board, session.Next)),
		FormatScores(session.Scores),
	)
}

func (that *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(that.out, format, args...)
}

// FormatStatus renders the status line under the board.
func FormatStatus(status entity.Status) string {
	switch s := status.(type) {
	case entity.Playing:
		return fmt.Sprintf("%s to move", s.Next)
	case entity.Won:
		return fmt.Sprintf("%s wins on %d-%d-%d", s.Winner, s.Line[0], s.Line[1], s.Line[2])
	default:
		return "draw"
	}
}

func FormatScores(scores entity.ScoreBoard) string {
	return fmt.Sprintf("score: X %d, O %d, draws %d", scores.X, scores.O, scores.Draws)
}
