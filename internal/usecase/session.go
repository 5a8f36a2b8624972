package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/tictactoe"
)

type sessionRepo interface {
	Create(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	Update(ctx context.Context, id string, fn repository.UpdateFunc) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

// SessionManager turns user intents into round transitions on stored sessions.
type SessionManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	newID       func() string
}

func NewSessionManager(logger *slog.Logger, sessionRepo sessionRepo) *SessionManager {
	return &SessionManager{
		logger:      logger.With("component", "session_manager"),
		sessionRepo: sessionRepo,
		newID:       uuid.NewString,
	}
}

func (that *SessionManager) CreateSession(ctx context.Context) (*entity.Session, error) {
	session := entity.NewSession(that.newID())

	if err := that.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("session created", "sessionID", session.ID)

	return session, nil
}

func (that *SessionManager) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if err = checkSession(session); err != nil {
		that.logger.Warn("stored session is corrupt", "sessionID", id, "error", err)
		return nil, err
	}

	return session, nil
}

// MakeTurn - plays the current player's mark on cell. accepted is false when the round is over
// or the cell is taken; the session is returned unchanged in that case.
func (that *SessionManager) MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, bool, error) {
	log := that.logger.With("method", "MakeTurn", "sessionID", id, "cell", cell)

	if !entity.ValidIndex(cell) {
		return nil, false, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	var (
		accepted bool
		mover    entity.Player
	)

	session, err := that.sessionRepo.Update(ctx, id, func(session *entity.Session) error {
		if err := checkSession(session); err != nil {
			return err
		}

		mover = session.Next

		next, ok, err := tictactoe.ApplyMove(*session, cell)
		if err != nil {
			return err
		}

		*session = next
		accepted = ok

		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to make turn: %w", err)
	}

	if !accepted {
		log.Debug("move rejected")
		return session, false, nil
	}

	status := tictactoe.ComputeStatus(session.Board, session.Next)
	if entity.IsTerminal(status) {
		log.Info("round finished", "player", mover, "status", status.Kind(), "scores", session.Scores)
	}

	return session, true, nil
}

func (that *SessionManager) RestartRound(ctx context.Context, id string, starting entity.Player) (*entity.Session, error) {
	session, err := that.sessionRepo.Update(ctx, id, func(session *entity.Session) error {
		*session = tictactoe.RestartRound(*session, starting)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to restart round: %w", err)
	}

	that.logger.Info("round restarted", "sessionID", id, "startingPlayer", starting)

	return session, nil
}

func (that *SessionManager) ResetScores(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.Update(ctx, id, func(session *entity.Session) error {
		*session = tictactoe.ResetScoresAndRestart(*session)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reset scores: %w", err)
	}

	that.logger.Info("scores reset", "sessionID", id)

	return session, nil
}

func (that *SessionManager) DeleteSession(ctx context.Context, id string) error {
	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session deleted", "sessionID", id)

	return nil
}

func checkSession(session *entity.Session) error {
	if !session.Next.Valid() {
		return fmt.Errorf("%w: next player %q", apperror.ErrCorruptSession, session.Next)
	}

	if err := tictactoe.CheckBoard(session.Board); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrCorruptSession, err)
	}

	return nil
}
