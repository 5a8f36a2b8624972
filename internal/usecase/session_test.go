package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/repository"
)

var errRedisDown = errors.New("redis down")

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSessionManager_CreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates and stores a new session", func(t *testing.T) {
		// Given: a repository accepting the new session
		mockRepo := newMockSessionRepo(t)
		manager := NewSessionManager(newTestLogger(), mockRepo)
		manager.newID = func() string { return "s1" }

		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *entity.Session) bool {
			return s.ID == "s1" && s.Next == entity.PlayerX && s.Board == entity.NewBoard()
		})).Return(nil).Once()

		// When: creating a session
		session, err := manager.CreateSession(ctx)

		// Then: a fresh session is returned
		require.NoError(t, err)
		assert.Equal(t, "s1", session.ID)
		assert.Equal(t, entity.ScoreBoard{}, session.Scores)
	})

	t.Run("Generates distinct ids", func(t *testing.T) {
		manager := NewSessionManager(newTestLogger(), repository.NewMemorySessionRepository())

		first, err := manager.CreateSession(ctx)
		require.NoError(t, err)
		second, err := manager.CreateSession(ctx)
		require.NoError(t, err)

		assert.NotEmpty(t, first.ID)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("Returns error if the repository fails", func(t *testing.T) {
		mockRepo := newMockSessionRepo(t)
		manager := NewSessionManager(newTestLogger(), mockRepo)

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Session")).Return(errRedisDown).Once()

		session, err := manager.CreateSession(ctx)

		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, session)
	})
}

func TestSessionManager_GetSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns the stored session", func(t *testing.T) {
		mockRepo := newMockSessionRepo(t)
		manager := NewSessionManager(newTestLogger(), mockRepo)

		stored := entity.NewSession("s1")
		mockRepo.On("GetByID", mock.Anything, "s1").Return(stored, nil).Once()

		session, err := manager.GetSession(ctx, "s1")

		require.NoError(t, err)
		assert.Equal(t, stored, session)
	})

	t.Run("Returns ErrSessionNotFound for unknown ids", func(t *testing.T) {
		mockRepo := newMockSessionRepo(t)
		manager := NewSessionManager(newTestLogger(), mockRepo)

		mockRepo.On("GetByID", mock.Anything, "nope").Return(nil, apperror.ErrSessionNotFound).Once()

		_, err := manager.GetSession(ctx, "nope")

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Rejects a board with two winners", func(t *testing.T) {
		// Given: a stored board no legal game can produce
		mockRepo := newMockSessionRepo(t)
		manager := NewSessionManager(newTestLogger(), mockRepo)

		stored := entity.NewSession("s1")
		stored.Board = entity.Board{
			entity.MarkX, entity.MarkX, entity.MarkX,
			entity.MarkO, entity.MarkO, entity.MarkO,
			entity.Empty, entity.Empty, entity.Empty,
		}
		mockRepo.On("GetByID", mock.Anything, "s1").Return(stored, nil).Once()

		// When: loading it
		_, err := manager.GetSession(ctx, "s1")

		// Then: it is reported as corrupt
		require.ErrorIs(t, err, apperror.ErrCorruptSession)
	})
}

func TestSessionManager_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Error on invalid cell without touching storage", func(t *testing.T) {
		mockRepo := newMockSessionRepo(t)
		manager := NewSessionManager(newTestLogger(), mockRepo)

		session, accepted, err := manager.MakeTurn(ctx, "s1", 9)

		require.ErrorIs(t, err, apperror.ErrInvalidCell)
		assert.False(t, accepted)
		assert.Nil(t, session)
	})

	t.Run("Successful turn", func(t *testing.T) {
		// Given: a new session in storage
		mockRepo := newMockSessionRepo(t)
		manager := NewSessionManager(newTestLogger(), mockRepo)

		mockRepo.On("Update", mock.Anything, "s1").Return(entity.NewSession("s1"), nil).Once()

		// When: X plays the center
		session, accepted, err := manager.MakeTurn(ctx, "s1", 4)

		// Then: the move is accepted and O moves next
		require.NoError(t, err)
		assert.True(t, accepted)
		assert.Equal(t, entity.MarkX, session.Board.Get(4))
		assert.Equal(t, entity.PlayerO, session.Next)
	})

	t.Run("Occupied cell is rejected without error", func(t *testing.T) {
		mockRepo := newMockSessionRepo(t)
		manager := NewSessionManager(newTestLogger(), mockRepo)

		stored := entity.NewSession("s1")
		stored.Board = stored.Board.WithMove(4, entity.PlayerX)
		stored.Next = entity.PlayerO
		mockRepo.On("Update", mock.Anything, "s1").Return(stored, nil).Once()

		session, accepted, err := manager.MakeTurn(ctx, "s1", 4)

		require.NoError(t, err)
		assert.False(t, accepted)
		assert.Equal(t, stored.Board, session.Board)
		assert.Equal(t, entity.PlayerO, session.Next)
	})

	t.Run("Corrupt session is not played on", func(t *testing.T) {
		mockRepo := newMockSessionRepo(t)
		manager := NewSessionManager(newTestLogger(), mockRepo)

		stored := entity.NewSession("s1")
		stored.Next = "Z"
		mockRepo.On("Update", mock.Anything, "s1").Return(stored, nil).Once()

		_, _, err := manager.MakeTurn(ctx, "s1", 0)

		require.ErrorIs(t, err, apperror.ErrCorruptSession)
	})

	t.Run("Storage errors are returned", func(t *testing.T) {
		mockRepo := newMockSessionRepo(t)
		manager := NewSessionManager(newTestLogger(), mockRepo)

		mockRepo.On("Update", mock.Anything, "s1").Return(nil, errRedisDown).Once()

		_, accepted, err := manager.MakeTurn(ctx, "s1", 0)

		require.ErrorIs(t, err, errRedisDown)
		assert.False(t, accepted)
	})
}

func TestSessionManager_Rounds(t *testing.T) {
	ctx := context.Background()

	// Given: a session in the memory store
	manager := NewSessionManager(newTestLogger(), repository.NewMemorySessionRepository())
	session, err := manager.CreateSession(ctx)
	require.NoError(t, err)
	id := session.ID

	// When: X completes the top row
	for _, cell := range []int{0, 3, 1, 4, 2} {
		_, accepted, err := manager.MakeTurn(ctx, id, cell)
		require.NoError(t, err)
		require.True(t, accepted)
	}

	// Then: X scored once and further moves are ignored
	session, accepted, err := manager.MakeTurn(ctx, id, 8)
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Equal(t, entity.ScoreBoard{X: 1}, session.Scores)
	assert.Equal(t, entity.Empty, session.Board.Get(8))

	// When: the round restarts with O
	session, err = manager.RestartRound(ctx, id, entity.PlayerO)

	// Then: the board is empty and scores are kept
	require.NoError(t, err)
	assert.Equal(t, entity.NewBoard(), session.Board)
	assert.Equal(t, entity.PlayerO, session.Next)
	assert.Equal(t, entity.ScoreBoard{X: 1}, session.Scores)

	// When: scores are reset
	session, err = manager.ResetScores(ctx, id)

	// Then: everything is back to the start
	require.NoError(t, err)
	assert.Equal(t, entity.ScoreBoard{}, session.Scores)
	assert.Equal(t, entity.PlayerX, session.Next)

	// When: the session is deleted
	require.NoError(t, manager.DeleteSession(ctx, id))

	// Then: it cannot be loaded anymore
	_, err = manager.GetSession(ctx, id)
	require.ErrorIs(t, err, apperror.ErrSessionNotFound)
}

func TestSessionManager_RestartRound_NotFound(t *testing.T) {
	manager := NewSessionManager(newTestLogger(), repository.NewMemorySessionRepository())

	_, err := manager.RestartRound(context.Background(), "nope", entity.PlayerX)
	require.ErrorIs(t, err, apperror.ErrSessionNotFound)

	_, err = manager.ResetScores(context.Background(), "nope")
	require.ErrorIs(t, err, apperror.ErrSessionNotFound)
}

func TestSessionManager_ConcurrentTurnsScoreOnce(t *testing.T) {
	ctx := context.Background()

	// Given: X needs one more mark on the top row
	manager := NewSessionManager(newTestLogger(), repository.NewMemorySessionRepository())
	session, err := manager.CreateSession(ctx)
	require.NoError(t, err)

	for _, cell := range []int{0, 3, 1, 4} {
		_, _, err = manager.MakeTurn(ctx, session.ID, cell)
		require.NoError(t, err)
	}

	// When: every empty cell is tapped at once
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for _, cell := range []int{2, 5, 6, 7, 8} {
		cell := cell
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := manager.MakeTurn(ctx, session.ID, cell)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Then: the round ended once and was scored once
	stored, err := manager.GetSession(ctx, session.ID)
	require.NoError(t, err)

	scores := stored.Scores
	assert.Equal(t, 1, scores.X+scores.O+scores.Draws)
	assert.GreaterOrEqual(t, accepted, 1)
}
