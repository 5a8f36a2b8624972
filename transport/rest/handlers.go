package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rounds/transport/dto"
)

var (
	errMissingCell = errors.New("cell is required")
	errInvalidBody = errors.New("invalid request body")
)

type sessionUseCase interface {
	CreateSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, bool, error)
	RestartRound(ctx context.Context, id string, starting entity.Player) (*entity.Session, error)
	ResetScores(ctx context.Context, id string) (*entity.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

type SessionHandler struct {
	logger   *slog.Logger
	sessions sessionUseCase
}

func NewSessionHandler(logger *slog.Logger, sessions sessionUseCase) *SessionHandler {
	return &SessionHandler{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
	}
}

func (that *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessions.CreateSession(r.Context())
	if err != nil {
		that.writeError(w, "Create", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.NewSessionView(session))
}

func (that *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessions.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "Get", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewSessionView(session))
}

func (that *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := that.sessions.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, "Delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *SessionHandler) MakeTurn(w http.ResponseWriter, r *http.Request) {
	var req dto.TurnRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		that.writeError(w, "MakeTurn", err)
		return
	}

	if req.Cell == nil {
		that.writeError(w, "MakeTurn", errMissingCell)
		return
	}

	session, accepted, err := that.sessions.MakeTurn(r.Context(), chi.URLParam(r, "id"), *req.Cell)
	if err != nil {
		that.writeError(w, "MakeTurn", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewTurnView(session, accepted))
}

func (that *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	var req dto.RestartRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		that.writeError(w, "Restart", err)
		return
	}

	starting, err := entity.ParsePlayer(req.StartingPlayer)
	if err != nil {
		that.writeError(w, "Restart", err)
		return
	}

	session, err := that.sessions.RestartRound(r.Context(), chi.URLParam(r, "id"), starting)
	if err != nil {
		that.writeError(w, "Restart", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewSessionView(session))
}

func (that *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessions.ResetScores(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "Reset", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewSessionView(session))
}

func (that *SessionHandler) writeError(w http.ResponseWriter, method string, err error) {
	status := statusFor(err)
	message := err.Error()

	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
		message = http.StatusText(http.StatusInternalServerError)
	}

	writeJSON(w, status, dto.ErrorResponse{Error: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrInvalidPlayer),
		errors.Is(err, errMissingCell),
		errors.Is(err, errInvalidBody):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrCorruptSession):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON - an empty body decodes to the zero value. Anything after the first value is rejected.
func decodeJSON(body io.Reader, v any) error {
	dec := json.NewDecoder(body)

	err := dec.Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidBody, err)
	}

	if _, err = dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON value", errInvalidBody)
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
