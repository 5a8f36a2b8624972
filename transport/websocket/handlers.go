package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rounds/transport/dto"
)

func (that *Server) handleNewSession(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleNewSession")

	session, err := that.sessions.CreateSession(ctx)
	if err != nil {
		log.Error("failed to create session", "error", err)
		return that.sendError(c, msg.Action, publicError(err))
	}

	that.subscribe(session.ID, c)

	log.Info("session created", "sessionID", session.ID)

	return c.send(msg.Action, newSessionPayload(session))
}

func (that *Server) handleConnect(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendError(c, msg.Action, err.Error())
	}

	if payloadReq.SessionID == "" {
		return that.sendError(c, msg.Action, "session_id is required")
	}

	session, err := that.sessions.GetSession(ctx, payloadReq.SessionID)
	if err != nil {
		log.Warn("failed to get session", "sessionID", payloadReq.SessionID, "error", err)
		return that.sendError(c, msg.Action, publicError(err))
	}

	that.subscribe(session.ID, c)

	return c.send(msg.Action, newSessionPayload(session))
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleGameTurn")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendError(c, msg.Action, err.Error())
	}

	if payloadReq.SessionID == "" {
		return that.sendError(c, msg.Action, "session_id is required")
	}

	if payloadReq.Cell == nil {
		return that.sendError(c, msg.Action, "cell is required")
	}

	session, accepted, err := that.sessions.MakeTurn(ctx, payloadReq.SessionID, *payloadReq.Cell)
	if err != nil {
		log.Warn("failed to make turn", "sessionID", payloadReq.SessionID, "error", err)
		return that.sendError(c, msg.Action, publicError(err))
	}

	that.subscribe(session.ID, c)

	view := dto.NewTurnView(session, accepted)
	if err = c.send(msg.Action, Payload{Session: &view}); err != nil {
		return err
	}

	if accepted {
		that.broadcast(session, c)
	}

	return nil
}

func (that *Server) handleGameRestart(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleGameRestart")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendError(c, msg.Action, err.Error())
	}

	if payloadReq.SessionID == "" {
		return that.sendError(c, msg.Action, "session_id is required")
	}

	starting, err := entity.ParsePlayer(payloadReq.StartingPlayer)
	if err != nil {
		return that.sendError(c, msg.Action, err.Error())
	}

	session, err := that.sessions.RestartRound(ctx, payloadReq.SessionID, starting)
	if err != nil {
		log.Warn("failed to restart round", "sessionID", payloadReq.SessionID, "error", err)
		return that.sendError(c, msg.Action, publicError(err))
	}

	that.subscribe(session.ID, c)

	if err = c.send(msg.Action, newSessionPayload(session)); err != nil {
		return err
	}

	that.broadcast(session, c)

	return nil
}

func (that *Server) handleGameReset(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleGameReset")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendError(c, msg.Action, err.Error())
	}

	if payloadReq.SessionID == "" {
		return that.sendError(c, msg.Action, "session_id is required")
	}

	session, err := that.sessions.ResetScores(ctx, payloadReq.SessionID)
	if err != nil {
		log.Warn("failed to reset scores", "sessionID", payloadReq.SessionID, "error", err)
		return that.sendError(c, msg.Action, publicError(err))
	}

	that.subscribe(session.ID, c)

	if err = c.send(msg.Action, newSessionPayload(session)); err != nil {
		return err
	}

	that.broadcast(session, c)

	return nil
}

func (that *Server) sendError(c *client, action, errorMsg string) error {
	if err := c.send(action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

func decodePayload(msg *Message) (Payload, error) {
	var payload Payload

	if len(msg.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("invalid payload: %w", err)
	}

	return payload, nil
}

func newSessionPayload(session *entity.Session) Payload {
	view := dto.NewSessionView(session)
	return Payload{Session: &view}
}

// publicError - client-facing text; unexpected failures are not leaked.
func publicError(err error) string {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound),
		errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrInvalidPlayer),
		errors.Is(err, apperror.ErrCorruptSession):
		return err.Error()
	default:
		return "internal error"
	}
}
