package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hrm/hrm/internal/platform/api"
)

type Handler struct {
	client *Client
	store  *SessionStore
	logger zerolog.Logger
}

func NewHandler(client *Client, store *SessionStore, logger zerolog.Logger) *Handler {
	return &Handler{client: client, store: store, logger: logger}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	a := g.Group("/ai-agent")
	a.POST("/session", h.CreateSession)
	a.POST("/query", h.Query)
}

type sessionRequest struct {
	UserID       string                 `json:"user_id"`
	SessionID    string                 `json:"session_id"`
	InitialState map[string]interface{} `json:"initial_state"`
}

func (h *Handler) CreateSession(c echo.Context) error {
	var req sessionRequest
	if err := c.Bind(&req); err != nil {
		return api.Validation(err.Error())
	}
	if req.UserID == "" || req.SessionID == "" {
		return api.Validation("user_id and session_id are required")
	}

	ctx := c.Request().Context()
	session, err := h.client.CreateSession(ctx, req.UserID, req.SessionID, req.InitialState)
	if errors.Is(err, ErrSessionExists) {
		h.store.Put(req.UserID, req.SessionID)
		return api.OKMessage(c, "Session already exists", map[string]string{"session_id": req.SessionID})
	}
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", req.UserID).Str("session_id", req.SessionID).Msg("agent session create failed")
		return api.Upstream(fmt.Sprintf("failed to create session: %v", err))
	}

	h.store.Put(req.UserID, req.SessionID)
	return api.OKMessage(c, "Session created successfully", session)
}

type queryRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type queryResponse struct {
	api.Response
	AgentResponse string            `json:"response"`
	Events        []json.RawMessage `json:"events"`
}

func (h *Handler) Query(c echo.Context) error {
	var req queryRequest
	if err := c.Bind(&req); err != nil {
		return api.Validation(err.Error())
	}
	if req.UserID == "" || req.SessionID == "" || req.Message == "" {
		return api.Validation("user_id, session_id, and message are required")
	}
	if _, ok := h.store.Get(req.UserID, req.SessionID); !ok {
		return api.NotFound("session not found; create it first")
	}

	events, err := h.client.Run(c.Request().Context(), req.UserID, req.SessionID, req.Message)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", req.UserID).Str("session_id", req.SessionID).Msg("agent query failed")
		return api.Upstream(fmt.Sprintf("failed to query agent: %v", err))
	}

	return c.JSON(http.StatusOK, queryResponse{
		Response:      api.Response{Success: true},
		AgentResponse: ExtractText(events),
		Events:        events,
	})
}
