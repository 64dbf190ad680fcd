package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/scout/models"
	"github.com/mohammad-safakhou/scout/repository"
)

// ResearchRunner is the research engine as the HTTP layer sees it.
type ResearchRunner interface {
	Run(ctx context.Context, query string, initial []models.SearchResult, prior string) (models.ResearchResponse, error)
}

// SearchGateway provides the initial result batch for an invocation.
type SearchGateway interface {
	Search(ctx context.Context, query string) []models.SearchResult
}

// ChatsHandler serves conversation endpoints. It owns the outer request
// deadline; the research core has no request-level timeout of its own.
type ChatsHandler struct {
	Repo           repository.ChatRepository
	Engine         ResearchRunner
	Gateway        SearchGateway
	RequestTimeout time.Duration
	HistoryWindow  int
	Logger         *log.Logger
}

func (h *ChatsHandler) Register(g *echo.Group) {
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.history)
	g.POST("/:id/messages", h.message)
}

func (h *ChatsHandler) create(c echo.Context) error {
	return c.JSON(http.StatusCreated, map[string]string{"id": uuid.NewString()})
}

func (h *ChatsHandler) list(c echo.Context) error {
	ids, err := h.Repo.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"chats": ids})
}

func (h *ChatsHandler) history(c echo.Context) error {
	msgs, err := h.Repo.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrChatNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chat not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"messages": msgs})
}

// message runs one research invocation for a user turn. An engine failure
// still yields a coherent chat turn: an apologetic answer plus one trace step
// naming the failure, recorded in history like any other response.
func (h *ChatsHandler) message(c echo.Context) error {
	chatID := c.Param("id")
	var req struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message required")
	}
	query := strings.TrimSpace(req.Message)

	timeout := h.RequestTimeout
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
	defer cancel()

	prior := ""
	if msgs, err := h.Repo.Get(ctx, chatID); err == nil {
		prior = renderPriorContext(msgs, h.HistoryWindow)
	}

	userMsg := models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      "user",
		Content:   query,
		CreatedAt: time.Now(),
	}
	if err := h.Repo.Append(ctx, chatID, userMsg); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	initial := h.Gateway.Search(ctx, query)
	resp, err := h.Engine.Run(ctx, query, initial, prior)
	if err != nil {
		h.Logger.Printf("research failed for chat %s: %v", chatID, err)
		resp = apologyResponse(err)
	}

	assistantMsg := models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      "assistant",
		Content:   resp.FinalOutput,
		Response:  &resp,
		CreatedAt: time.Now(),
	}
	if err := h.Repo.Append(ctx, chatID, assistantMsg); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, assistantMsg)
}

// apologyResponse keeps the conversation history consistent after an aborted
// invocation.
func apologyResponse(err error) models.ResearchResponse {
	return models.ResearchResponse{
		TraceSteps: []models.TraceStep{{
			Thought:     "Handle a failed research run",
			Action:      "abort the research loop",
			Observation: fmt.Sprintf("research aborted: %v", err),
		}},
		FinalOutput: "I'm sorry, I ran into a problem while researching your question. Please try again.",
	}
}

// renderPriorContext formats the most recent turns for prompting.
func renderPriorContext(msgs []models.ChatMessage, window int) string {
	if window <= 0 {
		window = 6
	}
	if len(msgs) > window {
		msgs = msgs[len(msgs)-window:]
	}
	var b strings.Builder
	for _, m := range msgs {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
	}
	return b.String()
}
