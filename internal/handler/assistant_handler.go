package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"legalbooking/internal/service"
)

// AssistantHandler relays the slot assistant over server-sent events.
type AssistantHandler struct {
	svc service.AssistantService
}

// NewAssistantHandler creates a new assistant handler.
func NewAssistantHandler(svc service.AssistantService) *AssistantHandler {
	return &AssistantHandler{svc: svc}
}

// GenerateResponseRequest is one question for the assistant.
type GenerateResponseRequest struct {
	HumanMessage   string `json:"humanMessage" validate:"required,max=2000"`
	ConversationID *uint  `json:"conversationId" validate:"omitempty,gt=0"`
}

// GenerateResponse godoc
// @Summary Ask the slot assistant
// @Description Streams the Markdown answer as text/event-stream. The stream ends with an "event: done" frame.
// @Tags ai
// @Accept json
// @Produce text/event-stream
// @Security BearerAuth
// @Param request body GenerateResponseRequest true "Question"
// @Success 200 {string} string "event stream"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /ai/generate-response [post]
func (h *AssistantHandler) GenerateResponse(c echo.Context) error {
	var req GenerateResponseRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res := c.Response()
	started := false
	emit := func(chunk string) error {
		if !started {
			res.Header().Set(echo.HeaderContentType, "text/event-stream")
			res.Header().Set(echo.HeaderCacheControl, "no-cache")
			res.Header().Set(echo.HeaderConnection, "keep-alive")
			res.WriteHeader(http.StatusOK)
			started = true
		}
		if err := writeEvent(res, "", chunk); err != nil {
			return err
		}
		res.Flush()
		return nil
	}

	err := h.svc.Respond(c.Request().Context(), service.AssistantRequest{
		HumanMessage:   req.HumanMessage,
		ConversationID: req.ConversationID,
		OwnerID:        callerScope(c),
	}, emit)
	if err != nil {
		if !started {
			return fail(err)
		}
		// Headers are gone; report in-band.
		_ = writeEvent(res, "error", "the assistant stopped before finishing")
		res.Flush()
		return nil
	}
	if !started {
		if err := emit(""); err != nil {
			return err
		}
	}
	if err := writeEvent(res, "done", ""); err != nil {
		return err
	}
	res.Flush()
	return nil
}

// writeEvent writes one SSE frame. Multi-line data is split across data lines.
func writeEvent(w *echo.Response, event, data string) error {
	var b strings.Builder
	if event != "" {
		fmt.Fprintf(&b, "event: %s\n", event)
	}
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")
	_, err := w.Write([]byte(b.String()))
	return err
}
