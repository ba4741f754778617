package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "legalbooking/internal/errors"
	"legalbooking/internal/middleware"
	"legalbooking/internal/model"
	"legalbooking/internal/service"
)

// ConversationHandler handles assistant conversation and interaction endpoints.
type ConversationHandler struct {
	conversations service.ConversationService
	interactions  service.InteractionService
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(conversations service.ConversationService, interactions service.InteractionService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations, interactions: interactions}
}

// CreateConversationRequest opens a conversation. UserID defaults to the caller.
type CreateConversationRequest struct {
	UserID            uint   `json:"userId"`
	ConversationTitle string `json:"conversationTitle" validate:"required,max=255"`
}

// UpdateConversationRequest renames or finishes a conversation.
type UpdateConversationRequest struct {
	ConversationTitle *string `json:"conversationTitle" validate:"omitempty,min=1,max=255"`
	Status            *string `json:"status" validate:"omitempty,oneof=active finished"`
}

// CreateInteractionRequest records one exchange in a conversation.
type CreateInteractionRequest struct {
	ConversationID uint    `json:"conversationId" validate:"required,gt=0"`
	HumanMessage   string  `json:"humanMessage" validate:"required"`
	BotMessage     *string `json:"botMessage"`
}

// UpdateInteractionRequest edits an interaction.
type UpdateInteractionRequest struct {
	HumanMessage *string `json:"humanMessage" validate:"omitempty,min=1"`
	BotMessage   *string `json:"botMessage"`
}

// CreateConversation godoc
// @Summary Open a conversation
// @Tags conversations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateConversationRequest true "Conversation data"
// @Success 201 {object} model.Conversation
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /conversations [post]
func (h *ConversationHandler) CreateConversation(c echo.Context) error {
	var req CreateConversationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if claims, ok := middleware.Claims(c); ok && req.UserID == 0 {
		req.UserID = claims.UserID
	}
	if !mayManageUser(c, req.UserID) {
		return fail(apperrors.ErrForbidden)
	}
	conversation, err := h.conversations.Create(c.Request().Context(), service.CreateConversationInput{
		UserID: req.UserID,
		Title:  req.ConversationTitle,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, conversation)
}

// GetConversation godoc
// @Summary Get a conversation with its interactions
// @Tags conversations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conversation ID"
// @Success 200 {object} model.Conversation
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /conversations/{id} [get]
func (h *ConversationHandler) GetConversation(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	conversation, err := h.ownedConversation(c, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, conversation)
}

// ownedConversation loads the conversation and checks the caller may act on it.
func (h *ConversationHandler) ownedConversation(c echo.Context, id uint) (*model.Conversation, error) {
	conversation, err := h.conversations.FindOne(c.Request().Context(), id)
	if err != nil {
		return nil, fail(err)
	}
	if err := authorizeOwner(c, conversation.UserID); err != nil {
		return nil, err
	}
	return conversation, nil
}

// ownedInteraction loads the interaction and checks the caller owns its conversation.
func (h *ConversationHandler) ownedInteraction(c echo.Context, id uint) (*model.Interaction, error) {
	interaction, err := h.interactions.FindOne(c.Request().Context(), id)
	if err != nil {
		return nil, fail(err)
	}
	if _, err := h.ownedConversation(c, interaction.ConversationID); err != nil {
		return nil, err
	}
	return interaction, nil
}

// ListConversations godoc
// @Summary List conversations
// @Tags conversations
// @Produce json
// @Security BearerAuth
// @Param pageNumber query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Param sortedBy query string false "Sort field" Enums(id, startDate, status)
// @Param sortOrder query string false "Sort order" Enums(ASC, DESC)
// @Success 200 {object} model.Page[model.Conversation]
// @Router /conversations [get]
func (h *ConversationHandler) ListConversations(c echo.Context) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	q.UserID = callerScope(c)
	page, err := h.conversations.List(c.Request().Context(), q)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, page)
}

// UpdateConversation godoc
// @Summary Rename or finish a conversation
// @Tags conversations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conversation ID"
// @Param request body UpdateConversationRequest true "Fields to change"
// @Success 200 {object} model.Conversation
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /conversations/{id} [patch]
func (h *ConversationHandler) UpdateConversation(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateConversationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if _, err := h.ownedConversation(c, id); err != nil {
		return err
	}
	in := service.UpdateConversationInput{Title: req.ConversationTitle}
	if req.Status != nil {
		status := model.ConversationStatus(*req.Status)
		in.Status = &status
	}
	conversation, err := h.conversations.Update(c.Request().Context(), id, in)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, conversation)
}

// DeleteConversation godoc
// @Summary Delete a conversation and its interactions
// @Tags conversations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conversation ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /conversations/{id} [delete]
func (h *ConversationHandler) DeleteConversation(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.ownedConversation(c, id); err != nil {
		return err
	}
	if err := h.conversations.Remove(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return removed(c, "conversation", id)
}

// CreateInteraction godoc
// @Summary Add an interaction to an active conversation
// @Tags interactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateInteractionRequest true "Interaction data"
// @Success 201 {object} model.Interaction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /interactions [post]
func (h *ConversationHandler) CreateInteraction(c echo.Context) error {
	var req CreateInteractionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if _, err := h.ownedConversation(c, req.ConversationID); err != nil {
		return err
	}
	interaction, err := h.interactions.Create(c.Request().Context(), service.CreateInteractionInput{
		ConversationID: req.ConversationID,
		HumanMessage:   req.HumanMessage,
		BotMessage:     req.BotMessage,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, interaction)
}

// GetInteraction godoc
// @Summary Get interaction by id
// @Tags interactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Interaction ID"
// @Success 200 {object} model.Interaction
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /interactions/{id} [get]
func (h *ConversationHandler) GetInteraction(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	interaction, err := h.ownedInteraction(c, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, interaction)
}

// ListInteractions godoc
// @Summary List interactions
// @Tags interactions
// @Produce json
// @Security BearerAuth
// @Param pageNumber query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Param sortedBy query string false "Sort field" Enums(id, date)
// @Param sortOrder query string false "Sort order" Enums(ASC, DESC)
// @Success 200 {object} model.Page[model.Interaction]
// @Router /interactions [get]
func (h *ConversationHandler) ListInteractions(c echo.Context) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	q.UserID = callerScope(c)
	page, err := h.interactions.List(c.Request().Context(), q)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, page)
}

// UpdateInteraction godoc
// @Summary Edit an interaction
// @Tags interactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Interaction ID"
// @Param request body UpdateInteractionRequest true "Fields to change"
// @Success 200 {object} model.Interaction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /interactions/{id} [patch]
func (h *ConversationHandler) UpdateInteraction(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateInteractionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if _, err := h.ownedInteraction(c, id); err != nil {
		return err
	}
	interaction, err := h.interactions.Update(c.Request().Context(), id, service.UpdateInteractionInput{
		HumanMessage: req.HumanMessage,
		BotMessage:   req.BotMessage,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, interaction)
}

// DeleteInteraction godoc
// @Summary Delete an interaction
// @Tags interactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Interaction ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /interactions/{id} [delete]
func (h *ConversationHandler) DeleteInteraction(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.ownedInteraction(c, id); err != nil {
		return err
	}
	if err := h.interactions.Remove(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return removed(c, "interaction", id)
}
