package service

import (
	"context"
	"fmt"
	"time"

	apperrors "legalbooking/internal/errors"
	"legalbooking/internal/model"
	"legalbooking/internal/repository"
)

// CreateInteractionInput is the payload for appending to a conversation.
type CreateInteractionInput struct {
	ConversationID uint
	HumanMessage   string
	BotMessage     *string
}

// UpdateInteractionInput lists the updatable interaction fields.
type UpdateInteractionInput struct {
	HumanMessage *string
	BotMessage   *string
}

// InteractionService manages conversation interactions.
type InteractionService interface {
	Create(ctx context.Context, in CreateInteractionInput) (*model.Interaction, error)
	FindOne(ctx context.Context, id uint) (*model.Interaction, error)
	List(ctx context.Context, q ListQuery) (model.Page[model.Interaction], error)
	Update(ctx context.Context, id uint, in UpdateInteractionInput) (*model.Interaction, error)
	Remove(ctx context.Context, id uint) error
}

type interactionService struct {
	repos repository.Repositories
	now   func() time.Time
}

// NewInteractionService builds an InteractionService.
func NewInteractionService(repos repository.Repositories) InteractionService {
	return &interactionService{repos: repos, now: time.Now}
}

var interactionSortable = map[string]string{
	"id":   "id",
	"date": "date",
}

func (s *interactionService) Create(ctx context.Context, in CreateInteractionInput) (*model.Interaction, error) {
	conversation, err := s.repos.Conversations.FindByID(ctx, in.ConversationID)
	if err != nil {
		return nil, notFoundOr(err, "conversation", in.ConversationID)
	}
	if conversation.Status == model.ConversationFinished {
		return nil, apperrors.Conflict("CONVERSATION_FINISHED", fmt.Sprintf("conversation %d is finished", conversation.ID))
	}

	interaction := &model.Interaction{
		ConversationID: in.ConversationID,
		HumanMessage:   in.HumanMessage,
		BotMessage:     in.BotMessage,
		Date:           s.now().UTC(),
	}
	if err := s.repos.Interactions.Create(ctx, interaction); err != nil {
		return nil, fmt.Errorf("create interaction: %w", err)
	}
	return interaction, nil
}

func (s *interactionService) FindOne(ctx context.Context, id uint) (*model.Interaction, error) {
	interaction, err := s.repos.Interactions.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "interaction", id)
	}
	return interaction, nil
}

func (s *interactionService) List(ctx context.Context, q ListQuery) (model.Page[model.Interaction], error) {
	opts, err := listOptions(q, interactionSortable)
	if err != nil {
		return model.Page[model.Interaction]{}, err
	}
	items, total, err := s.repos.Interactions.List(ctx, opts)
	if err != nil {
		return model.Page[model.Interaction]{}, fmt.Errorf("list interactions: %w", err)
	}
	return model.NewPage(opts.Page, total, items), nil
}

func (s *interactionService) Update(ctx context.Context, id uint, in UpdateInteractionInput) (*model.Interaction, error) {
	interaction, err := s.repos.Interactions.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "interaction", id)
	}
	if in.HumanMessage != nil {
		interaction.HumanMessage = *in.HumanMessage
	}
	if in.BotMessage != nil {
		interaction.BotMessage = in.BotMessage
	}
	if err := s.repos.Interactions.Update(ctx, interaction); err != nil {
		return nil, fmt.Errorf("update interaction: %w", err)
	}
	return interaction, nil
}

func (s *interactionService) Remove(ctx context.Context, id uint) error {
	if err := s.repos.Interactions.Delete(ctx, id); err != nil {
		return notFoundOr(err, "interaction", id)
	}
	return nil
}
