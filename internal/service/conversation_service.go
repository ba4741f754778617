package service

import (
	"context"
	"fmt"
	"time"

	apperrors "legalbooking/internal/errors"
	"legalbooking/internal/model"
	"legalbooking/internal/repository"
)

// CreateConversationInput is the payload for opening a conversation.
type CreateConversationInput struct {
	UserID uint
	Title  string
}

// UpdateConversationInput lists the updatable conversation fields.
type UpdateConversationInput struct {
	Title  *string
	Status *model.ConversationStatus
}

// ConversationService manages assistant conversations.
type ConversationService interface {
	Create(ctx context.Context, in CreateConversationInput) (*model.Conversation, error)
	FindOne(ctx context.Context, id uint) (*model.Conversation, error)
	List(ctx context.Context, q ListQuery) (model.Page[model.Conversation], error)
	Update(ctx context.Context, id uint, in UpdateConversationInput) (*model.Conversation, error)
	Remove(ctx context.Context, id uint) error
}

type conversationService struct {
	repos repository.Repositories
	tx    repository.Transactor
	now   func() time.Time
}

// NewConversationService builds a ConversationService.
func NewConversationService(repos repository.Repositories, tx repository.Transactor) ConversationService {
	return &conversationService{repos: repos, tx: tx, now: time.Now}
}

var conversationSortable = map[string]string{
	"id":        "id",
	"startDate": "start_date",
	"status":    "status",
}

func (s *conversationService) Create(ctx context.Context, in CreateConversationInput) (*model.Conversation, error) {
	if _, err := s.repos.Users.FindByID(ctx, in.UserID); err != nil {
		return nil, notFoundOr(err, "user", in.UserID)
	}
	conversation := &model.Conversation{
		UserID:            in.UserID,
		StartDate:         s.now().UTC(),
		Status:            model.ConversationActive,
		ConversationTitle: in.Title,
	}
	if err := s.repos.Conversations.Create(ctx, conversation); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conversation, nil
}

func (s *conversationService) FindOne(ctx context.Context, id uint) (*model.Conversation, error) {
	conversation, err := s.repos.Conversations.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "conversation", id)
	}
	return conversation, nil
}

func (s *conversationService) List(ctx context.Context, q ListQuery) (model.Page[model.Conversation], error) {
	opts, err := listOptions(q, conversationSortable)
	if err != nil {
		return model.Page[model.Conversation]{}, err
	}
	items, total, err := s.repos.Conversations.List(ctx, opts)
	if err != nil {
		return model.Page[model.Conversation]{}, fmt.Errorf("list conversations: %w", err)
	}
	return model.NewPage(opts.Page, total, items), nil
}

// Update renames or finishes a conversation. Finished conversations stay finished.
func (s *conversationService) Update(ctx context.Context, id uint, in UpdateConversationInput) (*model.Conversation, error) {
	conversation, err := s.repos.Conversations.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "conversation", id)
	}

	if in.Title != nil {
		conversation.ConversationTitle = *in.Title
	}
	if in.Status != nil && *in.Status != conversation.Status {
		switch {
		case !in.Status.Valid():
			return nil, apperrors.Validation("INVALID_STATUS", fmt.Sprintf("unknown status %q", *in.Status))
		case conversation.Status == model.ConversationFinished:
			return nil, apperrors.Conflict("CONVERSATION_FINISHED", fmt.Sprintf("conversation %d is finished", id))
		}
		conversation.Status = *in.Status
		end := s.now().UTC()
		conversation.EndDate = &end
	}

	if err := s.repos.Conversations.Update(ctx, conversation); err != nil {
		return nil, fmt.Errorf("update conversation: %w", err)
	}
	return conversation, nil
}

// Remove deletes the conversation and its interactions.
func (s *conversationService) Remove(ctx context.Context, id uint) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Conversations.Delete(ctx, id); err != nil {
			return notFoundOr(err, "conversation", id)
		}
		return nil
	})
}
