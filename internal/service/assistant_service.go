package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"legalbooking/internal/ai"
	apperrors "legalbooking/internal/errors"
	"legalbooking/internal/metrics"
	"legalbooking/internal/model"
	"legalbooking/internal/repository"
)

const assistantSystemPrompt = "You are the booking assistant of a legal consultation office. " +
	"Answer in the language of the question, using only the database results you are given. " +
	"Format the answer in Markdown."

// AssistantRequest is one question to the slot assistant.
type AssistantRequest struct {
	HumanMessage   string
	ConversationID *uint
	// OwnerID, when set, must own the conversation.
	OwnerID uint
}

// AssistantService answers free-text availability questions.
type AssistantService interface {
	// Respond streams the answer through emit. Errors returned before the
	// first emit leave the response untouched.
	Respond(ctx context.Context, in AssistantRequest, emit func(chunk string) error) error
}

type assistantService struct {
	slots     SlotService
	repos     repository.Repositories
	completer ai.Completer
	lookahead time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewAssistantService builds an AssistantService. A nil completer answers
// with the rendered search results alone.
func NewAssistantService(
	slots SlotService,
	repos repository.Repositories,
	completer ai.Completer,
	lookahead time.Duration,
	logger *slog.Logger,
) AssistantService {
	if logger == nil {
		logger = slog.Default()
	}
	return &assistantService{
		slots:     slots,
		repos:     repos,
		completer: completer,
		lookahead: lookahead,
		now:       time.Now,
		logger:    logger,
	}
}

// BuildPrompt assembles the chat messages sent to the completer.
func BuildPrompt(question, results string) []ai.Message {
	user := fmt.Sprintf("Question:\n%s\n\nDatabase results:\n%s\n\nAnswer in Markdown.", question, results)
	return []ai.Message{
		{Role: ai.RoleSystem, Content: assistantSystemPrompt},
		{Role: ai.RoleUser, Content: user},
	}
}

func (s *assistantService) Respond(ctx context.Context, in AssistantRequest, emit func(chunk string) error) error {
	if strings.TrimSpace(in.HumanMessage) == "" {
		return apperrors.Validation("EMPTY_MESSAGE", "humanMessage is required")
	}
	if in.ConversationID != nil {
		conversation, err := s.repos.Conversations.FindByID(ctx, *in.ConversationID)
		if err != nil {
			return notFoundOr(err, "conversation", *in.ConversationID)
		}
		if in.OwnerID != 0 && conversation.UserID != in.OwnerID {
			return apperrors.ErrForbidden
		}
		if conversation.Status == model.ConversationFinished {
			return apperrors.Conflict("CONVERSATION_FINISHED", fmt.Sprintf("conversation %d is finished", conversation.ID))
		}
	}

	query := ExtractSlotQuery(in.HumanMessage, s.now(), s.lookahead)
	slots, err := s.slots.Search(ctx, query.Filter)
	if err != nil {
		metrics.AssistantRequest("error")
		return err
	}
	results := RenderSlots(query, slots)

	var answer strings.Builder
	forward := func(chunk string) error {
		answer.WriteString(chunk)
		return emit(chunk)
	}

	if s.completer == nil {
		err = forward(results)
	} else {
		err = s.completer.Stream(ctx, BuildPrompt(in.HumanMessage, results), forward)
	}
	if err != nil {
		metrics.AssistantRequest("error")
		s.logger.ErrorContext(ctx, "assistant stream failed", slog.Any("error", err))
		return err
	}
	metrics.AssistantRequest("ok")

	if in.ConversationID != nil {
		bot := answer.String()
		interaction := &model.Interaction{
			ConversationID: *in.ConversationID,
			HumanMessage:   in.HumanMessage,
			BotMessage:     &bot,
			Date:           s.now().UTC(),
		}
		if err := s.repos.Interactions.Create(ctx, interaction); err != nil {
			s.logger.WarnContext(ctx, "store assistant interaction failed",
				slog.Uint64("conversation_id", uint64(*in.ConversationID)),
				slog.Any("error", err),
			)
		}
	}
	return nil
}
