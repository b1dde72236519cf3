// File: internal/services/chat_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/invoicelens/go-invoicelens/internal/domain"
	"github.com/invoicelens/go-invoicelens/internal/repository/message"
	"github.com/invoicelens/go-invoicelens/internal/repository/thread"
	"github.com/invoicelens/go-invoicelens/internal/services/llm"
)

// AssistantFallback is stored verbatim as the assistant reply whenever
// the model call fails; a chat turn always completes with two persisted
// messages.
const AssistantFallback = "Sorry, I couldn't generate an answer right now. Please try again."

// historyTurns caps how many prior messages are replayed to the model.
const historyTurns = 6

// MessagePair is the result of one completed chat turn.
type MessagePair struct {
	UserMessage      *domain.Message `json:"user_message"`
	AssistantMessage *domain.Message `json:"assistant_message"`
}

type ChatService struct {
	threadRepo  thread.ThreadRepository
	messageRepo message.MessageRepository
	guard       *OwnershipGuard
	provider    llm.Provider
	logger      Logger
}

func NewChatService(
	threadRepo thread.ThreadRepository,
	messageRepo message.MessageRepository,
	guard *OwnershipGuard,
	provider llm.Provider,
	logger Logger,
) (*ChatService, error) {
	if threadRepo == nil {
		return nil, errors.New("thread repository is required")
	}
	if messageRepo == nil {
		return nil, errors.New("message repository is required")
	}
	if guard == nil {
		return nil, errors.New("ownership guard is required")
	}
	if provider == nil {
		return nil, errors.New("llm provider is required")
	}

	return &ChatService{
		threadRepo:  threadRepo,
		messageRepo: messageRepo,
		guard:       guard,
		provider:    provider,
		logger:      logger,
	}, nil
}

// CreateThread opens a conversation on an owned document. The thread's
// owner is copied from the guarded document, never from the request, so
// thread.UserID == document.UserID holds by construction.
func (s *ChatService) CreateThread(ctx context.Context, userID, documentID uint) (*domain.ChatThread, error) {
	doc, err := s.guard.AssertDocumentOwnership(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}

	return s.threadRepo.Create(ctx, &domain.ChatThread{
		UserID:     doc.UserID,
		DocumentID: doc.ID,
	})
}

// AddUserMessageAndReply runs one chat turn. The user message is
// persisted before the model is asked, so the question survives any
// answer failure; a failed model call is replaced by the fixed fallback
// and the turn still completes with both messages stored.
func (s *ChatService) AddUserMessageAndReply(ctx context.Context, userID, threadID uint, content string) (*MessagePair, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("message content cannot be empty")
	}

	th, err := s.guard.AssertThreadOwnership(ctx, userID, threadID)
	if err != nil {
		return nil, err
	}

	userMsg, err := s.messageRepo.Create(ctx, &domain.Message{
		ThreadID: threadID,
		Role:     domain.MessageRoleUser,
		Content:  content,
	})
	if err != nil {
		return nil, err
	}

	answer := s.answerGrounded(ctx, th, userMsg, content)

	assistantMsg, err := s.messageRepo.Create(ctx, &domain.Message{
		ThreadID: threadID,
		Role:     domain.MessageRoleAssistant,
		Content:  answer,
	})
	if err != nil {
		return nil, err
	}

	return &MessagePair{UserMessage: userMsg, AssistantMessage: assistantMsg}, nil
}

// answerGrounded asks the model with the thread's OCR text as the only
// source of truth. Any provider failure degrades to the fallback reply.
func (s *ChatService) answerGrounded(ctx context.Context, th *domain.ChatThread, userMsg *domain.Message, question string) string {
	ocrText := ""
	if th.Document != nil {
		ocrText = th.Document.OcrText()
	}

	history := s.recentHistory(ctx, th.ID, userMsg.ID)

	answer, err := s.provider.Answer(ctx, llm.AnswerRequest{
		OcrText:  strings.TrimSpace(ocrText),
		Question: question,
		History:  history,
	})
	if err != nil {
		s.logger.Warn("model call failed, substituting fallback",
			"thread_id", th.ID,
			"error", err)
		return AssistantFallback
	}
	return answer
}

// recentHistory loads the last turns of the thread, excluding the just
// persisted user message. History is best effort: a lookup failure only
// costs context, never the turn.
func (s *ChatService) recentHistory(ctx context.Context, threadID, excludeID uint) []llm.HistoryTurn {
	recent, err := s.messageRepo.FindRecentByThreadID(ctx, threadID, historyTurns+1)
	if err != nil {
		s.logger.Warn("could not load chat history", "thread_id", threadID, "error", err)
		return nil
	}

	turns := make([]llm.HistoryTurn, 0, len(recent))
	for _, m := range recent {
		if m.ID == excludeID {
			continue
		}
		turns = append(turns, llm.HistoryTurn{Role: m.Role, Content: m.Content})
	}
	if len(turns) > historyTurns {
		turns = turns[len(turns)-historyTurns:]
	}
	return turns
}

// GetThread returns an owned thread with messages in ascending creation
// order plus the parent document and its OCR text.
func (s *ChatService) GetThread(ctx context.Context, userID, threadID uint) (*domain.ChatThread, error) {
	if _, err := s.guard.AssertThreadOwnership(ctx, userID, threadID); err != nil {
		return nil, err
	}
	return s.threadRepo.FindByIDWithMessages(ctx, threadID)
}
