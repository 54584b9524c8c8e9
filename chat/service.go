package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/quarrylabs/quarry/llm"
)

// ContextProvider supplies the retrieval context for a question.
// retrieve.Retriever satisfies it.
type ContextProvider interface {
	Context(ctx context.Context, query string) (string, error)
}

// Completer invokes the external completion service. llm.Client
// satisfies it.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (*llm.Response, error)
}

// Service composes session memory, retrieval, prompt assembly, and the
// completion call into one chat cycle.
type Service struct {
	memory    *Memory
	retriever ContextProvider
	completer Completer
	logger    *slog.Logger
}

// NewService creates a chat Service.
func NewService(memory *Memory, retriever ContextProvider, completer Completer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		memory:    memory,
		retriever: retriever,
		completer: completer,
		logger:    logger,
	}
}

// HandleChat runs one chat turn. An empty sessionID allocates a fresh
// session; the (possibly new) id is returned with the answer. Any
// failure along the way surfaces as an error with no partial answer.
func (s *Service) HandleChat(ctx context.Context, query, sessionID string) (answer, sid string, err error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	transcript, err := s.memory.Load(ctx, sessionID)
	if err != nil {
		return "", "", err
	}
	history := strings.Join(transcript, "\n")

	retrieved, err := s.retriever.Context(ctx, query)
	if err != nil {
		return "", "", fmt.Errorf("retrieve context: %w", err)
	}

	messages := BuildPrompt(query, retrieved, history)

	s.logger.Info("invoking completion service",
		"session_id", sessionID,
		"history_entries", len(transcript))

	resp, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return "", "", fmt.Errorf("completion: %w", err)
	}

	if err := s.memory.Append(ctx, sessionID,
		"User: "+query,
		"Assistant: "+resp.Content,
	); err != nil {
		return "", "", err
	}

	return resp.Content, sessionID, nil
}

// HandleReset clears the session's transcript. Idempotent.
func (s *Service) HandleReset(ctx context.Context, sessionID string) error {
	return s.memory.Reset(ctx, sessionID)
}
