// Package chat implements the conversational core: session memory,
// prompt assembly, and the orchestrator that ties retrieval and the
// completion service into one request/response cycle.
package chat

import (
	"context"
	"fmt"
)

// Store is the session persistence boundary. store.SessionStore
// satisfies it; tests substitute an in-memory fake.
type Store interface {
	Get(ctx context.Context, sessionID string) ([]string, error)
	Set(ctx context.Context, sessionID string, transcript []string) error
	Delete(ctx context.Context, sessionID string) error
}

// Memory manages per-session conversation transcripts. A transcript is
// an ordered list of "User: ..." and "Assistant: ..." entries.
type Memory struct {
	store Store
}

// NewMemory creates a Memory over the given store.
func NewMemory(store Store) *Memory {
	return &Memory{store: store}
}

// Load returns the session's transcript, empty when the session has no
// stored state.
func (m *Memory) Load(ctx context.Context, sessionID string) ([]string, error) {
	transcript, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return transcript, nil
}

// Append extends the session's transcript with entries and persists the
// result.
func (m *Memory) Append(ctx context.Context, sessionID string, entries ...string) error {
	transcript, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load session %s: %w", sessionID, err)
	}
	transcript = append(transcript, entries...)
	if err := m.store.Set(ctx, sessionID, transcript); err != nil {
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return nil
}

// Reset deletes all stored state for the session. Resetting a session
// that never existed is not an error.
func (m *Memory) Reset(ctx context.Context, sessionID string) error {
	if err := m.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("reset session %s: %w", sessionID, err)
	}
	return nil
}
