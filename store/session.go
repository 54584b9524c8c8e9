package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"
)

// SessionStore persists per-session conversation transcripts as
// JSON-serialized ordered string lists keyed by session id.
type SessionStore struct {
	kv     Bucket
	logger *slog.Logger
}

// NewSessionStore creates a session store over the given bucket.
func NewSessionStore(kv Bucket, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{kv: kv, logger: logger}
}

// Get returns the stored transcript for a session, or an empty transcript
// when the session has never been seen.
func (s *SessionStore) Get(ctx context.Context, sessionID string) ([]string, error) {
	entry, err := s.kv.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}

	var transcript []string
	if err := json.Unmarshal(entry.Value(), &transcript); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return transcript, nil
}

// Set persists the full transcript for a session, replacing any prior value.
func (s *SessionStore) Set(ctx context.Context, sessionID string, transcript []string) error {
	data, err := json.Marshal(transcript)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sessionID, err)
	}
	if _, err := s.kv.Put(ctx, sessionID, data); err != nil {
		return fmt.Errorf("put session %s: %w", sessionID, err)
	}
	return nil
}

// Delete removes all stored state for a session. Deleting a session that
// was never stored succeeds.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	err := s.kv.Delete(ctx, sessionID)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}
