package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/quarrylabs/quarry/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRetriever struct {
	context string
	err     error

	gotQuery string
}

func (f *fakeRetriever) Context(_ context.Context, query string) (string, error) {
	f.gotQuery = query
	return f.context, f.err
}

type fakeCompleter struct {
	response *llm.Response
	err      error

	gotMessages []llm.Message
}

func (f *fakeCompleter) Complete(_ context.Context, messages []llm.Message) (*llm.Response, error) {
	f.gotMessages = messages
	return f.response, f.err
}

func newTestService(store *fakeStore, retriever *fakeRetriever, completer *fakeCompleter) *Service {
	return NewService(NewMemory(store), retriever, completer, nil)
}

func TestService_HandleChat_FreshSession(t *testing.T) {
	store := newFakeStore()
	retriever := &fakeRetriever{context: "Some context."}
	completer := &fakeCompleter{response: &llm.Response{Content: "The answer."}}

	svc := newTestService(store, retriever, completer)

	answer, sid, err := svc.HandleChat(context.Background(), "What is X?", "")
	require.NoError(t, err)

	assert.Equal(t, "The answer.", answer)
	assert.NotEmpty(t, sid, "a fresh session id is generated")
	assert.Equal(t, "What is X?", retriever.gotQuery)

	// Exactly one transcript with the two new entries.
	require.Len(t, store.sessions, 1)
	assert.Equal(t, []string{"User: What is X?", "Assistant: The answer."}, store.sessions[sid])
}

func TestService_HandleChat_ExistingSessionHistoryInPrompt(t *testing.T) {
	store := newFakeStore()
	store.sessions["s1"] = []string{"User: q1", "Assistant: a1"}
	retriever := &fakeRetriever{context: "CTX"}
	completer := &fakeCompleter{response: &llm.Response{Content: "a2"}}

	svc := newTestService(store, retriever, completer)

	_, sid, err := svc.HandleChat(context.Background(), "q2", "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", sid)

	require.Len(t, completer.gotMessages, 2)
	assert.Contains(t, completer.gotMessages[1].Content, "User: q1\nAssistant: a1")
	assert.Contains(t, completer.gotMessages[1].Content, "Context:\nCTX")
	assert.Contains(t, completer.gotMessages[1].Content, "Question: q2")

	assert.Equal(t, []string{"User: q1", "Assistant: a1", "User: q2", "Assistant: a2"}, store.sessions["s1"])
}

func TestService_HandleChat_RetrievalFailureSurfaced(t *testing.T) {
	store := newFakeStore()
	retriever := &fakeRetriever{err: errors.New("index down")}
	completer := &fakeCompleter{}

	svc := newTestService(store, retriever, completer)

	_, _, err := svc.HandleChat(context.Background(), "q", "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieve context")

	assert.Nil(t, completer.gotMessages, "completion is not called on retrieval failure")
	assert.Empty(t, store.sessions, "nothing is persisted on failure")
}

func TestService_HandleChat_CompletionFailureSurfaced(t *testing.T) {
	store := newFakeStore()
	retriever := &fakeRetriever{context: "CTX"}
	completer := &fakeCompleter{err: errors.New("upstream 500")}

	svc := newTestService(store, retriever, completer)

	_, _, err := svc.HandleChat(context.Background(), "q", "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completion")
	assert.Empty(t, store.sessions, "no partial transcript on failure")
}

func TestService_HandleReset(t *testing.T) {
	store := newFakeStore()
	store.sessions["s1"] = []string{"User: q1"}

	svc := newTestService(store, &fakeRetriever{}, &fakeCompleter{})

	require.NoError(t, svc.HandleReset(context.Background(), "s1"))
	assert.Empty(t, store.sessions)

	require.NoError(t, svc.HandleReset(context.Background(), "s1"))
}
