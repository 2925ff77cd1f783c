package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aarika/internal/testutils"
	"aarika/internal/tools"
	"aarika/pkg/aarikatypes"
)

func newTestSession(t *testing.T, backend aarikatypes.Backend) *Session {
	t.Helper()
	sess, err := New(backend, Options{
		Model:       "test-model",
		Persona:     "You are Aarika.",
		Tools:       tools.MustDeclarations(),
		IDGenerator: testutils.NewIDGenerator(true),
	})
	require.NoError(t, err)
	return sess
}

func TestNew_NotConfigured(t *testing.T) {
	_, err := New(testutils.NewScriptedBackend().Unconfigured(), Options{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = New(nil, Options{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNew_Defaults(t *testing.T) {
	sess := newTestSession(t, testutils.NewScriptedBackend())
	assert.Equal(t, DefaultTemperature, sess.Options().Temperature)
	assert.Equal(t, "00000001-0000-4000-8000-000000000001", sess.ID())
	assert.Equal(t, "scripted", sess.Provider())
	assert.Zero(t, sess.Len())
}

func TestSendUserText_AppendsOnSuccess(t *testing.T) {
	backend := testutils.NewScriptedBackend(testutils.TextReply("Namaste!"))
	sess := newTestSession(t, backend)

	reply, err := sess.SendUserText(context.Background(), "Hi")
	require.NoError(t, err)
	assert.Equal(t, "Namaste!", reply.Text)

	history := sess.History()
	require.Len(t, history, 2)
	assert.Equal(t, aarikatypes.Turn{Role: aarikatypes.TurnUser, Text: "Hi"}, history[0])
	assert.Equal(t, aarikatypes.TurnModel, history[1].Role)
	assert.Equal(t, "Namaste!", history[1].Text)

	requests := backend.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "test-model", requests[0].Model)
	assert.Equal(t, "You are Aarika.", requests[0].SystemPrompt)
	assert.Len(t, requests[0].Tools, 4)
	assert.Len(t, requests[0].History, 1)
}

func TestSendUserText_FailureLeavesHistory(t *testing.T) {
	backend := testutils.NewScriptedBackend(
		testutils.TextReply("first"),
		testutils.ErrorReply(errors.New("network down")),
	)
	sess := newTestSession(t, backend)

	_, err := sess.SendUserText(context.Background(), "one")
	require.NoError(t, err)
	before := sess.History()

	_, err = sess.SendUserText(context.Background(), "two")
	require.Error(t, err)
	assert.Equal(t, before, sess.History())
}

func TestSendToolResults_RequiresResults(t *testing.T) {
	sess := newTestSession(t, testutils.NewScriptedBackend())
	_, err := sess.SendToolResults(context.Background(), nil)
	assert.Error(t, err)
}

func TestCheckpointRollback(t *testing.T) {
	backend := testutils.NewScriptedBackend(testutils.TextReply("a"), testutils.TextReply("b"))
	sess := newTestSession(t, backend)

	_, err := sess.SendUserText(context.Background(), "1")
	require.NoError(t, err)
	cp := sess.Checkpoint()

	_, err = sess.SendUserText(context.Background(), "2")
	require.NoError(t, err)
	require.Equal(t, 4, sess.Len())

	sess.Rollback(cp)
	assert.Equal(t, 2, sess.Len())
}

func TestRollback_IgnoredAfterReset(t *testing.T) {
	backend := testutils.NewScriptedBackend(testutils.TextReply("a"), testutils.TextReply("b"))
	sess := newTestSession(t, backend)

	cp := sess.Checkpoint()
	_, err := sess.SendUserText(context.Background(), "1")
	require.NoError(t, err)

	oldID := sess.ID()
	sess.Reset()
	assert.NotEqual(t, oldID, sess.ID())
	assert.Zero(t, sess.Len())

	_, err = sess.SendUserText(context.Background(), "2")
	require.NoError(t, err)
	sess.Rollback(cp)
	assert.Equal(t, 2, sess.Len(), "stale checkpoint must not truncate the new conversation")
}

func TestHistory_IsCopy(t *testing.T) {
	sess := newTestSession(t, testutils.NewScriptedBackend(testutils.TextReply("ok")))
	_, err := sess.SendUserText(context.Background(), "hi")
	require.NoError(t, err)

	history := sess.History()
	history[0].Text = "mutated"
	assert.Equal(t, "hi", sess.History()[0].Text)
}

// gatedBackend holds its first reply until release is closed.
type gatedBackend struct {
	entered chan struct{}
	release chan struct{}

	mu       sync.Mutex
	requests []int
}

func (b *gatedBackend) Provider() string   { return "gated" }
func (b *gatedBackend) IsConfigured() bool { return true }

func (b *gatedBackend) Generate(_ context.Context, req *aarikatypes.Request) (*aarikatypes.Reply, error) {
	b.mu.Lock()
	b.requests = append(b.requests, len(req.History))
	first := len(b.requests) == 1
	b.mu.Unlock()

	last := req.History[len(req.History)-1].Text
	if first {
		close(b.entered)
		<-b.release
	}
	return &aarikatypes.Reply{Text: "re: " + last}, nil
}

func (b *gatedBackend) calls() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.requests...)
}

func TestSend_OverlappingSendsAreSerialised(t *testing.T) {
	backend := &gatedBackend{entered: make(chan struct{}), release: make(chan struct{})}
	sess := newTestSession(t, backend)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := sess.SendUserText(context.Background(), "first")
		assert.NoError(t, err)
	}()
	<-backend.entered

	go func() {
		defer wg.Done()
		_, err := sess.SendUserText(context.Background(), "second")
		assert.NoError(t, err)
	}()

	assert.Never(t, func() bool { return len(backend.calls()) > 1 }, 100*time.Millisecond, 10*time.Millisecond,
		"second send must wait for the first")
	close(backend.release)
	wg.Wait()

	assert.Equal(t, []int{1, 3}, backend.calls(), "second request carries the first exchange")

	history := sess.History()
	require.Len(t, history, 4)
	assert.Equal(t, "first", history[0].Text)
	assert.Equal(t, "re: first", history[1].Text)
	assert.Equal(t, "second", history[2].Text)
	assert.Equal(t, "re: second", history[3].Text)
}
