package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aarika/internal/tasks"
	"aarika/internal/testutils"
	"aarika/internal/tools"
	"aarika/pkg/aarikatypes"
)

func call(id, name string, args map[string]any) aarikatypes.ToolCall {
	return aarikatypes.ToolCall{ID: id, Name: name, Args: args}
}

func newBoard() (*tasks.Store, *tools.Dispatcher) {
	store := tasks.NewStore(tasks.WithIDGenerator(testutils.NewIDGenerator(true)))
	return store, tools.NewDispatcher(store)
}

// countingDispatcher records how many batches it was asked to run.
type countingDispatcher struct {
	batches int
}

func (d *countingDispatcher) Dispatch(_ context.Context, calls []aarikatypes.ToolCall) ([]aarikatypes.ToolResult, error) {
	d.batches++
	results := make([]aarikatypes.ToolResult, len(calls))
	for i, c := range calls {
		results[i] = aarikatypes.ToolResult{CallID: c.ID, Name: c.Name, Response: map[string]any{"ok": true}}
	}
	return results, nil
}

func TestRunTurn_PlainText(t *testing.T) {
	backend := testutils.NewScriptedBackend(testutils.TextReply("Namaste!"))
	sess := newTestSession(t, backend)
	_, dispatcher := newBoard()

	result, err := RunTurn(context.Background(), sess, dispatcher, "Hi", 0)
	require.NoError(t, err)
	assert.Equal(t, "Namaste!", result.Text)
	assert.Zero(t, result.Rounds)
	assert.Empty(t, result.Results)
}

func TestRunTurn_AddThenComplete(t *testing.T) {
	backend := testutils.NewScriptedBackend(
		testutils.CallReply(call("c1", tools.AddTask, map[string]any{"title": "Buy milk", "priority": "high"})),
		testutils.CallReply(call("c2", tools.CompleteTask, map[string]any{"id": "milk"})),
		testutils.TextReply("Added and done!"),
	)
	sess := newTestSession(t, backend)
	store, dispatcher := newBoard()

	result, err := RunTurn(context.Background(), sess, dispatcher, "add milk and mark it done", 5)
	require.NoError(t, err)
	assert.Equal(t, "Added and done!", result.Text)
	assert.Equal(t, 2, result.Rounds)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "c1", result.Results[0].CallID)
	assert.Equal(t, "c2", result.Results[1].CallID)
	assert.Equal(t, true, result.Results[1].Response["found"])

	board := store.List()
	require.Len(t, board, 1)
	assert.Equal(t, aarikatypes.StatusCompleted, board[0].Status)
	assert.Equal(t, aarikatypes.PriorityHigh, board[0].Priority)

	// user, model(call), tool, model(call), tool, model(text)
	history := sess.History()
	require.Len(t, history, 6)
	assert.Equal(t, aarikatypes.TurnTool, history[2].Role)
	assert.Equal(t, "Added and done!", history[5].Text)

	requests := backend.Requests()
	require.Len(t, requests, 3)
	last := requests[2].History[len(requests[2].History)-1]
	assert.Equal(t, aarikatypes.TurnTool, last.Role)
	assert.Equal(t, "c2", last.Results[0].CallID)
}

func TestRunTurn_EmptyFinalText(t *testing.T) {
	backend := testutils.NewScriptedBackend(
		testutils.CallReply(call("c1", tools.AddTask, map[string]any{"title": "Gym"})),
		testutils.TextReply(""),
	)
	sess := newTestSession(t, backend)
	_, dispatcher := newBoard()

	result, err := RunTurn(context.Background(), sess, dispatcher, "add gym", 5)
	require.NoError(t, err)
	assert.Empty(t, result.Text)
	assert.Equal(t, 1, result.Rounds)
}

func TestRunTurn_RoundCap(t *testing.T) {
	steps := make([]testutils.ScriptStep, 0, 4)
	for i := 0; i < 4; i++ {
		steps = append(steps, testutils.CallReply(call("c", tools.ListTasks, nil)))
	}
	backend := testutils.NewScriptedBackend(steps...)
	sess := newTestSession(t, backend)
	dispatcher := &countingDispatcher{}

	result, err := RunTurn(context.Background(), sess, dispatcher, "loop forever", 3)
	require.ErrorIs(t, err, ErrToolRoundsExceeded)
	assert.Equal(t, 3, result.Rounds)
	assert.Equal(t, 3, dispatcher.batches)
	assert.Zero(t, sess.Len(), "failed turn is rolled back")
	assert.Zero(t, backend.Remaining())
}

func TestRunTurn_RemoteFailureRollsBack(t *testing.T) {
	backend := testutils.NewScriptedBackend(
		testutils.TextReply("earlier"),
		testutils.CallReply(call("c1", tools.AddTask, map[string]any{"title": "Buy milk"})),
		testutils.ErrorReply(errors.New("503")),
	)
	sess := newTestSession(t, backend)
	store, dispatcher := newBoard()

	_, err := RunTurn(context.Background(), sess, dispatcher, "hello", 5)
	require.NoError(t, err)
	before := sess.History()

	_, err = RunTurn(context.Background(), sess, dispatcher, "add milk", 5)
	require.Error(t, err)
	assert.Equal(t, before, sess.History())
	assert.Equal(t, 1, store.Len(), "tool effects are not undone")
}

// cancellingBackend cancels the turn while the request is in flight and
// then answers with a tool call anyway.
type cancellingBackend struct {
	cancel context.CancelFunc
}

func (b *cancellingBackend) Provider() string   { return "cancelling" }
func (b *cancellingBackend) IsConfigured() bool { return true }
func (b *cancellingBackend) Generate(context.Context, *aarikatypes.Request) (*aarikatypes.Reply, error) {
	b.cancel()
	return &aarikatypes.Reply{Calls: []aarikatypes.ToolCall{call("late", tools.AddTask, map[string]any{"title": "stale"})}}, nil
}

func TestRunTurn_CancelledReplyIsNotDispatched(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := newTestSession(t, &cancellingBackend{cancel: cancel})
	store, dispatcher := newBoard()

	_, err := RunTurn(ctx, sess, dispatcher, "add stale", 5)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, store.Len())
	assert.Zero(t, sess.Len())
}

func TestRunTurn_BlockedCallCancelled(t *testing.T) {
	backend := testutils.NewScriptedBackend(testutils.ScriptStep{Block: true})
	sess := newTestSession(t, backend)
	_, dispatcher := newBoard()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunTurn(ctx, sess, dispatcher, "hi", 5)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sess.Len())
}
