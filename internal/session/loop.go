package session

import (
	"context"
	"errors"

	"aarika/internal/logger"
	"aarika/pkg/aarikatypes"
)

// DefaultMaxToolRounds bounds the tool-call loop of one turn.
const DefaultMaxToolRounds = 5

// ErrToolRoundsExceeded is returned when the model keeps requesting tools
// after the allowed number of rounds.
var ErrToolRoundsExceeded = errors.New("tool call rounds exceeded")

// ToolDispatcher executes a batch of tool calls in order.
type ToolDispatcher interface {
	Dispatch(ctx context.Context, calls []aarikatypes.ToolCall) ([]aarikatypes.ToolResult, error)
}

// TurnResult summarises a completed turn.
type TurnResult struct {
	// Text is the model's final reply; it may be empty.
	Text string
	// Rounds counts dispatch-and-resubmit cycles.
	Rounds int
	// Results holds every tool result, in execution order.
	Results []aarikatypes.ToolResult
}

// RunTurn sends text and keeps executing the model's tool calls until it
// answers without any, or maxRounds dispatches have happened. On any error
// the session history is rolled back to where the turn began; tool effects
// already applied to the board are kept.
func RunTurn(ctx context.Context, sess *Session, dispatcher ToolDispatcher, text string, maxRounds int) (*TurnResult, error) {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxToolRounds
	}

	cp := sess.Checkpoint()
	result := &TurnResult{}

	fail := func(err error) (*TurnResult, error) {
		sess.Rollback(cp)
		return result, err
	}

	reply, err := sess.SendUserText(ctx, text)
	if err != nil {
		return fail(err)
	}

	for reply.HasToolCalls() {
		if result.Rounds >= maxRounds {
			logger.Warn("Tool call loop stopped", "rounds", result.Rounds, "pending_calls", len(reply.Calls))
			return fail(ErrToolRoundsExceeded)
		}
		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		results, err := dispatcher.Dispatch(ctx, reply.Calls)
		result.Results = append(result.Results, results...)
		if err != nil {
			return fail(err)
		}
		result.Rounds++

		reply, err = sess.SendToolResults(ctx, results)
		if err != nil {
			return fail(err)
		}
	}

	result.Text = reply.Text
	return result, nil
}
