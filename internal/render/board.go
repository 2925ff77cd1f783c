package render

import (
	"fmt"
	"strings"

	"aarika/pkg/aarikatypes"

	"github.com/charmbracelet/x/ansi"
)

// EmptyBoardText is shown when there are no tasks.
const EmptyBoardText = "No tasks yet. Ask me to add one!"

// shortIDLength is how much of a task ID the board shows.
const shortIDLength = 8

// FormatTaskBoard lays out the board one task per line, numbered from 1
// in board order:
//
//	Tasks: 2 pending, 1 done
//	 1. [ ] Buy milk        high    00000001
//	 2. [x] Call mom        low     00000002
func FormatTaskBoard(provider StyleProvider, board []aarikatypes.Task) string {
	style := func(semantic SemanticType, text string) string {
		return provider.GetStyle(string(semantic)).Render(text)
	}

	if len(board) == 0 {
		return style(SemanticMuted, EmptyBoardText)
	}

	pending := 0
	titleWidth := 0
	for _, task := range board {
		if !task.IsCompleted() {
			pending++
		}
		titleWidth = max(titleWidth, ansi.StringWidth(task.Title))
	}

	var b strings.Builder
	b.WriteString(style(SemanticHeading, fmt.Sprintf("Tasks: %d pending, %d done", pending, len(board)-pending)))

	for i, task := range board {
		b.WriteString("\n")

		checkbox, titleSemantic := "[ ]", SemanticTaskPending
		if task.IsCompleted() {
			checkbox, titleSemantic = "[x]", SemanticTaskDone
		}
		title := task.Title + strings.Repeat(" ", titleWidth-ansi.StringWidth(task.Title))

		fmt.Fprintf(&b, "%2d. %s %s  %s  %s",
			i+1,
			checkbox,
			style(titleSemantic, title),
			style(prioritySemantic(task.Priority), fmt.Sprintf("%-6s", task.Priority)),
			style(SemanticMuted, shortID(task.ID)),
		)
	}

	return style(SemanticBoard, b.String())
}

func prioritySemantic(p aarikatypes.TaskPriority) SemanticType {
	switch p {
	case aarikatypes.PriorityHigh:
		return SemanticPriorityHigh
	case aarikatypes.PriorityLow:
		return SemanticPriorityLow
	default:
		return SemanticPriorityMedium
	}
}

func shortID(id string) string {
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}
	return id
}
