package assistant

import (
	"fmt"
	"strings"

	"github.com/Joacohbc/gttask/internal/core"
)

// Snapshot renders the boards and their tasks as the synthetic first
// chat turn, giving the assistant read access to the board state.
func Snapshot(boards []core.Board) string {
	rendered := make([]string, len(boards))
	for i, board := range boards {
		rendered[i] = boardMessage(board)
	}
	return "You are a project management assistant. Here are the boards and their tasks:\n" +
		strings.Join(rendered, "\n")
}

func boardMessage(board core.Board) string {
	lines := make([]string, len(board.Tasks))
	for i, task := range board.Tasks {
		lines[i] = fmt.Sprintf("- %s (%s)", task.Title, task.Status)
	}
	return fmt.Sprintf("Board: %s\nTasks:\n%s", board.Title, strings.Join(lines, "\n"))
}
