package input

import (
	"context"

	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/logging/events"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/nav"
)

// Apply runs a navigation command against n. Confirm fetches inline through
// ConfirmSelection. It returns false for commands the driver must handle
// itself (quit, find, yank, help, none); err reports a failed fetch that has
// already been neutralised into an empty pane.
func Apply(ctx context.Context, n *nav.Navigator, cmd Command) (handled bool, err error) {
	pane := n.ActivePane()
	switch cmd {
	case CmdPaneLeft, CmdPaneRight:
		from := n.Active()
		dir := 1
		if cmd == CmdPaneLeft {
			dir = -1
		}
		if n.MoveActivePane(dir) {
			events.Nav.ActivePane(from, n.Active())
		}
	case CmdUp:
		moveSelection(n, -1)
	case CmdDown:
		moveSelection(n, 1)
	case CmdPageUp:
		moveSelection(n, -pane.Capacity())
	case CmdPageDown:
		moveSelection(n, pane.Capacity())
	case CmdTop:
		moveSelection(n, -pane.Len())
	case CmdBottom:
		moveSelection(n, pane.Len())
	case CmdConfirm:
		if rec, ok := pane.SelectedRecord(); ok {
			events.Nav.Confirm(n.Active(), rec.Locator)
		}
		err = n.ConfirmSelection(ctx)
	default:
		return false, nil
	}
	return true, err
}

func moveSelection(n *nav.Navigator, delta int) {
	if !n.MoveSelection(delta) {
		return
	}
	sel, _ := n.ActivePane().Selected()
	events.Nav.Cursor(n.Active(), sel, n.ActivePane().ScrollOffset())
}
