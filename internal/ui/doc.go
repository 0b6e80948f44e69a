// Package ui contains the Bubble Tea program that drives the pane navigator.
// The Model type focuses on message orchestration while helpers own
// navigation, text input, rendering and background refresh.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function.
//   - Confirming a selection calls Navigator.BeginConfirm and hands the request
//     to the command bus (internal/ui/command). The fetch runs as a tea.Cmd;
//     its FetchedMsg is applied with Navigator.Complete, which drops results
//     that a newer confirm has superseded.
//   - Find mode (internal/ui/input.go) jumps the active pane's selection to
//     the best match as the query is typed. Escape restores the original row.
//
// State ownership:
//   - Pane contents, selections and the active index live in nav.Navigator and
//     are only touched on the Update goroutine.
//   - Drawing goes through internal/render onto a canvas.Grid whose rows are
//     styled with the shared theme.
//
// Backend interactions:
//   - A backend.Refresher re-fetches the deepest confirmed pane on a timer.
//     Update waits for its events and hands them to the data dispatcher, which
//     applies them only while the pane still shows the refreshed source.
package ui
