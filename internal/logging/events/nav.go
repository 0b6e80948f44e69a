package events

import "github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/logging"

type NavTracer struct{}

type InputTracer struct{}

var (
	Nav   = NavTracer{}
	Input = InputTracer{}
)

func (NavTracer) ActivePane(from, to int) {
	logging.Trace("nav.pane", map[string]interface{}{"from": from, "to": to})
}

func (NavTracer) Cursor(pane, selected, offset int) {
	logging.Trace("nav.cursor", map[string]interface{}{"pane": pane, "selected": selected, "offset": offset})
}

func (NavTracer) Confirm(pane int, locator string) {
	logging.Trace("nav.confirm", map[string]interface{}{"pane": pane, "locator": locator})
}

func (NavTracer) Find(pane int, query string, index int) {
	logging.Trace("nav.find", map[string]interface{}{"pane": pane, "query": query, "index": index})
}

func (NavTracer) Yank(pane int, value string) {
	logging.Trace("nav.yank", map[string]interface{}{"pane": pane, "value": value})
}

func (InputTracer) Key(key, command string) {
	logging.Trace("input.key", map[string]interface{}{"key": key, "command": command})
}

func (InputTracer) Resize(width, height int) {
	logging.Trace("input.resize", map[string]interface{}{"width": width, "height": height})
}
