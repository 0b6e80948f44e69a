package events

import "github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/logging"

type FetchTracer struct{}

type RefreshTracer struct{}

type CacheTracer struct{}

var (
	Fetch   = FetchTracer{}
	Refresh = RefreshTracer{}
	Cache   = CacheTracer{}
)

func (FetchTracer) Queue(pane int, locator string, seq uint64) {
	logging.Trace("fetch.queue", map[string]interface{}{"pane": pane, "locator": locator, "seq": seq})
}

func (FetchTracer) Done(pane int, locator string, seq uint64, count int) {
	logging.Trace("fetch.done", map[string]interface{}{"pane": pane, "locator": locator, "seq": seq, "count": count})
}

func (FetchTracer) Fail(pane int, locator string, err error) {
	if err == nil {
		return
	}
	logging.Trace("fetch.fail", map[string]interface{}{"pane": pane, "locator": locator, "error": err.Error()})
}

func (FetchTracer) Discard(pane int, locator string, seq uint64) {
	logging.Trace("fetch.discard", map[string]interface{}{"pane": pane, "locator": locator, "seq": seq})
}

func (RefreshTracer) Track(pane int, locator string) {
	logging.Trace("refresh.track", map[string]interface{}{"pane": pane, "locator": locator})
}

func (RefreshTracer) Applied(pane int, locator string, count int) {
	logging.Trace("refresh.applied", map[string]interface{}{"pane": pane, "locator": locator, "count": count})
}

func (RefreshTracer) Skipped(pane int, locator string) {
	logging.Trace("refresh.skipped", map[string]interface{}{"pane": pane, "locator": locator})
}

func (CacheTracer) Hit(key string, count int) {
	logging.Trace("cache.hit", map[string]interface{}{"key": key, "count": count})
}

func (CacheTracer) Miss(key string) {
	logging.Trace("cache.miss", map[string]interface{}{"key": key})
}

func (CacheTracer) Error(op, key string, err error) {
	if err == nil {
		return
	}
	logging.Trace("cache.error", map[string]interface{}{"op": op, "key": key, "error": err.Error()})
}
