package logtail

// Engine holds one independent Tail per registered sink and advances them
// cooperatively: callers drive it from a single loop, one bounded read step
// per sink per pass, so a stalled or empty sink never delays the others.
type Engine struct {
	tails map[string]*Tail
}

// NewEngine creates an empty engine.
func NewEngine() *Engine {
	return &Engine{tails: make(map[string]*Tail)}
}

// Watch registers a sink path. The new watch starts at offset 0 and will
// re-deliver the sink's full current content. Re-registering an already
// watched path restarts its cursor.
func (e *Engine) Watch(path string) {
	e.tails[path] = NewTail(path)
}

// Unwatch cancels the watch for a sink path.
func (e *Engine) Unwatch(path string) {
	delete(e.tails, path)
}

// Watching reports whether the path has a registered watch.
func (e *Engine) Watching(path string) bool {
	_, ok := e.tails[path]
	return ok
}

// Poll advances the watch for one sink and returns its newly completed
// lines. Unwatched paths yield nothing.
func (e *Engine) Poll(path string) []string {
	t, ok := e.tails[path]
	if !ok {
		return nil
	}
	return t.Poll()
}

// PollAll advances every watch one step and returns completed lines keyed
// by sink path. Sinks that produced nothing are omitted.
func (e *Engine) PollAll() map[string][]string {
	out := make(map[string][]string)
	for path, t := range e.tails {
		if lines := t.Poll(); len(lines) > 0 {
			out[path] = lines
		}
	}
	return out
}

// Len returns the number of registered watches.
func (e *Engine) Len() int { return len(e.tails) }
