// Package selection implements the drag-selection gesture over slot keys:
// one continuous pointer or touch interaction that toggles a set of cells
// between available and unavailable. The engine is a small state machine
// (Idle | Dragging) driven synchronously by UI events; no two gestures can
// be active at once.
package selection

import "sort"

// Mode is what a committed gesture does to the selection.
type Mode int

const (
	// ModeAdd unions the accumulated keys into the selection.
	ModeAdd Mode = iota
	// ModeRemove subtracts the accumulated keys from the selection.
	ModeRemove
)

func (m Mode) String() string {
	if m == ModeRemove {
		return "remove"
	}
	return "add"
}

// CommitFunc receives the accumulated keys and mode of a finished gesture.
// The engine hands over its own set; the callback may keep it.
type CommitFunc func(keys map[string]struct{}, mode Mode)

// Engine is the gesture state machine. Zero or one gesture is in flight at
// any time; all methods are synchronous and must be called from a single
// goroutine.
type Engine struct {
	commit CommitFunc

	dragging    bool
	mode        Mode
	anchor      string
	accumulated map[string]struct{}
}

// NewEngine creates an engine that reports finished gestures to commit.
func NewEngine(commit CommitFunc) *Engine {
	return &Engine{commit: commit}
}

// Dragging reports whether a gesture is in flight.
func (e *Engine) Dragging() bool { return e.dragging }

// Mode returns the in-flight gesture's mode. Meaningless when idle.
func (e *Engine) Mode() Mode { return e.mode }

// Anchor returns the key the in-flight gesture started on.
func (e *Engine) Anchor() string { return e.anchor }

// Accumulated returns a copy of the keys touched so far in the in-flight
// gesture.
func (e *Engine) Accumulated() map[string]struct{} {
	cp := make(map[string]struct{}, len(e.accumulated))
	for k := range e.accumulated {
		cp[k] = struct{}{}
	}
	return cp
}

// PointerDown starts a gesture on a cell. The mode is remove if the anchor
// cell was already selected, add otherwise. A pointerDown arriving while a
// gesture is already in flight commits that gesture first, so a missed
// release event can never wedge the engine.
func (e *Engine) PointerDown(key string, wasSelected bool) {
	if e.dragging {
		e.Release()
	}
	e.dragging = true
	e.anchor = key
	if wasSelected {
		e.mode = ModeRemove
	} else {
		e.mode = ModeAdd
	}
	e.accumulated = map[string]struct{}{key: {}}
}

// PointerEnter accumulates a cell into the in-flight gesture. Accumulation
// is monotonic: re-entering an already-touched cell changes nothing, and
// nothing is ever removed mid-drag. Ignored when idle.
func (e *Engine) PointerEnter(key string) {
	if !e.dragging {
		return
	}
	e.accumulated[key] = struct{}{}
}

// HitTest resolves a screen coordinate to the slot key of the cell under
// it, if any. Touch-move events do not target the element under the
// finger, so touch support has to hit-test explicitly.
type HitTest func(x, y float64) (key string, ok bool)

// TouchMove accumulates the cell under a touch coordinate, mirroring
// PointerEnter for touch input.
func (e *Engine) TouchMove(x, y float64, hit HitTest) {
	if !e.dragging {
		return
	}
	if key, ok := hit(x, y); ok {
		e.accumulated[key] = struct{}{}
	}
}

// Release ends the in-flight gesture and commits its accumulated keys and
// mode atomically, then returns to idle. Callers wire this to pointerup,
// touchend, and a global release listener so a drag ending outside the
// grid still terminates. Idempotent: releasing while idle does nothing.
func (e *Engine) Release() {
	if !e.dragging {
		return
	}
	keys := e.accumulated
	mode := e.mode
	e.dragging = false
	e.anchor = ""
	e.accumulated = nil
	if len(keys) > 0 && e.commit != nil {
		e.commit(keys, mode)
	}
}

// Selection is the set of slot keys a participant has marked available.
type Selection map[string]struct{}

// NewSelection builds a selection from existing keys.
func NewSelection(keys ...string) Selection {
	s := make(Selection, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Apply folds one committed gesture into the selection: add unions the
// keys in, remove subtracts every touched key regardless of its prior
// individual state.
func (s Selection) Apply(keys map[string]struct{}, mode Mode) {
	for k := range keys {
		if mode == ModeAdd {
			s[k] = struct{}{}
		} else {
			delete(s, k)
		}
	}
}

// Has reports whether a key is selected.
func (s Selection) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the selected keys sorted ascending.
func (s Selection) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
