// Package history keeps a bounded linear undo/redo stack of location-set
// snapshots, committed on a trailing debounce after edits.
package history

import (
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/vbonduro/installquote/internal/debounce"
	"github.com/vbonduro/installquote/internal/domain"
)

const (
	DefaultDepth = 50
	DefaultDelay = 500 * time.Millisecond
)

// Document is the state history reads from and restores into.
type Document interface {
	Snapshot() []domain.Location
	Restore([]domain.Location)
}

type Manager struct {
	mu     sync.Mutex
	doc    Document
	stack  [][]domain.Location
	cursor int
	depth  int
	commit *debounce.Debouncer
	logger *slog.Logger
}

// New creates a manager whose stack starts with the document's current state.
func New(doc Document, depth int, delay time.Duration, logger *slog.Logger) *Manager {
	if depth < 1 {
		depth = DefaultDepth
	}
	h := &Manager{doc: doc, depth: depth, cursor: -1, logger: logger}
	h.commit = debounce.New(delay, h.Commit)
	h.Reset()
	return h
}

// Reset drops all entries and pending commits and seeds the stack with the
// current document state.
func (h *Manager) Reset() {
	h.commit.Cancel()
	snap := h.doc.Snapshot()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stack = [][]domain.Location{snap}
	h.cursor = 0
}

// Touch schedules a debounced commit. Call it after every user edit.
func (h *Manager) Touch() {
	h.commit.Trigger()
}

// Commit pushes the current document state, discarding redo entries past the
// cursor. A state equal to the entry at the cursor is not pushed again.
func (h *Manager) Commit() {
	h.commit.Cancel()
	snap := h.doc.Snapshot()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor >= 0 && reflect.DeepEqual(h.stack[h.cursor], snap) {
		return
	}
	h.stack = append(h.stack[:h.cursor+1:h.cursor+1], snap)
	// depth counts undo steps, so one extra entry holds the base state.
	if over := len(h.stack) - (h.depth + 1); over > 0 {
		h.stack = h.stack[over:]
	}
	h.cursor = len(h.stack) - 1
	h.logger.Debug("history commit", "cursor", h.cursor, "entries", len(h.stack))
}

// Undo restores the previous snapshot. A pending commit is flushed first so
// the latest edit is not lost. It reports whether anything changed.
func (h *Manager) Undo() bool {
	h.commit.Flush()
	h.mu.Lock()
	if h.cursor <= 0 {
		h.mu.Unlock()
		return false
	}
	h.cursor--
	snap := domain.CloneLocations(h.stack[h.cursor])
	h.mu.Unlock()
	h.doc.Restore(snap)
	return true
}

// Redo re-applies the snapshot after the cursor, if any.
func (h *Manager) Redo() bool {
	h.commit.Flush()
	h.mu.Lock()
	if h.cursor >= len(h.stack)-1 {
		h.mu.Unlock()
		return false
	}
	h.cursor++
	snap := domain.CloneLocations(h.stack[h.cursor])
	h.mu.Unlock()
	h.doc.Restore(snap)
	return true
}

func (h *Manager) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor > 0
}

func (h *Manager) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor < len(h.stack)-1
}

// State reports the cursor position and stack size.
func (h *Manager) State() (cursor, entries int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor, len(h.stack)
}

// Pending reports whether a debounced commit is scheduled.
func (h *Manager) Pending() bool {
	return h.commit.Pending()
}
