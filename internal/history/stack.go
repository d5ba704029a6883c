package history

import (
	"time"

	"cvstudio/api/internal/store"
)

// Stack is a bounded linear undo/redo history over the editor's
// {header, sections} state. Frames are deep copies: a recorded frame is
// fully independent of any later mutation of the live state.
//
// The history is strictly linear. Recording after one or more undos
// permanently discards the redo branch.
type Stack struct {
	past   []store.EditStep
	future []store.EditStep
	limit  int
}

func NewStack() *Stack {
	return &Stack{limit: MaxEditSteps}
}

// Restore rebuilds a stack from the edit history persisted with a snapshot.
func Restore(h store.EditHistory) *Stack {
	clone := h.Clone()
	s := &Stack{past: clone.Past, future: clone.Future, limit: MaxEditSteps}
	s.trim()
	return s
}

// Record pushes the pre-mutation state onto the past stack and clears the
// redo branch. The oldest frame is dropped once the cap is reached.
func (s *Stack) Record(header *store.Header, sections []store.Section, now time.Time) {
	s.past = append(s.past, frame(header, sections, now))
	s.future = nil
	s.trim()
}

// Undo pops the most recent past frame, pushing the supplied current state
// onto the redo stack. Returns false when there is nothing to undo.
func (s *Stack) Undo(header *store.Header, sections []store.Section, now time.Time) (store.EditStep, bool) {
	if len(s.past) == 0 {
		return store.EditStep{}, false
	}
	top := s.past[len(s.past)-1]
	s.past = s.past[:len(s.past)-1]
	s.future = append(s.future, frame(header, sections, now))
	if len(s.future) > s.limit {
		s.future = s.future[len(s.future)-s.limit:]
	}
	return top, true
}

// Redo mirrors Undo, sourcing from the redo stack.
func (s *Stack) Redo(header *store.Header, sections []store.Section, now time.Time) (store.EditStep, bool) {
	if len(s.future) == 0 {
		return store.EditStep{}, false
	}
	top := s.future[len(s.future)-1]
	s.future = s.future[:len(s.future)-1]
	s.past = append(s.past, frame(header, sections, now))
	if len(s.past) > s.limit {
		s.past = s.past[len(s.past)-s.limit:]
	}
	return top, true
}

// Depth returns the number of undoable frames.
func (s *Stack) Depth() int { return len(s.past) }

// RedoDepth returns the number of redoable frames.
func (s *Stack) RedoDepth() int { return len(s.future) }

// Snapshot returns a deep copy of the stack in its persisted form, suitable
// for attaching to a store.Snapshot.
func (s *Stack) Snapshot() store.EditHistory {
	h := store.EditHistory{Past: s.past, Future: s.future}
	return h.Clone()
}

func (s *Stack) trim() {
	if len(s.past) > s.limit {
		s.past = s.past[len(s.past)-s.limit:]
	}
	if len(s.future) > s.limit {
		s.future = s.future[:s.limit]
	}
}

func frame(header *store.Header, sections []store.Section, now time.Time) store.EditStep {
	step := store.EditStep{Header: header, Sections: sections, CreatedAt: now}
	return step.Clone()
}
