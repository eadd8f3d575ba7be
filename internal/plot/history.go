package plot

import (
	types "github.com/stagekit/stageplot-backend/internal/domain"
)

// maxHistoryDepth bounds the undo stack; the oldest snapshot is dropped
// once the stack is full.
const maxHistoryDepth = 100

// History tracks edit snapshots for a single plot. Every committed edit
// pushes the previous node list onto the undo stack and clears the redo
// stack. Not safe for concurrent use; callers serialize access.
type History struct {
	past    [][]types.PlotNode
	present []types.PlotNode
	future  [][]types.PlotNode
}

func NewHistory(initial []types.PlotNode) *History {
	return &History{present: cloneNodes(initial)}
}

// Clone returns a history with independent stacks. Snapshots are never
// mutated once committed, so the node lists themselves are shared.
func (h *History) Clone() *History {
	c := &History{
		past:    make([][]types.PlotNode, len(h.past)),
		present: h.present,
		future:  make([][]types.PlotNode, len(h.future)),
	}
	copy(c.past, h.past)
	copy(c.future, h.future)
	return c
}

// Present returns the current node list.
func (h *History) Present() []types.PlotNode {
	return cloneNodes(h.present)
}

// CanUndo reports whether an undo would change state.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether a redo would change state.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Push commits a new state. The redo stack is discarded and the undo
// stack trimmed to the depth cap.
func (h *History) Push(next []types.PlotNode) {
	h.past = append(h.past, h.present)
	if len(h.past) > maxHistoryDepth {
		h.past = h.past[len(h.past)-maxHistoryDepth:]
	}
	h.present = cloneNodes(next)
	h.future = nil
}

// Undo steps back one state. With an empty undo stack it is a no-op.
func (h *History) Undo() []types.PlotNode {
	if len(h.past) == 0 {
		return h.Present()
	}
	h.future = append(h.future, h.present)
	h.present = h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	return h.Present()
}

// Redo steps forward one state. With an empty redo stack it is a no-op.
func (h *History) Redo() []types.PlotNode {
	if len(h.future) == 0 {
		return h.Present()
	}
	h.past = append(h.past, h.present)
	h.present = h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	return h.Present()
}

// ApplyOp routes one op through the history: undo/redo walk the stacks,
// everything else goes through the reducer and commits on success.
func (h *History) ApplyOp(op Op) ([]types.PlotNode, error) {
	switch op.Type {
	case OpUndo:
		return h.Undo(), nil
	case OpRedo:
		return h.Redo(), nil
	default:
		next, err := Apply(h.present, op)
		if err != nil {
			return nil, err
		}
		h.Push(next)
		return h.Present(), nil
	}
}
