package plot

import (
	"errors"
	"fmt"
	"testing"

	types "github.com/stagekit/stageplot-backend/internal/domain"
)

func node(id string) types.PlotNode {
	return types.PlotNode{ID: id, Type: "asset", Scale: 1}
}

func TestHistoryUndoRedo(t *testing.T) {
	h := NewHistory(nil)

	if _, err := h.ApplyOp(Op{Type: OpPlace, Node: &types.PlotNode{ID: "a"}}); err != nil {
		t.Fatalf("place: %v", err)
	}
	if _, err := h.ApplyOp(Op{Type: OpMove, NodeID: "a", X: 10, Y: 20}); err != nil {
		t.Fatalf("move: %v", err)
	}

	got := h.Undo()
	if len(got) != 1 || got[0].X != 0 {
		t.Fatalf("after undo got %+v", got)
	}
	got = h.Redo()
	if len(got) != 1 || got[0].X != 10 || got[0].Y != 20 {
		t.Fatalf("after redo got %+v", got)
	}
}

func TestHistoryEmptyStacksAreNoOps(t *testing.T) {
	h := NewHistory([]types.PlotNode{node("a")})
	if got := h.Undo(); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("undo on empty stack changed state: %+v", got)
	}
	if got := h.Redo(); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("redo on empty stack changed state: %+v", got)
	}
}

func TestHistoryNewEditClearsRedo(t *testing.T) {
	h := NewHistory(nil)
	if _, err := h.ApplyOp(Op{Type: OpPlace, Node: &types.PlotNode{ID: "a"}}); err != nil {
		t.Fatalf("place: %v", err)
	}
	h.Undo()
	if !h.CanRedo() {
		t.Fatalf("expected redo available after undo")
	}
	if _, err := h.ApplyOp(Op{Type: OpPlace, Node: &types.PlotNode{ID: "b"}}); err != nil {
		t.Fatalf("place: %v", err)
	}
	if h.CanRedo() {
		t.Fatalf("new edit must clear the redo stack")
	}
}

func TestHistoryCloneIsIndependent(t *testing.T) {
	h := NewHistory(nil)
	if _, err := h.ApplyOp(Op{Type: OpPlace, Node: &types.PlotNode{ID: "a"}}); err != nil {
		t.Fatalf("place: %v", err)
	}

	c := h.Clone()
	if _, err := c.ApplyOp(Op{Type: OpMove, NodeID: "a", X: 99}); err != nil {
		t.Fatalf("move on clone: %v", err)
	}
	c.Undo()

	// The original never saw the clone's edits or stack walks.
	if got := h.Present(); len(got) != 1 || got[0].X != 0 {
		t.Fatalf("original changed by clone edits: %+v", got)
	}
	if !h.CanUndo() || h.CanRedo() {
		t.Fatalf("original stacks changed: canUndo=%v canRedo=%v", h.CanUndo(), h.CanRedo())
	}
}

func TestHistoryDepthCap(t *testing.T) {
	h := NewHistory(nil)
	if _, err := h.ApplyOp(Op{Type: OpPlace, Node: &types.PlotNode{ID: "n"}}); err != nil {
		t.Fatalf("place: %v", err)
	}
	for i := 0; i < maxHistoryDepth+20; i++ {
		if _, err := h.ApplyOp(Op{Type: OpMove, NodeID: "n", X: float64(i)}); err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
	}
	if len(h.past) != maxHistoryDepth {
		t.Fatalf("undo stack depth = %d, want %d", len(h.past), maxHistoryDepth)
	}
	undos := 0
	for h.CanUndo() {
		h.Undo()
		undos++
	}
	if undos != maxHistoryDepth {
		t.Fatalf("performed %d undos, want %d", undos, maxHistoryDepth)
	}
}

func TestApplyLockedNodeRejectsEdits(t *testing.T) {
	locked := types.PlotNode{ID: "a", Locked: true, Scale: 1}
	nodes := []types.PlotNode{locked}

	for _, op := range []Op{
		{Type: OpMove, NodeID: "a", X: 1},
		{Type: OpRotate, NodeID: "a", Degrees: 90},
		{Type: OpScale, NodeID: "a", Factor: 2},
		{Type: OpDelete, NodeID: "a"},
	} {
		if _, err := Apply(nodes, op); err == nil {
			t.Fatalf("op %s on locked node must fail", op.Type)
		} else {
			var le *ErrLocked
			if !errors.As(err, &le) {
				t.Fatalf("op %s: got %v, want ErrLocked", op.Type, err)
			}
		}
	}

	// Unlocking a locked node is always allowed.
	unlocked := false
	next, err := Apply(nodes, Op{Type: OpLock, NodeID: "a", Value: &unlocked})
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if next[0].Locked {
		t.Fatalf("node still locked after unlock")
	}
}

func TestApplyScaleClamps(t *testing.T) {
	nodes := []types.PlotNode{node("a")}
	next, err := Apply(nodes, Op{Type: OpScale, NodeID: "a", Factor: 100})
	if err != nil {
		t.Fatalf("scale up: %v", err)
	}
	if next[0].Scale != MaxScale {
		t.Fatalf("scale = %v, want clamp at %v", next[0].Scale, MaxScale)
	}
	next, err = Apply(next, Op{Type: OpScale, NodeID: "a", Factor: 0.001})
	if err != nil {
		t.Fatalf("scale down: %v", err)
	}
	if next[0].Scale != MinScale {
		t.Fatalf("scale = %v, want clamp at %v", next[0].Scale, MinScale)
	}
}

func TestApplyReorder(t *testing.T) {
	nodes := []types.PlotNode{node("a"), node("b"), node("c")}
	next, err := Apply(nodes, Op{Type: OpReorder, NodeID: "c", ToIndex: 0})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	var order []string
	for _, n := range next {
		order = append(order, n.ID)
	}
	if fmt.Sprint(order) != "[c a b]" {
		t.Fatalf("order = %v", order)
	}
	// Out-of-range targets clamp instead of failing.
	next, err = Apply(next, Op{Type: OpReorder, NodeID: "c", ToIndex: 99})
	if err != nil {
		t.Fatalf("reorder clamp: %v", err)
	}
	if next[len(next)-1].ID != "c" {
		t.Fatalf("expected c at tail, got %+v", next)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	nodes := []types.PlotNode{node("a")}
	if _, err := Apply(nodes, Op{Type: OpMove, NodeID: "a", X: 5}); err != nil {
		t.Fatalf("move: %v", err)
	}
	if nodes[0].X != 0 {
		t.Fatalf("input slice mutated: %+v", nodes[0])
	}
}

func TestApplyPlaceDuplicateID(t *testing.T) {
	nodes := []types.PlotNode{node("a")}
	if _, err := Apply(nodes, Op{Type: OpPlace, Node: &types.PlotNode{ID: "a"}}); err == nil {
		t.Fatalf("duplicate place must fail")
	}
}
