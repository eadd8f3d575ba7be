package plot

import (
	"fmt"

	types "github.com/stagekit/stageplot-backend/internal/domain"
)

// Op is a single edit applied to a plot's node list.
type Op struct {
	Type    string          `json:"type"`
	NodeID  string          `json:"nodeId,omitempty"`
	Node    *types.PlotNode `json:"node,omitempty"`
	X       float64         `json:"x,omitempty"`
	Y       float64         `json:"y,omitempty"`
	Degrees float64         `json:"degrees,omitempty"`
	Factor  float64         `json:"factor,omitempty"`
	Value   *bool           `json:"value,omitempty"`
	Label   *string         `json:"label,omitempty"`
	ToIndex int             `json:"toIndex,omitempty"`
}

const (
	OpPlace   = "place"
	OpMove    = "move"
	OpRotate  = "rotate"
	OpScale   = "scale"
	OpFlip    = "flip"
	OpLock    = "lock"
	OpRelabel = "relabel"
	OpDelete  = "delete"
	OpReorder = "reorder"
	OpUndo    = "undo"
	OpRedo    = "redo"
)

// ErrLocked rejects edits that would mutate a locked node. Lock toggles
// are exempt so a locked node can always be unlocked.
type ErrLocked struct{ NodeID string }

func (e *ErrLocked) Error() string {
	return fmt.Sprintf("node %s is locked", e.NodeID)
}

// Apply runs one op against the node list and returns the new list.
// The input slice is never mutated.
func Apply(nodes []types.PlotNode, op Op) ([]types.PlotNode, error) {
	switch op.Type {
	case OpPlace:
		if op.Node == nil || op.Node.ID == "" {
			return nil, fmt.Errorf("place requires a node with an id")
		}
		for _, n := range nodes {
			if n.ID == op.Node.ID {
				return nil, fmt.Errorf("node %s already exists", op.Node.ID)
			}
		}
		next := cloneNodes(nodes)
		placed := *op.Node
		if placed.Scale == 0 {
			placed.Scale = 1
		}
		return append(next, placed), nil

	case OpMove:
		return mutateNode(nodes, op.NodeID, func(n *types.PlotNode) {
			n.X = op.X
			n.Y = op.Y
		})

	case OpRotate:
		return mutateNode(nodes, op.NodeID, func(n *types.PlotNode) {
			n.Rotation = NormalizeDegrees(n.Rotation + op.Degrees)
		})

	case OpScale:
		if op.Factor <= 0 {
			return nil, fmt.Errorf("scale requires a positive factor")
		}
		return mutateNode(nodes, op.NodeID, func(n *types.PlotNode) {
			n.Scale = ClampScale(n.Scale * op.Factor)
		})

	case OpFlip:
		return mutateNode(nodes, op.NodeID, func(n *types.PlotNode) {
			if op.Value != nil {
				n.Flipped = *op.Value
			} else {
				n.Flipped = !n.Flipped
			}
		})

	case OpLock:
		idx := indexOf(nodes, op.NodeID)
		if idx < 0 {
			return nil, fmt.Errorf("node %s not found", op.NodeID)
		}
		next := cloneNodes(nodes)
		if op.Value != nil {
			next[idx].Locked = *op.Value
		} else {
			next[idx].Locked = !next[idx].Locked
		}
		return next, nil

	case OpRelabel:
		if op.Label == nil {
			return nil, fmt.Errorf("relabel requires a label")
		}
		return mutateNode(nodes, op.NodeID, func(n *types.PlotNode) {
			n.Label = *op.Label
		})

	case OpDelete:
		idx := indexOf(nodes, op.NodeID)
		if idx < 0 {
			return nil, fmt.Errorf("node %s not found", op.NodeID)
		}
		if nodes[idx].Locked {
			return nil, &ErrLocked{NodeID: op.NodeID}
		}
		next := cloneNodes(nodes)
		return append(next[:idx], next[idx+1:]...), nil

	case OpReorder:
		idx := indexOf(nodes, op.NodeID)
		if idx < 0 {
			return nil, fmt.Errorf("node %s not found", op.NodeID)
		}
		to := op.ToIndex
		if to < 0 {
			to = 0
		}
		if to >= len(nodes) {
			to = len(nodes) - 1
		}
		next := cloneNodes(nodes)
		moved := next[idx]
		next = append(next[:idx], next[idx+1:]...)
		next = append(next[:to], append([]types.PlotNode{moved}, next[to:]...)...)
		return next, nil

	default:
		return nil, fmt.Errorf("unknown op type %q", op.Type)
	}
}

func mutateNode(nodes []types.PlotNode, id string, fn func(*types.PlotNode)) ([]types.PlotNode, error) {
	idx := indexOf(nodes, id)
	if idx < 0 {
		return nil, fmt.Errorf("node %s not found", id)
	}
	if nodes[idx].Locked {
		return nil, &ErrLocked{NodeID: id}
	}
	next := cloneNodes(nodes)
	fn(&next[idx])
	return next, nil
}

func indexOf(nodes []types.PlotNode, id string) int {
	for i, n := range nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func cloneNodes(nodes []types.PlotNode) []types.PlotNode {
	out := make([]types.PlotNode, len(nodes))
	copy(out, nodes)
	return out
}
