package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/stagekit/stageplot-backend/internal/data/repos"
	types "github.com/stagekit/stageplot-backend/internal/domain"
	"github.com/stagekit/stageplot-backend/internal/pkg/ctxutil"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
	"github.com/stagekit/stageplot-backend/internal/plot"
)

// ErrPlotNotFound covers both a missing plot and one owned by another
// user; callers cannot tell the two apart.
var ErrPlotNotFound = fmt.Errorf("stage plot not found")

// SavePlotInput is a full-document save. Saves are last-write-wins.
// Inputs carries the channel-list payload byte-for-byte; nil means the
// save body did not mention it and the stored value is kept.
type SavePlotInput struct {
	ID     uuid.UUID
	Name   string
	Nodes  []types.PlotNode
	Inputs datatypes.JSON
}

// OpsResult reports the plot state after a batch of edit ops.
type OpsResult struct {
	Plot    *types.StagePlot
	Nodes   []types.PlotNode
	CanUndo bool
	CanRedo bool
}

type StagePlotService interface {
	Save(ctx context.Context, input SavePlotInput) (*types.StagePlot, error)
	Get(ctx context.Context, id uuid.UUID) (*types.StagePlot, error)
	List(ctx context.Context) ([]*types.StagePlot, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ApplyOps runs edit ops through the plot's server-side history and
	// persists the result.
	ApplyOps(ctx context.Context, id uuid.UUID, ops []plot.Op) (*OpsResult, error)
}

// plotHistory pairs a cached history with the mutex serializing access
// to it. The mutex is held for a whole op batch, persist included, so
// concurrent batches against one plot queue up instead of interleaving.
type plotHistory struct {
	mu   sync.Mutex
	hist *plot.History
}

type stagePlotService struct {
	db       *gorm.DB
	log      *logger.Logger
	plotRepo repos.StagePlotRepo

	mu        sync.Mutex
	histories map[uuid.UUID]*plotHistory
}

func NewStagePlotService(db *gorm.DB, log *logger.Logger, plotRepo repos.StagePlotRepo) StagePlotService {
	return &stagePlotService{
		db:        db,
		log:       log.With("service", "StagePlotService"),
		plotRepo:  plotRepo,
		histories: map[uuid.UUID]*plotHistory{},
	}
}

func requireUser(ctx context.Context) (uuid.UUID, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("no authenticated user in context")
	}
	return rd.UserID, nil
}

func (s *stagePlotService) Save(ctx context.Context, input SavePlotInput) (*types.StagePlot, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if input.ID == uuid.Nil {
		return nil, fmt.Errorf("plot id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = "Untitled plot"
	}

	stored := &types.StagePlot{
		ID:        input.ID,
		UserID:    userID,
		Name:      name,
		Inputs:    input.Inputs,
		UpdatedAt: time.Now(),
	}
	if err := stored.EncodeNodes(input.Nodes); err != nil {
		return nil, fmt.Errorf("encode nodes: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A plot ID belongs to whoever saved it first.
		existing, err := s.plotRepo.GetByIDs(ctx, tx, []uuid.UUID{input.ID})
		if err != nil {
			return fmt.Errorf("lookup plot: %w", err)
		}
		if len(existing) > 0 {
			if existing[0].UserID != userID {
				return ErrPlotNotFound
			}
			// A save that omits the channel list keeps the stored one.
			if stored.Inputs == nil {
				stored.Inputs = existing[0].Inputs
			}
		}
		return s.plotRepo.Upsert(ctx, tx, stored)
	})
	if err != nil {
		return nil, err
	}

	// A full save replaces the edit baseline; prior undo state no longer
	// describes the document.
	entry := s.entryFor(input.ID)
	entry.mu.Lock()
	entry.hist = plot.NewHistory(input.Nodes)
	entry.mu.Unlock()

	return stored, nil
}

func (s *stagePlotService) Get(ctx context.Context, id uuid.UUID) (*types.StagePlot, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	found, err := s.plotRepo.GetByIDForUser(ctx, nil, id, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup plot: %w", err)
	}
	if found == nil {
		return nil, ErrPlotNotFound
	}
	return found, nil
}

func (s *stagePlotService) List(ctx context.Context) ([]*types.StagePlot, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.plotRepo.ListByUserID(ctx, nil, userID)
}

func (s *stagePlotService) Delete(ctx context.Context, id uuid.UUID) error {
	userID, err := requireUser(ctx)
	if err != nil {
		return err
	}
	deleted, err := s.plotRepo.DeleteByIDForUser(ctx, nil, id, userID)
	if err != nil {
		return fmt.Errorf("delete plot: %w", err)
	}
	if !deleted {
		return ErrPlotNotFound
	}
	s.mu.Lock()
	delete(s.histories, id)
	s.mu.Unlock()
	return nil
}

func (s *stagePlotService) ApplyOps(ctx context.Context, id uuid.UUID, ops []plot.Op) (*OpsResult, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("no ops to apply")
	}

	stored, err := s.plotRepo.GetByIDForUser(ctx, nil, id, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup plot: %w", err)
	}
	if stored == nil {
		return nil, ErrPlotNotFound
	}

	entry := s.entryFor(id)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.hist == nil {
		nodes, err := stored.DecodeNodes()
		if err != nil {
			return nil, fmt.Errorf("decode nodes: %w", err)
		}
		entry.hist = plot.NewHistory(nodes)
	}

	// The batch runs on a scratch copy; the cached history advances only
	// after every op applied and the row persisted. A failed batch leaves
	// both the history and the stored document as they were.
	work := entry.hist.Clone()
	var nodes []types.PlotNode
	for i, op := range ops {
		nodes, err = work.ApplyOp(op)
		if err != nil {
			return nil, fmt.Errorf("op %d (%s): %w", i, op.Type, err)
		}
	}

	if err := stored.EncodeNodes(nodes); err != nil {
		return nil, fmt.Errorf("encode nodes: %w", err)
	}
	stored.UpdatedAt = time.Now()
	if err := s.plotRepo.Upsert(ctx, nil, stored); err != nil {
		return nil, fmt.Errorf("persist plot: %w", err)
	}
	entry.hist = work

	return &OpsResult{
		Plot:    stored,
		Nodes:   nodes,
		CanUndo: work.CanUndo(),
		CanRedo: work.CanRedo(),
	}, nil
}

// entryFor returns the per-plot history slot, creating an empty one on
// first touch. Seeding from the stored row happens under the entry's
// own mutex.
func (s *stagePlotService) entryFor(id uuid.UUID) *plotHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.histories[id]
	if !ok {
		entry = &plotHistory{}
		s.histories[id] = entry
	}
	return entry
}
