package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/stagekit/stageplot-backend/internal/domain"
	"github.com/stagekit/stageplot-backend/internal/http/response"
	"github.com/stagekit/stageplot-backend/internal/plot"
	"github.com/stagekit/stageplot-backend/internal/services"
)

type PlotHandler struct {
	plotService services.StagePlotService
}

func NewPlotHandler(plotService services.StagePlotService) *PlotHandler {
	return &PlotHandler{plotService: plotService}
}

type plotPayload struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Nodes     []types.PlotNode `json:"nodes"`
	Inputs    json.RawMessage  `json:"inputs,omitempty"`
	UpdatedAt string           `json:"updatedAt,omitempty"`
}

func plotToPayload(p *types.StagePlot) (*plotPayload, error) {
	nodes, err := p.DecodeNodes()
	if err != nil {
		return nil, err
	}
	return &plotPayload{
		ID:        p.ID.String(),
		Name:      p.Name,
		Nodes:     nodes,
		Inputs:    json.RawMessage(p.Inputs),
		UpdatedAt: p.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

// GET /api/plots
func (ph *PlotHandler) ListPlots(c *gin.Context) {
	plots, err := ph.plotService.List(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_plots_failed", err)
		return
	}
	out := make([]*plotPayload, 0, len(plots))
	for _, p := range plots {
		payload, err := plotToPayload(p)
		if err != nil {
			response.RespondError(c, http.StatusInternalServerError, "list_plots_failed", err)
			return
		}
		out = append(out, payload)
	}
	response.RespondOK(c, gin.H{"plots": out})
}

// GET /api/plots/:id
func (ph *PlotHandler) GetPlot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_plot_id", err)
		return
	}
	stored, err := ph.plotService.Get(c.Request.Context(), id)
	if err != nil {
		ph.respondPlotError(c, err, "get_plot_failed")
		return
	}
	payload, err := plotToPayload(stored)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "get_plot_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"plot": payload})
}

// PUT /api/plots/:id
// Full-document save; last write wins.
func (ph *PlotHandler) SavePlot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_plot_id", err)
		return
	}
	var req struct {
		Name   string           `json:"name"`
		Nodes  []types.PlotNode `json:"nodes"`
		Inputs json.RawMessage  `json:"inputs"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	stored, err := ph.plotService.Save(c.Request.Context(), services.SavePlotInput{
		ID:     id,
		Name:   req.Name,
		Nodes:  req.Nodes,
		Inputs: datatypes.JSON(req.Inputs),
	})
	if err != nil {
		ph.respondPlotError(c, err, "save_plot_failed")
		return
	}
	payload, err := plotToPayload(stored)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "save_plot_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"plot": payload})
}

// DELETE /api/plots/:id
func (ph *PlotHandler) DeletePlot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_plot_id", err)
		return
	}
	if err := ph.plotService.Delete(c.Request.Context(), id); err != nil {
		ph.respondPlotError(c, err, "delete_plot_failed")
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/plots/:id/ops
// body: { "ops": [ { "type": "move", "nodeId": "...", ... } ] }
func (ph *PlotHandler) ApplyOps(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_plot_id", err)
		return
	}
	var req struct {
		Ops []plot.Op `json:"ops"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := ph.plotService.ApplyOps(c.Request.Context(), id, req.Ops)
	if err != nil {
		var locked *plot.ErrLocked
		if errors.As(err, &locked) {
			response.RespondError(c, http.StatusConflict, "node_locked", err)
			return
		}
		ph.respondPlotError(c, err, "apply_ops_failed")
		return
	}
	response.RespondOK(c, gin.H{
		"nodes":   result.Nodes,
		"canUndo": result.CanUndo,
		"canRedo": result.CanRedo,
	})
}

func (ph *PlotHandler) respondPlotError(c *gin.Context, err error, code string) {
	if errors.Is(err, services.ErrPlotNotFound) {
		response.RespondError(c, http.StatusNotFound, "plot_not_found", err)
		return
	}
	response.RespondError(c, http.StatusBadRequest, code, err)
}
