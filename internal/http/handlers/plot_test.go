package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stagekit/stageplot-backend/internal/data/repos"
	"github.com/stagekit/stageplot-backend/internal/data/repos/testutil"
	"github.com/stagekit/stageplot-backend/internal/http/handlers"
	"github.com/stagekit/stageplot-backend/internal/pkg/ctxutil"
	"github.com/stagekit/stageplot-backend/internal/services"
)

// newPlotRouter wires the plot routes behind a middleware that injects
// a seeded user, standing in for the session check.
func newPlotRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	user := testutil.SeedUser(t, gdb)
	svc := services.NewStagePlotService(gdb, log, repos.NewStagePlotRepo(gdb, log))
	ph := handlers.NewPlotHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: user.ID})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	r.GET("/api/plots", ph.ListPlots)
	r.GET("/api/plots/:id", ph.GetPlot)
	r.PUT("/api/plots/:id", ph.SavePlot)
	r.DELETE("/api/plots/:id", ph.DeletePlot)
	r.POST("/api/plots/:id/ops", ph.ApplyOps)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSaveThenGetPlot(t *testing.T) {
	r := newPlotRouter(t)
	id := uuid.New()

	rec := doJSON(t, r, http.MethodPut, "/api/plots/"+id.String(), gin.H{
		"name": "Main stage",
		"nodes": []gin.H{
			{"id": "amp-1", "type": "amp", "x": 120.0, "y": 80.0, "scale": 1.0},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save status: got=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodGet, "/api/plots/"+id.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Plot struct {
			Name  string `json:"name"`
			Nodes []struct {
				ID string `json:"id"`
			} `json:"nodes"`
		} `json:"plot"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Plot.Name != "Main stage" {
		t.Fatalf("plot name: want=Main stage got=%s", resp.Plot.Name)
	}
	if len(resp.Plot.Nodes) != 1 || resp.Plot.Nodes[0].ID != "amp-1" {
		t.Fatalf("unexpected nodes: %+v", resp.Plot.Nodes)
	}
}

func TestSavePreservesAndEchoesInputs(t *testing.T) {
	r := newPlotRouter(t)
	id := uuid.New()

	rec := doJSON(t, r, http.MethodPut, "/api/plots/"+id.String(), gin.H{
		"name":   "With channels",
		"inputs": []gin.H{{"channel": 1, "name": "Kick"}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save status: got=%d body=%s", rec.Code, rec.Body.String())
	}

	// A later save that only touches nodes keeps the channel list.
	rec = doJSON(t, r, http.MethodPut, "/api/plots/"+id.String(), gin.H{
		"name":  "With channels",
		"nodes": []gin.H{{"id": "amp-1", "type": "amp", "scale": 1.0}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("second save status: got=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodGet, "/api/plots/"+id.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Plot struct {
			Inputs []struct {
				Channel int    `json:"channel"`
				Name    string `json:"name"`
			} `json:"inputs"`
		} `json:"plot"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Plot.Inputs) != 1 || resp.Plot.Inputs[0].Name != "Kick" {
		t.Fatalf("inputs not preserved: %+v", resp.Plot.Inputs)
	}
}

func TestGetPlotUnknownIDReturns404(t *testing.T) {
	r := newPlotRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/plots/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got=%d want=%d", rec.Code, http.StatusNotFound)
	}
}

func TestGetPlotBadIDReturns400(t *testing.T) {
	r := newPlotRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/plots/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestApplyOpsEndpoint(t *testing.T) {
	r := newPlotRouter(t)
	id := uuid.New()

	rec := doJSON(t, r, http.MethodPut, "/api/plots/"+id.String(), gin.H{"name": "Ops"})
	if rec.Code != http.StatusOK {
		t.Fatalf("save status: got=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodPost, "/api/plots/"+id.String()+"/ops", gin.H{
		"ops": []gin.H{
			{"type": "place", "node": gin.H{"id": "amp-1", "type": "amp", "x": 10.0, "y": 20.0}},
			{"type": "move", "nodeId": "amp-1", "x": 50.0, "y": 60.0},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("ops status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Nodes []struct {
			ID string  `json:"id"`
			X  float64 `json:"x"`
			Y  float64 `json:"y"`
		} `json:"nodes"`
		CanUndo bool `json:"canUndo"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Nodes) != 1 || resp.Nodes[0].X != 50 || resp.Nodes[0].Y != 60 {
		t.Fatalf("unexpected nodes: %+v", resp.Nodes)
	}
	if !resp.CanUndo {
		t.Fatalf("canUndo should be true after edits")
	}
}

func TestApplyOpsLockedNodeReturns409(t *testing.T) {
	r := newPlotRouter(t)
	id := uuid.New()

	rec := doJSON(t, r, http.MethodPut, "/api/plots/"+id.String(), gin.H{
		"name": "Locked",
		"nodes": []gin.H{
			{"id": "amp-1", "type": "amp", "scale": 1.0, "locked": true},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save status: got=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodPost, "/api/plots/"+id.String()+"/ops", gin.H{
		"ops": []gin.H{{"type": "move", "nodeId": "amp-1", "x": 1.0, "y": 1.0}},
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got=%d want=%d body=%s", rec.Code, http.StatusConflict, rec.Body.String())
	}
}

func TestDeletePlotEndpoint(t *testing.T) {
	r := newPlotRouter(t)
	id := uuid.New()

	rec := doJSON(t, r, http.MethodPut, "/api/plots/"+id.String(), gin.H{"name": "Doomed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("save status: got=%d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodDelete, "/api/plots/"+id.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status: got=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodDelete, "/api/plots/"+id.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status: got=%d want=%d", rec.Code, http.StatusNotFound)
	}
}
