package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PlotNode is a single placed icon on the stage canvas. Coordinates are in
// canvas units with the origin at the top-left; Rotation is degrees
// clockwise.
type PlotNode struct {
	ID       string    `json:"id"`
	AssetID  uuid.UUID `json:"assetId"`
	Type     string    `json:"type"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Rotation float64   `json:"rotation"`
	Scale    float64   `json:"scale"`
	Flipped  bool      `json:"flipped"`
	Locked   bool      `json:"locked"`
	Label    string    `json:"label"`
}

// StagePlot is one saved layout. Nodes is the ordered node list; Inputs is
// the legacy input-list payload kept verbatim for older clients. Writes are
// an upsert keyed by ID with last write winning.
type StagePlot struct {
	ID     uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID      `gorm:"index;not null;column:user_id" json:"user_id"`
	User   *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Name   string         `gorm:"not null;column:name" json:"name"`
	Nodes  datatypes.JSON `gorm:"column:nodes" json:"nodes"`
	Inputs datatypes.JSON `gorm:"column:inputs" json:"inputs"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StagePlot) TableName() string { return "stage_plot" }

func (p *StagePlot) DecodeNodes() ([]PlotNode, error) {
	if len(p.Nodes) == 0 {
		return []PlotNode{}, nil
	}
	var nodes []PlotNode
	if err := json.Unmarshal(p.Nodes, &nodes); err != nil {
		return nil, fmt.Errorf("decode plot nodes: %w", err)
	}
	return nodes, nil
}

func (p *StagePlot) EncodeNodes(nodes []PlotNode) error {
	if nodes == nil {
		nodes = []PlotNode{}
	}
	raw, err := json.Marshal(nodes)
	if err != nil {
		return fmt.Errorf("encode plot nodes: %w", err)
	}
	p.Nodes = datatypes.JSON(raw)
	return nil
}
