package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stagekit/stageplot-backend/internal/blobstore"
	"github.com/stagekit/stageplot-backend/internal/data/repos"
	types "github.com/stagekit/stageplot-backend/internal/domain"
	"github.com/stagekit/stageplot-backend/internal/export"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
	"github.com/stagekit/stageplot-backend/internal/render"
)

// ExportService turns a saved plot into downloadable documents.
type ExportService interface {
	ExportCSV(ctx context.Context, plotID uuid.UUID) ([]byte, string, error)
	ExportXLSX(ctx context.Context, plotID uuid.UUID) ([]byte, string, error)
	ExportPDF(ctx context.Context, plotID uuid.UUID) ([]byte, string, error)
}

type exportService struct {
	db          *gorm.DB
	log         *logger.Logger
	plotService StagePlotService
	assetRepo   repos.AssetRepo
	store       blobstore.BlobStore
	composer    *render.Composer
}

func NewExportService(
	db *gorm.DB,
	log *logger.Logger,
	plotService StagePlotService,
	assetRepo repos.AssetRepo,
	store blobstore.BlobStore,
	composer *render.Composer,
) ExportService {
	return &exportService{
		db:          db,
		log:         log.With("service", "ExportService"),
		plotService: plotService,
		assetRepo:   assetRepo,
		store:       store,
		composer:    composer,
	}
}

func (es *exportService) ExportCSV(ctx context.Context, plotID uuid.UUID) ([]byte, string, error) {
	doc, err := es.buildDocument(ctx, plotID, false)
	if err != nil {
		return nil, "", err
	}
	out, err := export.WriteCSV(*doc)
	if err != nil {
		return nil, "", err
	}
	return out, exportFilename(doc.PlotName, "csv"), nil
}

func (es *exportService) ExportXLSX(ctx context.Context, plotID uuid.UUID) ([]byte, string, error) {
	doc, err := es.buildDocument(ctx, plotID, false)
	if err != nil {
		return nil, "", err
	}
	out, err := export.WriteXLSX(*doc)
	if err != nil {
		return nil, "", err
	}
	return out, exportFilename(doc.PlotName, "xlsx"), nil
}

func (es *exportService) ExportPDF(ctx context.Context, plotID uuid.UUID) ([]byte, string, error) {
	doc, err := es.buildDocument(ctx, plotID, true)
	if err != nil {
		return nil, "", err
	}
	out, err := export.WritePDF(*doc)
	if err != nil {
		return nil, "", err
	}
	return out, exportFilename(doc.PlotName, "pdf"), nil
}

func (es *exportService) buildDocument(ctx context.Context, plotID uuid.UUID, withStageImage bool) (*export.Document, error) {
	stored, err := es.plotService.Get(ctx, plotID)
	if err != nil {
		return nil, err
	}
	nodes, err := stored.DecodeNodes()
	if err != nil {
		return nil, fmt.Errorf("decode nodes: %w", err)
	}

	assetIDs := make([]uuid.UUID, 0, len(nodes))
	for _, n := range nodes {
		if n.AssetID != uuid.Nil {
			assetIDs = append(assetIDs, n.AssetID)
		}
	}
	assets, err := es.assetRepo.GetByIDs(ctx, nil, assetIDs)
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}
	assetByID := make(map[uuid.UUID]*types.Asset, len(assets))
	for _, a := range assets {
		assetByID[a.ID] = a
	}

	doc := &export.Document{PlotName: stored.Name}
	for i, n := range nodes {
		row := export.Row{
			Position: i + 1,
			Item:     n.Type,
			Label:    n.Label,
			X:        n.X,
			Y:        n.Y,
			Rotation: n.Rotation,
			Scale:    n.Scale,
		}
		if a, ok := assetByID[n.AssetID]; ok {
			row.Item = a.Name
			if a.Category != nil {
				row.Category = a.Category.Name
			}
			if a.Section != nil {
				row.Section = a.Section.Name
			}
		}
		doc.Rows = append(doc.Rows, row)
	}

	if withStageImage {
		png, err := es.composeStage(ctx, nodes, assetByID)
		if err != nil {
			return nil, err
		}
		doc.StagePNG = png
	}
	return doc, nil
}

func (es *exportService) composeStage(ctx context.Context, nodes []types.PlotNode, assetByID map[uuid.UUID]*types.Asset) ([]byte, error) {
	keys := make([]string, 0, len(assetByID))
	for _, a := range assetByID {
		// SVG assets have no raster bytes to place; they get placeholders.
		if a.ContentType != "image/svg+xml" {
			keys = append(keys, a.StorageKey)
		}
	}
	images, err := render.FetchImages(ctx, es.store, es.log, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch asset images: %w", err)
	}

	sprites := make([]render.NodeSprite, 0, len(nodes))
	for _, n := range nodes {
		sp := render.NodeSprite{Node: n, Name: n.Type}
		if a, ok := assetByID[n.AssetID]; ok {
			sp.Name = a.Name
			sp.Image = images[a.StorageKey]
		}
		sprites = append(sprites, sp)
	}
	return es.composer.ComposePNG(sprites)
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func exportFilename(plotName, ext string) string {
	base := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(plotName), "_")
	base = strings.Trim(base, "._-")
	if base == "" {
		base = "stage-plot"
	}
	return base + "." + ext
}
