package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stagekit/stageplot-backend/internal/blobstore"
	"github.com/stagekit/stageplot-backend/internal/data/repos"
	"github.com/stagekit/stageplot-backend/internal/http/response"
	"github.com/stagekit/stageplot-backend/internal/imaging"
	"github.com/stagekit/stageplot-backend/internal/services"
)

type AssetHandler struct {
	assetService services.AssetService
}

func NewAssetHandler(assetService services.AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// GET /api/assets?category_id=&section_id=
func (ah *AssetHandler) ListAssets(c *gin.Context) {
	var filter repos.AssetListFilter
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_category_id", err)
			return
		}
		filter.CategoryID = id
	}
	if raw := c.Query("section_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_section_id", err)
			return
		}
		filter.SectionID = id
	}
	assets, err := ah.assetService.List(c.Request.Context(), filter)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_assets_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"assets": assets})
}

// GET /api/assets/:id/file
func (ah *AssetHandler) GetAssetFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_asset_id", err)
		return
	}
	rc, asset, err := ah.assetService.OpenFile(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			response.RespondError(c, http.StatusNotFound, "asset_not_found", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "asset_file_failed", err)
		return
	}
	defer rc.Close()
	c.Header("Content-Type", asset.ContentType)
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}

// POST /api/admin/assets  (multipart: file, name, category, section)
func (ah *AssetHandler) UploadAsset(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	if fileHeader.Size > imaging.MaxUploadBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large",
			errors.New("file exceeds the 10 MiB upload limit"))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, imaging.MaxUploadBytes+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	if len(data) > imaging.MaxUploadBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large",
			errors.New("file exceeds the 10 MiB upload limit"))
		return
	}

	asset, err := ah.assetService.Upload(c.Request.Context(), services.AssetUpload{
		Name:         c.PostForm("name"),
		CategoryName: c.PostForm("category"),
		SectionName:  c.PostForm("section"),
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Data:         data,
	})
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "upload_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

// PATCH /api/admin/assets/:id
func (ah *AssetHandler) PatchAsset(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_asset_id", err)
		return
	}
	var req struct {
		Name     *string `json:"name"`
		Category *string `json:"category"`
		Section  *string `json:"section"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	asset, err := ah.assetService.Patch(c.Request.Context(), id, services.AssetPatch{
		Name:         req.Name,
		CategoryName: req.Category,
		SectionName:  req.Section,
	})
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			response.RespondError(c, http.StatusNotFound, "asset_not_found", err)
			return
		}
		response.RespondError(c, http.StatusBadRequest, "patch_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"asset": asset})
}

// DELETE /api/admin/assets/:id
func (ah *AssetHandler) DeleteAsset(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_asset_id", err)
		return
	}
	if err := ah.assetService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			response.RespondError(c, http.StatusNotFound, "asset_not_found", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "delete_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
