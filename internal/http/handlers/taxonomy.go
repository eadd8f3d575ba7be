package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stagekit/stageplot-backend/internal/http/response"
	"github.com/stagekit/stageplot-backend/internal/services"
)

type TaxonomyHandler struct {
	taxonomyService services.TaxonomyService
}

func NewTaxonomyHandler(taxonomyService services.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomyService: taxonomyService}
}

// GET /api/taxonomy
func (th *TaxonomyHandler) ListTaxonomy(c *gin.Context) {
	categories, err := th.taxonomyService.ListTaxonomy(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "taxonomy_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"categories": categories})
}
