package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/TinArambasic/ScholarSync/internal/models"
	"github.com/TinArambasic/ScholarSync/pkg/response"
)

type searchService interface {
	Search(ctx context.Context, q string) (*models.SearchResult, error)
}

// SearchHandler exposes cross-entity search.
type SearchHandler struct {
	service searchService
}

// NewSearchHandler creates a search handler.
func NewSearchHandler(svc searchService) *SearchHandler {
	return &SearchHandler{service: svc}
}

// Search godoc
// @Summary Search questions, users and courses
// @Description Case-insensitive substring match, at most 10 hits per kind.
// @Tags Search
// @Produce json
// @Param q query string false "Search text"
// @Success 200 {object} models.SearchResult
// @Router /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	result, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
