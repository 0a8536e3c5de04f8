package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homely-dev/homely/internal/service"
)

type LinkHandler struct {
	svc *service.LinkService
}

func NewLinkHandler(svc *service.LinkService) *LinkHandler {
	return &LinkHandler{svc: svc}
}

type linkRequest struct {
	URL string `json:"url" binding:"required"`
}

// GetOrCreateLink godoc
// @Summary Resolve Open Graph metadata for a URL
// @Description Returns the cached link for the URL, scraping the page on first request.
// @Tags links
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param link body linkRequest true "Link URL"
// @Success 200 {object} models.Link
// @Failure 400 {object} ErrorResponse
// @Router /links [post]
func (h *LinkHandler) GetOrCreateLink(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	link, err := h.svc.GetOrCreate(c.Request.Context(), req.URL, getUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}
