package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homely-dev/homely/internal/service"
)

type SpaceHandler struct {
	svc *service.SpaceService
}

func NewSpaceHandler(svc *service.SpaceService) *SpaceHandler {
	return &SpaceHandler{svc: svc}
}

// ListSpaces godoc
// @Summary List spaces
// @Description Lists the caller's spaces, or public homepage spaces with ?is_homepage=true
// @Tags spaces
// @Produce json
// @Param is_homepage query bool false "Only public homepage spaces"
// @Success 200 {array} service.SpaceView
// @Router /spaces [get]
func (h *SpaceHandler) ListSpaces(c *gin.Context) {
	homepageOnly := c.Query("is_homepage") == "true"

	spaces, err := h.svc.List(getUserID(c), homepageOnly)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, spaces)
}

// GetSpace godoc
// @Summary Get a space with its widgets
// @Tags spaces
// @Produce json
// @Param id path string true "Space ID"
// @Success 200 {object} service.SpaceView
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /spaces/{id} [get]
func (h *SpaceHandler) GetSpace(c *gin.Context) {
	space, err := h.svc.Get(c.Param("id"), getUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, space)
}

// CreateSpace godoc
// @Summary Create a space
// @Tags spaces
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param space body service.CreateSpaceRequest true "New space"
// @Success 201 {object} service.SpaceView
// @Failure 400 {object} ErrorResponse
// @Router /spaces [post]
func (h *SpaceHandler) CreateSpace(c *gin.Context) {
	var req service.CreateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	space, err := h.svc.Create(req, getUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, space)
}

// UpdateSpace godoc
// @Summary Update a space
// @Tags spaces
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Space ID"
// @Param space body service.UpdateSpaceRequest true "Fields to change"
// @Success 200 {object} service.SpaceView
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /spaces/{id} [patch]
func (h *SpaceHandler) UpdateSpace(c *gin.Context) {
	var req service.UpdateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	space, err := h.svc.Update(c.Param("id"), req, getUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, space)
}

// DeleteSpace godoc
// @Summary Delete a space and everything on it
// @Tags spaces
// @Security BearerAuth
// @Param id path string true "Space ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /spaces/{id} [delete]
func (h *SpaceHandler) DeleteSpace(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id"), getUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CloneSpace godoc
// @Summary Clone a space and its widgets
// @Tags spaces
// @Security BearerAuth
// @Produce json
// @Param id path string true "Space ID"
// @Success 201 {object} service.SpaceView
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /spaces/{id}/clone [post]
func (h *SpaceHandler) CloneSpace(c *gin.Context) {
	space, err := h.svc.Clone(c.Param("id"), getUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, space)
}

// ToggleBookmark godoc
// @Summary Toggle the caller's bookmark on a space
// @Tags spaces
// @Security BearerAuth
// @Produce json
// @Param id path string true "Space ID"
// @Success 200 {object} service.SpaceView
// @Failure 404 {object} ErrorResponse
// @Router /spaces/{id}/toggle-bookmark [post]
func (h *SpaceHandler) ToggleBookmark(c *gin.Context) {
	space, err := h.svc.ToggleBookmark(c.Param("id"), getUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, space)
}

// ListBookmarkedSpaces godoc
// @Summary List the caller's bookmarked spaces
// @Tags spaces
// @Security BearerAuth
// @Produce json
// @Success 200 {array} service.SpaceView
// @Router /spaces/bookmarked [get]
func (h *SpaceHandler) ListBookmarkedSpaces(c *gin.Context) {
	spaces, err := h.svc.Bookmarked(getUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, spaces)
}
