package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homely-dev/homely/internal/service"
)

type WidgetHandler struct {
	svc *service.WidgetService
}

func NewWidgetHandler(svc *service.WidgetService) *WidgetHandler {
	return &WidgetHandler{svc: svc}
}

// ListWidgets godoc
// @Summary List the caller's widgets
// @Tags widgets
// @Security BearerAuth
// @Produce json
// @Param space query string false "Filter to one space"
// @Success 200 {array} models.Widget
// @Router /widgets [get]
func (h *WidgetHandler) ListWidgets(c *gin.Context) {
	widgets, err := h.svc.List(getUserID(c), c.Query("space"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, widgets)
}

// CreateWidget godoc
// @Summary Place a widget on a space
// @Tags widgets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param widget body service.CreateWidgetRequest true "New widget"
// @Success 201 {object} models.Widget
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /widgets [post]
func (h *WidgetHandler) CreateWidget(c *gin.Context) {
	var req service.CreateWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	widget, err := h.svc.Create(req, getUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, widget)
}

// GetWidget godoc
// @Summary Get a widget
// @Tags widgets
// @Security BearerAuth
// @Produce json
// @Param id path string true "Widget ID"
// @Success 200 {object} models.Widget
// @Failure 404 {object} ErrorResponse
// @Router /widgets/{id} [get]
func (h *WidgetHandler) GetWidget(c *gin.Context) {
	widget, err := h.svc.Get(c.Param("id"), getUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, widget)
}

// UpdateWidget godoc
// @Summary Update a widget
// @Description Replaces whichever of content, card_style and layout are present
// @Tags widgets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Widget ID"
// @Param widget body service.UpdateWidgetRequest true "Sections to replace"
// @Success 200 {object} models.Widget
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /widgets/{id} [patch]
func (h *WidgetHandler) UpdateWidget(c *gin.Context) {
	var req service.UpdateWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	widget, err := h.svc.Update(c.Param("id"), req, getUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, widget)
}

// DeleteWidget godoc
// @Summary Delete a widget
// @Tags widgets
// @Security BearerAuth
// @Param id path string true "Widget ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /widgets/{id} [delete]
func (h *WidgetHandler) DeleteWidget(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id"), getUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
