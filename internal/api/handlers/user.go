package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homely-dev/homely/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary Create an account
// @Tags users
// @Accept json
// @Produce json
// @Param account body registerRequest true "New account"
// @Success 201 {object} service.UserView
// @Failure 400 {object} ErrorResponse
// @Router /users [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.svc.Create(req.Username, req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	view, err := h.svc.Me(user.UID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Me godoc
// @Summary Get the caller's profile with their spaces
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} service.UserView
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	view, err := h.svc.Me(getUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateMe godoc
// @Summary Update the caller's profile
// @Description Changing default_space requires owning the target space
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param profile body service.UpdateUserRequest true "Fields to change"
// @Success 200 {object} service.UserView
// @Failure 400 {object} ErrorResponse
// @Router /users/me [patch]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	view, err := h.svc.UpdateMe(getUserID(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
