package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homely-dev/homely/internal/auth"
	"github.com/homely-dev/homely/internal/service"
)

type AuthHandler struct {
	authenticator *auth.Authenticator
	google        auth.GoogleVerifier
	users         *service.UserService
}

func NewAuthHandler(authenticator *auth.Authenticator, google auth.GoogleVerifier, users *service.UserService) *AuthHandler {
	return &AuthHandler{authenticator: authenticator, google: google, users: users}
}

type tokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type loginResponse struct {
	Access  string            `json:"access"`
	Refresh string            `json:"refresh"`
	User    *service.UserView `json:"user"`
}

// Login godoc
// @Summary Password login
// @Description Authenticate and return an access/refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body auth.LoginRequest true "Login credentials"
// @Success 200 {object} loginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, pair, err := h.authenticator.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	view, err := h.users.Me(user.UID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{Access: pair.Access, Refresh: pair.Refresh, User: view})
}

// GoogleLogin godoc
// @Summary Google sign-in
// @Description Convert a verified Google ID token into a local token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param token body tokenRequest true "Google ID token"
// @Success 200 {object} loginResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/google [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.google == nil {
		c.JSON(http.StatusNotImplemented, ErrorResponse{Error: "Google sign-in is not configured"})
		return
	}

	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	claims, err := h.google.Verify(c.Request.Context(), req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid Google token"})
		return
	}

	user, err := auth.FindOrCreateGoogleUser(h.users.DB(), claims)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	if err := h.users.EnsureDefaultSpace(user); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	pair, err := h.authenticator.IssuePair(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	view, err := h.users.Me(user.UID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{Access: pair.Access, Refresh: pair.Refresh, User: view})
}

// VerifyToken godoc
// @Summary Verify an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param token body tokenRequest true "Access token"
// @Success 200 {object} map[string]string
// @Failure 401 {object} ErrorResponse
// @Router /auth/token/verify [post]
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if _, err := h.authenticator.VerifyAccess(req.Token); err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "token is invalid or expired",
			Code:  auth.TokenNotValidCode,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// RefreshToken godoc
// @Summary Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body refreshRequest true "Refresh token"
// @Success 200 {object} map[string]string
// @Failure 401 {object} ErrorResponse
// @Router /auth/token/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	access, err := h.authenticator.Refresh(req.Refresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "token is invalid or expired",
			Code:  auth.TokenNotValidCode,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

// Logout godoc
// @Summary Log out
// @Description Tokens are stateless; logout acknowledges so clients can drop them
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{})
}
