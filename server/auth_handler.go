package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jokeoa/goigaming/auth"
	"github.com/jokeoa/goigaming/domain"
	"github.com/jokeoa/goigaming/user"
)

type AuthHandler struct {
	auth  *auth.Service
	users *user.Service
}

func NewAuthHandler(authSvc *auth.Service, users *user.Service) *AuthHandler {
	return &AuthHandler{auth: authSvc, users: users}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	u, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusCreated, okResponse(u.Profile()))
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	pair, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(pair))
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(pair))
}

func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.users.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(profile))
}

func (h *AuthHandler) Profile(c *gin.Context) {
	profile, err := h.users.GetProfileByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(profile))
}
