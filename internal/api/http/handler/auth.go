package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studydeck/studydeck-server/internal/api/http/httpctx"
	"github.com/studydeck/studydeck-server/internal/apierrors"
	"github.com/studydeck/studydeck-server/internal/logger"
	"github.com/studydeck/studydeck-server/internal/model"
	"github.com/studydeck/studydeck-server/internal/service"
)

// Auth handles registration, login, token refresh, and profile endpoints.
type Auth struct {
	service *service.Auth
	logger  *logger.Logger
}

// NewAuth creates a new Auth handler instance.
func NewAuth(service *service.Auth, logger *logger.Logger) *Auth {
	return &Auth{service: service, logger: logger}
}

type registerRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	Name       string `json:"name" binding:"required"`
	University string `json:"university" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type updateProfileRequest struct {
	Name       *string `json:"name"`
	University *string `json:"university"`
	Password   *string `json:"password"`
}

func sessionResponse(session model.Session) gin.H {
	return gin.H{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"token_type":    session.TokenType,
		"user": gin.H{
			"email":      session.User.Email,
			"name":       session.User.Name,
			"university": session.User.University,
		},
	}
}

func (h *Auth) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, apierrors.NewErrBadRequest(err.Error()))
		return
	}

	session, err := h.service.Register(c.Request.Context(), model.RegisterParams{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		University: req.University,
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, sessionResponse(session))
}

func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, apierrors.NewErrBadRequest(err.Error()))
		return
	}

	session, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, sessionResponse(session))
}

func (h *Auth) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, apierrors.NewErrBadRequest(err.Error()))
		return
	}

	session, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"token_type":    session.TokenType,
	})
}

func (h *Auth) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, apierrors.NewErrBadRequest(err.Error()))
		return
	}

	if err := h.service.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Auth) Profile(c *gin.Context) {
	user, ok := httpctx.GetUser(c)
	if !ok {
		handleError(c, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	profile, err := h.service.Profile(c.Request.Context(), user.ID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Auth) UpdateProfile(c *gin.Context) {
	user, ok := httpctx.GetUser(c)
	if !ok {
		handleError(c, h.logger, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, apierrors.NewErrBadRequest(err.Error()))
		return
	}

	updated, err := h.service.UpdateProfile(c.Request.Context(), user.ID, model.UpdateProfileParams{
		Name:       req.Name,
		University: req.University,
		Password:   req.Password,
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user": gin.H{
			"email":      updated.Email,
			"name":       updated.Name,
			"university": updated.University,
		},
	})
}
