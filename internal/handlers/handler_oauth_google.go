package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pardisoft/docflow_app/internal/apperrors"
	portssvc "github.com/pardisoft/docflow_app/internal/core/ports/services"
	"github.com/pardisoft/docflow_app/internal/middleware"
)

// GoogleOAuthHandler handles Google OAuth related requests. The frontend runs
// the authorization redirect itself and posts the resulting code here.
type GoogleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	userService        portssvc.UserSvcFacade
	tokenService       portssvc.TokenSvcFacade
}

// NewGoogleOAuthHandler creates a new GoogleOAuthHandler.
func NewGoogleOAuthHandler(
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade,
	userService portssvc.UserSvcFacade,
	tokenService portssvc.TokenSvcFacade,
) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		googleOAuthService: googleOAuthService,
		userService:        userService,
		tokenService:       tokenService,
	}
}

// ExchangeCodeRequest is the JSON body for the /google/exchange-code endpoint.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// ExchangeCodeResponse is the successful response for the /google/exchange-code endpoint.
type ExchangeCodeResponse struct {
	Token string `json:"token"`
}

// LoginURLResponse carries the Google authorization URL and the CSRF state
// the frontend must echo back with the authorization code.
type LoginURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// registerGoogleOAuthRoutes registers the Google OAuth routes.
func registerGoogleOAuthRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	h := NewGoogleOAuthHandler(services.GoogleOAuth, services.User, services.Token)
	googleRoutes := r.Group("/api/v1/auth/google")
	{
		googleRoutes.GET("/login-url", h.GetLoginURL)
		googleRoutes.POST("/exchange-code", h.ExchangeCodeGoogle)
	}
}

// GetLoginURL godoc
// @Summary Get the Google login URL
// @Description Returns the Google authorization URL together with a fresh CSRF state string.
// @Tags oauth
// @Produce json
// @Success 200 {object} LoginURLResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/google/login-url [get]
func (h *GoogleOAuthHandler) GetLoginURL(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	state, err := h.googleOAuthService.GenerateStateString(ctx)
	if err != nil {
		logger.Error("Failed to generate OAuth state string", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to start Google login"})
		return
	}

	c.JSON(http.StatusOK, LoginURLResponse{
		URL:   h.googleOAuthService.GetGoogleLoginURL(ctx, state),
		State: state,
	})
}

// ExchangeCodeGoogle godoc
// @Summary Exchange a Google authorization code for an access token
// @Description Exchanges the authorization code for Google tokens, validates the ID token, creates or retrieves the matching user and returns an application JWT.
// @Tags oauth
// @Accept json
// @Produce json
// @Param code body ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} ExchangeCodeResponse
// @Failure 400 {object} ErrorResponse "Invalid or expired authorization code"
// @Failure 401 {object} ErrorResponse "Google ID token validation failed"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/google/exchange-code [post]
func (h *GoogleOAuthHandler) ExchangeCodeGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		logger.Error("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		if strings.Contains(strings.ToLower(err.Error()), "invalid_grant") || strings.Contains(strings.ToLower(err.Error()), "bad request") {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or expired authorization code"})
			return
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to communicate with Google"})
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.Error("ID token missing from Google's token response")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve ID token from Google"})
		return
	}

	payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		logger.Error("Google ID token validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid Google ID token"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if email == "" || payload.Subject == "" {
		logger.Error("Essential claims missing from Google ID token payload")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Essential user information missing from Google token"})
		return
	}

	user, err := h.userService.CreateOAuthUser(ctx, name, email)
	if err != nil {
		logger.Error("Failed to create or get OAuth user", slog.String("error", err.Error()), slog.String("google_user_id", payload.Subject))
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process user authentication"})
		return
	}

	accessToken, _, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate access token"})
		return
	}

	logger.Info("User authenticated via Google OAuth", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, ExchangeCodeResponse{Token: accessToken})
}
