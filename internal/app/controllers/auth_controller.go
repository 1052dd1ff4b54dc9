// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emskillz/instructpoint/internal/app/models/dto"
	"github.com/emskillz/instructpoint/internal/app/services"
	"github.com/emskillz/instructpoint/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Register handles instructor account registration
// @Summary Register a new instructor account
// @Description Creates a new instructor account. The account cannot sign in until an administrator approves it.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration information"
// @Success 201 {object} dto.UserResponse "Account created, pending approval"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Email or instructor ID already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	user, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// Login handles user authentication
// @Summary Authenticate a user
// @Description Verifies credentials and returns a JWT token pair. Unapproved and disabled accounts are rejected.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Authentication successful"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Account disabled or awaiting approval"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	user, tokens, err := c.authService.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AuthResponse{
		Token: *tokens,
		User:  dto.ToUserResponse(user),
	})
}

// RefreshToken exchanges a refresh token for a new token pair
// @Summary Refresh an access token
// @Description Exchanges a valid refresh token for a new token pair. The used refresh token is revoked.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.AuthResponse "New token pair"
// @Failure 401 {object} dto.ErrorResponse "Invalid, expired or revoked refresh token"
// @Router /auth/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	user, tokens, err := c.authService.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AuthResponse{
		Token: *tokens,
		User:  dto.ToUserResponse(user),
	})
}

// Logout revokes the user's refresh tokens
// @Summary Log out
// @Description Revokes every refresh token issued to the authenticated user.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse "Logged out"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	userID := ctx.GetString("userID")
	if err := c.authService.Logout(ctx.Request.Context(), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Logged out successfully"})
}

// GetProfile returns the authenticated user's profile
// @Summary Get own profile
// @Description Returns the account details of the authenticated user.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse "Profile"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	user, err := c.authService.GetProfile(ctx.Request.Context(), ctx.GetString("userID"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// UpdateProfile updates the authenticated user's profile
// @Summary Update own profile
// @Description Updates the name and phone number of the authenticated user.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.UserResponse "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/profile [put]
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	user, err := c.authService.UpdateProfile(ctx.Request.Context(), ctx.GetString("userID"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToUserResponse(user))
}
