package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"adpulse-server/internal/apierrors"
	"adpulse-server/internal/auth/processor"
	"adpulse-server/internal/clients/composio"
	"adpulse-server/internal/observability"

	"github.com/gin-gonic/gin"
)

// CompanyIDKey is the Gin context key holding the authenticated company id.
const CompanyIDKey = "Company-ID"

// VendorAuthenticator initiates third-party OAuth connections.
type VendorAuthenticator interface {
	InitiateGmailConnection(ctx context.Context, apiKey string) (string, error)
}

type Handler struct {
	authProcessor processor.AuthProcessor
	composio      VendorAuthenticator
	logger        *observability.Logger
}

func New(authProcessor processor.AuthProcessor, composio VendorAuthenticator, logger *observability.Logger) Handler {
	return Handler{
		authProcessor: authProcessor,
		composio:      composio,
		logger:        logger,
	}
}

type SignupRequest struct {
	CompanyEmail string `json:"companyEmail" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	CompanyName  string `json:"companyName" binding:"required"`
	Industry     string `json:"industry" binding:"required"`
	Description  string `json:"description"`
	Website      string `json:"website"`
}

type LoginRequest struct {
	CompanyEmail string `json:"companyEmail" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
}

type VendorAuthRequest struct {
	APIKey string `json:"apiKey"`
}

func (h *Handler) HandleSignup(c *gin.Context) {
	var req SignupRequest
	ctx := c.Request.Context()
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, err.Error())
		return
	}

	company, err := h.authProcessor.Signup(ctx, processor.SignupParams{
		CompanyEmail: req.CompanyEmail,
		Password:     req.Password,
		CompanyName:  req.CompanyName,
		Industry:     req.Industry,
		Description:  req.Description,
		Website:      req.Website,
	})
	if err != nil {
		if errors.Is(err, processor.ErrEmailAlreadyExists) {
			apierrors.BadRequest(c, apierrors.CodeInvalidInput, "Email already exists")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *Handler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	ctx := c.Request.Context()
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, err.Error())
		return
	}

	token, err := h.authProcessor.Login(ctx, req.CompanyEmail, req.Password)
	if err != nil {
		if errors.Is(err, processor.ErrEmailDoesNotExist) || errors.Is(err, processor.ErrIncorrectPassword) {
			apierrors.Unauthorized(c, apierrors.CodeAuthRequired, "Invalid email or password")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// HandleRefresh returns the company document for a valid bearer token.
func (h *Handler) HandleRefresh(c *gin.Context) {
	ctx := c.Request.Context()
	tokenString, ok := extractBearerToken(c)
	if !ok {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "Authorization header missing or improperly formatted")
		return
	}

	claims, err := h.authProcessor.ValidateJWTToken(ctx, tokenString)
	if err != nil {
		apierrors.Unauthorized(c, apierrors.CodeInvalidToken, err.Error())
		return
	}

	company, err := h.authProcessor.GetCompanyByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, processor.ErrUserNotFound) {
			apierrors.NotFound(c, "User not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Refresh successful", "user": company})
}

// HandleVendorAuthentication initiates the Composio Gmail OAuth flow and
// returns the redirect URL for the caller to open.
func (h *Handler) HandleVendorAuthentication(c *gin.Context) {
	var req VendorAuthRequest
	ctx := c.Request.Context()
	if err := c.ShouldBindJSON(&req); err != nil || req.APIKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "API key is missing"})
		return
	}

	url, err := h.composio.InitiateGmailConnection(ctx, req.APIKey)
	if err != nil {
		if errors.Is(err, composio.ErrVendor) {
			h.logger.Error(ctx, "composio API operation failed", err)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		h.logger.Error(ctx, "vendor authentication failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
}

// HandleJWTMiddleware gates admin routes. Missing or malformed bearer headers
// yield AUTH_REQUIRED, expired tokens TOKEN_EXPIRED, tampered tokens
// INVALID_TOKEN, and anything unexpected AUTH_ERROR.
func (h *Handler) HandleJWTMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	tokenString, ok := extractBearerToken(c)
	if !ok {
		apierrors.Unauthorized(c, apierrors.CodeAuthRequired, "Authentication token is required")
		c.Abort()
		return
	}

	claims, err := h.authProcessor.ValidateJWTToken(ctx, tokenString)
	if err != nil {
		switch {
		case errors.Is(err, processor.ErrExpiredToken):
			apierrors.Unauthorized(c, apierrors.CodeTokenExpired, "Token has expired")
		case errors.Is(err, processor.ErrParseJWTToken), errors.Is(err, processor.ErrInvalidJWTToken):
			apierrors.Forbidden(c, apierrors.CodeInvalidToken, "Token is invalid or malformed")
		default:
			apierrors.AuthFailure(c, err)
		}
		c.Abort()
		return
	}

	c.Set(CompanyIDKey, claims.Subject)
	c.Next()
}

func extractBearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}
