package handler

import (
	"net/http"

	"campuscoin-ledger/internal/adapter/http/dto"
	"campuscoin-ledger/internal/adapter/http/middleware"
	"campuscoin-ledger/internal/core/domain"
	"campuscoin-ledger/internal/core/ports"
	"campuscoin-ledger/pkg/apperror"
	"campuscoin-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles token issuance.
type AuthHandler struct {
	authSvc ports.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc ports.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// IssueToken handles POST /api/v1/auth/token.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	token, expiry, err := h.authSvc.IssueToken(c.Request.Context(), req.Address, req.APISecret)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TokenResponse{
		Token:  token,
		Expiry: expiry.Unix(),
	})
}

// callerAddress extracts the authenticated ledger address set by JWTAuth.
func callerAddress(c *gin.Context) (domain.Address, bool) {
	v, exists := c.Get(middleware.CtxCallerAddress)
	if !exists {
		return "", false
	}
	addr, ok := v.(domain.Address)
	return addr, ok
}

// bodyAddress parses and normalizes an address taken from a request body,
// writing the error response itself on failure.
func bodyAddress(c *gin.Context, raw string) (domain.Address, bool) {
	addr, err := domain.ParseAddress(raw)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAddress(err))
		return "", false
	}
	return addr, true
}

// pathAddress parses an address path parameter.
func pathAddress(c *gin.Context, param string) (domain.Address, error) {
	addr, err := domain.ParseAddress(c.Param(param))
	if err != nil {
		return "", apperror.ErrInvalidAddress(err)
	}
	return addr, nil
}

// HealthCheck handles GET /health — deep health check verifying all dependencies.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
