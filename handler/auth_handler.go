package handler

import (
	"encoding/json"
	"errors"
	"go-auth-api/common"
	"go-auth-api/model"
	"go-auth-api/service"
	"net/http"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @Summary      Authenticate a user
// @Description  Validates the credential and returns an access/refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.LoginRequest true "Login credentials"
// @Success      200  {object}  model.TokenPair
// @Failure      401  {object}  common.AppError
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	pair, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return mapServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(pair)
	return nil
}

// Refresh godoc
// @Summary      Rotate a refresh token
// @Description  Trades a single-use refresh token for a new access/refresh pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.RefreshRequest true "Refresh token"
// @Success      200  {object}  model.TokenPair
// @Failure      400  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid request body", err)
	}

	pair, err := h.authService.Refresh(r.Context(), req.Refresh)
	if err != nil {
		return mapServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(pair)
	return nil
}

// Check godoc
// @Summary      Check the current session
// @Description  Returns the principal behind the presented access token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.Principal
// @Failure      401  {object}  common.AppError
// @Router       /api/auth/check [get]
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) *common.AppError {
	principal, ok := r.Context().Value(PrincipalKey).(*model.Principal)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "No authenticated principal in context", nil)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]*model.Principal{"user": principal})
	return nil
}

// mapServiceError converts service sentinels to the HTTP error envelope.
// User-facing messages stay generic; operational causes travel in the wrapped
// error, which AppError.Send logs but never serializes.
func mapServiceError(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrInvalidCredential):
		return common.NewAppError(http.StatusUnauthorized, "Invalid email or password", err)
	case errors.Is(err, service.ErrEmptyRefreshToken):
		return common.NewAppError(http.StatusBadRequest, "Refresh token is required", err)
	case errors.Is(err, service.ErrInvalidRefreshToken):
		return common.NewAppError(http.StatusForbidden, "Invalid refresh token", err)
	case errors.Is(err, service.ErrRefreshAlreadyUsed):
		return common.NewAppError(http.StatusForbidden, "The refresh token has already been used", err)
	case errors.Is(err, service.ErrPrincipalGone):
		return common.NewAppError(http.StatusForbidden, "The user belonging to this token no longer exists", err)
	case errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenMalformed),
		errors.Is(err, service.ErrTokenSignature):
		return common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", err)
	case errors.Is(err, service.ErrEmailTaken):
		return common.NewAppError(http.StatusConflict, "User with that email already exists", err)
	case errors.Is(err, service.ErrSigningKey):
		return common.NewAppError(http.StatusBadGateway, "Could not issue tokens", err)
	case errors.Is(err, service.ErrLedgerUnavailable),
		errors.Is(err, service.ErrResolverUnavailable):
		return common.NewAppError(http.StatusServiceUnavailable, "Service temporarily unavailable", err)
	default:
		return common.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}
}
