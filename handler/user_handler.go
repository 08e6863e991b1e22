package handler

import (
	"encoding/json"
	"go-auth-api/common"
	"go-auth-api/model"
	"go-auth-api/service"
	"net/http"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a user in the SQL identity backend
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body model.RegisterRequest true "New user"
// @Success      200  {object}  model.Principal
// @Failure      409  {object}  common.AppError
// @Router       /api/user/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	// Registration writes to the users table; with the directory backend
	// active there is nothing to write to.
	if h.userService == nil {
		return common.NewAppError(http.StatusNotImplemented, "Registration is not available for this identity backend", nil)
	}

	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	principal, err := h.userService.RegisterUser(r.Context(), req.Email, req.Password)
	if err != nil {
		return mapServiceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]*model.Principal{"user": principal})
	return nil
}
