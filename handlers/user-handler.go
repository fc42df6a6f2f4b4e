package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Devanshi-cloud/ias-management/models"
	"github.com/Devanshi-cloud/ias-management/services"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	users, err := h.service.GetUsers(r.Context(), identity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	userID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := h.service.GetUserByID(r.Context(), identity, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type updateUserRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Password        *string `json:"password"`
	ProfileImageURL *string `json:"profileImageUrl"`
	Role            *string `json:"role"`
	Department      *string `json:"department"`
	Supervisor      *string `json:"supervisor"`
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	userID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	input := services.UpdateUserInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ProfileImageURL: req.ProfileImageURL,
		Department:      req.Department,
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		input.Role = &role
	}
	if req.Supervisor != nil {
		supervisor, err := primitive.ObjectIDFromHex(*req.Supervisor)
		if err != nil {
			writeServiceError(w, r, models.NewValidationError("invalid supervisor id format"))
			return
		}
		input.Supervisor = &supervisor
	}

	user, err := h.service.UpdateUser(r.Context(), identity, userID, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, models.RoleAdmin, models.RoleVP, models.RoleHead); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	userID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.service.DeleteUser(r.Context(), identity, userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "User removed"})
}
