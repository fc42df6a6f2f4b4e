package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Devanshi-cloud/ias-management/logging"
	"github.com/Devanshi-cloud/ias-management/middleware"
	"github.com/Devanshi-cloud/ias-management/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func identityFromRequest(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
	}
	return identity, ok
}

func checkRole(r *http.Request, allowedRoles ...models.Role) error {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return fmt.Errorf("caller identity is missing from the request")
	}
	for _, role := range allowedRoles {
		if role == identity.Role {
			return nil
		}
	}
	return fmt.Errorf("access forbidden: user does not have the required role")
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

type messageResponse struct {
	Message string `json:"message"`
}

// writeServiceError maps the service error taxonomy onto response codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "Not found"})
	case errors.Is(err, models.ErrForbidden):
		writeJSON(w, http.StatusForbidden, messageResponse{Message: "Not authorized"})
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: validationErr.Message})
	default:
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %s %s failed: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Server error"})
	}
}

func parseObjectID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, models.NewValidationError("invalid id format: %s", raw)
	}
	return id, nil
}

func parseObjectIDs(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, value := range raw {
		id, err := primitive.ObjectIDFromHex(value)
		if err != nil {
			return nil, models.NewValidationError("assignedTo must be an array of user IDs")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
