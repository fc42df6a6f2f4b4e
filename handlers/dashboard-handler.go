package handlers

import (
	"net/http"

	"github.com/Devanshi-cloud/ias-management/models"
	"github.com/Devanshi-cloud/ias-management/services"
)

type DashboardHandler struct {
	service *services.DashboardService
}

func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) GetDashboardData(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, models.RoleAdmin); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}

	data, err := h.service.AdminDashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

func (h *DashboardHandler) GetDepartmentDashboardData(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, models.RoleVP, models.RoleHead); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	data, err := h.service.DepartmentDashboard(r.Context(), identity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

func (h *DashboardHandler) GetUserDashboardData(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	data, err := h.service.MemberDashboard(r.Context(), identity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}
