package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Devanshi-cloud/ias-management/models"
	"github.com/Devanshi-cloud/ias-management/services"
	"github.com/gorilla/mux"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// GetTasks lists visible tasks, optionally narrowed by the status query
// parameter, together with the scope-wide status summary.
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	status := models.TaskStatus(r.URL.Query().Get("status"))
	result, err := h.service.GetTasks(r.Context(), identity, status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	taskID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	task, err := h.service.GetTaskByID(r.Context(), identity, taskID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

type createTaskRequest struct {
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Priority      string            `json:"priority"`
	DueDate       time.Time         `json:"dueDate"`
	AssignedTo    []string          `json:"assignedTo"`
	Attachments   []string          `json:"attachments"`
	TodoChecklist []models.TodoItem `json:"todoChecklist"`
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, models.RoleAdmin, models.RoleVP, models.RoleHead); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	assignedTo, err := parseObjectIDs(req.AssignedTo)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	task, err := h.service.CreateTask(r.Context(), identity, services.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      models.TaskPriority(req.Priority),
		DueDate:       req.DueDate,
		AssignedTo:    assignedTo,
		Attachments:   req.Attachments,
		TodoChecklist: req.TodoChecklist,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

type updateTaskRequest struct {
	Title         *string            `json:"title"`
	Description   *string            `json:"description"`
	Priority      *string            `json:"priority"`
	DueDate       *time.Time         `json:"dueDate"`
	AssignedTo    *[]string          `json:"assignedTo"`
	Attachments   *[]string          `json:"attachments"`
	TodoChecklist *[]models.TodoItem `json:"todoChecklist"`
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	taskID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	input := services.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		DueDate:       req.DueDate,
		Attachments:   req.Attachments,
		TodoChecklist: req.TodoChecklist,
	}
	if req.Priority != nil {
		priority := models.TaskPriority(*req.Priority)
		input.Priority = &priority
	}
	if req.AssignedTo != nil {
		ids, err := parseObjectIDs(*req.AssignedTo)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		input.AssignedTo = &ids
	}

	task, err := h.service.UpdateTask(r.Context(), identity, taskID, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, models.RoleAdmin, models.RoleVP, models.RoleHead); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	taskID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.service.DeleteTask(r.Context(), identity, taskID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Task deleted successfully"})
}

func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	taskID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req struct {
		Status models.TaskStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, err := h.service.UpdateTaskStatus(r.Context(), identity, taskID, req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTaskChecklist(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	taskID, err := parseObjectID(mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req struct {
		TodoChecklist []models.TodoItem `json:"todoChecklist"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, err := h.service.UpdateTaskChecklist(r.Context(), identity, taskID, req.TodoChecklist)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}
