package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/salary-engine/internal/domain/component"
	"github.com/cmlabs-hris/salary-engine/internal/handler/http/response"
)

type ComponentHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
}

type componentHandlerImpl struct {
	componentService component.ComponentService
}

func NewComponentHandler(componentService component.ComponentService) ComponentHandler {
	return &componentHandlerImpl{componentService: componentService}
}

func (h *componentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req component.CreateComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.componentService.CreateComponent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary component created", result)
}

func (h *componentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, component.ErrComponentNotFound)
	if !ok {
		return
	}

	result, err := h.componentService.GetComponent(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *componentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"

	result, err := h.componentService.ListComponents(r.Context(), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *componentHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req component.UpdateComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	id, ok := idParam(w, r, component.ErrComponentNotFound)
	if !ok {
		return
	}
	req.ID = id

	result, err := h.componentService.UpdateComponent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary component updated", result)
}

func (h *componentHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, component.ErrComponentNotFound)
	if !ok {
		return
	}

	if err := h.componentService.DeactivateComponent(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary component deactivated", nil)
}
