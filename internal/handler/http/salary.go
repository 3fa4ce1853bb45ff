package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/salary-engine/internal/domain/salary"
	"github.com/cmlabs-hris/salary-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/salary-engine/internal/handler/http/response"
)

type SalaryHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	GetItems(w http.ResponseWriter, r *http.Request)

	// Lifecycle
	Calculate(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Pay(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Reopen(w http.ResponseWriter, r *http.Request)
}

type salaryHandlerImpl struct {
	salaryService salary.SalaryService
}

func NewSalaryHandler(salaryService salary.SalaryService) SalaryHandler {
	return &salaryHandlerImpl{salaryService: salaryService}
}

func (h *salaryHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req salary.CreateSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.salaryService.CreateSalary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary created", result)
}

func (h *salaryHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, salary.ErrSalaryNotFound)
	if !ok {
		return
	}

	result, err := h.salaryService.GetSalary(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := salary.SalaryFilter{
		Period:     queryString(r, "period"),
		Status:     queryString(r, "status"),
		EmployeeID: queryString(r, "employee_id"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
		SortBy:     r.URL.Query().Get("sort_by"),
		SortOrder:  r.URL.Query().Get("sort_order"),
	}

	result, err := h.salaryService.ListSalaries(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

func (h *salaryHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req salary.UpdateSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	id, ok := idParam(w, r, salary.ErrSalaryNotFound)
	if !ok {
		return
	}
	req.ID = id

	result, err := h.salaryService.UpdateSalary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary updated", result)
}

func (h *salaryHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, salary.ErrSalaryNotFound)
	if !ok {
		return
	}

	if err := h.salaryService.DeleteSalary(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary deleted", nil)
}

func (h *salaryHandlerImpl) GetItems(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, salary.ErrSalaryNotFound)
	if !ok {
		return
	}

	result, err := h.salaryService.GetSalaryItems(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, salary.ErrSalaryNotFound)
	if !ok {
		return
	}

	result, err := h.salaryService.CalculateSalary(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary calculated", result)
}

func (h *salaryHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	var req salary.ApproveSalaryRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, ok := idParam(w, r, salary.ErrSalaryNotFound)
	if !ok {
		return
	}

	result, err := h.salaryService.ApproveSalary(r.Context(), id, userID, req.Notes)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary approved", result)
}

func (h *salaryHandlerImpl) Pay(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, ok := idParam(w, r, salary.ErrSalaryNotFound)
	if !ok {
		return
	}

	result, err := h.salaryService.PaySalary(r.Context(), id, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary marked as paid", result)
}

func (h *salaryHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	var req salary.CancelSalaryRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	id, ok := idParam(w, r, salary.ErrSalaryNotFound)
	if !ok {
		return
	}

	result, err := h.salaryService.CancelSalary(r.Context(), id, req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary cancelled", result)
}

func (h *salaryHandlerImpl) Reopen(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, salary.ErrSalaryNotFound)
	if !ok {
		return
	}

	result, err := h.salaryService.ReopenSalary(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary reopened", result)
}
