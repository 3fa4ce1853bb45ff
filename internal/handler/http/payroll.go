package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/salary-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/salary-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/salary-engine/internal/handler/http/response"
)

type PayrollHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListSalaries(w http.ResponseWriter, r *http.Request)

	// Lifecycle
	Calculate(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Pay(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func (h *payrollHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreatePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CreatePayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll created", result)
}

func (h *payrollHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, payroll.ErrPayrollNotFound)
	if !ok {
		return
	}

	result, err := h.payrollService.GetPayroll(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := payroll.PayrollFilter{
		Period: queryString(r, "period"),
		Status: queryString(r, "status"),
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 20),
	}

	result, err := h.payrollService.ListPayrolls(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

func (h *payrollHandlerImpl) ListSalaries(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, payroll.ErrPayrollNotFound)
	if !ok {
		return
	}

	result, err := h.payrollService.ListPayrollSalaries(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, payroll.ErrPayrollNotFound)
	if !ok {
		return
	}

	result, err := h.payrollService.CalculatePayroll(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll calculated", result)
}

func (h *payrollHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	var req payroll.ApprovePayrollRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, ok := idParam(w, r, payroll.ErrPayrollNotFound)
	if !ok {
		return
	}

	result, err := h.payrollService.ApprovePayroll(r.Context(), id, userID, req.Notes)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll approved", result)
}

func (h *payrollHandlerImpl) Pay(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, ok := idParam(w, r, payroll.ErrPayrollNotFound)
	if !ok {
		return
	}

	result, err := h.payrollService.PayPayroll(r.Context(), id, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll marked as paid", result)
}

func (h *payrollHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	var req payroll.CancelPayrollRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	id, ok := idParam(w, r, payroll.ErrPayrollNotFound)
	if !ok {
		return
	}

	result, err := h.payrollService.CancelPayroll(r.Context(), id, req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll cancelled", result)
}
