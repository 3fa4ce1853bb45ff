package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/salary-engine/internal/domain/ratesetting"
	"github.com/cmlabs-hris/salary-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type RateSettingHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Upsert(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type rateSettingHandlerImpl struct {
	rateSettingService ratesetting.RateSettingService
}

func NewRateSettingHandler(rateSettingService ratesetting.RateSettingService) RateSettingHandler {
	return &rateSettingHandlerImpl{rateSettingService: rateSettingService}
}

func (h *rateSettingHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.rateSettingService.ListSettings(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *rateSettingHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.rateSettingService.GetSetting(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *rateSettingHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	var req ratesetting.UpsertRateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.Key = chi.URLParam(r, "key")

	result, err := h.rateSettingService.UpsertSetting(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Rate setting saved", result)
}

func (h *rateSettingHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.rateSettingService.DeleteSetting(r.Context(), chi.URLParam(r, "key")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Rate setting reset to default", nil)
}
