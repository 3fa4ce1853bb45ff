package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/salary-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/salary-engine/internal/domain/salary"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type recordingSalaryService struct {
	salary.SalaryService
	ids []string
}

func (s *recordingSalaryService) GetSalary(_ context.Context, id string) (salary.SalaryResponse, error) {
	s.ids = append(s.ids, id)
	return salary.SalaryResponse{ID: id}, nil
}

type recordingPayrollService struct {
	payroll.PayrollService
	ids []string
}

func (s *recordingPayrollService) CalculatePayroll(_ context.Context, id string) (payroll.PayrollResponse, error) {
	s.ids = append(s.ids, id)
	return payroll.PayrollResponse{ID: id}, nil
}

func TestIDParam_RejectsMalformedIDs(t *testing.T) {
	salaries := &recordingSalaryService{}
	payrolls := &recordingPayrollService{}
	r := chi.NewRouter()
	r.Get("/salaries/{id}", NewSalaryHandler(salaries).Get)
	r.Post("/payrolls/{id}/calculate", NewPayrollHandler(payrolls).Calculate)

	cases := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"salary word", http.MethodGet, "/salaries/abc", http.StatusNotFound},
		{"salary numeric", http.MethodGet, "/salaries/42", http.StatusNotFound},
		{"payroll truncated", http.MethodPost, "/payrolls/0192a4c2-0000-7000-8000/calculate", http.StatusNotFound},
		{"salary uuid", http.MethodGet, "/salaries/0192a4c2-0000-7000-8000-000000000001", http.StatusOK},
		{"payroll uuid", http.MethodPost, "/payrolls/0192a4c2-0000-7000-8000-000000000002/calculate", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusNotFound {
				assert.Contains(t, rec.Body.String(), "NOT_FOUND")
			}
		})
	}

	assert.Equal(t, []string{"0192a4c2-0000-7000-8000-000000000001"}, salaries.ids)
	assert.Equal(t, []string{"0192a4c2-0000-7000-8000-000000000002"}, payrolls.ids)
}
