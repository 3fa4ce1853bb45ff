package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/salary-engine/internal/domain/employee"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/lifecycle"
	"github.com/cmlabs-hris/salary-engine/internal/pkg/metrics"
	"github.com/cmlabs-hris/salary-engine/internal/repository/memory"
	componentService "github.com/cmlabs-hris/salary-engine/internal/service/component"
	payrollService "github.com/cmlabs-hris/salary-engine/internal/service/payroll"
	rateSettingService "github.com/cmlabs-hris/salary-engine/internal/service/ratesetting"
	salaryService "github.com/cmlabs-hris/salary-engine/internal/service/salary"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type apiResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Meta    map[string]interface{} `json:"meta"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type testServer struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func newTestServer(t *testing.T, policy lifecycle.ApprovalPolicy) *testServer {
	t.Helper()

	store := memory.NewStore()
	directory := memory.NewEmployeeDirectory(store)
	base := decimal.RequireFromString("300000")
	directory.Seed(
		employee.Employee{ID: "emp-1", EmployeeCode: "E001", FullName: "Dewi Lestari", EmploymentStatus: employee.EmploymentStatusActive, BaseSalary: &base},
		employee.Employee{ID: "emp-2", EmployeeCode: "E002", FullName: "Budi Santoso", EmploymentStatus: employee.EmploymentStatusResigned},
	)

	m := metrics.New()
	txManager := memory.NewTransactionManager(store)
	salaryRepo := memory.NewSalaryRepository(store)
	componentRepo := memory.NewComponentRepository(store)
	rates := rateSettingService.NewRateSettingService(memory.NewRateSettingRepository(store))

	jwtService := jwt.NewJWTService(handlerTestSecret, "1h")
	handlers := Handlers{
		Component:   NewComponentHandler(componentService.NewComponentService(componentRepo)),
		RateSetting: NewRateSettingHandler(rates),
		Salary: NewSalaryHandler(salaryService.NewSalaryService(
			txManager, salaryRepo, componentRepo, rates, directory, m, policy,
		)),
		Payroll: NewPayrollHandler(payrollService.NewPayrollService(
			txManager, memory.NewPayrollRepository(store), salaryRepo, m, policy,
		)),
	}

	router := NewRouter(RouterConfig{Env: "test", Version: "test"}, jwtService, m, handlers)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	token, _, err := jwtService.GenerateAccessToken("user-1", "hr_admin")
	require.NoError(t, err)

	return &testServer{t: t, server: server, token: token}
}

func (s *testServer) do(method, path string, body interface{}) (int, apiResponse) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.server.Client().Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var out apiResponse
	require.NoError(s.t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func decodeData(t *testing.T, res apiResponse) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(res.Data, &data))
	return data
}

func (s *testServer) seedComponents() {
	s.t.Helper()
	for _, body := range []map[string]interface{}{
		{"name": "Meal Allowance", "code": "meal", "type": "allowance", "calculation_type": "fixed", "default_value": "50000", "is_taxable": true, "is_social_security_liable": true},
		{"name": "Loan Repayment", "code": "LOAN", "type": "deduction", "calculation_type": "fixed", "default_value": "10000"},
	} {
		status, res := s.do(http.MethodPost, "/api/v1/components", body)
		require.Equal(s.t, http.StatusCreated, status, res.Error)
	}
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t, lifecycle.ApprovalPermissive)
	s.token = ""

	status, res := s.do(http.MethodGet, "/api/v1/salaries", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, res.Success)
	require.NotNil(t, res.Error)
	assert.Equal(t, "UNAUTHORIZED", res.Error.Code)
}

func TestRouter_SalaryLifecycle(t *testing.T) {
	s := newTestServer(t, lifecycle.ApprovalStrict)
	s.seedComponents()

	status, res := s.do(http.MethodPost, "/api/v1/salaries", map[string]interface{}{
		"employee_id": "emp-1",
		"period":      "2025/03",
	})
	require.Equal(t, http.StatusCreated, status, res.Error)
	created := decodeData(t, res)
	id := created["id"].(string)
	assert.Equal(t, "2025-03", created["period"])
	assert.Equal(t, "draft", created["status"])

	// strict policy refuses approving an uncalculated salary
	status, res = s.do(http.MethodPost, "/api/v1/salaries/"+id+"/approve", nil)
	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, res.Error)
	assert.Equal(t, "draft", res.Error.Details["status"])

	status, res = s.do(http.MethodPost, "/api/v1/salaries/"+id+"/calculate", nil)
	require.Equal(t, http.StatusOK, status, res.Error)
	calculated := decodeData(t, res)
	assert.Equal(t, "calculated", calculated["status"])
	assert.Equal(t, "340000", calculated["gross_salary"])
	assert.Equal(t, "322500", calculated["net_salary"])

	status, res = s.do(http.MethodPost, "/api/v1/salaries/"+id+"/calculate", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "calculated", res.Error.Details["status"])

	status, res = s.do(http.MethodGet, "/api/v1/salaries/"+id+"/items", nil)
	require.Equal(t, http.StatusOK, status)
	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(res.Data, &items))
	require.Len(t, items, 2)
	assert.Equal(t, "MEAL", items[0]["component_code"])

	status, res = s.do(http.MethodPost, "/api/v1/salaries/"+id+"/approve", map[string]string{"notes": "ok"})
	require.Equal(t, http.StatusOK, status, res.Error)
	assert.Equal(t, "user-1", decodeData(t, res)["approved_by"])

	status, res = s.do(http.MethodPost, "/api/v1/salaries/"+id+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "approved", res.Error.Details["status"])

	status, res = s.do(http.MethodPost, "/api/v1/salaries/"+id+"/pay", nil)
	require.Equal(t, http.StatusOK, status, res.Error)
	paid := decodeData(t, res)
	assert.Equal(t, "paid", paid["status"])
	assert.Equal(t, "user-1", paid["paid_by"])

	status, res = s.do(http.MethodDelete, "/api/v1/salaries/"+id, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, res = s.do(http.MethodGet, "/api/v1/salaries?period=2025-03", nil)
	require.Equal(t, http.StatusOK, status)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(res.Data, &list))
	assert.Len(t, list, 1)
	assert.EqualValues(t, 1, res.Meta["total_items"])
}

func TestRouter_SalaryErrors(t *testing.T) {
	s := newTestServer(t, lifecycle.ApprovalPermissive)

	status, res := s.do(http.MethodPost, "/api/v1/salaries", map[string]interface{}{
		"employee_id": "emp-2",
		"period":      "2025-03",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "EMPLOYEE_INACTIVE", res.Error.Code)

	status, res = s.do(http.MethodPost, "/api/v1/salaries", map[string]interface{}{
		"employee_id": "emp-1",
		"period":      "March",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
	assert.Contains(t, res.Error.Details, "period")

	status, res = s.do(http.MethodPost, "/api/v1/salaries", map[string]interface{}{
		"employee_id": "emp-404",
		"period":      "2025-03",
	})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(http.MethodGet, "/api/v1/salaries/0192a4c2-0000-7000-8000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, res = s.do(http.MethodGet, "/api/v1/salaries/abc", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", res.Error.Code)

	status, _ = s.do(http.MethodPost, "/api/v1/salaries", map[string]interface{}{"employee_id": "emp-1", "period": "2025-03"})
	require.Equal(t, http.StatusCreated, status)
	status, res = s.do(http.MethodPost, "/api/v1/salaries", map[string]interface{}{"employee_id": "emp-1", "period": "2025-03"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", res.Error.Code)
}

func TestRouter_PayrollAggregation(t *testing.T) {
	s := newTestServer(t, lifecycle.ApprovalPermissive)
	s.seedComponents()

	status, res := s.do(http.MethodPost, "/api/v1/salaries", map[string]interface{}{"employee_id": "emp-1", "period": "2025-03"})
	require.Equal(t, http.StatusCreated, status, res.Error)
	salaryID := decodeData(t, res)["id"].(string)
	status, _ = s.do(http.MethodPost, "/api/v1/salaries/"+salaryID+"/calculate", nil)
	require.Equal(t, http.StatusOK, status)

	status, res = s.do(http.MethodPost, "/api/v1/payrolls", map[string]interface{}{"period": "2025-03"})
	require.Equal(t, http.StatusCreated, status, res.Error)
	payrollID := decodeData(t, res)["id"].(string)

	status, res = s.do(http.MethodPost, "/api/v1/payrolls/"+payrollID+"/calculate", nil)
	require.Equal(t, http.StatusOK, status, res.Error)
	calculated := decodeData(t, res)
	assert.Equal(t, "calculated", calculated["status"])
	assert.EqualValues(t, 1, calculated["total_employees"])
	assert.Equal(t, "322500", calculated["total_net_salary"])

	status, res = s.do(http.MethodGet, "/api/v1/payrolls/"+payrollID+"/salaries", nil)
	require.Equal(t, http.StatusOK, status)
	var salaries []map[string]interface{}
	require.NoError(t, json.Unmarshal(res.Data, &salaries))
	assert.Len(t, salaries, 1)

	status, res = s.do(http.MethodPost, "/api/v1/payrolls", map[string]interface{}{"period": "2025-04"})
	require.Equal(t, http.StatusCreated, status)
	emptyID := decodeData(t, res)["id"].(string)

	status, res = s.do(http.MethodPost, "/api/v1/payrolls/"+emptyID+"/calculate", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "NOTHING_TO_CALCULATE", res.Error.Code)

	status, res = s.do(http.MethodPost, "/api/v1/payrolls/"+payrollID+"/approve", nil)
	require.Equal(t, http.StatusOK, status, res.Error)
	status, res = s.do(http.MethodPost, "/api/v1/payrolls/"+payrollID+"/pay", nil)
	require.Equal(t, http.StatusOK, status, res.Error)
	assert.Equal(t, "paid", decodeData(t, res)["status"])

	status, res = s.do(http.MethodGet, "/api/v1/payrolls?status=paid", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, res.Meta["total_items"])
}

func TestRouter_RateSettings(t *testing.T) {
	s := newTestServer(t, lifecycle.ApprovalPermissive)

	status, res := s.do(http.MethodGet, "/api/v1/rate-settings/tax_rate", nil)
	require.Equal(t, http.StatusOK, status)
	setting := decodeData(t, res)
	assert.Equal(t, "20", setting["value"])
	assert.Equal(t, true, setting["is_default"])

	status, res = s.do(http.MethodPut, "/api/v1/rate-settings/tax_rate", map[string]interface{}{"value": "11"})
	require.Equal(t, http.StatusOK, status, res.Error)
	assert.Equal(t, "11", decodeData(t, res)["value"])

	status, _ = s.do(http.MethodDelete, "/api/v1/rate-settings/tax_rate", nil)
	require.Equal(t, http.StatusOK, status)

	status, res = s.do(http.MethodGet, "/api/v1/rate-settings/tax_rate", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "20", decodeData(t, res)["value"])
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t, lifecycle.ApprovalPermissive)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(s.server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Get(s.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "salary_engine_salaries_calculated_total")
}
