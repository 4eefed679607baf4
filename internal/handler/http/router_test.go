package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/location"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/report"
	analyticsService "github.com/cmlabs-hris/hr-analytics-go/internal/service/analytics"
	reportService "github.com/cmlabs-hris/hr-analytics-go/internal/service/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCoordinates struct {
	err error
}

func (s stubCoordinates) Coordinates(ctx context.Context) (map[string]location.CityCoordinate, error) {
	if s.err != nil {
		return nil, s.err
	}
	return map[string]location.CityCoordinate{
		"Texas": {City: "Texas", Latitude: 30.27, Longitude: -97.74},
		"Ohio":  {City: "Ohio", Latitude: 39.96, Longitude: -83.00},
	}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		TotalItems int64 `json:"total_items"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

func testRecords() []employee.Employee {
	hire := func(y int) time.Time { return time.Date(y, time.May, 5, 0, 0, 0, 0, time.UTC) }
	terminated := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	return []employee.Employee{
		{ID: "E1", Name: "Alice", Gender: "Female", Department: "Sales", Position: "Manager",
			Education: "Master", City: "Texas", Salary: 80000, PerformanceReview: 10, HireDate: hire(2018)},
		{ID: "E2", Name: "Bob", Gender: "Male", Department: "Sales", Position: "Clerk",
			Education: "Bachelor", City: "Ohio", Salary: 40000, PerformanceReview: 6, HireDate: hire(2019),
			TerminationDate: &terminated},
		{ID: "E3", Name: "Cara", Gender: "Female", Department: "IT", Position: "Engineer",
			Education: "PhD", City: "Texas", Salary: 90000, PerformanceReview: 9, HireDate: hire(2019)},
		{ID: "E4", Name: "Dan", Gender: "Male", Department: "IT", Position: "Engineer",
			Education: "Bachelor", City: "Atlantis", Salary: 70000, PerformanceReview: 10, HireDate: hire(2020)},
		{ID: "E5", Name: "Eve", Gender: "Female", Department: "HR", Position: "Recruiter",
			Education: "Bachelor", City: "Ohio", Salary: 50000, PerformanceReview: 8, HireDate: hire(2021)},
	}
}

func newTestRouter(t *testing.T, coords location.CoordinateProvider) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ds := employee.NewDataset("test.csv", testRecords(), time.Now())

	return NewRouter(
		RouterOptions{Logger: logger, AllowedOrigins: []string{"http://localhost:3000"}},
		NewAnalyticsHandler(analyticsService.NewAnalyticsService(ds, coords, logger)),
		NewReportHandler(reportService.NewReportService(ds, logger)),
	)
}

func doGet(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func decodeData(t *testing.T, env envelope) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

func TestRouter_Home(t *testing.T) {
	h := newTestRouter(t, stubCoordinates{})

	w, env := doGet(t, h, "/api/v1/dashboard/home?year=2019&filter_type=Until")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	data := decodeData(t, env)
	assert.Equal(t, "ok", data["status"])
	cards := data["cards"].(map[string]interface{})
	assert.Equal(t, float64(3), cards["employees"])
	assert.Equal(t, map[string]interface{}{"year": "2019", "filter_type": "Until"}, data["selection"])
}

func TestRouter_Home_NoData(t *testing.T) {
	h := newTestRouter(t, stubCoordinates{})

	w, env := doGet(t, h, "/api/v1/dashboard/home?year=2001&filter_type=In")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, env)
	assert.Equal(t, "no_data", data["status"])
	assert.NotContains(t, data, "cards")
}

func TestRouter_Home_InvalidYear(t *testing.T) {
	h := newTestRouter(t, stubCoordinates{})

	w, env := doGet(t, h, "/api/v1/dashboard/home?year=abc")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "year")
}

func TestRouter_Filters(t *testing.T) {
	h := newTestRouter(t, stubCoordinates{})

	w, env := doGet(t, h, "/api/v1/filters?year=2019&filter_type=In")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, env)
	assert.Equal(t, []interface{}{"All Departments", "IT", "Sales"}, data["departments"])
	assert.Equal(t, []interface{}{"Until", "In"}, data["filter_types"])
}

func TestRouter_Dataset(t *testing.T) {
	h := newTestRouter(t, stubCoordinates{})

	w, env := doGet(t, h, "/api/v1/dataset")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, env)
	assert.Equal(t, float64(5), data["records"])
	assert.Equal(t, "test.csv", data["source"])
}

func TestRouter_Departments(t *testing.T) {
	h := newTestRouter(t, stubCoordinates{})

	w, env := doGet(t, h, "/api/v1/dashboard/departments")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, env)
	salaries := data["average_salary"].([]interface{})
	require.Len(t, salaries, 3)
	assert.Equal(t, "IT", salaries[0].(map[string]interface{})["department"])
	assert.Contains(t, data, "gender_by_department")
}

func TestRouter_Performance_SelectionNotAvailable(t *testing.T) {
	h := newTestRouter(t, stubCoordinates{})

	w, env := doGet(t, h, "/api/v1/dashboard/performance?year=2018&filter_type=In&department=IT")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, env)
	assert.Equal(t, "selection_not_available", data["status"])
	notice := data["notice"].(map[string]interface{})
	assert.Equal(t, "The Department IT Did Not Exist In 2018", notice["message"])
}

func TestRouter_Locations(t *testing.T) {
	h := newTestRouter(t, stubCoordinates{})

	w, env := doGet(t, h, "/api/v1/dashboard/locations?department=All%20Departments")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, env)
	locations := data["locations"].(map[string]interface{})
	assert.Equal(t, float64(5), locations["total_employees"])
	assert.Equal(t, float64(1), locations["unmatched_employees"])
}

func TestRouter_Locations_CoordinatesUnavailable(t *testing.T) {
	h := newTestRouter(t, stubCoordinates{err: location.ErrCoordinatesUnavailable})

	w, env := doGet(t, h, "/api/v1/dashboard/locations")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SERVICE_UNAVAILABLE", env.Error.Code)
}

func TestRouter_Employees(t *testing.T) {
	h := newTestRouter(t, stubCoordinates{})

	w, env := doGet(t, h, "/api/v1/employees?sort=-salary&limit=2&page=1")
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(5), env.Meta.TotalItems)
	assert.Equal(t, 3, env.Meta.TotalPages)
	assert.Equal(t, 2, env.Meta.Limit)

	data := decodeData(t, env)
	rows := data["rows"].([]interface{})
	require.Len(t, rows, 2)
	first := rows[0].(map[string]interface{})
	assert.Equal(t, "Cara", first["employee"])
	assert.Equal(t, "90,000", first["salary"])
}

func TestRouter_Employees_BadPaging(t *testing.T) {
	h := newTestRouter(t, stubCoordinates{})

	w, env := doGet(t, h, "/api/v1/employees?page=first&limit=ten")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
	assert.Contains(t, env.Error.Details, "page")
	assert.Contains(t, env.Error.Details, "limit")

	w, env = doGet(t, h, "/api/v1/employees/export?page=1.5")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "page")

	w, env = doGet(t, h, "/api/v1/employees?page=2&limit=1000")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "limit")
}

func TestRouter_Employees_PageFarPastEnd(t *testing.T) {
	h := newTestRouter(t, stubCoordinates{})

	w, env := doGet(t, h, "/api/v1/employees?page=922337203685477581&limit=10")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.TotalPages)

	data := decodeData(t, env)
	assert.Empty(t, data["rows"])
}

func TestRouter_ExportEmployees(t *testing.T) {
	h := newTestRouter(t, stubCoordinates{})

	w, _ := doGet(t, h, "/api/v1/employees/export?department=IT")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, report.ContentTypeXLSX, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="employees-it.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.NotZero(t, w.Body.Len())
}

func TestRouter_ExportEmployees_SelectionNotAvailable(t *testing.T) {
	h := newTestRouter(t, stubCoordinates{})

	w, env := doGet(t, h, "/api/v1/employees/export?department=IT&year=2018&filter_type=In")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SELECTION_NOT_AVAILABLE", env.Error.Code)
	assert.Equal(t, "The Department IT Did Not Exist In 2018", env.Error.Message)
}

func TestRouter_Infrastructure(t *testing.T) {
	h := newTestRouter(t, stubCoordinates{})

	w, _ := doGet(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doGet(t, h, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := doGet(t, h, "/api/v1/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}
