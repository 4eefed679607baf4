package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hr-analytics-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/validator"
)

type AnalyticsHandler interface {
	// GetDatasetInfo returns the loaded snapshot id, record count, years and departments
	GetDatasetInfo(w http.ResponseWriter, r *http.Request)
	// GetFilterOptions returns the dropdown values for the selected year range
	GetFilterOptions(w http.ResponseWriter, r *http.Request)
	// GetHome returns headcount cards and distribution charts
	GetHome(w http.ResponseWriter, r *http.Request)
	// GetDepartments returns per-department salary, gender and education breakdowns
	GetDepartments(w http.ResponseWriter, r *http.Request)
	// GetLocations returns per-city headcount with coordinates
	GetLocations(w http.ResponseWriter, r *http.Request)
	// GetPerformance returns performance cards and mean review score per department
	GetPerformance(w http.ResponseWriter, r *http.Request)
	// ListEmployees returns one page of the employee table
	ListEmployees(w http.ResponseWriter, r *http.Request)
}

type analyticsHandlerImpl struct {
	analyticsService analytics.Service
}

func NewAnalyticsHandler(analyticsService analytics.Service) AnalyticsHandler {
	return &analyticsHandlerImpl{analyticsService: analyticsService}
}

// GetDatasetInfo handles GET /dataset
func (h *analyticsHandlerImpl) GetDatasetInfo(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.GetDatasetInfo(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetFilterOptions handles GET /filters
func (h *analyticsHandlerImpl) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.GetFilterOptions(r.Context(), dashboardRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetHome handles GET /dashboard/home
func (h *analyticsHandlerImpl) GetHome(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.GetHome(r.Context(), dashboardRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDepartments handles GET /dashboard/departments
func (h *analyticsHandlerImpl) GetDepartments(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.GetDepartments(r.Context(), dashboardRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetLocations handles GET /dashboard/locations
func (h *analyticsHandlerImpl) GetLocations(w http.ResponseWriter, r *http.Request) {
	req := analytics.LocationsRequest{
		Department: r.URL.Query().Get("department"),
	}

	result, err := h.analyticsService.GetLocations(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetPerformance handles GET /dashboard/performance
func (h *analyticsHandlerImpl) GetPerformance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := analytics.PerformanceRequest{
		Year:       q.Get("year"),
		FilterType: q.Get("filter_type"),
		Department: q.Get("department"),
	}

	result, err := h.analyticsService.GetPerformance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListEmployees handles GET /employees
func (h *analyticsHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	req, malformed := employeeTableRequest(r)
	if len(malformed) > 0 {
		response.BadRequest(w, "Malformed query parameters", malformed.ToMap())
		return
	}

	result, err := h.analyticsService.GetEmployeeTable(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

func dashboardRequest(r *http.Request) analytics.DashboardRequest {
	q := r.URL.Query()
	return analytics.DashboardRequest{
		Year:       q.Get("year"),
		FilterType: q.Get("filter_type"),
	}
}

// employeeTableRequest reads the table selectors from the query string.
// page and limit must be integers when present; malformed values are returned
// as field errors for a 400 response.
func employeeTableRequest(r *http.Request) (analytics.EmployeeTableRequest, validator.ValidationErrors) {
	q := r.URL.Query()
	req := analytics.EmployeeTableRequest{
		Year:       q.Get("year"),
		FilterType: q.Get("filter_type"),
		Department: q.Get("department"),
		Sort:       q.Get("sort"),
		Search:     q.Get("search"),
	}

	var errs validator.ValidationErrors
	if p := q.Get("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a number"})
		}
		req.Page = page
	}
	if l := q.Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a number"})
		}
		req.Limit = limit
	}

	return req, errs
}
