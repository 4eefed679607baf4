package analytics

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/location"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/metrics"
)

type AnalyticsServiceImpl struct {
	dataset     *employee.Dataset
	coordinates location.CoordinateProvider
	logger      *slog.Logger
}

func NewAnalyticsService(dataset *employee.Dataset, coordinates location.CoordinateProvider, logger *slog.Logger) analytics.Service {
	return &AnalyticsServiceImpl{
		dataset:     dataset,
		coordinates: coordinates,
		logger:      logger,
	}
}

// resolve turns a per-interaction error into a status and notice. Other errors pass through.
func (s *AnalyticsServiceImpl) resolve(view string, err error) (analytics.Status, *analytics.Notice, error) {
	status, notice, err := analytics.NoticeFor(err)
	if err != nil {
		return "", nil, err
	}
	s.logger.Debug("view has no renderable data", "view", view, "status", status)
	return status, notice, nil
}

func (s *AnalyticsServiceImpl) observe(view string, status analytics.Status) {
	metrics.ViewResultsTotal.WithLabelValues(view, string(status)).Inc()
}

// GetDatasetInfo describes the loaded snapshot
func (s *AnalyticsServiceImpl) GetDatasetInfo(ctx context.Context) (*analytics.DatasetInfoResponse, error) {
	return &analytics.DatasetInfoResponse{
		ID:          s.dataset.ID(),
		Source:      s.dataset.Source(),
		LoadedAt:    s.dataset.LoadedAt(),
		Records:     s.dataset.Len(),
		Years:       s.dataset.Years(),
		Departments: s.dataset.Departments(),
	}, nil
}

// GetFilterOptions lists years, modes and the departments present in the selected year range
func (s *AnalyticsServiceImpl) GetFilterOptions(ctx context.Context, req analytics.DashboardRequest) (*analytics.FilterOptionsResponse, error) {
	sel, err := req.Selection()
	if err != nil {
		return nil, err
	}

	departments := append([]string{employee.AllDepartmentsOption},
		DepartmentsFor(s.dataset.Records(), sel.Year, sel.Mode)...)

	return &analytics.FilterOptionsResponse{
		Selection:   sel.YearEcho(),
		Years:       s.dataset.YearOptions(),
		FilterTypes: analytics.FilterModes(),
		Departments: departments,
	}, nil
}

// GetHome returns headcount cards and the gender, department and education charts
func (s *AnalyticsServiceImpl) GetHome(ctx context.Context, req analytics.DashboardRequest) (*analytics.HomeResponse, error) {
	sel, err := req.Selection()
	if err != nil {
		return nil, err
	}

	records := FilterByYear(s.dataset.Records(), sel.Year, sel.Mode)

	resp := &analytics.HomeResponse{
		Selection:             sel.YearEcho(),
		Status:                analytics.StatusOK,
		GenderDistribution:    GenderDistribution(records),
		DepartmentHeadcount:   DepartmentHeadcount(records),
		EducationDistribution: EducationDistribution(records),
	}

	cards, err := HeadcountSummary(records)
	if err != nil {
		if resp.Status, resp.Notice, err = s.resolve("home", err); err != nil {
			return nil, err
		}
	} else {
		resp.Cards = &cards
	}

	s.observe("home", resp.Status)
	return resp, nil
}

// GetDepartments returns the salary, gender and education breakdowns per department
func (s *AnalyticsServiceImpl) GetDepartments(ctx context.Context, req analytics.DashboardRequest) (*analytics.DepartmentsResponse, error) {
	sel, err := req.Selection()
	if err != nil {
		return nil, err
	}

	records := FilterByYear(s.dataset.Records(), sel.Year, sel.Mode)

	resp := &analytics.DepartmentsResponse{
		Selection:     sel.YearEcho(),
		Status:        analytics.StatusOK,
		AverageSalary: AverageSalaryByDepartment(records),
	}

	if len(records) == 0 {
		if resp.Status, resp.Notice, err = s.resolve("departments", analytics.ErrNoData); err != nil {
			return nil, err
		}
	} else {
		gender := GenderByDepartment(records)
		education := EducationByDepartment(records)
		resp.GenderByDepartment = &gender
		resp.EducationByDepartment = &education
	}

	s.observe("departments", resp.Status)
	return resp, nil
}

// GetLocations returns per-city headcount for one department or all of them
func (s *AnalyticsServiceImpl) GetLocations(ctx context.Context, req analytics.LocationsRequest) (*analytics.LocationsResponse, error) {
	sel := req.Selection()
	all := s.dataset.Records()

	resp := &analytics.LocationsResponse{
		Selection: analytics.SelectionEcho{Year: sel.Year.String(), Department: sel.Department.String()},
		Status:    analytics.StatusOK,
	}

	if err := ValidateDepartment(all, sel); err != nil {
		if resp.Status, resp.Notice, err = s.resolve("locations", err); err != nil {
			return nil, err
		}
		s.observe("locations", resp.Status)
		return resp, nil
	}

	records := FilterByDepartment(all, sel.Department)
	if len(records) == 0 {
		var err error
		if resp.Status, resp.Notice, err = s.resolve("locations", analytics.ErrNoData); err != nil {
			return nil, err
		}
		s.observe("locations", resp.Status)
		return resp, nil
	}

	coords, err := s.coordinates.Coordinates(ctx)
	if err != nil {
		s.logger.Error("failed to load city coordinates", "error", err)
		return nil, err
	}

	locations := LocationHeadcount(records, coords)
	if locations.UnmatchedEmployees > 0 {
		s.logger.Debug("employees without city coordinates",
			"count", locations.UnmatchedEmployees,
			"cities", locations.UnmatchedCities,
		)
	}
	resp.Locations = &locations

	s.observe("locations", resp.Status)
	return resp, nil
}

// GetPerformance returns performance cards and mean review score per department
func (s *AnalyticsServiceImpl) GetPerformance(ctx context.Context, req analytics.PerformanceRequest) (*analytics.PerformanceResponse, error) {
	sel, err := req.Selection()
	if err != nil {
		return nil, err
	}

	all := s.dataset.Records()
	resp := &analytics.PerformanceResponse{
		Selection:               sel.Echo(),
		Status:                  analytics.StatusOK,
		PerformanceByDepartment: []analytics.DepartmentMetric{},
	}

	if err := ValidateDepartment(all, sel); err != nil {
		if resp.Status, resp.Notice, err = s.resolve("performance", err); err != nil {
			return nil, err
		}
		s.observe("performance", resp.Status)
		return resp, nil
	}

	records := FilterSelection(all, sel)
	resp.PerformanceByDepartment = PerformanceByDepartment(records)

	cards, err := PerformanceCards(records)
	if err != nil {
		if resp.Status, resp.Notice, err = s.resolve("performance", err); err != nil {
			return nil, err
		}
	} else {
		resp.Cards = &cards
	}

	s.observe("performance", resp.Status)
	return resp, nil
}

// GetEmployeeTable returns one page of the filtered and sorted employee table
func (s *AnalyticsServiceImpl) GetEmployeeTable(ctx context.Context, req analytics.EmployeeTableRequest) (*analytics.EmployeeTableResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Normalize()

	sel, _ := req.Selection()
	keys, _ := req.SortKeys()

	resp := &analytics.EmployeeTableResponse{
		Selection: sel.Echo(),
		Status:    analytics.StatusOK,
		Columns:   analytics.TableColumns(),
		Sort:      keys,
		Rows:      []analytics.EmployeeRow{},
		Page:      req.Page,
		Limit:     req.Limit,
	}

	records, err := QueryEmployees(s.dataset.Records(), &req)
	if err == nil && len(records) == 0 {
		err = analytics.ErrNoData
	}
	if err != nil {
		if resp.Status, resp.Notice, err = s.resolve("employees", err); err != nil {
			return nil, err
		}
		s.observe("employees", resp.Status)
		return resp, nil
	}

	page, totalPages := Paginate(records, req.Page, req.Limit)
	for _, r := range page {
		resp.Rows = append(resp.Rows, ToEmployeeRow(r))
	}
	resp.TotalItems = int64(len(records))
	resp.TotalPages = totalPages

	s.observe("employees", resp.Status)
	return resp, nil
}
