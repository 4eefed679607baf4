package analytics

import "context"

// Service answers the dashboard views. Every call recomputes its result from
// the full dataset using only the selectors passed in.
type Service interface {
	// GetDatasetInfo describes the loaded dataset snapshot
	GetDatasetInfo(ctx context.Context) (*DatasetInfoResponse, error)

	// GetFilterOptions returns dropdown values for the current year selection
	GetFilterOptions(ctx context.Context, req DashboardRequest) (*FilterOptionsResponse, error)

	// GetHome returns headcount cards plus gender, department and education charts
	GetHome(ctx context.Context, req DashboardRequest) (*HomeResponse, error)

	// GetDepartments returns salary, gender and education breakdowns per department
	GetDepartments(ctx context.Context, req DashboardRequest) (*DepartmentsResponse, error)

	// GetLocations returns per-city headcount joined to coordinates
	GetLocations(ctx context.Context, req LocationsRequest) (*LocationsResponse, error)

	// GetPerformance returns performance cards and mean score per department
	GetPerformance(ctx context.Context, req PerformanceRequest) (*PerformanceResponse, error)

	// GetEmployeeTable returns one page of the filtered, sorted employee table
	GetEmployeeTable(ctx context.Context, req EmployeeTableRequest) (*EmployeeTableResponse, error)
}
