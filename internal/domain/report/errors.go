package report

import "errors"

var (
	ErrWorkbookBuild = errors.New("failed to build workbook")
)
