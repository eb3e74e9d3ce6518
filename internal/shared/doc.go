// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides a capturing slog handler and builders
// for fixture workbooks with the four report sheets, written with excelize
// into a test's temporary directory:
//
//	path := testutil.WriteWorkbook(t, testutil.DashboardSheets()...)
//	ds, err := dataset.NewLoader(logger, nil).Load(ctx, path)
package shared
