// Package dataprocessing holds the report pipeline shared by every view of the
// assessment dashboard. All functions are pure: they read immutable records
// and return new values.
//
// # Architecture
//
// The pipeline is organized into four stages:
//
// 1. Parser: converts pt-BR formatted text ("1.234,56", "85,12%") into numbers
// 2. Filter: restricts a sheet to one regional and keeps complete records
// 3. Baseline: separates the regional aggregate row from school rows
// 4. Series and tables: stage-over-stage variation, chart series and
// formatted table cells
//
// # Usage
//
//	groups, err := dataprocessing.ResolveView(table, view)
//	if err != nil {
//	    return err
//	}
//	matching, complete, err := dataprocessing.FilterCompleteGroups(table, regional, groups)
//	schools, baseline := dataprocessing.SplitBaseline(complete, regional)
//	chart := dataprocessing.BuildChart(view, groups, schools[0], baseline)
//
// # Data Flow
//
//	Table → FilterComplete → SplitBaseline → BuildChart / BuildTable
//
// # Error Handling
//
// Unparseable cells are never errors; they become missing values. The only
// errors are configuration errors (*errors.AppError of type CONFIG) raised
// when a sheet lacks a column a view needs.
package dataprocessing
