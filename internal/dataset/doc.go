// Package dataset reads the assessment workbook into immutable tables.
//
// A Dataset is built once by a Loader and shared by every request without
// locking. Workbooks are read with excelize, one table per sheet; CSV files
// become one table each, named after the file stem. Header cells are trimmed
// and stripped of a UTF-8 byte order mark, short rows are padded and blank
// rows dropped.
//
// Loader memoises datasets by absolute path. Concurrent loads of the same
// path share a single read, and later calls return the same *Dataset.
package dataset
