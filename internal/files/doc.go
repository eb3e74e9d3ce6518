// Package files discovers the data files a dashboard can be loaded from.
//
// A data source is either a single workbook, a single CSV file or a
// directory. For directories, Discovery lists the CSV files (one sheet each,
// sorted by name) or, when there are none, the workbooks so that the most
// recent one can be picked.
package files
