package services

import "errors"

// Report service errors
var (
	ErrViewNotFound     = errors.New("view not found")
	ErrNoRegionals      = errors.New("no regionals found")
	ErrUnknownRegional  = errors.New("regional is not present in the data")
	ErrUnknownSchool    = errors.New("school is not an option for this regional")
	ErrDatasetNotLoaded = errors.New("dataset not loaded")
)
