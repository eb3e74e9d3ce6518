package http

import (
	"context"

	"scorepanel/pkg/contracts/domain"
)

// ReportServiceInterface defines the report operations used by the handlers
type ReportServiceInterface interface {
	Views() []domain.View
	View(id domain.ViewID) (domain.View, error)
	Regionals(ctx context.Context) ([]string, error)
	Schools(ctx context.Context, id domain.ViewID, regional string) (*domain.SchoolOptions, error)
	Build(ctx context.Context, sel domain.Selection) (*domain.Report, error)
}
