package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"scorepanel/internal/config"
	"scorepanel/internal/dataprocessing"
	"scorepanel/internal/dataset"
	"scorepanel/internal/infrastructure"
	"scorepanel/pkg/contracts/domain"
)

// Notice texts shown to the user
const (
	msgSearchHit         = "Busca: usando a escola %s"
	msgSearchMiss        = "Nenhuma escola encontrada para esse termo de busca."
	msgNoRecords         = "Não há registros de %s para esta regional."
	msgNoComplete        = "Nenhuma escola desta regional possui todos os dados de %s completos."
	msgOnlyBaseline      = "Para esta regional só há a linha-resumo; não há escolas individuais com dados completos."
	msgNoSchools         = "Não há escolas individuais com registros de %s nesta regional."
	msgNoSchoolData      = "Não há dados completos para a escola selecionada."
	msgNoBaseline        = "Linha-resumo da regional não encontrada; o gráfico mostra apenas a escola."
	msgIncompleteSkipped = "%d escola(s) com dados incompletos não aparecem no seletor."
)

// DatasetLoader loads the dataset a report is built from
type DatasetLoader interface {
	Load(ctx context.Context, path string) (*dataset.Dataset, error)
}

// ReportService builds dashboard reports from the loaded dataset
type ReportService struct {
	source   string
	views    []domain.View
	excluded []string
	loader   DatasetLoader
	metrics  *infrastructure.BusinessMetrics
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewReportService creates a report service over the configured data
// source. metrics may be nil.
func NewReportService(cfg *config.Config, loader DatasetLoader, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		source:   config.ResolveDataPath(cfg.Data.SourcePath),
		views:    slices.Clone(cfg.Data.Views),
		excluded: slices.Clone(cfg.Data.ExcludedRegionals),
		loader:   loader,
		metrics:  metrics,
		tracer:   otel.Tracer("scorepanel/services"),
		logger:   logger.With(slog.String("component", "report_service")),
	}
}

// Source returns the resolved data source path
func (s *ReportService) Source() string {
	return s.source
}

// Dataset returns the dataset, loading it on first use
func (s *ReportService) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	if s.loader == nil {
		return nil, ErrDatasetNotLoaded
	}
	return s.loader.Load(ctx, s.source)
}

// Views returns the configured views in display order
func (s *ReportService) Views() []domain.View {
	return slices.Clone(s.views)
}

// ViewIDs returns the configured view ids
func (s *ReportService) ViewIDs() []domain.ViewID {
	ids := make([]domain.ViewID, len(s.views))
	for i, v := range s.views {
		ids[i] = v.ID
	}
	return ids
}

// View returns one view by id
func (s *ReportService) View(id domain.ViewID) (domain.View, error) {
	for _, v := range s.views {
		if v.ID == id {
			return v, nil
		}
	}
	return domain.View{}, fmt.Errorf("%w: %s", ErrViewNotFound, id)
}

// Regionals returns the sorted regional names found in any sheet, without
// the excluded administrative categories
func (s *ReportService) Regionals(ctx context.Context) ([]string, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	regionals := ds.Regionals(s.excluded)
	if len(regionals) == 0 {
		return nil, ErrNoRegionals
	}
	return regionals, nil
}

// viewData is one view restricted to one regional
type viewData struct {
	view     domain.View
	table    *domain.Table
	groups   []dataprocessing.ResolvedGroup
	matching []domain.Record
	complete []domain.Record
	schools  []domain.Record
	baseline *domain.Record
	options  []string
}

// prepare loads and filters a view for a regional. A nil viewData with a
// nil error means the view has nothing to show; the reason is in notices.
func (s *ReportService) prepare(ctx context.Context, id domain.ViewID, regional string, notices *[]domain.Notice) (*viewData, error) {
	v, err := s.View(id)
	if err != nil {
		return nil, err
	}

	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	regional = strings.TrimSpace(regional)
	if !slices.Contains(ds.Regionals(s.excluded), regional) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRegional, regional)
	}

	t, err := ds.Table(v.Sheet)
	if err != nil {
		return nil, err
	}
	groups, err := dataprocessing.ResolveView(t, v)
	if err != nil {
		return nil, err
	}

	matching, complete, err := dataprocessing.FilterCompleteGroups(t, regional, groups)
	if err != nil {
		return nil, err
	}

	d := &viewData{
		view:     v,
		table:    t,
		groups:   groups,
		matching: matching,
		complete: complete,
	}

	if len(matching) == 0 {
		addNotice(notices, domain.NoticeWarning, fmt.Sprintf(msgNoRecords, v.Subject))
		return nil, nil
	}

	source := matching
	if v.Schools == domain.SchoolsFromComplete {
		if len(complete) == 0 {
			addNotice(notices, domain.NoticeWarning, fmt.Sprintf(msgNoComplete, v.Subject))
			return nil, nil
		}
		source = complete
	}

	d.schools, _ = dataprocessing.SplitBaseline(source, regional)
	_, d.baseline = dataprocessing.SplitBaseline(matching, regional)
	d.options = dataprocessing.SchoolOptions(d.schools)

	if len(d.options) == 0 {
		if v.Schools == domain.SchoolsFromComplete {
			addNotice(notices, domain.NoticeWarning, msgOnlyBaseline)
		} else {
			addNotice(notices, domain.NoticeWarning, fmt.Sprintf(msgNoSchools, v.Subject))
		}
		return nil, nil
	}

	return d, nil
}

// Schools returns the selectable schools of a view for a regional
func (s *ReportService) Schools(ctx context.Context, id domain.ViewID, regional string) (*domain.SchoolOptions, error) {
	out := &domain.SchoolOptions{
		Regional: strings.TrimSpace(regional),
		View:     id,
		Schools:  []string{},
	}
	d, err := s.prepare(ctx, id, regional, &out.Notices)
	if err != nil {
		return nil, err
	}
	if d != nil && d.view.Schools != domain.SchoolsNone {
		out.Schools = d.options
	}
	return out, nil
}

// Build produces the chart, table and notices of one view for a selection
func (s *ReportService) Build(ctx context.Context, sel domain.Selection) (report *domain.Report, err error) {
	ctx, span := s.tracer.Start(ctx, "report.build",
		trace.WithAttributes(
			attribute.String("report.view", string(sel.View)),
			attribute.String("report.regional", sel.Regional),
		))
	defer span.End()

	start := time.Now()
	incomplete := 0
	defer func() {
		infrastructure.RecordReportBuild(ctx, s.metrics, string(sel.View), incomplete, time.Since(start), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.WarnContext(ctx, "report build failed",
				slog.String("view", string(sel.View)),
				slog.String("regional", sel.Regional),
				slog.String("error", err.Error()))
		}
	}()

	sel.Regional = strings.TrimSpace(sel.Regional)
	report = &domain.Report{
		Selection: sel,
		Schools:   []string{},
	}

	d, err := s.prepare(ctx, sel.View, sel.Regional, &report.Notices)
	if err != nil {
		return nil, err
	}
	v, _ := s.View(sel.View)
	report.Title = v.Title
	if d == nil {
		return report, nil
	}
	incomplete = len(d.matching) - len(d.complete)

	if v.Schools != domain.SchoolsNone {
		report.Schools = d.options
		if v.Schools == domain.SchoolsFromComplete && incomplete > 0 {
			report.AddNotice(domain.NoticeInfo, fmt.Sprintf(msgIncompleteSkipped, incomplete))
		}
	}

	if v.Chart {
		school, err := s.ResolveSchool(ctx, v, d.options, sel.School, sel.Search, &report.Notices)
		if err != nil {
			return nil, err
		}
		report.Selection.School = school

		rec, ok := dataprocessing.FindSchool(d.schools, school)
		if !ok {
			report.AddNotice(domain.NoticeWarning, msgNoSchoolData)
			return report, nil
		}
		if d.baseline == nil && v.Baseline != "" {
			report.AddNotice(domain.NoticeInfo, msgNoBaseline)
		}
		report.Chart = dataprocessing.BuildChart(v, d.groups, rec, d.baseline)
	}

	report.Table = dataprocessing.BuildTable(v, d.table, d.groups, d.matching, sel.Regional)

	s.logger.DebugContext(ctx, "report built",
		slog.String("view", string(v.ID)),
		slog.String("regional", sel.Regional),
		slog.String("school", report.Selection.School),
		slog.Int("records", len(d.matching)),
		slog.Int("complete", len(d.complete)),
		slog.Int("notices", len(report.Notices)))

	return report, nil
}

// ResolveSchool picks the school a chart is drawn for. An explicit school
// must be one of the options; without one the first option is used. A
// search term overrides the choice with the first option containing it,
// and a miss keeps the choice and adds a notice.
func (s *ReportService) ResolveSchool(ctx context.Context, v domain.View, options []string, school, search string, notices *[]domain.Notice) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("%w: no options for %s", ErrUnknownSchool, v.ID)
	}

	chosen := options[0]
	if school != "" {
		if !slices.Contains(options, school) {
			return "", fmt.Errorf("%w: %q", ErrUnknownSchool, school)
		}
		chosen = school
	}

	if strings.TrimSpace(search) == "" {
		return chosen, nil
	}
	if hit, ok := dataprocessing.SearchSchool(options, search); ok {
		addNotice(notices, domain.NoticeInfo, fmt.Sprintf(msgSearchHit, hit))
		return hit, nil
	}

	infrastructure.RecordSearchMiss(ctx, s.metrics, string(v.ID))
	addNotice(notices, domain.NoticeInfo, msgSearchMiss)
	return chosen, nil
}

func addNotice(notices *[]domain.Notice, level domain.NoticeLevel, message string) {
	*notices = append(*notices, domain.Notice{Level: level, Message: message})
}
