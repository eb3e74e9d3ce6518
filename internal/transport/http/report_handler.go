package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "scorepanel/internal/errors"
	"scorepanel/internal/exporter"
	"scorepanel/internal/infrastructure"
	appmiddleware "scorepanel/internal/middleware"
	"scorepanel/internal/services"
	"scorepanel/pkg/contracts/domain"
)

type viewCtxKey struct{}

// ReportHandler serves dashboard reports
type ReportHandler struct {
	service      ReportServiceInterface
	validator    *appmiddleware.ValidationMiddleware
	query        *appmiddleware.QueryParamValidator
	errorHandler *apierrors.ErrorHandler
	metrics      *infrastructure.BusinessMetrics
	logger       *slog.Logger
}

// NewReportHandler creates a report handler. metrics may be nil.
func NewReportHandler(service ReportServiceInterface, validator *appmiddleware.ValidationMiddleware, errorHandler *apierrors.ErrorHandler, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		service:      service,
		validator:    validator,
		query:        appmiddleware.NewQueryParamValidator(logger, errorHandler),
		errorHandler: errorHandler,
		metrics:      metrics,
		logger:       logger.With(slog.String("component", "report_handler")),
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/regionals", h.GetRegionals)
	r.Get("/views", h.GetViews)

	r.Route("/{view}", func(r chi.Router) {
		r.Use(h.ViewCtx)
		r.Get("/", h.GetReport)
		r.Get("/schools", h.GetSchools)
		r.Get("/chart.{format}", h.GetChart)
		r.Get("/table.csv", h.GetTableCSV)
	})

	return r
}

// ViewCtx resolves the {view} parameter and stores the view in the context
func (h *ReportHandler) ViewCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := domain.ViewID(chi.URLParam(r, "view"))
		v, err := h.service.View(id)
		if err != nil {
			h.errorHandler.HandleError(w, r, h.mapError(err))
			return
		}
		ctx := context.WithValue(r.Context(), viewCtxKey{}, v)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func viewFromContext(ctx context.Context) domain.View {
	v, _ := ctx.Value(viewCtxKey{}).(domain.View)
	return v
}

// GetRegionals handles GET /api/report/regionals
func (h *ReportHandler) GetRegionals(w http.ResponseWriter, r *http.Request) {
	regionals, err := h.service.Regionals(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(err))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"regionals": regionals,
		"count":     len(regionals),
	})
}

// GetViews handles GET /api/report/views
func (h *ReportHandler) GetViews(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"views": h.service.Views(),
	})
}

// GetSchools handles GET /api/report/{view}/schools
func (h *ReportHandler) GetSchools(w http.ResponseWriter, r *http.Request) {
	sel, ok := h.selection(w, r)
	if !ok {
		return
	}

	opts, err := h.service.Schools(r.Context(), sel.View, sel.Regional)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(err))
		return
	}
	render.JSON(w, r, opts)
}

// GetReport handles GET /api/report/{view}
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.build(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, report)
}

// GetChart handles GET /api/report/{view}/chart.{format}
func (h *ReportHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(chi.URLParam(r, "format"))
	if !exporter.ValidFormat(format) {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format",
			fmt.Sprintf("format must be one of: %s, %s", exporter.FormatPNG, exporter.FormatSVG)))
		return
	}

	v := viewFromContext(r.Context())
	if !v.Chart {
		h.errorHandler.HandleError(w, r, apierrors.New(http.StatusNotFound, "NO_CHART",
			fmt.Sprintf("View %s has no chart", v.ID)))
		return
	}

	report, ok := h.build(w, r)
	if !ok {
		return
	}
	if report.Chart == nil {
		h.errorHandler.HandleError(w, r, emptyReportError("NO_CHART", report))
		return
	}

	var buf bytes.Buffer
	if err := exporter.NewChartRenderer(v).Render(&buf, report.Chart, format); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewInternalError(err.Error()))
		return
	}
	infrastructure.RecordChartRender(r.Context(), h.metrics, string(v.ID), format)

	w.Header().Set("Content-Type", exporter.ContentType(format))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write chart",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	}
}

// csvDelimiters maps the delimiter query parameter to a field separator
var csvDelimiters = map[string]rune{
	"semicolon": ';',
	"comma":     ',',
	"tab":       '\t',
}

// GetTableCSV handles GET /api/report/{view}/table.csv. The optional
// delimiter parameter is one of semicolon (default), comma or tab.
func (h *ReportHandler) GetTableCSV(w http.ResponseWriter, r *http.Request) {
	delimiter, ok := h.query.ValidateEnum(w, r, "delimiter", []string{"semicolon", "comma", "tab"}, "semicolon")
	if !ok {
		return
	}

	report, ok := h.build(w, r)
	if !ok {
		return
	}
	if report.Table == nil {
		h.errorHandler.HandleError(w, r, emptyReportError("NO_TABLE", report))
		return
	}

	var buf bytes.Buffer
	if err := exporter.NewCSVWriter(csvDelimiters[delimiter]).WriteTable(&buf, report.Table); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewInternalError(err.Error()))
		return
	}

	filename := fmt.Sprintf("%s_%s.csv", report.Selection.View, strings.ReplaceAll(report.Selection.Regional, " ", "_"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write table csv",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	}
}

// selection reads and validates the query string. On failure the problem
// response is already written.
func (h *ReportHandler) selection(w http.ResponseWriter, r *http.Request) (domain.Selection, bool) {
	q := r.URL.Query()
	sel := domain.Selection{
		Regional: strings.TrimSpace(q.Get("regional")),
		View:     viewFromContext(r.Context()).ID,
		School:   q.Get("school"),
		Search:   q.Get("search"),
	}

	if err := h.validator.ValidateStruct(sel); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return sel, false
	}
	return sel, true
}

func (h *ReportHandler) build(w http.ResponseWriter, r *http.Request) (*domain.Report, bool) {
	sel, ok := h.selection(w, r)
	if !ok {
		return nil, false
	}

	report, err := h.service.Build(r.Context(), sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(err))
		return nil, false
	}

	h.logger.DebugContext(r.Context(), "report served",
		slog.String("view", string(sel.View)),
		slog.String("regional", sel.Regional),
		slog.Int("notices", len(report.Notices)),
		slog.String("request_id", middleware.GetReqID(r.Context())))
	return report, true
}

// mapError turns service errors into API errors. Errors it does not know
// are passed through for the error handler to classify.
func (h *ReportHandler) mapError(err error) error {
	switch {
	case errors.Is(err, services.ErrViewNotFound):
		return apierrors.ErrViewNotFound
	case errors.Is(err, services.ErrNoRegionals):
		return apierrors.ErrNoRegionalsData
	case errors.Is(err, services.ErrUnknownRegional):
		return apierrors.ErrValidation("regional", err.Error())
	case errors.Is(err, services.ErrUnknownSchool):
		return apierrors.ErrValidation("school", err.Error())
	case errors.Is(err, services.ErrDatasetNotLoaded):
		return apierrors.ErrServiceUnavailable
	}

	var appErr *apierrors.AppError
	if errors.As(err, &appErr) && appErr.Type == apierrors.ErrTypeConfig {
		if column := appErr.ContextString("column"); column != "" {
			return apierrors.MissingColumnProblem(appErr.ContextString("sheet"), column)
		}
	}
	return err
}

// emptyReportError reports a missing chart or table with the notice that
// explains it
func emptyReportError(code string, report *domain.Report) *apierrors.APIError {
	message := "Nothing to show for this selection"
	if len(report.Notices) > 0 {
		message = report.Notices[len(report.Notices)-1].Message
	}
	return apierrors.NewWithDetails(http.StatusNotFound, code, message, report.Notices)
}
