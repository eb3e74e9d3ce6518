package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scorepanel/internal/config"
	"scorepanel/internal/dataprocessing"
	"scorepanel/internal/dataset"
	apierrors "scorepanel/internal/errors"
	appmiddleware "scorepanel/internal/middleware"
	"scorepanel/internal/services"
	"scorepanel/internal/shared/testutil"
	"scorepanel/pkg/contracts/domain"
)

// MockReportService is a mock implementation of ReportServiceInterface.
// Views come from the default configuration.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Views() []domain.View {
	return config.DefaultViews()
}

func (m *MockReportService) View(id domain.ViewID) (domain.View, error) {
	for _, v := range config.DefaultViews() {
		if v.ID == id {
			return v, nil
		}
	}
	return domain.View{}, fmt.Errorf("%w: %s", services.ErrViewNotFound, id)
}

func (m *MockReportService) Regionals(ctx context.Context) ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockReportService) Schools(ctx context.Context, id domain.ViewID, regional string) (*domain.SchoolOptions, error) {
	args := m.Called(id, regional)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SchoolOptions), args.Error(1)
}

func (m *MockReportService) Build(ctx context.Context, sel domain.Selection) (*domain.Report, error) {
	args := m.Called(sel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func viewIDs() []domain.ViewID {
	var ids []domain.ViewID
	for _, v := range config.DefaultViews() {
		ids = append(ids, v.ID)
	}
	return ids
}

func newTestRouter(t *testing.T, svc ReportServiceInterface) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	validator := appmiddleware.NewValidationMiddleware(logger, errorHandler, viewIDs())

	r := chi.NewRouter()
	r.NotFound(errorHandler.NotFound)
	r.Mount("/api/report", NewReportHandler(svc, validator, errorHandler, nil, logger).Routes())
	return r
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func sampleReport() *domain.Report {
	ref := domain.Some(600)
	return &domain.Report{
		Selection: domain.Selection{Regional: "Regional X", View: domain.ViewRedacao, School: "Escola A"},
		Title:     "Desempenhos em Redação",
		Schools:   []string{"Escola A"},
		Chart: &domain.ChartView{
			Title:  "Desempenhos em Redação: Escola A",
			School: "Escola A",
			Stages: []string{"1º Simulado", "2º Simulado"},
			Series: []domain.Series{{
				Name: "Notas (Escola)", Entity: domain.EntitySchool, Family: "score",
				Points: []domain.SeriesPoint{
					{Stage: "1º Simulado", Raw: domain.Some(700), Value: domain.Some(0.7), Reference: &ref},
					{Stage: "2º Simulado", Raw: domain.Some(710), Value: domain.Some(0.71)},
				},
			}},
		},
		Table: &domain.TableView{
			Title:   "Desempenhos em Redação",
			Columns: []string{"Código Interno", "Escola", "1º Simulado: Nota"},
			Rows: []domain.TableRow{{
				Code: "101", School: "Escola A",
				Cells: []domain.Cell{
					{Raw: "101", Display: "101"},
					{Raw: "Escola A", Display: "Escola A"},
					{Raw: "700", Value: domain.Some(700), Display: "700,00", Numeric: true},
				},
			}},
		},
	}
}

func TestGetRegionals(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := new(MockReportService)
		svc.On("Regionals").Return([]string{"Regional X", "Regional Y"}, nil)

		rec := doGet(t, newTestRouter(t, svc), "/api/report/regionals")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Regionals []string `json:"regionals"`
			Count     int      `json:"count"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, []string{"Regional X", "Regional Y"}, body.Regionals)
		assert.Equal(t, 2, body.Count)
		svc.AssertExpectations(t)
	})

	t.Run("none", func(t *testing.T) {
		svc := new(MockReportService)
		svc.On("Regionals").Return(nil, services.ErrNoRegionals)

		rec := doGet(t, newTestRouter(t, svc), "/api/report/regionals")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NO_REGIONALS", decodeProblem(t, rec)["error_code"])
	})
}

func TestGetViews(t *testing.T) {
	rec := doGet(t, newTestRouter(t, new(MockReportService)), "/api/report/views")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Views []domain.View `json:"views"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Views, 4)
	assert.Equal(t, domain.ViewRedacao, body.Views[0].ID)
}

func TestGetReport(t *testing.T) {
	svc := new(MockReportService)
	sel := domain.Selection{Regional: "Regional X", View: domain.ViewRedacao, School: "Escola A", Search: "esc"}
	svc.On("Build", sel).Return(sampleReport(), nil)

	rec := doGet(t, newTestRouter(t, svc), "/api/report/redacao?regional=Regional+X&school=Escola+A&search=esc")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report domain.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "Escola A", report.Selection.School)
	require.NotNil(t, report.Chart)
	assert.InDelta(t, 0.7, report.Chart.Series[0].Points[0].Value.Value, 1e-9)
	svc.AssertExpectations(t)
}

func TestGetReportErrors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		buildErr   error
		wantStatus int
		wantCode   string
	}{
		{"unknown view", "/api/report/notas?regional=Regional+X", nil, http.StatusNotFound, "VIEW_NOT_FOUND"},
		{"missing regional", "/api/report/redacao", nil, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"search too long", "/api/report/redacao?regional=R&search=" + strings.Repeat("a", 201), nil, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"unknown regional", "/api/report/redacao?regional=Q", fmt.Errorf("%w: %q", services.ErrUnknownRegional, "Q"), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"unknown school", "/api/report/redacao?regional=R&school=Z", fmt.Errorf("%w: %q", services.ErrUnknownSchool, "Z"), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"missing column", "/api/report/redacao?regional=R", dataprocessing.MissingColumnError(config.SheetRedacao, "1º Simulado: Nota"), http.StatusUnprocessableEntity, "MISSING_COLUMN"},
		{"missing sheet", "/api/report/objetivas?regional=R", apierrors.NewConfigError("sheet not found", nil).WithContext("sheet", config.SheetObjetivas), http.StatusUnprocessableEntity, "CONFIG"},
		{"unreadable source", "/api/report/redacao?regional=R", apierrors.NewStorageError("gone", nil), http.StatusServiceUnavailable, "STORAGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReportService)
			if tt.buildErr != nil {
				svc.On("Build", mock.Anything).Return(nil, tt.buildErr)
			}

			rec := doGet(t, newTestRouter(t, svc), tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantCode, decodeProblem(t, rec)["error_code"])
			if tt.buildErr == nil {
				svc.AssertNotCalled(t, "Build", mock.Anything)
			}
		})
	}
}

func TestGetReportMissingColumnDetails(t *testing.T) {
	svc := new(MockReportService)
	svc.On("Build", mock.Anything).Return(nil, dataprocessing.MissingColumnError(config.SheetRedacao, "4º Teste de Redação: Nota"))

	rec := doGet(t, newTestRouter(t, svc), "/api/report/redacao?regional=Regional+X")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	problem := decodeProblem(t, rec)
	assert.Contains(t, problem["detail"], "4º Teste de Redação: Nota")
	details, ok := problem["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, config.SheetRedacao, details["sheet"])
	assert.Equal(t, "4º Teste de Redação: Nota", details["column"])
}

func TestGetSchools(t *testing.T) {
	svc := new(MockReportService)
	svc.On("Schools", domain.ViewParticipacao, "Regional X").Return(&domain.SchoolOptions{
		Regional: "Regional X",
		View:     domain.ViewParticipacao,
		Schools:  []string{"Escola A", "Escola B"},
	}, nil)

	rec := doGet(t, newTestRouter(t, svc), "/api/report/participacao/schools?regional=Regional%20X")
	require.Equal(t, http.StatusOK, rec.Code)

	var opts domain.SchoolOptions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Equal(t, []string{"Escola A", "Escola B"}, opts.Schools)
	svc.AssertExpectations(t)
}

func TestGetChart(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		svc := new(MockReportService)
		svc.On("Build", mock.Anything).Return(sampleReport(), nil)

		rec := doGet(t, newTestRouter(t, svc), "/api/report/redacao/chart.png?regional=Regional+X")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG\r\n\x1a\n"))
	})

	t.Run("svg", func(t *testing.T) {
		svc := new(MockReportService)
		svc.On("Build", mock.Anything).Return(sampleReport(), nil)

		rec := doGet(t, newTestRouter(t, svc), "/api/report/redacao/chart.svg?regional=Regional+X")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	})

	t.Run("unsupported format", func(t *testing.T) {
		svc := new(MockReportService)
		rec := doGet(t, newTestRouter(t, svc), "/api/report/redacao/chart.gif?regional=Regional+X")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Build", mock.Anything)
	})

	t.Run("view without chart", func(t *testing.T) {
		rec := doGet(t, newTestRouter(t, new(MockReportService)), "/api/report/acessos/chart.png?regional=Regional+X")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NO_CHART", decodeProblem(t, rec)["error_code"])
	})

	t.Run("empty result", func(t *testing.T) {
		svc := new(MockReportService)
		report := &domain.Report{Selection: domain.Selection{Regional: "Regional X", View: domain.ViewRedacao}}
		report.AddNotice(domain.NoticeWarning, "Nenhuma escola desta regional possui todos os dados de redação completos.")
		svc.On("Build", mock.Anything).Return(report, nil)

		rec := doGet(t, newTestRouter(t, svc), "/api/report/redacao/chart.png?regional=Regional+X")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Nenhuma escola desta regional possui todos os dados de redação completos.", decodeProblem(t, rec)["detail"])
	})
}

func TestGetTableCSV(t *testing.T) {
	svc := new(MockReportService)
	svc.On("Build", mock.Anything).Return(sampleReport(), nil)

	rec := doGet(t, newTestRouter(t, svc), "/api/report/redacao/table.csv?regional=Regional+X")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "redacao_Regional_X.csv")

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "\xef\xbb\xbf"), "CSV starts with a UTF-8 BOM")
	assert.Contains(t, body, "101;Escola A;700,00")
}

func TestMissingColumnEndToEnd(t *testing.T) {
	sheet := testutil.RedacaoSheet()
	for i := range sheet.Rows {
		sheet.Rows[i] = sheet.Rows[i][:len(sheet.Rows[i])-1]
	}

	cfg := config.Default()
	cfg.Data.SourcePath = testutil.WriteWorkbook(t, sheet)
	cfg.Data.Views = config.DefaultViews()
	logger, _ := testutil.NewTestLogger(t)
	svc := services.NewReportService(cfg, dataset.NewLoader(logger, nil), nil, logger)

	rec := doGet(t, newTestRouter(t, svc), "/api/report/redacao?regional=Regional+X")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", strings.Split(rec.Header().Get("Content-Type"), ";")[0])

	problem := decodeProblem(t, rec)
	assert.Equal(t, "MISSING_COLUMN", problem["error_code"])
	assert.Equal(t, float64(http.StatusUnprocessableEntity), problem["status"])
}

func TestGetTableCSVDelimiter(t *testing.T) {
	t.Run("comma", func(t *testing.T) {
		svc := new(MockReportService)
		svc.On("Build", mock.Anything).Return(sampleReport(), nil)

		rec := doGet(t, newTestRouter(t, svc), "/api/report/redacao/table.csv?regional=Regional+X&delimiter=comma")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `101,Escola A,"700,00"`)
	})

	t.Run("invalid", func(t *testing.T) {
		svc := new(MockReportService)
		rec := doGet(t, newTestRouter(t, svc), "/api/report/redacao/table.csv?regional=Regional+X&delimiter=pipe")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Build", mock.Anything)
	})
}
