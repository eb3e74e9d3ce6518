package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "Invalid request format", ErrInvalidRequest.Error())
	assert.Equal(t, "", (&APIError{}).Error())
}

func TestAPIError_Render(t *testing.T) {
	tests := []struct {
		name       string
		apiError   *APIError
		wantStatus int
	}{
		{"bad request", ErrInvalidRequest, http.StatusBadRequest},
		{"view not found", ErrViewNotFound, http.StatusNotFound},
		{"missing column", MissingColumnProblem("Dados_Redação", "Nota"), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/report/redacao", nil)

			require.NoError(t, render.Render(w, r, tt.apiError))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHelpers(t *testing.T) {
	err := InvalidRequestWithError(errors.New("bad query"))
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "bad query", err.Details)

	err = ErrValidation("regional", "is required")
	assert.Equal(t, ValidationError{Field: "regional", Message: "is required"}, err.Details)

	err = NotFoundError("View")
	assert.Equal(t, "View not found", err.Message)

	err = MissingColumnProblem("Dados_Objetivas", "Objetivas - 1º Simulado: Acertos (%)")
	assert.Equal(t, "MISSING_COLUMN", err.ErrorCode)
	assert.Contains(t, err.Message, "Objetivas - 1º Simulado: Acertos (%)")

	err = NewValidationErrors([]ValidationError{{Field: "view", Message: "unknown"}})
	assert.Len(t, err.Details.(ValidationErrors).Errors, 1)

	assert.Equal(t, http.StatusBadRequest, NewValidationError("x").StatusCode)
	assert.Equal(t, http.StatusInternalServerError, NewInternalError("x").StatusCode)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, ErrRateLimitExceeded)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", resp.Error.ErrorCode)
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusUnprocessableEntity, TypeMissingColumn, "Invalid Data Layout", "missing", "/api/report/redacao").
		WithExtension("column", "Nota").
		WithExtension("type", "ignored")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, TypeMissingColumn, out["type"], "standard members win over extensions")
	assert.Equal(t, float64(422), out["status"])
	assert.Equal(t, "Nota", out["column"])
	assert.Equal(t, "/api/report/redacao", out["instance"])

	bare := &ProblemDetails{Status: 500}
	bare.WithExtension("k", "v")
	data, err = json.Marshal(bare)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "detail")
}
