package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewConfigError("sheet \"Dados\" is missing column \"Nota\"", nil),
			want: "[CONFIG] sheet \"Dados\" is missing column \"Nota\"",
		},
		{
			name: "with cause",
			err:  NewStorageError("cannot open workbook", errors.New("permission denied")),
			want: "[STORAGE] cannot open workbook: permission denied",
		},
		{
			name: "not found",
			err:  NewNotFoundError("sheet Dados_Acesso"),
			want: "[NOT_FOUND] sheet Dados_Acesso not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := NewParsingError("malformed csv", cause)

	assert.ErrorIs(t, err, cause)
	assert.Nil(t, NewAppValidationError("bad").Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	err := NewConfigError("missing column", nil).
		WithContext("sheet", "Dados_Redação").
		WithContext("column", "1º Simulado: Nota")

	assert.Equal(t, "Dados_Redação", err.Context["sheet"])
	assert.Equal(t, "1º Simulado: Nota", err.ContextString("column"))
	assert.Empty(t, err.ContextString("absent"))

	bare := &AppError{Type: ErrTypeConfig}
	bare.WithContext("k", 1)
	assert.Equal(t, "1", bare.ContextString("k"))
}

func TestAppError_ErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("build report: %w", NewConfigError("missing column", nil))

	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, ErrTypeConfig, appErr.Type)
}

func TestConstructorsSetType(t *testing.T) {
	assert.Equal(t, ErrTypeParsing, NewParsingError("x", nil).Type)
	assert.Equal(t, ErrTypeStorage, NewStorageError("x", nil).Type)
	assert.Equal(t, ErrTypeValidation, NewAppValidationError("x").Type)
	assert.Equal(t, ErrTypeNotFound, NewNotFoundError("x").Type)
	assert.Equal(t, ErrTypeConfig, NewConfigError("x", nil).Type)
	assert.NotNil(t, NewAppError(ErrTypeConfig, "x", nil).Context)
}
