package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dionizioaf/opensheets-app-sub000/src/logger"
	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
	"github.com/Dionizioaf/opensheets-app-sub000/src/services"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	m.Run()
}

func TestWriteImportErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			"field validation",
			&models.FieldValidationError{Field: "mapping", Message: "a column mapping is required for delimited files"},
			http.StatusBadRequest,
			"mapping",
		},
		{
			"rate limited",
			fmt.Errorf("%w: 6 imports in 1h", services.ErrRateLimited),
			http.StatusTooManyRequests,
			"rate",
		},
		{
			// An empty-but-valid statement keeps its own message even
			// after the service wraps it as a parsing failure.
			"no transactions",
			fmt.Errorf("%w: %w", services.ErrParsingFailed, models.ErrNoTransactions),
			http.StatusBadRequest,
			"contains no transactions",
		},
		{
			"parse failure",
			fmt.Errorf("%w: %w", services.ErrParsingFailed, models.ErrInvalidFile),
			http.StatusBadRequest,
			"Error parsing statement file",
		},
		{
			"processing failure",
			fmt.Errorf("%w: duplicate detection: boom", services.ErrProcessingFailed),
			http.StatusBadRequest,
			"Error processing statement transactions",
		},
		{
			"unknown error",
			fmt.Errorf("disk on fire"),
			http.StatusInternalServerError,
			"internal error",
		},
	}

	h := &ImportHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.writeImportError(rec, 7, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMessage)
		})
	}
}
