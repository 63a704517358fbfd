package response

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/students/infrastructure/service/logger"
	"github.com/campusdesk/students/pkg/apierror"
)

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()

	Success(rec, http.StatusCreated, "Student added successfully", map[string]int{"id": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"message":"Student added successfully","students":{"id":1}}`, rec.Body.String())
}

func TestSuccess_EmptyListIsRendered(t *testing.T) {
	rec := httptest.NewRecorder()

	Success(rec, http.StatusOK, "", []string{})

	assert.JSONEq(t, `{"success":true,"students":[]}`, rec.Body.String())
}

func TestWriteError_CredentialErrorsLookIdentical(t *testing.T) {
	missing := httptest.NewRecorder()
	invalid := httptest.NewRecorder()

	WriteError(context.Background(), missing, nil, apierror.MissingCredential())
	WriteError(context.Background(), invalid, nil, apierror.InvalidCredential(errors.New("signature is invalid")))

	expected := `{"success":false,"message":"Unauthorized. Please provide a valid service token."}`
	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Equal(t, http.StatusUnauthorized, invalid.Code)
	assert.JSONEq(t, expected, missing.Body.String())
	assert.JSONEq(t, expected, invalid.Body.String())
}

func TestWriteError_UnknownErrorIsLoggedNotLeaked(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	log := logger.NewFromLogrus(base, "test")
	rec := httptest.NewRecorder()

	WriteError(context.Background(), rec, log, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq:")
	assert.JSONEq(t, `{"success":false,"message":"An unexpected error occurred"}`, rec.Body.String())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "pq: connection refused", entry.Data["error"])
}
