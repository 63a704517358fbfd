package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/campusdesk/students/application/port/inbound"
	"github.com/campusdesk/students/application/port/outbound"
	"github.com/campusdesk/students/domain"
	"github.com/campusdesk/students/infrastructure/service/logger"
	"github.com/campusdesk/students/infrastructure/service/metrics"
)

type MockReportUseCase struct {
	mock.Mock
}

func (m *MockReportUseCase) GenerateStudentReport(ctx context.Context, id int64) (*inbound.StudentReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.StudentReport), args.Error(1)
}

func TestReportHandler_GenerateStudentReport(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		report         *inbound.StudentReport
		mockError      error
		expectedStatus int
		expectedBody   string
		expectedResult string
	}{
		{
			name: "pdf download",
			path: "/api/v1/students/7/report",
			report: &inbound.StudentReport{
				Filename:    "student_report_7.pdf",
				ContentType: "application/pdf",
				Content:     []byte("%PDF-1.3 fake"),
			},
			expectedStatus: http.StatusOK,
			expectedResult: reportResultOK,
		},
		{
			name:           "invalid id",
			path:           "/api/v1/students/abc/report",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"message":"Invalid student ID"}`,
		},
		{
			name:           "student missing upstream",
			path:           "/api/v1/students/7/report",
			mockError:      domain.ErrStudentNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"success":false,"message":"Student not found"}`,
			expectedResult: reportResultNotFound,
		},
		{
			name:           "upstream unavailable",
			path:           "/api/v1/students/7/report",
			mockError:      fmt.Errorf("%w: api returned status code 401", outbound.ErrStudentSourceUnavailable),
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"success":false,"message":"Failed to fetch student"}`,
			expectedResult: reportResultUpstream,
		},
		{
			name:           "render failure",
			path:           "/api/v1/students/7/report",
			mockError:      errors.New("failed to render report: boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"success":false,"message":"Failed to generate report"}`,
			expectedResult: reportResultFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockReportUseCase)
			if tt.report != nil || tt.mockError != nil {
				var report interface{}
				if tt.report != nil {
					report = tt.report
				}
				uc.On("GenerateStudentReport", mock.Anything, int64(7)).Return(report, tt.mockError)
			}
			base, _ := test.NewNullLogger()
			m := metrics.New(prometheus.NewRegistry())

			router := mux.NewRouter()
			NewReportHandler(uc, logger.NewFromLogrus(base, "test"), m).
				RegisterRoutes(router.PathPrefix("/api/v1").Subrouter())

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			}
			if tt.report != nil {
				assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
				assert.Equal(t, `attachment; filename="student_report_7.pdf"`, rec.Header().Get("Content-Disposition"))
				assert.Equal(t, tt.report.Content, rec.Body.Bytes())
			}
			if tt.expectedResult != "" {
				assert.Equal(t, 1.0, testutil.ToFloat64(m.ReportsGenerated.WithLabelValues(tt.expectedResult)))
			}
			uc.AssertExpectations(t)
		})
	}
}
