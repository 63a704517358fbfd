package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/students/application/port/outbound"
	"github.com/campusdesk/students/infrastructure/service/logger"
	"github.com/campusdesk/students/infrastructure/service/metrics"
)

type MockRateLimitService struct {
	mock.Mock
}

func (m *MockRateLimitService) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Get(1).(time.Duration), args.Error(2)
}

func nullLogger() logger.Logger {
	base, _ := test.NewNullLogger()
	return logger.NewFromLogrus(base, "test")
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name           string
		identity       *outbound.ServiceIdentity
		expectedKey    string
		allowed        bool
		retryAfter     time.Duration
		err            error
		expectedStatus int
		expectedRetry  string
	}{
		{"allowed by service id", &outbound.ServiceIdentity{ID: "svc-1"}, "service:svc-1", true, 0, nil, http.StatusOK, ""},
		{"falls back to client ip", nil, "ip:192.0.2.1", true, 0, nil, http.StatusOK, ""},
		{"limited", &outbound.ServiceIdentity{ID: "svc-1"}, "service:svc-1", false, 1500 * time.Millisecond, nil, http.StatusTooManyRequests, "2"},
		{"limiter error fails open", &outbound.ServiceIdentity{ID: "svc-1"}, "service:svc-1", false, 0, errors.New("redis down"), http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := new(MockRateLimitService)
			limiter.On("Allow", mock.Anything, tt.expectedKey, 10, time.Minute).Return(tt.allowed, tt.retryAfter, tt.err)
			mw := NewRateLimitMiddleware(limiter, nullLogger(), 10, time.Minute)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/students", nil)
			req.RemoteAddr = "192.0.2.1:54321"
			if tt.identity != nil {
				req = req.WithContext(WithServiceIdentity(req.Context(), tt.identity))
			}
			rec := httptest.NewRecorder()

			mw.RateLimit(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedRetry, rec.Header().Get("Retry-After"))
			if tt.expectedStatus == http.StatusTooManyRequests {
				assert.JSONEq(t, `{"success":false,"message":"Too many requests. Please try again later."}`, rec.Body.String())
			}
			limiter.AssertExpectations(t)
		})
	}
}

func TestRateLimit_NilServicePassesThrough(t *testing.T) {
	mw := NewRateLimitMiddleware(nil, nullLogger(), 10, time.Minute)
	rec := httptest.NewRecorder()

	mw.RateLimit(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCorrelationIDMiddleware(t *testing.T) {
	var seen string
	h := CorrelationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.CorrelationIDFromContext(r.Context())
	}))

	t.Run("propagates incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(CorrelationIDHeader, "abc-123")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(CorrelationIDHeader))
		assert.Equal(t, "abc-123", seen)
	})

	t.Run("generates id when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Len(t, rec.Header().Get(CorrelationIDHeader), 36)
		assert.Equal(t, rec.Header().Get(CorrelationIDHeader), seen)
	})
}

func TestCORSMiddleware(t *testing.T) {
	h := CORSMiddleware(okHandler(), []string{"http://admin.campusdesk.test"}, true)

	t.Run("preflight from allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/students", nil)
		req.Header.Set("Origin", "http://admin.campusdesk.test")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://admin.campusdesk.test", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), ServiceTokenHeader)
	})

	t.Run("preflight from unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/students", nil)
		req.Header.Set("Origin", "http://evil.test")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("simple request passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/students", nil)
		req.Header.Set("Origin", "http://admin.campusdesk.test")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Origin", rec.Header().Get("Vary"))
	})
}

func TestRequestLoggerAndRecovery(t *testing.T) {
	base, hook := test.NewNullLogger()
	log := logger.NewFromLogrus(base, "test")
	m := metrics.New(prometheus.NewRegistry())

	router := mux.NewRouter()
	router.Use(RequestLogger(log, m, true))
	router.Use(Recovery(log))
	router.HandleFunc("/api/v1/students/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)
	router.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/students/42", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "/api/v1/students/{id}", entry.Data["route"])
	assert.Equal(t, http.StatusNotFound, entry.Data["status"])
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal server error"}`, rec.Body.String())
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	assert.Equal(t, "10.0.0.9", getClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", getClientIP(req))
}

func TestDescribeClient(t *testing.T) {
	assert.Equal(t, "unknown", describeClient(""))
	assert.Contains(t, describeClient("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"), "Chrome on ")
}
