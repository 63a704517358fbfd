package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/campusdesk/students/application/port/outbound"
	"github.com/campusdesk/students/infrastructure/http/response"
	"github.com/campusdesk/students/infrastructure/service/logger"
	"github.com/campusdesk/students/infrastructure/service/metrics"
	"github.com/campusdesk/students/infrastructure/service/servicetoken"
	"github.com/campusdesk/students/pkg/apierror"
)

// ServiceTokenHeader carries the signed token of the calling service
const ServiceTokenHeader = "x-service-token"

type contextKey string

// ServiceKey is the context key under which the verified identity is stored
const ServiceKey contextKey = "service"

type ServiceTokenMiddleware struct {
	verifier outbound.ServiceTokenVerifier
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewServiceTokenMiddleware builds the authenticator. m may be nil.
func NewServiceTokenMiddleware(verifier outbound.ServiceTokenVerifier, log logger.Logger, m *metrics.Metrics) *ServiceTokenMiddleware {
	return &ServiceTokenMiddleware{
		verifier: verifier,
		logger:   log,
		metrics:  m,
	}
}

// Authenticate extracts and verifies the service token of r. It returns
// apierror.MissingCredential or apierror.InvalidCredential on failure.
func (m *ServiceTokenMiddleware) Authenticate(r *http.Request) (*outbound.ServiceIdentity, error) {
	token := strings.TrimSpace(r.Header.Get(ServiceTokenHeader))
	if token == "" {
		return nil, apierror.MissingCredential()
	}

	identity, err := m.verifier.Verify(r.Context(), token)
	if err != nil {
		return nil, apierror.InvalidCredential(err)
	}
	return identity, nil
}

// RequireServiceToken rejects requests without a valid service token with 401
// and otherwise stores the identity under ServiceKey before calling next.
func (m *ServiceTokenMiddleware) RequireServiceToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		identity, err := m.Authenticate(r)
		if err != nil {
			m.reject(ctx, w, r, err)
			return
		}

		m.record(metrics.OutcomeAuthenticated)
		m.logger.Debug(ctx, "Service token accepted", map[string]interface{}{
			"service_id": identity.ID,
			"path":       r.URL.Path,
		})

		next.ServeHTTP(w, r.WithContext(WithServiceIdentity(ctx, identity)))
	})
}

func (m *ServiceTokenMiddleware) reject(ctx context.Context, w http.ResponseWriter, r *http.Request, err error) {
	outcome := metrics.OutcomeInvalid
	reason := servicetoken.Reason(err)
	if apierror.HasCode(err, apierror.CodeMissingCredential) {
		outcome = metrics.OutcomeMissing
		reason = "missing"
	}
	m.record(outcome)

	fields := map[string]interface{}{
		"reason": reason,
		"method": r.Method,
		"path":   r.URL.Path,
		"client": describeClient(r.UserAgent()),
	}
	logger.LogAuthEvent(ctx, m.logger, "service_token", "", getClientIP(r), false, fields)

	if reason == "signature_invalid" {
		logger.LogSecurityEvent(ctx, m.logger, "service_token_signature_invalid", "MEDIUM", map[string]interface{}{
			"ip":   getClientIP(r),
			"path": r.URL.Path,
		})
	}

	response.WriteError(ctx, w, nil, err)
}

func (m *ServiceTokenMiddleware) record(outcome string) {
	if m.metrics != nil {
		m.metrics.RecordServiceTokenCheck(outcome)
	}
}

// WithServiceIdentity returns a copy of ctx carrying identity
func WithServiceIdentity(ctx context.Context, identity *outbound.ServiceIdentity) context.Context {
	return context.WithValue(ctx, ServiceKey, identity)
}

// ServiceIdentityFromContext returns the identity stored by RequireServiceToken,
// or nil for requests that did not pass through it.
func ServiceIdentityFromContext(ctx context.Context) *outbound.ServiceIdentity {
	if identity, ok := ctx.Value(ServiceKey).(*outbound.ServiceIdentity); ok {
		return identity
	}
	return nil
}
