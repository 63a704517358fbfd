// Package servicetoken signs and verifies the HS256 tokens that internal
// services present in the x-service-token header.
package servicetoken

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/campusdesk/students/application/port/outbound"
	"github.com/campusdesk/students/infrastructure/config"
)

var (
	ErrEmptySecret           = errors.New("service token secret must not be empty")
	ErrTokenMalformed        = errors.New("service token malformed")
	ErrTokenSignatureInvalid = errors.New("service token signature invalid")
	ErrTokenExpired          = errors.New("service token expired")
	ErrTokenNotYetValid      = errors.New("service token not yet valid")
	ErrMissingExpiry         = errors.New("service token has no expiry")
	ErrMissingIdentity       = errors.New("service token has no id claim")
	ErrVerificationTimeout   = errors.New("service token verification timed out")
)

const (
	claimID       = "id"
	claimCSRFHMAC = "csrf_hmac"
)

// reservedClaims are the keys mapped onto typed ServiceIdentity fields. Every
// other claim is carried in ServiceIdentity.Extra.
var reservedClaims = map[string]bool{
	claimID:       true,
	claimCSRFHMAC: true,
	"iss":         true,
	"sub":         true,
	"aud":         true,
	"jti":         true,
	"iat":         true,
	"nbf":         true,
	"exp":         true,
}

type Options struct {
	// RequireExpiry rejects tokens that carry no exp claim.
	RequireExpiry bool
	// Leeway tolerates clock skew when checking exp and nbf.
	Leeway time.Duration
	// Timeout bounds a single verification. Zero means no bound beyond the caller's context.
	Timeout time.Duration
	// Tracer defaults to the global provider.
	Tracer trace.Tracer
}

// Service holds the process-wide secret. It is immutable after construction and
// safe for concurrent use.
type Service struct {
	secret  []byte
	parser  *jwt.Parser
	timeout time.Duration
	tracer  trace.Tracer
}

var (
	_ outbound.ServiceTokenVerifier = (*Service)(nil)
	_ outbound.ServiceTokenIssuer   = (*Service)(nil)
)

func NewService(secret string, opts Options) (*Service, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithJSONNumber(),
	}
	if opts.Leeway > 0 {
		parserOpts = append(parserOpts, jwt.WithLeeway(opts.Leeway))
	}
	if opts.RequireExpiry {
		parserOpts = append(parserOpts, jwt.WithExpirationRequired())
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer("campusdesk/servicetoken")
	}

	return &Service{
		secret:  []byte(secret),
		parser:  jwt.NewParser(parserOpts...),
		timeout: opts.Timeout,
		tracer:  tracer,
	}, nil
}

func NewServiceFromConfig(cfg *config.Config) (*Service, error) {
	return NewService(cfg.ServiceTokenSecret, Options{
		RequireExpiry: cfg.ServiceTokenRequireExpiry,
		Leeway:        cfg.ServiceTokenLeeway,
		Timeout:       cfg.ServiceTokenVerifyTimeout,
	})
}

// Issue signs identity with HS256. A positive ttl sets exp relative to now and
// overrides identity.ExpiresAt; iat defaults to now. Extra claims are signed
// alongside the typed ones, which win on key collisions.
func (s *Service) Issue(identity outbound.ServiceIdentity, ttl time.Duration) (string, error) {
	if identity.ID == "" {
		return "", ErrMissingIdentity
	}

	claims := jwt.MapClaims{}
	for k, v := range identity.Extra {
		if !reservedClaims[k] {
			claims[k] = v
		}
	}

	now := time.Now()
	claims[claimID] = identity.ID
	claims["iat"] = jwt.NewNumericDate(now)
	if identity.IssuedAt != nil {
		claims["iat"] = jwt.NewNumericDate(*identity.IssuedAt)
	}
	if identity.CSRFHMAC != "" {
		claims[claimCSRFHMAC] = identity.CSRFHMAC
	}
	if identity.Issuer != "" {
		claims["iss"] = identity.Issuer
	}
	if identity.Subject != "" {
		claims["sub"] = identity.Subject
	}
	if len(identity.Audience) > 0 {
		claims["aud"] = jwt.ClaimStrings(identity.Audience)
	}
	if identity.TokenID != "" {
		claims["jti"] = identity.TokenID
	}
	if identity.NotBefore != nil {
		claims["nbf"] = jwt.NewNumericDate(*identity.NotBefore)
	}
	if identity.ExpiresAt != nil {
		claims["exp"] = jwt.NewNumericDate(*identity.ExpiresAt)
	}
	if ttl > 0 {
		claims["exp"] = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign service token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and time-based claims of token and returns the
// identity it carries. Errors wrap one of the package sentinels.
func (s *Service) Verify(ctx context.Context, token string) (identity *outbound.ServiceIdentity, err error) {
	ctx, span := s.tracer.Start(ctx, "servicetoken.Verify")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, Reason(err))
		} else {
			span.SetAttributes(attribute.String("service.id", identity.ID))
		}
		span.End()
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerificationTimeout, err)
	}

	type result struct {
		identity *outbound.ServiceIdentity
		err      error
	}
	done := make(chan result, 1)
	go func() {
		id, verr := s.verify(token)
		done <- result{id, verr}
	}()

	select {
	case r := <-done:
		return r.identity, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrVerificationTimeout, ctx.Err())
	}
}

func (s *Service) verify(tokenString string) (*outbound.ServiceIdentity, error) {
	claims := jwt.MapClaims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if !token.Valid {
		return nil, ErrTokenSignatureInvalid
	}

	return identityFromClaims(claims)
}

// identityFromClaims maps a verified payload onto a ServiceIdentity. Numbers
// arrive as json.Number, so a numeric id keeps its exact digits.
func identityFromClaims(claims jwt.MapClaims) (*outbound.ServiceIdentity, error) {
	identity := &outbound.ServiceIdentity{}

	switch id := claims[claimID].(type) {
	case nil:
	case string:
		identity.ID = id
	case json.Number:
		identity.ID = id.String()
	default:
		return nil, fmt.Errorf("%w: id claim must be a string or number", ErrTokenMalformed)
	}
	if identity.ID == "" {
		return nil, ErrMissingIdentity
	}

	var err error
	if identity.CSRFHMAC, err = stringClaim(claims, claimCSRFHMAC); err != nil {
		return nil, err
	}
	if identity.TokenID, err = stringClaim(claims, "jti"); err != nil {
		return nil, err
	}
	if identity.Issuer, err = claims.GetIssuer(); err != nil {
		return nil, classify(err)
	}
	if identity.Subject, err = claims.GetSubject(); err != nil {
		return nil, classify(err)
	}
	aud, err := claims.GetAudience()
	if err != nil {
		return nil, classify(err)
	}
	if len(aud) > 0 {
		identity.Audience = append([]string(nil), aud...)
	}

	iat, err := claims.GetIssuedAt()
	if err != nil {
		return nil, classify(err)
	}
	nbf, err := claims.GetNotBefore()
	if err != nil {
		return nil, classify(err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, classify(err)
	}
	identity.IssuedAt = timePtr(iat)
	identity.NotBefore = timePtr(nbf)
	identity.ExpiresAt = timePtr(exp)

	for k, v := range claims {
		if reservedClaims[k] {
			continue
		}
		if identity.Extra == nil {
			identity.Extra = make(map[string]interface{})
		}
		identity.Extra[k] = v
	}
	return identity, nil
}

func stringClaim(claims jwt.MapClaims, key string) (string, error) {
	switch v := claims[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %s claim must be a string", ErrTokenMalformed, key)
	}
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return fmt.Errorf("%w: %w", ErrTokenNotYetValid, err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return fmt.Errorf("%w: %w", ErrMissingExpiry, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrTokenSignatureInvalid, err)
	default:
		return fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}
}

// Reason returns a short, token-free label for a verification error, suitable
// for logs.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrVerificationTimeout):
		return "timeout"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenNotYetValid):
		return "not_yet_valid"
	case errors.Is(err, ErrMissingExpiry):
		return "missing_expiry"
	case errors.Is(err, ErrMissingIdentity):
		return "missing_id"
	case errors.Is(err, ErrTokenSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, ErrTokenMalformed):
		return "malformed"
	default:
		return "invalid"
	}
}

func timePtr(d *jwt.NumericDate) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time.UTC()
	return &t
}
