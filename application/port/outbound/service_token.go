package outbound

import (
	"context"
	"time"
)

// ServiceIdentity is the decoded payload of a verified service token.
type ServiceIdentity struct {
	ID        string     `json:"id"`
	CSRFHMAC  string     `json:"csrf_hmac,omitempty"`
	Issuer    string     `json:"iss,omitempty"`
	Subject   string     `json:"sub,omitempty"`
	Audience  []string   `json:"aud,omitempty"`
	TokenID   string     `json:"jti,omitempty"`
	IssuedAt  *time.Time `json:"iat,omitempty"`
	NotBefore *time.Time `json:"nbf,omitempty"`
	ExpiresAt *time.Time `json:"exp,omitempty"`

	// Extra holds every other claim of the payload as decoded. Numbers are
	// json.Number.
	Extra map[string]interface{} `json:"extra,omitempty"`
}

// ServiceTokenVerifier checks a presented service token. Implementations must honour
// ctx cancellation so a slow verification only holds up its own request.
type ServiceTokenVerifier interface {
	Verify(ctx context.Context, token string) (*ServiceIdentity, error)
}

// ServiceTokenIssuer signs service tokens. A zero ttl keeps identity.ExpiresAt, so a
// token issued without either never expires.
type ServiceTokenIssuer interface {
	Issue(identity ServiceIdentity, ttl time.Duration) (string, error)
}
