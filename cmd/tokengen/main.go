// Package main issues service tokens for callers of the student API.
// The token is signed with SERVICE_TOKEN_SECRET and is sent in the
// x-service-token header.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/campusdesk/students/application/port/outbound"
	"github.com/campusdesk/students/infrastructure/config"
	"github.com/campusdesk/students/infrastructure/http/middleware"
	"github.com/campusdesk/students/infrastructure/service/csrf"
	"github.com/campusdesk/students/infrastructure/service/servicetoken"
)

const defaultServiceID = "golang-service"

type tokenOutput struct {
	Token     string            `json:"token"`
	ServiceID string            `json:"service_id"`
	ExpiresIn string            `json:"expires_in"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
	CSRFToken string            `json:"csrf_token,omitempty"`
	CSRFHMAC  string            `json:"csrf_hmac,omitempty"`
	Usage     map[string]string `json:"usage"`
}

type options struct {
	serviceID string
	ttl       time.Duration
	withCSRF  bool
}

func main() {
	cfg, err := config.LoadTokenIssuer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	serviceID := flag.String("id", defaultServiceID, "service identity placed in the id claim")
	ttl := flag.Duration("ttl", cfg.ServiceTokenTTL, "token time-to-live, 0 for a token without expiry")
	withCSRF := flag.Bool("csrf", true, "generate a CSRF token and embed its HMAC as csrf_hmac")
	jsonOutput := flag.Bool("json", false, "output as JSON")
	flag.Parse()

	out, err := generate(cfg, options{serviceID: *serviceID, ttl: *ttl, withCSRF: *withCSRF}, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if *jsonOutput {
		printJSON(out)
		return
	}

	fmt.Println("Service Token (HS256)")
	fmt.Println("=====================")
	fmt.Printf("Service ID:  %s\n", out.ServiceID)
	fmt.Printf("Expires In:  %s\n", out.ExpiresIn)
	if out.CSRFToken != "" {
		fmt.Printf("CSRF Token:  %s\n", out.CSRFToken)
		fmt.Printf("CSRF HMAC:   %s\n", out.CSRFHMAC)
	}
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(out.Token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  curl -H \"%s: <token>\" http://localhost:5007/api/v1/students\n", middleware.ServiceTokenHeader)
}

func generate(cfg *config.Config, opts options, now time.Time) (*tokenOutput, error) {
	if opts.ttl < 0 {
		return nil, fmt.Errorf("ttl must not be negative: %s", opts.ttl)
	}

	issuer, err := servicetoken.NewService(cfg.ServiceTokenSecret, servicetoken.Options{})
	if err != nil {
		return nil, err
	}

	issuedAt := now.UTC().Truncate(time.Second)
	identity := outbound.ServiceIdentity{ID: opts.serviceID, IssuedAt: &issuedAt}
	out := &tokenOutput{
		ServiceID: opts.serviceID,
		ExpiresIn: "never",
		Usage: map[string]string{
			"header": middleware.ServiceTokenHeader + ": <token>",
		},
	}

	if opts.withCSRF {
		out.CSRFToken = csrf.NewToken()
		out.CSRFHMAC, err = csrf.Sign(out.CSRFToken, cfg.CSRFSecret)
		if err != nil {
			return nil, fmt.Errorf("sign csrf token: %w", err)
		}
		identity.CSRFHMAC = out.CSRFHMAC
	}

	if opts.ttl > 0 {
		expiresAt := issuedAt.Add(opts.ttl)
		identity.ExpiresAt = &expiresAt
		out.ExpiresAt = &expiresAt
		out.ExpiresIn = opts.ttl.String()
	}

	// ttl is already folded into identity.ExpiresAt
	out.Token, err = issuer.Issue(identity, 0)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
