package studentapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/campusdesk/students/application/port/outbound"
	"github.com/campusdesk/students/domain"
	"github.com/campusdesk/students/infrastructure/http/middleware"
	"github.com/campusdesk/students/infrastructure/service/logger"
)

const maxResponseBytes = 1 << 20

// Client reads students from the internal endpoint of the student API,
// presenting a service token on every request.
type Client struct {
	baseURL      string
	serviceToken string
	httpClient   *http.Client
	logger       logger.Logger
}

var _ outbound.StudentSource = (*Client)(nil)

func NewClient(baseURL, serviceToken string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL:      baseURL,
		serviceToken: serviceToken,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       log,
	}
}

func (c *Client) FetchStudent(ctx context.Context, id int64) (*domain.Student, error) {
	url := c.baseURL + "/api/v1/internals/students/" + strconv.FormatInt(id, 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(middleware.ServiceTokenHeader, c.serviceToken)
	req.Header.Set("Accept", "application/json")
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		req.Header.Set(middleware.CorrelationIDHeader, cid)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", outbound.ErrStudentSourceUnavailable, err)
	}
	defer resp.Body.Close()

	logger.LogPerformance(ctx, c.logger, "student_api.fetch", time.Since(start), map[string]interface{}{
		"student_id": id,
		"status":     resp.StatusCode,
	})

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrStudentNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: api returned status code %d", outbound.ErrStudentSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", outbound.ErrStudentSourceUnavailable, err)
	}

	var student domain.Student
	if err := json.Unmarshal(body, &student); err != nil {
		return nil, fmt.Errorf("%w: failed to parse student: %w", outbound.ErrStudentSourceUnavailable, err)
	}
	return &student, nil
}
