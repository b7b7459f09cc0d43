// Package poller fetches the current question state from the remote service.
package poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang-quizlink/internal/pkg/logging"
	"golang-quizlink/internal/port"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrConnectionUnavailable is returned when the network could not be
// (re)established before a poll. No request is issued in that case.
var ErrConnectionUnavailable = errors.New("connection unavailable")

// Question types.
const (
	TypeSingle   = "single"
	TypeMultiple = "multiple"
)

// maxBodySize bounds the response body read from the service.
const maxBodySize = 64 << 10

// Response is the question state published by the service.
type Response struct {
	Active     bool     `json:"active"`
	QuestionID string   `json:"question_id"`
	Type       string   `json:"type"`
	Answers    []string `json:"answers"`
}

// StatusError is returned for a non-2xx reply.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Config holds the endpoint and request settings.
type Config struct {
	URL       string
	Timeout   time.Duration
	UserAgent string
}

// Poller polls one endpoint, making sure the link is up before each request.
type Poller struct {
	cfg        Config
	conn       port.ConnectionManager
	httpClient *http.Client
	logger     *logrus.Entry
}

// New creates a poller. A nil httpClient uses http.DefaultClient and a nil
// logger uses the global one.
func New(cfg Config, conn port.ConnectionManager, httpClient *http.Client, logger *logrus.Entry) *Poller {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = logging.WithComponent("poller")
	}
	return &Poller{
		cfg:        cfg,
		conn:       conn,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Poll ensures connectivity and fetches the current response.
func (p *Poller) Poll(ctx context.Context) (*Response, error) {
	if !p.conn.EnsureConnected(ctx) {
		return nil, ErrConnectionUnavailable
	}

	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	requestID := uuid.NewString()
	logger := p.logger.WithField("request_id", requestID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if p.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", p.cfg.UserAgent)
	}

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}

	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"active":      result.Active,
		"question_id": result.QuestionID,
		"answers":     result.Answers,
		"duration":    time.Since(start).String(),
	}).Debug("Polled question state")
	return &result, nil
}
