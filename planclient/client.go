// Package planclient talks to the plan analysis service, which takes an
// uploaded floor plan and returns the rooms it could identify.
package planclient

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const analyzePath = "/api/plan/upload"

var (
	// ErrUpstream marks failures of the analysis service itself.
	ErrUpstream = errors.New("plan analysis failed")
	// ErrInvalidResponse marks a 2xx response whose body is not a plan analysis.
	ErrInvalidResponse = errors.New("plan analysis returned an invalid response")
)

//go:embed analysis.schema.json
var analysisSchemaJSON []byte

var analysisSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("analysis.schema.json", bytes.NewReader(analysisSchemaJSON)); err != nil {
		panic(fmt.Sprintf("planclient: add schema: %v", err))
	}
	schema, err := compiler.Compile("analysis.schema.json")
	if err != nil {
		panic(fmt.Sprintf("planclient: compile schema: %v", err))
	}
	return schema
}

// Options tunes the HTTP client.
type Options struct {
	Timeout time.Duration
	Retries int
	// RetryWait is the initial backoff between retries. Zero means one second.
	RetryWait time.Duration
}

// Client calls the plan analysis service.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

func New(baseURL string, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = time.Second
	}

	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(opts.RetryWait).
		SetRetryMaxWaitTime(5*opts.RetryWait).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: rc, logger: logger}
}

type analyzeRequest struct {
	FileURL string `json:"file_url"`
}

// Analyze asks the service to read the plan at fileURL. Any non-2xx status
// is a failure.
func (c *Client) Analyze(ctx context.Context, fileURL string) (*Analysis, error) {
	c.logger.Info("plan_client: analyzing plan", "file_url", fileURL)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(analyzeRequest{FileURL: fileURL}).
		Post(analyzePath)
	if err != nil {
		c.logger.Error("plan_client: request failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if !resp.IsSuccess() {
		c.logger.Error("plan_client: service returned error", "status", resp.StatusCode(), "body", snippet(resp.Body()))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode(), snippet(resp.Body()))
	}

	analysis, err := decodeAnalysis(resp.Body())
	if err != nil {
		c.logger.Error("plan_client: unusable response", "error", err)
		return nil, err
	}

	c.logger.Info("plan_client: plan analyzed", "rooms", len(analysis.Detected))
	return analysis, nil
}

// decodeAnalysis validates body against the analysis schema and decodes it.
func decodeAnalysis(body []byte) (*Analysis, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if m, ok := payload.(map[string]any); ok {
		if msg, ok := m["error"].(string); ok {
			return nil, fmt.Errorf("%w: %s", ErrUpstream, msg)
		}
	}
	if err := analysisSchema.Validate(payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	var a Analysis
	if err := json.Unmarshal(body, &a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return &a, nil
}

func snippet(b []byte) string {
	const limit = 200
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
