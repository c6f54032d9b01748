package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	id "veridesk/pkg/domain"
	"veridesk/pkg/platform/circuit"
	"veridesk/pkg/platform/sentinel"
)

const defaultTimeout = 15 * time.Second

// HTTPClient implements Client against the platform REST API. A circuit
// breaker guards the platform: once it opens, calls fail fast with
// sentinel.ErrUnavailable instead of piling up on a struggling upstream.
// After the breaker cooldown, probe requests flow again and a successful
// response closes it, so a recovered platform is picked up without a restart.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	breaker *circuit.Breaker
	tracer  trace.Tracer
	logger  *slog.Logger
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPDoer overrides the underlying HTTP client, mainly for tests.
func WithHTTPDoer(c *http.Client) HTTPOption {
	return func(h *HTTPClient) {
		h.http = c
	}
}

// WithBreaker overrides the default circuit breaker.
func WithBreaker(b *circuit.Breaker) HTTPOption {
	return func(h *HTTPClient) {
		h.breaker = b
	}
}

// NewHTTPClient creates a platform API client rooted at baseURL.
func NewHTTPClient(baseURL string, logger *slog.Logger, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		breaker: circuit.New("platform-api"),
		tracer:  otel.Tracer("veridesk/backend"),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// Auth
// =============================================================================

type loginResponse struct {
	Token Token `json:"token"`
}

func (c *HTTPClient) LoginAdmin(ctx context.Context, creds Credentials) (Token, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login/admin", "", creds, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *HTTPClient) LoginClient(ctx context.Context, creds Credentials) (Token, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login/client", "", creds, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// =============================================================================
// Profiles
// =============================================================================

func (c *HTTPClient) AdminProfile(ctx context.Context, token Token) (AdminProfile, error) {
	var profile AdminProfile
	err := c.do(ctx, http.MethodGet, "/admin/profile", token, nil, &profile)
	return profile, err
}

func (c *HTTPClient) ClientProfile(ctx context.Context, token Token) (ClientProfile, error) {
	var profile ClientProfile
	err := c.do(ctx, http.MethodGet, "/clients/profile", token, nil, &profile)
	return profile, err
}

// =============================================================================
// Applicants
// =============================================================================

func (c *HTTPClient) ListApplicants(ctx context.Context, token Token, params ListParams) (ApplicantPage, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.SearchText != "" {
		q.Set("searchText", params.SearchText)
	}
	path := "/applicants"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var page ApplicantPage
	err := c.do(ctx, http.MethodGet, path, token, nil, &page)
	return page, err
}

func (c *HTTPClient) GetApplicant(ctx context.Context, token Token, applicantID id.ApplicantID) (Applicant, error) {
	var a Applicant
	err := c.do(ctx, http.MethodGet, "/applicants/"+applicantID.String(), token, nil, &a)
	return a, err
}

func (c *HTTPClient) CreateApplicant(ctx context.Context, token Token, payload NewApplicant) (Applicant, error) {
	var a Applicant
	err := c.do(ctx, http.MethodPost, "/applicants", token, payload, &a)
	return a, err
}

func (c *HTTPClient) UpdateApplicant(ctx context.Context, token Token, applicantID id.ApplicantID, payload ApplicantUpdate) (Applicant, error) {
	var a Applicant
	err := c.do(ctx, http.MethodPatch, "/applicants/"+applicantID.String(), token, payload, &a)
	return a, err
}

func (c *HTTPClient) DeleteApplicant(ctx context.Context, token Token, applicantID id.ApplicantID) error {
	return c.do(ctx, http.MethodDelete, "/applicants/"+applicantID.String(), token, nil, nil)
}

// =============================================================================
// Flows
// =============================================================================

func (c *HTTPClient) ListFlows(ctx context.Context, token Token) ([]Flow, error) {
	var flows []Flow
	err := c.do(ctx, http.MethodGet, "/flows", token, nil, &flows)
	return flows, err
}

func (c *HTTPClient) GetFlow(ctx context.Context, token Token, flowID id.FlowID) (Flow, error) {
	var f Flow
	err := c.do(ctx, http.MethodGet, "/flows/"+flowID.String(), token, nil, &f)
	return f, err
}

func (c *HTTPClient) CreateFlow(ctx context.Context, token Token, payload NewFlow) (Flow, error) {
	var f Flow
	err := c.do(ctx, http.MethodPost, "/flows", token, payload, &f)
	return f, err
}

func (c *HTTPClient) UpdateFlow(ctx context.Context, token Token, flowID id.FlowID, payload FlowUpdate) (Flow, error) {
	var f Flow
	err := c.do(ctx, http.MethodPatch, "/flows/"+flowID.String(), token, payload, &f)
	return f, err
}

func (c *HTTPClient) DeleteFlow(ctx context.Context, token Token, flowID id.FlowID) error {
	return c.do(ctx, http.MethodDelete, "/flows/"+flowID.String(), token, nil, nil)
}

// =============================================================================
// Verification results and statistics
// =============================================================================

func (c *HTTPClient) VerificationResults(ctx context.Context, token Token, applicantID id.ApplicantID) ([]VerificationResult, error) {
	var results []VerificationResult
	err := c.do(ctx, http.MethodGet, "/verification-results?applicantId="+url.QueryEscape(applicantID.String()), token, nil, &results)
	return results, err
}

func (c *HTTPClient) Stats(ctx context.Context, token Token) (Stats, error) {
	var stats Stats
	err := c.do(ctx, http.MethodGet, "/stats", token, nil, &stats)
	return stats, err
}

// =============================================================================
// Transport
// =============================================================================

// do executes one platform call: span, breaker check, JSON round trip,
// status mapping. out may be nil for calls without a response body.
func (c *HTTPClient) do(ctx context.Context, method, path string, token Token, in, out any) error {
	ctx, span := c.tracer.Start(ctx, "platform."+method+" "+routePattern(path),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", routePattern(path)),
		),
	)
	defer span.End()

	if c.breaker.IsOpen() {
		span.SetStatus(codes.Error, "circuit open")
		return fmt.Errorf("platform api %s %s: %w", method, path, sentinel.ErrUnavailable)
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode platform request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build platform request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+string(token))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.recordFailure(span)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("platform api %s %s: %w", method, path, sentinel.ErrUnavailable)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= 500 {
		c.recordFailure(span)
	} else {
		c.recordSuccess()
	}

	if err := statusError(resp.StatusCode); err != nil {
		span.SetStatus(codes.Error, resp.Status)
		return fmt.Errorf("platform api %s %s: %w", method, path, err)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode platform response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) recordFailure(span trace.Span) {
	if _, change := c.breaker.RecordFailure(); change.Opened {
		span.AddEvent("circuit opened")
		c.logger.Warn("platform api circuit opened", "breaker", c.breaker.Name())
	}
}

func (c *HTTPClient) recordSuccess() {
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.Info("platform api circuit closed", "breaker", c.breaker.Name())
	}
}

// statusError maps a platform HTTP status to a sentinel error. 2xx maps to
// nil; unknown client errors map to ErrInvalidState so callers still get a
// typed failure.
func statusError(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return sentinel.ErrUnauthorized
	case status == http.StatusNotFound:
		return sentinel.ErrNotFound
	case status == http.StatusConflict:
		return sentinel.ErrConflict
	case status >= 500:
		return sentinel.ErrUnavailable
	default:
		return sentinel.ErrInvalidState
	}
}

// routePattern strips query strings and per-resource ids from a path so span
// names stay low-cardinality.
func routePattern(path string) string {
	path, _, _ = strings.Cut(path, "?")
	for _, prefix := range []string{"/applicants/", "/flows/"} {
		if strings.HasPrefix(path, prefix) {
			return strings.TrimSuffix(prefix, "/") + "/{id}"
		}
	}
	return path
}
