package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultAPIURL is the local proxy backend.
	DefaultAPIURL = "http://localhost:8080"

	// RequestTimeout bounds a single fetch.
	RequestTimeout = 15 * time.Second

	locationsPath     = "/api/get-satellite-locations"
	observatoriesPath = "/api/observatories"
)

// Fetch failure taxonomy. Every failure is terminal for that attempt;
// there is no retry.
var (
	// ErrTimeout: the bounded wait elapsed with no response.
	ErrTimeout = errors.New("request timed out, the service may be busy")

	// ErrUnreachable: transport failure with no response at all.
	ErrUnreachable = errors.New("could not reach the location service")
)

// ServerError is a response the service did return, carrying an error
// status or an error body.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("service error (status %d)", e.Status)
}

// Result is a successful fetch: parallel vertex and label arrays, or an
// informational message when the window held no data points.
type Result struct {
	Vertices [][3]float64 `json:"vertices"`
	Labels   []string     `json:"labels"`
	Message  string       `json:"message,omitempty"`
}

// Empty reports whether the result carries no data points.
func (r *Result) Empty() bool {
	return len(r.Vertices) == 0
}

// Observatory mirrors the catalog entries served by the backend.
type Observatory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client fetches satellite locations from the proxy backend.
type Client struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the backend base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets the fetch bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a backend client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultAPIURL,
		timeout: RequestTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c
}

// apiResponse is the raw wire shape: success fields plus the error field
// the backend sets on failure.
type apiResponse struct {
	Vertices [][3]float64 `json:"vertices"`
	Labels   []string     `json:"labels"`
	Message  string       `json:"message"`
	Error    string       `json:"error"`
}

// Fetch validates the parameters, then issues one GET against the
// locations endpoint. Validation failures never reach the network.
func (c *Client) Fetch(ctx context.Context, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("observatories", strings.Join(p.ObservatoryCodes(), ","))
	params.Set("start_time", FormatTime(p.Start))
	params.Set("end_time", FormatTime(p.End))
	params.Set("coordinate_system", strings.ToUpper(strings.TrimSpace(p.System)))
	params.Set("resolution_factor", strconv.Itoa(ResolutionFactor))

	body, status, err := c.get(ctx, c.baseURL+locationsPath+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ServerError{Status: status, Message: "malformed response from service"}
	}

	if resp.Error != "" {
		return nil, &ServerError{Status: status, Message: resp.Error}
	}
	if status < 200 || status > 299 {
		return nil, &ServerError{Status: status}
	}

	return &Result{
		Vertices: resp.Vertices,
		Labels:   resp.Labels,
		Message:  resp.Message,
	}, nil
}

// Observatories fetches the satellite name catalog.
func (c *Client) Observatories(ctx context.Context) ([]Observatory, error) {
	body, status, err := c.get(ctx, c.baseURL+observatoriesPath)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &ServerError{Status: status}
	}

	var list []Observatory
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, &ServerError{Status: status, Message: "malformed catalog response"}
	}
	return list, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, classifyTransportError(err)
	}

	return body, resp.StatusCode, nil
}

// classifyTransportError separates the timeout case from plain
// connectivity failure: the two get distinct user-facing messages.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return ErrTimeout
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
