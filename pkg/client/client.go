// Package client is a Go client for the incident-board API. It caches
// listing and detail responses keyed by their exact request parameters,
// invalidates the cache on any successful mutation, and guards against
// stale listing responses overwriting newer ones when requests race.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// Client talks to the incident-board API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter

	mu          sync.Mutex
	listCache   map[string]*IncidentPage
	detailCache map[string]*Incident
	current     *IncidentPage // last listing applied, kept while newer requests are in flight
	listGen     uint64        // generation of the most recently started listing request
	appliedGen  uint64        // generation of the most recently applied listing response
	flushGen    uint64        // listing generations at or below this are discarded
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// New creates a new API client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  http.DefaultClient,
		listCache:   make(map[string]*IncidentPage),
		detailCache: make(map[string]*Incident),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns one page of incidents. Identical parameter sets are
// served from cache. When concurrent listing requests race, only the
// most recently issued one may update Current; earlier responses are
// still returned to their callers but do not touch shared state.
func (c *Client) List(ctx context.Context, opts ListOptions) (*IncidentPage, error) {
	key := opts.values().Encode()

	c.mu.Lock()
	if page, ok := c.listCache[key]; ok {
		// A cache hit is the newest request; older in-flight
		// responses must not displace it.
		c.appliedGen = c.listGen
		c.current = page
		c.mu.Unlock()
		return page, nil
	}
	c.listGen++
	gen := c.listGen
	c.mu.Unlock()

	var page IncidentPage
	err := c.do(ctx, http.MethodGet, "/api/incidents?"+key, nil, &page)
	if err != nil {
		// The previous listing stays current so callers can keep
		// rendering it alongside the error state.
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen > c.flushGen {
		c.listCache[key] = &page
		if gen > c.appliedGen {
			c.appliedGen = gen
			c.current = &page
		}
	}
	return &page, nil
}

// Current returns the most recently applied listing, or nil if none
// has completed yet. It is retained across failed and superseded
// requests.
func (c *Client) Current() *IncidentPage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Get returns a single incident by id, from cache when possible.
func (c *Client) Get(ctx context.Context, id string) (*Incident, error) {
	c.mu.Lock()
	if incident, ok := c.detailCache[id]; ok {
		c.mu.Unlock()
		return incident, nil
	}
	c.mu.Unlock()

	var incident Incident
	if err := c.do(ctx, http.MethodGet, "/api/incidents/"+id, nil, &incident); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.detailCache[id] = &incident
	c.mu.Unlock()
	return &incident, nil
}

// Create creates a new incident and invalidates all listing cache
// entries, since the new record may appear on any page or filter.
func (c *Client) Create(ctx context.Context, input CreateIncidentInput) (*Incident, error) {
	var incident Incident
	if err := c.do(ctx, http.MethodPost, "/api/incidents", input, &incident); err != nil {
		return nil, err
	}
	c.invalidate(incident.ID)
	return &incident, nil
}

// Update applies a partial update and invalidates the detail entry and
// all listing cache entries.
func (c *Client) Update(ctx context.Context, id string, input UpdateIncidentInput) (*Incident, error) {
	var incident Incident
	if err := c.do(ctx, http.MethodPatch, "/api/incidents/"+id, input, &incident); err != nil {
		return nil, err
	}
	c.invalidate(id)
	return &incident, nil
}

// invalidate drops the detail entry for id and every listing entry.
// In-flight listing requests started before the mutation are flushed
// too: their responses may predate the write.
func (c *Client) invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.detailCache, id)
	c.listCache = make(map[string]*IncidentPage)
	c.flushGen = c.listGen
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// decodeError maps an error response onto the client error taxonomy:
// ErrNotFound, ValidationError or APIError.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	var envelope struct {
		Error struct {
			Message string          `json:"message"`
			Details json.RawMessage `json:"details"`
		} `json:"error"`
	}
	message := http.StatusText(resp.StatusCode)
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		message = envelope.Error.Message
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		verr := &ValidationError{Message: message}
		if len(envelope.Error.Details) > 0 {
			// details is either a list of field errors or a plain string
			if err := json.Unmarshal(envelope.Error.Details, &verr.Fields); err != nil {
				var detail string
				if json.Unmarshal(envelope.Error.Details, &detail) == nil && detail != "" {
					verr.Message = detail
				}
			}
		}
		return verr
	default:
		return &APIError{Status: resp.StatusCode, Message: message}
	}
}
