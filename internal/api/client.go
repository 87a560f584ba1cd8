// Package api is the HTTP client for the barnyard REST backend. It
// implements the boundary contracts the wizard engine consumes: reference
// data lookup, uniqueness checks, the acting-user context and the
// three-way discriminated submit.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stockline/herdctl/internal/form"
	"github.com/stockline/herdctl/internal/logger"
)

// Client talks to one barnyard deployment on behalf of one farm.
type Client struct {
	baseURL string
	token   string
	farmID  string
	httpc   *http.Client
}

// New creates a client. baseURL must include the scheme.
func New(baseURL, token, farmID string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		farmID:  farmID,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// FarmID returns the farm this client acts for.
func (c *Client) FarmID() string {
	return c.farmID
}

// FetchOptions returns selectable reference data of the given kind
// (breeds, medications, pigs, ...). An empty result is valid.
func (c *Client) FetchOptions(ctx context.Context, kind string, params map[string]string) ([]form.Option, error) {
	q := url.Values{}
	q.Set("farm", c.farmID)
	for k, v := range params {
		q.Set(k, v)
	}

	var body struct {
		Options []form.Option `json:"options"`
	}
	if err := c.getJSON(ctx, "/v1/options/"+url.PathEscape(kind)+"?"+q.Encode(), &body); err != nil {
		return nil, fmt.Errorf("fetching %s options: %w", kind, err)
	}
	return body.Options, nil
}

// CheckUnique asks the backend whether a candidate value already exists.
// Idempotent and side-effect-free on the server.
func (c *Client) CheckUnique(ctx context.Context, kind, value string) (bool, error) {
	q := url.Values{}
	q.Set("farm", c.farmID)
	q.Set("value", value)

	var body struct {
		Exists bool `json:"exists"`
	}
	if err := c.getJSON(ctx, "/v1/unique/"+url.PathEscape(kind)+"?"+q.Encode(), &body); err != nil {
		return false, fmt.Errorf("checking %s uniqueness: %w", kind, err)
	}
	return body.Exists, nil
}

// WhoAmI returns the acting-user context for audit stamping.
func (c *Client) WhoAmI(ctx context.Context) (form.User, error) {
	var user form.User
	if err := c.getJSON(ctx, "/v1/me", &user); err != nil {
		return form.User{}, fmt.Errorf("fetching acting user: %w", err)
	}
	return user, nil
}

// Submitter binds the client to one mutation endpoint, satisfying the
// engine's Submitter contract.
func (c *Client) Submitter(path string) form.Submitter {
	return &submitter{client: c, path: path}
}

type submitter struct {
	client *Client
	path   string
}

// submitRejection is the backend's wire shape for non-2xx submit bodies.
type submitRejection struct {
	Kind    string                 `json:"kind"`
	Details []form.RejectionDetail `json:"details"`
	Message string                 `json:"message"`
}

// Submit dispatches the finalized record and classifies the response into
// the engine's three-way outcome. Transport errors surface as errors;
// the orchestrator folds them into the generic path.
func (s *submitter) Submit(ctx context.Context, payload map[string]any) (*form.SubmitOutcome, error) {
	body, err := json.Marshal(map[string]any{
		"farm":   s.client.farmID,
		"record": payload,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.client.baseURL+s.path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	s.client.authorize(req)

	logger.Debug("Submitting record to %s", s.path)
	resp, err := s.client.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submitting record: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading submit response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var ok struct {
			Entity map[string]any `json:"entity"`
		}
		if err := json.Unmarshal(data, &ok); err != nil {
			return nil, fmt.Errorf("decoding submit response: %w", err)
		}
		return &form.SubmitOutcome{OK: true, Entity: ok.Entity}, nil
	}

	// 422 with a structured kind is the backend's business-rule channel.
	// Anything else, including an unparseable 422, is a generic failure.
	if resp.StatusCode == http.StatusUnprocessableEntity {
		var rej submitRejection
		if err := json.Unmarshal(data, &rej); err == nil && rej.Kind == form.KindBusinessRule {
			logger.Info("Submit rejected by business rule: %d detail(s)", len(rej.Details))
			return &form.SubmitOutcome{
				OK:      false,
				Kind:    form.KindBusinessRule,
				Details: rej.Details,
				Message: rej.Message,
			}, nil
		}
	}

	msg := strings.TrimSpace(string(data))
	if msg == "" {
		msg = resp.Status
	}
	logger.Warn("Submit failed: %s (%d)", msg, resp.StatusCode)
	return &form.SubmitOutcome{OK: false, Kind: form.KindError, Message: msg}, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
