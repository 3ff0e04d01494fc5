package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/seamark-lab/quartermaster/pkg/domain/model"
	"github.com/seamark-lab/quartermaster/pkg/domain/types"
	"github.com/seamark-lab/quartermaster/pkg/utils/logging"
	"github.com/seamark-lab/quartermaster/pkg/utils/safe"
)

// HTTPClient is the transport seam, satisfied by *http.Client
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the action dispatch client: the single gateway for every
// mutation the console performs. All invokers go through Execute, which
// normalizes transport failures, decodes the protocol envelope, and
// enforces the client-side signature precondition for SIGNED actions.
type Client struct {
	baseURL   string
	httpC     HTTPClient
	session   *model.Session
	signer    *SignatureBuilder
	gate      *Gate
	userAgent string

	cacheMu     sync.Mutex
	suggestions []*model.ActionSuggestion
	cachedAt    time.Time
	cacheTTL    time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the transport, mainly for tests
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) {
		c.httpC = hc
	}
}

// WithGate replaces the default role visibility rules
func WithGate(g *Gate) Option {
	return func(c *Client) {
		c.gate = g
	}
}

// WithSuggestionCacheTTL controls how long the action catalog fetched from
// GET /v1/actions is served from memory
func WithSuggestionCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// New builds a dispatch client bound to a server and a session
func New(baseURL string, session *model.Session, options ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		httpC:     &http.Client{Timeout: 30 * time.Second},
		session:   session,
		signer:    NewSignatureBuilder(session),
		gate:      NewGate(),
		userAgent: "quartermaster-client",
		cacheTTL:  5 * time.Minute,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Signer exposes the signature builder for flows that collect the signature
// at the signing step
func (c *Client) Signer() *SignatureBuilder {
	return c.signer
}

// Session returns the session the client was bound to
func (c *Client) Session() *model.Session {
	return c.session
}

// Execute dispatches one action. The session's yacht scope is merged into
// the context before the request is built; a yacht_id set by the caller
// wins. The contract is that Execute ALWAYS returns a non-nil result:
// transport failures and malformed responses are normalized into an
// error-status result so invoking components handle exactly one shape. The
// error return carries the underlying cause for logging only.
//
// A SIGNED action with no signature attached fails locally with
// SIGNATURE_REQUIRED before any network I/O. Resolving the variant needs the
// action catalog; when the catalog is unreachable the request goes to the
// wire and the server's signature check rejects it instead.
func (c *Client) Execute(ctx context.Context, actionID types.ActionID, entityContext map[string]string, payload map[string]any) (*model.ExecuteResult, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	entityContext = c.mergedContext(entityContext)

	if variant, ok := c.lookupVariant(ctx, actionID); ok && variant == types.ActionVariantSigned {
		if _, attached := payload[model.PayloadKeySignature]; !attached {
			return &model.ExecuteResult{
					Status:    types.ExecStatusError,
					Message:   "this action requires a signature",
					ErrorCode: types.ErrCodeSignatureRequired,
				}, goerr.New("signed action dispatched without signature",
					goerr.V("action_id", actionID))
		}
	}

	req := &model.ExecuteRequest{
		Action:  actionID,
		Context: entityContext,
		Payload: payload,
	}

	var result model.ExecuteResult
	if err := c.postJSON(ctx, "/v1/actions/execute", req, &result); err != nil {
		logging.From(ctx).Warn("action dispatch failed at transport",
			"action_id", actionID, "error", err)
		return &model.ExecuteResult{
			Status:    types.ExecStatusError,
			Message:   "request failed, please check your connection and try again",
			ErrorCode: types.ErrCodeInternalFailed,
		}, err
	}

	if result.Status == "" {
		result.Status = types.ExecStatusError
		result.Message = "malformed server response"
		result.ErrorCode = types.ErrCodeInternalFailed
	}
	return &result, nil
}

// Preview asks the server to describe what an execution would do. Preview is
// read-only on the server, so transient transport failures are retried with
// backoff; an execute never is.
func (c *Client) Preview(ctx context.Context, actionID types.ActionID, entityContext map[string]string, payload map[string]any) (*model.PreviewResult, error) {
	req := &model.ExecuteRequest{
		Action:  actionID,
		Context: c.mergedContext(entityContext),
		Payload: payload,
	}

	var result model.PreviewResult
	err := withBackoff(ctx, func() error {
		return c.postJSON(ctx, "/v1/actions/"+url.PathEscape(actionID.String())+"/preview", req, &result)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to preview action", goerr.V("action_id", actionID))
	}
	return &result, nil
}

// Suggestions returns the action catalog visible to the session's role,
// served from cache within the TTL. The server already filters by role; the
// local gate is applied again so a stale cache never widens visibility.
func (c *Client) Suggestions(ctx context.Context) ([]*model.ActionSuggestion, error) {
	all, err := c.allSuggestions(ctx)
	if err != nil {
		return nil, err
	}
	return c.gate.Filter(c.session.Role, all), nil
}

// Suggestion resolves one action from the catalog, nil when unknown or not
// visible to the session's role
func (c *Client) Suggestion(ctx context.Context, actionID types.ActionID) (*model.ActionSuggestion, error) {
	suggestions, err := c.Suggestions(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range suggestions {
		if s.ActionID == actionID {
			return s, nil
		}
	}
	return nil, nil
}

func (c *Client) allSuggestions(ctx context.Context) ([]*model.ActionSuggestion, error) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	if c.suggestions != nil && time.Since(c.cachedAt) < c.cacheTTL {
		return c.suggestions, nil
	}

	var resp struct {
		Actions []*model.ActionSuggestion `json:"actions"`
	}
	err := withBackoff(ctx, func() error {
		return c.getJSON(ctx, "/v1/actions", &resp)
	})
	if err != nil {
		// Serve a stale catalog over no catalog when we have one
		if c.suggestions != nil {
			return c.suggestions, nil
		}
		return nil, goerr.Wrap(err, "failed to fetch action catalog")
	}

	c.suggestions = resp.Actions
	c.cachedAt = time.Now()
	return c.suggestions, nil
}

// mergedContext copies the entity context and fills in the implicit session
// scope. Signatures are built over the merged context (flows merge at open),
// so the server's hash recomputation covers the same bytes the wire carries.
func (c *Client) mergedContext(entityContext map[string]string) map[string]string {
	merged := make(map[string]string, len(entityContext)+1)
	for k, v := range entityContext {
		merged[k] = v
	}
	if _, ok := merged["yacht_id"]; !ok && c.session != nil && c.session.YachtID != "" {
		merged["yacht_id"] = c.session.YachtID
	}
	return merged
}

// lookupVariant resolves the variant from the cached catalog. When the
// catalog is unavailable the check is skipped and the server enforces the
// signature requirement instead.
func (c *Client) lookupVariant(ctx context.Context, actionID types.ActionID) (types.ActionVariant, bool) {
	all, err := c.allSuggestions(ctx)
	if err != nil {
		return "", false
	}
	for _, s := range all {
		if s.ActionID == actionID {
			return s.Variant, true
		}
	}
	return "", false
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return goerr.Wrap(err, "failed to encode request body")
	}
	return c.doJSON(ctx, http.MethodPost, path, bytes.NewReader(encoded), out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return goerr.Wrap(err, "failed to build request", goerr.V("path", path))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil && c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.httpC.Do(req)
	if err != nil {
		return goerr.Wrap(err, "request failed", goerr.V("path", path))
	}
	defer safe.Close(ctx, resp.Body)

	// The execute endpoint encodes protocol errors in the body with non-2xx
	// statuses; those bodies decode into the caller's result type. Anything
	// without a decodable body is a transport-level failure.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return goerr.Wrap(err, "failed to read response", goerr.V("path", path))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return goerr.Wrap(err, "failed to decode response",
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode))
	}
	return nil
}
