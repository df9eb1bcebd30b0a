package poseidon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/poseidon-tools/farmer/internal/domain"
	"github.com/poseidon-tools/farmer/internal/redact"
	"github.com/poseidon-tools/farmer/internal/request"
)

// defaultIPEchoURL is the unauthenticated third-party IP-echo service
// used for the per-account proxy diagnostic. It is unrelated to the
// main API.
const defaultIPEchoURL = "https://api.ipify.org?format=json"

// Config holds the gateway settings: the service location and the fixed
// small retry budget every typed operation runs with.
type Config struct {
	BaseURL string
	Retries int
	Backoff time.Duration
	Timeout time.Duration

	// IPEchoURL overrides the IP diagnostic endpoint; empty means the
	// public default.
	IPEchoURL string
}

// Client is the process-wide gateway handle. It carries no account
// state; use Account to bind a bearer token and proxy route.
type Client struct {
	cfg    Config
	exec   *request.Executor
	logger *slog.Logger
}

// NewClient creates a gateway client. The executor is shared; per-call
// retry budgets come from cfg.
func NewClient(cfg Config, exec *request.Executor, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL cannot be empty", ErrInvalidConfig)
	}
	if cfg.Retries < 1 {
		return nil, fmt.Errorf("%w: retries must be at least 1", ErrInvalidConfig)
	}
	if exec == nil {
		return nil, fmt.Errorf("%w: executor cannot be nil", ErrInvalidConfig)
	}
	if cfg.IPEchoURL == "" {
		cfg.IPEchoURL = defaultIPEchoURL
	}
	return &Client{cfg: cfg, exec: exec, logger: logger}, nil
}

// Account binds a bearer token and an optional proxy URI into an
// account-scoped client. An empty proxyURI means a direct connection.
func (c *Client) Account(token, proxyURI string) (*AccountClient, error) {
	transport, err := request.NewTransport(proxyURI)
	if err != nil {
		return nil, fmt.Errorf("building proxy transport for %s: %w", redact.ProxyURL(proxyURI), err)
	}
	return &AccountClient{c: c, token: token, transport: transport}, nil
}

// AccountClient performs the typed operations for one account, routing
// through that account's proxy.
type AccountClient struct {
	c         *Client
	token     string
	transport http.RoundTripper
}

// options builds the per-call request options. authenticated controls
// whether the bearer token is attached; the IP-echo call must not carry
// it.
func (a *AccountClient) options(authenticated bool) request.Options {
	token := ""
	if authenticated {
		token = a.token
	}
	return request.Options{
		Headers:   request.BrowserHeaders(token),
		Transport: a.transport,
		Timeout:   a.c.cfg.Timeout,
	}
}

func (a *AccountClient) get(ctx context.Context, rawURL string, authenticated bool) request.Result {
	return a.c.exec.Execute(ctx, http.MethodGet, rawURL, nil,
		a.options(authenticated), a.c.cfg.Retries, a.c.cfg.Backoff)
}

func (a *AccountClient) post(ctx context.Context, rawURL string, payload any) request.Result {
	body, err := json.Marshal(payload)
	if err != nil {
		return request.Result{Kind: request.FailureUnknown, Message: err.Error()}
	}
	opts := a.options(true)
	opts.Headers.Set("content-type", "application/json")
	return a.c.exec.Execute(ctx, http.MethodPost, rawURL, body,
		opts, a.c.cfg.Retries, a.c.cfg.Backoff)
}

// Profile fetches the account record. On failure it returns the
// sentinel unknown profile together with the error so callers can log
// it; the caller decides whether to continue.
func (a *AccountClient) Profile(ctx context.Context) (domain.Profile, error) {
	res := a.get(ctx, a.c.cfg.BaseURL+"/users/me", true)
	if !res.OK {
		return domain.UnknownProfile(), fmt.Errorf("%w: %s", ErrRequestFailed, res.Message)
	}

	var profile domain.Profile
	if err := res.Decode(&profile); err != nil {
		return domain.UnknownProfile(), fmt.Errorf("%w: decoding profile: %v", ErrRequestFailed, err)
	}
	if profile.Wallet == "" {
		profile.Wallet = "N/A"
	}
	return profile, nil
}

// Campaigns fetches up to 100 campaigns and filters them to the
// eligible set: scripted audio campaigns with at least one supported
// language. A failure here aborts further processing of the account, so
// the error result is explicit rather than a safe default.
func (a *AccountClient) Campaigns(ctx context.Context) ([]domain.Campaign, error) {
	res := a.get(ctx, a.c.cfg.BaseURL+"/campaigns?page=1&size=100", true)
	if !res.OK {
		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, res.Message)
	}

	var page campaignPage
	if err := res.Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: decoding campaigns: %v", ErrRequestFailed, err)
	}

	eligible := make([]domain.Campaign, 0, len(page.Items))
	for _, campaign := range page.Items {
		if campaign.Eligible() {
			eligible = append(eligible, campaign)
		}
	}
	return eligible, nil
}

// Quota fetches the remaining submission allowance for a campaign. On
// failure it returns an exhausted quota together with the error: a safe
// default that makes the workflow skip instead of loop.
func (a *AccountClient) Quota(ctx context.Context, campaignID string) (domain.Quota, error) {
	res := a.get(ctx, a.c.cfg.BaseURL+"/campaigns/"+campaignID+"/access", true)
	if !res.OK {
		return domain.Quota{}, fmt.Errorf("%w: %s", ErrRequestFailed, res.Message)
	}

	var quota domain.Quota
	if err := res.Decode(&quota); err != nil {
		return domain.Quota{}, fmt.Errorf("%w: decoding quota: %v", ErrRequestFailed, err)
	}
	return quota, nil
}

// NextScript fetches one script assignment for the language and
// campaign. A nil assignment means no work is available this attempt;
// the error is for logging only.
func (a *AccountClient) NextScript(ctx context.Context, languageCode, campaignID string) (*domain.ScriptAssignment, error) {
	query := url.Values{}
	query.Set("language_code", languageCode)
	query.Set("campaign_id", campaignID)

	res := a.get(ctx, a.c.cfg.BaseURL+"/scripts/next?"+query.Encode(), true)
	if !res.OK {
		return nil, fmt.Errorf("%w: %s", ErrNoScript, res.Message)
	}

	var wire scriptResponse
	if err := res.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: decoding script: %v", ErrNoScript, err)
	}

	assignment := &domain.ScriptAssignment{
		AssignmentID: wire.AssignmentID,
		Content:      wire.Script.Content,
	}
	if err := assignment.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoScript, err)
	}
	return assignment, nil
}

// PresignUpload requests a presigned upload slot for one artifact. A
// nil slot means the attempt failed.
func (a *AccountClient) PresignUpload(ctx context.Context, campaignID, fileName, assignmentID string) (*domain.PresignedSlot, error) {
	payload := presignRequest{
		ContentType:        domain.AudioContentType,
		FileName:           fileName,
		ScriptAssignmentID: assignmentID,
	}

	res := a.post(ctx, a.c.cfg.BaseURL+"/files/uploads/"+campaignID, payload)
	if !res.OK {
		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, res.Message)
	}

	var slot domain.PresignedSlot
	if err := res.Decode(&slot); err != nil {
		return nil, fmt.Errorf("%w: decoding presigned slot: %v", ErrRequestFailed, err)
	}
	return &slot, nil
}

// UploadBinary PUTs the raw audio bytes to the presigned URL. The
// upload goes direct: the presigned host is not the main API, so
// neither the bearer token nor the account proxy applies. Content
// length is set by the transport from the payload size.
func (a *AccountClient) UploadBinary(ctx context.Context, presignedURL string, payload []byte) error {
	headers := http.Header{}
	headers.Set("content-type", domain.AudioContentType)

	res := a.c.exec.Execute(ctx, http.MethodPut, presignedURL, payload,
		request.Options{Headers: headers, Timeout: a.c.cfg.Timeout},
		a.c.cfg.Retries, a.c.cfg.Backoff)
	if !res.OK {
		return fmt.Errorf("%w: %s", ErrRequestFailed, res.Message)
	}
	return nil
}

// ConfirmUpload finalizes a presigned upload server-side. A nil receipt
// means the upload must be counted failed even though the binary PUT
// succeeded.
func (a *AccountClient) ConfirmUpload(ctx context.Context, confirmation domain.UploadConfirmation) (*domain.UploadReceipt, error) {
	res := a.post(ctx, a.c.cfg.BaseURL+"/files", confirmation)
	if !res.OK {
		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, res.Message)
	}

	var receipt domain.UploadReceipt
	if err := res.Decode(&receipt); err != nil {
		return nil, fmt.Errorf("%w: decoding upload receipt: %v", ErrRequestFailed, err)
	}
	return &receipt, nil
}

// PublicIP resolves the account's egress address through its proxy via
// the IP-echo service. Diagnostic only; failures are non-fatal and the
// bearer token is deliberately stripped from this call.
func (a *AccountClient) PublicIP(ctx context.Context) (string, error) {
	res := a.get(ctx, a.c.cfg.IPEchoURL, false)
	if !res.OK {
		return "Unknown", fmt.Errorf("%w: %s", ErrRequestFailed, res.Message)
	}

	var echo ipResponse
	if err := res.Decode(&echo); err != nil || echo.IP == "" {
		return "Unknown", fmt.Errorf("%w: decoding IP response", ErrRequestFailed)
	}
	return echo.IP, nil
}
