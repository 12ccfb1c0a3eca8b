// Package backend talks to the platform REST API that owns organizations and plan-change requests.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"canna-backoffice-requests/internal/domain"
	"canna-backoffice-requests/internal/logger"
	"canna-backoffice-requests/internal/security"
)

const (
	serviceName     = "platform-backend"
	maxErrorBodyLen = 512
)

// Authenticator returns the bearer token attached to every request. A nil Authenticator sends none.
type Authenticator func() (string, error)

// ServiceTokenAuth signs a short-lived service token per request.
func ServiceTokenAuth(tm security.TokenManager, subject string, ttl time.Duration) Authenticator {
	return func() (string, error) {
		return tm.GenerateServiceToken(subject, ttl)
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       Authenticator
}

func NewClient(baseURL string, httpClient *http.Client, auth Authenticator) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		auth:       auth,
	}
}

func (c *Client) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	var orgs []domain.Organization
	if err := c.do(ctx, http.MethodGet, "/api/organizations", nil, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

func (c *Client) ListPlanChangeRequests(ctx context.Context) ([]domain.PlanChangeRequest, error) {
	var list domain.PlanChangeList
	if err := c.do(ctx, http.MethodGet, "/api/plan-change-requests", nil, &list); err != nil {
		return nil, err
	}
	if !list.Success {
		return nil, fmt.Errorf("backend reported failure listing plan-change requests")
	}
	return list.Requests, nil
}

// UpdateOrganizationStatus moves a registration to approved or rejected. The returned
// organization carries the access code when the backend issued one.
func (c *Client) UpdateOrganizationStatus(ctx context.Context, id int32, status domain.OrganizationStatus) (*domain.Organization, error) {
	var org domain.Organization
	path := fmt.Sprintf("/api/organizations/%d", id)
	if err := c.do(ctx, http.MethodPatch, path, domain.StatusUpdate{Status: status}, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

func (c *Client) ApprovePlanChange(ctx context.Context, organizationID, planID int32) (*domain.PlanChangeResult, error) {
	var res domain.PlanChangeResult
	body := domain.PlanChangeApproval{OrganizationID: organizationID, PlanID: planID}
	if err := c.do(ctx, http.MethodPost, "/api/plan-change-requests/approve", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) RejectPlanChange(ctx context.Context, organizationID int32) (*domain.PlanChangeResult, error) {
	var res domain.PlanChangeResult
	body := domain.PlanChangeRejection{OrganizationID: organizationID}
	if err := c.do(ctx, http.MethodPost, "/api/plan-change-requests/reject", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// do sends one JSON request. The response body is always read as text first and only then
// decoded, because failing endpoints do not reliably answer with JSON.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (err error) {
	op := method + " " + path
	logger.ExternalServiceCall(serviceName, op)
	defer func() { logger.ExternalServiceResult(serviceName, op, err) }()

	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.auth != nil {
		token, err := c.auth()
		if err != nil {
			return fmt.Errorf("failed to sign service token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response of %s: %w", op, err)
	}
	text := string(raw)
	logger.Debug("Backend response", "operation", op, "status", resp.StatusCode, "body", truncate(text, maxErrorBodyLen))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: truncate(text, maxErrorBodyLen)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &MalformedResponseError{Path: path, Raw: truncate(text, maxErrorBodyLen), Err: err}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
