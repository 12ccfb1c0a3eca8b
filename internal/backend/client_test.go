package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"unicode/utf8"

	"canna-backoffice-requests/internal/domain"
	"canna-backoffice-requests/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

func newTestServer(t *testing.T, status int, body string) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.Method = r.Method
		rec.Path = r.URL.Path
		rec.Auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.Body)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", srv.Client(), func() (string, error) { return "svc-token", nil }), rec
}

func TestClient_ListOrganizations(t *testing.T) {
	c, rec := newTestServer(t, http.StatusOK, `[
		{"id": 1, "name": "Acme Labs", "status": "pending", "createdAt": "2025-03-10T12:00:00Z"},
		{"id": 2, "status": "approved"}
	]`)

	orgs, err := c.ListOrganizations(context.Background())
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, http.MethodGet, rec.Method)
	assert.Equal(t, "/api/organizations", rec.Path)
	assert.Equal(t, "Bearer svc-token", rec.Auth)
	assert.Equal(t, "Acme Labs", orgs[0].Name)
	require.NotNil(t, orgs[0].CreatedAt)
	assert.Nil(t, orgs[1].CreatedAt)
}

func TestClient_ListPlanChangeRequests(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		c, _ := newTestServer(t, http.StatusOK, `{"success": true, "totalRequests": 1, "requests": [
			{"id": 7, "name": "Clínica", "currentPlanId": 1, "requestedPlanId": 3, "requestedPlanName": "Premium"}
		]}`)
		reqs, err := c.ListPlanChangeRequests(context.Background())
		require.NoError(t, err)
		require.Len(t, reqs, 1)
		assert.Equal(t, int32(3), reqs[0].RequestedPlanID)
	})

	t.Run("Unsuccessful envelope", func(t *testing.T) {
		c, _ := newTestServer(t, http.StatusOK, `{"success": false}`)
		_, err := c.ListPlanChangeRequests(context.Background())
		assert.Error(t, err)
	})
}

func TestClient_UpdateOrganizationStatus(t *testing.T) {
	c, rec := newTestServer(t, http.StatusOK, `{"id": 42, "status": "approved", "orgCode": "ORG-42"}`)

	org, err := c.UpdateOrganizationStatus(context.Background(), 42, domain.OrganizationStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, rec.Method)
	assert.Equal(t, "/api/organizations/42", rec.Path)
	assert.Equal(t, map[string]any{"status": "approved"}, rec.Body)
	assert.Equal(t, "ORG-42", org.OrgCode)
}

func TestClient_ApprovePlanChange(t *testing.T) {
	c, rec := newTestServer(t, http.StatusOK, `{"success": true, "modulesAdded": 4}`)

	res, err := c.ApprovePlanChange(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.Equal(t, "/api/plan-change-requests/approve", rec.Path)
	assert.Equal(t, map[string]any{"organizationId": float64(7), "planId": float64(3)}, rec.Body)
	assert.Equal(t, 4, res.ModulesAdded)
}

func TestClient_RejectPlanChange(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		c, rec := newTestServer(t, http.StatusOK, `{"success": true}`)
		_, err := c.RejectPlanChange(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "/api/plan-change-requests/reject", rec.Path)
		assert.Equal(t, map[string]any{"organizationId": float64(7)}, rec.Body)
	})

	t.Run("Malformed body", func(t *testing.T) {
		c, _ := newTestServer(t, http.StatusOK, `not json`)
		_, err := c.RejectPlanChange(context.Background(), 7)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedResponse)

		var mErr *MalformedResponseError
		require.True(t, errors.As(err, &mErr))
		assert.Equal(t, "not json", mErr.Raw)
		assert.Contains(t, err.Error(), "not json")
	})

	t.Run("Non-2xx", func(t *testing.T) {
		c, _ := newTestServer(t, http.StatusConflict, `<html>already processed</html>`)
		_, err := c.RejectPlanChange(context.Background(), 7)

		var sErr *StatusError
		require.True(t, errors.As(err, &sErr))
		assert.Equal(t, http.StatusConflict, sErr.StatusCode)
		assert.Contains(t, sErr.Body, "already processed")
	})
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, &http.Client{Timeout: time.Second}, nil)
	_, err := c.ListOrganizations(context.Background())
	require.Error(t, err)

	var sErr *StatusError
	assert.False(t, errors.As(err, &sErr))
}

func TestServiceTokenAuth(t *testing.T) {
	tm := security.NewTokenManager("0123456789abcdef0123456789abcdef")
	tok, err := ServiceTokenAuth(tm, "backoffice-requests", time.Minute)()
	require.NoError(t, err)

	claims, err := tm.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, security.TokenTypeService, claims.Type)
	assert.Equal(t, "backoffice-requests", claims.Subject)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "curto", truncate("curto", 10))

	// "ã" is two bytes; cutting at 4 would split it.
	got := truncate("Não autorizado", 2)
	assert.Equal(t, "N…", got)
	assert.True(t, utf8.ValidString(got))

	got = truncate("aprovação", 7)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "aprova…", got)
}
