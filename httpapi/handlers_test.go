package httpapi_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailauth"
	"github.com/dmitrymomot/mailauth/httpapi"
	"github.com/dmitrymomot/mailauth/pkg/dnscheck"
	"github.com/dmitrymomot/mailauth/pkg/dnsresolver"
	"github.com/dmitrymomot/mailauth/pkg/mailer"
	"github.com/dmitrymomot/mailauth/pkg/verifier"
)

type captureSender struct {
	sent []mailer.SendParams
}

func (c *captureSender) Send(_ context.Context, params mailer.SendParams) error {
	c.sent = append(c.sent, params)
	return nil
}

type apiTest struct {
	server   *httptest.Server
	store    *mailauth.MemoryStore
	resolver *dnsresolver.MockResolver
	mail     *captureSender
	cfg      dnscheck.Config
	token    string
	orgID    uuid.UUID
}

func newAPITest(t *testing.T) *apiTest {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	cfg := dnscheck.Config{
		SPFInclude:       "spf.mailauth.app",
		ReturnPathPrefix: "psrp",
		ReturnPathDomain: "rp.mailauth.app",
		MXRecords:        []string{"mx.mailauth.app"},
		DKIMKey:          key,
	}

	resolver := &dnsresolver.MockResolver{
		TXT:   map[string][]string{},
		CNAME: map[string]string{},
		MX:    map[string][]*net.MX{},
	}
	store := mailauth.NewMemoryStore()
	mail := &captureSender{}

	service := mailauth.NewService(
		store,
		verifier.New(resolver),
		dnscheck.NewChecker(cfg, resolver, nil),
		mail,
		nil,
	)

	orgID := uuid.New()
	apiKey, rawToken, err := mailauth.NewAPIKey(orgID, "test")
	require.NoError(t, err)
	require.NoError(t, store.CreateAPIKey(context.Background(), apiKey))

	server := httptest.NewServer(httpapi.NewHandler(service, store, nil).Router())
	t.Cleanup(server.Close)

	return &apiTest{
		server:   server,
		store:    store,
		resolver: resolver,
		mail:     mail,
		cfg:      cfg,
		token:    rawToken,
		orgID:    orgID,
	}
}

func (a *apiTest) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestAPI_Unauthorized(t *testing.T) {
	t.Parallel()

	a := newAPITest(t)

	resp, err := a.server.Client().Get(a.server.URL + "/domains")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, a.server.URL+"/domains", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer wrong-token")
	resp, err = a.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_CreateAndListDomains(t *testing.T) {
	t.Parallel()

	a := newAPITest(t)

	resp, body := a.do(t, http.MethodPost, "/domains", map[string]string{"name": "example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "example.com", data["name"])
	assert.Equal(t, "DNS", data["verification_method"])
	assert.Equal(t, false, data["verified"])
	assert.Len(t, data["verification_token"], 32)

	// Duplicate name within the organization.
	resp, _ = a.do(t, http.MethodPost, "/domains", map[string]string{"name": "example.com"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = a.do(t, http.MethodGet, "/domains", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].([]any), 1)
}

func TestAPI_CreateDomain_InvalidName(t *testing.T) {
	t.Parallel()

	a := newAPITest(t)

	resp, body := a.do(t, http.MethodPost, "/domains", map[string]string{"name": "not a domain"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestAPI_VerifyDNSFlow(t *testing.T) {
	t.Parallel()

	a := newAPITest(t)

	resp, body := a.do(t, http.MethodPost, "/domains", map[string]string{"name": "example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := body["data"].(map[string]any)["verification_token"].(string)

	// Token not yet published.
	resp, _ = a.do(t, http.MethodPost, "/domains/example.com/verify", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	a.resolver.TXT["example.com"] = []string{token}
	resp, _ = a.do(t, http.MethodPost, "/domains/example.com/verify", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = a.do(t, http.MethodGet, "/domains/example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["verified"])
	assert.NotContains(t, data, "verification_token")
}

func TestAPI_VerifyEmailFlow(t *testing.T) {
	t.Parallel()

	a := newAPITest(t)

	resp, _ := a.do(t, http.MethodPost, "/domains", map[string]string{
		"name":                "example.com",
		"verification_method": "Email",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Recipient outside the administrative set.
	resp, _ = a.do(t, http.MethodPost, "/domains/example.com/verify", map[string]string{
		"email_address": "someone@example.com",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = a.do(t, http.MethodPost, "/domains/example.com/verify", map[string]string{
		"email_address": "admin@example.com",
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Len(t, a.mail.sent, 1)
	code := a.mail.sent[0].Data.(map[string]string)["Code"]

	resp, _ = a.do(t, http.MethodPost, "/domains/example.com/verify", map[string]string{
		"verification_code": "wrong",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = a.do(t, http.MethodPost, "/domains/example.com/verify", map[string]string{
		"verification_code": code,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_CheckDNS(t *testing.T) {
	t.Parallel()

	a := newAPITest(t)

	resp, body := a.do(t, http.MethodPost, "/domains", map[string]string{"name": "example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := body["data"].(map[string]any)["verification_token"].(string)

	// Health checks require a verified domain.
	resp, _ = a.do(t, http.MethodPost, "/domains/example.com/check_dns", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	a.resolver.TXT["example.com"] = []string{
		token,
		"v=spf1 include:" + a.cfg.SPFInclude + " ~all",
	}
	a.resolver.TXT[dnscheck.DKIMSelector(token)+"._domainkey.example.com"] = []string{dnscheck.DKIMRecordValue(a.cfg)}
	a.resolver.CNAME["psrp.example.com"] = a.cfg.ReturnPathDomain + "."
	a.resolver.MX["example.com"] = []*net.MX{{Host: "mx.mailauth.app.", Pref: 10}}

	resp, _ = a.do(t, http.MethodPost, "/domains/example.com/verify", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = a.do(t, http.MethodPost, "/domains/example.com/check_dns", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["all_ok"])
	assert.Equal(t, "OK", data["spf"].(map[string]any)["status"])

	// The stored snapshot surfaces on the domain afterwards.
	resp, body = a.do(t, http.MethodGet, "/domains/example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	dns := body["data"].(map[string]any)["dns"].(map[string]any)
	assert.Equal(t, "OK", dns["mx_status"])
}

func TestAPI_DNSRecords(t *testing.T) {
	t.Parallel()

	a := newAPITest(t)

	resp, body := a.do(t, http.MethodPost, "/domains", map[string]string{"name": "example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := body["data"].(map[string]any)["verification_token"].(string)

	resp, _ = a.do(t, http.MethodGet, "/domains/example.com/dns_records", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	a.resolver.TXT["example.com"] = []string{token}
	resp, _ = a.do(t, http.MethodPost, "/domains/example.com/verify", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = a.do(t, http.MethodGet, "/domains/example.com/dns_records", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "example.com", data["domain"])
	spf := data["spf"].(map[string]any)
	assert.Equal(t, "TXT", spf["type"])
	assert.Contains(t, spf["value"], "include:spf.mailauth.app")
}

func TestAPI_DeleteDomain(t *testing.T) {
	t.Parallel()

	a := newAPITest(t)

	resp, _ := a.do(t, http.MethodPost, "/domains", map[string]string{"name": "example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = a.do(t, http.MethodDelete, "/domains/example.com", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = a.do(t, http.MethodGet, "/domains/example.com", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
