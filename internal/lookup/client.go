package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"certificate-service/internal/models"
)

// Client talks to the certificate-lookup and template-lookup webhook
// services. Both lookups are POSTs keyed by id and both answer with a JSON
// array; results are cached in-process so repeated renders of the same
// certificate or template skip the network.

// ErrNotFound is returned when the certificate lookup answers with an
// empty result set.
var ErrNotFound = errors.New("certificate not found")

type Client struct {
	baseURL   string
	http      *http.Client
	templates *gocache.Cache
	certs     *gocache.Cache
}

// New builds a client for the given lookup base URL. Templates change
// rarely and cache long; certificate records cache short.
func New(baseURL string, templateTTL, certTTL time.Duration) *Client {
	if templateTTL <= 0 {
		templateTTL = 10 * time.Minute
	}
	if certTTL <= 0 {
		certTTL = time.Minute
	}
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
		templates: gocache.New(templateTTL, 2*templateTTL),
		certs:     gocache.New(certTTL, 2*certTTL),
	}
}

// Certificate fetches one certificate record. An empty result set maps to
// ErrNotFound; transport and decoding problems are returned as-is.
func (c *Client) Certificate(ctx context.Context, id int) (*models.Certificate, error) {
	key := fmt.Sprintf("cert:%d", id)
	if cached, found := c.certs.Get(key); found {
		return cached.(*models.Certificate), nil
	}

	var records []models.Certificate
	if err := c.post(ctx, "/certificates/get", map[string]int{"id": id}, &records); err != nil {
		return nil, fmt.Errorf("certificate lookup: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}

	cert := &records[0]
	c.certs.Set(key, cert, gocache.DefaultExpiration)
	return cert, nil
}

// Template fetches one certificate template. Any failure, including an
// empty result set, is a plain error: the caller treats a missing template
// as a server-side fault, not a 404.
func (c *Client) Template(ctx context.Context, id int) (*models.CertificateTemplate, error) {
	key := fmt.Sprintf("tpl:%d", id)
	if cached, found := c.templates.Get(key); found {
		return cached.(*models.CertificateTemplate), nil
	}

	var records []models.CertificateTemplate
	if err := c.post(ctx, "/certificate-templates/get", map[string]int{"id": id}, &records); err != nil {
		return nil, fmt.Errorf("template lookup: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("template lookup: template %d missing from response", id)
	}

	tpl := &records[0]
	c.templates.Set(key, tpl, gocache.DefaultExpiration)
	return tpl, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Stats reports cache occupancy for the cache management endpoint.
func (c *Client) Stats() map[string]any {
	return map[string]any{
		"template_items":    c.templates.ItemCount(),
		"certificate_items": c.certs.ItemCount(),
	}
}

// Clear drops every cached lookup result.
func (c *Client) Clear() {
	c.templates.Flush()
	c.certs.Flush()
}
