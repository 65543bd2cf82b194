// Package graph is a Microsoft Graph drive client: OAuth2 client-credentials
// token acquisition, SharePoint site/drive resolution by name, and byte-level
// file download/upload. It satisfies the same storage contract as the blob
// client, so it can back the service as a drop-in alternate store.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/oauth2/clientcredentials"
)

const defaultBaseURL = "https://graph.microsoft.com/v1.0"

// Config carries the app registration and SharePoint coordinates.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	Host         string // e.g. contoso.sharepoint.com
	SiteName     string
	DriveName    string
}

// Client talks to one SharePoint document library. Site and drive IDs are
// resolved on first use and cached for the lifetime of the client.
type Client struct {
	http    *http.Client
	cfg     Config
	baseURL string

	mu      sync.Mutex
	siteID  string
	driveID string
}

// New builds a client whose HTTP transport injects client-credentials
// tokens. ctx is used for token refresh requests over the client's lifetime.
func New(ctx context.Context, cfg Config) *Client {
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID),
		Scopes:       []string{"https://graph.microsoft.com/.default"},
	}
	return &Client{http: cc.Client(ctx), cfg: cfg, baseURL: defaultBaseURL}
}

// SiteID resolves and caches the SharePoint site id.
func (c *Client) SiteID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.siteID != "" {
		return c.siteID, nil
	}

	var out struct {
		ID string `json:"id"`
	}
	u := fmt.Sprintf("%s/sites/%s:/sites/%s", c.baseURL, c.cfg.Host, url.PathEscape(c.cfg.SiteName))
	if err := c.getJSON(ctx, u, &out); err != nil {
		return "", fmt.Errorf("resolviendo sitio %q: %w", c.cfg.SiteName, err)
	}
	c.siteID = out.ID
	return c.siteID, nil
}

// DriveID resolves the document library by name, falling back to the site's
// default drive when no name matches.
func (c *Client) DriveID(ctx context.Context) (string, error) {
	siteID, err := c.SiteID(ctx)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.driveID != "" {
		return c.driveID, nil
	}

	var list struct {
		Value []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"value"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/sites/%s/drives", c.baseURL, siteID), &list); err != nil {
		return "", fmt.Errorf("listando drives: %w", err)
	}
	for _, d := range list.Value {
		if strings.EqualFold(d.Name, c.cfg.DriveName) {
			c.driveID = d.ID
			return c.driveID, nil
		}
	}

	var def struct {
		ID string `json:"id"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/sites/%s/drive", c.baseURL, siteID), &def); err != nil {
		return "", fmt.Errorf("resolviendo drive por defecto: %w", err)
	}
	c.driveID = def.ID
	return c.driveID, nil
}

// Download fetches a file by drive path. Graph exposes no blob generation,
// so the version token is always 0.
func (c *Client) Download(ctx context.Context, key string) ([]byte, int64, error) {
	resp, err := c.doContent(ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("leyendo %s: %w", key, err)
	}
	return data, 0, nil
}

// Upload replaces the file content. Graph drive writes are unconditional;
// the ifGeneration argument is accepted for contract compatibility and
// ignored.
func (c *Client) Upload(ctx context.Context, key string, data []byte, _ int64) error {
	resp, err := c.doContent(ctx, http.MethodPut, key, bytes.NewReader(data))
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// doContent hits /drives/{id}/root:/{path}:/content.
func (c *Client) doContent(ctx context.Context, method, key string, body io.Reader) (*http.Response, error) {
	driveID, err := c.DriveID(ctx)
	if err != nil {
		return nil, err
	}
	path := strings.TrimPrefix(key, "/")
	u := fmt.Sprintf("%s/drives/%s/root:/%s:/content", c.baseURL, driveID, path)

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, key, err)
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s %s: graph respondió %d: %s", method, key, resp.StatusCode, msg)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("graph respondió %d: %s", resp.StatusCode, msg)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
