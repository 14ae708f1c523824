// Package storageclient is the gateway's typed HTTP client for the storage
// service. Only the lookups the derived-analytics handlers need are typed;
// plain CRUD traffic goes through the reverse proxy instead.
package storageclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/LucasLorenaa/projeto-javer-services/shared/apperr"
	"github.com/LucasLorenaa/projeto-javer-services/shared/models"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// BaseURL exposes the storage address for the proxy handlers.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetClient fetches a client view. A 404 maps to apperr.ErrNotFound.
func (c *Client) GetClient(ctx context.Context, id int64) (*models.ClientView, error) {
	var view models.ClientView
	if err := c.getJSON(ctx, fmt.Sprintf("/clients/%d", id), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ListClientInvestments fetches a client's investments.
func (c *Client) ListClientInvestments(ctx context.Context, clienteID int64) ([]models.Investment, error) {
	var investments []models.Investment
	if err := c.getJSON(ctx, fmt.Sprintf("/investments/cliente/%d", clienteID), &investments); err != nil {
		return nil, err
	}
	return investments, nil
}

// TotalInvested fetches a client's active invested total. A 404 reports a
// zero total rather than an error.
func (c *Client) TotalInvested(ctx context.Context, clienteID int64) (*models.TotalInvestido, error) {
	var total models.TotalInvestido
	err := c.getJSON(ctx, fmt.Sprintf("/investments/cliente/%d/total", clienteID), &total)
	if err == apperr.ErrNotFound {
		return &models.TotalInvestido{ClienteID: clienteID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &total, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("storage request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperr.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("storage returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode storage response: %w", err)
	}
	return nil
}
