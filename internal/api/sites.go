package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bloghouse/tatame/internal/querycache"
)

// Site is a WordPress site hosted on the platform.
type Site struct {
	ID        string    `json:"id"`
	Domain    string    `json:"domain"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	VPSID     string    `json:"vpsId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateSiteRequest holds the fields for a new site.
type CreateSiteRequest struct {
	Domain string `json:"domain"`
	Title  string `json:"title"`
}

// UpdateSiteRequest holds the mutable fields of a site.
type UpdateSiteRequest struct {
	Title  string `json:"title,omitempty"`
	Status string `json:"status,omitempty"`
}

// ListSites returns the caller's WordPress sites.
func (c *Client) ListSites(ctx context.Context) ([]Site, error) {
	var sites []Site
	err := c.getCached(ctx, "/api/wordpress/sites", "sites:list", &sites, querycache.TagSites)
	return sites, err
}

// GetSite returns one site by id.
func (c *Client) GetSite(ctx context.Context, id string) (*Site, error) {
	var site Site
	key := "sites:get:" + id
	err := c.getCached(ctx, "/api/wordpress/sites/"+id, key, &site, querycache.TagSites)
	if err != nil {
		return nil, err
	}
	return &site, nil
}

// CreateSite creates a site and invalidates the sites bucket.
func (c *Client) CreateSite(ctx context.Context, req CreateSiteRequest) (*Site, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/wordpress/sites", req)
	if err != nil {
		return nil, err
	}
	var site Site
	if err := json.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("decode site: %w", err)
	}
	c.cache.Invalidate(querycache.TagSites)
	return &site, nil
}

// UpdateSite updates a site and invalidates the sites bucket.
func (c *Client) UpdateSite(ctx context.Context, id string, req UpdateSiteRequest) (*Site, error) {
	data, err := c.do(ctx, http.MethodPut, "/api/wordpress/sites/"+id, req)
	if err != nil {
		return nil, err
	}
	var site Site
	if err := json.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("decode site: %w", err)
	}
	c.cache.Invalidate(querycache.TagSites)
	return &site, nil
}

// DeleteSite deletes a site and invalidates the sites bucket.
func (c *Client) DeleteSite(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/wordpress/sites/"+id, nil)
	if err != nil {
		return err
	}
	c.cache.Invalidate(querycache.TagSites)
	return nil
}
