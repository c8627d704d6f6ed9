package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/bloghouse/tatame/internal/querycache"
)

// Feature is a platform feature flag for the current account.
type Feature struct {
	Key     string `json:"key"`
	Enabled bool   `json:"enabled"`
}

// Notification is one entry in the account's notification feed.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Member is another platform user surfaced by discovery.
type Member struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Headline  string `json:"headline"`
	Connected bool   `json:"connected"`
}

// Features returns the account's feature flags.
func (c *Client) Features(ctx context.Context) ([]Feature, error) {
	var features []Feature
	err := c.getCached(ctx, "/api/features", "features", &features, querycache.TagFeatures)
	return features, err
}

// Notifications returns the notification feed.
func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var notifications []Notification
	err := c.getCached(ctx, "/api/notifications", "notifications:list", &notifications,
		querycache.TagNotifications)
	return notifications, err
}

// MarkNotificationRead marks one notification as read and invalidates the
// notifications bucket.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPut, "/api/notifications/"+id+"/read", nil)
	if err != nil {
		return err
	}
	c.cache.Invalidate(querycache.TagNotifications)
	return nil
}

// DiscoverMembers returns members matching the query string.
func (c *Client) DiscoverMembers(ctx context.Context, query string) ([]Member, error) {
	path := "/api/users/discover"
	key := "discover"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
		key += ":" + query
	}
	var members []Member
	err := c.getCached(ctx, path, key, &members, querycache.TagDiscover)
	return members, err
}

// RequestConnection sends a connection request to a member. Invalidates both
// the connections and discovery buckets so connection state refreshes.
func (c *Client) RequestConnection(ctx context.Context, memberID string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/connections/request", map[string]string{
		"userId": memberID,
	})
	if err != nil {
		return err
	}
	c.cache.Invalidate(querycache.TagConnections, querycache.TagDiscover)
	return nil
}
