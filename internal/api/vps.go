package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bloghouse/tatame/internal/querycache"
)

// SimpleSetupRequest starts a hosted VPS provisioning run. The backend does
// the SSH work; progress arrives as simpleVps: events on the socket.
type SimpleSetupRequest struct {
	Host     string `json:"host"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SimpleCreateRequest starts a hosted blog creation run.
type SimpleCreateRequest struct {
	Domain string `json:"domain"`
	Title  string `json:"title"`
}

// SetupStarted acknowledges a provisioning request. Channel is the socket
// channel on which this run's events are emitted.
type SetupStarted struct {
	SessionID string `json:"sessionId"`
	Channel   string `json:"channel"`
}

// VPSSimpleSetup asks the backend to provision a VPS.
func (c *Client) VPSSimpleSetup(ctx context.Context, req SimpleSetupRequest) (*SetupStarted, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/vps/simple-setup", req)
	if err != nil {
		return nil, err
	}
	var started SetupStarted
	if err := json.Unmarshal(data, &started); err != nil {
		return nil, fmt.Errorf("decode setup ack: %w", err)
	}
	return &started, nil
}

// BlogSimpleCreate asks the backend to create a hosted blog. Invalidates the
// sites bucket since a successful run adds a site.
func (c *Client) BlogSimpleCreate(ctx context.Context, req SimpleCreateRequest) (*SetupStarted, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/blog/simple-create", req)
	if err != nil {
		return nil, err
	}
	var started SetupStarted
	if err := json.Unmarshal(data, &started); err != nil {
		return nil, fmt.Errorf("decode create ack: %w", err)
	}
	c.cache.Invalidate(querycache.TagSites)
	return &started, nil
}
