package client

import (
	"context"

	"github.com/darmiel/sitegate/internal/api"
	"github.com/darmiel/sitegate/internal/service"
)

// Check evaluates a single person against the server's active ruleset.
func (c *Client) Check(
	ctx context.Context,
	req service.CheckRequest,
) (*service.CheckResponse, string, error) {
	var resp service.CheckResponse
	correlation, err := c.post(ctx, c.url().
		setPath(api.CheckRoute).
		build(), req, &resp)
	if err != nil {
		return nil, correlation, err
	}
	return &resp, correlation, nil
}

// Explain returns the full evaluation trace alongside the verdict.
func (c *Client) Explain(
	ctx context.Context,
	req service.ExplainRequest,
) (*service.ExplainResponse, string, error) {
	var resp service.ExplainResponse
	correlation, err := c.post(ctx, c.url().
		setPath(api.ExplainRoute).
		build(), req, &resp)
	if err != nil {
		return nil, correlation, err
	}
	return &resp, correlation, nil
}
