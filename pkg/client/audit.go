package client

import (
	"context"

	"github.com/darmiel/sitegate/internal/api"
	"github.com/darmiel/sitegate/internal/core"
)

type ListAuditsOpts struct {
	Limit uint

	// Action filters entries by audit action, e.g. "batch.check".
	Action string
}

// ListAudits retrieves the latest audit entries from the server, limited to the specified number.
func (c *Client) ListAudits(ctx context.Context, opts ListAuditsOpts) ([]core.AuditEntry, string, error) {
	ub := c.url().setPath(api.ListAuditsRoute)
	if opts.Limit > 0 {
		ub = ub.addQueryParam("limit", opts.Limit)
	}
	if opts.Action != "" {
		ub = ub.addQueryParam("action", opts.Action)
	}
	var resp []core.AuditEntry
	correlation, err := c.get(ctx, ub.build(), &resp)
	return resp, correlation, err
}

// ListActivePasses retrieves the list of currently active gate passes from the server.
func (c *Client) ListActivePasses(ctx context.Context) ([]core.PassMetadata, string, error) {
	var resp []core.PassMetadata
	correlation, err := c.get(ctx, c.url().
		setPath(api.ListPassesRoute).
		build(), &resp)
	return resp, correlation, err
}
