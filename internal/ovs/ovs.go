package ovs

import (
	"context"
	"fmt"

	"github.com/martinsuchenak/devstackctl/internal/log"
	"github.com/martinsuchenak/devstackctl/internal/runner"
)

// Client drives ovs-vsctl. OVS has no stable local API surface beyond its
// CLI, so calls go through the external command runner.
type Client struct {
	run runner.Runner
}

// NewClient returns an OVS client using the given runner.
func NewClient(run runner.Runner) *Client {
	return &Client{run: run}
}

// AddInternalPort attaches ifname to the bridge as an internal port carrying
// the Neutron port's identity in its external ids. The operation is
// idempotent: re-adding an existing port is not an error.
func (c *Client) AddInternalPort(ctx context.Context, bridge, ifname, portID, mac string) error {
	res, err := c.run.Run(ctx, "ovs-vsctl",
		"--", "--may-exist", "add-port", bridge, ifname,
		"--", "set", "Interface", ifname,
		"type=internal",
		"external_ids:iface-status=active",
		fmt.Sprintf("external_ids:attached-mac=%s", mac),
		fmt.Sprintf("external_ids:iface-id=%s", portID),
	)
	if err != nil {
		return err
	}
	if err := res.Err(); err != nil {
		return fmt.Errorf("adding internal port %s to %s: %w", ifname, bridge, err)
	}

	log.Info("OVS internal port added", "bridge", bridge, "interface", ifname, "port", portID)
	return nil
}
