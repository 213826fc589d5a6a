package neutron

import (
	"context"
	"fmt"
	"net"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/extensions/portsbinding"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/extensions/security/groups"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/ports"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/subnets"
	networkutils "github.com/gophercloud/utils/v2/openstack/networking/v2/networks"

	"github.com/martinsuchenak/devstackctl/internal/log"
	"github.com/martinsuchenak/devstackctl/internal/model"
)

// DeviceOwner marks ports created for the local kubelet so they are
// recognisable in the Neutron port list.
const DeviceOwner = "compute:kuryr"

// PortOpts describes the kubelet port to create.
type PortOpts struct {
	Name            string
	Network         string // network name or ID
	ProjectID       string
	SecurityGroupID string
	HostID          string
}

// Service is the Neutron surface the port binder uses.
type Service interface {
	DefaultSecurityGroup(ctx context.Context, projectID string) (string, error)
	FindPort(ctx context.Context, name string) (*model.PortBinding, error)
	CreatePort(ctx context.Context, opts PortOpts) (*model.PortBinding, error)
	SubnetPrefixLen(ctx context.Context, subnetID string) (int, error)
}

// Client implements Service against a Neutron API endpoint.
type Client struct {
	sc *gophercloud.ServiceClient
}

// NewClient wraps an authenticated networking service client.
func NewClient(sc *gophercloud.ServiceClient) *Client {
	return &Client{sc: sc}
}

// DefaultSecurityGroup resolves the project's "default" security group ID.
func (c *Client) DefaultSecurityGroup(ctx context.Context, projectID string) (string, error) {
	pages, err := groups.List(c.sc, groups.ListOpts{
		ProjectID: projectID,
		Name:      "default",
	}).AllPages(ctx)
	if err != nil {
		return "", fmt.Errorf("listing security groups: %w", err)
	}

	allGroups, err := groups.ExtractGroups(pages)
	if err != nil {
		return "", fmt.Errorf("extracting security groups: %w", err)
	}

	if len(allGroups) == 0 {
		return "", fmt.Errorf("no default security group for project %s", projectID)
	}

	return allGroups[0].ID, nil
}

// FindPort looks for an existing kubelet port by name so a rerun can rebind
// it instead of creating a duplicate. Returns nil when no such port exists.
func (c *Client) FindPort(ctx context.Context, name string) (*model.PortBinding, error) {
	pages, err := ports.List(c.sc, ports.ListOpts{
		Name:        name,
		DeviceOwner: DeviceOwner,
	}).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing ports: %w", err)
	}

	allPorts, err := ports.ExtractPorts(pages)
	if err != nil {
		return nil, fmt.Errorf("extracting ports: %w", err)
	}

	if len(allPorts) == 0 {
		return nil, nil
	}

	return toBinding(&allPorts[0]), nil
}

// CreatePort creates a host-bound kubelet port on the pod network and
// returns the attributes needed to program the local interface.
func (c *Client) CreatePort(ctx context.Context, opts PortOpts) (*model.PortBinding, error) {
	networkID, err := networkutils.IDFromName(ctx, c.sc, opts.Network)
	if err != nil {
		return nil, fmt.Errorf("resolving network %q: %w", opts.Network, err)
	}

	createOpts := ports.CreateOpts{
		NetworkID:      networkID,
		Name:           opts.Name,
		ProjectID:      opts.ProjectID,
		DeviceOwner:    DeviceOwner,
		SecurityGroups: &[]string{opts.SecurityGroupID},
	}

	port, err := ports.Create(ctx, c.sc, portsbinding.CreateOptsExt{
		CreateOptsBuilder: createOpts,
		HostID:            opts.HostID,
	}).Extract()
	if err != nil {
		return nil, fmt.Errorf("creating port %q: %w", opts.Name, err)
	}

	log.Info("Port created", "port", port.ID, "mac", port.MACAddress)

	return toBinding(port), nil
}

func toBinding(port *ports.Port) *model.PortBinding {
	binding := &model.PortBinding{
		PortID:     port.ID,
		MACAddress: port.MACAddress,
	}
	for _, fip := range port.FixedIPs {
		binding.FixedIPs = append(binding.FixedIPs, model.FixedIP{
			IPAddress: fip.IPAddress,
			SubnetID:  fip.SubnetID,
		})
	}
	return binding
}

// SubnetPrefixLen looks up the subnet's CIDR and returns its prefix length.
func (c *Client) SubnetPrefixLen(ctx context.Context, subnetID string) (int, error) {
	subnet, err := subnets.Get(ctx, c.sc, subnetID).Extract()
	if err != nil {
		return 0, fmt.Errorf("fetching subnet %s: %w", subnetID, err)
	}

	_, ipnet, err := net.ParseCIDR(subnet.CIDR)
	if err != nil {
		return 0, fmt.Errorf("parsing subnet CIDR %q: %w", subnet.CIDR, err)
	}

	ones, _ := ipnet.Mask.Size()
	return ones, nil
}
