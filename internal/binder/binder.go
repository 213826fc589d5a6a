package binder

import (
	"context"
	"fmt"

	"github.com/martinsuchenak/devstackctl/internal/log"
	"github.com/martinsuchenak/devstackctl/internal/model"
	"github.com/martinsuchenak/devstackctl/internal/neutron"
)

// OVS attaches an interface to the integration bridge.
type OVS interface {
	AddInternalPort(ctx context.Context, bridge, ifname, portID, mac string) error
}

// LinkConfigurer programs the resulting Linux interface.
type LinkConfigurer interface {
	SetHardwareAddr(ifname, mac string) error
	SetUp(ifname string) error
	AddAddr(ifname, ip string, prefixLen int) error
}

// Opts configures a bind run.
type Opts struct {
	ProjectID string
	Network   string
	Bridge    string
	Hostname  string
}

// Binder provisions a Neutron port for the local kubelet and wires it into
// the integration bridge as an OVS internal interface.
type Binder struct {
	net  neutron.Service
	ovs  OVS
	link LinkConfigurer
}

// New creates a Binder.
func New(net neutron.Service, ovs OVS, link LinkConfigurer) *Binder {
	return &Binder{net: net, ovs: ovs, link: link}
}

// Bind runs the provisioning sequence. Steps are strictly sequential; the
// first failure aborts the run with the failing step named. Nothing already
// provisioned is rolled back.
//
// A port left behind by an earlier run is reused rather than duplicated;
// the OVS and link steps are idempotent, so rebinding it is safe.
func (b *Binder) Bind(ctx context.Context, opts Opts) (*model.PortBinding, error) {
	port, err := b.net.FindPort(ctx, PortName(opts.Hostname))
	if err != nil {
		return nil, fmt.Errorf("looking for existing kubelet port: %w", err)
	}

	if port != nil {
		log.Info("Reusing existing kubelet port", "port", port.PortID)
	} else {
		sg, err := b.net.DefaultSecurityGroup(ctx, opts.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("resolving default security group: %w", err)
		}

		port, err = b.net.CreatePort(ctx, neutron.PortOpts{
			Name:            PortName(opts.Hostname),
			Network:         opts.Network,
			ProjectID:       opts.ProjectID,
			SecurityGroupID: sg,
			HostID:          opts.Hostname,
		})
		if err != nil {
			return nil, fmt.Errorf("creating kubelet port: %w", err)
		}
	}

	ifname := InterfaceName(port.PortID)
	log.Info("Binding kubelet port", "port", port.PortID, "interface", ifname)

	if err := b.ovs.AddInternalPort(ctx, opts.Bridge, ifname, port.PortID, port.MACAddress); err != nil {
		return nil, fmt.Errorf("attaching %s to %s: %w", ifname, opts.Bridge, err)
	}

	if err := b.link.SetHardwareAddr(ifname, port.MACAddress); err != nil {
		return nil, fmt.Errorf("programming MAC: %w", err)
	}
	if err := b.link.SetUp(ifname); err != nil {
		return nil, fmt.Errorf("bringing interface up: %w", err)
	}

	// One address assignment per fixed IP, each with its own subnet's
	// prefix length.
	for _, fip := range port.FixedIPs {
		prefixLen, err := b.net.SubnetPrefixLen(ctx, fip.SubnetID)
		if err != nil {
			return nil, fmt.Errorf("resolving prefix for subnet %s: %w", fip.SubnetID, err)
		}
		if err := b.link.AddAddr(ifname, fip.IPAddress, prefixLen); err != nil {
			return nil, fmt.Errorf("assigning %s: %w", fip.IPAddress, err)
		}
	}

	return port, nil
}
