package netcfg

import (
	"fmt"
	"net"

	"github.com/vishvananda/netlink"

	"github.com/martinsuchenak/devstackctl/internal/log"
)

// Netlink programs local network interfaces through the kernel. It satisfies
// the link configurer the port binder consumes.
type Netlink struct{}

// SetHardwareAddr sets the interface's MAC address.
func (Netlink) SetHardwareAddr(ifname, mac string) error {
	link, err := netlink.LinkByName(ifname)
	if err != nil {
		return fmt.Errorf("looking up link %s: %w", ifname, err)
	}

	hwAddr, err := net.ParseMAC(mac)
	if err != nil {
		return fmt.Errorf("parsing MAC %q: %w", mac, err)
	}

	if err := netlink.LinkSetHardwareAddr(link, hwAddr); err != nil {
		return fmt.Errorf("setting MAC on %s: %w", ifname, err)
	}

	log.Debug("Interface MAC set", "interface", ifname, "mac", mac)
	return nil
}

// SetUp brings the interface administratively up.
func (Netlink) SetUp(ifname string) error {
	link, err := netlink.LinkByName(ifname)
	if err != nil {
		return fmt.Errorf("looking up link %s: %w", ifname, err)
	}

	if err := netlink.LinkSetUp(link); err != nil {
		return fmt.Errorf("bringing %s up: %w", ifname, err)
	}

	log.Debug("Interface up", "interface", ifname)
	return nil
}

// AddAddr assigns ip/prefixLen to the interface.
func (Netlink) AddAddr(ifname, ip string, prefixLen int) error {
	link, err := netlink.LinkByName(ifname)
	if err != nil {
		return fmt.Errorf("looking up link %s: %w", ifname, err)
	}

	addr, err := netlink.ParseAddr(fmt.Sprintf("%s/%d", ip, prefixLen))
	if err != nil {
		return fmt.Errorf("parsing address %s/%d: %w", ip, prefixLen, err)
	}

	if err := netlink.AddrAdd(link, addr); err != nil {
		return fmt.Errorf("adding %s to %s: %w", addr, ifname, err)
	}

	log.Debug("Address added", "interface", ifname, "address", addr.String())
	return nil
}
