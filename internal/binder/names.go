package binder

// ifacePrefix starts every kubelet interface name.
const ifacePrefix = "kubelet"

// maxIfaceLen bounds interface names; IFNAMSIZ is 16 including the NUL, and
// the original tooling stayed two under that.
const maxIfaceLen = 14

// InterfaceName derives the local interface name for a kubelet port: the
// fixed prefix plus the port ID, truncated to fit.
func InterfaceName(portID string) string {
	name := ifacePrefix + portID
	if len(name) > maxIfaceLen {
		name = name[:maxIfaceLen]
	}
	return name
}

// PortName derives the Neutron port name for the host's kubelet port.
func PortName(hostname string) string {
	return "kubelet-" + hostname
}
