package model

import (
	"time"
)

// Deployment is the local record of a stack this tool created. It is a
// convenience only; the orchestration service owns the real resource.
type Deployment struct {
	ID        string    `json:"id"`
	StackName string    `json:"stack_name"`
	StackID   string    `json:"stack_id,omitempty"`
	Commit    string    `json:"commit,omitempty"`
	Change    string    `json:"change,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StackOutputs are the outputs a development stack exposes, fetched on
// demand and never cached.
type StackOutputs struct {
	SubnetID    string   `json:"subnet_id"`
	FloatingIPs []string `json:"floating_ips"`
	PrivateKey  string   `json:"private_key,omitempty"`
}

// PortBinding describes the Neutron port attributes needed to program the
// local kubelet interface.
type PortBinding struct {
	PortID     string    `json:"port_id"`
	MACAddress string    `json:"mac_address"`
	FixedIPs   []FixedIP `json:"fixed_ips"`
}

// FixedIP is an address assigned to a port together with its owning subnet.
type FixedIP struct {
	IPAddress string `json:"ip_address"`
	SubnetID  string `json:"subnet_id"`
}
