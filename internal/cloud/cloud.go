package cloud

import (
	"context"
	"fmt"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/utils/v2/openstack/clientconfig"

	"github.com/martinsuchenak/devstackctl/internal/log"
)

// Scope bundles the service clients a single invocation needs. Clients are
// built lazily so subcommands that never reach the cloud (bad arguments,
// declined confirmation) never authenticate.
type Scope struct {
	cloud string

	network       *gophercloud.ServiceClient
	orchestration *gophercloud.ServiceClient
}

// NewScope prepares a scope for the named clouds.yaml entry.
func NewScope(cloud string) *Scope {
	return &Scope{cloud: cloud}
}

// Network returns the Neutron client, authenticating on first use.
func (s *Scope) Network(ctx context.Context) (*gophercloud.ServiceClient, error) {
	if s.network != nil {
		return s.network, nil
	}

	client, err := s.serviceClient(ctx, "network")
	if err != nil {
		return nil, err
	}
	s.network = client
	return client, nil
}

// Orchestration returns the Heat client, authenticating on first use.
func (s *Scope) Orchestration(ctx context.Context) (*gophercloud.ServiceClient, error) {
	if s.orchestration != nil {
		return s.orchestration, nil
	}

	client, err := s.serviceClient(ctx, "orchestration")
	if err != nil {
		return nil, err
	}
	s.orchestration = client
	return client, nil
}

func (s *Scope) serviceClient(ctx context.Context, service string) (*gophercloud.ServiceClient, error) {
	log.Debug("Creating service client", "cloud", s.cloud, "service", service)

	client, err := clientconfig.NewServiceClient(ctx, service, &clientconfig.ClientOpts{
		Cloud: s.cloud,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s client for cloud %q: %w", service, s.cloud, err)
	}

	return client, nil
}
