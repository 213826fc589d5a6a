package kubelet

import (
	"context"
	"fmt"

	"github.com/paularlott/cli"

	"github.com/martinsuchenak/devstackctl/internal/binder"
	"github.com/martinsuchenak/devstackctl/internal/cloud"
	"github.com/martinsuchenak/devstackctl/internal/config"
	"github.com/martinsuchenak/devstackctl/internal/netcfg"
	"github.com/martinsuchenak/devstackctl/internal/neutron"
	"github.com/martinsuchenak/devstackctl/internal/ovs"
	"github.com/martinsuchenak/devstackctl/internal/runner"
)

// Command returns the kubelet port binder subcommand.
func Command() *cli.Command {
	return &cli.Command{
		Name:        "bind-port",
		Usage:       "Bind a kubelet port to the integration bridge",
		Description: "Create a Neutron port for the local host and attach it to the OVS integration bridge as an internal interface",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "project",
				Usage:    "Project ID owning the port",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "network",
				Usage:   "Pod network the port is created in",
				EnvVars: []string{"DEVSTACK_POD_NETWORK"},
			},
			&cli.StringFlag{
				Name:    "bridge",
				Usage:   "OVS integration bridge",
				EnvVars: []string{"DEVSTACK_OVS_BRIDGE"},
			},
		},
		Run: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.Load(&config.Config{
				PodNetwork: cmd.GetString("network"),
				Bridge:     cmd.GetString("bridge"),
			})

			return runBind(ctx, cfg, cmd.GetString("project"))
		},
	}
}

func runBind(ctx context.Context, cfg *config.Config, projectID string) error {
	if cfg.Hostname == "" {
		return fmt.Errorf("cannot determine hostname for port ownership")
	}

	sc, err := cloud.NewScope(cfg.Cloud).Network(ctx)
	if err != nil {
		return err
	}

	b := binder.New(neutron.NewClient(sc), ovs.NewClient(runner.Exec{}), netcfg.Netlink{})

	port, err := b.Bind(ctx, binder.Opts{
		ProjectID: projectID,
		Network:   cfg.PodNetwork,
		Bridge:    cfg.Bridge,
		Hostname:  cfg.Hostname,
	})
	if err != nil {
		return err
	}

	ifname := binder.InterfaceName(port.PortID)
	fmt.Printf("Bound port %s as %s (%s)\n", port.PortID, ifname, port.MACAddress)
	for _, fip := range port.FixedIPs {
		fmt.Printf("  %s (subnet %s)\n", fip.IPAddress, fip.SubnetID)
	}

	return nil
}
