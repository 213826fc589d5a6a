package main

import (
	"context"
	"errors"
	"os"

	"github.com/paularlott/cli"
	"github.com/paularlott/cli/env"

	"github.com/martinsuchenak/devstackctl/cmd/kubelet"
	"github.com/martinsuchenak/devstackctl/cmd/stack"
	"github.com/martinsuchenak/devstackctl/internal/log"
	"github.com/martinsuchenak/devstackctl/internal/sshclient"
)

var (
	version = "dev"
)

func main() {
	// Load .env file if it exists
	env.Load()

	// Initialize structured logging
	log.Configure("info", "console")

	rootCmd := &cli.Command{
		Name:        "devstackctl",
		Version:     version,
		Usage:       "Development stack tooling for container networking work",
		Description: "Create, inspect, tear down, and SSH into cloud-hosted development stacks, and bind local kubelet ports to the OVS integration bridge",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:         "log-level",
				Usage:        "Log level (trace, debug, info, warn, error)",
				DefaultValue: "info",
				EnvVars:      []string{"DEVSTACK_LOG_LEVEL"},
				Global:       true,
			},
			&cli.StringFlag{
				Name:         "log-format",
				Usage:        "Log format (console, json)",
				DefaultValue: "console",
				EnvVars:      []string{"DEVSTACK_LOG_FORMAT"},
				Global:       true,
			},
		},
		PreRun: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			log.Configure(cmd.GetString("log-level"), cmd.GetString("log-format"))
			return ctx, nil
		},
		Commands: append(stack.Commands(), kubelet.Command()),
	}

	if err := rootCmd.Execute(context.Background()); err != nil {
		// An interactive session's exit status passes through unchanged.
		var exitErr *sshclient.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}

		log.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}
