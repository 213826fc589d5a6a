package stack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/paularlott/cli"

	"github.com/martinsuchenak/devstackctl/internal/cloud"
	"github.com/martinsuchenak/devstackctl/internal/config"
	"github.com/martinsuchenak/devstackctl/internal/gitrev"
	"github.com/martinsuchenak/devstackctl/internal/heat"
	"github.com/martinsuchenak/devstackctl/internal/sshclient"
	"github.com/martinsuchenak/devstackctl/internal/storage"
	"github.com/martinsuchenak/devstackctl/internal/ui"
)

// ErrNameRequired is returned by subcommands that refuse to operate on an
// omitted or default stack name.
var ErrNameRequired = errors.New("explicit stack name required")

// commitResolver is the slice of gitrev.Resolver the stack command needs.
type commitResolver interface {
	LatestCommit(ctx context.Context, repo, branch, cloneURL string) (string, error)
}

// deps carries the collaborators of the lifecycle handlers so tests can
// substitute fakes. All cloud-facing members are constructed lazily;
// argument validation happens first and never authenticates.
type deps struct {
	cfg      *config.Config
	newHeat  func(ctx context.Context) (heat.Service, error)
	newStore func() (storage.Storage, error)
	resolver commitResolver
	confirm  func(prompt string) bool
	ssh      func(ctx context.Context, opts sshclient.Opts) error
	out      io.Writer
}

func defaultDeps() *deps {
	d := &deps{
		cfg:     config.Load(nil),
		confirm: ui.ConfirmStdin,
		ssh:     sshclient.Interactive,
		out:     os.Stdout,
	}
	d.newHeat = func(ctx context.Context) (heat.Service, error) {
		sc, err := cloud.NewScope(d.cfg.Cloud).Orchestration(ctx)
		if err != nil {
			return nil, err
		}
		return heat.NewClient(sc), nil
	}
	d.newStore = func() (storage.Storage, error) {
		return storage.NewSQLiteStorage(d.cfg.DataDir)
	}
	d.resolver = &gitrev.Resolver{Token: d.cfg.GitHubToken}
	return d
}

// Commands returns the stack lifecycle subcommands.
func Commands() []*cli.Command {
	return commands(defaultDeps())
}

func commands(d *deps) []*cli.Command {
	return []*cli.Command{
		{
			Name:        "stack",
			Usage:       "Create a development stack",
			Description: "Create a named development stack from the configured Heat template, then show its outputs",
			Arguments: []cli.Argument{
				&cli.StringArg{Name: "name"},
			},
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "gerrit-change",
					Usage: "Build the stack from a review change instead of the branch tip",
				},
			},
			Run: func(ctx context.Context, cmd *cli.Command) error {
				return d.runStack(ctx, cmd.GetStringArg("name"), cmd.GetString("gerrit-change"))
			},
		},
		{
			Name:        "unstack",
			Usage:       "Delete a development stack",
			Description: "Delete the named stack and drop its local record",
			Arguments: []cli.Argument{
				&cli.StringArg{Name: "name"},
			},
			Run: func(ctx context.Context, cmd *cli.Command) error {
				return d.runUnstack(ctx, cmd.GetStringArg("name"))
			},
		},
		{
			Name:        "show",
			Usage:       "Show stack outputs",
			Description: "Print the stack's development subnet and node floating IPs",
			Arguments: []cli.Argument{
				&cli.StringArg{Name: "name"},
			},
			Run: func(ctx context.Context, cmd *cli.Command) error {
				return d.runShow(ctx, cmd.GetStringArg("name"))
			},
		},
		{
			Name:        "getkey",
			Usage:       "Print the stack's private key",
			Description: "Print the stack's private key material to standard output",
			Arguments: []cli.Argument{
				&cli.StringArg{Name: "name"},
			},
			Run: func(ctx context.Context, cmd *cli.Command) error {
				return d.runGetkey(ctx, cmd.GetStringArg("name"))
			},
		},
		{
			Name:        "ssh",
			Usage:       "SSH into the stack's first node",
			Description: "Fetch the stack's key and open an interactive session to its first floating IP",
			Arguments: []cli.Argument{
				&cli.StringArg{Name: "name"},
			},
			Run: func(ctx context.Context, cmd *cli.Command) error {
				return d.runSSH(ctx, cmd.GetStringArg("name"))
			},
		},
		{
			Name:        "list",
			Usage:       "List locally recorded stacks",
			Description: "List the stacks this tool has created, newest first",
			Run: func(ctx context.Context, cmd *cli.Command) error {
				return d.runList(ctx)
			},
		},
	}
}

// explicitName validates that a destructive or read subcommand was given a
// real stack name rather than the reserved default.
func explicitName(arg string) (string, error) {
	if arg == "" || arg == config.DefaultStackName {
		return "", fmt.Errorf("%w (the name %q is reserved)", ErrNameRequired, config.DefaultStackName)
	}
	return arg, nil
}
