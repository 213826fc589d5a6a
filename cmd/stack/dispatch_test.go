package stack

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/paularlott/cli"
)

// rootCommand builds the same command tree as main, but with fakes behind
// every subcommand so dispatch can be exercised without a cloud.
func rootCommand(d *deps) *cli.Command {
	return &cli.Command{
		Name:     "devstackctl",
		Version:  "test",
		Usage:    "Manage devstack Heat stacks",
		Commands: commands(d),
	}
}

func execute(t *testing.T, args ...string) error {
	t.Helper()

	d, _, _, heatCalls := testDeps(t, &fakeHeat{})

	oldArgs := os.Args
	os.Args = append([]string{"devstackctl"}, args...)
	t.Cleanup(func() { os.Args = oldArgs })

	err := rootCommand(d).Execute(context.Background())
	if *heatCalls != 0 {
		t.Errorf("orchestration client constructed %d times during dispatch", *heatCalls)
	}
	return err
}

func TestExecute_UnknownSubcommand(t *testing.T) {
	err := execute(t, "bogus")
	if err == nil {
		t.Fatal("expected an error for an unknown subcommand")
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error = %v, want mention of the unknown subcommand", err)
	}
}

func TestExecute_Help(t *testing.T) {
	if err := execute(t, "--help"); err != nil {
		t.Errorf("--help should succeed, got %v", err)
	}
}
