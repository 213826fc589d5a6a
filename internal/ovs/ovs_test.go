package ovs

import (
	"context"
	"strings"
	"testing"

	"github.com/martinsuchenak/devstackctl/internal/runner"
)

// fakeRunner records invocations and replays canned results.
type fakeRunner struct {
	calls  [][]string
	result *runner.Result
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (*runner.Result, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.result == nil {
		return &runner.Result{Command: name, Args: args}, f.err
	}
	return f.result, f.err
}

func TestAddInternalPort(t *testing.T) {
	fake := &fakeRunner{}
	client := NewClient(fake)

	err := client.AddInternalPort(context.Background(), "br-int", "kubelet9d51c62",
		"9d51c62a-52a6-4986-ab08-20fe45e1d2cf", "fa:16:3e:11:22:33")
	if err != nil {
		t.Fatalf("AddInternalPort() error = %v", err)
	}

	if len(fake.calls) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(fake.calls))
	}

	cmd := strings.Join(fake.calls[0], " ")
	for _, want := range []string{
		"ovs-vsctl",
		"--may-exist add-port br-int kubelet9d51c62",
		"set Interface kubelet9d51c62 type=internal",
		"external_ids:iface-status=active",
		"external_ids:attached-mac=fa:16:3e:11:22:33",
		"external_ids:iface-id=9d51c62a-52a6-4986-ab08-20fe45e1d2cf",
	} {
		if !strings.Contains(cmd, want) {
			t.Errorf("command %q missing %q", cmd, want)
		}
	}
}

func TestAddInternalPort_Failure(t *testing.T) {
	fake := &fakeRunner{result: &runner.Result{
		Command:  "ovs-vsctl",
		ExitCode: 1,
		Stderr:   "ovs-vsctl: no bridge named br-int",
	}}
	client := NewClient(fake)

	err := client.AddInternalPort(context.Background(), "br-int", "kubelet9d51c62", "id", "mac")
	if err == nil || !strings.Contains(err.Error(), "no bridge") {
		t.Errorf("expected bridge error, got %v", err)
	}
}
