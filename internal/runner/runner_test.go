package runner

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestExec_Run(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		args     []string
		wantExit int
		wantOut  string
	}{
		{"successful command", "sh", []string{"-c", "echo hello"}, 0, "hello"},
		{"non-zero exit captured", "sh", []string{"-c", "echo oops >&2; exit 3"}, 3, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Exec{}.Run(context.Background(), tt.command, tt.args...)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if res.ExitCode != tt.wantExit {
				t.Errorf("ExitCode = %d, want %d", res.ExitCode, tt.wantExit)
			}

			if got := strings.TrimSpace(res.Stdout); got != tt.wantOut {
				t.Errorf("Stdout = %q, want %q", got, tt.wantOut)
			}
		})
	}
}

func TestExec_Run_MissingBinary(t *testing.T) {
	_, err := Exec{}.Run(context.Background(), "no-such-binary-devstackctl")
	if !errors.Is(err, ErrNotInstalled) {
		t.Errorf("expected ErrNotInstalled, got %v", err)
	}
}

func TestResult_Err(t *testing.T) {
	tests := []struct {
		name    string
		res     Result
		wantNil bool
		wantSub string
	}{
		{"success yields nil", Result{Command: "ovs-vsctl", ExitCode: 0}, true, ""},
		{"stderr preferred", Result{Command: "ovs-vsctl", ExitCode: 1, Stderr: "no bridge"}, false, "no bridge"},
		{"stdout fallback", Result{Command: "git", ExitCode: 128, Stdout: "fatal: bad ref"}, false, "fatal: bad ref"},
		{"bare exit status", Result{Command: "git", ExitCode: 2}, false, "status 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.res.Err()
			if tt.wantNil {
				if err != nil {
					t.Errorf("Err() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("Err() = %v, want containing %q", err, tt.wantSub)
			}
		})
	}
}
