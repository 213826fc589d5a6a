package binder

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestInterfaceName(t *testing.T) {
	tests := []struct {
		name   string
		portID string
		want   string
	}{
		{"uuid truncated", "9d51c62a-52a6-4986-ab08-20fe45e1d2cf", "kubelet9d51c62"},
		{"short id kept whole", "ab12", "kubeletab12"},
		{"empty id", "", "kubelet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InterfaceName(tt.portID); got != tt.want {
				t.Errorf("InterfaceName(%q) = %q, want %q", tt.portID, got, tt.want)
			}
		})
	}
}

func TestInterfaceName_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		portID := rapid.StringMatching(`[0-9a-f-]{0,40}`).Draw(t, "portID")

		name := InterfaceName(portID)

		if !strings.HasPrefix(name, "kubelet") {
			t.Fatalf("name %q missing kubelet prefix", name)
		}
		if len(name) > 14 {
			t.Fatalf("name %q longer than 14 bytes", name)
		}
	})
}

func TestPortName(t *testing.T) {
	if got := PortName("devhost"); got != "kubelet-devhost" {
		t.Errorf("PortName() = %q", got)
	}
}
