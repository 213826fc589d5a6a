package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	for _, key := range []string{
		"DEVSTACK_CLOUD", "OS_CLOUD", "DEVSTACK_POD_NETWORK", "DEVSTACK_OVS_BRIDGE",
		"DEVSTACK_HEAT_REPO", "DEVSTACK_HEAT_BRANCH", "DEVSTACK_HEAT_GH_TOKEN",
		"DEVSTACK_HEAT_TEMPLATE", "DEVSTACK_HEAT_ENVIRONMENT", "DEVSTACK_SSH_USER",
		"DEVSTACK_DATA_DIR",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load(nil)

	if cfg.Cloud != "devstack" {
		t.Errorf("Cloud = %q", cfg.Cloud)
	}
	if cfg.Bridge != "br-int" {
		t.Errorf("Bridge = %q", cfg.Bridge)
	}
	if cfg.PodNetwork != "k8s-pod-net" {
		t.Errorf("PodNetwork = %q", cfg.PodNetwork)
	}
	if cfg.GitHubRepo != "openstack/kuryr-kubernetes" {
		t.Errorf("GitHubRepo = %q", cfg.GitHubRepo)
	}
	if cfg.GitHubToken != "" {
		t.Errorf("GitHubToken = %q, want empty", cfg.GitHubToken)
	}
	if cfg.TemplateFile != "hot/devstack_heat_template.yml" {
		t.Errorf("TemplateFile = %q", cfg.TemplateFile)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("DEVSTACK_HEAT_GH_TOKEN", "secret-token")
	t.Setenv("DEVSTACK_OVS_BRIDGE", "br-custom")
	t.Setenv("DEVSTACK_HEAT_REPO", "someone/else")
	t.Setenv("DEVSTACK_SSH_USER", "stack")
	t.Setenv("DEVSTACK_DATA_DIR", "/var/lib/devstackctl")
	t.Setenv("HOSTNAME", "devhost")

	cfg := Load(nil)

	if cfg.GitHubToken != "secret-token" {
		t.Errorf("GitHubToken = %q", cfg.GitHubToken)
	}
	if cfg.Bridge != "br-custom" {
		t.Errorf("Bridge = %q", cfg.Bridge)
	}
	if cfg.GitHubRepo != "someone/else" {
		t.Errorf("GitHubRepo = %q", cfg.GitHubRepo)
	}
	if cfg.SSHUser != "stack" {
		t.Errorf("SSHUser = %q", cfg.SSHUser)
	}
	if cfg.DataDir != "/var/lib/devstackctl" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Hostname != "devhost" {
		t.Errorf("Hostname = %q", cfg.Hostname)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	t.Chdir(t.TempDir())

	envFile := `
# development settings
DEVSTACK_CLOUD="mycloud"
DEVSTACK_HEAT_BRANCH=main

not-a-setting
`
	if err := os.WriteFile(".env", []byte(envFile), 0644); err != nil {
		t.Fatal(err)
	}

	// The .env file outranks plain environment variables
	t.Setenv("DEVSTACK_CLOUD", "envcloud")

	cfg := Load(nil)

	if cfg.Cloud != "mycloud" {
		t.Errorf("Cloud = %q", cfg.Cloud)
	}
	if cfg.GitHubBranch != "main" {
		t.Errorf("GitHubBranch = %q", cfg.GitHubBranch)
	}
	if cfg.ConfigFile != ".env" {
		t.Errorf("ConfigFile = %q", cfg.ConfigFile)
	}
}

func TestLoad_OptsWin(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("DEVSTACK_OVS_BRIDGE", "br-env")

	cfg := Load(&Config{Bridge: "br-cli", PodNetwork: "pods"})

	if cfg.Bridge != "br-cli" {
		t.Errorf("Bridge = %q, want CLI opt to win", cfg.Bridge)
	}
	if cfg.PodNetwork != "pods" {
		t.Errorf("PodNetwork = %q", cfg.PodNetwork)
	}
}

func TestCloneURL(t *testing.T) {
	cfg := &Config{GitHubRepo: "openstack/kuryr-kubernetes"}
	want := "https://github.com/openstack/kuryr-kubernetes.git"
	if got := cfg.CloneURL(); got != want {
		t.Errorf("CloneURL() = %q, want %q", got, want)
	}
}
