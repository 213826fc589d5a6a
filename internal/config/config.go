package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// DefaultStackName is the reserved stack name that means "derive a name from
// the latest commit". The lifecycle subcommands refuse it as an explicit
// argument.
const DefaultStackName = "master"

// Config holds the application configuration
type Config struct {
	Cloud           string // clouds.yaml entry used for API authentication
	Hostname        string // host owning created ports
	PodNetwork      string // Neutron network kubelet ports are created in
	Bridge          string // OVS integration bridge
	GitHubRepo      string // owner/repo whose latest commit names a stack
	GitHubBranch    string // branch the latest commit is resolved on
	GitHubToken     string // optional API token; absent means clone fallback
	TemplateFile    string // Heat template passed on stack create
	EnvironmentFile string // Heat environment passed on stack create
	SSHUser         string // login user for the ssh subcommand
	DataDir         string // local deployment history location
	ConfigFile      string // Path to .env file (if loaded)
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Command-line parameters (passed as opts)
// 2. .env file (if exists)
// 3. Environment variables
// 4. Default values
//
// If opts is provided, it overrides all other sources.
func Load(opts *Config) *Config {
	// Fields start zero so the coalesce chains below can layer .env values,
	// then environment variables, then the defaults.
	cfg := &Config{}

	// First, try to load from .env file
	envFile := ".env"
	if _, err := os.Stat(envFile); err == nil {
		if err := loadFromEnvFile(cfg, envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load .env file: %v\n", err)
		} else {
			cfg.ConfigFile = envFile
		}
	}

	// Then load environment variables (only if not already set by .env)
	cfg.Cloud = coalesce(cfg.Cloud, os.Getenv("DEVSTACK_CLOUD"), os.Getenv("OS_CLOUD"), "devstack")
	cfg.Hostname = coalesce(cfg.Hostname, os.Getenv("HOSTNAME"), osHostname())
	cfg.PodNetwork = coalesce(cfg.PodNetwork, os.Getenv("DEVSTACK_POD_NETWORK"), "k8s-pod-net")
	cfg.Bridge = coalesce(cfg.Bridge, os.Getenv("DEVSTACK_OVS_BRIDGE"), "br-int")
	cfg.GitHubRepo = coalesce(cfg.GitHubRepo, os.Getenv("DEVSTACK_HEAT_REPO"), "openstack/kuryr-kubernetes")
	cfg.GitHubBranch = coalesce(cfg.GitHubBranch, os.Getenv("DEVSTACK_HEAT_BRANCH"), "master")
	cfg.GitHubToken = coalesce(cfg.GitHubToken, os.Getenv("DEVSTACK_HEAT_GH_TOKEN"), "")
	cfg.TemplateFile = coalesce(cfg.TemplateFile, os.Getenv("DEVSTACK_HEAT_TEMPLATE"), "hot/devstack_heat_template.yml")
	cfg.EnvironmentFile = coalesce(cfg.EnvironmentFile, os.Getenv("DEVSTACK_HEAT_ENVIRONMENT"), "hot/parameters.yml")
	cfg.SSHUser = coalesce(cfg.SSHUser, os.Getenv("DEVSTACK_SSH_USER"), "ubuntu")
	cfg.DataDir = coalesce(cfg.DataDir, os.Getenv("DEVSTACK_DATA_DIR"), "./data")

	// Finally, apply CLI opts if provided (highest priority)
	if opts != nil {
		if opts.Cloud != "" {
			cfg.Cloud = opts.Cloud
		}
		if opts.Hostname != "" {
			cfg.Hostname = opts.Hostname
		}
		if opts.PodNetwork != "" {
			cfg.PodNetwork = opts.PodNetwork
		}
		if opts.Bridge != "" {
			cfg.Bridge = opts.Bridge
		}
		if opts.GitHubRepo != "" {
			cfg.GitHubRepo = opts.GitHubRepo
		}
		if opts.GitHubBranch != "" {
			cfg.GitHubBranch = opts.GitHubBranch
		}
		if opts.GitHubToken != "" {
			cfg.GitHubToken = opts.GitHubToken
		}
		if opts.TemplateFile != "" {
			cfg.TemplateFile = opts.TemplateFile
		}
		if opts.EnvironmentFile != "" {
			cfg.EnvironmentFile = opts.EnvironmentFile
		}
		if opts.SSHUser != "" {
			cfg.SSHUser = opts.SSHUser
		}
		if opts.DataDir != "" {
			cfg.DataDir = opts.DataDir
		}
	}

	return cfg
}

// CloneURL returns the HTTPS clone URL for the configured repository,
// used by the commit-resolution fallback when no API token is set.
func (c *Config) CloneURL() string {
	return "https://github.com/" + c.GitHubRepo + ".git"
}

// String returns a string representation of the config source
func (c *Config) String() string {
	if c.ConfigFile != "" {
		return fmt.Sprintf(".env file (%s)", c.ConfigFile)
	}
	return "environment variables"
}

// loadFromEnvFile loads configuration from a .env file
func loadFromEnvFile(cfg *Config, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE or KEY="VALUE"
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), "\"")

		// Map .env keys to config fields
		switch key {
		case "DEVSTACK_CLOUD", "OS_CLOUD":
			cfg.Cloud = value
		case "HOSTNAME":
			cfg.Hostname = value
		case "DEVSTACK_POD_NETWORK":
			cfg.PodNetwork = value
		case "DEVSTACK_OVS_BRIDGE":
			cfg.Bridge = value
		case "DEVSTACK_HEAT_REPO":
			cfg.GitHubRepo = value
		case "DEVSTACK_HEAT_BRANCH":
			cfg.GitHubBranch = value
		case "DEVSTACK_HEAT_GH_TOKEN":
			cfg.GitHubToken = value
		case "DEVSTACK_HEAT_TEMPLATE":
			cfg.TemplateFile = value
		case "DEVSTACK_HEAT_ENVIRONMENT":
			cfg.EnvironmentFile = value
		case "DEVSTACK_SSH_USER":
			cfg.SSHUser = value
		case "DEVSTACK_DATA_DIR":
			cfg.DataDir = value
		}
	}

	return scanner.Err()
}

// coalesce returns the first non-empty string value
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func osHostname() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}
	return name
}
