package heat

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack/orchestration/v1/stacks"

	"github.com/martinsuchenak/devstackctl/internal/log"
	"github.com/martinsuchenak/devstackctl/internal/model"
)

var ErrStackNotFound = errors.New("stack not found")

// CreateOpts describes a stack creation request. Template and environment
// are paths to local HOT files passed to the orchestration service verbatim.
type CreateOpts struct {
	Name            string
	TemplateFile    string
	EnvironmentFile string
	Parameters      map[string]any
}

// Service is the stack lifecycle surface the subcommands use. It exists so
// handlers can be tested against a fake instead of a live Heat endpoint.
type Service interface {
	Create(ctx context.Context, opts CreateOpts) (string, error)
	Delete(ctx context.Context, name string) error
	Outputs(ctx context.Context, name string) (*model.StackOutputs, error)
}

// Client implements Service against a Heat API endpoint.
type Client struct {
	sc *gophercloud.ServiceClient
}

// NewClient wraps an authenticated orchestration service client.
func NewClient(sc *gophercloud.ServiceClient) *Client {
	return &Client{sc: sc}
}

// Create requests creation of a named stack from the configured template and
// environment files. It returns the new stack's ID without waiting for the
// stack to reach a ready state; provisioning is fire and forget.
func (c *Client) Create(ctx context.Context, opts CreateOpts) (string, error) {
	template := new(stacks.Template)
	data, err := os.ReadFile(opts.TemplateFile)
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", opts.TemplateFile, err)
	}
	template.Bin = data

	environment := new(stacks.Environment)
	data, err = os.ReadFile(opts.EnvironmentFile)
	if err != nil {
		return "", fmt.Errorf("reading environment %s: %w", opts.EnvironmentFile, err)
	}
	environment.Bin = data

	createOpts := stacks.CreateOpts{
		Name:            opts.Name,
		TemplateOpts:    template,
		EnvironmentOpts: environment,
		Parameters:      opts.Parameters,
	}

	created, err := stacks.Create(ctx, c.sc, createOpts).Extract()
	if err != nil {
		return "", fmt.Errorf("creating stack %q: %w", opts.Name, err)
	}

	log.Info("Stack creation requested", "stack", opts.Name, "id", created.ID)
	return created.ID, nil
}

// Delete tears the named stack down.
func (c *Client) Delete(ctx context.Context, name string) error {
	id, err := c.findID(ctx, name)
	if err != nil {
		return err
	}

	if err := stacks.Delete(ctx, c.sc, name, id).ExtractErr(); err != nil {
		return fmt.Errorf("deleting stack %q: %w", name, err)
	}

	log.Info("Stack deletion requested", "stack", name, "id", id)
	return nil
}

// Outputs fetches the named stack and extracts the outputs this tool reads:
// the development subnet, the node floating IPs, and the private key.
func (c *Client) Outputs(ctx context.Context, name string) (*model.StackOutputs, error) {
	id, err := c.findID(ctx, name)
	if err != nil {
		return nil, err
	}

	stack, err := stacks.Get(ctx, c.sc, name, id).Extract()
	if err != nil {
		return nil, fmt.Errorf("fetching stack %q: %w", name, err)
	}

	return parseOutputs(stack.Outputs), nil
}

// findID resolves a stack name to its ID via the list endpoint.
func (c *Client) findID(ctx context.Context, name string) (string, error) {
	pages, err := stacks.List(c.sc, stacks.ListOpts{Name: name}).AllPages(ctx)
	if err != nil {
		return "", fmt.Errorf("listing stacks: %w", err)
	}

	listed, err := stacks.ExtractStacks(pages)
	if err != nil {
		return "", fmt.Errorf("extracting stacks: %w", err)
	}

	for _, stack := range listed {
		if stack.Name == name {
			return stack.ID, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrStackNotFound, name)
}

// Output keys exposed by the development stack template.
const (
	outputSubnet = "vm_subnet"
	outputFIPs   = "node_fips"
	outputKey    = "master_key"
)

func parseOutputs(raw []map[string]any) *model.StackOutputs {
	outputs := &model.StackOutputs{}

	for _, entry := range raw {
		key, _ := entry["output_key"].(string)
		value := entry["output_value"]

		switch key {
		case outputSubnet:
			outputs.SubnetID, _ = value.(string)
		case outputKey:
			outputs.PrivateKey, _ = value.(string)
		case outputFIPs:
			switch v := value.(type) {
			case []any:
				for _, ip := range v {
					if s, ok := ip.(string); ok {
						outputs.FloatingIPs = append(outputs.FloatingIPs, s)
					}
				}
			case string:
				outputs.FloatingIPs = append(outputs.FloatingIPs, v)
			}
		}
	}

	return outputs
}
