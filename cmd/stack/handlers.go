package stack

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/martinsuchenak/devstackctl/internal/config"
	"github.com/martinsuchenak/devstackctl/internal/heat"
	"github.com/martinsuchenak/devstackctl/internal/keys"
	"github.com/martinsuchenak/devstackctl/internal/log"
	"github.com/martinsuchenak/devstackctl/internal/model"
	"github.com/martinsuchenak/devstackctl/internal/sshclient"
)

// deriveStackName decides what the new stack is called. A change identifier
// wins and involves no commit lookup; an explicit non-default name is used
// verbatim; otherwise the name tracks the branch tip.
func (d *deps) deriveStackName(ctx context.Context, arg, change string) (name, commit string, err error) {
	if change != "" {
		return heat.GerritStackName(change), "", nil
	}

	if arg != "" && arg != config.DefaultStackName {
		return arg, "", nil
	}

	sha, err := d.resolver.LatestCommit(ctx, d.cfg.GitHubRepo, d.cfg.GitHubBranch, d.cfg.CloneURL())
	if err != nil {
		return "", "", fmt.Errorf("resolving latest commit: %w", err)
	}

	return heat.StackName(sha), sha, nil
}

func (d *deps) runStack(ctx context.Context, arg, change string) error {
	name, commit, err := d.deriveStackName(ctx, arg, change)
	if err != nil {
		return err
	}

	if !d.confirm(fmt.Sprintf("This will create stack %q on cloud %q", name, d.cfg.Cloud)) {
		return fmt.Errorf("stack creation declined")
	}

	svc, err := d.newHeat(ctx)
	if err != nil {
		return err
	}

	stackID, err := svc.Create(ctx, heat.CreateOpts{
		Name:            name,
		TemplateFile:    d.cfg.TemplateFile,
		EnvironmentFile: d.cfg.EnvironmentFile,
	})
	if err != nil {
		return err
	}

	// Bookkeeping only; a failed record never fails the deployment.
	if store, err := d.newStore(); err != nil {
		log.Warn("Deployment not recorded", "error", err)
	} else {
		defer store.Close()
		err := store.CreateDeployment(&model.Deployment{
			ID:        uuid.New().String(),
			StackName: name,
			StackID:   stackID,
			Commit:    commit,
			Change:    change,
			CreatedAt: time.Now(),
		})
		if err != nil {
			log.Warn("Deployment not recorded", "error", err)
		}
	}

	return d.show(ctx, svc, name)
}

func (d *deps) runUnstack(ctx context.Context, arg string) error {
	name, err := explicitName(arg)
	if err != nil {
		return err
	}

	svc, err := d.newHeat(ctx)
	if err != nil {
		return err
	}

	if err := svc.Delete(ctx, name); err != nil {
		return err
	}

	if store, err := d.newStore(); err == nil {
		defer store.Close()
		if rec, err := store.GetDeployment(name); err == nil && rec.Commit != "" {
			fmt.Fprintf(d.out, "Stack %q was built from commit %s\n", name, rec.Commit)
		}
		if err := store.DeleteDeployment(name); err != nil {
			log.Debug("No local record to drop", "stack", name, "error", err)
		}
	}

	fmt.Fprintf(d.out, "Deletion of stack %q requested\n", name)
	return nil
}

func (d *deps) runShow(ctx context.Context, arg string) error {
	name, err := explicitName(arg)
	if err != nil {
		return err
	}

	svc, err := d.newHeat(ctx)
	if err != nil {
		return err
	}

	return d.show(ctx, svc, name)
}

// show prints the outputs both `show` and a successful `stack` report.
func (d *deps) show(ctx context.Context, svc heat.Service, name string) error {
	outputs, err := svc.Outputs(ctx, name)
	if err != nil {
		return err
	}

	fmt.Fprintf(d.out, "Stack: %s\n", name)
	fmt.Fprintf(d.out, "Subnet: %s\n", outputs.SubnetID)
	fmt.Fprintln(d.out, "Node floating IPs:")
	for _, ip := range outputs.FloatingIPs {
		fmt.Fprintf(d.out, "  %s\n", ip)
	}
	return nil
}

func (d *deps) runGetkey(ctx context.Context, arg string) error {
	name, err := explicitName(arg)
	if err != nil {
		return err
	}

	svc, err := d.newHeat(ctx)
	if err != nil {
		return err
	}

	outputs, err := svc.Outputs(ctx, name)
	if err != nil {
		return err
	}

	fmt.Fprint(d.out, outputs.PrivateKey)
	return nil
}

func (d *deps) runSSH(ctx context.Context, arg string) error {
	name, err := explicitName(arg)
	if err != nil {
		return err
	}

	svc, err := d.newHeat(ctx)
	if err != nil {
		return err
	}

	outputs, err := svc.Outputs(ctx, name)
	if err != nil {
		return err
	}

	if len(outputs.FloatingIPs) == 0 {
		return fmt.Errorf("stack %q exposes no floating IPs", name)
	}

	keyPath, err := keys.WriteStackKey(name, outputs.PrivateKey)
	if err != nil {
		return err
	}

	return d.ssh(ctx, sshclient.Opts{
		Host:    outputs.FloatingIPs[0],
		User:    d.cfg.SSHUser,
		KeyPath: keyPath,
	})
}

func (d *deps) runList(ctx context.Context) error {
	store, err := d.newStore()
	if err != nil {
		return err
	}
	defer store.Close()

	deployments, err := store.ListDeployments()
	if err != nil {
		return err
	}

	if len(deployments) == 0 {
		fmt.Fprintln(d.out, "No recorded stacks")
		return nil
	}

	for _, dep := range deployments {
		line := fmt.Sprintf("%s\t%s", dep.StackName, dep.CreatedAt.Format(time.RFC3339))
		if dep.Commit != "" {
			line += "\tcommit " + dep.Commit
		}
		if dep.Change != "" {
			line += "\tchange " + dep.Change
		}
		fmt.Fprintln(d.out, line)
	}
	return nil
}
