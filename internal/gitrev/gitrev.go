package gitrev

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/martinsuchenak/devstackctl/internal/log"
	"github.com/martinsuchenak/devstackctl/internal/runner"
)

// ErrNoCommit reports that no commit hash could be resolved for the branch.
var ErrNoCommit = errors.New("no commit resolved")

const defaultAPIBase = "https://api.github.com"

// Resolver finds the latest commit on a repository branch. With a token it
// asks the hosting API; without one it falls back to a shallow clone.
type Resolver struct {
	Token   string
	APIBase string        // overridable for tests; defaults to the GitHub API
	HTTP    *http.Client  // defaults to a client with a request timeout
	Run     runner.Runner // used by the clone fallback
}

// LatestCommit returns the commit hash at the tip of branch in repo
// ("owner/name"). cloneURL is used only by the tokenless fallback.
func (r *Resolver) LatestCommit(ctx context.Context, repo, branch, cloneURL string) (string, error) {
	if r.Token != "" {
		return r.viaAPI(ctx, repo, branch)
	}
	return r.viaClone(ctx, cloneURL, branch)
}

// viaAPI asks the hosting API for the branch tip.
func (r *Resolver) viaAPI(ctx context.Context, repo, branch string) (string, error) {
	base := r.APIBase
	if base == "" {
		base = defaultAPIBase
	}

	client := r.HTTP
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	url := fmt.Sprintf("%s/repos/%s/commits/%s", base, repo, branch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building commit request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+r.Token)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching latest commit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("commit lookup for %s@%s: unexpected status %s", repo, branch, resp.Status)
	}

	var commit struct {
		SHA string `json:"sha"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&commit); err != nil {
		return "", fmt.Errorf("decoding commit response: %w", err)
	}

	if commit.SHA == "" {
		return "", fmt.Errorf("%w for %s@%s", ErrNoCommit, repo, branch)
	}

	log.Debug("Resolved latest commit via API", "repo", repo, "branch", branch, "sha", commit.SHA)
	return commit.SHA, nil
}

// viaClone shallow-clones the repository into a scratch directory, reads
// HEAD, and removes the clone again.
func (r *Resolver) viaClone(ctx context.Context, cloneURL, branch string) (string, error) {
	run := r.Run
	if run == nil {
		run = runner.Exec{}
	}

	dir, err := os.MkdirTemp("", "devstackctl-clone-")
	if err != nil {
		return "", fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	res, err := run.Run(ctx, "git", "clone", "--quiet", "--depth", "1", "--branch", branch, cloneURL, dir)
	if err != nil {
		return "", fmt.Errorf("cloning %s: %w", cloneURL, err)
	}
	if err := res.Err(); err != nil {
		return "", fmt.Errorf("cloning %s: %w", cloneURL, err)
	}

	res, err = run.Run(ctx, "git", "-C", dir, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	if err := res.Err(); err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}

	sha := strings.TrimSpace(res.Stdout)
	if sha == "" {
		return "", fmt.Errorf("%w from clone of %s", ErrNoCommit, cloneURL)
	}

	log.Debug("Resolved latest commit via clone", "url", cloneURL, "branch", branch, "sha", sha)
	return sha, nil
}
