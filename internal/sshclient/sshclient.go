package sshclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"golang.org/x/crypto/ssh"
	"golang.org/x/term"

	"github.com/martinsuchenak/devstackctl/internal/log"
)

// ExitError carries the remote session's exit status so the caller can
// propagate it as the process exit code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("remote session exited with status %d", e.Code)
}

// Opts configures an interactive session.
type Opts struct {
	Host    string
	User    string
	KeyPath string
	Port    int // defaults to 22
}

// Interactive opens an interactive shell on the remote host using the given
// private key. Host key verification is disabled: the target is a freshly
// provisioned development VM whose key is never known in advance. The
// remote exit status is returned as an *ExitError.
func Interactive(ctx context.Context, opts Opts) error {
	key, err := os.ReadFile(opts.KeyPath)
	if err != nil {
		return fmt.Errorf("reading key %s: %w", opts.KeyPath, err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return fmt.Errorf("parsing key %s: %w", opts.KeyPath, err)
	}

	port := opts.Port
	if port == 0 {
		port = 22
	}
	addr := net.JoinHostPort(opts.Host, fmt.Sprintf("%d", port))

	config := &ssh.ClientConfig{
		User:            opts.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return fmt.Errorf("ssh handshake with %s: %w", addr, err)
	}

	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("opening session: %w", err)
	}
	defer session.Close()

	session.Stdin = os.Stdin
	session.Stdout = os.Stdout
	session.Stderr = os.Stderr

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("setting raw terminal mode: %w", err)
		}
		defer term.Restore(fd, state)

		width, height, err := term.GetSize(fd)
		if err != nil {
			width, height = 80, 24
		}

		termType := os.Getenv("TERM")
		if termType == "" {
			termType = "xterm"
		}

		modes := ssh.TerminalModes{
			ssh.ECHO:          1,
			ssh.TTY_OP_ISPEED: 14400,
			ssh.TTY_OP_OSPEED: 14400,
		}
		if err := session.RequestPty(termType, height, width, modes); err != nil {
			return fmt.Errorf("requesting pty: %w", err)
		}
	}

	log.Debug("Starting interactive session", "host", opts.Host, "user", opts.User)

	if err := session.Shell(); err != nil {
		return fmt.Errorf("starting shell: %w", err)
	}

	if err := session.Wait(); err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Code: exitErr.ExitStatus()}
		}
		return fmt.Errorf("session ended: %w", err)
	}

	return nil
}
