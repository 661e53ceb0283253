package sshexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// OpenSSH is the production Runner. It shells out to the local ssh and scp
// client binaries rather than speaking the protocol itself, so host keys,
// agents, and ssh_config behave exactly as they do for an operator at a
// prompt.
type OpenSSH struct {
	User string
	Host string

	// KeyPath selects key authentication with only the transient identity
	// file. Empty falls back to the agent or interactive methods.
	KeyPath string

	// BatchMode disables interactive prompting so unattended runs fail
	// fast instead of hanging on a password prompt.
	BatchMode bool

	// SSHPath and SCPPath override the binaries. Empty means PATH lookup.
	SSHPath string
	SCPPath string
}

// NewOpenSSH builds a runner for user@host. Batch mode turns on when no key
// is configured and stdin is not a terminal, the situation a cron job is in.
func NewOpenSSH(user, host, keyPath string) *OpenSSH {
	return &OpenSSH{
		User:      user,
		Host:      host,
		KeyPath:   keyPath,
		BatchMode: keyPath == "" && !term.IsTerminal(int(os.Stdin.Fd())),
	}
}

func (r *OpenSSH) Run(ctx context.Context, cmd Command) (string, string, error) {
	argv := r.SSHArgv(cmd)
	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if cmd.Stdin != "" {
		c.Stdin = strings.NewReader(cmd.Stdin)
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	err := c.Run()
	return stdout.String(), stderr.String(), wrapRunError(err)
}

func (r *OpenSSH) Download(ctx context.Context, remotePath, localPath string) error {
	argv := r.SCPArgv(remotePath, localPath)
	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	c.Stderr = &stderr
	if err := c.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("scp %s: %w: %s", remotePath, wrapRunError(err), msg)
		}
		return fmt.Errorf("scp %s: %w", remotePath, wrapRunError(err))
	}
	return nil
}

// SSHArgv returns the local argument vector Run would execute, which is
// also what dry-run mode prints.
func (r *OpenSSH) SSHArgv(cmd Command) []string {
	argv := []string{r.sshBinary()}
	argv = append(argv, r.commonOptions()...)
	argv = append(argv, "--", r.User+"@"+r.Host, Script(cmd))
	return argv
}

// SCPArgv returns the local argument vector Download would execute. The
// remote path is quoted inside the source operand because scp hands it to
// the remote shell once more.
func (r *OpenSSH) SCPArgv(remotePath, localPath string) []string {
	argv := []string{r.scpBinary()}
	argv = append(argv, r.commonOptions()...)
	argv = append(argv, "--", r.User+"@"+r.Host+":"+QuotePath(remotePath), localPath)
	return argv
}

func (r *OpenSSH) commonOptions() []string {
	// accept-new pins the host key on first contact without the blind
	// trust of "no".
	opts := []string{"-o", "StrictHostKeyChecking=accept-new"}
	if r.BatchMode {
		opts = append(opts, "-o", "BatchMode=yes")
	}
	if r.KeyPath != "" {
		opts = append(opts, "-i", r.KeyPath, "-o", "IdentitiesOnly=yes")
	}
	return opts
}

func (r *OpenSSH) sshBinary() string {
	if r.SSHPath != "" {
		return r.SSHPath
	}
	return "ssh"
}

func (r *OpenSSH) scpBinary() string {
	if r.SCPPath != "" {
		return r.SCPPath
	}
	return "scp"
}

// wrapRunError converts exec's exit error into this package's ExitError so
// callers and fakes see one shape. Spawn failures pass through unchanged.
func wrapRunError(err error) error {
	if err == nil {
		return nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &ExitError{Status: ee.ExitCode()}
	}
	return err
}
