package sshexec

import (
	"context"
	"fmt"
	"strings"
)

// Command describes one remote operation as a program name plus an argument
// vector, optionally run from a remote working directory and optionally fed
// data on stdin. Rendering it into a correctly quoted shell line belongs to
// this package; callers never concatenate command strings themselves.
type Command struct {
	Program string
	Args    []string

	// Dir is the remote working directory, quoted and entered with cd
	// before the program runs. Empty runs in the login directory.
	Dir string

	// Stdin is piped to the remote program when non-empty.
	Stdin string
}

// Runner executes commands on the backup host and copies files from it.
// Implementations own quoting, authentication flags, and transport.
type Runner interface {
	// Run executes cmd and returns captured stdout and stderr along with
	// the transport or exit error. A nonzero remote exit surfaces as an
	// *ExitError so callers can branch on the status.
	Run(ctx context.Context, cmd Command) (stdout, stderr string, err error)

	// Download copies remotePath on the host to localPath.
	Download(ctx context.Context, remotePath, localPath string) error
}

// ExitError reports a command that ran but finished with a nonzero status.
// For ssh that is the remote command's own status, except 255, which the
// client reserves for transport failures.
type ExitError struct {
	Status int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("remote command exited with status %d", e.Status)
}

// Script renders cmd as the single shell line handed to the remote side.
// Arguments are single-quoted so remote globbing and word splitting never
// see them; a leading ~ in a path goes through $HOME so the remote shell
// still resolves the home directory.
func Script(cmd Command) string {
	var b strings.Builder
	if cmd.Dir != "" {
		b.WriteString("cd -- ")
		b.WriteString(QuotePath(cmd.Dir))
		b.WriteString(" && ")
	}
	b.WriteString(cmd.Program)
	for _, a := range cmd.Args {
		b.WriteByte(' ')
		b.WriteString(QuotePath(a))
	}
	return b.String()
}

// Quote wraps s in single quotes for a POSIX shell, escaping embedded
// single quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// QuotePath quotes a path argument. A bare ~ or a ~/ prefix is rewritten to
// "$HOME" so it expands remotely; quoting it literally would make the shell
// look for a directory named "~".
func QuotePath(s string) string {
	switch {
	case s == "~":
		return `"$HOME"`
	case strings.HasPrefix(s, "~/"):
		return `"$HOME"/` + Quote(s[2:])
	default:
		return Quote(s)
	}
}
