package sshexec

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RequiredVersion is the oldest OpenSSH release we support; accept-new host
// key handling appeared in 7.6.
const RequiredVersion = "7.6"

// BinaryInfo describes a detected OpenSSH client binary.
type BinaryInfo struct {
	Path    string
	Version string
}

// Tools bundles the client binaries the backup shells out to. The version
// is reported by ssh; scp ships from the same release.
type Tools struct {
	SSH BinaryInfo
	SCP BinaryInfo
}

var versionRegexp = regexp.MustCompile(`OpenSSH_([0-9]+\.[0-9]+[^ ,]*)`)

// Detect locates ssh and scp on PATH and queries the OpenSSH version. The
// context bounds the version subprocess.
func Detect(ctx context.Context) (Tools, error) {
	sshExe, err := exec.LookPath("ssh")
	if err != nil {
		return Tools{}, fmt.Errorf("ssh binary not found on PATH: %w", err)
	}
	scpExe, err := exec.LookPath("scp")
	if err != nil {
		return Tools{}, fmt.Errorf("scp binary not found on PATH: %w", err)
	}
	ver, err := queryVersion(ctx, sshExe)
	if err != nil {
		return Tools{}, err
	}
	return Tools{
		SSH: BinaryInfo{Path: sshExe, Version: ver},
		SCP: BinaryInfo{Path: scpExe, Version: ver},
	}, nil
}

// IsCompatible reports whether version satisfies the minimum supported
// OpenSSH release. Only major.minor matter; the p suffix is a portability
// patch level.
func IsCompatible(version string) bool {
	left, ok := parseRelease(version)
	if !ok {
		return false
	}
	right, ok := parseRelease(RequiredVersion)
	if !ok {
		return false
	}
	if left.major != right.major {
		return left.major > right.major
	}
	return left.minor >= right.minor
}

// queryVersion executes `ssh -V` and parses the release from its output,
// which OpenSSH writes to stderr.
func queryVersion(ctx context.Context, exe string) (string, error) {
	// Guard against commands that hang by applying a short timeout.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, exe, "-V")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("ssh: capture stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("ssh: capture stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("ssh: start version command: %w", err)
	}

	version, parseErr := parseVersion(stderr)
	if version == "" && parseErr == nil {
		version, parseErr = parseVersion(stdout)
	}
	waitErr := cmd.Wait()
	if parseErr != nil {
		return "", parseErr
	}
	if version == "" {
		return "", errors.New("ssh: could not parse version output")
	}
	if waitErr != nil {
		return "", fmt.Errorf("ssh: version command failed: %w", waitErr)
	}
	return version, nil
}

func parseVersion(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if matches := versionRegexp.FindStringSubmatch(scanner.Text()); len(matches) == 2 {
			return matches[1], nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("ssh: read version output: %w", err)
	}
	return "", nil
}

// ExtractVersion derives the OpenSSH release string from version command
// output. It is primarily exposed for testing.
func ExtractVersion(output string) (string, error) {
	return parseVersion(strings.NewReader(output))
}

type release struct {
	major int
	minor int
}

func parseRelease(s string) (release, bool) {
	s = strings.TrimSpace(s)
	// Strip the portability suffix: 9.6p1 -> 9.6.
	if i := strings.IndexByte(s, 'p'); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return release{}, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return release{}, false
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return release{}, false
	}
	return release{major: major, minor: minor}, true
}
