package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"wp-backup/src/cleanup"
	"wp-backup/src/config"
	"wp-backup/src/safety"
	"wp-backup/src/sshexec"
)

type sshDetectorFunc func(context.Context) (sshexec.Tools, error)

type runnerFactoryFunc func(user, host, keyPath string) sshexec.Runner

var (
	detectSSHFn sshDetectorFunc   = sshexec.Detect
	newRunnerFn runnerFactoryFunc = newOpenSSHRunner
	nowFn                         = time.Now
)

func newOpenSSHRunner(user, host, keyPath string) sshexec.Runner {
	return sshexec.NewOpenSSH(user, host, keyPath)
}

// checkSSHBinaries verifies the OpenSSH client tools exist and are recent
// enough for the host key options this tool passes. An old release only
// warns, and the run proceeds if confirmed or forced with --yes.
func checkSSHBinaries(cmd *cobra.Command) (sshexec.Tools, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	tools, err := detectSSHFn(ctx)
	if err != nil {
		return sshexec.Tools{}, err
	}
	if sshexec.IsCompatible(tools.SSH.Version) {
		return tools, nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Warning: OpenSSH %s detected; wp-backup expects %s or newer.\n", tools.SSH.Version, sshexec.RequiredVersion)

	opts := getSafetyOptions(cmd)
	if opts.Yes {
		return tools, nil
	}
	ok, err := safety.Confirm(opts, cmd.InOrStdin(), cmd.OutOrStdout(), "Proceed with an unsupported OpenSSH version?")
	if err != nil {
		return sshexec.Tools{}, err
	}
	if !ok {
		return sshexec.Tools{}, errors.New("aborted: OpenSSH version is below supported minimum")
	}
	return tools, nil
}

// session holds everything a remote-touching command needs for one run.
type session struct {
	cfg    config.Config
	runner sshexec.Runner
	guard  *cleanup.Guard
}

// openSession resolves the configuration, materializes the transient key
// file when one is configured, and builds the runner. The caller must defer
// guard.Run so the key file disappears on every exit path.
func openSession(logw, warnw io.Writer) (*session, error) {
	cfg, err := config.Load(logw)
	if err != nil {
		return nil, err
	}

	guard := cleanup.NewGuard(warnw)
	keyPath := ""
	if cfg.Key != "" {
		path, remove, err := sshexec.WriteKeyFile(cfg.Key)
		if err != nil {
			return nil, err
		}
		guard.Register("transient key file", remove)
		keyPath = path
	}

	return &session{
		cfg:    cfg,
		runner: newRunnerFn(cfg.SSHUser, cfg.SSHHost, keyPath),
		guard:  guard,
	}, nil
}

// SetSSHDetectorForTest stubs the OpenSSH detection pipeline. The returned
// function restores the previous detector.
func SetSSHDetectorForTest(fn sshDetectorFunc) func() {
	prev := detectSSHFn
	detectSSHFn = fn
	return func() {
		detectSSHFn = prev
	}
}

// SetRunnerFactoryForTest stubs the runner construction so tests observe
// remote commands instead of executing ssh.
func SetRunnerFactoryForTest(fn runnerFactoryFunc) func() {
	prev := newRunnerFn
	newRunnerFn = fn
	return func() {
		newRunnerFn = prev
	}
}

// SetNowForTest pins the clock that stamps artifact names.
func SetNowForTest(fn func() time.Time) func() {
	prev := nowFn
	nowFn = fn
	return func() {
		nowFn = prev
	}
}
