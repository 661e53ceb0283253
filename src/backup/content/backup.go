package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"wp-backup/src/artifact"
	"wp-backup/src/config"
	"wp-backup/src/sshexec"
	"wp-backup/src/util/render"
)

// probeCleanupTimeout bounds the deferred probe removal, which may run
// after the run context has already been canceled.
const probeCleanupTimeout = 10 * time.Second

// probePrefix starts every verification probe file name. The suffix is a
// fresh UUID per run so concurrent runs against one destination never
// collide.
const probePrefix = ".wp-backup-probe-"

// Backup runs the content backup against runner, strictly stage by stage;
// the first fatal failure aborts the rest. now fixes the artifact date for
// the whole run. Progress goes to stdout, warnings to stderr, and the
// returned error carries the failed stage's sentinel.
func Backup(ctx context.Context, runner sshexec.Runner, cfg config.Config, now time.Time, opts Options, stdout, stderr io.Writer) (Result, error) {
	names := artifact.New(now, cfg.Tag)
	res := Result{ArtifactName: names.Content()}

	if opts.DryRun {
		return res, dryRun(cfg, names, opts, stdout)
	}

	// Ensure the destination directory exists.
	fmt.Fprintf(stdout, "Ensuring destination %s exists on %s\n", cfg.Dest, cfg.SSHHost)
	if _, errOut, err := runner.Run(ctx, mkdirCmd(cfg.Dest)); err != nil {
		return res, stageErr(ErrDestinationUnavailable, err, errOut)
	}

	// Resolve the destination to an absolute path and prove it is writable
	// with a probe file before the real archive is aimed at it.
	out, errOut, err := runner.Run(ctx, resolveCmd(cfg.Dest))
	if err != nil {
		return res, stageErr(ErrDestinationUnverifiable, err, errOut)
	}
	absDest := strings.TrimSpace(out)
	if absDest == "" {
		return res, fmt.Errorf("%w: remote pwd returned nothing", ErrDestinationUnverifiable)
	}
	res.RemoteAbsolutePath = absDest + "/" + names.Content()

	probeName := probePrefix + uuid.NewString()
	probePath := absDest + "/" + probeName
	if _, errOut, err := runner.Run(ctx, probeWriteCmd(cfg.Dest, probeName, res.RemoteAbsolutePath)); err != nil {
		return res, stageErr(ErrDestinationUnverifiable, err, errOut)
	}
	// The probe exists remotely from here on; remove it on every path out
	// of this function, interruption included.
	defer removeProbe(runner, probePath)

	readBack, errOut, err := runner.Run(ctx, probeReadCmd(probePath))
	if err != nil {
		return res, stageErr(ErrDestinationUnverifiable, err, errOut)
	}
	if strings.TrimSpace(readBack) != res.RemoteAbsolutePath {
		return res, fmt.Errorf("%w: probe read back %q, want %q", ErrDestinationUnverifiable, strings.TrimSpace(readBack), res.RemoteAbsolutePath)
	}
	fmt.Fprintf(stdout, "Destination resolved to %s\n", absDest)

	folders, err := selectFolders(cfg.IncludeFolders)
	if err != nil {
		return res, err
	}

	// Build the archive. zip uses nonzero statuses for per-file problems
	// such as unreadable uploads, and those must not fail the run; the
	// existence check below is what decides. Only an archiver that never
	// ran or a dead transport is fatal here.
	fmt.Fprintf(stdout, "Creating %s from %d folder(s) under %s\n", names.Content(), len(folders), cfg.SSHPath)
	if _, errOut, err := runner.Run(ctx, archiveCmd(cfg.SSHPath, res.RemoteAbsolutePath, folders)); err != nil {
		if archiveInvocationFailed(err) {
			return res, stageErr(ErrArchiveCreationFailed, err, errOut)
		}
		fmt.Fprintf(stderr, "warning: archiver finished with complaints, some files may have been skipped: %v\n", err)
	}

	if _, errOut, err := runner.Run(ctx, existsCmd(res.RemoteAbsolutePath)); err != nil {
		return res, stageErr(ErrArtifactMissing, err, errOut)
	}
	fmt.Fprintf(stdout, "Archive verified at %s\n", res.RemoteAbsolutePath)

	if !opts.Download {
		fmt.Fprintln(stdout, "Download disabled, keeping remote artifact")
		return res, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return res, fmt.Errorf("%w: resolve local home: %v", ErrTransferFailed, err)
	}
	localPath := filepath.Join(home, names.Content())
	fmt.Fprintf(stdout, "Downloading %s to %s\n", names.Content(), localPath)
	if err := runner.Download(ctx, res.RemoteAbsolutePath, localPath); err != nil {
		// The remote artifact stays put so the run can be salvaged by hand.
		return res, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	res.LocalPath = localPath
	if info, err := os.Stat(localPath); err == nil {
		fmt.Fprintf(stdout, "Downloaded %s (%s)\n", names.Content(), render.FormatSize(info.Size()))
	}

	if opts.KeepRemote {
		fmt.Fprintln(stdout, "Keeping remote artifact")
		return res, nil
	}
	if _, errOut, err := runner.Run(ctx, removeCmd(res.RemoteAbsolutePath)); err != nil {
		fmt.Fprintf(stderr, "warning: could not remove remote artifact %s: %v\n", res.RemoteAbsolutePath, detail(err, errOut))
	} else {
		fmt.Fprintln(stdout, "Remote artifact removed")
	}
	return res, nil
}

// dryRun prints the commands a real run would execute. The destination is
// shown unresolved because resolving it would mean contacting the host.
func dryRun(cfg config.Config, names artifact.Names, opts Options, stdout io.Writer) error {
	folders, err := selectFolders(cfg.IncludeFolders)
	if err != nil {
		return err
	}
	probeName := probePrefix + uuid.NewString()
	artifactPath := joinRemote(cfg.Dest, names.Content())

	fmt.Fprintf(stdout, "dry run: backup of %s@%s:%s\n", cfg.SSHUser, cfg.SSHHost, cfg.SSHPath)
	preview(stdout, mkdirCmd(cfg.Dest))
	preview(stdout, resolveCmd(cfg.Dest))
	preview(stdout, probeWriteCmd(cfg.Dest, probeName, artifactPath))
	preview(stdout, probeReadCmd(joinRemote(cfg.Dest, probeName)))
	preview(stdout, archiveCmd(cfg.SSHPath, artifactPath, folders))
	preview(stdout, existsCmd(artifactPath))
	if opts.Download {
		fmt.Fprintf(stdout, "would download: %s to ~/%s\n", artifactPath, names.Content())
		if !opts.KeepRemote {
			preview(stdout, removeCmd(artifactPath))
		}
	}
	preview(stdout, removeCmd(joinRemote(cfg.Dest, probeName)))
	return nil
}

func preview(w io.Writer, cmd sshexec.Command) {
	fmt.Fprintf(w, "would run: %s\n", sshexec.Script(cmd))
}

func mkdirCmd(dest string) sshexec.Command {
	return sshexec.Command{Program: "mkdir", Args: []string{"-p", dest}}
}

func resolveCmd(dest string) sshexec.Command {
	return sshexec.Command{Dir: dest, Program: "pwd", Args: []string{"-P"}}
}

func probeWriteCmd(dest, probeName, expect string) sshexec.Command {
	return sshexec.Command{Dir: dest, Program: "tee", Args: []string{probeName}, Stdin: expect + "\n"}
}

func probeReadCmd(probePath string) sshexec.Command {
	return sshexec.Command{Program: "cat", Args: []string{probePath}}
}

func archiveCmd(sitePath, artifactPath string, folders []string) sshexec.Command {
	args := make([]string, 0, len(folders)+len(alwaysIncluded)+len(excludedPatterns)+3)
	args = append(args, "-r", artifactPath)
	args = append(args, folders...)
	args = append(args, alwaysIncluded...)
	args = append(args, "-x")
	args = append(args, excludedPatterns...)
	return sshexec.Command{Dir: sitePath, Program: "zip", Args: args}
}

func existsCmd(path string) sshexec.Command {
	return sshexec.Command{Program: "test", Args: []string{"-f", path}}
}

func removeCmd(path string) sshexec.Command {
	return sshexec.Command{Program: "rm", Args: []string{"-f", path}}
}

// archiveInvocationFailed separates "the archiver never did its job" from
// "the archiver grumbled". Remote 126 and 127 mean the shell could not run
// zip, 255 is the ssh client's transport failure, and a negative status is
// a killed process. Everything else is per-file complaints.
func archiveInvocationFailed(err error) bool {
	var xe *sshexec.ExitError
	if errors.As(err, &xe) {
		return xe.Status == 126 || xe.Status == 127 || xe.Status == 255 || xe.Status < 0
	}
	// The local ssh process could not even start.
	return true
}

// removeProbe deletes the verification probe, best effort and silent. It
// runs while unwinding, so it gets its own short deadline instead of the
// possibly canceled run context.
func removeProbe(runner sshexec.Runner, probePath string) {
	ctx, cancel := context.WithTimeout(context.Background(), probeCleanupTimeout)
	defer cancel()
	runner.Run(ctx, removeCmd(probePath))
}

func stageErr(stage, cause error, remoteStderr string) error {
	return fmt.Errorf("%w: %v", stage, detail(cause, remoteStderr))
}

func detail(cause error, remoteStderr string) error {
	if msg := strings.TrimSpace(remoteStderr); msg != "" {
		return fmt.Errorf("%v: %s", cause, msg)
	}
	return cause
}

func joinRemote(dir, name string) string {
	return strings.TrimSuffix(dir, "/") + "/" + name
}
