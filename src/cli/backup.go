package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"wp-backup/src/backup/content"
)

// addBackupFlags attaches the flags that only apply to the backup run
// itself, so they stay off the subcommands.
func addBackupFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-download", false, "Leave the artifact on the remote host instead of downloading it")
	cmd.Flags().Bool("keep-remote", false, "Keep the remote artifact after a successful download")
}

func runBackup(cmd *cobra.Command, stdout, stderr io.Writer) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sess, err := openSession(stdout, stderr)
	if err != nil {
		return err
	}
	defer sess.guard.Run()

	opts := backupOptions(cmd)
	if !opts.DryRun {
		if _, err := checkSSHBinaries(cmd); err != nil {
			return err
		}
	}

	res, err := content.Backup(ctx, sess.runner, sess.cfg, nowFn(), opts, stdout, stderr)
	if err != nil {
		return err
	}
	if opts.DryRun {
		return nil
	}
	if res.LocalPath != "" {
		fmt.Fprintf(stdout, "Backup complete: %s\n", res.LocalPath)
	} else {
		fmt.Fprintf(stdout, "Backup complete: %s:%s\n", sess.cfg.SSHHost, res.RemoteAbsolutePath)
	}
	return nil
}

func backupOptions(cmd *cobra.Command) content.Options {
	noDownload, _ := cmd.Flags().GetBool("no-download")
	keepRemote, _ := cmd.Flags().GetBool("keep-remote")
	return content.Options{
		Download:   !noDownload,
		KeepRemote: keepRemote,
		DryRun:     getSafetyOptions(cmd).DryRun,
	}
}
