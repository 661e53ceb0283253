package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd returns the root cobra command for the wp-backup CLI. Running
// it with no subcommand performs the backup itself; the connection and site
// details come from the environment, so a crontab line stays a single word.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "wp-backup",
		Short:         "Back up WordPress content folders from a remote host over SSH",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(cmd, stdout, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	addGlobalFlags(cmd)
	addBackupFlags(cmd)

	cmd.AddCommand(newVersionCmd(stdout))
	cmd.AddCommand(newListCmd(stdout, stderr))
	cmd.AddCommand(newVerifyCmd(stdout, stderr))
	cmd.AddCommand(newPruneCmd(stdout, stderr))
	cmd.AddCommand(newDoctorCmd(stdout, stderr))

	return cmd
}

// Execute runs the CLI with the process stdio and returns the exit code.
// The context carries signal cancellation from main.
func Execute(ctx context.Context) int {
	root := NewRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		// Errors are silenced on the command tree, so report here.
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
