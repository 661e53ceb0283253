package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wp-backup/src/artifact"
	"wp-backup/src/sshexec"
)

func newVerifyCmd(stdout, stderr io.Writer) *cobra.Command {
	var date, kind string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify that an artifact exists at the remote destination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			stamp := date
			if stamp == "" {
				stamp = nowFn().Format(artifact.DateFormat)
			}
			if _, err := time.Parse(artifact.DateFormat, stamp); err != nil {
				return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", stamp)
			}

			sess, err := openSession(stderr, stderr)
			if err != nil {
				return err
			}
			defer sess.guard.Run()

			names := artifact.Names{Date: stamp, Tag: sess.cfg.Tag}
			var name string
			switch kind {
			case artifact.KindContent, "":
				name = names.Content()
			case artifact.KindDatabase:
				name = names.Database()
			default:
				return fmt.Errorf("unsupported --kind %q, want content or database", kind)
			}

			exists := sshexec.Command{Dir: sess.cfg.Dest, Program: "test", Args: []string{"-f", name}}
			if _, errOut, err := sess.runner.Run(ctx, exists); err != nil {
				var xe *sshexec.ExitError
				if errors.As(err, &xe) && xe.Status == 1 {
					return fmt.Errorf("artifact %s not found at %s", name, sess.cfg.Dest)
				}
				if msg := strings.TrimSpace(errOut); msg != "" {
					return fmt.Errorf("verify %s: %v: %s", name, err, msg)
				}
				return fmt.Errorf("verify %s: %w", name, err)
			}
			fmt.Fprintf(stdout, "found: %s at %s\n", name, sess.cfg.Dest)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Artifact date stamp to check (default today)")
	cmd.Flags().StringVar(&kind, "kind", artifact.KindContent, "Artifact kind: content|database")
	return cmd
}
