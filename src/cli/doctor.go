package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"wp-backup/src/config"
	"wp-backup/src/sshexec"
)

// newDoctorCmd reports whether the local tools and the environment are
// ready for a backup, without contacting the remote host. Key material is
// reported only as present or absent.
func newDoctorCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check local prerequisites and environment configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CHECK\tSTATUS\tDETAIL")
			problems := 0

			tools, err := detectSSHFn(ctx)
			switch {
			case err != nil:
				problems++
				fmt.Fprintf(tw, "openssh\terror\t%v\n", err)
			case !sshexec.IsCompatible(tools.SSH.Version):
				problems++
				fmt.Fprintf(tw, "openssh\told\t%s at %s, want %s or newer\n", tools.SSH.Version, tools.SSH.Path, sshexec.RequiredVersion)
			default:
				fmt.Fprintf(tw, "openssh\tok\t%s at %s\n", tools.SSH.Version, tools.SSH.Path)
				fmt.Fprintf(tw, "scp\tok\t%s\n", tools.SCP.Path)
			}

			var defaults strings.Builder
			cfg, err := config.Load(&defaults)
			var missing *config.MissingVarsError
			switch {
			case errors.As(err, &missing):
				for _, name := range missing.Vars {
					problems++
					fmt.Fprintf(tw, "env %s\tmissing\trequired\n", name)
				}
			case err != nil:
				problems++
				fmt.Fprintf(tw, "env\terror\t%v\n", err)
			default:
				fmt.Fprintf(tw, "env %s\tok\t%s\n", config.EnvUser, cfg.SSHUser)
				fmt.Fprintf(tw, "env %s\tok\t%s\n", config.EnvHost, cfg.SSHHost)
				fmt.Fprintf(tw, "env %s\tok\t%s\n", config.EnvPath, cfg.SSHPath)
				fmt.Fprintf(tw, "env %s\t%s\t%s\n", config.EnvDest, defaultedStatus(defaults.String(), config.EnvDest), cfg.Dest)
				fmt.Fprintf(tw, "env %s\t%s\t%s\n", config.EnvIncludeFolders, defaultedStatus(defaults.String(), config.EnvIncludeFolders), strings.Join(cfg.IncludeFolders, ","))
				if cfg.Tag != "" {
					fmt.Fprintf(tw, "env %s\tok\t%s\n", config.EnvTag, cfg.Tag)
				} else {
					fmt.Fprintf(tw, "env %s\tunset\tno tag in artifact names\n", config.EnvTag)
				}
				if cfg.Key != "" {
					fmt.Fprintf(tw, "env %s\tset\tkey authentication\n", config.EnvKey)
				} else {
					fmt.Fprintf(tw, "env %s\tunset\tagent or interactive authentication\n", config.EnvKey)
				}
			}

			tw.Flush()
			if problems > 0 {
				return fmt.Errorf("%d problem(s) found", problems)
			}
			fmt.Fprintln(stdout, "All checks passed")
			return nil
		},
	}
}

func defaultedStatus(log, env string) string {
	if strings.Contains(log, env) {
		return "default"
	}
	return "ok"
}
