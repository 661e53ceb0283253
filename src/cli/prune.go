package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"wp-backup/src/artifact"
	"wp-backup/src/safety"
	"wp-backup/src/sshexec"
)

func newPruneCmd(stdout, stderr io.Writer) *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "prune [all|content|database]",
		Short: "Delete old artifacts, keeping the newest N per kind",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := "all"
			if len(args) == 1 {
				kind = strings.ToLower(args[0])
			}
			switch kind {
			case "all", artifact.KindContent, artifact.KindDatabase:
			default:
				return fmt.Errorf("unsupported kind %q, want all, content, or database", kind)
			}
			if keep <= 0 {
				return errors.New("--keep must be > 0")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			sess, err := openSession(stderr, stderr)
			if err != nil {
				return err
			}
			defer sess.guard.Run()

			entries, err := fetchArtifacts(ctx, sess.runner, sess.cfg.Dest)
			if err != nil {
				return err
			}
			toDelete := planPrune(entries, kind, keep)

			tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tTAG\tKIND\tNAME\tACTION")
			for _, e := range toDelete {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\tdelete\n", e.Date, e.Tag, e.Kind, e.Name)
			}
			tw.Flush()

			opts := getSafetyOptions(cmd)
			if opts.DryRun || len(toDelete) == 0 {
				return nil
			}
			ok, err := safety.Confirm(opts, cmd.InOrStdin(), stdout, fmt.Sprintf("Delete %d artifact(s) from %s?", len(toDelete), sess.cfg.Dest))
			if err != nil || !ok {
				return err
			}

			deleted := 0
			for _, e := range toDelete {
				rm := sshexec.Command{Dir: sess.cfg.Dest, Program: "rm", Args: []string{"-f", e.Name}}
				if _, errOut, err := sess.runner.Run(ctx, rm); err != nil {
					if msg := strings.TrimSpace(errOut); msg != "" {
						fmt.Fprintf(stderr, "warning: could not delete %s: %v: %s\n", e.Name, err, msg)
					} else {
						fmt.Fprintf(stderr, "warning: could not delete %s: %v\n", e.Name, err)
					}
					continue
				}
				deleted++
			}
			fmt.Fprintf(stdout, "Deleted %d of %d artifact(s)\n", deleted, len(toDelete))
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 3, "Number of recent artifacts to keep per kind")
	return cmd
}

// planPrune returns the artifacts beyond the newest keep per kind, oldest
// first so the preview reads chronologically.
func planPrune(entries []artifact.Info, kind string, keep int) []artifact.Info {
	byKind := map[string][]artifact.Info{}
	for _, e := range entries {
		if kind != "all" && e.Kind != kind {
			continue
		}
		byKind[e.Kind] = append(byKind[e.Kind], e)
	}

	var del []artifact.Info
	for _, group := range byKind {
		sort.Slice(group, func(i, j int) bool {
			if group[i].Date != group[j].Date {
				return group[i].Date < group[j].Date
			}
			return group[i].Tag < group[j].Tag
		})
		if len(group) > keep {
			del = append(del, group[:len(group)-keep]...)
		}
	}
	sort.Slice(del, func(i, j int) bool {
		if del[i].Date != del[j].Date {
			return del[i].Date < del[j].Date
		}
		return del[i].Name < del[j].Name
	})
	return del
}
