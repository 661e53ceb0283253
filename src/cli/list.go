package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"wp-backup/src/artifact"
	"wp-backup/src/sshexec"
)

func newListCmd(stdout, stderr io.Writer) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List backup artifacts at the remote destination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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
			switch output {
			case "json":
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			case "table", "":
				return renderTable(stdout, entries)
			default:
				return fmt.Errorf("unsupported --output: %s", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table|json")
	return cmd
}

// fetchArtifacts lists the destination directory and keeps only the names
// this tool produces, oldest first.
func fetchArtifacts(ctx context.Context, runner sshexec.Runner, dest string) ([]artifact.Info, error) {
	stdout, stderr, err := runner.Run(ctx, sshexec.Command{Dir: dest, Program: "ls", Args: []string{"-1"}})
	if err != nil {
		if msg := strings.TrimSpace(stderr); msg != "" {
			return nil, fmt.Errorf("list %s: %v: %s", dest, err, msg)
		}
		return nil, fmt.Errorf("list %s: %w", dest, err)
	}

	entries := make([]artifact.Info, 0, 8)
	for _, line := range strings.Split(stdout, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		if info, ok := artifact.Parse(name); ok {
			entries = append(entries, info)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		if entries[i].Kind != entries[j].Kind {
			return entries[i].Kind < entries[j].Kind
		}
		return entries[i].Tag < entries[j].Tag
	})
	return entries, nil
}

func renderTable(w io.Writer, entries []artifact.Info) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTAG\tKIND\tNAME")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Date, e.Tag, e.Kind, e.Name)
	}
	return tw.Flush()
}
